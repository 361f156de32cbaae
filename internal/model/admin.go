package model

import (
	"time"
)

// Admin is a registered administrator account. Name, email and secret each
// carry their own unique constraint; the secret is rotated via the identifier
// allocator and never exposed in JSON.
type Admin struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Email     *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Secret    string    `gorm:"size:40;uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Admin) TableName() string {
	return "survey_admins"
}
