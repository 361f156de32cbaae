package model

import (
	"time"
)

// SurveyUser is an anonymous participant identified only by a random UUID.
// Created on first registration, never updated or deleted.
type SurveyUser struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (SurveyUser) TableName() string {
	return "survey_users"
}
