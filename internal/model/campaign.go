package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DifficultyList stores a campaign's difficulty levels as a JSON-encoded
// column so the same model works on Postgres and SQLite.
type DifficultyList []int

func (d DifficultyList) Value() (driver.Value, error) {
	b, err := json.Marshal([]int(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *DifficultyList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DifficultyList", value)
	}
}

// Campaign is owned by exactly one admin. Difficulties are sorted ascending
// at creation and never mutated afterwards.
type Campaign struct {
	ID           string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AdminID      uint           `gorm:"index;not null" json:"-"`
	Admin        Admin          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Difficulties DifficultyList `gorm:"type:text;not null" json:"difficulties"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (Campaign) TableName() string {
	return "survey_campaigns"
}
