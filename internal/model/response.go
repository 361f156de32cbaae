package model

import (
	"time"
)

type SubmissionType string

const (
	SubmissionWasm SubmissionType = "wasm"
	SubmissionJS   SubmissionType = "js"
)

func (t SubmissionType) Valid() bool {
	return t == SubmissionWasm || t == SubmissionJS
}

// Response is one benchmark submission by a survey user against a campaign.
// It is created atomically with its measurement rows and exactly one proof
// token, never updated, and removed only when its campaign is deleted.
type Response struct {
	ID                       uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	SurveyUserID             string             `gorm:"type:varchar(36);index;not null" json:"user"`
	SurveyUser               SurveyUser         `json:"-"`
	CampaignID               string             `gorm:"type:varchar(36);index;not null" json:"-"`
	Campaign                 Campaign           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DeviceUserProvided       string             `gorm:"size:255" json:"deviceUserProvided"`
	DeviceSoftwareRecognised string             `gorm:"size:255" json:"deviceSoftwareRecognised"`
	Threads                  *int               `json:"threads"`
	SubmittedAt              time.Time          `json:"submittedAt"`
	SubmissionType           SubmissionType     `gorm:"size:10;not null" json:"submissionType"`
	Benches                  []BenchMeasurement `gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE" json:"benches"`
}

func (Response) TableName() string {
	return "survey_responses"
}

// BenchMeasurement is one (difficulty, duration) pair within a response.
type BenchMeasurement struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	ResponseID uint    `gorm:"index;not null" json:"-"`
	Difficulty int     `gorm:"not null" json:"difficulty"`
	Duration   float64 `gorm:"not null" json:"duration"`
}

func (BenchMeasurement) TableName() string {
	return "survey_benches"
}

// ResponseToken is the uniqueness-checked proof of a submission, handed back
// to the participant as a receipt. Exactly one exists per response.
type ResponseToken struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ResponseID   uint      `gorm:"index;not null" json:"-"`
	Response     Response  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SurveyUserID string    `gorm:"type:varchar(36);index;not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
}

func (ResponseToken) TableName() string {
	return "survey_response_tokens"
}
