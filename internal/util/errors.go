package util

import "errors"

var (
	ErrRegistrationClosed    = errors.New("registration is closed")
	ErrPasswordsDontMatch    = errors.New("passwords do not match")
	ErrNameTaken             = errors.New("username not available")
	ErrEmailTaken            = errors.New("email not available")
	ErrAccountNotFound       = errors.New("account not found")
	ErrWrongPassword         = errors.New("wrong password")
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrInvalidSubmissionType = errors.New("invalid submission type")
)
