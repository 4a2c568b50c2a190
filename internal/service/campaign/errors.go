package campaign

import "errors"

// Sentinel errors for the campaign service layer.
var (
	ErrNotFound          = errors.New("campaign not found")
	ErrNotEditable       = errors.New("campaign is no longer editable")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadySending    = errors.New("campaign is already sending or sent")
	ErrScheduleInPast    = errors.New("scheduled time is in the past")
)
