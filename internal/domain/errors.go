package domain

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors wrap one of these so callers can match either level.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateName = errors.New("name already exists")
)

// Domain errors
var (
	ErrBillNotFound     = fmt.Errorf("bill %w", ErrNotFound)
	ErrTemplateNotFound = fmt.Errorf("template %w", ErrNotFound)
	ErrProfileNotFound  = fmt.Errorf("profile %w", ErrNotFound)
	ErrSettingNotFound  = fmt.Errorf("setting %w", ErrNotFound)

	ErrNameRequired        = fmt.Errorf("%w: name is required", ErrValidation)
	ErrNameTooLong         = fmt.Errorf("%w: name exceeds maximum length", ErrValidation)
	ErrNotesTooLong        = fmt.Errorf("%w: notes exceed maximum length", ErrValidation)
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be a non-negative number", ErrValidation)
	ErrInvalidDate         = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidFrequency    = fmt.Errorf("%w: invalid frequency", ErrValidation)
	ErrInvalidMonth        = fmt.Errorf("%w: invalid year or month", ErrValidation)
	ErrInvalidReminderDays = fmt.Errorf("%w: reminder days must not be negative", ErrValidation)
	ErrInvalidFilter       = fmt.Errorf("%w: invalid analytics filter", ErrValidation)
	ErrInvalidCredit       = fmt.Errorf("%w: credit must not be negative", ErrValidation)
	ErrNoBillsToSnapshot   = fmt.Errorf("%w: no bills to create a template from", ErrValidation)
	ErrLastProfile         = fmt.Errorf("%w: cannot delete the last profile", ErrValidation)
)

// Validation constants
const (
	MaxNameLength  = 255
	MaxNotesLength = 2000
	MinYear        = 2000
	MaxYear        = 2100
)
