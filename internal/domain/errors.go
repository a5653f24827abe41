package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrAlreadyRunning = &AppError{
		Code:       "ALREADY_RUNNING",
		Message:    "Exam session is already running",
		StatusCode: 409,
	}

	ErrNotRunning = &AppError{
		Code:       "NOT_RUNNING",
		Message:    "Exam session is not running",
		StatusCode: 409,
	}

	ErrUnknownEventKind = &AppError{
		Code:       "UNKNOWN_EVENT_KIND",
		Message:    "Unknown detection event kind",
		StatusCode: 422,
	}

	ErrInvalidWeight = &AppError{
		Code:       "INVALID_WEIGHT",
		Message:    "Event weight must be a finite non-negative number",
		StatusCode: 422,
	}

	ErrCaptureUnavailable = &AppError{
		Code:       "CAPTURE_UNAVAILABLE",
		Message:    "Camera or microphone could not be acquired",
		StatusCode: 503,
	}

	ErrUnknownCalibrationStep = &AppError{
		Code:       "UNKNOWN_CALIBRATION_STEP",
		Message:    "Unknown calibration step",
		StatusCode: 422,
	}

	ErrCalibrationNotStarted = &AppError{
		Code:       "CALIBRATION_NOT_STARTED",
		Message:    "Calibration wizard has not been started",
		StatusCode: 409,
	}

	ErrAlertNotFound = &AppError{
		Code:       "ALERT_NOT_FOUND",
		Message:    "Alert not found",
		StatusCode: 404,
	}
)
