package services

import "errors"

// Common service-level errors
var (
	ErrEmptyNumber = errors.New("phone number is empty")
)
