package services

import "errors"

// Sentinel errors the HTTP layer maps onto status codes and error codes.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidAttempt      = errors.New("attempt values out of range")
	ErrNotEnrolled         = errors.New("user is not enrolled in this course")
	ErrEnrollmentNotActive = errors.New("enrollment is not active")
	ErrAlreadyEnrolled     = errors.New("user already has an active enrollment")
	ErrFeeAlreadyPaid      = errors.New("tuition fee is already paid")
)
