package domain

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrNotVerified        = errors.New("account not verified")
	ErrOTPInvalid         = errors.New("invalid or expired otp")
	ErrOTPAttemptsExceeded = errors.New("too many otp attempts")
	ErrRefreshTokenInvalid = errors.New("invalid refresh token")

	ErrForbidden = errors.New("access forbidden")

	ErrPetNotFound       = errors.New("pet not found")
	ErrMicrochipExists   = errors.New("microchip already registered")
	ErrVaccineNotFound   = errors.New("vaccine not found")
	ErrBatchNotFound     = errors.New("vaccine batch not found")
	ErrBatchExpired      = errors.New("vaccine batch expired")
	ErrInsufficientStock = errors.New("insufficient batch stock")

	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSlotUnavailable         = errors.New("slot already booked")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
	ErrInvalidSlot             = errors.New("invalid appointment slot")
	ErrInvalidTransition       = errors.New("invalid status transition")
)
