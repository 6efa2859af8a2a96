package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Input validation errors
var (
	ErrInvalidRange    = errors.New("the end date must not be before the start date")
	ErrInvalidQuantity = errors.New("the number of meals must be at least 1")
	ErrInvalidAmount   = errors.New("the amount must be a positive number")
	ErrInvalidRole     = errors.New("the role must be either 'member' or 'admin'")
	ErrInvalidMealType = errors.New("the meal type must be one of 'morning', 'evening' or 'night'")
	ErrWeightNotPositive = errors.New("the meal weight must be larger than zero")
)

// Registration ledger errors
var (
	ErrMealUnavailable = errors.New("this meal is not available for registration")
	ErrDeadlinePassed  = errors.New("the registration deadline for this meal has passed")
)

// Finalization errors
var (
	ErrMonthFinalized   = errors.New("this month is finalized, its records can no longer be changed")
	ErrAlreadyFinalized = errors.New("this month has already been finalized")
)

// Member errors
var (
	ErrEmailNotUnique     = errors.New("a member with this email already exists")
	ErrInvalidCredentials = errors.New("the email or password is incorrect")
)
