package domain

import "errors"

var (
	// ErrNoMatch is returned when no listing clears the acceptance threshold
	ErrNoMatch = errors.New("no acceptable product match found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrListNotFound is returned when a ration list does not exist for the user
	ErrListNotFound = errors.New("ration list not found")

	// ErrOCRFailure is returned when the OCR provider request fails
	ErrOCRFailure = errors.New("OCR provider request failed")

	// ErrRetailerUnavailable is returned when a retailer fetch fails; callers
	// fall back to static price data rather than surface it
	ErrRetailerUnavailable = errors.New("retailer source unavailable")

	// ErrUnauthorized is returned when the request has no valid user session
	ErrUnauthorized = errors.New("missing or invalid authorization")
)
