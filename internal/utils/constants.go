package utils

import "time"

// Application Constants
const (
	AppName    = "FreightLink"
	AppVersion = "1.0.0"

	// Default values
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Matching Constants
	NearbyRadiusKM   = 50.0 // system-wide "nearby" cutoff
	RatingWeight     = 0.7
	ExperienceWeight = 0.3
	MatchTimeout     = 5 * time.Second
	DirectoryTimeout = 3 * time.Second

	// Route Scanner Constants
	ScheduleWindow     = 24 * time.Hour
	RouteHistoryWindow = 48 * time.Hour

	// Booking Constants
	RequestIDSuffixLength = 4
	MaxBookingWeightKg    = 40000.0

	// Notifications
	NotifyTimeout = 10 * time.Second

	// Rate Limiting
	DefaultRateLimit = 100
)

// Response status strings
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common error messages
const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Unauthorized access"
	ErrForbidden        = "Access forbidden"
)
