package services

import "errors"

// Domain errors returned by the engine. Handlers map these to HTTP statuses;
// anything else coming out of a service is a storage failure.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateBooking = errors.New("user already has a confirmed booking for this class")
	ErrSlotUnavailable  = errors.New("equipment is not available in that time range")
	ErrInvalidInterval  = errors.New("start time must be before end time")
)

// Booking outcomes. A full class is not an error: the caller is waitlisted
// and the call succeeds.
const (
	BookingOutcomeConfirmed  = "confirmed"
	BookingOutcomeWaitlisted = "waitlisted"
)
