package meeting

import (
	"errors"
	"fmt"
)

var (
	// ErrUnparseableDate is returned when no date strategy accepts the input.
	ErrUnparseableDate = errors.New("unparseable date")

	// ErrUnparseableTime is returned when no time strategy accepts the input.
	ErrUnparseableTime = errors.New("unparseable time")

	// ErrNoDateTimeFound is returned when free text contains nothing that
	// resolves to a date or time.
	ErrNoDateTimeFound = errors.New("no date or time found")

	// ErrInvalidAttendeeAddress marks an attendee address that failed
	// validation. It is never fatal; the address is dropped.
	ErrInvalidAttendeeAddress = errors.New("invalid attendee address")

	// ErrBookingFailed wraps failures of the calendar reservation.
	ErrBookingFailed = errors.New("booking failed")
)

// ParseError records which field could not be resolved.
type ParseError struct {
	// Field is "date", "time" or "text"
	Field string

	// Input is the raw value as supplied
	Input string

	// Err is one of the sentinel errors above
	Err error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Input)
}

// Unwrap implements the errors.Unwrap interface
func (e *ParseError) Unwrap() error {
	return e.Err
}

// AttendeeError is reported for each rejected attendee address.
type AttendeeError struct {
	Address string
}

// Error implements the error interface
func (e *AttendeeError) Error() string {
	return fmt.Sprintf("%v: %q", ErrInvalidAttendeeAddress, e.Address)
}

// Unwrap implements the errors.Unwrap interface
func (e *AttendeeError) Unwrap() error {
	return ErrInvalidAttendeeAddress
}

// BookingError wraps a failure returned by a Booker.
type BookingError struct {
	Title string
	Err   error
}

// Error implements the error interface
func (e *BookingError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("%v (%s): %v", ErrBookingFailed, e.Title, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrBookingFailed, e.Err)
}

// Unwrap returns both the sentinel and the cause so errors.Is matches either.
func (e *BookingError) Unwrap() []error {
	return []error{ErrBookingFailed, e.Err}
}
