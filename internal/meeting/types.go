package meeting

import (
	"fmt"
	"time"
)

// DefaultDuration is used when a request has no usable end time.
const DefaultDuration = time.Hour

// DefaultMaxAlternatives is how many alternative slots are offered on conflict.
const DefaultMaxAlternatives = 3

// Request is a meeting request as extracted from an email.
// Date and time fields hold free text; they are resolved by a Resolver.
type Request struct {
	Title       string `json:"title"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`

	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	EndDate   string `json:"end_date,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	// Attendees is the raw list of attendee addresses. Invalid entries are
	// dropped during scheduling.
	Attendees []string `json:"attendees,omitempty"`

	// OrganizerEmail is used as the sole attendee when no valid attendee remains.
	OrganizerEmail string `json:"organizer_email,omitempty"`
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether End is strictly after Start.
func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

// Duration returns the length of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// String formats the interval for humans, e.g. "Fri Apr 5 15:00-16:00 IST".
func (i Interval) String() string {
	if i.Start.YearDay() == i.End.YearDay() && i.Start.Year() == i.End.Year() {
		return fmt.Sprintf("%s-%s", i.Start.Format("Mon Jan 2 15:04"), i.End.Format("15:04 MST"))
	}
	return fmt.Sprintf("%s - %s", i.Start.Format("Mon Jan 2 15:04"), i.End.Format("Mon Jan 2 15:04 MST"))
}

// BusyInterval is an occupied range reported by a calendar.
// A busy list may be unordered and may contain overlapping entries.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WorkingHours is the daily window in which alternatives are searched,
// expressed as offsets from local midnight.
type WorkingHours struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// DefaultWorkingHours is 09:00-17:00.
var DefaultWorkingHours = WorkingHours{Start: 9 * time.Hour, End: 17 * time.Hour}

// Window returns the working window on the calendar day of day, in day's
// location. Both ends are wall-clock times, so DST changes do not shift them.
func (w WorkingHours) Window(day time.Time) Interval {
	return Interval{Start: wallClock(day, w.Start), End: wallClock(day, w.End)}
}

func wallClock(day time.Time, offset time.Duration) time.Time {
	y, m, d := day.Date()
	h := int(offset / time.Hour)
	minute := int(offset % time.Hour / time.Minute)
	sec := int(offset % time.Minute / time.Second)
	return time.Date(y, m, d, h, minute, sec, 0, day.Location())
}

// Validate checks that the window is non-empty and within a single day.
func (w WorkingHours) Validate() error {
	if w.Start < 0 || w.End > 24*time.Hour {
		return fmt.Errorf("working hours must lie within one day, got %s-%s", w.Start, w.End)
	}
	if w.End <= w.Start {
		return fmt.Errorf("working hours end (%s) must be after start (%s)", w.End, w.Start)
	}
	return nil
}

// Decision is the outcome of an availability check.
type Decision struct {
	Available    bool       `json:"available"`
	Requested    Interval   `json:"requested"`
	Alternatives []Interval `json:"alternatives,omitempty"`
}

// Status is the outcome of processing a meeting request.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusConflict Status = "conflict"
	StatusError    Status = "error"
)

// Booking is what gets reserved on the calendar once a slot is free.
type Booking struct {
	Title       string
	Description string
	Location    string
	Interval    Interval
	Attendees   []string
}

// Result is returned by Scheduler.Process.
type Result struct {
	Status       Status     `json:"status"`
	Message      string     `json:"message"`
	EventID      string     `json:"event_id,omitempty"`
	DraftID      string     `json:"draft_id,omitempty"`
	Title        string     `json:"title,omitempty"`
	Interval     Interval   `json:"interval"`
	Attendees    []string   `json:"attendees,omitempty"`
	Alternatives []Interval `json:"alternatives,omitempty"`

	// Err holds the underlying error for StatusError results.
	Err error `json:"-"`
}
