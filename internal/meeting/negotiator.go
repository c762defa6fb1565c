package meeting

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// BusySource reports the busy intervals of a calendar between from and to.
type BusySource interface {
	Busy(ctx context.Context, from, to time.Time) ([]BusyInterval, error)
}

// BusySourceFunc adapts a function to BusySource.
type BusySourceFunc func(ctx context.Context, from, to time.Time) ([]BusyInterval, error)

// Busy implements BusySource.
func (f BusySourceFunc) Busy(ctx context.Context, from, to time.Time) ([]BusyInterval, error) {
	return f(ctx, from, to)
}

// Overlaps reports whether two half-open intervals share any instant.
// Intervals that merely touch do not overlap.
func Overlaps(a Interval, b BusyInterval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// CheckAvailability decides whether requested is free given busy. Busy entries
// are scanned in the given order and the first conflict ends the scan; the
// alternatives are then searched on the requested day.
func CheckAvailability(requested Interval, busy []BusyInterval, hours WorkingHours) Decision {
	for _, b := range busy {
		if Overlaps(requested, b) {
			return Decision{
				Available:    false,
				Requested:    requested,
				Alternatives: FindAvailableTimes(requested.Start, requested.Duration(), busy, hours),
			}
		}
	}
	return Decision{Available: true, Requested: requested}
}

// FindAvailableTimes sweeps the working window of day and returns one slot of
// the given duration at the start of every gap long enough to hold it, in
// chronological order.
func FindAvailableTimes(day time.Time, duration time.Duration, busy []BusyInterval, hours WorkingHours) []Interval {
	if duration <= 0 {
		return nil
	}
	window := hours.Window(day)

	relevant := make([]BusyInterval, 0, len(busy))
	for _, b := range busy {
		if Overlaps(window, b) {
			relevant = append(relevant, b)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Start.Before(relevant[j].Start)
	})

	var slots []Interval
	cursor := window.Start
	for _, b := range relevant {
		if b.Start.Sub(cursor) >= duration {
			slots = append(slots, Interval{Start: cursor, End: cursor.Add(duration)})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if window.End.Sub(cursor) >= duration {
		slots = append(slots, Interval{Start: cursor, End: cursor.Add(duration)})
	}
	return slots
}

// Negotiator checks requested intervals against a live busy feed.
type Negotiator struct {
	source BusySource
	hours  WorkingHours
}

// NegotiatorOption configures a Negotiator.
type NegotiatorOption func(*Negotiator)

// WithWorkingHours overrides the default 09:00-17:00 window.
func WithWorkingHours(hours WorkingHours) NegotiatorOption {
	return func(n *Negotiator) {
		n.hours = hours
	}
}

// NewNegotiator creates a Negotiator reading busy intervals from source.
func NewNegotiator(source BusySource, opts ...NegotiatorOption) *Negotiator {
	n := &Negotiator{source: source, hours: DefaultWorkingHours}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// WorkingHours returns the configured window.
func (n *Negotiator) WorkingHours() WorkingHours {
	return n.hours
}

// Check fetches the busy intervals covering requested and decides whether it
// is free. On conflict the working day is fetched again to compute
// alternatives.
func (n *Negotiator) Check(ctx context.Context, requested Interval) (Decision, error) {
	if !requested.Valid() {
		return Decision{}, fmt.Errorf("invalid interval %s: end must be after start", requested)
	}
	busy, err := n.source.Busy(ctx, requested.Start, requested.End)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to fetch busy intervals: %w", err)
	}
	for _, b := range busy {
		if !Overlaps(requested, b) {
			continue
		}
		alternatives, err := n.FindAvailable(ctx, requested.Start, requested.Duration())
		if err != nil {
			return Decision{}, err
		}
		return Decision{Available: false, Requested: requested, Alternatives: alternatives}, nil
	}
	return Decision{Available: true, Requested: requested}, nil
}

// FindAvailable returns every free slot of duration in the working window of day.
func (n *Negotiator) FindAvailable(ctx context.Context, day time.Time, duration time.Duration) ([]Interval, error) {
	window := n.hours.Window(day)
	busy, err := n.source.Busy(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch busy intervals for %s: %w", day.Format(time.DateOnly), err)
	}
	return FindAvailableTimes(day, duration, busy, n.hours), nil
}

// ProposeTimes returns at most limit free slots on day. A limit of zero or
// less returns all of them.
func (n *Negotiator) ProposeTimes(ctx context.Context, day time.Time, duration time.Duration, limit int) ([]Interval, error) {
	slots, err := n.FindAvailable(ctx, day, duration)
	if err != nil {
		return nil, err
	}
	return capIntervals(slots, limit), nil
}

func capIntervals(slots []Interval, limit int) []Interval {
	if limit > 0 && len(slots) > limit {
		return slots[:limit]
	}
	return slots
}
