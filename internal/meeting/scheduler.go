package meeting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemow/inboxmeet/internal/logging"
)

// Booker reserves a free slot and returns the created event's ID.
type Booker interface {
	Book(ctx context.Context, booking Booking) (string, error)
}

// Drafter saves a reply draft and returns the draft's ID.
type Drafter interface {
	Draft(ctx context.Context, to, subject, body string) (string, error)
}

// Notifier forwards a short message to a chat channel.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Recorder receives the outcome of every processed request.
type Recorder interface {
	RecordMeetingOutcome(ctx context.Context, status string, alternatives int)
}

// Scheduler processes meeting requests end to end: resolve, check, then book
// or offer alternatives.
type Scheduler struct {
	resolver        *Resolver
	negotiator      *Negotiator
	booker          Booker
	drafter         Drafter
	notifier        Notifier
	recorder        Recorder
	logger          *slog.Logger
	maxAlternatives int
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithDrafter saves a reply draft to the organizer when the requested slot is taken.
func WithDrafter(d Drafter) SchedulerOption {
	return func(s *Scheduler) { s.drafter = d }
}

// WithNotifier announces booked meetings.
func WithNotifier(n Notifier) SchedulerOption {
	return func(s *Scheduler) { s.notifier = n }
}

// WithRecorder records outcomes, typically as metrics.
func WithRecorder(r Recorder) SchedulerOption {
	return func(s *Scheduler) { s.recorder = r }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxAlternatives caps the alternatives offered on conflict. Zero or less
// means no cap.
func WithMaxAlternatives(n int) SchedulerOption {
	return func(s *Scheduler) { s.maxAlternatives = n }
}

// NewScheduler creates a Scheduler.
func NewScheduler(resolver *Resolver, negotiator *Negotiator, booker Booker, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		resolver:        resolver,
		negotiator:      negotiator,
		booker:          booker,
		logger:          slog.Default(),
		maxAlternatives: DefaultMaxAlternatives,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.WithOperation(s.logger, "meeting.process")
	return s
}

// Process handles one meeting request. It never returns a Go error; failures
// are reported as a StatusError result with Err set.
func (s *Scheduler) Process(ctx context.Context, req Request) Result {
	res := s.process(ctx, req)
	if s.recorder != nil {
		s.recorder.RecordMeetingOutcome(ctx, string(res.Status), len(res.Alternatives))
	}

	attrs := []any{logging.Status(string(res.Status)), slog.Int("alternatives", len(res.Alternatives))}
	if !res.Interval.Start.IsZero() {
		attrs = append(attrs, logging.Slot(res.Interval.Start, res.Interval.End))
	}
	if res.Err != nil {
		attrs = append(attrs, logging.Err(res.Err))
	}
	s.logger.Info("meeting request processed", attrs...)
	return res
}

func (s *Scheduler) process(ctx context.Context, req Request) Result {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Meeting"
	}

	interval, err := s.resolver.ResolveInterval(req)
	if err != nil {
		return failed(title, fmt.Errorf("failed to resolve start: %w", err))
	}

	attendees, rejected := ValidateAttendees(req.Attendees, req.OrganizerEmail)
	for _, rerr := range rejected {
		var aerr *AttendeeError
		if errors.As(rerr, &aerr) {
			s.logger.Warn("dropping invalid attendee", logging.Domain(aerr.Address))
		}
	}

	decision, err := s.negotiator.Check(ctx, interval)
	if err != nil {
		return failed(title, err)
	}

	res := Result{Title: title, Interval: interval, Attendees: attendees}
	if !decision.Available {
		res.Status = StatusConflict
		res.Alternatives = capIntervals(decision.Alternatives, s.maxAlternatives)
		res.Message = conflictMessage(res.Alternatives)
		res.DraftID = s.draftAlternatives(ctx, req, title, res.Alternatives)
		return res
	}

	eventID, err := s.booker.Book(ctx, Booking{
		Title:       title,
		Description: req.Description,
		Location:    req.Location,
		Interval:    interval,
		Attendees:   attendees,
	})
	if err != nil {
		return failed(title, &BookingError{Title: title, Err: err})
	}

	res.Status = StatusSuccess
	res.EventID = eventID
	res.Message = fmt.Sprintf("Meeting scheduled for %s", interval)
	s.notify(ctx, fmt.Sprintf("Booked %q for %s with %d attendee(s)", title, interval, len(attendees)))
	return res
}

func (s *Scheduler) draftAlternatives(ctx context.Context, req Request, title string, alternatives []Interval) string {
	if s.drafter == nil || !ValidAddress(req.OrganizerEmail) {
		return ""
	}
	id, err := s.drafter.Draft(ctx, req.OrganizerEmail, "Re: "+title, alternativesBody(title, alternatives))
	if err != nil {
		s.logger.Warn("failed to save reply draft", logging.Err(err))
		return ""
	}
	return id
}

func (s *Scheduler) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.logger.Warn("failed to send notification", logging.Err(err))
	}
}

func failed(title string, err error) Result {
	return Result{Status: StatusError, Title: title, Message: err.Error(), Err: err}
}

func conflictMessage(alternatives []Interval) string {
	if len(alternatives) == 0 {
		return "Requested time is not available and no free slot remains that day"
	}
	return fmt.Sprintf("Requested time is not available; %d alternative(s) proposed", len(alternatives))
}

func alternativesBody(title string, alternatives []Interval) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thanks for the invitation to %q. Unfortunately I am not available at the proposed time.\n\n", title)
	if len(alternatives) == 0 {
		b.WriteString("I have no free slot left on that day. Could you suggest another day?\n")
		return b.String()
	}
	b.WriteString("Would one of these times work instead?\n\n")
	for _, alt := range alternatives {
		fmt.Fprintf(&b, "  - %s\n", alt)
	}
	return b.String()
}
