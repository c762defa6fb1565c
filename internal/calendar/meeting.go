package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/inboxmeet/internal/meeting"
)

// MeetingCalendar exposes one calendar of a Client as the busy feed and the
// booker of a meeting.Scheduler.
type MeetingCalendar struct {
	client      *Client
	calendarID  string
	timeZone    string
	sendUpdates string
}

// MeetingCalendarOption configures a MeetingCalendar.
type MeetingCalendarOption func(*MeetingCalendar)

// WithTimeZone sets the IANA zone used for created events.
func WithTimeZone(tz string) MeetingCalendarOption {
	return func(m *MeetingCalendar) { m.timeZone = tz }
}

// WithSendUpdates controls invitation emails for created events.
func WithSendUpdates(mode string) MeetingCalendarOption {
	return func(m *MeetingCalendar) { m.sendUpdates = mode }
}

// NewMeetingCalendar creates a MeetingCalendar. An empty calendarID means the
// primary calendar.
func NewMeetingCalendar(client *Client, calendarID string, opts ...MeetingCalendarOption) *MeetingCalendar {
	if calendarID == "" {
		calendarID = PrimaryCalendarID
	}
	m := &MeetingCalendar{client: client, calendarID: calendarID, sendUpdates: "all"}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Busy implements meeting.BusySource with a freebusy query.
func (m *MeetingCalendar) Busy(ctx context.Context, from, to time.Time) ([]meeting.BusyInterval, error) {
	infos, err := m.client.QueryFreeBusy(ctx, from, to, []string{m.calendarID})
	if err != nil {
		return nil, err
	}

	var busy []meeting.BusyInterval
	for _, info := range infos {
		if len(info.Errors) > 0 {
			return nil, fmt.Errorf("freebusy for calendar %s: %s", info.Calendar, strings.Join(info.Errors, ", "))
		}
		for _, r := range info.Busy {
			busy = append(busy, meeting.BusyInterval{Start: r.Start, End: r.End})
		}
	}
	return busy, nil
}

// Book implements meeting.Booker by inserting an event.
func (m *MeetingCalendar) Book(ctx context.Context, b meeting.Booking) (string, error) {
	event, err := m.client.CreateEvent(ctx, m.calendarID, EventInput{
		Summary:     b.Title,
		Description: b.Description,
		Location:    b.Location,
		Start:       b.Interval.Start,
		End:         b.Interval.End,
		TimeZone:    m.timeZone,
		Attendees:   b.Attendees,
		SendUpdates: m.sendUpdates,
	})
	if err != nil {
		return "", err
	}
	if event.ID == "" {
		return "", errors.New("calendar returned an event without ID")
	}
	return event.ID, nil
}
