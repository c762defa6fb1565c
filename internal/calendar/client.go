package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/inboxmeet/internal/google"
	"github.com/teemow/inboxmeet/internal/instrumentation"
)

// PrimaryCalendarID addresses the account's main calendar.
const PrimaryCalendarID = "primary"

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	account string
	metrics *instrumentation.Metrics
}

// NewClient creates a Calendar client for account using the token from provider.
func NewClient(ctx context.Context, conf *oauth2.Config, provider google.TokenProvider, account string) (*Client, error) {
	httpClient, err := google.HTTPClient(ctx, conf, provider, account)
	if err != nil {
		return nil, err
	}
	return NewClientWithHTTP(ctx, httpClient, account)
}

// NewClientWithHTTP creates a Calendar client on top of an already
// authenticated HTTP client. Extra options are passed to the service, e.g.
// option.WithEndpoint in tests.
func NewClientWithHTTP(ctx context.Context, httpClient *http.Client, account string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{svc: svc, account: account}, nil
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// SetMetrics records every API call of the client on m.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// GetCalendar retrieves information about a specific calendar
func (c *Client) GetCalendar(ctx context.Context, calendarID string) (*CalendarInfo, error) {
	var entry *calendar.CalendarListEntry
	err := instrumentation.TraceGoogleCall(ctx, c.metrics, instrumentation.ServiceCalendar, instrumentation.OperationGet,
		func(ctx context.Context) error {
			var err error
			entry, err = c.svc.CalendarList.Get(calendarID).Context(ctx).Do()
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	info := toCalendarInfo(entry)
	return &info, nil
}

// CreateEvent creates a new timed calendar event
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	if !input.End.After(input.Start) {
		return nil, fmt.Errorf("event end %s is not after start %s",
			input.End.Format(time.RFC3339), input.Start.Format(time.RFC3339))
	}

	var created *calendar.Event
	err := instrumentation.TraceGoogleCall(ctx, c.metrics, instrumentation.ServiceCalendar, instrumentation.OperationCreate,
		func(ctx context.Context) error {
			call := c.svc.Events.Insert(calendarID, toEvent(input)).Context(ctx)
			if input.SendUpdates != "" {
				call = call.SendUpdates(input.SendUpdates)
			}
			var err error
			created, err = call.Do()
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// QueryFreeBusy checks availability for calendars in a time range
func (c *Client) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	items := make([]*calendar.FreeBusyRequestItem, len(calendarIDs))
	for i, id := range calendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	query := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   items,
	}

	var result *calendar.FreeBusyResponse
	err := instrumentation.TraceGoogleCall(ctx, c.metrics, instrumentation.ServiceCalendar, instrumentation.OperationFreeBusy,
		func(ctx context.Context) error {
			var err error
			result, err = c.svc.Freebusy.Query(query).Context(ctx).Do()
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	infos := make([]FreeBusyInfo, 0, len(calendarIDs))
	for _, calID := range calendarIDs {
		cal, ok := result.Calendars[calID]
		if !ok {
			continue
		}
		info := FreeBusyInfo{Calendar: calID}
		for _, busy := range cal.Busy {
			r, err := parseTimeRange(busy)
			if err != nil {
				return nil, fmt.Errorf("calendar %s: %w", calID, err)
			}
			info.Busy = append(info.Busy, r)
		}
		for _, e := range cal.Errors {
			info.Errors = append(info.Errors, e.Reason)
		}
		infos = append(infos, info)
	}

	return infos, nil
}

func parseTimeRange(p *calendar.TimePeriod) (TimeRange, error) {
	start, err := time.Parse(time.RFC3339, p.Start)
	if err != nil {
		return TimeRange{}, fmt.Errorf("invalid busy start %q: %w", p.Start, err)
	}
	end, err := time.Parse(time.RFC3339, p.End)
	if err != nil {
		return TimeRange{}, fmt.Errorf("invalid busy end %q: %w", p.End, err)
	}
	return TimeRange{Start: start, End: end}, nil
}
