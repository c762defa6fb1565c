package meeting_tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxmeet/internal/meeting"
	"github.com/teemow/inboxmeet/internal/server"
)

// Wednesday, 2 April 2025.
var testNow = time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC)

type fakeCalendar struct {
	busy   []meeting.BusyInterval
	booked []meeting.Booking
}

func (f *fakeCalendar) Busy(_ context.Context, from, to time.Time) ([]meeting.BusyInterval, error) {
	var out []meeting.BusyInterval
	for _, b := range f.busy {
		if b.Start.Before(to) && b.End.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeCalendar) Book(_ context.Context, b meeting.Booking) (string, error) {
	f.booked = append(f.booked, b)
	return "evt-1", nil
}

func newTestServerContext(t *testing.T, cal *fakeCalendar) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Resolver: meeting.NewResolver(meeting.WithClock(func() time.Time { return testNow })),
		Services: func(context.Context, string) (*server.AccountServices, error) {
			return &server.AccountServices{Busy: cal, Booker: cal}, nil
		},
	})
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func requestWithArgs(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected a result with content")
	}
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content type %T", result.Content[0])
	return ""
}

// Friday 4 April 2025, 15:00-16:00 UTC.
func fridayAfternoon() meeting.BusyInterval {
	start := time.Date(2025, time.April, 4, 15, 0, 0, 0, time.UTC)
	return meeting.BusyInterval{Start: start, End: start.Add(time.Hour)}
}

func TestRegisterMeetingTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "1.0.0")
	if err := RegisterMeetingTools(s, newTestServerContext(t, &fakeCalendar{})); err != nil {
		t.Fatalf("RegisterMeetingTools() error = %v", err)
	}
}

func TestHandleResolveDateTime(t *testing.T) {
	sc := newTestServerContext(t, &fakeCalendar{})

	tests := []struct {
		name    string
		args    map[string]interface{}
		want    string
		wantErr bool
	}{
		{"date and time", map[string]interface{}{"date": "Friday", "time": "3 PM"}, "2025-04-04T15:00:00Z", false},
		{"zone abbreviation", map[string]interface{}{"date": "2025-04-04", "time": "3:00 PM (IST)"}, "2025-04-04T15:00:00+05:30", false},
		{"text", map[string]interface{}{"text": "Could we talk at 3:30 PM?"}, "2025-04-02T15:30:00Z", false},
		{"nothing given", map[string]interface{}{}, "", true},
		{"unparseable", map[string]interface{}{"date": "someday", "time": "3 PM"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleResolveDateTime(context.Background(), requestWithArgs(tt.args), sc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v", result.IsError, tt.wantErr)
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("result %q does not contain %q", text, tt.want)
			}
		})
	}
}

func TestHandleDetectRequest(t *testing.T) {
	sc := newTestServerContext(t, &fakeCalendar{})

	result, err := handleDetectRequest(context.Background(), requestWithArgs(map[string]interface{}{
		"subject": "Project sync",
		"body":    "Can we schedule a meeting on Friday at 3pm?",
	}), sc)
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	text := resultText(t, result)
	for _, want := range []string{"Meeting request detected", `"date": "friday"`, `"time": "3:00 pm"`} {
		if !strings.Contains(text, want) {
			t.Errorf("result %q does not contain %q", text, want)
		}
	}

	result, _ = handleDetectRequest(context.Background(), requestWithArgs(map[string]interface{}{
		"subject": "Lunch menu",
		"body":    "Soup today.",
	}), sc)
	if text := resultText(t, result); text != "No meeting request detected" {
		t.Errorf("unexpected result %q", text)
	}
}

func TestHandleCheckAvailability(t *testing.T) {
	sc := newTestServerContext(t, &fakeCalendar{busy: []meeting.BusyInterval{fridayAfternoon()}})

	result, err := handleCheckAvailability(context.Background(), requestWithArgs(map[string]interface{}{
		"start_date": "Friday",
		"start_time": "10 AM",
	}), sc)
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	if text := resultText(t, result); !strings.HasPrefix(text, "Available") {
		t.Errorf("expected slot to be available, got %q", text)
	}

	result, _ = handleCheckAvailability(context.Background(), requestWithArgs(map[string]interface{}{
		"start_date": "Friday",
		"start_time": "3:30 PM",
	}), sc)
	text := resultText(t, result)
	if !strings.HasPrefix(text, "Not available") || !strings.Contains(text, "Alternatives") {
		t.Errorf("expected conflict with alternatives, got %q", text)
	}

	result, _ = handleCheckAvailability(context.Background(), requestWithArgs(map[string]interface{}{"start_date": "Friday"}), sc)
	if !result.IsError {
		t.Error("expected error without start_time")
	}
}

func TestHandleFindAvailableTimes(t *testing.T) {
	sc := newTestServerContext(t, &fakeCalendar{busy: []meeting.BusyInterval{fridayAfternoon()}})

	result, err := handleFindAvailableTimes(context.Background(), requestWithArgs(map[string]interface{}{
		"date":             "Friday",
		"duration_minutes": float64(30),
		"limit":            float64(1),
	}), sc)
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Found 1 available slot(s) of 30 minutes") || !strings.Contains(text, "Fri Apr 4 09:00-09:30") {
		t.Errorf("unexpected result %q", text)
	}

	result, _ = handleFindAvailableTimes(context.Background(), requestWithArgs(map[string]interface{}{"date": "someday"}), sc)
	if !result.IsError {
		t.Error("expected error for unparseable date")
	}
}

func TestHandleSchedule(t *testing.T) {
	cal := &fakeCalendar{busy: []meeting.BusyInterval{fridayAfternoon()}}
	sc := newTestServerContext(t, cal)

	result, err := handleSchedule(context.Background(), requestWithArgs(map[string]interface{}{
		"title":           "Project sync",
		"start_date":      "Friday",
		"start_time":      "10 AM",
		"attendees":       "bob@example.com, not-an-address",
		"organizer_email": "alice@example.com",
	}), sc)
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Status: success") || !strings.Contains(text, "Event ID: evt-1") {
		t.Errorf("unexpected result %q", text)
	}
	if len(cal.booked) != 1 {
		t.Fatalf("expected one booking, got %d", len(cal.booked))
	}
	if got := cal.booked[0].Attendees; len(got) != 1 || got[0] != "bob@example.com" {
		t.Errorf("unexpected attendees %v", got)
	}

	result, _ = handleSchedule(context.Background(), requestWithArgs(map[string]interface{}{
		"title":      "Clash",
		"start_date": "Friday",
		"start_time": "3 PM",
	}), sc)
	if text := resultText(t, result); !strings.Contains(text, "Status: conflict") {
		t.Errorf("expected conflict, got %q", text)
	}
	if len(cal.booked) != 1 {
		t.Errorf("conflicting request must not be booked")
	}

	result, _ = handleSchedule(context.Background(), requestWithArgs(map[string]interface{}{
		"start_date": "someday",
		"start_time": "3 PM",
	}), sc)
	if !result.IsError {
		t.Error("expected error result for unparseable date")
	}
}
