package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRequest(t *testing.T) {
	body := "Hi,\ncan we schedule a meeting on Friday at 3pm for 2 hours?\nPlease invite bob@example.com too."

	d, ok := DetectRequest("Project sync", body, refNow)
	require.True(t, ok)
	assert.Equal(t, "Project sync", d.Title)
	assert.Equal(t, "friday", d.Date)
	assert.Equal(t, "3:00 pm", d.Time)
	assert.Equal(t, 2*time.Hour, d.Duration)
	assert.Equal(t, []string{"bob@example.com"}, d.Attendees)
}

func TestDetectRequest_DayMonthAndPartOfDay(t *testing.T) {
	d, ok := DetectRequest("", "Let's meet on the 5th of April at 10 in the morning.", refNow)
	require.True(t, ok)
	assert.Equal(t, "Let's meet on the 5th of April at 10 in the morning.", d.Title)
	assert.Equal(t, "5 April 2025", d.Date)
	assert.Equal(t, "10:00 am", d.Time)
	assert.Equal(t, DefaultDuration, d.Duration)

	got, err := fixedResolver().Resolve(d.Date, d.Time)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.April, 5, 10, 0, 0, 0, time.UTC), got)
}

func TestDetectRequest_MonthDayWithYear(t *testing.T) {
	d, ok := DetectRequest("Re: planning", "Would you like to meet on June 12, 2026 at 4:30 PM?", refNow)
	require.True(t, ok)
	assert.Equal(t, "12 June 2026", d.Date)
	assert.Equal(t, "4:30 pm", d.Time)
}

func TestDetectRequest_NotAMeeting(t *testing.T) {
	_, ok := DetectRequest("Lunch menu", "Today we have soup at 12:30 pm.", refNow)
	assert.False(t, ok)
}

func TestDetection_Request(t *testing.T) {
	d := &Detection{
		Title:     "Project sync",
		Date:      "friday",
		Time:      "3:00 pm",
		Duration:  90 * time.Minute,
		Attendees: []string{"bob@example.com"},
	}

	req := d.Request("me@example.com", fixedResolver())
	assert.Equal(t, "Project sync", req.Title)
	assert.Equal(t, "friday", req.StartDate)
	assert.Equal(t, "3:00 pm", req.StartTime)
	assert.Equal(t, "2025-04-04", req.EndDate)
	assert.Equal(t, "16:30", req.EndTime)
	assert.Equal(t, "me@example.com", req.OrganizerEmail)

	d.Duration = DefaultDuration
	req = d.Request("me@example.com", fixedResolver())
	assert.Empty(t, req.EndDate)
	assert.Empty(t, req.EndTime)
}
