package meeting

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_ExtractFromText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected time.Time
	}{
		{
			name:     "time only lands on reference date",
			text:     "Can we talk at 3:30 PM?",
			expected: time.Date(2025, time.April, 2, 15, 30, 0, 0, time.UTC),
		},
		{
			name:     "compact meridiem",
			text:     "ping me at 9:05am",
			expected: time.Date(2025, time.April, 2, 9, 5, 0, 0, time.UTC),
		},
		{
			name:     "time with seconds",
			text:     "deadline is 12:30:45 pm sharp",
			expected: time.Date(2025, time.April, 2, 12, 30, 45, 0, time.UTC),
		},
		{
			name:     "month name date",
			text:     "The review is on December 31, 2020 as agreed.",
			expected: time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "first candidate in text order wins",
			text:     "At 10:00 AM on December 31, 2020",
			expected: time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	r := fixedResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ExtractFromText(tt.text)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestResolver_ExtractFromText_SkipsInvalidClock(t *testing.T) {
	r := fixedResolver()

	got, err := r.ExtractFromText("not 13:00 pm but 1:00 pm")
	require.NoError(t, err)
	assert.Equal(t, 13, got.Hour())
}

func TestResolver_ExtractFromText_NothingFound(t *testing.T) {
	r := fixedResolver()

	for _, text := range []string{"", "no dates in here", "call me maybe"} {
		t.Run(text, func(t *testing.T) {
			_, err := r.ExtractFromText(text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoDateTimeFound))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, "text", perr.Field)
		})
	}
}
