package meeting

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Candidate patterns, tried as one alternation so matches are visited in
// text order.
var candidatePattern = regexp.MustCompile(strings.Join([]string{
	`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`,    // 12-31-2020, 12/31/20
	`\b\d{1,2} \w+ \d{2,4}\b`,              // 31 December 2020
	`\b\w+ \d{1,2}, \d{2,4}\b`,             // December 31, 2020
	`\b\d{1,2}:\d{2} ?[APap][mM]?\b`,       // 12:30 PM, 12:30pm
	`\b\d{1,2}:\d{2}:\d{2} ?[APap][mM]?\b`, // 12:30:45 PM
}, "|"))

var clockOnlyPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))? ?([APap])[mM]?$`)

// ExtractFromText finds the first date or time in free text, relative to the
// resolver's clock.
func (r *Resolver) ExtractFromText(text string) (time.Time, error) {
	return r.ExtractFromTextAt(text, r.now())
}

// ExtractFromTextAt finds the first candidate in text that converts to a
// timestamp. A time without a date lands on ref's date.
func (r *Resolver) ExtractFromTextAt(text string, ref time.Time) (time.Time, error) {
	ref = ref.In(r.loc)
	for _, candidate := range candidatePattern.FindAllString(text, -1) {
		if t, ok := r.convertCandidate(candidate, ref); ok {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Field: "text", Input: text, Err: ErrNoDateTimeFound}
}

func (r *Resolver) convertCandidate(s string, ref time.Time) (time.Time, bool) {
	if m := clockOnlyPattern.FindStringSubmatch(s); m != nil {
		c, ok := meridiemClock(m[1], m[2], m[3], m[4])
		if !ok {
			return time.Time{}, false
		}
		y, mo, d := ref.Date()
		return time.Date(y, mo, d, c.hour, c.minute, c.second, 0, r.loc), true
	}
	if t, err := dateparse.ParseIn(s, r.loc); err == nil {
		return t, true
	}
	if t, err := r.ResolveDate(s, ref); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func meridiemClock(hour, minute, second, meridiem string) (clock, bool) {
	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)
	sec := 0
	if second != "" {
		sec, _ = strconv.Atoi(second)
	}
	if h < 1 || h > 12 || m > 59 || sec > 59 {
		return clock{}, false
	}
	h %= 12
	if strings.EqualFold(meridiem, "p") {
		h += 12
	}
	return clock{hour: h, minute: m, second: sec}, true
}
