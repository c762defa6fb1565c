package meeting

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var meetingPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)meeting\s+(?:on|at|for)`),
	regexp.MustCompile(`(?i)schedule\s+(?:a\s+)?meeting`),
	regexp.MustCompile(`(?i)let'?s\s+meet`),
	regexp.MustCompile(`(?i)would\s+you\s+like\s+to\s+meet`),
	regexp.MustCompile(`(?i)propose\s+a\s+time`),
	regexp.MustCompile(`(?i)set\s+up\s+a\s+call`),
	regexp.MustCompile(`(?i)arrange\s+a\s+meeting`),
}

const monthNames = `january|february|march|april|may|june|july|august|september|october|november|december`

var (
	weekdayPhrase  = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	dayMonthPhrase = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthNames + `)(?:,?\s+(\d{4}))?\b`)
	monthDayPhrase = regexp.MustCompile(`(?i)\b(` + monthNames + `)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	numericPhrase  = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{4}\b`)

	meridiemPhrase = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\.?`)
	partOfDay      = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(?:in\s+the\s+)?(morning|afternoon|evening)`)
	oclockPhrase   = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*o'?clock`)

	detectAddress  = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.\w+`)
	durationPhrase = regexp.MustCompile(`(?i)\b(\d+)\s*(hour|hr|minute|min)s?\b`)
)

// Detection is a meeting request found in an email.
type Detection struct {
	Title     string        `json:"title"`
	Date      string        `json:"date,omitempty"`
	Time      string        `json:"time,omitempty"`
	Duration  time.Duration `json:"duration"`
	Attendees []string      `json:"attendees,omitempty"`
}

// DetectRequest reports whether subject and body read like a meeting request
// and extracts what it can. Date and Time are left in a form the Resolver
// accepts; a day and month without a year take the year of ref.
func DetectRequest(subject, body string, ref time.Time) (*Detection, bool) {
	text := subject + "\n" + body
	found := false
	for _, phrase := range meetingPhrases {
		if phrase.MatchString(text) {
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}

	d := &Detection{
		Title:     detectTitle(subject, body),
		Date:      detectDate(text, ref),
		Time:      detectTime(text),
		Duration:  detectDuration(text),
		Attendees: detectAddress.FindAllString(text, -1),
	}
	return d, true
}

// Request turns the detection into a Request for the given organizer.
// The end is left empty so the default duration applies unless Duration
// differs from it.
func (d *Detection) Request(organizer string, resolver *Resolver) Request {
	req := Request{
		Title:          d.Title,
		StartDate:      d.Date,
		StartTime:      d.Time,
		Attendees:      d.Attendees,
		OrganizerEmail: organizer,
	}
	if d.Duration != DefaultDuration && resolver != nil {
		if start, err := resolver.Resolve(d.Date, d.Time); err == nil {
			end := start.Add(d.Duration)
			req.EndDate = end.Format(time.DateOnly)
			req.EndTime = end.Format("15:04")
			if start.Location() != resolver.Location() {
				req.EndTime = end.Format("15:04 MST")
			}
		}
	}
	return req
}

func detectTitle(subject, body string) string {
	title := strings.TrimSpace(subject)
	if title == "" {
		title, _, _ = strings.Cut(strings.TrimSpace(body), "\n")
	}
	if r := []rune(title); len(r) > 100 {
		title = string(r[:100])
	}
	return strings.TrimSpace(title)
}

func detectDate(text string, ref time.Time) string {
	if m := weekdayPhrase.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	if m := dayMonthPhrase.FindStringSubmatch(text); m != nil {
		return withYear(m[1]+" "+m[2], m[3], ref)
	}
	if m := monthDayPhrase.FindStringSubmatch(text); m != nil {
		return withYear(m[2]+" "+m[1], m[3], ref)
	}
	return numericPhrase.FindString(text)
}

func withYear(dayMonth, year string, ref time.Time) string {
	if year == "" {
		year = strconv.Itoa(ref.Year())
	}
	return dayMonth + " " + year
}

func detectTime(text string) string {
	if m := meridiemPhrase.FindStringSubmatch(text); m != nil {
		return clockText(m[1], m[2], strings.ToLower(m[3])+"m")
	}
	if m := partOfDay.FindStringSubmatch(text); m != nil {
		meridiem := "pm"
		if strings.EqualFold(m[3], "morning") {
			meridiem = "am"
		}
		return clockText(m[1], m[2], meridiem)
	}
	if m := oclockPhrase.FindStringSubmatch(text); m != nil {
		return clockText(m[1], m[2], "")
	}
	return ""
}

func clockText(hour, minute, meridiem string) string {
	if minute == "" {
		minute = "00"
	}
	if meridiem == "" {
		return hour + ":" + minute
	}
	return hour + ":" + minute + " " + meridiem
}

func detectDuration(text string) time.Duration {
	m := durationPhrase.FindStringSubmatch(text)
	if m == nil {
		return DefaultDuration
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return DefaultDuration
	}
	unit := time.Hour
	if strings.HasPrefix(strings.ToLower(m[2]), "min") {
		unit = time.Minute
	}
	return time.Duration(n) * unit
}
