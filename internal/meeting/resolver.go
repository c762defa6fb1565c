package meeting

import (
	"strings"
	"time"
)

// Resolver turns the free-text date and time fields of a meeting request
// into a timestamp. Parsing is a fixed, ordered list of strategies; the
// first one that accepts the input wins.
type Resolver struct {
	loc   *time.Location
	now   func() time.Time
	dates []dateStrategy
	times []timeStrategy
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLocation sets the zone used for dates and for times without an explicit
// zone abbreviation. Defaults to UTC.
func WithLocation(loc *time.Location) ResolverOption {
	return func(r *Resolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithClock replaces time.Now as the reference for relative dates.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		loc:   time.UTC,
		now:   time.Now,
		dates: dateStrategies,
		times: timeStrategies,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Location returns the resolver's default zone.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Now returns the resolver's reference time in its location.
func (r *Resolver) Now() time.Time {
	return r.now().In(r.loc)
}

// Resolve resolves date and time text relative to the resolver's clock.
func (r *Resolver) Resolve(dateStr, timeStr string) (time.Time, error) {
	return r.ResolveAt(dateStr, timeStr, r.now())
}

// ResolveAt resolves date and time text relative to ref. Weekday names are
// projected forward from ref; the same weekday resolves to ref's own date.
func (r *Resolver) ResolveAt(dateStr, timeStr string, ref time.Time) (time.Time, error) {
	day, err := r.ResolveDate(dateStr, ref)
	if err != nil {
		return time.Time{}, err
	}
	c, err := r.resolveClock(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	loc := r.loc
	if c.loc != nil {
		loc = c.loc
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, c.second, 0, loc), nil
}

// ResolveInterval resolves the start of req and its end. The end falls back
// to start plus DefaultDuration when it is missing, unparseable or not after
// the start. An empty EndDate means the start date.
func (r *Resolver) ResolveInterval(req Request) (Interval, error) {
	start, err := r.Resolve(req.StartDate, req.StartTime)
	if err != nil {
		return Interval{}, err
	}
	interval := Interval{Start: start, End: start.Add(DefaultDuration)}
	if strings.TrimSpace(req.EndTime) == "" {
		return interval, nil
	}

	endDate := req.EndDate
	if strings.TrimSpace(endDate) == "" {
		endDate = req.StartDate
	}
	if end, err := r.Resolve(endDate, req.EndTime); err == nil && end.After(start) {
		interval.End = end
	}
	return interval, nil
}

// ResolveDate resolves date text to local midnight of that day.
func (r *Resolver) ResolveDate(dateStr string, ref time.Time) (time.Time, error) {
	s := Normalize(dateStr)
	ref = ref.In(r.loc)
	for _, strategy := range r.dates {
		if d, ok := strategy.parse(s, ref); ok {
			return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, r.loc), nil
		}
	}
	return time.Time{}, &ParseError{Field: "date", Input: dateStr, Err: ErrUnparseableDate}
}

func (r *Resolver) resolveClock(timeStr string) (clock, error) {
	s := compactMeridiem(Normalize(timeStr))
	for _, strategy := range r.times {
		if c, ok := strategy.parse(s); ok {
			return c, nil
		}
	}
	return clock{}, &ParseError{Field: "time", Input: timeStr, Err: ErrUnparseableTime}
}

// Normalize lowercases s, turns the separators / . , - : into spaces and
// collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = separatorReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

var separatorReplacer = strings.NewReplacer("/", " ", ".", " ", ",", " ", "-", " ", ":", " ")

// compactMeridiem rewrites "p m" (from "p.m.") into "pm".
func compactMeridiem(s string) string {
	padded := " " + s + " "
	padded = strings.ReplaceAll(padded, " a m ", " am ")
	padded = strings.ReplaceAll(padded, " p m ", " pm ")
	return strings.TrimSpace(padded)
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func civil(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{year: y, month: m, day: d}
}

type dateStrategy struct {
	name  string
	parse func(s string, ref time.Time) (civilDate, bool)
}

// Order matters: "04 05 2025" is rejected by the ISO form and read
// day-first as 4 May before the month-first form is tried.
var dateStrategies = []dateStrategy{
	{name: "month-name day year", parse: layoutDate("January 2 2006", "Jan 2 2006")},
	{name: "day month-name year", parse: layoutDate("2 January 2006", "2 Jan 2006")},
	{name: "iso", parse: layoutDate("2006 1 2")},
	{name: "day month year", parse: layoutDate("2 1 2006")},
	{name: "month day year", parse: layoutDate("1 2 2006")},
	{name: "weekday", parse: weekdayDate},
	{name: "weekday month-name day year", parse: layoutDate("Monday January 2 2006", "Mon Jan 2 2006")},
}

func layoutDate(layouts ...string) func(string, time.Time) (civilDate, bool) {
	return func(s string, _ time.Time) (civilDate, bool) {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return civil(t), true
			}
		}
		return civilDate{}, false
	}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func weekdayDate(s string, ref time.Time) (civilDate, bool) {
	wd, ok := weekdays[s]
	if !ok {
		return civilDate{}, false
	}
	return civil(ref.AddDate(0, 0, WeekdayOffset(ref.Weekday(), wd))), true
}

// WeekdayOffset returns the number of days from one weekday forward to
// another, in [0, 6].
func WeekdayOffset(from, to time.Weekday) int {
	return (int(to) - int(from) + 7) % 7
}

type clock struct {
	hour, minute, second int

	// loc is set when the text carried a zone abbreviation
	loc *time.Location
}

type timeStrategy struct {
	name  string
	parse func(s string) (clock, bool)
}

var (
	twelveHour = layoutClock("3 04 pm", "3 04pm")
	clock24    = layoutClock("15 04")
)

var timeStrategies = []timeStrategy{
	{name: "12-hour", parse: twelveHour},
	{name: "24-hour", parse: clock24},
	{name: "12-hour zone", parse: zonedClock(twelveHour, false)},
	{name: "12-hour parenthesised zone", parse: zonedClock(twelveHour, true)},
	{name: "24-hour zone", parse: anyZone(clock24)},
	{name: "bare hour", parse: layoutClock("3 pm", "3pm")},
}

func layoutClock(layouts ...string) func(string) (clock, bool) {
	return func(s string) (clock, bool) {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return clock{hour: t.Hour(), minute: t.Minute(), second: t.Second()}, true
			}
		}
		return clock{}, false
	}
}

// zonedClock accepts a trailing zone abbreviation, either bare ("ist") or
// parenthesised ("(ist)"), and parses the rest with inner.
func zonedClock(inner func(string) (clock, bool), parenthesised bool) func(string) (clock, bool) {
	return func(s string) (clock, bool) {
		i := strings.LastIndexByte(s, ' ')
		if i < 0 {
			return clock{}, false
		}
		rest, abbr := s[:i], s[i+1:]
		if parenthesised {
			if !strings.HasPrefix(abbr, "(") || !strings.HasSuffix(abbr, ")") {
				return clock{}, false
			}
			abbr = abbr[1 : len(abbr)-1]
		} else if strings.ContainsAny(abbr, "()") {
			return clock{}, false
		}
		loc, ok := ZoneForAbbreviation(abbr)
		if !ok {
			return clock{}, false
		}
		c, ok := inner(rest)
		if !ok {
			return clock{}, false
		}
		c.loc = loc
		return c, true
	}
}

func anyZone(inner func(string) (clock, bool)) func(string) (clock, bool) {
	bare, paren := zonedClock(inner, false), zonedClock(inner, true)
	return func(s string) (clock, bool) {
		if c, ok := bare(s); ok {
			return c, true
		}
		return paren(s)
	}
}

var zoneOffsets = map[string]int{
	"utc":  0,
	"gmt":  0,
	"ist":  5*3600 + 1800,
	"est":  -5 * 3600,
	"edt":  -4 * 3600,
	"cst":  -6 * 3600,
	"cdt":  -5 * 3600,
	"mst":  -7 * 3600,
	"mdt":  -6 * 3600,
	"pst":  -8 * 3600,
	"pdt":  -7 * 3600,
	"cet":  1 * 3600,
	"cest": 2 * 3600,
	"bst":  1 * 3600,
	"jst":  9 * 3600,
	"aest": 10 * 3600,
}

// ZoneForAbbreviation maps a common zone abbreviation (case-insensitive) to a
// fixed-offset location. Unknown abbreviations report false.
func ZoneForAbbreviation(abbr string) (*time.Location, bool) {
	abbr = strings.ToLower(abbr)
	off, ok := zoneOffsets[abbr]
	if !ok {
		return nil, false
	}
	if off == 0 && abbr == "utc" {
		return time.UTC, true
	}
	return time.FixedZone(strings.ToUpper(abbr), off), true
}
