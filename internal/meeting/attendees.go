package meeting

import (
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidAddress reports whether s looks like a deliverable email address.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// SplitAttendees splits a comma separated attendee list and trims each entry.
// Empty entries are dropped.
func SplitAttendees(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateAttendees keeps the valid addresses in input order, dropping
// duplicates. Each rejected address yields an *AttendeeError. When nothing
// valid remains the organizer is used, if it is itself valid.
func ValidateAttendees(addrs []string, organizer string) ([]string, []error) {
	var (
		valid    []string
		rejected []error
		seen     = make(map[string]bool)
	)
	for _, entry := range addrs {
		for _, addr := range SplitAttendees(entry) {
			if !ValidAddress(addr) {
				rejected = append(rejected, &AttendeeError{Address: addr})
				continue
			}
			key := strings.ToLower(addr)
			if seen[key] {
				continue
			}
			seen[key] = true
			valid = append(valid, addr)
		}
	}
	if len(valid) == 0 {
		if organizer = strings.TrimSpace(organizer); ValidAddress(organizer) {
			valid = []string{organizer}
		}
	}
	return valid, rejected
}
