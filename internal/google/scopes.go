package google

import (
	calendar "google.golang.org/api/calendar/v3"
	gmail "google.golang.org/api/gmail/v1"
)

// DefaultOAuthScopes are the scopes the meeting assistant needs:
//   - Calendar: free/busy lookups and event creation
//   - Gmail: reading the inbox and saving reply drafts
var DefaultOAuthScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	calendar.CalendarEventsScope,
	"https://www.googleapis.com/auth/calendar.freebusy",

	gmail.GmailReadonlyScope,
	gmail.GmailComposeScope,
}
