// Package calendar is the Google Calendar adapter of inboxmeet.
//
// Client covers the three calls the scheduler needs: freebusy queries, event
// creation and calendar lookup. Each call runs inside a Google API span and
// is counted in the google_api_operations_total metric.
//
// MeetingCalendar adapts one calendar to the meeting.BusySource and
// meeting.Booker ports:
//
//	client, err := calendar.NewClient(ctx, conf, google.NewFileTokenProvider(), "default")
//	if err != nil {
//	    return err
//	}
//	cal := calendar.NewMeetingCalendar(client, "primary", calendar.WithTimeZone("Europe/Berlin"))
//	negotiator := meeting.NewNegotiator(cal)
package calendar
