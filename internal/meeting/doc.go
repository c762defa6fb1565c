// Package meeting resolves free-text meeting requests into calendar slots.
//
// The package has two pure parts and one orchestrator:
//
//   - Resolver turns date and time text ("friday", "April 5, 2025",
//     "3:00 PM (IST)") into a timestamp using an ordered list of parsing
//     strategies. The reference time is injected with WithClock.
//   - CheckAvailability and FindAvailableTimes decide whether an interval
//     is free against a busy list and sweep the working day for
//     alternatives. Negotiator runs the same logic against a live BusySource.
//   - Scheduler ties both to a Booker, with optional Drafter, Notifier and
//     Recorder collaborators.
//
// # Usage
//
//	resolver := meeting.NewResolver(meeting.WithLocation(loc))
//	negotiator := meeting.NewNegotiator(calendarSource)
//	scheduler := meeting.NewScheduler(resolver, negotiator, calendarBooker)
//	result := scheduler.Process(ctx, req)
//
// Intervals are half-open: a meeting ending at 10:00 does not conflict with
// one starting at 10:00.
package meeting
