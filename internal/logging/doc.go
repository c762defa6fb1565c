// Package logging holds the structured logging conventions of inboxmeet.
//
// Every package logs through log/slog. This package builds the process logger
// from configuration and provides the attribute helpers that keep key names
// consistent:
//
//	logger := logging.WithOperation(slog.Default(), "meeting.process")
//	logger.Info("meeting request processed",
//	    logging.Status("conflict"),
//	    logging.Slot(start, end))
//
// Email addresses are never logged verbatim. Attendees are logged by domain
// (Domain) and inbox senders by a truncated hash (Sender).
package logging
