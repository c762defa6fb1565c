// Package inbox polls a mailbox for meeting requests.
//
// A Watcher lists messages matching a Gmail search query, runs meeting
// request detection on every message it has not seen yet and hands detected
// requests to the scheduler. Messages containing an importance keyword are
// forwarded to the chat notifier. Processed message IDs are remembered in
// memory for the lifetime of the process.
package inbox
