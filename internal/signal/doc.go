// Package signal forwards inboxmeet announcements to Signal Messenger via
// signal-cli.
//
// The account must be registered with signal-cli beforehand:
//
//	signal-cli -u +15551234567 register
//	signal-cli -u +15551234567 verify CODE
//
// Notifier adapts a Client to the meeting.Notifier port and is also used by
// the inbox watcher for important messages:
//
//	client, err := signal.NewClient("+15551234567")
//	if err != nil {
//	    return err
//	}
//	notifier, err := signal.NewNotifier(client, "", "Team")
package signal
