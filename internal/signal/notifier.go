package signal

import (
	"context"
	"fmt"
)

// Notifier forwards scheduler announcements to one Signal recipient or
// group. It implements meeting.Notifier.
type Notifier struct {
	client    *Client
	recipient string
	group     string
}

// NewNotifier creates a Notifier. Exactly one of recipient and group must be
// set.
func NewNotifier(client *Client, recipient, group string) (*Notifier, error) {
	if (recipient == "") == (group == "") {
		return nil, fmt.Errorf("exactly one of recipient and group must be set")
	}
	if recipient != "" {
		if err := validateNumber("recipient", recipient); err != nil {
			return nil, err
		}
	}
	return &Notifier{client: client, recipient: recipient, group: group}, nil
}

// Notify sends text.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if n.group != "" {
		return n.client.SendGroupMessage(ctx, n.group, text)
	}
	return n.client.SendMessage(ctx, n.recipient, text)
}
