package gmail

import "context"

// ReplyDrafter saves scheduler replies as Gmail drafts. It implements
// meeting.Drafter.
type ReplyDrafter struct {
	client *Client
}

// NewReplyDrafter creates a ReplyDrafter.
func NewReplyDrafter(client *Client) *ReplyDrafter {
	return &ReplyDrafter{client: client}
}

// Draft saves a plain-text draft addressed to to.
func (d *ReplyDrafter) Draft(ctx context.Context, to, subject, body string) (string, error) {
	return d.client.CreateDraft(ctx, Draft{To: []string{to}, Subject: subject, Body: body})
}
