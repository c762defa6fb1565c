package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/inboxmeet/internal/google"
	"github.com/teemow/inboxmeet/internal/instrumentation"
)

const me = "me"

// Client wraps the Gmail Users service
type Client struct {
	svc     *gmail.UsersService
	account string
	metrics *instrumentation.Metrics
}

// NewClient creates a Gmail client for account using the token from provider.
func NewClient(ctx context.Context, conf *oauth2.Config, provider google.TokenProvider, account string) (*Client, error) {
	httpClient, err := google.HTTPClient(ctx, conf, provider, account)
	if err != nil {
		return nil, err
	}
	return NewClientWithHTTP(ctx, httpClient, account)
}

// NewClientWithHTTP creates a Gmail client on top of an already authenticated
// HTTP client.
func NewClientWithHTTP(ctx context.Context, httpClient *http.Client, account string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users, account: account}, nil
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// SetMetrics records every API call of the client on m.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// ListMessages returns the IDs of up to maxResults messages matching the
// Gmail search query q, newest first.
func (c *Client) ListMessages(ctx context.Context, q string, maxResults int64) ([]string, error) {
	var ids []string
	err := instrumentation.TraceGoogleCall(ctx, c.metrics, instrumentation.ServiceGmail, instrumentation.OperationList,
		func(ctx context.Context) error {
			call := c.svc.Messages.List(me).Q(q).Context(ctx)
			if maxResults > 0 {
				call = call.MaxResults(maxResults)
			}
			res, err := call.Do()
			if err != nil {
				return err
			}
			for _, m := range res.Messages {
				ids = append(ids, m.Id)
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return ids, nil
}

// GetMessage fetches a full message and flattens it into a Message.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	var msg *gmail.Message
	err := instrumentation.TraceGoogleCall(ctx, c.metrics, instrumentation.ServiceGmail, instrumentation.OperationGet,
		func(ctx context.Context) error {
			var err error
			msg, err = c.svc.Messages.Get(me, messageID).Format("full").Context(ctx).Do()
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return toMessage(msg), nil
}

// Draft is a plain-text message saved as a draft.
type Draft struct {
	To       []string
	Subject  string
	Body     string
	ThreadID string
}

// CreateDraft saves msg as a draft and returns the draft ID.
func (c *Client) CreateDraft(ctx context.Context, msg Draft) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if msg.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}

	draft := &gmail.Draft{Message: &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString([]byte(buildRFC2822(msg))),
		ThreadId: msg.ThreadID,
	}}

	var created *gmail.Draft
	err := instrumentation.TraceGoogleCall(ctx, c.metrics, instrumentation.ServiceGmail, instrumentation.OperationDraft,
		func(ctx context.Context) error {
			var err error
			created, err = c.svc.Drafts.Create(me, draft).Context(ctx).Do()
			return err
		})
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", err)
	}
	return created.Id, nil
}

func buildRFC2822(msg Draft) string {
	var b strings.Builder
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + encodeRFC2047(msg.Subject) + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.Body, "\r\n", "\n"), "\n", "\r\n"))
	return b.String()
}

// encodeRFC2047 encodes non-ASCII header text, e.g. umlauts in subjects.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
