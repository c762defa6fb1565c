package gmail

import (
	"encoding/base64"
	"net/mail"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// Message is the part of a Gmail message the inbox watcher looks at.
type Message struct {
	ID       string
	ThreadID string
	From     string
	Subject  string
	Date     string
	Snippet  string
	Body     string
}

// SenderAddress returns the bare address of the From header, or "" when the
// header does not parse.
func (m *Message) SenderAddress() string {
	addr, err := mail.ParseAddress(m.From)
	if err != nil {
		return ""
	}
	return addr.Address
}

func toMessage(msg *gmail.Message) *Message {
	m := &Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		From:     headerValue(msg, "From"),
		Subject:  headerValue(msg, "Subject"),
		Date:     headerValue(msg, "Date"),
	}
	m.Body = plainBody(msg.Payload)
	if m.Body == "" {
		m.Body = m.Snippet
	}
	return m
}

// headerValue returns the first header named name, compared case-insensitively.
func headerValue(m *gmail.Message, name string) string {
	if m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// plainBody returns the first text/plain part, depth first.
func plainBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	for _, p := range part.Parts {
		if body := plainBody(p); body != "" {
			return body
		}
	}
	return ""
}

// decodeBody decodes base64url body data, with or without padding.
func decodeBody(data string) string {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	return ""
}
