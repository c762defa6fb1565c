package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"
)

// Attribute keys shared by every package.
const (
	KeyOperation = "operation"
	KeyAccount   = "account"
	KeyTool      = "tool"
	KeyStatus    = "status"
	KeyError     = "error"
	KeySender    = "sender"
	KeyDomain    = "domain"
	KeyMessageID = "message_id"
	KeySlot      = "slot"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

func Account(account string) slog.Attr { return slog.String(KeyAccount, account) }

func Tool(tool string) slog.Attr { return slog.String(KeyTool, tool) }

func Status(status string) slog.Attr { return slog.String(KeyStatus, status) }

func MessageID(id string) slog.Attr { return slog.String(KeyMessageID, id) }

// Err returns the error attribute. A nil err yields an empty group, which
// slog drops from the output.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// Slot returns a group attribute holding the bounds of a time slot in RFC 3339.
func Slot(start, end time.Time) slog.Attr {
	return slog.Group(KeySlot,
		slog.String("start", start.Format(time.RFC3339)),
		slog.String("end", end.Format(time.RFC3339)),
	)
}

// AnonymizeEmail hashes an address so log lines about the same sender can be
// correlated without recording the address itself.
func AnonymizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(hash[:8])
}

// Sender returns the anonymized sender attribute.
func Sender(email string) slog.Attr {
	return slog.String(KeySender, AnonymizeEmail(email))
}

// ExtractDomain returns the part after the single "@" of an address, or "".
func ExtractDomain(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return ""
	}
	return domain
}

// Domain returns the domain attribute of an address. Attendee and organizer
// addresses are logged this way only.
func Domain(email string) slog.Attr {
	return slog.String(KeyDomain, ExtractDomain(email))
}
