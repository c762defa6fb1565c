package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/teemow/inboxmeet/internal/gmail"
	"github.com/teemow/inboxmeet/internal/instrumentation"
	"github.com/teemow/inboxmeet/internal/logging"
	"github.com/teemow/inboxmeet/internal/meeting"
)

// Message results recorded per processed message.
const (
	ResultMeeting   = "meeting"
	ResultImportant = "important"
	ResultSkipped   = "skipped"
	ResultError     = "error"
)

// DefaultQuery selects recent unread inbox messages.
const DefaultQuery = "is:unread in:inbox newer_than:2d"

// DefaultMaxResults caps the messages fetched per poll.
const DefaultMaxResults = 25

// MailSource is the subset of the Gmail client the watcher needs.
type MailSource interface {
	ListMessages(ctx context.Context, q string, maxResults int64) ([]string, error)
	GetMessage(ctx context.Context, messageID string) (*gmail.Message, error)
}

// Processor schedules a detected meeting request. *meeting.Scheduler
// implements it.
type Processor interface {
	Process(ctx context.Context, req meeting.Request) meeting.Result
}

// Options configures a Watcher.
type Options struct {
	Query      string
	MaxResults int64

	// ImportanceKeywords are matched case-insensitively against subject and
	// body. Empty disables forwarding.
	ImportanceKeywords []string

	Resolver *meeting.Resolver
	Notifier meeting.Notifier
	Metrics  *instrumentation.Metrics
	Logger   *slog.Logger
}

// Summary counts the outcome of one poll.
type Summary struct {
	Fetched   int
	Meetings  int
	Important int
	Skipped   int
	Errors    int
}

// Watcher polls a MailSource and schedules meeting requests.
type Watcher struct {
	source    MailSource
	scheduler Processor
	opts      Options
	logger    *slog.Logger

	mu   sync.Mutex
	seen map[string]bool
}

// NewWatcher creates a Watcher.
func NewWatcher(source MailSource, scheduler Processor, opts Options) (*Watcher, error) {
	if source == nil {
		return nil, errors.New("mail source is required")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler is required")
	}
	if opts.Query == "" {
		opts.Query = DefaultQuery
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Resolver == nil {
		opts.Resolver = meeting.NewResolver()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Watcher{
		source:    source,
		scheduler: scheduler,
		opts:      opts,
		logger:    logging.WithOperation(opts.Logger, "inbox.poll"),
		seen:      make(map[string]bool),
	}, nil
}

// Run polls immediately and then on every interval until ctx is done.
// Poll failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if summary, err := w.Poll(ctx); err != nil {
			w.logger.Error("poll failed", logging.Err(err))
		} else if summary.Fetched > 0 {
			w.logger.Info("poll complete",
				slog.Int("fetched", summary.Fetched),
				slog.Int("meetings", summary.Meetings),
				slog.Int("important", summary.Important),
				slog.Int("errors", summary.Errors))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll processes every message matching the query that has not been seen
// before. A message that cannot be fetched is retried on the next poll.
func (w *Watcher) Poll(ctx context.Context) (Summary, error) {
	ids, err := w.source.ListMessages(ctx, w.opts.Query, w.opts.MaxResults)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list messages: %w", err)
	}

	var summary Summary
	for _, id := range ids {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if !w.markSeen(id) {
			continue
		}
		summary.Fetched++

		result := w.handle(ctx, id)
		w.opts.Metrics.RecordInboxMessage(ctx, result)
		switch result {
		case ResultMeeting:
			summary.Meetings++
		case ResultImportant:
			summary.Important++
		case ResultSkipped:
			summary.Skipped++
		case ResultError:
			summary.Errors++
		}
	}
	return summary, nil
}

func (w *Watcher) handle(ctx context.Context, id string) string {
	msg, err := w.source.GetMessage(ctx, id)
	if err != nil {
		w.forget(id)
		w.logger.Warn("failed to fetch message", logging.MessageID(id), logging.Err(err))
		return ResultError
	}

	sender := msg.SenderAddress()
	logger := w.logger.With(logging.MessageID(id), logging.Sender(sender))

	important := w.isImportant(msg)
	if important {
		w.forward(ctx, logger, msg, sender)
	}

	detection, ok := meeting.DetectRequest(msg.Subject, msg.Body, w.opts.Resolver.Now())
	if !ok {
		if important {
			return ResultImportant
		}
		return ResultSkipped
	}

	res := w.scheduler.Process(ctx, detection.Request(sender, w.opts.Resolver))
	if res.Status == meeting.StatusError {
		logger.Warn("meeting request could not be scheduled", logging.Err(res.Err))
		return ResultError
	}
	logger.Info("meeting request handled", logging.Status(string(res.Status)))
	return ResultMeeting
}

func (w *Watcher) isImportant(msg *gmail.Message) bool {
	text := strings.ToLower(msg.Subject + "\n" + msg.Body)
	for _, keyword := range w.opts.ImportanceKeywords {
		if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" && strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func (w *Watcher) forward(ctx context.Context, logger *slog.Logger, msg *gmail.Message, sender string) {
	if w.opts.Notifier == nil {
		return
	}
	from := sender
	if from == "" {
		from = "unknown sender"
	}
	text := fmt.Sprintf("Important email from %s: %s", from, msg.Subject)
	if err := w.opts.Notifier.Notify(ctx, text); err != nil {
		logger.Warn("failed to forward important message", logging.Err(err))
	}
}

// markSeen records id and reports whether it was new.
func (w *Watcher) markSeen(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen[id] {
		return false
	}
	w.seen[id] = true
	return true
}

func (w *Watcher) forget(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.seen, id)
}
