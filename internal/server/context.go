package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/inboxmeet/internal/gmail"
	"github.com/teemow/inboxmeet/internal/google"
	"github.com/teemow/inboxmeet/internal/instrumentation"
	"github.com/teemow/inboxmeet/internal/logging"
	"github.com/teemow/inboxmeet/internal/meeting"
)

// AccountServices are the per-account collaborators of the scheduler.
type AccountServices struct {
	Busy   meeting.BusySource
	Booker meeting.Booker

	// Drafter is nil when reply drafts are disabled.
	Drafter meeting.Drafter

	// Mail is the inbox of the account, used by the watcher. May be nil.
	Mail Mailbox
}

// Mailbox lists and reads messages. *gmail.Client implements it.
type Mailbox interface {
	ListMessages(ctx context.Context, q string, maxResults int64) ([]string, error)
	GetMessage(ctx context.Context, messageID string) (*gmail.Message, error)
}

// ServicesFunc builds the services of one account.
type ServicesFunc func(ctx context.Context, account string) (*AccountServices, error)

// Options configures a ServerContext.
type Options struct {
	Resolver     *meeting.Resolver
	WorkingHours meeting.WorkingHours

	// MaxAlternatives of zero keeps meeting.DefaultMaxAlternatives; a
	// negative value offers every free slot.
	MaxAlternatives int
	DefaultAccount  string
	Services        ServicesFunc

	// Notifier announces booked meetings. Optional.
	Notifier meeting.Notifier

	// OAuth is the Google client used by the authorization tools. Optional.
	OAuth *oauth2.Config

	// Provider supplies metrics. Optional.
	Provider    *instrumentation.Provider
	AuditLogger *instrumentation.AuditLogger
	Logger      *slog.Logger
}

// ServerContext holds the long-lived state shared by MCP tools and commands.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	opts     Options
	logger   *slog.Logger
	mu       sync.Mutex
	services map[string]*AccountServices
	shutdown bool
}

// NewServerContext creates a server context. Account services are built
// lazily on first use and cached.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	if opts.Services == nil {
		return nil, errors.New("services factory is required")
	}
	if opts.Resolver == nil {
		opts.Resolver = meeting.NewResolver()
	}
	if opts.WorkingHours == (meeting.WorkingHours{}) {
		opts.WorkingHours = meeting.DefaultWorkingHours
	}
	if err := opts.WorkingHours.Validate(); err != nil {
		return nil, err
	}
	if opts.DefaultAccount == "" {
		opts.DefaultAccount = google.DefaultAccount
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		opts:     opts,
		logger:   opts.Logger,
		services: make(map[string]*AccountServices),
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

func (sc *ServerContext) Resolver() *meeting.Resolver {
	return sc.opts.Resolver
}

func (sc *ServerContext) WorkingHours() meeting.WorkingHours {
	return sc.opts.WorkingHours
}

func (sc *ServerContext) DefaultAccount() string {
	return sc.opts.DefaultAccount
}

func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, or nil without a provider.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	if sc.opts.Provider == nil {
		return nil
	}
	return sc.opts.Provider.Metrics()
}

// AuditLogger returns the audit logger, or nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.opts.AuditLogger
}

// Services returns the cached services of account, building them on first
// use. An empty account means the default account. Failures are not cached.
func (sc *ServerContext) Services(account string) (*AccountServices, error) {
	if account == "" {
		account = sc.opts.DefaultAccount
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil, errors.New("server is shutting down")
	}
	if svc, ok := sc.services[account]; ok {
		return svc, nil
	}

	svc, err := sc.opts.Services(sc.ctx, account)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", account, err)
	}
	if svc.Busy == nil || svc.Booker == nil {
		return nil, fmt.Errorf("account %s: busy source and booker are required", account)
	}
	sc.services[account] = svc
	sc.logger.Debug("account services initialized", logging.Account(account))
	return svc, nil
}

// Negotiator returns a negotiator over the busy feed of account.
func (sc *ServerContext) Negotiator(account string) (*meeting.Negotiator, error) {
	svc, err := sc.Services(account)
	if err != nil {
		return nil, err
	}
	return meeting.NewNegotiator(svc.Busy, meeting.WithWorkingHours(sc.opts.WorkingHours)), nil
}

// Scheduler returns a scheduler wired to the services of account.
func (sc *ServerContext) Scheduler(account string) (*meeting.Scheduler, error) {
	svc, err := sc.Services(account)
	if err != nil {
		return nil, err
	}

	opts := []meeting.SchedulerOption{meeting.WithLogger(sc.logger)}
	if sc.opts.MaxAlternatives != 0 {
		opts = append(opts, meeting.WithMaxAlternatives(sc.opts.MaxAlternatives))
	}
	if svc.Drafter != nil {
		opts = append(opts, meeting.WithDrafter(svc.Drafter))
	}
	if sc.opts.Notifier != nil {
		opts = append(opts, meeting.WithNotifier(sc.opts.Notifier))
	}
	if m := sc.Metrics(); m != nil {
		opts = append(opts, meeting.WithRecorder(m))
	}

	negotiator := meeting.NewNegotiator(svc.Busy, meeting.WithWorkingHours(sc.opts.WorkingHours))
	return meeting.NewScheduler(sc.opts.Resolver, negotiator, svc.Booker, opts...), nil
}

// OAuthConfig returns the Google OAuth client, or nil.
func (sc *ServerContext) OAuthConfig() *oauth2.Config {
	return sc.opts.OAuth
}

// Notifier returns the configured notifier, or nil.
func (sc *ServerContext) Notifier() meeting.Notifier {
	return sc.opts.Notifier
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.shutdown
}

// Shutdown cancels the server context and drops cached services.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true
	sc.services = nil
	sc.cancel()
	return nil
}
