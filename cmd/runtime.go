package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/teemow/inboxmeet/internal/config"
	"github.com/teemow/inboxmeet/internal/google"
	"github.com/teemow/inboxmeet/internal/instrumentation"
	"github.com/teemow/inboxmeet/internal/logging"
	"github.com/teemow/inboxmeet/internal/meeting"
	"github.com/teemow/inboxmeet/internal/server"
	"github.com/teemow/inboxmeet/internal/signal"
)

// loadConfig reads the config file and builds the process logger. The
// --log-level and --log-format flags win over the file.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newResolver returns a resolver in the configured time zone.
func newResolver(cfg *config.Config) (*meeting.Resolver, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return meeting.NewResolver(meeting.WithLocation(loc)), nil
}

// runtime bundles what every Google-backed command needs.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	oauth    *oauth2.Config
	provider *instrumentation.Provider
	sc       *server.ServerContext
}

// newRuntime loads the config, applies overrides and wires the server
// context.
func newRuntime(ctx context.Context, overrides ...func(*config.Config)) (*runtime, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(cfg)
	}
	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}
	hours, err := cfg.MeetingWorkingHours()
	if err != nil {
		return nil, err
	}

	instrConfig := cfg.InstrumentationConfig(version)
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		oauth:    google.OAuthConfig(cfg.GoogleCredentials()),
		provider: provider,
	}

	maxAlternatives := cfg.MaxAlternatives
	if maxAlternatives == 0 {
		maxAlternatives = meeting.DefaultMaxAlternatives
	}

	opts := server.Options{
		Resolver:        resolver,
		WorkingHours:    hours,
		MaxAlternatives: maxAlternatives,
		DefaultAccount:  cfg.Account,
		Services: server.GoogleServices(server.GoogleConfig{
			OAuth:        rt.oauth,
			Tokens:       google.NewFileTokenProvider(),
			CalendarID:   cfg.CalendarID,
			TimeZone:     cfg.Timezone,
			SendUpdates:  cfg.SendUpdates,
			DraftReplies: cfg.DraftReplies,
			Metrics:      provider.Metrics(),
		}),
		OAuth:    rt.oauth,
		Provider: provider,
		Logger:   logger,
	}
	if provider.Enabled() {
		opts.AuditLogger = instrumentation.NewAuditLogger(logger, instrConfig.AuditLogging)
	}
	if notifier := newNotifier(cfg, logger); notifier != nil {
		opts.Notifier = notifier
	}

	if rt.sc, err = server.NewServerContext(ctx, opts); err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return rt, nil
}

// newNotifier returns the Signal notifier, or nil when forwarding is not
// configured or signal-cli is unavailable.
func newNotifier(cfg *config.Config, logger *slog.Logger) *signal.Notifier {
	if cfg.Signal.Account == "" {
		return nil
	}
	client, err := signal.NewClient(cfg.Signal.Account)
	if err != nil {
		logger.Warn("chat forwarding disabled", logging.Err(err))
		return nil
	}
	notifier, err := signal.NewNotifier(client, cfg.Signal.Recipient, cfg.Signal.Group)
	if err != nil {
		logger.Warn("chat forwarding disabled", logging.Err(err))
		return nil
	}
	return notifier
}

// Close shuts down the server context and flushes telemetry.
func (rt *runtime) Close(ctx context.Context) error {
	return errors.Join(rt.sc.Shutdown(), rt.provider.Shutdown(ctx))
}
