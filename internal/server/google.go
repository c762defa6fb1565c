package server

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/teemow/inboxmeet/internal/calendar"
	"github.com/teemow/inboxmeet/internal/gmail"
	"github.com/teemow/inboxmeet/internal/google"
	"github.com/teemow/inboxmeet/internal/instrumentation"
)

// GoogleConfig configures the Google-backed account services.
type GoogleConfig struct {
	OAuth        *oauth2.Config
	Tokens       google.TokenProvider
	CalendarID   string
	TimeZone     string
	SendUpdates  string
	DraftReplies bool
	Metrics      *instrumentation.Metrics
}

// GoogleServices returns a ServicesFunc backed by Google Calendar and Gmail.
func GoogleServices(cfg GoogleConfig) ServicesFunc {
	return func(ctx context.Context, account string) (*AccountServices, error) {
		if cfg.Tokens == nil || !cfg.Tokens.HasTokenForAccount(account) {
			return nil, fmt.Errorf("%w\n\n%s", google.ErrNoToken, google.GetAuthenticationErrorMessage(account))
		}

		calClient, err := calendar.NewClient(ctx, cfg.OAuth, cfg.Tokens, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Calendar client: %w", err)
		}
		calClient.SetMetrics(cfg.Metrics)

		mailClient, err := gmail.NewClient(ctx, cfg.OAuth, cfg.Tokens, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gmail client: %w", err)
		}
		mailClient.SetMetrics(cfg.Metrics)

		cal := calendar.NewMeetingCalendar(calClient, cfg.CalendarID,
			calendar.WithTimeZone(cfg.TimeZone),
			calendar.WithSendUpdates(cfg.SendUpdates))

		svc := &AccountServices{Busy: cal, Booker: cal, Mail: mailClient}
		if cfg.DraftReplies {
			svc.Drafter = gmail.NewReplyDrafter(mailClient)
		}
		return svc, nil
	}
}
