package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxmeet/internal/inbox"
	"github.com/teemow/inboxmeet/internal/logging"
)

func newWatchCmd() *cobra.Command {
	var (
		account string
		once    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the inbox and schedule detected meeting requests",
		Long: `Poll Gmail with watch.query every watch.interval. Each new message is
checked for a meeting request, which is then scheduled like the schedule
command does. Messages containing one of watch.importance_keywords are
forwarded to Signal when chat forwarding is configured.

Processed message IDs are kept in memory; a restart processes the current
query results again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(context.Background())

			svc, err := rt.sc.Services(account)
			if err != nil {
				return err
			}
			if svc.Mail == nil {
				return errors.New("account has no mailbox")
			}
			scheduler, err := rt.sc.Scheduler(account)
			if err != nil {
				return err
			}

			watcher, err := inbox.NewWatcher(svc.Mail, scheduler, inbox.Options{
				Query:              rt.cfg.Watch.Query,
				MaxResults:         rt.cfg.Watch.MaxResults,
				ImportanceKeywords: rt.cfg.Watch.ImportanceKeywords,
				Resolver:           rt.sc.Resolver(),
				Notifier:           rt.sc.Notifier(),
				Metrics:            rt.sc.Metrics(),
				Logger:             rt.logger,
			})
			if err != nil {
				return err
			}

			if once {
				summary, err := watcher.Poll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "fetched %d, meetings %d, important %d, skipped %d, errors %d\n",
					summary.Fetched, summary.Meetings, summary.Important, summary.Skipped, summary.Errors)
				return nil
			}

			if account == "" {
				account = rt.sc.DefaultAccount()
			}
			rt.logger.Info("watching inbox", "interval", rt.cfg.Watch.Interval.String(), logging.Account(account))
			return watcher.Run(ctx, rt.cfg.Watch.Interval)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Google account name (default: the configured account)")
	cmd.Flags().BoolVar(&once, "once", false, "Poll once and exit")
	return cmd
}
