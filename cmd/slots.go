package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxmeet/internal/meeting"
)

func newSlotsCmd() *cobra.Command {
	var (
		account  string
		duration time.Duration
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "slots <date>",
		Short: "List free slots inside working hours on a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(context.Background())

			negotiator, err := rt.sc.Negotiator(account)
			if err != nil {
				return err
			}
			return runSlots(ctx, cmd.OutOrStdout(), rt.sc.Resolver(), negotiator, args[0], duration, limit)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Google account name (default: the configured account)")
	cmd.Flags().DurationVar(&duration, "duration", meeting.DefaultDuration, "Meeting length")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of slots (0: all)")
	return cmd
}

func runSlots(ctx context.Context, w io.Writer, resolver *meeting.Resolver, negotiator *meeting.Negotiator, date string, duration time.Duration, limit int) error {
	day, err := resolver.ResolveDate(date, resolver.Now())
	if err != nil {
		return err
	}
	slots, err := negotiator.ProposeTimes(ctx, day, duration, limit)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintf(w, "No free %s slot on %s\n", duration, day.Format("Mon Jan 2"))
		return nil
	}
	fmt.Fprintf(w, "Free %s slots on %s:\n", duration, day.Format("Mon Jan 2"))
	printIntervals(w, slots)
	return nil
}
