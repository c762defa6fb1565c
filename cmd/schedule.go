package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxmeet/internal/meeting"
	"github.com/teemow/inboxmeet/internal/server"
)

func newScheduleCmd() *cobra.Command {
	var (
		account    string
		req        meeting.Request
		attendees  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a meeting, or propose alternatives when the slot is taken",
		Long: `Resolve the requested date and time, check the calendar and book the
meeting when the slot is free. On conflict, alternatives on the same day are
printed and, with draft_replies enabled, a reply draft is saved for the
organizer.

Examples:
  inboxmeet schedule --title "Project sync" --date Friday --time "3 PM IST" \
    --attendees bob@example.com,carol@example.com --organizer alice@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Attendees = meeting.SplitAttendees(attendees)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(context.Background())

			res, err := runSchedule(ctx, rt.sc, account, req)
			if err != nil {
				return err
			}
			if err := printResult(cmd.OutOrStdout(), res, jsonOutput); err != nil {
				return err
			}
			if res.Status == meeting.StatusError {
				return res.Err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Google account name (default: the configured account)")
	cmd.Flags().StringVar(&req.Title, "title", "", "Meeting title")
	cmd.Flags().StringVar(&req.StartDate, "date", "", "Start date, e.g. 'Friday' or '2025-04-04'")
	cmd.Flags().StringVar(&req.StartTime, "time", "", "Start time, e.g. '3 PM' or '15:00 IST'")
	cmd.Flags().StringVar(&req.EndDate, "end-date", "", "End date (default: the start date)")
	cmd.Flags().StringVar(&req.EndTime, "end-time", "", "End time (default: one hour after the start)")
	cmd.Flags().StringVar(&attendees, "attendees", "", "Comma-separated attendee addresses")
	cmd.Flags().StringVar(&req.OrganizerEmail, "organizer", "", "Organizer address")
	cmd.Flags().StringVar(&req.Location, "location", "", "Meeting location")
	cmd.Flags().StringVar(&req.Description, "description", "", "Meeting description")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func runSchedule(ctx context.Context, sc *server.ServerContext, account string, req meeting.Request) (meeting.Result, error) {
	scheduler, err := sc.Scheduler(account)
	if err != nil {
		return meeting.Result{}, err
	}
	return scheduler.Process(ctx, req), nil
}

func printResult(w io.Writer, res meeting.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(string(res.Status)), res.Message)
	switch res.Status {
	case meeting.StatusSuccess:
		fmt.Fprintf(w, "  Event ID: %s\n", res.EventID)
		if len(res.Attendees) > 0 {
			fmt.Fprintf(w, "  Attendees: %s\n", strings.Join(res.Attendees, ", "))
		}
	case meeting.StatusConflict:
		printIntervals(w, res.Alternatives)
		if res.DraftID != "" {
			fmt.Fprintf(w, "  Reply draft: %s\n", res.DraftID)
		}
	}
	return nil
}

func printIntervals(w io.Writer, slots []meeting.Interval) {
	for i, slot := range slots {
		fmt.Fprintf(w, "  %d. %s\n", i+1, slot)
	}
}
