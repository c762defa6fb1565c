package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxmeet/internal/meeting"
)

func newResolveCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "resolve [date] [time]",
		Short: "Resolve a free-text date and time into a timestamp",
		Long: `Resolve a date and time the way meeting requests are resolved, relative
to now in the configured time zone. With --text, the first date or time
found in the text is used instead.

Examples:
  inboxmeet resolve Friday "3 PM (IST)"
  inboxmeet resolve --text "Can we talk on 12/31/2025?"`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			resolver, err := newResolver(cfg)
			if err != nil {
				return err
			}
			return runResolve(cmd.OutOrStdout(), resolver, args, text)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Free text to search for a date or time")
	return cmd
}

func runResolve(w io.Writer, resolver *meeting.Resolver, args []string, text string) error {
	var (
		t   time.Time
		err error
	)
	switch {
	case len(args) == 2:
		t, err = resolver.Resolve(args[0], args[1])
	case text != "":
		t, err = resolver.ExtractFromText(text)
	default:
		return errors.New("either a date and a time, or --text is required")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(w, t.Format(time.RFC3339))
	return nil
}
