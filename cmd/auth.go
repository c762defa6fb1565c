package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxmeet/internal/calendar"
	"github.com/teemow/inboxmeet/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account string
		code    string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize inboxmeet to use a Google account",
		Long: `Print the Google consent URL, read the authorization code and store the
token for the account. The token is then verified by reading the primary
calendar. Requires google.client_id and google.client_secret in the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			creds := cfg.GoogleCredentials()
			if err := creds.Validate(); err != nil {
				return err
			}
			if account == "" {
				account = cfg.Account
			}
			conf := google.OAuthConfig(creds)

			out := cmd.OutOrStdout()
			if code == "" {
				fmt.Fprintf(out, "Visit this URL in your browser and grant access:\n\n  %s\n\nAuthorization code: ", google.AuthURL(conf, account))
				if code, err = readCode(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if err := google.SaveTokenForAccount(ctx, conf, account, code); err != nil {
				return err
			}

			client, err := calendar.NewClient(ctx, conf, google.NewFileTokenProvider(), account)
			if err != nil {
				return err
			}
			info, err := client.GetCalendar(ctx, calendar.PrimaryCalendarID)
			if err != nil {
				return fmt.Errorf("token saved but calendar access failed: %w", err)
			}
			fmt.Fprintf(out, "Authorized account %q (calendar %s, time zone %s)\n", account, info.Summary, info.TimeZone)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account name to store the token under (default: the configured account)")
	cmd.Flags().StringVar(&code, "code", "", "Authorization code (default: read from stdin)")
	return cmd
}

func readCode(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read authorization code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return "", fmt.Errorf("no authorization code given")
	}
	return code, nil
}
