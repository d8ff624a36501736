package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/google"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
)

func newAuthCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize read access to Gmail and store the token",
		Long: `Open Google's consent page, wait for the redirect on the local callback
address and store the resulting token. Run this once before using the other
commands; an existing token is replaced.

The callback address (GMAIL_EXTRACTOR_AUTH_ADDR, default localhost:9876)
must be an authorized redirect URI of the OAuth client.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.oauthErr != nil {
				return a.oauthErr
			}

			token, err := a.authorizer(cmd).Authorize(ctx, a.oauthConfig)
			if err != nil {
				a.metrics().RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
				return &google.AuthError{Err: fmt.Errorf("authorization failed: %w", err)}
			}
			a.metrics().RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)

			if err := a.store.Save(token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authorization successful. Token saved to: %s\n", a.store.Path())
			return nil
		},
	}

	cmd.AddCommand(newAuthStatusCmd(opts))
	return cmd
}

func newAuthStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a token is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			store := google.NewFileTokenStore(cfg.TokenFile)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Token file: %s\n", store.Path())

			token, err := store.Load()
			switch {
			case errors.Is(err, google.ErrNoToken):
				fmt.Fprintln(out, "Status: not authorized (run 'gmail-extractor auth')")
				return nil
			case err != nil:
				return err
			}

			fmt.Fprintln(out, "Status: "+tokenStatus(token.Valid(), token.Expiry, token.RefreshToken != ""))
			return nil
		},
	}
}

// tokenStatus describes a stored token for humans.
func tokenStatus(valid bool, expiry time.Time, refreshable bool) string {
	switch {
	case valid && expiry.IsZero():
		return "authorized"
	case valid:
		return "authorized (access token expires " + expiry.Local().Format(time.RFC1123) + ")"
	case refreshable:
		return "authorized (access token expired, it will be refreshed on next use)"
	default:
		return "expired (run 'gmail-extractor auth' again)"
	}
}
