package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/flashgen-api/auth"
)

func newTokenCommand(flags *Flags) *cobra.Command {
	var (
		nickname string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <owner-id>",
		Short: "Issue an HS256 bearer token for local development",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.Auth.JWKS {
				return fmt.Errorf("tokens cannot be issued locally while auth.jwks is enabled")
			}

			issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)
			if err != nil {
				return err
			}
			if ttl > 0 {
				issuer.TTL = ttl
			}

			token, err := issuer.CreateToken(args[0], nickname)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&nickname, "nickname", "", "nickname claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default 24h)")
	return cmd
}
