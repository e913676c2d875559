package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DhavalSuthar-24/crease/config"
	"github.com/DhavalSuthar-24/crease/pkg/token"
)

// NewTokenCommand creates the token command, which mints access tokens
// for local development and scripted scoring.
func NewTokenCommand() *cobra.Command {
	var (
		userID  uint
		minutes int
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return fmt.Errorf("--user is required")
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if minutes <= 0 {
				minutes = cfg.JWT.AccessTokenExpiryMinutes
			}
			signed, err := token.GenerateJWT(userID, cfg.JWT.AccessTokenSecret, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().UintVar(&userID, "user", 0, "user id to put in the token")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "expiry in minutes (default from JWT_ACCESS_TOKEN_EXPIRY_MINUTES)")
	return cmd
}
