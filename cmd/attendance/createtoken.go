package main

import (
	"fmt"
	"time"

	"axiapac.com/attendance/security"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var createTokenCmd = &cobra.Command{
	Use:   "create-token",
	Short: "Print an admin bearer token for scripted calls to the admin API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		secret, err := security.DecodeSecret(cfg.Admin.SigningSecret)
		if err != nil {
			return fmt.Errorf("admin.signingSecret: %w", err)
		}

		ttl := tokenTTL
		if ttl == 0 {
			ttl = cfg.Admin.SessionTTL
		}
		token, err := security.CreateAdminToken(security.AdminIdentity{Email: cfg.Admin.Email}, secret, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	createTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default admin.sessionTTL)")
}
