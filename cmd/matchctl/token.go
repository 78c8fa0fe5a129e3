package main

import (
	"fmt"
	"strings"
	"time"

	"expert-match/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newTokenCmd mints operator tokens for local testing. The secret comes from
// --secret or JWT_ACCESS_SECRET.
func newTokenCmd(_ *cli) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for calling the API locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := strings.TrimSpace(v.GetString("secret"))
			if secret == "" {
				return fmt.Errorf("no signing secret: pass --secret or set JWT_ACCESS_SECRET")
			}

			userID := uuid.New()
			if s := v.GetString("user"); s != "" {
				id, err := parseID("user", s)
				if err != nil {
					return err
				}
				userID = id
			}

			svc := jwt.NewHMACService(secret, v.GetDuration("ttl"))
			tok, err := svc.GenerateAccessToken(userID, v.GetString("email"), strings.ToUpper(v.GetString("role")))
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), tok)
			return nil
		},
	}

	cmd.Flags().String("secret", "", "HMAC secret")
	cmd.Flags().String("user", "", "user id (random when empty)")
	cmd.Flags().String("email", "", "email claim")
	cmd.Flags().String("role", jwt.RoleOperator, "role claim")
	cmd.Flags().Duration("ttl", 30*time.Minute, "token lifetime")

	_ = v.BindPFlags(cmd.Flags())
	_ = v.BindEnv("secret", "JWT_ACCESS_SECRET")

	return cmd
}
