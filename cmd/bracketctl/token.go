package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Dosada05/tournament-brackets/middleware"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a bearer token for the tournament API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Value: "dev", Usage: "Token subject (organizer name)"},
			&cli.StringFlag{Name: "role", Value: string(models.RoleOrganizer), Usage: "admin, organizer or viewer"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "Token lifetime"},
			&cli.StringFlag{Name: "secret", EnvVars: []string{"JWT_SECRET_KEY"}, Usage: "Signing secret"},
		},
		Before: func(cCtx *cli.Context) error {
			_ = godotenv.Load()
			return nil
		},
		Action: func(cCtx *cli.Context) error {
			secret := cCtx.String("secret")
			if secret == "" {
				secret = os.Getenv("JWT_SECRET_KEY")
			}
			if secret == "" {
				return errors.New("signing secret is not set (use --secret or JWT_SECRET_KEY)")
			}

			auth := middleware.NewAuthenticator(secret)
			token, err := auth.IssueToken(cCtx.String("subject"), models.UserRole(cCtx.String("role")), cCtx.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cCtx.App.Writer, token)
			return nil
		},
	}
}
