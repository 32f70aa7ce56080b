// Command token-generator mints a development access token for the court
// service's write endpoints.
//
//	COURT_AUTH_JWT_SECRET=... token-generator -user <uuid> -minutes 60
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/config"
	"github.com/phrazzld/court-service/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "token-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("token-generator", flag.ContinueOnError)
	userFlag := fs.String("user", "", "user id to embed in the token (random when empty)")
	minutes := fs.Int("minutes", 60, "token lifetime in minutes")
	secret := fs.String("secret", os.Getenv(config.EnvPrefix+"_AUTH_JWT_SECRET"), "signing secret")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID := uuid.New()
	if *userFlag != "" {
		parsed, err := uuid.Parse(*userFlag)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		userID = parsed
	}

	svc, err := auth.NewJWTService(config.AuthConfig{JWTSecret: *secret, TokenLifetimeMinutes: *minutes})
	if err != nil {
		return err
	}

	token, err := svc.GenerateToken(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Printf("User:  %s\nToken: %s\n", userID, token)
	return nil
}
