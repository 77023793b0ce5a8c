// Package main mints bearer tokens signed with the configured secret, for
// local development and manual testing against the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/service/auth"
)

func main() {
	user := flag.String("user", "", "subject user ID (random when empty)")
	roles := flag.String("roles", "", "comma separated role claims, e.g. admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	userID := uuid.New()
	if *user != "" {
		userID, err = uuid.Parse(*user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid user ID %q: %v\n", *user, err)
			os.Exit(1)
		}
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		os.Exit(1)
	}

	token, err := jwtService.GenerateToken(context.Background(), userID, splitRoles(*roles)...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User: %s\nToken: %s\n", userID, token)
}

func splitRoles(raw string) []string {
	var roles []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
