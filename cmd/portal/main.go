package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbaruka/sms-portal-sub004/internal/app"
	"github.com/benbaruka/sms-portal-sub004/internal/config"
	"github.com/benbaruka/sms-portal-sub004/internal/infrastructure/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := app.SetupLogger(cfg.GinMode)

	// portal token -sub ops -role admin prints an admin bearer token
	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := issueToken(cfg, os.Args[2:]); err != nil {
			logger.Error("token", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		logger.Error("app", "error", err)
		os.Exit(1)
	}
}

func issueToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	sub := fs.String("sub", "", "operator id")
	role := fs.String("role", "admin", "casbin role")
	ttl := fs.Duration("ttl", cfg.AdminTokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sub == "" {
		return fmt.Errorf("-sub is required")
	}

	token, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, *ttl).GenerateAccessToken(*sub, *role)
	if err != nil {
		return err
	}
	slog.Default().Debug("admin token issued", "sub", *sub, "role", *role)
	fmt.Println(token)
	return nil
}
