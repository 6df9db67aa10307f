package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/benbaruka/sms-portal-sub004/internal/config"
)

// SetupLogger installs the process-wide JSON logger
func SetupLogger(ginMode string) *slog.Logger {
	level := slog.LevelInfo
	if ginMode == gin.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// Run serves the portal until ctx is canceled
func Run(ctx context.Context, cfg *config.Config) error {
	logger := slog.Default().With("service", "sms-portal", "module", "app")
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	seeded, err := c.Casbin.SeedDefaults()
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("casbin: seeded default policies")
	}

	go c.Onboarding.RunSweeper(ctx, cfg.WizardSweepInterval, cfg.WizardIdleTimeout)
	go runEvery(ctx, cfg.WizardSweepInterval, c.OTPLimiter.Cleanup)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runEvery(ctx context.Context, interval time.Duration, fn func()) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
