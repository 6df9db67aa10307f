package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/benbaruka/sms-portal-sub004/domain"
	"github.com/benbaruka/sms-portal-sub004/internal/backend"
	"github.com/benbaruka/sms-portal-sub004/internal/config"
	httpx "github.com/benbaruka/sms-portal-sub004/internal/http"
	"github.com/benbaruka/sms-portal-sub004/internal/http/handlers"
	"github.com/benbaruka/sms-portal-sub004/internal/http/middleware"
	"github.com/benbaruka/sms-portal-sub004/internal/infrastructure/auth"
	"github.com/benbaruka/sms-portal-sub004/internal/infrastructure/database"
	"github.com/benbaruka/sms-portal-sub004/internal/infrastructure/notifications"
	"github.com/benbaruka/sms-portal-sub004/internal/infrastructure/repositories"
	"github.com/benbaruka/sms-portal-sub004/internal/onboarding"
	"github.com/benbaruka/sms-portal-sub004/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService
	Platform    *backend.Client

	// Repositories
	SessionRepo domain.SessionRepository
	AuditRepo   domain.AuditEventRepository

	// Services
	TokenSvc        *auth.JWTServiceImpl
	NotificationSvc domain.NotificationService
	ResendGuard     domain.ResendGuard
	PolicySvc       domain.PolicyService
	Onboarding      *services.OnboardingService
	OTPLimiter      *middleware.RateLimiter
}

// NewContainer creates and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	if err := container.initDatabase(); err != nil {
		container.Close()
		return nil, err
	}
	if err := container.initRedis(ctx); err != nil {
		container.Close()
		return nil, err
	}
	container.initRepositories()
	if err := container.initServices(); err != nil {
		container.Close()
		return nil, err
	}
	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	c.DB = db
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Casbin = cas
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	client, err := database.NewRedis(ctx, c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err != nil {
		return err
	}
	c.RedisClient = client
	return nil
}

func (c *Container) initRepositories() {
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient)
	c.AuditRepo = repositories.NewAuditEventRepository(c.DB)
}

func (c *Container) initServices() error {
	cfg := c.Config

	c.Platform = backend.NewClient(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Paths: backend.Paths{
			Signup:        cfg.BackendPaths.Signup,
			VerifyOTP:     cfg.BackendPaths.VerifyOTP,
			ResendOTP:     cfg.BackendPaths.ResendOTP,
			Login:         cfg.BackendPaths.Login,
			DocumentTypes: cfg.BackendPaths.DocumentTypes,
			UploadURL:     cfg.BackendPaths.UploadURL,
			Documents:     cfg.BackendPaths.Documents,
			MyDocuments:   cfg.BackendPaths.MyDocuments,
		},
	})
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AdminTokenTTL)
	c.NotificationSvc = notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)
	c.ResendGuard = services.NewResendGuard(c.RedisClient, cfg.OTPResendWindow)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
	c.OTPLimiter = middleware.NewRateLimiter(cfg.OTPRequestsPerMinute, cfg.OTPBurst)

	machine := onboarding.DefaultMachine()
	machine.SignInPath = cfg.SignInPath
	machine.DashboardPath = cfg.DashboardPath
	machine.RedirectDelay = cfg.RedirectDelay
	machine.MaxFileSize = cfg.MaxFileSize

	c.Onboarding = services.NewOnboardingService(machine, services.OnboardingDeps{
		Accounts:          c.Platform,
		Documents:         c.Platform,
		SessionRepo:       c.SessionRepo,
		TokenSvc:          c.TokenSvc,
		Notifier:          c.NotificationSvc,
		Audit:             c.AuditRepo,
		Resend:            c.ResendGuard,
		ComplianceContact: cfg.ComplianceContact,
	})
	return nil
}

// Router builds the HTTP handler over the container's services
func (c *Container) Router() *gin.Engine {
	return httpx.BuildRouter(
		handlers.NewOnboardingHandlers(c.Onboarding, c.Config.MaxFileSize),
		handlers.NewAdminHandlers(c.AuditRepo, c.Onboarding),
		handlers.NewPolicyHandlers(c.PolicySvc),
		middleware.SessionMiddleware(c.SessionRepo, middleware.SessionConfig{
			CookieName: c.Config.SessionCookie,
			TTL:        c.Config.SessionTTL,
			Secure:     c.Config.SessionSecure,
		}),
		c.OTPLimiter,
		middleware.NewAuthMW(c.TokenSvc),
		middleware.NewCasbinMW(c.PolicySvc),
	)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return fmt.Errorf("database handle: %w", err)
		}
		return sqlDB.Close()
	}
	return nil
}
