package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type BackendPathsConfig struct {
	Signup        string `yaml:"signup"`
	VerifyOTP     string `yaml:"verify_otp"`
	ResendOTP     string `yaml:"resend_otp"`
	Login         string `yaml:"login"`
	DocumentTypes string `yaml:"document_types"`
	UploadURL     string `yaml:"upload_url"`
	Documents     string `yaml:"documents"`
	MyDocuments   string `yaml:"my_documents"`
}

type BackendConfig struct {
	BaseURL string             `yaml:"base_url"`
	Timeout string             `yaml:"timeout"`
	Paths   BackendPathsConfig `yaml:"paths"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret   string `yaml:"secret"`
	Issuer   string `yaml:"issuer"`
	AdminTTL string `yaml:"admin_token_ttl"`
}

type SessionConfig struct {
	CookieName    string `yaml:"cookie_name"`
	TTL           string `yaml:"ttl"`
	IdleTimeout   string `yaml:"idle_timeout"`
	SweepInterval string `yaml:"sweep_interval"`
	Secure        bool   `yaml:"secure"`
}

type OnboardingConfig struct {
	SignInPath        string `yaml:"sign_in_path"`
	DashboardPath     string `yaml:"dashboard_path"`
	RedirectDelay     string `yaml:"redirect_delay"`
	MaxFileSizeMB     int    `yaml:"max_file_size_mb"`
	ResendWindow      string `yaml:"resend_window"`
	ComplianceContact string `yaml:"compliance_contact"`
}

type RateLimitConfig struct {
	OTPPerMinute int `yaml:"otp_per_minute"`
	OTPBurst     int `yaml:"otp_burst"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App        AppConfig        `yaml:"app"`
	Backend    BackendConfig    `yaml:"backend"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Session    SessionConfig    `yaml:"session"`
	Onboarding OnboardingConfig `yaml:"onboarding"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Twilio     TwilioConfig     `yaml:"twilio"`
	Casbin     CasbinConfig     `yaml:"casbin"`
}

type Config struct {
	Port    string
	GinMode string

	BackendURL     string
	BackendTimeout time.Duration
	BackendPaths   BackendPathsConfig

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	JWTIssuer     string
	AdminTokenTTL time.Duration

	SessionCookie        string
	SessionTTL           time.Duration
	SessionSecure        bool
	WizardIdleTimeout    time.Duration
	WizardSweepInterval  time.Duration
	SignInPath           string
	DashboardPath        string
	RedirectDelay        time.Duration
	MaxFileSize          int64
	OTPResendWindow      time.Duration
	ComplianceContact    string
	OTPRequestsPerMinute int
	OTPBurst             int

	TwilioSID       string
	TwilioToken     string
	TwilioFrom      string
	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads .env (when present), then the YAML file named by PORTAL_CONFIG
// (default config/config.yml), then applies environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFrom(env("PORTAL_CONFIG", "config/config.yml"))
}

// LoadFrom builds the configuration from the YAML file at path
func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	applyEnv(configFile)
	return build(configFile)
}

func applyEnv(f *ConfigFile) {
	f.Backend.BaseURL = env("PORTAL_BACKEND_URL", f.Backend.BaseURL)
	f.Database.DSN = env("PORTAL_DSN", f.Database.DSN)
	f.Redis.Addr = env("PORTAL_REDIS_ADDR", f.Redis.Addr)
	f.Redis.Password = env("PORTAL_REDIS_PASSWORD", f.Redis.Password)
	f.JWT.Secret = env("PORTAL_JWT_SECRET", f.JWT.Secret)
	f.Twilio.AccountSID = env("TWILIO_ACCOUNT_SID", f.Twilio.AccountSID)
	f.Twilio.AuthToken = env("TWILIO_AUTH_TOKEN", f.Twilio.AuthToken)
	f.Twilio.FromNumber = env("TWILIO_FROM_NUMBER", f.Twilio.FromNumber)
	if port, err := strconv.Atoi(env("PORT", "")); err == nil {
		f.App.Port = port
	}
}

func build(f *ConfigFile) (*Config, error) {
	if f.Backend.BaseURL == "" {
		return nil, errors.New("backend base_url is required")
	}
	if f.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	backendTimeout, err := parseDuration("backend timeout", f.Backend.Timeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := parseDuration("session TTL", f.Session.TTL, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	idle, err := parseDuration("wizard idle timeout", f.Session.IdleTimeout, time.Hour)
	if err != nil {
		return nil, err
	}
	sweep, err := parseDuration("wizard sweep interval", f.Session.SweepInterval, 5*time.Minute)
	if err != nil {
		return nil, err
	}
	redirect, err := parseDuration("redirect delay", f.Onboarding.RedirectDelay, 2*time.Second)
	if err != nil {
		return nil, err
	}
	resend, err := parseDuration("OTP resend window", f.Onboarding.ResendWindow, 0)
	if err != nil {
		return nil, err
	}
	adminTTL, err := parseDuration("admin token TTL", f.JWT.AdminTTL, time.Hour)
	if err != nil {
		return nil, err
	}

	maxMB := f.Onboarding.MaxFileSizeMB
	if maxMB <= 0 {
		maxMB = 10
	}
	port := f.App.Port
	if port == 0 {
		port = 8080
	}

	return &Config{
		Port:                 fmt.Sprintf("%d", port),
		GinMode:              f.App.GinMode,
		BackendURL:           f.Backend.BaseURL,
		BackendTimeout:       backendTimeout,
		BackendPaths:         f.Backend.Paths,
		DSN:                  f.Database.DSN,
		RedisAddr:            f.Redis.Addr,
		RedisPassword:        f.Redis.Password,
		RedisDB:              f.Redis.DB,
		JWTSecret:            f.JWT.Secret,
		JWTIssuer:            f.JWT.Issuer,
		AdminTokenTTL:        adminTTL,
		SessionCookie:        orDefault(f.Session.CookieName, "portal_session"),
		SessionTTL:           sessionTTL,
		SessionSecure:        f.Session.Secure,
		WizardIdleTimeout:    idle,
		WizardSweepInterval:  sweep,
		SignInPath:           orDefault(f.Onboarding.SignInPath, "/signin"),
		DashboardPath:        orDefault(f.Onboarding.DashboardPath, "/dashboard"),
		RedirectDelay:        redirect,
		MaxFileSize:          int64(maxMB) * 1024 * 1024,
		OTPResendWindow:      resend,
		ComplianceContact:    f.Onboarding.ComplianceContact,
		OTPRequestsPerMinute: f.RateLimit.OTPPerMinute,
		OTPBurst:             f.RateLimit.OTPBurst,
		TwilioSID:            f.Twilio.AccountSID,
		TwilioToken:          f.Twilio.AuthToken,
		TwilioFrom:           f.Twilio.FromNumber,
		CasbinModelPath:      f.Casbin.ModelPath,
	}, nil
}

func parseDuration(name, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
