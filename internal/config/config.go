package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	AuthSecret  string `yaml:"auth_secret"`   // HS256 secret of platform session tokens
	AdminAPIKey string `yaml:"admin_api_key"` // bearer key for the admin surface
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type GatewayConfig struct {
	BaseURL      string `yaml:"base_url"`
	AccessToken  string `yaml:"access_token"`  // API key sent on outbound calls
	WebhookToken string `yaml:"webhook_token"` // shared secret expected on inbound notifications
	Sandbox      bool   `yaml:"sandbox"`
}

type FeesConfig struct {
	GatewayFixedFee int64 `yaml:"gateway_fixed_fee"` // centavos
	GatewayFeeBps   int64 `yaml:"gateway_fee_bps"`
	PlatformFeeBps  int64 `yaml:"platform_fee_bps"`
	MinTipAmount    int64 `yaml:"min_tip_amount"`
	MinPriceAmount  int64 `yaml:"min_price_amount"`
}

type ProPlanConfig struct {
	Price        int64 `yaml:"price"` // centavos
	DurationDays int   `yaml:"duration_days"`
}

type RefundConfig struct {
	// RevokeSubscriptionOnRefund names the refund policy explicitly: by
	// default granted entitlements survive a refund.
	RevokeSubscriptionOnRefund bool `yaml:"revoke_subscription_on_refund"`
}

type MediaConfig struct {
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	URLTTL      time.Duration `yaml:"url_ttl"`
	Bucket      string        `yaml:"bucket"`
	Region      string        `yaml:"region"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type ReconcilerConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"stale_after"`
}

type SecurityConfig struct {
	EncryptionKey string `yaml:"encryption_key"`
}

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Fees       FeesConfig       `yaml:"fees"`
	ProPlan    ProPlanConfig    `yaml:"pro_plan"`
	Refund     RefundConfig     `yaml:"refund"`
	Media      MediaConfig      `yaml:"media"`
	Mail       MailConfig       `yaml:"mail"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
	Security   SecurityConfig   `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Fees.PlatformFeeBps == 0 {
		cfg.Fees.PlatformFeeBps = 2000 // 20%
	}
	if cfg.Fees.GatewayFixedFee == 0 {
		cfg.Fees.GatewayFixedFee = 99 // R$0.99 per PIX charge
	}
	if cfg.Fees.MinTipAmount == 0 {
		cfg.Fees.MinTipAmount = 500
	}
	if cfg.Fees.MinPriceAmount == 0 {
		cfg.Fees.MinPriceAmount = 100
	}
	if cfg.ProPlan.Price == 0 {
		cfg.ProPlan.Price = 4990
	}
	if cfg.ProPlan.DurationDays == 0 {
		cfg.ProPlan.DurationDays = 30
	}
	if cfg.Media.TokenTTL <= 0 {
		cfg.Media.TokenTTL = time.Hour
	}
	if cfg.Media.URLTTL <= 0 {
		cfg.Media.URLTTL = 15 * time.Minute
	}
	if cfg.Reconciler.Interval <= 0 {
		cfg.Reconciler.Interval = time.Minute
	}
	if cfg.Reconciler.StaleAfter <= 0 {
		cfg.Reconciler.StaleAfter = 10 * time.Minute
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// env overrides for secrets
	if v := os.Getenv("GATEWAY_ACCESS_TOKEN"); v != "" {
		cfg.Gateway.AccessToken = v
	}
	if v := os.Getenv("GATEWAY_WEBHOOK_TOKEN"); v != "" {
		cfg.Gateway.WebhookToken = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("MEDIA_TOKEN_SECRET"); v != "" {
		cfg.Media.TokenSecret = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Server.AuthSecret = v
	}
	if v := os.Getenv("ADMIN_API_KEY"); v != "" {
		cfg.Server.AdminAPIKey = v
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Gateway.AccessToken == "" {
		return nil, errors.New("gateway.access_token is required")
	}
	if cfg.Gateway.WebhookToken == "" {
		return nil, errors.New("gateway.webhook_token is required")
	}
	if cfg.Media.TokenSecret == "" {
		return nil, errors.New("media.token_secret is required")
	}
	if cfg.Server.AuthSecret == "" {
		return nil, errors.New("server.auth_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
