package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	Identity IdentityConfig
	Billing  BillingConfig
}

type ServerConfig struct {
	Port string
	Env  string
	// SiteURL is the public base URL used to build checkout redirect
	// and Connect onboarding return targets.
	SiteURL string
}

type DatabaseConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type IdentityConfig struct {
	AdminURL   string
	ServiceKey string
}

type BillingConfig struct {
	PlatformFeeCents       int64
	SubscriptionPriceCents int64
	TrialPeriodDays        int64
	BookingExpiryHours     int
}

func Load() *Config {
	_ = godotenv.Load()

	platformFee, _ := strconv.ParseInt(getEnv("PLATFORM_FEE_CENTS", "200"), 10, 64)
	subPrice, _ := strconv.ParseInt(getEnv("SUBSCRIPTION_PRICE_CENTS", "1500"), 10, 64)
	trialDays, _ := strconv.ParseInt(getEnv("TRIAL_PERIOD_DAYS", "3"), 10, 64)
	expiryHours, _ := strconv.Atoi(getEnv("BOOKING_EXPIRY_HOURS", "24"))

	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			Env:     getEnv("ENV", "development"),
			SiteURL: getEnv("SITE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "holdmytime.db"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		},
		Identity: IdentityConfig{
			AdminURL:   os.Getenv("IDENTITY_ADMIN_URL"),
			ServiceKey: os.Getenv("IDENTITY_SERVICE_KEY"),
		},
		Billing: BillingConfig{
			PlatformFeeCents:       platformFee,
			SubscriptionPriceCents: subPrice,
			TrialPeriodDays:        trialDays,
			BookingExpiryHours:     expiryHours,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
