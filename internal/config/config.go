package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is everything the server reads from the environment.
type Config struct {
	Addr string

	// DatabasePath selects the SQLite backend; empty means the
	// volatile in-memory store.
	DatabasePath string

	StripeSecretKey     string
	StripePublicKey     string
	StripeWebhookSecret string

	PlaidClientID    string
	PlaidSecret      string
	PlaidEnvironment string

	TelegramToken  string
	TelegramChatID int64
}

// Load reads configuration from the environment. The Stripe keys are
// required; everything else has a default or disables its feature
// when absent.
func Load() (*Config, error) {
	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is not set")
	}
	publicKey := os.Getenv("STRIPE_PUBLIC_KEY")
	if publicKey == "" {
		return nil, fmt.Errorf("STRIPE_PUBLIC_KEY is not set")
	}

	cfg := &Config{
		Addr:                os.Getenv("ADDR"),
		DatabasePath:        os.Getenv("DATABASE_PATH"),
		StripeSecretKey:     secretKey,
		StripePublicKey:     publicKey,
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PlaidClientID:       os.Getenv("PLAID_CLIENT_ID"),
		PlaidSecret:         os.Getenv("PLAID_SECRET"),
		PlaidEnvironment:    os.Getenv("PLAID_ENV"),
		TelegramToken:       os.Getenv("TELEGRAM_TOKEN"),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.PlaidEnvironment == "" {
		cfg.PlaidEnvironment = "sandbox"
	}
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer: %w", err)
		}
		cfg.TelegramChatID = chatID
	}
	return cfg, nil
}
