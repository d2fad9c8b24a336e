package config

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate checks ranges and cross-field rules. Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %v)", c.Auth.TokenTTL)
	}
	if err := c.OTP.validate(); err != nil {
		return fmt.Errorf("otp: %w", err)
	}
	if err := c.Match.validate(); err != nil {
		return fmt.Errorf("match: %w", err)
	}
	if c.Media.Enabled() && c.Media.Region == "" {
		return fmt.Errorf("media.region is required when a bucket is set")
	}
	if c.Delivery.SMTPHost != "" && c.Delivery.SMTPFrom == "" {
		return fmt.Errorf("delivery.smtp_from is required when smtp_host is set")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	return nil
}

func (o *OTPConfig) validate() error {
	if o.TTL <= 0 {
		return fmt.Errorf("ttl must be > 0 (got %v)", o.TTL)
	}
	if o.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1 (got %d)", o.MaxAttempts)
	}
	if o.HashCost < bcrypt.MinCost || o.HashCost > bcrypt.MaxCost {
		return fmt.Errorf("hash_cost must be between %d and %d (got %d)", bcrypt.MinCost, bcrypt.MaxCost, o.HashCost)
	}
	return nil
}

func (m *MatchConfig) validate() error {
	if m.MinScore < 0 || m.MinScore > 100 {
		return fmt.Errorf("min_score must be within 0..100 (got %d)", m.MinScore)
	}
	if m.RecommendationScore < 0 || m.RecommendationScore > 100 {
		return fmt.Errorf("recommendation_score must be within 0..100 (got %d)", m.RecommendationScore)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("invalid level %q", l.Level)
	}
	return level, nil
}
