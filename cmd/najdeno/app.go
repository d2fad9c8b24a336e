package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/api"
	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/claim"
	"github.com/erazemk/najdeno/internal/config"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/delivery"
	"github.com/erazemk/najdeno/internal/match"
	"github.com/erazemk/najdeno/internal/media"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/otp"
	"github.com/erazemk/najdeno/internal/store"
)

// newDeliveryRouter registers a sender for every configured channel. With
// show_codes set, unconfigured channels fall back to the log sender.
func newDeliveryRouter(log *slog.Logger, cfg config.DeliveryConfig, ttl config.OTPConfig) *delivery.Router {
	router := delivery.NewRouter()

	if cfg.SMTPHost != "" {
		router.Handle(model.ChannelEmail, delivery.NewSMTP(delivery.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			TTL:      ttl.TTL,
		}))
	} else if cfg.ShowCodes {
		router.Handle(model.ChannelEmail, delivery.NewLog(log, string(model.ChannelEmail), true))
	}

	if cfg.SMSWebhook != "" {
		router.Handle(model.ChannelMobile, delivery.NewWebhook(delivery.WebhookConfig{
			URL:     cfg.SMSWebhook,
			Token:   cfg.SMSToken,
			TTL:     ttl.TTL,
			Timeout: cfg.SMSTimeout,
			Retries: cfg.SMSRetries,
		}))
	} else if cfg.ShowCodes {
		router.Handle(model.ChannelMobile, delivery.NewLog(log, string(model.ChannelMobile), true))
	}

	return router
}

// jwtSecret returns the configured secret, or the one persisted in the database.
func jwtSecret(ctx context.Context, database *sql.DB, cfg config.AuthConfig) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}
	return store.GetJWTSecret(ctx, database)
}

// bootstrapAdmin creates the first admin account on an empty database. It
// reports whether an account was created.
func bootstrapAdmin(ctx context.Context, database *sql.DB, name, email string) (bool, error) {
	n, err := store.CountUsers(ctx, database)
	if err != nil {
		return false, err
	}
	if n > 0 || email == "" {
		return false, nil
	}
	if err := model.ValidateEmail(email); err != nil {
		return false, err
	}

	_, err = store.CreateUser(ctx, database, model.User{Name: name, Email: email, Role: model.RoleAdmin})
	if err != nil {
		return false, fmt.Errorf("creating admin user: %w", err)
	}
	return true, nil
}

// newHandler wires the services and returns the HTTP handler.
func newHandler(ctx context.Context, log *slog.Logger, database *sql.DB, cfg *config.Config) (http.Handler, error) {
	secret, err := jwtSecret(ctx, database, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("loading jwt secret: %w", err)
	}

	items := store.NewItemRepo(database)
	deliveries := newDeliveryRouter(log, cfg.Delivery, cfg.OTP)
	if len(deliveries.Channels()) == 0 {
		log.Warn("no otp delivery channel configured, logins will fail")
	}

	deps := api.Deps{
		DB:     database,
		Tokens: auth.NewTokens(secret, cfg.Auth.TokenTTL),
		OTP: otp.NewService(log, store.NewSessionRepo(database), deliveries, otp.Config{
			TTL:         cfg.OTP.TTL,
			MaxAttempts: cfg.OTP.MaxAttempts,
			HashCost:    cfg.OTP.HashCost,
		}),
		Claims: claim.NewService(log, items, store.NewClaimRepo(database), store.NewUserRepo(database), db.NewTxManager(database)),
		Finder: match.NewFinder(items, log),
		Match: api.MatchSettings{
			MinScore:            cfg.Match.MinScore,
			RecommendationScore: cfg.Match.RecommendationScore,
			RecommendationLimit: cfg.Match.RecommendationLimit,
		},
	}

	if cfg.Media.Enabled() {
		s3, err := media.NewS3Store(ctx, media.S3Config{
			Endpoint:      cfg.Media.Endpoint,
			Region:        cfg.Media.Region,
			Bucket:        cfg.Media.Bucket,
			AccessKey:     cfg.Media.AccessKey,
			SecretKey:     cfg.Media.SecretKey,
			PublicBaseURL: cfg.Media.PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		deps.Media = media.NewUploader(log, s3)
		log.Info("image uploads enabled", "bucket", cfg.Media.Bucket)
	}

	return api.LoggingMiddleware(log)(api.NewRouter(deps)), nil
}
