// Package otp issues and verifies one-time login codes.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/model"
)

// Defaults for Config.
const (
	DefaultTTL         = 60 * time.Second
	DefaultMaxAttempts = 3
	CodeLength         = 6
)

// maxSwapRetries bounds how often Verify re-reads a session after losing a
// check-and-set race.
const maxSwapRetries = 5

type sessionRepo interface {
	Create(ctx context.Context, s model.OTPSession) (string, error)
	Get(ctx context.Context, id string) (*model.OTPSession, error)
	Update(ctx context.Context, id string, p model.SessionPatch) error
}

// Deliverer sends a plaintext code to one destination.
type Deliverer interface {
	Send(ctx context.Context, channel model.Channel, destination, code, displayName string) error
}

// Config tunes code lifetime and hashing.
type Config struct {
	TTL         time.Duration
	MaxAttempts int
	HashCost    int
}

// Service issues and verifies OTP sessions.
type Service struct {
	log       *slog.Logger
	sessions  sessionRepo
	delivery  Deliverer
	cfg       Config
	now       func() time.Time
	random    io.Reader
	codeSpace *big.Int
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandom replaces crypto/rand as the code source.
func WithRandom(r io.Reader) Option {
	return func(s *Service) { s.random = r }
}

// NewService creates an OTP Service. Zero config fields take their defaults.
func NewService(log *slog.Logger, sessions sessionRepo, delivery Deliverer, cfg Config, opts ...Option) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}

	s := &Service{
		log:       log.With("service", "otp"),
		sessions:  sessions,
		delivery:  delivery,
		cfg:       cfg,
		now:       time.Now,
		random:    rand.Reader,
		codeSpace: new(big.Int).Exp(big.NewInt(10), big.NewInt(CodeLength), nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueRequest asks for a code to be sent to one or more destinations.
type IssueRequest struct {
	UserID       string
	Destinations map[model.Channel]string
	DisplayName  string
}

// Issued is returned to the caller after a code was sent. It never contains the code.
type Issued struct {
	SessionID string `json:"session_id"`
	ExpiresIn int    `json:"expires_in"`
}

// Issue creates a session and sends the same code to every requested channel.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*Issued, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", model.ErrInvalidInput)
	}
	if len(req.Destinations) == 0 {
		return nil, fmt.Errorf("%w: at least one channel is required", model.ErrInvalidInput)
	}
	for c, dest := range req.Destinations {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: unknown channel %q", model.ErrInvalidInput, c)
		}
		if dest == "" {
			return nil, fmt.Errorf("%w: no destination for %s", model.ErrInvalidInput, c)
		}
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing code: %w", err)
	}

	now := s.now()
	session := model.OTPSession{
		UserID:       req.UserID,
		Destinations: req.Destinations,
		CodeHash:     string(hash),
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.cfg.TTL),
	}
	id, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, model.Dependency("creating otp session", err)
	}
	session.ID = id

	for _, c := range session.Channels() {
		if err := s.delivery.Send(ctx, c, req.Destinations[c], code, req.DisplayName); err != nil {
			return nil, model.Dependency(fmt.Sprintf("sending code via %s", c), err)
		}
	}

	s.log.InfoContext(ctx, "otp issued",
		slog.String("session_id", id),
		slog.String("user_id", req.UserID),
		slog.Any("channels", session.Channels()),
	)
	return &Issued{SessionID: id, ExpiresIn: int(s.cfg.TTL / time.Second)}, nil
}

// Verify checks a candidate code. Failures are reported in this order:
// model.ErrNotFound, model.ErrExpired, model.ErrAlreadyUsed,
// model.ErrTooManyAttempts, model.ErrInvalidCode. A wrong code uses up one attempt.
func (s *Service) Verify(ctx context.Context, sessionID, code string) (*model.OTPSession, error) {
	for range maxSwapRetries {
		session, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, model.Dependency("getting otp session", err)
		}
		if session == nil {
			return nil, fmt.Errorf("otp session %s: %w", sessionID, model.ErrNotFound)
		}

		now := s.now()
		switch {
		case now.After(session.ExpiresAt):
			return nil, model.ErrExpired
		case session.Verified:
			return nil, model.ErrAlreadyUsed
		case session.Attempts >= s.cfg.MaxAttempts:
			return nil, model.ErrTooManyAttempts
		}

		patch := model.SessionPatch{ExpectedAttempts: session.Attempts, Attempts: session.Attempts}
		matched := bcrypt.CompareHashAndPassword([]byte(session.CodeHash), []byte(code)) == nil
		if matched {
			patch.Verified = true
			patch.VerifiedAt = &now
		} else {
			patch.Attempts++
		}

		err = s.sessions.Update(ctx, session.ID, patch)
		if errors.Is(err, model.ErrConflict) {
			// Another verify changed the session; re-evaluate against fresh state.
			continue
		}
		if err != nil {
			return nil, model.Dependency("updating otp session", err)
		}

		if !matched {
			s.log.InfoContext(ctx, "otp rejected",
				slog.String("session_id", session.ID),
				slog.Int("attempts", patch.Attempts),
			)
			return nil, model.ErrInvalidCode
		}

		session.Verified = true
		session.VerifiedAt = &now
		s.log.InfoContext(ctx, "otp verified",
			slog.String("session_id", session.ID),
			slog.String("user_id", session.UserID),
		)
		return session, nil
	}

	return nil, model.Dependency("verifying otp session", model.ErrConflict)
}

func (s *Service) generateCode() (string, error) {
	n, err := rand.Int(s.random, s.codeSpace)
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}
