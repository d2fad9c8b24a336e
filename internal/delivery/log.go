package delivery

import (
	"context"
	"log/slog"
)

// Log writes codes to the logger instead of delivering them. It is meant
// for development; with showCodes unset the code itself is redacted.
type Log struct {
	log       *slog.Logger
	channel   string
	showCodes bool
}

// NewLog creates a logging sender for one channel.
func NewLog(log *slog.Logger, channel string, showCodes bool) *Log {
	return &Log{log: log.With("service", "delivery"), channel: channel, showCodes: showCodes}
}

// Send logs the delivery.
func (l *Log) Send(ctx context.Context, destination, code, displayName string) error {
	shown := "[redacted]"
	if l.showCodes {
		shown = code
	}
	l.log.InfoContext(ctx, "otp code",
		slog.String("channel", l.channel),
		slog.String("destination", destination),
		slog.String("name", displayName),
		slog.String("code", shown),
	)
	return nil
}
