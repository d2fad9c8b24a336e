// Package delivery sends one-time codes over email, SMS and the log.
package delivery

import (
	"context"
	"fmt"
	"sync"

	"github.com/erazemk/najdeno/internal/model"
)

// Sender delivers a code to one destination on a single channel.
type Sender interface {
	Send(ctx context.Context, destination, code, displayName string) error
}

// Router dispatches codes to the sender registered for each channel.
type Router struct {
	mu      sync.RWMutex
	senders map[model.Channel]Sender
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{senders: make(map[model.Channel]Sender)}
}

// Handle registers the sender for a channel, replacing any previous one.
func (r *Router) Handle(channel model.Channel, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.senders[channel] = s
}

// Channels reports which channels have a sender.
func (r *Router) Channels() []model.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Channel
	for _, c := range model.AllChannels {
		if _, ok := r.senders[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Send delivers the code through the channel's sender.
func (r *Router) Send(ctx context.Context, channel model.Channel, destination, code, displayName string) error {
	r.mu.RLock()
	s, ok := r.senders[channel]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no sender configured for %s", channel)
	}
	if err := s.Send(ctx, destination, code, displayName); err != nil {
		return fmt.Errorf("sending %s code: %w", channel, err)
	}
	return nil
}

// message renders the text shown to the recipient.
func message(code, displayName string, ttlSeconds int) string {
	greeting := "Hello"
	if displayName != "" {
		greeting = "Hello " + displayName
	}
	return fmt.Sprintf("%s,\n\nyour Najdeno verification code is %s. It expires in %d seconds.\n\nIf you did not request it, ignore this message.\n",
		greeting, code, ttlSeconds)
}
