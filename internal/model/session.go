package model

import "time"

// OTPSession is a one-time-code challenge. The plaintext code is never stored.
type OTPSession struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Destinations map[Channel]string `json:"destinations"`
	CodeHash     string             `json:"-"`
	CreatedAt    time.Time          `json:"created_at"`
	ExpiresAt    time.Time          `json:"expires_at"`
	Verified     bool               `json:"verified"`
	VerifiedAt   *time.Time         `json:"verified_at,omitempty"`
	Attempts     int                `json:"attempts"`
}

// Channels returns the session's delivery channels in a fixed order.
func (s *OTPSession) Channels() []Channel {
	var out []Channel
	for _, c := range AllChannels {
		if _, ok := s.Destinations[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// SessionPatch is a check-and-set update of a session. The write applies only
// while the stored attempt counter equals ExpectedAttempts and the session is
// still unverified.
type SessionPatch struct {
	ExpectedAttempts int
	Attempts         int
	Verified         bool
	VerifiedAt       *time.Time
}

// Channel is an OTP delivery channel.
type Channel string

// Delivery channels.
const (
	ChannelEmail  Channel = "email"
	ChannelMobile Channel = "mobile"
)

// AllChannels lists every channel in delivery order.
var AllChannels = []Channel{ChannelEmail, ChannelMobile}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelMobile
}
