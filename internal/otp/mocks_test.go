package otp

import (
	"context"
	"fmt"
	"sync"

	"github.com/erazemk/najdeno/internal/model"
)

// memorySessions is an in-memory session repository with check-and-set updates.
type memorySessions struct {
	mu       sync.Mutex
	next     int
	sessions map[string]model.OTPSession

	// UpdateFunc, when set, runs before every update.
	UpdateFunc func(id string, p model.SessionPatch) error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]model.OTPSession{}}
}

func (m *memorySessions) Create(_ context.Context, s model.OTPSession) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	s.ID = fmt.Sprintf("session-%d", m.next)
	m.sessions[s.ID] = s
	return s.ID, nil
}

func (m *memorySessions) Get(_ context.Context, id string) (*model.OTPSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memorySessions) Update(_ context.Context, id string, p model.SessionPatch) error {
	if m.UpdateFunc != nil {
		if err := m.UpdateFunc(id, p); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return model.ErrNotFound
	}
	if s.Verified || s.Attempts != p.ExpectedAttempts {
		return model.ErrConflict
	}
	s.Attempts = p.Attempts
	s.Verified = p.Verified
	s.VerifiedAt = p.VerifiedAt
	m.sessions[id] = s
	return nil
}

func (m *memorySessions) get(id string) model.OTPSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

var _ Deliverer = &delivererMock{}

type delivererMock struct {
	SendFunc func(ctx context.Context, channel model.Channel, destination, code, displayName string) error

	calls struct {
		Send []struct {
			Channel     model.Channel
			Destination string
			Code        string
			DisplayName string
		}
	}
	lockSend sync.RWMutex
}

func (mock *delivererMock) Send(ctx context.Context, channel model.Channel, destination, code, displayName string) error {
	callInfo := struct {
		Channel     model.Channel
		Destination string
		Code        string
		DisplayName string
	}{Channel: channel, Destination: destination, Code: code, DisplayName: displayName}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	if mock.SendFunc == nil {
		return nil
	}
	return mock.SendFunc(ctx, channel, destination, code, displayName)
}

func (mock *delivererMock) SendCalls() []struct {
	Channel     model.Channel
	Destination string
	Code        string
	DisplayName string
} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
