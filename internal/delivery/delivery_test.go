package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/najdeno/internal/model"
)

type senderFunc func(ctx context.Context, destination, code, displayName string) error

func (f senderFunc) Send(ctx context.Context, destination, code, displayName string) error {
	return f(ctx, destination, code, displayName)
}

func TestRouterDispatchesByChannel(t *testing.T) {
	var got []string
	r := NewRouter()
	r.Handle(model.ChannelEmail, senderFunc(func(_ context.Context, dest, code, _ string) error {
		got = append(got, "email:"+dest+":"+code)
		return nil
	}))

	require.NoError(t, r.Send(context.Background(), model.ChannelEmail, "ana@uni.edu", "123456", "Ana"))
	assert.Equal(t, []string{"email:ana@uni.edu:123456"}, got)
	assert.Equal(t, []model.Channel{model.ChannelEmail}, r.Channels())

	err := r.Send(context.Background(), model.ChannelMobile, "+38640123456", "123456", "Ana")
	require.Error(t, err, "unconfigured channel must fail")
}

func TestRouterPropagatesSenderErrors(t *testing.T) {
	cause := errors.New("mailbox full")
	r := NewRouter()
	r.Handle(model.ChannelEmail, senderFunc(func(context.Context, string, string, string) error { return cause }))

	err := r.Send(context.Background(), model.ChannelEmail, "ana@uni.edu", "123456", "")
	require.ErrorIs(t, err, cause)
}

func TestSMTPSend(t *testing.T) {
	s := NewSMTP(SMTPConfig{Host: "mail.uni.edu", Port: 587, Username: "bot", Password: "pw", From: "noreply@uni.edu", TTL: time.Minute})

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.NotNil(t, a)
		assert.Equal(t, "noreply@uni.edu", from)
		return nil
	}

	require.NoError(t, s.Send(context.Background(), "ana@uni.edu", "042917", "Ana"))
	assert.Equal(t, "mail.uni.edu:587", gotAddr)
	assert.Equal(t, []string{"ana@uni.edu"}, gotTo)
	assert.Contains(t, gotMsg, "To: ana@uni.edu\r\n")
	assert.Contains(t, gotMsg, "Hello Ana,")
	assert.Contains(t, gotMsg, "042917")
	assert.Contains(t, gotMsg, "60 seconds")
}

func TestSMTPRejectsHeaderInjection(t *testing.T) {
	s := NewSMTP(SMTPConfig{Host: "mail.uni.edu", Port: 25, From: "noreply@uni.edu"})
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}

	err := s.Send(context.Background(), "ana@uni.edu\r\nBcc: eve@evil.test", "123456", "")
	require.Error(t, err)
}

func TestWebhookSend(t *testing.T) {
	var got smsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	w := NewWebhook(WebhookConfig{URL: srv.URL, Token: "secret", TTL: time.Minute})
	require.NoError(t, w.Send(context.Background(), "+38640123456", "555123", "Bor"))

	assert.Equal(t, "+38640123456", got.To)
	assert.Contains(t, got.Message, "555123")
}

func TestWebhookRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhook(WebhookConfig{URL: srv.URL, Retries: 3})
	require.NoError(t, w.Send(context.Background(), "+38640123456", "555123", ""))
	assert.Equal(t, int32(3), hits.Load())
}

func TestWebhookDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	w := NewWebhook(WebhookConfig{URL: srv.URL, Retries: 3})
	err := w.Send(context.Background(), "bogus", "555123", "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "422"))
	assert.Equal(t, int32(1), hits.Load())
}

func TestLogSenderRedactsByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	require.NoError(t, NewLog(logger, "email", false).Send(context.Background(), "ana@uni.edu", "987654", "Ana"))
	assert.NotContains(t, buf.String(), "987654")
	assert.Contains(t, buf.String(), "redacted")

	buf.Reset()
	require.NoError(t, NewLog(logger, "email", true).Send(context.Background(), "ana@uni.edu", "987654", "Ana"))
	assert.Contains(t, buf.String(), "code=987654")
}
