package pubsub_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/pubsub"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testMessage = `{"event":"TRADE_ACCEPTED","trade_id":"5a1d3c2e","status":"matched","timestamp":1760000000}`

type deliveries struct {
	lock     sync.Mutex
	payloads map[string][]string
	tokens   map[string][]string
	events   map[string][]string
}

func newTestWebServer(t *testing.T) (*httptest.Server, *deliveries) {
	d := &deliveries{
		payloads: make(map[string][]string),
		tokens:   make(map[string][]string),
		events:   make(map[string][]string),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Bad method", http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Content-Type") == "" {
			http.Error(w, "Missing Content-Type header", http.StatusUnsupportedMediaType)
			return
		}
		defer r.Body.Close()
		payload, _ := io.ReadAll(r.Body)

		d.lock.Lock()
		d.payloads[r.URL.Path] = append(d.payloads[r.URL.Path], string(payload))
		d.events[r.URL.Path] = append(d.events[r.URL.Path], r.Header.Get("X-Dtrex-Event"))
		if auth := r.Header.Get("Authorization"); auth != "" {
			d.tokens[r.URL.Path] = append(
				d.tokens[r.URL.Path], strings.TrimPrefix(auth, "Bearer "),
			)
		}
		d.lock.Unlock()

		if r.URL.Path == "/broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, d
}

func newTestNotifier(t *testing.T) ports.Notifier {
	notifier, err := pubsub.NewService("", time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint
		notifier.Close()
	})
	return notifier
}

func TestNotifier(t *testing.T) {
	server, delivered := newTestWebServer(t)
	notifier := newTestNotifier(t)

	secret := randomSecret()
	testHooks := []struct {
		event    string
		endpoint string
		secret   string
	}{
		{"TRADE_ACCEPTED", server.URL + "/accepted", secret},
		{"TRADE_ACCEPTED", server.URL + "/accepted", ""},
		{"TRADE_CANCELLED", server.URL + "/cancelled", ""},
		{ports.AnyEvent, server.URL + "/all", ""},
	}
	for _, h := range testHooks {
		id, err := notifier.AddWebhook(h.event, h.endpoint, h.secret)
		require.NoError(t, err)
		require.NotEmpty(t, id)
	}

	hooks, err := notifier.ListWebhooks("TRADE_ACCEPTED")
	require.NoError(t, err)
	require.Len(t, hooks, 2)
	secured := 0
	for _, h := range hooks {
		require.NotEmpty(t, h.GetID())
		require.Equal(t, "TRADE_ACCEPTED", h.GetEvent())
		if h.IsSecured() {
			secured++
		}
	}
	require.Equal(t, 1, secured)

	hooks, err = notifier.ListWebhooks(ports.AnyEvent)
	require.NoError(t, err)
	require.Len(t, hooks, 1)
	hooks, err = notifier.ListWebhooks(ports.AllEvents)
	require.NoError(t, err)
	require.Len(t, hooks, 4)

	// Should invoke all hooks for the event plus the catch-all one.
	err = notifier.Notify(context.Background(), "TRADE_ACCEPTED", []byte(testMessage))
	require.NoError(t, err)

	delivered.lock.Lock()
	require.Len(t, delivered.payloads["/accepted"], 2)
	require.Len(t, delivered.payloads["/all"], 1)
	require.Empty(t, delivered.payloads["/cancelled"])
	require.Equal(t, testMessage, delivered.payloads["/all"][0])
	require.Equal(t, []string{"TRADE_ACCEPTED"}, delivered.events["/all"])
	require.Len(t, delivered.tokens["/accepted"], 1)
	token, err := jwt.ParseWithClaims(
		delivered.tokens["/accepted"][0], &jwt.RegisteredClaims{},
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	delivered.lock.Unlock()
	require.NoError(t, err)
	require.True(t, token.Valid)
	subject, err := token.Claims.GetSubject()
	require.NoError(t, err)
	require.Equal(t, "TRADE_ACCEPTED", subject)

	hooks, err = notifier.ListWebhooks(ports.AllEvents)
	require.NoError(t, err)
	for _, h := range hooks {
		require.NoError(t, notifier.RemoveWebhook(h.GetID()))
	}
	hooks, err = notifier.ListWebhooks(ports.AllEvents)
	require.NoError(t, err)
	require.Empty(t, hooks)

	err = notifier.RemoveWebhook("unknown")
	require.ErrorIs(t, err, pubsub.ErrWebhookNotFound)

	// Checks that it's all ok if there are no hooks to invoke.
	err = notifier.Notify(context.Background(), "TRADE_COMPLETED", []byte(testMessage))
	require.NoError(t, err)
}

func TestNotifyFailure(t *testing.T) {
	server, delivered := newTestWebServer(t)
	notifier := newTestNotifier(t)

	_, err := notifier.AddWebhook("TRADE_COMPLETED", server.URL+"/broken", "")
	require.NoError(t, err)
	_, err = notifier.AddWebhook("TRADE_COMPLETED", server.URL+"/ok", "")
	require.NoError(t, err)

	err = notifier.Notify(context.Background(), "TRADE_COMPLETED", []byte(testMessage))
	require.Error(t, err)

	// A failing endpoint does not prevent delivery to the others.
	delivered.lock.Lock()
	defer delivered.lock.Unlock()
	require.Len(t, delivered.payloads["/ok"], 1)
}

func TestNewWebhook(t *testing.T) {
	_, err := pubsub.NewWebhook("", "http://localhost/hook", "")
	require.Error(t, err)

	_, err = pubsub.NewWebhook("TRADE_ACCEPTED", "not a url", "")
	require.Error(t, err)

	_, err = pubsub.NewWebhook("TRADE_ACCEPTED", "ftp://localhost/hook", "")
	require.Error(t, err)

	hook, err := pubsub.NewWebhook("TRADE_ACCEPTED", "https://localhost/hook", "s")
	require.NoError(t, err)
	require.True(t, hook.IsSecured())
	require.NotEmpty(t, hook.GetID())
	require.Equal(t, "TRADE_ACCEPTED", hook.GetEvent())
	require.Equal(t, "https://localhost/hook", hook.GetEndpoint())
}

func randomSecret() string {
	b := make([]byte, 32)
	//nolint
	rand.Read(b)
	return hex.EncodeToString(b)
}
