package pubsub

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dtrex-network/dtrex-daemon/pkg/circuitbreaker"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sony/gobreaker"
)

const (
	tokenLifetime   = 5 * time.Minute
	maxResponseBody = 4 << 10
)

// deliverer posts event payloads to webhook endpoints. Deliveries go through
// a shared breaker so that a dead receiver does not pile up requests.
type deliverer struct {
	client *http.Client
	cb     *gobreaker.CircuitBreaker
}

func newDeliverer(timeout time.Duration) *deliverer {
	return &deliverer{
		client: &http.Client{Timeout: timeout},
		cb:     circuitbreaker.NewCircuitBreaker("webhook"),
	}
}

func (d *deliverer) deliver(
	ctx context.Context, event string, hook Webhook, payload []byte,
) error {
	_, err := d.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, hook.Endpoint, bytes.NewReader(payload),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Dtrex-Event", event)
		if hook.IsSecured() {
			token, err := signDeliveryToken(hook)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
			return nil, fmt.Errorf(
				"webhook %s answered %d: %s", hook.ID, resp.StatusCode, bytes.TrimSpace(body),
			)
		}
		// Drain so that the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil, nil
	})
	return err
}

// signDeliveryToken returns a short lived HS256 token whose subject is the
// webhook event.
func signDeliveryToken(hook Webhook) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        hook.ID,
		Subject:   hook.Event,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	})
	return token.SignedString([]byte(hook.Secret))
}
