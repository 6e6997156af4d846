package pubsub

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	"github.com/google/uuid"
)

// Webhook is the stored form of an endpoint registered for an event. The
// secret signs the bearer token sent along with every delivery.
type Webhook struct {
	ID       string `json:"id"`
	Event    string `json:"event" badgerhold:"index"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

// NewWebhook validates event and endpoint and assigns a new id.
func NewWebhook(event, endpoint, secret string) (*Webhook, error) {
	if strings.TrimSpace(event) == "" {
		return nil, fmt.Errorf("missing webhook event")
	}
	u, err := url.ParseRequestURI(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("webhook endpoint %q is not a valid http(s) url", endpoint)
	}
	return &Webhook{
		ID:       uuid.New().String(),
		Event:    event,
		Endpoint: endpoint,
		Secret:   secret,
	}, nil
}

func (w *Webhook) GetID() string       { return w.ID }
func (w *Webhook) GetEvent() string    { return w.Event }
func (w *Webhook) GetEndpoint() string { return w.Endpoint }
func (w *Webhook) IsSecured() bool     { return w.Secret != "" }

func toPorts(hooks []Webhook) []ports.Webhook {
	res := make([]ports.Webhook, 0, len(hooks))
	for i := range hooks {
		res = append(res, &hooks[i])
	}
	return res
}
