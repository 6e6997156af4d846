package ports

import "context"

const (
	// AnyEvent is the event of the webhooks notified whatever happens.
	AnyEvent = "*"
	// AllEvents selects the webhooks of every event when listing.
	AllEvents = ""
)

// Webhook is an endpoint registered to be notified about an event.
type Webhook interface {
	GetID() string
	GetEvent() string
	GetEndpoint() string
	IsSecured() bool
}

// Notifier stores webhooks and delivers event payloads to them.
type Notifier interface {
	// AddWebhook registers the endpoint for the event and returns its id.
	AddWebhook(event, endpoint, secret string) (string, error)
	// RemoveWebhook deletes the webhook with the given id.
	RemoveWebhook(id string) error
	// ListWebhooks returns the webhooks registered for the event, or all of
	// them for AllEvents.
	ListWebhooks(event string) ([]Webhook, error)
	// Notify posts the payload to the webhooks of the event and to those
	// registered for AnyEvent.
	Notify(ctx context.Context, event string, payload []byte) error
	// Close releases the webhook store.
	Close() error
}
