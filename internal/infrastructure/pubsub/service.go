package pubsub

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

const DefaultRequestTimeout = 15 * time.Second

// ErrWebhookNotFound is returned when removing an unknown id.
var ErrWebhookNotFound = errors.New("webhook not found")

type notifier struct {
	store     *webhookStore
	deliverer *deliverer
}

// NewService returns a Notifier whose webhooks are stored under
// {datadir}/pubsub, or in memory if datadir is empty.
func NewService(
	datadir string, requestTimeout time.Duration, logger badger.Logger,
) (ports.Notifier, error) {
	var dir string
	if datadir != "" {
		dir = filepath.Join(datadir, "pubsub")
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	store, err := openWebhookStore(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening webhook db: %w", err)
	}

	return &notifier{
		store:     store,
		deliverer: newDeliverer(requestTimeout),
	}, nil
}

func (n *notifier) AddWebhook(event, endpoint, secret string) (string, error) {
	hook, err := NewWebhook(event, endpoint, secret)
	if err != nil {
		return "", err
	}
	if err := n.store.insert(hook); err != nil {
		return "", err
	}
	return hook.ID, nil
}

func (n *notifier) RemoveWebhook(id string) error {
	return n.store.delete(id)
}

func (n *notifier) ListWebhooks(event string) ([]ports.Webhook, error) {
	hooks, err := n.store.byEvent(event)
	if err != nil {
		return nil, err
	}
	return toPorts(hooks), nil
}

// Notify delivers the payload concurrently. Every webhook is attempted even
// if some fail, the first failure is returned.
func (n *notifier) Notify(ctx context.Context, event string, payload []byte) error {
	hooks, err := n.webhooksToNotify(event)
	if err != nil {
		return err
	}

	eg := &errgroup.Group{}
	for i := range hooks {
		hook := hooks[i]
		eg.Go(func() error { return n.deliverer.deliver(ctx, event, hook, payload) })
	}
	return eg.Wait()
}

func (n *notifier) Close() error {
	return n.store.close()
}

func (n *notifier) webhooksToNotify(event string) ([]Webhook, error) {
	hooks, err := n.store.byEvent(event)
	if err != nil {
		return nil, err
	}
	if event == ports.AnyEvent || event == ports.AllEvents {
		return hooks, nil
	}
	catchAll, err := n.store.byEvent(ports.AnyEvent)
	if err != nil {
		return nil, err
	}
	return append(hooks, catchAll...), nil
}
