package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const (
	EventTradeAccepted        = "TRADE_ACCEPTED"
	EventTradeCompleted       = "TRADE_COMPLETED"
	EventTradeCancelled       = "TRADE_CANCELLED"
	EventTransactionSubmitted = "TRANSACTION_SUBMITTED"
	EventTransactionConfirmed = "TRANSACTION_CONFIRMED"
	EventTransactionFailed    = "TRANSACTION_FAILED"
)

var (
	ErrWebhookManagerNotInitialized = fmt.Errorf("webhook manager is not initialized")
	ErrInvalidWebhookEvent          = fmt.Errorf("invalid webhook event type")
	ErrWebhookNotFound              = fmt.Errorf("webhook not found")
	ErrInvalidWebhookEndpoint       = fmt.Errorf("webhook endpoint must be a valid http(s) URL")

	events = map[string]struct{}{
		EventTradeAccepted:        {},
		EventTradeCompleted:       {},
		EventTradeCancelled:       {},
		EventTransactionSubmitted: {},
		EventTransactionConfirmed: {},
		EventTransactionFailed:    {},
		ports.AnyEvent:            {},
	}
)

// Webhook is the info about an endpoint subscribed for an event.
type Webhook struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}

// Service publishes trade and ledger events to the subscribed webhooks. A
// service without an underlying notifier silently drops every event.
// Deliveries run in background, Close waits for the pending ones.
type Service struct {
	notifier ports.Notifier
	pending  sync.WaitGroup
}

func NewService(notifier ports.Notifier) *Service {
	return &Service{notifier: notifier}
}

func (s *Service) AddWebhook(
	_ context.Context, event, endpoint, secret string,
) (string, error) {
	if s.notifier == nil {
		return "", ErrWebhookManagerNotInitialized
	}
	if _, ok := events[event]; !ok {
		return "", ErrInvalidWebhookEvent
	}
	if u, err := url.ParseRequestURI(endpoint); err != nil ||
		(u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidWebhookEndpoint
	}
	return s.notifier.AddWebhook(event, endpoint, secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	if s.notifier == nil {
		return ErrWebhookManagerNotInitialized
	}
	hooks, err := s.notifier.ListWebhooks(ports.AllEvents)
	if err != nil {
		return err
	}
	for _, hook := range hooks {
		if hook.GetID() == id {
			return s.notifier.RemoveWebhook(id)
		}
	}
	return ErrWebhookNotFound
}

// ListWebhooks returns the webhooks for the given event, or all of them if
// the event is empty.
func (s *Service) ListWebhooks(
	_ context.Context, event string,
) ([]Webhook, error) {
	if s.notifier == nil {
		return nil, ErrWebhookManagerNotInitialized
	}
	if event != ports.AllEvents {
		if _, ok := events[event]; !ok {
			return nil, ErrInvalidWebhookEvent
		}
	}
	hooks, err := s.notifier.ListWebhooks(event)
	if err != nil {
		return nil, err
	}
	webhooks := make([]Webhook, 0, len(hooks))
	for _, hook := range hooks {
		webhooks = append(webhooks, Webhook{
			ID:        hook.GetID(),
			Event:     hook.GetEvent(),
			Endpoint:  hook.GetEndpoint(),
			IsSecured: hook.IsSecured(),
		})
	}
	return webhooks, nil
}

func (s *Service) PublishTradeEvent(event string, trade *domain.Trade) {
	payload := map[string]interface{}{
		"event":     event,
		"trade_id":  trade.ID,
		"status":    trade.Status,
		"timestamp": time.Now().Unix(),
	}
	s.publish(event, payload)
}

func (s *Service) PublishTransactionEvent(
	event string, tx *domain.TradeTransaction,
) {
	payload := map[string]interface{}{
		"event":          event,
		"trade_id":       tx.TradeID,
		"transaction_id": tx.ID,
		"tx_id":          tx.TxID,
		"status":         tx.Status,
		"timestamp":      time.Now().Unix(),
	}
	s.publish(event, payload)
}

func (s *Service) Close() {
	if s.notifier == nil {
		return
	}
	s.pending.Wait()
	if err := s.notifier.Close(); err != nil {
		log.WithError(err).Warn("error while closing webhook notifier")
	}
}

func (s *Service) publish(event string, payload map[string]interface{}) {
	if s == nil || s.notifier == nil {
		return
	}
	message, _ := json.Marshal(payload)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.notifier.Notify(context.Background(), event, message); err != nil {
			log.WithError(err).Warnf("error while notifying %s event", event)
		}
	}()
}
