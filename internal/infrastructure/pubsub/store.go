package pubsub

import (
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const valueLogGCInterval = 30 * time.Minute

// webhookStore persists webhooks keyed by id in a dedicated badger db. An
// empty dir keeps them in memory.
type webhookStore struct {
	db   *badgerhold.Store
	quit chan struct{}
}

func openWebhookStore(dir string, logger badger.Logger) (*webhookStore, error) {
	inMemory := dir == ""

	opts := badger.DefaultOptions(dir)
	opts.Logger = logger
	if inMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	s := &webhookStore{db: db, quit: make(chan struct{})}
	if !inMemory {
		go s.collectGarbage()
	}
	return s, nil
}

func (s *webhookStore) collectGarbage() {
	ticker := time.NewTicker(valueLogGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := s.db.Badger().RunValueLogGC(0.5)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				log.WithError(err).Warn("webhook store value log gc failed")
			}
		case <-s.quit:
			return
		}
	}
}

func (s *webhookStore) insert(hook *Webhook) error {
	return s.db.Insert(hook.ID, *hook)
}

func (s *webhookStore) delete(id string) error {
	err := s.db.Delete(id, Webhook{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return ErrWebhookNotFound
	}
	return err
}

// byEvent returns the webhooks of the event sorted by id, or all of them for
// ports.AllEvents.
func (s *webhookStore) byEvent(event string) ([]Webhook, error) {
	var query *badgerhold.Query
	if event != ports.AllEvents {
		query = badgerhold.Where("Event").Eq(event).Index("Event")
	}

	var hooks []Webhook
	if err := s.db.Find(&hooks, query); err != nil {
		return nil, err
	}
	sort.Slice(hooks, func(i, j int) bool {
		return hooks[i].ID < hooks[j].ID
	})
	return hooks, nil
}

func (s *webhookStore) close() error {
	close(s.quit)
	return s.db.Close()
}
