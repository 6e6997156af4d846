package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type configRepositoryImpl struct {
	store *badgerhold.Store
}

func NewConfigRepositoryImpl(store *badgerhold.Store) domain.ConfigRepository {
	return &configRepositoryImpl{store}
}

func (r *configRepositoryImpl) GetConfigValue(
	_ context.Context, key string,
) (string, error) {
	var entry domain.ConfigEntry
	if err := r.store.Get(key, &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return "", domain.ErrConfigNotFound
		}
		return "", err
	}
	return entry.Value, nil
}

func (r *configRepositoryImpl) UpsertConfigValues(
	_ context.Context, entries ...domain.ConfigEntry,
) error {
	return runTx(r.store, func(txn *badger.Txn) error {
		for _, e := range entries {
			if err := r.store.TxUpsert(txn, e.Key, e); err != nil {
				return err
			}
		}
		return nil
	})
}
