package inmemory

import (
	"context"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
)

type configRepositoryImpl struct {
	store *store
}

// NewConfigRepositoryImpl returns a new inmemory ConfigRepository
// implementation.
func NewConfigRepositoryImpl(store *store) domain.ConfigRepository {
	return &configRepositoryImpl{store}
}

func (r configRepositoryImpl) GetConfigValue(
	_ context.Context, key string,
) (string, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	value, ok := r.store.config[key]
	if !ok {
		return "", domain.ErrConfigNotFound
	}
	return value, nil
}

func (r configRepositoryImpl) UpsertConfigValues(
	_ context.Context, entries ...domain.ConfigEntry,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	for _, e := range entries {
		r.store.config[e.Key] = e.Value
	}
	return nil
}
