package postgresdb

import (
	"context"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/pg/sqlc/queries"
)

type configRepositoryImpl struct {
	querier *queries.Queries
	execTx  execTxFunc
}

func NewConfigRepositoryImpl(
	querier *queries.Queries, execTx execTxFunc,
) domain.ConfigRepository {
	return &configRepositoryImpl{
		querier: querier,
		execTx:  execTx,
	}
}

func (c *configRepositoryImpl) GetConfigValue(
	ctx context.Context, key string,
) (string, error) {
	row, err := c.querier.SelectConfigValue(ctx, key)
	if err != nil {
		if isNoRows(err) {
			return "", domain.ErrConfigNotFound
		}
		return "", err
	}
	return row.Value, nil
}

func (c *configRepositoryImpl) UpsertConfigValues(
	ctx context.Context, entries ...domain.ConfigEntry,
) error {
	return c.execTx(ctx, func(q *queries.Queries) error {
		for _, e := range entries {
			if err := q.UpsertConfigValue(ctx, queries.UpsertConfigValueParams{
				Key:   e.Key,
				Value: e.Value,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
