package db_test

import (
	"testing"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestConfigRepositoryImplementations(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		m := managers[i]

		t.Run(m.Name, func(t *testing.T) {
			repo := m.ConfigRepository()
			key := randomHex(8)

			_, err := repo.GetConfigValue(ctx, key)
			require.ErrorIs(t, err, domain.ErrConfigNotFound)

			err = repo.UpsertConfigValues(ctx,
				domain.ConfigEntry{Key: key, Value: "1"},
				domain.ConfigEntry{Key: key + "_other", Value: "a"},
			)
			require.NoError(t, err)

			value, err := repo.GetConfigValue(ctx, key)
			require.NoError(t, err)
			require.Equal(t, "1", value)

			err = repo.UpsertConfigValues(ctx, domain.ConfigEntry{Key: key, Value: "2.5"})
			require.NoError(t, err)

			value, err = repo.GetConfigValue(ctx, key)
			require.NoError(t, err)
			require.Equal(t, "2.5", value)

			value, err = repo.GetConfigValue(ctx, key+"_other")
			require.NoError(t, err)
			require.Equal(t, "a", value)
		})
	}
}
