package db_test

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"

	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	postgresdb "github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/pg"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"
)

// The postgres backend is tested only if a server address (host:port) is
// given with this env var.
const pgAddrEnv = "DTREX_TEST_PG_ADDR"

const truncateQuery = `TRUNCATE TABLE
	exchange_config, reputations, reviews, trade_transactions, wishlist_items, trades
	CASCADE`

var pgTestConfig = postgresdb.DbConfig{
	DbUser:             "root",
	DbPassword:         "secret",
	DbName:             "dtrexd-test",
	MaxConns:           4,
	MigrationSourceURL: "file://../pg/migration",
}

// newPgRepoManager returns nil if no postgres server is available. Tables
// are emptied once the test is done.
func newPgRepoManager(t *testing.T) ports.RepoManager {
	addr := os.Getenv(pgAddrEnv)
	if addr == "" {
		return nil
	}

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := pgTestConfig
	cfg.DbHost, cfg.DbPort = host, port
	repoManager, err := postgresdb.NewRepoManager(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		repoManager.Close()

		ctx := context.Background()
		conn, err := pgx.Connect(ctx, "postgresql://"+cfg.DbUser+":"+
			cfg.DbPassword+"@"+addr+"/"+cfg.DbName+"?sslmode=disable")
		if err != nil {
			t.Logf("connecting to truncate tables: %s", err)
			return
		}
		defer conn.Close(ctx)
		if _, err := conn.Exec(ctx, truncateQuery); err != nil {
			t.Logf("truncating tables: %s", err)
		}
	})
	return repoManager
}
