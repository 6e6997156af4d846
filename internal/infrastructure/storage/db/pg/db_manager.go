package postgresdb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/pg/sqlc/queries"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	log "github.com/sirupsen/logrus"
)

const (
	postgresDriver  = "pgx"
	defaultSSLMode  = "disable"
	defaultMaxConns = 10

	uniqueViolation = "23505"
)

// DbConfig holds the connection params of the postgres db. Migrations are
// read from MigrationSourceURL, ie. file://path/to/migration.
type DbConfig struct {
	DbUser             string
	DbPassword         string
	DbHost             string
	DbPort             int
	DbName             string
	SSLMode            string
	MaxConns           int32
	MigrationSourceURL string
}

func (c DbConfig) dataSource() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.DbUser, c.DbPassword),
		Host:     net.JoinHostPort(c.DbHost, strconv.Itoa(c.DbPort)),
		Path:     c.DbName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}

type execTxFunc func(
	ctx context.Context, txBody func(*queries.Queries) error,
) error

type repoManager struct {
	pool    *pgxpool.Pool
	querier *queries.Queries

	tradeRepository       domain.TradeRepository
	transactionRepository domain.TransactionRepository
	reviewRepository      domain.ReviewRepository
	configRepository      domain.ConfigRepository
}

// NewRepoManager connects to the db and applies the pending migrations
// before returning.
func NewRepoManager(dbConfig DbConfig) (ports.RepoManager, error) {
	dataSource := dbConfig.dataSource()

	pool, err := connect(context.Background(), dataSource, dbConfig.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}

	if err := migrateDb(dataSource, dbConfig.MigrationSourceURL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrating db: %w", err)
	}

	querier := queries.New(pool)
	rm := &repoManager{pool: pool, querier: querier}
	rm.tradeRepository = NewTradeRepositoryImpl(querier, rm.execTx)
	rm.transactionRepository = NewTransactionRepositoryImpl(querier, rm.execTx)
	rm.reviewRepository = NewReviewRepositoryImpl(querier, rm.execTx)
	rm.configRepository = NewConfigRepositoryImpl(querier, rm.execTx)
	return rm, nil
}

func (r *repoManager) TradeRepository() domain.TradeRepository {
	return r.tradeRepository
}

func (r *repoManager) TransactionRepository() domain.TransactionRepository {
	return r.transactionRepository
}

func (r *repoManager) ReviewRepository() domain.ReviewRepository {
	return r.reviewRepository
}

func (r *repoManager) ConfigRepository() domain.ConfigRepository {
	return r.configRepository
}

func (r *repoManager) Close() {
	r.pool.Close()
}

// execTx runs txBody in a db transaction, committed only if txBody returns
// no error.
func (r *repoManager) execTx(
	ctx context.Context, txBody func(*queries.Queries) error,
) error {
	return r.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		return txBody(r.querier.WithTx(tx))
	})
}

func connect(
	ctx context.Context, dataSource string, maxConns int32,
) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dataSource)
	if err != nil {
		return nil, err
	}
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	cfg.MaxConns = maxConns

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func migrateDb(dataSource, migrationSourceURL string) error {
	driver, err := (&postgres.Postgres{}).Open(dataSource)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationSourceURL, postgresDriver, driver,
	)
	if err != nil {
		driver.Close()
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warnf("closing migrations: source %v, db %v", srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	version, _, _ := m.Version()
	log.Debugf("db schema at version %d", version)
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
