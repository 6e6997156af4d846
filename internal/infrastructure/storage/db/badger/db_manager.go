package dbbadger

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const (
	tradesDir       = "trades"
	transactionsDir = "transactions"
	reviewsDir      = "reviews"
	configDir       = "config"

	maxTxRetries       = 3
	valueLogGCInterval = 30 * time.Minute
	valueLogGCRatio    = 0.5
)

type repoManager struct {
	stores map[string]*badgerhold.Store
	quit   chan struct{}

	tradeRepository       domain.TradeRepository
	transactionRepository domain.TransactionRepository
	reviewRepository      domain.ReviewRepository
	configRepository      domain.ConfigRepository
}

// NewRepoManager opens, or creates, one badger store per repository under
// baseDbDir. An empty baseDbDir opens in-memory stores.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	rm := &repoManager{
		stores: make(map[string]*badgerhold.Store),
		quit:   make(chan struct{}),
	}
	for _, name := range []string{tradesDir, transactionsDir, reviewsDir, configDir} {
		store, err := openStore(dbDir(baseDbDir, name), logger)
		if err != nil {
			rm.closeStores()
			return nil, fmt.Errorf("opening %s db: %w", name, err)
		}
		rm.stores[name] = store
	}

	rm.tradeRepository = NewTradeRepositoryImpl(rm.stores[tradesDir])
	rm.transactionRepository = NewTransactionRepositoryImpl(rm.stores[transactionsDir])
	rm.reviewRepository = NewReviewRepositoryImpl(rm.stores[reviewsDir])
	rm.configRepository = NewConfigRepositoryImpl(rm.stores[configDir])

	if baseDbDir != "" {
		go rm.collectGarbage()
	}
	return rm, nil
}

func (d *repoManager) TradeRepository() domain.TradeRepository {
	return d.tradeRepository
}

func (d *repoManager) TransactionRepository() domain.TransactionRepository {
	return d.transactionRepository
}

func (d *repoManager) ReviewRepository() domain.ReviewRepository {
	return d.reviewRepository
}

func (d *repoManager) ConfigRepository() domain.ConfigRepository {
	return d.configRepository
}

func (d *repoManager) Close() {
	close(d.quit)
	d.closeStores()
}

func (d *repoManager) closeStores() {
	for name, s := range d.stores {
		if err := s.Close(); err != nil {
			log.WithError(err).Warnf("error while closing %s db", name)
		}
	}
}

// collectGarbage periodically compacts the value logs of the stores on disk
// until Close is called.
func (d *repoManager) collectGarbage() {
	ticker := time.NewTicker(valueLogGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for name, s := range d.stores {
				err := s.Badger().RunValueLogGC(valueLogGCRatio)
				if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
					log.WithError(err).Warnf("%s db value log gc failed", name)
				}
			}
		case <-d.quit:
			return
		}
	}
}

// runTx runs fn in a read-write transaction, retrying when it conflicts with
// a concurrent one.
func runTx(store *badgerhold.Store, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = store.Badger().Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func dbDir(baseDbDir, name string) string {
	if baseDbDir == "" {
		return ""
	}
	return filepath.Join(baseDbDir, name)
}

func openStore(dir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = logger
	if dir == "" {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
