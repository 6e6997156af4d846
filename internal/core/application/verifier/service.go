package verifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/ledger"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	"github.com/dtrex-network/dtrex-daemon/pkg/circuitbreaker"
	"github.com/dtrex-network/dtrex-daemon/pkg/stats"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultInterval         = 30 * time.Second
	DefaultMinConfirmations = 6
	DefaultCleanupInterval  = time.Hour
	DefaultStaleAge         = 24 * time.Hour
)

type Config struct {
	Interval         time.Duration
	MinConfirmations uint64
	CleanupInterval  time.Duration
	StaleAge         time.Duration
	// PendingExpiry is the age after which Pending entries never broadcast
	// are failed. Zero disables the expiry.
	PendingExpiry time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.MinConfirmations == 0 {
		c.MinConfirmations = DefaultMinConfirmations
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
	if c.StaleAge <= 0 {
		c.StaleAge = DefaultStaleAge
	}
	return c
}

// TickResult summarizes a verification tick.
type TickResult struct {
	Height    uint64
	Checked   int
	Confirmed int
	Errors    int
	Skipped   bool
}

// Service polls the chain for the Mempool entries of the ledger and confirms
// them once deep enough. Stale Pending entries are reclaimed on a separate
// schedule.
type Service struct {
	ledger *ledger.Service
	chain  ports.ChainObserver
	cfg    Config

	lock   sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewService(
	ledgerSvc *ledger.Service, chain ports.ChainObserver, cfg Config,
) (*Service, error) {
	if ledgerSvc == nil {
		return nil, fmt.Errorf("missing ledger service")
	}
	if chain == nil {
		return nil, fmt.Errorf("missing chain observer")
	}
	return &Service{ledger: ledgerSvc, chain: chain, cfg: cfg.withDefaults()}, nil
}

// Start runs the verification and the cleanup loops in background. Each loop
// ticks right away, then once per interval, and runs its ticks sequentially
// so that two ticks never overlap.
func (s *Service) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.cancel != nil {
		return fmt.Errorf("verifier already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(2)
	go s.loop(ctx, s.cfg.Interval, func(ctx context.Context) {
		if _, err := s.VerifyPending(ctx); err != nil {
			log.WithError(err).Error("transaction verification error")
		}
	})
	go s.loop(ctx, s.cfg.CleanupInterval, func(ctx context.Context) {
		if _, err := s.CleanupStale(ctx); err != nil {
			log.WithError(err).Error("stale transaction cleanup error")
		}
	})

	log.Infof(
		"transaction verifier started (interval %s, min confirmations %d)",
		s.cfg.Interval, s.cfg.MinConfirmations,
	)
	return nil
}

// Stop cancels the loops and waits for the running ticks to return.
func (s *Service) Stop() {
	s.lock.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.lock.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	log.Info("transaction verifier stopped")
}

// VerifyPending runs one verification tick. The chain height is fetched once
// and shared by all the entries checked in the tick. A failure on one entry
// is logged and does not abort the others, unless the node breaker is open.
func (s *Service) VerifyPending(ctx context.Context) (*TickResult, error) {
	stats.VerifierTicks.Inc()

	pending, err := s.ledger.ListPendingVerification(ctx)
	if err != nil {
		stats.VerifierErrors.Inc()
		return nil, err
	}
	result := &TickResult{}
	if len(pending) == 0 {
		return result, nil
	}

	log.Infof("verifying %d pending transactions", len(pending))

	state, err := s.chain.GetBlockchainState(ctx)
	if err != nil {
		stats.VerifierErrors.Inc()
		return nil, fmt.Errorf("failed to get blockchain state: %w", err)
	}
	result.Height = state.GetHeight()
	if result.Height == 0 {
		log.Warn("could not get current blockchain height, skipping verification")
		result.Skipped = true
		return result, nil
	}

	for _, tx := range pending {
		if ctx.Err() != nil {
			break
		}
		if tx.TxID == "" {
			continue
		}
		result.Checked++

		confirmed, err := s.verifyTransaction(ctx, tx, result.Height)
		if err != nil {
			result.Errors++
			stats.VerifierErrors.Inc()
			if circuitbreaker.IsOpen(err) {
				log.WithError(err).Warn(
					"chain node unavailable, remaining transactions are checked at next tick",
				)
				break
			}
			log.WithError(err).Warnf("failed to verify transaction %s", tx.TxID)
			continue
		}
		if confirmed {
			result.Confirmed++
			stats.VerifierConfirmed.Inc()
		}
	}
	return result, nil
}

// CleanupStale fails stale Pending entries. Entries never broadcast are
// expired only if a pending expiry is configured.
func (s *Service) CleanupStale(ctx context.Context) (int, error) {
	count, err := s.ledger.CleanupStaleTransactions(ctx, s.cfg.StaleAge)
	if err != nil {
		return 0, err
	}
	if s.cfg.PendingExpiry > 0 {
		expired, err := s.ledger.ExpireNeverBroadcast(ctx, s.cfg.PendingExpiry)
		if err != nil {
			return count, err
		}
		count += expired
	}
	stats.LedgerStaleFailed.Add(float64(count))
	return count, nil
}

func (s *Service) verifyTransaction(
	ctx context.Context, tx *domain.TradeTransaction, height uint64,
) (bool, error) {
	inMempool, err := s.chain.IsTxInMempool(ctx, tx.TxID)
	if err != nil {
		return false, err
	}
	if inMempool {
		log.Debugf("transaction %s is in mempool, waiting for confirmation", tx.TxID)
		return false, nil
	}

	record, err := s.chain.GetTransaction(ctx, tx.TxID)
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			return false, err
		}
		// The tx may just be slow to propagate, retry at next tick.
		log.WithError(err).Warnf("transaction %s lookup failed", tx.TxID)
		return false, nil
	}
	if !record.IsConfirmed() {
		return false, nil
	}

	// No inclusion height, or one above the peak we read, counts as zero
	// confirmations.
	var confirmations uint64
	confirmedAt, ok := record.GetConfirmedAtHeight()
	if ok && height > confirmedAt {
		confirmations = height - confirmedAt
	}
	if confirmations < s.cfg.MinConfirmations {
		log.Debugf(
			"transaction %s has %d confirmations, waiting for %d",
			tx.TxID, confirmations, s.cfg.MinConfirmations,
		)
		return false, nil
	}

	if _, err := s.ledger.ConfirmTransaction(
		ctx, tx.TxID, "", int64(confirmations),
	); err != nil {
		return false, err
	}
	log.Infof(
		"transaction %s confirmed at height %d (%d confirmations)",
		tx.TxID, confirmedAt, confirmations,
	)
	return true, nil
}

func (s *Service) loop(
	ctx context.Context, interval time.Duration, tick func(context.Context),
) {
	defer s.wg.Done()

	tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}
