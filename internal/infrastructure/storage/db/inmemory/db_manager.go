package inmemory

import (
	"sync"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
)

// store is shared by all the repositories so that a single lock serializes
// every operation, making each of them atomic.
type store struct {
	locker sync.Mutex

	trades       map[string]*domain.Trade
	transactions map[string]*domain.TradeTransaction
	// activeTxs indexes the Pending or Mempool entry for trade, user and type.
	activeTxs   map[string]string
	reviews     map[string]*domain.Review
	reputations map[int64]*domain.Reputation
	config      map[string]string
}

type RepoManager struct {
	tradeRepository       domain.TradeRepository
	transactionRepository domain.TransactionRepository
	reviewRepository      domain.ReviewRepository
	configRepository      domain.ConfigRepository
}

func NewRepoManager() ports.RepoManager {
	s := &store{
		trades:       make(map[string]*domain.Trade),
		transactions: make(map[string]*domain.TradeTransaction),
		activeTxs:    make(map[string]string),
		reviews:      make(map[string]*domain.Review),
		reputations:  make(map[int64]*domain.Reputation),
		config:       make(map[string]string),
	}

	return &RepoManager{
		tradeRepository:       NewTradeRepositoryImpl(s),
		transactionRepository: NewTransactionRepositoryImpl(s),
		reviewRepository:      NewReviewRepositoryImpl(s),
		configRepository:      NewConfigRepositoryImpl(s),
	}
}

func (d *RepoManager) TradeRepository() domain.TradeRepository {
	return d.tradeRepository
}

func (d *RepoManager) TransactionRepository() domain.TransactionRepository {
	return d.transactionRepository
}

func (d *RepoManager) ReviewRepository() domain.ReviewRepository {
	return d.reviewRepository
}

func (d *RepoManager) ConfigRepository() domain.ConfigRepository {
	return d.configRepository
}

func (d *RepoManager) Close() {}
