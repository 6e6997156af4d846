package inmemory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
)

type transactionRepositoryImpl struct {
	store *store
}

// NewTransactionRepositoryImpl returns a new inmemory TransactionRepository
// implementation.
func NewTransactionRepositoryImpl(store *store) domain.TransactionRepository {
	return &transactionRepositoryImpl{store}
}

func (r transactionRepositoryImpl) AddTransaction(
	_ context.Context, tx *domain.TradeTransaction,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if tx.Status.IsActive() {
		key := activeKey(tx)
		if _, ok := r.store.activeTxs[key]; ok {
			return domain.ErrActiveTransactionExists
		}
		r.store.activeTxs[key] = tx.ID
	}
	cp := *tx
	r.store.transactions[tx.ID] = &cp
	return nil
}

func (r transactionRepositoryImpl) GetTransaction(
	_ context.Context, id string,
) (*domain.TradeTransaction, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	tx, ok := r.store.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r transactionRepositoryImpl) GetTransactionsForTrade(
	_ context.Context, tradeID string,
) ([]*domain.TradeTransaction, error) {
	txs := r.filter(func(tx *domain.TradeTransaction) bool {
		return tx.TradeID == tradeID
	})
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

func (r transactionRepositoryImpl) GetTransactionsWithStatus(
	_ context.Context, status domain.TxStatus,
) ([]*domain.TradeTransaction, error) {
	txs := r.filter(func(tx *domain.TradeTransaction) bool {
		return tx.Status == status
	})
	sort.SliceStable(txs, func(i, j int) bool {
		if status == domain.TxStatusMempool {
			return txs[i].MempoolAt.Before(txs[j].MempoolAt)
		}
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
	return txs, nil
}

func (r transactionRepositoryImpl) GetStalePendingTransactions(
	_ context.Context, before time.Time, broadcast bool,
) ([]*domain.TradeTransaction, error) {
	txs := r.filter(func(tx *domain.TradeTransaction) bool {
		return tx.Status == domain.TxStatusPending &&
			(tx.TxID != "") == broadcast &&
			tx.CreatedAt.Before(before)
	})
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
	return txs, nil
}

func (r transactionRepositoryImpl) UpdateTransactions(
	_ context.Context, cond domain.TransactionCondition,
	updateFn func(tx *domain.TradeTransaction) (*domain.TradeTransaction, error),
) ([]*domain.TradeTransaction, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	matching := make([]*domain.TradeTransaction, 0)
	for _, tx := range r.store.transactions {
		if cond.Matches(tx) {
			matching = append(matching, tx)
		}
	}
	if len(matching) == 0 {
		return nil, domain.ErrTransactionNotFound
	}

	updated := make([]*domain.TradeTransaction, 0, len(matching))
	for _, tx := range matching {
		cp := *tx
		u, err := updateFn(&cp)
		if err != nil {
			return nil, err
		}
		updated = append(updated, u)
	}

	for i, u := range updated {
		key := activeKey(matching[i])
		if matching[i].Status.IsActive() && !u.Status.IsActive() {
			delete(r.store.activeTxs, key)
		}
		cp := *u
		r.store.transactions[u.ID] = &cp
	}
	return updated, nil
}

func (r transactionRepositoryImpl) filter(
	fn func(tx *domain.TradeTransaction) bool,
) []*domain.TradeTransaction {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	txs := make([]*domain.TradeTransaction, 0)
	for _, tx := range r.store.transactions {
		if fn(tx) {
			cp := *tx
			txs = append(txs, &cp)
		}
	}
	return txs
}

func activeKey(tx *domain.TradeTransaction) string {
	return fmt.Sprintf("%s:%d:%s", tx.TradeID, tx.UserID, tx.TxType)
}
