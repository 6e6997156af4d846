package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

// activeTxSlot is the guard record held by the only Pending or Mempool entry
// for a trade, user and type. It's removed in the same transaction that moves
// the entry to a terminal status.
type activeTxSlot struct {
	TransactionID string
}

type transactionRepositoryImpl struct {
	store *badgerhold.Store
}

func NewTransactionRepositoryImpl(
	store *badgerhold.Store,
) domain.TransactionRepository {
	return &transactionRepositoryImpl{store}
}

func (r *transactionRepositoryImpl) AddTransaction(
	_ context.Context, tx *domain.TradeTransaction,
) error {
	return runTx(r.store, func(txn *badger.Txn) error {
		if tx.Status.IsActive() {
			if err := r.store.TxInsert(
				txn, activeKey(tx), activeTxSlot{tx.ID},
			); err != nil {
				if errors.Is(err, badgerhold.ErrKeyExists) {
					return domain.ErrActiveTransactionExists
				}
				return err
			}
		}
		return r.store.TxInsert(txn, tx.ID, *tx)
	})
}

func (r *transactionRepositoryImpl) GetTransaction(
	_ context.Context, id string,
) (*domain.TradeTransaction, error) {
	var tx domain.TradeTransaction
	if err := r.store.Get(id, &tx); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepositoryImpl) GetTransactionsForTrade(
	_ context.Context, tradeID string,
) ([]*domain.TradeTransaction, error) {
	txs, err := r.findTransactions(nil, badgerhold.Where("TradeID").Eq(tradeID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

func (r *transactionRepositoryImpl) GetTransactionsWithStatus(
	_ context.Context, status domain.TxStatus,
) ([]*domain.TradeTransaction, error) {
	txs, err := r.findTransactions(nil, badgerhold.Where("Status").Eq(status))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if status == domain.TxStatusMempool {
			return txs[i].MempoolAt.Before(txs[j].MempoolAt)
		}
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
	return txs, nil
}

func (r *transactionRepositoryImpl) GetStalePendingTransactions(
	_ context.Context, before time.Time, broadcast bool,
) ([]*domain.TradeTransaction, error) {
	pending, err := r.findTransactions(
		nil, badgerhold.Where("Status").Eq(domain.TxStatusPending),
	)
	if err != nil {
		return nil, err
	}

	txs := make([]*domain.TradeTransaction, 0)
	for _, tx := range pending {
		if (tx.TxID != "") == broadcast && tx.CreatedAt.Before(before) {
			txs = append(txs, tx)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
	return txs, nil
}

func (r *transactionRepositoryImpl) UpdateTransactions(
	_ context.Context, cond domain.TransactionCondition,
	updateFn func(tx *domain.TradeTransaction) (*domain.TradeTransaction, error),
) ([]*domain.TradeTransaction, error) {
	var updated []*domain.TradeTransaction
	err := runTx(r.store, func(txn *badger.Txn) error {
		updated = nil

		matching, err := r.matchTransactions(txn, cond)
		if err != nil {
			return err
		}
		if len(matching) == 0 {
			return domain.ErrTransactionNotFound
		}

		for _, current := range matching {
			wasActive := current.Status.IsActive()
			key := activeKey(current)

			u, err := updateFn(current)
			if err != nil {
				return err
			}
			if err := r.store.TxUpdate(txn, u.ID, *u); err != nil {
				return err
			}
			if wasActive && !u.Status.IsActive() {
				if err := r.store.TxDelete(txn, key, activeTxSlot{}); err != nil &&
					!errors.Is(err, badgerhold.ErrNotFound) {
					return err
				}
			}
			updated = append(updated, u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *transactionRepositoryImpl) matchTransactions(
	txn *badger.Txn, cond domain.TransactionCondition,
) ([]*domain.TradeTransaction, error) {
	var candidates []*domain.TradeTransaction
	switch {
	case cond.ID != "":
		var tx domain.TradeTransaction
		if err := r.store.TxGet(txn, cond.ID, &tx); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		candidates = []*domain.TradeTransaction{&tx}
	case cond.TxID != "":
		txs, err := r.findTransactions(txn, badgerhold.Where("TxID").Eq(cond.TxID))
		if err != nil {
			return nil, err
		}
		candidates = txs
	}

	matching := make([]*domain.TradeTransaction, 0, len(candidates))
	for _, tx := range candidates {
		if cond.Matches(tx) {
			matching = append(matching, tx)
		}
	}
	return matching, nil
}

func (r *transactionRepositoryImpl) findTransactions(
	txn *badger.Txn, query *badgerhold.Query,
) ([]*domain.TradeTransaction, error) {
	var txs []domain.TradeTransaction
	var err error
	if txn != nil {
		err = r.store.TxFind(txn, &txs, query)
	} else {
		err = r.store.Find(&txs, query)
	}
	if err != nil {
		return nil, err
	}

	res := make([]*domain.TradeTransaction, 0, len(txs))
	for i := range txs {
		res = append(res, &txs[i])
	}
	return res, nil
}

func activeKey(tx *domain.TradeTransaction) string {
	return fmt.Sprintf("%s:%d:%s", tx.TradeID, tx.UserID, tx.TxType)
}
