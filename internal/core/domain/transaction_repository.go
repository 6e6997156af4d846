package domain

import (
	"context"
	"time"
)

// TransactionRepository is the abstraction for any kind of database intended
// to persist the ledger of trade transactions.
type TransactionRepository interface {
	// AddTransaction stores a new ledger entry. It returns
	// ErrActiveTransactionExists if a Pending or Mempool entry already exists
	// for the same trade, user and type.
	AddTransaction(ctx context.Context, tx *TradeTransaction) error
	// GetTransaction returns the entry with the given ledger id.
	GetTransaction(ctx context.Context, id string) (*TradeTransaction, error)
	// GetTransactionsForTrade returns the entries of a trade, newest first.
	GetTransactionsForTrade(ctx context.Context, tradeID string) ([]*TradeTransaction, error)
	// GetTransactionsWithStatus returns the entries with the given status.
	// Mempool entries are ordered by the time they entered the mempool, oldest
	// first; others by creation time, oldest first.
	GetTransactionsWithStatus(ctx context.Context, status TxStatus) ([]*TradeTransaction, error)
	// GetStalePendingTransactions returns the Pending entries created before
	// the given time, either with (broadcast) or without a chain tx id.
	GetStalePendingTransactions(
		ctx context.Context, before time.Time, broadcast bool,
	) ([]*TradeTransaction, error)
	// UpdateTransactions applies updateFn to every entry satisfying the given
	// condition in a transactional way and returns the updated entries. It
	// returns ErrTransactionNotFound if none matches.
	UpdateTransactions(
		ctx context.Context,
		cond TransactionCondition,
		updateFn func(tx *TradeTransaction) (*TradeTransaction, error),
	) ([]*TradeTransaction, error)
}
