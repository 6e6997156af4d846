package ports

import "context"

// BlockchainState is the view of the chain tip as reported by a full node.
type BlockchainState interface {
	GetHeight() uint64
	GetNetwork() string
	IsSyncing() bool
}

// TransactionRecord is the wallet record of a transaction.
type TransactionRecord interface {
	GetName() string
	IsConfirmed() bool
	// GetConfirmedAtHeight returns false if the wallet reports no inclusion
	// height.
	GetConfirmedAtHeight() (uint64, bool)
	GetAmount() uint64
	GetFeeAmount() uint64
	GetToAddress() string
}

// ChainObserver defines the read-only queries against the chain needed to
// drive the ledger.
type ChainObserver interface {
	// GetBlockchainState returns the current peak of the chain.
	GetBlockchainState(ctx context.Context) (BlockchainState, error)
	// IsTxInMempool returns whether the given tx is in the node's mempool.
	IsTxInMempool(ctx context.Context, txID string) (bool, error)
	// GetTransaction returns the wallet record of the given tx.
	GetTransaction(ctx context.Context, txID string) (TransactionRecord, error)
}
