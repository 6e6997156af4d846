package postgresdb

import (
	"context"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/pg/sqlc/queries"
)

type transactionRepositoryImpl struct {
	querier *queries.Queries
	execTx  execTxFunc
}

func NewTransactionRepositoryImpl(
	querier *queries.Queries, execTx execTxFunc,
) domain.TransactionRepository {
	return &transactionRepositoryImpl{
		querier: querier,
		execTx:  execTx,
	}
}

func (t *transactionRepositoryImpl) AddTransaction(
	ctx context.Context, tx *domain.TradeTransaction,
) error {
	if err := t.querier.InsertTransaction(ctx, queries.InsertTransactionParams{
		ID:            tx.ID,
		TradeID:       tx.TradeID,
		UserID:        tx.UserID,
		TxType:        string(tx.TxType),
		TxID:          nullString(tx.TxID),
		CoinID:        nullString(tx.CoinID),
		PuzzleHash:    nullString(tx.PuzzleHash),
		FromAddress:   nullString(tx.FromAddress),
		ToAddress:     nullString(tx.ToAddress),
		AmountMojos:   int64(tx.AmountMojos),
		Status:        string(tx.Status),
		Confirmations: tx.Confirmations,
		ErrorMessage:  nullString(tx.ErrorMessage),
		RetryCount:    int32(tx.RetryCount),
		CreatedAt:     tx.CreatedAt,
		MempoolAt:     nullTime(tx.MempoolAt),
		ConfirmedAt:   nullTime(tx.ConfirmedAt),
	}); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrActiveTransactionExists
		}
		return err
	}
	return nil
}

func (t *transactionRepositoryImpl) GetTransaction(
	ctx context.Context, id string,
) (*domain.TradeTransaction, error) {
	row, err := t.querier.SelectTransaction(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return toTransaction(row), nil
}

func (t *transactionRepositoryImpl) GetTransactionsForTrade(
	ctx context.Context, tradeID string,
) ([]*domain.TradeTransaction, error) {
	rows, err := t.querier.SelectTransactionsForTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	return toTransactions(rows), nil
}

func (t *transactionRepositoryImpl) GetTransactionsWithStatus(
	ctx context.Context, status domain.TxStatus,
) ([]*domain.TradeTransaction, error) {
	rows, err := t.querier.SelectTransactionsWithStatus(ctx, string(status))
	if err != nil {
		return nil, err
	}
	return toTransactions(rows), nil
}

func (t *transactionRepositoryImpl) GetStalePendingTransactions(
	ctx context.Context, before time.Time, broadcast bool,
) ([]*domain.TradeTransaction, error) {
	rows, err := t.querier.SelectStalePendingTransactions(
		ctx, queries.SelectStalePendingTransactionsParams{
			CreatedBefore: before,
			Broadcast:     broadcast,
		},
	)
	if err != nil {
		return nil, err
	}
	return toTransactions(rows), nil
}

func (t *transactionRepositoryImpl) UpdateTransactions(
	ctx context.Context,
	cond domain.TransactionCondition,
	updateFn func(tx *domain.TradeTransaction) (*domain.TradeTransaction, error),
) ([]*domain.TradeTransaction, error) {
	if cond.ID == "" && cond.TxID == "" {
		return nil, domain.ErrTransactionNotFound
	}

	var updated []*domain.TradeTransaction

	if err := t.execTx(ctx, func(q *queries.Queries) error {
		rows, err := q.SelectTransactionsForUpdate(
			ctx, queries.SelectTransactionsForUpdateParams{
				ID:       cond.ID,
				TxID:     cond.TxID,
				UserID:   cond.UserID,
				Statuses: cond.StatusStrings(),
			},
		)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return domain.ErrTransactionNotFound
		}

		updated = make([]*domain.TradeTransaction, 0, len(rows))
		for _, row := range rows {
			tx, err := updateFn(toTransaction(row))
			if err != nil {
				return err
			}
			if err := q.UpdateTransaction(ctx, queries.UpdateTransactionParams{
				ID:            tx.ID,
				TxID:          nullString(tx.TxID),
				CoinID:        nullString(tx.CoinID),
				PuzzleHash:    nullString(tx.PuzzleHash),
				Status:        string(tx.Status),
				Confirmations: tx.Confirmations,
				ErrorMessage:  nullString(tx.ErrorMessage),
				RetryCount:    int32(tx.RetryCount),
				MempoolAt:     nullTime(tx.MempoolAt),
				ConfirmedAt:   nullTime(tx.ConfirmedAt),
			}); err != nil {
				if isUniqueViolation(err) {
					return domain.ErrActiveTransactionExists
				}
				return err
			}
			updated = append(updated, tx)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

func toTransactions(rows []queries.TradeTransaction) []*domain.TradeTransaction {
	txs := make([]*domain.TradeTransaction, 0, len(rows))
	for _, r := range rows {
		txs = append(txs, toTransaction(r))
	}
	return txs
}

func toTransaction(r queries.TradeTransaction) *domain.TradeTransaction {
	return &domain.TradeTransaction{
		ID:            r.ID,
		TradeID:       r.TradeID,
		UserID:        r.UserID,
		TxType:        domain.TxType(r.TxType),
		TxID:          r.TxID.String,
		CoinID:        r.CoinID.String,
		PuzzleHash:    r.PuzzleHash.String,
		FromAddress:   r.FromAddress.String,
		ToAddress:     r.ToAddress.String,
		AmountMojos:   uint64(r.AmountMojos),
		Status:        domain.TxStatus(r.Status),
		Confirmations: r.Confirmations,
		ErrorMessage:  r.ErrorMessage.String,
		RetryCount:    int(r.RetryCount),
		CreatedAt:     r.CreatedAt.UTC(),
		MempoolAt:     fromNullTime(r.MempoolAt),
		ConfirmedAt:   fromNullTime(r.ConfirmedAt),
	}
}
