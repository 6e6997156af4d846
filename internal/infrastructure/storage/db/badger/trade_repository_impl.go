package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type tradeRepositoryImpl struct {
	store *badgerhold.Store
}

func NewTradeRepositoryImpl(store *badgerhold.Store) domain.TradeRepository {
	return &tradeRepositoryImpl{store}
}

func (r *tradeRepositoryImpl) AddTrade(
	_ context.Context, trade *domain.Trade,
) error {
	return r.store.Insert(trade.ID, *trade)
}

func (r *tradeRepositoryImpl) GetTrade(
	_ context.Context, tradeID string, cond domain.TradeCondition,
) (*domain.Trade, error) {
	var trade domain.Trade
	if err := r.store.Get(tradeID, &trade); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	if !cond.Matches(&trade) {
		return nil, domain.ErrTradeNotFound
	}
	return &trade, nil
}

func (r *tradeRepositoryImpl) GetAllTrades(
	_ context.Context, filter domain.TradeFilter, page domain.Page,
) ([]*domain.Trade, error) {
	var query *badgerhold.Query
	if len(filter.Statuses) > 0 {
		statuses := make([]interface{}, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, s)
		}
		query = badgerhold.Where("Status").In(statuses...)
	}

	trades, err := r.findTrades(query)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].CreatedAt.After(trades[j].CreatedAt)
	})

	start, end := page.Apply(len(trades))
	return trades[start:end], nil
}

func (r *tradeRepositoryImpl) GetTradesForUser(
	_ context.Context, userID int64,
) ([]*domain.Trade, error) {
	query := badgerhold.Where("ProposerID").Eq(userID).
		Or(badgerhold.Where("AcceptorID").Eq(userID))

	trades, err := r.findTrades(query)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].UpdatedAt.After(trades[j].UpdatedAt)
	})
	return trades, nil
}

func (r *tradeRepositoryImpl) UpdateTrade(
	_ context.Context, tradeID string, cond domain.TradeCondition,
	updateFn func(t *domain.Trade) (*domain.Trade, error),
) (*domain.Trade, error) {
	var updatedTrade *domain.Trade
	err := runTx(r.store, func(txn *badger.Txn) error {
		currentTrade, err := r.getTrade(txn, tradeID, cond)
		if err != nil {
			return err
		}

		updatedTrade, err = updateFn(currentTrade)
		if err != nil {
			return err
		}
		return r.store.TxUpdate(txn, tradeID, *updatedTrade)
	})
	if err != nil {
		return nil, err
	}
	return updatedTrade, nil
}

func (r *tradeRepositoryImpl) DeleteTrade(
	_ context.Context, tradeID string, cond domain.TradeCondition,
) error {
	return runTx(r.store, func(txn *badger.Txn) error {
		if _, err := r.getTrade(txn, tradeID, cond); err != nil {
			return err
		}
		return r.store.TxDelete(txn, tradeID, domain.Trade{})
	})
}

func (r *tradeRepositoryImpl) GetTradeStats(
	_ context.Context,
) (*domain.TradeStats, error) {
	total, err := r.store.Count(&domain.Trade{}, nil)
	if err != nil {
		return nil, err
	}

	active := make([]interface{}, 0, len(domain.ActiveTradeStatuses))
	for _, s := range domain.ActiveTradeStatuses {
		active = append(active, s)
	}
	activeCount, err := r.store.Count(
		&domain.Trade{}, badgerhold.Where("Status").In(active...),
	)
	if err != nil {
		return nil, err
	}

	completedCount, err := r.store.Count(
		&domain.Trade{},
		badgerhold.Where("Status").Eq(domain.TradeStatusCompleted),
	)
	if err != nil {
		return nil, err
	}

	return &domain.TradeStats{
		TotalTrades:     int64(total),
		ActiveTrades:    int64(activeCount),
		CompletedTrades: int64(completedCount),
	}, nil
}

func (r *tradeRepositoryImpl) getTrade(
	txn *badger.Txn, tradeID string, cond domain.TradeCondition,
) (*domain.Trade, error) {
	var trade domain.Trade
	if err := r.store.TxGet(txn, tradeID, &trade); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	if !cond.Matches(&trade) {
		return nil, domain.ErrTradeNotFound
	}
	return &trade, nil
}

func (r *tradeRepositoryImpl) findTrades(
	query *badgerhold.Query,
) ([]*domain.Trade, error) {
	var trades []domain.Trade
	if err := r.store.Find(&trades, query); err != nil {
		return nil, err
	}

	res := make([]*domain.Trade, 0, len(trades))
	for i := range trades {
		res = append(res, &trades[i])
	}
	return res, nil
}
