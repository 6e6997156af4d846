package inmemory

import (
	"context"
	"sort"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
)

type tradeRepositoryImpl struct {
	store *store
}

// NewTradeRepositoryImpl returns a new inmemory TradeRepository implementation.
func NewTradeRepositoryImpl(store *store) domain.TradeRepository {
	return &tradeRepositoryImpl{store}
}

func (r tradeRepositoryImpl) AddTrade(
	_ context.Context, trade *domain.Trade,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.trades[trade.ID] = copyTrade(trade)
	return nil
}

func (r tradeRepositoryImpl) GetTrade(
	_ context.Context, tradeID string, cond domain.TradeCondition,
) (*domain.Trade, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	trade, err := r.getTrade(tradeID, cond)
	if err != nil {
		return nil, err
	}
	return copyTrade(trade), nil
}

func (r tradeRepositoryImpl) GetAllTrades(
	_ context.Context, filter domain.TradeFilter, page domain.Page,
) ([]*domain.Trade, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	cond := domain.TradeCondition{Statuses: filter.Statuses}
	trades := make([]*domain.Trade, 0)
	for _, t := range r.store.trades {
		if cond.Matches(t) {
			trades = append(trades, copyTrade(t))
		}
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].CreatedAt.After(trades[j].CreatedAt)
	})

	start, end := page.Apply(len(trades))
	return trades[start:end], nil
}

func (r tradeRepositoryImpl) GetTradesForUser(
	_ context.Context, userID int64,
) ([]*domain.Trade, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	trades := make([]*domain.Trade, 0)
	for _, t := range r.store.trades {
		if t.IsParticipant(userID) {
			trades = append(trades, copyTrade(t))
		}
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].UpdatedAt.After(trades[j].UpdatedAt)
	})
	return trades, nil
}

func (r tradeRepositoryImpl) UpdateTrade(
	_ context.Context, tradeID string, cond domain.TradeCondition,
	updateFn func(t *domain.Trade) (*domain.Trade, error),
) (*domain.Trade, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	currentTrade, err := r.getTrade(tradeID, cond)
	if err != nil {
		return nil, err
	}

	updatedTrade, err := updateFn(copyTrade(currentTrade))
	if err != nil {
		return nil, err
	}

	r.store.trades[tradeID] = copyTrade(updatedTrade)
	return updatedTrade, nil
}

func (r tradeRepositoryImpl) DeleteTrade(
	_ context.Context, tradeID string, cond domain.TradeCondition,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, err := r.getTrade(tradeID, cond); err != nil {
		return err
	}
	delete(r.store.trades, tradeID)
	return nil
}

func (r tradeRepositoryImpl) GetTradeStats(
	_ context.Context,
) (*domain.TradeStats, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	stats := &domain.TradeStats{}
	for _, t := range r.store.trades {
		stats.TotalTrades++
		if t.Status.In(domain.ActiveTradeStatuses...) {
			stats.ActiveTrades++
		}
		if t.Status == domain.TradeStatusCompleted {
			stats.CompletedTrades++
		}
	}
	return stats, nil
}

func (r tradeRepositoryImpl) getTrade(
	tradeID string, cond domain.TradeCondition,
) (*domain.Trade, error) {
	trade, ok := r.store.trades[tradeID]
	if !ok || !cond.Matches(trade) {
		return nil, domain.ErrTradeNotFound
	}
	return trade, nil
}

func copyTrade(t *domain.Trade) *domain.Trade {
	cp := *t
	if t.Wishlist != nil {
		cp.Wishlist = append([]domain.WishlistItem{}, t.Wishlist...)
	}
	return &cp
}
