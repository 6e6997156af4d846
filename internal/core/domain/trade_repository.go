package domain

import "context"

// TradeRepository is the abstraction for any kind of database intended to
// persist Trades.
type TradeRepository interface {
	// AddTrade stores a new trade.
	AddTrade(ctx context.Context, trade *Trade) error
	// GetTrade returns the trade with the given id if it satisfies the given
	// condition, ErrTradeNotFound otherwise.
	GetTrade(ctx context.Context, tradeID string, cond TradeCondition) (*Trade, error)
	// GetAllTrades returns the trades with any of the given statuses, or all
	// of them if no status is given, ordered by creation time, newest first.
	GetAllTrades(ctx context.Context, filter TradeFilter, page Page) ([]*Trade, error)
	// GetTradesForUser returns the trades where the given user is either the
	// proposer or the acceptor, ordered by last update, newest first.
	GetTradesForUser(ctx context.Context, userID int64) ([]*Trade, error)
	// UpdateTrade allows to commit multiple changes to the same trade in a
	// transactional way. The trade is loaded and updated only if it satisfies
	// the given condition, otherwise ErrTradeNotFound is returned.
	UpdateTrade(
		ctx context.Context,
		tradeID string,
		cond TradeCondition,
		updateFn func(t *Trade) (*Trade, error),
	) (*Trade, error)
	// DeleteTrade removes the trade with the given id if it satisfies the
	// given condition, otherwise ErrTradeNotFound is returned.
	DeleteTrade(ctx context.Context, tradeID string, cond TradeCondition) error
	// GetTradeStats counts trades by status group.
	GetTradeStats(ctx context.Context) (*TradeStats, error)
}
