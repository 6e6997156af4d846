package postgresdb

import (
	"context"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/pg/sqlc/queries"
	"github.com/shopspring/decimal"
)

type tradeRepositoryImpl struct {
	querier *queries.Queries
	execTx  execTxFunc
}

func NewTradeRepositoryImpl(
	querier *queries.Queries, execTx execTxFunc,
) domain.TradeRepository {
	return &tradeRepositoryImpl{
		querier: querier,
		execTx:  execTx,
	}
}

func (t *tradeRepositoryImpl) AddTrade(
	ctx context.Context, trade *domain.Trade,
) error {
	return t.execTx(ctx, func(q *queries.Queries) error {
		if err := q.InsertTrade(ctx, toInsertTradeParams(trade)); err != nil {
			return err
		}
		for _, w := range trade.Wishlist {
			if err := q.InsertWishlistItem(ctx, queries.InsertWishlistItemParams{
				FkTradeID:       trade.ID,
				Type:            w.Type,
				ItemDescription: nullString(w.ItemDescription),
				ItemMinValueUsd: nullDecimal(w.ItemMinValueUSD),
				XchAmount:       nullInt64(int64(w.XCHAmount)),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t *tradeRepositoryImpl) GetTrade(
	ctx context.Context, tradeID string, cond domain.TradeCondition,
) (*domain.Trade, error) {
	row, err := t.querier.SelectTrade(ctx, queries.SelectTradeParams{
		ID:            tradeID,
		ParticipantID: cond.ParticipantID,
		ProposerID:    cond.ProposerID,
		Statuses:      cond.StatusStrings(),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}

	trades, err := t.withWishlists(ctx, t.querier, []queries.Trade{row})
	if err != nil {
		return nil, err
	}
	return trades[0], nil
}

func (t *tradeRepositoryImpl) GetAllTrades(
	ctx context.Context, filter domain.TradeFilter, page domain.Page,
) ([]*domain.Trade, error) {
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}

	rows, err := t.querier.SelectTrades(ctx, queries.SelectTradesParams{
		Statuses: statuses,
		Limit:    int32(page.Limit),
		Offset:   int32(page.Offset),
	})
	if err != nil {
		return nil, err
	}

	return t.withWishlists(ctx, t.querier, rows)
}

func (t *tradeRepositoryImpl) GetTradesForUser(
	ctx context.Context, userID int64,
) ([]*domain.Trade, error) {
	rows, err := t.querier.SelectTradesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return t.withWishlists(ctx, t.querier, rows)
}

func (t *tradeRepositoryImpl) UpdateTrade(
	ctx context.Context,
	tradeID string,
	cond domain.TradeCondition,
	updateFn func(t *domain.Trade) (*domain.Trade, error),
) (*domain.Trade, error) {
	var updatedTrade *domain.Trade

	if err := t.execTx(ctx, func(q *queries.Queries) error {
		row, err := q.SelectTradeForUpdate(ctx, queries.SelectTradeParams{
			ID:            tradeID,
			ParticipantID: cond.ParticipantID,
			ProposerID:    cond.ProposerID,
			Statuses:      cond.StatusStrings(),
		})
		if err != nil {
			if isNoRows(err) {
				return domain.ErrTradeNotFound
			}
			return err
		}

		trades, err := t.withWishlists(ctx, q, []queries.Trade{row})
		if err != nil {
			return err
		}

		trade, err := updateFn(trades[0])
		if err != nil {
			return err
		}

		if err := q.UpdateTrade(ctx, toUpdateTradeParams(trade)); err != nil {
			return err
		}

		updatedTrade = trade
		return nil
	}); err != nil {
		return nil, err
	}

	return updatedTrade, nil
}

func (t *tradeRepositoryImpl) DeleteTrade(
	ctx context.Context, tradeID string, cond domain.TradeCondition,
) error {
	affected, err := t.querier.DeleteTrade(ctx, queries.DeleteTradeParams{
		ID:            tradeID,
		ParticipantID: cond.ParticipantID,
		ProposerID:    cond.ProposerID,
		Statuses:      cond.StatusStrings(),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTradeNotFound
	}
	return nil
}

func (t *tradeRepositoryImpl) GetTradeStats(
	ctx context.Context,
) (*domain.TradeStats, error) {
	row, err := t.querier.SelectTradeStats(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.TradeStats{
		TotalTrades:     row.TotalTrades,
		ActiveTrades:    row.ActiveTrades,
		CompletedTrades: row.CompletedTrades,
	}, nil
}

// withWishlists converts the given rows and loads their wishlists with a
// single query.
func (t *tradeRepositoryImpl) withWishlists(
	ctx context.Context, q *queries.Queries, rows []queries.Trade,
) ([]*domain.Trade, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	items, err := q.SelectWishlistItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	wishlists := make(map[string][]domain.WishlistItem)
	for _, i := range items {
		wishlists[i.FkTradeID] = append(wishlists[i.FkTradeID], domain.WishlistItem{
			Type:            i.Type,
			ItemDescription: i.ItemDescription.String,
			ItemMinValueUSD: fromNullDecimal(i.ItemMinValueUsd),
			XCHAmount:       uint64(i.XchAmount.Int64),
		})
	}

	trades := make([]*domain.Trade, 0, len(rows))
	for _, r := range rows {
		trade := toTrade(r)
		trade.Wishlist = wishlists[r.ID]
		trades = append(trades, trade)
	}
	return trades, nil
}

func toTrade(r queries.Trade) *domain.Trade {
	proposerValue, _ := decimal.NewFromString(r.ProposerItemValueUsd)
	acceptorValue := fromNullDecimal(r.AcceptorItemValueUsd)

	trade := &domain.Trade{
		ID:         r.ID,
		ProposerID: r.ProposerID,
		AcceptorID: r.AcceptorID.Int64,
		Status:     domain.TradeStatus(r.Status),
		TradeType:  domain.TradeType(r.TradeType),
		ProposerItem: domain.Item{
			Title:       r.ProposerItemTitle,
			Description: r.ProposerItemDescription,
			Condition:   r.ProposerItemCondition.String,
			ValueUSD:    proposerValue,
			Category:    r.ProposerItemCategory.String,
		},
		AcceptorItem: domain.Item{
			Title:       r.AcceptorItemTitle.String,
			Description: r.AcceptorItemDescription.String,
			Condition:   r.AcceptorItemCondition.String,
		},
		AcceptorValueUSD:     acceptorValue,
		AcceptorXCHOffer:     uint64(r.AcceptorXchOffer.Int64),
		AcceptorOfferKind:    r.AcceptorOfferKind.String,
		ProposerCommitStatus: r.ProposerCommitStatus.String,
		AcceptorCommitStatus: r.AcceptorCommitStatus.String,
		CommitmentMemo:       r.CommitmentMemo.String,
		CommittedAt:          fromNullTime(r.CommittedAt),
		Escrow: domain.Escrow{
			CoinID:     r.EscrowCoinID.String,
			PuzzleHash: r.EscrowPuzzleHash.String,
			StartDate:  fromNullTime(r.EscrowStartDate),
			EndDate:    fromNullTime(r.EscrowEndDate),
		},
		ProposerShipment: domain.Shipment{
			TrackingNumber: r.ProposerTrackingNumber.String,
			Carrier:        r.ProposerCarrier.String,
			ShippedAt:      fromNullTime(r.ProposerShippedAt),
			ReceivedAt:     fromNullTime(r.ProposerReceivedAt),
		},
		AcceptorShipment: domain.Shipment{
			TrackingNumber: r.AcceptorTrackingNumber.String,
			Carrier:        r.AcceptorCarrier.String,
			ShippedAt:      fromNullTime(r.AcceptorShippedAt),
			ReceivedAt:     fromNullTime(r.AcceptorReceivedAt),
		},
		CompletedAt:         fromNullTime(r.CompletedAt),
		FinalBlockchainHash: r.FinalBlockchainHash.String,
		CreatedAt:           r.CreatedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
	}
	if acceptorValue.Valid {
		trade.AcceptorItem.ValueUSD = acceptorValue.Decimal
	}
	return trade
}

func toInsertTradeParams(t *domain.Trade) queries.InsertTradeParams {
	u := toUpdateTradeParams(t)
	return queries.InsertTradeParams{
		ID:                      t.ID,
		ProposerID:              t.ProposerID,
		AcceptorID:              u.AcceptorID,
		Status:                  u.Status,
		TradeType:               u.TradeType,
		ProposerItemTitle:       t.ProposerItem.Title,
		ProposerItemDescription: t.ProposerItem.Description,
		ProposerItemCondition:   nullString(t.ProposerItem.Condition),
		ProposerItemValueUsd:    t.ProposerItem.ValueUSD.String(),
		ProposerItemCategory:    nullString(t.ProposerItem.Category),
		AcceptorItemTitle:       u.AcceptorItemTitle,
		AcceptorItemDescription: u.AcceptorItemDescription,
		AcceptorItemCondition:   u.AcceptorItemCondition,
		AcceptorItemValueUsd:    u.AcceptorItemValueUsd,
		AcceptorXchOffer:        u.AcceptorXchOffer,
		AcceptorOfferKind:       u.AcceptorOfferKind,
		ProposerCommitStatus:    u.ProposerCommitStatus,
		AcceptorCommitStatus:    u.AcceptorCommitStatus,
		CommitmentMemo:          u.CommitmentMemo,
		CommittedAt:             u.CommittedAt,
		EscrowCoinID:            u.EscrowCoinID,
		EscrowPuzzleHash:        u.EscrowPuzzleHash,
		EscrowStartDate:         u.EscrowStartDate,
		EscrowEndDate:           u.EscrowEndDate,
		ProposerTrackingNumber:  u.ProposerTrackingNumber,
		ProposerCarrier:         u.ProposerCarrier,
		ProposerShippedAt:       u.ProposerShippedAt,
		ProposerReceivedAt:      u.ProposerReceivedAt,
		AcceptorTrackingNumber:  u.AcceptorTrackingNumber,
		AcceptorCarrier:         u.AcceptorCarrier,
		AcceptorShippedAt:       u.AcceptorShippedAt,
		AcceptorReceivedAt:      u.AcceptorReceivedAt,
		CompletedAt:             u.CompletedAt,
		FinalBlockchainHash:     u.FinalBlockchainHash,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}

func toUpdateTradeParams(t *domain.Trade) queries.UpdateTradeParams {
	return queries.UpdateTradeParams{
		ID:                      t.ID,
		AcceptorID:              nullInt64(t.AcceptorID),
		Status:                  string(t.Status),
		TradeType:               string(t.TradeType),
		AcceptorItemTitle:       nullString(t.AcceptorItem.Title),
		AcceptorItemDescription: nullString(t.AcceptorItem.Description),
		AcceptorItemCondition:   nullString(t.AcceptorItem.Condition),
		AcceptorItemValueUsd:    nullDecimal(t.AcceptorValueUSD),
		AcceptorXchOffer:        nullInt64(int64(t.AcceptorXCHOffer)),
		AcceptorOfferKind:       nullString(t.AcceptorOfferKind),
		ProposerCommitStatus:    nullString(t.ProposerCommitStatus),
		AcceptorCommitStatus:    nullString(t.AcceptorCommitStatus),
		CommitmentMemo:          nullString(t.CommitmentMemo),
		CommittedAt:             nullTime(t.CommittedAt),
		EscrowCoinID:            nullString(t.Escrow.CoinID),
		EscrowPuzzleHash:        nullString(t.Escrow.PuzzleHash),
		EscrowStartDate:         nullTime(t.Escrow.StartDate),
		EscrowEndDate:           nullTime(t.Escrow.EndDate),
		ProposerTrackingNumber:  nullString(t.ProposerShipment.TrackingNumber),
		ProposerCarrier:         nullString(t.ProposerShipment.Carrier),
		ProposerShippedAt:       nullTime(t.ProposerShipment.ShippedAt),
		ProposerReceivedAt:      nullTime(t.ProposerShipment.ReceivedAt),
		AcceptorTrackingNumber:  nullString(t.AcceptorShipment.TrackingNumber),
		AcceptorCarrier:         nullString(t.AcceptorShipment.Carrier),
		AcceptorShippedAt:       nullTime(t.AcceptorShipment.ShippedAt),
		AcceptorReceivedAt:      nullTime(t.AcceptorShipment.ReceivedAt),
		CompletedAt:             nullTime(t.CompletedAt),
		FinalBlockchainHash:     nullString(t.FinalBlockchainHash),
		UpdatedAt:               t.UpdatedAt,
	}
}
