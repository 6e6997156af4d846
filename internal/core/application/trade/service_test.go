package trade_test

import (
	"context"
	"testing"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/pubsub"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/trade"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	ctx = context.Background()

	proposer = domain.Principal{UserID: 1, Username: "alice"}
	acceptor = domain.Principal{UserID: 2, Username: "bob"}
	stranger = domain.Principal{UserID: 3, Username: "carol"}
	admin    = domain.Principal{UserID: 99, Username: "admin", IsAdmin: true}

	item = domain.Item{
		Title:       "Vintage camera",
		Description: "Working 35mm film camera",
		Condition:   "good",
		ValueUSD:    decimal.NewFromInt(120),
		Category:    "electronics",
	}
	xchOffer = domain.Offer{Kind: domain.OfferKindXCH, XCHAmount: 5000}
)

func newTestService(t *testing.T) *trade.Service {
	t.Helper()

	svc, err := trade.NewService(pubsub.NewService(nil), inmemory.NewRepoManager())
	require.NoError(t, err)
	return svc
}

func newProposal(t *testing.T, svc *trade.Service) *domain.Trade {
	t.Helper()

	tr, err := svc.CreateTrade(ctx, proposer, item, []domain.WishlistItem{
		{Type: domain.OfferKindXCH, XCHAmount: 5000},
	})
	require.NoError(t, err)
	return tr
}

func newMatched(t *testing.T, svc *trade.Service) *domain.Trade {
	t.Helper()

	tr := newProposal(t, svc)
	tr, err := svc.AcceptTrade(ctx, acceptor, tr.ID, xchOffer)
	require.NoError(t, err)
	return tr
}

func TestNewService(t *testing.T) {
	_, err := trade.NewService(nil, inmemory.NewRepoManager())
	require.Error(t, err)

	_, err = trade.NewService(pubsub.NewService(nil), nil)
	require.Error(t, err)
}

func TestTradeLifecycle(t *testing.T) {
	svc := newTestService(t)

	tr := newProposal(t, svc)
	require.Equal(t, domain.TradeStatusProposal, tr.Status)
	require.Len(t, tr.Wishlist, 1)

	tr, err := svc.AcceptTrade(ctx, acceptor, tr.ID, xchOffer)
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusMatched, tr.Status)
	require.Equal(t, domain.TradeTypeItemForXCH, tr.TradeType)
	require.Equal(t, acceptor.UserID, tr.AcceptorID)

	tr, err = svc.CommitTrade(ctx, proposer, tr.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusCommitted, tr.Status)
	require.Equal(t, domain.CommitmentMemo(tr.ID, proposer.UserID), tr.CommitmentMemo)
	committedAt := tr.CommittedAt

	tr, err = svc.CommitTrade(ctx, acceptor, tr.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusCommitted, tr.Status)
	require.Equal(t, committedAt, tr.CommittedAt)

	tr, err = svc.AddTracking(ctx, acceptor, tr.ID, "1Z999", "UPS")
	require.NoError(t, err)
	require.Equal(t, "1Z999", tr.AcceptorShipment.TrackingNumber)
	require.Empty(t, tr.ProposerShipment.TrackingNumber)

	tr, err = svc.CompleteTrade(ctx, proposer, tr.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusCompleted, tr.Status)
	require.False(t, tr.CompletedAt.IsZero())

	_, err = svc.AddTracking(ctx, proposer, tr.ID, "1Z998", "UPS")
	require.ErrorIs(t, err, domain.ErrTradeNotFound)

	_, err = svc.CompleteTrade(ctx, acceptor, tr.ID)
	require.ErrorIs(t, err, domain.ErrTradeNotFound)
}

func TestCreateTradeValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name        string
		actor       domain.Principal
		item        domain.Item
		wishlist    []domain.WishlistItem
		expectedErr error
	}{
		{
			name:        "missing_title",
			actor:       proposer,
			item:        domain.Item{Description: "desc"},
			expectedErr: domain.ErrTradeMissingTitle,
		},
		{
			name:        "missing_description",
			actor:       proposer,
			item:        domain.Item{Title: "title"},
			expectedErr: domain.ErrTradeMissingDescription,
		},
		{
			name:  "negative_value",
			actor: proposer,
			item: domain.Item{
				Title: "title", Description: "desc", ValueUSD: decimal.NewFromInt(-1),
			},
			expectedErr: domain.ErrTradeInvalidValue,
		},
		{
			name:        "invalid_wishlist_type",
			actor:       proposer,
			item:        item,
			wishlist:    []domain.WishlistItem{{Type: "service"}},
			expectedErr: domain.ErrInvalidWishlistType,
		},
		{
			name:        "anonymous_proposer",
			actor:       domain.Principal{},
			item:        item,
			expectedErr: domain.ErrTradeInvalidProposer,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tr, err := svc.CreateTrade(ctx, tt.actor, tt.item, tt.wishlist)
			require.ErrorIs(t, err, tt.expectedErr)
			require.Nil(t, tr)
		})
	}
}

func TestAcceptTrade(t *testing.T) {
	svc := newTestService(t)

	t.Run("self_accept", func(t *testing.T) {
		tr := newProposal(t, svc)
		_, err := svc.AcceptTrade(ctx, proposer, tr.ID, xchOffer)
		require.ErrorIs(t, err, domain.ErrTradeSelfAccept)

		got, err := svc.GetTrade(ctx, proposer, tr.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusProposal, got.Status)
	})

	t.Run("already_matched", func(t *testing.T) {
		tr := newMatched(t, svc)
		_, err := svc.AcceptTrade(ctx, stranger, tr.ID, xchOffer)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)

		got, err := svc.GetTrade(ctx, proposer, tr.ID)
		require.NoError(t, err)
		require.Equal(t, acceptor.UserID, got.AcceptorID)
	})

	t.Run("unknown_trade", func(t *testing.T) {
		_, err := svc.AcceptTrade(ctx, acceptor, "unknown", xchOffer)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)
	})

	t.Run("offer_kinds", func(t *testing.T) {
		kinds := map[string]domain.TradeType{
			domain.OfferKindItem:  domain.TradeTypeItemForItem,
			domain.OfferKindXCH:   domain.TradeTypeItemForXCH,
			domain.OfferKindMixed: domain.TradeTypeMixed,
		}
		for kind, tradeType := range kinds {
			tr := newProposal(t, svc)
			tr, err := svc.AcceptTrade(ctx, acceptor, tr.ID, domain.Offer{
				Kind: kind, Title: "Lens", Description: "50mm",
			})
			require.NoError(t, err)
			require.Equal(t, tradeType, tr.TradeType)
		}
	})
}

func TestGetTrade(t *testing.T) {
	svc := newTestService(t)
	tr := newMatched(t, svc)

	for _, actor := range []domain.Principal{proposer, acceptor} {
		got, err := svc.GetTrade(ctx, actor, tr.ID)
		require.NoError(t, err)
		require.Equal(t, tr.ID, got.ID)
	}

	_, err := svc.GetTrade(ctx, stranger, tr.ID)
	require.ErrorIs(t, err, domain.ErrTradeNotFound)

	_, err = svc.GetTrade(ctx, admin, tr.ID)
	require.ErrorIs(t, err, domain.ErrTradeNotFound)

	got, reputation, err := svc.GetPublicTrade(ctx, tr.ID)
	require.NoError(t, err)
	require.Equal(t, tr.ID, got.ID)
	require.Equal(t, proposer.UserID, reputation.UserID)
	require.Zero(t, reputation.TotalTrades)
}

func TestCommitTrade(t *testing.T) {
	svc := newTestService(t)

	proposal := newProposal(t, svc)
	_, err := svc.CommitTrade(ctx, proposer, proposal.ID)
	require.ErrorIs(t, err, domain.ErrTradeNotFound)

	matched := newMatched(t, svc)
	_, err = svc.CommitTrade(ctx, stranger, matched.ID)
	require.ErrorIs(t, err, domain.ErrTradeNotFound)
}

func TestCancelTrade(t *testing.T) {
	svc := newTestService(t)

	t.Run("by_proposer", func(t *testing.T) {
		for _, tr := range []*domain.Trade{newProposal(t, svc), newMatched(t, svc)} {
			cancelled, err := svc.CancelTrade(ctx, proposer, tr.ID)
			require.NoError(t, err)
			require.Equal(t, domain.TradeStatusCancelled, cancelled.Status)
		}
	})

	t.Run("by_acceptor", func(t *testing.T) {
		tr := newMatched(t, svc)
		_, err := svc.CancelTrade(ctx, acceptor, tr.ID)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)
	})

	t.Run("committed", func(t *testing.T) {
		tr := newMatched(t, svc)
		_, err := svc.CommitTrade(ctx, acceptor, tr.ID)
		require.NoError(t, err)

		_, err = svc.CancelTrade(ctx, proposer, tr.ID)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)

		_, err = svc.AdminCancelTrade(ctx, proposer, tr.ID)
		require.ErrorIs(t, err, domain.ErrAdminRequired)

		cancelled, err := svc.AdminCancelTrade(ctx, admin, tr.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusCancelled, cancelled.Status)

		_, err = svc.AdminCancelTrade(ctx, admin, tr.ID)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)
	})
}

func TestDeleteTrade(t *testing.T) {
	svc := newTestService(t)

	t.Run("proposal", func(t *testing.T) {
		tr := newProposal(t, svc)

		err := svc.DeleteTrade(ctx, stranger, tr.ID)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)

		err = svc.DeleteTrade(ctx, proposer, tr.ID)
		require.NoError(t, err)

		_, _, err = svc.GetPublicTrade(ctx, tr.ID)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)
	})

	t.Run("matched", func(t *testing.T) {
		tr := newMatched(t, svc)

		err := svc.DeleteTrade(ctx, proposer, tr.ID)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)

		err = svc.AdminDeleteTrade(ctx, admin, tr.ID)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)
	})

	t.Run("cancelled", func(t *testing.T) {
		tr := newMatched(t, svc)
		_, err := svc.CancelTrade(ctx, proposer, tr.ID)
		require.NoError(t, err)

		err = svc.DeleteTrade(ctx, proposer, tr.ID)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)

		err = svc.AdminDeleteTrade(ctx, acceptor, tr.ID)
		require.ErrorIs(t, err, domain.ErrAdminRequired)

		err = svc.AdminDeleteTrade(ctx, admin, tr.ID)
		require.NoError(t, err)
	})
}

func TestListTrades(t *testing.T) {
	svc := newTestService(t)

	proposal := newProposal(t, svc)
	matched := newMatched(t, svc)

	proposals, err := svc.ListProposals(ctx, domain.NewPage(0, 0))
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	require.Equal(t, proposal.ID, proposals[0].ID)

	mine, err := svc.ListMyTrades(ctx, acceptor)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, matched.ID, mine[0].ID)

	mine, err = svc.ListMyTrades(ctx, proposer)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	_, err = svc.AdminListTrades(ctx, proposer, domain.TradeFilter{}, domain.NewPage(0, 0))
	require.ErrorIs(t, err, domain.ErrAdminRequired)

	all, err := svc.AdminListTrades(
		ctx, admin,
		domain.TradeFilter{Statuses: []domain.TradeStatus{domain.TradeStatusMatched}},
		domain.NewPage(0, 0),
	)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, matched.ID, all[0].ID)

	_, err = svc.GetPlatformStats(ctx, acceptor)
	require.ErrorIs(t, err, domain.ErrAdminRequired)

	stats, err := svc.GetPlatformStats(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalTrades)
	require.Equal(t, int64(2), stats.ActiveTrades)
	require.Zero(t, stats.CompletedTrades)
}

func TestRecordCommitStatus(t *testing.T) {
	svc := newTestService(t)

	t.Run("starts_escrow", func(t *testing.T) {
		tr := newMatched(t, svc)
		_, err := svc.CommitTrade(ctx, proposer, tr.ID)
		require.NoError(t, err)

		tr, err = svc.RecordCommitStatus(
			ctx, tr.ID, proposer.UserID, domain.TxStatusConfirmed,
		)
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusCommitted, tr.Status)

		tr, err = svc.RecordCommitStatus(
			ctx, tr.ID, acceptor.UserID, domain.TxStatusConfirmed,
		)
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusEscrow, tr.Status)
		require.False(t, tr.Escrow.StartDate.IsZero())
	})

	t.Run("matched_stays_matched", func(t *testing.T) {
		tr := newMatched(t, svc)
		for _, userID := range []int64{proposer.UserID, acceptor.UserID} {
			var err error
			tr, err = svc.RecordCommitStatus(ctx, tr.ID, userID, domain.TxStatusConfirmed)
			require.NoError(t, err)
		}
		require.Equal(t, domain.TradeStatusMatched, tr.Status)
		require.True(t, tr.BothSidesCommitted())

		tr, err := svc.StartEscrow(ctx, tr.ID)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)
		require.Nil(t, tr)
	})

	t.Run("fees_confirmed_before_commit", func(t *testing.T) {
		tr := newMatched(t, svc)
		for _, userID := range []int64{proposer.UserID, acceptor.UserID} {
			var err error
			tr, err = svc.RecordCommitStatus(ctx, tr.ID, userID, domain.TxStatusConfirmed)
			require.NoError(t, err)
		}
		require.Equal(t, domain.TradeStatusMatched, tr.Status)

		tr, err := svc.CommitTrade(ctx, acceptor, tr.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusEscrow, tr.Status)
		require.False(t, tr.Escrow.StartDate.IsZero())

		got, err := svc.GetTrade(ctx, proposer, tr.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusEscrow, got.Status)
	})

	t.Run("non_participant", func(t *testing.T) {
		tr := newMatched(t, svc)
		_, err := svc.RecordCommitStatus(
			ctx, tr.ID, stranger.UserID, domain.TxStatusPending,
		)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)
	})
}
