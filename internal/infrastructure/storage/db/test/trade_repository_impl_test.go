package db_test

import (
	"errors"
	"testing"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestTradeRepositoryImplementations(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		m := managers[i]

		t.Run(m.Name, func(t *testing.T) {
			repo := m.TradeRepository()

			t.Run("add_and_get", func(t *testing.T) {
				testAddAndGetTrade(t, repo)
			})
			t.Run("get_all", func(t *testing.T) {
				testGetAllTrades(t, repo)
			})
			t.Run("get_for_user", func(t *testing.T) {
				testGetTradesForUser(t, repo)
			})
			t.Run("conditional_update", func(t *testing.T) {
				testConditionalUpdateTrade(t, repo)
			})
			t.Run("update_rollback", func(t *testing.T) {
				testUpdateTradeRollback(t, repo)
			})
			t.Run("conditional_delete", func(t *testing.T) {
				testConditionalDeleteTrade(t, repo)
			})
			t.Run("stats", func(t *testing.T) {
				testGetTradeStats(t, repo)
			})
		})
	}
}

func testAddAndGetTrade(t *testing.T, repo domain.TradeRepository) {
	trade := makeRandomTrade(t)
	require.NoError(t, repo.AddTrade(ctx, trade))

	got, err := repo.GetTrade(ctx, trade.ID, domain.TradeCondition{})
	require.NoError(t, err)
	require.Equal(t, trade.ID, got.ID)
	require.Equal(t, trade.ProposerID, got.ProposerID)
	require.Equal(t, domain.TradeStatusProposal, got.Status)
	require.Equal(t, trade.ProposerItem.Title, got.ProposerItem.Title)
	require.True(t, trade.ProposerItem.ValueUSD.Equal(got.ProposerItem.ValueUSD))
	require.Len(t, got.Wishlist, 2)

	got, err = repo.GetTrade(ctx, trade.ID, domain.TradeCondition{
		ParticipantID: trade.ProposerID,
		Statuses:      []domain.TradeStatus{domain.TradeStatusProposal},
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	_, err = repo.GetTrade(ctx, trade.ID, domain.TradeCondition{
		ParticipantID: randomUserID(),
	})
	require.ErrorIs(t, err, domain.ErrTradeNotFound)

	_, err = repo.GetTrade(ctx, trade.ID, domain.TradeCondition{
		Statuses: []domain.TradeStatus{domain.TradeStatusMatched},
	})
	require.ErrorIs(t, err, domain.ErrTradeNotFound)

	_, err = repo.GetTrade(ctx, randomHex(16), domain.TradeCondition{})
	require.ErrorIs(t, err, domain.ErrTradeNotFound)
}

func testGetAllTrades(t *testing.T, repo domain.TradeRepository) {
	proposal := makeRandomTrade(t)
	require.NoError(t, repo.AddTrade(ctx, proposal))
	matched := addMatchedTrade(t, repo)

	proposals, err := repo.GetAllTrades(ctx, domain.TradeFilter{
		Statuses: []domain.TradeStatus{domain.TradeStatusProposal},
	}, domain.NewPage(domain.MaxPageLimit, 0))
	require.NoError(t, err)
	require.True(t, containsTrade(proposals, proposal.ID))
	require.False(t, containsTrade(proposals, matched.ID))
	for _, tr := range proposals {
		require.Equal(t, domain.TradeStatusProposal, tr.Status)
	}

	all, err := repo.GetAllTrades(ctx, domain.TradeFilter{}, domain.NewPage(2, 0))
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.False(t, all[0].CreatedAt.Before(all[1].CreatedAt))
}

func testGetTradesForUser(t *testing.T, repo domain.TradeRepository) {
	matched := addMatchedTrade(t, repo)

	trades, err := repo.GetTradesForUser(ctx, matched.AcceptorID)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.Equal(t, matched.ID, trades[0].ID)

	trades, err = repo.GetTradesForUser(ctx, matched.ProposerID)
	require.NoError(t, err)
	require.Len(t, trades, 1)

	trades, err = repo.GetTradesForUser(ctx, randomUserID())
	require.NoError(t, err)
	require.Empty(t, trades)
}

func testConditionalUpdateTrade(t *testing.T, repo domain.TradeRepository) {
	matched := addMatchedTrade(t, repo)
	require.Equal(t, domain.TradeStatusMatched, matched.Status)
	require.Equal(t, domain.TradeTypeItemForXCH, matched.TradeType)

	// A proposal-only update no longer matches.
	_, err := repo.UpdateTrade(
		ctx, matched.ID,
		domain.TradeCondition{
			Statuses: []domain.TradeStatus{domain.TradeStatusProposal},
		},
		func(t *domain.Trade) (*domain.Trade, error) {
			return t, t.Cancel(domain.TradeStatusProposal)
		},
	)
	require.ErrorIs(t, err, domain.ErrTradeNotFound)

	updated, err := repo.UpdateTrade(
		ctx, matched.ID,
		domain.TradeCondition{
			ParticipantID: matched.AcceptorID,
			Statuses: []domain.TradeStatus{
				domain.TradeStatusMatched, domain.TradeStatusCommitted,
			},
		},
		func(t *domain.Trade) (*domain.Trade, error) {
			if err := t.Commit(matched.AcceptorID); err != nil {
				return nil, err
			}
			return t, nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusCommitted, updated.Status)

	got, err := repo.GetTrade(ctx, matched.ID, domain.TradeCondition{})
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusCommitted, got.Status)
	require.Equal(t, matched.AcceptorID, got.AcceptorID)
	require.Equal(t, uint64(5000), got.AcceptorXCHOffer)
	require.Equal(t, updated.CommitmentMemo, got.CommitmentMemo)
	require.False(t, got.CommittedAt.IsZero())
}

func testUpdateTradeRollback(t *testing.T, repo domain.TradeRepository) {
	trade := makeRandomTrade(t)
	require.NoError(t, repo.AddTrade(ctx, trade))

	expectedErr := errors.New("something went wrong")
	_, err := repo.UpdateTrade(
		ctx, trade.ID, domain.TradeCondition{},
		func(t *domain.Trade) (*domain.Trade, error) {
			t.Status = domain.TradeStatusCancelled
			return nil, expectedErr
		},
	)
	require.ErrorIs(t, err, expectedErr)

	got, err := repo.GetTrade(ctx, trade.ID, domain.TradeCondition{})
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusProposal, got.Status)
}

func testConditionalDeleteTrade(t *testing.T, repo domain.TradeRepository) {
	matched := addMatchedTrade(t, repo)

	err := repo.DeleteTrade(ctx, matched.ID, domain.TradeCondition{
		ProposerID: matched.ProposerID,
		Statuses:   []domain.TradeStatus{domain.TradeStatusProposal},
	})
	require.ErrorIs(t, err, domain.ErrTradeNotFound)

	err = repo.DeleteTrade(ctx, matched.ID, domain.TradeCondition{
		ProposerID: matched.AcceptorID,
	})
	require.ErrorIs(t, err, domain.ErrTradeNotFound)

	err = repo.DeleteTrade(ctx, matched.ID, domain.TradeCondition{
		ProposerID: matched.ProposerID,
		Statuses:   []domain.TradeStatus{domain.TradeStatusMatched},
	})
	require.NoError(t, err)

	_, err = repo.GetTrade(ctx, matched.ID, domain.TradeCondition{})
	require.ErrorIs(t, err, domain.ErrTradeNotFound)
}

func testGetTradeStats(t *testing.T, repo domain.TradeRepository) {
	before, err := repo.GetTradeStats(ctx)
	require.NoError(t, err)

	matched := addMatchedTrade(t, repo)
	_, err = repo.UpdateTrade(
		ctx, matched.ID, domain.TradeCondition{},
		func(t *domain.Trade) (*domain.Trade, error) {
			return t, t.Complete(matched.ProposerID)
		},
	)
	require.NoError(t, err)
	require.NoError(t, repo.AddTrade(ctx, makeRandomTrade(t)))

	after, err := repo.GetTradeStats(ctx)
	require.NoError(t, err)
	require.Equal(t, before.TotalTrades+2, after.TotalTrades)
	require.Equal(t, before.ActiveTrades+1, after.ActiveTrades)
	require.Equal(t, before.CompletedTrades+1, after.CompletedTrades)
}

func containsTrade(trades []*domain.Trade, id string) bool {
	for _, t := range trades {
		if t.ID == id {
			return true
		}
	}
	return false
}
