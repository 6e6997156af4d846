package db_test

import (
	"testing"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestReviewRepositoryImplementations(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		m := managers[i]

		t.Run(m.Name, func(t *testing.T) {
			trades := m.TradeRepository()
			repo := m.ReviewRepository()

			t.Run("add_and_aggregate", func(t *testing.T) {
				testAddReviews(t, trades, repo)
			})
			t.Run("duplicate", func(t *testing.T) {
				testDuplicateReview(t, trades, repo)
			})
			t.Run("unknown_user", func(t *testing.T) {
				rep, err := repo.GetReputation(ctx, randomUserID())
				require.NoError(t, err)
				require.Zero(t, rep.Score)
				require.Zero(t, rep.TotalTrades)

				reviews, err := repo.GetReviewsForUser(ctx, rep.UserID)
				require.NoError(t, err)
				require.Empty(t, reviews)
			})
		})
	}
}

func addCompletedTrade(t *testing.T, repo domain.TradeRepository) *domain.Trade {
	matched := addMatchedTrade(t, repo)
	completed, err := repo.UpdateTrade(
		ctx, matched.ID, domain.TradeCondition{},
		func(t *domain.Trade) (*domain.Trade, error) {
			return t, t.Complete(matched.ProposerID)
		},
	)
	require.NoError(t, err)
	return completed
}

func testAddReviews(
	t *testing.T, trades domain.TradeRepository, repo domain.ReviewRepository,
) {
	first := addCompletedTrade(t, trades)
	revieweeID := first.AcceptorID

	review, err := domain.NewReview(first, first.ProposerID, domain.ReviewScores{
		Timeliness: 5, Packaging: 5, ValueHonesty: 5, StateAccuracy: 5,
	}, " great ")
	require.NoError(t, err)

	rep, err := repo.AddReview(ctx, review)
	require.NoError(t, err)
	require.Equal(t, revieweeID, rep.UserID)
	require.InDelta(t, 5.0, rep.Score, 1e-9)
	require.Equal(t, 1, rep.TotalTrades)

	// A second trade reviewed by a different proposer of the same acceptor.
	second := makeRandomTrade(t)
	require.NoError(t, trades.AddTrade(ctx, second))
	second, err = trades.UpdateTrade(
		ctx, second.ID, domain.TradeCondition{},
		func(t *domain.Trade) (*domain.Trade, error) {
			if err := t.Accept(revieweeID, domain.Offer{Kind: domain.OfferKindItem}); err != nil {
				return nil, err
			}
			return t, t.Complete(revieweeID)
		},
	)
	require.NoError(t, err)

	review, err = domain.NewReview(second, second.ProposerID, domain.ReviewScores{
		Timeliness: 1, Packaging: 1, ValueHonesty: 1, StateAccuracy: 1,
	}, "")
	require.NoError(t, err)

	rep, err = repo.AddReview(ctx, review)
	require.NoError(t, err)
	require.InDelta(t, 3.0, rep.Score, 1e-9)
	require.Equal(t, 2, rep.TotalTrades)

	got, err := repo.GetReputation(ctx, revieweeID)
	require.NoError(t, err)
	require.InDelta(t, 3.0, got.Score, 1e-9)
	require.Equal(t, 2, got.TotalTrades)

	reviews, err := repo.GetReviewsForUser(ctx, revieweeID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	for _, r := range reviews {
		require.Equal(t, revieweeID, r.RevieweeID)
	}
}

func testDuplicateReview(
	t *testing.T, trades domain.TradeRepository, repo domain.ReviewRepository,
) {
	trade := addCompletedTrade(t, trades)
	scores := domain.ReviewScores{
		Timeliness: 4, Packaging: 3, ValueHonesty: 5, StateAccuracy: 2,
	}

	review, err := domain.NewReview(trade, trade.AcceptorID, scores, "")
	require.NoError(t, err)
	_, err = repo.AddReview(ctx, review)
	require.NoError(t, err)

	again, err := domain.NewReview(trade, trade.AcceptorID, scores, "again")
	require.NoError(t, err)
	_, err = repo.AddReview(ctx, again)
	require.ErrorIs(t, err, domain.ErrReviewAlreadyExists)

	rep, err := repo.GetReputation(ctx, trade.ProposerID)
	require.NoError(t, err)
	require.InDelta(t, scores.Overall(), rep.Score, 1e-9)
	require.Equal(t, 1, rep.TotalTrades)
}
