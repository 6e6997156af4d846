package reputation

import (
	"context"
	"fmt"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repoManager ports.RepoManager
}

func NewService(repoManager ports.RepoManager) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &Service{repoManager}, nil
}

// SubmitReview files the actor's review of the counterparty of a completed
// trade and returns it with the reviewee's updated reputation.
func (s *Service) SubmitReview(
	ctx context.Context, actor domain.Principal, tradeID string,
	scores domain.ReviewScores, comment string,
) (*domain.Review, *domain.Reputation, error) {
	trade, err := s.repoManager.TradeRepository().GetTrade(
		ctx, tradeID,
		domain.TradeCondition{
			ParticipantID: actor.UserID,
			Statuses:      []domain.TradeStatus{domain.TradeStatusCompleted},
		},
	)
	if err != nil {
		return nil, nil, err
	}

	review, err := domain.NewReview(trade, actor.UserID, scores, comment)
	if err != nil {
		return nil, nil, err
	}
	reputation, err := s.repoManager.ReviewRepository().AddReview(ctx, review)
	if err != nil {
		return nil, nil, err
	}

	log.Debugf(
		"user %d reviewed user %d for trade %s, new score %.2f",
		review.ReviewerID, review.RevieweeID, trade.ID, reputation.Score,
	)
	return review, reputation, nil
}

// GetUserReviews returns the reviews received by the user, newest first,
// and its reputation.
func (s *Service) GetUserReviews(
	ctx context.Context, userID int64,
) ([]*domain.Review, *domain.Reputation, error) {
	repo := s.repoManager.ReviewRepository()
	reviews, err := repo.GetReviewsForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	reputation, err := repo.GetReputation(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return reviews, reputation, nil
}

func (s *Service) GetReputation(
	ctx context.Context, userID int64,
) (*domain.Reputation, error) {
	return s.repoManager.ReviewRepository().GetReputation(ctx, userID)
}
