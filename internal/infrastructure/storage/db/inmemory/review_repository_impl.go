package inmemory

import (
	"context"
	"fmt"
	"sort"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
)

type reviewRepositoryImpl struct {
	store *store
}

// NewReviewRepositoryImpl returns a new inmemory ReviewRepository
// implementation.
func NewReviewRepositoryImpl(store *store) domain.ReviewRepository {
	return &reviewRepositoryImpl{store}
}

func (r reviewRepositoryImpl) AddReview(
	_ context.Context, review *domain.Review,
) (*domain.Reputation, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	key := reviewKey(review.TradeID, review.ReviewerID)
	if _, ok := r.store.reviews[key]; ok {
		return nil, domain.ErrReviewAlreadyExists
	}
	cp := *review
	r.store.reviews[key] = &cp

	reviews := make([]*domain.Review, 0)
	for _, rv := range r.store.reviews {
		if rv.RevieweeID == review.RevieweeID {
			reviews = append(reviews, rv)
		}
	}
	reputation := domain.ComputeReputation(review.RevieweeID, reviews)
	r.store.reputations[review.RevieweeID] = reputation

	rep := *reputation
	return &rep, nil
}

func (r reviewRepositoryImpl) GetReviewsForUser(
	_ context.Context, userID int64,
) ([]*domain.Review, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	reviews := make([]*domain.Review, 0)
	for _, rv := range r.store.reviews {
		if rv.RevieweeID == userID {
			cp := *rv
			reviews = append(reviews, &cp)
		}
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (r reviewRepositoryImpl) GetReputation(
	_ context.Context, userID int64,
) (*domain.Reputation, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	reputation, ok := r.store.reputations[userID]
	if !ok {
		return &domain.Reputation{UserID: userID}, nil
	}
	cp := *reputation
	return &cp, nil
}

func reviewKey(tradeID string, reviewerID int64) string {
	return fmt.Sprintf("%s:%d", tradeID, reviewerID)
}
