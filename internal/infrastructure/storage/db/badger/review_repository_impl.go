package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

// Reviews and reputations live in the same store so that a review and the
// reputation it changes are committed together.
type reviewRepositoryImpl struct {
	store *badgerhold.Store
}

func NewReviewRepositoryImpl(store *badgerhold.Store) domain.ReviewRepository {
	return &reviewRepositoryImpl{store}
}

func (r *reviewRepositoryImpl) AddReview(
	_ context.Context, review *domain.Review,
) (*domain.Reputation, error) {
	var reputation *domain.Reputation
	err := runTx(r.store, func(txn *badger.Txn) error {
		key := reviewKey(review.TradeID, review.ReviewerID)
		if err := r.store.TxInsert(txn, key, *review); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrReviewAlreadyExists
			}
			return err
		}

		var reviews []domain.Review
		if err := r.store.TxFind(
			txn, &reviews, badgerhold.Where("RevieweeID").Eq(review.RevieweeID),
		); err != nil {
			return err
		}
		list := make([]*domain.Review, 0, len(reviews))
		for i := range reviews {
			list = append(list, &reviews[i])
		}

		reputation = domain.ComputeReputation(review.RevieweeID, list)
		return r.store.TxUpsert(txn, review.RevieweeID, *reputation)
	})
	if err != nil {
		return nil, err
	}
	return reputation, nil
}

func (r *reviewRepositoryImpl) GetReviewsForUser(
	_ context.Context, userID int64,
) ([]*domain.Review, error) {
	var reviews []domain.Review
	if err := r.store.Find(
		&reviews, badgerhold.Where("RevieweeID").Eq(userID),
	); err != nil {
		return nil, err
	}

	res := make([]*domain.Review, 0, len(reviews))
	for i := range reviews {
		res = append(res, &reviews[i])
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (r *reviewRepositoryImpl) GetReputation(
	_ context.Context, userID int64,
) (*domain.Reputation, error) {
	var reputation domain.Reputation
	if err := r.store.Get(userID, &reputation); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return &domain.Reputation{UserID: userID}, nil
		}
		return nil, err
	}
	return &reputation, nil
}

func reviewKey(tradeID string, reviewerID int64) string {
	return fmt.Sprintf("%s:%d", tradeID, reviewerID)
}
