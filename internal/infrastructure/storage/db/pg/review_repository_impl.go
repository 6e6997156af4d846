package postgresdb

import (
	"context"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/pg/sqlc/queries"
)

type reviewRepositoryImpl struct {
	querier *queries.Queries
	execTx  execTxFunc
}

func NewReviewRepositoryImpl(
	querier *queries.Queries, execTx execTxFunc,
) domain.ReviewRepository {
	return &reviewRepositoryImpl{
		querier: querier,
		execTx:  execTx,
	}
}

func (r *reviewRepositoryImpl) AddReview(
	ctx context.Context, review *domain.Review,
) (*domain.Reputation, error) {
	var reputation *domain.Reputation

	if err := r.execTx(ctx, func(q *queries.Queries) error {
		if err := q.InsertReview(ctx, queries.InsertReviewParams{
			ID:            review.ID,
			TradeID:       review.TradeID,
			ReviewerID:    review.ReviewerID,
			RevieweeID:    review.RevieweeID,
			Timeliness:    int16(review.Scores.Timeliness),
			Packaging:     int16(review.Scores.Packaging),
			ValueHonesty:  int16(review.Scores.ValueHonesty),
			StateAccuracy: int16(review.Scores.StateAccuracy),
			OverallScore:  review.OverallScore,
			Comment:       nullString(review.Comment),
			CreatedAt:     review.CreatedAt,
		}); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrReviewAlreadyExists
			}
			return err
		}

		row, err := q.UpsertReputation(ctx, review.RevieweeID)
		if err != nil {
			return err
		}
		reputation = toReputation(row)
		return nil
	}); err != nil {
		return nil, err
	}

	return reputation, nil
}

func (r *reviewRepositoryImpl) GetReviewsForUser(
	ctx context.Context, userID int64,
) ([]*domain.Review, error) {
	rows, err := r.querier.SelectReviewsForReviewee(ctx, userID)
	if err != nil {
		return nil, err
	}

	reviews := make([]*domain.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, &domain.Review{
			ID:         row.ID,
			TradeID:    row.TradeID,
			ReviewerID: row.ReviewerID,
			RevieweeID: row.RevieweeID,
			Scores: domain.ReviewScores{
				Timeliness:    int(row.Timeliness),
				Packaging:     int(row.Packaging),
				ValueHonesty:  int(row.ValueHonesty),
				StateAccuracy: int(row.StateAccuracy),
			},
			OverallScore: row.OverallScore,
			Comment:      row.Comment.String,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return reviews, nil
}

func (r *reviewRepositoryImpl) GetReputation(
	ctx context.Context, userID int64,
) (*domain.Reputation, error) {
	row, err := r.querier.SelectReputation(ctx, userID)
	if err != nil {
		if isNoRows(err) {
			return &domain.Reputation{UserID: userID}, nil
		}
		return nil, err
	}
	return toReputation(row), nil
}

func toReputation(row queries.Reputation) *domain.Reputation {
	return &domain.Reputation{
		UserID:      row.UserID,
		Score:       row.Score,
		TotalTrades: int(row.TotalTrades),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}
