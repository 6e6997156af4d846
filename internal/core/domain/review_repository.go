package domain

import "context"

// ReviewRepository is the abstraction for any kind of database intended to
// persist reviews and the reputations derived from them.
type ReviewRepository interface {
	// AddReview stores the review and recomputes the reviewee's reputation in
	// the same storage transaction. It returns ErrReviewAlreadyExists if the
	// reviewer already reviewed the trade.
	AddReview(ctx context.Context, review *Review) (*Reputation, error)
	// GetReviewsForUser returns the reviews received by the given user,
	// newest first.
	GetReviewsForUser(ctx context.Context, userID int64) ([]*Review, error)
	// GetReputation returns the reputation of the given user. Users never
	// reviewed have a zero reputation.
	GetReputation(ctx context.Context, userID int64) (*Reputation, error)
}
