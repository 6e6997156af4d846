package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Score weights of the overall review score.
const (
	TimelinessWeight    = 0.20
	PackagingWeight     = 0.25
	ValueHonestyWeight  = 0.30
	StateAccuracyWeight = 0.25

	MinReviewScore = 1
	MaxReviewScore = 5
)

// ReviewScores are the per-dimension scores given by a reviewer.
type ReviewScores struct {
	Timeliness    int
	Packaging     int
	ValueHonesty  int
	StateAccuracy int
}

func (s ReviewScores) validate() error {
	for _, v := range []int{
		s.Timeliness, s.Packaging, s.ValueHonesty, s.StateAccuracy,
	} {
		if v < MinReviewScore || v > MaxReviewScore {
			return ErrReviewInvalidScore
		}
	}
	return nil
}

// Overall returns the weighted sum of the scores.
func (s ReviewScores) Overall() float64 {
	return TimelinessWeight*float64(s.Timeliness) +
		PackagingWeight*float64(s.Packaging) +
		ValueHonestyWeight*float64(s.ValueHonesty) +
		StateAccuracyWeight*float64(s.StateAccuracy)
}

// Review is the feedback a participant leaves to the counterparty of a
// completed trade.
type Review struct {
	ID           string
	TradeID      string
	ReviewerID   int64
	RevieweeID   int64
	Scores       ReviewScores
	OverallScore float64
	Comment      string
	CreatedAt    time.Time
}

// NewReview returns a review by the given reviewer of the counterparty of the
// trade. The trade must be completed.
func NewReview(
	trade *Trade, reviewerID int64, scores ReviewScores, comment string,
) (*Review, error) {
	if err := scores.validate(); err != nil {
		return nil, err
	}
	if trade.Status != TradeStatusCompleted {
		return nil, ErrReviewTradeNotCompleted
	}
	revieweeID, err := trade.Counterparty(reviewerID)
	if err != nil {
		return nil, err
	}

	return &Review{
		ID:           uuid.New().String(),
		TradeID:      trade.ID,
		ReviewerID:   reviewerID,
		RevieweeID:   revieweeID,
		Scores:       scores,
		OverallScore: scores.Overall(),
		Comment:      strings.TrimSpace(comment),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Reputation is the running aggregate of the reviews a user received.
type Reputation struct {
	UserID      int64
	Score       float64
	TotalTrades int
	UpdatedAt   time.Time
}

// ComputeReputation aggregates the given reviews of a reviewee into its
// reputation: the average overall score and the count of distinct trades.
func ComputeReputation(userID int64, reviews []*Review) *Reputation {
	rep := &Reputation{UserID: userID, UpdatedAt: time.Now().UTC()}
	if len(reviews) == 0 {
		return rep
	}

	trades := make(map[string]struct{})
	var sum float64
	for _, r := range reviews {
		sum += r.OverallScore
		trades[r.TradeID] = struct{}{}
	}
	rep.Score = sum / float64(len(reviews))
	rep.TotalTrades = len(trades)
	return rep
}
