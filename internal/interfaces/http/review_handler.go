package httpinterface

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/reputation"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
)

type reviewHandler struct {
	reputationSvc *reputation.Service
}

func newReviewHandler(reputationSvc *reputation.Service) *reviewHandler {
	return &reviewHandler{reputationSvc}
}

func (h *reviewHandler) methods() map[string]method {
	return map[string]method{
		"trade_review": {accessUser, h.review},
		"user_reviews": {accessPublic, h.userReviews},
	}
}

type reviewParams struct {
	TradeID       string `json:"trade_id"`
	Timeliness    int    `json:"timeliness"`
	Packaging     int    `json:"packaging"`
	ValueHonesty  int    `json:"value_honesty"`
	StateAccuracy int    `json:"state_accuracy"`
	Comment       string `json:"comment"`
}

func (p reviewParams) validate() error {
	if strings.TrimSpace(p.TradeID) == "" {
		return invalidParams("missing trade_id")
	}
	scores := map[string]int{
		"timeliness":     p.Timeliness,
		"packaging":      p.Packaging,
		"value_honesty":  p.ValueHonesty,
		"state_accuracy": p.StateAccuracy,
	}
	for name, v := range scores {
		if v < domain.MinReviewScore || v > domain.MaxReviewScore {
			return invalidParams(
				"%s must be between %d and %d",
				name, domain.MinReviewScore, domain.MaxReviewScore,
			)
		}
	}
	return nil
}

type userReviewsParams struct {
	UserID int64 `json:"user_id"`
}

func (p userReviewsParams) validate() error {
	if p.UserID <= 0 {
		return invalidParams("user_id must be a positive number")
	}
	return nil
}

func (h *reviewHandler) review(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p reviewParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	review, rep, err := h.reputationSvc.SubmitReview(
		ctx, actor, p.TradeID,
		domain.ReviewScores{
			Timeliness:    p.Timeliness,
			Packaging:     p.Packaging,
			ValueHonesty:  p.ValueHonesty,
			StateAccuracy: p.StateAccuracy,
		},
		p.Comment,
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"review_id":        review.ID,
		"overall_score":    review.OverallScore,
		"reputation_score": rep.Score,
	}, nil
}

func (h *reviewHandler) userReviews(
	ctx context.Context, _ domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p userReviewsParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	reviews, rep, err := h.reputationSvc.GetUserReviews(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"reviews":    newReviewViews(reviews),
		"reputation": newReputationView(rep),
	}, nil
}
