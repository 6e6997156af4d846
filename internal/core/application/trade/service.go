package trade

import (
	"context"
	"fmt"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/pubsub"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

var (
	cancelableByProposer = []domain.TradeStatus{
		domain.TradeStatusProposal, domain.TradeStatusMatched,
	}
	cancelableByAdmin = []domain.TradeStatus{
		domain.TradeStatusProposal, domain.TradeStatusMatched,
		domain.TradeStatusCommitted,
	}
	deletableByProposer = []domain.TradeStatus{domain.TradeStatusProposal}
	deletableByAdmin    = []domain.TradeStatus{
		domain.TradeStatusProposal, domain.TradeStatusCancelled,
	}
	committable = []domain.TradeStatus{
		domain.TradeStatusMatched, domain.TradeStatusCommitted,
	}
)

// Service drives trades through their lifecycle. Every ownership or status
// scoped mutation is a single conditional repository update, so a trade that
// does not exist and one the actor cannot touch are both ErrTradeNotFound.
type Service struct {
	pubsub      *pubsub.Service
	repoManager ports.RepoManager
}

func NewService(
	pubsubSvc *pubsub.Service, repoManager ports.RepoManager,
) (*Service, error) {
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &Service{pubsubSvc, repoManager}, nil
}

func (s *Service) CreateTrade(
	ctx context.Context, actor domain.Principal,
	item domain.Item, wishlist []domain.WishlistItem,
) (*domain.Trade, error) {
	trade, err := domain.NewTrade(actor.UserID, item, wishlist)
	if err != nil {
		return nil, err
	}
	if err := s.repoManager.TradeRepository().AddTrade(ctx, trade); err != nil {
		return nil, err
	}
	log.Debugf("trade %s proposed by user %d", trade.ID, actor.UserID)
	return trade, nil
}

func (s *Service) AcceptTrade(
	ctx context.Context, actor domain.Principal, tradeID string,
	offer domain.Offer,
) (*domain.Trade, error) {
	trade, err := s.repoManager.TradeRepository().UpdateTrade(
		ctx, tradeID,
		domain.TradeCondition{Statuses: []domain.TradeStatus{domain.TradeStatusProposal}},
		func(t *domain.Trade) (*domain.Trade, error) {
			if err := t.Accept(actor.UserID, offer); err != nil {
				return nil, err
			}
			return t, nil
		},
	)
	if err != nil {
		return nil, err
	}
	s.pubsub.PublishTradeEvent(pubsub.EventTradeAccepted, trade)
	return trade, nil
}

func (s *Service) GetTrade(
	ctx context.Context, actor domain.Principal, tradeID string,
) (*domain.Trade, error) {
	return s.repoManager.TradeRepository().GetTrade(
		ctx, tradeID, domain.TradeCondition{ParticipantID: actor.UserID},
	)
}

// GetPublicTrade returns the trade whatever its status, together with the
// reputation of its proposer.
func (s *Service) GetPublicTrade(
	ctx context.Context, tradeID string,
) (*domain.Trade, *domain.Reputation, error) {
	trade, err := s.repoManager.TradeRepository().GetTrade(
		ctx, tradeID, domain.TradeCondition{},
	)
	if err != nil {
		return nil, nil, err
	}
	reputation, err := s.repoManager.ReviewRepository().GetReputation(
		ctx, trade.ProposerID,
	)
	if err != nil {
		return nil, nil, err
	}
	return trade, reputation, nil
}

func (s *Service) ListProposals(
	ctx context.Context, page domain.Page,
) ([]*domain.Trade, error) {
	return s.repoManager.TradeRepository().GetAllTrades(
		ctx,
		domain.TradeFilter{Statuses: []domain.TradeStatus{domain.TradeStatusProposal}},
		page,
	)
}

func (s *Service) ListMyTrades(
	ctx context.Context, actor domain.Principal,
) ([]*domain.Trade, error) {
	return s.repoManager.TradeRepository().GetTradesForUser(ctx, actor.UserID)
}

func (s *Service) CommitTrade(
	ctx context.Context, actor domain.Principal, tradeID string,
) (*domain.Trade, error) {
	return s.update(
		ctx, tradeID,
		domain.TradeCondition{ParticipantID: actor.UserID, Statuses: committable},
		func(t *domain.Trade) error {
			if err := t.Commit(actor.UserID); err != nil {
				return err
			}
			// Both fees may have been confirmed while the trade was Matched.
			if t.BothSidesCommitted() {
				log.Infof("commitment fees already confirmed for trade %s, starting escrow", t.ID)
				return t.StartEscrow()
			}
			return nil
		},
	)
}

func (s *Service) AddTracking(
	ctx context.Context, actor domain.Principal,
	tradeID, trackingNumber, carrier string,
) (*domain.Trade, error) {
	return s.update(
		ctx, tradeID,
		domain.TradeCondition{
			ParticipantID: actor.UserID, Statuses: domain.ActiveTradeStatuses,
		},
		func(t *domain.Trade) error {
			return t.AddTracking(actor.UserID, trackingNumber, carrier)
		},
	)
}

func (s *Service) CompleteTrade(
	ctx context.Context, actor domain.Principal, tradeID string,
) (*domain.Trade, error) {
	trade, err := s.update(
		ctx, tradeID,
		domain.TradeCondition{
			ParticipantID: actor.UserID, Statuses: domain.ActiveTradeStatuses,
		},
		func(t *domain.Trade) error { return t.Complete(actor.UserID) },
	)
	if err != nil {
		return nil, err
	}
	s.pubsub.PublishTradeEvent(pubsub.EventTradeCompleted, trade)
	return trade, nil
}

func (s *Service) CancelTrade(
	ctx context.Context, actor domain.Principal, tradeID string,
) (*domain.Trade, error) {
	trade, err := s.update(
		ctx, tradeID,
		domain.TradeCondition{
			ProposerID: actor.UserID, Statuses: cancelableByProposer,
		},
		func(t *domain.Trade) error { return t.Cancel(cancelableByProposer...) },
	)
	if err != nil {
		return nil, err
	}
	s.pubsub.PublishTradeEvent(pubsub.EventTradeCancelled, trade)
	return trade, nil
}

func (s *Service) AdminCancelTrade(
	ctx context.Context, actor domain.Principal, tradeID string,
) (*domain.Trade, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrAdminRequired
	}
	trade, err := s.update(
		ctx, tradeID,
		domain.TradeCondition{Statuses: cancelableByAdmin},
		func(t *domain.Trade) error { return t.Cancel(cancelableByAdmin...) },
	)
	if err != nil {
		return nil, err
	}
	log.Infof("trade %s cancelled by admin %s", tradeID, actor.Username)
	s.pubsub.PublishTradeEvent(pubsub.EventTradeCancelled, trade)
	return trade, nil
}

func (s *Service) DeleteTrade(
	ctx context.Context, actor domain.Principal, tradeID string,
) error {
	return s.repoManager.TradeRepository().DeleteTrade(
		ctx, tradeID,
		domain.TradeCondition{ProposerID: actor.UserID, Statuses: deletableByProposer},
	)
}

func (s *Service) AdminDeleteTrade(
	ctx context.Context, actor domain.Principal, tradeID string,
) error {
	if !actor.IsAdmin {
		return domain.ErrAdminRequired
	}
	if err := s.repoManager.TradeRepository().DeleteTrade(
		ctx, tradeID, domain.TradeCondition{Statuses: deletableByAdmin},
	); err != nil {
		return err
	}
	log.Infof("trade %s deleted by admin %s", tradeID, actor.Username)
	return nil
}

// StartEscrow moves a committed trade to escrow.
func (s *Service) StartEscrow(
	ctx context.Context, tradeID string,
) (*domain.Trade, error) {
	return s.update(
		ctx, tradeID,
		domain.TradeCondition{
			Statuses: []domain.TradeStatus{domain.TradeStatusCommitted},
		},
		func(t *domain.Trade) error { return t.StartEscrow() },
	)
}

// RecordCommitStatus mirrors the status of a commitment fee payment into the
// payer's side of the trade. The escrow starts in the same update once both
// fees are confirmed on a committed trade.
func (s *Service) RecordCommitStatus(
	ctx context.Context, tradeID string, userID int64, status domain.TxStatus,
) (*domain.Trade, error) {
	return s.update(
		ctx, tradeID,
		domain.TradeCondition{ParticipantID: userID},
		func(t *domain.Trade) error {
			if err := t.SetCommitStatus(userID, string(status)); err != nil {
				return err
			}
			if t.Status == domain.TradeStatusCommitted && t.BothSidesCommitted() {
				log.Infof("both commitment fees confirmed for trade %s, starting escrow", t.ID)
				return t.StartEscrow()
			}
			return nil
		},
	)
}

func (s *Service) AdminListTrades(
	ctx context.Context, actor domain.Principal,
	filter domain.TradeFilter, page domain.Page,
) ([]*domain.Trade, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrAdminRequired
	}
	return s.repoManager.TradeRepository().GetAllTrades(ctx, filter, page)
}

func (s *Service) GetPlatformStats(
	ctx context.Context, actor domain.Principal,
) (*domain.TradeStats, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrAdminRequired
	}
	return s.repoManager.TradeRepository().GetTradeStats(ctx)
}

func (s *Service) update(
	ctx context.Context, tradeID string, cond domain.TradeCondition,
	fn func(t *domain.Trade) error,
) (*domain.Trade, error) {
	return s.repoManager.TradeRepository().UpdateTrade(
		ctx, tradeID, cond,
		func(t *domain.Trade) (*domain.Trade, error) {
			if err := fn(t); err != nil {
				return nil, err
			}
			return t, nil
		},
	)
}
