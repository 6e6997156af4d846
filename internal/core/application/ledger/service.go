package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/pubsub"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/trade"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	// StaleReason is the error message of the entries failed by the stale
	// cleanup, whatever the configured age.
	StaleReason          = "Transaction did not appear in mempool within 24 hours"
	neverBroadcastReason = "Transaction was never broadcast"
)

var (
	// ErrExchangeWalletNotConfigured is returned when commitment details are
	// requested before an admin set the exchange wallet.
	ErrExchangeWalletNotConfigured = errors.New("exchange wallet is not configured")
)

// CommitmentDetails is what a participant needs to pay its commitment fee.
type CommitmentDetails struct {
	TradeID               string
	ExchangeWalletAddress string
	CommitmentFeeUSD      decimal.Decimal
	UserRole              string
	UserCommitStatus      string
	OtherCommitStatus     string
	Memo                  string
}

// CreateTransactionArgs are the args of a new ledger entry.
type CreateTransactionArgs struct {
	TradeID     string
	TxType      domain.TxType
	TxID        string
	FromAddress string
	ToAddress   string
	AmountMojos uint64
}

// Service keeps the ledger of on-chain payments related to trades and the
// exchange wallet configuration they are paid to.
type Service struct {
	repoManager ports.RepoManager
	trade       *trade.Service
	pubsub      *pubsub.Service
}

func NewService(
	repoManager ports.RepoManager, tradeSvc *trade.Service,
	pubsubSvc *pubsub.Service,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if tradeSvc == nil {
		return nil, fmt.Errorf("missing trade service")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	return &Service{repoManager, tradeSvc, pubsubSvc}, nil
}

// GetCommitmentDetails is a pure read.
func (s *Service) GetCommitmentDetails(
	ctx context.Context, actor domain.Principal, tradeID string,
) (*CommitmentDetails, error) {
	t, err := s.participantTrade(ctx, actor, tradeID)
	if err != nil {
		return nil, err
	}
	if !t.Status.In(domain.TradeStatusMatched, domain.TradeStatusCommitted) {
		return nil, domain.ErrTradeNotCommittable
	}

	wallet, err := s.GetExchangeWallet(ctx)
	if err != nil {
		return nil, err
	}
	if wallet.Address == "" {
		return nil, ErrExchangeWalletNotConfigured
	}

	role, _ := t.Role(actor.UserID)
	mine, other, _ := t.CommitStatuses(actor.UserID)
	return &CommitmentDetails{
		TradeID:               t.ID,
		ExchangeWalletAddress: wallet.Address,
		CommitmentFeeUSD:      wallet.CommitmentFeeUSD,
		UserRole:              role,
		UserCommitStatus:      mine,
		OtherCommitStatus:     other,
		Memo:                  domain.CommitmentMemo(t.ID, actor.UserID),
	}, nil
}

// CreateTransaction adds a Pending entry for the actor. At most one Pending
// or Mempool entry exists per trade, user and type.
func (s *Service) CreateTransaction(
	ctx context.Context, actor domain.Principal, args CreateTransactionArgs,
) (*domain.TradeTransaction, error) {
	if _, err := s.participantTrade(ctx, actor, args.TradeID); err != nil {
		return nil, err
	}

	tx, err := domain.NewTradeTransaction(
		args.TradeID, actor.UserID, args.TxType, args.TxID,
		args.FromAddress, args.ToAddress, args.AmountMojos,
	)
	if err != nil {
		return nil, err
	}
	if err := s.repoManager.TransactionRepository().AddTransaction(ctx, tx); err != nil {
		return nil, err
	}

	log.Debugf(
		"%s transaction %s created for trade %s by user %d",
		tx.TxType, tx.ID, tx.TradeID, tx.UserID,
	)
	s.mirrorCommitStatus(ctx, tx)
	return tx, nil
}

// CreateCommitmentTransaction adds a Pending commitment fee entry paying the
// exchange wallet.
func (s *Service) CreateCommitmentTransaction(
	ctx context.Context, actor domain.Principal,
	tradeID, fromAddress string, amountMojos uint64,
) (*domain.TradeTransaction, error) {
	wallet, err := s.GetExchangeWallet(ctx)
	if err != nil {
		return nil, err
	}
	if wallet.Address == "" {
		return nil, ErrExchangeWalletNotConfigured
	}
	return s.CreateTransaction(ctx, actor, CreateTransactionArgs{
		TradeID:     tradeID,
		TxType:      domain.TxTypeCommitmentFee,
		FromAddress: fromAddress,
		ToAddress:   wallet.Address,
		AmountMojos: amountMojos,
	})
}

// SubmitTxID records the chain tx id of a Pending entry owned by the actor.
func (s *Service) SubmitTxID(
	ctx context.Context, actor domain.Principal, transactionID, txID string,
) (*domain.TradeTransaction, error) {
	if actor.UserID <= 0 {
		return nil, domain.ErrTransactionNotFound
	}
	txs, err := s.repoManager.TransactionRepository().UpdateTransactions(
		ctx,
		domain.TransactionCondition{
			ID:       transactionID,
			UserID:   actor.UserID,
			Statuses: []domain.TxStatus{domain.TxStatusPending},
		},
		func(tx *domain.TradeTransaction) (*domain.TradeTransaction, error) {
			if err := tx.Submit(txID); err != nil {
				return nil, err
			}
			return tx, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return s.afterUpdate(ctx, pubsub.EventTransactionSubmitted, txs), nil
}

// ConfirmTransaction is system only. Confirming an entry that is not Pending
// or Mempool returns ErrTransactionNotFound.
func (s *Service) ConfirmTransaction(
	ctx context.Context, txID, coinID string, confirmations int64,
) (*domain.TradeTransaction, error) {
	txs, err := s.repoManager.TransactionRepository().UpdateTransactions(
		ctx,
		domain.TransactionCondition{TxID: txID, Statuses: domain.ActiveTxStatuses},
		func(tx *domain.TradeTransaction) (*domain.TradeTransaction, error) {
			if err := tx.Confirm(coinID, confirmations); err != nil {
				return nil, err
			}
			return tx, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return s.afterUpdate(ctx, pubsub.EventTransactionConfirmed, txs), nil
}

// FailTransaction is system only.
func (s *Service) FailTransaction(
	ctx context.Context, txID, reason string,
) (*domain.TradeTransaction, error) {
	return s.fail(
		ctx,
		domain.TransactionCondition{TxID: txID, Statuses: domain.ActiveTxStatuses},
		reason,
	)
}

// FailTransactionByID is like FailTransaction but addresses the entry by its
// ledger id.
func (s *Service) FailTransactionByID(
	ctx context.Context, transactionID, reason string,
) (*domain.TradeTransaction, error) {
	return s.fail(
		ctx,
		domain.TransactionCondition{
			ID: transactionID, Statuses: domain.ActiveTxStatuses,
		},
		reason,
	)
}

// ListTransactionsForTrade returns the entries of a trade to its
// participants and to admins.
func (s *Service) ListTransactionsForTrade(
	ctx context.Context, actor domain.Principal, tradeID string,
) ([]*domain.TradeTransaction, error) {
	if !actor.IsAdmin {
		if _, err := s.participantTrade(ctx, actor, tradeID); err != nil {
			return nil, err
		}
	}
	return s.repoManager.TransactionRepository().GetTransactionsForTrade(ctx, tradeID)
}

// ListPendingVerification returns the Mempool entries, oldest first.
func (s *Service) ListPendingVerification(
	ctx context.Context,
) ([]*domain.TradeTransaction, error) {
	return s.repoManager.TransactionRepository().GetTransactionsWithStatus(
		ctx, domain.TxStatusMempool,
	)
}

// CleanupStaleTransactions fails the Pending entries with a chain tx id
// created more than maxAge ago with StaleReason. It returns the number of
// failed entries.
func (s *Service) CleanupStaleTransactions(
	ctx context.Context, maxAge time.Duration,
) (int, error) {
	return s.failStale(ctx, maxAge, true, StaleReason)
}

// ExpireNeverBroadcast fails the Pending entries without a chain tx id
// created more than maxAge ago.
func (s *Service) ExpireNeverBroadcast(
	ctx context.Context, maxAge time.Duration,
) (int, error) {
	return s.failStale(ctx, maxAge, false, neverBroadcastReason)
}

func (s *Service) SetExchangeWallet(
	ctx context.Context, actor domain.Principal,
	address string, feeUSD decimal.NullDecimal,
) (*domain.ExchangeWallet, error) {
	if !actor.IsAdmin {
		return nil, domain.ErrAdminRequired
	}
	wallet, err := domain.NewExchangeWallet(address, feeUSD)
	if err != nil {
		return nil, err
	}
	if err := s.repoManager.ConfigRepository().UpsertConfigValues(
		ctx, wallet.Entries()...,
	); err != nil {
		return nil, err
	}
	log.Infof("exchange wallet set to %s by %s", address, actor.Username)
	return wallet, nil
}

// GetExchangeWallet returns the configured wallet. The address is empty if
// never set and the fee falls back to the default.
func (s *Service) GetExchangeWallet(
	ctx context.Context,
) (*domain.ExchangeWallet, error) {
	repo := s.repoManager.ConfigRepository()
	address, err := repo.GetConfigValue(ctx, domain.ConfigKeyExchangeWallet)
	if err != nil && !errors.Is(err, domain.ErrConfigNotFound) {
		return nil, err
	}

	fee := domain.DefaultCommitmentFeeUSD
	feeStr, err := repo.GetConfigValue(ctx, domain.ConfigKeyCommitmentFeeUSD)
	if err != nil && !errors.Is(err, domain.ErrConfigNotFound) {
		return nil, err
	}
	if feeStr != "" {
		if v, err := decimal.NewFromString(feeStr); err == nil {
			fee = v
		} else {
			log.WithError(err).Warn("invalid commitment fee in config, using default")
		}
	}
	return &domain.ExchangeWallet{Address: address, CommitmentFeeUSD: fee}, nil
}

func (s *Service) participantTrade(
	ctx context.Context, actor domain.Principal, tradeID string,
) (*domain.Trade, error) {
	t, err := s.repoManager.TradeRepository().GetTrade(
		ctx, tradeID, domain.TradeCondition{},
	)
	if err != nil {
		return nil, err
	}
	if !t.IsParticipant(actor.UserID) {
		return nil, domain.ErrNotParticipant
	}
	return t, nil
}

func (s *Service) fail(
	ctx context.Context, cond domain.TransactionCondition, reason string,
) (*domain.TradeTransaction, error) {
	txs, err := s.repoManager.TransactionRepository().UpdateTransactions(
		ctx, cond,
		func(tx *domain.TradeTransaction) (*domain.TradeTransaction, error) {
			if err := tx.Fail(reason); err != nil {
				return nil, err
			}
			return tx, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return s.afterUpdate(ctx, pubsub.EventTransactionFailed, txs), nil
}

func (s *Service) failStale(
	ctx context.Context, maxAge time.Duration, broadcast bool, reason string,
) (int, error) {
	before := time.Now().UTC().Add(-maxAge)
	stale, err := s.repoManager.TransactionRepository().GetStalePendingTransactions(
		ctx, before, broadcast,
	)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, tx := range stale {
		_, err := s.fail(
			ctx,
			domain.TransactionCondition{
				ID: tx.ID, Statuses: []domain.TxStatus{domain.TxStatusPending},
			},
			reason,
		)
		if err != nil {
			// A concurrent submit may have moved the entry out of Pending.
			log.WithError(err).Warnf("failed to expire transaction %s", tx.ID)
			continue
		}
		log.Warnf("marked stale transaction %s as failed", tx.ID)
		count++
	}
	return count, nil
}

// afterUpdate mirrors and publishes the updated entries and returns the
// first one. Conditions addressed by id or tx id match one active entry.
func (s *Service) afterUpdate(
	ctx context.Context, event string, txs []*domain.TradeTransaction,
) *domain.TradeTransaction {
	for _, tx := range txs {
		s.mirrorCommitStatus(ctx, tx)
		s.pubsub.PublishTransactionEvent(event, tx)
	}
	return txs[0]
}

func (s *Service) mirrorCommitStatus(
	ctx context.Context, tx *domain.TradeTransaction,
) {
	if !tx.IsCommitmentFee() {
		return
	}
	if _, err := s.trade.RecordCommitStatus(
		ctx, tx.TradeID, tx.UserID, tx.Status,
	); err != nil {
		log.WithError(err).Warnf(
			"failed to record commit status %s for trade %s", tx.Status, tx.TradeID,
		)
	}
}
