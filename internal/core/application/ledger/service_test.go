package ledger_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/ledger"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/pubsub"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/trade"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	ctx = context.Background()

	proposer = domain.Principal{UserID: 1, Username: "alice"}
	acceptor = domain.Principal{UserID: 2, Username: "bob"}
	stranger = domain.Principal{UserID: 3, Username: "carol"}
	admin    = domain.Principal{UserID: 99, Username: "admin", IsAdmin: true}

	exchangeAddress = "xch1" + strings.Repeat("q", 58)
	fromAddress     = "xch1" + strings.Repeat("p", 58)
)

type testServices struct {
	trade  *trade.Service
	ledger *ledger.Service
}

func newTestServices(t *testing.T) testServices {
	t.Helper()

	repoManager := inmemory.NewRepoManager()
	pubsubSvc := pubsub.NewService(nil)
	tradeSvc, err := trade.NewService(pubsubSvc, repoManager)
	require.NoError(t, err)
	ledgerSvc, err := ledger.NewService(repoManager, tradeSvc, pubsubSvc)
	require.NoError(t, err)
	return testServices{tradeSvc, ledgerSvc}
}

func (s testServices) newTrade(t *testing.T, accept bool) *domain.Trade {
	t.Helper()

	tr, err := s.trade.CreateTrade(ctx, proposer, domain.Item{
		Title: "Road bike", Description: "Steel frame, 56cm",
	}, nil)
	require.NoError(t, err)
	if !accept {
		return tr
	}

	tr, err = s.trade.AcceptTrade(ctx, acceptor, tr.ID, domain.Offer{
		Kind: domain.OfferKindXCH, XCHAmount: 5000,
	})
	require.NoError(t, err)
	return tr
}

func (s testServices) setWallet(t *testing.T) {
	t.Helper()

	_, err := s.ledger.SetExchangeWallet(
		ctx, admin, exchangeAddress, decimal.NewNullDecimal(decimal.NewFromInt(2)),
	)
	require.NoError(t, err)
}

func (s testServices) getTrade(t *testing.T, tradeID string) *domain.Trade {
	t.Helper()

	tr, err := s.trade.GetTrade(ctx, proposer, tradeID)
	require.NoError(t, err)
	return tr
}

func TestNewService(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	pubsubSvc := pubsub.NewService(nil)
	tradeSvc, err := trade.NewService(pubsubSvc, repoManager)
	require.NoError(t, err)

	_, err = ledger.NewService(nil, tradeSvc, pubsubSvc)
	require.Error(t, err)
	_, err = ledger.NewService(repoManager, nil, pubsubSvc)
	require.Error(t, err)
	_, err = ledger.NewService(repoManager, tradeSvc, nil)
	require.Error(t, err)
}

func TestExchangeWallet(t *testing.T) {
	svc := newTestServices(t)

	wallet, err := svc.ledger.GetExchangeWallet(ctx)
	require.NoError(t, err)
	require.Empty(t, wallet.Address)
	require.True(t, domain.DefaultCommitmentFeeUSD.Equal(wallet.CommitmentFeeUSD))

	_, err = svc.ledger.SetExchangeWallet(
		ctx, proposer, exchangeAddress, decimal.NullDecimal{},
	)
	require.ErrorIs(t, err, domain.ErrAdminRequired)

	_, err = svc.ledger.SetExchangeWallet(
		ctx, admin, "xch1short", decimal.NullDecimal{},
	)
	require.ErrorIs(t, err, domain.ErrInvalidXCHAddress)

	wallet, err = svc.ledger.SetExchangeWallet(
		ctx, admin, exchangeAddress, decimal.NullDecimal{},
	)
	require.NoError(t, err)
	require.True(t, domain.DefaultCommitmentFeeUSD.Equal(wallet.CommitmentFeeUSD))

	svc.setWallet(t)
	wallet, err = svc.ledger.GetExchangeWallet(ctx)
	require.NoError(t, err)
	require.Equal(t, exchangeAddress, wallet.Address)
	require.True(t, decimal.NewFromInt(2).Equal(wallet.CommitmentFeeUSD))
}

func TestGetCommitmentDetails(t *testing.T) {
	svc := newTestServices(t)

	t.Run("non_participant", func(t *testing.T) {
		tr := svc.newTrade(t, true)
		_, err := svc.ledger.GetCommitmentDetails(ctx, stranger, tr.ID)
		require.ErrorIs(t, err, domain.ErrNotParticipant)
	})

	t.Run("unknown_trade", func(t *testing.T) {
		_, err := svc.ledger.GetCommitmentDetails(ctx, proposer, "unknown")
		require.ErrorIs(t, err, domain.ErrTradeNotFound)
	})

	t.Run("not_committable", func(t *testing.T) {
		tr := svc.newTrade(t, false)
		_, err := svc.ledger.GetCommitmentDetails(ctx, proposer, tr.ID)
		require.ErrorIs(t, err, domain.ErrTradeNotCommittable)
	})

	t.Run("wallet_not_configured", func(t *testing.T) {
		tr := svc.newTrade(t, true)
		_, err := svc.ledger.GetCommitmentDetails(ctx, proposer, tr.ID)
		require.ErrorIs(t, err, ledger.ErrExchangeWalletNotConfigured)
	})

	t.Run("valid", func(t *testing.T) {
		svc.setWallet(t)
		tr := svc.newTrade(t, true)

		details, err := svc.ledger.GetCommitmentDetails(ctx, acceptor, tr.ID)
		require.NoError(t, err)
		require.Equal(t, tr.ID, details.TradeID)
		require.Equal(t, exchangeAddress, details.ExchangeWalletAddress)
		require.True(t, decimal.NewFromInt(2).Equal(details.CommitmentFeeUSD))
		require.Equal(t, domain.RoleAcceptor, details.UserRole)
		require.Equal(t, domain.CommitStatusPending, details.UserCommitStatus)
		require.Equal(t, domain.CommitStatusPending, details.OtherCommitStatus)
		require.Equal(t, domain.CommitmentMemo(tr.ID, acceptor.UserID), details.Memo)

		// Pure read.
		require.Equal(t, domain.TradeStatusMatched, svc.getTrade(t, tr.ID).Status)
	})
}

func TestCommitmentFeeLifecycle(t *testing.T) {
	svc := newTestServices(t)
	svc.setWallet(t)
	tr := svc.newTrade(t, true)

	_, err := svc.trade.CommitTrade(ctx, proposer, tr.ID)
	require.NoError(t, err)

	pay := func(actor domain.Principal, txID string) {
		tx, err := svc.ledger.CreateCommitmentTransaction(
			ctx, actor, tr.ID, fromAddress, 1000000000,
		)
		require.NoError(t, err)
		require.Equal(t, domain.TxStatusPending, tx.Status)
		require.Equal(t, exchangeAddress, tx.ToAddress)

		_, err = svc.ledger.CreateCommitmentTransaction(
			ctx, actor, tr.ID, fromAddress, 1000000000,
		)
		require.ErrorIs(t, err, domain.ErrActiveTransactionExists)

		tx, err = svc.ledger.SubmitTxID(ctx, actor, tx.ID, txID)
		require.NoError(t, err)
		require.Equal(t, domain.TxStatusMempool, tx.Status)
		require.Equal(t, txID, tx.TxID)

		tx, err = svc.ledger.ConfirmTransaction(ctx, txID, "coin", 6)
		require.NoError(t, err)
		require.Equal(t, domain.TxStatusConfirmed, tx.Status)
		require.Equal(t, int64(6), tx.Confirmations)

		_, err = svc.ledger.ConfirmTransaction(ctx, txID, "coin", 7)
		require.ErrorIs(t, err, domain.ErrTransactionNotFound)
	}

	pay(proposer, "0xproposer")
	got := svc.getTrade(t, tr.ID)
	require.Equal(t, string(domain.TxStatusConfirmed), got.ProposerCommitStatus)
	require.Equal(t, domain.TradeStatusCommitted, got.Status)

	pay(acceptor, "0xacceptor")
	got = svc.getTrade(t, tr.ID)
	require.Equal(t, string(domain.TxStatusConfirmed), got.AcceptorCommitStatus)
	require.Equal(t, domain.TradeStatusEscrow, got.Status)

	txs, err := svc.ledger.ListTransactionsForTrade(ctx, acceptor, tr.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
}

func TestCreateTransaction(t *testing.T) {
	svc := newTestServices(t)
	tr := svc.newTrade(t, true)

	t.Run("wallet_not_configured", func(t *testing.T) {
		_, err := svc.ledger.CreateCommitmentTransaction(
			ctx, proposer, tr.ID, fromAddress, 1000,
		)
		require.ErrorIs(t, err, ledger.ErrExchangeWalletNotConfigured)
	})

	tests := []struct {
		name        string
		actor       domain.Principal
		args        ledger.CreateTransactionArgs
		expectedErr error
	}{
		{
			name:  "non_participant",
			actor: stranger,
			args: ledger.CreateTransactionArgs{
				TradeID: tr.ID, TxType: domain.TxTypeEscrowDeposit, AmountMojos: 1,
			},
			expectedErr: domain.ErrNotParticipant,
		},
		{
			name:  "unknown_trade",
			actor: proposer,
			args: ledger.CreateTransactionArgs{
				TradeID: "unknown", TxType: domain.TxTypeEscrowDeposit, AmountMojos: 1,
			},
			expectedErr: domain.ErrTradeNotFound,
		},
		{
			name:  "invalid_type",
			actor: proposer,
			args: ledger.CreateTransactionArgs{
				TradeID: tr.ID, TxType: "tip", AmountMojos: 1,
			},
			expectedErr: domain.ErrTransactionInvalidType,
		},
		{
			name:  "zero_amount",
			actor: proposer,
			args: ledger.CreateTransactionArgs{
				TradeID: tr.ID, TxType: domain.TxTypeRefund,
			},
			expectedErr: domain.ErrTransactionInvalidAmount,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tx, err := svc.ledger.CreateTransaction(ctx, tt.actor, tt.args)
			require.ErrorIs(t, err, tt.expectedErr)
			require.Nil(t, tx)
		})
	}

	t.Run("other_types_leave_commit_status", func(t *testing.T) {
		tx, err := svc.ledger.CreateTransaction(ctx, acceptor, ledger.CreateTransactionArgs{
			TradeID:     tr.ID,
			TxType:      domain.TxTypeEscrowDeposit,
			AmountMojos: 5000,
		})
		require.NoError(t, err)
		require.Equal(t, domain.TxStatusPending, tx.Status)

		got := svc.getTrade(t, tr.ID)
		require.Empty(t, got.AcceptorCommitStatus)
	})
}

func TestSubmitTxID(t *testing.T) {
	svc := newTestServices(t)
	svc.setWallet(t)
	tr := svc.newTrade(t, true)

	tx, err := svc.ledger.CreateCommitmentTransaction(
		ctx, proposer, tr.ID, fromAddress, 1000,
	)
	require.NoError(t, err)
	require.Equal(t, domain.CommitStatusPending, svc.getTrade(t, tr.ID).ProposerCommitStatus)

	_, err = svc.ledger.SubmitTxID(ctx, acceptor, tx.ID, "0xabc")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	_, err = svc.ledger.SubmitTxID(ctx, proposer, tx.ID, "")
	require.ErrorIs(t, err, domain.ErrTransactionMissingTxID)

	tx, err = svc.ledger.SubmitTxID(ctx, proposer, tx.ID, "0xabc")
	require.NoError(t, err)
	require.Equal(t, domain.TxStatusMempool, tx.Status)
	require.False(t, tx.MempoolAt.IsZero())
	require.Equal(t, string(domain.TxStatusMempool), svc.getTrade(t, tr.ID).ProposerCommitStatus)

	_, err = svc.ledger.SubmitTxID(ctx, proposer, tx.ID, "0xdef")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	pending, err := svc.ledger.ListPendingVerification(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, tx.ID, pending[0].ID)
}

func TestFailTransaction(t *testing.T) {
	svc := newTestServices(t)
	svc.setWallet(t)
	tr := svc.newTrade(t, true)

	tx, err := svc.ledger.CreateCommitmentTransaction(
		ctx, acceptor, tr.ID, fromAddress, 1000,
	)
	require.NoError(t, err)
	_, err = svc.ledger.SubmitTxID(ctx, acceptor, tx.ID, "0xfail")
	require.NoError(t, err)

	failed, err := svc.ledger.FailTransaction(ctx, "0xfail", "double spend")
	require.NoError(t, err)
	require.Equal(t, domain.TxStatusFailed, failed.Status)
	require.Equal(t, "double spend", failed.ErrorMessage)
	require.Equal(t, 1, failed.RetryCount)
	require.Equal(t, string(domain.TxStatusFailed), svc.getTrade(t, tr.ID).AcceptorCommitStatus)

	_, err = svc.ledger.FailTransaction(ctx, "0xfail", "again")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	// A failed entry frees the slot for a new attempt.
	retry, err := svc.ledger.CreateCommitmentTransaction(
		ctx, acceptor, tr.ID, fromAddress, 1000,
	)
	require.NoError(t, err)

	failed, err = svc.ledger.FailTransactionByID(ctx, retry.ID, "cancelled")
	require.NoError(t, err)
	require.Equal(t, domain.TxStatusFailed, failed.Status)

	_, err = svc.ledger.FailTransactionByID(ctx, retry.ID, "cancelled")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestConcurrentConfirm(t *testing.T) {
	svc := newTestServices(t)
	svc.setWallet(t)
	tr := svc.newTrade(t, true)

	tx, err := svc.ledger.CreateCommitmentTransaction(
		ctx, proposer, tr.ID, fromAddress, 1000,
	)
	require.NoError(t, err)
	_, err = svc.ledger.SubmitTxID(ctx, proposer, tx.ID, "0xrace")
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		lock      sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ledger.ConfirmTransaction(ctx, "0xrace", "", 6); err == nil {
				lock.Lock()
				successes++
				lock.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, successes)
}

func TestStaleTransactions(t *testing.T) {
	svc := newTestServices(t)
	svc.setWallet(t)
	tr := svc.newTrade(t, true)

	broadcast, err := svc.ledger.CreateTransaction(ctx, proposer, ledger.CreateTransactionArgs{
		TradeID:     tr.ID,
		TxType:      domain.TxTypeCommitmentFee,
		TxID:        "0xbroadcast",
		ToAddress:   exchangeAddress,
		AmountMojos: 1000,
	})
	require.NoError(t, err)
	neverBroadcast, err := svc.ledger.CreateCommitmentTransaction(
		ctx, acceptor, tr.ID, fromAddress, 1000,
	)
	require.NoError(t, err)

	count, err := svc.ledger.CleanupStaleTransactions(ctx, time.Hour)
	require.NoError(t, err)
	require.Zero(t, count)

	time.Sleep(10 * time.Millisecond)

	count, err = svc.ledger.CleanupStaleTransactions(ctx, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = svc.ledger.ExpireNeverBroadcast(ctx, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	txs, err := svc.ledger.ListTransactionsForTrade(ctx, admin, tr.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	for _, tx := range txs {
		require.Equal(t, domain.TxStatusFailed, tx.Status)
		switch tx.ID {
		case broadcast.ID:
			require.Equal(t, "Transaction did not appear in mempool within 24 hours", tx.ErrorMessage)
		case neverBroadcast.ID:
			require.Equal(t, "Transaction was never broadcast", tx.ErrorMessage)
		default:
			t.Fatalf("unexpected transaction %s", tx.ID)
		}
	}

	got := svc.getTrade(t, tr.ID)
	require.Equal(t, string(domain.TxStatusFailed), got.ProposerCommitStatus)
	require.Equal(t, string(domain.TxStatusFailed), got.AcceptorCommitStatus)
}

func TestListTransactionsForTrade(t *testing.T) {
	svc := newTestServices(t)
	tr := svc.newTrade(t, true)

	_, err := svc.ledger.ListTransactionsForTrade(ctx, stranger, tr.ID)
	require.ErrorIs(t, err, domain.ErrNotParticipant)

	txs, err := svc.ledger.ListTransactionsForTrade(ctx, admin, tr.ID)
	require.NoError(t, err)
	require.Empty(t, txs)
}
