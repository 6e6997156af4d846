package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TxType is the purpose of a ledger entry.
type TxType string

const (
	TxTypeCommitmentFee TxType = "commitment_fee"
	TxTypeEscrowDeposit TxType = "escrow_deposit"
	TxTypeEscrowRelease TxType = "escrow_release"
	TxTypeRefund        TxType = "refund"
)

func (t TxType) String() string {
	return string(t)
}

func (t TxType) IsValid() bool {
	switch t {
	case TxTypeCommitmentFee, TxTypeEscrowDeposit,
		TxTypeEscrowRelease, TxTypeRefund:
		return true
	default:
		return false
	}
}

// TxStatus is the lifecycle status of a ledger entry.
type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusMempool   TxStatus = "mempool"
	TxStatusConfirmed TxStatus = "confirmed"
	TxStatusFailed    TxStatus = "failed"
	TxStatusRefunded  TxStatus = "refunded"
)

// ActiveTxStatuses are the statuses from which an entry can still progress.
var ActiveTxStatuses = []TxStatus{TxStatusPending, TxStatusMempool}

func (s TxStatus) String() string {
	return string(s)
}

// IsActive returns whether the entry is pending or in mempool.
func (s TxStatus) IsActive() bool {
	return s == TxStatusPending || s == TxStatusMempool
}

func (s TxStatus) In(statuses ...TxStatus) bool {
	for _, st := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

// TradeTransaction is a ledger entry tracking one on-chain payment related
// to a trade.
type TradeTransaction struct {
	ID            string
	TradeID       string
	UserID        int64
	TxType        TxType
	TxID          string
	CoinID        string
	PuzzleHash    string
	FromAddress   string
	ToAddress     string
	AmountMojos   uint64
	Status        TxStatus
	Confirmations int64
	ErrorMessage  string
	RetryCount    int
	CreatedAt     time.Time
	MempoolAt     time.Time
	ConfirmedAt   time.Time
}

// NewTradeTransaction returns a Pending ledger entry. If a tx id is already
// known it is recorded, but the entry stays Pending until submitted.
func NewTradeTransaction(
	tradeID string, userID int64, txType TxType,
	txID, from, to string, amount uint64,
) (*TradeTransaction, error) {
	if strings.TrimSpace(tradeID) == "" {
		return nil, ErrTransactionMissingTrade
	}
	if userID <= 0 {
		return nil, ErrNotParticipant
	}
	if !txType.IsValid() {
		return nil, ErrTransactionInvalidType
	}
	if amount == 0 {
		return nil, ErrTransactionInvalidAmount
	}

	return &TradeTransaction{
		ID:          uuid.New().String(),
		TradeID:     tradeID,
		UserID:      userID,
		TxType:      txType,
		TxID:        txID,
		FromAddress: from,
		ToAddress:   to,
		AmountMojos: amount,
		Status:      TxStatusPending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// IsCommitmentFee returns whether the entry pays a commitment fee.
func (t *TradeTransaction) IsCommitmentFee() bool {
	return t.TxType == TxTypeCommitmentFee
}

// Submit records the broadcast chain tx id and brings a Pending entry to the
// Mempool status.
func (t *TradeTransaction) Submit(txID string) error {
	if strings.TrimSpace(txID) == "" {
		return ErrTransactionMissingTxID
	}
	if t.Status != TxStatusPending {
		return ErrTransactionInvalidStatus
	}
	t.TxID = txID
	t.Status = TxStatusMempool
	t.MempoolAt = time.Now().UTC()
	return nil
}

// Confirm brings a Pending or Mempool entry to the Confirmed status.
func (t *TradeTransaction) Confirm(coinID string, confirmations int64) error {
	if !t.Status.IsActive() {
		return ErrTransactionInvalidStatus
	}
	if coinID != "" {
		t.CoinID = coinID
	}
	t.Confirmations = confirmations
	t.Status = TxStatusConfirmed
	t.ConfirmedAt = time.Now().UTC()
	return nil
}

// Fail brings a Pending or Mempool entry to the Failed status.
func (t *TradeTransaction) Fail(reason string) error {
	if !t.Status.IsActive() {
		return ErrTransactionInvalidStatus
	}
	t.Status = TxStatusFailed
	t.ErrorMessage = reason
	t.RetryCount++
	return nil
}

// TransactionCondition is the predicate a conditional ledger operation is
// scoped by. Zero fields are not checked, but at least one of ID and TxID must
// be set.
type TransactionCondition struct {
	ID       string
	TxID     string
	UserID   int64
	Statuses []TxStatus
}

func (c TransactionCondition) Matches(tx *TradeTransaction) bool {
	if c.ID != "" && tx.ID != c.ID {
		return false
	}
	if c.TxID != "" && tx.TxID != c.TxID {
		return false
	}
	if c.UserID != 0 && tx.UserID != c.UserID {
		return false
	}
	if len(c.Statuses) > 0 && !tx.Status.In(c.Statuses...) {
		return false
	}
	return c.ID != "" || c.TxID != ""
}

func (c TransactionCondition) StatusStrings() []string {
	statuses := make([]string, 0, len(c.Statuses))
	for _, s := range c.Statuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}
