package httpinterface

import (
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/ledger"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/shopspring/decimal"
)

const mojosPerXCH = 1_000_000_000_000

type wishlistItemView struct {
	Type            string              `json:"wishlist_type"`
	ItemDescription string              `json:"item_description,omitempty"`
	ItemMinValueUSD decimal.NullDecimal `json:"item_min_value_usd"`
	XCHAmount       uint64              `json:"xch_amount,omitempty"`
}

type tradeView struct {
	ID         string `json:"id"`
	ProposerID int64  `json:"proposer_id"`
	AcceptorID *int64 `json:"acceptor_id"`
	Status     string `json:"status"`
	TradeType  string `json:"trade_type"`

	ProposerItemTitle       string             `json:"proposer_item_title"`
	ProposerItemDescription string             `json:"proposer_item_description"`
	ProposerItemCondition   string             `json:"proposer_item_condition,omitempty"`
	ProposerItemValueUSD    decimal.Decimal    `json:"proposer_item_value_usd"`
	ProposerItemCategory    string             `json:"proposer_item_category,omitempty"`
	Wishlist                []wishlistItemView `json:"wishlist"`

	AcceptorItemTitle       string              `json:"acceptor_item_title,omitempty"`
	AcceptorItemDescription string              `json:"acceptor_item_description,omitempty"`
	AcceptorItemCondition   string              `json:"acceptor_item_condition,omitempty"`
	AcceptorItemValueUSD    decimal.NullDecimal `json:"acceptor_item_value_usd"`
	AcceptorXCHOffer        uint64              `json:"acceptor_xch_offer,omitempty"`

	ProposerCommitStatus string     `json:"proposer_commit_status,omitempty"`
	AcceptorCommitStatus string     `json:"acceptor_commit_status,omitempty"`
	CommitmentMemo       string     `json:"commitment_memo,omitempty"`
	CommittedAt          *time.Time `json:"committed_at"`

	EscrowCoinID     string     `json:"escrow_coin_id,omitempty"`
	EscrowPuzzleHash string     `json:"escrow_puzzle_hash,omitempty"`
	EscrowStartDate  *time.Time `json:"escrow_start_date"`
	EscrowEndDate    *time.Time `json:"escrow_end_date"`

	ProposerTrackingNumber string     `json:"proposer_tracking_number,omitempty"`
	ProposerCarrier        string     `json:"proposer_tracking_carrier,omitempty"`
	ProposerShippedAt      *time.Time `json:"proposer_shipped_at"`
	ProposerReceivedAt     *time.Time `json:"proposer_received_at"`
	AcceptorTrackingNumber string     `json:"acceptor_tracking_number,omitempty"`
	AcceptorCarrier        string     `json:"acceptor_tracking_carrier,omitempty"`
	AcceptorShippedAt      *time.Time `json:"acceptor_shipped_at"`
	AcceptorReceivedAt     *time.Time `json:"acceptor_received_at"`

	CompletedAt         *time.Time `json:"completed_at"`
	FinalBlockchainHash string     `json:"final_blockchain_hash,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newTradeView(t *domain.Trade) tradeView {
	wishlist := make([]wishlistItemView, 0, len(t.Wishlist))
	for _, w := range t.Wishlist {
		wishlist = append(wishlist, wishlistItemView{
			Type:            w.Type,
			ItemDescription: w.ItemDescription,
			ItemMinValueUSD: w.ItemMinValueUSD,
			XCHAmount:       w.XCHAmount,
		})
	}

	var acceptorID *int64
	if t.IsAccepted() {
		id := t.AcceptorID
		acceptorID = &id
	}

	return tradeView{
		ID:                      t.ID,
		ProposerID:              t.ProposerID,
		AcceptorID:              acceptorID,
		Status:                  t.Status.String(),
		TradeType:               string(t.TradeType),
		ProposerItemTitle:       t.ProposerItem.Title,
		ProposerItemDescription: t.ProposerItem.Description,
		ProposerItemCondition:   t.ProposerItem.Condition,
		ProposerItemValueUSD:    t.ProposerItem.ValueUSD,
		ProposerItemCategory:    t.ProposerItem.Category,
		Wishlist:                wishlist,
		AcceptorItemTitle:       t.AcceptorItem.Title,
		AcceptorItemDescription: t.AcceptorItem.Description,
		AcceptorItemCondition:   t.AcceptorItem.Condition,
		AcceptorItemValueUSD:    t.AcceptorValueUSD,
		AcceptorXCHOffer:        t.AcceptorXCHOffer,
		ProposerCommitStatus:    t.ProposerCommitStatus,
		AcceptorCommitStatus:    t.AcceptorCommitStatus,
		CommitmentMemo:          t.CommitmentMemo,
		CommittedAt:             timePtr(t.CommittedAt),
		EscrowCoinID:            t.Escrow.CoinID,
		EscrowPuzzleHash:        t.Escrow.PuzzleHash,
		EscrowStartDate:         timePtr(t.Escrow.StartDate),
		EscrowEndDate:           timePtr(t.Escrow.EndDate),
		ProposerTrackingNumber:  t.ProposerShipment.TrackingNumber,
		ProposerCarrier:         t.ProposerShipment.Carrier,
		ProposerShippedAt:       timePtr(t.ProposerShipment.ShippedAt),
		ProposerReceivedAt:      timePtr(t.ProposerShipment.ReceivedAt),
		AcceptorTrackingNumber:  t.AcceptorShipment.TrackingNumber,
		AcceptorCarrier:         t.AcceptorShipment.Carrier,
		AcceptorShippedAt:       timePtr(t.AcceptorShipment.ShippedAt),
		AcceptorReceivedAt:      timePtr(t.AcceptorShipment.ReceivedAt),
		CompletedAt:             timePtr(t.CompletedAt),
		FinalBlockchainHash:     t.FinalBlockchainHash,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
	}
}

func newTradeViews(trades []*domain.Trade) []tradeView {
	views := make([]tradeView, 0, len(trades))
	for _, t := range trades {
		views = append(views, newTradeView(t))
	}
	return views
}

type transactionView struct {
	ID            string     `json:"id"`
	TradeID       string     `json:"trade_id"`
	UserID        int64      `json:"user_id"`
	TxType        string     `json:"tx_type"`
	TxID          *string    `json:"tx_id"`
	CoinID        string     `json:"coin_id,omitempty"`
	FromAddress   string     `json:"from_address,omitempty"`
	ToAddress     string     `json:"to_address,omitempty"`
	AmountMojos   uint64     `json:"amount_mojos"`
	Status        string     `json:"status"`
	Confirmations int64      `json:"confirmations"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	MempoolAt     *time.Time `json:"mempool_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at"`
}

func newTransactionViews(txs []*domain.TradeTransaction) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		var txID *string
		if tx.TxID != "" {
			id := tx.TxID
			txID = &id
		}
		views = append(views, transactionView{
			ID:            tx.ID,
			TradeID:       tx.TradeID,
			UserID:        tx.UserID,
			TxType:        tx.TxType.String(),
			TxID:          txID,
			CoinID:        tx.CoinID,
			FromAddress:   tx.FromAddress,
			ToAddress:     tx.ToAddress,
			AmountMojos:   tx.AmountMojos,
			Status:        tx.Status.String(),
			Confirmations: tx.Confirmations,
			ErrorMessage:  tx.ErrorMessage,
			CreatedAt:     tx.CreatedAt,
			MempoolAt:     timePtr(tx.MempoolAt),
			ConfirmedAt:   timePtr(tx.ConfirmedAt),
		})
	}
	return views
}

type reviewView struct {
	ID            string    `json:"id"`
	TradeID       string    `json:"trade_id"`
	ReviewerID    int64     `json:"reviewer_id"`
	RevieweeID    int64     `json:"reviewee_id"`
	Timeliness    int       `json:"timeliness"`
	Packaging     int       `json:"packaging"`
	ValueHonesty  int       `json:"value_honesty"`
	StateAccuracy int       `json:"state_accuracy"`
	OverallScore  float64   `json:"overall_score"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func newReviewViews(reviews []*domain.Review) []reviewView {
	views := make([]reviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, reviewView{
			ID:            r.ID,
			TradeID:       r.TradeID,
			ReviewerID:    r.ReviewerID,
			RevieweeID:    r.RevieweeID,
			Timeliness:    r.Scores.Timeliness,
			Packaging:     r.Scores.Packaging,
			ValueHonesty:  r.Scores.ValueHonesty,
			StateAccuracy: r.Scores.StateAccuracy,
			OverallScore:  r.OverallScore,
			Comment:       r.Comment,
			CreatedAt:     r.CreatedAt,
		})
	}
	return views
}

type reputationView struct {
	UserID          int64   `json:"id"`
	ReputationScore float64 `json:"reputation_score"`
	TotalTrades     int     `json:"total_trades"`
}

func newReputationView(r *domain.Reputation) reputationView {
	return reputationView{
		UserID:          r.UserID,
		ReputationScore: r.Score,
		TotalTrades:     r.TotalTrades,
	}
}

type commitmentDetailsView struct {
	TradeID               string          `json:"trade_id"`
	ExchangeWalletAddress string          `json:"exchange_wallet_address"`
	CommitmentFeeUSD      decimal.Decimal `json:"commitment_fee_usd"`
	UserRole              string          `json:"user_role"`
	UserCommitStatus      string          `json:"user_commit_status"`
	OtherCommitStatus     string          `json:"other_commit_status"`
	Memo                  string          `json:"memo"`
}

func newCommitmentDetailsView(d *ledger.CommitmentDetails) commitmentDetailsView {
	return commitmentDetailsView{
		TradeID:               d.TradeID,
		ExchangeWalletAddress: d.ExchangeWalletAddress,
		CommitmentFeeUSD:      d.CommitmentFeeUSD,
		UserRole:              d.UserRole,
		UserCommitStatus:      d.UserCommitStatus,
		OtherCommitStatus:     d.OtherCommitStatus,
		Memo:                  d.Memo,
	}
}

type successView struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func success(message string) successView {
	return successView{true, message}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func mojosToXCH(mojos uint64) float64 {
	return float64(mojos) / mojosPerXCH
}
