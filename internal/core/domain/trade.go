package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeStatus represents the different statuses that a trade can assume.
type TradeStatus string

const (
	TradeStatusProposal  TradeStatus = "proposal"
	TradeStatusMatched   TradeStatus = "matched"
	TradeStatusCommitted TradeStatus = "committed"
	TradeStatusEscrow    TradeStatus = "escrow"
	TradeStatusCompleted TradeStatus = "completed"
	TradeStatusCancelled TradeStatus = "cancelled"
)

var (
	// ActiveTradeStatuses are all the non terminal statuses.
	ActiveTradeStatuses = []TradeStatus{
		TradeStatusProposal, TradeStatusMatched,
		TradeStatusCommitted, TradeStatusEscrow,
	}

	tradeStatuses = map[TradeStatus]struct{}{
		TradeStatusProposal:  {},
		TradeStatusMatched:   {},
		TradeStatusCommitted: {},
		TradeStatusEscrow:    {},
		TradeStatusCompleted: {},
		TradeStatusCancelled: {},
	}
)

func (s TradeStatus) String() string {
	return string(s)
}

func (s TradeStatus) IsValid() bool {
	_, ok := tradeStatuses[s]
	return ok
}

// IsTerminal returns whether no further transition is possible.
func (s TradeStatus) IsTerminal() bool {
	return s == TradeStatusCompleted || s == TradeStatusCancelled
}

// In returns whether s is one of the given statuses.
func (s TradeStatus) In(statuses ...TradeStatus) bool {
	for _, st := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

// TradeType is derived from the kind of offer made by the acceptor.
type TradeType string

const (
	TradeTypeItemForItem TradeType = "item_for_item"
	TradeTypeItemForXCH  TradeType = "item_for_xch"
	TradeTypeMixed       TradeType = "mixed"
)

// Offer and wishlist kinds.
const (
	OfferKindItem  = "item"
	OfferKindXCH   = "xch"
	OfferKindMixed = "mixed"
)

// TradeTypeForOffer maps an offer kind to the resulting trade type. Unknown
// kinds are treated as item offers.
func TradeTypeForOffer(kind string) TradeType {
	switch kind {
	case OfferKindXCH:
		return TradeTypeItemForXCH
	case OfferKindMixed:
		return TradeTypeMixed
	default:
		return TradeTypeItemForItem
	}
}

// Participant roles.
const (
	RoleProposer = "proposer"
	RoleAcceptor = "acceptor"
)

// CommitStatusPending is reported for a side that has not started paying its
// commitment fee.
const CommitStatusPending = "pending"

// Item is the good offered by a party.
type Item struct {
	Title       string
	Description string
	Condition   string
	ValueUSD    decimal.Decimal
	Category    string
}

func (i Item) validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrTradeMissingTitle
	}
	if strings.TrimSpace(i.Description) == "" {
		return ErrTradeMissingDescription
	}
	if i.ValueUSD.IsNegative() {
		return ErrTradeInvalidValue
	}
	return nil
}

// WishlistItem describes what the proposer would like to receive.
type WishlistItem struct {
	Type            string
	ItemDescription string
	ItemMinValueUSD decimal.NullDecimal
	XCHAmount       uint64
}

func (w WishlistItem) validate() error {
	switch w.Type {
	case OfferKindItem, OfferKindXCH, OfferKindMixed:
	default:
		return ErrInvalidWishlistType
	}
	if w.ItemMinValueUSD.Valid && w.ItemMinValueUSD.Decimal.IsNegative() {
		return ErrTradeInvalidValue
	}
	return nil
}

// Offer is what the acceptor puts on the table when accepting a proposal.
type Offer struct {
	Kind        string
	Title       string
	Description string
	Condition   string
	ValueUSD    decimal.NullDecimal
	XCHAmount   uint64
}

// Shipment holds the shipping markers of one side of the trade.
type Shipment struct {
	TrackingNumber string
	Carrier        string
	ShippedAt      time.Time
	ReceivedAt     time.Time
}

// Escrow markers are reserved for the on-chain spend path.
type Escrow struct {
	CoinID     string
	PuzzleHash string
	StartDate  time.Time
	EndDate    time.Time
}

// Trade is the data structure representing a trade entity.
type Trade struct {
	ID         string
	ProposerID int64
	AcceptorID int64
	Status     TradeStatus
	TradeType  TradeType

	ProposerItem Item
	Wishlist     []WishlistItem

	AcceptorItem      Item
	AcceptorValueUSD  decimal.NullDecimal
	AcceptorXCHOffer  uint64
	AcceptorOfferKind string

	ProposerCommitStatus string
	AcceptorCommitStatus string
	CommitmentMemo       string
	CommittedAt          time.Time

	Escrow Escrow

	ProposerShipment Shipment
	AcceptorShipment Shipment

	CompletedAt         time.Time
	FinalBlockchainHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTrade returns a trade proposal with a new id.
func NewTrade(
	proposerID int64, item Item, wishlist []WishlistItem,
) (*Trade, error) {
	if proposerID <= 0 {
		return nil, ErrTradeInvalidProposer
	}
	if err := item.validate(); err != nil {
		return nil, err
	}
	for _, w := range wishlist {
		if err := w.validate(); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	return &Trade{
		ID:           uuid.New().String(),
		ProposerID:   proposerID,
		Status:       TradeStatusProposal,
		TradeType:    TradeTypeItemForItem,
		ProposerItem: item,
		Wishlist:     wishlist,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsParticipant returns whether the given user is the proposer or the
// acceptor of the trade.
func (t *Trade) IsParticipant(userID int64) bool {
	if userID <= 0 {
		return false
	}
	return t.ProposerID == userID || t.AcceptorID == userID
}

// Role returns the role of the given user in the trade.
func (t *Trade) Role(userID int64) (string, error) {
	switch {
	case userID <= 0:
		return "", ErrNotParticipant
	case t.ProposerID == userID:
		return RoleProposer, nil
	case t.AcceptorID == userID:
		return RoleAcceptor, nil
	default:
		return "", ErrNotParticipant
	}
}

// Counterparty returns the id of the other party of the trade.
func (t *Trade) Counterparty(userID int64) (int64, error) {
	role, err := t.Role(userID)
	if err != nil {
		return 0, err
	}
	if role == RoleAcceptor {
		return t.ProposerID, nil
	}
	if t.AcceptorID == 0 {
		return 0, ErrReviewMissingReviewee
	}
	return t.AcceptorID, nil
}

// IsAccepted returns whether an acceptor has been assigned.
func (t *Trade) IsAccepted() bool {
	return t.AcceptorID != 0
}

// Accept brings a trade from the Proposal to the Matched status. The acceptor
// is set exactly once and the trade type is derived from the offer kind.
func (t *Trade) Accept(acceptorID int64, offer Offer) error {
	if t.Status != TradeStatusProposal {
		return ErrTradeMustBeProposal
	}
	if t.IsAccepted() {
		return ErrTradeAlreadyAccepted
	}
	if acceptorID <= 0 {
		return ErrNotParticipant
	}
	if acceptorID == t.ProposerID {
		return ErrTradeSelfAccept
	}
	if offer.ValueUSD.Valid && offer.ValueUSD.Decimal.IsNegative() {
		return ErrTradeInvalidValue
	}

	t.AcceptorID = acceptorID
	t.AcceptorItem = Item{
		Title:       offer.Title,
		Description: offer.Description,
		Condition:   offer.Condition,
	}
	if offer.ValueUSD.Valid {
		t.AcceptorItem.ValueUSD = offer.ValueUSD.Decimal
	}
	t.AcceptorValueUSD = offer.ValueUSD
	t.AcceptorXCHOffer = offer.XCHAmount
	t.AcceptorOfferKind = offer.Kind
	t.TradeType = TradeTypeForOffer(offer.Kind)
	t.Status = TradeStatusMatched
	t.touch()
	return nil
}

// Commit brings a Matched or Committed trade to the Committed status.
func (t *Trade) Commit(userID int64) error {
	if !t.IsParticipant(userID) {
		return ErrNotParticipant
	}
	if !t.Status.In(TradeStatusMatched, TradeStatusCommitted) {
		return ErrTradeNotCommittable
	}

	now := time.Now().UTC()
	if t.CommittedAt.IsZero() {
		t.CommittedAt = now
	}
	if t.CommitmentMemo == "" {
		t.CommitmentMemo = CommitmentMemo(t.ID, userID)
	}
	t.Status = TradeStatusCommitted
	t.UpdatedAt = now
	return nil
}

// AddTracking sets the shipping markers for the side of the given user.
func (t *Trade) AddTracking(userID int64, number, carrier string) error {
	if strings.TrimSpace(number) == "" || strings.TrimSpace(carrier) == "" {
		return ErrTradeMissingTracking
	}
	if t.Status.IsTerminal() {
		return ErrTradeTerminated
	}
	role, err := t.Role(userID)
	if err != nil {
		return err
	}

	shipment := Shipment{
		TrackingNumber: number,
		Carrier:        carrier,
		ShippedAt:      time.Now().UTC(),
	}
	if role == RoleProposer {
		shipment.ReceivedAt = t.ProposerShipment.ReceivedAt
		t.ProposerShipment = shipment
	} else {
		shipment.ReceivedAt = t.AcceptorShipment.ReceivedAt
		t.AcceptorShipment = shipment
	}
	t.touch()
	return nil
}

// Complete brings any non terminal trade to the Completed status.
func (t *Trade) Complete(userID int64) error {
	if !t.IsParticipant(userID) {
		return ErrNotParticipant
	}
	if t.Status.IsTerminal() {
		return ErrTradeTerminated
	}

	t.Status = TradeStatusCompleted
	t.CompletedAt = time.Now().UTC()
	t.UpdatedAt = t.CompletedAt
	return nil
}

// Cancel brings the trade to the Cancelled status if its current status is
// one of the allowed ones.
func (t *Trade) Cancel(allowed ...TradeStatus) error {
	if !t.Status.In(allowed...) {
		return ErrTradeInvalidStatus
	}
	t.Status = TradeStatusCancelled
	t.touch()
	return nil
}

// StartEscrow brings a Committed trade to the Escrow status.
func (t *Trade) StartEscrow() error {
	if t.Status != TradeStatusCommitted {
		return ErrTradeInvalidStatus
	}
	t.Status = TradeStatusEscrow
	t.Escrow.StartDate = time.Now().UTC()
	t.UpdatedAt = t.Escrow.StartDate
	return nil
}

// SetCommitStatus records the status of the commitment fee paid by the given
// user.
func (t *Trade) SetCommitStatus(userID int64, status string) error {
	role, err := t.Role(userID)
	if err != nil {
		return err
	}
	if role == RoleProposer {
		t.ProposerCommitStatus = status
	} else {
		t.AcceptorCommitStatus = status
	}
	t.touch()
	return nil
}

// CommitStatuses returns the commitment status of the given user and of the
// other party, defaulting to "pending".
func (t *Trade) CommitStatuses(userID int64) (string, string, error) {
	role, err := t.Role(userID)
	if err != nil {
		return "", "", err
	}
	proposer := orPending(t.ProposerCommitStatus)
	acceptor := orPending(t.AcceptorCommitStatus)
	if role == RoleProposer {
		return proposer, acceptor, nil
	}
	return acceptor, proposer, nil
}

// BothSidesCommitted returns whether both commitment fees are confirmed.
func (t *Trade) BothSidesCommitted() bool {
	return t.ProposerCommitStatus == string(TxStatusConfirmed) &&
		t.AcceptorCommitStatus == string(TxStatusConfirmed)
}

func (t *Trade) touch() {
	t.UpdatedAt = time.Now().UTC()
}

// CommitmentMemo is the reference the payer's wallet attaches to the
// commitment fee payment.
func CommitmentMemo(tradeID string, userID int64) string {
	return fmt.Sprintf("DTREX-COMMIT-%s-%d", tradeID, userID)
}

func orPending(status string) string {
	if status == "" {
		return CommitStatusPending
	}
	return status
}

// TradeCondition is the predicate a conditional trade operation is scoped by.
// Zero fields are not checked.
type TradeCondition struct {
	// ParticipantID must be either the proposer or the acceptor.
	ParticipantID int64
	// ProposerID must be the proposer.
	ProposerID int64
	// Statuses lists the allowed current statuses.
	Statuses []TradeStatus
}

// Matches returns whether the trade satisfies the condition.
func (c TradeCondition) Matches(t *Trade) bool {
	if c.ParticipantID != 0 && !t.IsParticipant(c.ParticipantID) {
		return false
	}
	if c.ProposerID != 0 && t.ProposerID != c.ProposerID {
		return false
	}
	if len(c.Statuses) > 0 && !t.Status.In(c.Statuses...) {
		return false
	}
	return true
}

// StatusStrings returns the allowed statuses as plain strings.
func (c TradeCondition) StatusStrings() []string {
	statuses := make([]string, 0, len(c.Statuses))
	for _, s := range c.Statuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}

// TradeFilter narrows trade listings.
type TradeFilter struct {
	Statuses []TradeStatus
}

// TradeStats counts trades by status group.
type TradeStats struct {
	TotalTrades     int64
	ActiveTrades    int64
	CompletedTrades int64
}
