package domain

import "errors"

var (
	// ErrTradeNotFound is returned when no trade matches an id together with
	// the ownership and status predicate of the operation.
	ErrTradeNotFound = errors.New("trade not found")
	// ErrTradeMustBeProposal ...
	ErrTradeMustBeProposal = errors.New("trade must be in proposal status")
	// ErrTradeAlreadyAccepted is returned when trying to set an acceptor for a
	// trade that already has one.
	ErrTradeAlreadyAccepted = errors.New("trade has already been accepted")
	// ErrTradeSelfAccept is returned when the proposer tries to accept its own
	// trade.
	ErrTradeSelfAccept = errors.New("cannot accept your own trade")
	// ErrTradeNotCommittable ...
	ErrTradeNotCommittable = errors.New("trade must be matched or committed")
	// ErrTradeTerminated is returned for operations on completed or cancelled
	// trades.
	ErrTradeTerminated = errors.New("trade is completed or cancelled")
	// ErrTradeInvalidStatus is returned when a transition is not allowed from
	// the current status of the trade.
	ErrTradeInvalidStatus = errors.New("operation not allowed for current trade status")
	// ErrNotParticipant is returned when the actor is neither the proposer nor
	// the acceptor of a trade.
	ErrNotParticipant = errors.New("not a participant in this trade")
	// ErrAdminRequired is returned when a non admin principal calls an admin
	// only operation.
	ErrAdminRequired = errors.New("admin privileges required")
	// ErrTradeMissingTitle ...
	ErrTradeMissingTitle = errors.New("item title must not be empty")
	// ErrTradeMissingDescription ...
	ErrTradeMissingDescription = errors.New("item description must not be empty")
	// ErrTradeInvalidValue ...
	ErrTradeInvalidValue = errors.New("item value must not be negative")
	// ErrTradeInvalidProposer ...
	ErrTradeInvalidProposer = errors.New("proposer id must be a positive number")
	// ErrInvalidWishlistType ...
	ErrInvalidWishlistType = errors.New("wishlist type must be one of item, xch, mixed")
	// ErrTradeMissingTracking ...
	ErrTradeMissingTracking = errors.New("tracking number and carrier must not be empty")

	// ErrTransactionNotFound is returned when no ledger entry matches the id
	// and status predicate of the operation.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrActiveTransactionExists is returned when a pending or mempool entry
	// already exists for the same trade, user and transaction type.
	ErrActiveTransactionExists = errors.New("a pending transaction of the same type already exists")
	// ErrTransactionInvalidStatus ...
	ErrTransactionInvalidStatus = errors.New("operation not allowed for current transaction status")
	// ErrTransactionInvalidType ...
	ErrTransactionInvalidType = errors.New("unknown transaction type")
	// ErrTransactionInvalidAmount ...
	ErrTransactionInvalidAmount = errors.New("transaction amount must be positive")
	// ErrTransactionMissingTxID ...
	ErrTransactionMissingTxID = errors.New("transaction id must not be empty")
	// ErrTransactionMissingTrade ...
	ErrTransactionMissingTrade = errors.New("transaction must refer to a trade")

	// ErrReviewAlreadyExists is returned when a reviewer has already reviewed
	// a trade.
	ErrReviewAlreadyExists = errors.New("trade has already been reviewed by this user")
	// ErrReviewInvalidScore ...
	ErrReviewInvalidScore = errors.New("review scores must be between 1 and 5")
	// ErrReviewTradeNotCompleted ...
	ErrReviewTradeNotCompleted = errors.New("only completed trades can be reviewed")
	// ErrReviewMissingReviewee ...
	ErrReviewMissingReviewee = errors.New("trade has no counterparty to review")

	// ErrConfigNotFound is returned when a config key has never been set.
	ErrConfigNotFound = errors.New("config value not found")
	// ErrInvalidXCHAddress ...
	ErrInvalidXCHAddress = errors.New("invalid XCH address format")
)
