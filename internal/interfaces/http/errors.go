package httpinterface

import (
	"errors"
	"fmt"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/ledger"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/pubsub"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

const (
	CodeParseError      = -32700
	CodeInvalidRequest  = -32600
	CodeMethodNotFound  = -32601
	CodeInvalidParams   = -32602
	CodeBadRequest      = 4000
	CodeUnauthorized    = 4001
	CodeForbidden       = 4003
	CodeNotFound        = 4004
	CodeConflict        = 4009
	CodeInvalidState    = 4022
	CodeRateLimited     = 4029
	CodeInternal        = 5000
	CodeConfigMissing   = 5003
	internalErrorString = "internal error"
)

// Error is the error object of a JSON-RPC response.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func newError(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func invalidParams(format string, args ...interface{}) *Error {
	return newError(CodeInvalidParams, format, args...)
}

var (
	errUnauthorized = newError(CodeUnauthorized, "unauthorized")
	errForbidden    = newError(CodeForbidden, "admin access required")

	invalidParamsErrors = []error{
		domain.ErrTradeMissingTitle,
		domain.ErrTradeMissingDescription,
		domain.ErrTradeInvalidValue,
		domain.ErrTradeInvalidProposer,
		domain.ErrInvalidWishlistType,
		domain.ErrTradeMissingTracking,
		domain.ErrTransactionInvalidType,
		domain.ErrTransactionInvalidAmount,
		domain.ErrTransactionMissingTxID,
		domain.ErrTransactionMissingTrade,
		domain.ErrReviewInvalidScore,
		domain.ErrInvalidXCHAddress,
		pubsub.ErrInvalidWebhookEvent,
		pubsub.ErrInvalidWebhookEndpoint,
	}
	invalidStateErrors = []error{
		domain.ErrTradeMustBeProposal,
		domain.ErrTradeAlreadyAccepted,
		domain.ErrTradeNotCommittable,
		domain.ErrTradeTerminated,
		domain.ErrTradeInvalidStatus,
		domain.ErrTransactionInvalidStatus,
		domain.ErrReviewTradeNotCompleted,
		domain.ErrReviewMissingReviewee,
	}
)

// toRPCError classifies an application error into an RPC error. Unknown
// errors are logged and reported as internal without leaking their message.
func toRPCError(method string, err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	switch {
	case errors.Is(err, domain.ErrTradeNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, pubsub.ErrWebhookNotFound):
		return newError(CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrNotParticipant):
		return newError(CodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrAdminRequired):
		return errForbidden
	case errors.Is(err, domain.ErrActiveTransactionExists),
		errors.Is(err, domain.ErrReviewAlreadyExists):
		return newError(CodeConflict, err.Error())
	case errors.Is(err, domain.ErrTradeSelfAccept):
		return newError(CodeBadRequest, err.Error())
	case errors.Is(err, ledger.ErrExchangeWalletNotConfigured),
		errors.Is(err, pubsub.ErrWebhookManagerNotInitialized):
		return newError(CodeConfigMissing, err.Error())
	}
	for _, e := range invalidParamsErrors {
		if errors.Is(err, e) {
			return newError(CodeInvalidParams, err.Error())
		}
	}
	for _, e := range invalidStateErrors {
		if errors.Is(err, e) {
			return newError(CodeInvalidState, err.Error())
		}
	}

	log.WithError(err).Errorf("rpc: %s failed", method)
	return newError(CodeInternal, internalErrorString)
}
