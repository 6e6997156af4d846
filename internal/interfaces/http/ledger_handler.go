package httpinterface

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/ledger"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	minCommitmentMojos = 1000
	maxCommitmentMojos = 10_000_000_000_000
)

type ledgerHandler struct {
	ledgerSvc *ledger.Service
}

func newLedgerHandler(ledgerSvc *ledger.Service) *ledgerHandler {
	return &ledgerHandler{ledgerSvc}
}

func (h *ledgerHandler) methods() map[string]method {
	return map[string]method{
		"commitment_get_details":       {accessUser, h.getDetails},
		"commitment_create_pending":    {accessUser, h.createPending},
		"commitment_submit_tx":         {accessUser, h.submitTx},
		"commitment_list_transactions": {accessUser, h.listTransactions},
		"config_set_exchange_wallet":   {accessAdmin, h.setExchangeWallet},
		"config_get_exchange_wallet":   {accessUser, h.getExchangeWallet},
	}
}

type createPendingParams struct {
	TradeID     string `json:"trade_id"`
	FromAddress string `json:"from_address"`
	AmountMojos uint64 `json:"amount_mojos"`
}

func (p createPendingParams) validate() error {
	if strings.TrimSpace(p.TradeID) == "" {
		return invalidParams("missing trade_id")
	}
	if p.AmountMojos < minCommitmentMojos {
		return invalidParams("amount too small")
	}
	if p.AmountMojos > maxCommitmentMojos {
		return invalidParams("amount too large")
	}
	return nil
}

type submitTxParams struct {
	TransactionID string `json:"transaction_id"`
	TxID          string `json:"tx_id"`
}

func (p submitTxParams) validate() error {
	if strings.TrimSpace(p.TransactionID) == "" {
		return invalidParams("missing transaction_id")
	}
	if strings.TrimSpace(p.TxID) == "" {
		return invalidParams("missing tx_id")
	}
	return nil
}

type setExchangeWalletParams struct {
	WalletAddress    string              `json:"wallet_address"`
	CommitmentFeeUSD decimal.NullDecimal `json:"commitment_fee_usd"`
}

func (h *ledgerHandler) getDetails(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p tradeIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	details, err := h.ledgerSvc.GetCommitmentDetails(ctx, actor, p.TradeID)
	if err != nil {
		return nil, err
	}
	return newCommitmentDetailsView(details), nil
}

func (h *ledgerHandler) createPending(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p createPendingParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	tx, err := h.ledgerSvc.CreateCommitmentTransaction(
		ctx, actor, p.TradeID, p.FromAddress, p.AmountMojos,
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"transaction_id": tx.ID,
		"to_address":     tx.ToAddress,
		"amount_mojos":   tx.AmountMojos,
		"amount_xch":     mojosToXCH(tx.AmountMojos),
		"memo":           domain.CommitmentMemo(tx.TradeID, actor.UserID),
	}, nil
}

func (h *ledgerHandler) submitTx(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p submitTxParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	tx, err := h.ledgerSvc.SubmitTxID(ctx, actor, p.TransactionID, p.TxID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"success": true,
		"status":  tx.Status.String(),
		"message": "Transaction submitted. Awaiting blockchain confirmation.",
	}, nil
}

func (h *ledgerHandler) listTransactions(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p tradeIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	txs, err := h.ledgerSvc.ListTransactionsForTrade(ctx, actor, p.TradeID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"transactions": newTransactionViews(txs)}, nil
}

func (h *ledgerHandler) setExchangeWallet(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p setExchangeWalletParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if _, err := h.ledgerSvc.SetExchangeWallet(
		ctx, actor, strings.TrimSpace(p.WalletAddress), p.CommitmentFeeUSD,
	); err != nil {
		return nil, err
	}
	return success("Exchange wallet configuration updated"), nil
}

func (h *ledgerHandler) getExchangeWallet(
	ctx context.Context, _ domain.Principal, _ json.RawMessage,
) (interface{}, error) {
	wallet, err := h.ledgerSvc.GetExchangeWallet(ctx)
	if err != nil {
		return nil, err
	}
	var address *string
	if wallet.Address != "" {
		address = &wallet.Address
	}
	return map[string]interface{}{
		"wallet_address":     address,
		"commitment_fee_usd": wallet.CommitmentFeeUSD,
	}, nil
}
