package httpinterface

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/trade"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/shopspring/decimal"
)

type tradeHandler struct {
	tradeSvc *trade.Service
}

func newTradeHandler(tradeSvc *trade.Service) *tradeHandler {
	return &tradeHandler{tradeSvc}
}

func (h *tradeHandler) methods() map[string]method {
	return map[string]method{
		"user_me":              {accessUser, h.me},
		"trade_create":         {accessUser, h.create},
		"trade_accept":         {accessUser, h.accept},
		"trade_get":            {accessUser, h.get},
		"trade_get_public":     {accessPublic, h.getPublic},
		"trade_list_proposals": {accessPublic, h.listProposals},
		"trade_my_trades":      {accessUser, h.myTrades},
		"trade_commit":         {accessUser, h.commit},
		"trade_add_tracking":   {accessUser, h.addTracking},
		"trade_complete":       {accessUser, h.complete},
		"trade_cancel":         {accessUser, h.cancel},
		"trade_delete":         {accessUser, h.delete},
	}
}

type tradeIDParams struct {
	TradeID string `json:"trade_id"`
}

func (p tradeIDParams) validate() error {
	if strings.TrimSpace(p.TradeID) == "" {
		return invalidParams("missing trade_id")
	}
	return nil
}

type pageParams struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (p pageParams) page() domain.Page {
	return domain.NewPage(p.Limit, p.Offset)
}

type wishlistItemParams struct {
	Type            string              `json:"wishlist_type"`
	ItemDescription string              `json:"item_description"`
	ItemMinValueUSD decimal.NullDecimal `json:"item_min_value_usd"`
	XCHAmount       uint64              `json:"xch_amount"`
}

type createTradeParams struct {
	ItemTitle       string               `json:"item_title"`
	ItemDescription string               `json:"item_description"`
	ItemCondition   string               `json:"item_condition"`
	ItemValueUSD    decimal.Decimal      `json:"item_value_usd"`
	ItemCategory    string               `json:"item_category"`
	Wishlist        []wishlistItemParams `json:"wishlist"`
}

type acceptTradeParams struct {
	TradeID         string              `json:"trade_id"`
	OfferType       string              `json:"offer_type"`
	ItemTitle       string              `json:"item_title"`
	ItemDescription string              `json:"item_description"`
	ItemCondition   string              `json:"item_condition"`
	ItemValueUSD    decimal.NullDecimal `json:"item_value_usd"`
	XCHAmount       uint64              `json:"xch_amount"`
}

func (p acceptTradeParams) validate() error {
	if strings.TrimSpace(p.TradeID) == "" {
		return invalidParams("missing trade_id")
	}
	switch p.OfferType {
	case domain.OfferKindItem, domain.OfferKindXCH, domain.OfferKindMixed:
	default:
		return invalidParams("offer_type must be one of item, xch, mixed")
	}
	if p.OfferType != domain.OfferKindItem && p.XCHAmount == 0 {
		return invalidParams("xch_amount must be positive for %s offers", p.OfferType)
	}
	return nil
}

type addTrackingParams struct {
	TradeID        string `json:"trade_id"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
}

func (p addTrackingParams) validate() error {
	if strings.TrimSpace(p.TradeID) == "" {
		return invalidParams("missing trade_id")
	}
	return nil
}

func (h *tradeHandler) me(
	_ context.Context, actor domain.Principal, _ json.RawMessage,
) (interface{}, error) {
	return map[string]interface{}{
		"user": map[string]interface{}{
			"id":       actor.UserID,
			"username": actor.Username,
			"is_admin": actor.IsAdmin,
		},
	}, nil
}

func (h *tradeHandler) create(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p createTradeParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}

	wishlist := make([]domain.WishlistItem, 0, len(p.Wishlist))
	for _, w := range p.Wishlist {
		wishlist = append(wishlist, domain.WishlistItem{
			Type:            w.Type,
			ItemDescription: w.ItemDescription,
			ItemMinValueUSD: w.ItemMinValueUSD,
			XCHAmount:       w.XCHAmount,
		})
	}
	t, err := h.tradeSvc.CreateTrade(ctx, actor, domain.Item{
		Title:       p.ItemTitle,
		Description: p.ItemDescription,
		Condition:   p.ItemCondition,
		ValueUSD:    p.ItemValueUSD,
		Category:    p.ItemCategory,
	}, wishlist)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"trade_id": t.ID}, nil
}

func (h *tradeHandler) accept(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p acceptTradeParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if _, err := h.tradeSvc.AcceptTrade(ctx, actor, p.TradeID, domain.Offer{
		Kind:        p.OfferType,
		Title:       p.ItemTitle,
		Description: p.ItemDescription,
		Condition:   p.ItemCondition,
		ValueUSD:    p.ItemValueUSD,
		XCHAmount:   p.XCHAmount,
	}); err != nil {
		return nil, err
	}
	return success(""), nil
}

func (h *tradeHandler) get(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p tradeIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	t, err := h.tradeSvc.GetTrade(ctx, actor, p.TradeID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"trade": newTradeView(t)}, nil
}

func (h *tradeHandler) getPublic(
	ctx context.Context, _ domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p tradeIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	t, rep, err := h.tradeSvc.GetPublicTrade(ctx, p.TradeID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"trade":    newTradeView(t),
		"proposer": newReputationView(rep),
	}, nil
}

func (h *tradeHandler) listProposals(
	ctx context.Context, _ domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p pageParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	trades, err := h.tradeSvc.ListProposals(ctx, p.page())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"trades": newTradeViews(trades)}, nil
}

func (h *tradeHandler) myTrades(
	ctx context.Context, actor domain.Principal, _ json.RawMessage,
) (interface{}, error) {
	trades, err := h.tradeSvc.ListMyTrades(ctx, actor)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"trades": newTradeViews(trades)}, nil
}

func (h *tradeHandler) commit(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p tradeIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	t, err := h.tradeSvc.CommitTrade(ctx, actor, p.TradeID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"success": true,
		"message": "Trade committed. Pay the commitment fee to proceed.",
		"memo":    domain.CommitmentMemo(t.ID, actor.UserID),
	}, nil
}

func (h *tradeHandler) addTracking(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p addTrackingParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if _, err := h.tradeSvc.AddTracking(
		ctx, actor, p.TradeID, p.TrackingNumber, p.Carrier,
	); err != nil {
		return nil, err
	}
	return success(""), nil
}

func (h *tradeHandler) complete(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p tradeIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if _, err := h.tradeSvc.CompleteTrade(ctx, actor, p.TradeID); err != nil {
		return nil, err
	}
	return success(""), nil
}

func (h *tradeHandler) cancel(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p tradeIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if _, err := h.tradeSvc.CancelTrade(ctx, actor, p.TradeID); err != nil {
		return nil, err
	}
	return success(""), nil
}

func (h *tradeHandler) delete(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p tradeIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if err := h.tradeSvc.DeleteTrade(ctx, actor, p.TradeID); err != nil {
		return nil, err
	}
	return success(""), nil
}
