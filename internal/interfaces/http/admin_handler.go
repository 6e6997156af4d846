package httpinterface

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/pubsub"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/trade"
	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
)

type adminHandler struct {
	tradeSvc  *trade.Service
	pubsubSvc *pubsub.Service
}

func newAdminHandler(
	tradeSvc *trade.Service, pubsubSvc *pubsub.Service,
) *adminHandler {
	return &adminHandler{tradeSvc, pubsubSvc}
}

func (h *adminHandler) methods() map[string]method {
	return map[string]method{
		"admin_cancel_trade":       {accessAdmin, h.cancelTrade},
		"admin_delete_trade":       {accessAdmin, h.deleteTrade},
		"admin_list_trades":        {accessAdmin, h.listTrades},
		"admin_get_platform_stats": {accessAdmin, h.platformStats},
		"admin_add_webhook":        {accessAdmin, h.addWebhook},
		"admin_remove_webhook":     {accessAdmin, h.removeWebhook},
		"admin_list_webhooks":      {accessAdmin, h.listWebhooks},
	}
}

type listTradesParams struct {
	Status string `json:"status"`
	pageParams
}

func (p listTradesParams) validate() error {
	if p.Status != "" && !domain.TradeStatus(p.Status).IsValid() {
		return invalidParams("unknown trade status %s", p.Status)
	}
	return nil
}

func (p listTradesParams) filter() domain.TradeFilter {
	if p.Status == "" {
		return domain.TradeFilter{}
	}
	return domain.TradeFilter{
		Statuses: []domain.TradeStatus{domain.TradeStatus(p.Status)},
	}
}

type addWebhookParams struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type webhookIDParams struct {
	ID string `json:"id"`
}

func (p webhookIDParams) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return invalidParams("missing id")
	}
	return nil
}

type listWebhooksParams struct {
	Event string `json:"event"`
}

func (h *adminHandler) cancelTrade(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p tradeIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if _, err := h.tradeSvc.AdminCancelTrade(ctx, actor, p.TradeID); err != nil {
		return nil, err
	}
	return success("Trade cancelled by admin"), nil
}

func (h *adminHandler) deleteTrade(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p tradeIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if err := h.tradeSvc.AdminDeleteTrade(ctx, actor, p.TradeID); err != nil {
		return nil, err
	}
	return success("Trade deleted by admin"), nil
}

func (h *adminHandler) listTrades(
	ctx context.Context, actor domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p listTradesParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	trades, err := h.tradeSvc.AdminListTrades(ctx, actor, p.filter(), p.page())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"trades": newTradeViews(trades)}, nil
}

func (h *adminHandler) platformStats(
	ctx context.Context, actor domain.Principal, _ json.RawMessage,
) (interface{}, error) {
	stats, err := h.tradeSvc.GetPlatformStats(ctx, actor)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total_trades":     stats.TotalTrades,
		"active_trades":    stats.ActiveTrades,
		"completed_trades": stats.CompletedTrades,
	}, nil
}

func (h *adminHandler) addWebhook(
	ctx context.Context, _ domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p addWebhookParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	id, err := h.pubsubSvc.AddWebhook(ctx, p.Event, p.Endpoint, p.Secret)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"id": id}, nil
}

func (h *adminHandler) removeWebhook(
	ctx context.Context, _ domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p webhookIDParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if err := h.pubsubSvc.RemoveWebhook(ctx, p.ID); err != nil {
		return nil, err
	}
	return success(""), nil
}

func (h *adminHandler) listWebhooks(
	ctx context.Context, _ domain.Principal, raw json.RawMessage,
) (interface{}, error) {
	var p listWebhooksParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	hooks, err := h.pubsubSvc.ListWebhooks(ctx, p.Event)
	if err != nil {
		return nil, err
	}
	if hooks == nil {
		hooks = []pubsub.Webhook{}
	}
	return map[string]interface{}{"webhooks": hooks}, nil
}
