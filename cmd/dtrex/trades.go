package main

import (
	"errors"

	"github.com/urfave/cli/v2"
)

var tradeIDFlag = &cli.StringFlag{
	Name:     "trade_id",
	Usage:    "the id of the target trade",
	Required: true,
}

var (
	trades = cli.Command{
		Name:  "trades",
		Usage: "list, cancel or delete trades",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "status",
				Usage: "only list trades with the given status",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "max number of trades returned",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "number of trades skipped",
			},
		},
		Action: listTradesAction,
		Subcommands: []*cli.Command{
			{
				Name:   "cancel",
				Usage:  "cancel a trade that is not completed yet",
				Flags:  []cli.Flag{tradeIDFlag},
				Action: cancelTradeAction,
			},
			{
				Name:   "delete",
				Usage:  "delete a trade with all its transactions",
				Flags:  []cli.Flag{tradeIDFlag},
				Action: deleteTradeAction,
			},
		},
	}

	platformstats = cli.Command{
		Name:   "stats",
		Usage:  "get the platform trade statistics",
		Action: platformStatsAction,
	}
)

func listTradesAction(ctx *cli.Context) error {
	if ctx.Int("limit") < 0 || ctx.Int("offset") < 0 {
		return errors.New("limit and offset must not be negative")
	}
	return callAndPrint("admin_list_trades", map[string]interface{}{
		"status": ctx.String("status"),
		"limit":  ctx.Int("limit"),
		"offset": ctx.Int("offset"),
	})
}

func cancelTradeAction(ctx *cli.Context) error {
	return callAndPrint("admin_cancel_trade", map[string]interface{}{
		"trade_id": ctx.String("trade_id"),
	})
}

func deleteTradeAction(ctx *cli.Context) error {
	return callAndPrint("admin_delete_trade", map[string]interface{}{
		"trade_id": ctx.String("trade_id"),
	})
}

func platformStatsAction(ctx *cli.Context) error {
	return callAndPrint("admin_get_platform_stats", nil)
}
