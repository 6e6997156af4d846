package main

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var exchangewallet = cli.Command{
	Name:   "exchangewallet",
	Usage:  "get or update the exchange wallet receiving commitment fees",
	Action: getExchangeWalletAction,
	Subcommands: []*cli.Command{
		{
			Name:  "set",
			Usage: "update the exchange wallet address and the commitment fee",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "address",
					Usage:    "the xch address receiving commitment fees",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "fee",
					Usage: "the commitment fee in USD, the default one if omitted",
				},
			},
			Action: setExchangeWalletAction,
		},
	},
}

func getExchangeWalletAction(ctx *cli.Context) error {
	return callAndPrint("config_get_exchange_wallet", nil)
}

func setExchangeWalletAction(ctx *cli.Context) error {
	params := map[string]interface{}{
		"wallet_address": ctx.String("address"),
	}
	if feeStr := ctx.String("fee"); feeStr != "" {
		fee, err := decimal.NewFromString(feeStr)
		if err != nil {
			return errors.New("fee must be a decimal number")
		}
		if fee.IsNegative() {
			return errors.New("fee must not be negative")
		}
		params["commitment_fee_usd"] = fee
	}
	return callAndPrint("config_set_exchange_wallet", params)
}
