package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

var webhookEvents = []string{
	"TRADE_ACCEPTED", "TRADE_COMPLETED", "TRADE_CANCELLED",
	"TRANSACTION_SUBMITTED", "TRANSACTION_CONFIRMED", "TRANSACTION_FAILED",
	"*",
}

var webhook = cli.Command{
	Name:  "webhook",
	Usage: "manage the endpoints notified of trade and ledger events",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "register an endpoint called whenever the event occurs",
			Flags: []cli.Flag{
				eventFlag(true),
				&cli.StringFlag{
					Name:     "endpoint",
					Usage:    "http(s) url receiving the event payloads",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "secret",
					Usage: "if set, every request carries a bearer token signed with it",
				},
			},
			Action: addWebhookAction,
		},
		{
			Name:  "remove",
			Usage: "unregister a webhook",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Usage:    "id returned when the webhook was added",
					Required: true,
				},
			},
			Action: removeWebhookAction,
		},
		{
			Name:   "list",
			Usage:  "list the webhooks, all of them if no event is given",
			Flags:  []cli.Flag{eventFlag(false)},
			Action: listWebhooksAction,
		},
	},
}

func eventFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "event",
		Usage:    "one of " + strings.Join(webhookEvents, ", "),
		Required: required,
	}
}

func checkEvent(event string) error {
	if event == "" {
		return nil
	}
	for _, e := range webhookEvents {
		if e == event {
			return nil
		}
	}
	return fmt.Errorf("unknown event %q", event)
}

func addWebhookAction(c *cli.Context) error {
	if err := checkEvent(c.String("event")); err != nil {
		return err
	}
	return callAndPrint("admin_add_webhook", map[string]interface{}{
		"event":    c.String("event"),
		"endpoint": c.String("endpoint"),
		"secret":   c.String("secret"),
	})
}

func removeWebhookAction(c *cli.Context) error {
	if _, err := callRPC("admin_remove_webhook", map[string]interface{}{
		"id": c.String("id"),
	}); err != nil {
		return err
	}
	fmt.Println("webhook removed")
	return nil
}

func listWebhooksAction(c *cli.Context) error {
	if err := checkEvent(c.String("event")); err != nil {
		return err
	}
	return callAndPrint("admin_list_webhooks", map[string]interface{}{
		"event": c.String("event"),
	})
}
