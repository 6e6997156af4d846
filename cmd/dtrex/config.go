package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

const defaultRPCServer = "http://localhost:9080"

var config = cli.Command{
	Name:   "config",
	Usage:  "print the local state of the CLI",
	Action: printConfigAction,
	Subcommands: []*cli.Command{
		{
			Name:      "init",
			Usage:     "store the daemon address and the admin token",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "rpcserver",
					Usage: "dtrexd rpc address, scheme://host:port",
					Value: defaultRPCServer,
				},
				&cli.StringFlag{
					Name:  "token",
					Usage: "admin bearer token",
				},
			},
			Action: initConfigAction,
		},
		{
			Name:      "set",
			Usage:     "set a single value of the local state",
			ArgsUsage: "<rpcserver|token> <value>",
			Action:    setConfigAction,
		},
	},
}

func printConfigAction(*cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	token := "<none>"
	if state.Token != "" {
		token = "<redacted>"
	}
	fmt.Printf("rpcserver: %s\ntoken: %s\n", state.RPCServer, token)
	return nil
}

func initConfigAction(c *cli.Context) error {
	return updateState(func(s *cliState) error {
		s.RPCServer = c.String("rpcserver")
		s.Token = c.String("token")
		return nil
	})
}

func setConfigAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("expected exactly a key and a value")
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	if err := updateState(func(s *cliState) error {
		return s.set(key, value)
	}); err != nil {
		return err
	}
	fmt.Printf("%s has been set\n", key)
	return nil
}
