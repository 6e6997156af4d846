package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

var (
	dtrexDataDir = btcutil.AppDataDir("dtrex-cli", false)
	statePath    = filepath.Join(dtrexDataDir, "state.json")
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "dtrex operator CLI"
	app.Usage = "Command line interface for dtrexd daemon operators"
	app.Commands = append(
		app.Commands,
		&config,
		&exchangewallet,
		&trades,
		&platformstats,
		&webhook,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

// cliState is persisted as json at statePath.
type cliState struct {
	RPCServer string `json:"rpcserver,omitempty"`
	Token     string `json:"token,omitempty"`
}

func (s *cliState) set(key, value string) error {
	switch key {
	case "rpcserver":
		s.RPCServer = value
	case "token":
		s.Token = value
	default:
		return fmt.Errorf("unknown config key %q, must be one of rpcserver, token", key)
	}
	return nil
}

func getState() (*cliState, error) {
	file, err := os.ReadFile(statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.New("missing config state: try 'config init'")
		}
		return nil, err
	}

	state := &cliState{}
	if err := json.Unmarshal(file, state); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}
	return state, nil
}

// updateState applies fn to the current state, or to an empty one if none
// is stored yet, and writes the result back.
func updateState(fn func(*cliState) error) error {
	state, err := getState()
	if err != nil {
		if _, statErr := os.Stat(statePath); !errors.Is(statErr, os.ErrNotExist) {
			return err
		}
		state = &cliState{}
	}
	if err := fn(state); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(statePath), 0700); err != nil {
		return err
	}
	buf, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, buf, 0600); err != nil {
		return fmt.Errorf("writing config state: %w", err)
	}
	return nil
}

func printRespJSON(resp json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp, "", "\t"); err != nil {
		fmt.Fprintln(os.Stderr, "unable to decode response:", err)
		return
	}
	fmt.Println(buf.String())
}

func getClient() (*rpcClient, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	if state.RPCServer == "" {
		return nil, errors.New("set rpc server with `config set rpcserver <address>`")
	}
	return newRPCClient(state.RPCServer, state.Token), nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[dtrex] %v\n", err)
	os.Exit(1)
}
