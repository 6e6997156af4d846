package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	statePath = filepath.Join(t.TempDir(), "cli", "state.json")

	_, err := getState()
	require.Error(t, err)
	_, err = getClient()
	require.Error(t, err)

	require.NoError(t, updateState(func(s *cliState) error {
		return s.set("rpcserver", "localhost:9080")
	}))
	require.NoError(t, updateState(func(s *cliState) error {
		return s.set("token", "def")
	}))
	require.Error(t, updateState(func(s *cliState) error {
		return s.set("unknown", "value")
	}))

	state, err := getState()
	require.NoError(t, err)
	require.Equal(t, &cliState{RPCServer: "localhost:9080", Token: "def"}, state)

	client, err := getClient()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9080/rpc", client.url)
	require.Equal(t, "def", client.token)
}

func TestCheckEvent(t *testing.T) {
	require.NoError(t, checkEvent(""))
	require.NoError(t, checkEvent("*"))
	require.NoError(t, checkEvent("TRADE_COMPLETED"))
	require.Error(t, checkEvent("TRADE_CREATED"))
}

func TestRPCClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")

		if r.Header.Get("Authorization") != "Bearer token" {
			w.Write([]byte(`{"id":1,"error":{"code":4001,"message":"authentication required"}}`))
			return
		}
		switch req.Method {
		case "admin_get_platform_stats":
			w.Write([]byte(`{"id":1,"result":{"total_trades":3}}`))
		default:
			w.Write([]byte(`{"id":1,"error":{"code":-32601,"message":"method not found"}}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	t.Run("result", func(t *testing.T) {
		client := newRPCClient(srv.URL+"/", "token")
		res, err := client.call(ctx, "admin_get_platform_stats", nil)
		require.NoError(t, err)
		require.JSONEq(t, `{"total_trades":3}`, string(res))
	})

	t.Run("rpc_error", func(t *testing.T) {
		client := newRPCClient(srv.URL, "token")
		_, err := client.call(ctx, "unknown", nil)
		var rpcErr *rpcError
		require.ErrorAs(t, err, &rpcErr)
		require.Equal(t, -32601, rpcErr.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		client := newRPCClient(srv.URL, "")
		_, err := client.call(ctx, "admin_get_platform_stats", nil)
		var rpcErr *rpcError
		require.ErrorAs(t, err, &rpcErr)
		require.Equal(t, 4001, rpcErr.Code)
	})
}
