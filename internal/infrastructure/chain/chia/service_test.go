package chia_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/chain/chia"
	"github.com/dtrex-network/dtrex-daemon/pkg/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newTestServer(t *testing.T, routes map[string]interface{}) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		resp, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if fn, ok := resp.(func(*http.Request) interface{}); ok {
			resp = fn(r)
		}
		w.Header().Set("Content-Type", "application/json")
		//nolint
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetBlockchainState(t *testing.T) {
	tests := []struct {
		name    string
		resp    interface{}
		height  uint64
		syncing bool
		network string
		wantErr bool
	}{
		{
			name: "wrapped",
			resp: map[string]interface{}{
				"success": true,
				"blockchain_state": map[string]interface{}{
					"peak":    map[string]interface{}{"height": 4200000},
					"sync":    map[string]interface{}{"sync_mode": false, "synced": true},
					"network": "mainnet",
				},
			},
			height:  4200000,
			network: "mainnet",
		},
		{
			name: "unwrapped",
			resp: map[string]interface{}{
				"peak": map[string]interface{}{"height": 10},
				"sync": map[string]interface{}{"sync_mode": true},
			},
			height:  10,
			syncing: true,
		},
		{
			name:   "no_peak",
			resp:   map[string]interface{}{"success": true, "blockchain_state": map[string]interface{}{}},
			height: 0,
		},
		{
			name:    "failure",
			resp:    map[string]interface{}{"success": false, "error": "node not ready"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, map[string]interface{}{
				"/get_blockchain_state": tt.resp,
			})
			svc, err := chia.NewService(chia.Config{
				NodeURL: srv.URL, WalletURL: srv.URL,
			})
			require.NoError(t, err)

			state, err := svc.GetBlockchainState(ctx)
			if tt.wantErr {
				require.ErrorIs(t, err, chia.ErrRPCFailure)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.height, state.GetHeight())
			require.Equal(t, tt.syncing, state.IsSyncing())
			require.Equal(t, tt.network, state.GetNetwork())
		})
	}
}

func TestIsTxInMempool(t *testing.T) {
	srv := newTestServer(t, map[string]interface{}{
		"/get_all_mempool_tx_ids": map[string]interface{}{
			"success": true,
			"tx_ids":  []string{"0xABCDEF", "0x1234"},
		},
	})
	svc, err := chia.NewService(chia.Config{NodeURL: srv.URL, WalletURL: srv.URL})
	require.NoError(t, err)

	for txID, expected := range map[string]bool{
		"abcdef":   true,
		"0xabcdef": true,
		"0x1234":   true,
		"0x9999":   false,
	} {
		found, err := svc.IsTxInMempool(ctx, txID)
		require.NoError(t, err)
		require.Equal(t, expected, found, txID)
	}
}

func TestGetTransaction(t *testing.T) {
	node := newTestServer(t, map[string]interface{}{})
	wallet := newTestServer(t, map[string]interface{}{
		"/get_transaction": func(r *http.Request) interface{} {
			var body map[string]string
			//nolint
			json.NewDecoder(r.Body).Decode(&body)
			switch body["transaction_id"] {
			case "0xconfirmed":
				return map[string]interface{}{
					"success": true,
					"transaction": map[string]interface{}{
						"name":                "0xconfirmed",
						"confirmed":           true,
						"confirmed_at_height": 100,
						"amount":              1000000000,
						"fee_amount":          10,
						"to_address":          "xch1to",
					},
				}
			case "0xnoheight":
				return map[string]interface{}{
					"success":     true,
					"transaction": map[string]interface{}{"name": "0xnoheight", "confirmed": true},
				}
			case "0xmissing":
				return map[string]interface{}{"success": true}
			default:
				return map[string]interface{}{"success": false, "error": "not found"}
			}
		},
	})

	svc, err := chia.NewService(chia.Config{NodeURL: node.URL, WalletURL: wallet.URL})
	require.NoError(t, err)

	record, err := svc.GetTransaction(ctx, "0xconfirmed")
	require.NoError(t, err)
	require.Equal(t, "0xconfirmed", record.GetName())
	require.True(t, record.IsConfirmed())
	confirmedAt, ok := record.GetConfirmedAtHeight()
	require.True(t, ok)
	require.Equal(t, uint64(100), confirmedAt)
	require.Equal(t, uint64(1000000000), record.GetAmount())
	require.Equal(t, uint64(10), record.GetFeeAmount())
	require.Equal(t, "xch1to", record.GetToAddress())

	record, err = svc.GetTransaction(ctx, "0xnoheight")
	require.NoError(t, err)
	require.True(t, record.IsConfirmed())
	_, ok = record.GetConfirmedAtHeight()
	require.False(t, ok)

	_, err = svc.GetTransaction(ctx, "0xmissing")
	require.ErrorIs(t, err, chia.ErrMissingTransaction)

	_, err = svc.GetTransaction(ctx, "0xunknown")
	require.ErrorIs(t, err, chia.ErrRPCFailure)
}

func TestUnexpectedStatus(t *testing.T) {
	srv := newTestServer(t, map[string]interface{}{})
	svc, err := chia.NewService(chia.Config{
		NodeURL: srv.URL, WalletURL: srv.URL, Timeout: time.Second,
	})
	require.NoError(t, err)

	_, err = svc.GetBlockchainState(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 404")
}

func TestNewServiceInvalidConfig(t *testing.T) {
	_, err := chia.NewService(chia.Config{CertFile: "cert.pem"})
	require.Error(t, err)

	_, err = chia.NewService(chia.Config{CAFile: "/does/not/exist"})
	require.Error(t, err)
}

func TestBreakerOpensOnFailingNode(t *testing.T) {
	srv := newTestServer(t, map[string]interface{}{})
	svc, err := chia.NewService(chia.Config{
		NodeURL: srv.URL, WalletURL: srv.URL, Timeout: time.Second,
	})
	require.NoError(t, err)

	for i := 0; i <= int(circuitbreaker.DefaultSettings.MinRequests); i++ {
		_, err := svc.IsTxInMempool(ctx, "0xabc")
		require.Error(t, err)
		require.False(t, circuitbreaker.IsOpen(err))
	}

	_, err = svc.IsTxInMempool(ctx, "0xabc")
	require.True(t, circuitbreaker.IsOpen(err))
}
