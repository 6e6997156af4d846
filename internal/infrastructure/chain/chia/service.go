package chia

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	"github.com/dtrex-network/dtrex-daemon/pkg/circuitbreaker"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	DefaultNodeURL   = "https://localhost:8555"
	DefaultWalletURL = "https://localhost:9256"
	DefaultTimeout   = 10 * time.Second

	maxResponseSize = 8 << 20
)

var (
	// ErrRPCFailure is returned when the node answers with success false.
	ErrRPCFailure = errors.New("chia rpc call failed")
	// ErrMissingTransaction is returned when the wallet response carries no
	// transaction record.
	ErrMissingTransaction = errors.New("no transaction in wallet response")
)

// Config holds the connection settings of the full node and wallet RPC.
type Config struct {
	NodeURL   string
	WalletURL string
	// CertFile and KeyFile enable mutual TLS when both are set.
	CertFile string
	KeyFile  string
	CAFile   string
	Insecure bool
	Timeout  time.Duration
}

func (c Config) validate() error {
	if c.NodeURL == "" {
		return fmt.Errorf("missing node rpc url")
	}
	if c.WalletURL == "" {
		return fmt.Errorf("missing wallet rpc url")
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("client cert and key must be both set or both empty")
	}
	return nil
}

type service struct {
	nodeURL   string
	walletURL string
	client    *http.Client
	cb        *gobreaker.CircuitBreaker
}

// NewService returns a ChainObserver talking to a Chia full node and wallet
// over their HTTPS JSON RPC.
func NewService(cfg Config) (ports.ChainObserver, error) {
	if cfg.NodeURL == "" {
		cfg.NodeURL = DefaultNodeURL
	}
	if cfg.WalletURL == "" {
		cfg.WalletURL = DefaultWalletURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	tlsConfig, err := makeTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &service{
		nodeURL:   strings.TrimRight(cfg.NodeURL, "/"),
		walletURL: strings.TrimRight(cfg.WalletURL, "/"),
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
		cb: circuitbreaker.NewCircuitBreaker("chia-rpc"),
	}, nil
}

func (s *service) GetBlockchainState(
	ctx context.Context,
) (ports.BlockchainState, error) {
	body, err := s.post(ctx, s.nodeURL, "get_blockchain_state", struct{}{})
	if err != nil {
		return nil, err
	}

	var resp blockchainStateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding blockchain state: %w", err)
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("%w: %s", ErrRPCFailure, resp.Error)
	}

	if resp.BlockchainState != nil {
		return resp.BlockchainState, nil
	}
	// Some proxies return the state object without the wrapping key.
	var state blockchainState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("decoding blockchain state: %w", err)
	}
	return &state, nil
}

func (s *service) IsTxInMempool(ctx context.Context, txID string) (bool, error) {
	body, err := s.post(ctx, s.nodeURL, "get_all_mempool_tx_ids", struct{}{})
	if err != nil {
		return false, err
	}

	var resp mempoolResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("decoding mempool tx ids: %w", err)
	}
	if resp.Success != nil && !*resp.Success {
		return false, fmt.Errorf("%w: %s", ErrRPCFailure, resp.Error)
	}

	want := normalizeTxID(txID)
	for _, id := range resp.TxIDs {
		if normalizeTxID(id) == want {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) GetTransaction(
	ctx context.Context, txID string,
) (ports.TransactionRecord, error) {
	body, err := s.post(ctx, s.walletURL, "get_transaction", map[string]string{
		"transaction_id": txID,
	})
	if err != nil {
		return nil, err
	}

	var resp transactionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding transaction: %w", err)
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("%w: %s", ErrRPCFailure, resp.Error)
	}
	if resp.Transaction == nil {
		return nil, ErrMissingTransaction
	}
	return resp.Transaction, nil
}

// post sends a JSON request to the given endpoint through the circuit
// breaker and returns the raw response body.
func (s *service) post(
	ctx context.Context, baseURL, endpoint string, payload interface{},
) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", baseURL, endpoint)

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	iBody, err := s.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, url, bytes.NewReader(reqBody),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		log.Debugf("chia rpc: POST %s", url)
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf(
				"%s: unexpected status %d: %s",
				endpoint, resp.StatusCode, strings.TrimSpace(string(body)),
			)
		}
		return body, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	return iBody.([]byte), nil
}

func makeTLSConfig(cfg Config) (*tls.Config, error) {
	//nolint:gosec
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.Insecure,
	}

	if cfg.CAFile != "" {
		pem, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no valid certificate found in CA file %s", cfg.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("loading client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func normalizeTxID(txID string) string {
	id := strings.ToLower(strings.TrimSpace(txID))
	return strings.TrimPrefix(id, "0x")
}
