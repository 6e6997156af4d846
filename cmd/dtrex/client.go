package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

type rpcRequest struct {
	ID     int         `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// rpcClient calls the daemon JSON-RPC endpoint with an optional bearer token.
type rpcClient struct {
	url    string
	token  string
	client *http.Client
	nextID int
}

func newRPCClient(server, token string) *rpcClient {
	server = strings.TrimRight(server, "/")
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "http://" + server
	}
	return &rpcClient{
		url:    server + "/rpc",
		token:  token,
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (c *rpcClient) call(
	ctx context.Context, method string, params interface{},
) (json.RawMessage, error) {
	c.nextID++
	body, err := json.Marshal(rpcRequest{ID: c.nextID, Method: method, Params: params})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out rpcResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, data)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	return out.Result, nil
}

// callRPC sends a request to the daemon stored in the local state.
func callRPC(method string, params interface{}) (json.RawMessage, error) {
	client, err := getClient()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return client.call(ctx, method, params)
}

func callAndPrint(method string, params interface{}) error {
	resp, err := callRPC(method, params)
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}
