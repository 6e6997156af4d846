package httpinterface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/pkg/stats"
	log "github.com/sirupsen/logrus"
)

const maxRequestBytes = 1 << 20

// Request is the body of a POST /rpc call.
type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response carries either a result or an error, never both.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result interface{}     `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

type access int

const (
	accessPublic access = iota
	accessUser
	accessAdmin
)

type methodFunc func(
	ctx context.Context, actor domain.Principal, params json.RawMessage,
) (interface{}, error)

type method struct {
	access access
	fn     methodFunc
}

// validator is implemented by the params that need checks beyond decoding.
type validator interface {
	validate() error
}

type rpcHandler struct {
	methods map[string]method
}

func (h *rpcHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeResponse(w, http.StatusBadRequest, Response{
			Error: newError(CodeParseError, "failed to read request body"),
		})
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeResponse(w, http.StatusBadRequest, Response{
			Error: newError(CodeParseError, "parse error"),
		})
		return
	}
	if req.Method == "" {
		writeResponse(w, http.StatusOK, Response{
			ID: req.ID, Error: newError(CodeInvalidRequest, "missing method"),
		})
		return
	}

	started := time.Now()
	result, rpcErr := h.call(r.Context(), req)

	code := 0
	if rpcErr != nil {
		code = rpcErr.Code
	}
	stats.ObserveRPC(req.Method, code, started)
	log.Debugf("rpc: %s took %s", req.Method, time.Since(started))

	if rpcErr != nil {
		writeResponse(w, http.StatusOK, Response{ID: req.ID, Error: rpcErr})
		return
	}
	writeResponse(w, http.StatusOK, Response{ID: req.ID, Result: result})
}

func (h *rpcHandler) call(ctx context.Context, req Request) (interface{}, *Error) {
	m, ok := h.methods[req.Method]
	if !ok {
		return nil, newError(CodeMethodNotFound, "method %s not found", req.Method)
	}

	var actor domain.Principal
	principal, authenticated := principalFromContext(ctx)
	if authenticated {
		actor = *principal
	}
	switch m.access {
	case accessUser:
		if !authenticated {
			return nil, errUnauthorized
		}
	case accessAdmin:
		if !authenticated {
			return nil, errUnauthorized
		}
		if !actor.IsAdmin {
			return nil, errForbidden
		}
	}

	result, err := m.fn(ctx, actor, req.Params)
	if err != nil {
		return nil, toRPCError(req.Method, err)
	}
	return result, nil
}

// decodeParams decodes the raw params into v, treating missing params as an
// empty object, and runs its validation if any.
func decodeParams(raw json.RawMessage, v interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return invalidParams("invalid params: %s must be %s", typeErr.Field, typeErr.Type)
		}
		return invalidParams("invalid params: %s", err)
	}
	if val, ok := v.(validator); ok {
		if err := val.validate(); err != nil {
			return err
		}
	}
	return nil
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Warn("rpc: failed to write response")
	}
}
