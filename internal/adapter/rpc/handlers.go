package rpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/couchcryptid/typhoon-info-service/internal/service"
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// sessionHeader is echoed back when the caller supplies it; the service
// itself is stateless.
const sessionHeader = "Mcp-Session-Id"

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type liveSummaryParams struct {
	Location string `json:"location"`
}

type searchParams struct {
	Query string `json:"query"`
	Year  *int   `json:"year"`
}

type trackParams struct {
	TypSeq   int    `json:"typSeq"`
	FromDate string `json:"from_yyyymmdd"`
	ToDate   string `json:"to_yyyymmdd"`
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if sid := r.Header.Get(sessionHeader); sid != "" {
		w.Header().Set(sessionHeader, sid)
	}

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: codeParseError, Message: "parse error", Data: err.Error()},
		})
		return
	}

	start := time.Now()
	result, rpcErr := s.dispatch(r, req)
	s.metrics.QueryDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if rpcErr != nil {
		s.metrics.QueryErrors.WithLabelValues(req.Method).Inc()
		s.logger.Warn("rpc call failed", "method", req.Method, "code", rpcErr.Code, "error", rpcErr.Message)
		writeResponse(w, rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: rpcErr})
		return
	}

	writeResponse(w, rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result})
}

func (s *Server) dispatch(r *http.Request, req rpcRequest) (any, *rpcError) {
	ctx := r.Context()

	switch req.Method {
	case "get_live_typhoon_summary":
		var p liveSummaryParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, &rpcError{Code: codeInvalidParams, Message: "invalid params", Data: err.Error()}
		}
		result, err := s.svc.LiveSummary(ctx, p.Location)
		if err != nil {
			return nil, serviceError(err)
		}
		return result, nil

	case "search_past_typhoons":
		var p searchParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, &rpcError{Code: codeInvalidParams, Message: "invalid params", Data: err.Error()}
		}
		result, err := s.svc.SearchPastTyphoons(ctx, p.Query, p.Year)
		if err != nil {
			return nil, serviceError(err)
		}
		return result, nil

	case "get_past_typhoon_track":
		var p trackParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, &rpcError{Code: codeInvalidParams, Message: "invalid params", Data: err.Error()}
		}
		result, err := s.svc.PastTrack(ctx, p.TypSeq, p.FromDate, p.ToDate)
		if err != nil {
			return nil, serviceError(err)
		}
		return result, nil

	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}
}

func unmarshalParams(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// serviceError maps service failures to JSON-RPC errors. A missing service
// key gets a clear, user-facing message; everything else is internal.
func serviceError(err error) *rpcError {
	if errors.Is(err, service.ErrNotConfigured) {
		return &rpcError{
			Code:    codeInternalError,
			Message: "DATA_GO_KR_SERVICE_KEY is required but not configured",
			Data:    err.Error(),
		}
	}
	return &rpcError{Code: codeInternalError, Message: "internal error", Data: err.Error()}
}

func writeResponse(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
