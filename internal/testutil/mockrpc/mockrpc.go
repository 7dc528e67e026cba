// Package mockrpc is a fake JSON-RPC backend for ethgoctx integration
// tests, adapted from tools/testapi/testapi.go's config-driven route/reply
// idiom — but keyed by JSON-RPC method name instead of HTTP path, since
// every call here is a POST to the same endpoint.
package mockrpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

type rpcRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	ID     json.RawMessage `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Reply is one canned response for a method; Data is the raw JSON result,
// or ErrData (as "0x..."-hex) to simulate a reverted eth_call.
type Reply struct {
	Data    json.RawMessage
	ErrData string
}

type route struct {
	mu      sync.Mutex
	replies []Reply
	cursor  int // advances through replies in order, sticking on the last once exhausted
}

// Server is an httptest.Server speaking just enough JSON-RPC for the core's
// PublicClient/WalletClient to exercise against.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]*route
}

func NewServer() *Server {
	s := &Server{routes: make(map[string]*route)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// On registers one or more canned replies for method, consumed in order.
func (s *Server) On(method string, replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method] = &route{replies: replies}
}

// OnResult is a convenience for the common "succeed with this JSON value"
// case.
func (s *Server) OnResult(method string, result interface{}) {
	b, err := json.Marshal(result)
	if err != nil {
		panic(fmt.Sprintf("mockrpc: marshal result for %s: %v", method, err))
	}
	s.On(method, Reply{Data: b})
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	rt, ok := s.routes[req.Method]
	s.mu.Unlock()

	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	if !ok || len(rt.replies) == 0 {
		resp.Error = &rpcError{Code: -32601, Message: "method not configured: " + req.Method}
		writeJSON(w, resp)
		return
	}

	rt.mu.Lock()
	idx := rt.cursor
	if idx >= len(rt.replies) {
		idx = len(rt.replies) - 1
	} else {
		rt.cursor++
	}
	reply := rt.replies[idx]
	rt.mu.Unlock()

	if reply.ErrData != "" {
		resp.Error = &rpcError{Code: 3, Message: "execution reverted", Data: reply.ErrData}
	} else {
		resp.Result = reply.Data
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
