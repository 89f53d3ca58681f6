package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
)

// RecordedRequest is one POST received by an AgentServer.
type RecordedRequest struct {
	Path   string
	Header http.Header
	Body   []byte
	RPC    jsonrpc2.Request
}

// Handler answers one decoded JSON-RPC request.
type Handler func(w http.ResponseWriter, req *jsonrpc2.Request)

// AgentServer is a fake A2A agent backed by httptest. POST bodies are decoded
// as JSON-RPC requests and recorded; GET requests answer HealthStatus.
type AgentServer struct {
	*httptest.Server

	mu           sync.Mutex
	requests     []RecordedRequest
	handler      Handler
	healthStatus int
}

// NewAgentServer starts a fake agent that is closed when the test ends.
func NewAgentServer(t testing.TB, h Handler) *AgentServer {
	t.Helper()

	s := &AgentServer{handler: h, healthStatus: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.Close)

	return s
}

// SetHealthStatus changes the status answered to GET requests.
func (s *AgentServer) SetHealthStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthStatus = code
}

// Requests returns a copy of every recorded POST.
func (s *AgentServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent POST or false when none was received.
func (s *AgentServer) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *AgentServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.mu.Lock()
		code := s.healthStatus
		s.mu.Unlock()
		w.WriteHeader(code)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec := RecordedRequest{Path: r.URL.Path, Header: r.Header.Clone(), Body: body}
	if err := json.Unmarshal(body, &rec.RPC); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	h := s.handler
	s.mu.Unlock()

	if h == nil {
		ReplyResult(w, rec.RPC.ID, NewResultBuilder().Build())
		return
	}

	h(w, &rec.RPC)
}

// ReplyResult writes a successful JSON-RPC response.
func ReplyResult(w http.ResponseWriter, id jsonrpc2.ID, result any) {
	resp := &jsonrpc2.Response{ID: id}
	if err := resp.SetResult(result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

// ReplyError writes a JSON-RPC error response.
func ReplyError(w http.ResponseWriter, id jsonrpc2.ID, code int64, message string) {
	writeJSON(w, &jsonrpc2.Response{ID: id, Error: &jsonrpc2.Error{Code: code, Message: message}})
}

// ReplyRaw writes body verbatim with a 200 status.
func ReplyRaw(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

// Echo answers every request with a single text artifact holding the first
// text part of the incoming message.
func Echo(w http.ResponseWriter, req *jsonrpc2.Request) {
	var params struct {
		Message struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"message"`
	}
	if req.Params != nil {
		_ = json.Unmarshal(*req.Params, &params)
	}

	text := ""
	if len(params.Message.Parts) > 0 {
		text = params.Message.Parts[0].Text
	}

	ReplyResult(w, req.ID, NewResultBuilder().TextArtifact("echo: "+text).Build())
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
