package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/kagenti/a2aclient/logging"
)

const (
	// DefaultTimeout bounds every HTTP round trip when Options.Timeout is unset.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the client to agents.
	DefaultUserAgent = "a2aclient-go/0.1.0"

	maxErrorBody = 64 << 10
)

// Options configures a Connection.
type Options struct {
	// Timeout for each HTTP round trip. Exceeding it surfaces as KindConnection.
	Timeout time.Duration
	// Headers are added to every request and override the defaults.
	Headers map[string]string
	// AuthToken, when set, is sent as "Authorization: Bearer <token>".
	AuthToken string
	// UserAgent overrides DefaultUserAgent.
	UserAgent string
	// HTTPClient replaces the internally constructed client. Its Timeout is
	// left untouched.
	HTTPClient *http.Client
	// Logger receives per-call diagnostics.
	Logger logging.Logger
}

// CallOptions tunes a single Call or Stream.
type CallOptions struct {
	// ID is the correlation id; a random string id is used when nil.
	ID *jsonrpc2.ID
	// Endpoint is an optional sub-path appended to the base URL.
	Endpoint string
}

// WithID sets the correlation id of a call.
func WithID(id jsonrpc2.ID) func(o *CallOptions) {
	return func(o *CallOptions) { o.ID = &id }
}

// WithEndpoint appends a sub-path to the base URL for a call.
func WithEndpoint(endpoint string) func(o *CallOptions) {
	return func(o *CallOptions) { o.Endpoint = endpoint }
}

// StringID returns a string correlation id.
func StringID(s string) jsonrpc2.ID { return jsonrpc2.ID{Str: s, IsString: true} }

// NumberID returns a numeric correlation id.
func NumberID(n uint64) jsonrpc2.ID { return jsonrpc2.ID{Num: n} }

// NewID returns a fresh random string correlation id.
func NewID() jsonrpc2.ID { return StringID(uuid.NewString()) }

// Connection issues JSON-RPC calls against one agent base URL. It is safe for
// concurrent use. Close releases the underlying connections; any later call
// fails fast with KindClosed.
type Connection struct {
	baseURL string
	headers http.Header
	client  *http.Client
	logger  logging.Logger
	closed  atomic.Bool
}

// New creates a Connection for baseURL. Trailing slashes are trimmed.
func New(baseURL string, optFns ...func(o *Options)) *Connection {
	opts := Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", opts.UserAgent)
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}
	if opts.AuthToken != "" {
		headers.Set("Authorization", "Bearer "+opts.AuthToken)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   opts.Timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}

	return &Connection{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
		client:  client,
		logger:  opts.Logger,
	}
}

// BaseURL returns the agent base URL without trailing slash.
func (c *Connection) BaseURL() string { return c.baseURL }

// Call sends method with params and returns the raw result. A missing or null
// result is returned as nil with a nil error; callers must handle that case.
func (c *Connection) Call(ctx context.Context, method string, params any, optFns ...func(o *CallOptions)) (json.RawMessage, error) {
	opts := CallOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	req, err := NewRequest(method, params, opts.ID)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	resp, err := c.post(ctx, opts.Endpoint, req)
	if err != nil {
		logging.LogRPCCall(c.logger, method, req.ID.String(), time.Since(start), statusOf(err), err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = &Error{Kind: KindConnection, Message: err.Error(), Err: err}
		logging.LogRPCCall(c.logger, method, req.ID.String(), time.Since(start), resp.StatusCode, err)
		return nil, err
	}

	result, err := c.decodeResponse(req.ID, data)
	logging.LogRPCCall(c.logger, method, req.ID.String(), time.Since(start), resp.StatusCode, err)

	return result, err
}

// Stream sends the same request as Call but returns the HTTP response as soon
// as the status line is received, without reading the body. Status and
// connection failures are mapped exactly like Call. The caller must close the
// response body.
func (c *Connection) Stream(ctx context.Context, method string, params any, optFns ...func(o *CallOptions)) (*http.Response, error) {
	opts := CallOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	req, err := NewRequest(method, params, opts.ID)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	resp, err := c.post(ctx, opts.Endpoint, req)
	if err != nil {
		logging.LogRPCCall(c.logger, method, req.ID.String(), time.Since(start), statusOf(err), err)
		return nil, err
	}

	c.logger.Debug("rpc stream opened", "method", method, "rpc_id", req.ID.String(), "http_status", resp.StatusCode)

	return resp, nil
}

// HealthCheck issues a GET to the base URL. 200, 404 and 405 count as
// reachable: the agent process answered even if the path is wrong. Any other
// status, any connection failure or a closed Connection yields false.
func (c *Connection) HealthCheck(ctx context.Context) bool {
	if c.closed.Load() {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return false
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("health check failed", "url", c.baseURL, "error", err.Error())
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNotFound, http.StatusMethodNotAllowed:
		return true
	default:
		return false
	}
}

// Close releases idle connections held by the client. It is safe to call more
// than once and on a Connection that was never used.
func (c *Connection) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.client.CloseIdleConnections()
	return nil
}

// NewRequest builds the JSON-RPC envelope for method. Nil params (including a
// typed nil that encodes to null) are omitted; a nil id is replaced by NewID.
func NewRequest(method string, params any, id *jsonrpc2.ID) (*jsonrpc2.Request, error) {
	req := &jsonrpc2.Request{Method: method}

	if id != nil {
		req.ID = *id
	} else {
		req.ID = NewID()
	}

	if params != nil {
		if err := req.SetParams(params); err != nil {
			return nil, fmt.Errorf("failed to encode params: %w", err)
		}
		if string(*req.Params) == "null" {
			req.Params = nil
		}
	}

	return req, nil
}

func (c *Connection) url(endpoint string) string {
	if endpoint == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Connection) setHeaders(req *http.Request) {
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
}

// post performs the HTTP round trip and maps closed, connection and non-2xx
// failures. On success the response body is still unread.
func (c *Connection) post(ctx context.Context, endpoint string, rpcReq *jsonrpc2.Request) (*http.Response, error) {
	if c.closed.Load() {
		return nil, &Error{Kind: KindClosed, Message: ErrClosed.Error(), Err: ErrClosed}
	}

	body, err := json.Marshal(rpcReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(endpoint), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindConnection, Message: err.Error(), Err: err}
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindConnection, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{Kind: KindHTTPStatus, StatusCode: resp.StatusCode, Body: string(text), Message: http.StatusText(resp.StatusCode)}
	}

	return resp, nil
}

func (c *Connection) decodeResponse(reqID jsonrpc2.ID, data []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &Error{Kind: KindEmptyResponse, Message: "empty response from server"}
	}

	if trimmed[0] != '{' {
		return nil, &Error{Kind: KindInvalidResponse, Message: "response is not a JSON object"}
	}

	var resp jsonrpc2.Response
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, &Error{Kind: KindInvalidResponse, Message: err.Error(), Err: err}
	}

	if resp.Error != nil {
		rpcErr := &Error{Kind: KindRPC, Code: resp.Error.Code, Message: resp.Error.Message, Err: resp.Error}
		if resp.Error.Data != nil {
			rpcErr.Data = json.RawMessage(*resp.Error.Data)
		}
		return nil, rpcErr
	}

	if resp.ID != reqID {
		c.logger.Warn("response id does not match request id", "request_id", reqID.String(), "response_id", resp.ID.String())
	}

	if resp.Result == nil || string(*resp.Result) == "null" {
		return nil, nil
	}

	return json.RawMessage(*resp.Result), nil
}

func statusOf(err error) int {
	if te, ok := err.(*Error); ok {
		return te.StatusCode
	}
	return 0
}
