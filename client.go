// Package a2aclient is a client for holding multi-turn conversations with a
// remote A2A agent over JSON-RPC 2.0 on HTTP. Most applications:
//  1. Create a Client via New (or NewFromConfig)
//  2. Call SendMessage, reusing the returned SessionID for follow-up turns
//  3. Inspect the conversation with History and close it with CloseSession
//
// The Client composes a transport.Connection with a core.SessionStore. Every
// SendMessage call opens exactly one ConversationTurn and finalizes it exactly
// once, either with the agent's output text or with the failure message, so
// the history never loses an error even when the call itself fails.
package a2aclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/kagenti/a2aclient/a2a"
	"github.com/kagenti/a2aclient/artifact"
	"github.com/kagenti/a2aclient/config"
	"github.com/kagenti/a2aclient/core"
	"github.com/kagenti/a2aclient/logging"
	"github.com/kagenti/a2aclient/session"
	"github.com/kagenti/a2aclient/transport"
)

// Transport is the remote-call surface the Client needs. *transport.Connection
// implements it.
type Transport interface {
	Call(ctx context.Context, method string, params any, optFns ...func(o *transport.CallOptions)) (json.RawMessage, error)
	HealthCheck(ctx context.Context) bool
	Close() error
}

// Options configures the Client.
type Options struct {
	// Timeout bounds each HTTP round trip (defaults to transport.DefaultTimeout).
	Timeout time.Duration
	// Headers are extra HTTP headers sent with every call.
	Headers map[string]string
	// AuthToken is sent as a bearer token when set.
	AuthToken string
	// UserAgent overrides transport.DefaultUserAgent.
	UserAgent string
	// HTTPClient replaces the HTTP client built by the transport.
	HTTPClient *http.Client

	// SessionTimeout is the idle threshold used by CleanupExpiredSessions when
	// it receives a non-positive timeout.
	SessionTimeout time.Duration

	// Stores (default to in-memory implementations if not provided)
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore

	// Transport replaces the HTTP connection; the transport options above are
	// ignored when it is set.
	Transport Transport

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// SendOptions tunes a single SendMessage call.
type SendOptions struct {
	// SessionID selects the conversation; a new id is generated when empty.
	SessionID string
	// OutputMode other than "text" is requested via
	// configuration.acceptedOutputModes.
	OutputMode string
	// Params are merged into the request params last and win on collision.
	Params map[string]any
}

// WithSessionID continues the conversation identified by id.
func WithSessionID(id string) func(o *SendOptions) {
	return func(o *SendOptions) { o.SessionID = id }
}

// WithOutputMode requests a specific output mode.
func WithOutputMode(mode string) func(o *SendOptions) {
	return func(o *SendOptions) { o.OutputMode = mode }
}

// WithParams merges extra top-level params into the request.
func WithParams(params map[string]any) func(o *SendOptions) {
	return func(o *SendOptions) {
		if o.Params == nil {
			o.Params = make(map[string]any, len(params))
		}
		maps.Copy(o.Params, params)
	}
}

// Client drives conversations with one agent. It is safe for concurrent use;
// turns of the same session are appended in arrival order.
type Client struct {
	agentURL  string
	transport Transport
	sessions  core.SessionStore
	artifacts core.ArtifactStore
	logger    logging.Logger
	closed    atomic.Bool
}

// New creates a Client for agentURL. Any unset store is initialized with an
// in-memory implementation.
func New(agentURL string, optFns ...func(o *Options)) *Client {
	opts := Options{
		SessionTimeout: session.DefaultTimeout,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.SessionStore == nil {
		opts.SessionStore = session.NewInMemoryStore(func(o *session.Options) {
			o.DefaultTimeout = opts.SessionTimeout
			o.Logger = componentLogger(opts.Logger, "session")
		})
	}

	if opts.ArtifactStore == nil {
		opts.ArtifactStore = artifact.NewInMemoryStore()
	}

	if opts.Transport == nil {
		opts.Transport = transport.New(agentURL, func(o *transport.Options) {
			o.Timeout = opts.Timeout
			o.Headers = opts.Headers
			o.AuthToken = opts.AuthToken
			o.UserAgent = opts.UserAgent
			o.HTTPClient = opts.HTTPClient
			o.Logger = componentLogger(opts.Logger, "transport")
		})
	}

	return &Client{
		agentURL:  agentURL,
		transport: opts.Transport,
		sessions:  opts.SessionStore,
		artifacts: opts.ArtifactStore,
		logger:    clientLogger(opts.Logger, agentURL),
	}
}

// NewFromConfig validates cfg and creates a Client from it. The logger is
// built from the configured level and format unless optFns supply one.
func NewFromConfig(cfg *config.Config, optFns ...func(o *Options)) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, false)

	return New(cfg.AgentURL, append([]func(o *Options){func(o *Options) {
		o.Timeout = cfg.Timeout
		o.Headers = cfg.Headers
		o.AuthToken = cfg.AuthToken
		o.UserAgent = cfg.UserAgent
		o.SessionTimeout = cfg.SessionTimeout
		o.Logger = logger
	}}, optFns...)...), nil
}

// AgentURL returns the agent base address.
func (c *Client) AgentURL() string { return c.agentURL }

// SendMessage sends text as a user message and returns the agent's answer.
//
// The session is resolved (or created) first; a new turn is then appended and
// its id is used as the JSON-RPC correlation id. Store errors are returned as
// is. Any later failure is recorded on the turn and returned as *ClientError.
func (c *Client) SendMessage(ctx context.Context, text string, optFns ...func(o *SendOptions)) (*a2a.TaskResponse, error) {
	if c.closed.Load() {
		return nil, &ClientError{Kind: KindConnection, Err: transport.ErrClosed}
	}

	opts := SendOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = core.NewID()
	}

	sess, err := c.sessions.GetOrCreate(sessionID, c.agentURL, nil)
	if err != nil {
		return nil, err
	}

	// Close may have cleared the store between the check above and
	// GetOrCreate; drop the session it would otherwise leave behind.
	if c.closed.Load() {
		c.sessions.Close(sess.ID)
		c.artifacts.DeleteSession(sess.ID)
		return nil, &ClientError{Kind: KindConnection, Err: transport.ErrClosed}
	}

	logger := sessionLogger(c.logger, sess.ID)
	turn := sess.AddTurn(text)
	start := time.Now()

	result, err := c.transport.Call(ctx, a2a.MethodSendMessage, buildParams(text, opts), transport.WithID(transport.StringID(turn.ID)))
	if err != nil {
		return nil, c.failTurn(logger, sess, turn, start, classify(err))
	}

	if result == nil {
		return nil, c.failTurn(logger, sess, turn, start, &ClientError{Kind: KindUnexpected, Err: ErrEmptyResult})
	}

	metadata, err := resultMetadata(result)
	if err != nil {
		return nil, c.failTurn(logger, sess, turn, start, &ClientError{Kind: KindUnexpected, Err: err})
	}

	output, err := ExtractOutput(result)
	if err != nil {
		return nil, c.failTurn(logger, sess, turn, start, &ClientError{Kind: KindUnexpected, Err: err})
	}

	if err := turn.Complete(output, metadata); err != nil {
		return nil, &ClientError{Kind: KindUnexpected, Err: err}
	}

	c.saveArtifacts(logger, sess.ID, turn.ID, result)
	logging.LogTurn(c.logger, sess.ID, turn.ID, time.Since(start), nil)

	return &a2a.TaskResponse{
		TaskID:    turn.ID,
		SessionID: sess.ID,
		Status:    a2a.TaskStatusCompleted,
		Output:    output,
		Metadata:  metadata,
	}, nil
}

// failTurn records the cause of cerr on the turn and returns cerr.
func (c *Client) failTurn(logger logging.Logger, sess *core.Session, turn *core.ConversationTurn, start time.Time, cerr *ClientError) error {
	if err := turn.Fail(cerr.Err.Error()); err != nil {
		logger.Warn("turn already finalized", "turn_id", turn.ID)
	}

	logging.LogTurn(c.logger, sess.ID, turn.ID, time.Since(start), cerr)

	return cerr
}

func (c *Client) saveArtifacts(logger logging.Logger, sessionID, turnID string, result json.RawMessage) {
	artifacts, skipped := decodeArtifacts(result, turnID)

	for _, i := range skipped {
		logger.Warn("skipping malformed artifact", "turn_id", turnID, "index", i)
	}

	for _, a := range artifacts {
		if err := c.artifacts.Save(sessionID, a); err != nil {
			logger.Warn("failed to store artifact", "artifact_id", a.ArtifactID, "error", err.Error())
		}
	}
}

// History returns the turns of a session, truncated to the most recent
// maxTurns when maxTurns is positive.
func (c *Client) History(sessionID string, maxTurns int) ([]*core.ConversationTurn, error) {
	sess, ok := c.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, sessionID)
	}

	return sess.History(maxTurns), nil
}

// Session returns the session registered under id.
func (c *Client) Session(sessionID string) (*core.Session, bool) {
	return c.sessions.Get(sessionID)
}

// CreateSession registers a new session. An empty id is generated; an
// existing id fails with core.ErrDuplicateSession.
func (c *Client) CreateSession(sessionID string, metadata map[string]any) (*core.Session, error) {
	return c.sessions.Create(c.agentURL, sessionID, metadata)
}

// CloseSession removes the session and its artifacts, reporting whether it
// existed.
func (c *Client) CloseSession(sessionID string) bool {
	if !c.sessions.Close(sessionID) {
		return false
	}

	c.artifacts.DeleteSession(sessionID)

	return true
}

// ListSessions returns the ids of active sessions.
func (c *Client) ListSessions() []string { return c.sessions.ListActive() }

// SessionCount returns the number of active sessions.
func (c *Client) SessionCount() int { return c.sessions.Count() }

// CleanupExpiredSessions removes sessions idle longer than timeout, or the
// configured session timeout when timeout is not positive, and returns their
// ids.
func (c *Client) CleanupExpiredSessions(timeout time.Duration) []string {
	expired := c.sessions.SweepExpired(timeout)

	for _, id := range expired {
		c.artifacts.DeleteSession(id)
	}

	return expired
}

// Artifacts lists the artifacts returned by the agent within a session.
func (c *Client) Artifacts(sessionID string) ([]a2a.Artifact, error) {
	return c.artifacts.List(sessionID)
}

// HealthCheck reports whether the agent answered a probe.
func (c *Client) HealthCheck(ctx context.Context) bool {
	if c.closed.Load() {
		return false
	}
	return c.transport.HealthCheck(ctx)
}

// Close releases the transport and clears every session. It is safe to call
// more than once.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	ids := c.sessions.ListActive()
	n := c.sessions.ClearAll()

	for _, id := range ids {
		c.artifacts.DeleteSession(id)
	}

	c.logger.Debug("client closed", "sessions", n)

	return c.transport.Close()
}

func buildParams(text string, opts SendOptions) map[string]any {
	params := map[string]any{
		"message": a2a.NewTextMessage(a2a.RoleUser, text),
	}

	if opts.OutputMode != "" && opts.OutputMode != a2a.PartKindText {
		params["configuration"] = map[string]any{
			"acceptedOutputModes": []string{opts.OutputMode},
		}
	}

	maps.Copy(params, opts.Params)

	return params
}

func classify(err error) *ClientError {
	var te *transport.Error
	if errors.As(err, &te) {
		return &ClientError{Kind: KindConnection, Err: err}
	}
	return &ClientError{Kind: KindUnexpected, Err: err}
}

func componentLogger(l logging.Logger, component string) logging.Logger {
	if cl, ok := l.(*logging.ClientLogger); ok {
		return cl.WithComponent(component)
	}
	return l
}

func clientLogger(l logging.Logger, agentURL string) logging.Logger {
	if cl, ok := l.(*logging.ClientLogger); ok {
		return cl.WithComponent("client").WithContext("agent_url", agentURL)
	}
	return l
}

func sessionLogger(l logging.Logger, sessionID string) logging.Logger {
	if cl, ok := l.(*logging.ClientLogger); ok {
		return cl.WithSession(sessionID)
	}
	return l
}
