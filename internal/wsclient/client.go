// Package wsclient maintains the persistent WebSocket connection that
// carries resource state-change events, reconnecting with linear-jitter
// backoff and refreshing its auth token alongside the HTTP session's own
// keep-alive cadence.
package wsclient

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	cblog "github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/logging"
)

const (
	keepAliveIntervalS       = 60
	maxReconnectWaitS        = 30 * 60
	defaultSignalsPerRefresh = 1
	maxConnectionAttempts    = 25
	tokenPath                = "web/api/websockets/token"
	reloadContextPathFormat  = "web/api/identities/%s/reloadContext"
	eventHistoryCapacity     = 25
)

// State is the connection lifecycle state of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateWaiting
	StateDead
)

// session is the subset of httpsession.Session the client needs: fetching a
// fresh WebSocket token, refreshing the session context, and the cookie-
// bearing HTTP client used to dial.
type session interface {
	GetMini(ctx context.Context, path string) (*jsonapi.MiniEnvelope, error)
	Post(ctx context.Context, path string, body map[string]any) (*jsonapi.Document, error)
	HTTPClient() *http.Client
}

// authSource supplies the session-scoped properties the keep-alive loop
// needs, without the wsclient package depending on the full auth.Controller.
type authSource interface {
	ProfileID() string
	SessionRefreshIntervalMs() int
}

// Client owns the WebSocket connection's lifecycle: authenticate, dial,
// read, classify, and republish frames on the shared broker, reconnecting
// with backoff until told to stop.
type Client struct {
	session session
	auth    authSource
	bus     *broker.Broker
	log     *cblog.Logger
	dialer  *websocket.Dialer

	mu          sync.Mutex
	state       State
	initialized bool
	cancel      context.CancelFunc
	wg          sync.WaitGroup

	token    string
	endpoint string

	historyMu    sync.Mutex
	eventHistory []string
}

// New builds a Client bound to session for token/context refresh, auth for
// session properties, and bus for publishing connection and resource
// events. connectTimeout bounds the WebSocket handshake.
func New(sess session, auth authSource, bus *broker.Broker, connectTimeout time.Duration) *Client {
	if connectTimeout <= 0 {
		connectTimeout = 15 * time.Second
	}
	return &Client{
		session: sess,
		auth:    auth,
		bus:     bus,
		log:     logging.For("wsclient"),
		dialer: &websocket.Dialer{
			HandshakeTimeout: connectTimeout,
		},
		state: StateDisconnected,
	}
}

// State returns the client's current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start launches the reader and keep-alive background loops. Calling it
// again while already running is a no-op.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil
	}
	c.dialer.Jar = c.session.HTTPClient().Jar
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.initialized = true
	c.mu.Unlock()

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.eventReader(runCtx)
	}()
	go func() {
		defer c.wg.Done()
		c.keepAlive(runCtx)
	}()

	return nil
}

// Stop halts the background loops and marks the connection dead.
func (c *Client) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()

	c.setState(StateDead, 0)

	c.mu.Lock()
	c.initialized = false
	c.mu.Unlock()
}

func (c *Client) setState(state State, nextAttemptS int) {
	c.mu.Lock()
	changed := c.state != state
	c.state = state
	c.mu.Unlock()

	if !changed {
		return
	}

	c.bus.Publish(broker.ConnectionMessage{State: connectionStateOf(state), Attempt: nextAttemptS})
}

func connectionStateOf(s State) broker.ConnectionState {
	switch s {
	case StateConnecting:
		return broker.ConnectionConnecting
	case StateConnected:
		return broker.ConnectionConnected
	case StateWaiting:
		return broker.ConnectionWaiting
	case StateDead:
		return broker.ConnectionDead
	default:
		return broker.ConnectionDisconnected
	}
}

// eventReader maintains the connection, dialing, authenticating, and
// reading frames, reconnecting with linear-jitter backoff until stopped or
// maxConnectionAttempts is exceeded.
func (c *Client) eventReader(ctx context.Context) {
	c.setState(StateConnecting, 0)
	attempts := 0

	for {
		if ctx.Err() != nil {
			return
		}
		attempts++

		if err := c.runConnection(ctx, attempts); err != nil {
			c.log.Debug("websocket connection ended", "attempt", attempts, "error", err)
		}

		if ctx.Err() != nil {
			return
		}

		if attempts >= maxConnectionAttempts {
			c.log.Warn("giving up on websocket reconnect after repeated failures", "attempts", attempts)
			c.setState(StateDead, 0)
			return
		}

		wait := reconnectWait(attempts)
		if attempts%10 == 0 {
			c.log.Warn("repeated websocket reconnect failures", "attempts", attempts, "max", maxConnectionAttempts)
		}
		c.setState(StateDisconnected, wait)
		c.setState(StateWaiting, wait)

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(wait) * time.Second):
		}
	}
}

// reconnectWait mirrors the provider's linear-jitter backoff: round(min(10 *
// attempts * random(), maxReconnectWaitS)).
func reconnectWait(attempts int) int {
	wait := 10 * float64(attempts) * rand.Float64()
	if wait > maxReconnectWaitS {
		wait = maxReconnectWaitS
	}
	return int(wait + 0.5)
}

func (c *Client) runConnection(ctx context.Context, attempts int) error {
	if err := c.authenticate(ctx); err != nil {
		return err
	}

	dialURL := fmt.Sprintf("%s/?f=1&auth=%s", c.endpoint, c.token)
	c.log.Info("connecting to websocket endpoint")

	conn, _, err := c.dialer.DialContext(ctx, dialURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.setState(StateConnected, 0)
	c.log.Info("websocket connected")

	if attempts > 1 {
		c.scheduleReconnectedEmit(ctx)
	}

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.processFrame(raw)
	}
}

// scheduleReconnectedEmit mirrors the provider's 5-second-delayed
// RECONNECTED emission, which avoids flapping on a connect-then-immediately
// -drop cycle and triggers a full state refresh once the connection has
// actually held.
func (c *Client) scheduleReconnectedEmit(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
		if c.State() == StateConnected {
			c.bus.Publish(broker.ConnectionMessage{State: broker.ConnectionReconnected})
		}
	}()
}

func (c *Client) processFrame(raw []byte) {
	c.recordHistory(raw)

	event, isEvent := classifyFrame(raw)
	if !isEvent {
		return
	}
	c.bus.Publish(event)
}

// recordHistory appends raw to the bounded rolling frame history, evicting
// the oldest entry once the buffer is at capacity. Every frame is recorded
// regardless of whether classifyFrame recognizes it, mirroring the
// provider's own unconditional history append ahead of classification.
func (c *Client) recordHistory(raw []byte) {
	c.historyMu.Lock()
	defer c.historyMu.Unlock()

	c.eventHistory = append(c.eventHistory, string(raw))
	if len(c.eventHistory) > eventHistoryCapacity {
		c.eventHistory = c.eventHistory[len(c.eventHistory)-eventHistoryCapacity:]
	}
}

// LastEvents returns the most recent raw WebSocket frames, oldest first, up
// to the last 25 received.
func (c *Client) LastEvents() []string {
	c.historyMu.Lock()
	defer c.historyMu.Unlock()

	out := make([]string, len(c.eventHistory))
	copy(out, c.eventHistory)
	return out
}

func (c *Client) authenticate(ctx context.Context) error {
	c.token = ""

	env, err := c.session.GetMini(ctx, tokenPath)
	if err != nil {
		return err
	}

	endpoint, ok := env.Meta["endpoint"].(string)
	if !ok || endpoint == "" {
		return apierrors.NewUnexpectedResponse("websocket token response missing endpoint", nil)
	}

	var token string
	if err := env.UnmarshalValue(&token); err != nil {
		return apierrors.NewUnexpectedResponse("websocket token response has no value", err)
	}

	c.endpoint = endpoint
	c.token = token
	return nil
}

// keepAlive periodically refreshes the session context at a cadence derived
// from the account's session-refresh interval, skipping entirely while
// disconnected.
func (c *Client) keepAlive(ctx context.Context) {
	refreshIntervalMs := c.auth.SessionRefreshIntervalMs()
	refreshEvery := refreshIntervalMs / (keepAliveIntervalS * 1000)
	if refreshEvery < defaultSignalsPerRefresh {
		refreshEvery = defaultSignalsPerRefresh
	}

	c.log.Info("keep-alive configured", "refresh_interval_ms", refreshIntervalMs, "pings_per_refresh", refreshEvery)

	signalsSent := 0
	ticker := time.NewTicker(keepAliveIntervalS * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if c.State() != StateConnected {
			signalsSent = 0
			continue
		}

		if signalsSent >= refreshEvery-1 {
			signalsSent = 0
			if err := c.reloadSessionContext(ctx); err != nil {
				c.log.Debug("failed to reload session context", "error", err)
			}
		}
		signalsSent++
	}
}

func (c *Client) reloadSessionContext(ctx context.Context) error {
	c.log.Info("reloading session context")

	path := fmt.Sprintf(reloadContextPathFormat, c.auth.ProfileID())
	body := map[string]any{
		"included": []any{},
		"meta":     map[string]any{"transformer_version": "1.1"},
	}
	if _, err := c.session.Post(ctx, path, body); err != nil {
		return err
	}

	c.log.Debug("reloaded context, fetching new token")
	return c.authenticate(ctx)
}
