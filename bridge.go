package adcgo

import (
	"context"
	"sync"
	"time"

	"github.com/codespace-operator/adcgo/internal/auth"
	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/controller"
	"github.com/codespace-operator/adcgo/internal/httpsession"
	"github.com/codespace-operator/adcgo/internal/logging"
	"github.com/codespace-operator/adcgo/internal/models"
	"github.com/codespace-operator/adcgo/internal/wsclient"
)

// deviceController is the subset of every *controller.XController's
// promoted *controller.Base[T] surface the bridge needs to drive generically
// - initialize/refresh lifecycle plus WebSocket event dispatch - without the
// bridge knowing each resource type ahead of time.
type deviceController interface {
	Initialize(ctx context.Context, targetDeviceIDs []string) error
	Refresh(ctx context.Context, resourceID string) error
	HandleEvent(event controller.WSEvent)
	SupportedEvents() models.SupportedResourceEvents
}

// Bridge is the top-level entry point: it owns the authenticated session,
// the WebSocket event stream, and one controller per device family. Every
// exported method is safe for concurrent use.
type Bridge struct {
	cfg *Config

	session *httpsession.Session
	auth    *auth.Controller
	bus     *broker.Broker
	ws      *wsclient.Client

	Partitions        *controller.PartitionController
	Lights            *controller.LightController
	Sensors           *controller.SensorController
	Thermostats       *controller.ThermostatController
	Locks             *controller.LockController
	GarageDoors       *controller.GarageDoorController
	Gates             *controller.GateController
	WaterValves       *controller.WaterValveController
	WaterSensors      *controller.WaterSensorController
	Systems           *controller.SystemController
	ImageSensors      *controller.ImageSensorController
	ImageSensorImages *controller.ImageSensorImageController

	controllers []deviceController

	mu          sync.Mutex
	initialized bool
}

// NewBridge constructs every controller and the WebSocket client against
// cfg, but performs no network I/O - call Login (and, if required,
// RequestOTP/SubmitOTP) followed by Initialize to actually connect.
func NewBridge(cfg *Config) (*Bridge, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.alarm.com/"
	}
	logging.Configure(cfg.LogLevel)

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	session, err := httpsession.NewSession(cfg.BaseURL, timeout, cfg.RequestRetryLimit)
	if err != nil {
		return nil, err
	}

	authCtrl := auth.NewController(session, cfg.Username, cfg.Password, cfg.MFACookie)
	session.SetRelogin(authCtrl.Login)

	bus := broker.New()

	b := &Bridge{
		cfg:     cfg,
		session: session,
		auth:    authCtrl,
		bus:     bus,
	}

	b.Partitions = controller.NewPartitionController(session, bus, logging.For("controller.partition"))
	b.Lights = controller.NewLightController(session, bus, logging.For("controller.light"))
	b.Sensors = controller.NewSensorController(session, bus, logging.For("controller.sensor"))
	b.Thermostats = controller.NewThermostatController(session, bus, logging.For("controller.thermostat"), authCtrl.UseCelsius)
	b.Locks = controller.NewLockController(session, bus, logging.For("controller.lock"))
	b.GarageDoors = controller.NewGarageDoorController(session, bus, logging.For("controller.garage_door"))
	b.Gates = controller.NewGateController(session, bus, logging.For("controller.gate"))
	b.WaterValves = controller.NewWaterValveController(session, bus, logging.For("controller.water_valve"))
	b.WaterSensors = controller.NewWaterSensorController(session, bus, logging.For("controller.water_sensor"))
	b.Systems = controller.NewSystemController(session, bus, logging.For("controller.system"))
	b.ImageSensors = controller.NewImageSensorController(session, bus, logging.For("controller.image_sensor"))
	b.ImageSensorImages = controller.NewImageSensorImageController(session, bus, logging.For("controller.image_sensor_image"))

	b.controllers = []deviceController{
		b.Partitions, b.Lights, b.Sensors, b.Thermostats, b.Locks,
		b.GarageDoors, b.Gates, b.WaterValves, b.WaterSensors,
		b.Systems, b.ImageSensors, b.ImageSensorImages,
	}

	b.ws = wsclient.New(session, authCtrl, bus, time.Duration(cfg.WebsocketConnectMs)*time.Millisecond)
	// dispatchRawEvent must run synchronously, inline on the WebSocket reader
	// goroutine that publishes it: it mutates a resource's attribute map in
	// place (controller.Base.HandleEvent), and that map is shared with the
	// registry, so letting the broker fan it out onto its own goroutine would
	// race two frames for the same device against each other and drop the
	// frame arrival-order guarantee.
	b.bus.SubscribeSync(b.dispatchRawEvent, broker.TopicRawResourceEvent)
	b.bus.Subscribe(b.handleConnectionEvent, broker.TopicConnectionEvent)

	return b, nil
}

// Login runs the HTML-form login handshake. A nil return means the session
// is fully authenticated; an OtpRequiredError or MustConfigureMfaError means
// the caller must drive RequestOTP/SubmitOTP before Initialize will succeed.
func (b *Bridge) Login(ctx context.Context) error {
	return b.auth.Login(ctx)
}

// RequestOTP asks the provider to deliver a one-time passcode via method
// (SMS or email; the authenticator-app method needs no request step).
func (b *Bridge) RequestOTP(ctx context.Context, method OtpMethod) error {
	return b.auth.RequestOTP(ctx, method)
}

// SubmitOTP completes the two-factor challenge. An empty deviceName falls
// back to Config.DeviceName; when the resulting name is non-empty, this
// device is registered as trusted and the returned cookie value can be
// persisted and supplied as Config.MFACookie on future runs to skip OTP
// entirely.
func (b *Bridge) SubmitOTP(ctx context.Context, code string, method OtpMethod, deviceName string) (string, error) {
	if deviceName == "" {
		deviceName = b.cfg.DeviceName
	}
	return b.auth.SubmitOTP(ctx, code, method, deviceName)
}

// Initialize fetches each controller's current state and starts the
// WebSocket event stream. Calling it again is a no-op.
func (b *Bridge) Initialize(ctx context.Context, targetDeviceIDs []string) error {
	b.mu.Lock()
	if b.initialized {
		b.mu.Unlock()
		return nil
	}
	b.initialized = true
	b.mu.Unlock()

	for _, c := range b.controllers {
		if err := c.Initialize(ctx, targetDeviceIDs); err != nil {
			return err
		}
	}

	return b.ws.Start(ctx)
}

// FetchFullState re-fetches every controller's current state from the API.
// The bridge also calls it when the WebSocket client reports a reconnect
// that has held for a few seconds.
func (b *Bridge) FetchFullState(ctx context.Context) error {
	var firstErr error
	for _, c := range b.controllers {
		if err := c.Refresh(ctx, ""); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close stops the WebSocket client and waits for in-flight broker
// deliveries to drain.
func (b *Bridge) Close() {
	b.ws.Stop()
	b.bus.Wait()
}

// Dealer returns the Alarm.com reseller name for the logged-in account.
func (b *Bridge) Dealer() string { return b.auth.Dealer() }

// UserEmail returns the logged-in user's email address.
func (b *Bridge) UserEmail() string { return b.auth.UserEmail() }

// Events exposes the shared broker so callers can subscribe to resource
// lifecycle, raw WebSocket, and connection events directly.
func (b *Bridge) Events() *broker.Broker { return b.bus }

// dispatchRawEvent fans a classified WebSocket frame out to every
// controller whose declared SupportedEvents covers it, the Go analogue of
// _base_handle_event's per-controller dispatch.
func (b *Bridge) dispatchRawEvent(msg broker.Message) {
	raw, ok := msg.(broker.RawResourceEventMessage)
	if !ok {
		return
	}

	event := controller.WSEvent{
		DeviceID:     raw.DeviceID,
		IsProperty:   raw.IsProperty,
		EventType:    models.ResourceEventType(raw.Subtype),
		PropertyType: models.ResourcePropertyChangeType(raw.PropertySubtype),
		Value:        raw.Value,
		HasValue:     raw.HasValue,
	}

	for _, c := range b.controllers {
		supported := c.SupportedEvents()
		matches := event.IsProperty && supported.MatchesProperty(event.PropertyType)
		matches = matches || (!event.IsProperty && supported.Matches(event.EventType))
		if matches {
			c.HandleEvent(event)
		}
	}
}

// handleConnectionEvent triggers a full state refresh once a reconnect has
// held, mirroring _set_state's delayed RECONNECTED emission in the Python
// client.
func (b *Bridge) handleConnectionEvent(msg broker.Message) {
	conn, ok := msg.(broker.ConnectionMessage)
	if !ok || conn.State != broker.ConnectionReconnected {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := b.FetchFullState(ctx); err != nil {
			logging.For("bridge").Warn("failed to refresh state after reconnect", "error", err)
		}
	}()
}
