// Package controller implements the generic typed-resource registry every
// device family (partitions, lights, sensors, ...) is built from, plus the
// per-device-type controllers themselves.
package controller

import (
	"context"
	"reflect"
	"sync"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// apiClient is the subset of httpsession.Session a controller needs. Kept
// as a narrow interface so controllers can be tested against a fake.
type apiClient interface {
	Get(ctx context.Context, path string) (*jsonapi.Document, error)
	Post(ctx context.Context, path string, body map[string]any) (*jsonapi.Document, error)
}

// WSEvent is the normalized shape of a WebSocket frame a controller reacts
// to: either a state-transition event or a narrower property-change, never
// both at once.
type WSEvent struct {
	DeviceID     string
	IsProperty   bool
	EventType    models.ResourceEventType
	PropertyType models.ResourcePropertyChangeType
	Value        float64
	HasValue     bool
}

// EventHandler lets a device controller apply component-specific mutations
// to a resource's raw attributes in response to a WSEvent, the Go analogue
// of BaseController._handle_event. Returning the resource unmodified is a
// valid no-op.
type EventHandler func(resource jsonapi.Resource, event WSEvent) jsonapi.Resource

// DataProvider lets a controller act as a parent that feeds another
// controller's refreshes from its own fetch's "included" resources, the way
// a light or sensor controller rides a system fetch instead of making its
// own request.
type DataProvider interface {
	subcontrollerSubscribe(resourceTypes []models.ResourceType, callback func([]jsonapi.Resource)) func()
}

// Config describes how to wire a Base controller for one resource type. All
// function fields are required except EventHandler, EventStateMap, and
// DataProvider.
type Config[T any] struct {
	ResourceType models.ResourceType
	// BasePath is the JSON:API path for this resource type, e.g.
	// "web/api/devices/partitions/v2". Full-collection fetches GET this
	// path; single-resource fetches and commands append "/<id>".
	BasePath string
	// RequiresTargetIDs marks a single-serve endpoint: refresh only ever
	// fetches ids already in TargetDeviceIDs, never the bare collection.
	RequiresTargetIDs bool

	Bind          func(jsonapi.Resource) T
	AttributesOf  func(T) any
	ResourceRefOf func(T) jsonapi.Resource

	SupportedEvents models.SupportedResourceEvents
	// EventStateMap, if set, is applied before EventHandler: it sets both
	// "state" and "desired_state" attributes to the mapped value whenever
	// a matching event arrives.
	EventStateMap map[models.ResourceEventType]int
	EventHandler  EventHandler

	DataProvider DataProvider
}

// Base is the generic registry, refresh, and command-dispatch engine every
// device controller embeds.
type Base[T any] struct {
	cfg    Config[T]
	client apiClient
	bus    *broker.Broker
	log    *cblog.Logger

	mu              sync.RWMutex
	resources       map[string]T
	included        []jsonapi.Resource
	targetDeviceIDs map[string]struct{}
	initialized     bool
	dataUnsubscribe func()
	nextReceiverID  uint64
	dataReceivers   map[models.ResourceType][]dataReceiver
}

type dataReceiver struct {
	id       uint64
	callback func([]jsonapi.Resource)
}

// New builds a Base controller bound to client for dispatching requests and
// bus for publishing lifecycle events.
func New[T any](cfg Config[T], client apiClient, bus *broker.Broker, log *cblog.Logger) *Base[T] {
	return &Base[T]{
		cfg:             cfg,
		client:          client,
		bus:             bus,
		log:             log,
		resources:       make(map[string]T),
		targetDeviceIDs: make(map[string]struct{}),
		dataReceivers:   make(map[models.ResourceType][]dataReceiver),
	}
}

// Items returns every currently registered resource, in no particular
// order.
func (c *Base[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.resources))
	for _, r := range c.resources {
		out = append(out, r)
	}
	return out
}

// Get returns the resource registered under id, if any.
func (c *Base[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.resources[id]
	return r, ok
}

// Contains reports whether id is currently registered.
func (c *Base[T]) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.resources[id]
	return ok
}

// SupportedEvents reports which WebSocket events and property-changes this
// controller reacts to, so a dispatcher can route frames without knowing
// each controller's resource type in advance.
func (c *Base[T]) SupportedEvents() models.SupportedResourceEvents {
	return c.cfg.SupportedEvents
}

func (c *Base[T]) pathFor(id string) string {
	if id == "" {
		return c.cfg.BasePath
	}
	return c.cfg.BasePath + "/" + id
}

// Initialize fetches (or subscribes to) this controller's resources for the
// first time. Calling it again is a no-op, matching the teacher's
// idempotent reconcile-loop startup.
func (c *Base[T]) Initialize(ctx context.Context, targetDeviceIDs []string) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil
	}
	for _, id := range targetDeviceIDs {
		c.targetDeviceIDs[id] = struct{}{}
	}
	c.mu.Unlock()

	if c.cfg.DataProvider != nil {
		c.mu.Lock()
		c.initialized = true
		c.mu.Unlock()
		c.dataUnsubscribe = c.cfg.DataProvider.subcontrollerSubscribe([]models.ResourceType{c.cfg.ResourceType}, func(resources []jsonapi.Resource) {
			c.refreshFromResources(resources, "")
		})
		return nil
	}

	if err := c.Refresh(ctx, ""); err != nil {
		return err
	}
	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()
	return nil
}

// AddTarget adds id to the controller's target set and refreshes just that
// resource, returning it if the fetch found it.
func (c *Base[T]) AddTarget(ctx context.Context, id string) (T, bool, error) {
	c.mu.Lock()
	c.targetDeviceIDs[id] = struct{}{}
	c.mu.Unlock()

	if err := c.Refresh(ctx, id); err != nil {
		var zero T
		return zero, false, err
	}
	r, ok := c.Get(id)
	return r, ok, nil
}

// Refresh fetches current state from the API (or, if resourceID is set,
// just that one resource) and reconciles the registry against it. Resources
// that disappear from a full refresh are unregistered; a missing
// resourceID is unregistered only if the targeted GET comes back empty.
func (c *Base[T]) Refresh(ctx context.Context, resourceID string) error {
	c.log.Info("refreshing controller", "resource_type", c.cfg.ResourceType)

	c.mu.RLock()
	requiresTargets := c.cfg.RequiresTargetIDs && len(c.targetDeviceIDs) == 0
	targets := make([]string, 0, len(c.targetDeviceIDs))
	for id := range c.targetDeviceIDs {
		targets = append(targets, id)
	}
	c.mu.RUnlock()

	if requiresTargets {
		return nil
	}

	var requestPaths []string
	switch {
	case resourceID != "":
		requestPaths = []string{c.pathFor(resourceID)}
	case len(targets) > 0:
		for _, id := range targets {
			requestPaths = append(requestPaths, c.pathFor(id))
		}
	default:
		requestPaths = []string{c.pathFor("")}
	}

	var resources []jsonapi.Resource
	var included []jsonapi.Resource
	for _, path := range requestPaths {
		doc, err := c.client.Get(ctx, path)
		if err != nil {
			return err
		}
		resources = append(resources, doc.Many()...)
		included = append(included, doc.Included...)
	}

	c.mu.Lock()
	if resourceID != "" {
		c.included = append(c.included, included...)
	} else {
		c.included = included
	}
	c.mu.Unlock()

	c.dispatchIncluded(included)

	return c.reconcile(resources, resourceID)
}

// refreshFromResources is the data-provider delivery path: a parent
// controller hands this controller pre-fetched resources instead of this
// controller making its own request.
func (c *Base[T]) refreshFromResources(resources []jsonapi.Resource, resourceID string) {
	if err := c.reconcile(resources, resourceID); err != nil {
		c.log.Warn("failed to reconcile resources from data provider", "resource_type", c.cfg.ResourceType, "error", err)
	}
}

func (c *Base[T]) reconcile(resources []jsonapi.Resource, resourceID string) error {
	discovered := make(map[string]struct{})
	for _, resource := range resources {
		if resource.Type != string(c.cfg.ResourceType) {
			continue
		}
		c.registerOrUpdate(resource)
		discovered[string(resource.ID)] = struct{}{}
	}

	if resourceID != "" {
		if _, ok := discovered[resourceID]; !ok {
			c.unregister(resourceID)
		}
		return nil
	}

	c.mu.RLock()
	missing := make([]string, 0)
	for id := range c.resources {
		if _, ok := discovered[id]; !ok {
			missing = append(missing, id)
		}
	}
	c.mu.RUnlock()

	for _, id := range missing {
		c.unregister(id)
	}

	return nil
}

// dispatchIncluded partitions included resources by type and hands each
// slice to every subscriber registered for that type.
func (c *Base[T]) dispatchIncluded(included []jsonapi.Resource) {
	if len(included) == 0 {
		return
	}

	c.mu.RLock()
	receivers := make(map[models.ResourceType][]dataReceiver, len(c.dataReceivers))
	for rt, rs := range c.dataReceivers {
		receivers[rt] = append([]dataReceiver{}, rs...)
	}
	c.mu.RUnlock()

	for resourceType, rs := range receivers {
		var matching []jsonapi.Resource
		for _, r := range included {
			if r.Type == string(resourceType) {
				matching = append(matching, r)
			}
		}
		if len(matching) == 0 {
			continue
		}
		for _, r := range rs {
			r.callback(matching)
		}
	}
}

// subcontrollerSubscribe implements DataProvider: registers callback for
// resourceTypes and immediately replays any already-cached included
// resources of those types.
func (c *Base[T]) subcontrollerSubscribe(resourceTypes []models.ResourceType, callback func([]jsonapi.Resource)) func() {
	c.mu.Lock()
	c.nextReceiverID++
	id := c.nextReceiverID
	for _, rt := range resourceTypes {
		c.dataReceivers[rt] = append(c.dataReceivers[rt], dataReceiver{id: id, callback: callback})
	}
	cached := append([]jsonapi.Resource(nil), c.included...)
	c.mu.Unlock()

	if len(cached) > 0 {
		for _, rt := range resourceTypes {
			var matching []jsonapi.Resource
			for _, r := range cached {
				if r.Type == string(rt) {
					matching = append(matching, r)
				}
			}
			if len(matching) > 0 {
				callback(matching)
			}
		}
	}

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, rt := range resourceTypes {
			c.dataReceivers[rt] = removeReceiver(c.dataReceivers[rt], id)
		}
	}
}

func removeReceiver(receivers []dataReceiver, id uint64) []dataReceiver {
	out := make([]dataReceiver, 0, len(receivers))
	for _, r := range receivers {
		if r.id == id {
			continue
		}
		out = append(out, r)
	}
	return out
}

// registerOrUpdate binds resource, compares its attributes against any
// existing registration, and publishes an add/update event only when
// something this library tracks actually changed.
func (c *Base[T]) registerOrUpdate(resource jsonapi.Resource) string {
	bound := c.cfg.Bind(resource)

	c.mu.Lock()
	existing, hadExisting := c.resources[string(resource.ID)]
	if hadExisting && reflect.DeepEqual(c.cfg.AttributesOf(existing), c.cfg.AttributesOf(bound)) {
		c.mu.Unlock()
		return string(resource.ID)
	}
	c.resources[string(resource.ID)] = bound
	c.mu.Unlock()

	topic := broker.TopicResourceAdded
	if hadExisting {
		topic = broker.TopicResourceUpdated
	}
	c.bus.Publish(broker.NewResourceMessage(topic, string(c.cfg.ResourceType), string(resource.ID), bound))

	return string(resource.ID)
}

func (c *Base[T]) unregister(id string) {
	c.mu.Lock()
	resource, ok := c.resources[id]
	delete(c.resources, id)
	c.mu.Unlock()

	var payload any
	if ok {
		payload = resource
	}
	c.bus.Publish(broker.NewResourceMessage(broker.TopicResourceDeleted, string(c.cfg.ResourceType), id, payload))
}

// HandleEvent applies a WebSocket event to the resource it targets: the
// declarative event-state map first, then the device-specific handler, then
// re-runs register-or-update so subscribers see the change.
func (c *Base[T]) HandleEvent(event WSEvent) {
	existing, ok := c.Get(event.DeviceID)
	if !ok {
		c.log.Warn("received event for unknown resource", "resource_type", c.cfg.ResourceType, "device_id", event.DeviceID)
		return
	}

	resource := c.cfg.ResourceRefOf(existing)

	if c.cfg.EventStateMap != nil && !event.IsProperty {
		if state, ok := c.cfg.EventStateMap[event.EventType]; ok {
			resource.Attributes["state"] = float64(state)
			resource.Attributes["desired_state"] = float64(state)
		}
	}

	if c.cfg.EventHandler != nil {
		resource = c.cfg.EventHandler(resource, event)
	}

	c.registerOrUpdate(resource)
}

// SendCommand posts command with body merged into the standard
// statePollOnly envelope, the shared implementation every device controller
// action (disarm, turn_on, lock, ...) bottoms out in.
func (c *Base[T]) SendCommand(ctx context.Context, id, command string, body map[string]any) error {
	if !c.Contains(id) {
		return apierrors.NewUnknownDevice(id)
	}
	_, err := c.client.Post(ctx, c.pathFor(id)+"/"+command, jsonapi.CommandBody(body))
	return err
}
