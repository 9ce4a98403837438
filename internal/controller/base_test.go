package controller

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

func discardLogger() *cblog.Logger {
	return cblog.NewWithOptions(io.Discard, cblog.Options{})
}

// fakeClient serves canned documents keyed by path, and records every Post.
type fakeClient struct {
	docs  map[string]string
	posts []postCall
}

type postCall struct {
	path string
	body map[string]any
}

func (f *fakeClient) Get(_ context.Context, path string) (*jsonapi.Document, error) {
	raw, ok := f.docs[path]
	if !ok {
		raw = `{"data": []}`
	}
	var doc jsonapi.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (f *fakeClient) Post(_ context.Context, path string, body map[string]any) (*jsonapi.Document, error) {
	f.posts = append(f.posts, postCall{path: path, body: body})
	var doc jsonapi.Document
	_ = json.Unmarshal([]byte(`{"data": null}`), &doc)
	return &doc, nil
}

func lockConfig() Config[models.Lock] {
	return Config[models.Lock]{
		ResourceType:  models.ResourceLock,
		BasePath:      "web/api/devices/locks",
		Bind:          models.NewLock,
		AttributesOf:  func(l models.Lock) any { return l.Attributes },
		ResourceRefOf: func(l models.Lock) jsonapi.Resource { return l.Resource },
		SupportedEvents: models.SupportedResourceEvents{
			Events: []models.ResourceEventType{models.EventDoorLocked, models.EventDoorUnlocked},
		},
		EventStateMap: map[models.ResourceEventType]int{
			models.EventDoorLocked:   int(models.LockLocked),
			models.EventDoorUnlocked: int(models.LockUnlocked),
		},
	}
}

func TestRefresh_RegistersDiscoveredResourcesAndPublishesAdd(t *testing.T) {
	client := &fakeClient{docs: map[string]string{
		"web/api/devices/locks": `{"data": [
			{"type": "devices/lock", "id": "1", "attributes": {"description": "Front Door", "state": 1}}
		]}`,
	}}
	bus := broker.New()

	var added []string
	bus.SubscribeSync(func(m broker.Message) {
		if rm, ok := m.(broker.ResourceMessage); ok && rm.Topic() == broker.TopicResourceAdded {
			added = append(added, rm.ResourceID)
		}
	}, broker.TopicResourceAdded)

	base := New(lockConfig(), client, bus, discardLogger())

	if err := base.Refresh(context.Background(), ""); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if !base.Contains("1") {
		t.Fatal("expected resource 1 to be registered")
	}
	if len(added) != 1 || added[0] != "1" {
		t.Errorf("added = %v, want [1]", added)
	}
}

func TestRefresh_UnregistersMissingResources(t *testing.T) {
	client := &fakeClient{docs: map[string]string{
		"web/api/devices/locks": `{"data": [
			{"type": "devices/lock", "id": "1", "attributes": {"description": "Front Door"}}
		]}`,
	}}
	bus := broker.New()
	base := New(lockConfig(), client, bus, discardLogger())

	if err := base.Refresh(context.Background(), ""); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !base.Contains("1") {
		t.Fatal("expected resource 1 registered after first refresh")
	}

	client.docs["web/api/devices/locks"] = `{"data": []}`

	var deleted []string
	bus.SubscribeSync(func(m broker.Message) {
		if rm, ok := m.(broker.ResourceMessage); ok && rm.Topic() == broker.TopicResourceDeleted {
			deleted = append(deleted, rm.ResourceID)
		}
	}, broker.TopicResourceDeleted)

	if err := base.Refresh(context.Background(), ""); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	if base.Contains("1") {
		t.Error("expected resource 1 to be unregistered after it disappeared")
	}
	if len(deleted) != 1 || deleted[0] != "1" {
		t.Errorf("deleted = %v, want [1]", deleted)
	}
}

func TestRegisterOrUpdate_SkipsPublishWhenAttributesUnchanged(t *testing.T) {
	client := &fakeClient{docs: map[string]string{
		"web/api/devices/locks": `{"data": [
			{"type": "devices/lock", "id": "1", "attributes": {"description": "Front Door", "state": 1}}
		]}`,
	}}
	bus := broker.New()

	var publishes int
	bus.SubscribeSync(func(broker.Message) { publishes++ }, broker.TopicResourceAdded, broker.TopicResourceUpdated)

	base := New(lockConfig(), client, bus, discardLogger())
	if err := base.Refresh(context.Background(), ""); err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	if err := base.Refresh(context.Background(), ""); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	if publishes != 1 {
		t.Errorf("publishes = %d, want 1 (no update when unchanged)", publishes)
	}
}

func TestHandleEvent_AppliesEventStateMapAndRepublishes(t *testing.T) {
	client := &fakeClient{docs: map[string]string{
		"web/api/devices/locks": `{"data": [
			{"type": "devices/lock", "id": "1", "attributes": {"description": "Front Door", "state": 2}}
		]}`,
	}}
	bus := broker.New()
	base := New(lockConfig(), client, bus, discardLogger())
	if err := base.Refresh(context.Background(), ""); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	var updated bool
	bus.SubscribeSync(func(m broker.Message) {
		if rm, ok := m.(broker.ResourceMessage); ok && rm.Topic() == broker.TopicResourceUpdated {
			updated = true
		}
	}, broker.TopicResourceUpdated)

	base.HandleEvent(WSEvent{DeviceID: "1", EventType: models.EventDoorLocked})

	lock, ok := base.Get("1")
	if !ok {
		t.Fatal("resource 1 missing after HandleEvent")
	}
	if lock.Attributes.State != models.LockLocked {
		t.Errorf("State = %v, want LockLocked", lock.Attributes.State)
	}
	if !updated {
		t.Error("expected an update publish after HandleEvent changed state")
	}
}

func TestHandleEvent_UnknownDeviceIsNoop(t *testing.T) {
	client := &fakeClient{}
	bus := broker.New()
	base := New(lockConfig(), client, bus, discardLogger())

	base.HandleEvent(WSEvent{DeviceID: "missing", EventType: models.EventDoorLocked})

	if base.Contains("missing") {
		t.Error("HandleEvent should not register an unknown device")
	}
}

func TestSendCommand_RejectsUnknownDevice(t *testing.T) {
	client := &fakeClient{}
	bus := broker.New()
	base := New(lockConfig(), client, bus, discardLogger())

	err := base.SendCommand(context.Background(), "unknown", "lock", nil)
	if err == nil {
		t.Fatal("expected an error for an unregistered device")
	}
}

func TestSendCommand_PostsToCommandPath(t *testing.T) {
	client := &fakeClient{docs: map[string]string{
		"web/api/devices/locks": `{"data": [
			{"type": "devices/lock", "id": "1", "attributes": {"description": "Front Door"}}
		]}`,
	}}
	bus := broker.New()
	base := New(lockConfig(), client, bus, discardLogger())
	if err := base.Refresh(context.Background(), ""); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := base.SendCommand(context.Background(), "1", "lock", nil); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}

	if len(client.posts) != 1 || client.posts[0].path != "web/api/devices/locks/1/lock" {
		t.Errorf("posts = %+v, want a single post to web/api/devices/locks/1/lock", client.posts)
	}
}
