package adcgo

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/controller"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/logging"
	"github.com/codespace-operator/adcgo/internal/models"
)

// fakeResourceClient serves one canned document for every Get, regardless of
// path, and discards Post bodies - enough to exercise registry population
// without any real HTTP transport.
type fakeResourceClient struct {
	doc string
}

func (f *fakeResourceClient) Get(_ context.Context, _ string) (*jsonapi.Document, error) {
	var doc jsonapi.Document
	if err := json.Unmarshal([]byte(f.doc), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (f *fakeResourceClient) Post(_ context.Context, _ string, _ map[string]any) (*jsonapi.Document, error) {
	var doc jsonapi.Document
	_ = json.Unmarshal([]byte(`{"data": null}`), &doc)
	return &doc, nil
}

// newTestBridge wires a Bridge directly from already-populated controllers,
// bypassing NewBridge's HTTP session construction - this suite only cares
// about the dispatch wiring between the broker and the device controllers.
func newTestBridge(locks *controller.LockController, thermostats *controller.ThermostatController) *Bridge {
	bus := broker.New()
	b := &Bridge{bus: bus, Locks: locks, Thermostats: thermostats}
	b.controllers = []deviceController{locks, thermostats}
	b.bus.SubscribeSync(b.dispatchRawEvent, broker.TopicRawResourceEvent)
	b.bus.Subscribe(b.handleConnectionEvent, broker.TopicConnectionEvent)
	return b
}

var _ = Describe("Bridge event dispatch", func() {
	var (
		ctx         context.Context
		locks       *controller.LockController
		thermostats *controller.ThermostatController
		bridge      *Bridge
	)

	BeforeEach(func() {
		ctx = context.Background()

		lockClient := &fakeResourceClient{doc: `{"data": [
			{"type": "devices/lock", "id": "1", "attributes": {"description": "Front Door", "state": 2}}
		]}`}
		thermostatClient := &fakeResourceClient{doc: `{"data": [
			{"type": "devices/thermostat", "id": "2", "attributes": {"description": "Hallway"}}
		]}`}

		locks = controller.NewLockController(lockClient, broker.New(), logging.For("test.lock"))
		thermostats = controller.NewThermostatController(thermostatClient, broker.New(), logging.For("test.thermostat"), func() bool { return false })

		Expect(locks.Initialize(ctx, nil)).To(Succeed())
		Expect(thermostats.Initialize(ctx, nil)).To(Succeed())

		bridge = newTestBridge(locks, thermostats)
	})

	It("routes a non-property event only to the controller declaring it", func() {
		bridge.dispatchRawEvent(broker.RawResourceEventMessage{
			DeviceID: "1",
			Subtype:  int(models.EventDoorLocked),
			Value:    1,
			HasValue: true,
		})

		lock, ok := locks.Get("1")
		Expect(ok).To(BeTrue())
		Expect(lock.Attributes.State).To(Equal(models.LockLocked))
	})

	It("ignores a raw event addressed to a device no controller has registered", func() {
		Expect(func() {
			bridge.dispatchRawEvent(broker.RawResourceEventMessage{
				DeviceID: "unknown-device",
				Subtype:  int(models.EventDoorLocked),
				Value:    1,
				HasValue: true,
			})
		}).NotTo(Panic())
	})

	It("ignores messages published on other topics", func() {
		bridge.dispatchRawEvent(broker.ConnectionMessage{State: broker.ConnectionConnected})

		lock, _ := locks.Get("1")
		Expect(lock.Attributes.State).To(Equal(models.LockState(2)))
	})

	It("does not trigger a refresh for a plain Connected transition", func() {
		bridge.handleConnectionEvent(broker.ConnectionMessage{State: broker.ConnectionConnected})
		// No assertion beyond "did not panic or block" - Connected alone
		// must not schedule the reconnect-triggered full refresh.
	})
})
