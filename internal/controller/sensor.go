package controller

import (
	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// SensorController manages devices/sensor resources: contact, motion, and
// other binary/environmental sensors. It has no commands of its own — a
// sensor only reports state.
type SensorController struct {
	*Base[models.Sensor]
}

// NewSensorController builds a SensorController bound to client and bus.
func NewSensorController(client apiClient, bus *broker.Broker, log *cblog.Logger) *SensorController {
	cfg := Config[models.Sensor]{
		ResourceType:  models.ResourceSensor,
		BasePath:      "web/api/devices/sensors",
		Bind:          models.NewSensor,
		AttributesOf:  func(s models.Sensor) any { return s.Attributes },
		ResourceRefOf: func(s models.Sensor) jsonapi.Resource { return s.Resource },
		SupportedEvents: models.SupportedResourceEvents{
			Events: []models.ResourceEventType{
				models.EventBypassed, models.EventEndOfBypass, models.EventClosed,
				models.EventOpenedClosed, models.EventOpened, models.EventDoorLeftOpenRestoral,
			},
		},
		EventHandler: handleSensorEvent,
	}
	return &SensorController{Base: New(cfg, client, bus, log)}
}

// handleSensorEvent maps open/close events to state, with motion sensors
// using the idle/active states instead of closed/open, and separately
// tracks bypass toggles.
func handleSensorEvent(resource jsonapi.Resource, event WSEvent) jsonapi.Resource {
	if event.IsProperty {
		return resource
	}

	isMotion := models.ParseSensorSubtype(int(attrFloat(resource, "device_type"))).IsMotionSensor()

	var state models.SensorState
	switch event.EventType {
	case models.EventClosed:
		if isMotion {
			state = models.SensorIdle
		} else {
			state = models.SensorClosed
		}
		resource = withState(resource, state)
	case models.EventDoorLeftOpenRestoral:
		// Always CLOSED, even for a motion sensor - unlike EventClosed this
		// one has no IDLE counterpart.
		resource = withState(resource, models.SensorClosed)
	case models.EventOpened:
		if isMotion {
			state = models.SensorActive
		} else {
			state = models.SensorOpen
		}
		resource = withState(resource, state)
	case models.EventOpenedClosed:
		resource = withState(resource, models.SensorOpenedClosed)
	case models.EventBypassed:
		resource.Attributes["is_bypassed"] = true
	case models.EventEndOfBypass:
		resource.Attributes["is_bypassed"] = false
	}

	return resource
}

func withState(resource jsonapi.Resource, state models.SensorState) jsonapi.Resource {
	resource.Attributes["state"] = float64(state)
	resource.Attributes["desired_state"] = float64(state)
	return resource
}

func attrFloat(r jsonapi.Resource, key string) float64 {
	v, _ := r.AttrFloat(key)
	return v
}
