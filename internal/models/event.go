package models

// ResourceEventType identifies the kind of state-changing WebSocket event a
// resource can receive, mirroring the provider's numeric event codes.
type ResourceEventType int

const (
	EventUnknown ResourceEventType = -1

	EventArmedAway               ResourceEventType = 10
	EventArmedNight              ResourceEventType = 113
	EventArmedStay               ResourceEventType = 9
	EventClosed                  ResourceEventType = 0
	EventDisarmed                ResourceEventType = 8
	EventDoorLeftOpenRestoral    ResourceEventType = 103
	EventDoorLocked              ResourceEventType = 91
	EventDoorUnlocked            ResourceEventType = 90
	EventLightTurnedOff          ResourceEventType = 316
	EventLightTurnedOn           ResourceEventType = 315
	EventOpened                  ResourceEventType = 15
	EventOpenedClosed            ResourceEventType = 100
	EventSwitchLevelChanged      ResourceEventType = 317
	EventThermostatFanModeChanged ResourceEventType = 120
	EventThermostatModeChanged   ResourceEventType = 95
	EventThermostatOffset        ResourceEventType = 105
	EventThermostatSetPointChanged ResourceEventType = 94
	EventBypassed                ResourceEventType = 13
	EventEndOfBypass             ResourceEventType = 35
	EventImageSensorUpload       ResourceEventType = 99
)

// ParseResourceEventType normalizes a raw event code, falling back to
// EventUnknown for codes this library does not act on (most of the
// provider's catalog is unsupported telemetry this library ignores).
func ParseResourceEventType(raw int) ResourceEventType {
	switch ResourceEventType(raw) {
	case EventArmedAway, EventArmedNight, EventArmedStay, EventClosed, EventDisarmed,
		EventDoorLeftOpenRestoral, EventDoorLocked, EventDoorUnlocked, EventLightTurnedOff,
		EventLightTurnedOn, EventOpened, EventOpenedClosed, EventSwitchLevelChanged,
		EventThermostatFanModeChanged, EventThermostatModeChanged, EventThermostatOffset,
		EventThermostatSetPointChanged, EventBypassed, EventEndOfBypass, EventImageSensorUpload:
		return ResourceEventType(raw)
	default:
		return EventUnknown
	}
}

// ResourcePropertyChangeType identifies a WebSocket property-change event,
// a narrower update than a full state transition (e.g. a setpoint nudging
// by a degree rather than the thermostat changing mode).
type ResourcePropertyChangeType int

const (
	PropertyUnknown            ResourcePropertyChangeType = 0
	PropertyAmbientTemperature ResourcePropertyChangeType = 1
	PropertyHeatSetPoint       ResourcePropertyChangeType = 2
	PropertyCoolSetPoint       ResourcePropertyChangeType = 3
	PropertyLightColor         ResourcePropertyChangeType = 4
)

// ParsePropertyChangeType normalizes a raw property-change code, falling
// back to PropertyUnknown for codes this library does not act on (e.g.
// IrrigationStatus).
func ParsePropertyChangeType(raw int) ResourcePropertyChangeType {
	switch ResourcePropertyChangeType(raw) {
	case PropertyAmbientTemperature, PropertyHeatSetPoint, PropertyCoolSetPoint, PropertyLightColor:
		return ResourcePropertyChangeType(raw)
	default:
		return PropertyUnknown
	}
}

// SupportedResourceEvents declares which events and property-changes a
// controller reacts to, the way a BaseController subclass lists
// _supported_resource_events for the WebSocket subscription it registers.
type SupportedResourceEvents struct {
	Events          []ResourceEventType
	PropertyChanges []ResourcePropertyChangeType
}

// Matches reports whether this declaration covers the given event type.
func (s SupportedResourceEvents) Matches(event ResourceEventType) bool {
	for _, e := range s.Events {
		if e == event {
			return true
		}
	}
	return false
}

// MatchesProperty reports whether this declaration covers the given
// property-change type.
func (s SupportedResourceEvents) MatchesProperty(prop ResourcePropertyChangeType) bool {
	for _, p := range s.PropertyChanges {
		if p == prop {
			return true
		}
	}
	return false
}
