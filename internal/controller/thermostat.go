package controller

import (
	"context"
	"math"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// ThermostatSetState is a single requested change to a thermostat. Exactly
// one field should be set per call, mirroring the provider's own
// one-attribute-at-a-time command body.
type ThermostatSetState struct {
	State          *models.ThermostatState
	FanMode        *models.ThermostatFanMode
	FanDuration    int
	CoolSetpoint   *float64
	HeatSetpoint   *float64
	ScheduleMode   *models.ThermostatScheduleMode
	// TemperatureUnit counts toward the mutually-exclusive set but is never
	// sent to the provider: the original client accepts it and drops it on
	// the floor too.
	TemperatureUnit *models.TemperatureUnit
}

// ThermostatController manages devices/thermostat resources.
type ThermostatController struct {
	*Base[models.Thermostat]
	useCelsius func() bool
}

// NewThermostatController builds a ThermostatController bound to client
// and bus. useCelsius reports whether setpoint/temperature property
// changes should be converted from the provider's native Fahrenheit to
// Celsius before being stored, mirroring the auth identity's unit
// preference.
func NewThermostatController(client apiClient, bus *broker.Broker, log *cblog.Logger, useCelsius func() bool) *ThermostatController {
	c := &ThermostatController{useCelsius: useCelsius}
	cfg := Config[models.Thermostat]{
		ResourceType:  models.ResourceThermostat,
		BasePath:      "web/api/devices/thermostats",
		Bind:          models.NewThermostat,
		AttributesOf:  func(t models.Thermostat) any { return t.Attributes },
		ResourceRefOf: func(t models.Thermostat) jsonapi.Resource { return t.Resource },
		SupportedEvents: models.SupportedResourceEvents{
			Events: []models.ResourceEventType{
				models.EventThermostatOffset, models.EventThermostatModeChanged,
				models.EventThermostatFanModeChanged, models.EventThermostatSetPointChanged,
			},
			PropertyChanges: []models.ResourcePropertyChangeType{
				models.PropertyCoolSetPoint, models.PropertyHeatSetPoint, models.PropertyAmbientTemperature,
			},
		},
		EventHandler: c.handleEvent,
	}
	c.Base = New(cfg, client, bus, log)
	return c
}

// handleEvent applies thermostat-specific WebSocket mutations: mode changes
// arrive as the enum ordinal minus one, fan mode changes as the raw
// reported mode, offset changes verbatim, and setpoint/temperature property
// changes arrive in 1/100ths of a degree Fahrenheit and are converted to
// Celsius when the account's identity requests it.
func (c *ThermostatController) handleEvent(resource jsonapi.Resource, event WSEvent) jsonapi.Resource {
	if !event.HasValue {
		return resource
	}

	if !event.IsProperty {
		switch event.EventType {
		case models.EventThermostatModeChanged:
			state := int(event.Value) + 1
			resource.Attributes["state"] = float64(state)
			resource.Attributes["desired_state"] = float64(state)
		case models.EventThermostatFanModeChanged:
			resource.Attributes["fan_mode"] = event.Value
		case models.EventThermostatOffset:
			resource.Attributes["setpoint_offset"] = event.Value
		}
		return resource
	}

	adjusted := event.Value / 100
	if c.useCelsius != nil && c.useCelsius() {
		adjusted = math.Round(((adjusted-32)*5/9)*10) / 10
	}

	switch event.PropertyType {
	case models.PropertyCoolSetPoint:
		resource.Attributes["cool_setpoint"] = adjusted
		resource.Attributes["desired_cool_setpoint"] = adjusted
	case models.PropertyHeatSetPoint:
		resource.Attributes["heat_setpoint"] = adjusted
		resource.Attributes["desired_heat_setpoint"] = adjusted
	case models.PropertyAmbientTemperature:
		resource.Attributes["ambient_temp"] = adjusted
	}

	return resource
}

// SetState changes exactly one of a thermostat's mode, fan mode, cool
// setpoint, heat setpoint, or schedule mode.
func (c *ThermostatController) SetState(ctx context.Context, id string, change ThermostatSetState) error {
	if countThermostatAttribs(change) > 1 {
		return apierrors.NewUnsupportedOperation("only one thermostat attribute can be set at a time")
	}

	body := map[string]any{}

	switch {
	case change.State != nil:
		body["state"] = int(*change.State)
	case change.FanMode != nil:
		body["desiredFanMode"] = int(*change.FanMode)
		duration := change.FanDuration
		if *change.FanMode == models.FanModeAuto {
			duration = 0
		}
		body["desiredFanDuration"] = duration
	case change.CoolSetpoint != nil:
		body["desiredCoolSetpoint"] = *change.CoolSetpoint
	case change.HeatSetpoint != nil:
		body["desiredHeatSetpoint"] = *change.HeatSetpoint
	case change.ScheduleMode != nil:
		body["desiredScheduleMode"] = int(*change.ScheduleMode)
	case change.TemperatureUnit != nil:
		// No-op: the provider has no setState field for this.
	default:
		return apierrors.NewUnsupportedOperation("no thermostat attribute specified")
	}

	return c.SendCommand(ctx, id, "setState", body)
}

func countThermostatAttribs(change ThermostatSetState) int {
	n := 0
	if change.State != nil {
		n++
	}
	if change.FanMode != nil {
		n++
	}
	if change.CoolSetpoint != nil {
		n++
	}
	if change.HeatSetpoint != nil {
		n++
	}
	if change.ScheduleMode != nil {
		n++
	}
	if change.TemperatureUnit != nil {
		n++
	}
	return n
}
