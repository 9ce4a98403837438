package controller

import (
	"context"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// LightCommand is one of the verbs the provider accepts on a light
// resource's command endpoint.
type LightCommand string

const (
	LightCmdOn  LightCommand = "turnOn"
	LightCmdOff LightCommand = "turnOff"
)

// LightController manages devices/light resources.
type LightController struct {
	*Base[models.Light]
}

// NewLightController builds a LightController bound to client and bus.
func NewLightController(client apiClient, bus *broker.Broker, log *cblog.Logger) *LightController {
	cfg := Config[models.Light]{
		ResourceType:  models.ResourceLight,
		BasePath:      "web/api/devices/lights",
		Bind:          models.NewLight,
		AttributesOf:  func(l models.Light) any { return l.Attributes },
		ResourceRefOf: func(l models.Light) jsonapi.Resource { return l.Resource },
		SupportedEvents: models.SupportedResourceEvents{
			Events:          []models.ResourceEventType{models.EventLightTurnedOff, models.EventLightTurnedOn, models.EventSwitchLevelChanged},
			PropertyChanges: []models.ResourcePropertyChangeType{models.PropertyLightColor},
		},
		EventStateMap: map[models.ResourceEventType]int{
			models.EventLightTurnedOff: int(models.LightOff),
			models.EventLightTurnedOn:  int(models.LightOn),
		},
		EventHandler: handleLightEvent,
	}
	return &LightController{Base: New(cfg, client, bus, log)}
}

// handleLightEvent derives light state from the reported light level: be
// careful here, a level of exactly 0 is a meaningful "off" value, not an
// absent one, so the event's HasValue flag (not truthiness) gates this.
func handleLightEvent(resource jsonapi.Resource, event WSEvent) jsonapi.Resource {
	if event.IsProperty || event.EventType != models.EventSwitchLevelChanged || !event.HasValue {
		return resource
	}

	state := models.LightOff
	if event.Value > 0 {
		state = models.LightOn
	}

	resource.Attributes["light_level"] = event.Value
	resource.Attributes["state"] = float64(state)
	resource.Attributes["desired_state"] = float64(state)
	return resource
}

// TurnOn turns a light on.
func (c *LightController) TurnOn(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.LightOn, 0)
}

// TurnOff turns a light off.
func (c *LightController) TurnOff(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.LightOff, 0)
}

// SetBrightness turns a light on and sets its brightness (0-100). Only
// dimmer-capable lights accept a nonzero brightness.
func (c *LightController) SetBrightness(ctx context.Context, id string, brightness int) error {
	return c.SetState(ctx, id, models.LightOn, brightness)
}

// SetState changes a light's on/off state and, optionally, its brightness.
func (c *LightController) SetState(ctx context.Context, id string, state models.LightState, brightness int) error {
	var command LightCommand
	switch state {
	case models.LightOn:
		command = LightCmdOn
	case models.LightOff:
		command = LightCmdOff
	default:
		return apierrors.NewUnsupportedOperation("light state not implemented")
	}

	body := map[string]any{}
	if brightness > 0 {
		light, ok := c.Get(id)
		if !ok {
			return apierrors.NewUnknownDevice(id)
		}
		if !light.Attributes.IsDimmer {
			return apierrors.NewUnsupportedOperation("light does not support brightness")
		}
		body["dimmerLevel"] = brightness
	}

	return c.SendCommand(ctx, id, string(command), body)
}
