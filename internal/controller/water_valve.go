package controller

import (
	"context"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// WaterValveCommand is one of the verbs the provider accepts on a water
// valve resource's command endpoint.
type WaterValveCommand string

const (
	WaterValveCmdOpen  WaterValveCommand = "open"
	WaterValveCmdClose WaterValveCommand = "close"
)

var waterValveStateCommandMap = map[models.WaterValveState]WaterValveCommand{
	models.WaterValveOpen:   WaterValveCmdOpen,
	models.WaterValveClosed: WaterValveCmdClose,
}

// WaterValveController manages devices/water-valve resources.
type WaterValveController struct {
	*Base[models.WaterValve]
}

// NewWaterValveController builds a WaterValveController bound to client
// and bus.
func NewWaterValveController(client apiClient, bus *broker.Broker, log *cblog.Logger) *WaterValveController {
	cfg := Config[models.WaterValve]{
		ResourceType:  models.ResourceWaterValve,
		BasePath:      "web/api/devices/waterValves",
		Bind:          models.NewWaterValve,
		AttributesOf:  func(w models.WaterValve) any { return w.Attributes },
		ResourceRefOf: func(w models.WaterValve) jsonapi.Resource { return w.Resource },
		SupportedEvents: models.SupportedResourceEvents{
			Events: []models.ResourceEventType{models.EventOpened, models.EventClosed},
		},
		EventStateMap: map[models.ResourceEventType]int{
			models.EventOpened: int(models.WaterValveOpen),
			models.EventClosed: int(models.WaterValveClosed),
		},
	}
	return &WaterValveController{Base: New(cfg, client, bus, log)}
}

// Open opens a water valve.
func (c *WaterValveController) Open(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.WaterValveOpen)
}

// Close closes a water valve.
func (c *WaterValveController) Close(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.WaterValveClosed)
}

// SetState changes a water valve's open/closed state.
func (c *WaterValveController) SetState(ctx context.Context, id string, state models.WaterValveState) error {
	command, ok := waterValveStateCommandMap[state]
	if !ok {
		return apierrors.NewUnsupportedOperation("water valve state not implemented")
	}
	return c.SendCommand(ctx, id, string(command), nil)
}
