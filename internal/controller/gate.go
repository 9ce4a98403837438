package controller

import (
	"context"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// GateCommand is one of the verbs the provider accepts on a gate
// resource's command endpoint.
type GateCommand string

const (
	GateCmdOpen  GateCommand = "open"
	GateCmdClose GateCommand = "close"
)

var gateStateCommandMap = map[models.GateState]GateCommand{
	models.GateOpen:   GateCmdOpen,
	models.GateClosed: GateCmdClose,
}

// GateController manages devices/gate resources.
type GateController struct {
	*Base[models.Gate]
}

// NewGateController builds a GateController bound to client and bus.
func NewGateController(client apiClient, bus *broker.Broker, log *cblog.Logger) *GateController {
	cfg := Config[models.Gate]{
		ResourceType:  models.ResourceGate,
		BasePath:      "web/api/devices/gates",
		Bind:          models.NewGate,
		AttributesOf:  func(g models.Gate) any { return g.Attributes },
		ResourceRefOf: func(g models.Gate) jsonapi.Resource { return g.Resource },
		SupportedEvents: models.SupportedResourceEvents{
			Events: []models.ResourceEventType{models.EventOpened, models.EventClosed},
		},
		EventStateMap: map[models.ResourceEventType]int{
			models.EventOpened: int(models.GateOpen),
			models.EventClosed: int(models.GateClosed),
		},
	}
	return &GateController{Base: New(cfg, client, bus, log)}
}

// Open opens a gate.
func (c *GateController) Open(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.GateOpen)
}

// Close closes a gate.
func (c *GateController) Close(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.GateClosed)
}

// SetState changes a gate's open/closed state.
func (c *GateController) SetState(ctx context.Context, id string, state models.GateState) error {
	command, ok := gateStateCommandMap[state]
	if !ok {
		return apierrors.NewUnsupportedOperation("gate state not implemented")
	}
	return c.SendCommand(ctx, id, string(command), nil)
}
