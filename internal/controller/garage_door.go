package controller

import (
	"context"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// GarageDoorCommand is one of the verbs the provider accepts on a garage
// door resource's command endpoint.
type GarageDoorCommand string

const (
	GarageDoorCmdOpen  GarageDoorCommand = "open"
	GarageDoorCmdClose GarageDoorCommand = "close"
)

var garageDoorStateCommandMap = map[models.GarageDoorState]GarageDoorCommand{
	models.GarageDoorOpen:   GarageDoorCmdOpen,
	models.GarageDoorClosed: GarageDoorCmdClose,
}

// GarageDoorController manages devices/garage-door resources.
type GarageDoorController struct {
	*Base[models.GarageDoor]
}

// NewGarageDoorController builds a GarageDoorController bound to client
// and bus.
func NewGarageDoorController(client apiClient, bus *broker.Broker, log *cblog.Logger) *GarageDoorController {
	cfg := Config[models.GarageDoor]{
		ResourceType:  models.ResourceGarageDoor,
		BasePath:      "web/api/devices/garageDoors",
		Bind:          models.NewGarageDoor,
		AttributesOf:  func(g models.GarageDoor) any { return g.Attributes },
		ResourceRefOf: func(g models.GarageDoor) jsonapi.Resource { return g.Resource },
		SupportedEvents: models.SupportedResourceEvents{
			Events: []models.ResourceEventType{models.EventOpened, models.EventClosed},
		},
		EventStateMap: map[models.ResourceEventType]int{
			models.EventOpened: int(models.GarageDoorOpen),
			models.EventClosed: int(models.GarageDoorClosed),
		},
	}
	return &GarageDoorController{Base: New(cfg, client, bus, log)}
}

// Open opens a garage door.
func (c *GarageDoorController) Open(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.GarageDoorOpen)
}

// Close closes a garage door.
func (c *GarageDoorController) Close(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.GarageDoorClosed)
}

// SetState changes a garage door's open/closed state.
func (c *GarageDoorController) SetState(ctx context.Context, id string, state models.GarageDoorState) error {
	command, ok := garageDoorStateCommandMap[state]
	if !ok {
		return apierrors.NewUnsupportedOperation("garage door state not implemented")
	}
	return c.SendCommand(ctx, id, string(command), nil)
}
