package controller

import (
	"context"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// LockCommand is one of the verbs the provider accepts on a lock resource's
// command endpoint.
type LockCommand string

const (
	LockCmdLock   LockCommand = "lock"
	LockCmdUnlock LockCommand = "unlock"
)

var lockStateCommandMap = map[models.LockState]LockCommand{
	models.LockLocked:   LockCmdLock,
	models.LockUnlocked: LockCmdUnlock,
}

// LockController manages devices/lock resources.
type LockController struct {
	*Base[models.Lock]
}

// NewLockController builds a LockController bound to client and bus.
func NewLockController(client apiClient, bus *broker.Broker, log *cblog.Logger) *LockController {
	cfg := Config[models.Lock]{
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
	return &LockController{Base: New(cfg, client, bus, log)}
}

// Lock locks a lock.
func (c *LockController) Lock(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.LockLocked)
}

// Unlock unlocks a lock.
func (c *LockController) Unlock(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.LockUnlocked)
}

// SetState changes a lock's locked/unlocked state.
func (c *LockController) SetState(ctx context.Context, id string, state models.LockState) error {
	command, ok := lockStateCommandMap[state]
	if !ok {
		return apierrors.NewUnsupportedOperation("lock state not implemented")
	}
	return c.SendCommand(ctx, id, string(command), nil)
}
