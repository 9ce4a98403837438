package controller

import (
	"context"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// SystemController manages systems/system resources: the parent container
// grouping every partition and device on an account. It accepts only
// system-wide commands, never per-device ones, and reacts to no WebSocket
// events of its own.
type SystemController struct {
	*Base[models.System]
}

// NewSystemController builds a SystemController bound to client and bus.
func NewSystemController(client apiClient, bus *broker.Broker, log *cblog.Logger) *SystemController {
	cfg := Config[models.System]{
		ResourceType:  models.ResourceSystem,
		BasePath:      "web/api/systems/systems",
		Bind:          models.NewSystem,
		AttributesOf:  func(s models.System) any { return s.Attributes },
		ResourceRefOf: func(s models.System) jsonapi.Resource { return s.Resource },
	}
	return &SystemController{Base: New(cfg, client, bus, log)}
}

// StopAlarms silences every currently sounding alarm on the system.
func (c *SystemController) StopAlarms(ctx context.Context, systemID string) error {
	return c.SendCommand(ctx, systemID, "stopAlarms", nil)
}

// ClearSmokeSensorStatus resets a smoke sensor's alarm status, identified by
// smokeSensorID.
func (c *SystemController) ClearSmokeSensorStatus(ctx context.Context, systemID, smokeSensorID string) error {
	return c.SendCommand(ctx, systemID, "clearSmokeSensorStatus", map[string]any{"data": smokeSensorID})
}

// ClearAlarmsInMemoryTrouble sends the clearAlarmsInMemoryTrouble command,
// asking the provider to clear the system's alarms-in-memory trouble
// condition.
func (c *SystemController) ClearAlarmsInMemoryTrouble(ctx context.Context, systemID string) error {
	return c.SendCommand(ctx, systemID, "clearAlarmsInMemoryTrouble", nil)
}
