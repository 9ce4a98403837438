package controller

import (
	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// WaterSensorController manages devices/water-sensor resources. Water
// sensors report wet/dry state only; they accept no commands.
type WaterSensorController struct {
	*Base[models.WaterSensor]
}

// NewWaterSensorController builds a WaterSensorController bound to client
// and bus.
func NewWaterSensorController(client apiClient, bus *broker.Broker, log *cblog.Logger) *WaterSensorController {
	cfg := Config[models.WaterSensor]{
		ResourceType:  models.ResourceWaterSensor,
		BasePath:      "web/api/devices/waterSensors",
		Bind:          models.NewWaterSensor,
		AttributesOf:  func(w models.WaterSensor) any { return w.Attributes },
		ResourceRefOf: func(w models.WaterSensor) jsonapi.Resource { return w.Resource },
		SupportedEvents: models.SupportedResourceEvents{
			Events: []models.ResourceEventType{models.EventOpened, models.EventClosed},
		},
		EventStateMap: map[models.ResourceEventType]int{
			models.EventOpened: int(models.SensorWet),
			models.EventClosed: int(models.SensorDry),
		},
	}
	return &WaterSensorController{Base: New(cfg, client, bus, log)}
}
