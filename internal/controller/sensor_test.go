package controller

import (
	"testing"

	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

func TestHandleSensorEvent_DoorLeftOpenRestoralAlwaysClosesEvenForMotion(t *testing.T) {
	resource := jsonapi.Resource{
		Attributes: map[string]any{"device_type": float64(models.SensorSubtypeMotion)},
	}
	event := WSEvent{EventType: models.EventDoorLeftOpenRestoral, HasValue: true}

	got := handleSensorEvent(resource, event)

	if v, _ := got.AttrFloat("state"); models.SensorState(v) != models.SensorClosed {
		t.Errorf("state = %v, want SensorClosed even for a motion sensor", v)
	}
}

func TestHandleSensorEvent_ClosedUsesIdleForMotionSensors(t *testing.T) {
	resource := jsonapi.Resource{
		Attributes: map[string]any{"device_type": float64(models.SensorSubtypeMotion)},
	}
	event := WSEvent{EventType: models.EventClosed, HasValue: true}

	got := handleSensorEvent(resource, event)

	if v, _ := got.AttrFloat("state"); models.SensorState(v) != models.SensorIdle {
		t.Errorf("state = %v, want SensorIdle for a motion sensor on EventClosed", v)
	}
}
