package wsclient

import (
	"testing"

	"github.com/codespace-operator/adcgo/internal/models"
)

func TestClassifyFrame_EventMessage(t *testing.T) {
	raw := []byte(`{
		"unit_id": "unit-1",
		"device_id": 42,
		"event_type": 10,
		"event_value": 1,
		"qstring_for_extra_data": ""
	}`)

	msg, ok := classifyFrame(raw)
	if !ok {
		t.Fatal("classifyFrame returned ok=false for a well-formed event frame")
	}

	if msg.DeviceID != "unit-1-42" {
		t.Errorf("DeviceID = %q, want unit-1-42", msg.DeviceID)
	}
	if msg.IsProperty {
		t.Error("IsProperty = true, want false")
	}
	if models.ResourceEventType(msg.Subtype) != models.EventArmedAway {
		t.Errorf("Subtype = %v, want EventArmedAway", msg.Subtype)
	}
	if !msg.HasValue || msg.Value != 1 {
		t.Errorf("Value = %v (HasValue=%v), want 1 (true)", msg.Value, msg.HasValue)
	}
}

func TestClassifyFrame_PropertyChangeMessage(t *testing.T) {
	raw := []byte(`{
		"unit_id": "unit-1",
		"device_id": 7,
		"property": 3,
		"property_value": 7250
	}`)

	msg, ok := classifyFrame(raw)
	if !ok {
		t.Fatal("classifyFrame returned ok=false for a well-formed property frame")
	}

	if !msg.IsProperty {
		t.Error("IsProperty = false, want true")
	}
	if models.ResourcePropertyChangeType(msg.PropertySubtype) != models.PropertyCoolSetPoint {
		t.Errorf("PropertySubtype = %v, want PropertyCoolSetPoint", msg.PropertySubtype)
	}
	if msg.Value != 7250 {
		t.Errorf("Value = %v, want 7250", msg.Value)
	}
}

func TestClassifyFrame_DiscardsGeofenceCrossing(t *testing.T) {
	raw := []byte(`{"unit_id": "unit-1", "device_id": 1, "fence_id": "f1", "is_inside_now": true}`)

	if _, ok := classifyFrame(raw); ok {
		t.Error("classifyFrame should discard geofence-crossing frames")
	}
}

func TestClassifyFrame_DiscardsMonitoringEvent(t *testing.T) {
	raw := []byte(`{"unit_id": "unit-1", "device_id": 1, "event_type": 1, "correlated_event_id": "abc"}`)

	if _, ok := classifyFrame(raw); ok {
		t.Error("classifyFrame should discard monitoring-event frames")
	}
}

func TestClassifyFrame_DiscardsStatusUpdate(t *testing.T) {
	raw := []byte(`{"unit_id": "unit-1", "device_id": 1, "new_state": 2, "flag_mask": 4}`)

	if _, ok := classifyFrame(raw); ok {
		t.Error("classifyFrame should discard status-update frames")
	}
}

func TestClassifyFrame_UnrecognizedShape(t *testing.T) {
	raw := []byte(`{"unit_id": "unit-1", "device_id": 1, "something_else": true}`)

	if _, ok := classifyFrame(raw); ok {
		t.Error("classifyFrame should not classify an unrecognized shape")
	}
}

func TestReconnectWait_BoundedByMax(t *testing.T) {
	for attempts := 1; attempts <= maxConnectionAttempts; attempts++ {
		wait := reconnectWait(attempts)
		if wait < 0 || wait > maxReconnectWaitS {
			t.Errorf("reconnectWait(%d) = %d, want within [0, %d]", attempts, wait, maxReconnectWaitS)
		}
	}
}
