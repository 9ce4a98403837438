package models

import (
	"testing"

	"github.com/codespace-operator/adcgo/internal/jsonapi"
)

func TestNewLock(t *testing.T) {
	resource := jsonapi.Resource{
		ResourceIdentifier: jsonapi.ResourceIdentifier{Type: "devices/lock", ID: "123"},
		Attributes: map[string]any{
			"description":            "Front Door",
			"state":                  float64(LockLocked),
			"desired_state":          float64(LockLocked),
			"supports_latch_control": true,
		},
	}

	lock := NewLock(resource)

	if lock.ID != "123" {
		t.Errorf("ID = %q, want 123", lock.ID)
	}
	if lock.Name != "Front Door" {
		t.Errorf("Name = %q, want Front Door", lock.Name)
	}
	if lock.Attributes.State != LockLocked {
		t.Errorf("State = %v, want LockLocked", lock.Attributes.State)
	}
	if !lock.Attributes.SupportsLatchControl {
		t.Error("SupportsLatchControl = false, want true")
	}
}

func TestNewLock_DefaultsWhenAttributesMissing(t *testing.T) {
	resource := jsonapi.Resource{
		ResourceIdentifier: jsonapi.ResourceIdentifier{Type: "devices/lock", ID: "456"},
	}

	lock := NewLock(resource)

	if lock.Attributes.State != LockUnknown {
		t.Errorf("State = %v, want LockUnknown", lock.Attributes.State)
	}
	if lock.Attributes.SupportsLatchControl {
		t.Error("SupportsLatchControl = true, want false")
	}
}
