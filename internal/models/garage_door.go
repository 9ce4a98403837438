package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// GarageDoorState is the current open/closed state of a garage door.
type GarageDoorState int

const (
	GarageDoorUnknown GarageDoorState = 0
	GarageDoorOpen    GarageDoorState = 1
	GarageDoorClosed  GarageDoorState = 2
	GarageDoorHidden  GarageDoorState = 3
)

// GarageDoorAttributes are the typed attributes of a devices/garage-door
// resource.
type GarageDoorAttributes struct {
	BaseManagedDeviceAttributes

	State        GarageDoorState
	DesiredState GarageDoorState
}

// GarageDoor is a devices/garage-door resource.
type GarageDoor struct {
	Device
	Attributes GarageDoorAttributes
}

// NewGarageDoor binds a raw resource into a typed GarageDoor.
func NewGarageDoor(r jsonapi.Resource) GarageDoor {
	attrs := GarageDoorAttributes{
		BaseManagedDeviceAttributes: bindBaseManaged(r),
		State:                       GarageDoorState(attrInt(r, "state")),
		DesiredState:                GarageDoorState(attrInt(r, "desired_state")),
	}
	return GarageDoor{Device: NewDevice(r), Attributes: attrs}
}
