package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// LockState is the current locked/unlocked state of a lock device.
type LockState int

const (
	LockUnknown  LockState = 0
	LockLocked   LockState = 1
	LockUnlocked LockState = 2
	LockHidden   LockState = 3
)

// LockAttributes are the typed attributes of a devices/lock resource.
type LockAttributes struct {
	BaseManagedDeviceAttributes

	State                LockState
	DesiredState         LockState
	SupportsLatchControl bool
}

// Lock is a devices/lock resource.
type Lock struct {
	Device
	Attributes LockAttributes
}

// NewLock binds a raw resource into a typed Lock.
func NewLock(r jsonapi.Resource) Lock {
	attrs := LockAttributes{
		BaseManagedDeviceAttributes: bindBaseManaged(r),
		State:                       LockState(attrInt(r, "state")),
		DesiredState:                LockState(attrInt(r, "desired_state")),
		SupportsLatchControl:        r.AttrBool("supports_latch_control"),
	}
	return Lock{Device: NewDevice(r), Attributes: attrs}
}
