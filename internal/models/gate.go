package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// GateState is the current open/closed state of a gate device.
type GateState int

const (
	GateUnknown GateState = 0
	GateOpen    GateState = 1
	GateClosed  GateState = 2
)

// GateAttributes are the typed attributes of a devices/gate resource.
type GateAttributes struct {
	BaseManagedDeviceAttributes

	State               GateState
	DesiredState        GateState
	SupportsRemoteClose bool
}

// Gate is a devices/gate resource.
type Gate struct {
	Device
	Attributes GateAttributes
}

// NewGate binds a raw resource into a typed Gate.
func NewGate(r jsonapi.Resource) Gate {
	attrs := GateAttributes{
		BaseManagedDeviceAttributes: bindBaseManaged(r),
		State:                       GateState(attrInt(r, "state")),
		DesiredState:                GateState(attrInt(r, "desired_state")),
		SupportsRemoteClose:         r.AttrBool("supports_remote_close"),
	}
	return Gate{Device: NewDevice(r), Attributes: attrs}
}
