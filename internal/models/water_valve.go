package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// WaterValveState is the current open/closed state of a water valve.
type WaterValveState int

const (
	WaterValveUnknown WaterValveState = 0
	WaterValveOpen    WaterValveState = 1
	WaterValveClosed  WaterValveState = 2
)

// WaterValveAttributes are the typed attributes of a devices/water-valve
// resource.
type WaterValveAttributes struct {
	BaseManagedDeviceAttributes

	State        WaterValveState
	DesiredState WaterValveState
}

// WaterValve is a devices/water-valve resource.
type WaterValve struct {
	Device
	Attributes WaterValveAttributes
}

// NewWaterValve binds a raw resource into a typed WaterValve.
func NewWaterValve(r jsonapi.Resource) WaterValve {
	attrs := WaterValveAttributes{
		BaseManagedDeviceAttributes: bindBaseManaged(r),
		State:                       WaterValveState(attrInt(r, "state")),
		DesiredState:                WaterValveState(attrInt(r, "desired_state")),
	}
	return WaterValve{Device: NewDevice(r), Attributes: attrs}
}
