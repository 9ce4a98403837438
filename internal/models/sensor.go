package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// SensorState is the reading of a contact/motion/environmental sensor.
type SensorState int

const (
	SensorUnknown       SensorState = -1
	SensorClosed        SensorState = 1
	SensorOpen          SensorState = 2
	SensorIdle          SensorState = 3
	SensorActive        SensorState = 4
	SensorDry           SensorState = 5
	SensorWet           SensorState = 6
	SensorFull          SensorState = 7
	SensorLow           SensorState = 8
	SensorOpenedClosed  SensorState = 9
	SensorIssue         SensorState = 10
	SensorOk            SensorState = 11
)

// SensorSubtype identifies the physical kind of sensor.
type SensorSubtype int

const (
	SensorSubtypeUnknown                  SensorSubtype = -1
	SensorSubtypeContact                  SensorSubtype = 1
	SensorSubtypeMotion                   SensorSubtype = 2
	SensorSubtypeSmokeDetector            SensorSubtype = 5
	SensorSubtypeFreezeSensor              SensorSubtype = 8
	SensorSubtypeCODetector                SensorSubtype = 6
	SensorSubtypePanicButton               SensorSubtype = 9
	SensorSubtypeFixedPanic                SensorSubtype = 10
	SensorSubtypeSiren                     SensorSubtype = 14
	SensorSubtypeGlassBreakDetector        SensorSubtype = 19
	SensorSubtypeContactShock              SensorSubtype = 52
	SensorSubtypePanelMotion               SensorSubtype = 89
	SensorSubtypePanelGlassBreakDetector   SensorSubtype = 83
	SensorSubtypePanelImageSensor          SensorSubtype = 68
	SensorSubtypeMobilePhone               SensorSubtype = 69
)

// ParseSensorSubtype normalizes a raw subtype int, falling back to unknown.
func ParseSensorSubtype(raw int) SensorSubtype {
	switch SensorSubtype(raw) {
	case SensorSubtypeContact, SensorSubtypeMotion, SensorSubtypeSmokeDetector, SensorSubtypeFreezeSensor,
		SensorSubtypeCODetector, SensorSubtypePanicButton, SensorSubtypeFixedPanic, SensorSubtypeSiren,
		SensorSubtypeGlassBreakDetector, SensorSubtypeContactShock, SensorSubtypePanelMotion,
		SensorSubtypePanelGlassBreakDetector, SensorSubtypePanelImageSensor, SensorSubtypeMobilePhone:
		return SensorSubtype(raw)
	default:
		return SensorSubtypeUnknown
	}
}

// IsMotionSensor reports whether this subtype is one of the motion-detecting
// kinds, which changes how open/close events map to sensor state.
func (s SensorSubtype) IsMotionSensor() bool {
	return s == SensorSubtypeMotion || s == SensorSubtypePanelMotion
}

// SensorAttributes are the typed attributes of a devices/sensor resource.
type SensorAttributes struct {
	BaseManagedDeviceAttributes

	State                    SensorState
	DesiredState             SensorState
	IsBypassed               bool
	IsFlexIO                 bool
	IsMonitoringEnabled      bool
	SupportsBypass           bool
	SupportsImmediateBypass  bool
	OpenClosedStatus         int
	DeviceType               SensorSubtype
}

// Sensor is a devices/sensor resource.
type Sensor struct {
	Device
	Attributes SensorAttributes
}

// NewSensor binds a raw resource into a typed Sensor.
func NewSensor(r jsonapi.Resource) Sensor {
	attrs := SensorAttributes{
		BaseManagedDeviceAttributes: bindBaseManaged(r),
		State:                       SensorState(attrInt(r, "state")),
		DesiredState:                SensorState(attrInt(r, "desired_state")),
		IsBypassed:                  r.AttrBool("is_bypassed"),
		IsFlexIO:                    r.AttrBool("is_flex_io"),
		IsMonitoringEnabled:         r.AttrBool("is_monitoring_enabled"),
		SupportsBypass:              r.AttrBool("supports_bypass"),
		SupportsImmediateBypass:     r.AttrBool("supports_immediate_bypass"),
		OpenClosedStatus:            attrInt(r, "open_closed_status"),
		DeviceType:                  ParseSensorSubtype(attrInt(r, "device_type")),
	}
	return Sensor{Device: NewDevice(r), Attributes: attrs}
}
