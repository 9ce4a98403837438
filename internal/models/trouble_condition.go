package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// TroubleConditionSeverity classifies how urgent a trouble condition is.
type TroubleConditionSeverity int

const (
	TroubleSeverityUnknown TroubleConditionSeverity = 0
	TroubleSeverityAlarm   TroubleConditionSeverity = 1
	TroubleSeverityIssue   TroubleConditionSeverity = 2
)

// TroubleConditionType identifies the category of fault being reported.
type TroubleConditionType int

const (
	TroubleTypeUnknown                               TroubleConditionType = -1
	TroubleTypeSensorMalfunction                     TroubleConditionType = 12
	TroubleTypeACFailure                             TroubleConditionType = 14
	TroubleTypeSensorLowBattery                       TroubleConditionType = 15
	TroubleTypePanelLowBattery                        TroubleConditionType = 16
	TroubleTypePanelNotResponding                     TroubleConditionType = 17
	TroubleTypeCameraNotReachable                     TroubleConditionType = 21
	TroubleTypeWaterAlert                             TroubleConditionType = 50
	TroubleTypeAlarmInMemory                          TroubleConditionType = 53
	TroubleTypeSmokeSensorReset                       TroubleConditionType = 57
	TroubleTypeBatteryCharging                        TroubleConditionType = 69
	TroubleTypeSmallLeak                              TroubleConditionType = 95
	TroubleTypeMediumLeak                             TroubleConditionType = 96
	TroubleTypeLargeLeak                              TroubleConditionType = 97
	TroubleTypeSevereHVACAlert                        TroubleConditionType = 108
	TroubleTypeVideoDeviceHighTemperatureCutoff        TroubleConditionType = 176
	TroubleTypeVideoDeviceLowTemperatureCutoff         TroubleConditionType = 177
	TroubleTypeVideoDeviceLowVoltageShutdown           TroubleConditionType = 178
	TroubleTypeSensorNotResponding                     TroubleConditionType = 190
	TroubleTypeVideoDeviceLowBatteryAndLowTempAlert    TroubleConditionType = 206
)

// ParseTroubleConditionType normalizes a raw type int, falling back to
// unknown for any value this library doesn't recognize.
func ParseTroubleConditionType(raw int) TroubleConditionType {
	switch TroubleConditionType(raw) {
	case TroubleTypeSensorMalfunction, TroubleTypeACFailure, TroubleTypeSensorLowBattery,
		TroubleTypePanelLowBattery, TroubleTypePanelNotResponding, TroubleTypeCameraNotReachable,
		TroubleTypeWaterAlert, TroubleTypeAlarmInMemory, TroubleTypeSmokeSensorReset,
		TroubleTypeBatteryCharging, TroubleTypeSmallLeak, TroubleTypeMediumLeak, TroubleTypeLargeLeak,
		TroubleTypeSevereHVACAlert, TroubleTypeVideoDeviceHighTemperatureCutoff,
		TroubleTypeVideoDeviceLowTemperatureCutoff, TroubleTypeVideoDeviceLowVoltageShutdown,
		TroubleTypeSensorNotResponding, TroubleTypeVideoDeviceLowBatteryAndLowTempAlert:
		return TroubleConditionType(raw)
	default:
		return TroubleTypeUnknown
	}
}

// TroubleConditionSubtype further refines TroubleConditionType, mostly to
// identify which device family a malfunction or incompatibility affects.
type TroubleConditionSubtype int

const (
	TroubleSubtypeUnknown                                  TroubleConditionSubtype = -1
	TroubleSubtypeNone                                     TroubleConditionSubtype = 0
	TroubleSubtypeSensorMalfunctionGeoServices              TroubleConditionSubtype = 1
	TroubleSubtypeSensorMalfunctionLiftMaster                TroubleConditionSubtype = 2
	TroubleSubtypeSensorMalfunctionZWave                     TroubleConditionSubtype = 3
	TroubleSubtypeSensorMalfunctionLutron                    TroubleConditionSubtype = 4
	TroubleSubtypeSensorMalfunctionSensor                    TroubleConditionSubtype = 5
	TroubleSubtypeSensorMalfunctionSonos                     TroubleConditionSubtype = 6
	TroubleSubtypeSensorMalfunctionCarConnector               TroubleConditionSubtype = 7
	TroubleSubtypeIncompatibleDeviceADCSmartThermostat        TroubleConditionSubtype = 8
	TroubleSubtypeIncompatibleDeviceImageSensor               TroubleConditionSubtype = 9
	TroubleSubtypeIncompatibleDeviceKwikset                   TroubleConditionSubtype = 10
	TroubleSubtypeIncompatibleDeviceQuickbox                  TroubleConditionSubtype = 11
	TroubleSubtypeIncompatibleDeviceRemoteTemperatureSensor   TroubleConditionSubtype = 12
	TroubleSubtypeIncompatibleDeviceSchlage                   TroubleConditionSubtype = 13
	TroubleSubtypeIncompatibleDeviceStelpro                   TroubleConditionSubtype = 14
	TroubleSubtypeIncompatibleDeviceTwoWayTalkingTouchScreen  TroubleConditionSubtype = 15
	TroubleSubtypeIncompatibleDeviceWestinghouse               TroubleConditionSubtype = 16
	TroubleSubtypeIncompatibleDeviceYale                       TroubleConditionSubtype = 17
	TroubleSubtypeIncompatibleDeviceZWaveGarage                TroubleConditionSubtype = 18
	TroubleSubtypeSensorLowBatteryCarConnector                 TroubleConditionSubtype = 19
	TroubleSubtypeSensorTamperCarConnector                     TroubleConditionSubtype = 20
	TroubleSubtypeSensorTamperContactSensor                    TroubleConditionSubtype = 21
	TroubleSubtypeSensorTamperMotionSensor                     TroubleConditionSubtype = 22
	TroubleSubtypeSensorTamperImageSensor                      TroubleConditionSubtype = 23
	TroubleSubtypeControllerPowerFaultAero                     TroubleConditionSubtype = 24
	TroubleSubtypeControllerPowerFaultMercury                  TroubleConditionSubtype = 25
	TroubleSubtypePanelTamperAlarmHub                          TroubleConditionSubtype = 26
	TroubleSubtypeSecureEnrollmentFailedCritical               TroubleConditionSubtype = 27
	TroubleSubtypeSensorMalfunctionAccessPoint                 TroubleConditionSubtype = 28
	TroubleSubtypeIncompatibleDeviceIQLinearGarage             TroubleConditionSubtype = 29
	TroubleSubtypeIncompatiblePanelVersionIQWifi6              TroubleConditionSubtype = 30
	TroubleSubtypeSensorLowBatteryRechargeableVideoDevice      TroubleConditionSubtype = 31
	TroubleSubtypeSensorLowBatteryCriticalRechargeableVideo     TroubleConditionSubtype = 32
	TroubleSubtypeBroadbandCommFailureGunshotSensor            TroubleConditionSubtype = 33
	TroubleSubtypeCellCommFailureGunshotSensor                 TroubleConditionSubtype = 34
	TroubleSubtypeCameraUnexpectedlyNotRecordingSVR            TroubleConditionSubtype = 35
	TroubleSubtypeCameraUnexpectedlyNotRecordingOnboard        TroubleConditionSubtype = 36
	TroubleSubtypeCameraUnexpectedlyNotRecordingSVRAndOnboard  TroubleConditionSubtype = 37
)

// ParseTroubleConditionSubtype normalizes a raw subtype int, falling back to
// unknown for any value this library doesn't recognize.
func ParseTroubleConditionSubtype(raw int) TroubleConditionSubtype {
	if raw >= int(TroubleSubtypeNone) && raw <= int(TroubleSubtypeCameraUnexpectedlyNotRecordingSVRAndOnboard) {
		return TroubleConditionSubtype(raw)
	}
	return TroubleSubtypeUnknown
}

// TroubleConditionAttributes are the typed attributes of a
// troubleConditions/trouble-condition resource: a diagnostic entry, not a
// controllable device, so it carries no commands.
type TroubleConditionAttributes struct {
	Severity              TroubleConditionSeverity
	TroubleConditionType  TroubleConditionType
	TroubleConditionSub   TroubleConditionSubtype
	DeviceID              int
	EmberDeviceID         string
	CanBeMutedOrReset     bool
}

// TroubleCondition is a troubleConditions/trouble-condition resource.
type TroubleCondition struct {
	Device
	Attributes TroubleConditionAttributes
}

// NewTroubleCondition binds a raw resource into a typed TroubleCondition.
func NewTroubleCondition(r jsonapi.Resource) TroubleCondition {
	attrs := TroubleConditionAttributes{
		Severity:             TroubleConditionSeverity(attrInt(r, "severity")),
		TroubleConditionType: ParseTroubleConditionType(attrInt(r, "trouble_condition_type")),
		TroubleConditionSub:  ParseTroubleConditionSubtype(attrInt(r, "trouble_condition_sub_type")),
		DeviceID:             attrInt(r, "device_id"),
		EmberDeviceID:        r.AttrString("ember_device_id"),
		CanBeMutedOrReset:    r.AttrBool("can_be_muted_or_reset"),
	}
	return TroubleCondition{Device: NewDevice(r), Attributes: attrs}
}
