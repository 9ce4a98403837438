package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// ThermostatState is the current HVAC mode.
type ThermostatState int

const (
	ThermostatUnknown ThermostatState = 0
	ThermostatOff     ThermostatState = 1
	ThermostatHeat    ThermostatState = 2
	ThermostatCool    ThermostatState = 3
	ThermostatAuto    ThermostatState = 4
	ThermostatAuxHeat ThermostatState = 5
)

// ThermostatReportedFanMode is the raw fan mode as the server reports it.
type ThermostatReportedFanMode int

const (
	FanAutoLow    ThermostatReportedFanMode = 0
	FanOnLow      ThermostatReportedFanMode = 1
	FanAutoHigh   ThermostatReportedFanMode = 2
	FanOnHigh     ThermostatReportedFanMode = 3
	FanAutoMedium ThermostatReportedFanMode = 4
	FanOnMedium   ThermostatReportedFanMode = 5
	FanCirculate  ThermostatReportedFanMode = 6
	FanHumidity   ThermostatReportedFanMode = 7
)

// ThermostatFanMode is the user-facing, simplified fan mode derived from the
// reported fan mode.
type ThermostatFanMode int

const (
	FanModeUnknown   ThermostatFanMode = -1
	FanModeAuto      ThermostatFanMode = 0
	FanModeOn        ThermostatFanMode = 1
	FanModeCirculate ThermostatFanMode = 2
)

// ThermostatScheduleMode is the source driving the thermostat's schedule.
type ThermostatScheduleMode int

const (
	ScheduleManual ThermostatScheduleMode = 0
	ScheduleFixed  ThermostatScheduleMode = 1
	ScheduleSmart  ThermostatScheduleMode = 2
)

// TemperatureUnit is the unit a setpoint is expressed in.
type TemperatureUnit int

const (
	TempFahrenheit TemperatureUnit = 1
	TempCelsius    TemperatureUnit = 2
	TempKelvin     TemperatureUnit = 3
)

// TemperatureDeviceAttributes are fields shared by any device that reports an
// ambient temperature reading (currently only thermostats).
type TemperatureDeviceAttributes struct {
	BaseManagedDeviceAttributes

	AmbientTemp      float64
	HasRTSIssue      bool
	HumidityLevel    int
	IsPaired         bool
	SupportsHumidity bool
}

// ThermostatAttributes are the typed attributes of a devices/thermostat
// resource.
type ThermostatAttributes struct {
	TemperatureDeviceAttributes

	State                            ThermostatState
	DesiredState                     ThermostatState
	AutoSetpointBuffer               float64
	AwayCoolSetpoint                 float64
	AwayHeatSetpoint                 float64
	CoolSetpoint                     float64
	DesiredCoolSetpoint              float64
	DesiredFanMode                   ThermostatReportedFanMode
	DesiredHeatSetpoint              float64
	FanDuration                      int
	FanMode                          ThermostatReportedFanMode
	ForwardingAmbientTemp            float64
	HasPendingSetpointChange         bool
	HasPendingTempModeChange         bool
	HeatSetpoint                     float64
	InferredState                    string
	IsControlled                     bool
	IsPoolController                 bool
	MaxAuxHeatSetpoint               float64
	MaxCoolSetpoint                  float64
	MaxHeatSetpoint                  float64
	MinAuxHeatSetpoint               float64
	MinCoolSetpoint                  float64
	MinHeatSetpoint                  float64
	RequiresSetup                    bool
	ScheduleMode                     string
	SetpointOffset                   float64
	SupportedFanDurations            []int
	SupportsAutoMode                 bool
	SupportsAuxHeatMode              bool
	SupportsCirculateFanModeAlways   bool
	SupportsCirculateFanModeWhenOff  bool
	SupportsCoolMode                 bool
	SupportsFanMode                  bool
	SupportsHeatMode                 bool
	SupportsIndefiniteFanOn          bool
	SupportsOffMode                  bool
	SupportsSchedules                bool
	SupportsSetpoints                bool
}

// HasDirtySetpoint reports whether a setpoint or mode change is pending.
func (a ThermostatAttributes) HasDirtySetpoint() bool {
	return a.HasPendingSetpointChange || a.HasPendingTempModeChange
}

// SimplifiedFanMode derives the simplified user-facing fan mode from
// DesiredFanMode.
func (a ThermostatAttributes) SimplifiedFanMode() ThermostatFanMode {
	switch a.DesiredFanMode {
	case FanAutoLow, FanAutoMedium:
		return FanModeAuto
	case FanOnLow, FanOnMedium, FanOnHigh:
		return FanModeOn
	case FanCirculate:
		return FanModeCirculate
	default:
		return FanModeUnknown
	}
}

// ThermostatModel describes a known thermostat hardware model.
type ThermostatModel struct {
	Manufacturer string
	Model        string
}

// ThermostatModels maps deviceModelId to known hardware, the way
// THERMOSTAT_MODELS resolves a display name when the server doesn't supply
// a device_model string directly.
var ThermostatModels = map[int]ThermostatModel{
	4293:  {Manufacturer: "Honeywell", Model: "T6 Pro"},
	10023: {Manufacturer: "ecobee", Model: "ecobee3 lite"},
}

// Thermostat is a devices/thermostat resource.
type Thermostat struct {
	Device
	Attributes ThermostatAttributes
}

func floatAttr(r jsonapi.Resource, key string) float64 {
	v, _ := r.AttrFloat(key)
	return v
}

func intSliceAttr(r jsonapi.Resource, key string) []int {
	arr, ok := r.Attributes[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(arr))
	for _, v := range arr {
		if f, ok := v.(float64); ok {
			out = append(out, int(f))
		}
	}
	return out
}

// NewThermostat binds a raw resource into a typed Thermostat, resolving the
// display model from ThermostatModels when the server omits device_model.
func NewThermostat(r jsonapi.Resource) Thermostat {
	base := bindBaseManaged(r)
	if base.DeviceModel == "" {
		if m, ok := ThermostatModels[base.DeviceModelID]; ok {
			base.DeviceModel = m.Model
			if base.Manufacturer == "" {
				base.Manufacturer = m.Manufacturer
			}
		}
	}

	attrs := ThermostatAttributes{
		TemperatureDeviceAttributes: TemperatureDeviceAttributes{
			BaseManagedDeviceAttributes: base,
			AmbientTemp:                 floatAttr(r, "ambient_temp"),
			HasRTSIssue:                 r.AttrBool("has_rts_issue"),
			HumidityLevel:               attrInt(r, "humidity_level"),
			IsPaired:                    r.AttrBool("is_paired"),
			SupportsHumidity:            r.AttrBool("supports_humidity"),
		},
		State:                           ThermostatState(attrInt(r, "state")),
		DesiredState:                    ThermostatState(attrInt(r, "desired_state")),
		AutoSetpointBuffer:              floatAttr(r, "auto_setpoint_buffer"),
		AwayCoolSetpoint:                floatAttr(r, "away_cool_setpoint"),
		AwayHeatSetpoint:                floatAttr(r, "away_heat_setpoint"),
		CoolSetpoint:                    floatAttr(r, "cool_setpoint"),
		DesiredCoolSetpoint:             floatAttr(r, "desired_cool_setpoint"),
		DesiredFanMode:                  ThermostatReportedFanMode(attrInt(r, "desired_fan_mode")),
		DesiredHeatSetpoint:             floatAttr(r, "desired_heat_setpoint"),
		FanDuration:                     attrInt(r, "fan_duration"),
		FanMode:                         ThermostatReportedFanMode(attrInt(r, "fan_mode")),
		ForwardingAmbientTemp:           floatAttr(r, "forwarding_ambient_temp"),
		HasPendingSetpointChange:        r.AttrBool("has_pending_setpoint_change"),
		HasPendingTempModeChange:        r.AttrBool("has_pending_temp_mode_change"),
		HeatSetpoint:                    floatAttr(r, "heat_setpoint"),
		InferredState:                   r.AttrString("inferred_state"),
		IsControlled:                    r.AttrBool("is_controlled"),
		IsPoolController:                r.AttrBool("is_pool_controller"),
		MaxAuxHeatSetpoint:              floatAttr(r, "max_aux_heat_setpoint"),
		MaxCoolSetpoint:                 floatAttr(r, "max_cool_setpoint"),
		MaxHeatSetpoint:                 floatAttr(r, "max_heat_setpoint"),
		MinAuxHeatSetpoint:              floatAttr(r, "min_aux_heat_setpoint"),
		MinCoolSetpoint:                 floatAttr(r, "min_cool_setpoint"),
		MinHeatSetpoint:                 floatAttr(r, "min_heat_setpoint"),
		RequiresSetup:                   r.AttrBool("requires_setup"),
		ScheduleMode:                    r.AttrString("schedule_mode"),
		SetpointOffset:                  floatAttr(r, "setpoint_offset"),
		SupportedFanDurations:           intSliceAttr(r, "supported_fan_durations"),
		SupportsAutoMode:                r.AttrBool("supports_auto_mode"),
		SupportsAuxHeatMode:             r.AttrBool("supports_aux_heat_mode"),
		SupportsCirculateFanModeAlways:  r.AttrBool("supports_circulate_fan_mode_always"),
		SupportsCirculateFanModeWhenOff: r.AttrBool("supports_circulate_fan_mode_when_off"),
		SupportsCoolMode:                r.AttrBool("supports_cool_mode"),
		SupportsFanMode:                 r.AttrBool("supports_fan_mode"),
		SupportsHeatMode:                r.AttrBool("supports_heat_mode"),
		SupportsIndefiniteFanOn:         r.AttrBool("supports_indefinite_fan_on"),
		SupportsOffMode:                 r.AttrBool("supports_off_mode"),
		SupportsSchedules:               r.AttrBool("supports_schedules"),
		SupportsSetpoints:               r.AttrBool("supports_setpoints"),
	}
	return Thermostat{Device: NewDevice(r), Attributes: attrs}
}
