package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// LoadingState is the sentinel state value shared by every stateful device:
// the device is mid-transition and its real state is not yet known.
const LoadingState = -1

// Device is the common envelope every typed device model wraps: the
// underlying JSON:API resource plus the ids this library derives from its
// relationships.
type Device struct {
	Resource jsonapi.Resource
	ID       string
	SystemID string
	Name     string
}

// NewDevice builds the common envelope from a raw resource, pulling the
// owning system id out of the "system" relationship and the display name out
// of the "description" attribute, the way AdcDeviceResource.__post_init__
// does.
func NewDevice(r jsonapi.Resource) Device {
	systemID := ""
	if id, ok := r.HasOne("system"); ok {
		systemID = string(id.ID)
	}
	return Device{
		Resource: r,
		ID:       string(r.ID),
		SystemID: systemID,
		Name:     r.AttrString("description"),
	}
}

// BaseStatefulDeviceAttributes holds the fields every interactive device
// (partition, light, lock, thermostat, ...) shares, excluding State and
// DesiredState since each device type enumerates its own state values.
type BaseStatefulDeviceAttributes struct {
	BatteryLevelPct             *int
	CriticalBattery              bool
	LowBattery                   bool
	CanBeSaved                   bool
	CanConfirmStateChange        bool
	CanReceiveCommands           bool
	HasPermissionToChangeState   bool
	RemoteCommandsEnabled        bool
}

// CanChangeState reports whether the logged-in user is both permitted and
// remotely enabled to change this device's state.
func (a BaseStatefulDeviceAttributes) CanChangeState() bool {
	return a.HasPermissionToChangeState && a.RemoteCommandsEnabled
}

// BaseManagedDeviceAttributes extends BaseStatefulDeviceAttributes with the
// identification fields devices backed by a physical sensor/controller carry.
type BaseManagedDeviceAttributes struct {
	BaseStatefulDeviceAttributes

	HasState         bool
	IsMalfunctioning bool
	MacAddress       string
	Manufacturer     string
	DeviceModel      string
	DeviceModelID    int
}

// IsLoadingState reports whether a device's raw state integer is the shared
// loading sentinel.
func IsLoadingState(state int) bool { return state == LoadingState }

// IsInteractive reports whether a device is both state-changeable and not
// mid-transition.
func IsInteractive(canChangeState bool, state int) bool {
	return canChangeState && !IsLoadingState(state)
}

// IsRefreshingState reports whether a device is loading or its actual state
// has not yet caught up to its desired state.
func IsRefreshingState(state, desiredState int) bool {
	return IsLoadingState(state) || state != desiredState
}

func attrInt(r jsonapi.Resource, key string) int {
	v, ok := r.AttrFloat(key)
	if !ok {
		return 0
	}
	return int(v)
}

func attrIntPtr(r jsonapi.Resource, key string) *int {
	v, ok := r.AttrFloat(key)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}

func bindBaseStateful(r jsonapi.Resource) BaseStatefulDeviceAttributes {
	return BaseStatefulDeviceAttributes{
		BatteryLevelPct:            attrIntPtr(r, "battery_level_null"),
		CriticalBattery:            r.AttrBool("critical_battery"),
		LowBattery:                 r.AttrBool("low_battery"),
		CanBeSaved:                 r.AttrBool("can_be_saved"),
		CanConfirmStateChange:      r.AttrBool("can_confirm_state_change"),
		CanReceiveCommands:         r.AttrBool("can_receive_commands"),
		HasPermissionToChangeState: r.AttrBool("has_permission_to_change_state"),
		RemoteCommandsEnabled:      r.AttrBool("remote_commands_enabled"),
	}
}

func bindBaseManaged(r jsonapi.Resource) BaseManagedDeviceAttributes {
	return BaseManagedDeviceAttributes{
		BaseStatefulDeviceAttributes: bindBaseStateful(r),
		HasState:                     r.AttrBool("has_state"),
		IsMalfunctioning:             r.AttrBool("is_malfunctioning"),
		MacAddress:                   r.AttrString("mac_address"),
		Manufacturer:                 r.AttrString("manufacturer"),
		DeviceModel:                  r.AttrString("device_model"),
		DeviceModelID:                attrInt(r, "device_model_id"),
	}
}
