package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// LightState is the on/off/dimming state of a light device.
type LightState int

const (
	LightOffline     LightState = 0
	LightNoState     LightState = 1
	LightOn          LightState = 2
	LightOff         LightState = 3
	LightLevelChange LightState = 4
)

// LightColorFormat identifies how HexColor should be interpreted.
type LightColorFormat int

const (
	LightColorNotSet     LightColorFormat = 0
	LightColorRGBW       LightColorFormat = 1
	LightColorRGB        LightColorFormat = 2
	LightColorWarmToCool LightColorFormat = 3
	LightColorHSV        LightColorFormat = 4
)

// LightAttributes are the typed attributes of a devices/light resource.
type LightAttributes struct {
	BaseManagedDeviceAttributes

	State                           LightState
	DesiredState                    LightState
	CanEnableRemoteCommands         bool
	CanEnableStateTracking          bool
	HexColor                        string
	IsDimmer                        bool
	LightColorFormat                LightColorFormat
	LightLevel                      int
	PercentWarmth                   int
	StateTrackingEnabled            bool
	SupportsRGBColorControl         bool
	SupportsWhiteLightColorControl  bool
	ShouldUpdateMultiLevelState     bool
}

// SupportsColorControl reports whether the light supports any color control.
func (a LightAttributes) SupportsColorControl() bool {
	return a.SupportsRGBColorControl || a.SupportsWhiteLightColorControl
}

// Light is a devices/light resource.
type Light struct {
	Device
	Attributes LightAttributes
}

// NewLight binds a raw resource into a typed Light.
func NewLight(r jsonapi.Resource) Light {
	attrs := LightAttributes{
		BaseManagedDeviceAttributes:   bindBaseManaged(r),
		State:                         LightState(attrInt(r, "state")),
		DesiredState:                  LightState(attrInt(r, "desired_state")),
		CanEnableRemoteCommands:       r.AttrBool("can_enable_remote_commands"),
		CanEnableStateTracking:        r.AttrBool("can_enable_state_tracking"),
		HexColor:                      r.AttrString("hex_color"),
		IsDimmer:                      r.AttrBool("is_dimmer"),
		LightColorFormat:              LightColorFormat(attrInt(r, "light_color_format")),
		LightLevel:                    attrInt(r, "light_level"),
		PercentWarmth:                 attrInt(r, "percent_warmth"),
		StateTrackingEnabled:          r.AttrBool("state_tracking_enabled"),
		SupportsRGBColorControl:       r.AttrBool("supports_rgb_color_control"),
		SupportsWhiteLightColorControl: r.AttrBool("supports_white_light_color_control"),
		ShouldUpdateMultiLevelState:   r.AttrBool("should_update_multi_level_state"),
	}
	return Light{Device: NewDevice(r), Attributes: attrs}
}
