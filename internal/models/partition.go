package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// PartitionState is the armed/disarmed state of a security partition.
type PartitionState int

const (
	PartitionUnknown    PartitionState = 0
	PartitionDisarmed   PartitionState = 1
	PartitionArmedStay  PartitionState = 2
	PartitionArmedAway  PartitionState = 3
	PartitionArmedNight PartitionState = 4
	PartitionHidden     PartitionState = 5
)

// ExtendedArmingOption is one of the optional modifiers a partition's arm
// command can carry (force bypass, no entry delay, silent arming, ...).
type ExtendedArmingOption int

const (
	OptionBypassSensors              ExtendedArmingOption = 0
	OptionNoEntryDelay               ExtendedArmingOption = 1
	OptionSilentArming               ExtendedArmingOption = 2
	OptionNightArming                ExtendedArmingOption = 3
	OptionSelectivelyBypassSensors   ExtendedArmingOption = 4
	OptionForceArm                   ExtendedArmingOption = 5
	OptionInstantArm                 ExtendedArmingOption = 6
	OptionStayArm                    ExtendedArmingOption = 7
	OptionAwayArm                    ExtendedArmingOption = 8
)

// ExtendedArmingOptions lists which extended options each arming mode
// supports for a given partition.
type ExtendedArmingOptions struct {
	Disarmed   []ExtendedArmingOption
	ArmedStay  []ExtendedArmingOption
	ArmedAway  []ExtendedArmingOption
	ArmedNight []ExtendedArmingOption
}

// Allowed returns the options valid for a given target state.
func (o ExtendedArmingOptions) Allowed(state PartitionState) []ExtendedArmingOption {
	switch state {
	case PartitionDisarmed:
		return o.Disarmed
	case PartitionArmedStay:
		return o.ArmedStay
	case PartitionArmedAway:
		return o.ArmedAway
	case PartitionArmedNight:
		return o.ArmedNight
	default:
		return nil
	}
}

func containsOption(opts []ExtendedArmingOption, target ExtendedArmingOption) bool {
	for _, o := range opts {
		if o == target {
			return true
		}
	}
	return false
}

// PartitionAttributes are the typed attributes of a devices/partition
// resource.
type PartitionAttributes struct {
	BaseManagedDeviceAttributes

	State                        PartitionState
	DesiredState                 PartitionState
	CanBypassSensorWhenArmed     bool
	ExtendedArmingOptions        ExtendedArmingOptions
	InvalidExtendedArmingOptions ExtendedArmingOptions
	HasOpenBypassableSensors     bool
	HasSensorInTroubleCondition  bool
	HideForceBypass              bool
	NeedsClearIssuesPrompt       bool
	PartitionID                  string
}

// SupportsNightArming reports whether this partition's night-arm mode
// accepts the NIGHT_ARMING extended option.
func (a PartitionAttributes) SupportsNightArming() bool {
	return containsOption(a.ExtendedArmingOptions.ArmedNight, OptionNightArming)
}

// Loading reports whether the partition is mid-transition.
func (a PartitionAttributes) Loading() bool { return IsLoadingState(int(a.State)) }

// RefreshingState reports whether the partition's actual state has not yet
// caught up to its desired state.
func (a PartitionAttributes) RefreshingState() bool {
	return IsRefreshingState(int(a.State), int(a.DesiredState))
}

func parseExtendedArmingOptions(raw any) ExtendedArmingOptions {
	m, ok := raw.(map[string]any)
	if !ok {
		return ExtendedArmingOptions{}
	}
	parse := func(key string) []ExtendedArmingOption {
		arr, ok := m[key].([]any)
		if !ok {
			return nil
		}
		out := make([]ExtendedArmingOption, 0, len(arr))
		for _, v := range arr {
			if f, ok := v.(float64); ok {
				out = append(out, ExtendedArmingOption(int(f)))
			}
		}
		return out
	}
	return ExtendedArmingOptions{
		Disarmed:   parse("disarmed"),
		ArmedStay:  parse("armedStay"),
		ArmedAway:  parse("armedAway"),
		ArmedNight: parse("armedNight"),
	}
}

// Partition is a devices/partition resource: the top-level security area
// users arm and disarm.
type Partition struct {
	Device
	Attributes PartitionAttributes
}

// NewPartition binds a raw resource into a typed Partition.
func NewPartition(r jsonapi.Resource) Partition {
	attrs := PartitionAttributes{
		BaseManagedDeviceAttributes:  bindBaseManaged(r),
		State:                        PartitionState(attrInt(r, "state")),
		DesiredState:                 PartitionState(attrInt(r, "desired_state")),
		CanBypassSensorWhenArmed:     r.AttrBool("can_bypass_sensor_when_armed"),
		ExtendedArmingOptions:        parseExtendedArmingOptions(r.Attributes["extended_arming_options"]),
		InvalidExtendedArmingOptions: parseExtendedArmingOptions(r.Attributes["invalid_extended_arming_options"]),
		HasOpenBypassableSensors:     r.AttrBool("has_open_bypassable_sensors"),
		HasSensorInTroubleCondition:  r.AttrBool("has_sensor_in_trouble_condition"),
		HideForceBypass:              r.AttrBool("hide_force_bypass"),
		NeedsClearIssuesPrompt:       r.AttrBool("needs_clear_issues_prompt"),
		PartitionID:                  r.AttrString("partition_id"),
	}
	return Partition{Device: NewDevice(r), Attributes: attrs}
}

// Items returns every resource id related to this partition except the
// owning system itself — the set of devices it groups.
func (p Partition) Items() []string {
	out := make([]string, 0)
	for _, id := range p.Resource.AllRelatedIDs() {
		if id != p.SystemID {
			out = append(out, id)
		}
	}
	return out
}
