package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// AccessControlSystemMode is the access-control posture of the system as a
// whole (separate from any one partition's armed state).
type AccessControlSystemMode int

const (
	AccessControlDefault           AccessControlSystemMode = 0
	AccessControlLockdown          AccessControlSystemMode = 1
	AccessControlRestrictedAccess  AccessControlSystemMode = 2
)

// SystemAttributes are the typed attributes of a systems/system resource:
// the parent container that groups every partition and device on an
// account. It carries no state of its own and accepts no per-device
// commands, only the system-wide ones in internal/controller.
type SystemAttributes struct {
	HasSnapShotCameras               bool
	SupportsSecureArming             bool
	RemainingImageQuota              int
	SystemGroupName                  string
	UnitID                           string
	AccessControlCurrentSystemMode   AccessControlSystemMode
	IsInPartialLockdown              bool
	Icon                             string
}

// System is a systems/system resource.
type System struct {
	Device
	Attributes SystemAttributes
}

// NewSystem binds a raw resource into a typed System.
func NewSystem(r jsonapi.Resource) System {
	attrs := SystemAttributes{
		HasSnapShotCameras:             r.AttrBool("has_snap_shot_cameras"),
		SupportsSecureArming:           r.AttrBool("supports_secure_arming"),
		RemainingImageQuota:            attrInt(r, "remaining_image_quota"),
		SystemGroupName:                r.AttrString("system_group_name"),
		UnitID:                         r.AttrString("unit_id"),
		AccessControlCurrentSystemMode: AccessControlSystemMode(attrInt(r, "access_control_current_system_mode")),
		IsInPartialLockdown:            r.AttrBool("is_in_partial_lockdown"),
		Icon:                           r.AttrString("icon"),
	}
	return System{Device: NewDevice(r), Attributes: attrs}
}
