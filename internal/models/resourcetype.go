// Package models defines the typed device/resource attribute structs
// bound from JSON:API resource objects, one file per device kind, and the
// base attribute sets every stateful device shares.
package models

// ResourceType is the provider's wire type tag for a JSON:API resource, e.g.
// "devices/partition" or "systems/system". Unrecognized values decode to
// Unknown rather than failing, so a server-side addition never breaks
// decoding of the rest of a document.
type ResourceType string

const (
	ResourceGarageDoor   ResourceType = "devices/garage-door"
	ResourceGate         ResourceType = "devices/gate"
	ResourceLight        ResourceType = "devices/light"
	ResourceLock         ResourceType = "devices/lock"
	ResourcePartition    ResourceType = "devices/partition"
	ResourceSensor       ResourceType = "devices/sensor"
	ResourceSystem       ResourceType = "systems/system"
	ResourceThermostat   ResourceType = "devices/thermostat"
	ResourceWaterSensor  ResourceType = "devices/water-sensor"
	ResourceWaterValve   ResourceType = "devices/water-valve"

	ResourceImageSensor      ResourceType = "image-sensor/image-sensor"
	ResourceImageSensorImage ResourceType = "image-sensor/image-sensor-image"

	ResourceIdentity         ResourceType = "identity"
	ResourceProfile          ResourceType = "profile/profile"
	ResourceTwoFactor        ResourceType = "twoFactorAuthentication/twoFactorAuthentication"
	ResourceTroubleCondition ResourceType = "troubleConditions/trouble-condition"

	ResourceUnknown ResourceType = "unknown"
)

// ParseResourceType normalizes an arbitrary wire type string, falling back to
// ResourceUnknown for anything this library doesn't model.
func ParseResourceType(wire string) ResourceType {
	switch ResourceType(wire) {
	case ResourceGarageDoor, ResourceGate, ResourceLight, ResourceLock, ResourcePartition,
		ResourceSensor, ResourceSystem, ResourceThermostat, ResourceWaterSensor, ResourceWaterValve,
		ResourceImageSensor, ResourceImageSensorImage,
		ResourceIdentity, ResourceProfile, ResourceTwoFactor, ResourceTroubleCondition:
		return ResourceType(wire)
	default:
		return ResourceUnknown
	}
}
