package models

import (
	"testing"

	"github.com/codespace-operator/adcgo/internal/jsonapi"
)

func TestNewPartition_ParsesExtendedArmingOptions(t *testing.T) {
	resource := jsonapi.Resource{
		ResourceIdentifier: jsonapi.ResourceIdentifier{Type: "devices/partition", ID: "1"},
		Attributes: map[string]any{
			"description": "Main Floor",
			"state":       float64(PartitionArmedAway),
			"extended_arming_options": map[string]any{
				"armedNight": []any{float64(OptionNightArming), float64(OptionSilentArming)},
			},
		},
	}

	partition := NewPartition(resource)

	if !partition.Attributes.SupportsNightArming() {
		t.Error("expected SupportsNightArming() to be true")
	}
	if len(partition.Attributes.ExtendedArmingOptions.ArmedAway) != 0 {
		t.Errorf("ArmedAway = %v, want empty (not present in attributes)", partition.Attributes.ExtendedArmingOptions.ArmedAway)
	}
}

func TestExtendedArmingOptions_Allowed(t *testing.T) {
	opts := ExtendedArmingOptions{
		ArmedStay: []ExtendedArmingOption{OptionInstantArm},
		ArmedAway: []ExtendedArmingOption{OptionForceArm},
	}

	if got := opts.Allowed(PartitionArmedStay); len(got) != 1 || got[0] != OptionInstantArm {
		t.Errorf("Allowed(ArmedStay) = %v, want [OptionInstantArm]", got)
	}
	if got := opts.Allowed(PartitionDisarmed); got != nil {
		t.Errorf("Allowed(Disarmed) = %v, want nil", got)
	}
}

func TestPartitionAttributes_RefreshingState(t *testing.T) {
	attrs := PartitionAttributes{State: PartitionArmedAway, DesiredState: PartitionArmedAway}
	if attrs.RefreshingState() {
		t.Error("RefreshingState() = true, want false when state already matches desired")
	}

	attrs.DesiredState = PartitionDisarmed
	if !attrs.RefreshingState() {
		t.Error("RefreshingState() = false, want true when state differs from desired")
	}
}

func TestPartition_Items_ExcludesOwningSystem(t *testing.T) {
	resource := jsonapi.Resource{
		ResourceIdentifier: jsonapi.ResourceIdentifier{Type: "devices/partition", ID: "1"},
		Relationships: map[string]jsonapi.Relationship{
			"system": {Data: &jsonapi.ResourceIdentifier{Type: "systems/system", ID: "sys-1"}, DataIsSet: true},
			"devices": {
				DataMany:  []jsonapi.ResourceIdentifier{{Type: "devices/lock", ID: "sys-1"}, {Type: "devices/lock", ID: "dev-2"}},
				DataIsSet: true,
			},
		},
	}

	partition := NewPartition(resource)

	items := partition.Items()
	if len(items) != 1 || items[0] != "dev-2" {
		t.Errorf("Items() = %v, want [dev-2]", items)
	}
}
