package controller

import (
	"context"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// PartitionCommand is one of the verbs the provider accepts on a partition
// resource's command endpoint.
type PartitionCommand string

const (
	PartitionCmdDisarm  PartitionCommand = "disarm"
	PartitionCmdArmStay PartitionCommand = "armStay"
	PartitionCmdArmAway PartitionCommand = "armAway"
)

var partitionStateCommandMap = map[models.PartitionState]PartitionCommand{
	models.PartitionDisarmed:   PartitionCmdDisarm,
	models.PartitionArmedStay:  PartitionCmdArmStay,
	models.PartitionArmedAway:  PartitionCmdArmAway,
	models.PartitionArmedNight: PartitionCmdArmStay, // night arming is arm-stay plus the NIGHT_ARMING extended option
}

var armingExtensionBodyMap = map[models.ExtendedArmingOption]map[string]any{
	models.OptionBypassSensors: {"forceBypass": true},
	models.OptionNoEntryDelay:  {"noEntryDelay": true},
	models.OptionSilentArming:  {"silentArming": true},
	models.OptionNightArming:   {"nightArming": true},
}

// PartitionController manages devices/partition resources: the top-level
// security areas users arm and disarm.
type PartitionController struct {
	*Base[models.Partition]
}

// NewPartitionController builds a PartitionController bound to client and
// bus.
func NewPartitionController(client apiClient, bus *broker.Broker, log *cblog.Logger) *PartitionController {
	cfg := Config[models.Partition]{
		ResourceType:  models.ResourcePartition,
		BasePath:      "web/api/devices/partitions",
		Bind:          models.NewPartition,
		AttributesOf:  func(p models.Partition) any { return p.Attributes },
		ResourceRefOf: func(p models.Partition) jsonapi.Resource { return p.Resource },
		SupportedEvents: models.SupportedResourceEvents{
			Events: []models.ResourceEventType{
				models.EventDisarmed, models.EventArmedAway, models.EventArmedStay, models.EventArmedNight,
			},
		},
		EventStateMap: map[models.ResourceEventType]int{
			models.EventDisarmed:   int(models.PartitionDisarmed),
			models.EventArmedAway:  int(models.PartitionArmedAway),
			models.EventArmedStay:  int(models.PartitionArmedStay),
			models.EventArmedNight: int(models.PartitionArmedNight),
		},
	}
	return &PartitionController{Base: New(cfg, client, bus, log)}
}

// PartitionIDFor returns the partition that resourceID (a device within
// it) belongs to, by scanning each partition's related-item ids.
func (c *PartitionController) PartitionIDFor(resourceID string) (string, bool) {
	for _, partition := range c.Items() {
		for _, item := range partition.Items() {
			if item == resourceID {
				return partition.ID, true
			}
		}
	}
	return "", false
}

// ClearFaults clears alarm-in-memory and similar faults on a partition.
func (c *PartitionController) ClearFaults(ctx context.Context, id string) error {
	return c.SendCommand(ctx, id, "clearIssues", nil)
}

// Disarm disarms a partition.
func (c *PartitionController) Disarm(ctx context.Context, id string) error {
	return c.SetState(ctx, id, models.PartitionDisarmed, nil)
}

// ArmStay arms a partition in stay mode.
func (c *PartitionController) ArmStay(ctx context.Context, id string, forceBypass, noEntryDelay, silentArming bool) error {
	var opts []models.ExtendedArmingOption
	if forceBypass {
		opts = append(opts, models.OptionBypassSensors)
	}
	if noEntryDelay {
		opts = append(opts, models.OptionNoEntryDelay)
	}
	if silentArming {
		opts = append(opts, models.OptionSilentArming)
	}
	return c.SetState(ctx, id, models.PartitionArmedStay, opts)
}

// ArmAway arms a partition in away mode.
func (c *PartitionController) ArmAway(ctx context.Context, id string, forceBypass, noEntryDelay bool) error {
	var opts []models.ExtendedArmingOption
	if forceBypass {
		opts = append(opts, models.OptionBypassSensors)
	}
	if noEntryDelay {
		opts = append(opts, models.OptionNoEntryDelay)
	}
	return c.SetState(ctx, id, models.PartitionArmedAway, opts)
}

// ArmNight arms a partition in night mode, implicitly adding the
// NIGHT_ARMING extended option.
func (c *PartitionController) ArmNight(ctx context.Context, id string, forceBypass, noEntryDelay bool) error {
	opts := []models.ExtendedArmingOption{models.OptionNightArming}
	if forceBypass {
		opts = append(opts, models.OptionBypassSensors)
	}
	if noEntryDelay {
		opts = append(opts, models.OptionNoEntryDelay)
	}
	return c.SetState(ctx, id, models.PartitionArmedNight, opts)
}

// SetState changes a partition's arming state, validating that every
// requested extended arming option is supported for the target state.
func (c *PartitionController) SetState(ctx context.Context, id string, state models.PartitionState, extendedOptions []models.ExtendedArmingOption) error {
	if state == models.PartitionDisarmed && len(extendedOptions) > 0 {
		return apierrors.NewUnsupportedOperation("extended arming options not supported for disarm")
	}

	partition, ok := c.Get(id)
	if !ok {
		return apierrors.NewUnknownDevice(id)
	}

	body := map[string]any{}
	for _, option := range extendedOptions {
		allowed := partition.Attributes.ExtendedArmingOptions.Allowed(state)
		if !containsArmingOption(allowed, option) {
			return apierrors.NewUnsupportedOperation("extended arming option %d not supported for state %d", option, state)
		}
		for k, v := range armingExtensionBodyMap[option] {
			body[k] = v
		}
	}

	command, ok := partitionStateCommandMap[state]
	if !ok {
		return apierrors.NewUnsupportedOperation("state %d not implemented", state)
	}

	return c.SendCommand(ctx, id, string(command), body)
}

func containsArmingOption(opts []models.ExtendedArmingOption, target models.ExtendedArmingOption) bool {
	for _, o := range opts {
		if o == target {
			return true
		}
	}
	return false
}

// ChangeSensorBypass bypasses or unbypasses the given sensor ids on a
// partition. At least one of bypassIDs/unbypassIDs must be non-empty.
func (c *PartitionController) ChangeSensorBypass(ctx context.Context, partitionID string, bypassIDs, unbypassIDs []string) error {
	if len(bypassIDs) == 0 && len(unbypassIDs) == 0 {
		return apierrors.NewUnsupportedOperation("either bypassIDs or unbypassIDs must be provided")
	}
	return c.SendCommand(ctx, partitionID, "bypassSensors", map[string]any{
		"bypass":   joinIDs(bypassIDs),
		"unbypass": joinIDs(unbypassIDs),
	})
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += "|"
		}
		out += id
	}
	return out
}
