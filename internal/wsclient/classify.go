package wsclient

import (
	"encoding/json"
	"fmt"

	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/models"
)

// rawFrame is the union of every field any WebSocket frame shape might
// carry. Which fields are present (not merely non-null in the zero-value
// sense, but present in the decoded JSON) determines the frame's shape,
// mirroring the provider's field-presence sniffing before committing to a
// concrete message type.
type rawFrame struct {
	UnitID              *string  `json:"unit_id"`
	DeviceIDSuffix      *int     `json:"device_id"`
	EventType           *int     `json:"event_type"`
	EventValue          *float64 `json:"event_value"`
	QstringForExtraData *string  `json:"qstring_for_extra_data"`
	CorrelatedEventID   *string  `json:"correlated_event_id"`
	Property            *int     `json:"property"`
	PropertyValue       *float64 `json:"property_value"`
	FenceID             *string  `json:"fence_id"`
	IsInsideNow         *bool    `json:"is_inside_now"`
	NewState            *int     `json:"new_state"`
	FlagMask            *int     `json:"flag_mask"`
}

// classifyFrame sniffs a raw WebSocket text frame's shape and, if it's one
// of the two shapes this library acts on (a state-change event or a
// narrower property change), returns the normalized broker message to
// publish. Geofence-crossing, monitoring-event, and status-update frames
// are recognized and discarded - the provider's own web client doesn't act
// on them either, handling the same state transitions via event frames
// instead.
func classifyFrame(raw []byte) (broker.RawResourceEventMessage, bool) {
	var frame rawFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return broker.RawResourceEventMessage{}, false
	}

	if frame.FenceID != nil && frame.IsInsideNow != nil {
		return broker.RawResourceEventMessage{}, false
	}
	if frame.EventType != nil && frame.CorrelatedEventID != nil {
		return broker.RawResourceEventMessage{}, false
	}
	if frame.NewState != nil && frame.FlagMask != nil {
		return broker.RawResourceEventMessage{}, false
	}

	deviceID := deviceIDOf(frame)

	switch {
	case frame.EventType != nil && frame.EventValue != nil && frame.QstringForExtraData != nil:
		return broker.RawResourceEventMessage{
			DeviceID: deviceID,
			Subtype:  int(models.ParseResourceEventType(*frame.EventType)),
			Value:    *frame.EventValue,
			HasValue: true,
		}, true
	case frame.Property != nil && frame.PropertyValue != nil:
		return broker.RawResourceEventMessage{
			DeviceID:        deviceID,
			IsProperty:      true,
			PropertySubtype: int(models.ParsePropertyChangeType(*frame.Property)),
			Value:           *frame.PropertyValue,
			HasValue:        true,
		}, true
	default:
		return broker.RawResourceEventMessage{}, false
	}
}

func deviceIDOf(frame rawFrame) string {
	unitID := ""
	if frame.UnitID != nil {
		unitID = *frame.UnitID
	}
	suffix := 0
	if frame.DeviceIDSuffix != nil {
		suffix = *frame.DeviceIDSuffix
	}
	return fmt.Sprintf("%s-%d", unitID, suffix)
}
