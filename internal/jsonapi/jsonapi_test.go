package jsonapi

import (
	"encoding/json"
	"testing"
)

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"batteryLevelNull": "battery_level_null",
		"state":            "state",
		"desiredState":     "desired_state",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToCamelCase(t *testing.T) {
	cases := map[string]string{
		"battery_level_null": "batteryLevelNull",
		"state":               "state",
		"device_name":         "deviceName",
	}
	for in, want := range cases {
		if got := toCamelCase(in); got != want {
			t.Errorf("toCamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCommandBody_AddsStatePollOnlyAndCamelizes(t *testing.T) {
	body := CommandBody(map[string]any{"desired_state": 1})

	if body["desiredState"] != 1 {
		t.Errorf("desiredState = %v, want 1", body["desiredState"])
	}
	if body["statePollOnly"] != false {
		t.Errorf("statePollOnly = %v, want false", body["statePollOnly"])
	}
}

func TestCommandBody_RespectsExplicitStatePollOnly(t *testing.T) {
	body := CommandBody(map[string]any{"statePollOnly": true})

	if body["statePollOnly"] != true {
		t.Errorf("statePollOnly = %v, want true (explicit value preserved)", body["statePollOnly"])
	}
}

func TestResource_UnmarshalJSON_SnakeCasesAttributes(t *testing.T) {
	raw := []byte(`{"type": "devices/lock", "id": "1", "attributes": {"batteryLevelNull": true, "desiredState": 2}}`)

	var r Resource
	if err := json.Unmarshal(raw, &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if _, ok := r.Attributes["battery_level_null"]; !ok {
		t.Error("expected attributes to be keyed by battery_level_null")
	}
	if v, _ := r.AttrFloat("desired_state"); v != 2 {
		t.Errorf("desired_state = %v, want 2", v)
	}
}

func TestDocument_UnmarshalJSON_SingleResource(t *testing.T) {
	raw := []byte(`{"data": {"type": "devices/lock", "id": "1", "attributes": {}}}`)

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	resource, ok := doc.One()
	if !ok {
		t.Fatal("expected One() to find the single resource")
	}
	if resource.ID != "1" {
		t.Errorf("ID = %q, want 1", resource.ID)
	}
	if !doc.IsSuccess() {
		t.Error("expected IsSuccess()")
	}
}

func TestDocument_UnmarshalJSON_ManyResources(t *testing.T) {
	raw := []byte(`{"data": [
		{"type": "devices/lock", "id": "1", "attributes": {}},
		{"type": "devices/lock", "id": "2", "attributes": {}}
	]}`)

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(doc.Many()) != 2 {
		t.Fatalf("got %d resources, want 2", len(doc.Many()))
	}
}

func TestDocument_UnmarshalJSON_Failure(t *testing.T) {
	raw := []byte(`{"errors": [{"code": 403}]}`)

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !doc.IsFailure() {
		t.Error("expected IsFailure()")
	}
	if doc.IsSuccess() {
		t.Error("a failure document should not report success")
	}
}

func TestDocument_UnmarshalJSON_MetaOnly(t *testing.T) {
	raw := []byte(`{"meta": {"count": 3}}`)

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !doc.IsMetaOnly() {
		t.Error("expected IsMetaOnly()")
	}
}

func TestPageNumber_ExtractsFromLink(t *testing.T) {
	n, ok := PageNumber("/web/api/systems/systems?page[number]=2")
	if !ok || n != 2 {
		t.Errorf("PageNumber = (%d, %v), want (2, true)", n, ok)
	}
}

func TestPageNumber_MissingReturnsFalse(t *testing.T) {
	if _, ok := PageNumber(""); ok {
		t.Error("expected ok=false for an empty link")
	}
	if _, ok := PageNumber("/web/api/systems/systems"); ok {
		t.Error("expected ok=false when no page[number] is present")
	}
}

func TestLinkString_HandlesBothShapes(t *testing.T) {
	links := map[string]any{
		"bare":   "https://example/a",
		"object": map[string]any{"href": "https://example/b"},
	}

	if got := LinkString(links, "bare"); got != "https://example/a" {
		t.Errorf("LinkString(bare) = %q", got)
	}
	if got := LinkString(links, "object"); got != "https://example/b" {
		t.Errorf("LinkString(object) = %q", got)
	}
	if got := LinkString(links, "missing"); got != "" {
		t.Errorf("LinkString(missing) = %q, want empty", got)
	}
}
