// Package jsonapi implements the subset of the JSON:API document format the
// provider's wire protocol uses: resource objects with attributes and
// relationships, an included-resource graph, and page-link pagination. It
// also transcodes the provider's camelCase attribute keys to the
// snake_case field names internal/models expects.
package jsonapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ResourceIdentifier is the minimal {type, id} pointer used inside
// relationship "data" and as the Resource's own identity.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   ID     `json:"id"`
}

// Relationship holds the four shapes the provider emits for a relationship
// member: a single resource identifier (has-one), a list of them (has-many),
// a links-only stub, or a meta-only stub. At most one of Data/DataMany is
// populated; callers select via HasOne/HasMany.
type Relationship struct {
	Data      *ResourceIdentifier  `json:"-"`
	DataMany  []ResourceIdentifier `json:"-"`
	DataIsSet bool                 `json:"-"`

	Links map[string]any `json:"links,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

func (r *Relationship) UnmarshalJSON(data []byte) error {
	var raw struct {
		Data  json.RawMessage `json:"data"`
		Links map[string]any  `json:"links"`
		Meta  map[string]any  `json:"meta"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Links = raw.Links
	r.Meta = raw.Meta

	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil
	}
	r.DataIsSet = true

	// has-many: data is a JSON array
	var many []ResourceIdentifier
	if err := json.Unmarshal(raw.Data, &many); err == nil {
		r.DataMany = many
		return nil
	}

	// has-one: data is a single object
	var one ResourceIdentifier
	if err := json.Unmarshal(raw.Data, &one); err != nil {
		return fmt.Errorf("jsonapi: relationship data is neither object nor array: %w", err)
	}
	r.Data = &one
	return nil
}

func (r Relationship) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if r.DataIsSet {
		if r.Data != nil {
			out["data"] = r.Data
		} else {
			out["data"] = r.DataMany
		}
	}
	if r.Links != nil {
		out["links"] = r.Links
	}
	if r.Meta != nil {
		out["meta"] = r.Meta
	}
	return json.Marshal(out)
}

// IsHasOne reports whether this relationship carries a single identifier.
func (r Relationship) IsHasOne() bool { return r.DataIsSet && r.Data != nil }

// IsHasMany reports whether this relationship carries a list of identifiers.
func (r Relationship) IsHasMany() bool { return r.DataIsSet && r.Data == nil && r.DataMany != nil }

// IsLinksOnly reports a relationship with no data member, only links/meta.
func (r Relationship) IsLinksOnly() bool { return !r.DataIsSet && r.Links != nil }

// IsMetaOnly reports a relationship with neither data nor links, only meta.
func (r Relationship) IsMetaOnly() bool { return !r.DataIsSet && r.Links == nil && r.Meta != nil }

// Resource is a single JSON:API resource object. Attributes keys are
// normalized to snake_case on decode so models can bind them directly.
type Resource struct {
	ResourceIdentifier

	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
	Links         map[string]any          `json:"links,omitempty"`
	Meta          map[string]any          `json:"meta,omitempty"`
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	type alias Resource
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	a.Attributes = snakeCaseKeys(a.Attributes)
	*r = Resource(a)
	return nil
}

// HasOne returns the identifier of a has-one relationship, or ok=false if the
// relationship is absent, null, or not a has-one shape.
func (r Resource) HasOne(key string) (ResourceIdentifier, bool) {
	rel, found := r.Relationships[key]
	if !found || !rel.IsHasOne() {
		return ResourceIdentifier{}, false
	}
	return *rel.Data, true
}

// HasMany returns the identifiers of a has-many relationship. A missing or
// null relationship returns an empty, non-nil slice.
func (r Resource) HasMany(key string) []ResourceIdentifier {
	rel, found := r.Relationships[key]
	if !found || !rel.IsHasMany() {
		return []ResourceIdentifier{}
	}
	return rel.DataMany
}

// AllRelatedIDs collects every resource id referenced by any relationship on
// this resource, has-one and has-many alike, deduplicated.
func (r Resource) AllRelatedIDs() []string {
	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, rel := range r.Relationships {
		if rel.IsHasOne() {
			add(string(rel.Data.ID))
		}
		if rel.IsHasMany() {
			for _, ri := range rel.DataMany {
				add(string(ri.ID))
			}
		}
	}
	return ids
}

// AttrString returns a string attribute, or "" if absent/wrong type.
func (r Resource) AttrString(key string) string {
	v, ok := r.Attributes[key].(string)
	if !ok {
		return ""
	}
	return v
}

// AttrBool returns a bool attribute, or false if absent/wrong type.
func (r Resource) AttrBool(key string) bool {
	v, _ := r.Attributes[key].(bool)
	return v
}

// AttrFloat returns a numeric attribute as float64, or ok=false if absent.
func (r Resource) AttrFloat(key string) (float64, bool) {
	v, ok := r.Attributes[key].(float64)
	return v, ok
}

// PageNumber extracts the page[number] query parameter from a JSON:API link
// URL such as "/api/v2/systems?page[number]=2". Returns ok=false if the link
// is empty or carries no page number.
func PageNumber(link string) (int, bool) {
	if link == "" {
		return 0, false
	}
	u, err := url.Parse(link)
	if err != nil {
		return 0, false
	}
	raw := u.Query().Get("page[number]")
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LinkString extracts a named link as a plain string, handling both the bare
// string and {href, meta} object forms the provider uses interchangeably.
func LinkString(links map[string]any, name string) string {
	v, ok := links[name]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if href, ok := t["href"].(string); ok {
			return href
		}
	}
	return ""
}
