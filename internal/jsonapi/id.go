package jsonapi

import (
	"encoding/json"
	"strconv"
)

// ID is a resource identifier that coerces to string on decode even when the
// wire represents it as a JSON number. Per spec: "always coerce resource ids
// to string on read and never emit numeric ids."
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Code is an error object "code" field, which may appear as a string or an
// integer on the wire; callers compare it against known integer codes.
type Code struct {
	raw string
}

func (c *Code) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	c.raw = n.String()
	return nil
}

func (c Code) MarshalJSON() ([]byte, error) { return json.Marshal(c.raw) }

// Int returns the code as an integer, or ok=false if it is not numeric.
func (c Code) Int() (int, bool) {
	n, err := strconv.Atoi(c.raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
