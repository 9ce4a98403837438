package jsonapi

// CommandBody builds the JSON body for a controller command dispatch,
// converting snake_case Go field names to the camelCase keys the provider
// expects, and merging in the statePollOnly flag every command carries.
func CommandBody(extra map[string]any) map[string]any {
	body := camelCaseKeys(extra)
	if body == nil {
		body = map[string]any{}
	}
	if _, set := body["statePollOnly"]; !set {
		body["statePollOnly"] = false
	}
	return body
}

// CamelizeBody converts snake_case Go field names to the camelCase keys the
// provider expects, without adding the statePollOnly flag CommandBody adds
// for stateful-device commands.
func CamelizeBody(extra map[string]any) map[string]any {
	body := camelCaseKeys(extra)
	if body == nil {
		body = map[string]any{}
	}
	return body
}
