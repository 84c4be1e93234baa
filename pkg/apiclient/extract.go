package apiclient

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// fallbackMessage is used whenever no message can be extracted from the
// response body, including bodies that are not parseable JSON.
const fallbackMessage = "Request failed"

// errorBody is a generically decoded JSON error response. Field values stay
// raw so each extractor decodes only the shape it understands.
type errorBody map[string]json.RawMessage

// parseErrorBody decodes a response body into an errorBody. It reports false
// for empty bodies and bodies that are not a JSON object; extraction then
// falls through to the fallback message instead of propagating a parse error.
func parseErrorBody(body []byte) (errorBody, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false
	}
	var fields errorBody
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// stringField decodes a top-level field as a non-empty string.
func (b errorBody) stringField(key string) (string, bool) {
	raw, ok := b[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// numberField decodes a top-level field as an integer.
func (b errorBody) numberField(key string) (int, bool) {
	raw, ok := b[key]
	if !ok {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// detailsField decodes the nested "details" object into dst.
func (b errorBody) detailsField(dst interface{}) bool {
	raw, ok := b["details"]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// extractor tries to pull a message from one backend error shape. The first
// extractor in a chain that matches wins.
type extractor func(body errorBody) (string, bool)

func fieldExtractor(key string) extractor {
	return func(body errorBody) (string, bool) {
		return body.stringField(key)
	}
}

// errorsArrayExtractor matches {"errors": ["first message", ...]}.
func errorsArrayExtractor(body errorBody) (string, bool) {
	raw, ok := body["errors"]
	if !ok {
		return "", false
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil || len(values) == 0 {
		return "", false
	}
	msg := strings.TrimSpace(values[0])
	return msg, msg != ""
}

// errorsObjectExtractor matches {"errors": {"field": ["message", ...]}} and
// {"errors": {"field": "message"}}, returning the first value of the first
// key. A token-level decode preserves the body's key order, which a Go map
// would not.
func errorsObjectExtractor(body errorBody) (string, bool) {
	raw, ok := body["errors"]
	if !ok {
		return "", false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return "", false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return "", false
	}
	if _, err := dec.Token(); err != nil {
		// No keys at all.
		return "", false
	}

	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return "", false
	}

	var single string
	if err := json.Unmarshal(value, &single); err == nil {
		single = strings.TrimSpace(single)
		return single, single != ""
	}
	var list []string
	if err := json.Unmarshal(value, &list); err == nil && len(list) > 0 {
		msg := strings.TrimSpace(list[0])
		return msg, msg != ""
	}
	return "", false
}

// firstMatch runs a chain of extractors over a parsed error body and
// returns the first message that matches.
func firstMatch(body errorBody, chain ...extractor) (string, bool) {
	for _, extract := range chain {
		if msg, ok := extract(body); ok {
			return msg, true
		}
	}
	return "", false
}

// extractMessage is firstMatch with a fallback when nothing matches.
func extractMessage(body errorBody, fallback string, chain ...extractor) string {
	if msg, ok := firstMatch(body, chain...); ok {
		return msg
	}
	return fallback
}

// genericChain is the message precedence for plain client and server errors.
var genericChain = []extractor{
	errorsArrayExtractor,
	errorsObjectExtractor,
	fieldExtractor("detail"),
	fieldExtractor("title"),
	fieldExtractor("message"),
	fieldExtractor("error"),
}

// authChain is the message precedence for 401 responses.
var authChain = []extractor{
	fieldExtractor("error"),
	fieldExtractor("message"),
	fieldExtractor("detail"),
}

// permissionPattern matches permission identifiers shaped as lowercase
// dotted segments, e.g. "project.delete" or "sprint.manage_members".
var permissionPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)+$`)

// permissionName returns the permission identifier carried by a 403 body,
// if the body's error or message field is permission-shaped.
func permissionName(body errorBody) (string, bool) {
	for _, key := range []string{"error", "message"} {
		if value, ok := body.stringField(key); ok && permissionPattern.MatchString(value) {
			return value, true
		}
	}
	return "", false
}
