package reference

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PropDoc is one prop entry of a part file.
type PropDoc struct {
	Name        string
	Type        string // "unknown" when absent
	Description string
	Default     any
	HasDefault  bool // true for any "default" key, null included; Default stays nil for null
}

// PartDoc is the typed form of a part file. Missing or mistyped fields take
// their zero value; Props keeps the order of the file.
type PartDoc struct {
	Description    string
	Props          []PropDoc
	DataAttributes map[string]string
	CSSVariables   map[string]string
}

// DecodePart decodes one part file. Only malformed JSON, or a top level that
// is not an object, is an error.
func DecodePart(data []byte) (PartDoc, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return PartDoc{}, fmt.Errorf("decode part: %w", err)
	}
	if top == nil {
		return PartDoc{}, fmt.Errorf("decode part: top level is not an object")
	}

	doc := PartDoc{
		Description:    decodeString(top["description"]),
		Props:          decodeProps(top["props"]),
		DataAttributes: decodeDescriptions(top["dataAttributes"]),
		CSSVariables:   decodeDescriptions(top["cssVariables"]),
	}
	return doc, nil
}

func decodeString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeProps(raw json.RawMessage) []PropDoc {
	if isNull(raw) {
		return []PropDoc{}
	}
	entries := orderedmap.New[string, json.RawMessage]()
	if err := entries.UnmarshalJSON(raw); err != nil {
		return []PropDoc{}
	}

	props := make([]PropDoc, 0, entries.Len())
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		var fields map[string]json.RawMessage
		_ = json.Unmarshal(pair.Value, &fields)

		prop := PropDoc{
			Name:        pair.Key,
			Type:        decodeString(fields["type"]),
			Description: decodeString(fields["description"]),
		}
		if prop.Type == "" {
			prop.Type = "unknown"
		}
		if def, ok := fields["default"]; ok {
			prop.HasDefault = isNull(def) || json.Unmarshal(def, &prop.Default) == nil
		}
		props = append(props, prop)
	}
	return props
}

// decodeDescriptions accepts {"name": "text"} and {"name": {"description": "text"}}.
func decodeDescriptions(raw json.RawMessage) map[string]string {
	out := map[string]string{}
	if isNull(raw) {
		return out
	}
	var entries map[string]json.RawMessage
	if json.Unmarshal(raw, &entries) != nil {
		return out
	}
	for name, value := range entries {
		var s string
		if json.Unmarshal(value, &s) == nil {
			out[name] = s
			continue
		}
		var obj map[string]json.RawMessage
		if json.Unmarshal(value, &obj) == nil {
			out[name] = decodeString(obj["description"])
			continue
		}
		out[name] = ""
	}
	return out
}
