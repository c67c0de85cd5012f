package entities

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ControlType is the page-interaction category a generic filler targets.
type ControlType string

const (
	ControlText     ControlType = "text"
	ControlTextarea ControlType = "textarea"
	ControlSelect   ControlType = "select"
	ControlRadio    ControlType = "radio"
	ControlCheckbox ControlType = "checkbox"
	ControlDate     ControlType = "date"
)

// ControlTypes lists every valid control type.
var ControlTypes = []ControlType{
	ControlText,
	ControlTextarea,
	ControlSelect,
	ControlRadio,
	ControlCheckbox,
	ControlDate,
}

// Valid reports whether c is one of ControlTypes.
func (c ControlType) Valid() bool {
	for _, ct := range ControlTypes {
		if c == ct {
			return true
		}
	}
	return false
}

// ValueKind tags which member of FieldValue is set.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueList
	ValueBool
)

// FieldValue holds a normalized field value: a string, a list of strings or a boolean.
// The zero value is the empty string.
type FieldValue struct {
	kind ValueKind
	str  string
	list []string
	b    bool
}

func StringValue(s string) FieldValue { return FieldValue{kind: ValueString, str: s} }

func ListValue(items []string) FieldValue {
	if items == nil {
		items = []string{}
	}
	return FieldValue{kind: ValueList, list: items}
}

func BoolValue(b bool) FieldValue { return FieldValue{kind: ValueBool, b: b} }

func (v FieldValue) Kind() ValueKind { return v.kind }

// String returns the string member, or the list joined by ", ", or "true"/"false".
func (v FieldValue) String() string {
	switch v.kind {
	case ValueList:
		return strings.Join(v.list, ", ")
	case ValueBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return v.str
	}
}

// List returns the list member; a string value becomes a one-element list
// unless empty.
func (v FieldValue) List() []string {
	switch v.kind {
	case ValueList:
		return v.list
	case ValueString:
		if v.str == "" {
			return nil
		}
		return []string{v.str}
	default:
		return nil
	}
}

// Bool returns the boolean member. Strings "true", "yes", "on" and "1" count as true.
func (v FieldValue) Bool() bool {
	switch v.kind {
	case ValueBool:
		return v.b
	case ValueString:
		switch v.str {
		case "true", "yes", "on", "1":
			return true
		}
	}
	return false
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueList:
		return json.Marshal(v.list)
	case ValueBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.str)
	}
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case bool:
		*v = BoolValue(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			items = append(items, decodedText(item))
		}
		*v = ListValue(items)
	default:
		*v = StringValue(decodedText(t))
	}
	return nil
}

// decodedText renders a decoded JSON value as field text: null is "",
// numbers use their shortest decimal form, objects keep their JSON text.
func decodedText(item any) string {
	switch t := item.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// FieldMetadata carries the source node's attributes for scripts that need
// more than the generic control type.
type FieldMetadata struct {
	Required     bool          `json:"required"`
	HelpText     string        `json:"helpText,omitempty"`
	Placeholder  string        `json:"placeholder,omitempty"`
	FillRule     string        `json:"fillRule,omitempty"`
	Options      []FieldOption `json:"options,omitempty"`
	OriginalType string        `json:"originalType,omitempty"`
	// PreferLabel is set by scripts that remap a field to a site-specific label.
	PreferLabel bool `json:"preferLabel,omitempty"`
}

// AutomationField is a leaf field ready for page interaction.
type AutomationField struct {
	FieldID     string        `json:"fieldId"`
	Label       string        `json:"label,omitempty"`
	Value       FieldValue    `json:"value"`
	ControlType ControlType   `json:"controlType"`
	Metadata    FieldMetadata `json:"metadata"`
}
