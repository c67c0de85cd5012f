package payload

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"formpilot/domain/entities"
)

var controlTypeAliases = map[string]entities.ControlType{
	"text":           entities.ControlText,
	"string":         entities.ControlText,
	"short_text":     entities.ControlText,
	"input":          entities.ControlText,
	"email":          entities.ControlText,
	"phone":          entities.ControlText,
	"tel":            entities.ControlText,
	"number":         entities.ControlText,
	"url":            entities.ControlText,
	"textarea":       entities.ControlTextarea,
	"long_text":      entities.ControlTextarea,
	"paragraph":      entities.ControlTextarea,
	"essay":          entities.ControlTextarea,
	"multiline":      entities.ControlTextarea,
	"select":         entities.ControlSelect,
	"dropdown":       entities.ControlSelect,
	"multiselect":    entities.ControlSelect,
	"multi_select":   entities.ControlSelect,
	"combobox":       entities.ControlSelect,
	"radio":          entities.ControlRadio,
	"radio_group":    entities.ControlRadio,
	"single_choice":  entities.ControlRadio,
	"checkbox":       entities.ControlCheckbox,
	"checkboxes":     entities.ControlCheckbox,
	"multi_checkbox": entities.ControlCheckbox,
	"boolean":        entities.ControlCheckbox,
	"bool":           entities.ControlCheckbox,
	"toggle":         entities.ControlCheckbox,
	"date":           entities.ControlDate,
	"datetime":       entities.ControlDate,
	"date_picker":    entities.ControlDate,
}

// InferControlType maps a declared template type onto a control type.
// Unknown or empty types map to text.
func InferControlType(declared string) entities.ControlType {
	key := strings.ToLower(strings.TrimSpace(declared))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if ct, ok := controlTypeAliases[key]; ok {
		return ct
	}
	return entities.ControlText
}

// NormalizeValue converts an arbitrary stored value into a FieldValue.
func NormalizeValue(raw any) entities.FieldValue {
	switch v := raw.(type) {
	case nil:
		return entities.StringValue("")
	case bool:
		return entities.BoolValue(v)
	case string:
		return entities.StringValue(v)
	case []string:
		items := make([]string, len(v))
		copy(items, v)
		return entities.ListValue(items)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, stringify(item))
		}
		return entities.ListValue(items)
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, stringify(rv.Index(i).Interface()))
		}
		return entities.ListValue(items)
	}
	return entities.StringValue(stringify(raw))
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		if rv.IsNil() {
			return ""
		}
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array, reflect.Ptr:
		data, err := json.Marshal(raw)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return fmt.Sprint(raw)
}

// MapField converts a leaf node into an automation field. The value is the
// stored answer for the node id, else the node default, else "". A stored
// null counts as no answer.
func MapField(node entities.TemplateNode, answers map[string]any) entities.AutomationField {
	raw, ok := answers[node.ID]
	if !ok || raw == nil {
		raw = node.DefaultValue
	}

	return entities.AutomationField{
		FieldID:     node.ID,
		Label:       node.Label,
		Value:       NormalizeValue(raw),
		ControlType: InferControlType(node.Type),
		Metadata: entities.FieldMetadata{
			Required:     node.Required,
			HelpText:     node.HelpText,
			Placeholder:  node.Placeholder,
			FillRule:     node.FillRule,
			Options:      node.Options,
			OriginalType: node.Type,
		},
	}
}

// MapFields maps leaves in order.
func MapFields(leaves []entities.TemplateNode, answers map[string]any) []entities.AutomationField {
	fields := make([]entities.AutomationField, 0, len(leaves))
	for _, leaf := range leaves {
		fields = append(fields, MapField(leaf, answers))
	}
	return fields
}
