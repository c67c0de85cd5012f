package entities

import "encoding/json"

// TemplateNode is one node of a stored form template. A node is either a group
// holding child collections or a leaf field that is filled on a page.
type TemplateNode struct {
	ID           string        `json:"id"`
	Label        string        `json:"label,omitempty"`
	Type         string        `json:"type,omitempty"`
	Required     bool          `json:"required,omitempty"`
	Options      []FieldOption `json:"options,omitempty"`
	Placeholder  string        `json:"placeholder,omitempty"`
	HelpText     string        `json:"helpText,omitempty"`
	FillRule     string        `json:"fillRule,omitempty"`
	DefaultValue any           `json:"defaultValue,omitempty"`

	Sections []TemplateNode `json:"sections,omitempty"`
	Groups   []TemplateNode `json:"groups,omitempty"`
	Fields   []TemplateNode `json:"fields,omitempty"`
}

// ChildCollections returns the node's child collections in the fixed order
// they are visited: sections, groups, fields.
func (n TemplateNode) ChildCollections() [][]TemplateNode {
	return [][]TemplateNode{n.Sections, n.Groups, n.Fields}
}

// IsLeaf reports whether none of the child collections has entries.
// A declared group without children counts as a leaf.
func (n TemplateNode) IsLeaf() bool {
	for _, children := range n.ChildCollections() {
		if len(children) > 0 {
			return false
		}
	}
	return true
}

// FieldOption is a selectable choice of a select, radio or checkbox field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// UnmarshalJSON accepts either {"value","label"} or a bare string.
func (o *FieldOption) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Value = s
		o.Label = s
		return nil
	}

	type plain FieldOption
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = FieldOption(p)
	return nil
}

// Template is a stored form definition.
type Template struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Fields   []TemplateNode `json:"fields"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
