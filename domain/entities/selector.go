package entities

import "fmt"

// SelectorKind says how a Selector locates a control.
type SelectorKind string

const (
	SelectorRole  SelectorKind = "role"
	SelectorLabel SelectorKind = "label"
	SelectorCSS   SelectorKind = "css"
	SelectorText  SelectorKind = "text"
)

// Selector names a page control independently of the browser driver.
type Selector struct {
	Kind  SelectorKind `json:"kind" yaml:"kind"`
	Role  string       `json:"role,omitempty" yaml:"role,omitempty"`
	Name  string       `json:"name,omitempty" yaml:"name,omitempty"`
	Value string       `json:"value,omitempty" yaml:"value,omitempty"`
}

// ByRole matches an element by ARIA role and accessible name.
func ByRole(role, name string) Selector {
	return Selector{Kind: SelectorRole, Role: role, Name: name}
}

// ByLabel matches a form control by its label text.
func ByLabel(label string) Selector {
	return Selector{Kind: SelectorLabel, Value: label}
}

// ByCSS matches a CSS selector.
func ByCSS(css string) Selector {
	return Selector{Kind: SelectorCSS, Value: css}
}

// ByText matches an element by its visible text.
func ByText(text string) Selector {
	return Selector{Kind: SelectorText, Value: text}
}

func (s Selector) String() string {
	switch s.Kind {
	case SelectorRole:
		return fmt.Sprintf("role=%s[name=%q]", s.Role, s.Name)
	case SelectorLabel:
		return fmt.Sprintf("label=%q", s.Value)
	case SelectorText:
		return fmt.Sprintf("text=%q", s.Value)
	default:
		return s.Value
	}
}
