package entity

import "fmt"

type FieldKind string

const (
	FieldKindText   FieldKind = "text"
	FieldKindChoice FieldKind = "choice"
)

// Locator identifies an element by its name attribute and, for choice
// inputs, the option value.
type Locator struct {
	Name  string
	Value string
}

func (l Locator) String() string {
	if l.Value == "" {
		return fmt.Sprintf("[name=%q]", l.Name)
	}
	return fmt.Sprintf("[name=%q][value=%q]", l.Name, l.Value)
}

// FieldSpec maps a logical field onto its candidate element names, tried in
// order. Text or Choice extracts the value from a Profile. A non-empty reason
// from Skip means the field is not populated for that Profile.
type FieldSpec struct {
	Field      string
	Label      string
	Kind       FieldKind
	Candidates []string
	Text       func(Profile) string
	Choice     func(Profile) bool
	Skip       func(Profile) string
}

// Locators expands the candidate names into concrete locators for p.
func (s FieldSpec) Locators(p Profile) []Locator {
	value := ""
	if s.Kind == FieldKindChoice && s.Choice != nil {
		value = YesNo(s.Choice(p))
	}
	out := make([]Locator, 0, len(s.Candidates))
	for _, name := range s.Candidates {
		out = append(out, Locator{Name: name, Value: value})
	}
	return out
}
