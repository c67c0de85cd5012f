package entities

// FieldFailure records why a single field could not be filled.
type FieldFailure struct {
	FieldID string `json:"fieldId"`
	Reason  string `json:"reason"`
}

// FillReport summarizes a best-effort fill pass.
type FillReport struct {
	Filled   []string       `json:"filled"`
	Skipped  []string       `json:"skipped,omitempty"`
	Failures []FieldFailure `json:"failures,omitempty"`
}
