package entities

// TemplatePayload is the flattened, mapped view of a template for one run.
type TemplatePayload struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Fields   []AutomationField `json:"fields"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

// RunPayload is everything a script needs to know about one run. It is not persisted.
type RunPayload struct {
	SchoolID  string          `json:"schoolId"`
	Template  TemplatePayload `json:"template"`
	UserLogin *UserLoginInput `json:"userLogin,omitempty"`
	RunID     string          `json:"runId"`
}
