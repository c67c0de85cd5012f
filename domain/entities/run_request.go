package entities

import (
	"fmt"
	"strings"
)

// RunRequest is the caller's request to automate one form submission.
type RunRequest struct {
	SchoolID   string         `json:"schoolId"`
	TemplateID string         `json:"templateId"`
	UserID     string         `json:"-"`
	Login      *LoginOverride `json:"login,omitempty"`
}

// Validate checks that the identifying fields are present.
func (r RunRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.SchoolID) == "" {
		missing = append(missing, "schoolId")
	}
	if strings.TrimSpace(r.TemplateID) == "" {
		missing = append(missing, "templateId")
	}
	if strings.TrimSpace(r.UserID) == "" {
		missing = append(missing, "userId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}
