package payload

import (
	"formpilot/domain/entities"

	"github.com/google/uuid"
)

// Build assembles the payload for one run. A fresh run id is generated on every call.
func Build(schoolID string, tmpl *entities.Template, answers map[string]any, account *entities.AccountRecord, override *entities.LoginOverride) entities.RunPayload {
	leaves := Flatten(tmpl.Fields)

	return entities.RunPayload{
		SchoolID: schoolID,
		Template: entities.TemplatePayload{
			ID:       tmpl.ID,
			Name:     tmpl.Name,
			Fields:   MapFields(leaves, answers),
			Metadata: tmpl.Metadata,
		},
		UserLogin: ResolveLogin(account, override),
		RunID:     uuid.NewString(),
	}
}
