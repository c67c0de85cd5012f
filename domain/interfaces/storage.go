package interfaces

import (
	"context"

	"formpilot/domain/entities"
)

// TemplateStore reads stored templates, previously entered answers and
// account records.
type TemplateStore interface {
	// GetTemplate returns entities.ErrTemplateNotFound when id is unknown
	GetTemplate(ctx context.Context, id string) (*entities.Template, error)

	// GetAnswers returns the answers keyed by field id; no answers is an empty map
	GetAnswers(ctx context.Context, schoolID, userID string) (map[string]any, error)

	// GetAccount returns nil when the user has no account for the school
	GetAccount(ctx context.Context, schoolID, userID string) (*entities.AccountRecord, error)
}
