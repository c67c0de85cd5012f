package scripts

import (
	"context"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Script automates the application form of one target site. Run always
// returns a Result; failures are reported in it, never returned as errors.
type Script interface {
	ID() string
	Name() string
	Description() string
	SupportsLogin() bool
	Run(ctx context.Context, ec *ExecutionContext) entities.Result
}

// ExecutionContext bundles the collaborators and data of a single run.
type ExecutionContext struct {
	Navigator interfaces.Navigator
	Filler    interfaces.FormFiller
	// Login is optional; scripts skip authentication when it is nil.
	Login     interfaces.LoginHandler
	Artifacts interfaces.ArtifactStore
	Payload   entities.RunPayload
	Page      interfaces.Page
	Logger    *logrus.Entry
}

// Descriptor is the public description of a registered script.
type Descriptor struct {
	Key           string `json:"key"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	SupportsLogin bool   `json:"supportsLogin"`
}
