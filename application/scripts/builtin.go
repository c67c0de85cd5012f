package scripts

import "formpilot/domain/entities"

const (
	DemoTarget   = "demo"
	PortalTarget = "portal"
)

// TargetOptions overrides the URLs of a built-in script.
type TargetOptions struct {
	EntryURL string
	LoginURL string
}

// NewDemoScript automates the local demo application form. It has no login.
func NewDemoScript(opts TargetOptions) *StandardScript {
	return MustStandardScript(Profile{
		ID:          DemoTarget,
		Name:        "Demo application",
		Description: "Reference form used for smoke tests; no authentication.",
		EntryURL:    orDefault(opts.EntryURL, "http://127.0.0.1:3000/apply"),
	})
}

// NewPortalScript automates the applicant portal. Its inputs carry generated
// ids, so personal fields are matched by label instead.
func NewPortalScript(opts TargetOptions) *StandardScript {
	return MustStandardScript(Profile{
		ID:            PortalTarget,
		Name:          "Applicant portal",
		Description:   "Authenticated applicant portal with a separate sign-in page.",
		EntryURL:      orDefault(opts.EntryURL, "http://127.0.0.1:3000/portal/application"),
		LoginURL:      orDefault(opts.LoginURL, "http://127.0.0.1:3000/portal/sign-in"),
		SupportsLogin: true,
		FieldLabels: map[string]string{
			"first_name":    "Legal first name",
			"last_name":     "Legal last name",
			"date_of_birth": "Date of birth",
			"essay":         "Personal statement",
		},
		SubmitCandidates: []entities.Selector{
			entities.ByRole("button", "Submit application"),
			entities.ByRole("button", "Submit"),
			entities.ByCSS(`#submitApplication`),
			entities.ByCSS(`button[data-action="submit"]`),
			entities.ByCSS(`button[type="submit"]`),
		},
		SuccessPhrases: append([]string{`your application is complete`}, DefaultSuccessPhrases...),
	})
}

// Builtin returns the fixed set of compiled-in scripts keyed by target id.
func Builtin(targets map[string]TargetOptions) []Entry {
	return []Entry{
		{Key: DemoTarget, Script: NewDemoScript(targets[DemoTarget])},
		{Key: PortalTarget, Script: NewPortalScript(targets[PortalTarget])},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
