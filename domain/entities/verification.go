package entities

// VerificationOutcome classifies the page shown after a submit.
type VerificationOutcome string

const (
	VerificationConfirmed VerificationOutcome = "confirmed"
	VerificationRejected  VerificationOutcome = "rejected"
	VerificationUnknown   VerificationOutcome = "unknown"
)

// Verification is the advisory result of scanning the post-submit page.
type Verification struct {
	Outcome VerificationOutcome `json:"outcome"`
	Phrase  string              `json:"phrase,omitempty"`
	URL     string              `json:"url,omitempty"`
}
