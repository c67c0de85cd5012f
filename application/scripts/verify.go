package scripts

import (
	"fmt"
	"regexp"

	"formpilot/domain/entities"
)

var (
	DefaultSuccessPhrases = []string{
		`thank you`,
		`application (has been |was )?(received|submitted)`,
		`submission (was )?successful`,
		`successfully submitted`,
		`confirmation (number|code)`,
	}
	DefaultFailurePhrases = []string{
		`(this|a) field is required`,
		`please (correct|fix|complete)`,
		`there (was|were) (an )?errors?`,
		`invalid (value|entry|input)`,
		`submission failed`,
	}
)

// phraseMatcher classifies page text by success and failure phrases.
type phraseMatcher struct {
	success []*regexp.Regexp
	failure []*regexp.Regexp
}

func newPhraseMatcher(success, failure []string) (*phraseMatcher, error) {
	m := &phraseMatcher{}
	var err error
	if m.success, err = compilePhrases(success); err != nil {
		return nil, fmt.Errorf("success phrases: %w", err)
	}
	if m.failure, err = compilePhrases(failure); err != nil {
		return nil, fmt.Errorf("failure phrases: %w", err)
	}
	return m, nil
}

func compilePhrases(phrases []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// classify checks failure phrases first so an error banner on a page that
// also says "thank you" is not reported as confirmed.
func (m *phraseMatcher) classify(text string) entities.Verification {
	for _, re := range m.failure {
		if match := re.FindString(text); match != "" {
			return entities.Verification{Outcome: entities.VerificationRejected, Phrase: match}
		}
	}
	for _, re := range m.success {
		if match := re.FindString(text); match != "" {
			return entities.Verification{Outcome: entities.VerificationConfirmed, Phrase: match}
		}
	}
	return entities.Verification{Outcome: entities.VerificationUnknown}
}
