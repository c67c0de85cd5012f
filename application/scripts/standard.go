package scripts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const DefaultSubmitWait = 30 * time.Second

// SubmitNotFoundMessage prefixes the Result message when no submit control matched.
const SubmitNotFoundMessage = "submit button not found"

// DefaultSubmitCandidates are probed when a profile declares none. Accessible
// role and name come first, then attribute and text matches.
var DefaultSubmitCandidates = []entities.Selector{
	entities.ByRole("button", "Submit"),
	entities.ByRole("button", "Apply"),
	entities.ByRole("button", "Send"),
	entities.ByCSS(`button[type="submit"]`),
	entities.ByCSS(`input[type="submit"]`),
	entities.ByText("Submit"),
}

// Profile describes one target site for the standard script shape.
type Profile struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	EntryURL      string `yaml:"entry_url"`
	SupportsLogin bool   `yaml:"supports_login"`
	// LoginURL is the secondary login path tried when login on the entry page fails.
	LoginURL string `yaml:"login_url"`
	// FieldLabels maps generic field ids to on-page labels for targets where
	// id-based matching is known to fail.
	FieldLabels      map[string]string   `yaml:"field_labels"`
	SubmitCandidates []entities.Selector `yaml:"submit_candidates"`
	SubmitWait       time.Duration       `yaml:"submit_wait"`
	SuccessPhrases   []string            `yaml:"success_phrases"`
	FailurePhrases   []string            `yaml:"failure_phrases"`
}

// StandardScript runs the common navigate, login, fill, submit and verify
// sequence for a Profile.
type StandardScript struct {
	profile Profile
	matcher *phraseMatcher
}

// NewStandardScript validates the profile and fills in defaults.
func NewStandardScript(p Profile) (*StandardScript, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("profile id is required")
	}
	if p.EntryURL == "" {
		return nil, fmt.Errorf("profile '%s': entry url is required", p.ID)
	}
	if p.Name == "" {
		p.Name = p.ID
	}
	if len(p.SubmitCandidates) == 0 {
		p.SubmitCandidates = DefaultSubmitCandidates
	}
	if p.SubmitWait <= 0 {
		p.SubmitWait = DefaultSubmitWait
	}
	if len(p.SuccessPhrases) == 0 {
		p.SuccessPhrases = DefaultSuccessPhrases
	}
	if len(p.FailurePhrases) == 0 {
		p.FailurePhrases = DefaultFailurePhrases
	}

	matcher, err := newPhraseMatcher(p.SuccessPhrases, p.FailurePhrases)
	if err != nil {
		return nil, fmt.Errorf("profile '%s': %w", p.ID, err)
	}
	return &StandardScript{profile: p, matcher: matcher}, nil
}

// MustStandardScript is NewStandardScript that panics on an invalid profile.
func MustStandardScript(p Profile) *StandardScript {
	s, err := NewStandardScript(p)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *StandardScript) ID() string          { return s.profile.ID }
func (s *StandardScript) Name() string        { return s.profile.Name }
func (s *StandardScript) Description() string { return s.profile.Description }
func (s *StandardScript) SupportsLogin() bool { return s.profile.SupportsLogin }

// Profile returns a copy of the script's profile
func (s *StandardScript) Profile() Profile { return s.profile }

// Run executes the standard sequence against ec.
func (s *StandardScript) Run(ctx context.Context, ec *ExecutionContext) entities.Result {
	log := ec.logger().WithField("script", s.profile.ID)

	if err := s.open(ctx, ec, log, s.profile.EntryURL); err != nil {
		return s.fail(ctx, ec, "navigation failed", err)
	}

	if err := s.login(ctx, ec, log); err != nil {
		return s.fail(ctx, ec, "login step failed", err)
	}

	fields := s.remapFields(ec.Payload.Template.Fields)
	report := ec.Filler.Fill(ctx, ec.Page, fields)
	log.WithFields(logrus.Fields{
		"filled":   len(report.Filled),
		"skipped":  len(report.Skipped),
		"failures": len(report.Failures),
	}).Info("form fields filled")
	if err := ctx.Err(); err != nil {
		return s.fail(ctx, ec, "fill interrupted", err)
	}

	submit, sel, err := interfaces.FindFirst(ctx, ec.Page, s.profile.SubmitCandidates)
	if errors.Is(err, entities.ErrElementNotFound) {
		log.WithField("candidates", len(s.profile.SubmitCandidates)).Warn("no submit control matched")
		res := entities.Failed(fmt.Sprintf("%s: tried %d selectors on %s",
			SubmitNotFoundMessage, len(s.profile.SubmitCandidates), ec.Page.URL()))
		res.Artifacts = captureArtifacts(ctx, ec)
		return res
	}
	if err != nil {
		return s.fail(ctx, ec, "locating submit control failed", err)
	}
	log.WithField("selector", sel.String()).Debug("submit control located")

	outcome, err := s.submit(ctx, ec, submit)
	if err != nil {
		return s.fail(ctx, ec, "submit failed", err)
	}
	log.WithField("wait", outcome.String()).Info("form submitted")

	v := s.verify(ctx, ec)
	switch v.Outcome {
	case entities.VerificationConfirmed:
		log.WithField("phrase", v.Phrase).Info("submission confirmed by page text")
	case entities.VerificationRejected:
		log.WithField("phrase", v.Phrase).Warn("page text suggests the submission was rejected")
	default:
		log.Info("submission outcome could not be verified from page text")
	}

	return entities.Succeeded(fmt.Sprintf("submitted %q to %s (verification: %s)",
		ec.Payload.Template.Name, s.profile.Name, v.Outcome))
}

// open navigates to url and waits for network idle. An idle wait that times
// out is tolerated; a navigation error is not.
func (s *StandardScript) open(ctx context.Context, ec *ExecutionContext, log *logrus.Entry, url string) error {
	if err := ec.Navigator.Navigate(ctx, ec.Page, url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	outcome, err := tolerateWaitTimeout(ec.Navigator.WaitForNetworkIdle(ctx, ec.Page, 0))
	if err != nil {
		return fmt.Errorf("wait for %s to settle: %w", url, err)
	}
	if outcome == WaitTimedOutIgnored {
		log.WithField("url", url).Warn("network idle wait timed out; continuing")
	}
	return nil
}

// login authenticates when credentials are present and the site supports it.
// A failed login falls back to LoginURL, then continues unauthenticated.
func (s *StandardScript) login(ctx context.Context, ec *ExecutionContext, log *logrus.Entry) error {
	creds := ec.Payload.UserLogin
	switch {
	case creds == nil:
		log.Debug("no credentials for run; skipping login")
		return nil
	case !s.profile.SupportsLogin:
		log.Debug("script does not support login; skipping")
		return nil
	case ec.Login == nil:
		log.Warn("credentials present but no login handler configured; continuing unauthenticated")
		return nil
	}

	if ec.Login.MaybeLogin(ctx, ec.Page, creds) {
		log.Info("logged in on entry page")
		return nil
	}

	if s.profile.LoginURL == "" {
		log.Warn("login failed and no fallback login page; continuing unauthenticated")
		return nil
	}

	log.WithField("login_url", s.profile.LoginURL).Warn("login on entry page failed; trying login page")
	if err := s.open(ctx, ec, log, s.profile.LoginURL); err != nil {
		log.WithError(err).Warn("login page unreachable; continuing unauthenticated")
	} else if ec.Login.MaybeLogin(ctx, ec.Page, creds) {
		log.Info("logged in on login page")
	} else {
		log.Warn("login page rejected credentials; continuing unauthenticated")
	}

	return s.open(ctx, ec, log, s.profile.EntryURL)
}

// remapFields applies the profile's label override table. The input slice is
// not modified.
func (s *StandardScript) remapFields(fields []entities.AutomationField) []entities.AutomationField {
	if len(s.profile.FieldLabels) == 0 {
		return fields
	}
	out := make([]entities.AutomationField, len(fields))
	for i, f := range fields {
		if label, ok := s.profile.FieldLabels[f.FieldID]; ok {
			f.Label = label
			f.Metadata.PreferLabel = true
		}
		out[i] = f
	}
	return out
}

// submit clicks el and waits, bounded by SubmitWait, for the navigation it
// starts to settle. A timed-out wait is not a failure; a failed click is.
func (s *StandardScript) submit(ctx context.Context, ec *ExecutionContext, el interfaces.Element) (WaitOutcome, error) {
	err := ec.Page.ClickAndWait(ctx, el, s.profile.SubmitWait)
	if errors.Is(err, entities.ErrClickFailed) {
		return WaitFailed, fmt.Errorf("click submit: %w", err)
	}
	outcome, err := tolerateWaitTimeout(err)
	if err != nil {
		return WaitFailed, fmt.Errorf("wait after submit: %w", err)
	}
	return outcome, nil
}

// verify scans the resulting page text. It is advisory only.
func (s *StandardScript) verify(ctx context.Context, ec *ExecutionContext) entities.Verification {
	text, err := ec.Page.TextContent(ctx)
	if err != nil {
		ec.logger().WithError(err).Warn("could not read page text for verification")
		return entities.Verification{Outcome: entities.VerificationUnknown, URL: ec.Page.URL()}
	}
	v := s.matcher.classify(text)
	v.URL = ec.Page.URL()
	return v
}

// fail captures artifacts and converts err into a failed Result.
func (s *StandardScript) fail(ctx context.Context, ec *ExecutionContext, step string, err error) entities.Result {
	ec.logger().WithError(err).WithField("script", s.profile.ID).Error(step)

	res := entities.Failed(fmt.Sprintf("%s: %v", step, err), err.Error())
	res.Artifacts = captureArtifacts(ctx, ec)
	return res
}
