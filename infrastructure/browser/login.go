package browser

import (
	"context"
	"errors"
	"time"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"

	"github.com/sirupsen/logrus"
)

var (
	emailCandidates = []entities.Selector{
		entities.ByCSS(`input[type="email"]`),
		entities.ByCSS(`input[name="email"]`),
		entities.ByLabel("Email"),
		entities.ByCSS(`input[autocomplete="username"]`),
	}
	usernameCandidates = []entities.Selector{
		entities.ByCSS(`input[name="username"]`),
		entities.ByCSS(`input[autocomplete="username"]`),
		entities.ByLabel("Username"),
		entities.ByCSS(`input[name="login"]`),
	}
	passwordCandidates = []entities.Selector{
		entities.ByCSS(`input[type="password"]`),
		entities.ByLabel("Password"),
	}
	signInCandidates = []entities.Selector{
		entities.ByRole("button", "Sign in"),
		entities.ByRole("button", "Log in"),
		entities.ByRole("button", "Login"),
		entities.ByCSS(`button[type="submit"]`),
		entities.ByCSS(`input[type="submit"]`),
	}
)

// LoginHandler signs in through a conventional identifier and password form.
type LoginHandler struct {
	settleTimeout time.Duration
	logger        *logrus.Logger
}

// NewLoginHandler - creates a login handler that waits up to settleTimeout after signing in
func NewLoginHandler(settleTimeout time.Duration, logger *logrus.Logger) *LoginHandler {
	return &LoginHandler{settleTimeout: settleTimeout, logger: logger}
}

// MaybeLogin - fills and submits the sign-in form on the current page. It
// returns false when the page has no sign-in form or still shows one afterwards.
func (h *LoginHandler) MaybeLogin(ctx context.Context, page interfaces.Page, credentials *entities.UserLoginInput) bool {
	if credentials == nil || credentials.Identifier() == "" || credentials.Password == "" {
		h.logger.Debug("Incomplete credentials, not attempting login")
		return false
	}

	password, _, err := interfaces.FindFirst(ctx, page, passwordCandidates)
	if err != nil {
		h.logger.Debugf("No password field on %s: %v", page.URL(), err)
		return false
	}

	idCandidates := emailCandidates
	if credentials.Email == "" {
		idCandidates = usernameCandidates
	}
	identifier, _, err := interfaces.FindFirst(ctx, page, idCandidates)
	if err != nil {
		h.logger.Warnf("Password field found but no identifier field on %s", page.URL())
		return false
	}

	if err := identifier.Fill(ctx, credentials.Identifier()); err != nil {
		h.logger.Warnf("Failed to fill login identifier: %v", err)
		return false
	}
	if err := password.Fill(ctx, credentials.Password); err != nil {
		h.logger.Warnf("Failed to fill password: %v", err)
		return false
	}

	for name, value := range credentials.Extra {
		el, err := page.Find(ctx, attrSelector("", "name", name))
		if err != nil {
			h.logger.Debugf("Extra login field %s not present", name)
			continue
		}
		if err := el.Fill(ctx, value); err != nil {
			h.logger.Warnf("Failed to fill extra login field %s: %v", name, err)
		}
	}

	submit, _, err := interfaces.FindFirst(ctx, page, signInCandidates)
	if err != nil {
		h.logger.Warnf("No sign-in button on %s", page.URL())
		return false
	}
	if err := submit.Click(ctx); err != nil {
		h.logger.Warnf("Failed to click sign-in button: %v", err)
		return false
	}

	if err := page.WaitForLoadState(ctx, interfaces.LoadStateNetworkIdle, h.settleTimeout); err != nil && !errors.Is(err, entities.ErrTimeout) {
		h.logger.Warnf("Page did not settle after sign-in: %v", err)
		return false
	}

	if _, _, err := interfaces.FindFirst(ctx, page, passwordCandidates); err == nil {
		h.logger.Warnf("Sign-in form still shown on %s, treating login as failed", page.URL())
		return false
	}
	return true
}

var _ interfaces.LoginHandler = (*LoginHandler)(nil)
