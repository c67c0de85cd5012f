package entities

// AccountRecord is the stored account a user registered with a target site.
type AccountRecord struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginOverride holds per-run credentials. A nil pointer means the field was not
// provided; a pointer to "" is an explicit empty value.
type LoginOverride struct {
	Email    *string           `json:"email,omitempty"`
	Username *string           `json:"username,omitempty"`
	Password *string           `json:"password,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// UserLoginInput is the merged credential set handed to a login handler.
type UserLoginInput struct {
	Email    string            `json:"email,omitempty"`
	Username string            `json:"username,omitempty"`
	Password string            `json:"password,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Identifier returns the email when set, otherwise the username.
func (u *UserLoginInput) Identifier() string {
	if u == nil {
		return ""
	}
	if u.Email != "" {
		return u.Email
	}
	return u.Username
}
