package payload

import "formpilot/domain/entities"

// ResolveLogin merges a stored account with a per-run override. An override
// field wins whenever it is present, including an explicit empty string.
// Password and extra values only come from the override. It returns nil when
// both inputs are nil, meaning the script may skip authentication.
func ResolveLogin(account *entities.AccountRecord, override *entities.LoginOverride) *entities.UserLoginInput {
	if account == nil && override == nil {
		return nil
	}

	login := &entities.UserLoginInput{}
	if account != nil {
		login.Email = account.Email
		login.Username = account.Username
	}
	if override == nil {
		return login
	}

	if override.Email != nil {
		login.Email = *override.Email
	}
	if override.Username != nil {
		login.Username = *override.Username
	}
	if override.Password != nil {
		login.Password = *override.Password
	}
	if len(override.Extra) > 0 {
		login.Extra = make(map[string]string, len(override.Extra))
		for k, v := range override.Extra {
			login.Extra[k] = v
		}
	}
	return login
}
