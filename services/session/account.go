package session

import "trimly/models"

// fallbackDisplayName is shown when neither the auth metadata nor the
// profile row carries a name.
const fallbackDisplayName = "vizitator"

// mergeAccount builds the client-visible user from the auth identity and
// the clients profile row. Display name resolution order: metadata full
// name, metadata short name, profile name, fixed fallback.
func mergeAccount(user *models.User, profile *models.ClientProfile) *models.Account {
	account := &models.Account{
		ID:    user.ID,
		Phone: user.Phone,
		Email: user.Email,
	}

	if profile != nil {
		if account.Email == "" {
			account.Email = profile.Email
		}
		if account.Phone == "" {
			account.Phone = profile.Phone
		}
		account.Address = profile.Address
		account.Preferences = profile.Preferences
	}

	switch {
	case user.Metadata.FullName != "":
		account.Name = user.Metadata.FullName
	case user.Metadata.Name != "":
		account.Name = user.Metadata.Name
	case profile != nil && profile.Name != "":
		account.Name = profile.Name
	default:
		account.Name = fallbackDisplayName
	}

	return account
}
