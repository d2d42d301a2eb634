package session

import (
	"testing"

	"trimly/models"
)

func TestMergeAccountNamePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		profile  *models.ClientProfile
		wantName string
	}{
		{
			name:     "metadata full name wins",
			user:     &models.User{ID: "u1", Metadata: models.UserMetadata{FullName: "Ana Pop", Name: "ana"}},
			profile:  &models.ClientProfile{ID: "u1", Name: "A. Pop"},
			wantName: "Ana Pop",
		},
		{
			name:     "metadata short name next",
			user:     &models.User{ID: "u1", Metadata: models.UserMetadata{Name: "ana"}},
			profile:  &models.ClientProfile{ID: "u1", Name: "A. Pop"},
			wantName: "ana",
		},
		{
			name:     "profile name next",
			user:     &models.User{ID: "u1"},
			profile:  &models.ClientProfile{ID: "u1", Name: "A. Pop"},
			wantName: "A. Pop",
		},
		{
			name:     "fallback when nothing set",
			user:     &models.User{ID: "u1"},
			profile:  &models.ClientProfile{ID: "u1"},
			wantName: "vizitator",
		},
		{
			name:     "fallback without profile row",
			user:     &models.User{ID: "u1"},
			wantName: "vizitator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := mergeAccount(tt.user, tt.profile)
			if account.Name != tt.wantName {
				t.Fatalf("name = %q, want %q", account.Name, tt.wantName)
			}
		})
	}
}

func TestMergeAccountFillsContactFromProfile(t *testing.T) {
	user := &models.User{ID: "u1", Phone: ""}
	profile := &models.ClientProfile{
		ID:          "u1",
		Email:       "ana@example.com",
		Phone:       "+40712345678",
		Address:     "Str. Florilor 3",
		Preferences: "short on the sides",
	}

	account := mergeAccount(user, profile)
	if account.Email != "ana@example.com" {
		t.Fatalf("email = %q, want profile email", account.Email)
	}
	if account.Phone != "+40712345678" {
		t.Fatalf("phone = %q, want profile phone", account.Phone)
	}
	if account.Address != "Str. Florilor 3" {
		t.Fatalf("address = %q, want profile address", account.Address)
	}
	if account.Preferences != "short on the sides" {
		t.Fatalf("preferences = %q, want profile preferences", account.Preferences)
	}
}

func TestMergeAccountAuthFieldsWin(t *testing.T) {
	user := &models.User{ID: "u1", Phone: "+40700000000", Email: "auth@example.com"}
	profile := &models.ClientProfile{ID: "u1", Phone: "+40711111111", Email: "profile@example.com"}

	account := mergeAccount(user, profile)
	if account.Phone != "+40700000000" {
		t.Fatalf("phone = %q, auth identity phone must win", account.Phone)
	}
	if account.Email != "auth@example.com" {
		t.Fatalf("email = %q, auth identity email must win", account.Email)
	}
}
