package models

import "time"

// UserMetadata mirrors the free-form metadata attached to the auth identity.
// Both name fields exist because signup writes full_name while older profile
// updates wrote name; display-name resolution prefers full_name.
type UserMetadata struct {
	FullName string `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Name     string `bson:"name,omitempty" json:"name,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// User is the authentication identity record.
type User struct {
	ID           string       `bson:"id" json:"id"`
	Phone        string       `bson:"phone" json:"phone"`
	Email        string       `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string       `bson:"password_hash,omitempty" json:"-"`
	Metadata     UserMetadata `bson:"metadata" json:"user_metadata"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updated_at"`
}

// ClientProfile is the clients table row holding the non-auth user fields.
type ClientProfile struct {
	ID          string `bson:"id" json:"id"`
	Email       string `bson:"email" json:"email"`
	Name        string `bson:"name" json:"name"`
	Phone       string `bson:"phone" json:"phone"`
	Address     string `bson:"address" json:"address"`
	Preferences string `bson:"preferences" json:"preferences"`
}

// Account is the merged client-visible view of the auth identity and the
// clients profile row.
type Account struct {
	ID          string `json:"id"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	Preferences string `json:"preferences,omitempty"`
}
