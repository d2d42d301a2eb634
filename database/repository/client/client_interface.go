package clientRepo

import (
	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ClientRepository defines methods for the clients profile table.
type ClientRepository interface {
	// GetByID retrieves a profile row by user ID; nil if not found.
	GetByID(id string) (*models.ClientProfile, error)
	// Upsert inserts or replaces the profile row keyed by its ID.
	Upsert(profile *models.ClientProfile) error
	// UpdateFields applies a partial $set update to a profile row.
	UpdateFields(id string, fields bson.M) error
}
