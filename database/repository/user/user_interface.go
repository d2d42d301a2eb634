package userRepo

import (
	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for auth identity data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID; nil if not found.
	GetByID(id string) (*models.User, error)
	// GetByPhone retrieves a user by its phone number; nil if not found.
	GetByPhone(phone string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// UpdateSetDocument applies a partial $set update to a user record.
	UpdateSetDocument(id string, updateDoc bson.M) error
}
