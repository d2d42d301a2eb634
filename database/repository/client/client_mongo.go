package clientRepo

import (
	"context"
	"fmt"
	"time"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClientRepo implements ClientRepository using MongoDB.
type MongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo creates a new instance of ClientRepository using MongoDB.
func NewMongoClientRepo() ClientRepository {
	coll := database.MongoClient.Database("trimly").Collection("clients")
	repo := &MongoClientRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoClientRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a profile row by user ID.
func (r *MongoClientRepo) GetByID(id string) (*models.ClientProfile, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var profile models.ClientProfile
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch client profile with id %s: %w", id, err)
	}
	return &profile, nil
}

// Upsert inserts or replaces the profile row keyed by its ID. Safe to retry.
func (r *MongoClientRepo) Upsert(profile *models.ClientProfile) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": profile.ID}
	update := bson.M{"$set": profile}
	opts := options.Update().SetUpsert(true)

	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert client profile with id %s: %w", profile.ID, err)
	}
	return nil
}

// UpdateFields applies a partial $set update to a profile row.
func (r *MongoClientRepo) UpdateFields(id string, fields bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{"$set": fields}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update client profile with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("client profile with id %s not found", id)
	}
	return nil
}
