package authproviderstore

import (
	"context"
	"time"

	"github.com/dalemusser/practicefinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the federated-identity bindings collection.
const Collection = "authproviders"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create binds uid from provider to userID.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, uid, provider string) (models.AuthProvider, error) {
	ap := models.AuthProvider{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		UID:       uid,
		Provider:  provider,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, ap); err != nil {
		return models.AuthProvider{}, err
	}
	return ap, nil
}

// Find returns the binding of uid to userID. Returns mongo.ErrNoDocuments
// when uid is not bound to that user.
func (s *Store) Find(ctx context.Context, uid string, userID primitive.ObjectID) (*models.AuthProvider, error) {
	var ap models.AuthProvider
	if err := s.c.FindOne(ctx, bson.M{"uid": uid, "user": userID}).Decode(&ap); err != nil {
		return nil, err
	}
	return &ap, nil
}

// DeleteByUser removes every binding for userID.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
