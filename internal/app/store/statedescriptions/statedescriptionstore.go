package statedescriptionstore

import (
	"context"
	"regexp"
	"strings"

	"github.com/dalemusser/practicefinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection holds editorial state descriptions.
const Collection = "statedescriptions"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// FindByState returns descriptions whose state equals state, ignoring case.
func (s *Store) FindByState(ctx context.Context, state string) ([]models.StateDescription, error) {
	state = strings.TrimSpace(state)
	filter := bson.M{"state": bson.M{"$regex": "^" + regexp.QuoteMeta(state) + "$", "$options": "i"}}

	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.StateDescription{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
