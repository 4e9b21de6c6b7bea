package userstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AddLike adds practiceID to the user's like set if it is not already
// there. added is false when the set already held it.
func (s *Store) AddLike(ctx context.Context, userID, practiceID primitive.ObjectID) (added bool, err error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"likes": practiceID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return res.ModifiedCount > 0, nil
}

// RemoveLike pulls practiceID from the user's like set.
func (s *Store) RemoveLike(ctx context.Context, userID, practiceID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"likes": practiceID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ToggleLike adds the like, or removes it when it was already present.
// liked reports the state after the call.
func (s *Store) ToggleLike(ctx context.Context, userID, practiceID primitive.ObjectID) (liked bool, err error) {
	added, err := s.AddLike(ctx, userID, practiceID)
	if err != nil {
		return false, err
	}
	if added {
		return true, nil
	}
	if err := s.RemoveLike(ctx, userID, practiceID); err != nil {
		return false, err
	}
	return false, nil
}

// PruneLikes pulls the given stale references from the user's like set.
// Likes added since the caller read the user are left alone. It returns
// how many user documents changed (0 or 1).
func (s *Store) PruneLikes(ctx context.Context, userID primitive.ObjectID, stale []primitive.ObjectID) (int64, error) {
	if len(stale) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"likes": bson.M{"$in": stale}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
