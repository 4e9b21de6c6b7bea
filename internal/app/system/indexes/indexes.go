// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	steps := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"practices", ensurePractices},
		{"authproviders", ensureAuthProviders},
		{"statedescriptions", ensureStateDescriptions},
		{"audit_events", ensureAuditEvents},
	}
	for _, s := range steps {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

// desired is one index model with its name, unique flag and key signature
// pulled out for comparison.
type desired struct {
	model  mongo.IndexModel
	name   string
	unique bool
	sig    string
}

func describe(m mongo.IndexModel) desired {
	d := desired{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = boolVal(m.Options.Unique)
	}
	return d
}

func (d desired) fields(coll *mongo.Collection, start time.Time) []zap.Field {
	return []zap.Field{
		zap.String("collection", coll.Name()),
		zap.String("name", d.name),
		zap.String("keys", d.sig),
		zap.Bool("unique", d.unique),
		zap.String("took", time.Since(start).String()),
	}
}

// recreate drops the index named old and creates d in its place.
func recreate(ctx context.Context, coll *mongo.Collection, old string, d desired) error {
	if _, err := coll.Indexes().DropOne(ctx, old); err != nil {
		return fmt.Errorf("drop %s: %w", old, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, d.model); err != nil {
		if d.unique && wafflemongo.IsDup(err) {
			return fmt.Errorf("cannot create unique index (duplicates present on %s)", d.sig)
		}
		return err
	}
	return nil
}

func ensureIndex(ctx context.Context, coll *mongo.Collection, d desired) error {
	start := time.Now()

	ex, found := listIndexes(ctx, coll)[d.sig]
	if found {
		switch {
		case boolVal(ex.Unique) != d.unique:
			// Options changed (e.g. upgrading to unique).
			if err := recreate(ctx, coll, ex.Name, d); err != nil {
				return err
			}
			zap.L().Info("index dropped and recreated", d.fields(coll, start)...)
		case d.name != "" && ex.Name != d.name:
			if err := recreate(ctx, coll, ex.Name, d); err != nil {
				return err
			}
			zap.L().Info("index renamed", append(d.fields(coll, start), zap.String("from", ex.Name))...)
		default:
			zap.L().Info("reusing existing index", d.fields(coll, start)...)
		}
		return nil
	}

	created, err := coll.Indexes().CreateOne(ctx, d.model)
	if err == nil {
		zap.L().Info("index ensured", append(d.fields(coll, start), zap.String("created_name", created))...)
		return nil
	}
	if isOptionsConflictErr(err) {
		if ex, ok := listIndexes(ctx, coll)[d.sig]; ok {
			if boolVal(ex.Unique) == d.unique {
				zap.L().Info("reusing existing index (post-conflict)", d.fields(coll, start)...)
				return nil
			}
			if err := recreate(ctx, coll, ex.Name, d); err != nil {
				return err
			}
			zap.L().Info("index dropped and recreated (post-conflict)", d.fields(coll, start)...)
			return nil
		}
	}
	if d.unique && wafflemongo.IsDup(err) {
		return fmt.Errorf("cannot create unique index (duplicates present on %s)", d.sig)
	}
	zap.L().Warn("index ensure failed", append(d.fields(coll, start), zap.Error(err))...)
	return err
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		d := describe(m)
		if err := ensureIndex(ctx, coll, d); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), d.name, err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		// Sign-in, sign-up and profile update all rely on this.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// NPI taken checks.
		{
			Keys:    bson.D{{Key: "npi", Value: 1}},
			Options: options.Index().SetName("idx_users_npi"),
		},
		// Admin user list, newest first.
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_users_createdat"),
		},
	})
}

func ensurePractices(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("practices"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "state", Value: 1}, {Key: "city", Value: 1}},
			Options: options.Index().SetName("idx_practices_state_city"),
		},
		{
			Keys:    bson.D{{Key: "type", Value: 1}},
			Options: options.Index().SetName("idx_practices_type"),
		},
		{
			Keys:    bson.D{{Key: "operatory", Value: 1}},
			Options: options.Index().SetName("idx_practices_operatory"),
		},
	})
}

func ensureAuthProviders(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("authproviders"), []mongo.IndexModel{
		// One binding per provider subject and user.
		{
			Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_authproviders_uid_user"),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetName("idx_authproviders_user"),
		},
	})
}

func ensureStateDescriptions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("statedescriptions"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "state", Value: 1}},
			Options: options.Index().SetName("idx_statedescriptions_state"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_category_type_timestamp"),
		},
	})
}
