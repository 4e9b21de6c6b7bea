package indexes_test

import (
	"testing"

	"github.com/dalemusser/practicefinder/internal/app/system/indexes"
	"github.com/dalemusser/practicefinder/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := []struct {
		coll string
		want []string
	}{
		{"users", []string{"uniq_users_email", "idx_users_npi", "idx_users_createdat"}},
		{"practices", []string{"idx_practices_state_city", "idx_practices_type", "idx_practices_operatory"}},
		{"authproviders", []string{"uniq_authproviders_uid_user", "idx_authproviders_user"}},
		{"statedescriptions", []string{"idx_statedescriptions_state"}},
		{"audit_events", []string{"idx_audit_timestamp", "idx_audit_user_timestamp", "idx_audit_category_type_timestamp"}},
	}
	for _, tt := range tests {
		t.Run(tt.coll, func(t *testing.T) {
			names := indexNames(t, db, tt.coll)
			for _, name := range tt.want {
				if !names[name] {
					t.Errorf("expected index %q to exist on %s", name, tt.coll)
				}
			}
		})
	}
}

func TestEnsureAll_RenamesMisnamedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("practices")
	if _, err := coll.Indexes().DropOne(ctx, "idx_practices_type"); err != nil {
		t.Fatalf("DropOne failed: %v", err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "type", Value: 1}},
		Options: options.Index().SetName("type_1_legacy"),
	}); err != nil {
		t.Fatalf("CreateOne failed: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, db, "practices")
	if !names["idx_practices_type"] {
		t.Error("expected idx_practices_type after reconcile")
	}
	if names["type_1_legacy"] {
		t.Error("expected legacy index to be dropped")
	}
}

func TestEnsureAll_UniqueEmailEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	users := db.Collection("users")
	if _, err := users.InsertOne(ctx, bson.M{"email": "dup@example.com"}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := users.InsertOne(ctx, bson.M{"email": "dup@example.com"}); err == nil {
		t.Error("expected duplicate key error on second insert")
	}
}
