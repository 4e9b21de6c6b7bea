package testutil

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/practicefinder/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db     *mongo.Database
	t      *testing.T
	number atomic.Int64
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

/*─────────────────────────────────────────────────────────────────────────────*
| Listings                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// PracticeSpec is the short form of a listing for tests that only care
// about the searchable fields.
type PracticeSpec struct {
	Name      string
	State     string
	City      string
	Type      string
	Operatory int
}

// CreatePractice inserts a listing built from ps. Display numbers are
// assigned in insertion order starting at 1.
func (f *Fixtures) CreatePractice(ctx context.Context, ps PracticeSpec) models.Practice {
	f.t.Helper()
	return f.InsertPractice(ctx, models.Practice{
		Name:              ps.Name,
		State:             ps.State,
		City:              ps.City,
		Type:              ps.Type,
		Operatory:         ps.Operatory,
		Price:             "$500,000",
		AnnualCollections: "$1,200,000",
		Content:           []models.KeyValue{{Key: "Location", Value: ps.City + ", " + ps.State}},
	})
}

// InsertPractice inserts p as given, filling ID and Number when unset.
func (f *Fixtures) InsertPractice(ctx context.Context, p models.Practice) models.Practice {
	f.t.Helper()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Number == 0 {
		p.Number = int(f.number.Add(1))
	}
	if _, err := f.db.Collection("practices").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create practice: %v", err)
	}
	return p
}

/*─────────────────────────────────────────────────────────────────────────────*
| Users                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (f *Fixtures) hash(password string) string {
	f.t.Helper()
	if password == "" {
		return ""
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	return string(h)
}

// CreateUser creates a USER. An empty password makes a federated
// (Google-only) account.
func (f *Fixtures) CreateUser(ctx context.Context, email, password string, activated bool) models.User {
	f.t.Helper()
	return f.insertUser(ctx, models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Phone:     "555-0100",
		Specialty: "General",
		NPI:       "1234567890",
		Password:  f.hash(password),
		Activated: activated,
		Role:      models.RoleUser,
	})
}

// CreateAdmin creates an activated ADMIN.
func (f *Fixtures) CreateAdmin(ctx context.Context, email, password string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, models.User{
		FirstName: "Test",
		LastName:  "Admin",
		Email:     email,
		Password:  f.hash(password),
		Activated: true,
		Role:      models.RoleAdmin,
	})
}

func (f *Fixtures) insertUser(ctx context.Context, u models.User) models.User {
	f.t.Helper()
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Likes = []primitive.ObjectID{}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create user: %v", err)
	}
	return u
}

// SetLikes overwrites a user's like list, stale ids included.
func (f *Fixtures) SetLikes(ctx context.Context, userID primitive.ObjectID, ids ...primitive.ObjectID) {
	f.t.Helper()
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	_, err := f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"likes": ids}})
	if err != nil {
		f.t.Fatalf("failed to set likes: %v", err)
	}
}

// CreateAuthProvider binds a Google subject id to userID.
func (f *Fixtures) CreateAuthProvider(ctx context.Context, userID primitive.ObjectID, uid string) models.AuthProvider {
	f.t.Helper()
	ap := models.AuthProvider{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		UID:       uid,
		Provider:  models.ProviderGoogle,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("authproviders").InsertOne(ctx, ap); err != nil {
		f.t.Fatalf("failed to create auth provider: %v", err)
	}
	return ap
}

/*─────────────────────────────────────────────────────────────────────────────*
| State descriptions                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// CreateStateDescription inserts a description with one association.
func (f *Fixtures) CreateStateDescription(ctx context.Context, state, description string) models.StateDescription {
	f.t.Helper()
	sd := models.StateDescription{
		ID:          primitive.NewObjectID(),
		Number:      int(f.number.Add(1)),
		State:       state,
		Description: description,
		Associations: []models.Association{
			{Name: state + " Dental Association", Location: "Capitol", Phone: "555-0199", URL: "https://example.org"},
		},
	}
	if _, err := f.db.Collection("statedescriptions").InsertOne(ctx, sd); err != nil {
		f.t.Fatalf("failed to create state description: %v", err)
	}
	return sd
}
