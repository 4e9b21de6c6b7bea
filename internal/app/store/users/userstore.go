package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/practicefinder/internal/app/system/normalize"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the users collection name.
const Collection = "users"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

var (
	// ErrDuplicateEmail is returned when another user already has the email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "USER"|"ADMIN"`)
	errNoEmail        = errors.New("email is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Email is normalized, role defaults to USER,
// and the like set starts empty. Password must already be hashed.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.FirstName = normalize.Name(u.FirstName)
	u.LastName = normalize.Name(u.LastName)
	u.NPI = normalize.NPI(u.NPI)
	u.Phone = normalize.Phone(u.Phone)
	if u.Email == "" {
		return models.User{}, errNoEmail
	}

	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Role != models.RoleUser && u.Role != models.RoleAdmin {
		return models.User{}, errBadRole
	}
	if u.Likes == nil {
		u.Likes = []primitive.ObjectID{}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// EmailExistsForOther checks if an email already exists for a user other than the given ID.
// Pass primitive.NilObjectID to check against every user.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"email": normalize.Email(email)}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	err := s.c.FindOne(ctx, filter).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// NPIExists reports whether any user has registered npi.
func (s *Store) NPIExists(ctx context.Context, npi string) (bool, error) {
	npi = normalize.NPI(npi)
	if npi == "" {
		return false, nil
	}
	err := s.c.FindOne(ctx, bson.M{"npi": npi}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// Activate sets activated=true. It returns mongo.ErrNoDocuments when the
// user is missing and changed=false when it was already active.
func (s *Store) Activate(ctx context.Context, id primitive.ObjectID) (changed bool, err error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"activated": true,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return res.ModifiedCount > 0, nil
}

// PromoteAdmin gives an existing account the ADMIN role and activates it.
// changed is false when it already was an active admin.
func (s *Store) PromoteAdmin(ctx context.Context, id primitive.ObjectID) (changed bool, err error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":      models.RoleAdmin,
		"activated": true,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return res.ModifiedCount > 0, nil
}

// SetPassword stores a new bcrypt hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ProfileUpdate holds the profile fields a user may change. Nil fields
// are left untouched.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Phone         *string
	Specialty     *string
	NPI           *string
	NeedFinancing *bool
}

// Set builds the $set document for upd, normalizing each present field.
func (upd ProfileUpdate) Set() bson.M {
	set := bson.M{}
	if upd.FirstName != nil {
		set["firstName"] = normalize.Name(*upd.FirstName)
	}
	if upd.LastName != nil {
		set["lastName"] = normalize.Name(*upd.LastName)
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Phone != nil {
		set["phone"] = normalize.Phone(*upd.Phone)
	}
	if upd.Specialty != nil {
		set["specialty"] = *upd.Specialty
	}
	if upd.NPI != nil {
		set["npi"] = normalize.NPI(*upd.NPI)
	}
	if upd.NeedFinancing != nil {
		set["needFinancing"] = *upd.NeedFinancing
	}
	return set
}

// UpdateProfile applies upd. Returns ErrDuplicateEmail if the new email
// belongs to another user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	set := upd.Set()
	if len(set) == 0 {
		return nil
	}
	set["updatedAt"] = time.Now().UTC()

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListExcept returns every user other than id, newest first, without
// password hashes.
func (s *Store) ListExcept(ctx context.Context, id primitive.ObjectID) ([]models.User, error) {
	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$ne": id}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a user. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
