// internal/app/store/listings/listingstore.go
package listingstore

import (
	"context"
	"sort"
	"strings"

	"github.com/dalemusser/practicefinder/internal/app/system/listingquery"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the listings collection name.
const Collection = "practices"

// Store reads practice listings. Listings are loaded by the import
// pipeline, so the store exposes no write path.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Search returns one page of summaries and the total count for the whole
// filter. The count ignores the window.
func (s *Store) Search(ctx context.Context, q listingquery.Query) ([]models.PracticeSummary, int64, error) {
	total, err := s.c.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, q.Filter, q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	rows := make([]models.PracticeSummary, 0, q.Window.Limit)
	if err := cur.All(ctx, &rows); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetByID loads a full listing. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Practice, error) {
	var p models.Practice
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Count counts listings matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return s.c.CountDocuments(ctx, filter)
}

// EstimatedTotal is the collection size from metadata.
func (s *Store) EstimatedTotal(ctx context.Context) (int64, error) {
	return s.c.EstimatedDocumentCount(ctx)
}

// summaryProjection is the shape used for like lists.
var summaryProjection = bson.D{
	{Key: "_id", Value: 1},
	{Key: "id", Value: 1},
	{Key: "name", Value: 1},
	{Key: "state", Value: 1},
	{Key: "operatory", Value: 1},
	{Key: "type", Value: 1},
	{Key: "annual_collections", Value: 1},
}

// Summaries resolves ids to summaries in the order given. Ids that no
// longer exist are left out.
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID) ([]models.PracticeSummary, error) {
	if len(ids) == 0 {
		return []models.PracticeSummary{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(summaryProjection))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var found []models.PracticeSummary
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.PracticeSummary, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.PracticeSummary, 0, len(found))
	seen := make(map[primitive.ObjectID]bool, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok && !seen[id] {
			out = append(out, p)
			seen[id] = true
		}
	}
	return out, nil
}

// Exists reports whether a listing with id is present.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DistinctCities lists the non-empty cities of listings in exactly state,
// sorted alphabetically.
func (s *Store) DistinctCities(ctx context.Context, state string) ([]string, error) {
	vals, err := s.c.Distinct(ctx, "city", bson.M{"state": state})
	if err != nil {
		return nil, err
	}
	cities := make([]string, 0, len(vals))
	for _, v := range vals {
		if c, ok := v.(string); ok && strings.TrimSpace(c) != "" {
			cities = append(cities, c)
		}
	}
	sort.Strings(cities)
	return cities, nil
}
