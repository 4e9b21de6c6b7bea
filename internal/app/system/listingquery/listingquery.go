// Package listingquery turns a listing search request into a MongoDB
// filter and a page window.
//
// Composition rule: State and Search are two terms of the same
// case-insensitive OR group over state, name, city and type. A listing
// matching either term in any of those fields passes the group. Operatory
// and Type are strict filters AND-ed onto the group. With no group terms
// only the strict filters apply, and with nothing at all the filter
// matches every listing.
package listingquery

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dalemusser/practicefinder/internal/app/system/paging"
	"github.com/dalemusser/practicefinder/internal/app/system/search"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OperatoryFourPlus is the sentinel meaning "four or more operatories".
const OperatoryFourPlus = "4+"

// SearchFields are the listing fields the OR group matches against.
var SearchFields = []string{"state", "name", "city", "type"}

var (
	ErrInvalidLimit     = paging.ErrInvalidLimit
	ErrInvalidPage      = paging.ErrInvalidPage
	ErrInvalidOperatory = errors.New("invalid operatory")
)

// Request is the body of POST /practice/list.
type Request struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	Search    string `json:"search"`
	State     string `json:"state"`
	Operatory string `json:"operatory"`
	Type      string `json:"type"`
}

// Query is the compiled form of a Request.
type Query struct {
	Filter bson.M
	Window paging.Window
}

// Build validates req and compiles it.
func Build(req Request) (Query, error) {
	w, err := paging.NewWindow(req.Page, req.Limit)
	if err != nil {
		return Query{}, err
	}
	f, err := Filter(req.State, req.Search, req.Operatory, req.Type)
	if err != nil {
		return Query{}, err
	}
	return Query{Filter: f, Window: w}, nil
}

// Filter compiles only the predicate part of a request. It is shared with
// the per-state count endpoints, which pass just a state.
func Filter(state, term, operatory, practiceType string) (bson.M, error) {
	var parts []bson.M

	group := search.NewGroup(SearchFields...).Add(state).Add(term)
	if or := group.Filter(); or != nil {
		parts = append(parts, or)
	}

	if op := strings.TrimSpace(operatory); op != "" {
		if op == OperatoryFourPlus {
			parts = append(parts, bson.M{"operatory": bson.M{"$gte": 4}})
		} else {
			n, err := strconv.Atoi(op)
			if err != nil {
				return nil, ErrInvalidOperatory
			}
			parts = append(parts, bson.M{"operatory": n})
		}
	}

	if t := strings.TrimSpace(practiceType); t != "" {
		parts = append(parts, bson.M{"type": t})
	}

	switch len(parts) {
	case 0:
		return bson.M{}, nil
	case 1:
		return parts[0], nil
	}
	return bson.M{"$and": parts}, nil
}

// ListProjection limits list rows to the public summary fields.
var ListProjection = bson.D{
	{Key: "_id", Value: 1},
	{Key: "id", Value: 1},
	{Key: "name", Value: 1},
	{Key: "state", Value: 1},
	{Key: "city", Value: 1},
	{Key: "type", Value: 1},
	{Key: "operatory", Value: 1},
	{Key: "annual_collections", Value: 1},
}

// FindOptions returns the window, projection and stable _id sort for q.
func (q Query) FindOptions() *options.FindOptions {
	return options.Find().
		SetProjection(ListProjection).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(q.Window.Skip()).
		SetLimit(q.Window.Limit64())
}
