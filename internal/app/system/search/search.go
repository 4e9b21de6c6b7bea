// internal/app/system/search/search.go
package search

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ContainsFold matches documents whose field contains term, ignoring case.
// The term is matched literally; regex metacharacters are escaped.
func ContainsFold(field, term string) bson.M {
	return bson.M{field: bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}}
}

// Group builds one $or over a fixed set of fields. Every term added is
// matched against every field, so two terms widen the result rather than
// narrowing it.
type Group struct {
	fields []string
	terms  []string
}

// NewGroup starts a group over the given fields.
func NewGroup(fields ...string) *Group {
	return &Group{fields: fields}
}

// Add appends a term. Blank terms and exact repeats are ignored.
func (g *Group) Add(term string) *Group {
	term = strings.TrimSpace(term)
	if term == "" {
		return g
	}
	for _, t := range g.terms {
		if t == term {
			return g
		}
	}
	g.terms = append(g.terms, term)
	return g
}

// Empty reports whether no terms were added.
func (g *Group) Empty() bool { return len(g.terms) == 0 }

// Filter returns {"$or": [...]} or nil when the group is empty.
func (g *Group) Filter() bson.M {
	if g.Empty() {
		return nil
	}
	clauses := make([]bson.M, 0, len(g.terms)*len(g.fields))
	for _, t := range g.terms {
		for _, f := range g.fields {
			clauses = append(clauses, ContainsFold(f, t))
		}
	}
	return bson.M{"$or": clauses}
}
