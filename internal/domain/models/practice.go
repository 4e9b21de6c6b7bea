// internal/domain/models/practice.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KeyValue is one labelled line of listing content.
type KeyValue struct {
	Key   string `bson:"key" json:"key"`
	Value string `bson:"value" json:"value"`
}

// Practice is a dental practice offered for sale.
//
// Listings are written by the ingestion pipeline, never by the API.
// AdminContent, Origin and SourceLink are only shown to administrators.
type Practice struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Number            int                `bson:"id" json:"id"` // display number, not unique
	Name              string             `bson:"name" json:"name"`
	State             string             `bson:"state" json:"state"`
	City              string             `bson:"city" json:"city"`
	Type              string             `bson:"type" json:"type"`
	Operatory         int                `bson:"operatory" json:"operatory"`
	Price             string             `bson:"price,omitempty" json:"price,omitempty"`
	AnnualCollections string             `bson:"annual_collections,omitempty" json:"annual_collections,omitempty"`
	SquareFt          string             `bson:"square_ft,omitempty" json:"square_ft,omitempty"`
	Details           string             `bson:"details,omitempty" json:"details,omitempty"`
	Content           []KeyValue         `bson:"content,omitempty" json:"content,omitempty"`

	AdminContent []KeyValue `bson:"admin_content,omitempty" json:"admin_content,omitempty"`
	Origin       string     `bson:"origin,omitempty" json:"origin,omitempty"`
	SourceLink   string     `bson:"source_link,omitempty" json:"source_link,omitempty"`
}

// PracticeSummary is the projection used by list and like views.
type PracticeSummary struct {
	ID                primitive.ObjectID `bson:"_id" json:"_id"`
	Number            int                `bson:"id" json:"id"`
	Name              string             `bson:"name" json:"name"`
	State             string             `bson:"state" json:"state"`
	City              string             `bson:"city,omitempty" json:"city,omitempty"`
	Type              string             `bson:"type" json:"type"`
	Operatory         int                `bson:"operatory" json:"operatory"`
	AnnualCollections string             `bson:"annual_collections,omitempty" json:"annual_collections,omitempty"`
}

// PublicView strips the admin-only fields.
func (p Practice) PublicView() Practice {
	p.AdminContent = nil
	p.Origin = ""
	p.SourceLink = ""
	return p
}
