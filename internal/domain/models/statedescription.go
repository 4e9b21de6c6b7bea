// internal/domain/models/statedescription.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Association is a dental association listed on a state page.
type Association struct {
	Name     string `bson:"name" json:"name"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	URL      string `bson:"url,omitempty" json:"url,omitempty"`
}

// StateDescription is the editorial blurb shown for a state.
type StateDescription struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Number       int                `bson:"id,omitempty" json:"id,omitempty"`
	State        string             `bson:"state" json:"state"`
	Description  string             `bson:"description" json:"description"`
	Associations []Association      `bson:"association" json:"association"`
}
