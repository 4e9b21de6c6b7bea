// internal/domain/models/authprovider.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProviderGoogle is the only federated provider.
const ProviderGoogle = "Google"

// AuthProvider binds a federated subject id to a local user.
type AuthProvider struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	UID       string             `bson:"uid" json:"uid"`
	Provider  string             `bson:"provider" json:"provider"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
