package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const SeenCollection = "seens"

// SeenAction is what a viewer did with a candidate.
type SeenAction string

const (
	ActionView SeenAction = "view"
	ActionPass SeenAction = "pass"
	ActionLike SeenAction = "like"
)

// SeenRecord is the single interaction fact from UserID (viewer) to SeenUserID
// (candidate). A unique index on (userId, seenUserId) keeps it single.
type SeenRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	SeenUserID primitive.ObjectID `bson:"seenUserId" json:"seenUserId"`
	Action     SeenAction         `bson:"action" json:"action"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
