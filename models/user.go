package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const UsersCollection = "users"

// Gender is the user's own gender as chosen during onboarding.
type Gender struct {
	ID    string `bson:"id,omitempty" json:"id,omitempty"` // male, female, other
	Title string `bson:"title,omitempty" json:"title,omitempty"`
}

type Interests struct {
	Title string `bson:"title,omitempty" json:"title,omitempty"`
	Icon  string `bson:"icon,omitempty" json:"icon,omitempty"`
}

// UserProfile is a registered user as stored in the users collection.
// Registration and profile editing live in other services; here it is read-only.
type UserProfile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name,omitempty" json:"name,omitempty"`
	Age                int                `bson:"age,omitempty" json:"age,omitempty"`
	Gender             *Gender            `bson:"gender,omitempty" json:"gender,omitempty"`
	UserLocation       string             `bson:"userLocation,omitempty" json:"userLocation,omitempty"`
	UserPhoto          []Photo            `bson:"userPhoto" json:"userPhoto"`
	WishUser           string             `bson:"wishUser,omitempty" json:"wishUser,omitempty"` // male, female, all
	UserSex            string             `bson:"userSex,omitempty" json:"userSex,omitempty"`
	Interests          *Interests         `bson:"interests,omitempty" json:"interests,omitempty"`
	IsOnline           bool               `bson:"isOnline" json:"isOnline"`
	LastSeen           *time.Time         `bson:"lastSeen" json:"lastSeen"`
	OnboardingComplete bool               `bson:"onboardingComplete" json:"onboardingComplete"`
}
