package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeetUser is the public projection of a UserProfile returned by the meets API.
// It is built per request and never stored.
type MeetUser struct {
	MongoID      primitive.ObjectID `json:"_id"`
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name,omitempty"`
	Age          int                `json:"age"`
	Gender       *Gender            `json:"gender,omitempty"`
	Interests    *Interests         `json:"interests"`
	UserLocation string             `json:"userLocation,omitempty"`
	UserPhoto    []Photo            `json:"userPhoto"`
	WishUser     string             `json:"wishUser,omitempty"`
	UserSex      string             `json:"userSex,omitempty"`
	IsOnline     bool               `json:"isOnline"`
	LastSeen     *time.Time         `json:"lastSeen"`
	PhotoURLs    []string           `json:"photoUrls"`
}

// NewMeetUser projects u without photo URLs. Only approved photos are kept.
func NewMeetUser(u UserProfile) MeetUser {
	photos := make([]Photo, 0, len(u.UserPhoto))
	for _, p := range u.UserPhoto {
		if p.Approved() {
			photos = append(photos, p)
		}
	}

	return MeetUser{
		MongoID:      u.ID,
		ID:           u.ID,
		Name:         u.Name,
		Age:          u.Age,
		Gender:       u.Gender,
		Interests:    u.Interests,
		UserLocation: u.UserLocation,
		UserPhoto:    photos,
		WishUser:     u.WishUser,
		UserSex:      u.UserSex,
		IsOnline:     u.IsOnline,
		LastSeen:     u.LastSeen,
		PhotoURLs:    []string{},
	}
}
