package meets

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors returned by Service. Anything else is an internal failure.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("invalid user id")
	ErrNotFound     = errors.New("user not found")
)

func parseViewerID(id string) (primitive.ObjectID, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return primitive.NilObjectID, ErrUnauthorized
	}
	return oid, nil
}

func parseCandidateID(id string) (primitive.ObjectID, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return primitive.NilObjectID, ErrBadRequest
	}
	return oid, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, primitive.ErrInvalidHex
	}
	return primitive.ObjectIDFromHex(id)
}
