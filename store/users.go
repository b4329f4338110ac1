package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/raushankrgupta/user-meets/models"
	"github.com/raushankrgupta/user-meets/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore reads user profiles from the users collection.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(m *utils.Mongo) *UserStore {
	return &UserStore{col: m.Collection(models.UsersCollection)}
}

// FindByID returns the user or nil when no document has that id.
func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserProfile, error) {
	var u models.UserProfile
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id.Hex(), err)
	}
	return &u, nil
}

// FindExcluding returns up to limit users whose id is not in exclude, in natural order.
func (s *UserStore) FindExcluding(ctx context.Context, exclude []primitive.ObjectID, limit int) ([]models.UserProfile, error) {
	if exclude == nil {
		exclude = []primitive.ObjectID{}
	}
	filter := bson.M{"_id": bson.M{"$nin": exclude}}

	cursor, err := s.col.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.UserProfile{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return users, nil
}
