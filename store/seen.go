package store

import (
	"context"
	"fmt"
	"time"

	"github.com/raushankrgupta/user-meets/models"
	"github.com/raushankrgupta/user-meets/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SeenStore is the seen-state ledger: one record per (viewer, candidate) pair.
type SeenStore struct {
	col *mongo.Collection
}

func NewSeenStore(m *utils.Mongo) *SeenStore {
	return &SeenStore{col: m.Collection(models.SeenCollection)}
}

// EnsureIndexes creates the unique pair index and the viewer lookup index.
func (s *SeenStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "seenUserId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("userId_seenUserId_unique"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId"),
		},
	})
	if err != nil {
		return fmt.Errorf("create seen indexes: %w", err)
	}
	return nil
}

// SeenUserIDs returns every candidate the viewer has a record for, whatever the action.
func (s *SeenStore) SeenUserIDs(ctx context.Context, viewer primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"seenUserId": 1, "_id": 0})
	cursor, err := s.col.Find(ctx, bson.M{"userId": viewer}, opts)
	if err != nil {
		return nil, fmt.Errorf("find seen records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.SeenRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode seen records: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.SeenUserID)
	}
	return ids, nil
}

// RecordPass sets the pair's action to pass, creating the record if needed.
// The write is a single upsert; if a concurrent insert wins the race on the
// unique index the update is reissued against the now existing record.
func (s *SeenStore) RecordPass(ctx context.Context, viewer, candidate primitive.ObjectID, at time.Time) error {
	update := bson.M{
		"$set":         bson.M{"action": models.ActionPass, "createdAt": at},
		"$setOnInsert": bson.M{"userId": viewer, "seenUserId": candidate},
	}

	_, err := s.col.UpdateOne(ctx, pairFilter(viewer, candidate), update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		_, err = s.col.UpdateOne(ctx, pairFilter(viewer, candidate), bson.M{"$set": update["$set"]})
	}
	if err != nil {
		return fmt.Errorf("record pass: %w", err)
	}
	return nil
}

// RecordView inserts a view record only when the pair has none; an existing
// view, pass or like is left untouched.
func (s *SeenStore) RecordView(ctx context.Context, viewer, candidate primitive.ObjectID, at time.Time) error {
	update := bson.M{"$setOnInsert": bson.M{
		"userId":     viewer,
		"seenUserId": candidate,
		"action":     models.ActionView,
		"createdAt":  at,
	}}

	_, err := s.col.UpdateOne(ctx, pairFilter(viewer, candidate), update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// Lost the insert race: the record exists, which is all a view asks for.
		return nil
	}
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// DeleteByViewer removes every record of the viewer and returns how many went.
func (s *SeenStore) DeleteByViewer(ctx context.Context, viewer primitive.ObjectID) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"userId": viewer})
	if err != nil {
		return 0, fmt.Errorf("delete seen records: %w", err)
	}
	return res.DeletedCount, nil
}

func pairFilter(viewer, candidate primitive.ObjectID) bson.M {
	return bson.M{"userId": viewer, "seenUserId": candidate}
}
