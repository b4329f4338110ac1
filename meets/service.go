// Package meets implements the discovery feed: candidate selection, seen-state
// bookkeeping and profile enrichment.
package meets

import (
	"context"
	"fmt"
	"time"

	"github.com/raushankrgupta/user-meets/metrics"
	"github.com/raushankrgupta/user-meets/models"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 20
)

// ProfileStore is the read side of the users collection.
type ProfileStore interface {
	// FindByID returns nil, nil when the user does not exist.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserProfile, error)
	FindExcluding(ctx context.Context, exclude []primitive.ObjectID, limit int) ([]models.UserProfile, error)
}

// SeenLedger records which candidates a viewer has interacted with.
type SeenLedger interface {
	SeenUserIDs(ctx context.Context, viewer primitive.ObjectID) ([]primitive.ObjectID, error)
	RecordPass(ctx context.Context, viewer, candidate primitive.ObjectID, at time.Time) error
	RecordView(ctx context.Context, viewer, candidate primitive.ObjectID, at time.Time) error
	DeleteByViewer(ctx context.Context, viewer primitive.ObjectID) (int64, error)
}

type Service struct {
	users    ProfileStore
	seen     SeenLedger
	enricher *Enricher
	now      func() time.Time
}

func NewService(users ProfileStore, seen SeenLedger, enricher *Enricher) *Service {
	return &Service{users: users, seen: seen, enricher: enricher, now: time.Now}
}

// ClampPageSize maps a requested page size into [1, MaxPageSize]; anything
// non-positive means DefaultPageSize.
func ClampPageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return min(limit, MaxPageSize)
}

// ListCandidates returns the next page of profiles the viewer has no seen record
// for. Any action excludes a candidate, a plain view included. Listing itself
// records nothing.
func (s *Service) ListCandidates(ctx context.Context, viewerID string, limit int) ([]models.MeetUser, error) {
	viewer, err := parseViewerID(viewerID)
	if err != nil {
		return nil, err
	}
	limit = ClampPageSize(limit)

	current, err := s.users.FindByID(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	if current == nil {
		return nil, ErrNotFound
	}

	seenIDs, err := s.seen.SeenUserIDs(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	exclude := append([]primitive.ObjectID{viewer}, seenIDs...)

	users, err := s.users.FindExcluding(ctx, exclude, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	enriched := s.enricher.EnrichAll(ctx, users)
	metrics.CandidatesReturned.Observe(float64(len(enriched)))
	log.Info().Str("viewer", viewerID).Int("found", len(enriched)).Msg("[meets] getMeets")
	return enriched, nil
}

// GetProfile returns one candidate whatever the viewer's seen state for it.
func (s *Service) GetProfile(ctx context.Context, viewerID, candidateID string) (models.MeetUser, error) {
	if _, err := parseViewerID(viewerID); err != nil {
		return models.MeetUser{}, err
	}
	candidate, err := parseCandidateID(candidateID)
	if err != nil {
		return models.MeetUser{}, err
	}

	u, err := s.users.FindByID(ctx, candidate)
	if err != nil {
		return models.MeetUser{}, fmt.Errorf("get profile: %w", err)
	}
	if u == nil {
		return models.MeetUser{}, ErrNotFound
	}
	return s.enricher.Enrich(ctx, *u), nil
}

// RecordPass marks the candidate as passed, overwriting any earlier action.
func (s *Service) RecordPass(ctx context.Context, viewerID, candidateID string) error {
	viewer, candidate, err := parsePair(viewerID, candidateID)
	if err != nil {
		return err
	}
	if err := s.seen.RecordPass(ctx, viewer, candidate, s.now()); err != nil {
		return fmt.Errorf("record pass: %w", err)
	}
	metrics.InteractionsRecorded.WithLabelValues(string(models.ActionPass)).Inc()
	log.Info().Str("viewer", viewerID).Str("candidate", candidateID).Msg("[meets] user passed")
	return nil
}

// RecordView marks the candidate as viewed unless the pair already has a record.
func (s *Service) RecordView(ctx context.Context, viewerID, candidateID string) error {
	viewer, candidate, err := parsePair(viewerID, candidateID)
	if err != nil {
		return err
	}
	if err := s.seen.RecordView(ctx, viewer, candidate, s.now()); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	metrics.InteractionsRecorded.WithLabelValues(string(models.ActionView)).Inc()
	return nil
}

// ResetHistory deletes all of the viewer's seen records.
func (s *Service) ResetHistory(ctx context.Context, viewerID string) error {
	viewer, err := parseViewerID(viewerID)
	if err != nil {
		return err
	}
	n, err := s.seen.DeleteByViewer(ctx, viewer)
	if err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	metrics.HistoryResets.Inc()
	log.Info().Str("viewer", viewerID).Int64("deleted", n).Msg("[meets] history reset")
	return nil
}

func parsePair(viewerID, candidateID string) (primitive.ObjectID, primitive.ObjectID, error) {
	viewer, err := parseViewerID(viewerID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	candidate, err := parseCandidateID(candidateID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return viewer, candidate, nil
}
