package meets

import (
	"context"
	"time"

	"github.com/raushankrgupta/user-meets/metrics"
	"github.com/raushankrgupta/user-meets/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultPhotoURLTTL is how long signed photo URLs stay valid unless configured.
const DefaultPhotoURLTTL = time.Hour

// URLSigner turns an object key into a time-limited fetch URL.
type URLSigner interface {
	SignGetURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Enricher builds MeetUser projections with resolved photo URLs.
type Enricher struct {
	signer URLSigner
	ttl    time.Duration
}

func NewEnricher(signer URLSigner, ttl time.Duration) *Enricher {
	if ttl <= 0 {
		ttl = DefaultPhotoURLTTL
	}
	return &Enricher{signer: signer, ttl: ttl}
}

// resolution is the outcome of resolving one photo: a URL, or nothing.
type resolution struct {
	url string
	ok  bool
}

// Enrich projects u and resolves its approved photos concurrently. Photos that
// cannot be resolved, including signing failures, are left out of PhotoURLs.
func (e *Enricher) Enrich(ctx context.Context, u models.UserProfile) models.MeetUser {
	m := models.NewMeetUser(u)
	if len(m.UserPhoto) == 0 {
		return m
	}

	results := make([]resolution, len(m.UserPhoto))
	var g errgroup.Group
	for i, p := range m.UserPhoto {
		g.Go(func() error {
			results[i] = e.resolve(ctx, u.ID.Hex(), p)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.ok {
			m.PhotoURLs = append(m.PhotoURLs, r.url)
		}
	}
	return m
}

// EnrichAll enriches users concurrently, keeping their order.
func (e *Enricher) EnrichAll(ctx context.Context, users []models.UserProfile) []models.MeetUser {
	out := make([]models.MeetUser, len(users))
	var g errgroup.Group
	for i, u := range users {
		g.Go(func() error {
			out[i] = e.Enrich(ctx, u)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (e *Enricher) resolve(ctx context.Context, userID string, p models.Photo) resolution {
	switch p.Kind {
	case models.PhotoLegacyURL:
		return resolution{url: p.URL, ok: true}
	case models.PhotoStorageKey:
		url, err := e.signer.SignGetURL(ctx, p.Key, e.ttl)
		if err != nil {
			metrics.PhotoSignFailures.Inc()
			log.Warn().Err(err).Str("user", userID).Str("key", p.Key).Msg("[meets] photo url signing failed")
			return resolution{}
		}
		return resolution{url: url, ok: url != ""}
	default:
		return resolution{}
	}
}
