package meets

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/raushankrgupta/user-meets/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memUsers keeps users in insertion order, mimicking natural order in MongoDB.
type memUsers struct {
	mu    sync.Mutex
	users []models.UserProfile
	err   error
}

func (m *memUsers) add(u models.UserProfile) models.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users = append(m.users, u)
	return u
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindExcluding(_ context.Context, exclude []primitive.ObjectID, limit int) ([]models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.UserProfile{}
	for _, u := range m.users {
		if len(out) == limit {
			break
		}
		if !slices.Contains(exclude, u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

type pair struct{ viewer, candidate primitive.ObjectID }

// memSeen applies the same write rules as the MongoDB ledger.
type memSeen struct {
	mu      sync.Mutex
	records map[pair]models.SeenRecord
	order   []pair
	err     error
}

func newMemSeen() *memSeen {
	return &memSeen{records: map[pair]models.SeenRecord{}}
}

func (m *memSeen) SeenUserIDs(_ context.Context, viewer primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var ids []primitive.ObjectID
	for _, p := range m.order {
		if _, ok := m.records[p]; ok && p.viewer == viewer {
			ids = append(ids, p.candidate)
		}
	}
	return ids, nil
}

func (m *memSeen) RecordPass(_ context.Context, viewer, candidate primitive.ObjectID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	p := pair{viewer, candidate}
	r, ok := m.records[p]
	if !ok {
		r = models.SeenRecord{ID: primitive.NewObjectID(), UserID: viewer, SeenUserID: candidate}
		m.order = append(m.order, p)
	}
	r.Action = models.ActionPass
	r.CreatedAt = at
	m.records[p] = r
	return nil
}

func (m *memSeen) RecordView(_ context.Context, viewer, candidate primitive.ObjectID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	p := pair{viewer, candidate}
	if _, ok := m.records[p]; ok {
		return nil
	}
	m.records[p] = models.SeenRecord{
		ID: primitive.NewObjectID(), UserID: viewer, SeenUserID: candidate,
		Action: models.ActionView, CreatedAt: at,
	}
	m.order = append(m.order, p)
	return nil
}

// like inserts a like record directly; likes come from another flow.
func (m *memSeen) like(viewer, candidate primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := pair{viewer, candidate}
	m.records[p] = models.SeenRecord{UserID: viewer, SeenUserID: candidate, Action: models.ActionLike}
	m.order = append(m.order, p)
}

func (m *memSeen) DeleteByViewer(_ context.Context, viewer primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for p := range m.records {
		if p.viewer == viewer {
			delete(m.records, p)
			n++
		}
	}
	m.order = slices.DeleteFunc(m.order, func(p pair) bool { return p.viewer == viewer })
	return n, nil
}

func (m *memSeen) get(viewer, candidate primitive.ObjectID) (models.SeenRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[pair{viewer, candidate}]
	return r, ok
}

func (m *memSeen) count(viewer primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for p := range m.records {
		if p.viewer == viewer {
			n++
		}
	}
	return n
}

var errSignerDown = errors.New("signer unavailable")

// fakeSigner signs keys as https://signed.test/<key>?ttl=<duration>.
type fakeSigner struct {
	mu    sync.Mutex
	fail  map[string]bool
	down  bool
	calls int
}

func (f *fakeSigner) SignGetURL(_ context.Context, key string, expires time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.down || f.fail[key] {
		return "", errSignerDown
	}
	return "https://signed.test/" + key + "?ttl=" + expires.String(), nil
}
