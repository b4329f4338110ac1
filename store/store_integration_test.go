//go:build integration

package store

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/raushankrgupta/user-meets/models"
	"github.com/raushankrgupta/user-meets/utils"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// startMongo runs a throwaway MongoDB and returns a connection to a fresh database.
func startMongo(t *testing.T) *utils.Mongo {
	t.Helper()
	skipIfNoDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mongo container: %v", err)
	}
	t.Cleanup(func() { container.Terminate(context.Background()) }) //nolint:errcheck

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	m, err := utils.ConnectMongo(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()), "meets_test")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { m.Disconnect(context.Background()) }) //nolint:errcheck
	return m
}

// findRecord loads the seen record for the pair, failing the test if it is missing.
func findRecord(t *testing.T, s *SeenStore, viewer, candidate primitive.ObjectID) models.SeenRecord {
	t.Helper()
	var r models.SeenRecord
	if err := s.col.FindOne(context.Background(), pairFilter(viewer, candidate)).Decode(&r); err != nil {
		t.Fatalf("find seen record: %v", err)
	}
	return r
}

func TestSeenStore_Integration(t *testing.T) {
	m := startMongo(t)
	ctx := context.Background()
	s := NewSeenStore(m)
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}

	viewer := primitive.NewObjectID()
	cand := primitive.NewObjectID()
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("view twice keeps first record", func(t *testing.T) {
		if err := s.RecordView(ctx, viewer, cand, t0); err != nil {
			t.Fatalf("RecordView() error = %v", err)
		}
		if err := s.RecordView(ctx, viewer, cand, t0.Add(time.Hour)); err != nil {
			t.Fatalf("RecordView() error = %v", err)
		}
		n, _ := m.Collection(models.SeenCollection).CountDocuments(ctx, bson.M{"userId": viewer})
		if n != 1 {
			t.Fatalf("records = %d, want 1", n)
		}
		r := findRecord(t, s, viewer, cand)
		if r.Action != models.ActionView || !r.CreatedAt.Equal(t0) {
			t.Errorf("record = %+v", r)
		}
	})

	t.Run("pass overwrites and view does not downgrade", func(t *testing.T) {
		if err := s.RecordPass(ctx, viewer, cand, t0.Add(2*time.Hour)); err != nil {
			t.Fatalf("RecordPass() error = %v", err)
		}
		_ = s.RecordView(ctx, viewer, cand, t0.Add(3*time.Hour))

		r := findRecord(t, s, viewer, cand)
		if r.Action != models.ActionPass || !r.CreatedAt.Equal(t0.Add(2*time.Hour)) {
			t.Errorf("record = %+v, want pass", r)
		}
	})

	t.Run("concurrent writes keep one record per pair", func(t *testing.T) {
		other := primitive.NewObjectID()
		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var err error
				if i%2 == 0 {
					err = s.RecordView(ctx, viewer, other, time.Now())
				} else {
					err = s.RecordPass(ctx, viewer, other, time.Now())
				}
				if err != nil {
					t.Errorf("write %d: %v", i, err)
				}
			}()
		}
		wg.Wait()

		n, _ := m.Collection(models.SeenCollection).CountDocuments(ctx, bson.M{"userId": viewer, "seenUserId": other})
		if n != 1 {
			t.Errorf("records = %d, want 1", n)
		}
		r := findRecord(t, s, viewer, other)
		if r.Action != models.ActionPass {
			t.Errorf("action = %s, want pass", r.Action)
		}
	})

	t.Run("seen ids and reset", func(t *testing.T) {
		ids, err := s.SeenUserIDs(ctx, viewer)
		if err != nil {
			t.Fatalf("SeenUserIDs() error = %v", err)
		}
		if len(ids) != 2 {
			t.Errorf("ids = %v, want 2", ids)
		}

		n, err := s.DeleteByViewer(ctx, viewer)
		if err != nil || n != 2 {
			t.Fatalf("DeleteByViewer() = %d, %v", n, err)
		}
		ids, _ = s.SeenUserIDs(ctx, viewer)
		if len(ids) != 0 {
			t.Errorf("ids after reset = %v", ids)
		}
	})
}

func TestUserStore_Integration(t *testing.T) {
	m := startMongo(t)
	ctx := context.Background()
	col := m.Collection(models.UsersCollection)

	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	_, err := col.InsertMany(ctx, []interface{}{
		bson.M{"_id": a, "name": "A", "age": 30.0},
		bson.M{"_id": b, "name": "B", "userPhoto": bson.A{
			bson.M{"key": "k1", "bucket": "molo-user-photos", "status": "approved"},
			"https://cdn.example.com/legacy.jpg",
		}},
		bson.M{"_id": c, "name": "C", "gender": bson.M{"id": "female", "title": "Female"}},
	})
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}
	s := NewUserStore(m)

	u, err := s.FindByID(ctx, b)
	if err != nil || u == nil {
		t.Fatalf("FindByID() = %v, %v", u, err)
	}
	if len(u.UserPhoto) != 2 || u.UserPhoto[0].Kind != models.PhotoStorageKey || u.UserPhoto[1].Kind != models.PhotoLegacyURL {
		t.Errorf("photos = %+v", u.UserPhoto)
	}

	missing, err := s.FindByID(ctx, primitive.NewObjectID())
	if err != nil || missing != nil {
		t.Errorf("FindByID(missing) = %v, %v", missing, err)
	}

	got, err := s.FindExcluding(ctx, []primitive.ObjectID{a, b}, 10)
	if err != nil {
		t.Fatalf("FindExcluding() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != c || got[0].Gender == nil || got[0].Gender.ID != "female" {
		t.Errorf("FindExcluding() = %+v", got)
	}

	got, _ = s.FindExcluding(ctx, nil, 2)
	if len(got) != 2 {
		t.Errorf("limit 2 returned %d", len(got))
	}
}
