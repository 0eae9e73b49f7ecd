package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tennis-live-scoring/models"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (m *memStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", errors.New("bucket unavailable")
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = append([]byte(nil), body...)
	return "mem://" + key, nil
}

func TestArchiveCompleted(t *testing.T) {
	svc, db := newTestService(t)
	match := seedMatch(t, db, 3, models.FinalSetTiebreak)
	ctx := context.Background()

	live := openStarted(t, svc, match.ID)
	winGames(t, svc, live, models.SideB, 12)

	store := &memStore{}
	archiver := NewArchiveService(db, svc, store)
	archiver.Now = func() time.Time { return testNow }

	store.fail = true
	n, err := archiver.ArchiveCompleted(ctx)
	if err != nil || n != 0 {
		t.Fatalf("ArchiveCompleted with failing store = %d, %v; want 0, nil", n, err)
	}
	var session models.LiveSession
	db.First(&session, "id = ?", live)
	if session.ArchivedAt != nil {
		t.Fatalf("failed upload stamped archived_at")
	}

	store.fail = false
	n, err = archiver.ArchiveCompleted(ctx)
	if err != nil || n != 1 {
		t.Fatalf("ArchiveCompleted = %d, %v; want 1, nil", n, err)
	}
	key := "archives/roland-garros-f-alcaraz-vs-sinner/" + live + ".json"
	body, ok := store.objects[key]
	if !ok {
		t.Fatalf("no object at %s; have %v", key, store.objects)
	}
	var doc SessionArchive
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&doc); err != nil {
		t.Fatalf("decode archive: %v", err)
	}
	if len(doc.Points) != 48 || doc.View.Winner == nil || *doc.View.Winner != models.SideB {
		t.Errorf("archive has %d points, winner %v; want 48 and B", len(doc.Points), doc.View.Winner)
	}
	if last := doc.Events[len(doc.Events)-1]; last.Type != models.EventMatchEnd {
		t.Errorf("last archived event = %s, want match-end", last.Type)
	}

	db.First(&session, "id = ?", live)
	if session.ArchivedAt == nil || !session.ArchivedAt.Equal(testNow) {
		t.Errorf("archived_at = %v, want %v", session.ArchivedAt, testNow)
	}

	// In-progress sessions and already archived ones are left alone.
	openStarted(t, svc, match.ID)
	n, err = archiver.ArchiveCompleted(ctx)
	if err != nil || n != 0 {
		t.Errorf("second run = %d, %v; want 0, nil", n, err)
	}
	for k := range store.objects {
		if !strings.HasPrefix(k, "archives/") {
			t.Errorf("unexpected key %s", k)
		}
	}
}

func TestArchiveScheduler(t *testing.T) {
	svc, db := newTestService(t)
	match := seedMatch(t, db, 3, models.FinalSetTiebreak)
	live := openStarted(t, svc, match.ID)
	if _, err := svc.SetStatus(context.Background(), live, models.StatusCompleted, "umpire"); err != nil {
		t.Fatalf("SetStatus(completed): %v", err)
	}

	store := &memStore{}
	archiver := NewArchiveService(db, svc, store)
	sched, err := archiver.StartArchiveScheduler(context.Background(), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("StartArchiveScheduler: %v", err)
	}
	defer func() { _ = sched.Shutdown() }()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var session models.LiveSession
		if err := db.First(&session, "id = ?", live).Error; err == nil && session.ArchivedAt != nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("scheduled archive job never archived the completed session")
}
