package store_test

import (
	"context"
	"testing"
	"time"

	"launchline/internal/db"
	"launchline/internal/domain"
	"launchline/internal/migrate"
	"launchline/internal/store"
)

func testLaunch(id, name string) domain.Launch {
	return domain.Launch{
		ID:             id,
		Name:           name,
		Location:       "Springfield",
		Address:        "12 Main St",
		Type:           domain.LaunchRetail,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TargetOpenDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Permits: []domain.Permit{{
			ID:              id + "-p1",
			LaunchID:        id,
			Type:            domain.PermitLicense,
			Title:           "Business License",
			Status:          domain.StatusNotStarted,
			StatusUpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			CreatedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Priority:        domain.PriorityMedium,
		}},
	}
}

func newSQLite(t *testing.T) *store.SQLite {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.NewSQLite(conn)
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	got, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh store has %d launches", len(got))
	}

	want := []domain.Launch{testLaunch("l1", "First"), testLaunch("l2", "Second")}
	if err := s.ReplaceAll(ctx, want); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err = s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d launches", len(got))
	}
	if got[0].ID != "l1" || got[1].ID != "l2" {
		t.Fatalf("order not preserved: %s, %s", got[0].ID, got[1].ID)
	}
	if len(got[0].Permits) != 1 || got[0].Permits[0].Title != "Business License" {
		t.Fatalf("permits lost: %+v", got[0].Permits)
	}
	if !got[0].TargetOpenDate.Equal(want[0].TargetOpenDate) {
		t.Fatalf("target date = %v", got[0].TargetOpenDate)
	}
}

func TestSQLiteReplaceAllOverwrites(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	if err := s.ReplaceAll(ctx, []domain.Launch{testLaunch("l1", "First"), testLaunch("l2", "Second")}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.ReplaceAll(ctx, []domain.Launch{testLaunch("l3", "Third")}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "l3" {
		t.Fatalf("got %v", got)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	got, err := m.LoadAll(ctx)
	if err != nil || got != nil {
		t.Fatalf("fresh store = %v, %v", got, err)
	}
	if err := m.ReplaceAll(ctx, []domain.Launch{testLaunch("l1", "First")}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err = m.LoadAll(ctx)
	if err != nil || len(got) != 1 {
		t.Fatalf("load = %v, %v", got, err)
	}

	// Mutating the snapshot must not leak back into the store.
	got[0].Name = "Hacked"
	got[0].Permits[0].Status = domain.StatusApproved
	again, err := m.LoadAll(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again[0].Name != "First" || again[0].Permits[0].Status != domain.StatusNotStarted {
		t.Fatalf("snapshot mutation leaked: %+v", again[0])
	}
}
