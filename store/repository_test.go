package store

import (
	"context"
	"path/filepath"
	"testing"
)

// testRepo opens a fresh migrated database in a temp directory.
func testRepo(t *testing.T) *Repository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewSQLiteConnection(DefaultConnectionConfig(dbPath))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := MigrateUp(db, "file://migrations"); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	repo, err := NewRepository(db)
	if err != nil {
		t.Fatalf("creating repository: %v", err)
	}
	return repo
}

func TestInsertAndListRenders(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	first := &RenderRecord{
		CorrelationID: "corr-1",
		Kind:          KindMeme,
		FileName:      "meme_1700000000000.png",
		TopText:       "TOP",
		BottomText:    "BOTTOM",
		DurationMS:    42,
	}
	if err := repo.InsertRender(ctx, first); err != nil {
		t.Fatalf("InsertRender() error = %v", err)
	}
	if first.ID == 0 {
		t.Error("inserted record did not get an ID")
	}
	if first.Status != "success" {
		t.Errorf("default status = %q, want success", first.Status)
	}

	second := &RenderRecord{
		CorrelationID: "corr-2",
		Kind:          KindKaraoke,
		FileName:      "karaoke_1700000000001.mp4",
		Status:        "error",
		ErrorMessage:  "ffmpeg exited 1",
	}
	if err := repo.InsertRender(ctx, second); err != nil {
		t.Fatalf("InsertRender() error = %v", err)
	}

	records, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Newest first.
	if records[0].Kind != KindKaraoke {
		t.Errorf("first record kind = %q, want %q", records[0].Kind, KindKaraoke)
	}
	if records[1].TopText != "TOP" || records[1].BottomText != "BOTTOM" {
		t.Errorf("caption fields not round-tripped: %+v", records[1])
	}
}

func TestListRecentLimit(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := &RenderRecord{CorrelationID: "c", Kind: KindGen, FileName: "gen.png"}
		if err := repo.InsertRender(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	records, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want 3", len(records))
	}

	// Zero limit falls back to the default.
	records, err = repo.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent(0) error = %v", err)
	}
	if len(records) != 5 {
		t.Errorf("got %d records with default limit, want 5", len(records))
	}
}

func TestCountByKind(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, kind := range []string{KindMeme, KindMeme, KindSmart} {
		rec := &RenderRecord{CorrelationID: "c", Kind: kind, FileName: "f.png"}
		if err := repo.InsertRender(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := repo.CountByKind(ctx)
	if err != nil {
		t.Fatalf("CountByKind() error = %v", err)
	}
	if counts[KindMeme] != 2 || counts[KindSmart] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestInsertRenderNil(t *testing.T) {
	repo := testRepo(t)
	if err := repo.InsertRender(context.Background(), nil); err == nil {
		t.Error("expected error for nil record")
	}
}
