package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMigrateIsIdempotent(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sqlDB.Close()

	if err := Migrate(sqlDB); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(sqlDB); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var n int
	if err := sqlDB.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n == 0 {
		t.Fatal("no migrations recorded")
	}
}

func TestGameHistory(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sqlDB.Close()
	if err := Migrate(sqlDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	if _, err := sqlDB.Exec(
		`INSERT INTO users (id, email, pass_hash) VALUES ('u1', 'a@b.co', 'x')`); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	seed := int64(42)
	rows := []GameRow{
		{ID: "g1", AnonID: "anon1", GamePK: 716463, Date: "2024-05-01", Venue: "Yankee Stadium", Plays: 3, Log: "..."},
		{ID: "g2", AnonID: "anon1", GamePK: 716464, Date: "2024-05-02", Venue: "Fenway Park", Plays: 5, Seed: &seed, Log: "..."},
	}
	for _, g := range rows {
		if err := InsertGame(ctx, sqlDB, g); err != nil {
			t.Fatalf("insert %s: %v", g.ID, err)
		}
	}

	// Guest rows are invisible to the account until claimed.
	got, err := ListUserGames(ctx, sqlDB, "u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("before claim: %d rows", len(got))
	}

	if err := ClaimAnonGames(ctx, sqlDB, "anon1", "u1"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	got, err = ListUserGames(ctx, sqlDB, "u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("after claim: %d rows", len(got))
	}

	parsed, generated, err := CountUserGames(ctx, sqlDB, "u1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if parsed != 1 || generated != 1 {
		t.Fatalf("parsed=%d generated=%d, want 1/1", parsed, generated)
	}

	for _, g := range got {
		if g.GamePK == 716464 {
			if g.Seed == nil || *g.Seed != seed {
				t.Fatal("seed not round-tripped")
			}
		}
	}
}

func TestClaimAnonGamesNoOp(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sqlDB.Close()
	if err := Migrate(sqlDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Empty IDs are ignored rather than wiping ownership.
	if err := ClaimAnonGames(context.Background(), sqlDB, "", "u1"); err != nil {
		t.Fatalf("claim empty anon: %v", err)
	}
	if err := ClaimAnonGames(context.Background(), sqlDB, "anon1", ""); err != nil {
		t.Fatalf("claim empty user: %v", err)
	}
}
