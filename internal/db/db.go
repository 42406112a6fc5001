// internal/db/db.go
//
// Database helpers for the playlog server.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Convenience helpers for the game history table (insert/list/claim).
//
// Note: This file assumes SQLite but can be adapted for other backends.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/dugout/playlog/assets"
)

/**
 * Open opens (and creates if missing) a SQLite database file.
 *
 * - Ensures parent directory exists for relative DSNs (e.g. ./data/app.db).
 * - Configures busy timeout and WAL journaling mode.
 * - Enforces foreign keys.
 *
 * @param dsn Database path or DSN string.
 * @returns *sql.DB ready for queries/migrations.
 */
func Open(dsn string) (*sql.DB, error) {
	// Ensure directory exists for ./data/app.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	// Open DB with busy timeout and WAL journaling.
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Explicitly enforce foreign keys + WAL.
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

/**
 * Migrate applies the embedded SQL migrations (assets/sql/*.sql).
 *
 * - Uses a _migrations table to track applied files.
 * - Executes each *.sql file in lexical order.
 * - Skips if already applied.
 * - Detects "self-managed" scripts (with BEGIN TRANSACTION or PRAGMA FOREIGN_KEYS=OFF)
 *   and runs them outside of an outer transaction.
 */
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := assets.MigrationFiles()
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	for _, f := range files {
		// Skip if already applied
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Info().Str("migration", f).Msg("already applied")
			continue
		}
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlText, err := assets.Migration(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		// Detect scripts that manage their own tx or FK pragmas.
		upper := strings.ToUpper(sqlText)
		selfManaged := strings.Contains(upper, "BEGIN TRANSACTION") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS=OFF") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS = OFF")

		if selfManaged {
			// Run as-is
			if _, err := db.Exec(sqlText); err != nil {
				return fmt.Errorf("apply %s: %w", f, err)
			}
			if _, err := db.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
				return fmt.Errorf("record %s: %w", f, err)
			}
			log.Info().Str("migration", f).Msg("applied (self-managed)")
			continue
		}

		// Run inside dedicated transaction
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(sqlText); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

/* ------------------------- game history helpers ------------------------- */

/**
 * GameRow represents one parsed or generated game in a user's history.
 * Stored in the games table; owned by either a user or an anonymous
 * cookie identity (exactly one of UserID/AnonID is set).
 */
type GameRow struct {
	ID        string    // UUID
	UserID    string    // account owner ("" for guests)
	AnonID    string    // anonymous cookie owner ("" for accounts)
	GamePK    uint64    // MLB game primary key from the log header
	Date      string    // "YYYY-MM-DD" from the log header
	Venue     string    // venue name from the log header
	Plays     int       // number of plays in the game
	Seed      *int64    // generator seed (nil for parsed input)
	Log       string    // canonical log text
	CreatedAt time.Time // populated by DB on insert
}

/**
 * InsertGame inserts a history row for a parsed or generated game.
 */
func InsertGame(ctx context.Context, db *sql.DB, g GameRow) error {
	var user, anon any
	if g.UserID != "" {
		user = g.UserID
	}
	if g.AnonID != "" {
		anon = g.AnonID
	}
	var seed any
	if g.Seed != nil {
		seed = *g.Seed
	}
	_, err := db.ExecContext(ctx, `
        INSERT INTO games (id, user_id, anon_id, game_pk, date, venue, plays, seed, log)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, user, anon, g.GamePK, g.Date, g.Venue, g.Plays, seed, g.Log,
	)
	return err
}

/**
 * ListUserGames fetches a user's most recent games, newest first.
 *
 * - Default limit is 50 if not specified.
 * - The log text is omitted from the listing (it can be large).
 */
func ListUserGames(ctx context.Context, db *sql.DB, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
        SELECT id, game_pk, date, venue, plays, seed, created_at
        FROM games
        WHERE user_id=?
        ORDER BY created_at DESC
        LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var g GameRow
		var seed sql.NullInt64
		if err := rows.Scan(&g.ID, &g.GamePK, &g.Date, &g.Venue, &g.Plays, &seed, &g.CreatedAt); err != nil {
			return nil, err
		}
		if seed.Valid {
			v := seed.Int64
			g.Seed = &v
		}
		g.UserID = userID
		out = append(out, g)
	}
	return out, rows.Err()
}

/**
 * ClaimAnonGames transfers anonymous history rows to a user account.
 * Called after signup/login so guest games follow the new session.
 */
func ClaimAnonGames(ctx context.Context, db *sql.DB, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anon_id=NULL WHERE anon_id=?`, userID, anonID)
	return err
}

/**
 * CountUserGames returns the number of parsed and generated games a
 * user has in their history (generated rows carry a seed).
 */
func CountUserGames(ctx context.Context, db *sql.DB, userID string) (parsed, generated int, err error) {
	err = db.QueryRowContext(ctx, `
        SELECT
            COUNT(CASE WHEN seed IS NULL THEN 1 END),
            COUNT(CASE WHEN seed IS NOT NULL THEN 1 END)
        FROM games WHERE user_id=?`, userID,
	).Scan(&parsed, &generated)
	return parsed, generated, err
}
