package daily

import (
	"context"
	"database/sql"
	"errors"
)

// Game is the cached daily game row.
type Game struct {
	Date   string `json:"date"`
	Seed   int64  `json:"seed"`
	GamePK uint64 `json:"gamePk"`
	Log    string `json:"log"`
}

// Result is one user's reconstruction attempt at the daily game.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	GamePK    uint64 `json:"gamePk"`
	Chars     int    `json:"chars"` // characters submitted to finish the log
	ElapsedMs int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// GetGame fetches the cached game for a date; ok=false when the date
// has not been generated yet.
func (s *Store) GetGame(ctx context.Context, date string) (Game, bool, error) {
	var g Game
	err := s.db.QueryRowContext(ctx,
		"SELECT date, seed, game_pk, log FROM daily_games WHERE date=?", date,
	).Scan(&g.Date, &g.Seed, &g.GamePK, &g.Log)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, false, nil
	}
	if err != nil {
		return Game{}, false, err
	}
	return g, true, nil
}

// PutGame caches a generated daily game. Concurrent generation for the
// same date is harmless; the first insert wins.
func (s *Store) PutGame(ctx context.Context, g Game) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_games(date, seed, game_pk, log)
		 VALUES(?,?,?,?)`, g.Date, g.Seed, g.GamePK, g.Log,
	)
	return err
}

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, game_pk, chars, elapsed_ms)
		 VALUES(?,?,?,?,?)`, r.UserID, r.Date, r.GamePK, r.Chars, r.ElapsedMs,
	)
	return err
}

type LBRow struct {
	UserID    string `json:"userId"`
	Chars     int    `json:"chars"`
	ElapsedMs int    `json:"elapsedMs"`
}

func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, chars, elapsed_ms
		 FROM daily_results
		 WHERE date=?
		 ORDER BY elapsed_ms ASC, chars ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LBRow
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Chars, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
