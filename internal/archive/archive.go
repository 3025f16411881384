package archive

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kiliankoe/mafia/internal/game"
)

// Store keeps one row per finished game. It is a results ledger, not game
// state: sessions themselves live and die in memory.
type Store struct {
	db *sqlx.DB
}

// Entry is one archived game as served by the results API.
type Entry struct {
	ID        int64     `db:"id" json:"id"`
	ChannelID string    `db:"channel_id" json:"channelId"`
	Winner    string    `db:"winner" json:"winner"`
	Rounds    int       `db:"rounds" json:"rounds"`
	Players   int       `db:"players" json:"players"`
	StartedAt time.Time `db:"started_at" json:"startedAt"`
	EndedAt   time.Time `db:"ended_at" json:"endedAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS game_result (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	channel_id TEXT NOT NULL,
	winner TEXT NOT NULL,
	rounds INTEGER NOT NULL,
	players INTEGER NOT NULL,
	started_at TIMESTAMP NOT NULL,
	ended_at TIMESTAMP NOT NULL
)`

func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Record(res game.Result) error {
	_, err := s.db.Exec(`
		INSERT INTO game_result (channel_id, winner, rounds, players, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		res.ChannelID, string(res.Winner), res.Rounds, len(res.Players), res.StartedAt, res.EndedAt)
	return err
}

// Recent returns the latest finished games, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.Select(&entries, `
		SELECT id, channel_id, winner, rounds, players, started_at, ended_at
		FROM game_result ORDER BY id DESC LIMIT ?`, limit)
	return entries, err
}
