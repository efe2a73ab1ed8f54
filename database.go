package main

import (
	"database/sql"
	"log"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// ReplayDB is the SQLite-backed replay store. Records are msgpack-encoded
// blobs keyed by replay id; a match-id index serves the lookup by match.
type ReplayDB struct {
	conn *sql.DB
}

// OpenReplayDB opens (or creates) the replay database
func OpenReplayDB(path string) (*ReplayDB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &ReplayDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *ReplayDB) Close() error {
	return db.conn.Close()
}

func (db *ReplayDB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS replays (
		id TEXT PRIMARY KEY,
		match_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		data BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_replays_match ON replays(match_id);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("replay DB migration error: %v", err)
	}
	return err
}

// Store persists a replay record
func (db *ReplayDB) Store(r Replay) error {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO replays (id, match_id, created_at, data) VALUES (?, ?, ?, ?)",
		r.ID, r.MatchID, r.Timestamp, data,
	)
	return err
}

// Get returns a replay by id, or nil if none exists
func (db *ReplayDB) Get(id string) (*Replay, error) {
	row := db.conn.QueryRow("SELECT data FROM replays WHERE id = ?", id)
	return scanReplay(row)
}

// GetByMatchID returns the replay for a finished match, or nil if none
// exists yet
func (db *ReplayDB) GetByMatchID(matchID string) (*Replay, error) {
	row := db.conn.QueryRow(
		"SELECT data FROM replays WHERE match_id = ? ORDER BY created_at DESC LIMIT 1",
		matchID,
	)
	return scanReplay(row)
}

// Recent returns up to limit replays, most recent first
func (db *ReplayDB) Recent(limit int) ([]Replay, error) {
	rows, err := db.conn.Query(
		"SELECT data FROM replays ORDER BY created_at DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Replay
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r Replay
		if err := msgpack.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanReplay(row *sql.Row) (*Replay, error) {
	var data []byte
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := &Replay{}
	if err := msgpack.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}
