package main

import (
	"fmt"
	"time"
)

// ReplayPlayer is a roster entry in a frozen match summary
type ReplayPlayer struct {
	ID          string `json:"id" msgpack:"id"`
	FID         int64  `json:"fid,omitempty" msgpack:"fid,omitempty"`
	DisplayName string `json:"displayName" msgpack:"displayName"`
	Team        Team   `json:"team" msgpack:"team"`
}

// FinalScore is the per-team round-win tally at match end
type FinalScore struct {
	Ethereum int `json:"ethereum" msgpack:"ethereum"`
	Solana   int `json:"solana" msgpack:"solana"`
}

// Replay is the summary record frozen when a match terminates and handed to
// the replay store
type Replay struct {
	ID         string         `json:"id" msgpack:"id"`
	MatchID    string         `json:"matchId" msgpack:"matchId"`
	Timestamp  int64          `json:"timestamp" msgpack:"timestamp"`
	Players    []ReplayPlayer `json:"players" msgpack:"players"`
	FinalScore FinalScore     `json:"finalScore" msgpack:"finalScore"`
	MatchType  string         `json:"matchType" msgpack:"matchType"`
}

// ReplaySink receives frozen replays at match end. The SQLite-backed
// ReplayDB is the production implementation.
type ReplaySink interface {
	Store(r Replay) error
}

// NewReplayID returns a fresh replay identifier
func NewReplayID() string {
	return fmt.Sprintf("replay_%d_%s", time.Now().UnixMilli(), GenerateID(5))
}
