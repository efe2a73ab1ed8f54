package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin   = "join"
	MsgAction = "action"
)

// Server -> Client message types
const (
	MsgJoined = "joined"
	MsgState  = "state"
	MsgError  = "error"
)

// Protocol error codes
const (
	ErrMatchFull      = "match_full"
	ErrJoinFailed     = "join_failed"
	ErrInvalidAction  = "invalid_action"
	ErrInvalidMessage = "invalid_message"
	ErrAlreadyJoined  = "already_joined"
)

// InMessage is the envelope for all inbound messages — json.RawMessage
// defers action decoding to the validator
type InMessage struct {
	Type    string          `json:"type"`
	MatchID string          `json:"matchId,omitempty"`
	Action  json.RawMessage `json:"action,omitempty"`
}

// JoinedMsg acknowledges a successful join, sent once per connection
type JoinedMsg struct {
	Type     string `json:"type"`
	MatchID  string `json:"matchId"`
	Team     Team   `json:"team"`
	PlayerID string `json:"playerId"`
}

// ErrorMsg is a typed protocol error reply; the connection stays open
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StateMsg carries a full match snapshot
type StateMsg struct {
	Type string        `json:"type"`
	Data MatchSnapshot `json:"data"`
}

// PlayerState is the per-player broadcast projection
type PlayerState struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Team        Team    `json:"team"`
	Position    Vector2 `json:"position"`
	Health      int     `json:"health"`
	Alive       bool    `json:"alive"`
	Weapon      string  `json:"weapon"`
	AmmoInMag   int     `json:"ammoInMagazine"`
	Money       int     `json:"money"`
}

// MatchSnapshot is the full per-match projection, sent identically to every
// viewer (no per-viewer filtering)
type MatchSnapshot struct {
	MatchID        string        `json:"matchId"`
	Players        []PlayerState `json:"players"`
	RoundNumber    int           `json:"roundNumber"`
	RoundState     RoundState    `json:"roundState"`
	TickNumber     int64         `json:"tickNumber"`
	BombSite       *string       `json:"bombSite"`
	BombPosition   *Vector2      `json:"bombPosition"`
	DefuseProgress int           `json:"defuseProgress"`
	Finished       bool          `json:"finished"`
}

// MatchStatus classifies a match for listings
type MatchStatus string

const (
	StatusOpen       MatchStatus = "open"
	StatusInProgress MatchStatus = "in_progress"
	StatusFinished   MatchStatus = "finished"
)

// MatchSummary is the derived listing projection, recomputed on every list
// request and never stored
type MatchSummary struct {
	MatchID       string      `json:"matchId"`
	Status        MatchStatus `json:"status"`
	EthereumCount int         `json:"ethereumCount"`
	SolanaCount   int         `json:"solanaCount"`
	MaxPerTeam    int         `json:"maxPerTeam"`
	CreatedAt     int64       `json:"createdAt"`
	FinishedAt    *int64      `json:"finishedAt,omitempty"`
}
