package main

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

const maxMatches = 200

// Registry owns all matches in the process. Created at startup, injected
// into the hub and HTTP handlers; no persistence across restarts.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*Match
	minOpen int
	replays ReplaySink
}

// NewRegistry creates a Registry that keeps at least minOpen open matches
// available and hands finished matches to the given replay sink
func NewRegistry(minOpen int, replays ReplaySink) *Registry {
	return &Registry{
		matches: make(map[string]*Match),
		minOpen: minOpen,
		replays: replays,
	}
}

// CreateMatch allocates an empty match in round 1's buy phase.
// Returns nil if the process-wide match cap is reached.
func (r *Registry) CreateMatch(matchType string) *Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createMatchLocked(matchType)
}

func (r *Registry) createMatchLocked(matchType string) *Match {
	if len(r.matches) >= maxMatches {
		return nil
	}
	id := fmt.Sprintf("match_%d_%s", time.Now().UnixMilli(), GenerateID(5))
	m := NewMatch(id, matchType, r.replays)
	r.matches[id] = m
	return m
}

// GetMatch returns a match by id, or nil
func (r *Registry) GetMatch(id string) *Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.matches[id]
}

// AddPlayerToMatch inserts a player into a match. False if the match does
// not exist, is finished, or the team is full.
func (r *Registry) AddPlayerToMatch(matchID, playerID, displayName string, team Team, fid int64) bool {
	m := r.GetMatch(matchID)
	if m == nil {
		return false
	}
	return m.AddPlayer(playerID, displayName, team, fid)
}

// ListMatches tops up the open pool so joiners always find a slot, then
// returns summaries for all matches, most recent first
func (r *Registry) ListMatches() []MatchSummary {
	r.ensureOpenMatches()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]MatchSummary, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].MatchID > out[j].MatchID
	})
	return out
}

// FindOpenMatch returns any currently open match, or nil
func (r *Registry) FindOpenMatch() *Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.matches {
		if m.Summary().Status == StatusOpen {
			return m
		}
	}
	return nil
}

// ensureOpenMatches creates empty practice matches until at least minOpen
// matches classify as open
func (r *Registry) ensureOpenMatches() {
	r.mu.Lock()
	defer r.mu.Unlock()

	open := 0
	for _, m := range r.matches {
		if m.Summary().Status == StatusOpen {
			open++
		}
	}
	for i := open; i < r.minOpen; i++ {
		if r.createMatchLocked("practice") == nil {
			return
		}
	}
}

// MatchCount returns the number of known matches
func (r *Registry) MatchCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}
