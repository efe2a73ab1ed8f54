package main

import (
	"log"
	"math"
	"sort"
	"sync"
	"time"
)

// Match owns the authoritative state for one match. All mutation goes through
// methods that hold mu, so actions from many connections apply one at a time;
// reads take a point-in-time copy and never block other matches.
type Match struct {
	mu sync.Mutex

	ID        string
	MatchType string // "practice" or "ranked"

	players        map[string]*Player
	roundNumber    int
	round          RoundState
	tick           int64
	bombSite       string // "A", "B", or "" when no bomb is planted
	bombPosition   *Vector2
	defuseProgress int
	roundsWon      map[Team]int
	actions        []Action

	createdAt  time.Time
	finishedAt *time.Time

	replays ReplaySink
}

// NewMatch creates an empty match in round 1's buy phase
func NewMatch(id, matchType string, replays ReplaySink) *Match {
	return &Match{
		ID:          id,
		MatchType:   matchType,
		players:     make(map[string]*Player),
		roundNumber: 1,
		round: RoundState{
			RoundNumber: 1,
			Phase:       PhaseBuy,
		},
		roundsWon: make(map[Team]int),
		createdAt: time.Now(),
		replays:   replays,
	}
}

// Finished reports whether the match has ended
func (m *Match) Finished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finishedAt != nil
}

// teamCountLocked counts roster slots taken on a team. Callers hold mu.
func (m *Match) teamCountLocked(team Team) int {
	n := 0
	for _, p := range m.players {
		if p.Team == team {
			n++
		}
	}
	return n
}

// AssignTeam balances a joiner onto whichever team has the smaller roster,
// ties favoring Ethereum. Returns false if both teams are full or the match
// has finished.
func (m *Match) AssignTeam() (Team, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finishedAt != nil {
		return "", false
	}
	eth := m.teamCountLocked(TeamEthereum)
	sol := m.teamCountLocked(TeamSolana)
	if eth >= MaxPlayersPerTeam && sol >= MaxPlayersPerTeam {
		return "", false
	}
	if eth <= sol {
		return TeamEthereum, true
	}
	return TeamSolana, true
}

// AddPlayer inserts a player on the given team at that team's next
// deterministic spawn point. Returns false if the match is finished or the
// team's roster is at capacity.
func (m *Match) AddPlayer(playerID, displayName string, team Team, fid int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finishedAt != nil {
		return false
	}
	if _, exists := m.players[playerID]; exists {
		return false
	}
	teamCount := m.teamCountLocked(team)
	if teamCount >= MaxPlayersPerTeam {
		return false
	}

	spawns := DefaultMap.SpawnsFor(team)
	spawnIdx := teamCount
	if spawnIdx >= len(spawns) {
		spawnIdx = len(spawns) - 1
	}

	m.players[playerID] = NewPlayer(playerID, displayName, team, spawns[spawnIdx], fid)
	m.round.addAlive(team, 1)
	return true
}

// RemovePlayer handles a disconnect: the player is counted as dead (which can
// end the round by elimination) and the roster slot is freed. Returns true if
// visible state changed.
func (m *Match) RemovePlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[playerID]
	if !ok {
		return false
	}
	if p.Alive {
		p.Alive = false
		p.Health = 0
		m.round.addAlive(p.Team, -1)
		m.checkRoundEnd(p.Team.Opponent())
	}
	delete(m.players, playerID)
	return true
}

// ProcessAction applies one validated action and reports whether the match
// state actually changed (callers rebroadcast only on change). The match tick
// is stamped from the action's tick unconditionally; out-of-order ticks are
// an accepted simplification.
func (m *Match) ProcessAction(a Action) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finishedAt != nil {
		return false
	}

	m.actions = append(m.actions, a)
	m.tick = a.Tick

	p, ok := m.players[a.PlayerID]
	if !ok || !p.Alive {
		return false
	}

	switch a.Type {
	case ActionMove:
		return m.handleMove(p, *a.Position)
	case ActionShoot:
		return m.handleShoot(p, *a.Position, a.Angle)
	case ActionPlant:
		return m.handlePlant(p, a.Site)
	case ActionDefuse:
		return m.handleDefuse(p)
	case ActionBuy:
		return m.handleBuy(p, a.Item)
	}
	return false
}

// handleMove commits the client-reported position after wall collision
// resolution. No speed or teleport plausibility check — trusted client.
func (m *Match) handleMove(p *Player, pos Vector2) bool {
	p.Position = ResolveMovement(pos, PlayerBodySize)
	return true
}

// handleShoot spends one round from the magazine and applies flat weapon
// damage to every alive enemy inside range, inside the aim cone, and not
// behind a wall. All eligible targets are hit; there is no first-hit-only
// occlusion among them.
func (m *Match) handleShoot(shooter *Player, origin Vector2, angle float64) bool {
	weapon := WeaponCatalog[shooter.Weapon]

	if shooter.AmmoInMag <= 0 {
		return false
	}
	shooter.AmmoInMag--

	for _, id := range m.playerOrder() {
		target := m.players[id]
		if target.ID == shooter.ID || !target.Alive || target.Team == shooter.Team {
			continue
		}

		if Distance(origin, target.Position) > weapon.Range {
			continue
		}
		if SegmentBlockedByWall(origin, target.Position) {
			continue
		}

		targetAngle := math.Atan2(target.Position.Y-origin.Y, target.Position.X-origin.X)
		if math.Abs(NormalizeAngle(targetAngle-angle)) >= AimTolerance {
			continue
		}

		if target.TakeDamage(weapon.Damage) {
			m.round.addAlive(target.Team, -1)
			m.checkRoundEnd(shooter.Team)
		}
	}
	return true
}

// handlePlant sets the bomb if the plant-capable team is inside the named
// site. Planting twice, or after the round ended, is rejected.
func (m *Match) handlePlant(p *Player, site string) bool {
	if p.Team != TeamSolana {
		return false
	}
	if m.round.Phase == PhaseEnded || m.round.BombPlanted {
		return false
	}
	if !IsInSite(p.Position, site) {
		return false
	}

	m.bombSite = site
	pos := p.Position
	m.bombPosition = &pos
	m.round.BombPlanted = true
	m.round.Phase = PhasePlanted
	return true
}

// handleDefuse accumulates one tick of defuse progress while the defuser is
// within DefuseRadius of the bomb; stepping out of range resets progress to
// zero. Reaching DefuseTicks ends the round for the defusers.
func (m *Match) handleDefuse(p *Player) bool {
	if p.Team != TeamEthereum {
		return false
	}
	if m.bombPosition == nil {
		return false
	}

	if Distance(p.Position, *m.bombPosition) < DefuseRadius {
		m.defuseProgress++
		if m.defuseProgress >= DefuseTicks {
			m.endRound(TeamEthereum, ReasonDefused)
		}
		return true
	}

	changed := m.defuseProgress != 0
	m.defuseProgress = 0
	return changed
}

// handleBuy swaps weapon or adds a utility during the buy phase if the
// player can afford it. Everything else is a silent no-op.
func (m *Match) handleBuy(p *Player, item string) bool {
	if m.round.Phase != PhaseBuy {
		return false
	}

	if weapon, ok := WeaponCatalog[item]; ok {
		if p.Money < weapon.Cost {
			return false
		}
		p.Money -= weapon.Cost
		p.Weapon = item
		p.AmmoInMag = weapon.MagazineSize
		return true
	}

	if util, ok := UtilityCatalog[item]; ok {
		if p.Money < util.Cost {
			return false
		}
		p.Money -= util.Cost
		p.Utilities = append(p.Utilities, item)
		return true
	}

	return false
}

// endMatchLocked freezes the match and emits the replay summary. Callers
// hold mu.
func (m *Match) endMatchLocked() {
	now := time.Now()
	m.finishedAt = &now

	replay := Replay{
		ID:        NewReplayID(),
		MatchID:   m.ID,
		Timestamp: now.UnixMilli(),
		FinalScore: FinalScore{
			Ethereum: m.roundsWon[TeamEthereum],
			Solana:   m.roundsWon[TeamSolana],
		},
		MatchType: m.MatchType,
	}
	for _, id := range m.playerOrder() {
		p := m.players[id]
		replay.Players = append(replay.Players, ReplayPlayer{
			ID:          p.ID,
			FID:         p.FID,
			DisplayName: p.DisplayName,
			Team:        p.Team,
		})
	}

	if m.replays != nil {
		if err := m.replays.Store(replay); err != nil {
			log.Printf("match %s: store replay: %v", m.ID, err)
		}
	}
}

// playerOrder returns player ids sorted for deterministic iteration.
// Callers hold mu.
func (m *Match) playerOrder() []string {
	ids := make([]string, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot takes a point-in-time copy of the match state for broadcast and
// for the spectator poll endpoint
func (m *Match) Snapshot() MatchSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MatchSnapshot{
		MatchID:        m.ID,
		Players:        make([]PlayerState, 0, len(m.players)),
		RoundNumber:    m.roundNumber,
		RoundState:     m.round,
		TickNumber:     m.tick,
		DefuseProgress: m.defuseProgress,
		Finished:       m.finishedAt != nil,
	}
	for _, id := range m.playerOrder() {
		snap.Players = append(snap.Players, m.players[id].ToState())
	}
	if m.bombSite != "" {
		site := m.bombSite
		snap.BombSite = &site
	}
	if m.bombPosition != nil {
		pos := *m.bombPosition
		snap.BombPosition = &pos
	}
	return snap
}

// Summary derives the listing projection: open while either roster has free
// slots and the match is live, in_progress when full, finished once frozen
func (m *Match) Summary() MatchSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	eth := m.teamCountLocked(TeamEthereum)
	sol := m.teamCountLocked(TeamSolana)

	status := StatusOpen
	if m.finishedAt != nil {
		status = StatusFinished
	} else if eth >= MaxPlayersPerTeam && sol >= MaxPlayersPerTeam {
		status = StatusInProgress
	}

	s := MatchSummary{
		MatchID:       m.ID,
		Status:        status,
		EthereumCount: eth,
		SolanaCount:   sol,
		MaxPerTeam:    MaxPlayersPerTeam,
		CreatedAt:     m.createdAt.UnixMilli(),
	}
	if m.finishedAt != nil {
		ms := m.finishedAt.UnixMilli()
		s.FinishedAt = &ms
	}
	return s
}
