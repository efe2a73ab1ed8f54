package main

// RoundPhase is the per-round state machine: buy -> active -> planted -> ended.
// Transitions are monotonic within a round; the buy->active and timer-driven
// transitions are triggered by the match owner's clock, not by player actions.
type RoundPhase string

const (
	PhaseBuy     RoundPhase = "buy"
	PhaseActive  RoundPhase = "active"
	PhasePlanted RoundPhase = "planted"
	PhaseEnded   RoundPhase = "ended"
)

// EndReason records why a round ended
type EndReason string

const (
	ReasonElimination EndReason = "elimination"
	ReasonTimeout     EndReason = "timeout"
	ReasonDetonated   EndReason = "bomb_detonated"
	ReasonDefused     EndReason = "bomb_defused"
)

// RoundState is the per-round aggregate carried in every snapshot.
// Invariant: the alive counts always equal the number of alive players on
// each team.
type RoundState struct {
	RoundNumber   int        `json:"roundNumber"`
	Phase         RoundPhase `json:"phase"`
	EthereumAlive int        `json:"ethereumAlive"`
	SolanaAlive   int        `json:"solanaAlive"`
	BombPlanted   bool       `json:"bombPlanted"`
	Winner        Team       `json:"winner,omitempty"`
	EndReason     EndReason  `json:"endReason,omitempty"`
}

// aliveOf returns the alive counter for a team
func (rs *RoundState) aliveOf(team Team) int {
	if team == TeamEthereum {
		return rs.EthereumAlive
	}
	return rs.SolanaAlive
}

// addAlive adjusts a team's alive counter
func (rs *RoundState) addAlive(team Team, delta int) {
	if team == TeamEthereum {
		rs.EthereumAlive += delta
	} else {
		rs.SolanaAlive += delta
	}
}

// StartActivePhase moves the round from buy to active. Called by the
// external buy-phase timer. No-op in any other phase.
func (m *Match) StartActivePhase() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finishedAt != nil || m.round.Phase != PhaseBuy {
		return false
	}
	m.round.Phase = PhaseActive
	return true
}

// ExpireRoundClock ends an active round on the round timer: the defending
// team wins by timeout. Called by the external round clock.
func (m *Match) ExpireRoundClock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finishedAt != nil || m.round.Phase != PhaseActive {
		return false
	}
	m.endRound(TeamEthereum, ReasonTimeout)
	return true
}

// ExpireBombTimer detonates a planted bomb: the planting team wins.
// Called by the external bomb timer.
func (m *Match) ExpireBombTimer() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finishedAt != nil || m.round.Phase != PhasePlanted {
		return false
	}
	m.endRound(TeamSolana, ReasonDetonated)
	return true
}

// StartNextRound advances an ended round to the next round's buy phase:
// surviving and dead players respawn at their team spawns with restored
// health and refilled magazines, and the bomb state is cleared. No-op unless
// the current round has ended and the match is still live.
func (m *Match) StartNextRound() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finishedAt != nil || m.round.Phase != PhaseEnded {
		return false
	}
	m.startNextRoundLocked()
	return true
}

func (m *Match) startNextRoundLocked() {
	m.roundNumber++

	spawnIdx := map[Team]int{}
	ethAlive, solAlive := 0, 0
	for _, id := range m.playerOrder() {
		p := m.players[id]
		spawns := DefaultMap.SpawnsFor(p.Team)
		idx := spawnIdx[p.Team]
		if idx >= len(spawns) {
			idx = len(spawns) - 1
		}
		spawnIdx[p.Team]++
		p.ResetForRound(spawns[idx])
		if p.Team == TeamEthereum {
			ethAlive++
		} else {
			solAlive++
		}
	}

	m.round = RoundState{
		RoundNumber:   m.roundNumber,
		Phase:         PhaseBuy,
		EthereumAlive: ethAlive,
		SolanaAlive:   solAlive,
	}
	m.bombSite = ""
	m.bombPosition = nil
	m.defuseProgress = 0
}

// checkRoundEnd evaluates elimination after a death or disconnect. acting is
// the team credited with forcing the change: its opponent's zero is checked
// first, so a simultaneous double-elimination resolves deterministically in
// the acting team's favor.
func (m *Match) checkRoundEnd(acting Team) {
	if m.round.Phase == PhaseEnded {
		return
	}
	if m.round.aliveOf(acting.Opponent()) == 0 {
		m.endRound(acting, ReasonElimination)
	} else if m.round.aliveOf(acting) == 0 {
		m.endRound(acting.Opponent(), ReasonElimination)
	}
}

// endRound marks the round ended with a winner and reason, tallies the round
// win, and ends the match once a team reaches RoundsToWin.
func (m *Match) endRound(winner Team, reason EndReason) {
	if m.round.Phase == PhaseEnded {
		return
	}
	m.round.Winner = winner
	m.round.EndReason = reason
	m.round.Phase = PhaseEnded
	m.roundsWon[winner]++

	if m.roundsWon[winner] >= RoundsToWin {
		m.endMatchLocked()
	}
}
