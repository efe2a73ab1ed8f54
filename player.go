package main

// Team identifies one of the two fixed roles for a whole match.
// Ethereum defuses the bomb; Solana plants it.
type Team string

const (
	TeamEthereum Team = "ethereum"
	TeamSolana   Team = "solana"
)

// Opponent returns the other team
func (t Team) Opponent() Team {
	if t == TeamEthereum {
		return TeamSolana
	}
	return TeamEthereum
}

const PlayerMaxHealth = 100

// Player is one connected participant. Owned exclusively by its Match and
// mutated only through the action processor.
type Player struct {
	ID          string
	FID         int64 // optional external identity, 0 = none
	DisplayName string
	Team        Team
	Position    Vector2
	Health      int
	Alive       bool
	Weapon      string
	AmmoInMag   int
	Utilities   []string
	Money       int
}

// NewPlayer creates a player at the given spawn with the starter loadout
func NewPlayer(id, displayName string, team Team, spawn Vector2, fid int64) *Player {
	return &Player{
		ID:          id,
		FID:         fid,
		DisplayName: displayName,
		Team:        team,
		Position:    spawn,
		Health:      PlayerMaxHealth,
		Alive:       true,
		Weapon:      StartWeapon,
		AmmoInMag:   WeaponCatalog[StartWeapon].MagazineSize,
		Money:       StartMoney,
	}
}

// TakeDamage reduces health (clamped at 0) and returns true if the player
// died from this hit. A dead player never dies twice.
func (p *Player) TakeDamage(dmg int) bool {
	if !p.Alive {
		return false
	}
	p.Health -= dmg
	if p.Health <= 0 {
		p.Health = 0
		p.Alive = false
		return true
	}
	return false
}

// ResetForRound restores the player for the next round at the given spawn.
// Money and the bought weapon carry over; the magazine is refilled.
func (p *Player) ResetForRound(spawn Vector2) {
	p.Position = spawn
	p.Health = PlayerMaxHealth
	p.Alive = true
	p.AmmoInMag = WeaponCatalog[p.Weapon].MagazineSize
}

// ToState converts to the broadcast projection
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Team:        p.Team,
		Position:    p.Position,
		Health:      p.Health,
		Alive:       p.Alive,
		Weapon:      p.Weapon,
		AmmoInMag:   p.AmmoInMag,
		Money:       p.Money,
	}
}
