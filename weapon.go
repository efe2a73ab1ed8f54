package main

// Game constants
const (
	TickRate          = 64  // actions are stamped in ticks of this rate
	RoundTimeSec      = 115 // round clock (driven externally)
	BuyTimeSec        = 10  // buy phase length (driven externally)
	DefuseTimeSec     = 7   // seconds of continuous defusing to win
	BombTimerSec      = 40  // plant-to-detonation (driven externally)
	RoundsToWin       = 3   // best of 5
	MaxPlayersPerTeam = 5   // matches map spawn count
	StartMoney        = 800
	StartWeapon       = "pistol"

	MapWidth  = 1280.0
	MapHeight = 960.0

	PlayerBodySize = 20.0 // square body extent for wall collision
	DefuseRadius   = 50.0 // max distance from bomb while defusing
	AimTolerance   = 0.2  // radians (~11 degrees) either side of shot angle

	// DefuseTicks is the accumulated defuse progress needed to defuse the bomb
	DefuseTicks = DefuseTimeSec * TickRate
)

// WeaponStats describes a purchasable weapon
type WeaponStats struct {
	Damage       int
	FireRateMs   int
	Cost         int
	Range        float64
	MagazineSize int
	ReloadTimeMs int
}

// WeaponCatalog is the full set of weapons. "pistol" is the free starter.
var WeaponCatalog = map[string]WeaponStats{
	"pistol": {
		Damage:       25,
		FireRateMs:   300,
		Cost:         0,
		Range:        300,
		MagazineSize: 12,
		ReloadTimeMs: 1200,
	},
	"rifle": {
		Damage:       35,
		FireRateMs:   150,
		Cost:         200,
		Range:        500,
		MagazineSize: 30,
		ReloadTimeMs: 2000,
	},
	"shotgun": {
		Damage:       80,
		FireRateMs:   800,
		Cost:         150,
		Range:        150,
		MagazineSize: 8,
		ReloadTimeMs: 2500,
	},
}

// UtilityStats describes a purchasable utility item
type UtilityStats struct {
	Cost       int
	DurationMs int
	Radius     float64
}

// UtilityCatalog is the full set of utility items
var UtilityCatalog = map[string]UtilityStats{
	"flashbang": {Cost: 50, DurationMs: 2000, Radius: 200},
	"smoke":     {Cost: 75, DurationMs: 15000, Radius: 150},
}
