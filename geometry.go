package main

import "math"

// Vector2 is a point in world coordinates
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Wall is an axis-aligned rectangle that blocks movement and line of sight
type Wall struct {
	X, Y          float64
	Width, Height float64
}

// Site is a circular bomb site
type Site struct {
	X, Y   float64
	Radius float64
}

// MapConfig holds the static geometry for a match
type MapConfig struct {
	Width, Height  float64
	SiteA, SiteB   Site
	EthereumSpawns []Vector2
	SolanaSpawns   []Vector2
	Walls          []Wall
}

// DefaultMap is a simple 2-site layout. The Ethereum base sits on site A,
// the Solana base on site B. Spawn lists are sized to MaxPlayersPerTeam.
var DefaultMap = MapConfig{
	Width:  MapWidth,
	Height: MapHeight,
	SiteA:  Site{X: 200, Y: 200, Radius: 100},
	SiteB:  Site{X: 1080, Y: 760, Radius: 100},
	EthereumSpawns: []Vector2{
		{X: 200, Y: 200},
		{X: 260, Y: 200},
		{X: 200, Y: 260},
		{X: 140, Y: 200},
		{X: 200, Y: 140},
	},
	SolanaSpawns: []Vector2{
		{X: 1080, Y: 760},
		{X: 1140, Y: 760},
		{X: 1080, Y: 820},
		{X: 1020, Y: 760},
		{X: 1080, Y: 700},
	},
	Walls: []Wall{
		// Center wall
		{X: 540, Y: 380, Width: 200, Height: 200},
		// Border walls
		{X: 0, Y: 0, Width: 20, Height: 960},
		{X: 1260, Y: 0, Width: 20, Height: 960},
		{X: 0, Y: 0, Width: 1280, Height: 20},
		{X: 0, Y: 940, Width: 1280, Height: 20},
		// Cover boxes near A
		{X: 150, Y: 300, Width: 60, Height: 60},
		{X: 280, Y: 150, Width: 60, Height: 60},
		// Cover boxes near B
		{X: 1000, Y: 650, Width: 60, Height: 60},
		{X: 1120, Y: 800, Width: 60, Height: 60},
	},
}

// SiteByName returns the site for "A" or "B", or nil for anything else
func (m *MapConfig) SiteByName(name string) *Site {
	switch name {
	case "A":
		return &m.SiteA
	case "B":
		return &m.SiteB
	}
	return nil
}

// SpawnsFor returns the ordered spawn list for a team
func (m *MapConfig) SpawnsFor(team Team) []Vector2 {
	if team == TeamEthereum {
		return m.EthereumSpawns
	}
	return m.SolanaSpawns
}

// IsInSite reports whether pos lies inside the named site's circle
func IsInSite(pos Vector2, siteName string) bool {
	site := DefaultMap.SiteByName(siteName)
	if site == nil {
		return false
	}
	dx := pos.X - site.X
	dy := pos.Y - site.Y
	return math.Sqrt(dx*dx+dy*dy) <= site.Radius
}

// ResolveMovement pushes pos out of any wall it overlaps, snapping to the
// nearer wall edge along the smaller-overlap axis. Walls are applied in map
// order; a later wall may re-push a position already resolved against an
// earlier one. size is the player's square body extent.
func ResolveMovement(pos Vector2, size float64) Vector2 {
	newX := pos.X
	newY := pos.Y

	for _, wall := range DefaultMap.Walls {
		if newX+size > wall.X && newX < wall.X+wall.Width &&
			newY+size > wall.Y && newY < wall.Y+wall.Height {
			overlapX := math.Min(newX+size-wall.X, wall.X+wall.Width-newX)
			overlapY := math.Min(newY+size-wall.Y, wall.Y+wall.Height-newY)

			if overlapX < overlapY {
				if newX+size > wall.X+wall.Width/2 {
					newX = wall.X + wall.Width
				} else {
					newX = wall.X - size
				}
			} else {
				if newY+size > wall.Y+wall.Height/2 {
					newY = wall.Y + wall.Height
				} else {
					newY = wall.Y - size
				}
			}
		}
	}

	return Vector2{X: newX, Y: newY}
}

// SegmentBlockedByWall reports whether the segment from a to b crosses any wall
func SegmentBlockedByWall(a, b Vector2) bool {
	for _, wall := range DefaultMap.Walls {
		if _, ok := segmentWallEntry(a, b, wall); ok {
			return true
		}
	}
	return false
}

// FirstWallHit returns the point where the segment from a to b first hits a
// wall (closest to a). Used to clip bullet tracers at the wall.
func FirstWallHit(a, b Vector2) (Vector2, bool) {
	t, ok := firstWallHitParam(a, b)
	if !ok {
		return Vector2{}, false
	}
	return Vector2{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
	}, true
}

// firstWallHitParam returns the parameter t in [0, 1] of the first wall hit
// along the segment, if any. Degenerate (zero-length) segments report no hit.
func firstWallHitParam(a, b Vector2) (float64, bool) {
	length := Distance(a, b)
	if length < 1e-9 {
		return 0, false
	}

	best := math.Inf(1)
	found := false
	for _, wall := range DefaultMap.Walls {
		entry, ok := segmentWallEntry(a, b, wall)
		if !ok {
			continue
		}
		t := entry / length
		if t < best {
			best = t
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return best, true
}

// segmentWallEntry runs a slab test of the segment a->b against the wall's
// AABB and returns the entry distance along the segment (in 0..len), or false
// if the segment misses the wall entirely.
func segmentWallEntry(a, b Vector2, wall Wall) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 1e-9 {
		inside := a.X >= wall.X && a.X <= wall.X+wall.Width &&
			a.Y >= wall.Y && a.Y <= wall.Y+wall.Height
		if inside {
			return 0, true
		}
		return 0, false
	}
	nx := dx / length
	ny := dy / length

	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	if math.Abs(nx) > 1e-9 {
		t1 := (wall.X - a.X) / nx
		t2 := (wall.X + wall.Width - a.X) / nx
		tMin = math.Max(tMin, math.Min(t1, t2))
		tMax = math.Min(tMax, math.Max(t1, t2))
	} else if a.X < wall.X || a.X > wall.X+wall.Width {
		return 0, false
	}

	if math.Abs(ny) > 1e-9 {
		t1 := (wall.Y - a.Y) / ny
		t2 := (wall.Y + wall.Height - a.Y) / ny
		tMin = math.Max(tMin, math.Min(t1, t2))
		tMax = math.Min(tMax, math.Max(t1, t2))
	} else if a.Y < wall.Y || a.Y > wall.Y+wall.Height {
		return 0, false
	}

	if tMin > tMax || tMax < 0 || tMin > length {
		return 0, false
	}
	entry := math.Max(0, tMin)
	if entry > math.Min(length, tMax) {
		return 0, false
	}
	return entry, true
}
