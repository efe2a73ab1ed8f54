package main

import (
	"math"
	"testing"
)

// insideAnyWall reports whether a body-sized box at pos overlaps a wall interior
func insideAnyWall(pos Vector2, size float64) bool {
	for _, w := range DefaultMap.Walls {
		if pos.X+size > w.X && pos.X < w.X+w.Width &&
			pos.Y+size > w.Y && pos.Y < w.Y+w.Height {
			return true
		}
	}
	return false
}

func TestResolveMovementPushesOutOfWall(t *testing.T) {
	// Proposed position inside the center wall (540,380 200x200)
	resolved := ResolveMovement(Vector2{X: 600, Y: 390}, PlayerBodySize)
	if insideAnyWall(resolved, PlayerBodySize) {
		t.Errorf("resolved position %+v still inside a wall", resolved)
	}
	// Entered from the top, so should snap above the wall
	if resolved.Y != 380-PlayerBodySize {
		t.Errorf("expected snap to y=%v, got %v", 380-PlayerBodySize, resolved.Y)
	}
}

func TestResolveMovementFreePosition(t *testing.T) {
	pos := Vector2{X: 400, Y: 100}
	resolved := ResolveMovement(pos, PlayerBodySize)
	if resolved != pos {
		t.Errorf("free position should be unchanged, got %+v", resolved)
	}
}

func TestResolveMovementNeverInsideWall(t *testing.T) {
	// Sweep proposed positions across the map; none may resolve into a wall
	for x := 0.0; x <= MapWidth; x += 37 {
		for y := 0.0; y <= MapHeight; y += 37 {
			resolved := ResolveMovement(Vector2{X: x, Y: y}, PlayerBodySize)
			if insideAnyWall(resolved, PlayerBodySize) {
				t.Fatalf("position (%v,%v) resolved into a wall at %+v", x, y, resolved)
			}
		}
	}
}

func TestSegmentBlockedByWall(t *testing.T) {
	// Crosses the center wall
	if !SegmentBlockedByWall(Vector2{X: 500, Y: 480}, Vector2{X: 800, Y: 480}) {
		t.Error("segment through center wall should be blocked")
	}
	// Clear line along the top lane
	if SegmentBlockedByWall(Vector2{X: 400, Y: 100}, Vector2{X: 600, Y: 100}) {
		t.Error("clear segment should not be blocked")
	}
	// Zero-length segment outside any wall
	if SegmentBlockedByWall(Vector2{X: 400, Y: 100}, Vector2{X: 400, Y: 100}) {
		t.Error("degenerate segment outside walls should not be blocked")
	}
}

func TestFirstWallHitReturnsClosestCrossing(t *testing.T) {
	// Horizontal ray into the center wall: entry at x=540
	hit, ok := FirstWallHit(Vector2{X: 400, Y: 480}, Vector2{X: 900, Y: 480})
	if !ok {
		t.Fatal("expected a wall hit")
	}
	if math.Abs(hit.X-540) > 1e-6 || math.Abs(hit.Y-480) > 1e-6 {
		t.Errorf("expected hit at (540,480), got %+v", hit)
	}
}

func TestFirstWallHitMiss(t *testing.T) {
	if _, ok := FirstWallHit(Vector2{X: 400, Y: 100}, Vector2{X: 600, Y: 100}); ok {
		t.Error("expected no hit on a clear segment")
	}
	if _, ok := FirstWallHit(Vector2{X: 400, Y: 100}, Vector2{X: 400, Y: 100}); ok {
		t.Error("expected no hit for a zero-length segment")
	}
}

func TestFirstWallHitPicksNearerWall(t *testing.T) {
	// Ray from the left border crossing cover box (150,300 60x60) before the
	// center wall
	hit, ok := FirstWallHit(Vector2{X: 100, Y: 330}, Vector2{X: 700, Y: 330})
	if !ok {
		t.Fatal("expected a wall hit")
	}
	if math.Abs(hit.X-150) > 1e-6 {
		t.Errorf("expected first hit at cover box x=150, got %+v", hit)
	}
}

func TestIsInSite(t *testing.T) {
	if !IsInSite(Vector2{X: 200, Y: 200}, "A") {
		t.Error("site A center should be in site A")
	}
	if !IsInSite(Vector2{X: 200, Y: 300}, "A") {
		t.Error("point at radius boundary should be in site A")
	}
	if IsInSite(Vector2{X: 200, Y: 301}, "A") {
		t.Error("point beyond radius should not be in site A")
	}
	if IsInSite(Vector2{X: 200, Y: 200}, "B") {
		t.Error("site A center should not be in site B")
	}
	if IsInSite(Vector2{X: 200, Y: 200}, "C") {
		t.Error("unknown site should contain nothing")
	}
}
