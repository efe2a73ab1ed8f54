package main

import (
	"encoding/json"
	"fmt"
	"math"
)

// ActionType discriminates the closed set of player intents
type ActionType string

const (
	ActionMove   ActionType = "move"
	ActionShoot  ActionType = "shoot"
	ActionPlant  ActionType = "plant"
	ActionDefuse ActionType = "defuse"
	ActionBuy    ActionType = "buy"
)

// Action is a tick-stamped player intent. Exactly one action type applies per
// message; the per-type fields below are populated according to Type.
// PlayerID is always stamped by the gateway from the connection, never
// trusted from the payload.
type Action struct {
	Type     ActionType `json:"type"`
	PlayerID string     `json:"playerId"`
	Tick     int64      `json:"tick"`

	Position *Vector2 `json:"position,omitempty"` // move, shoot
	Angle    float64  `json:"angle,omitempty"`    // shoot
	Site     string   `json:"site,omitempty"`     // plant
	Item     string   `json:"item,omitempty"`     // buy
}

// ParseAction decodes and structurally validates an inbound action payload
func ParseAction(raw json.RawMessage) (Action, error) {
	var a Action
	if err := json.Unmarshal(raw, &a); err != nil {
		return Action{}, fmt.Errorf("malformed action: %w", err)
	}
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	return a, nil
}

// Validate checks the per-type structural requirements. It does not apply
// game rules; rule violations are resolved by the action processor.
func (a Action) Validate() error {
	if a.Tick < 0 {
		return fmt.Errorf("negative tick %d", a.Tick)
	}
	switch a.Type {
	case ActionMove:
		if a.Position == nil {
			return fmt.Errorf("move requires position")
		}
		if !finiteVec(*a.Position) {
			return fmt.Errorf("move position not finite")
		}
	case ActionShoot:
		if a.Position == nil {
			return fmt.Errorf("shoot requires position")
		}
		if !finiteVec(*a.Position) {
			return fmt.Errorf("shoot position not finite")
		}
		if math.IsNaN(a.Angle) || math.IsInf(a.Angle, 0) {
			return fmt.Errorf("shoot angle not finite")
		}
	case ActionPlant:
		if a.Site != "A" && a.Site != "B" {
			return fmt.Errorf("plant site must be A or B, got %q", a.Site)
		}
	case ActionDefuse:
		// No payload beyond playerId and tick.
	case ActionBuy:
		if _, ok := WeaponCatalog[a.Item]; ok {
			break
		}
		if _, ok := UtilityCatalog[a.Item]; ok {
			break
		}
		return fmt.Errorf("unknown buy item %q", a.Item)
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}

func finiteVec(v Vector2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
