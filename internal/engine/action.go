package engine

import (
	"github.com/samdwyer/ashardalon/internal/world"
)

// ActionType discriminates Action records.
type ActionType string

const (
	ActionEndHeroPhase        ActionType = "end-hero-phase"
	ActionEndExplorationPhase ActionType = "end-exploration-phase"
	ActionEndVillainPhase     ActionType = "end-villain-phase"

	ActionShowMovement ActionType = "show-movement"
	ActionMoveHero     ActionType = "move-hero"
	ActionHideMovement ActionType = "hide-movement"
	ActionAttackTarget ActionType = "attack"
	ActionSelectTarget ActionType = "select-target"
	ActionClearTarget  ActionType = "clear-target"

	ActionDrawEncounter    ActionType = "draw-encounter"
	ActionAcceptEncounter  ActionType = "accept-encounter"
	ActionDismissEncounter ActionType = "dismiss-encounter"
	ActionCancelEncounter  ActionType = "cancel-encounter"
	ActionDisableTrap      ActionType = "disable-trap"

	ActionActivateMonster        ActionType = "activate-monster"
	ActionRunVillainPhase        ActionType = "run-villain-phase"
	ActionResolveMonsterDecision ActionType = "resolve-monster-decision"

	ActionUsePower      ActionType = "use-power"
	ActionActivateToken ActionType = "activate-token"
	ActionMoveToken     ActionType = "move-token"
	ActionUseItem       ActionType = "use-item"
)

// Action is a command for the reducer. Type selects the handler; the remaining
// fields are the payload and only those the handler reads need to be set.
type Action struct {
	Type        ActionType      `json:"type"`
	HeroID      string          `json:"heroId,omitempty"`
	MonsterID   string          `json:"monsterId,omitempty"`
	MonsterIDs  []string        `json:"monsterIds,omitempty"`
	EncounterID string          `json:"encounterId,omitempty"`
	PowerID     string          `json:"powerId,omitempty"`
	TokenID     string          `json:"tokenId,omitempty"`
	TrapID      string          `json:"trapId,omitempty"`
	ItemID      string          `json:"itemId,omitempty"`
	TileID      string          `json:"tileId,omitempty"`
	DecisionID  string          `json:"decisionId,omitempty"`
	TargetID    string          `json:"targetId,omitempty"`
	TargetType  string          `json:"targetType,omitempty"`
	Position    *world.Position `json:"position,omitempty"`
}

// At returns a copy of the action with Position set.
func (a Action) At(p world.Position) Action {
	a.Position = &p
	return a
}
