package rules

import (
	"time"

	"github.com/google/uuid"
)

// EventKind indicates the category of a rules event. The set is closed:
// every kind listed here has a default effect in the engine, and emitting
// an unknown kind is a programming error.
type EventKind string

const (
	// Turn structure events
	EventBeginTurn    EventKind = "BEGIN_TURN"
	EventPhaseChanged EventKind = "PHASE_CHANGED"
	EventStepChanged  EventKind = "STEP_CHANGED"
	EventUntapStep    EventKind = "UNTAP_STEP"
	EventUpkeepStep   EventKind = "UPKEEP_STEP"
	EventDrawStep     EventKind = "DRAW_STEP"
	EventEndStep      EventKind = "END_STEP"
	EventCleanupStep  EventKind = "CLEANUP_STEP"

	// Zone events
	EventZoneChange     EventKind = "ZONE_CHANGE"
	EventShuffleLibrary EventKind = "SHUFFLE_LIBRARY"

	// Card events
	EventDrawCard    EventKind = "DRAW_CARD"
	EventDiscardCard EventKind = "DISCARD_CARD"
	EventMillCard    EventKind = "MILL_CARD"
	EventCreateToken EventKind = "CREATE_TOKEN"

	// Life and damage events
	EventDamageObject EventKind = "DAMAGE_OBJECT"
	EventDamagePlayer EventKind = "DAMAGE_PLAYER"
	EventGainLife     EventKind = "GAIN_LIFE"
	EventLoseLife     EventKind = "LOSE_LIFE"
	EventPayLife      EventKind = "PAY_LIFE"

	// Spell and ability events
	EventCastSpell     EventKind = "CAST_SPELL"
	EventSpellCast     EventKind = "SPELL_CAST"
	EventCounterSpell  EventKind = "COUNTER_SPELL"
	EventSpellFizzled  EventKind = "SPELL_FIZZLED"
	EventAbilityFired  EventKind = "ABILITY_FIRED"
	EventAddMana       EventKind = "ADD_MANA"
	EventEmptyManaPool EventKind = "EMPTY_MANA_POOL"

	// Permanent events
	EventTap             EventKind = "TAP"
	EventUntap           EventKind = "UNTAP"
	EventAddCounter      EventKind = "ADD_COUNTER"
	EventRemoveCounter   EventKind = "REMOVE_COUNTER"
	EventDestroyObject   EventKind = "DESTROY_OBJECT"
	EventSacrificeObject EventKind = "SACRIFICE_OBJECT"

	// Combat events
	EventAttackerDeclared EventKind = "ATTACKER_DECLARED"
	EventBlockerDeclared  EventKind = "BLOCKER_DECLARED"
	EventCombatDamage     EventKind = "COMBAT_DAMAGE"
	EventCombatEnded      EventKind = "COMBAT_ENDED"

	// Game outcome events
	EventPlayerLoses   EventKind = "PLAYER_LOSES"
	EventPlayerWins    EventKind = "PLAYER_WINS"
	EventPlayerConcede EventKind = "PLAYER_CONCEDE"
)

// EventStatus tracks what happened to an event as it moved through the
// pipeline.
type EventStatus string

const (
	// StatusPending marks an event that has not finished dispatch.
	StatusPending EventStatus = "PENDING"
	// StatusProcessed marks an event whose default effect has been applied.
	StatusProcessed EventStatus = "PROCESSED"
	// StatusPrevented marks an event stopped by an interceptor; no default
	// effect occurs.
	StatusPrevented EventStatus = "PREVENTED"
	// StatusReplaced marks an event whose effect was replaced by a
	// different event emitted in its place.
	StatusReplaced EventStatus = "REPLACED"
)

// ZoneKind names the zones of the game. Zone hints travel in event
// payloads, so the kinds live here rather than in the engine package.
type ZoneKind string

const (
	ZoneLibrary     ZoneKind = "LIBRARY"
	ZoneHand        ZoneKind = "HAND"
	ZoneBattlefield ZoneKind = "BATTLEFIELD"
	ZoneGraveyard   ZoneKind = "GRAVEYARD"
	ZoneStack       ZoneKind = "STACK"
	ZoneExile       ZoneKind = "EXILE"
	ZoneCommand     ZoneKind = "COMMAND"
)

// Well-known payload keys. Content and engine code agree on these names;
// typed getters below cover the common access patterns.
const (
	KeyObjectID  = "object_id"
	KeyPlayerID  = "player_id"
	KeyAmount    = "amount"
	KeyFromZone  = "from_zone"
	KeyToZone    = "to_zone"
	KeyFromOwner = "from_owner"
	KeyToOwner   = "to_owner"
	KeyCounter   = "counter"
	KeyCombat    = "combat"
	KeyDefender  = "defender"
	KeyAttacker  = "attacker"
	KeyBlocker   = "blocker"
	KeyStackItem = "stack_item"
	KeyMana      = "mana"
	KeyReason    = "reason"
)

// Event represents something happening in the game. It is the sole means
// of producing state change: interceptors may mutate the payload or
// prevent the event, and the engine applies the default effect of every
// event that survives dispatch. Events are created per action and
// discarded once the pipeline drains; they are never persisted.
type Event struct {
	ID         string
	Kind       EventKind
	Status     EventStatus
	SourceID   string
	Controller string
	Payload    map[string]any
	Timestamp  time.Time
}

// NewEvent creates a pending event with an empty payload.
func NewEvent(kind EventKind, sourceID, controllerID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		Status:     StatusPending,
		SourceID:   sourceID,
		Controller: controllerID,
		Payload:    make(map[string]any),
		Timestamp:  time.Now(),
	}
}

// With sets a payload value and returns the event for chaining during
// construction.
func (e Event) With(key string, value any) Event {
	e.Payload[key] = value
	return e
}

// String returns the payload value under key as a string, or "".
func (e *Event) String(key string) string {
	if v, ok := e.Payload[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the payload value under key as an int, or 0.
func (e *Event) Int(key string) int {
	switch v := e.Payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns the payload value under key as a bool, or false.
func (e *Event) Bool(key string) bool {
	if v, ok := e.Payload[key].(bool); ok {
		return v
	}
	return false
}

// Zone returns the payload value under key as a ZoneKind, or "".
func (e *Event) Zone(key string) ZoneKind {
	switch v := e.Payload[key].(type) {
	case ZoneKind:
		return v
	case string:
		return ZoneKind(v)
	}
	return ""
}

// SetInt stores an int payload value; used by interceptors that modify
// amounts (damage reduction, doubling).
func (e *Event) SetInt(key string, value int) {
	e.Payload[key] = value
}
