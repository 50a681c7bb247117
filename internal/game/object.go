package game

import (
	"strings"

	"github.com/google/uuid"

	"github.com/discordwell/hyperdraft/internal/game/costs"
	"github.com/discordwell/hyperdraft/internal/game/counters"
	"github.com/discordwell/hyperdraft/internal/game/mana"
	"github.com/discordwell/hyperdraft/internal/game/rules"
	"github.com/discordwell/hyperdraft/internal/game/targeting"
)

// Characteristics are an object's printed values. They never change;
// current values come from the layer system.
type Characteristics struct {
	Name      string
	ManaCost  string
	Types     []string
	Subtypes  []string
	Colors    []string
	Abilities []string
	Power     int
	Toughness int
}

// IsType reports whether the printed type line carries the given type.
func (c Characteristics) IsType(name string) bool {
	for _, t := range c.Types {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

// IsPermanentType reports whether the printed types make the card a
// permanent when it resolves.
func (c Characteristics) IsPermanentType() bool {
	for _, t := range []string{"creature", "artifact", "enchantment", "land", "planeswalker"} {
		if c.IsType(t) {
			return true
		}
	}
	return false
}

// ObjectState is the mutable, zone-scoped part of an object.
type ObjectState struct {
	Tapped           bool
	Damage           int
	SummoningSick    bool
	AttackedThisTurn bool
	Counters         *counters.Set
	Flags            map[string]bool
}

// NewObjectState creates a fresh object state.
func NewObjectState() *ObjectState {
	return &ObjectState{
		Counters: counters.NewSet(),
		Flags:    make(map[string]bool),
	}
}

// CardDefinition is the immutable content template for a card. The
// engine owns none of these; content supplies them and the engine only
// calls SetupInterceptors when an object enters a gating zone.
type CardDefinition struct {
	Name      string
	RulesText string
	// Characteristics builds the printed values for a new object.
	Characteristics func() Characteristics
	// SetupInterceptors wires the card's standing abilities. May be nil
	// for vanilla cards.
	SetupInterceptors func(obj *GameObject, state *GameState) []rules.Interceptor
	// Resolve runs when the card resolves as a spell. Nil for
	// permanents that simply enter the battlefield.
	Resolve func(state *GameState, item *rules.StackItem) error
	// Targets declares the spell's target requirements, if any.
	Targets func() []targeting.Requirement
	// AdditionalCost returns extra cost steps beyond the mana cost.
	AdditionalCost func() []costs.Step
	// ManaColors lists the colors this permanent can produce by
	// tapping, for simple mana abilities.
	ManaColors []mana.Color
	// SnowSource marks permanents whose mana counts as snow.
	SnowSource bool
	// Token marks definitions for objects that cease to exist outside
	// the battlefield.
	Token bool
}

// GameObject is one card or token instance in the arena. Zones,
// players, and interceptors refer to it by id only.
type GameObject struct {
	ID              string
	OwnerID         string
	ControllerID    string
	Zone            rules.ZoneKind
	Characteristics Characteristics
	State           *ObjectState
	Definition      *CardDefinition
	// InterceptorIDs are the registry entries this object owns; removed
	// in one sweep when the gating zone is left.
	InterceptorIDs []string
	// EffectIDs are continuous effects this object sponsors.
	EffectIDs []string
	// StackItemID links a card on the stack to its stack entry.
	StackItemID string
}

// NewGameObject instantiates a definition for an owner. The object
// starts zoneless; a zone-change event places it.
func NewGameObject(def *CardDefinition, ownerID string) *GameObject {
	obj := &GameObject{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		ControllerID: ownerID,
		State:        NewObjectState(),
		Definition:   def,
	}
	if def.Characteristics != nil {
		obj.Characteristics = def.Characteristics()
	} else {
		obj.Characteristics = Characteristics{Name: def.Name}
	}
	return obj
}

// ManaCost parses the object's printed mana cost.
func (o *GameObject) ManaCost() (*mana.Cost, error) {
	return mana.Parse(o.Characteristics.ManaCost)
}

// Zone is a kind plus an ordered object-id list. Order matters for
// library and stack; elsewhere it is incidental.
type Zone struct {
	Kind    rules.ZoneKind
	OwnerID string
	Objects []string
}

// Contains reports whether the zone holds the object id.
func (z *Zone) Contains(objectID string) bool {
	for _, id := range z.Objects {
		if id == objectID {
			return true
		}
	}
	return false
}

// Remove drops an object id; reports whether it was present.
func (z *Zone) Remove(objectID string) bool {
	for i, id := range z.Objects {
		if id == objectID {
			z.Objects = append(z.Objects[:i], z.Objects[i+1:]...)
			return true
		}
	}
	return false
}

// Player is the per-player slice of game state.
type Player struct {
	ID       string
	Name     string
	Life     int
	Pool     *mana.Pool
	Counters *counters.Set
	Lost     bool
	Won      bool
	Conceded bool
	// LandsPlayedThisTurn gates the one-land-per-turn rule.
	LandsPlayedThisTurn int
}

// NewPlayer creates a player with the given starting life.
func NewPlayer(id, name string, life int) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Life:     life,
		Pool:     mana.NewPool(),
		Counters: counters.NewSet(),
	}
}
