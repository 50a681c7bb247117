package effects

import (
	"github.com/google/uuid"
)

// Filter selects the snapshots an effect applies to.
type Filter func(*Snapshot) bool

// ControlledCreatures matches creatures under the given player's
// control, optionally skipping the effect's own source.
func ControlledCreatures(controllerID, excludeID string) Filter {
	return func(s *Snapshot) bool {
		if s == nil || s.ControllerID != controllerID {
			return false
		}
		if excludeID != "" && s.ObjectID == excludeID {
			return false
		}
		return s.HasType("creature")
	}
}

// SingleObject matches exactly one object by id.
func SingleObject(objectID string) Filter {
	return func(s *Snapshot) bool {
		return s != nil && s.ObjectID == objectID
	}
}

// PTBoost adds a flat power/toughness modifier (an anthem when the
// filter spans a side of the battlefield).
type PTBoost struct {
	id         string
	filter     Filter
	powerDelta int
	toughDelta int
}

// NewPTBoost creates a modify-sublayer boost effect.
func NewPTBoost(filter Filter, powerDelta, toughDelta int) *PTBoost {
	return &PTBoost{
		id:         uuid.NewString(),
		filter:     filter,
		powerDelta: powerDelta,
		toughDelta: toughDelta,
	}
}

func (e *PTBoost) ID() string                 { return e.id }
func (e *PTBoost) Layer() Layer               { return LayerPTModify }
func (e *PTBoost) AppliesTo(s *Snapshot) bool { return e.filter(s) }
func (e *PTBoost) Apply(s *Snapshot) {
	s.Power += e.powerDelta
	s.Toughness += e.toughDelta
}

// PTSet overrides power and toughness to fixed values ("becomes a 0/0").
// It sits in the setting sublayer, so later boosts still apply on top.
type PTSet struct {
	id        string
	filter    Filter
	power     int
	toughness int
}

// NewPTSet creates a setting-sublayer effect.
func NewPTSet(filter Filter, power, toughness int) *PTSet {
	return &PTSet{id: uuid.NewString(), filter: filter, power: power, toughness: toughness}
}

func (e *PTSet) ID() string                 { return e.id }
func (e *PTSet) Layer() Layer               { return LayerPTSet }
func (e *PTSet) AppliesTo(s *Snapshot) bool { return e.filter(s) }
func (e *PTSet) Apply(s *Snapshot) {
	s.Power = e.power
	s.Toughness = e.toughness
}

// PTSwitch exchanges power and toughness. Applied last among the
// power/toughness sublayers, so it switches the fully modified values.
type PTSwitch struct {
	id     string
	filter Filter
}

// NewPTSwitch creates a switching-sublayer effect.
func NewPTSwitch(filter Filter) *PTSwitch {
	return &PTSwitch{id: uuid.NewString(), filter: filter}
}

func (e *PTSwitch) ID() string                 { return e.id }
func (e *PTSwitch) Layer() Layer               { return LayerPTSwitch }
func (e *PTSwitch) AppliesTo(s *Snapshot) bool { return e.filter(s) }
func (e *PTSwitch) Apply(s *Snapshot) {
	s.Power, s.Toughness = s.Toughness, s.Power
}

// TypeAdd grants an additional card type or subtype.
type TypeAdd struct {
	id      string
	filter  Filter
	types   []string
	subtype bool
}

// NewTypeAdd grants card types; NewSubtypeAdd grants subtypes.
func NewTypeAdd(filter Filter, types ...string) *TypeAdd {
	return &TypeAdd{id: uuid.NewString(), filter: filter, types: types}
}

// NewSubtypeAdd grants subtypes in the type-changing layer.
func NewSubtypeAdd(filter Filter, subtypes ...string) *TypeAdd {
	return &TypeAdd{id: uuid.NewString(), filter: filter, types: subtypes, subtype: true}
}

func (e *TypeAdd) ID() string                 { return e.id }
func (e *TypeAdd) Layer() Layer               { return LayerType }
func (e *TypeAdd) AppliesTo(s *Snapshot) bool { return e.filter(s) }
func (e *TypeAdd) Apply(s *Snapshot) {
	for _, typeName := range e.types {
		if s.HasType(typeName) {
			continue
		}
		if e.subtype {
			s.Subtypes = append(s.Subtypes, typeName)
		} else {
			s.Types = append(s.Types, typeName)
		}
	}
}

// ColorSet replaces an object's colors.
type ColorSet struct {
	id     string
	filter Filter
	colors []string
}

// NewColorSet creates a color-changing effect ("is blue").
func NewColorSet(filter Filter, colors ...string) *ColorSet {
	return &ColorSet{id: uuid.NewString(), filter: filter, colors: colors}
}

func (e *ColorSet) ID() string                 { return e.id }
func (e *ColorSet) Layer() Layer               { return LayerColor }
func (e *ColorSet) AppliesTo(s *Snapshot) bool { return e.filter(s) }
func (e *ColorSet) Apply(s *Snapshot) {
	s.Colors = append([]string(nil), e.colors...)
}

// AbilityGrant adds keyword abilities.
type AbilityGrant struct {
	id        string
	filter    Filter
	abilities []string
}

// NewAbilityGrant creates an ability-adding effect.
func NewAbilityGrant(filter Filter, abilities ...string) *AbilityGrant {
	return &AbilityGrant{id: uuid.NewString(), filter: filter, abilities: abilities}
}

func (e *AbilityGrant) ID() string                 { return e.id }
func (e *AbilityGrant) Layer() Layer               { return LayerAbilityAdd }
func (e *AbilityGrant) AppliesTo(s *Snapshot) bool { return e.filter(s) }
func (e *AbilityGrant) Apply(s *Snapshot) {
	for _, ability := range e.abilities {
		s.AddAbility(ability)
	}
}

// AbilityStrip removes abilities; with no names it removes all of them
// ("loses all abilities"). The remove layer runs after the add layer,
// so a strip beats a grant regardless of timestamps.
type AbilityStrip struct {
	id        string
	filter    Filter
	abilities []string
}

// NewAbilityStrip creates an ability-removing effect.
func NewAbilityStrip(filter Filter, abilities ...string) *AbilityStrip {
	return &AbilityStrip{id: uuid.NewString(), filter: filter, abilities: abilities}
}

func (e *AbilityStrip) ID() string                 { return e.id }
func (e *AbilityStrip) Layer() Layer               { return LayerAbilityRemove }
func (e *AbilityStrip) AppliesTo(s *Snapshot) bool { return e.filter(s) }
func (e *AbilityStrip) Apply(s *Snapshot) {
	if len(e.abilities) == 0 {
		s.Abilities = nil
		return
	}
	for _, ability := range e.abilities {
		s.RemoveAbility(ability)
	}
}

// ControlChange hands control of an object to another player.
type ControlChange struct {
	id           string
	filter       Filter
	controllerID string
}

// NewControlChange creates a control-changing effect.
func NewControlChange(filter Filter, newControllerID string) *ControlChange {
	return &ControlChange{id: uuid.NewString(), filter: filter, controllerID: newControllerID}
}

func (e *ControlChange) ID() string                 { return e.id }
func (e *ControlChange) Layer() Layer               { return LayerControl }
func (e *ControlChange) AppliesTo(s *Snapshot) bool { return e.filter(s) }
func (e *ControlChange) Apply(s *Snapshot) {
	s.ControllerID = e.controllerID
}
