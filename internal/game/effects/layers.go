package effects

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Layer orders continuous effects. Queries apply every registered
// effect in ascending layer order; the three power/toughness sublayers
// are distinct layers here so setting always precedes modifying, which
// precedes switching.
type Layer int

const (
	LayerCopy Layer = 1 + iota
	LayerControl
	LayerType
	LayerColor
	LayerAbilityAdd
	LayerAbilityRemove
	LayerPTSet
	LayerPTModify
	LayerPTSwitch
)

var layerOrder = []Layer{
	LayerCopy,
	LayerControl,
	LayerType,
	LayerColor,
	LayerAbilityAdd,
	LayerAbilityRemove,
	LayerPTSet,
	LayerPTModify,
	LayerPTSwitch,
}

// Snapshot is the working copy of an object's characteristics during a
// query. It starts from printed values and is rewritten layer by layer;
// the caller reads the final fields as the object's current state.
type Snapshot struct {
	ObjectID     string
	ControllerID string
	Name         string
	Types        []string
	Subtypes     []string
	Colors       []string
	Abilities    []string
	Power        int
	Toughness    int

	base baseCharacteristics

	// CounterPower/CounterToughness carry the summed boost-counter
	// deltas. They land in the modify sublayer, after other modifiers.
	CounterPower     int
	CounterToughness int
}

type baseCharacteristics struct {
	controllerID string
	name         string
	types        []string
	subtypes     []string
	colors       []string
	abilities    []string
	power        int
	toughness    int
}

// NewSnapshot builds a snapshot from an object's printed characteristics.
func NewSnapshot(objectID, controllerID, name string, types, subtypes, colors, abilities []string, power, toughness int) *Snapshot {
	s := &Snapshot{
		ObjectID: objectID,
		base: baseCharacteristics{
			controllerID: controllerID,
			name:         name,
			types:        append([]string(nil), types...),
			subtypes:     append([]string(nil), subtypes...),
			colors:       append([]string(nil), colors...),
			abilities:    append([]string(nil), abilities...),
			power:        power,
			toughness:    toughness,
		},
	}
	s.reset()
	return s
}

func (s *Snapshot) reset() {
	s.ControllerID = s.base.controllerID
	s.Name = s.base.name
	s.Types = append([]string(nil), s.base.types...)
	s.Subtypes = append([]string(nil), s.base.subtypes...)
	s.Colors = append([]string(nil), s.base.colors...)
	s.Abilities = append([]string(nil), s.base.abilities...)
	s.Power = s.base.power
	s.Toughness = s.base.toughness
}

// HasType reports whether the snapshot currently carries the given card
// type or subtype.
func (s *Snapshot) HasType(name string) bool {
	return containsFold(s.Types, name) || containsFold(s.Subtypes, name)
}

// HasAbility reports whether the snapshot currently carries the given
// keyword ability.
func (s *Snapshot) HasAbility(name string) bool {
	return containsFold(s.Abilities, name)
}

func containsFold(list []string, name string) bool {
	for _, entry := range list {
		if strings.EqualFold(entry, name) {
			return true
		}
	}
	return false
}

// AddAbility appends an ability if not already present.
func (s *Snapshot) AddAbility(name string) {
	if !s.HasAbility(name) {
		s.Abilities = append(s.Abilities, name)
	}
}

// RemoveAbility drops every instance of an ability.
func (s *Snapshot) RemoveAbility(name string) {
	kept := s.Abilities[:0]
	for _, entry := range s.Abilities {
		if !strings.EqualFold(entry, name) {
			kept = append(kept, entry)
		}
	}
	s.Abilities = kept
}

// ContinuousEffect rewrites object characteristics during a query.
// AppliesTo and Apply both see the snapshot as modified by earlier
// layers and earlier effects in the same layer.
type ContinuousEffect interface {
	ID() string
	Layer() Layer
	AppliesTo(*Snapshot) bool
	Apply(*Snapshot)
}

type registered struct {
	effect    ContinuousEffect
	timestamp uint64
}

// System holds every active continuous effect and answers
// characteristic queries. Effects within a layer apply in registration
// (timestamp) order.
type System struct {
	mu      sync.RWMutex
	byLayer map[Layer][]registered
	index   map[string]Layer
	clock   uint64
}

// NewSystem creates an empty layer system.
func NewSystem() *System {
	return &System{
		byLayer: make(map[Layer][]registered),
		index:   make(map[string]Layer),
	}
}

// Add registers an effect, stamping it with the next timestamp, and
// returns its id.
func (sys *System) Add(effect ContinuousEffect) string {
	if effect == nil {
		return ""
	}
	sys.mu.Lock()
	defer sys.mu.Unlock()

	id := effect.ID()
	if id == "" {
		id = uuid.NewString()
	}
	sys.clock++
	layer := effect.Layer()
	sys.byLayer[layer] = append(sys.byLayer[layer], registered{effect: effect, timestamp: sys.clock})
	sys.index[id] = layer
	return id
}

// Remove unregisters an effect by id.
func (sys *System) Remove(id string) {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	layer, ok := sys.index[id]
	if !ok {
		return
	}
	delete(sys.index, id)
	entries := sys.byLayer[layer]
	for i, entry := range entries {
		if entry.effect.ID() == id {
			sys.byLayer[layer] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(sys.byLayer[layer]) == 0 {
		delete(sys.byLayer, layer)
	}
}

// Count returns the number of registered effects.
func (sys *System) Count() int {
	sys.mu.RLock()
	defer sys.mu.RUnlock()
	return len(sys.index)
}

// Apply evaluates every layer against the snapshot, in layer order and
// timestamp order within a layer. Counter deltas land at the end of the
// modify sublayer.
//
// Dependency handling within a layer: after the timestamp-order pass,
// the applicability set is recomputed once against the result. If it
// changed (an effect's condition came true or false because of a peer
// in the same layer), the layer is re-run once with the new set. If the
// set still will not settle, the timestamp-order result stands.
func (sys *System) Apply(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	sys.mu.RLock()
	defer sys.mu.RUnlock()

	snapshot.reset()
	for _, layer := range layerOrder {
		entries := sys.byLayer[layer]
		if len(entries) > 0 {
			sorted := append([]registered(nil), entries...)
			sort.SliceStable(sorted, func(i, j int) bool {
				return sorted[i].timestamp < sorted[j].timestamp
			})
			applyLayer(snapshot, sorted)
		}
		if layer == LayerPTModify {
			snapshot.Power += snapshot.CounterPower
			snapshot.Toughness += snapshot.CounterToughness
		}
	}
}

// clone deep-copies a snapshot so a retry pass cannot alias the slices
// of the committed result.
func (s *Snapshot) clone() *Snapshot {
	cpy := *s
	cpy.Types = append([]string(nil), s.Types...)
	cpy.Subtypes = append([]string(nil), s.Subtypes...)
	cpy.Colors = append([]string(nil), s.Colors...)
	cpy.Abilities = append([]string(nil), s.Abilities...)
	return &cpy
}

func applyLayer(snapshot *Snapshot, entries []registered) {
	entry := snapshot.clone()

	firstApplied := runLayer(snapshot, entries)

	// Recompute applicability against the result; one re-run when the
	// set moved, then stop.
	second := make([]bool, len(entries))
	changed := false
	for i, reg := range entries {
		second[i] = reg.effect.AppliesTo(snapshot)
		if second[i] != firstApplied[i] {
			changed = true
		}
	}
	if !changed {
		return
	}

	retry := entry.clone()
	for i, reg := range entries {
		if second[i] {
			reg.effect.Apply(retry)
		}
	}
	for i, reg := range entries {
		if reg.effect.AppliesTo(retry) != second[i] {
			// No fixed point within one re-evaluation; keep the
			// timestamp-order result already in snapshot.
			return
		}
	}
	*snapshot = *retry
}

func runLayer(snapshot *Snapshot, entries []registered) []bool {
	applied := make([]bool, len(entries))
	for i, reg := range entries {
		if reg.effect.AppliesTo(snapshot) {
			applied[i] = true
			reg.effect.Apply(snapshot)
		}
	}
	return applied
}
