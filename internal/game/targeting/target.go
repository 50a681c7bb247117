package targeting

import (
	"fmt"
	"sort"
	"strings"
)

// TargetKind classifies what a requirement may point at.
type TargetKind string

const (
	// TargetKindObject targets objects on the battlefield or stack.
	TargetKindObject TargetKind = "OBJECT"
	// TargetKindPlayer targets players.
	TargetKindPlayer TargetKind = "PLAYER"
	// TargetKindAny targets creatures, players, or planeswalkers.
	TargetKindAny TargetKind = "ANY"
)

// Candidate is the targeting engine's view of one potential target. It
// carries current (post-layer) characteristics, since protections such
// as hexproof may be granted by continuous effects.
type Candidate struct {
	ID           string
	Kind         TargetKind
	Name         string
	Types        []string
	Subtypes     []string
	Colors       []string
	Abilities    []string
	ControllerID string
	Zone         string
	Tapped       bool
}

// HasType reports whether the candidate carries the given type or
// subtype, case-insensitively.
func (c Candidate) HasType(name string) bool {
	for _, t := range c.Types {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	for _, t := range c.Subtypes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

// HasAbility reports whether the candidate carries the given keyword.
func (c Candidate) HasAbility(name string) bool {
	for _, a := range c.Abilities {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

// Filter is a predicate over candidates; ctx identifies who is doing
// the targeting so protection rules can consult it.
type Filter func(ctx Context, c Candidate) bool

// Context carries who is targeting and from what source.
type Context struct {
	ControllerID string
	SourceID     string
}

// Requirement bundles a candidate filter with selection cardinality.
// Min of zero models "up to N targets".
type Requirement struct {
	Kind        TargetKind
	Filter      Filter
	Min         int
	Max         int
	Description string
}

// Validate checks a concrete selection's cardinality and uniqueness
// against the requirement. Filter legality is the engine's job, since
// it needs candidates.
func (r Requirement) Validate(targetIDs []string) error {
	if len(targetIDs) < r.Min {
		return fmt.Errorf("not enough targets: need at least %d, got %d", r.Min, len(targetIDs))
	}
	if len(targetIDs) > r.Max {
		return fmt.Errorf("too many targets: at most %d allowed, got %d", r.Max, len(targetIDs))
	}
	seen := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		if seen[id] {
			return fmt.Errorf("duplicate target %s", id)
		}
		seen[id] = true
	}
	return nil
}

// CandidateSource exposes the pool of targetable things. The game state
// implements it; targeting never reaches into zones directly.
type CandidateSource interface {
	// TargetCandidates returns every object and player currently
	// visible to targeting, with post-layer characteristics.
	TargetCandidates() []Candidate
}

// Engine answers target-legality questions against a candidate source.
type Engine struct {
	source CandidateSource
}

// NewEngine creates a targeting engine.
func NewEngine(source CandidateSource) *Engine {
	return &Engine{source: source}
}

// LegalTargets returns the ids of every candidate the requirement's
// filter accepts, sorted for determinism.
func (e *Engine) LegalTargets(ctx Context, req Requirement) []string {
	var legal []string
	for _, candidate := range e.source.TargetCandidates() {
		if e.accepts(ctx, req, candidate) {
			legal = append(legal, candidate.ID)
		}
	}
	sort.Strings(legal)
	return legal
}

// IsLegal reports whether a single id is currently a legal target for
// the requirement.
func (e *Engine) IsLegal(ctx Context, req Requirement, targetID string) bool {
	for _, candidate := range e.source.TargetCandidates() {
		if candidate.ID == targetID {
			return e.accepts(ctx, req, candidate)
		}
	}
	return false
}

// CheckSelection validates a selection end to end: cardinality, then
// per-target filter legality.
func (e *Engine) CheckSelection(ctx Context, req Requirement, targetIDs []string) error {
	if err := req.Validate(targetIDs); err != nil {
		return err
	}
	for _, id := range targetIDs {
		if !e.IsLegal(ctx, req, id) {
			return fmt.Errorf("illegal target %s", id)
		}
	}
	return nil
}

// Recheck re-evaluates a resolved selection. Targets that went illegal
// since casting are dropped; the survivors come back with allIllegal
// true when every target across every requirement is gone, which means
// the whole spell is countered by the rules.
func (e *Engine) Recheck(ctx Context, reqs []Requirement, selections [][]string) (surviving [][]string, allIllegal bool) {
	surviving = make([][]string, len(selections))
	hadTargets := false
	anySurvived := false
	for i, ids := range selections {
		if len(ids) > 0 {
			hadTargets = true
		}
		var req Requirement
		if i < len(reqs) {
			req = reqs[i]
		}
		for _, id := range ids {
			if e.IsLegal(ctx, req, id) {
				surviving[i] = append(surviving[i], id)
				anySurvived = true
			}
		}
	}
	return surviving, hadTargets && !anySurvived
}

func (e *Engine) accepts(ctx Context, req Requirement, c Candidate) bool {
	switch req.Kind {
	case TargetKindPlayer:
		if c.Kind != TargetKindPlayer {
			return false
		}
	case TargetKindObject:
		if c.Kind != TargetKindObject {
			return false
		}
	case TargetKindAny:
		if c.Kind == TargetKindObject && !c.HasType("creature") && !c.HasType("planeswalker") {
			return false
		}
	}
	if c.Kind == TargetKindObject && c.HasAbility("hexproof") && c.ControllerID != ctx.ControllerID {
		return false
	}
	if req.Filter != nil && !req.Filter(ctx, c) {
		return false
	}
	return true
}

// CreatureFilter matches battlefield creatures.
func CreatureFilter() Filter {
	return func(_ Context, c Candidate) bool {
		return c.Zone == "BATTLEFIELD" && c.HasType("creature")
	}
}

// SpellFilter matches items on the stack.
func SpellFilter() Filter {
	return func(_ Context, c Candidate) bool {
		return c.Zone == "STACK"
	}
}

// OpponentControlledFilter matches objects an opponent controls.
func OpponentControlledFilter() Filter {
	return func(ctx Context, c Candidate) bool {
		return c.ControllerID != "" && c.ControllerID != ctx.ControllerID
	}
}

// And combines filters conjunctively.
func And(filters ...Filter) Filter {
	return func(ctx Context, c Candidate) bool {
		for _, f := range filters {
			if !f(ctx, c) {
				return false
			}
		}
		return true
	}
}
