package targeting

import (
	"testing"
)

type fakeSource struct {
	candidates []Candidate
}

func (f *fakeSource) TargetCandidates() []Candidate {
	return f.candidates
}

func battlefieldCreature(id, controller string, abilities ...string) Candidate {
	return Candidate{
		ID:           id,
		Kind:         TargetKindObject,
		Types:        []string{"Creature"},
		ControllerID: controller,
		Zone:         "BATTLEFIELD",
		Abilities:    abilities,
	}
}

func TestEngine_LegalTargetsFiltersAndSorts(t *testing.T) {
	source := &fakeSource{candidates: []Candidate{
		battlefieldCreature("zebra", "bob"),
		battlefieldCreature("aardvark", "bob"),
		{ID: "bob", Kind: TargetKindPlayer},
		{ID: "relic", Kind: TargetKindObject, Types: []string{"Artifact"}, Zone: "BATTLEFIELD", ControllerID: "bob"},
	}}
	engine := NewEngine(source)

	req := Requirement{Kind: TargetKindObject, Filter: CreatureFilter(), Min: 1, Max: 1}
	legal := engine.LegalTargets(Context{ControllerID: "alice"}, req)
	if len(legal) != 2 || legal[0] != "aardvark" || legal[1] != "zebra" {
		t.Errorf("legal = %v, want [aardvark zebra]", legal)
	}
}

func TestEngine_HexproofBlocksOpponentsOnly(t *testing.T) {
	source := &fakeSource{candidates: []Candidate{
		battlefieldCreature("veiled", "bob", "hexproof"),
	}}
	engine := NewEngine(source)
	req := Requirement{Kind: TargetKindObject, Filter: CreatureFilter(), Min: 1, Max: 1}

	if engine.IsLegal(Context{ControllerID: "alice"}, req, "veiled") {
		t.Error("hexproof creature should not be targetable by an opponent")
	}
	if !engine.IsLegal(Context{ControllerID: "bob"}, req, "veiled") {
		t.Error("hexproof creature should be targetable by its controller")
	}
}

func TestRequirement_ValidateCardinality(t *testing.T) {
	req := Requirement{Min: 1, Max: 2}
	if err := req.Validate(nil); err == nil {
		t.Error("empty selection should fail min 1")
	}
	if err := req.Validate([]string{"a", "b", "c"}); err == nil {
		t.Error("three targets should fail max 2")
	}
	if err := req.Validate([]string{"a", "a"}); err == nil {
		t.Error("duplicate targets should fail")
	}
	if err := req.Validate([]string{"a", "b"}); err != nil {
		t.Errorf("valid selection rejected: %v", err)
	}

	upTo := Requirement{Min: 0, Max: 2}
	if err := upTo.Validate(nil); err != nil {
		t.Errorf("up-to requirement should accept zero targets: %v", err)
	}
}

func TestEngine_RecheckDropsIllegalTargets(t *testing.T) {
	source := &fakeSource{candidates: []Candidate{
		battlefieldCreature("alpha", "bob"),
	}}
	engine := NewEngine(source)
	reqs := []Requirement{{Kind: TargetKindObject, Filter: CreatureFilter(), Min: 1, Max: 2}}

	// "beta" left the battlefield since the spell was cast.
	surviving, allIllegal := engine.Recheck(Context{ControllerID: "alice"}, reqs, [][]string{{"alpha", "beta"}})
	if allIllegal {
		t.Fatal("one target survived; spell must not be countered")
	}
	if len(surviving[0]) != 1 || surviving[0][0] != "alpha" {
		t.Errorf("surviving = %v, want [alpha]", surviving[0])
	}
}

func TestEngine_RecheckCountersWhenAllIllegal(t *testing.T) {
	engine := NewEngine(&fakeSource{})
	reqs := []Requirement{{Kind: TargetKindObject, Filter: CreatureFilter(), Min: 1, Max: 1}}

	surviving, allIllegal := engine.Recheck(Context{ControllerID: "alice"}, reqs, [][]string{{"gone"}})
	if !allIllegal {
		t.Error("every target illegal: the spell should be countered")
	}
	if len(surviving[0]) != 0 {
		t.Errorf("surviving = %v, want empty", surviving[0])
	}
}

func TestEngine_RecheckUntargetedSpellUnaffected(t *testing.T) {
	engine := NewEngine(&fakeSource{})
	_, allIllegal := engine.Recheck(Context{ControllerID: "alice"}, nil, nil)
	if allIllegal {
		t.Error("a spell with no targets is never countered by the recheck")
	}
}
