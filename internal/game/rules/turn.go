package rules

import "fmt"

// Phase groups consecutive steps of a turn.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhasePrecombatMain
	PhaseCombat
	PhasePostcombatMain
	PhaseEnding
)

func (p Phase) String() string {
	switch p {
	case PhaseBeginning:
		return "BEGINNING"
	case PhasePrecombatMain:
		return "PRECOMBAT_MAIN"
	case PhaseCombat:
		return "COMBAT"
	case PhasePostcombatMain:
		return "POSTCOMBAT_MAIN"
	case PhaseEnding:
		return "ENDING"
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step is one slot in the fixed turn schedule.
type Step int

const (
	StepUntap Step = iota
	StepUpkeep
	StepDraw
	StepMain1
	StepBeginCombat
	StepDeclareAttackers
	StepDeclareBlockers
	StepCombatDamage
	StepEndCombat
	StepMain2
	StepEnd
	StepCleanup
)

func (s Step) String() string {
	switch s {
	case StepUntap:
		return "UNTAP"
	case StepUpkeep:
		return "UPKEEP"
	case StepDraw:
		return "DRAW"
	case StepMain1:
		return "MAIN1"
	case StepBeginCombat:
		return "BEGIN_COMBAT"
	case StepDeclareAttackers:
		return "DECLARE_ATTACKERS"
	case StepDeclareBlockers:
		return "DECLARE_BLOCKERS"
	case StepCombatDamage:
		return "COMBAT_DAMAGE"
	case StepEndCombat:
		return "END_COMBAT"
	case StepMain2:
		return "MAIN2"
	case StepEnd:
		return "END"
	case StepCleanup:
		return "CLEANUP"
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// IsMain reports whether the step is a main step, where the active
// player may take sorcery-speed actions while the stack is empty.
func (s Step) IsMain() bool {
	return s == StepMain1 || s == StepMain2
}

// schedule is the fixed order of steps in a turn, each paired with the
// phase it belongs to.
var schedule = []struct {
	phase Phase
	step  Step
}{
	{PhaseBeginning, StepUntap},
	{PhaseBeginning, StepUpkeep},
	{PhaseBeginning, StepDraw},
	{PhasePrecombatMain, StepMain1},
	{PhaseCombat, StepBeginCombat},
	{PhaseCombat, StepDeclareAttackers},
	{PhaseCombat, StepDeclareBlockers},
	{PhaseCombat, StepCombatDamage},
	{PhaseCombat, StepEndCombat},
	{PhasePostcombatMain, StepMain2},
	{PhaseEnding, StepEnd},
	{PhaseEnding, StepCleanup},
}

// TurnManager walks the schedule and tracks the turn count, whose turn
// it is, and who holds priority.
type TurnManager struct {
	pos      int
	number   int
	active   string
	priority string
}

// NewTurnManager starts at turn 1, untap step, with the given player
// active and holding priority.
func NewTurnManager(activePlayer string) *TurnManager {
	return &TurnManager{
		number:   1,
		active:   activePlayer,
		priority: activePlayer,
	}
}

// CurrentPhase returns the phase in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return schedule[tm.pos].phase
}

// CurrentStep returns the step in progress.
func (tm *TurnManager) CurrentStep() Step {
	return schedule[tm.pos].step
}

// TurnNumber returns the 1-based turn count.
func (tm *TurnManager) TurnNumber() int {
	return tm.number
}

// ActivePlayer returns whose turn it is.
func (tm *TurnManager) ActivePlayer() string {
	return tm.active
}

// PriorityPlayer returns who holds priority.
func (tm *TurnManager) PriorityPlayer() string {
	return tm.priority
}

// SetPriority hands priority to the given player.
func (tm *TurnManager) SetPriority(player string) {
	tm.priority = player
}

// AdvanceStep moves to the next slot in the schedule. Wrapping past
// cleanup increments the turn count and, when nextActivePlayer is
// non-empty, rotates the turn to them. Priority reverts to the active
// player on every step change.
func (tm *TurnManager) AdvanceStep(nextActivePlayer string) (Phase, Step) {
	tm.pos++
	if tm.pos == len(schedule) {
		tm.pos = 0
		tm.number++
		if nextActivePlayer != "" {
			tm.active = nextActivePlayer
		}
	}
	tm.priority = tm.active
	return tm.CurrentPhase(), tm.CurrentStep()
}
