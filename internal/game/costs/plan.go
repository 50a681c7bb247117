package costs

import (
	"fmt"
	"strconv"
	"strings"
)

// Or is a disjunction of sub-costs. When exactly one branch is payable
// it resolves without prompting; several payable branches raise a
// disambiguating choice; none means the whole cost is unpayable.
type Or struct {
	Branches []Step
}

func (s Or) Describe() string {
	parts := make([]string, len(s.Branches))
	for i, branch := range s.Branches {
		parts[i] = branch.Describe()
	}
	return strings.Join(parts, " or ")
}

func (s Or) payable(acc GameAccessor, playerID string) []int {
	var indexes []int
	for i, branch := range s.Branches {
		if branch.CanPay(acc, playerID) {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

func (s Or) CanPay(acc GameAccessor, playerID string) bool {
	return len(s.payable(acc, playerID)) > 0
}

func (s Or) Request(acc GameAccessor, playerID string) *ChoiceRequest {
	payable := s.payable(acc, playerID)
	if len(payable) <= 1 {
		return nil
	}
	options := make([]Option, len(payable))
	for i, branchIndex := range payable {
		options[i] = Option{
			ID:    strconv.Itoa(branchIndex),
			Label: s.Branches[branchIndex].Describe(),
		}
	}
	return &ChoiceRequest{Prompt: "choose how to pay: " + s.Describe(), Options: options, Min: 1, Max: 1}
}

// Pay is not called directly on an Or; the execution substitutes the
// chosen branch and pays that instead.
func (s Or) Pay(acc GameAccessor, playerID string, selection []string) error {
	return fmt.Errorf("or-cost must be resolved to a branch before payment")
}

// Plan is an ordered list of cost steps, paid front to back.
type Plan struct {
	Steps []Step
}

// NewPlan builds a plan from steps.
func NewPlan(steps ...Step) *Plan {
	return &Plan{Steps: steps}
}

// CanPay reports whether every step is payable in the current state.
// Steps are gated independently; "costs are paid as you go" means a
// later step can still fail during execution if an earlier payment
// changed the world under it.
func (p *Plan) CanPay(acc GameAccessor, playerID string) bool {
	for _, step := range p.Steps {
		if !step.CanPay(acc, playerID) {
			return false
		}
	}
	return true
}

// Execution walks a plan front to back, pausing at choice-driven steps.
// Costs already paid are never refunded when a later step fails.
type Execution struct {
	acc      GameAccessor
	playerID string
	queue    []Step
	pending  Step
	failed   bool
}

// NewExecution starts paying a plan for the given player.
func NewExecution(plan *Plan, acc GameAccessor, playerID string) *Execution {
	return &Execution{
		acc:      acc,
		playerID: playerID,
		queue:    append([]Step(nil), plan.Steps...),
	}
}

// Done reports whether every step has been paid.
func (x *Execution) Done() bool {
	return !x.failed && x.pending == nil && len(x.queue) == 0
}

// Advance pays deterministic steps until the plan completes or a step
// needs a decision. A non-nil ChoiceRequest means the caller must
// obtain a selection and call Resume. An error aborts the rest of the
// plan; earlier payments stand.
func (x *Execution) Advance() (*ChoiceRequest, error) {
	if x.failed {
		return nil, fmt.Errorf("cost payment already aborted")
	}
	if x.pending != nil {
		return x.pending.Request(x.acc, x.playerID), nil
	}
	for len(x.queue) > 0 {
		step := x.queue[0]

		if !step.CanPay(x.acc, x.playerID) {
			x.failed = true
			return nil, fmt.Errorf("cost unpayable: %s", step.Describe())
		}

		if or, ok := step.(Or); ok {
			payable := or.payable(x.acc, x.playerID)
			if len(payable) == 1 {
				x.queue[0] = or.Branches[payable[0]]
				continue
			}
			x.pending = or
			return or.Request(x.acc, x.playerID), nil
		}

		if req := step.Request(x.acc, x.playerID); req != nil {
			x.pending = step
			return req, nil
		}

		if err := step.Pay(x.acc, x.playerID, nil); err != nil {
			x.failed = true
			return nil, err
		}
		x.queue = x.queue[1:]
	}
	return nil, nil
}

// Resume feeds a selection to the step that raised the last
// ChoiceRequest, then continues advancing.
func (x *Execution) Resume(selection []string) (*ChoiceRequest, error) {
	if x.pending == nil {
		return nil, fmt.Errorf("no pending cost choice")
	}

	if or, ok := x.pending.(Or); ok {
		if len(selection) != 1 {
			return nil, fmt.Errorf("or-cost needs exactly one branch, got %d", len(selection))
		}
		branchIndex, err := strconv.Atoi(selection[0])
		if err != nil || branchIndex < 0 || branchIndex >= len(or.Branches) {
			return nil, fmt.Errorf("invalid branch selection %q", selection[0])
		}
		x.queue[0] = or.Branches[branchIndex]
		x.pending = nil
		return x.Advance()
	}

	if err := x.pending.Pay(x.acc, x.playerID, selection); err != nil {
		return nil, err
	}
	x.pending = nil
	x.queue = x.queue[1:]
	return x.Advance()
}
