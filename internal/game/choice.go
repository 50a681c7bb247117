package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChoiceKind classifies a pending choice. The set is closed; the
// gateway and AI layers switch on it.
type ChoiceKind string

const (
	ChoiceModal          ChoiceKind = "MODAL"
	ChoiceDiscard        ChoiceKind = "DISCARD"
	ChoiceSacrifice      ChoiceKind = "SACRIFICE"
	ChoiceScryOrder      ChoiceKind = "SCRY_ORDER"
	ChoiceYesNo          ChoiceKind = "YES_NO"
	ChoiceDamageDivision ChoiceKind = "DAMAGE_DIVISION"
	ChoiceCostPayment    ChoiceKind = "COST_PAYMENT"
	ChoiceTargets        ChoiceKind = "TARGETS"
	ChoiceBlockerOrder   ChoiceKind = "BLOCKER_ORDER"
)

// ChoiceOption is one selectable entry of a pending choice.
type ChoiceOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PendingChoice suspends an in-flight action until a specific player
// answers. The resume closure carries the continuation; the id is the
// resumption key.
type PendingChoice struct {
	ID       string
	Kind     ChoiceKind
	PlayerID string
	Prompt   string
	Options  []ChoiceOption
	Min      int
	Max      int
	Deadline time.Time

	// Validate may reject a selection beyond cardinality checks.
	Validate func(selection []string) error
	// Resume continues the suspended action with the validated
	// selection.
	Resume func(selection []string) error
}

// Suspend records a pending choice for its player. A second outstanding
// choice for the same player is a content bug, not a runtime state, so
// it panics.
func (gs *GameState) Suspend(choice *PendingChoice) *PendingChoice {
	if existing, ok := gs.choices[choice.PlayerID]; ok {
		panic(fmt.Sprintf("player %s already has pending choice %s", choice.PlayerID, existing.ID))
	}
	if choice.ID == "" {
		choice.ID = uuid.NewString()
	}
	if choice.Deadline.IsZero() && gs.choiceTimeout > 0 {
		choice.Deadline = time.Now().Add(gs.choiceTimeout)
	}
	gs.choices[choice.PlayerID] = choice
	gs.Log("%s must choose: %s", choice.PlayerID, choice.Prompt)
	return choice
}

// PendingChoiceFor returns the player's outstanding choice, if any.
func (gs *GameState) PendingChoiceFor(playerID string) (*PendingChoice, bool) {
	choice, ok := gs.choices[playerID]
	return choice, ok
}

// AnyPendingChoice returns an outstanding choice in deterministic
// player order, if one exists.
func (gs *GameState) AnyPendingChoice() (*PendingChoice, bool) {
	for _, pid := range gs.order {
		if choice, ok := gs.choices[pid]; ok {
			return choice, true
		}
	}
	return nil, false
}

// SubmitChoice validates and resumes a player's outstanding choice.
// The choice is cleared before the continuation runs, so the
// continuation may legally suspend a new one.
func (gs *GameState) SubmitChoice(playerID, choiceID string, selection []string) error {
	choice, ok := gs.choices[playerID]
	if !ok {
		return fmt.Errorf("no pending choice for player %s", playerID)
	}
	if choice.ID != choiceID {
		return fmt.Errorf("pending choice is %s, not %s", choice.ID, choiceID)
	}
	if err := validateSelection(choice, selection); err != nil {
		return err
	}
	delete(gs.choices, playerID)
	return choice.Resume(selection)
}

// ResolveChoiceTimeout answers an expired choice with the documented
// safe default: the minimum required selection, earliest options first.
func (gs *GameState) ResolveChoiceTimeout(playerID string) error {
	choice, ok := gs.choices[playerID]
	if !ok {
		return fmt.Errorf("no pending choice for player %s", playerID)
	}
	selection := make([]string, 0, choice.Min)
	for i := 0; i < choice.Min && i < len(choice.Options); i++ {
		selection = append(selection, choice.Options[i].ID)
	}
	gs.Log("%s timed out; defaulting %s", playerID, choice.Prompt)
	delete(gs.choices, playerID)
	return choice.Resume(selection)
}

// ExpireChoices resolves every outstanding choice whose deadline has
// passed with the safe default, so a silent player cannot stall the
// game. It reports how many choices it resolved.
func (gs *GameState) ExpireChoices(now time.Time) (int, error) {
	resolved := 0
	for _, pid := range gs.order {
		choice, ok := gs.choices[pid]
		if !ok || choice.Deadline.IsZero() || now.Before(choice.Deadline) {
			continue
		}
		if err := gs.ResolveChoiceTimeout(pid); err != nil {
			return resolved, err
		}
		resolved++
	}
	return resolved, nil
}

func validateSelection(choice *PendingChoice, selection []string) error {
	if len(selection) < choice.Min {
		return fmt.Errorf("selection needs at least %d options, got %d", choice.Min, len(selection))
	}
	if choice.Max > 0 && len(selection) > choice.Max {
		return fmt.Errorf("selection allows at most %d options, got %d", choice.Max, len(selection))
	}
	if len(choice.Options) > 0 {
		valid := make(map[string]bool, len(choice.Options))
		for _, opt := range choice.Options {
			valid[opt.ID] = true
		}
		seen := make(map[string]bool, len(selection))
		for _, id := range selection {
			if !valid[id] {
				return fmt.Errorf("unknown option %q", id)
			}
			if seen[id] {
				return fmt.Errorf("duplicate option %q", id)
			}
			seen[id] = true
		}
	}
	if choice.Validate != nil {
		return choice.Validate(selection)
	}
	return nil
}
