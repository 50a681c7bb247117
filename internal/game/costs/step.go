package costs

import (
	"fmt"
)

// GameAccessor is the slice of game state the cost framework needs.
// The game state implements it; cost steps never touch zones directly.
type GameAccessor interface {
	LifeTotal(playerID string) int
	PayLife(playerID string, amount int) error
	HandCards(playerID string) []string
	DiscardCard(playerID, cardID string) error
	ControlledPermanents(playerID string) []string
	PermanentHasType(objectID, typeName string) bool
	SacrificePermanent(playerID, objectID string) error
	GraveyardCards(playerID string) []string
	ExileFromGraveyard(playerID, cardID string) error
}

// Option is one selectable answer to a choice-driven step.
type Option struct {
	ID    string
	Label string
}

// ChoiceRequest is raised when a plan cannot proceed without player
// input. The caller surfaces it as a pending choice and resumes the
// execution with the selection.
type ChoiceRequest struct {
	Prompt  string
	Options []Option
	Min     int
	Max     int
}

// Step is one component of a cost plan. Deterministic steps return a
// nil ChoiceRequest from Request and pay in full from Pay; choice-driven
// steps describe their options in Request and pay from PayChosen.
type Step interface {
	Describe() string
	// CanPay reports whether the step is payable in the current state,
	// without side effects.
	CanPay(acc GameAccessor, playerID string) bool
	// Request returns the choice the step needs, or nil when the step
	// is deterministic or the choice is forced.
	Request(acc GameAccessor, playerID string) *ChoiceRequest
	// Pay executes the step. selection is empty for deterministic
	// steps and holds the chosen option ids otherwise.
	Pay(acc GameAccessor, playerID string, selection []string) error
}

// PayLife is a deterministic life payment. A player may pay life they
// have, down to zero; state-based actions judge the consequences.
type PayLife struct {
	Amount int
}

func (s PayLife) Describe() string {
	return fmt.Sprintf("pay %d life", s.Amount)
}

func (s PayLife) CanPay(acc GameAccessor, playerID string) bool {
	return acc.LifeTotal(playerID) >= s.Amount
}

func (s PayLife) Request(GameAccessor, string) *ChoiceRequest {
	return nil
}

func (s PayLife) Pay(acc GameAccessor, playerID string, _ []string) error {
	if acc.LifeTotal(playerID) < s.Amount {
		return fmt.Errorf("cannot pay %d life with %d remaining", s.Amount, acc.LifeTotal(playerID))
	}
	return acc.PayLife(playerID, s.Amount)
}

// Discard requires discarding Count cards from hand, chosen by the
// player.
type Discard struct {
	Count int
}

func (s Discard) Describe() string {
	if s.Count == 1 {
		return "discard a card"
	}
	return fmt.Sprintf("discard %d cards", s.Count)
}

func (s Discard) CanPay(acc GameAccessor, playerID string) bool {
	return len(acc.HandCards(playerID)) >= s.Count
}

func (s Discard) Request(acc GameAccessor, playerID string) *ChoiceRequest {
	hand := acc.HandCards(playerID)
	// A forced discard of the whole hand needs no prompt.
	if len(hand) == s.Count {
		return nil
	}
	options := make([]Option, len(hand))
	for i, id := range hand {
		options[i] = Option{ID: id, Label: id}
	}
	return &ChoiceRequest{Prompt: s.Describe(), Options: options, Min: s.Count, Max: s.Count}
}

func (s Discard) Pay(acc GameAccessor, playerID string, selection []string) error {
	if len(selection) == 0 {
		selection = acc.HandCards(playerID)
	}
	if len(selection) != s.Count {
		return fmt.Errorf("discard cost needs %d cards, got %d", s.Count, len(selection))
	}
	for _, cardID := range selection {
		if err := acc.DiscardCard(playerID, cardID); err != nil {
			return err
		}
	}
	return nil
}

// Sacrifice requires sacrificing Count controlled permanents of the
// given type ("sacrifice a creature"). An empty TypeName matches any
// permanent.
type Sacrifice struct {
	Count    int
	TypeName string
}

func (s Sacrifice) Describe() string {
	what := "a permanent"
	if s.TypeName != "" {
		what = "a " + s.TypeName
	}
	if s.Count == 1 {
		return "sacrifice " + what
	}
	return fmt.Sprintf("sacrifice %d %ss", s.Count, s.TypeName)
}

func (s Sacrifice) candidates(acc GameAccessor, playerID string) []string {
	var out []string
	for _, id := range acc.ControlledPermanents(playerID) {
		if s.TypeName == "" || acc.PermanentHasType(id, s.TypeName) {
			out = append(out, id)
		}
	}
	return out
}

func (s Sacrifice) CanPay(acc GameAccessor, playerID string) bool {
	return len(s.candidates(acc, playerID)) >= s.Count
}

func (s Sacrifice) Request(acc GameAccessor, playerID string) *ChoiceRequest {
	candidates := s.candidates(acc, playerID)
	if len(candidates) == s.Count {
		return nil
	}
	options := make([]Option, len(candidates))
	for i, id := range candidates {
		options[i] = Option{ID: id, Label: id}
	}
	return &ChoiceRequest{Prompt: s.Describe(), Options: options, Min: s.Count, Max: s.Count}
}

func (s Sacrifice) Pay(acc GameAccessor, playerID string, selection []string) error {
	if len(selection) == 0 {
		selection = s.candidates(acc, playerID)
	}
	if len(selection) != s.Count {
		return fmt.Errorf("sacrifice cost needs %d permanents, got %d", s.Count, len(selection))
	}
	for _, objectID := range selection {
		if s.TypeName != "" && !acc.PermanentHasType(objectID, s.TypeName) {
			return fmt.Errorf("%s is not a %s", objectID, s.TypeName)
		}
		if err := acc.SacrificePermanent(playerID, objectID); err != nil {
			return err
		}
	}
	return nil
}

// ExileFromGraveyard requires exiling Count cards from the player's own
// graveyard.
type ExileFromGraveyard struct {
	Count int
}

func (s ExileFromGraveyard) Describe() string {
	if s.Count == 1 {
		return "exile a card from your graveyard"
	}
	return fmt.Sprintf("exile %d cards from your graveyard", s.Count)
}

func (s ExileFromGraveyard) CanPay(acc GameAccessor, playerID string) bool {
	return len(acc.GraveyardCards(playerID)) >= s.Count
}

func (s ExileFromGraveyard) Request(acc GameAccessor, playerID string) *ChoiceRequest {
	graveyard := acc.GraveyardCards(playerID)
	if len(graveyard) == s.Count {
		return nil
	}
	options := make([]Option, len(graveyard))
	for i, id := range graveyard {
		options[i] = Option{ID: id, Label: id}
	}
	return &ChoiceRequest{Prompt: s.Describe(), Options: options, Min: s.Count, Max: s.Count}
}

func (s ExileFromGraveyard) Pay(acc GameAccessor, playerID string, selection []string) error {
	if len(selection) == 0 {
		selection = acc.GraveyardCards(playerID)
	}
	if len(selection) != s.Count {
		return fmt.Errorf("exile cost needs %d cards, got %d", s.Count, len(selection))
	}
	for _, cardID := range selection {
		if err := acc.ExileFromGraveyard(playerID, cardID); err != nil {
			return err
		}
	}
	return nil
}
