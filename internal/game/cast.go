package game

import (
	"fmt"

	"github.com/discordwell/hyperdraft/internal/game/costs"
	"github.com/discordwell/hyperdraft/internal/game/mana"
	"github.com/discordwell/hyperdraft/internal/game/rules"
	"github.com/discordwell/hyperdraft/internal/game/targeting"
)

// CastSpell takes a card from its controller's hand through legality
// checks, payment, and onto the stack. Payment may suspend on a cost
// choice; the cast continues when the choice resolves.
func (gs *GameState) CastSpell(playerID, cardID string, targets [][]string, xValue int) error {
	player, ok := gs.players[playerID]
	if !ok {
		return fmt.Errorf("unknown player %s", playerID)
	}
	obj, ok := gs.objects[cardID]
	if !ok {
		return fmt.Errorf("unknown card %s", cardID)
	}
	if obj.Zone != rules.ZoneHand || obj.OwnerID != playerID {
		return fmt.Errorf("%s is not in %s's hand", obj.Characteristics.Name, playerID)
	}
	if obj.Characteristics.IsType("land") {
		return fmt.Errorf("lands are played, not cast")
	}

	cost, err := obj.ManaCost()
	if err != nil {
		return fmt.Errorf("bad mana cost on %s: %w", obj.Characteristics.Name, err)
	}
	if cost.X == 0 {
		xValue = 0
	}

	reqs := gs.targetRequirements(obj)
	if err := gs.checkTargets(playerID, cardID, reqs, targets); err != nil {
		return err
	}

	plan := gs.additionalCostPlan(obj)
	if !plan.CanPay(gs, playerID) {
		return fmt.Errorf("cannot pay additional costs of %s", obj.Characteristics.Name)
	}
	if !player.Pool.CanPay(cost, xValue) {
		return fmt.Errorf("cannot pay %s for %s", cost, obj.Characteristics.Name)
	}

	announce := rules.NewEvent(rules.EventCastSpell, cardID, playerID).
		With(rules.KeyObjectID, cardID).
		With(rules.KeyPlayerID, playerID)
	status, err := gs.EmitTracked(announce)
	if err != nil {
		return err
	}
	if status == rules.StatusPrevented {
		return fmt.Errorf("casting %s was prevented", obj.Characteristics.Name)
	}

	payment, err := player.Pool.Pay(cost, xValue)
	if err != nil {
		return err
	}
	if payment.LifeOwed > 0 {
		ev := rules.NewEvent(rules.EventPayLife, cardID, playerID).
			With(rules.KeyPlayerID, playerID).
			With(rules.KeyAmount, payment.LifeOwed)
		if err := gs.Emit(ev); err != nil {
			return err
		}
	}

	exec := costs.NewExecution(plan, gs, playerID)
	return gs.driveCostExecution(exec, playerID, func() error {
		return gs.finishCast(obj, playerID, targets, xValue)
	})
}

// driveCostExecution advances a cost plan, suspending on choice-driven
// steps and re-entering itself when the choice resolves. Costs already
// paid stay paid if a later step aborts.
func (gs *GameState) driveCostExecution(exec *costs.Execution, playerID string, done func() error) error {
	req, err := exec.Advance()
	if err != nil {
		return err
	}
	if req == nil {
		return done()
	}

	options := make([]ChoiceOption, len(req.Options))
	for i, opt := range req.Options {
		options[i] = ChoiceOption{ID: opt.ID, Label: opt.Label}
	}
	gs.Suspend(&PendingChoice{
		Kind:     ChoiceCostPayment,
		PlayerID: playerID,
		Prompt:   req.Prompt,
		Options:  options,
		Min:      req.Min,
		Max:      req.Max,
		Resume: func(selection []string) error {
			next, err := exec.Resume(selection)
			if err != nil {
				return err
			}
			if next == nil && exec.Done() {
				return done()
			}
			// Another step needs input; re-suspend through the same
			// machinery.
			return gs.driveCostExecution(exec, playerID, done)
		},
	})
	return nil
}

// finishCast puts the paid, targeted spell on the stack.
func (gs *GameState) finishCast(obj *GameObject, playerID string, targets [][]string, xValue int) error {
	item := rules.StackItem{
		Controller:  playerID,
		Description: obj.Characteristics.Name,
		Kind:        rules.StackItemKindSpell,
		SourceID:    obj.ID,
		Targets:     targets,
		XValue:      xValue,
	}
	if obj.Definition != nil && obj.Definition.Resolve != nil {
		def := obj.Definition
		item.Resolve = func(it *rules.StackItem) error {
			return def.Resolve(gs, it)
		}
	}
	itemID := gs.stack.Push(item)
	obj.StackItemID = itemID

	move := rules.NewEvent(rules.EventZoneChange, obj.ID, playerID).
		With(rules.KeyObjectID, obj.ID).
		With(rules.KeyFromZone, rules.ZoneHand).
		With(rules.KeyToZone, rules.ZoneStack)
	if err := gs.Emit(move); err != nil {
		return err
	}
	gs.Log("%s casts %s", playerID, obj.Characteristics.Name)

	cast := rules.NewEvent(rules.EventSpellCast, obj.ID, playerID).
		With(rules.KeyObjectID, obj.ID).
		With(rules.KeyStackItem, itemID)
	return gs.Emit(cast)
}

func (gs *GameState) targetRequirements(obj *GameObject) []targeting.Requirement {
	if obj.Definition == nil || obj.Definition.Targets == nil {
		return nil
	}
	return obj.Definition.Targets()
}

func (gs *GameState) additionalCostPlan(obj *GameObject) *costs.Plan {
	if obj.Definition == nil || obj.Definition.AdditionalCost == nil {
		return costs.NewPlan()
	}
	return costs.NewPlan(obj.Definition.AdditionalCost()...)
}

func (gs *GameState) checkTargets(playerID, sourceID string, reqs []targeting.Requirement, targets [][]string) error {
	if len(targets) > len(reqs) {
		return fmt.Errorf("spell takes %d target groups, got %d", len(reqs), len(targets))
	}
	ctx := targeting.Context{ControllerID: playerID, SourceID: sourceID}
	for i, req := range reqs {
		var selection []string
		if i < len(targets) {
			selection = targets[i]
		}
		if err := gs.targeter.CheckSelection(ctx, req, selection); err != nil {
			return err
		}
	}
	return nil
}

// ResolveTop pops and resolves the top of the stack. Target legality is
// rechecked first: if every target is gone the spell is countered by
// the rules and nothing resolves or is refunded.
func (gs *GameState) ResolveTop() error {
	item, err := gs.stack.Pop()
	if err != nil {
		return err
	}

	obj, hasCard := gs.objects[item.SourceID]
	var reqs []targeting.Requirement
	if hasCard {
		reqs = gs.targetRequirements(obj)
	}

	ctx := targeting.Context{ControllerID: item.Controller, SourceID: item.SourceID}
	surviving, allIllegal := gs.targeter.Recheck(ctx, reqs, item.Targets)
	if allIllegal {
		gs.Log("%s fizzles: every target is illegal", item.Description)
		fizzle := rules.NewEvent(rules.EventSpellFizzled, item.SourceID, item.Controller).
			With(rules.KeyStackItem, item.ID)
		if err := gs.Emit(fizzle); err != nil {
			return err
		}
		return gs.moveOffStack(item, false)
	}
	item.Targets = surviving

	if item.Resolve != nil {
		if err := item.Resolve(&item); err != nil {
			return err
		}
	}
	gs.Log("%s resolves", item.Description)
	if hasCard {
		return gs.moveOffStack(item, true)
	}
	return nil
}

// moveOffStack applies the post-resolution zone change for a card-backed
// stack item, emitting through the pipeline so replacement effects see
// it.
func (gs *GameState) moveOffStack(item rules.StackItem, resolved bool) error {
	obj, ok := gs.objects[item.SourceID]
	if !ok || obj.Zone != rules.ZoneStack {
		return nil
	}
	dest := rules.ZoneGraveyard
	if resolved && obj.Characteristics.IsPermanentType() {
		dest = rules.ZoneBattlefield
	}
	if item.DestinationOverride != "" {
		dest = item.DestinationOverride
	}
	obj.StackItemID = ""
	return gs.Emit(rules.NewEvent(rules.EventZoneChange, item.SourceID, item.Controller).
		With(rules.KeyObjectID, item.SourceID).
		With(rules.KeyFromZone, rules.ZoneStack).
		With(rules.KeyToZone, dest))
}

// PlayLand moves a land from hand to the battlefield, once per turn.
func (gs *GameState) PlayLand(playerID, cardID string) error {
	player, ok := gs.players[playerID]
	if !ok {
		return fmt.Errorf("unknown player %s", playerID)
	}
	obj, ok := gs.objects[cardID]
	if !ok {
		return fmt.Errorf("unknown card %s", cardID)
	}
	if obj.Zone != rules.ZoneHand || obj.OwnerID != playerID {
		return fmt.Errorf("%s is not in %s's hand", obj.Characteristics.Name, playerID)
	}
	if !obj.Characteristics.IsType("land") {
		return fmt.Errorf("%s is not a land", obj.Characteristics.Name)
	}
	if player.LandsPlayedThisTurn >= 1 {
		return fmt.Errorf("%s already played a land this turn", playerID)
	}
	player.LandsPlayedThisTurn++
	gs.Log("%s plays %s", playerID, obj.Characteristics.Name)
	return gs.Emit(rules.NewEvent(rules.EventZoneChange, cardID, playerID).
		With(rules.KeyObjectID, cardID).
		With(rules.KeyFromZone, rules.ZoneHand).
		With(rules.KeyToZone, rules.ZoneBattlefield))
}

// TapForMana activates a permanent's simple mana ability.
func (gs *GameState) TapForMana(playerID, objectID string, color mana.Color) error {
	obj, ok := gs.objects[objectID]
	if !ok {
		return fmt.Errorf("unknown object %s", objectID)
	}
	if obj.Zone != rules.ZoneBattlefield || obj.ControllerID != playerID {
		return fmt.Errorf("%s does not control %s on the battlefield", playerID, obj.Characteristics.Name)
	}
	if obj.State.Tapped {
		return fmt.Errorf("%s is already tapped", obj.Characteristics.Name)
	}
	def := obj.Definition
	if def == nil || len(def.ManaColors) == 0 {
		return fmt.Errorf("%s has no mana ability", obj.Characteristics.Name)
	}
	legal := false
	for _, c := range def.ManaColors {
		if c == color {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("%s cannot produce {%s}", obj.Characteristics.Name, color)
	}

	if err := gs.Emit(rules.NewEvent(rules.EventTap, objectID, playerID).
		With(rules.KeyObjectID, objectID)); err != nil {
		return err
	}
	add := rules.NewEvent(rules.EventAddMana, objectID, playerID).
		With(rules.KeyPlayerID, playerID).
		With(rules.KeyMana, string(color)).
		With(rules.KeyAmount, 1)
	if def.SnowSource {
		add = add.With(keySnowMana, true)
	}
	return gs.Emit(add)
}
