package game

import (
	"github.com/discordwell/hyperdraft/internal/game/rules"
)

// maxSBAIterations bounds the state-based-action fixed point against
// content that keeps producing new deaths forever.
const maxSBAIterations = 100

// RunStateBasedActions applies the state-based-action batch repeatedly
// until a pass produces no changes. Called before any player receives
// priority.
func (gs *GameState) RunStateBasedActions() error {
	for i := 0; i < maxSBAIterations; i++ {
		changed, err := gs.stateBasedPass()
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
	gs.logger.Warn("state-based actions did not quiesce")
	return nil
}

func (gs *GameState) stateBasedPass() (bool, error) {
	changed := false

	// Players at zero or less life lose.
	for _, pid := range gs.order {
		p := gs.players[pid]
		if p.Lost || p.Life > 0 {
			continue
		}
		changed = true
		if err := gs.Emit(rules.NewEvent(rules.EventPlayerLoses, "", pid).
			With(rules.KeyPlayerID, pid).
			With(rules.KeyReason, "life total is 0 or less")); err != nil {
			return false, err
		}
	}

	// Creature deaths: zero toughness goes straight to the graveyard,
	// lethal or deathtouch damage destroys.
	battlefield := gs.ZoneFor(rules.ZoneBattlefield, "")
	for _, id := range append([]string(nil), battlefield.Objects...) {
		obj, ok := gs.objects[id]
		if !ok {
			continue
		}
		snap := gs.Query(id)
		if snap == nil || !snap.HasType("creature") {
			continue
		}
		if snap.Toughness <= 0 {
			changed = true
			if err := gs.Emit(rules.NewEvent(rules.EventZoneChange, id, obj.ControllerID).
				With(rules.KeyObjectID, id).
				With(rules.KeyFromZone, rules.ZoneBattlefield).
				With(rules.KeyToZone, rules.ZoneGraveyard).
				With(rules.KeyReason, "zero toughness")); err != nil {
				return false, err
			}
			continue
		}
		if obj.State.Damage >= snap.Toughness || obj.State.Flags[flagDeathtouched] {
			changed = true
			gs.Log("%s dies", obj.Characteristics.Name)
			if err := gs.Emit(rules.NewEvent(rules.EventDestroyObject, id, obj.ControllerID).
				With(rules.KeyObjectID, id).
				With(rules.KeyReason, "lethal damage")); err != nil {
				return false, err
			}
		}
	}

	// Tokens cease to exist anywhere but the battlefield.
	for key, zone := range gs.zones {
		if zone.Kind == rules.ZoneBattlefield {
			continue
		}
		for _, id := range append([]string(nil), zone.Objects...) {
			obj, ok := gs.objects[id]
			if !ok || obj.Definition == nil || !obj.Definition.Token {
				continue
			}
			changed = true
			gs.zones[key].Remove(id)
			delete(gs.objects, id)
		}
	}

	// Last player standing wins.
	alive := 0
	var lastAlive string
	for _, pid := range gs.order {
		if !gs.players[pid].Lost {
			alive++
			lastAlive = pid
		}
	}
	if alive == 1 {
		if p := gs.players[lastAlive]; !p.Won {
			changed = true
			if err := gs.Emit(rules.NewEvent(rules.EventPlayerWins, "", lastAlive).
				With(rules.KeyPlayerID, lastAlive)); err != nil {
				return false, err
			}
		}
	}

	return changed, nil
}
