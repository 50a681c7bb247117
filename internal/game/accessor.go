package game

import (
	"fmt"

	"github.com/discordwell/hyperdraft/internal/game/rules"
)

// GameState implements costs.GameAccessor so cost steps can pay
// through events without touching zones directly.

// LifeTotal returns a player's life, or 0 for unknown players.
func (gs *GameState) LifeTotal(playerID string) int {
	if p, ok := gs.players[playerID]; ok {
		return p.Life
	}
	return 0
}

// PayLife deducts life as a cost payment.
func (gs *GameState) PayLife(playerID string, amount int) error {
	if _, ok := gs.players[playerID]; !ok {
		return fmt.Errorf("unknown player %s", playerID)
	}
	return gs.Emit(rules.NewEvent(rules.EventPayLife, "", playerID).
		With(rules.KeyPlayerID, playerID).
		With(rules.KeyAmount, amount))
}

// HandCards returns the ids in a player's hand.
func (gs *GameState) HandCards(playerID string) []string {
	hand := gs.ZoneFor(rules.ZoneHand, playerID)
	return append([]string(nil), hand.Objects...)
}

// DiscardCard discards one card from hand.
func (gs *GameState) DiscardCard(playerID, cardID string) error {
	obj, ok := gs.objects[cardID]
	if !ok || obj.Zone != rules.ZoneHand || obj.OwnerID != playerID {
		return fmt.Errorf("%s is not in %s's hand", cardID, playerID)
	}
	gs.Log("%s discards %s", playerID, obj.Characteristics.Name)
	return gs.Emit(rules.NewEvent(rules.EventDiscardCard, cardID, playerID).
		With(rules.KeyObjectID, cardID).
		With(rules.KeyPlayerID, playerID))
}

// ControlledPermanents returns the battlefield objects a player
// controls, in battlefield order.
func (gs *GameState) ControlledPermanents(playerID string) []string {
	battlefield := gs.ZoneFor(rules.ZoneBattlefield, "")
	var out []string
	for _, id := range battlefield.Objects {
		if gs.objects[id].ControllerID == playerID {
			out = append(out, id)
		}
	}
	return out
}

// PermanentHasType answers type questions through the layer system, so
// type-changing effects are honored.
func (gs *GameState) PermanentHasType(objectID, typeName string) bool {
	snap := gs.Query(objectID)
	return snap != nil && snap.HasType(typeName)
}

// SacrificePermanent sacrifices a controlled permanent.
func (gs *GameState) SacrificePermanent(playerID, objectID string) error {
	obj, ok := gs.objects[objectID]
	if !ok || obj.Zone != rules.ZoneBattlefield || obj.ControllerID != playerID {
		return fmt.Errorf("%s does not control %s", playerID, objectID)
	}
	gs.Log("%s sacrifices %s", playerID, obj.Characteristics.Name)
	return gs.Emit(rules.NewEvent(rules.EventSacrificeObject, objectID, playerID).
		With(rules.KeyObjectID, objectID))
}

// GraveyardCards returns the ids in a player's graveyard.
func (gs *GameState) GraveyardCards(playerID string) []string {
	yard := gs.ZoneFor(rules.ZoneGraveyard, playerID)
	return append([]string(nil), yard.Objects...)
}

// ExileFromGraveyard exiles one card from the player's graveyard.
func (gs *GameState) ExileFromGraveyard(playerID, cardID string) error {
	obj, ok := gs.objects[cardID]
	if !ok || obj.Zone != rules.ZoneGraveyard || obj.OwnerID != playerID {
		return fmt.Errorf("%s is not in %s's graveyard", cardID, playerID)
	}
	return gs.Emit(rules.NewEvent(rules.EventZoneChange, cardID, playerID).
		With(rules.KeyObjectID, cardID).
		With(rules.KeyFromZone, rules.ZoneGraveyard).
		With(rules.KeyToZone, rules.ZoneExile))
}
