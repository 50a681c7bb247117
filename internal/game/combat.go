package game

import (
	"fmt"

	"github.com/discordwell/hyperdraft/internal/game/rules"
)

// CombatPhase is the combat manager's state machine position.
type CombatPhase string

const (
	CombatNone              CombatPhase = "NO_COMBAT"
	CombatAttackersDeclared CombatPhase = "ATTACKERS_DECLARED"
	CombatBlockersDeclared  CombatPhase = "BLOCKERS_DECLARED"
	CombatDamageAssigned    CombatPhase = "DAMAGE_ASSIGNED"
	CombatFinished          CombatPhase = "FINISHED"
)

// AttackDecl names one attacker and what it attacks. Defenders are
// players or planeswalker permanents.
type AttackDecl struct {
	AttackerID string
	DefenderID string
}

// BlockDecl assigns one blocker to one attacker. A blocker may appear
// in several declarations (blocking multiple attackers is not
// supported; multiple blockers per attacker is).
type BlockDecl struct {
	BlockerID  string
	AttackerID string
}

// CombatGroup tracks one attacker, its defender, and its blockers in
// damage-assignment order.
type CombatGroup struct {
	AttackerID       string
	DefenderID       string
	DefenderIsPlayer bool
	BlockerIDs       []string
}

// Blocked reports whether any blocker was assigned.
func (g *CombatGroup) Blocked() bool {
	return len(g.BlockerIDs) > 0
}

// CombatManager runs one combat: declare attackers, declare blockers,
// assign and deal damage, finish.
type CombatManager struct {
	state           *GameState
	phase           CombatPhase
	attackingPlayer string
	groups          []*CombatGroup
	byAttacker      map[string]*CombatGroup
}

// NewCombatManager creates a combat manager bound to a game state.
func NewCombatManager(state *GameState) *CombatManager {
	return &CombatManager{
		state:      state,
		phase:      CombatNone,
		byAttacker: make(map[string]*CombatGroup),
	}
}

// Phase returns the current combat phase.
func (cm *CombatManager) Phase() CombatPhase { return cm.phase }

// AttackingPlayer returns the player who declared attackers.
func (cm *CombatManager) AttackingPlayer() string { return cm.attackingPlayer }

// Groups returns the combat groups in declaration order.
func (cm *CombatManager) Groups() []*CombatGroup {
	return append([]*CombatGroup(nil), cm.groups...)
}

// DeclareAttackers validates and records the attack, tapping each
// attacker without vigilance and firing attacker triggers.
func (cm *CombatManager) DeclareAttackers(playerID string, attacks []AttackDecl) error {
	if cm.phase != CombatNone {
		return fmt.Errorf("attackers already declared")
	}
	gs := cm.state

	for _, attack := range attacks {
		obj, ok := gs.Object(attack.AttackerID)
		if !ok || obj.Zone != rules.ZoneBattlefield {
			return fmt.Errorf("attacker %s is not on the battlefield", attack.AttackerID)
		}
		if obj.ControllerID != playerID {
			return fmt.Errorf("%s does not control %s", playerID, obj.Characteristics.Name)
		}
		snap := gs.Query(obj.ID)
		if !snap.HasType("creature") {
			return fmt.Errorf("%s is not a creature", obj.Characteristics.Name)
		}
		if snap.HasAbility("defender") {
			return fmt.Errorf("%s has defender and cannot attack", obj.Characteristics.Name)
		}
		if obj.State.Tapped {
			return fmt.Errorf("%s is tapped", obj.Characteristics.Name)
		}
		if obj.State.SummoningSick && !snap.HasAbility("haste") {
			return fmt.Errorf("%s has summoning sickness", obj.Characteristics.Name)
		}

		defenderIsPlayer := false
		if _, ok := gs.Player(attack.DefenderID); ok {
			if attack.DefenderID == playerID {
				return fmt.Errorf("cannot attack yourself")
			}
			defenderIsPlayer = true
		} else if def, ok := gs.Object(attack.DefenderID); !ok || !gs.Query(def.ID).HasType("planeswalker") {
			return fmt.Errorf("%s is not an attackable defender", attack.DefenderID)
		}

		group := &CombatGroup{
			AttackerID:       attack.AttackerID,
			DefenderID:       attack.DefenderID,
			DefenderIsPlayer: defenderIsPlayer,
		}
		cm.groups = append(cm.groups, group)
		cm.byAttacker[attack.AttackerID] = group
	}

	cm.attackingPlayer = playerID
	cm.phase = CombatAttackersDeclared

	for _, attack := range attacks {
		obj, _ := gs.Object(attack.AttackerID)
		obj.State.AttackedThisTurn = true
		if !gs.Query(obj.ID).HasAbility("vigilance") {
			if err := gs.Emit(rules.NewEvent(rules.EventTap, obj.ID, playerID).
				With(rules.KeyObjectID, obj.ID)); err != nil {
				return err
			}
		}
		ev := rules.NewEvent(rules.EventAttackerDeclared, obj.ID, playerID).
			With(rules.KeyAttacker, obj.ID).
			With(rules.KeyDefender, attack.DefenderID)
		if err := gs.Emit(ev); err != nil {
			return err
		}
		gs.Log("%s attacks %s", obj.Characteristics.Name, attack.DefenderID)
	}
	return nil
}

// DeclareBlockers validates and records blocks for the defending
// player, firing blocker triggers. An empty declaration is legal.
func (cm *CombatManager) DeclareBlockers(playerID string, blocks []BlockDecl) error {
	if cm.phase != CombatAttackersDeclared {
		return fmt.Errorf("blockers cannot be declared now")
	}
	gs := cm.state

	for _, block := range blocks {
		group, ok := cm.byAttacker[block.AttackerID]
		if !ok {
			return fmt.Errorf("%s is not attacking", block.AttackerID)
		}
		obj, ok := gs.Object(block.BlockerID)
		if !ok || obj.Zone != rules.ZoneBattlefield {
			return fmt.Errorf("blocker %s is not on the battlefield", block.BlockerID)
		}
		if obj.ControllerID != playerID {
			return fmt.Errorf("%s does not control %s", playerID, obj.Characteristics.Name)
		}
		if obj.State.Tapped {
			return fmt.Errorf("%s is tapped and cannot block", obj.Characteristics.Name)
		}
		blockerSnap := gs.Query(obj.ID)
		if !blockerSnap.HasType("creature") {
			return fmt.Errorf("%s is not a creature", obj.Characteristics.Name)
		}
		attackerSnap := gs.Query(block.AttackerID)
		if attackerSnap.HasAbility("flying") &&
			!blockerSnap.HasAbility("flying") && !blockerSnap.HasAbility("reach") {
			return fmt.Errorf("%s cannot block a flyer", obj.Characteristics.Name)
		}
		group.BlockerIDs = append(group.BlockerIDs, block.BlockerID)
	}

	cm.phase = CombatBlockersDeclared

	for _, block := range blocks {
		ev := rules.NewEvent(rules.EventBlockerDeclared, block.BlockerID, playerID).
			With(rules.KeyBlocker, block.BlockerID).
			With(rules.KeyAttacker, block.AttackerID)
		if err := gs.Emit(ev); err != nil {
			return err
		}
	}
	return nil
}

// OrderBlockers sets the damage-assignment order for a multiply blocked
// attacker. The order must be a permutation of the assigned blockers.
func (cm *CombatManager) OrderBlockers(playerID, attackerID string, order []string) error {
	if cm.phase != CombatBlockersDeclared {
		return fmt.Errorf("no blocks to order")
	}
	if playerID != cm.attackingPlayer {
		return fmt.Errorf("only the attacking player orders blockers")
	}
	group, ok := cm.byAttacker[attackerID]
	if !ok {
		return fmt.Errorf("%s is not attacking", attackerID)
	}
	if len(order) != len(group.BlockerIDs) {
		return fmt.Errorf("order must name all %d blockers", len(group.BlockerIDs))
	}
	current := make(map[string]bool, len(group.BlockerIDs))
	for _, id := range group.BlockerIDs {
		current[id] = true
	}
	for _, id := range order {
		if !current[id] {
			return fmt.Errorf("%s is not blocking %s", id, attackerID)
		}
	}
	group.BlockerIDs = append([]string(nil), order...)
	return nil
}

// AssignDamage deals combat damage for every group: attackers fill
// lethal damage across their blockers in order (spilling to the
// defender with trample), blockers strike back, and unblocked
// attackers hit the defending player or planeswalker for full power.
func (cm *CombatManager) AssignDamage() error {
	if cm.phase != CombatAttackersDeclared && cm.phase != CombatBlockersDeclared {
		return fmt.Errorf("combat damage cannot be assigned now")
	}
	gs := cm.state

	marker := rules.NewEvent(rules.EventCombatDamage, "", cm.attackingPlayer)
	if err := gs.Emit(marker); err != nil {
		return err
	}

	for _, group := range cm.groups {
		attacker, ok := gs.Object(group.AttackerID)
		if !ok || attacker.Zone != rules.ZoneBattlefield {
			continue
		}
		snap := gs.Query(attacker.ID)
		power := snap.Power
		if power < 0 {
			power = 0
		}

		if !group.Blocked() {
			if err := cm.damageDefender(group, attacker.ID, power); err != nil {
				return err
			}
			continue
		}

		remaining := power
		deathtouch := snap.HasAbility("deathtouch")
		for _, blockerID := range group.BlockerIDs {
			blocker, ok := gs.Object(blockerID)
			if !ok || blocker.Zone != rules.ZoneBattlefield {
				continue
			}
			if remaining <= 0 {
				break
			}
			blockerSnap := gs.Query(blockerID)
			lethal := blockerSnap.Toughness - blocker.State.Damage
			if deathtouch && lethal > 1 {
				lethal = 1
			}
			if lethal < 1 {
				lethal = 1
			}
			assigned := lethal
			if assigned > remaining {
				assigned = remaining
			}
			remaining -= assigned
			if err := gs.Emit(rules.NewEvent(rules.EventDamageObject, attacker.ID, attacker.ControllerID).
				With(rules.KeyObjectID, blockerID).
				With(rules.KeyAmount, assigned).
				With(rules.KeyCombat, true)); err != nil {
				return err
			}
		}
		if remaining > 0 && snap.HasAbility("trample") {
			if err := cm.damageDefender(group, attacker.ID, remaining); err != nil {
				return err
			}
		}

		// Blockers hit back regardless of how the attacker assigned.
		for _, blockerID := range group.BlockerIDs {
			blocker, ok := gs.Object(blockerID)
			if !ok || blocker.Zone != rules.ZoneBattlefield {
				continue
			}
			blockerSnap := gs.Query(blockerID)
			if blockerSnap.Power <= 0 {
				continue
			}
			if err := gs.Emit(rules.NewEvent(rules.EventDamageObject, blockerID, blocker.ControllerID).
				With(rules.KeyObjectID, attacker.ID).
				With(rules.KeyAmount, blockerSnap.Power).
				With(rules.KeyCombat, true)); err != nil {
				return err
			}
		}
	}

	cm.phase = CombatDamageAssigned
	return nil
}

func (cm *CombatManager) damageDefender(group *CombatGroup, attackerID string, amount int) error {
	if amount <= 0 {
		return nil
	}
	gs := cm.state
	attacker, _ := gs.Object(attackerID)
	if group.DefenderIsPlayer {
		return gs.Emit(rules.NewEvent(rules.EventDamagePlayer, attackerID, attacker.ControllerID).
			With(rules.KeyPlayerID, group.DefenderID).
			With(rules.KeyAmount, amount).
			With(rules.KeyCombat, true))
	}
	return gs.Emit(rules.NewEvent(rules.EventDamageObject, attackerID, attacker.ControllerID).
		With(rules.KeyObjectID, group.DefenderID).
		With(rules.KeyAmount, amount).
		With(rules.KeyCombat, true))
}

// EndCombat fires end-of-combat triggers and resets the manager.
func (cm *CombatManager) EndCombat() error {
	if cm.phase == CombatNone {
		return nil
	}
	gs := cm.state
	if err := gs.Emit(rules.NewEvent(rules.EventCombatEnded, "", cm.attackingPlayer)); err != nil {
		return err
	}
	cm.groups = nil
	cm.byAttacker = make(map[string]*CombatGroup)
	cm.attackingPlayer = ""
	cm.phase = CombatNone
	return nil
}
