package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discordwell/hyperdraft/internal/game/rules"
)

// readyCreature puts a creature on the battlefield with summoning
// sickness already worn off.
func readyCreature(t *testing.T, gs *GameState, cardName, owner string) *GameObject {
	t.Helper()
	obj := give(t, gs, cardName, owner, rules.ZoneBattlefield)
	obj.State.SummoningSick = false
	return obj
}

func TestUnblockedAttackersDealFullPower(t *testing.T) {
	gs := testState("alice", "bob")
	cm := NewCombatManager(gs)
	first := readyCreature(t, gs, "Valley Bear", "alice")
	second := readyCreature(t, gs, "Thicket Boar", "alice")
	third := readyCreature(t, gs, "Ember Sprinter", "alice")

	require.NoError(t, cm.DeclareAttackers("alice", []AttackDecl{
		{AttackerID: first.ID, DefenderID: "bob"},
		{AttackerID: second.ID, DefenderID: "bob"},
		{AttackerID: third.ID, DefenderID: "bob"},
	}))
	require.NoError(t, cm.DeclareBlockers("bob", nil))
	require.NoError(t, cm.AssignDamage())

	bob, _ := gs.Player("bob")
	assert.Equal(t, 14, bob.Life, "2+3+1 unblocked power")
}

func TestAttackersTapUnlessVigilant(t *testing.T) {
	gs := testState("alice", "bob")
	cm := NewCombatManager(gs)
	bear := readyCreature(t, gs, "Valley Bear", "alice")
	sentinel := readyCreature(t, gs, "Sentinel of Dawn", "alice")

	require.NoError(t, cm.DeclareAttackers("alice", []AttackDecl{
		{AttackerID: bear.ID, DefenderID: "bob"},
		{AttackerID: sentinel.ID, DefenderID: "bob"},
	}))
	assert.True(t, bear.State.Tapped)
	assert.False(t, sentinel.State.Tapped, "vigilance keeps the attacker untapped")
}

func TestSummoningSickCreatureCannotAttack(t *testing.T) {
	gs := testState("alice", "bob")
	cm := NewCombatManager(gs)
	bear := give(t, gs, "Valley Bear", "alice", rules.ZoneBattlefield)
	require.True(t, bear.State.SummoningSick)

	err := cm.DeclareAttackers("alice", []AttackDecl{{AttackerID: bear.ID, DefenderID: "bob"}})
	require.Error(t, err)

	sprinter := give(t, gs, "Ember Sprinter", "alice", rules.ZoneBattlefield)
	require.NoError(t, cm.DeclareAttackers("alice", []AttackDecl{{AttackerID: sprinter.ID, DefenderID: "bob"}}),
		"haste ignores summoning sickness")
}

func TestDefenderKeywordCannotAttack(t *testing.T) {
	gs := testState("alice", "bob")
	cm := NewCombatManager(gs)
	wall := readyCreature(t, gs, "Wall of Brambles", "alice")

	err := cm.DeclareAttackers("alice", []AttackDecl{{AttackerID: wall.ID, DefenderID: "bob"}})
	require.Error(t, err)
}

func TestFlyerBlockedOnlyByFlyingOrReach(t *testing.T) {
	gs := testState("alice", "bob")
	cm := NewCombatManager(gs)
	harrier := readyCreature(t, gs, "Gale Harrier", "alice")
	bear := readyCreature(t, gs, "Valley Bear", "bob")
	wall := readyCreature(t, gs, "Wall of Brambles", "bob")

	require.NoError(t, cm.DeclareAttackers("alice", []AttackDecl{
		{AttackerID: harrier.ID, DefenderID: "bob"},
	}))

	err := cm.DeclareBlockers("bob", []BlockDecl{{BlockerID: bear.ID, AttackerID: harrier.ID}})
	require.Error(t, err, "ground creature cannot block a flyer")

	require.NoError(t, cm.DeclareBlockers("bob", []BlockDecl{{BlockerID: wall.ID, AttackerID: harrier.ID}}),
		"reach blocks flyers")
}

func TestTrampleSpillsOverLethalDamage(t *testing.T) {
	gs := testState("alice", "bob")
	cm := NewCombatManager(gs)
	boar := readyCreature(t, gs, "Thicket Boar", "alice")
	asp := readyCreature(t, gs, "Marsh Asp", "bob")

	require.NoError(t, cm.DeclareAttackers("alice", []AttackDecl{
		{AttackerID: boar.ID, DefenderID: "bob"},
	}))
	require.NoError(t, cm.DeclareBlockers("bob", []BlockDecl{
		{BlockerID: asp.ID, AttackerID: boar.ID},
	}))
	require.NoError(t, cm.AssignDamage())

	bob, _ := gs.Player("bob")
	assert.Equal(t, 18, bob.Life, "lethal 1 to the blocker, 2 tramples through")
	assert.Equal(t, 1, asp.State.Damage)
	assert.Equal(t, 1, boar.State.Damage, "blocker strikes back")

	// The asp's deathtouch marks the boar; both die to state checks.
	require.NoError(t, gs.RunStateBasedActions())
	assert.Equal(t, rules.ZoneGraveyard, asp.Zone)
	assert.Equal(t, rules.ZoneGraveyard, boar.Zone)
}

func TestMultipleBlockersLethalFillOrder(t *testing.T) {
	gs := testState("alice", "bob")
	cm := NewCombatManager(gs)
	boar := readyCreature(t, gs, "Thicket Boar", "alice")
	firstBear := readyCreature(t, gs, "Valley Bear", "bob")
	secondBear := readyCreature(t, gs, "Valley Bear", "bob")

	require.NoError(t, cm.DeclareAttackers("alice", []AttackDecl{
		{AttackerID: boar.ID, DefenderID: "bob"},
	}))
	require.NoError(t, cm.DeclareBlockers("bob", []BlockDecl{
		{BlockerID: firstBear.ID, AttackerID: boar.ID},
		{BlockerID: secondBear.ID, AttackerID: boar.ID},
	}))
	require.NoError(t, cm.OrderBlockers("alice", boar.ID, []string{firstBear.ID, secondBear.ID}))
	require.NoError(t, cm.AssignDamage())

	assert.Equal(t, 2, firstBear.State.Damage, "first in order gets lethal")
	assert.Equal(t, 1, secondBear.State.Damage, "remainder to the second")
	assert.Equal(t, 4, boar.State.Damage, "both blockers strike back")

	require.NoError(t, gs.RunStateBasedActions())
	assert.Equal(t, rules.ZoneGraveyard, firstBear.Zone)
	assert.Equal(t, rules.ZoneBattlefield, secondBear.Zone)
	assert.Equal(t, rules.ZoneGraveyard, boar.Zone)
}

func TestOrderBlockersRejectsBadPermutation(t *testing.T) {
	gs := testState("alice", "bob")
	cm := NewCombatManager(gs)
	boar := readyCreature(t, gs, "Thicket Boar", "alice")
	bear := readyCreature(t, gs, "Valley Bear", "bob")
	asp := readyCreature(t, gs, "Marsh Asp", "bob")

	require.NoError(t, cm.DeclareAttackers("alice", []AttackDecl{
		{AttackerID: boar.ID, DefenderID: "bob"},
	}))
	require.NoError(t, cm.DeclareBlockers("bob", []BlockDecl{
		{BlockerID: bear.ID, AttackerID: boar.ID},
		{BlockerID: asp.ID, AttackerID: boar.ID},
	}))

	require.Error(t, cm.OrderBlockers("bob", boar.ID, []string{asp.ID, bear.ID}),
		"only the attacking player orders blockers")
	require.Error(t, cm.OrderBlockers("alice", boar.ID, []string{bear.ID}),
		"order must name every blocker")
	require.Error(t, cm.OrderBlockers("alice", boar.ID, []string{bear.ID, boar.ID}),
		"order must be a permutation of the blockers")
}

func TestLifelinkHealsOnCombatDamage(t *testing.T) {
	gs := testState("alice", "bob")
	cm := NewCombatManager(gs)
	mender := readyCreature(t, gs, "Chapel Mender", "alice")

	alice, _ := gs.Player("alice")
	alice.Life = 10

	require.NoError(t, cm.DeclareAttackers("alice", []AttackDecl{
		{AttackerID: mender.ID, DefenderID: "bob"},
	}))
	require.NoError(t, cm.DeclareBlockers("bob", nil))
	require.NoError(t, cm.AssignDamage())

	bob, _ := gs.Player("bob")
	assert.Equal(t, 19, bob.Life)
	assert.Equal(t, 11, alice.Life, "lifelink gains life equal to damage dealt")
}

func TestEndCombatResetsManager(t *testing.T) {
	gs := testState("alice", "bob")
	cm := NewCombatManager(gs)
	bear := readyCreature(t, gs, "Valley Bear", "alice")

	require.NoError(t, cm.DeclareAttackers("alice", []AttackDecl{
		{AttackerID: bear.ID, DefenderID: "bob"},
	}))
	require.NoError(t, cm.EndCombat())
	assert.Equal(t, CombatNone, cm.Phase())
	assert.Empty(t, cm.Groups())
}
