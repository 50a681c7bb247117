package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/discordwell/hyperdraft/internal/game/mana"
	"github.com/discordwell/hyperdraft/internal/game/rules"
)

func testState(players ...string) *GameState {
	return NewGameState("test", players, DefaultGameOptions(), zap.NewNop())
}

// give instantiates a library card for a player and moves it to the
// requested zone through the pipeline.
func give(t *testing.T, gs *GameState, cardName, owner string, zone rules.ZoneKind) *GameObject {
	t.Helper()
	def, ok := CardLibrary()[cardName]
	require.True(t, ok, "unknown card %s", cardName)
	obj := NewGameObject(def, owner)
	gs.AddObject(obj, rules.ZoneHand)
	if zone != rules.ZoneHand {
		require.NoError(t, gs.Emit(rules.NewEvent(rules.EventZoneChange, obj.ID, owner).
			With(rules.KeyObjectID, obj.ID).
			With(rules.KeyFromZone, rules.ZoneHand).
			With(rules.KeyToZone, zone)))
	}
	return obj
}

func addMana(t *testing.T, gs *GameState, playerID string, color mana.Color, amount int) {
	t.Helper()
	p, ok := gs.Player(playerID)
	require.True(t, ok)
	p.Pool.Add(color, amount)
}

func TestCastCreatureResolvesToBattlefield(t *testing.T) {
	gs := testState("alice", "bob")
	bear := give(t, gs, "Valley Bear", "alice", rules.ZoneHand)
	addMana(t, gs, "alice", mana.ColorGreen, 2)

	require.NoError(t, gs.CastSpell("alice", bear.ID, nil, 0))
	assert.Equal(t, rules.ZoneStack, bear.Zone)
	assert.False(t, gs.Stack().IsEmpty())

	require.NoError(t, gs.ResolveTop())
	assert.Equal(t, rules.ZoneBattlefield, bear.Zone)
	assert.True(t, bear.State.SummoningSick)
	assert.True(t, gs.Stack().IsEmpty())

	p, _ := gs.Player("alice")
	assert.Equal(t, 0, p.Pool.Total(), "pool spent on the cast")
}

func TestCastWithoutManaFails(t *testing.T) {
	gs := testState("alice", "bob")
	bear := give(t, gs, "Valley Bear", "alice", rules.ZoneHand)

	err := gs.CastSpell("alice", bear.ID, nil, 0)
	require.Error(t, err)
	assert.Equal(t, rules.ZoneHand, bear.Zone, "failed cast leaves the card in hand")
}

func TestPreventedCastKeepsCardInHand(t *testing.T) {
	gs := testState("alice", "bob")
	bear := give(t, gs, "Valley Bear", "alice", rules.ZoneHand)
	addMana(t, gs, "alice", mana.ColorGreen, 2)

	gs.Registry().Register(rules.Interceptor{
		Kind:  rules.EventCastSpell,
		Band:  rules.BandReplacement,
		Apply: func(*rules.Event) rules.Outcome { return rules.Outcome{Prevented: true} },
	})

	err := gs.CastSpell("alice", bear.ID, nil, 0)
	require.Error(t, err)
	assert.Equal(t, rules.ZoneHand, bear.Zone)
	assert.True(t, gs.Stack().IsEmpty())

	p, _ := gs.Player("alice")
	assert.Equal(t, 2, p.Pool.Total(), "no mana is spent on a prevented cast")
}

func TestJoltKillsCreature(t *testing.T) {
	gs := testState("alice", "bob")
	bear := give(t, gs, "Valley Bear", "bob", rules.ZoneBattlefield)
	jolt := give(t, gs, "Jolt", "alice", rules.ZoneHand)
	addMana(t, gs, "alice", mana.ColorRed, 1)

	require.NoError(t, gs.CastSpell("alice", jolt.ID, [][]string{{bear.ID}}, 0))
	require.NoError(t, gs.ResolveTop())
	require.NoError(t, gs.RunStateBasedActions())

	assert.Equal(t, rules.ZoneGraveyard, bear.Zone)
	assert.Equal(t, rules.ZoneGraveyard, jolt.Zone)
}

func TestJoltAtPlayer(t *testing.T) {
	gs := testState("alice", "bob")
	jolt := give(t, gs, "Jolt", "alice", rules.ZoneHand)
	addMana(t, gs, "alice", mana.ColorRed, 1)

	require.NoError(t, gs.CastSpell("alice", jolt.ID, [][]string{{"bob"}}, 0))
	require.NoError(t, gs.ResolveTop())

	bob, _ := gs.Player("bob")
	assert.Equal(t, 17, bob.Life)
}

func TestSpellFizzlesWhenEveryTargetIsGone(t *testing.T) {
	gs := testState("alice", "bob")
	bear := give(t, gs, "Valley Bear", "bob", rules.ZoneBattlefield)
	jolt := give(t, gs, "Jolt", "alice", rules.ZoneHand)
	addMana(t, gs, "alice", mana.ColorRed, 1)

	require.NoError(t, gs.CastSpell("alice", jolt.ID, [][]string{{bear.ID}}, 0))

	// The target leaves the battlefield before resolution.
	require.NoError(t, gs.Emit(rules.NewEvent(rules.EventDestroyObject, "", "bob").
		With(rules.KeyObjectID, bear.ID)))

	bob, _ := gs.Player("bob")
	before := bob.Life
	require.NoError(t, gs.ResolveTop())

	assert.Equal(t, rules.ZoneGraveyard, jolt.Zone, "fizzled spell goes to the graveyard")
	assert.Equal(t, before, bob.Life, "fizzled spell has no effect")

	alice, _ := gs.Player("alice")
	assert.Equal(t, 0, alice.Pool.Total(), "no mana is refunded")
}

func TestCounterspellRemovesSpellFromStack(t *testing.T) {
	gs := testState("alice", "bob")
	bear := give(t, gs, "Valley Bear", "alice", rules.ZoneHand)
	unravel := give(t, gs, "Unravel", "bob", rules.ZoneHand)
	addMana(t, gs, "alice", mana.ColorGreen, 2)
	addMana(t, gs, "bob", mana.ColorBlue, 2)

	require.NoError(t, gs.CastSpell("alice", bear.ID, nil, 0))
	require.NoError(t, gs.CastSpell("bob", unravel.ID, [][]string{{bear.StackItemID}}, 0))
	require.Equal(t, 2, gs.Stack().Size())

	require.NoError(t, gs.ResolveTop())
	assert.Equal(t, rules.ZoneGraveyard, bear.Zone, "countered spell never resolves")
	assert.True(t, gs.Stack().IsEmpty())
}

func TestXSpellDealsXDamage(t *testing.T) {
	gs := testState("alice", "bob")
	flame := give(t, gs, "Surging Flame", "alice", rules.ZoneHand)
	addMana(t, gs, "alice", mana.ColorRed, 5)

	require.NoError(t, gs.CastSpell("alice", flame.ID, [][]string{{"bob"}}, 4))
	require.NoError(t, gs.ResolveTop())

	bob, _ := gs.Player("bob")
	assert.Equal(t, 16, bob.Life)

	alice, _ := gs.Player("alice")
	assert.Equal(t, 0, alice.Pool.Total(), "{X}{R} with X=4 costs 5 mana")
}

func TestDiscardCostSuspendsAndResumes(t *testing.T) {
	gs := testState("alice", "bob")
	bear := give(t, gs, "Valley Bear", "bob", rules.ZoneBattlefield)
	lunge := give(t, gs, "Reckless Lunge", "alice", rules.ZoneHand)
	extra1 := give(t, gs, "Forest", "alice", rules.ZoneHand)
	extra2 := give(t, gs, "Forest", "alice", rules.ZoneHand)
	addMana(t, gs, "alice", mana.ColorRed, 1)

	require.NoError(t, gs.CastSpell("alice", lunge.ID, [][]string{{bear.ID}}, 0))

	choice, ok := gs.PendingChoiceFor("alice")
	require.True(t, ok, "discard cost needs a choice")
	assert.Equal(t, ChoiceCostPayment, choice.Kind)
	assert.True(t, gs.Stack().IsEmpty(), "spell is not on the stack while payment is suspended")

	require.NoError(t, gs.SubmitChoice("alice", choice.ID, []string{extra1.ID}))
	assert.Equal(t, rules.ZoneGraveyard, extra1.Zone)
	assert.Equal(t, rules.ZoneHand, extra2.Zone)
	assert.Equal(t, rules.ZoneStack, lunge.Zone)

	require.NoError(t, gs.ResolveTop())
	require.NoError(t, gs.RunStateBasedActions())
	assert.Equal(t, rules.ZoneGraveyard, bear.Zone)
}

func TestPhyrexianCostPayableWithLife(t *testing.T) {
	gs := testState("alice", "bob")
	tithe := give(t, gs, "Tithe of Blood", "alice", rules.ZoneHand)
	// One generic only; the {B/P} symbol is paid with life.
	addMana(t, gs, "alice", mana.ColorRed, 1)

	require.NoError(t, gs.CastSpell("alice", tithe.ID, [][]string{{"bob"}}, 0))
	alice, _ := gs.Player("alice")
	assert.Equal(t, 18, alice.Life, "phyrexian symbol paid with 2 life")

	require.NoError(t, gs.ResolveTop())
	bob, _ := gs.Player("bob")
	assert.Equal(t, 18, bob.Life)
}

func TestPumpSpellExpiresAtCleanup(t *testing.T) {
	gs := testState("alice", "bob")
	bear := give(t, gs, "Valley Bear", "alice", rules.ZoneBattlefield)
	growth := give(t, gs, "Rapid Growth", "alice", rules.ZoneHand)
	addMana(t, gs, "alice", mana.ColorGreen, 1)

	require.NoError(t, gs.CastSpell("alice", growth.ID, [][]string{{bear.ID}}, 0))
	require.NoError(t, gs.ResolveTop())

	snap := gs.Query(bear.ID)
	assert.Equal(t, 5, snap.Power)
	assert.Equal(t, 5, snap.Toughness)

	require.NoError(t, gs.Emit(rules.NewEvent(rules.EventCleanupStep, "", "alice").
		With(rules.KeyPlayerID, "alice")))

	snap = gs.Query(bear.ID)
	assert.Equal(t, 2, snap.Power)
	assert.Equal(t, 2, snap.Toughness)
}

func TestAnthemBoostsOwnCreaturesOnly(t *testing.T) {
	gs := testState("alice", "bob")
	mine := give(t, gs, "Valley Bear", "alice", rules.ZoneBattlefield)
	theirs := give(t, gs, "Valley Bear", "bob", rules.ZoneBattlefield)
	anthem := give(t, gs, "Standard of the Vanguard", "alice", rules.ZoneBattlefield)

	assert.Equal(t, 3, gs.Query(mine.ID).Power)
	assert.Equal(t, 2, gs.Query(theirs.ID).Power)

	// The boost ends when the anthem leaves the battlefield.
	require.NoError(t, gs.Emit(rules.NewEvent(rules.EventDestroyObject, "", "alice").
		With(rules.KeyObjectID, anthem.ID)))
	assert.Equal(t, 2, gs.Query(mine.ID).Power)
}

func TestTokensVanishOffBattlefield(t *testing.T) {
	gs := testState("alice", "bob")
	muster := give(t, gs, "Muster the Ranks", "alice", rules.ZoneHand)
	addMana(t, gs, "alice", mana.ColorWhite, 3)

	require.NoError(t, gs.CastSpell("alice", muster.ID, nil, 0))
	require.NoError(t, gs.ResolveTop())

	battlefield := gs.ZoneFor(rules.ZoneBattlefield, "")
	require.Len(t, battlefield.Objects, 2)

	token := battlefield.Objects[0]
	require.NoError(t, gs.Emit(rules.NewEvent(rules.EventDestroyObject, "", "alice").
		With(rules.KeyObjectID, token)))
	require.NoError(t, gs.RunStateBasedActions())

	_, exists := gs.Object(token)
	assert.False(t, exists, "destroyed token ceases to exist")
}

func TestPlayLandOncePerTurn(t *testing.T) {
	gs := testState("alice", "bob")
	first := give(t, gs, "Forest", "alice", rules.ZoneHand)
	second := give(t, gs, "Forest", "alice", rules.ZoneHand)

	require.NoError(t, gs.PlayLand("alice", first.ID))
	assert.Equal(t, rules.ZoneBattlefield, first.Zone)

	err := gs.PlayLand("alice", second.ID)
	require.Error(t, err)
	assert.Equal(t, rules.ZoneHand, second.Zone)
}

func TestTapForManaRespectsColors(t *testing.T) {
	gs := testState("alice", "bob")
	forest := give(t, gs, "Forest", "alice", rules.ZoneBattlefield)

	require.Error(t, gs.TapForMana("alice", forest.ID, mana.ColorRed))
	require.NoError(t, gs.TapForMana("alice", forest.ID, mana.ColorGreen))

	p, _ := gs.Player("alice")
	assert.Equal(t, 1, p.Pool.Amount(mana.ColorGreen))
	assert.True(t, forest.State.Tapped)

	require.Error(t, gs.TapForMana("alice", forest.ID, mana.ColorGreen), "tapped permanents cannot tap again")
}

func TestSnowLandProducesSnowMana(t *testing.T) {
	gs := testState("alice", "bob")
	forest := give(t, gs, "Snow-Covered Forest", "alice", rules.ZoneBattlefield)

	require.NoError(t, gs.TapForMana("alice", forest.ID, mana.ColorGreen))
	p, _ := gs.Player("alice")
	assert.Equal(t, 1, p.Pool.SnowAmount())
}
