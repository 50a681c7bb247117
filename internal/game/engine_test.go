package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/discordwell/hyperdraft/internal/game/rules"
)

func testDeck(t *testing.T, names ...string) []*CardDefinition {
	t.Helper()
	library := CardLibrary()
	deck := make([]*CardDefinition, 0, len(names))
	for _, name := range names {
		def, ok := library[name]
		require.True(t, ok, "unknown card %s", name)
		deck = append(deck, def)
	}
	return deck
}

func forestDeck(t *testing.T, size int) []*CardDefinition {
	t.Helper()
	names := make([]string, size)
	for i := range names {
		names[i] = "Forest"
	}
	return testDeck(t, names...)
}

func startTestGame(t *testing.T, opts GameOptions) *Engine {
	t.Helper()
	eng := NewEngine(opts, zap.NewNop())
	require.NoError(t, eng.StartGame("g1", []PlayerSetup{
		{ID: "alice", Deck: forestDeck(t, 10)},
		{ID: "bob", Deck: forestDeck(t, 10)},
	}))
	return eng
}

// runToAction drives the game until a player holds priority.
func runToAction(t *testing.T, eng *Engine) RunResult {
	t.Helper()
	res, err := eng.RunTurn("g1")
	require.NoError(t, err)
	require.Equal(t, StatusAwaitingAction, res.Status)
	return res
}

func TestStartGameDealsOpeningHands(t *testing.T) {
	opts := DefaultGameOptions()
	opts.HandSize = 3
	eng := startTestGame(t, opts)

	g, err := eng.Game("g1")
	require.NoError(t, err)
	state := g.State()

	for _, pid := range []string{"alice", "bob"} {
		assert.Len(t, state.HandCards(pid), 3)
		assert.Len(t, state.ZoneFor(rules.ZoneLibrary, pid).Objects, 7)
	}
}

func TestStartGameRejectsDuplicateID(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	err := eng.StartGame("g1", []PlayerSetup{
		{ID: "carol", Deck: forestDeck(t, 10)},
		{ID: "dave", Deck: forestDeck(t, 10)},
	})
	require.Error(t, err)
}

func TestChecksumMatchesAcrossSameSeed(t *testing.T) {
	opts := DefaultGameOptions()
	opts.Seed = 42

	first := startTestGame(t, opts)
	second := startTestGame(t, opts)

	a, err := first.Checksum("g1")
	require.NoError(t, err)
	b, err := second.Checksum("g1")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunTurnStopsAtUpkeepWithPriority(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	res := runToAction(t, eng)
	assert.Equal(t, "alice", res.PlayerID)

	g, _ := eng.Game("g1")
	assert.Equal(t, rules.StepUpkeep, g.State().Turn().CurrentStep())
}

// passUntilNextStop passes priority for whoever holds it and re-runs,
// returning the next stop.
func passUntilNextStop(t *testing.T, eng *Engine, res RunResult) RunResult {
	t.Helper()
	require.NoError(t, eng.ProcessAction("g1", res.PlayerID, Action{Type: ActionPass}))
	next, err := eng.RunTurn("g1")
	require.NoError(t, err)
	return next
}

func TestFullTurnRotatesActivePlayer(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	g, _ := eng.Game("g1")
	state := g.State()

	res := runToAction(t, eng)
	for state.Turn().TurnNumber() == 1 {
		require.Equal(t, StatusAwaitingAction, res.Status)
		res = passUntilNextStop(t, eng, res)
	}

	assert.Equal(t, 2, state.Turn().TurnNumber())
	assert.Equal(t, "bob", state.Turn().ActivePlayer())
	assert.Len(t, state.HandCards("alice"), 7, "starting player skips the first draw")
}

func TestSecondTurnDrawHappens(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	g, _ := eng.Game("g1")
	state := g.State()

	res := runToAction(t, eng)
	for state.Turn().TurnNumber() < 2 || state.Turn().CurrentStep() < rules.StepMain1 {
		require.Equal(t, StatusAwaitingAction, res.Status)
		res = passUntilNextStop(t, eng, res)
	}

	assert.Len(t, state.HandCards("bob"), 8, "second player draws on their turn")
}

func TestLegalActionsOfferLandPlayInMain(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	g, _ := eng.Game("g1")
	state := g.State()

	res := runToAction(t, eng)
	for state.Turn().CurrentStep() != rules.StepMain1 {
		res = passUntilNextStop(t, eng, res)
		require.Equal(t, StatusAwaitingAction, res.Status)
	}

	actions, err := eng.LegalActions("g1", "alice")
	require.NoError(t, err)

	var hasLandPlay, hasPass bool
	for _, a := range actions {
		switch a.Type {
		case ActionPlayLand:
			hasLandPlay = true
		case ActionPass:
			hasPass = true
		}
	}
	assert.True(t, hasLandPlay)
	assert.True(t, hasPass)

	opponentActions, err := eng.LegalActions("g1", "bob")
	require.NoError(t, err)
	for _, a := range opponentActions {
		assert.NotEqual(t, ActionPlayLand, a.Type, "non-priority player cannot play lands")
	}
}

func TestPlayLandThroughEngine(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	g, _ := eng.Game("g1")
	state := g.State()

	res := runToAction(t, eng)
	for state.Turn().CurrentStep() != rules.StepMain1 {
		res = passUntilNextStop(t, eng, res)
		require.Equal(t, StatusAwaitingAction, res.Status)
	}

	cardID := state.HandCards("alice")[0]
	require.NoError(t, eng.ProcessAction("g1", "alice", Action{Type: ActionPlayLand, CardID: cardID}))

	obj, ok := state.Object(cardID)
	require.True(t, ok)
	assert.Equal(t, rules.ZoneBattlefield, obj.Zone)
	assert.Len(t, state.HandCards("alice"), 6)
}

func TestPassWithoutPriorityRejected(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	runToAction(t, eng)
	err := eng.ProcessAction("g1", "bob", Action{Type: ActionPass})
	require.Error(t, err)
}

func TestConcedeFinishesGame(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	runToAction(t, eng)

	require.NoError(t, eng.ProcessAction("g1", "bob", Action{Type: ActionConcede}))
	res, err := eng.RunTurn("g1")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, res.Status)

	g, _ := eng.Game("g1")
	bob, _ := g.State().Player("bob")
	alice, _ := g.State().Player("alice")
	assert.True(t, bob.Conceded)
	assert.True(t, bob.Lost)
	assert.True(t, alice.Won)
}

func TestViewRedactsOpponentHand(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	g, _ := eng.Game("g1")

	view := g.State().View("alice")
	require.Len(t, view.Players, 2)
	for _, pv := range view.Players {
		switch pv.ID {
		case "alice":
			assert.Len(t, pv.Hand, 7, "viewer sees their own hand")
		case "bob":
			assert.Empty(t, pv.Hand, "opponent hand is hidden")
			assert.Equal(t, 7, pv.HandSize, "only the count is public")
		}
	}
	assert.NotEmpty(t, view.Checksum)
}

func TestPendingChoiceBlocksRunTurn(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	g, _ := eng.Game("g1")
	state := g.State()

	resumed := false
	state.Suspend(&PendingChoice{
		Kind:     ChoiceYesNo,
		PlayerID: "alice",
		Prompt:   "keep going?",
		Options:  []ChoiceOption{{ID: "yes", Label: "yes"}, {ID: "no", Label: "no"}},
		Min:      1,
		Max:      1,
		Resume: func(selection []string) error {
			resumed = true
			return nil
		},
	})

	res, err := eng.RunTurn("g1")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingChoice, res.Status)
	assert.Equal(t, "alice", res.PlayerID)

	choice, err := eng.GetPendingChoice("g1", "alice")
	require.NoError(t, err)
	require.NotNil(t, choice)

	require.NoError(t, eng.SubmitChoice("g1", "alice", choice.ID, []string{"yes"}))
	assert.True(t, resumed)

	res, err = eng.RunTurn("g1")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingAction, res.Status)
}

func TestSecondPendingChoicePanics(t *testing.T) {
	gs := testState("alice", "bob")
	gs.Suspend(&PendingChoice{PlayerID: "alice", Prompt: "first", Resume: func([]string) error { return nil }})
	assert.Panics(t, func() {
		gs.Suspend(&PendingChoice{PlayerID: "alice", Prompt: "second", Resume: func([]string) error { return nil }})
	})
}

func TestChoiceTimeoutAppliesDefault(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	g, _ := eng.Game("g1")

	var got []string
	g.State().Suspend(&PendingChoice{
		Kind:     ChoiceDiscard,
		PlayerID: "alice",
		Prompt:   "discard a card",
		Options:  []ChoiceOption{{ID: "c1", Label: "first"}, {ID: "c2", Label: "second"}},
		Min:      1,
		Max:      1,
		Deadline: time.Now().Add(-time.Second),
		Resume: func(selection []string) error {
			got = selection
			return nil
		},
	})

	expired, err := eng.ExpireChoices("g1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, []string{"c1"}, got, "default is the minimum selection, earliest options first")

	choice, err := eng.GetPendingChoice("g1", "alice")
	require.NoError(t, err)
	assert.Nil(t, choice)

	res, err := eng.RunTurn("g1")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingAction, res.Status, "timed-out choice no longer blocks the game")
}

func TestExpireChoicesLeavesFutureDeadlines(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	g, _ := eng.Game("g1")

	g.State().Suspend(&PendingChoice{
		Kind:     ChoiceYesNo,
		PlayerID: "alice",
		Prompt:   "keep going?",
		Options:  []ChoiceOption{{ID: "yes", Label: "yes"}},
		Min:      1,
		Max:      1,
		Deadline: time.Now().Add(time.Hour),
		Resume:   func([]string) error { return nil },
	})

	expired, err := eng.ExpireChoices("g1", time.Now())
	require.NoError(t, err)
	assert.Zero(t, expired)

	choice, err := eng.GetPendingChoice("g1", "alice")
	require.NoError(t, err)
	require.NotNil(t, choice, "a choice inside its deadline stays pending")
}

func TestConcurrentClientsAreSerialized(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	g, _ := eng.Game("g1")

	var wg sync.WaitGroup
	for _, pid := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(pid string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				// Out-of-turn actions fail legality checks; the point is
				// that interleaved calls never corrupt the session.
				eng.ProcessAction("g1", pid, Action{Type: ActionPass})
				eng.RunTurn("g1")
				eng.LegalActions("g1", pid)
				g.View(pid)
			}
		}(pid)
	}
	wg.Wait()

	res, err := eng.RunTurn("g1")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingAction, res.Status)
}

func TestLifeLossEndsGameThroughEngine(t *testing.T) {
	eng := startTestGame(t, DefaultGameOptions())
	g, _ := eng.Game("g1")
	state := g.State()

	bob, _ := state.Player("bob")
	bob.Life = 0

	res, err := eng.RunTurn("g1")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, res.Status)
	assert.True(t, bob.Lost)
}
