package game

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/discordwell/hyperdraft/internal/game/mana"
	"github.com/discordwell/hyperdraft/internal/game/rules"
)

// ActionType names the player actions the engine accepts.
type ActionType string

const (
	ActionPass             ActionType = "PASS"
	ActionPlayLand         ActionType = "PLAY_LAND"
	ActionCastSpell        ActionType = "CAST_SPELL"
	ActionTapForMana       ActionType = "TAP_FOR_MANA"
	ActionDeclareAttackers ActionType = "DECLARE_ATTACKERS"
	ActionDeclareBlockers  ActionType = "DECLARE_BLOCKERS"
	ActionOrderBlockers    ActionType = "ORDER_BLOCKERS"
	ActionConcede          ActionType = "CONCEDE"
)

// Action is one player request against a game.
type Action struct {
	Type     ActionType   `json:"type"`
	CardID   string       `json:"cardId,omitempty"`
	ObjectID string       `json:"objectId,omitempty"`
	Targets  [][]string   `json:"targets,omitempty"`
	X        int          `json:"x,omitempty"`
	Color    string       `json:"color,omitempty"`
	Attacks  []AttackDecl `json:"attacks,omitempty"`
	Blocks   []BlockDecl  `json:"blocks,omitempty"`
	Order    []string     `json:"order,omitempty"`
}

// LegalAction describes one currently legal action for a player.
type LegalAction struct {
	Type        ActionType `json:"type"`
	CardID      string     `json:"cardId,omitempty"`
	ObjectID    string     `json:"objectId,omitempty"`
	Description string     `json:"description"`
}

// RunStatus tells the caller why RunTurn stopped.
type RunStatus string

const (
	// StatusAwaitingAction means a player holds priority and must act.
	StatusAwaitingAction RunStatus = "AWAITING_ACTION"
	// StatusAwaitingChoice means a pending choice blocks progress.
	StatusAwaitingChoice RunStatus = "AWAITING_CHOICE"
	// StatusFinished means the game is over.
	StatusFinished RunStatus = "FINISHED"
)

// RunResult is RunTurn's report: what the engine is waiting for.
type RunResult struct {
	Status   RunStatus `json:"status"`
	PlayerID string    `json:"playerId,omitempty"`
	ChoiceID string    `json:"choiceId,omitempty"`
}

// Game is one running session: state, combat, and priority
// bookkeeping. A session is single-threaded; every engine entry point
// serializes on mu, so concurrent clients cannot interleave inside
// the state.
type Game struct {
	mu       sync.Mutex
	state    *GameState
	combat   *CombatManager
	passes   int
	prepared bool
	started  bool
}

// State exposes the session's game state. Callers outside the engine's
// own entry points must not touch it while other goroutines drive the
// same session.
func (g *Game) State() *GameState { return g.state }

// Combat exposes the session's combat manager.
func (g *Game) Combat() *CombatManager { return g.combat }

// View builds the redacted view for one player under the session lock.
func (g *Game) View(playerID string) GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.View(playerID)
}

// PlayerSetup names a player and their decklist for StartGame.
type PlayerSetup struct {
	ID   string
	Deck []*CardDefinition
}

// Engine is the facade the server and AI layers drive. Each game is an
// isolated session; the engine only routes calls to it.
type Engine struct {
	mu     sync.RWMutex
	logger *zap.Logger
	opts   GameOptions
	games  map[string]*Game
}

// NewEngine creates an engine.
func NewEngine(opts GameOptions, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger: logger,
		opts:   opts,
		games:  make(map[string]*Game),
	}
}

// StartGame creates a session, seeds and shuffles libraries, and draws
// opening hands.
func (e *Engine) StartGame(gameID string, setups []PlayerSetup) error {
	if len(setups) < 2 {
		return fmt.Errorf("a game needs at least two players")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.games[gameID]; exists {
		return fmt.Errorf("game %s already exists", gameID)
	}

	playerIDs := make([]string, len(setups))
	for i, setup := range setups {
		playerIDs[i] = setup.ID
	}
	state := NewGameState(gameID, playerIDs, e.opts, e.logger)
	g := &Game{state: state, combat: NewCombatManager(state)}
	e.games[gameID] = g

	for _, setup := range setups {
		for _, def := range setup.Deck {
			obj := NewGameObject(def, setup.ID)
			state.AddObject(obj, rules.ZoneLibrary)
		}
		if err := state.Emit(rules.NewEvent(rules.EventShuffleLibrary, "", setup.ID).
			With(rules.KeyPlayerID, setup.ID)); err != nil {
			return err
		}
	}

	handSize := e.opts.HandSize
	if handSize <= 0 {
		handSize = 7
	}
	for _, setup := range setups {
		for i := 0; i < handSize; i++ {
			if err := state.Emit(rules.NewEvent(rules.EventDrawCard, "", setup.ID).
				With(rules.KeyPlayerID, setup.ID)); err != nil {
				return err
			}
		}
	}

	state.Log("game %s begins; %s is on the play", gameID, playerIDs[0])
	e.logger.Info("game started",
		zap.String("gameId", gameID),
		zap.Int("players", len(setups)))
	return nil
}

func (e *Engine) game(gameID string) (*Game, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	g, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("unknown game %s", gameID)
	}
	return g, nil
}

// Game returns a session by id.
func (e *Engine) Game(gameID string) (*Game, error) {
	return e.game(gameID)
}

// RunTurn advances the game until it needs external input: a priority
// action, a choice answer, or nothing because the game ended.
func (e *Engine) RunTurn(gameID string) (RunResult, error) {
	g, err := e.game(gameID)
	if err != nil {
		return RunResult{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	state := g.state

	for {
		if err := state.RunStateBasedActions(); err != nil {
			return RunResult{}, err
		}
		if e.finished(state) {
			return RunResult{Status: StatusFinished}, nil
		}
		if choice, ok := state.AnyPendingChoice(); ok {
			return RunResult{
				Status:   StatusAwaitingChoice,
				PlayerID: choice.PlayerID,
				ChoiceID: choice.ID,
			}, nil
		}

		if !g.prepared {
			if err := e.prepareStep(g); err != nil {
				return RunResult{}, err
			}
			g.prepared = true
			continue
		}

		step := state.turn.CurrentStep()
		if step == rules.StepUntap || step == rules.StepCleanup {
			if err := e.advanceStep(g); err != nil {
				return RunResult{}, err
			}
			continue
		}

		return RunResult{
			Status:   StatusAwaitingAction,
			PlayerID: state.turn.PriorityPlayer(),
		}, nil
	}
}

// finished reports whether at most one player is still in the game.
func (e *Engine) finished(state *GameState) bool {
	alive := 0
	for _, pid := range state.order {
		if p, _ := state.Player(pid); p != nil && !p.Lost {
			alive++
		}
	}
	return alive <= 1
}

// prepareStep performs the turn-based actions of the current step.
func (e *Engine) prepareStep(g *Game) error {
	state := g.state
	active := state.turn.ActivePlayer()

	switch state.turn.CurrentStep() {
	case rules.StepUntap:
		if err := state.Emit(rules.NewEvent(rules.EventBeginTurn, "", active).
			With(rules.KeyPlayerID, active)); err != nil {
			return err
		}
		return state.Emit(rules.NewEvent(rules.EventUntapStep, "", active).
			With(rules.KeyPlayerID, active))

	case rules.StepUpkeep:
		return state.Emit(rules.NewEvent(rules.EventUpkeepStep, "", active).
			With(rules.KeyPlayerID, active))

	case rules.StepDraw:
		if err := state.Emit(rules.NewEvent(rules.EventDrawStep, "", active).
			With(rules.KeyPlayerID, active)); err != nil {
			return err
		}
		// The starting player skips the first draw.
		if state.turn.TurnNumber() == 1 && active == state.order[0] {
			return nil
		}
		return state.Emit(rules.NewEvent(rules.EventDrawCard, "", active).
			With(rules.KeyPlayerID, active))

	case rules.StepCombatDamage:
		if g.combat.Phase() == CombatAttackersDeclared || g.combat.Phase() == CombatBlockersDeclared {
			return g.combat.AssignDamage()
		}
		return nil

	case rules.StepEndCombat:
		return g.combat.EndCombat()

	case rules.StepEnd:
		return state.Emit(rules.NewEvent(rules.EventEndStep, "", active).
			With(rules.KeyPlayerID, active))

	case rules.StepCleanup:
		return state.Emit(rules.NewEvent(rules.EventCleanupStep, "", active).
			With(rules.KeyPlayerID, active))
	}
	return nil
}

// advanceStep moves to the next step, emptying pools and resetting the
// priority bookkeeping.
func (e *Engine) advanceStep(g *Game) error {
	state := g.state
	state.EmptyAllPools()

	next := e.nextAlivePlayer(state, state.turn.ActivePlayer())
	phase, step := state.turn.AdvanceStep(next)
	g.prepared = false
	g.passes = 0

	ev := rules.NewEvent(rules.EventStepChanged, "", state.turn.ActivePlayer()).
		With(rules.KeyPlayerID, state.turn.ActivePlayer()).
		With("phase", phase.String()).
		With("step", step.String())
	return state.Emit(ev)
}

func (e *Engine) nextAlivePlayer(state *GameState, after string) string {
	order := state.order
	start := 0
	for i, pid := range order {
		if pid == after {
			start = i
			break
		}
	}
	for offset := 1; offset <= len(order); offset++ {
		pid := order[(start+offset)%len(order)]
		if p, _ := state.Player(pid); p != nil && !p.Lost {
			return pid
		}
	}
	return after
}

// ProcessAction executes one player action. A non-pass action resets
// priority to the active player; consecutive passes by every player
// resolve the stack or advance the step.
func (e *Engine) ProcessAction(gameID, playerID string, action Action) error {
	g, err := e.game(gameID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	state := g.state

	if action.Type == ActionConcede {
		return state.Emit(rules.NewEvent(rules.EventPlayerConcede, "", playerID).
			With(rules.KeyPlayerID, playerID))
	}

	if state.turn.PriorityPlayer() != playerID {
		return fmt.Errorf("%s does not have priority", playerID)
	}

	switch action.Type {
	case ActionPass:
		return e.processPass(g, playerID)

	case ActionPlayLand:
		if err := e.requireMainPhase(g, playerID); err != nil {
			return err
		}
		if err := state.PlayLand(playerID, action.CardID); err != nil {
			return err
		}

	case ActionCastSpell:
		if err := e.checkCastTiming(g, playerID, action.CardID); err != nil {
			return err
		}
		if err := state.CastSpell(playerID, action.CardID, action.Targets, action.X); err != nil {
			return err
		}

	case ActionTapForMana:
		if err := state.TapForMana(playerID, action.ObjectID, mana.Color(action.Color)); err != nil {
			return err
		}

	case ActionDeclareAttackers:
		if state.turn.CurrentStep() != rules.StepDeclareAttackers {
			return fmt.Errorf("attackers are declared in the declare attackers step")
		}
		if state.turn.ActivePlayer() != playerID {
			return fmt.Errorf("only the active player attacks")
		}
		if err := g.combat.DeclareAttackers(playerID, action.Attacks); err != nil {
			return err
		}

	case ActionDeclareBlockers:
		if state.turn.CurrentStep() != rules.StepDeclareBlockers {
			return fmt.Errorf("blockers are declared in the declare blockers step")
		}
		if err := g.combat.DeclareBlockers(playerID, action.Blocks); err != nil {
			return err
		}

	case ActionOrderBlockers:
		if err := g.combat.OrderBlockers(playerID, action.ObjectID, action.Order); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}

	// Non-pass action taken: priority returns to the active player.
	g.passes = 0
	state.turn.SetPriority(state.turn.ActivePlayer())
	return state.RunStateBasedActions()
}

func (e *Engine) processPass(g *Game, playerID string) error {
	state := g.state
	g.passes++

	alive := 0
	for _, pid := range state.order {
		if p, _ := state.Player(pid); p != nil && !p.Lost {
			alive++
		}
	}

	if g.passes < alive {
		state.turn.SetPriority(e.nextAlivePlayer(state, playerID))
		return nil
	}

	// Everyone passed in succession.
	g.passes = 0
	state.turn.SetPriority(state.turn.ActivePlayer())
	if !state.stack.IsEmpty() {
		if err := state.ResolveTop(); err != nil {
			return err
		}
		return state.RunStateBasedActions()
	}
	return e.advanceStep(g)
}

func (e *Engine) requireMainPhase(g *Game, playerID string) error {
	state := g.state
	if state.turn.ActivePlayer() != playerID {
		return fmt.Errorf("only the active player may do that")
	}
	if !state.turn.CurrentStep().IsMain() {
		return fmt.Errorf("only during a main phase")
	}
	if !state.stack.IsEmpty() {
		return fmt.Errorf("only while the stack is empty")
	}
	return nil
}

// checkCastTiming enforces sorcery-speed restrictions for anything that
// is not an instant.
func (e *Engine) checkCastTiming(g *Game, playerID, cardID string) error {
	obj, ok := g.state.Object(cardID)
	if !ok {
		return fmt.Errorf("unknown card %s", cardID)
	}
	if obj.Characteristics.IsType("instant") {
		return nil
	}
	return e.requireMainPhase(g, playerID)
}

// LegalActions enumerates the actions currently legal for a player.
func (e *Engine) LegalActions(gameID, playerID string) ([]LegalAction, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	state := g.state
	player, ok := state.Player(playerID)
	if !ok {
		return nil, fmt.Errorf("unknown player %s", playerID)
	}

	var actions []LegalAction
	if !player.Lost {
		actions = append(actions, LegalAction{Type: ActionConcede, Description: "concede the game"})
	}
	if state.turn.PriorityPlayer() != playerID || player.Lost {
		return actions, nil
	}

	actions = append(actions, LegalAction{Type: ActionPass, Description: "pass priority"})

	for _, id := range state.ControlledPermanents(playerID) {
		obj, _ := state.Object(id)
		if obj.Definition != nil && len(obj.Definition.ManaColors) > 0 && !obj.State.Tapped {
			actions = append(actions, LegalAction{
				Type:        ActionTapForMana,
				ObjectID:    id,
				Description: fmt.Sprintf("tap %s for mana", obj.Characteristics.Name),
			})
		}
	}

	sorcerySpeed := e.requireMainPhase(g, playerID) == nil
	for _, cardID := range state.HandCards(playerID) {
		obj, _ := state.Object(cardID)
		if obj.Characteristics.IsType("land") {
			if sorcerySpeed && player.LandsPlayedThisTurn < 1 {
				actions = append(actions, LegalAction{
					Type:        ActionPlayLand,
					CardID:      cardID,
					Description: fmt.Sprintf("play %s", obj.Characteristics.Name),
				})
			}
			continue
		}
		if !obj.Characteristics.IsType("instant") && !sorcerySpeed {
			continue
		}
		cost, err := obj.ManaCost()
		if err != nil || !player.Pool.CanPay(cost, 0) {
			continue
		}
		plan := state.additionalCostPlan(obj)
		if !plan.CanPay(state, playerID) {
			continue
		}
		actions = append(actions, LegalAction{
			Type:        ActionCastSpell,
			CardID:      cardID,
			Description: fmt.Sprintf("cast %s", obj.Characteristics.Name),
		})
	}

	if state.turn.CurrentStep() == rules.StepDeclareAttackers &&
		state.turn.ActivePlayer() == playerID && g.combat.Phase() == CombatNone {
		actions = append(actions, LegalAction{Type: ActionDeclareAttackers, Description: "declare attackers"})
	}
	if state.turn.CurrentStep() == rules.StepDeclareBlockers &&
		state.turn.ActivePlayer() != playerID && g.combat.Phase() == CombatAttackersDeclared {
		actions = append(actions, LegalAction{Type: ActionDeclareBlockers, Description: "declare blockers"})
	}
	return actions, nil
}

// GetPendingChoice returns a player's outstanding choice, if any.
func (e *Engine) GetPendingChoice(gameID, playerID string) (*PendingChoice, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	choice, ok := g.state.PendingChoiceFor(playerID)
	if !ok {
		return nil, nil
	}
	return choice, nil
}

// SubmitChoice answers a player's outstanding choice.
func (e *Engine) SubmitChoice(gameID, playerID, choiceID string, selection []string) error {
	g, err := e.game(gameID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.state.SubmitChoice(playerID, choiceID, selection); err != nil {
		return err
	}
	return g.state.RunStateBasedActions()
}

// ExpireChoices applies the timeout default to every overdue choice
// and reports how many it resolved.
func (e *Engine) ExpireChoices(gameID string, now time.Time) (int, error) {
	g, err := e.game(gameID)
	if err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.ExpireChoices(now)
}

// GameIDs lists every running game.
func (e *Engine) GameIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.games))
	for id := range e.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Checksum returns the deterministic state digest for a game.
func (e *Engine) Checksum(gameID string) (string, error) {
	g, err := e.game(gameID)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Checksum(), nil
}
