package game

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/discordwell/hyperdraft/internal/game/effects"
	"github.com/discordwell/hyperdraft/internal/game/mana"
	"github.com/discordwell/hyperdraft/internal/game/rules"
	"github.com/discordwell/hyperdraft/internal/game/targeting"
)

// sharedZones have a single zone instance for the whole game; the rest
// are per player.
var sharedZones = map[rules.ZoneKind]bool{
	rules.ZoneBattlefield: true,
	rules.ZoneStack:       true,
	rules.ZoneExile:       true,
}

// GameState is the arena for one game session: every object, zone,
// player, and interceptor lives here, addressed by id. Single-threaded
// by contract; sessions never share a GameState.
type GameState struct {
	ID     string
	logger *zap.Logger

	players map[string]*Player
	order   []string

	objects map[string]*GameObject
	zones   map[string]*Zone

	registry *rules.InterceptorRegistry
	pipeline *rules.Pipeline
	layers   *effects.System
	stack    *rules.StackManager
	turn     *rules.TurnManager
	targeter *targeting.Engine

	choices       map[string]*PendingChoice
	choiceTimeout time.Duration
	messages      []string
	rng           *rand.Rand

	// eotEffects are continuous effects that expire at cleanup.
	eotEffects []string
}

// GameOptions tune one game session.
type GameOptions struct {
	StartingLife  int
	HandSize      int
	MaxDrain      int
	Seed          int64
	ChoiceTimeout time.Duration
}

// DefaultGameOptions returns the standard two-player setup.
func DefaultGameOptions() GameOptions {
	return GameOptions{
		StartingLife:  20,
		HandSize:      7,
		MaxDrain:      1000,
		Seed:          1,
		ChoiceTimeout: 60 * time.Second,
	}
}

// NewGameState builds an empty arena for the given players, in turn
// order. The rng seed makes shuffles reproducible.
func NewGameState(id string, playerIDs []string, opts GameOptions, logger *zap.Logger) *GameState {
	if logger == nil {
		logger = zap.NewNop()
	}
	gs := &GameState{
		ID:            id,
		logger:        logger,
		players:       make(map[string]*Player),
		order:         append([]string(nil), playerIDs...),
		objects:       make(map[string]*GameObject),
		zones:         make(map[string]*Zone),
		registry:      rules.NewInterceptorRegistry(),
		layers:        effects.NewSystem(),
		stack:         rules.NewStackManager(),
		choices:       make(map[string]*PendingChoice),
		rng:           rand.New(rand.NewSource(opts.Seed)),
		choiceTimeout: opts.ChoiceTimeout,
	}
	for _, pid := range playerIDs {
		gs.players[pid] = NewPlayer(pid, pid, opts.StartingLife)
	}
	if len(playerIDs) > 0 {
		gs.turn = rules.NewTurnManager(playerIDs[0])
	}
	gs.pipeline = rules.NewPipeline(gs.registry, gs.defaultEffect, opts.MaxDrain, logger)
	gs.targeter = targeting.NewEngine(gs)
	return gs
}

func zoneKey(kind rules.ZoneKind, ownerID string) string {
	if sharedZones[kind] {
		return string(kind)
	}
	return string(kind) + ":" + ownerID
}

// ZoneFor returns (creating if needed) the zone for a kind and owner.
// Shared kinds ignore the owner.
func (gs *GameState) ZoneFor(kind rules.ZoneKind, ownerID string) *Zone {
	key := zoneKey(kind, ownerID)
	zone, ok := gs.zones[key]
	if !ok {
		if sharedZones[kind] {
			ownerID = ""
		}
		zone = &Zone{Kind: kind, OwnerID: ownerID}
		gs.zones[key] = zone
	}
	return zone
}

// Object looks up an object by id.
func (gs *GameState) Object(id string) (*GameObject, bool) {
	obj, ok := gs.objects[id]
	return obj, ok
}

// Player looks up a player by id.
func (gs *GameState) Player(id string) (*Player, bool) {
	p, ok := gs.players[id]
	return p, ok
}

// PlayerOrder returns the turn order.
func (gs *GameState) PlayerOrder() []string {
	return append([]string(nil), gs.order...)
}

// Registry exposes the interceptor arena for content wiring.
func (gs *GameState) Registry() *rules.InterceptorRegistry { return gs.registry }

// Layers exposes the continuous-effect system.
func (gs *GameState) Layers() *effects.System { return gs.layers }

// Stack exposes the stack manager.
func (gs *GameState) Stack() *rules.StackManager { return gs.stack }

// Turn exposes the turn manager.
func (gs *GameState) Turn() *rules.TurnManager { return gs.turn }

// Targeter exposes the targeting engine.
func (gs *GameState) Targeter() *targeting.Engine { return gs.targeter }

// Emit runs an event through the pipeline.
func (gs *GameState) Emit(ev rules.Event) error {
	return gs.pipeline.Emit(ev)
}

// EmitTracked runs an event through the pipeline and reports the
// event's own final status alongside any error.
func (gs *GameState) EmitTracked(ev rules.Event) (rules.EventStatus, error) {
	return gs.pipeline.EmitTracked(ev)
}

// Log appends a game log message, surfaced in views.
func (gs *GameState) Log(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	gs.messages = append(gs.messages, msg)
	gs.logger.Debug("game log", zap.String("gameId", gs.ID), zap.String("message", msg))
}

// Messages returns the game log.
func (gs *GameState) Messages() []string {
	return append([]string(nil), gs.messages...)
}

// AddObject places a freshly created object into the arena and its
// first zone, bypassing the pipeline. Used for library seeding; all
// later movement goes through zone-change events.
func (gs *GameState) AddObject(obj *GameObject, kind rules.ZoneKind) {
	gs.objects[obj.ID] = obj
	obj.Zone = kind
	zone := gs.ZoneFor(kind, obj.OwnerID)
	zone.Objects = append(zone.Objects, obj.ID)
}

// AddOwnedEffect registers a continuous effect sponsored by an object,
// so it is torn down when the object leaves the battlefield.
func (gs *GameState) AddOwnedEffect(obj *GameObject, effect effects.ContinuousEffect) {
	id := gs.layers.Add(effect)
	obj.EffectIDs = append(obj.EffectIDs, id)
}

// AddEffectUntilEndOfTurn registers a continuous effect that the
// cleanup step removes.
func (gs *GameState) AddEffectUntilEndOfTurn(effect effects.ContinuousEffect) {
	id := gs.layers.Add(effect)
	gs.eotEffects = append(gs.eotEffects, id)
}

// defaultEffect applies the engine's state change for a processed
/// event. The switch is closed: every EventKind is enumerated, and an
// unknown kind is an invariant violation.
func (gs *GameState) defaultEffect(ev *rules.Event, emit func(rules.Event)) {
	switch ev.Kind {
	case rules.EventBeginTurn,
		rules.EventPhaseChanged,
		rules.EventStepChanged,
		rules.EventUpkeepStep,
		rules.EventDrawStep,
		rules.EventEndStep,
		rules.EventCastSpell,
		rules.EventSpellCast,
		rules.EventSpellFizzled,
		rules.EventAbilityFired,
		rules.EventAttackerDeclared,
		rules.EventBlockerDeclared,
		rules.EventCombatDamage,
		rules.EventCombatEnded:
		// Markers: interceptors may react, no default state change.

	case rules.EventUntapStep:
		gs.applyUntapStep(ev.String(rules.KeyPlayerID))

	case rules.EventCleanupStep:
		gs.applyCleanup()

	case rules.EventZoneChange:
		gs.applyZoneChange(ev, emit)

	case rules.EventShuffleLibrary:
		gs.shuffleLibrary(ev.String(rules.KeyPlayerID))

	case rules.EventDrawCard:
		gs.applyDraw(ev, emit)

	case rules.EventDiscardCard:
		emit(rules.NewEvent(rules.EventZoneChange, ev.SourceID, ev.Controller).
			With(rules.KeyObjectID, ev.String(rules.KeyObjectID)).
			With(rules.KeyToZone, rules.ZoneGraveyard))

	case rules.EventMillCard:
		gs.applyMill(ev, emit)

	case rules.EventCreateToken:
		gs.applyCreateToken(ev, emit)

	case rules.EventDamageObject:
		gs.applyDamageObject(ev, emit)

	case rules.EventDamagePlayer:
		gs.applyDamagePlayer(ev, emit)

	case rules.EventGainLife:
		if p, ok := gs.players[ev.String(rules.KeyPlayerID)]; ok {
			p.Life += ev.Int(rules.KeyAmount)
		}

	case rules.EventLoseLife, rules.EventPayLife:
		if p, ok := gs.players[ev.String(rules.KeyPlayerID)]; ok {
			p.Life -= ev.Int(rules.KeyAmount)
		}

	case rules.EventCounterSpell:
		gs.applyCounterSpell(ev, emit)

	case rules.EventAddMana:
		gs.applyAddMana(ev)

	case rules.EventEmptyManaPool:
		if p, ok := gs.players[ev.String(rules.KeyPlayerID)]; ok {
			p.Pool.Empty()
		}

	case rules.EventTap:
		if obj, ok := gs.objects[ev.String(rules.KeyObjectID)]; ok {
			obj.State.Tapped = true
		}

	case rules.EventUntap:
		if obj, ok := gs.objects[ev.String(rules.KeyObjectID)]; ok {
			obj.State.Tapped = false
		}

	case rules.EventAddCounter:
		if obj, ok := gs.objects[ev.String(rules.KeyObjectID)]; ok {
			obj.State.Counters.Add(ev.String(rules.KeyCounter), ev.Int(rules.KeyAmount))
		} else if p, ok := gs.players[ev.String(rules.KeyPlayerID)]; ok {
			p.Counters.Add(ev.String(rules.KeyCounter), ev.Int(rules.KeyAmount))
		}

	case rules.EventRemoveCounter:
		if obj, ok := gs.objects[ev.String(rules.KeyObjectID)]; ok {
			obj.State.Counters.Remove(ev.String(rules.KeyCounter), ev.Int(rules.KeyAmount))
		} else if p, ok := gs.players[ev.String(rules.KeyPlayerID)]; ok {
			p.Counters.Remove(ev.String(rules.KeyCounter), ev.Int(rules.KeyAmount))
		}

	case rules.EventDestroyObject, rules.EventSacrificeObject:
		emit(rules.NewEvent(rules.EventZoneChange, ev.SourceID, ev.Controller).
			With(rules.KeyObjectID, ev.String(rules.KeyObjectID)).
			With(rules.KeyToZone, rules.ZoneGraveyard).
			With(rules.KeyReason, string(ev.Kind)))

	case rules.EventPlayerLoses:
		if p, ok := gs.players[ev.String(rules.KeyPlayerID)]; ok {
			p.Lost = true
			gs.Log("%s loses the game", p.ID)
		}

	case rules.EventPlayerWins:
		if p, ok := gs.players[ev.String(rules.KeyPlayerID)]; ok {
			p.Won = true
			gs.Log("%s wins the game", p.ID)
		}

	case rules.EventPlayerConcede:
		if p, ok := gs.players[ev.String(rules.KeyPlayerID)]; ok {
			p.Conceded = true
			emit(rules.NewEvent(rules.EventPlayerLoses, "", p.ID).
				With(rules.KeyPlayerID, p.ID).
				With(rules.KeyReason, "concede"))
		}

	default:
		panic(fmt.Sprintf("unhandled event kind %q", ev.Kind))
	}
}

func (gs *GameState) applyUntapStep(playerID string) {
	battlefield := gs.ZoneFor(rules.ZoneBattlefield, "")
	for _, id := range battlefield.Objects {
		obj := gs.objects[id]
		if obj.ControllerID != playerID {
			continue
		}
		obj.State.Tapped = false
		obj.State.SummoningSick = false
		obj.State.AttackedThisTurn = false
	}
	if p, ok := gs.players[playerID]; ok {
		p.LandsPlayedThisTurn = 0
	}
}

func (gs *GameState) applyCleanup() {
	battlefield := gs.ZoneFor(rules.ZoneBattlefield, "")
	for _, id := range battlefield.Objects {
		obj := gs.objects[id]
		obj.State.Damage = 0
		delete(obj.State.Flags, flagDeathtouched)
	}
	for _, id := range gs.eotEffects {
		gs.layers.Remove(id)
	}
	gs.eotEffects = nil
	gs.EmptyAllPools()
}

// EmptyAllPools drains every player's mana pool; called at step and
// phase boundaries.
func (gs *GameState) EmptyAllPools() {
	for _, p := range gs.players {
		p.Pool.Empty()
	}
}

// applyZoneChange moves an object between zones. The destination kind
// comes from the payload; source resolution trusts a declared kind over
// the object's recorded zone when they disagree.
func (gs *GameState) applyZoneChange(ev *rules.Event, emit func(rules.Event)) {
	objectID := ev.String(rules.KeyObjectID)
	obj, ok := gs.objects[objectID]
	if !ok {
		gs.logger.Warn("zone change for unknown object", zap.String("objectId", objectID))
		return
	}

	toKind := ev.Zone(rules.KeyToZone)
	if toKind == "" {
		gs.logger.Warn("zone change without destination", zap.String("objectId", objectID))
		return
	}
	toOwner := ev.String(rules.KeyToOwner)
	if toOwner == "" {
		toOwner = obj.OwnerID
	}

	fromKind := ev.Zone(rules.KeyFromZone)
	if fromKind == "" {
		fromKind = obj.Zone
	}
	fromOwner := ev.String(rules.KeyFromOwner)
	if fromOwner == "" {
		fromOwner = obj.OwnerID
	}

	from := gs.ZoneFor(fromKind, fromOwner)
	if !from.Remove(objectID) {
		// Stale hint; the declared kind was wrong, find the object.
		for _, zone := range gs.zones {
			if zone.Remove(objectID) {
				from = zone
				break
			}
		}
	}

	if from.Kind == rules.ZoneBattlefield {
		gs.teardownObject(obj)
	}

	to := gs.ZoneFor(toKind, toOwner)
	to.Objects = append(to.Objects, objectID)
	obj.Zone = toKind

	if toKind == rules.ZoneBattlefield {
		obj.State = NewObjectState()
		if obj.Characteristics.IsType("creature") {
			obj.State.SummoningSick = true
		}
		gs.setupObject(obj)
	}
	gs.checkZoneInvariant(objectID)
}

// setupObject installs the interceptors a definition wires for its
// gating zone.
func (gs *GameState) setupObject(obj *GameObject) {
	if obj.Definition == nil || obj.Definition.SetupInterceptors == nil {
		return
	}
	for _, interceptor := range obj.Definition.SetupInterceptors(obj, gs) {
		interceptor.OwnerID = obj.ID
		id := gs.registry.Register(interceptor)
		obj.InterceptorIDs = append(obj.InterceptorIDs, id)
	}
}

// teardownObject removes everything the object owns in the registry
// and the layer system.
func (gs *GameState) teardownObject(obj *GameObject) {
	gs.registry.RemoveOwned(obj.ID)
	obj.InterceptorIDs = nil
	for _, id := range obj.EffectIDs {
		gs.layers.Remove(id)
	}
	obj.EffectIDs = nil
}

// checkZoneInvariant panics unless the object sits in exactly one zone
// list whose kind matches its recorded zone.
func (gs *GameState) checkZoneInvariant(objectID string) {
	obj, ok := gs.objects[objectID]
	if !ok {
		return
	}
	found := 0
	var kind rules.ZoneKind
	for _, zone := range gs.zones {
		if zone.Contains(objectID) {
			found++
			kind = zone.Kind
		}
	}
	if found != 1 {
		panic(fmt.Sprintf("object %s appears in %d zone lists", objectID, found))
	}
	if kind != obj.Zone {
		panic(fmt.Sprintf("object %s recorded in %s but listed in %s", objectID, obj.Zone, kind))
	}
}

func (gs *GameState) shuffleLibrary(playerID string) {
	library := gs.ZoneFor(rules.ZoneLibrary, playerID)
	gs.rng.Shuffle(len(library.Objects), func(i, j int) {
		library.Objects[i], library.Objects[j] = library.Objects[j], library.Objects[i]
	})
}

// applyDraw moves the top library card to hand. Drawing from an empty
// library loses the game.
func (gs *GameState) applyDraw(ev *rules.Event, emit func(rules.Event)) {
	playerID := ev.String(rules.KeyPlayerID)
	library := gs.ZoneFor(rules.ZoneLibrary, playerID)
	if len(library.Objects) == 0 {
		emit(rules.NewEvent(rules.EventPlayerLoses, "", playerID).
			With(rules.KeyPlayerID, playerID).
			With(rules.KeyReason, "drew from empty library"))
		return
	}
	top := library.Objects[len(library.Objects)-1]
	emit(rules.NewEvent(rules.EventZoneChange, "", playerID).
		With(rules.KeyObjectID, top).
		With(rules.KeyFromZone, rules.ZoneLibrary).
		With(rules.KeyToZone, rules.ZoneHand))
}

func (gs *GameState) applyMill(ev *rules.Event, emit func(rules.Event)) {
	playerID := ev.String(rules.KeyPlayerID)
	library := gs.ZoneFor(rules.ZoneLibrary, playerID)
	if len(library.Objects) == 0 {
		return
	}
	top := library.Objects[len(library.Objects)-1]
	emit(rules.NewEvent(rules.EventZoneChange, "", playerID).
		With(rules.KeyObjectID, top).
		With(rules.KeyFromZone, rules.ZoneLibrary).
		With(rules.KeyToZone, rules.ZoneGraveyard))
}

func (gs *GameState) applyCreateToken(ev *rules.Event, emit func(rules.Event)) {
	def, _ := ev.Payload[keyTokenDefinition].(*CardDefinition)
	controller := ev.Controller
	if def == nil || controller == "" {
		gs.logger.Warn("token creation without definition or controller")
		return
	}
	count := ev.Int(rules.KeyAmount)
	if count <= 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		token := NewGameObject(def, controller)
		gs.objects[token.ID] = token
		token.Zone = rules.ZoneBattlefield
		battlefield := gs.ZoneFor(rules.ZoneBattlefield, "")
		battlefield.Objects = append(battlefield.Objects, token.ID)
		if token.Characteristics.IsType("creature") {
			token.State.SummoningSick = true
		}
		gs.setupObject(token)
	}
}

// keyTokenDefinition carries a *CardDefinition in a token event payload.
const keyTokenDefinition = "tokenDefinition"

const flagDeathtouched = "deathtouched"

func (gs *GameState) applyDamageObject(ev *rules.Event, emit func(rules.Event)) {
	obj, ok := gs.objects[ev.String(rules.KeyObjectID)]
	if !ok {
		return
	}
	amount := ev.Int(rules.KeyAmount)
	if amount <= 0 {
		return
	}
	obj.State.Damage += amount

	if source, ok := gs.objects[ev.SourceID]; ok {
		snap := gs.Query(source.ID)
		if snap != nil && snap.HasAbility("deathtouch") {
			obj.State.Flags[flagDeathtouched] = true
		}
		if snap != nil && snap.HasAbility("lifelink") {
			emit(rules.NewEvent(rules.EventGainLife, source.ID, source.ControllerID).
				With(rules.KeyPlayerID, source.ControllerID).
				With(rules.KeyAmount, amount))
		}
	}
}

func (gs *GameState) applyDamagePlayer(ev *rules.Event, emit func(rules.Event)) {
	p, ok := gs.players[ev.String(rules.KeyPlayerID)]
	if !ok {
		return
	}
	amount := ev.Int(rules.KeyAmount)
	if amount <= 0 {
		return
	}
	p.Life -= amount

	if source, ok := gs.objects[ev.SourceID]; ok {
		snap := gs.Query(source.ID)
		if snap != nil && snap.HasAbility("lifelink") {
			emit(rules.NewEvent(rules.EventGainLife, source.ID, source.ControllerID).
				With(rules.KeyPlayerID, source.ControllerID).
				With(rules.KeyAmount, amount))
		}
	}
}

func (gs *GameState) applyCounterSpell(ev *rules.Event, emit func(rules.Event)) {
	itemID := ev.String(rules.KeyStackItem)
	item, ok := gs.stack.Remove(itemID)
	if !ok {
		return
	}
	gs.Log("%s is countered", item.Description)

	obj, ok := gs.objects[item.SourceID]
	if !ok || obj.Zone != rules.ZoneStack {
		return
	}
	dest := rules.ZoneGraveyard
	if item.DestinationOverride != "" {
		dest = item.DestinationOverride
	}
	obj.StackItemID = ""
	emit(rules.NewEvent(rules.EventZoneChange, item.SourceID, item.Controller).
		With(rules.KeyObjectID, item.SourceID).
		With(rules.KeyFromZone, rules.ZoneStack).
		With(rules.KeyToZone, dest))
}

func (gs *GameState) applyAddMana(ev *rules.Event) {
	p, ok := gs.players[ev.String(rules.KeyPlayerID)]
	if !ok {
		return
	}
	amount := ev.Int(rules.KeyAmount)
	if amount <= 0 {
		amount = 1
	}
	color := mana.Color(ev.String(rules.KeyMana))
	if snow, _ := ev.Payload[keySnowMana].(bool); snow {
		p.Pool.AddSnow(color, amount)
	} else {
		p.Pool.Add(color, amount)
	}
}

// keySnowMana flags snow mana in an add-mana payload.
const keySnowMana = "snow"

// Query returns the object's current characteristics after every
// continuous effect, or nil if the object is unknown. Counter deltas
// feed the modify sublayer.
func (gs *GameState) Query(objectID string) *effects.Snapshot {
	obj, ok := gs.objects[objectID]
	if !ok {
		return nil
	}
	ch := obj.Characteristics
	snap := effects.NewSnapshot(obj.ID, obj.ControllerID, ch.Name,
		ch.Types, ch.Subtypes, ch.Colors, ch.Abilities, ch.Power, ch.Toughness)
	snap.CounterPower, snap.CounterToughness = obj.State.Counters.BoostDelta()
	gs.layers.Apply(snap)
	return snap
}

// TargetCandidates implements targeting.CandidateSource: battlefield
// objects, stack items, and players.
func (gs *GameState) TargetCandidates() []targeting.Candidate {
	var out []targeting.Candidate

	battlefield := gs.ZoneFor(rules.ZoneBattlefield, "")
	for _, id := range battlefield.Objects {
		snap := gs.Query(id)
		if snap == nil {
			continue
		}
		obj := gs.objects[id]
		out = append(out, targeting.Candidate{
			ID:           id,
			Kind:         targeting.TargetKindObject,
			Name:         snap.Name,
			Types:        snap.Types,
			Subtypes:     snap.Subtypes,
			Colors:       snap.Colors,
			Abilities:    snap.Abilities,
			ControllerID: snap.ControllerID,
			Zone:         "BATTLEFIELD",
			Tapped:       obj.State.Tapped,
		})
	}

	for _, item := range gs.stack.List() {
		out = append(out, targeting.Candidate{
			ID:           item.ID,
			Kind:         targeting.TargetKindObject,
			Name:         item.Description,
			ControllerID: item.Controller,
			Zone:         "STACK",
		})
	}

	for _, pid := range gs.order {
		p := gs.players[pid]
		if p.Lost {
			continue
		}
		out = append(out, targeting.Candidate{
			ID:   pid,
			Kind: targeting.TargetKindPlayer,
			Name: p.Name,
		})
	}
	return out
}

// Checksum produces a deterministic digest of the visible game state,
// for divergence detection between replicas of the same seed.
func (gs *GameState) Checksum() string {
	var b strings.Builder

	fmt.Fprintf(&b, "turn=%d phase=%s step=%s active=%s\n",
		gs.turn.TurnNumber(), gs.turn.CurrentPhase(), gs.turn.CurrentStep(), gs.turn.ActivePlayer())

	pids := append([]string(nil), gs.order...)
	sort.Strings(pids)
	for _, pid := range pids {
		p := gs.players[pid]
		fmt.Fprintf(&b, "player=%s life=%d lost=%t\n", pid, p.Life, p.Lost)
	}

	keys := make([]string, 0, len(gs.zones))
	for key := range gs.zones {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		zone := gs.zones[key]
		fmt.Fprintf(&b, "zone=%s:", key)
		for _, id := range zone.Objects {
			obj := gs.objects[id]
			fmt.Fprintf(&b, " %s/%s/t=%t/d=%d/c=%d",
				obj.Characteristics.Name, obj.ControllerID,
				obj.State.Tapped, obj.State.Damage, obj.State.Counters.Total())
		}
		b.WriteString("\n")
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
