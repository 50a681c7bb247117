package game

import (
	"sort"

	"github.com/discordwell/hyperdraft/internal/game/mana"
	"github.com/discordwell/hyperdraft/internal/game/rules"
)

// ObjectView is the client-facing snapshot of one visible object, with
// continuous effects already applied.
type ObjectView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	OwnerID    string   `json:"ownerId"`
	Controller string   `json:"controllerId"`
	Zone       string   `json:"zone"`
	Types      []string `json:"types,omitempty"`
	Subtypes   []string `json:"subtypes,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Abilities  []string `json:"abilities,omitempty"`
	Power      int      `json:"power"`
	Toughness  int      `json:"toughness"`
	Tapped     bool     `json:"tapped"`
	Damage     int      `json:"damage,omitempty"`
	Counters   int      `json:"counters,omitempty"`
}

// StackItemView describes one pending spell or ability.
type StackItemView struct {
	ID          string     `json:"id"`
	Controller  string     `json:"controllerId"`
	Description string     `json:"description"`
	Kind        string     `json:"kind"`
	Targets     [][]string `json:"targets,omitempty"`
}

// PlayerView is one player's public face, plus the hand when the
// viewer is that player. Hidden zones are reduced to counts.
type PlayerView struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Life         int            `json:"life"`
	Lost         bool           `json:"lost,omitempty"`
	Won          bool           `json:"won,omitempty"`
	HandSize     int            `json:"handSize"`
	LibrarySize  int            `json:"librarySize"`
	Mana         map[string]int `json:"mana,omitempty"`
	Hand         []ObjectView   `json:"hand,omitempty"`
	Graveyard    []ObjectView   `json:"graveyard"`
	PendingInput bool           `json:"pendingInput,omitempty"`
}

// GameView is the full redacted picture sent to one player. Two views
// of the same state differ only in hidden-zone contents.
type GameView struct {
	GameID         string          `json:"gameId"`
	ViewerID       string          `json:"viewerId"`
	TurnNumber     int             `json:"turnNumber"`
	ActivePlayer   string          `json:"activePlayer"`
	PriorityPlayer string          `json:"priorityPlayer"`
	Phase          string          `json:"phase"`
	Step           string          `json:"step"`
	Players        []PlayerView    `json:"players"`
	Battlefield    []ObjectView    `json:"battlefield"`
	Stack          []StackItemView `json:"stack"`
	Messages       []string        `json:"messages"`
	Checksum       string          `json:"checksum"`
}

// View builds the redacted game view for one player.
func (gs *GameState) View(viewerID string) GameView {
	view := GameView{
		GameID:         gs.ID,
		ViewerID:       viewerID,
		TurnNumber:     gs.turn.TurnNumber(),
		ActivePlayer:   gs.turn.ActivePlayer(),
		PriorityPlayer: gs.turn.PriorityPlayer(),
		Phase:          gs.turn.CurrentPhase().String(),
		Step:           gs.turn.CurrentStep().String(),
		Messages:       gs.Messages(),
		Checksum:       gs.Checksum(),
	}

	battlefield := gs.ZoneFor(rules.ZoneBattlefield, "")
	for _, id := range battlefield.Objects {
		view.Battlefield = append(view.Battlefield, gs.objectView(id))
	}
	sort.Slice(view.Battlefield, func(i, j int) bool {
		return view.Battlefield[i].ID < view.Battlefield[j].ID
	})

	for _, item := range gs.stack.List() {
		view.Stack = append(view.Stack, StackItemView{
			ID:          item.ID,
			Controller:  item.Controller,
			Description: item.Description,
			Kind:        string(item.Kind),
			Targets:     item.Targets,
		})
	}

	for _, pid := range gs.order {
		view.Players = append(view.Players, gs.playerView(pid, viewerID))
	}
	return view
}

func (gs *GameState) playerView(playerID, viewerID string) PlayerView {
	player := gs.players[playerID]
	hand := gs.ZoneFor(rules.ZoneHand, playerID)
	library := gs.ZoneFor(rules.ZoneLibrary, playerID)
	graveyard := gs.ZoneFor(rules.ZoneGraveyard, playerID)

	pv := PlayerView{
		ID:          player.ID,
		Name:        player.Name,
		Life:        player.Life,
		Lost:        player.Lost,
		Won:         player.Won,
		HandSize:    len(hand.Objects),
		LibrarySize: len(library.Objects),
		Mana:        poolView(player.Pool),
	}
	if _, ok := gs.choices[playerID]; ok {
		pv.PendingInput = true
	}
	// Graveyards are public; hands only for their owner.
	pv.Graveyard = make([]ObjectView, 0, len(graveyard.Objects))
	for _, id := range graveyard.Objects {
		pv.Graveyard = append(pv.Graveyard, gs.objectView(id))
	}
	if playerID == viewerID {
		for _, id := range hand.Objects {
			pv.Hand = append(pv.Hand, gs.objectView(id))
		}
	}
	return pv
}

func (gs *GameState) objectView(id string) ObjectView {
	obj, ok := gs.objects[id]
	if !ok {
		return ObjectView{ID: id}
	}
	ov := ObjectView{
		ID:         obj.ID,
		Name:       obj.Characteristics.Name,
		OwnerID:    obj.OwnerID,
		Controller: obj.ControllerID,
		Zone:       string(obj.Zone),
		Types:      obj.Characteristics.Types,
		Subtypes:   obj.Characteristics.Subtypes,
		Colors:     obj.Characteristics.Colors,
		Abilities:  obj.Characteristics.Abilities,
		Power:      obj.Characteristics.Power,
		Toughness:  obj.Characteristics.Toughness,
		Tapped:     obj.State.Tapped,
		Damage:     obj.State.Damage,
		Counters:   obj.State.Counters.Total(),
	}
	if obj.Zone == rules.ZoneBattlefield {
		if snap := gs.Query(id); snap != nil {
			ov.Controller = snap.ControllerID
			ov.Types = snap.Types
			ov.Subtypes = snap.Subtypes
			ov.Colors = snap.Colors
			ov.Abilities = snap.Abilities
			ov.Power = snap.Power
			ov.Toughness = snap.Toughness
		}
	}
	return ov
}

func poolView(pool *mana.Pool) map[string]int {
	out := make(map[string]int)
	for _, c := range []mana.Color{
		mana.ColorWhite, mana.ColorBlue, mana.ColorBlack,
		mana.ColorRed, mana.ColorGreen, mana.ColorColorless,
	} {
		if n := pool.Amount(c); n > 0 {
			out[string(c)] = n
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
