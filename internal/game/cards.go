package game

import (
	"fmt"

	"github.com/discordwell/hyperdraft/internal/game/costs"
	"github.com/discordwell/hyperdraft/internal/game/effects"
	"github.com/discordwell/hyperdraft/internal/game/mana"
	"github.com/discordwell/hyperdraft/internal/game/rules"
	"github.com/discordwell/hyperdraft/internal/game/targeting"
)

// CardLibrary returns the built-in card set keyed by name. Deck lists
// refer to these names; content packages can extend the map before a
// game starts.
func CardLibrary() map[string]*CardDefinition {
	library := make(map[string]*CardDefinition)
	add := func(def *CardDefinition) {
		library[def.Name] = def
	}

	add(basicLand("Plains", mana.ColorWhite))
	add(basicLand("Island", mana.ColorBlue))
	add(basicLand("Swamp", mana.ColorBlack))
	add(basicLand("Mountain", mana.ColorRed))
	add(basicLand("Forest", mana.ColorGreen))
	add(basicLand("Wastes", mana.ColorColorless))
	snowForest := basicLand("Snow-Covered Forest", mana.ColorGreen)
	snowForest.SnowSource = true
	add(snowForest)

	add(creature("Valley Bear", "{1}{G}", 2, 2, []string{"bear"}, nil))
	add(creature("Gale Harrier", "{1}{U}", 2, 1, []string{"bird"}, []string{"flying"}))
	add(creature("Sentinel of Dawn", "{2}{W}", 2, 3, []string{"soldier"}, []string{"vigilance"}))
	add(creature("Thicket Boar", "{2}{G}", 3, 2, []string{"boar"}, []string{"trample"}))
	add(creature("Marsh Asp", "{1}{B}", 1, 1, []string{"snake"}, []string{"deathtouch"}))
	add(creature("Chapel Mender", "{1}{W}", 1, 2, []string{"cleric"}, []string{"lifelink"}))
	add(creature("Wall of Brambles", "{1}{G}", 0, 4, []string{"wall"}, []string{"defender", "reach"}))
	add(creature("Mistveil Stalker", "{1}{U}", 2, 1, []string{"rogue"}, []string{"hexproof"}))
	add(creature("Ember Sprinter", "{R}", 1, 1, []string{"elemental"}, []string{"haste"}))
	add(creature("Bramble Warden", "{G/W}{G/W}", 2, 2, []string{"dryad"}, nil))

	add(anthemEnchantment())
	add(joltSpell())
	add(surgingFlameSpell())
	add(unravelSpell())
	add(rapidGrowthSpell())
	add(recklessLungeSpell())
	add(finalRitesSpell())
	add(inspirationSpell())
	add(musterTheRanksSpell())
	add(titheOfBloodSpell())

	return library
}

func basicLand(name string, color mana.Color) *CardDefinition {
	return &CardDefinition{
		Name: name,
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				Types:    []string{"land"},
				Subtypes: []string{"basic"},
			}
		},
		ManaColors: []mana.Color{color},
	}
}

func creature(name, cost string, power, toughness int, subtypes, abilities []string) *CardDefinition {
	return &CardDefinition{
		Name: name,
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:      name,
				ManaCost:  cost,
				Types:     []string{"creature"},
				Subtypes:  subtypes,
				Colors:    colorsOf(cost),
				Abilities: abilities,
				Power:     power,
				Toughness: toughness,
			}
		},
	}
}

// colorsOf derives a card's color identity from its printed cost.
func colorsOf(cost string) []string {
	parsed, err := mana.Parse(cost)
	if err != nil {
		return nil
	}
	return parsed.Colors()
}

// anthemEnchantment grants creatures its controller runs a +1/+1 boost
// for as long as it stays on the battlefield.
func anthemEnchantment() *CardDefinition {
	name := "Standard of the Vanguard"
	return &CardDefinition{
		Name:      name,
		RulesText: "Creatures you control get +1/+1.",
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				ManaCost: "{2}{W}",
				Types:    []string{"enchantment"},
				Colors:   []string{"W"},
			}
		},
		SetupInterceptors: func(obj *GameObject, state *GameState) []rules.Interceptor {
			boost := effects.NewPTBoost(effects.ControlledCreatures(obj.ControllerID, obj.ID), 1, 1)
			state.AddOwnedEffect(obj, boost)
			return nil
		},
	}
}

// anyTargetFilter matches creatures on the battlefield and players.
func anyTargetFilter() targeting.Filter {
	return func(_ targeting.Context, c targeting.Candidate) bool {
		if c.Kind == targeting.TargetKindPlayer {
			return true
		}
		return c.Zone == "BATTLEFIELD" && c.HasType("creature")
	}
}

// dealToTarget routes damage to a player or an object target.
func dealToTarget(state *GameState, sourceID, controller, targetID string, amount int) error {
	if _, ok := state.Player(targetID); ok {
		return state.Emit(rules.NewEvent(rules.EventDamagePlayer, sourceID, controller).
			With(rules.KeyPlayerID, targetID).
			With(rules.KeyAmount, amount))
	}
	return state.Emit(rules.NewEvent(rules.EventDamageObject, sourceID, controller).
		With(rules.KeyObjectID, targetID).
		With(rules.KeyAmount, amount))
}

func firstTarget(item *rules.StackItem) (string, error) {
	if len(item.Targets) == 0 || len(item.Targets[0]) == 0 {
		return "", fmt.Errorf("%s resolved without a target", item.Description)
	}
	return item.Targets[0][0], nil
}

func joltSpell() *CardDefinition {
	name := "Jolt"
	return &CardDefinition{
		Name:      name,
		RulesText: "Jolt deals 3 damage to any target.",
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				ManaCost: "{R}",
				Types:    []string{"instant"},
				Colors:   []string{"R"},
			}
		},
		Targets: func() []targeting.Requirement {
			return []targeting.Requirement{{
				Kind:        targeting.TargetKindAny,
				Filter:      anyTargetFilter(),
				Min:         1,
				Max:         1,
				Description: "any target",
			}}
		},
		Resolve: func(state *GameState, item *rules.StackItem) error {
			target, err := firstTarget(item)
			if err != nil {
				return err
			}
			return dealToTarget(state, item.SourceID, item.Controller, target, 3)
		},
	}
}

func surgingFlameSpell() *CardDefinition {
	name := "Surging Flame"
	return &CardDefinition{
		Name:      name,
		RulesText: "Surging Flame deals X damage to any target.",
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				ManaCost: "{X}{R}",
				Types:    []string{"sorcery"},
				Colors:   []string{"R"},
			}
		},
		Targets: func() []targeting.Requirement {
			return []targeting.Requirement{{
				Kind:        targeting.TargetKindAny,
				Filter:      anyTargetFilter(),
				Min:         1,
				Max:         1,
				Description: "any target",
			}}
		},
		Resolve: func(state *GameState, item *rules.StackItem) error {
			target, err := firstTarget(item)
			if err != nil {
				return err
			}
			if item.XValue <= 0 {
				return nil
			}
			return dealToTarget(state, item.SourceID, item.Controller, target, item.XValue)
		},
	}
}

func unravelSpell() *CardDefinition {
	name := "Unravel"
	return &CardDefinition{
		Name:      name,
		RulesText: "Counter target spell.",
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				ManaCost: "{U}{U}",
				Types:    []string{"instant"},
				Colors:   []string{"U"},
			}
		},
		Targets: func() []targeting.Requirement {
			return []targeting.Requirement{{
				Kind:        targeting.TargetKindObject,
				Filter:      targeting.SpellFilter(),
				Min:         1,
				Max:         1,
				Description: "target spell",
			}}
		},
		Resolve: func(state *GameState, item *rules.StackItem) error {
			target, err := firstTarget(item)
			if err != nil {
				return err
			}
			return state.Emit(rules.NewEvent(rules.EventCounterSpell, item.SourceID, item.Controller).
				With(rules.KeyStackItem, target))
		},
	}
}

func rapidGrowthSpell() *CardDefinition {
	name := "Rapid Growth"
	return &CardDefinition{
		Name:      name,
		RulesText: "Target creature gets +3/+3 until end of turn.",
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				ManaCost: "{G}",
				Types:    []string{"instant"},
				Colors:   []string{"G"},
			}
		},
		Targets: func() []targeting.Requirement {
			return []targeting.Requirement{{
				Kind:        targeting.TargetKindObject,
				Filter:      targeting.CreatureFilter(),
				Min:         1,
				Max:         1,
				Description: "target creature",
			}}
		},
		Resolve: func(state *GameState, item *rules.StackItem) error {
			target, err := firstTarget(item)
			if err != nil {
				return err
			}
			state.AddEffectUntilEndOfTurn(effects.NewPTBoost(effects.SingleObject(target), 3, 3))
			return nil
		},
	}
}

func recklessLungeSpell() *CardDefinition {
	name := "Reckless Lunge"
	return &CardDefinition{
		Name:      name,
		RulesText: "As an additional cost to cast this spell, discard a card. Reckless Lunge deals 4 damage to target creature.",
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				ManaCost: "{R}",
				Types:    []string{"instant"},
				Colors:   []string{"R"},
			}
		},
		Targets: func() []targeting.Requirement {
			return []targeting.Requirement{{
				Kind:        targeting.TargetKindObject,
				Filter:      targeting.CreatureFilter(),
				Min:         1,
				Max:         1,
				Description: "target creature",
			}}
		},
		AdditionalCost: func() []costs.Step {
			return []costs.Step{costs.Discard{Count: 1}}
		},
		Resolve: func(state *GameState, item *rules.StackItem) error {
			target, err := firstTarget(item)
			if err != nil {
				return err
			}
			return dealToTarget(state, item.SourceID, item.Controller, target, 4)
		},
	}
}

func finalRitesSpell() *CardDefinition {
	name := "Final Rites"
	return &CardDefinition{
		Name:      name,
		RulesText: "Destroy target creature.",
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				ManaCost: "{1}{B}{B}",
				Types:    []string{"sorcery"},
				Colors:   []string{"B"},
			}
		},
		Targets: func() []targeting.Requirement {
			return []targeting.Requirement{{
				Kind:        targeting.TargetKindObject,
				Filter:      targeting.CreatureFilter(),
				Min:         1,
				Max:         1,
				Description: "target creature",
			}}
		},
		Resolve: func(state *GameState, item *rules.StackItem) error {
			target, err := firstTarget(item)
			if err != nil {
				return err
			}
			return state.Emit(rules.NewEvent(rules.EventDestroyObject, item.SourceID, item.Controller).
				With(rules.KeyObjectID, target))
		},
	}
}

func inspirationSpell() *CardDefinition {
	name := "Inspiration"
	return &CardDefinition{
		Name:      name,
		RulesText: "Draw two cards.",
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				ManaCost: "{3}{U}",
				Types:    []string{"instant"},
				Colors:   []string{"U"},
			}
		},
		Resolve: func(state *GameState, item *rules.StackItem) error {
			for i := 0; i < 2; i++ {
				if err := state.Emit(rules.NewEvent(rules.EventDrawCard, item.SourceID, item.Controller).
					With(rules.KeyPlayerID, item.Controller)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func musterTheRanksSpell() *CardDefinition {
	name := "Muster the Ranks"
	token := &CardDefinition{
		Name:  "Recruit",
		Token: true,
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:      "Recruit",
				Types:     []string{"creature"},
				Subtypes:  []string{"soldier"},
				Colors:    []string{"W"},
				Power:     1,
				Toughness: 1,
			}
		},
	}
	return &CardDefinition{
		Name:      name,
		RulesText: "Create two 1/1 white Recruit creature tokens.",
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				ManaCost: "{2}{W}",
				Types:    []string{"sorcery"},
				Colors:   []string{"W"},
			}
		},
		Resolve: func(state *GameState, item *rules.StackItem) error {
			return state.Emit(rules.NewEvent(rules.EventCreateToken, item.SourceID, item.Controller).
				With(keyTokenDefinition, token).
				With(rules.KeyAmount, 2))
		},
	}
}

func titheOfBloodSpell() *CardDefinition {
	name := "Tithe of Blood"
	return &CardDefinition{
		Name:      name,
		RulesText: "Target player loses 2 life.",
		Characteristics: func() Characteristics {
			return Characteristics{
				Name:     name,
				ManaCost: "{1}{B/P}",
				Types:    []string{"sorcery"},
				Colors:   []string{"B"},
			}
		},
		Targets: func() []targeting.Requirement {
			return []targeting.Requirement{{
				Kind:        targeting.TargetKindPlayer,
				Min:         1,
				Max:         1,
				Description: "target player",
			}}
		},
		Resolve: func(state *GameState, item *rules.StackItem) error {
			target, err := firstTarget(item)
			if err != nil {
				return err
			}
			return state.Emit(rules.NewEvent(rules.EventLoseLife, item.SourceID, item.Controller).
				With(rules.KeyPlayerID, target).
				With(rules.KeyAmount, 2))
		},
	}
}
