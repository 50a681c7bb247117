// Package decks loads YAML deck lists and resolves them against a card
// library.
package decks

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/discordwell/hyperdraft/internal/game"
)

// MinDeckSize is the smallest legal deck.
const MinDeckSize = 10

// File is the top-level YAML structure: a named collection of decks.
type File struct {
	Decks []Entry `yaml:"decks"`
}

// Entry is a single deck list.
type Entry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry is one card name with its copy count.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// Size returns the total number of cards in the deck.
func (e Entry) Size() int {
	total := 0
	for _, c := range e.Cards {
		total += c.Count
	}
	return total
}

// Load parses a YAML deck file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses YAML deck data.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &f, nil
}

// ByName returns the deck with the given name.
func (f *File) ByName(name string) (Entry, error) {
	for _, deck := range f.Decks {
		if deck.Name == name {
			return deck, nil
		}
	}
	return Entry{}, fmt.Errorf("deck %q not found", name)
}

// Resolve expands a deck list into card definitions from the library,
// validating every name and the deck size.
func Resolve(entry Entry, library map[string]*game.CardDefinition) ([]*game.CardDefinition, error) {
	if entry.Size() < MinDeckSize {
		return nil, fmt.Errorf("deck %q has %d cards, minimum is %d", entry.Name, entry.Size(), MinDeckSize)
	}
	var cards []*game.CardDefinition
	for _, c := range entry.Cards {
		if c.Count <= 0 {
			return nil, fmt.Errorf("deck %q: card %q has count %d", entry.Name, c.Name, c.Count)
		}
		def, ok := library[c.Name]
		if !ok {
			return nil, fmt.Errorf("deck %q: unknown card %q", entry.Name, c.Name)
		}
		for i := 0; i < c.Count; i++ {
			cards = append(cards, def)
		}
	}
	return cards, nil
}
