package rules

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// StackItemKind describes the type of object on the stack.
type StackItemKind string

const (
	// StackItemKindSpell represents a spell cast by a player.
	StackItemKindSpell StackItemKind = "SPELL"
	// StackItemKindActivated represents an activated ability.
	StackItemKindActivated StackItemKind = "ACTIVATED"
	// StackItemKindTriggered represents a triggered ability.
	StackItemKindTriggered StackItemKind = "TRIGGERED"
)

// StackItem represents a single object on the stack. Targets hold the
// chosen target IDs per requirement index. Resolve runs the item's effect
// when it resolves; it lives only while the item is on the stack.
//
// DestinationOverride, when set, replaces the default zone the source card
// goes to as the item leaves the stack (exile-on-resolve, counter-then-
// exile). It is consulted exactly once, whether the item resolved, was
// countered, or fizzled.
type StackItem struct {
	ID                  string
	Controller          string
	Description         string
	Kind                StackItemKind
	SourceID            string
	Targets             [][]string
	XValue              int
	Resolve             func(item *StackItem) error
	DestinationOverride ZoneKind
}

// StackManager manages the game stack: a LIFO of not-yet-resolved spells
// and abilities.
type StackManager struct {
	mu    sync.Mutex
	items []StackItem
}

// NewStackManager creates a new stack manager.
func NewStackManager() *StackManager {
	return &StackManager{
		items: make([]StackItem, 0, 16),
	}
}

// Push adds an item to the top of the stack, assigning an ID if the
// item has none, and returns the ID.
func (sm *StackManager) Push(item StackItem) string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	sm.items = append(sm.items, item)
	return item.ID
}

// Pop removes the top item from the stack.
func (sm *StackManager) Pop() (StackItem, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if len(sm.items) == 0 {
		return StackItem{}, errors.New("stack empty")
	}

	idx := len(sm.items) - 1
	item := sm.items[idx]
	sm.items = sm.items[:idx]
	return item, nil
}

// Remove deletes an item from anywhere in the stack by ID.
func (sm *StackManager) Remove(id string) (StackItem, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for idx := len(sm.items) - 1; idx >= 0; idx-- {
		if sm.items[idx].ID == id {
			item := sm.items[idx]
			sm.items = append(sm.items[:idx], sm.items[idx+1:]...)
			return item, true
		}
	}
	return StackItem{}, false
}

// Peek returns the top item without removing it.
func (sm *StackManager) Peek() (StackItem, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if len(sm.items) == 0 {
		return StackItem{}, false
	}
	return sm.items[len(sm.items)-1], true
}

// Find returns the item with the given ID without removing it.
func (sm *StackManager) Find(id string) (StackItem, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for idx := len(sm.items) - 1; idx >= 0; idx-- {
		if sm.items[idx].ID == id {
			return sm.items[idx], true
		}
	}
	return StackItem{}, false
}

// SetDestinationOverride replaces the destination zone of the item with
// the given ID. Used by "exiled instead of put into a graveyard" effects.
func (sm *StackManager) SetDestinationOverride(id string, zone ZoneKind) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for idx := range sm.items {
		if sm.items[idx].ID == id {
			sm.items[idx].DestinationOverride = zone
			return true
		}
	}
	return false
}

// List returns a copy of all stack items (topmost last).
func (sm *StackManager) List() []StackItem {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	cpy := make([]StackItem, len(sm.items))
	copy(cpy, sm.items)
	return cpy
}

// IsEmpty returns whether the stack is empty.
func (sm *StackManager) IsEmpty() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.items) == 0
}

// Size returns the number of items on the stack.
func (sm *StackManager) Size() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.items)
}
