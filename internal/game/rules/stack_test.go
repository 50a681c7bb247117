package rules

import (
	"testing"
)

func TestStackManager_LIFO(t *testing.T) {
	sm := NewStackManager()
	sm.Push(StackItem{ID: "first", Kind: StackItemKindSpell})
	sm.Push(StackItem{ID: "second", Kind: StackItemKindTriggered})

	top, ok := sm.Peek()
	if !ok || top.ID != "second" {
		t.Errorf("expected second on top, got %v", top.ID)
	}

	item, err := sm.Pop()
	if err != nil || item.ID != "second" {
		t.Errorf("expected to pop second, got %v (err %v)", item.ID, err)
	}
	item, err = sm.Pop()
	if err != nil || item.ID != "first" {
		t.Errorf("expected to pop first, got %v (err %v)", item.ID, err)
	}
	if _, err := sm.Pop(); err == nil {
		t.Error("expected error popping empty stack")
	}
}

func TestStackManager_Remove(t *testing.T) {
	sm := NewStackManager()
	sm.Push(StackItem{ID: "a"})
	sm.Push(StackItem{ID: "b"})
	sm.Push(StackItem{ID: "c"})

	item, ok := sm.Remove("b")
	if !ok || item.ID != "b" {
		t.Fatalf("expected to remove b, got %v", item.ID)
	}
	if sm.Size() != 2 {
		t.Errorf("expected 2 items, got %d", sm.Size())
	}
	if _, ok := sm.Find("b"); ok {
		t.Error("b should be gone")
	}
}

func TestStackManager_DestinationOverride(t *testing.T) {
	sm := NewStackManager()
	sm.Push(StackItem{ID: "spell", Kind: StackItemKindSpell})

	if !sm.SetDestinationOverride("spell", ZoneExile) {
		t.Fatal("expected to set override")
	}
	item, err := sm.Pop()
	if err != nil {
		t.Fatalf("pop failed: %v", err)
	}
	if item.DestinationOverride != ZoneExile {
		t.Errorf("expected exile override, got %q", item.DestinationOverride)
	}

	if sm.SetDestinationOverride("missing", ZoneExile) {
		t.Error("override on missing item should report false")
	}
}
