package mana

import (
	"testing"
)

func TestPool_AddAndAmount(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorRed, 2)
	pool.Add(ColorGreen, 1)
	pool.AddSnow(ColorGreen, 1)

	if pool.Amount(ColorRed) != 2 {
		t.Errorf("red = %d, want 2", pool.Amount(ColorRed))
	}
	if pool.Amount(ColorGreen) != 2 {
		t.Errorf("green (snow included) = %d, want 2", pool.Amount(ColorGreen))
	}
	if pool.SnowAmount() != 1 {
		t.Errorf("snow = %d, want 1", pool.SnowAmount())
	}
	if pool.Total() != 4 {
		t.Errorf("total = %d, want 4", pool.Total())
	}
}

func TestPool_Empty(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorWhite, 3)
	pool.Empty()
	if pool.Total() != 0 {
		t.Errorf("total after empty = %d, want 0", pool.Total())
	}
}

func TestPool_CopyIsIndependent(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorBlue, 2)

	cpy := pool.Copy()
	cpy.Add(ColorBlue, 3)

	if pool.Amount(ColorBlue) != 2 {
		t.Errorf("original changed by copy mutation: %d", pool.Amount(ColorBlue))
	}
	if cpy.Amount(ColorBlue) != 5 {
		t.Errorf("copy = %d, want 5", cpy.Amount(ColorBlue))
	}
}

func TestPool_SpendColorPrefersNonSnow(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorGreen, 1)
	pool.AddSnow(ColorGreen, 1)

	if spent := pool.spendColor(ColorGreen, 1); spent != 1 {
		t.Fatalf("spent = %d, want 1", spent)
	}
	// The snow unit must survive for {S} symbols.
	if pool.SnowAmount() != 1 {
		t.Errorf("snow unit was spent before the plain unit")
	}
}

func TestPool_SpendAnyIsDeterministic(t *testing.T) {
	build := func() *Pool {
		pool := NewPool()
		pool.Add(ColorColorless, 1)
		pool.Add(ColorWhite, 1)
		pool.Add(ColorGreen, 1)
		pool.AddSnow(ColorBlack, 1)
		return pool
	}

	first := build()
	first.spendAny(2)
	second := build()
	second.spendAny(2)

	for _, color := range []Color{ColorColorless, ColorWhite, ColorBlack, ColorGreen} {
		if first.Amount(color) != second.Amount(color) {
			t.Errorf("%s differs between identical runs: %d vs %d",
				color, first.Amount(color), second.Amount(color))
		}
	}
	// Colorless goes first, then white; snow is touched last.
	if first.Amount(ColorColorless) != 0 || first.Amount(ColorWhite) != 0 {
		t.Error("expected colorless then white to be spent first")
	}
	if first.SnowAmount() != 1 {
		t.Error("snow should be spent last for generic costs")
	}
}
