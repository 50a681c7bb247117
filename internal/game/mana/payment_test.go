package mana

import (
	"testing"
)

func mustParse(t *testing.T, s string) *Cost {
	t.Helper()
	cost, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return cost
}

func TestPay_SimpleCost(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorBlue, 1)
	pool.Add(ColorGreen, 1)

	payment, err := pool.Pay(mustParse(t, "{1}{U}"), 0)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if payment.UnitsSpent != 2 {
		t.Errorf("units spent = %d, want 2", payment.UnitsSpent)
	}
	if pool.Total() != 0 {
		t.Errorf("pool should be drained, has %d", pool.Total())
	}
}

func TestPay_WrongColorsFail(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorBlue, 2)

	// {U}{U} covers the blue symbols but nothing can pay {B}.
	if _, err := pool.Pay(mustParse(t, "{1}{B}"), 0); err == nil {
		t.Fatal("expected failure: no black source")
	}
	// Failed payment must leave the pool intact.
	if pool.Amount(ColorBlue) != 2 {
		t.Errorf("failed Pay mutated pool: blue = %d", pool.Amount(ColorBlue))
	}
}

func TestPay_GenericSpendsLeftovers(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorRed, 1)
	pool.Add(ColorGreen, 2)

	payment, err := pool.Pay(mustParse(t, "{2}{R}"), 0)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if payment.UnitsSpent != 3 || pool.Total() != 0 {
		t.Errorf("spent %d, left %d", payment.UnitsSpent, pool.Total())
	}
}

func TestPay_ColorlessSymbolNeedsTrueColorless(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorWhite, 1)

	if pool.CanPay(mustParse(t, "{C}"), 0) {
		t.Error("{C} must not be payable with colored mana")
	}

	pool.Add(ColorColorless, 1)
	if !pool.CanPay(mustParse(t, "{C}"), 0) {
		t.Error("{C} should be payable with a colorless unit")
	}
}

func TestPay_SnowSymbol(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorGreen, 1)
	if pool.CanPay(mustParse(t, "{S}"), 0) {
		t.Error("{S} must not be payable with non-snow mana")
	}

	pool.AddSnow(ColorGreen, 1)
	payment, err := pool.Pay(mustParse(t, "{S}"), 0)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if payment.UnitsSpent != 1 {
		t.Errorf("units spent = %d, want 1", payment.UnitsSpent)
	}
	if pool.SnowAmount() != 0 || pool.Amount(ColorGreen) != 1 {
		t.Error("the snow unit should pay {S}, leaving the plain unit")
	}
}

func TestPay_SnowManaPaysColoredSymbols(t *testing.T) {
	pool := NewPool()
	pool.AddSnow(ColorGreen, 1)
	if !pool.CanPay(mustParse(t, "{G}"), 0) {
		t.Error("snow green should pay {G}")
	}
}

func TestPay_HybridTakesCheaperSide(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorBlack, 1)
	pool.Add(ColorRed, 2)

	// {2/B}: the black side is cheaper, so only one unit goes to it.
	payment, err := pool.Pay(mustParse(t, "{2/B}"), 0)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if payment.UnitsSpent != 1 {
		t.Errorf("units spent = %d, want 1 (black side)", payment.UnitsSpent)
	}
	if pool.Amount(ColorRed) != 2 {
		t.Errorf("red should be untouched, has %d", pool.Amount(ColorRed))
	}
}

func TestPay_HybridFallsBackToOtherSide(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorRed, 2)

	// No black mana, so {2/B} falls back to the generic side.
	payment, err := pool.Pay(mustParse(t, "{2/B}"), 0)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if payment.UnitsSpent != 2 || pool.Total() != 0 {
		t.Errorf("spent %d, left %d", payment.UnitsSpent, pool.Total())
	}
}

func TestPay_ColorHybridPrefersLeftSide(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorWhite, 1)
	pool.Add(ColorBlue, 1)

	pool2 := pool.Copy()
	pool.Pay(mustParse(t, "{W/U}"), 0)
	pool2.Pay(mustParse(t, "{W/U}"), 0)
	if pool.Amount(ColorWhite) != 0 || pool.Amount(ColorBlue) != 1 {
		t.Error("tied hybrid sides should resolve to the left side")
	}
	if pool2.Amount(ColorWhite) != pool.Amount(ColorWhite) {
		t.Error("identical pools must pay identically")
	}
}

func TestPay_PhyrexianPrefersMana(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorGreen, 1)

	payment, err := pool.Pay(mustParse(t, "{G/P}"), 0)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if payment.LifeOwed != 0 || payment.UnitsSpent != 1 {
		t.Errorf("mana was available; payment = %+v", payment)
	}
}

func TestPay_PhyrexianOwesLifeWithoutMana(t *testing.T) {
	pool := NewPool()

	payment, err := pool.Pay(mustParse(t, "{G/P}{G/P}"), 0)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if payment.LifeOwed != 4 {
		t.Errorf("life owed = %d, want 4", payment.LifeOwed)
	}
	if payment.UnitsSpent != 0 {
		t.Errorf("units spent = %d, want 0", payment.UnitsSpent)
	}
}

func TestPay_XCost(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorRed, 1)
	pool.Add(ColorGreen, 3)

	payment, err := pool.Pay(mustParse(t, "{X}{R}"), 3)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if payment.UnitsSpent != 4 || payment.XValue != 3 {
		t.Errorf("payment = %+v", payment)
	}
	if pool.Total() != 0 {
		t.Errorf("pool should be drained, has %d", pool.Total())
	}
}

func TestPay_DoubleXMultiplies(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorGreen, 4)

	// {X}{X} with X=2 needs four mana.
	if !pool.CanPay(mustParse(t, "{X}{X}"), 2) {
		t.Error("expected {X}{X} with X=2 payable from 4 mana")
	}
	if pool.CanPay(mustParse(t, "{X}{X}"), 3) {
		t.Error("{X}{X} with X=3 needs 6 mana")
	}
}

func TestCanPay_AgreesWithPay(t *testing.T) {
	costs := []string{"{1}{U}", "{2}{R}{R}", "{W/U}", "{2/B}", "{G/P}", "{S}{C}", "{X}{G}"}
	build := func() *Pool {
		pool := NewPool()
		pool.Add(ColorBlue, 1)
		pool.Add(ColorRed, 2)
		pool.Add(ColorGreen, 1)
		pool.AddSnow(ColorWhite, 1)
		pool.Add(ColorColorless, 1)
		return pool
	}

	for _, costStr := range costs {
		cost := mustParse(t, costStr)
		pool := build()
		can := pool.CanPay(cost, 1)
		_, err := pool.Pay(cost, 1)
		if can != (err == nil) {
			t.Errorf("%s: CanPay = %v but Pay error = %v", costStr, can, err)
		}
	}
}

func TestCanPay_DoesNotMutate(t *testing.T) {
	pool := NewPool()
	pool.Add(ColorRed, 3)

	pool.CanPay(mustParse(t, "{2}{R}"), 0)
	if pool.Total() != 3 {
		t.Errorf("CanPay mutated the pool: total = %d", pool.Total())
	}
}
