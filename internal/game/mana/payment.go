package mana

import (
	"fmt"
)

// Payment reports what a successful Pay consumed. LifeOwed is the life
// payment for phyrexian symbols paid without mana; charging the life is
// the caller's job, outside the pool.
type Payment struct {
	UnitsSpent int
	LifeOwed   int
	XValue     int
}

// phyrexianLife is the life cost of a phyrexian symbol paid without mana.
const phyrexianLife = 2

// Pay pays the cost from the pool. Payment proceeds in a fixed priority
// order: exact colored symbols, colorless, snow, hybrid (cheaper side
// first), phyrexian (mana before life), X (count times xValue), then
// generic from whatever remains. The algorithm runs against a copy and
// commits only on success, so a failed Pay never mutates the pool.
func (p *Pool) Pay(cost *Cost, xValue int) (*Payment, error) {
	if cost == nil {
		return &Payment{}, nil
	}
	if cost.X > 0 && xValue < 0 {
		return nil, fmt.Errorf("cost has X but no X value chosen")
	}

	working := p.Copy()
	payment, err := payFrom(working, cost, xValue)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.units = working.units
	p.mu.Unlock()
	return payment, nil
}

// CanPay reports whether Pay would succeed, by running the identical
// algorithm against a throwaway copy. Legality checks must never have
// side effects, so the real pool is untouched.
func (p *Pool) CanPay(cost *Cost, xValue int) bool {
	if cost == nil {
		return true
	}
	if cost.X > 0 && xValue < 0 {
		return false
	}
	_, err := payFrom(p.Copy(), cost, xValue)
	return err == nil
}

// payFrom mutates the working pool according to the payment priority
// order. Both Pay and CanPay funnel through here; that shared path is
// what keeps the two in agreement.
func payFrom(working *Pool, cost *Cost, xValue int) (*Payment, error) {
	payment := &Payment{XValue: xValue}

	// 1. Exact colored symbols.
	for _, color := range colorOrder {
		need := cost.ColoredCount(color)
		if spent := working.spendColor(color, need); spent < need {
			return nil, fmt.Errorf("insufficient %s mana (need %d, short %d)", color, need, need-spent)
		}
		payment.UnitsSpent += need
	}

	// 2. Colorless symbols ({C} requires true colorless units).
	if spent := working.spendColor(ColorColorless, cost.Colorless); spent < cost.Colorless {
		return nil, fmt.Errorf("insufficient colorless mana (need %d)", cost.Colorless)
	}
	payment.UnitsSpent += cost.Colorless

	// 3. Snow symbols.
	if spent := working.spendAnySnow(cost.Snow); spent < cost.Snow {
		return nil, fmt.Errorf("insufficient snow mana (need %d)", cost.Snow)
	}
	payment.UnitsSpent += cost.Snow

	// 4. Hybrid symbols: try sides cheapest-first, left before right.
	for _, hybrid := range cost.Hybrid {
		spent, err := paySide(working, orderSides(hybrid))
		if err != nil {
			return nil, fmt.Errorf("cannot pay hybrid symbol %s: %w", hybrid, err)
		}
		payment.UnitsSpent += spent
	}

	// 5. Phyrexian symbols: mana of the color if available, life otherwise.
	for _, color := range cost.Phyrexian {
		if working.spendColor(color, 1) == 1 {
			payment.UnitsSpent++
		} else {
			payment.LifeOwed += phyrexianLife
		}
	}

	// 6+7. X symbols and generic, from whatever remains.
	generic := cost.Generic + cost.X*xValue
	if spent := working.spendAny(generic); spent < generic {
		return nil, fmt.Errorf("insufficient mana for generic cost (need %d, short %d)", generic, generic-spent)
	}
	payment.UnitsSpent += generic

	return payment, nil
}

// orderSides sorts a hybrid symbol's sides by how cheap they currently
// are: lower mana value first, left side winning ties.
func orderSides(h Hybrid) []Side {
	if h.Right.Value() < h.Left.Value() {
		return []Side{h.Right, h.Left}
	}
	return []Side{h.Left, h.Right}
}

// paySide pays the first satisfiable side of a hybrid symbol. Returns the
// units spent.
func paySide(working *Pool, sides []Side) (int, error) {
	for _, side := range sides {
		if side.Generic > 0 {
			if working.Total() >= side.Generic {
				working.spendAny(side.Generic)
				return side.Generic, nil
			}
			continue
		}
		if working.spendColor(side.Color, 1) == 1 {
			return 1, nil
		}
	}
	return 0, fmt.Errorf("no side payable")
}
