package mana

import (
	"sync"
)

// Unit is one mana in a pool: a color (or colorless) plus a snow flag.
// A snow unit still pays colored symbols of its color; only {S} symbols
// require the snow flag.
type Unit struct {
	Color Color
	Snow  bool
}

// Pool is a player's mana pool: a multiset of typed units. Pools are
// emptied at every step and phase boundary.
type Pool struct {
	mu    sync.RWMutex
	units map[Unit]int
}

// NewPool creates a new empty mana pool.
func NewPool() *Pool {
	return &Pool{units: make(map[Unit]int)}
}

// Add adds regular mana of the given color.
func (p *Pool) Add(color Color, amount int) {
	p.add(Unit{Color: color}, amount)
}

// AddSnow adds snow mana of the given color.
func (p *Pool) AddSnow(color Color, amount int) {
	p.add(Unit{Color: color, Snow: true}, amount)
}

func (p *Pool) add(unit Unit, amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.units[unit] += amount
}

// Amount returns the number of units of the given color, snow included.
func (p *Pool) Amount(color Color) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.units[Unit{Color: color}] + p.units[Unit{Color: color, Snow: true}]
}

// SnowAmount returns the number of snow units of any color.
func (p *Pool) SnowAmount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	total := 0
	for unit, count := range p.units {
		if unit.Snow {
			total += count
		}
	}
	return total
}

// Total returns the total unit count across all types.
func (p *Pool) Total() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	total := 0
	for _, count := range p.units {
		total += count
	}
	return total
}

// Empty removes all mana from the pool. Called at step/phase boundaries.
func (p *Pool) Empty() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.units = make(map[Unit]int)
}

// Copy creates a deep copy of the pool.
func (p *Pool) Copy() *Pool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cpy := NewPool()
	for unit, count := range p.units {
		cpy.units[unit] = count
	}
	return cpy
}

// spend removes amount units of the exact given type. Returns false and
// leaves the pool untouched if there are not enough.
func (p *Pool) spend(unit Unit, amount int) bool {
	if amount <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.units[unit] < amount {
		return false
	}
	p.units[unit] -= amount
	if p.units[unit] == 0 {
		delete(p.units, unit)
	}
	return true
}

// spendColor removes amount units of the given color, non-snow first so
// that snow units stay available for {S} symbols. Returns the number of
// units actually removed (may be less than requested).
func (p *Pool) spendColor(color Color, amount int) int {
	spent := 0
	plain := Unit{Color: color}
	snow := Unit{Color: color, Snow: true}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, unit := range []Unit{plain, snow} {
		for spent < amount && p.units[unit] > 0 {
			p.units[unit]--
			if p.units[unit] == 0 {
				delete(p.units, unit)
			}
			spent++
		}
	}
	return spent
}

// spendAnySnow removes amount snow units in deterministic order (colorless
// first, then WUBRG). Returns the number removed.
func (p *Pool) spendAnySnow(amount int) int {
	spent := 0
	p.mu.Lock()
	defer p.mu.Unlock()
	order := append([]Color{ColorColorless}, colorOrder...)
	for _, color := range order {
		unit := Unit{Color: color, Snow: true}
		for spent < amount && p.units[unit] > 0 {
			p.units[unit]--
			if p.units[unit] == 0 {
				delete(p.units, unit)
			}
			spent++
		}
	}
	return spent
}

// spendAny removes amount units of any type in deterministic order:
// colorless before colored (WUBRG), non-snow before snow. Used for
// generic costs. Returns the number removed.
func (p *Pool) spendAny(amount int) int {
	spent := 0
	p.mu.Lock()
	defer p.mu.Unlock()
	order := append([]Color{ColorColorless}, colorOrder...)
	for _, snow := range []bool{false, true} {
		for _, color := range order {
			unit := Unit{Color: color, Snow: snow}
			for spent < amount && p.units[unit] > 0 {
				p.units[unit]--
				if p.units[unit] == 0 {
					delete(p.units, unit)
				}
				spent++
			}
		}
	}
	return spent
}
