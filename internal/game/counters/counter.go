package counters

import (
	"fmt"
	"regexp"
	"strconv"
)

// Counter is a named counter on an object or player.
type Counter struct {
	Name  string
	Count int
}

// NewCounter creates a counter with the given name and count. A count
// below 1 is clamped to 1.
func NewCounter(name string, count int) *Counter {
	if count <= 0 {
		count = 1
	}
	return &Counter{Name: name, Count: count}
}

// Add increases the count. Negative amounts are ignored.
func (c *Counter) Add(amount int) {
	if amount > 0 {
		c.Count += amount
	}
}

// Remove decreases the count, flooring at zero.
func (c *Counter) Remove(amount int) {
	if amount <= 0 {
		return
	}
	c.Count -= amount
	if c.Count < 0 {
		c.Count = 0
	}
}

// Copy returns a deep copy of the counter.
func (c *Counter) Copy() *Counter {
	cpy := *c
	return &cpy
}

// BoostName formats a power/toughness counter name such as "+1/+1" or
// "-1/-1".
func BoostName(power, toughness int) string {
	return fmt.Sprintf("%+d/%+d", power, toughness)
}

var boostPattern = regexp.MustCompile(`^([+-]\d+)/([+-]\d+)$`)

// ParseBoost parses a counter name of the form "+1/+1" into its power
// and toughness deltas. Non-boost names report ok false.
func ParseBoost(name string) (power, toughness int, ok bool) {
	match := boostPattern.FindStringSubmatch(name)
	if match == nil {
		return 0, 0, false
	}
	power, _ = strconv.Atoi(match[1])
	toughness, _ = strconv.Atoi(match[2])
	return power, toughness, true
}

// Set is the collection of counters on a single object or player.
type Set struct {
	counters map[string]*Counter
}

// NewSet creates an empty counter set.
func NewSet() *Set {
	return &Set{counters: make(map[string]*Counter)}
}

// Add merges count counters of the given name into the set.
func (s *Set) Add(name string, count int) {
	if count <= 0 {
		return
	}
	if existing, ok := s.counters[name]; ok {
		existing.Add(count)
		return
	}
	s.counters[name] = NewCounter(name, count)
}

// Remove takes up to count counters of the given name. Returns the
// number actually removed.
func (s *Set) Remove(name string, count int) int {
	counter, ok := s.counters[name]
	if !ok || count <= 0 {
		return 0
	}
	removed := count
	if removed > counter.Count {
		removed = counter.Count
	}
	counter.Remove(removed)
	if counter.Count == 0 {
		delete(s.counters, name)
	}
	return removed
}

// Count returns the number of counters of the given name.
func (s *Set) Count(name string) int {
	if counter, ok := s.counters[name]; ok {
		return counter.Count
	}
	return 0
}

// Has reports whether any counters of the given name are present.
func (s *Set) Has(name string) bool {
	return s.Count(name) > 0
}

// Total returns the count across all names.
func (s *Set) Total() int {
	total := 0
	for _, counter := range s.counters {
		total += counter.Count
	}
	return total
}

// BoostDelta sums the power/toughness contribution of every boost
// counter in the set. "+1/+1" and "-1/-1" counters annihilate here by
// plain arithmetic.
func (s *Set) BoostDelta() (power, toughness int) {
	for name, counter := range s.counters {
		p, t, ok := ParseBoost(name)
		if !ok {
			continue
		}
		power += p * counter.Count
		toughness += t * counter.Count
	}
	return power, toughness
}

// All returns a copy of every counter, keyed by name.
func (s *Set) All() map[string]*Counter {
	out := make(map[string]*Counter, len(s.counters))
	for name, counter := range s.counters {
		out[name] = counter.Copy()
	}
	return out
}

// Copy returns a deep copy of the set.
func (s *Set) Copy() *Set {
	cpy := NewSet()
	for name, counter := range s.counters {
		cpy.counters[name] = counter.Copy()
	}
	return cpy
}
