package rules

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Band orders interceptors relative to each other: replacement effects run
// before triggered reactions, observers run last.
type Band int

const (
	// BandReplacement interceptors may mutate or prevent the event before
	// anything reacts to it.
	BandReplacement Band = iota
	// BandTrigger interceptors react to the (possibly modified) event by
	// emitting secondary events.
	BandTrigger
	// BandObserver interceptors only watch; they run after all others.
	BandObserver
)

// Outcome is what an interceptor's Apply reports back to the pipeline.
// Payload mutation happens in place on the event; Prevented stops
// dispatch and suppresses the default effect; Emitted events are queued
// and drained FIFO after the current event finishes.
type Outcome struct {
	Prevented bool
	Emitted   []Event
}

// Interceptor is a registered listener on one event kind. The predicate
// narrows matches beyond the kind (for example, damage events targeting
// the owner's object). Interceptors never mutate game state directly;
// they work through the event payload and through emitted events.
type Interceptor struct {
	ID      string
	OwnerID string
	Kind    EventKind
	Band    Band
	Match   func(*Event) bool
	Apply   func(*Event) Outcome

	seq uint64
}

// InterceptorRegistry holds all interceptors of a single game. Ownership
// is expressed through OwnerID so that cleanup on zone exit is a single
// removal, not a scan by the caller.
type InterceptorRegistry struct {
	mu      sync.RWMutex
	byID    map[string]*Interceptor
	byKind  map[EventKind][]*Interceptor
	byOwner map[string][]string
	nextSeq uint64
}

// NewInterceptorRegistry creates an empty registry.
func NewInterceptorRegistry() *InterceptorRegistry {
	return &InterceptorRegistry{
		byID:    make(map[string]*Interceptor),
		byKind:  make(map[EventKind][]*Interceptor),
		byOwner: make(map[string][]string),
	}
}

// Register adds an interceptor and returns its ID. Registration order is
// remembered and used as the deterministic tie-break within a band.
func (r *InterceptorRegistry) Register(in Interceptor) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.seq = r.nextSeq
	r.nextSeq++

	stored := &in
	r.byID[in.ID] = stored
	r.byKind[in.Kind] = append(r.byKind[in.Kind], stored)
	if in.OwnerID != "" {
		r.byOwner[in.OwnerID] = append(r.byOwner[in.OwnerID], in.ID)
	}
	return in.ID
}

// Remove deletes an interceptor by ID.
func (r *InterceptorRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id)
}

// RemoveOwned deletes every interceptor owned by the given object.
// Called when the object leaves the zone that gates its abilities.
func (r *InterceptorRegistry) RemoveOwned(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.byOwner[ownerID] {
		r.removeLocked(id)
	}
	delete(r.byOwner, ownerID)
}

func (r *InterceptorRegistry) removeLocked(id string) {
	in, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	kindList := r.byKind[in.Kind]
	for i, candidate := range kindList {
		if candidate.ID == id {
			r.byKind[in.Kind] = append(kindList[:i], kindList[i+1:]...)
			break
		}
	}
	if in.OwnerID != "" {
		ownedIDs := r.byOwner[in.OwnerID]
		for i, ownedID := range ownedIDs {
			if ownedID == id {
				r.byOwner[in.OwnerID] = append(ownedIDs[:i], ownedIDs[i+1:]...)
				break
			}
		}
	}
}

// OwnedBy returns the IDs of all interceptors owned by the given object.
func (r *InterceptorRegistry) OwnedBy(ownerID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.byOwner[ownerID]))
	copy(ids, r.byOwner[ownerID])
	return ids
}

// Count returns the number of registered interceptors.
func (r *InterceptorRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Matching returns the interceptors matching the event, sorted by band
// then registration order. The slice is a copy; dispatch iterates it
// safely even if interceptors unregister themselves via emitted events.
func (r *InterceptorRegistry) Matching(ev *Event) []*Interceptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := r.byKind[ev.Kind]
	if len(candidates) == 0 {
		return nil
	}

	matched := make([]*Interceptor, 0, len(candidates))
	for _, in := range candidates {
		if in.Match != nil && !in.Match(ev) {
			continue
		}
		matched = append(matched, in)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Band != matched[j].Band {
			return matched[i].Band < matched[j].Band
		}
		return matched[i].seq < matched[j].seq
	})
	return matched
}
