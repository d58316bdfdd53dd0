// Package pool provides the reclaimable stable-identity collections that
// back nodewire's per-frame retained state.
//
// A [Pool] maps a stable identifier to a slot, keeps an iteration order
// that is independent of slot layout, and recycles slots through a free
// list. The intended per-frame protocol is:
//
//	reclaimed := p.Cleanup() // evict everything not redeclared last frame
//	p.Reset()                // clear active flags for the new frame
//	// ... p.Get(id) for every entity declared this frame ...
//
// An entity that is not redeclared in a frame is therefore dropped at the
// start of the next frame. Identity is only reclaimed by Cleanup; Reset
// alone never invalidates a lookup.
package pool

import "iter"

// Pool is a stable-identity collection with O(1) lookup, free-list slot
// reuse, and a mutable iteration order. The zero value of Pool is not
// usable; create instances with [New].
//
// Pool is not safe for concurrent use.
type Pool[K comparable, T any] struct {
	slots  []T
	ids    []K
	active []bool
	free   []int
	index  map[K]int
	order  []int // slot indices in iteration (paint) order
}

// New creates an empty pool.
func New[K comparable, T any]() *Pool[K, T] {
	return &Pool[K, T]{index: make(map[K]int)}
}

// Get returns the item for id, allocating a fresh zero-valued slot if the
// id is unknown. The slot is marked active either way. Newly created slots
// are appended to the iteration order. Get never fails.
func (p *Pool[K, T]) Get(id K) *T {
	if idx, ok := p.index[id]; ok {
		p.active[idx] = true
		return &p.slots[idx]
	}

	var idx int
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
		var zero T
		p.slots[idx] = zero
	} else {
		idx = len(p.slots)
		var zero T
		p.slots = append(p.slots, zero)
		p.ids = append(p.ids, id)
		p.active = append(p.active, false)
	}

	p.ids[idx] = id
	p.active[idx] = true
	p.index[id] = idx
	p.order = append(p.order, idx)
	return &p.slots[idx]
}

// Lookup returns the item for id without allocating or touching the
// active flag. It is the read path for behavior code that must not
// resurrect entities as a side effect of a query.
func (p *Pool[K, T]) Lookup(id K) (*T, bool) {
	idx, ok := p.index[id]
	if !ok {
		return nil, false
	}
	return &p.slots[idx], true
}

// Contains reports whether id currently resolves to a slot.
func (p *Pool[K, T]) Contains(id K) bool {
	_, ok := p.index[id]
	return ok
}

// Active reports whether id resolves to a slot that has been re-acquired
// since the last Reset.
func (p *Pool[K, T]) Active(id K) bool {
	idx, ok := p.index[id]
	return ok && p.active[idx]
}

// Reset clears every active flag. Items keep their identity and contents;
// only a following Cleanup actually reclaims slots that were not
// re-acquired in between.
func (p *Pool[K, T]) Reset() {
	for i := range p.active {
		p.active[i] = false
	}
}

// Cleanup evicts every inactive slot: the slot index is pushed onto the
// free list and removed from both the id index and the iteration order.
// It returns the number of slots reclaimed. The reclaimed ids are
// reported through the optional callback before eviction, so callers can
// drop lingering references (selection entries, channel bookkeeping).
func (p *Pool[K, T]) Cleanup(evicted func(id K)) int {
	reclaimed := 0
	kept := p.order[:0]
	for _, idx := range p.order {
		if p.active[idx] {
			kept = append(kept, idx)
			continue
		}
		if evicted != nil {
			evicted(p.ids[idx])
		}
		delete(p.index, p.ids[idx])
		p.free = append(p.free, idx)
		reclaimed++
	}
	p.order = kept
	return reclaimed
}

// PushToTop moves the slot for id to the end of the iteration order, so a
// pool used as a paint order draws it last (on top). The id index is
// untouched. Returns false if id is unknown. O(n) in the order length.
func (p *Pool[K, T]) PushToTop(id K) bool {
	idx, ok := p.index[id]
	if !ok {
		return false
	}
	for i, o := range p.order {
		if o == idx {
			copy(p.order[i:], p.order[i+1:])
			p.order[len(p.order)-1] = idx
			return true
		}
	}
	return false
}

// Len returns the number of slots in the iteration order, active or not.
func (p *Pool[K, T]) Len() int { return len(p.order) }

// ActiveCount returns the number of active slots.
func (p *Pool[K, T]) ActiveCount() int {
	n := 0
	for _, idx := range p.order {
		if p.active[idx] {
			n++
		}
	}
	return n
}

// At returns the id and item at position i in the iteration order along
// with its active flag. It panics if i is out of range; indexed access to
// a pool is reserved for iteration code that already holds a valid range.
func (p *Pool[K, T]) At(i int) (K, *T, bool) {
	if i < 0 || i >= len(p.order) {
		panic("pool: index out of range")
	}
	idx := p.order[i]
	return p.ids[idx], &p.slots[idx], p.active[idx]
}

// All iterates over the active items in iteration order (back-to-front
// for pools used as paint order).
func (p *Pool[K, T]) All() iter.Seq2[K, *T] {
	return func(yield func(K, *T) bool) {
		for _, idx := range p.order {
			if !p.active[idx] {
				continue
			}
			if !yield(p.ids[idx], &p.slots[idx]) {
				return
			}
		}
	}
}

// Backward iterates over the active items in reverse iteration order
// (front-to-back; the topmost painted item is visited first).
func (p *Pool[K, T]) Backward() iter.Seq2[K, *T] {
	return func(yield func(K, *T) bool) {
		for i := len(p.order) - 1; i >= 0; i-- {
			idx := p.order[i]
			if !p.active[idx] {
				continue
			}
			if !yield(p.ids[idx], &p.slots[idx]) {
				return
			}
		}
	}
}
