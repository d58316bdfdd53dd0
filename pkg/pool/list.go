package pool

// List is an auto-id-assigning slot list with free-list reuse. Inserting
// returns a small integer id that stays valid until erased; erased ids
// are recycled by later inserts. It backs the graph's connection storage,
// where both endpoints hold the id as a non-owning back-reference.
//
// List is not safe for concurrent use.
type List[T any] struct {
	items []T
	inUse []bool
	free  []int
}

// Insert stores v and returns its assigned id.
func (l *List[T]) Insert(v T) int {
	if n := len(l.free); n > 0 {
		id := l.free[n-1]
		l.free = l.free[:n-1]
		l.items[id] = v
		l.inUse[id] = true
		return id
	}
	l.items = append(l.items, v)
	l.inUse = append(l.inUse, true)
	return len(l.items) - 1
}

// Erase releases the slot for id. Erasing an id that is not in use is a
// no-op.
func (l *List[T]) Erase(id int) {
	if id < 0 || id >= len(l.items) || !l.inUse[id] {
		return
	}
	var zero T
	l.items[id] = zero
	l.inUse[id] = false
	l.free = append(l.free, id)
}

// InUse reports whether id currently refers to a stored item.
func (l *List[T]) InUse(id int) bool {
	return id >= 0 && id < len(l.items) && l.inUse[id]
}

// Get returns the item for id. It panics if the id is not in use; callers
// are expected to guard with InUse when the id may be stale.
func (l *List[T]) Get(id int) *T {
	if !l.InUse(id) {
		panic("pool: list id not in use")
	}
	return &l.items[id]
}

// Cap returns the total number of slots, in use or free. Valid ids are
// always in [0, Cap).
func (l *List[T]) Cap() int { return len(l.items) }

// Count returns the number of items currently stored.
func (l *List[T]) Count() int { return len(l.items) - len(l.free) }
