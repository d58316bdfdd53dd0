package pool

import "testing"

func TestPoolIdentityStability(t *testing.T) {
	p := New[uint32, int]()

	a := p.Get(1)
	*a = 10
	b := p.Get(2)
	*b = 20

	// Frame boundary: both redeclared.
	p.Cleanup(nil)
	p.Reset()
	if got := *p.Get(1); got != 10 {
		t.Errorf("slot 1 after redeclare = %d, want 10", got)
	}
	if got := *p.Get(2); got != 20 {
		t.Errorf("slot 2 after redeclare = %d, want 20", got)
	}

	// Frame boundary: only id 1 redeclared; id 2 must be reclaimed.
	p.Cleanup(nil)
	p.Reset()
	p.Get(1)

	var evicted []uint32
	if n := p.Cleanup(func(id uint32) { evicted = append(evicted, id) }); n != 1 {
		t.Fatalf("Cleanup reclaimed %d, want 1", n)
	}
	if len(evicted) != 1 || evicted[0] != 2 {
		t.Errorf("evicted = %v, want [2]", evicted)
	}
	if p.Contains(2) {
		t.Error("id 2 still resolves after cleanup")
	}

	// Reuse must hand back a zeroed slot, not id 2's old data.
	p.Reset()
	p.Get(1)
	if got := *p.Get(3); got != 0 {
		t.Errorf("recycled slot not zeroed, got %d", got)
	}
}

func TestPoolOrder(t *testing.T) {
	p := New[uint32, string]()
	*p.Get(1) = "a"
	*p.Get(2) = "b"
	*p.Get(3) = "c"

	order := func() []string {
		var got []string
		for _, v := range p.All() {
			got = append(got, *v)
		}
		return got
	}

	if got := order(); got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("insertion order = %v", got)
	}

	if !p.PushToTop(1) {
		t.Fatal("PushToTop(1) = false")
	}
	if got := order(); got[0] != "b" || got[1] != "c" || got[2] != "a" {
		t.Errorf("order after PushToTop = %v", got)
	}

	// Lookup is unaffected by reordering.
	if *p.Get(1) != "a" {
		t.Error("lookup broken after PushToTop")
	}

	var rev []string
	for _, v := range p.Backward() {
		rev = append(rev, *v)
	}
	if rev[0] != "a" || rev[2] != "b" {
		t.Errorf("Backward = %v", rev)
	}

	if p.PushToTop(99) {
		t.Error("PushToTop of unknown id = true")
	}
}

func TestPoolResetDoesNotReclaim(t *testing.T) {
	p := New[uint32, int]()
	*p.Get(7) = 42

	p.Reset()
	if !p.Contains(7) {
		t.Fatal("Reset alone must not evict")
	}
	if p.Active(7) {
		t.Error("Active after Reset = true")
	}
	if got := *p.Get(7); got != 42 {
		t.Errorf("value lost across Reset, got %d", got)
	}
	if !p.Active(7) {
		t.Error("Active after Get = false")
	}
}

func TestPoolCardinality(t *testing.T) {
	p := New[uint32, int]()
	p.Get(1)
	p.Get(2)
	p.Reset()
	p.Get(1)

	if got := p.Len(); got != 2 {
		t.Errorf("Len = %d, want 2 (order keeps inactive slots)", got)
	}
	if got := p.ActiveCount(); got != 1 {
		t.Errorf("ActiveCount = %d, want 1", got)
	}

	p.Cleanup(nil)
	if got, want := p.Len(), 1; got != want {
		t.Errorf("Len after Cleanup = %d, want %d", got, want)
	}
}

func TestPoolAtBounds(t *testing.T) {
	p := New[uint32, int]()
	p.Get(1)

	id, v, active := p.At(0)
	if id != 1 || v == nil || !active {
		t.Errorf("At(0) = (%d, %v, %v)", id, v, active)
	}

	defer func() {
		if recover() == nil {
			t.Error("At out of range did not panic")
		}
	}()
	p.At(5)
}

func TestListInsertErase(t *testing.T) {
	var l List[string]

	a := l.Insert("a")
	b := l.Insert("b")
	if a == b {
		t.Fatal("ids collide")
	}
	if *l.Get(a) != "a" || *l.Get(b) != "b" {
		t.Error("lookup mismatch")
	}

	l.Erase(a)
	if l.InUse(a) {
		t.Error("erased id still in use")
	}
	if l.Count() != 1 {
		t.Errorf("Count = %d, want 1", l.Count())
	}

	// Freed slot is recycled.
	c := l.Insert("c")
	if c != a {
		t.Errorf("Insert after Erase = %d, want recycled %d", c, a)
	}
	if l.Cap() != 2 {
		t.Errorf("Cap = %d, want 2", l.Cap())
	}

	// Double erase is a no-op.
	l.Erase(b)
	l.Erase(b)
	if l.Count() != 1 {
		t.Errorf("Count after double erase = %d, want 1", l.Count())
	}
}
