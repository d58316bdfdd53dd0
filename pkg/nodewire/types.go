package nodewire

import (
	"strconv"

	"github.com/mkordik/nodewire/pkg/imm"
)

// scope tracks which Begin/End pair the context is currently inside.
// Every public entry point asserts the scope it requires.
type scope int

const (
	scopeNone scope = iota
	scopeGraph
	scopeNode
	scopeNodeHeader
	scopePin
)

func (s scope) String() string {
	switch s {
	case scopeNone:
		return "none"
	case scopeGraph:
		return "graph"
	case scopeNode:
		return "node"
	case scopeNodeHeader:
		return "node header"
	case scopePin:
		return "pin"
	}
	return "unknown"
}

// PinType is a user-defined pin category. It indexes the color table
// registered with [Context.SetPinColors] and is available to connection
// validators; nodewire itself attaches no meaning to it.
type PinType int

// PinDirection distinguishes input pins (left column, at most one
// connection) from output pins (right column, fan-out).
type PinDirection uint8

// Pin directions.
const (
	PinInput PinDirection = iota
	PinOutput
)

func (d PinDirection) String() string {
	if d == PinInput {
		return "input"
	}
	return "output"
}

// PinFlags adjust pin layout.
type PinFlags uint8

// Pin flags.
const (
	// PinFlagNoPadding drops the pin-head-sized spacer that keeps an
	// output pin's content aligned with the input column.
	PinFlagNoPadding PinFlags = 1 << iota
)

// PinRef addresses a pin across frames: the owning node's ID, the pin's
// ID within that node, and which side it lives on. The zero value is
// not a valid reference.
type PinRef struct {
	Node      imm.ID
	Pin       imm.ID
	Direction PinDirection
}

// ConnectionID is a handle into a graph's connection list. Handles stay
// valid until the connection is broken or pruned.
type ConnectionID = int

// Connection is an unordered pair of pin references.
type Connection struct {
	A, B PinRef
}

// Opposite returns the endpoint that is not ref.
func (c Connection) Opposite(ref PinRef) PinRef {
	if c.A == ref {
		return c.B
	}
	return c.A
}

// UserID carries the caller-side key a node or pin was declared with,
// so tools walking the graph can map hashed IDs back to something
// meaningful.
type UserID struct {
	Str    string
	Int    int
	HasStr bool
}

// String renders the key: the string form, or the int in decimal.
func (u UserID) String() string {
	if u.HasStr {
		return u.Str
	}
	return strconv.Itoa(u.Int)
}

// optID is an optional entity ID. The zero value is empty.
type optID struct {
	id imm.ID
	ok bool
}

func (o *optID) set(id imm.ID) { o.id, o.ok = id, true }
func (o *optID) reset()        { *o = optID{} }
func (o optID) is(id imm.ID) bool {
	return o.ok && o.id == id
}

// optPinRef is an optional pin reference. The zero value is empty.
type optPinRef struct {
	ref PinRef
	ok  bool
}

func (o *optPinRef) set(ref PinRef) { o.ref, o.ok = ref, true }
func (o *optPinRef) reset()         { *o = optPinRef{} }
func (o optPinRef) is(ref PinRef) bool {
	return o.ok && o.ref == ref
}
