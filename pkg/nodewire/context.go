package nodewire

import (
	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
)

// GlyphRange is an inclusive rune interval a rendering host should
// cover when loading a font face.
type GlyphRange struct {
	Lo, Hi rune
}

// FontConfig records a font registered with [Context.AddFont]. The
// headless core only uses the size; a rendering host can use Path and
// Ranges to load the actual face.
type FontConfig struct {
	Path   string
	Size   float32
	Ranges []GlyphRange
}

// Context owns the graphs declared through it and tracks the current
// Begin/End nesting. Like its host, a Context is single-goroutine.
type Context struct {
	host *imm.Context

	scope scope

	graphs    map[imm.ID]*Graph
	graphList []*Graph

	current *Graph

	fonts []FontConfig

	savedFramePadding geom.Vec2
	savedItemSpacing  geom.Vec2
	savedFontScale    float32
}

var currentContext *Context

// CreateContext creates a context driven by host. The first context
// created becomes the current one.
func CreateContext(host *imm.Context) *Context {
	assert(host != nil, "CreateContext requires a host context")
	ctx := &Context{
		host:   host,
		graphs: make(map[imm.ID]*Graph),
	}
	if currentContext == nil {
		currentContext = ctx
	}
	return ctx
}

// DestroyContext releases ctx and all its graphs. Passing nil destroys
// the current context.
func DestroyContext(ctx *Context) {
	if ctx == nil {
		ctx = currentContext
	}
	assert(ctx != nil, "DestroyContext with no context")
	ctx.graphs = nil
	ctx.graphList = nil
	ctx.current = nil
	if currentContext == ctx {
		currentContext = nil
	}
}

// CurrentContext returns the current context, nil if none.
func CurrentContext() *Context { return currentContext }

// SetCurrentContext makes ctx current.
func SetCurrentContext(ctx *Context) { currentContext = ctx }

// Host returns the immediate-mode context this editor draws through.
func (c *Context) Host() *imm.Context { return c.host }

// AddFont registers a font for graph text. Optional glyph ranges tell
// a rendering host which runes to rasterize; layout metrics ignore
// them. The first font added sets the base text size used for all
// layout metrics.
func (c *Context) AddFont(path string, size float32, ranges ...GlyphRange) {
	c.fonts = append(c.fonts, FontConfig{Path: path, Size: size, Ranges: ranges})
	if len(c.fonts) == 1 {
		c.host.SetBaseFontSize(size)
	}
}

// Fonts returns the registered fonts in registration order.
func (c *Context) Fonts() []FontConfig { return c.fonts }

// findGraphByID returns the graph for a hashed title, nil if it has
// not been declared yet.
func (c *Context) findGraphByID(id imm.ID) *Graph { return c.graphs[id] }

// Graph returns the graph declared under title, nil before its first
// BeginGraph.
func (c *Context) Graph(title string) *Graph {
	return c.findGraphByID(imm.HashString(0, title))
}

func (c *Context) newGraph(title string, id imm.ID) *Graph {
	g := &Graph{
		ctx:        c,
		name:       title,
		id:         id,
		Style:      DefaultStyle(),
		Settings:   DefaultSettings(),
		Camera:     Camera{Scale: 1},
		targetZoom: 1,
		selected:   make(map[imm.ID]struct{}),
	}
	g.nodes = newNodePool()
	c.graphs[id] = g
	c.graphList = append(c.graphList, g)
	return g
}
