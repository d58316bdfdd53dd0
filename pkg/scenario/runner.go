package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
	"github.com/mkordik/nodewire/pkg/nodewire"
	"github.com/mkordik/nodewire/pkg/observability"
)

// Runner replays one scenario against a headless host. A Runner is
// single-use: create one per run.
type Runner struct {
	Logger *log.Logger

	script *Script
	host   *imm.Context
	ctx    *nodewire.Context

	runID     uuid.UUID
	colors    []imm.Color
	positions map[string]*geom.Vec2
	pinRefs   map[string]nodewire.PinRef
	in        imm.Input

	prevConnections int
	prevSelected    int

	frames int
	cursor int
	rep    int
}

// Result is the final graph snapshot of a run.
type Result struct {
	RunID  uuid.UUID
	Name   string
	Graph  string
	Frames int

	Nodes       []NodeState
	Connections []Link
	Selected    []string

	Elapsed time.Duration
}

// NodeState is the resting state of one node after the run.
type NodeState struct {
	Key      string
	Pos      geom.Vec2
	Selected bool
}

// New prepares a runner for the script. The logger may be nil.
func New(script *Script, logger *log.Logger) (*Runner, error) {
	if logger == nil {
		logger = log.Default()
	}

	colors := make([]imm.Color, 0, len(script.PinColors))
	for i, hex := range script.PinColors {
		c, err := nodewire.ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("pin color %d: %w", i, err)
		}
		colors = append(colors, c)
	}
	// Pad the table so every declared pin type has a color.
	for len(colors) <= maxPinType(script) {
		colors = append(colors, imm.RGB(0x88, 0x88, 0x88))
	}

	host := imm.NewContext()
	r := &Runner{
		Logger:    logger,
		script:    script,
		host:      host,
		ctx:       nodewire.CreateContext(host),
		runID:     uuid.New(),
		colors:    colors,
		positions: make(map[string]*geom.Vec2, len(script.Nodes)),
		pinRefs:   make(map[string]nodewire.PinRef),
		in:        imm.Input{DeltaTime: 1.0 / 60.0, Focused: true},
	}
	for _, n := range script.Nodes {
		pos := geom.V(n.Pos[0], n.Pos[1])
		r.positions[n.Key] = &pos
	}
	return r, nil
}

// RunID returns the unique identifier of this run.
func (r *Runner) RunID() uuid.UUID { return r.runID }

// Close releases the editor context.
func (r *Runner) Close() {
	nodewire.DestroyContext(r.ctx)
}

// Prime plays the setup frame so every pin exists, then applies the
// script's seeded connections and style sheet. It must run once before
// Step.
func (r *Runner) Prime(ctx context.Context) error {
	r.playFrame(ctx)
	r.frames = 1

	if err := r.applyConnects(); err != nil {
		return err
	}
	return r.applyStyle()
}

// Step plays the next scripted frame, honoring repeat counts. It
// reports false once the script is exhausted.
func (r *Runner) Step(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("scenario canceled: %w", err)
	}
	for r.cursor < len(r.script.Frames) {
		f := r.script.Frames[r.cursor]
		reps := f.Repeat
		if reps < 1 {
			reps = 1
		}
		if r.rep >= reps {
			r.cursor++
			r.rep = 0
			continue
		}
		if err := r.applyInput(f); err != nil {
			return false, err
		}
		r.playFrame(ctx)
		r.rep++
		r.frames++
		return true, nil
	}
	return false, nil
}

// Snapshot captures the current state of the graph mid-replay.
func (r *Runner) Snapshot() *Result {
	res := r.snapshot()
	res.Frames = r.frames
	return res
}

// Run replays the whole script and snapshots the final graph. The
// context cancels the replay between frames.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	r.Logger.Info("scenario start", "run", r.runID, "name", r.script.Name, "frames", len(r.script.Frames))

	if err := r.Prime(ctx); err != nil {
		return nil, err
	}
	for {
		more, err := r.Step(ctx)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	res := r.Snapshot()
	res.Elapsed = time.Since(start)
	r.Logger.Info("scenario done",
		"run", r.runID,
		"nodes", len(res.Nodes),
		"connections", len(res.Connections),
		"duration", res.Elapsed)
	return res, nil
}

func (r *Runner) applyInput(f Frame) error {
	if f.Mouse != nil {
		r.in.MousePos = geom.V(f.Mouse[0], f.Mouse[1])
	}
	r.in.MouseDown = [3]bool{}
	for _, name := range f.Buttons {
		b, err := parseButton(name)
		if err != nil {
			return err
		}
		r.in.MouseDown[b] = true
	}
	r.in.Mods = 0
	for _, name := range f.Mods {
		m, err := parseMod(name)
		if err != nil {
			return err
		}
		r.in.Mods |= m
	}
	r.in.MouseWheel = f.Wheel
	r.in.DeltaTime = f.DT
	if r.in.DeltaTime <= 0 {
		r.in.DeltaTime = 1.0 / 60.0
	}
	return nil
}

func (r *Runner) playFrame(ctx context.Context) {
	observability.Frame().OnFrameStart(ctx, r.script.Graph)
	start := time.Now()

	r.host.NewFrame(r.in)
	r.declare()

	g := r.graph()
	observability.Frame().OnFrameComplete(ctx, r.script.Graph, g.NodeCount(), time.Since(start))
	r.emitGraphEvents(ctx, g)
}

// emitGraphEvents diffs connection and selection counts against the
// previous frame.
func (r *Runner) emitGraphEvents(ctx context.Context, g *nodewire.Graph) {
	if n := g.ConnectionCount(); n != r.prevConnections {
		for i := r.prevConnections; i < n; i++ {
			observability.Graph().OnConnectionMade(ctx, r.script.Graph)
		}
		for i := n; i < r.prevConnections; i++ {
			observability.Graph().OnConnectionBroken(ctx, r.script.Graph)
		}
		r.prevConnections = n
	}
	if n := len(g.SelectedNodes()); n != r.prevSelected {
		observability.Graph().OnSelectionChanged(ctx, r.script.Graph, n)
		r.prevSelected = n
	}
}

func (r *Runner) declare() {
	size := geom.V(r.script.Size[0], r.script.Size[1])
	r.ctx.BeginGraph(r.script.Graph, size)
	if len(r.colors) > 0 {
		r.ctx.SetPinColors(r.colors)
	}

	style := nodewire.DefaultStyle()
	for _, n := range r.script.Nodes {
		r.ctx.BeginNode(n.Key, r.positions[n.Key])
		if n.Header != "" {
			r.ctx.BeginNodeHeader(n.Header,
				style.Color(nodewire.ColorNodeHeader),
				style.Color(nodewire.ColorNodeHeaderHovered),
				style.Color(nodewire.ColorNodeHeaderActive))
			r.host.Text(n.Header)
			r.ctx.EndNodeHeader()
		}
		for _, p := range n.Inputs {
			r.ctx.BeginPin(p.Key, nodewire.PinType(p.Type), nodewire.PinInput, 0)
			r.pinRefs[n.Key+"."+p.Key] = r.ctx.CurrentPinRef()
			r.host.Text(p.Key)
			r.ctx.EndPin()
		}
		for _, p := range n.Outputs {
			r.ctx.BeginPin(p.Key, nodewire.PinType(p.Type), nodewire.PinOutput, 0)
			r.pinRefs[n.Key+"."+p.Key] = r.ctx.CurrentPinRef()
			r.host.Text(p.Key)
			r.ctx.EndPin()
		}
		r.ctx.EndNode()
	}
	r.ctx.EndGraph()
}

func (r *Runner) applyConnects() error {
	if len(r.script.Connect) == 0 {
		return nil
	}
	r.ctx.BeginGraphPostOp(r.script.Graph)
	defer r.ctx.EndGraphPostOp()

	for _, l := range r.script.Connect {
		from, okF := r.pinRefs[l.From]
		to, okT := r.pinRefs[l.To]
		if !okF || !okT {
			return fmt.Errorf("%w: %q -> %q", ErrUnknownPin, l.From, l.To)
		}
		if !r.ctx.MakeConnection(from, to) {
			return fmt.Errorf("scenario: connection %q -> %q rejected", l.From, l.To)
		}
	}
	return nil
}

func (r *Runner) applyStyle() error {
	if r.script.Style == "" {
		return nil
	}
	style, settings, err := nodewire.LoadStyle(r.script.Style)
	if err != nil {
		return err
	}
	g := r.graph()
	pinColors := g.Style.PinColors
	g.Style = style
	if len(style.PinColors) == 0 {
		g.Style.PinColors = pinColors
	}
	g.Settings = settings
	return nil
}

func (r *Runner) graph() *nodewire.Graph {
	return r.ctx.Graph(r.script.Graph)
}

func (r *Runner) snapshot() *Result {
	g := r.graph()
	res := &Result{
		RunID: r.runID,
		Name:  r.script.Name,
		Graph: r.script.Graph,
	}

	g.Nodes(func(n *nodewire.Node) bool {
		res.Nodes = append(res.Nodes, NodeState{
			Key:      n.UserID().String(),
			Pos:      n.Root,
			Selected: g.IsNodeSelected(n.ID()),
		})
		return true
	})

	g.Connections(func(_ nodewire.ConnectionID, conn nodewire.Connection) bool {
		out, in := conn.A, conn.B
		if out.Direction == nodewire.PinInput {
			out, in = in, out
		}
		res.Connections = append(res.Connections, Link{
			From: r.pinPath(g, out),
			To:   r.pinPath(g, in),
		})
		return true
	})

	for _, id := range g.SelectedNodes() {
		if n, ok := g.Node(id); ok {
			res.Selected = append(res.Selected, n.UserID().String())
		}
	}
	return res
}

func (r *Runner) pinPath(g *nodewire.Graph, ref nodewire.PinRef) string {
	node, ok := g.Node(ref.Node)
	if !ok {
		return "?"
	}
	pin, ok := g.Pin(ref)
	if !ok {
		return "?"
	}
	return node.UserID().String() + "." + pin.UserID().String()
}

// Graph exposes the live graph for callers that want to export or
// inspect beyond the snapshot.
func (r *Runner) Graph() *nodewire.Graph { return r.graph() }

func maxPinType(s *Script) int {
	m := -1
	for _, n := range s.Nodes {
		for _, p := range n.Inputs {
			m = max(m, p.Type)
		}
		for _, p := range n.Outputs {
			m = max(m, p.Type)
		}
	}
	return m
}

func parseButton(name string) (imm.MouseButton, error) {
	switch name {
	case "left":
		return imm.MouseLeft, nil
	case "right":
		return imm.MouseRight, nil
	case "middle":
		return imm.MouseMiddle, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownButton, name)
}

func parseMod(name string) (imm.ModKeys, error) {
	switch name {
	case "ctrl":
		return imm.ModCtrl, nil
	case "shift":
		return imm.ModShift, nil
	case "alt":
		return imm.ModAlt, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMod, name)
}
