// Package scenario plays scripted headless editor sessions.
//
// A scenario is a YAML document naming a graph, the nodes it declares
// every frame, and a list of input frames (mouse position, buttons,
// wheel, modifiers). The [Runner] owns a headless host and an editor
// context, replays the frames deterministically, and returns a
// [Result] snapshot of the final graph. The sim command, the inspect
// server, and integration tests all drive the editor through this
// package.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoGraph is returned by [Parse] when the script names no graph.
	ErrNoGraph = errors.New("scenario: graph name must not be empty")

	// ErrNoNodes is returned by [Parse] when the script declares no nodes.
	ErrNoNodes = errors.New("scenario: at least one node required")

	// ErrDuplicateNode is returned by [Parse] when two nodes share a key.
	ErrDuplicateNode = errors.New("scenario: duplicate node key")

	// ErrUnknownPin is returned by [Parse] when a connect entry names a
	// pin no node declares.
	ErrUnknownPin = errors.New("scenario: unknown pin")

	// ErrBadPinType is returned by [Parse] for a negative pin type.
	ErrBadPinType = errors.New("scenario: pin type must not be negative")

	// ErrBadPinPath is returned by [Parse] when a connect endpoint is not
	// of the form "node.pin".
	ErrBadPinPath = errors.New(`scenario: pin path must be "node.pin"`)

	// ErrUnknownButton is returned by [Parse] for a button name other
	// than left, right, or middle.
	ErrUnknownButton = errors.New("scenario: unknown mouse button")

	// ErrUnknownMod is returned by [Parse] for a modifier name other than
	// ctrl, shift, or alt.
	ErrUnknownMod = errors.New("scenario: unknown modifier")
)

// Script is a parsed scenario document.
type Script struct {
	// Name labels the scenario in logs and summaries.
	Name string `yaml:"name"`

	// Graph is the editor graph title. Required.
	Graph string `yaml:"graph"`

	// Size is the graph viewport in pixels. Zero means the editor
	// default.
	Size [2]float32 `yaml:"size"`

	// Style optionally names a TOML style sheet applied to the graph.
	Style string `yaml:"style"`

	// PinColors is the pin type color table, hex notation.
	PinColors []string `yaml:"pin_colors"`

	// Nodes are declared every frame, in order.
	Nodes []NodeDecl `yaml:"nodes"`

	// Connect is applied once, before the scripted frames run.
	Connect []Link `yaml:"connect"`

	// Frames is the input script.
	Frames []Frame `yaml:"frames"`
}

// NodeDecl declares one node of the scripted graph.
type NodeDecl struct {
	Key     string     `yaml:"key"`
	Pos     [2]float32 `yaml:"pos"`
	Header  string     `yaml:"header"`
	Inputs  []PinDecl  `yaml:"inputs"`
	Outputs []PinDecl  `yaml:"outputs"`
}

// PinDecl declares one pin of a node.
type PinDecl struct {
	Key  string `yaml:"key"`
	Type int    `yaml:"type"`
}

// Link names a connection to make before the frames run. Endpoints are
// "node.pin" paths.
type Link struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Frame is one step of synthetic input. Buttons and modifiers are
// absolute: a button held across frames is listed in each. An omitted
// mouse position keeps the previous one.
type Frame struct {
	// Repeat plays the frame this many times. Zero means once.
	Repeat int `yaml:"repeat"`

	Mouse   *[2]float32 `yaml:"mouse"`
	Buttons []string    `yaml:"buttons"`
	Wheel   float32     `yaml:"wheel"`
	Mods    []string    `yaml:"mods"`

	// DT is the frame time step in seconds. Zero means 1/60.
	DT float32 `yaml:"dt"`
}

// TotalFrames returns the number of frames a full replay plays,
// including the priming frame.
func (s *Script) TotalFrames() int {
	n := 1
	for _, f := range s.Frames {
		reps := f.Repeat
		if reps < 1 {
			reps = 1
		}
		n += reps
	}
	return n
}

// Load reads and parses a scenario file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document. Unknown YAML keys
// are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) validate() error {
	if s.Graph == "" {
		return ErrNoGraph
	}
	if len(s.Nodes) == 0 {
		return ErrNoNodes
	}

	pins := make(map[string]struct{})
	seen := make(map[string]struct{})
	for _, n := range s.Nodes {
		if _, ok := seen[n.Key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateNode, n.Key)
		}
		seen[n.Key] = struct{}{}
		for _, p := range n.Inputs {
			if p.Type < 0 {
				return fmt.Errorf("%w: %s.%s", ErrBadPinType, n.Key, p.Key)
			}
			pins[n.Key+"."+p.Key] = struct{}{}
		}
		for _, p := range n.Outputs {
			if p.Type < 0 {
				return fmt.Errorf("%w: %s.%s", ErrBadPinType, n.Key, p.Key)
			}
			pins[n.Key+"."+p.Key] = struct{}{}
		}
	}

	for _, l := range s.Connect {
		for _, path := range []string{l.From, l.To} {
			if !strings.Contains(path, ".") {
				return fmt.Errorf("%w: %q", ErrBadPinPath, path)
			}
			if _, ok := pins[path]; !ok {
				return fmt.Errorf("%w: %q", ErrUnknownPin, path)
			}
		}
	}

	for _, f := range s.Frames {
		for _, b := range f.Buttons {
			if _, err := parseButton(b); err != nil {
				return err
			}
		}
		for _, m := range f.Mods {
			if _, err := parseMod(m); err != nil {
				return err
			}
		}
	}
	return nil
}
