package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mkordik/nodewire/pkg/scenario"
)

// List styles
var (
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiOpts holds the command-line flags for the tui command.
type tuiOpts struct {
	fps   int  // playback speed in frames per second
	watch bool // reload the script when the file changes on disk
}

// tuiCommand creates the tui command for stepping through a session.
func (c *CLI) tuiCommand() *cobra.Command {
	opts := tuiOpts{fps: 30}

	cmd := &cobra.Command{
		Use:   "tui [script]",
		Short: "Step through an editing session interactively",
		Long: `Replay a YAML editing script in the terminal, one frame at a time
or at a fixed playback rate, showing node positions, selection, and
connections as they evolve. With --watch the script is reloaded and
restarted whenever the file changes on disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.fps, "fps", opts.fps, "playback speed in frames per second")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the script when it changes on disk")

	return cmd
}

// runTUI starts the bubbletea program for the script.
func runTUI(ctx context.Context, path string, opts *tuiOpts) error {
	logger := loggerFromContext(ctx)

	m, err := newSessionModel(ctx, path, opts, logger)
	if err != nil {
		return err
	}
	defer m.close()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// SessionModel - Interactive frame-by-frame replay
// =============================================================================

type tickMsg time.Time

type reloadMsg struct{}

// SessionModel is the bubbletea model for interactive session replay.
type SessionModel struct {
	ctx    context.Context
	logger *log.Logger
	opts   *tuiOpts
	path   string

	runner   *scenario.Runner
	snapshot *scenario.Result
	total    int

	playing bool
	done    bool
	err     error

	watcher  *fsnotify.Watcher
	reloadCh chan struct{}
	height   int
}

// newSessionModel loads the script, primes a runner, and optionally
// starts a file watcher for hot reload.
func newSessionModel(ctx context.Context, path string, opts *tuiOpts, logger *log.Logger) (*SessionModel, error) {
	m := &SessionModel{
		ctx:    ctx,
		logger: logger,
		opts:   opts,
		path:   path,
		height: 15,
	}
	if err := m.load(); err != nil {
		return nil, err
	}

	if opts.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("starting watcher: %w", err)
		}
		if err := w.Add(path); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching %s: %w", path, err)
		}
		m.watcher = w
		m.reloadCh = make(chan struct{}, 1)
		go m.forwardWrites()
	}
	return m, nil
}

// load parses the script and primes a fresh runner, replacing any
// previous one.
func (m *SessionModel) load() error {
	script, err := scenario.Load(m.path)
	if err != nil {
		return err
	}
	runner, err := scenario.New(script, m.logger)
	if err != nil {
		return err
	}
	if err := runner.Prime(m.ctx); err != nil {
		runner.Close()
		return err
	}

	if m.runner != nil {
		m.runner.Close()
	}
	m.runner = runner
	m.snapshot = runner.Snapshot()
	m.total = script.TotalFrames()
	m.playing = false
	m.done = false
	m.err = nil
	return nil
}

// close releases the runner and the file watcher.
func (m *SessionModel) close() {
	if m.runner != nil {
		m.runner.Close()
	}
	if m.watcher != nil {
		m.watcher.Close()
	}
}

// forwardWrites collapses watcher write events into reload signals.
func (m *SessionModel) forwardWrites() {
	for ev := range m.watcher.Events {
		if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			continue
		}
		select {
		case m.reloadCh <- struct{}{}:
		default:
		}
	}
}

// waitForReload blocks until the watcher reports a change.
func (m *SessionModel) waitForReload() tea.Cmd {
	if m.reloadCh == nil {
		return nil
	}
	return func() tea.Msg {
		<-m.reloadCh
		return reloadMsg{}
	}
}

// tick schedules the next playback frame.
func (m *SessionModel) tick() tea.Cmd {
	fps := m.opts.fps
	if fps < 1 {
		fps = 30
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// step plays one frame and refreshes the snapshot.
func (m *SessionModel) step() {
	more, err := m.runner.Step(m.ctx)
	if err != nil {
		m.err = err
		m.playing = false
		return
	}
	m.snapshot = m.runner.Snapshot()
	if !more {
		m.done = true
		m.playing = false
	}
}

func (m *SessionModel) Init() tea.Cmd {
	return m.waitForReload()
}

func (m *SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.done {
				return m, nil
			}
			m.playing = !m.playing
			if m.playing {
				return m, m.tick()
			}
		case "n", "right":
			if !m.done {
				m.playing = false
				m.step()
			}
		case "r":
			if err := m.load(); err != nil {
				m.err = err
			}
		}
	case tickMsg:
		if m.playing {
			m.step()
			if m.playing {
				return m, m.tick()
			}
		}
	case reloadMsg:
		if err := m.load(); err != nil {
			m.err = err
		}
		return m, m.waitForReload()
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m *SessionModel) View() string {
	var b strings.Builder

	snap := m.snapshot
	b.WriteString(StyleTitle.Render(snap.Name))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d frames]", snap.Frames, m.total)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("space play/pause  n step  r restart  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.nodeTable())
	b.WriteString("\n")

	for _, link := range snap.Connections {
		b.WriteString(listNormalStyle.Render(fmt.Sprintf("  %s %s %s", link.From, iconArrow, link.To)))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString("\n" + StyleWarning.Render(m.err.Error()) + "\n")
	case m.done:
		b.WriteString("\n" + StyleSuccess.Render("replay finished") + "\n")
	case m.playing:
		b.WriteString("\n" + listDimStyle.Render("playing...") + "\n")
	}

	return b.String()
}

// nodeTable renders the per-node resting state as a lipgloss table.
func (m *SessionModel) nodeTable() string {
	snap := m.snapshot

	end := len(snap.Nodes)
	if end > m.height {
		end = m.height
	}

	rows := [][]string{}
	for _, n := range snap.Nodes[:end] {
		marker := ""
		if n.Selected {
			marker = "▸"
		}
		rows = append(rows, []string{
			marker,
			n.Key,
			fmt.Sprintf("%.0f, %.0f", n.Pos.X, n.Pos.Y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(rows) && rows[row][0] != "" {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return listNormalStyle
		})

	return t.Render()
}
