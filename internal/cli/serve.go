package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mkordik/nodewire/pkg/export"
	"github.com/mkordik/nodewire/pkg/scenario"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr string // HTTP listen address
}

// serveCommand creates the serve command for exposing session state over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve [script]",
		Short: "Serve session state, diagrams, and metrics over HTTP",
		Long: `Replay a YAML editing script and serve the resting graph over HTTP:
a JSON snapshot at /graph, DOT and SVG diagrams at /graph.dot and
/graph.svg, prometheus metrics at /metrics, and a liveness probe at
/healthz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "HTTP listen address")

	return cmd
}

// runServe replays the script, registers prometheus hooks, and serves until
// the context is cancelled.
func runServe(ctx context.Context, path string, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	registerMetrics()

	script, err := scenario.Load(path)
	if err != nil {
		return err
	}

	runner, err := scenario.New(script, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	logger.Infof("Session ready: %d nodes, %d connections", len(result.Nodes), len(result.Connections))

	srv := &http.Server{
		Addr:         opts.addr,
		Handler:      newServeHandler(runner, result, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// =============================================================================
// Handler
// =============================================================================

// serveHandler exposes a finished session over HTTP. The underlying graph is
// read-only after the replay, so handlers share it without locking.
type serveHandler struct {
	runner *scenario.Runner
	result *scenario.Result
	logger *log.Logger
}

// newServeHandler builds the chi router for a finished session.
func newServeHandler(runner *scenario.Runner, result *scenario.Result, logger *log.Logger) http.Handler {
	h := &serveHandler{runner: runner, result: result, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", h.healthz)
	r.Get("/graph", h.graphJSON)
	r.Get("/graph.dot", h.graphDOT)
	r.Get("/graph.svg", h.graphSVG)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// graphResponse is the JSON envelope for the /graph endpoint.
type graphResponse struct {
	RunID       string         `json:"run_id"`
	Name        string         `json:"name"`
	Graph       string         `json:"graph"`
	Frames      int            `json:"frames"`
	Nodes       []nodeResponse `json:"nodes"`
	Connections []linkResponse `json:"connections"`
	Selected    []string       `json:"selected"`
}

type nodeResponse struct {
	Key      string     `json:"key"`
	Pos      [2]float32 `json:"pos"`
	Selected bool       `json:"selected"`
}

type linkResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GET /healthz — always 200 (liveness probe).
func (h *serveHandler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /graph — JSON snapshot of the resting graph.
func (h *serveHandler) graphJSON(w http.ResponseWriter, r *http.Request) {
	res := h.result
	out := graphResponse{
		RunID:       res.RunID.String(),
		Name:        res.Name,
		Graph:       res.Graph,
		Frames:      res.Frames,
		Nodes:       make([]nodeResponse, 0, len(res.Nodes)),
		Connections: make([]linkResponse, 0, len(res.Connections)),
		Selected:    res.Selected,
	}
	for _, n := range res.Nodes {
		out.Nodes = append(out.Nodes, nodeResponse{
			Key:      n.Key,
			Pos:      [2]float32{n.Pos.X, n.Pos.Y},
			Selected: n.Selected,
		})
	}
	for _, link := range res.Connections {
		out.Connections = append(out.Connections, linkResponse{From: link.From, To: link.To})
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /graph.dot — Graphviz DOT description of the resting graph.
func (h *serveHandler) graphDOT(w http.ResponseWriter, r *http.Request) {
	dot := export.ToDOT(h.runner.Graph(), export.Options{Detailed: detailedParam(r)})
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot))
}

// GET /graph.svg — rendered SVG diagram of the resting graph.
func (h *serveHandler) graphSVG(w http.ResponseWriter, r *http.Request) {
	dot := export.ToDOT(h.runner.Graph(), export.Options{Detailed: detailedParam(r)})
	svg, err := export.RenderSVG(r.Context(), dot)
	if err != nil {
		h.logger.Error("SVG render failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// detailedParam reports whether the request asked for a detailed diagram.
func detailedParam(r *http.Request) bool {
	return r.URL.Query().Get("detailed") == "true"
}

// =============================================================================
// Responses
// =============================================================================

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
