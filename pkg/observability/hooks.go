// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about frames, gestures, and export operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the editor library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFrameHooks(&myFrameHooks{})
//	    observability.SetGraphHooks(&myGraphHooks{})
//	    // ... run application
//	}
//
// Drivers call hooks to emit events:
//
//	observability.Frame().OnFrameStart(ctx, graph)
//	// ... play the frame ...
//	observability.Frame().OnFrameComplete(ctx, graph, nodeCount, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Frame Hooks
// =============================================================================

// FrameHooks receives events from the per-frame editor loop.
type FrameHooks interface {
	// OnFrameStart records the opening of a graph frame.
	OnFrameStart(ctx context.Context, graph string)

	// OnFrameComplete records a closed frame with its node count and
	// wall time.
	OnFrameComplete(ctx context.Context, graph string, nodeCount int, duration time.Duration)
}

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events from graph topology changes.
type GraphHooks interface {
	// OnConnectionMade records a completed connection.
	OnConnectionMade(ctx context.Context, graph string)

	// OnConnectionBroken records a broken connection.
	OnConnectionBroken(ctx context.Context, graph string)

	// OnSelectionChanged records the selection set reaching a new size.
	OnSelectionChanged(ctx context.Context, graph string, size int)
}

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from snapshot export operations.
type ExportHooks interface {
	// OnExportStart records the start of an export.
	OnExportStart(ctx context.Context, format string)

	// OnExportComplete records a finished export.
	OnExportComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFrameHooks is a no-op implementation of FrameHooks.
type NoopFrameHooks struct{}

func (NoopFrameHooks) OnFrameStart(context.Context, string)                        {}
func (NoopFrameHooks) OnFrameComplete(context.Context, string, int, time.Duration) {}

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnConnectionMade(context.Context, string)        {}
func (NoopGraphHooks) OnConnectionBroken(context.Context, string)      {}
func (NoopGraphHooks) OnSelectionChanged(context.Context, string, int) {}

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnExportStart(context.Context, string)                               {}
func (NoopExportHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	frameHooks  FrameHooks  = NoopFrameHooks{}
	graphHooks  GraphHooks  = NoopGraphHooks{}
	exportHooks ExportHooks = NoopExportHooks{}
	hooksMu     sync.RWMutex
)

// SetFrameHooks registers custom frame hooks.
// This should be called once at application startup before any frames run.
func SetFrameHooks(h FrameHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		frameHooks = h
	}
}

// SetGraphHooks registers custom graph hooks.
// This should be called once at application startup before any frames run.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetExportHooks registers custom export hooks.
// This should be called once at application startup before any exports run.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// Frame returns the registered frame hooks.
func Frame() FrameHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return frameHooks
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	frameHooks = NoopFrameHooks{}
	graphHooks = NoopGraphHooks{}
	exportHooks = NoopExportHooks{}
}
