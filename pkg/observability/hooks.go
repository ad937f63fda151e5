// Package observability lets the layout packages emit metrics without
// depending on a metrics backend.
//
// Each event category has a hook interface with a no-op default. The CLI
// swaps in [Prometheus] at startup; the assembler, the flow pipeline and the
// HTTP service call whatever is registered:
//
//	p := observability.NewPrometheus(prometheus.DefaultRegisterer)
//	observability.SetAssemblyHooks(p)
//	observability.SetHTTPHooks(p)
//
//	observability.Assembly().OnAssemble(ctx, "sms", 1, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// AssemblyHooks receives events from node spec assembly and validation.
type AssemblyHooks interface {
	OnAssemble(ctx context.Context, nodeType string, lineCount int, duration time.Duration, err error)
	OnValidate(ctx context.Context, nodeType string, valid bool, maxDeviation float64)
	// OnFinding records one validation finding. Severity is "error" or "warning".
	OnFinding(ctx context.Context, kind, severity string)
}

// PipelineHooks receives events from flow runs.
type PipelineHooks interface {
	OnFlowStart(ctx context.Context, source string, nodeCount int)
	OnFlowComplete(ctx context.Context, source string, invalid int, duration time.Duration, err error)
	// OnMeasure records one rendered-geometry measurement by backend name.
	OnMeasure(ctx context.Context, backend string, duration time.Duration, err error)
}

// HTTPHooks receives events from the HTTP service. Route is the chi route
// pattern, not the raw path.
type HTTPHooks interface {
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

type NoopAssemblyHooks struct{}

func (NoopAssemblyHooks) OnAssemble(context.Context, string, int, time.Duration, error) {}
func (NoopAssemblyHooks) OnValidate(context.Context, string, bool, float64)            {}
func (NoopAssemblyHooks) OnFinding(context.Context, string, string)                    {}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFlowStart(context.Context, string, int)                           {}
func (NoopPipelineHooks) OnFlowComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnMeasure(context.Context, string, time.Duration, error)           {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one registered hook implementation and its no-op fallback.
type slot[T comparable] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T comparable](noop T) *slot[T] {
	return &slot[T]{cur: noop, noop: noop}
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set ignores the zero value, which for interface slots is nil.
func (s *slot[T]) set(h T) {
	var zero T
	if h == zero {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	assemblySlot = newSlot[AssemblyHooks](NoopAssemblyHooks{})
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetAssemblyHooks registers h for assembly events. A nil h is ignored.
func SetAssemblyHooks(h AssemblyHooks) { assemblySlot.set(h) }

// SetPipelineHooks registers h for flow-run events. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetHTTPHooks registers h for HTTP events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

func Assembly() AssemblyHooks { return assemblySlot.get() }
func Pipeline() PipelineHooks { return pipelineSlot.get() }
func HTTP() HTTPHooks         { return httpSlot.get() }

// Reset restores every category to its no-op default.
func Reset() {
	assemblySlot.reset()
	pipelineSlot.reset()
	httpSlot.reset()
}
