// Package pipeline bundles the option table and profiler every pass needs
// into one explicit per-invocation Context, replacing the process-global
// option/profiler tables the original tool (and the teacher's own runner)
// would otherwise reach for.
package pipeline

import (
	"sync"
	"time"

	"github.com/htnplan/htnplan/internal/fdr"
	"github.com/htnplan/htnplan/internal/ground"
	"github.com/htnplan/htnplan/internal/lmg"
	"github.com/htnplan/htnplan/internal/prune"
	"github.com/htnplan/htnplan/internal/xlog"
)

// Options bundles every pass's flags into the one table a CLI invocation
// builds once from its parsed flags (or an optional config file) and passes
// down through A->I.
type Options struct {
	ADL            bool
	CompileCondEff bool
	CondEffPDDL    bool

	Ground ground.Options
	Prune  prune.Config
	Lmg    lmg.Config
	FDR    fdr.Policy
}

// DefaultOptions takes Prune and Lmg from each pass's own DefaultConfig (so
// Lmg.Solver is nil) and selects the EssentialFirst FDR policy.
func DefaultOptions() Options {
	return Options{
		Prune: prune.DefaultConfig(),
		Lmg:   lmg.DefaultConfig(),
		FDR:   fdr.EssentialFirst,
	}
}

// Profiler accumulates named counters and per-pass elapsed time, the Go
// rendering of the original grounder's process-wide pddl_profile_t slot
// table (profile.c: pddlProfileStart/Stop grow a slot array indexed by an
// int and accumulate a counter plus elapsed duration per slot; pddlProfilePrint
// dumps all of them). A map keyed by pass name replaces that grow-only int-
// indexed array since Go has no equivalent of indexing profiler slots by a
// compile-time enum, and is not itself a teacher idiom: unlike the teacher's
// channel-based Runner (built for goroutines racing against each other), a
// Profiler only ever sees one pass at a time per spec §5's strictly
// sequential pipeline, so plain maps under a mutex are enough. The mutex only
// guards against a reader (e.g. a verbose CLI printing interim stats)
// observing mid-update state, not against concurrent writers.
type Profiler struct {
	mu       sync.Mutex
	counters map[string]int64
	elapsed  map[string]time.Duration
}

// NewProfiler returns an empty Profiler.
func NewProfiler() *Profiler {
	return &Profiler{counters: map[string]int64{}, elapsed: map[string]time.Duration{}}
}

// Count adds delta to the named counter (e.g. "facts_removed", "candidates_tried").
func (p *Profiler) Count(name string, delta int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counters[name] += delta
}

// Pass records wall-clock time for one named pass: call it at the pass's
// start and invoke the returned func when the pass returns.
//
//	stop := prof.Pass("ground")
//	defer stop()
func (p *Profiler) Pass(name string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		p.mu.Lock()
		defer p.mu.Unlock()
		p.elapsed[name] += elapsed
	}
}

// Counters returns a copy of the accumulated counters.
func (p *Profiler) Counters() map[string]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]int64, len(p.counters))
	for k, v := range p.counters {
		out[k] = v
	}
	return out
}

// Elapsed returns a copy of the accumulated per-pass durations.
func (p *Profiler) Elapsed() map[string]time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration, len(p.elapsed))
	for k, v := range p.elapsed {
		out[k] = v
	}
	return out
}

// Context is the one object threaded explicitly through every A->I pass: it
// carries the invocation's Options, its Profiler, and its Logger, so no
// pass needs a process-global to find any of the three.
type Context struct {
	Options  Options
	Profiler *Profiler
	Logger   *xlog.Logger
}

// New builds a Context with a fresh Profiler.
func New(opts Options, logger *xlog.Logger) *Context {
	if logger == nil {
		logger = xlog.Default()
	}
	return &Context{Options: opts, Profiler: NewProfiler(), Logger: logger}
}
