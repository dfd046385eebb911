// Package coordinator implements the Background Coordinator (spec
// §4.9): debounced detail-enrichment scheduling, per-kind resolving
// flags, install-list-mutation cache invalidation, and a post-action
// installed-rescan poll window. The named-registry-of-workers idiom and
// the tick/data-fetch command shape are carried over from the teacher's
// `pkg/collectors` registry and `pkg/app` tick commands, generalized
// from system-metrics polling to Pacsea's resolver/detail jobs.
package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Kind identifies one of the four signature-keyed resolver payloads
// invalidated together on install-list mutation (spec §3.9, §4.9).
type Kind string

const (
	KindDeps     Kind = "deps"
	KindFiles    Kind = "files"
	KindServices Kind = "services"
	KindSandbox  Kind = "sandbox"
)

var allKinds = []Kind{KindDeps, KindFiles, KindServices, KindSandbox}

// Coordinator tracks per-kind resolving flags, debounces detail fetch
// requests per package name, and runs the post-action rescan poll.
type Coordinator struct {
	logger *slog.Logger

	mu        sync.Mutex
	resolving map[Kind]bool

	debounceFor time.Duration
	pending     map[string]*time.Timer

	jobsMu sync.Mutex
	jobs   map[Kind]context.CancelFunc
}

// New builds a Coordinator with the given detail-fetch debounce
// interval (spec §4.9 "debounce detail-enrichment requests per
// package name"; defaults to 150ms if d <= 0, matching a typical
// keystroke-settle window).
func New(logger *slog.Logger, d time.Duration) *Coordinator {
	if d <= 0 {
		d = 150 * time.Millisecond
	}
	return &Coordinator{
		logger:      logger,
		resolving:   make(map[Kind]bool),
		debounceFor: d,
		pending:     make(map[string]*time.Timer),
		jobs:        make(map[Kind]context.CancelFunc),
	}
}

// SetResolving flags whether a resolver job for kind is in flight, for
// spinner display and duplicate-submission avoidance.
func (c *Coordinator) SetResolving(k Kind, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolving[k] = v
}

// IsResolving reports whether a resolver job for kind is currently
// in flight.
func (c *Coordinator) IsResolving(k Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolving[k]
}

// DebounceDetailFetch schedules fn to run after the debounce interval,
// canceling any still-pending request for the same package name (spec
// §4.9 "debounce detail-enrichment requests per package name"). Safe
// for concurrent use; fn runs on its own goroutine via time.AfterFunc.
func (c *Coordinator) DebounceDetailFetch(name string, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.pending[name]; ok {
		existing.Stop()
	}
	c.pending[name] = time.AfterFunc(c.debounceFor, func() {
		c.mu.Lock()
		delete(c.pending, name)
		c.mu.Unlock()
		fn()
	})
}

// CancelPendingDetailFetch cancels a not-yet-fired debounced fetch for
// name, if any.
func (c *Coordinator) CancelPendingDetailFetch(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.pending[name]; ok {
		t.Stop()
		delete(c.pending, name)
	}
}

// StartJob registers a cancelable context for a resolver job of kind
// k, canceling any previous job of that kind first (spec §4.9/§5
// "shared cancel flag per preflight run"). The caller must use the
// returned context for the job's I/O boundaries.
func (c *Coordinator) StartJob(parent context.Context, k Kind) context.Context {
	c.jobsMu.Lock()
	defer c.jobsMu.Unlock()
	if cancel, ok := c.jobs[k]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.jobs[k] = cancel
	return ctx
}

// CancelJob cancels the in-flight job for kind k, if any.
func (c *Coordinator) CancelJob(k Kind) {
	c.jobsMu.Lock()
	defer c.jobsMu.Unlock()
	if cancel, ok := c.jobs[k]; ok {
		cancel()
		delete(c.jobs, k)
	}
}

// OnInstallListChanged implements spec §4.9's "on install-list
// mutation, clear the four signature-keyed in-memory payloads and
// schedule fresh resolver jobs": it cancels every in-flight resolver
// job and clears their resolving flags; invalidate is then called by
// the caller to actually drop the cached payloads and re-schedule.
func (c *Coordinator) OnInstallListChanged(invalidate func(k Kind)) {
	for _, k := range allKinds {
		c.CancelJob(k)
		c.SetResolving(k, false)
		if invalidate != nil {
			invalidate(k)
		}
	}
}
