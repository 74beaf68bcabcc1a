// Package vthread provides the mutex-guarded scope handle backing the
// thread.spawn primitive (spec.md §5.6), grounded on
// original_source/lib_functions/thread.rs's `Arc<Mutex<Environment>>`.
package vthread

import (
	"sync"

	"github.com/viant/vlang/internal/value"
)

// Handle lets a spawned goroutine and its parent safely share one
// *value.Scope across the join protocol's locked sections.
type Handle struct {
	mu    sync.Mutex
	scope *value.Scope
}

// NewHandle wraps scope for cross-goroutine access.
func NewHandle(scope *value.Scope) *Handle {
	return &Handle{scope: scope}
}

// With runs fn with the handle locked, passing the guarded scope.
func (h *Handle) With(fn func(*value.Scope)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.scope)
}
