package reactive

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// scope is the reactive state of one goroutine: the owner new effects join,
// the listener reads subscribe, and the batch in progress.
//
// A running Loop pins one scope for its goroutine. Any other goroutine gets
// a scope only while it has something to hold; the scope is dropped as soon
// as owner, listener and batch are all back to zero.
type scope struct {
	owner      *Owner
	listener   Listener
	batchDepth int
	pending    []Listener

	// pinned scopes belong to a running Loop and are never released by
	// idleness.
	pinned bool
}

func (s *scope) idle() bool {
	return !s.pinned && s.owner == nil && s.listener == nil &&
		s.batchDepth == 0 && len(s.pending) == 0
}

// scopes maps goroutine ids to their scope.
var scopes sync.Map

var goroutinePrefix = []byte("goroutine ")

// goroutineID returns the id of the calling goroutine, taken from the first
// line of its stack trace.
func goroutineID() uint64 {
	var buf [64]byte
	b := bytes.TrimPrefix(buf[:runtime.Stack(buf[:], false)], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

// lookupScope returns the caller's scope, or nil when it has none.
func lookupScope() *scope {
	if s, ok := scopes.Load(goroutineID()); ok {
		return s.(*scope)
	}
	return nil
}

// acquireScope returns the caller's scope, creating it if needed. Callers
// that may leave it empty hand gid back to release.
func acquireScope() (*scope, uint64) {
	gid := goroutineID()
	if s, ok := scopes.Load(gid); ok {
		return s.(*scope), gid
	}
	s := &scope{}
	scopes.Store(gid, s)
	return s, gid
}

func (s *scope) release(gid uint64) {
	if s.idle() {
		scopes.Delete(gid)
	}
}

// pinScope installs a fresh pinned scope for the calling goroutine and
// returns the function that removes it.
func pinScope() (*scope, func()) {
	gid := goroutineID()
	s := &scope{pinned: true}
	scopes.Store(gid, s)
	return s, func() { scopes.CompareAndDelete(gid, s) }
}

func getCurrentListener() Listener {
	if s := lookupScope(); s != nil {
		return s.listener
	}
	return nil
}

// setCurrentListener installs l and returns the listener it replaced.
func setCurrentListener(l Listener) Listener {
	s, gid := acquireScope()
	old := s.listener
	s.listener = l
	s.release(gid)
	return old
}

func getCurrentOwner() *Owner {
	if s := lookupScope(); s != nil {
		return s.owner
	}
	return nil
}

// setCurrentOwner installs o and returns the owner it replaced.
func setCurrentOwner(o *Owner) *Owner {
	s, gid := acquireScope()
	old := s.owner
	s.owner = o
	s.release(gid)
	return old
}

func getBatchDepth() int {
	if s := lookupScope(); s != nil {
		return s.batchDepth
	}
	return 0
}

func incrementBatchDepth() {
	s, _ := acquireScope()
	s.batchDepth++
}

// decrementBatchDepth reports whether the outermost batch just ended.
// Pending listeners keep the scope alive until they are drained.
func decrementBatchDepth() bool {
	s, gid := acquireScope()
	s.batchDepth--
	outermost := s.batchDepth == 0
	s.release(gid)
	return outermost
}

// queuePendingUpdate is only reached inside a batch, so the scope exists.
func queuePendingUpdate(l Listener) {
	s, _ := acquireScope()
	s.pending = append(s.pending, l)
}

func drainPendingUpdates() []Listener {
	s, gid := acquireScope()
	updates := s.pending
	s.pending = nil
	s.release(gid)
	return updates
}

// WithOwner runs fn with owner as the current owner. Effects created inside
// fn are registered with owner and disposed with it.
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs fn with l as the current listener, so every signal read
// inside fn subscribes l.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// IsTracking reports whether a listener is active on this goroutine.
func IsTracking() bool {
	return getCurrentListener() != nil
}
