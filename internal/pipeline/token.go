package pipeline

import "sync"

// Signaler receives resize notifications. *Token implements it.
type Signaler interface {
	Signal()
}

// Token is an edge-triggered resize request shared between the signal
// source and the producer.
type Token struct {
	mu        sync.Mutex
	ch        chan struct{}
	requested bool
}

func NewToken() *Token {
	return &Token{ch: make(chan struct{})}
}

// Signal requests a restart. Repeated signals before Clear coalesce.
func (t *Token) Signal() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.requested {
		t.requested = true
		close(t.ch)
	}
}

func (t *Token) Requested() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requested
}

// Done is closed once Signal is called.
func (t *Token) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ch
}

// Clear re-arms the token.
func (t *Token) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.requested {
		t.ch = make(chan struct{})
		t.requested = false
	}
}
