package services

import "sync"

// notifier fans a change signal out to subscribed observers. Every store
// mutation fires it once so presentation-layer observers can re-read the
// derived views.
type notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func newNotifier() *notifier {
	return &notifier{listeners: make(map[int]func())}
}

// subscribe registers fn and returns a function that removes it
func (n *notifier) subscribe(fn func()) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

// notify invokes every registered listener. Listeners run synchronously on
// the mutating goroutine, outside the store lock.
func (n *notifier) notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
