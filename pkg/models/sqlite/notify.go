package sqlite

import "sync"

// Notifier fans a table name out to every subscriber after a committed
// write. This is the store's "query result pushed on every underlying
// write" contract: a consumer re-runs its query whenever the table it
// cares about comes down the channel.
type Notifier struct {
	mu   sync.Mutex
	subs []chan string
}

// Subscribe returns a channel that receives the name of every table
// written after this call. The channel is buffered; a subscriber that
// falls behind misses notifications rather than blocking writers.
func (n *Notifier) Subscribe() <-chan string {
	ch := make(chan string, 16)
	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()
	return ch
}

// Broadcast is safe on a nil Notifier so models can be wired without one
// in tests.
func (n *Notifier) Broadcast(table string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- table:
		default:
		}
	}
}
