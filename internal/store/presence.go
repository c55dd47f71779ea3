package store

import (
	"sort"
	"sync"
)

// Presence tracks which usernames have announced themselves online. It is a
// plain set with no heartbeat or expiry; clients unsubscribe explicitly and a
// restart clears everyone.
type Presence struct {
	mu     sync.RWMutex
	online map[string]struct{}
}

// NewPresence returns an empty presence set.
func NewPresence() *Presence {
	return &Presence{online: make(map[string]struct{})}
}

// Subscribe marks a username online. Subscribing twice is harmless.
func (p *Presence) Subscribe(username string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[username] = struct{}{}
}

// Unsubscribe removes a username. Unknown names are ignored.
func (p *Presence) Unsubscribe(username string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.online, username)
}

// List returns the online usernames sorted for stable responses.
func (p *Presence) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.online))
	for u := range p.online {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Count returns how many usernames are online.
func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.online)
}
