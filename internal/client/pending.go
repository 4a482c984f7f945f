package client

import "sync"

// pendingFrame is an encoded mutation that has not been confirmed by the
// server yet, keyed so that a newer mutation of the same note replaces an
// older unsent one.
type pendingFrame struct {
	key   string
	frame []byte
}

// pendingSet holds mutations issued while the connection was down. Frames
// keep their insertion order; re-adding an existing key updates the frame in
// place so the flush still replays at most one mutation per key.
type pendingSet struct {
	mu     sync.Mutex
	order  []string
	frames map[string][]byte
}

func newPendingSet() *pendingSet {
	return &pendingSet{frames: make(map[string][]byte)}
}

func (p *pendingSet) Add(key string, frame []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.frames[key]; !ok {
		p.order = append(p.order, key)
	}
	p.frames[key] = frame
}

func (p *pendingSet) Remove(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.frames[key]; !ok {
		return
	}
	delete(p.frames, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// TakeAll drains the set and returns the frames in insertion order.
func (p *pendingSet) TakeAll() []pendingFrame {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]pendingFrame, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, pendingFrame{key: key, frame: p.frames[key]})
	}
	p.order = nil
	p.frames = make(map[string][]byte)
	return out
}

func (p *pendingSet) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}
