package server

import (
	"log"
	"sync"
)

// Pool is the set of attached client connections. Every push update the
// daemon emits is broadcast to all of them; connections that fail a write
// are dropped from the set and closed.
type Pool struct {
	mu   sync.RWMutex
	subs map[*SyncConn]struct{}
	log  *log.Logger
}

func NewPool(l *log.Logger) *Pool {
	return &Pool{
		subs: make(map[*SyncConn]struct{}),
		log:  l,
	}
}

// Attach adds a connection to the broadcast set.
func (p *Pool) Attach(conn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs[conn] = struct{}{}
}

// Detach removes a connection without closing it.
func (p *Pool) Detach(conn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.subs, conn)
}

// Broadcast writes data to every attached connection.
func (p *Pool) Broadcast(data []byte) {
	p.mu.RLock()
	conns := make([]*SyncConn, 0, len(p.subs))
	for conn := range p.subs {
		conns = append(conns, conn)
	}
	p.mu.RUnlock()

	var failed []*SyncConn
	for _, conn := range conns {
		if err := conn.Write(data); err != nil {
			if p.log != nil {
				p.log.Printf("Error broadcasting: %v", err)
			}
			failed = append(failed, conn)
		}
	}
	if len(failed) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, conn := range failed {
		delete(p.subs, conn)
		_ = conn.Conn.Close()
	}
}

// Count returns the number of attached connections.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}
