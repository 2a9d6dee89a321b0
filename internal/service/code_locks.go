package service

import (
	"sort"
	"sync"
)

// codeLocks serializes quantity mutations per item code. The catalog quantity
// is the only shared mutable resource of consequence: without this, two
// concurrent approvals can both pass the sufficiency check against a stale
// read and both decrement, overselling the item.
type codeLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCodeLocks() *codeLocks {
	return &codeLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *codeLocks) get(code string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[code]
	if !ok {
		m = &sync.Mutex{}
		l.locks[code] = m
	}
	return m
}

// lockAll acquires the mutex of every code in sorted order — a stable global
// order prevents deadlock between concurrent multi-line approvals. Duplicate
// codes are locked once. The returned release unlocks in reverse order.
func (l *codeLocks) lockAll(codes []string) (release func()) {
	uniq := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			uniq = append(uniq, c)
		}
	}
	sort.Strings(uniq)

	held := make([]*sync.Mutex, 0, len(uniq))
	for _, c := range uniq {
		m := l.get(c)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
