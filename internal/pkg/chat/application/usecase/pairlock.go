package usecase

import (
	"sort"
	"strings"
	"sync"
)

// pairLocks serializes direct-conversation creation per unordered user pair
// within this process. The advisory lock the repository takes inside the
// create transaction is the cross-process guarantee; this keeps the common
// case from ever reaching it.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// directPairLocks is process-wide. Every endpoint that can open a direct
// conversation (direct-create, send-by-recipient, the socket's send path)
// contends on the same lock for a pair, no matter which controller
// constructed its use case.
var directPairLocks = newPairLocks()

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *pairLocks) lock(userA, userB string) func() {
	key := pairKey(userA, userB)

	p.mu.Lock()
	m, ok := p.locks[key]
	if !ok {
		m = &sync.Mutex{}
		p.locks[key] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// pairKey builds a stable key from the sorted user-id pair so (a,b) and (b,a)
// contend on the same lock.
func pairKey(userA, userB string) string {
	ids := []string{userA, userB}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}
