package service

import "sync"

// tenantLocks serializes plan creation per tenant. The funds check and the
// resulting writes are a check-then-act pair; holding the tenant's lock
// across both closes the race between concurrent plan creations.
type tenantLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newTenantLocks() *tenantLocks {
	return &tenantLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the tenant's mutex and returns the matching unlock func.
func (t *tenantLocks) Lock(tenantID string) func() {
	t.mu.Lock()
	l, ok := t.locks[tenantID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[tenantID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
