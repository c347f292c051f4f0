package services

import "sync"

// LockTable hands out one mutex per room code. Every read-modify-write of a
// room's roster or session state runs under that room's mutex, so two
// concurrent submissions for the same room cannot both see a stale ledger.
// Different rooms never contend.
type LockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *LockTable) Get(code string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	if l, ok := t.locks[code]; ok {
		return l
	}
	l := &sync.Mutex{}
	t.locks[code] = l
	return l
}

// Forget drops the table entry for a deleted room. Callers typically still
// hold the mutex itself while calling this; that is safe because the room
// row is already gone, so a late Get only mints a fresh mutex for a code
// nobody mutates.
func (t *LockTable) Forget(code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.locks, code)
}
