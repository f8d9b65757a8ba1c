package breakgame

import "sync"

// UserLocks serializes load-modify-save cycles on one user's session while
// letting different users proceed in parallel. Entries are never removed;
// there is one small mutex per user who has ever taken a break.
type UserLocks struct {
	locks sync.Map
}

// Lock blocks until the user's lock is held and returns the unlock func.
func (l *UserLocks) Lock(userID string) func() {
	v, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
