package godb

import (
	"sync"
	"time"
)

// lockState is what one transaction currently holds on one page.
type lockState int

const (
	noLock lockState = iota
	sharedLock
	exclusiveLock
)

// lockManager implements page-level two-phase locking for the buffer
// pool: any number of transactions may hold a shared lock on a page
// concurrently, but an exclusive lock is held alone, and a transaction
// already holding shared may upgrade to exclusive in place.
//
// Deadlocks are not detected by building a waits-for graph; instead,
// like the bounded-backoff scheme the pool's tests exercise, a lock
// request that cannot be satisfied within lockTimeout is treated as a
// deadlock and fails with TxnAbortedError, which the caller turns into
// an abort.
type lockManager struct {
	mu    sync.Mutex
	cond  *sync.Cond
	holds map[PageId]map[TransactionID]lockState
}

const lockTimeout = 50 * time.Millisecond

func newLockManager() *lockManager {
	lm := &lockManager{holds: make(map[PageId]map[TransactionID]lockState)}
	lm.cond = sync.NewCond(&lm.mu)
	return lm
}

// acquire blocks until tid holds at least perm on pid, or returns
// TxnAbortedError if that doesn't happen within lockTimeout.
func (lm *lockManager) acquire(tid TransactionID, pid PageId, perm RWPerm) error {
	deadline := time.Now().Add(lockTimeout)
	timer := time.AfterFunc(lockTimeout, lm.cond.Broadcast)
	defer timer.Stop()

	lm.mu.Lock()
	defer lm.mu.Unlock()

	for {
		if lm.canGrantLocked(tid, pid, perm) {
			lm.grantLocked(tid, pid, perm)
			return nil
		}
		if time.Now().After(deadline) {
			return newErr(TxnAbortedError, "timed out waiting for lock on page %v", pid)
		}
		lm.cond.Wait()
	}
}

func (lm *lockManager) canGrantLocked(tid TransactionID, pid PageId, perm RWPerm) bool {
	holders := lm.holds[pid]
	mine := holders[tid]
	if perm == ReadPerm {
		if mine != noLock {
			return true
		}
		for other, state := range holders {
			if other != tid && state == exclusiveLock {
				return false
			}
		}
		return true
	}
	// WritePerm: need exclusive. Grantable if no other transaction holds
	// any lock (an upgrade from shared held only by tid is fine).
	for other, state := range holders {
		if other != tid && state != noLock {
			return false
		}
	}
	return true
}

func (lm *lockManager) grantLocked(tid TransactionID, pid PageId, perm RWPerm) {
	holders := lm.holds[pid]
	if holders == nil {
		holders = make(map[TransactionID]lockState)
		lm.holds[pid] = holders
	}
	if perm == WritePerm {
		holders[tid] = exclusiveLock
		return
	}
	if holders[tid] != exclusiveLock {
		holders[tid] = sharedLock
	}
}

// holdsLock reports whether tid holds at least perm on pid.
func (lm *lockManager) holdsLock(tid TransactionID, pid PageId, perm RWPerm) bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	state := lm.holds[pid][tid]
	if perm == ReadPerm {
		return state != noLock
	}
	return state == exclusiveLock
}

// release drops every lock tid holds on pid, waking any waiter that
// might now be grantable.
func (lm *lockManager) release(tid TransactionID, pid PageId) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if holders, ok := lm.holds[pid]; ok {
		delete(holders, tid)
		if len(holders) == 0 {
			delete(lm.holds, pid)
		}
	}
	lm.cond.Broadcast()
}

// releaseAll drops every lock tid holds on any page, called when a
// transaction commits or aborts.
func (lm *lockManager) releaseAll(tid TransactionID) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	for pid, holders := range lm.holds {
		delete(holders, tid)
		if len(holders) == 0 {
			delete(lm.holds, pid)
		}
	}
	lm.cond.Broadcast()
}

// pagesHeldBy returns the pages tid currently holds any lock on.
func (lm *lockManager) pagesHeldBy(tid TransactionID) []PageId {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	var pages []PageId
	for pid, holders := range lm.holds {
		if holders[tid] != noLock {
			pages = append(pages, pid)
		}
	}
	return pages
}
