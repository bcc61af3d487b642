package godb

import (
	"log"
	"sync"
)

// BufferPool caches pages read from disk, up to a fixed capacity, and is
// the sole path through which transactions touch pages: every read and
// write goes through GetPage, which blocks for the appropriate lock
// before handing back the page.
//
// The pool is NO-STEAL: a dirty page is never evicted, so an aborted
// transaction's changes are never visible on disk and rolling back is
// just discarding the pool's in-memory copy, so the next read loads the
// last committed version from disk. It is FORCE: on commit, every page the transaction
// dirtied is flushed to disk (after a log record covering it) before
// the transaction's locks are released, so a committed transaction's
// effects are durable without needing crash replay.

// RWPerm is the permission requested when fetching a page.
type RWPerm int

const (
	ReadPerm RWPerm = iota
	WritePerm
)

type BufferPool struct {
	mu       sync.Mutex
	pages    map[PageId]Page
	maxPages int
	lm       *lockManager
	logFile  *LogFile

	touches map[PageId]int // access-frequency counters, kept for future eviction policy work
}

// NewBufferPool creates a buffer pool holding up to numPages pages.
func NewBufferPool(numPages int) (*BufferPool, error) {
	return &BufferPool{
		pages:    make(map[PageId]Page),
		maxPages: numPages,
		lm:       newLockManager(),
		touches:  make(map[PageId]int),
	}, nil
}

// SetLogFile attaches the log file transactionComplete writes update and
// commit/abort records to. A pool with no log file attached still
// enforces NO-STEAL/FORCE, it just has nothing to force before the data
// pages themselves (fine for tests that don't inspect the log).
func (bp *BufferPool) SetLogFile(lf *LogFile) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	bp.logFile = lf
}

// FlushAllPages flushes every cached page to its backing file and marks
// it clean, bypassing locking. Intended for tests and shutdown, not for
// use by a running transaction.
func (bp *BufferPool) FlushAllPages() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	for _, page := range bp.pages {
		if err := page.getFile().flushPage(page); err != nil {
			log.Printf("FlushAllPages: %v", err)
			continue
		}
		page.markDirty(false, noTid)
	}
}

// BeginTransaction writes a begin record for tid to the log, if one is
// attached. GoDB's transactions are otherwise implicit: callers just
// start using tid with GetPage.
func (bp *BufferPool) BeginTransaction(tid TransactionID) error {
	if bp.logFile != nil {
		bp.logFile.LogBegin(tid)
	}
	return nil
}

// CommitTransaction implements FORCE commit: every page tid dirtied is
// logged (before and after images), the log is forced, and only then is
// the page flushed to disk; finally a commit record is forced and tid's
// locks are released.
func (bp *BufferPool) CommitTransaction(tid TransactionID) {
	bp.mu.Lock()
	var dirtied []Page
	for _, page := range bp.pages {
		if owner, dirty := page.isDirty(); dirty && owner == tid {
			dirtied = append(dirtied, page)
		}
	}
	bp.mu.Unlock()

	for _, page := range dirtied {
		if bp.logFile != nil {
			bp.logFile.LogUpdate(tid, page.getBeforeImage(), page)
			if err := bp.logFile.Force(); err != nil {
				log.Printf("CommitTransaction: force failed for %v: %v", tid, err)
			}
		}
		if err := page.getFile().flushPage(page); err != nil {
			log.Printf("CommitTransaction: flush failed for %v: %v", tid, err)
		}
		page.markDirty(false, noTid)
		page.setBeforeImage()
	}

	if bp.logFile != nil {
		bp.logFile.LogCommit(tid)
		if err := bp.logFile.Force(); err != nil {
			log.Printf("CommitTransaction: force failed for %v: %v", tid, err)
		}
	}
	bp.lm.releaseAll(tid)
}

// AbortTransaction implements abort under NO-STEAL: because a dirty
// page is never written to disk before commit, undoing tid's changes
// is just discarding the pool's cached copy of every page it touched,
// so the next GetPage re-reads the clean on-disk version.
func (bp *BufferPool) AbortTransaction(tid TransactionID) {
	bp.mu.Lock()
	for pid, page := range bp.pages {
		if owner, dirty := page.isDirty(); dirty && owner == tid {
			delete(bp.pages, pid)
		}
	}
	bp.mu.Unlock()

	if bp.logFile != nil {
		bp.logFile.LogAbort(tid)
	}
	bp.lm.releaseAll(tid)
}

// GetPage retrieves pageNo of file on behalf of tid, blocking until the
// requested permission is granted (or aborting tid on a lock timeout),
// reading the page from disk on a cache miss and evicting a clean
// victim first if the pool is full.
func (bp *BufferPool) GetPage(file DBFile, pageNo int, tid TransactionID, perm RWPerm) (Page, error) {
	pid := file.pageKey(pageNo)

	if err := bp.lm.acquire(tid, pid, perm); err != nil {
		bp.AbortTransaction(tid)
		return nil, err
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.touches[pid]++

	if pg, ok := bp.pages[pid]; ok {
		return pg, nil
	}

	if err := bp.evictPageLocked(); err != nil {
		return nil, err
	}

	pg, err := file.readPage(pageNo)
	if err != nil {
		return nil, err
	}
	pg.setBeforeImage()
	bp.pages[pid] = pg
	return pg, nil
}

// evictPageLocked drops one clean page from the pool if it is full.
// Called with bp.mu held. NO-STEAL: a dirty page is never a candidate,
// so a pool entirely full of dirty pages is a hard error rather than a
// forced write-back.
func (bp *BufferPool) evictPageLocked() error {
	if len(bp.pages) < bp.maxPages {
		return nil
	}
	for pid, page := range bp.pages {
		if _, dirty := page.isDirty(); !dirty {
			delete(bp.pages, pid)
			delete(bp.touches, pid)
			return nil
		}
	}
	return newErr(NoCleanVictimError, "all %d pages in buffer pool are dirty", bp.maxPages)
}

// discardPage drops pid from the cache without flushing it, used when a
// page's file is being dropped out from under the pool (e.g. a test
// tearing down a table).
func (bp *BufferPool) discardPage(pid PageId) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	delete(bp.pages, pid)
	delete(bp.touches, pid)
}

// accessCount returns how many times pid has been fetched via GetPage
// since it was last evicted or discarded. Tracked for a future eviction
// policy (e.g. LRU-K); evictPageLocked does not consult it today.
func (bp *BufferPool) accessCount(pid PageId) int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.touches[pid]
}
