package godb

import "sync"

// tableEntry is one registered table: its DBFile, display name, and
// (optional) primary key field name.
type tableEntry struct {
	id      int
	name    string
	file    DBFile
	primary string
}

// Catalog is the in-memory table registry that turns a table name or id
// into a DBFile; the log file consults it to read page images back. It
// does not read or write a catalog text file; callers that want tables
// loaded from a description on disk build their own loader on top of
// AddTable, the way SPEC_FULL.md's catalog section describes.
type Catalog struct {
	mu      sync.RWMutex
	byId    map[int]*tableEntry
	byName  map[string]*tableEntry
	stats   map[int]*TableStats
	bufPool *BufferPool
}

// NewCatalog creates an empty catalog. bp is the buffer pool
// ComputeAllTableStats uses to scan each table under its own
// transaction.
func NewCatalog(bp *BufferPool) *Catalog {
	return &Catalog{
		byId:    make(map[int]*tableEntry),
		byName:  make(map[string]*tableEntry),
		stats:   make(map[int]*TableStats),
		bufPool: bp,
	}
}

// AddTable registers file under name, keyed by the file's own TableId.
// primaryKey may be empty if the table has none.
func (c *Catalog) AddTable(name string, file DBFile, primaryKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byName[name]; exists {
		return newErr(IllegalArgumentError, "table %s is already registered", name)
	}
	e := &tableEntry{id: file.TableId(), name: name, file: file, primary: primaryKey}
	c.byId[e.id] = e
	c.byName[name] = e
	return nil
}

// GetDBFile returns the DBFile registered for tableId.
func (c *Catalog) GetDBFile(tableId int) (DBFile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byId[tableId]
	if !ok {
		return nil, newErr(NoSuchElementError, "no table with id %d", tableId)
	}
	return e.file, nil
}

// GetTableId returns the id of the table registered under name.
func (c *Catalog) GetTableId(name string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byName[name]
	if !ok {
		return 0, newErr(NoSuchElementError, "no table named %s", name)
	}
	return e.id, nil
}

// GetTableName returns the display name tableId was registered under.
func (c *Catalog) GetTableName(tableId int) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byId[tableId]
	if !ok {
		return "", newErr(NoSuchElementError, "no table with id %d", tableId)
	}
	return e.name, nil
}

// GetPrimaryKey returns the primary key field name for tableId, which
// may be "" if the table was registered without one.
func (c *Catalog) GetPrimaryKey(tableId int) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byId[tableId]
	if !ok {
		return "", newErr(NoSuchElementError, "no table with id %d", tableId)
	}
	return e.primary, nil
}

// ComputeAllTableStats (re)computes and caches TableStats for every
// registered table. Callers invoke it directly; StatsRefresher also runs
// it on a schedule.
func (c *Catalog) ComputeAllTableStats() error {
	c.mu.RLock()
	entries := make([]*tableEntry, 0, len(c.byId))
	for _, e := range c.byId {
		entries = append(entries, e)
	}
	c.mu.RUnlock()

	for _, e := range entries {
		ts, err := ComputeTableStats(c.bufPool, e.file)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.stats[e.id] = ts
		c.mu.Unlock()
	}
	return nil
}

// TableStatsFor returns the most recently computed TableStats for
// tableId, or nil if none has been computed yet.
func (c *Catalog) TableStatsFor(tableId int) *TableStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats[tableId]
}
