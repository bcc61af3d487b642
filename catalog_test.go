package godb

import "testing"

func TestCatalogRegistersAndLooksUpTables(t *testing.T) {
	desc := intPageDesc()
	hf, bp := makeTestHeapFile(t, desc, 10)
	cat := NewCatalog(bp)

	if err := cat.AddTable("widgets", hf, ""); err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	if err := cat.AddTable("widgets", hf, ""); err == nil {
		t.Fatalf("expected re-registering the same name to fail")
	}

	id, err := cat.GetTableId("widgets")
	if err != nil {
		t.Fatalf("GetTableId: %v", err)
	}
	if id != hf.TableId() {
		t.Fatalf("expected id %d, got %d", hf.TableId(), id)
	}

	name, err := cat.GetTableName(id)
	if err != nil {
		t.Fatalf("GetTableName: %v", err)
	}
	if name != "widgets" {
		t.Fatalf("expected name 'widgets', got %s", name)
	}

	file, err := cat.GetDBFile(id)
	if err != nil {
		t.Fatalf("GetDBFile: %v", err)
	}
	if file != DBFile(hf) {
		t.Fatalf("expected GetDBFile to return the registered file")
	}
}

func TestCatalogComputeAllTableStats(t *testing.T) {
	desc := intPageDesc()
	hf, bp := makeTestHeapFile(t, desc, 10)
	cat := NewCatalog(bp)
	if err := cat.AddTable("nums", hf, ""); err != nil {
		t.Fatalf("AddTable: %v", err)
	}

	tid := NewTID()
	bp.BeginTransaction(tid)
	mustInsert(t, bp, hf, tid, 1, 2, 3, 4, 5)
	bp.CommitTransaction(tid)

	if err := cat.ComputeAllTableStats(); err != nil {
		t.Fatalf("ComputeAllTableStats: %v", err)
	}

	stats := cat.TableStatsFor(hf.TableId())
	if stats == nil {
		t.Fatalf("expected stats to be cached after ComputeAllTableStats")
	}
	if card := stats.EstimateCardinality(1.0); card != 5 {
		t.Fatalf("expected cardinality 5 at selectivity 1.0, got %d", card)
	}
}
