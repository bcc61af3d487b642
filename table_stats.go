package godb

import (
	"log"
)

// Stats is what the rest of the system needs from a table's statistics
// to reason about query cost, independent of how they were computed.
type Stats interface {
	EstimateScanCost() float64
	EstimateCardinality(selectivity float64) int
	EstimateSelectivity(field string, op BoolOp, value DBValue) (float64, error)
}

// TableStats holds per-column histograms and table-wide counts for one
// table, computed by a full scan in ComputeTableStats and cached by the
// Catalog.
type TableStats struct {
	basePages  int
	baseTups   int
	histograms map[string]any
	tupleDesc  *TupleDesc
}

// CostPerPage is the assumed cost, in arbitrary units, of reading one
// page from disk with no caching. Adjust to model a different storage
// device's relative seek/transfer cost.
const CostPerPage = 1000

// NumHistBins is the number of buckets used for each IntHistogram.
const NumHistBins = 100

func tableMinMax(tid TransactionID, dbFile DBFile) ([]int64, []int64, error) {
	td := dbFile.Descriptor()
	mins := make([]int64, len(td.Fields))
	maxs := make([]int64, len(td.Fields))
	for i := range mins {
		mins[i] = 1<<63 - 1
		maxs[i] = -(1 << 63)
	}

	iter, err := dbFile.Iterator(tid)
	if err != nil {
		return nil, nil, err
	}
	for tup, err := iter(); tup != nil; tup, err = iter() {
		if err != nil {
			return nil, nil, err
		}
		for i, f := range td.Fields {
			if f.Ftype == IntType {
				v := tup.Fields[i].(IntField).Value
				if v < mins[i] {
					mins[i] = v
				}
				if v > maxs[i] {
					maxs[i] = v
				}
			}
		}
	}
	for i := range mins {
		if mins[i] > maxs[i] {
			mins[i] = 0
			maxs[i] = 0
		}
	}
	return mins, maxs, nil
}

// ComputeTableStats scans dbFile end to end under its own short-lived
// transaction, building one histogram per column and recording the
// table's page and tuple counts.
func ComputeTableStats(bp *BufferPool, dbFile DBFile) (*TableStats, error) {
	tid := NewTID()
	if err := bp.BeginTransaction(tid); err != nil {
		return nil, err
	}
	defer bp.CommitTransaction(tid)

	td := dbFile.Descriptor()

	mins, maxs, err := tableMinMax(tid, dbFile)
	if err != nil {
		return nil, err
	}

	hists := make(map[string]any, len(td.Fields))
	for i, f := range td.Fields {
		switch f.Ftype {
		case IntType:
			h, err := NewIntHistogram(NumHistBins, mins[i], maxs[i])
			if err != nil {
				return nil, err
			}
			hists[f.Fname] = h
		case StringType:
			h, err := NewStringHistogram()
			if err != nil {
				return nil, err
			}
			hists[f.Fname] = h
		default:
			return nil, newErr(SchemaMismatchError, "field %s has unknown type", f.Fname)
		}
	}

	iter, err := dbFile.Iterator(tid)
	if err != nil {
		return nil, err
	}

	baseTups := 0
	for tup, err := iter(); tup != nil; tup, err = iter() {
		if err != nil {
			return nil, err
		}
		for i, f := range td.Fields {
			switch f.Ftype {
			case IntType:
				hists[f.Fname].(*IntHistogram).AddValue(tup.Fields[i].(IntField).Value)
			case StringType:
				hists[f.Fname].(*StringHistogram).AddValue(tup.Fields[i].(StringField).Value)
			}
		}
		baseTups++
	}

	return &TableStats{
		basePages:  dbFile.NumPages(),
		baseTups:   baseTups,
		histograms: hists,
		tupleDesc:  td,
	}, nil
}

// EstimateScanCost estimates the cost of a full sequential scan,
// assuming no caching and that a partially-filled page costs as much to
// read as a full one.
func (t *TableStats) EstimateScanCost() float64 {
	return float64(t.basePages) * CostPerPage
}

// EstimateCardinality estimates the number of rows a predicate of the
// given selectivity would pass.
func (t *TableStats) EstimateCardinality(selectivity float64) int {
	return int(float64(t.baseTups) * selectivity)
}

// EstimateSelectivity looks up field's histogram and estimates the
// selectivity of "field op value" against it.
func (t *TableStats) EstimateSelectivity(field string, op BoolOp, value DBValue) (float64, error) {
	hist, ok := t.histograms[field]
	if !ok {
		log.Printf("no histogram found for field %s, assuming no selectivity", field)
		return 1.0, nil
	}

	switch h := hist.(type) {
	case *IntHistogram:
		iv, ok := value.(IntField)
		if !ok {
			return 1.0, newErr(TypeMismatchError, "field %s is int, but value %v is not", field, value)
		}
		return h.EstimateSelectivity(op, iv.Value), nil
	case *StringHistogram:
		sv, ok := value.(StringField)
		if !ok {
			return 1.0, newErr(TypeMismatchError, "field %s is string, but value is not", field)
		}
		return h.EstimateSelectivity(op, sv.Value), nil
	default:
		return 1.0, newErr(TypeMismatchError, "unexpected histogram type for field %s", field)
	}
}
