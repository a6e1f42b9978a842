package core

import "maps"

// -----------------------------------------------------------------------------
// Record
// -----------------------------------------------------------------------------

// Record maps normalized field keys to cell values. One record exists per
// entity ID (RID) and lives only for the duration of a run.
type Record map[string]CellValue

// FieldActiveGroupCount is the derived field injected by the orchestrator:
// how many records share this record's parent account, never below 1.
const FieldActiveGroupCount = "activegroupcount"

// Get looks up an already-normalized field key. Missing keys read as Empty.
func (r Record) Get(key string) CellValue {
	if r == nil {
		return Empty()
	}
	v, ok := r[key]
	if !ok {
		return Empty()
	}
	return v
}

func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	maps.Copy(out, r)
	return out
}

// MergeRecords merges two records with documented precedence: every field of
// secondary overrides the same field of primary. Inputs are left untouched.
// Cell values replace wholesale on collision; tagged unions must never be
// field-merged across kinds.
func MergeRecords(primary, secondary Record) Record {
	merged := make(Record, len(primary)+len(secondary))
	maps.Copy(merged, primary)
	maps.Copy(merged, secondary)
	return merged
}
