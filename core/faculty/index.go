// Package faculty provides lookups over the faculty roster.
package faculty

import "github.com/kilianp07/timetable/core/model"

// Index maps faculty identifiers to their records.
//
// Identifiers are assumed unique. When the roster contains duplicates the
// last record with a given id wins; callers must not rely on which one.
type Index struct {
	byID map[model.ID]model.FacultyRecord
}

// Build indexes records by id. Records with a zero id are skipped since no
// schedule entry can reference them.
func Build(records []model.FacultyRecord) *Index {
	idx := &Index{byID: make(map[model.ID]model.FacultyRecord, len(records))}
	for _, r := range records {
		if r.ID.IsZero() {
			continue
		}
		idx.byID[r.ID] = r
	}
	return idx
}

// Lookup returns the record for id and whether it exists.
func (i *Index) Lookup(id model.ID) (model.FacultyRecord, bool) {
	if i == nil || id.IsZero() {
		return model.FacultyRecord{}, false
	}
	r, ok := i.byID[id]
	return r, ok
}
