package history

import (
	"errors"

	"backend-pacewatch/internal/compare"
	"backend-pacewatch/internal/splits"
	"backend-pacewatch/internal/store"
)

// ErrNotFound is returned when no logged record carries the requested id.
var ErrNotFound = errors.New("history: record not found")

const (
	defaultLimit = 20
	maxLimit     = 100
	scanDepth    = 500
)

// ComparisonView is what the read API returns for one activity: the stored
// record with the week-over-week comparison recomputed from the log.
type ComparisonView struct {
	Record     store.Record        `json:"record"`
	Verdict    *splits.Verdict     `json:"verdict"`
	Comparison *compare.Comparison `json:"comparison"`
}

// Service is the read-only view over the record log.
type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Recent returns the newest records, oldest first.
func (s *Service) Recent(limit int) ([]store.Record, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.store.ReadTail(limit)
}

// Comparison recomputes the comparison for a logged activity. The log is
// the source of truth, so the result matches what was delivered at ingest
// time as long as the history hasn't been pruned.
func (s *Service) Comparison(id int64) (ComparisonView, error) {
	records, err := s.store.ReadTail(scanDepth)
	if err != nil {
		return ComparisonView{}, err
	}

	idx := -1
	for i := range records {
		if records[i].Activity.ID == id {
			idx = i // keep scanning: the newest entry for the id wins
		}
	}
	if idx < 0 {
		return ComparisonView{}, ErrNotFound
	}

	rec := records[idx]
	view := ComparisonView{Record: rec}
	if rec.Derived.Mode == splits.ModePace {
		view.Verdict = splits.ClassifyPacing(rec.Derived.Splits)
	}

	match := compare.FindComparable(rec, records[:idx])
	view.Comparison = compare.Compare(rec, match)
	return view, nil
}
