package store

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	logFile    = "records.ndjson"
	ledgerFile = "ledger.json"

	// MaxProcessedEntries bounds the ledger's processed map. Retention is
	// count-based, not age-based: entries survive until displaced by newer
	// ones.
	MaxProcessedEntries = 4000
)

// Store owns the append-only record log and the idempotency ledger, both
// plain files under one directory. Records are immutable once appended;
// callers only ever read snapshots or append. The mutex serializes appends
// and whole ledger read-modify-write cycles, since webhook and poll
// ingestion run on separate goroutines.
type Store struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Append writes one record to the end of the log, creating the directory
// and file on first use.
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(s.dir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return f.Sync()
}

// ReadTail returns up to the most recent maxCount records in original
// (oldest-first) order. Lines that fail to parse are skipped, not fatal: a
// single corrupt line must not take the whole history with it. A missing
// log means no history yet.
func (s *Store) ReadTail(maxCount int) ([]Record, error) {
	f, err := os.Open(filepath.Join(s.dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if maxCount >= 0 && len(records) > maxCount {
		records = records[len(records)-maxCount:]
	}
	return records, nil
}

// LoadLedger reads the ledger file. Missing or corrupt state falls back to
// a fresh ledger rather than failing the caller. The result is a snapshot;
// use MarkProcessedAndSave or AdvanceCursor to mutate the persisted state.
func (s *Store) LoadLedger() Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLedger()
}

func (s *Store) loadLedger() Ledger {
	data, err := os.ReadFile(filepath.Join(s.dir, ledgerFile))
	if err != nil {
		return NewLedger()
	}
	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return NewLedger()
	}
	if l.Processed == nil {
		l.Processed = map[string]int64{}
	}
	return l
}

func (s *Store) SaveLedger(l Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLedger(l)
}

func (s *Store) saveLedger(l Ledger) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, ledgerFile), data, 0o644)
}

// MarkProcessed records the current time against id and prunes the map.
func (s *Store) MarkProcessed(l *Ledger, id string) {
	if l.Processed == nil {
		l.Processed = map[string]int64{}
	}
	l.Processed[id] = s.now().UnixMilli()
	PruneProcessed(l, MaxProcessedEntries)
}

// MarkProcessedAndSave marks id in one load-mark-save cycle under the
// mutex. Activities are processed on separate goroutines; writing back a
// caller-held snapshot instead would let concurrent marks for different
// ids overwrite each other.
func (s *Store) MarkProcessedAndSave(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.loadLedger()
	l.Processed[id] = s.now().UnixMilli()
	PruneProcessed(&l, MaxProcessedEntries)
	return s.saveLedger(l)
}

// AdvanceCursor moves the poll cursor, preserving any marks written since
// the caller last read the ledger.
func (s *Store) AdvanceCursor(to int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.loadLedger()
	l.LastCheckedAt = to
	return s.saveLedger(l)
}

// PruneProcessed evicts the oldest-marked entries until exactly maxItems
// remain.
func PruneProcessed(l *Ledger, maxItems int) {
	if len(l.Processed) <= maxItems {
		return
	}

	type entry struct {
		id string
		at int64
	}
	entries := make([]entry, 0, len(l.Processed))
	for id, at := range l.Processed {
		entries = append(entries, entry{id, at})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].at < entries[j].at })

	for _, e := range entries[:len(entries)-maxItems] {
		delete(l.Processed, e.id)
	}
}
