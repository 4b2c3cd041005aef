package recordstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/smallbiznis/kantin/internal/config"
	"github.com/smallbiznis/kantin/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Kind identifies one of the persisted tabular datasets.
type Kind string

const (
	KindProducts     Kind = "products"
	KindTransactions Kind = "transactions"
	KindActivity     Kind = "activity"
)

var schemas = map[Kind][]string{
	KindProducts:     {"barcode_id", "name", "category", "stock", "cost_price", "sell_price", "created_at", "updated_at"},
	KindTransactions: {"id", "barcode_id", "product_name", "quantity", "unit_price", "total_price", "profit", "created_at"},
	KindActivity:     {"id", "action", "details", "created_at"},
}

// Commit order is fixed: stock changes land before the transaction append.
var kindOrder = []Kind{KindProducts, KindTransactions, KindActivity}

// ErrCorruptData marks a backing file whose header or rows do not match the
// kind's schema. Callers treat it as a storage failure, not a domain error.
var ErrCorruptData = errors.New("corrupt data file")

// Table is an ordered sequence of rows under a fixed column schema.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable returns an empty table with the schema for kind initialized.
func NewTable(kind Kind) Table {
	columns := schemas[kind]
	return Table{
		Columns: append([]string(nil), columns...),
		Rows:    nil,
	}
}

// Schema returns the column schema for kind.
func Schema(kind Kind) []string {
	return append([]string(nil), schemas[kind]...)
}

// Store persists tables as CSV files under a single directory. All mutations
// funnel through one mutex, which is the system's single-writer serialization
// point.
type Store struct {
	dir     string
	mu      sync.RWMutex
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Open opens (creating if needed) a store rooted at dir.
func Open(dir string, log *zap.Logger, m *metrics.Metrics) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("recordstore: create data dir: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		dir:     dir,
		log:     log.Named("recordstore"),
		metrics: m,
	}, nil
}

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

func New(p Params) (*Store, error) {
	return Open(p.Cfg.DataDir, p.Log, p.Metrics)
}

var Module = fx.Module("recordstore",
	fx.Provide(New),
)

// Dir returns the store's data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the backing file path for kind. The file may not exist yet.
func (s *Store) Path(kind Kind) string {
	return filepath.Join(s.dir, string(kind)+".csv")
}

// Load reads the table for kind. A missing backing file yields an empty table
// with the schema initialized, never an error.
func (s *Store) Load(kind Kind) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadLocked(kind)
}

func (s *Store) loadLocked(kind Kind) (Table, error) {
	schema, ok := schemas[kind]
	if !ok {
		return Table{}, fmt.Errorf("recordstore: unknown kind %q", kind)
	}

	f, err := os.Open(s.Path(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return NewTable(kind), nil
		}
		return Table{}, fmt.Errorf("recordstore: open %s: %w", kind, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(schema)
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("recordstore: read %s: %v: %w", kind, err, ErrCorruptData)
	}
	if len(records) == 0 {
		return NewTable(kind), nil
	}
	if !columnsEqual(records[0], schema) {
		return Table{}, fmt.Errorf("recordstore: %s header %v does not match schema %v: %w", kind, records[0], schema, ErrCorruptData)
	}

	return Table{
		Columns: append([]string(nil), schema...),
		Rows:    records[1:],
	}, nil
}

// Save overwrites the backing file for kind wholesale. The table is written
// to a temp file in the same directory and renamed over the target so readers
// never observe a torn file.
func (s *Store) Save(kind Kind, table Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.writeTemp(kind, table)
	if err != nil {
		return err
	}
	return s.commit(map[Kind]string{kind: path})
}

// Update runs fn under the store mutex with staged access to tables, then
// commits every staged table together: all temp files are written before any
// rename, so a failure before the first rename leaves the datasets untouched.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{store: s, staged: make(map[Kind]Table)}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.staged) == 0 {
		return nil
	}

	temps := make(map[Kind]string, len(tx.staged))
	for _, kind := range kindOrder {
		table, ok := tx.staged[kind]
		if !ok {
			continue
		}
		path, err := s.writeTemp(kind, table)
		if err != nil {
			removeAll(temps)
			return err
		}
		temps[kind] = path
	}

	return s.commit(temps)
}

// Tx exposes staged reads and writes inside a Store.Update block.
type Tx struct {
	store  *Store
	staged map[Kind]Table
}

// Load returns the staged table for kind if present, otherwise the table
// currently on disk.
func (tx *Tx) Load(kind Kind) (Table, error) {
	if table, ok := tx.staged[kind]; ok {
		return table, nil
	}
	return tx.store.loadLocked(kind)
}

// Stage records table as the new content for kind. Nothing is written until
// the Update block returns successfully.
func (tx *Tx) Stage(kind Kind, table Table) error {
	schema, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("recordstore: unknown kind %q", kind)
	}
	if !columnsEqual(table.Columns, schema) {
		return fmt.Errorf("recordstore: stage %s: columns %v do not match schema %v", kind, table.Columns, schema)
	}
	tx.staged[kind] = table
	return nil
}

func (s *Store) writeTemp(kind Kind, table Table) (string, error) {
	schema := schemas[kind]
	if !columnsEqual(table.Columns, schema) {
		return "", fmt.Errorf("recordstore: save %s: columns %v do not match schema %v", kind, table.Columns, schema)
	}
	for i, row := range table.Rows {
		if len(row) != len(schema) {
			return "", fmt.Errorf("recordstore: save %s: row %d has %d fields, want %d", kind, i, len(row), len(schema))
		}
	}

	f, err := os.CreateTemp(s.dir, "."+string(kind)+".tmp-")
	if err != nil {
		return "", fmt.Errorf("recordstore: temp file for %s: %w", kind, err)
	}

	w := csv.NewWriter(f)
	writeErr := w.Write(table.Columns)
	if writeErr == nil {
		writeErr = w.WriteAll(table.Rows)
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if writeErr == nil {
		writeErr = f.Sync()
	}
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("recordstore: write %s: %w", kind, writeErr)
	}

	return f.Name(), nil
}

func (s *Store) commit(temps map[Kind]string) error {
	for _, kind := range kindOrder {
		path, ok := temps[kind]
		if !ok {
			continue
		}
		if err := os.Rename(path, s.Path(kind)); err != nil {
			removeAll(temps)
			return fmt.Errorf("recordstore: commit %s: %w", kind, err)
		}
		delete(temps, kind)
		if s.metrics != nil {
			s.metrics.ObserveStoreSave(string(kind))
		}
		s.log.Debug("table saved", zap.String("kind", string(kind)))
	}
	return nil
}

func removeAll(temps map[Kind]string) {
	for _, path := range temps {
		_ = os.Remove(path)
	}
}

func columnsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
