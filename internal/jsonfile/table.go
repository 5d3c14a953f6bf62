// Package jsonfile implements a table of records persisted as one
// pretty-printed JSON array per file. Every operation reads the whole file
// and every write replaces the whole file; nothing is cached between calls.
//
// Reads skip elements that do not decode. Writes that modify the table keep
// those elements as stored and never overwrite a file that is not a JSON
// array; only SaveAll replaces a file wholesale.
//
// There is no locking. Two concurrent read-modify-write cycles on the same
// file both read the old array and the last write wins.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/jobdesk/internal/logging"
)

// emptyArray is written to a table file on first access.
var emptyArray = []byte("[]")

// Table is a file-backed array of T.
type Table[T any] struct {
	name   string
	path   string
	atomic bool
	log    logging.Logger
}

// Option configures a Table.
type Option func(*options)

type options struct {
	atomic bool
	log    logging.Logger
}

// WithAtomicWrites makes SaveAll write through a temp file, fsync and rename
// instead of truncating the table file in place.
func WithAtomicWrites(enabled bool) Option {
	return func(o *options) { o.atomic = enabled }
}

// WithLogger sets the logger used for fail-soft reporting.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// New returns a Table for dir/name. The file is not touched until Ensure or
// the first read or write.
func New[T any](dir, name string, opts ...Option) *Table[T] {
	o := options{log: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Table[T]{
		name:   name,
		path:   filepath.Join(dir, name),
		atomic: o.atomic,
		log:    o.log,
	}
}

// Name returns the table file name.
func (t *Table[T]) Name() string { return t.name }

// Path returns the table file path.
func (t *Table[T]) Path() string { return t.path }

// Ensure creates the parent directory and an empty-array file when the file
// does not exist. An existing file is never modified.
func (t *Table[T]) Ensure() error {
	if _, err := os.Stat(t.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", t.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	f, err := os.OpenFile(t.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("creating %s: %w", t.path, err)
	}
	if _, err := f.Write(emptyArray); err != nil {
		f.Close()
		return fmt.Errorf("initializing %s: %w", t.path, err)
	}
	return f.Close()
}

// Raw returns the file contents after Ensure.
func (t *Table[T]) Raw() ([]byte, error) {
	if err := t.Ensure(); err != nil {
		return nil, err
	}
	return os.ReadFile(t.path)
}

// ErrUnreadable is logged when a read-modify-write cycle meets a file it
// could not read as a JSON array. Such a file is left as it is.
var ErrUnreadable = errors.New("table file is not a readable JSON array")

// slot is one array element as stored on disk. rec holds the decoded value
// when ok; dirty marks a slot whose rec must be encoded on save. Slots that
// are not dirty are written back byte for byte.
type slot[T any] struct {
	raw   json.RawMessage
	rec   T
	ok    bool
	dirty bool
}

// load reads the file into slots. intact is false when the file could not
// be read or is not a JSON array; writing a table built from such a load
// would lose whatever the file holds.
func (t *Table[T]) load() (slots []slot[T], intact bool) {
	data, err := t.Raw()
	if err != nil {
		t.log.Error("reading table", "table", t.name, "path", t.path, "err", err)
		return nil, false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, true
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.log.Error("parsing table", "table", t.name, "path", t.path, "err", err)
		return nil, false
	}

	slots = make([]slot[T], len(raw))
	skipped := 0
	for i, elem := range raw {
		slots[i].raw = elem
		if err := json.Unmarshal(elem, &slots[i].rec); err != nil {
			skipped++
			continue
		}
		slots[i].ok = true
	}
	if skipped > 0 {
		t.log.Warn("skipped malformed records", "table", t.name, "skipped", skipped)
	}
	return slots, true
}

// LoadAll reads every record. Elements that do not decode into T are skipped.
// Any read or top-level parse failure is logged and yields an empty slice;
// the result is never nil.
func (t *Table[T]) LoadAll() []T {
	slots, _ := t.load()
	records := make([]T, 0, len(slots))
	for _, sl := range slots {
		if sl.ok {
			records = append(records, sl.rec)
		}
	}
	return records
}

// SaveAll replaces the file with records, indented by two spaces. It returns
// false and logs when the write fails.
func (t *Table[T]) SaveAll(records []T) bool {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		t.log.Error("encoding table", "table", t.name, "err", err)
		return false
	}
	return t.write(data, len(records))
}

// saveSlots writes slots back, encoding only dirty ones. Elements that did
// not decode keep their stored bytes.
func (t *Table[T]) saveSlots(slots []slot[T]) bool {
	raw := make([]json.RawMessage, len(slots))
	for i, sl := range slots {
		if !sl.dirty {
			raw[i] = sl.raw
			continue
		}
		enc, err := json.Marshal(sl.rec)
		if err != nil {
			t.log.Error("encoding record", "table", t.name, "err", err)
			return false
		}
		raw[i] = enc
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		t.log.Error("encoding table", "table", t.name, "err", err)
		return false
	}
	return t.write(data, len(raw))
}

func (t *Table[T]) write(data []byte, n int) bool {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		t.log.Error("creating data directory", "table", t.name, "path", t.path, "err", err)
		return false
	}

	write := writeInPlace
	if t.atomic {
		write = writeAtomic
	}
	if err := write(t.path, data); err != nil {
		t.log.Error("writing table", "table", t.name, "path", t.path, "err", err)
		return false
	}
	t.log.Debug("table saved", "table", t.name, "records", n)
	return true
}

// edit loads the table for a read-modify-write cycle. It returns false when
// the file must not be overwritten.
func (t *Table[T]) edit() ([]slot[T], bool) {
	slots, intact := t.load()
	if !intact {
		t.log.Error("refusing to overwrite table", "table", t.name, "path", t.path, "err", ErrUnreadable)
	}
	return slots, intact
}

// Find returns the first record matching pred.
func (t *Table[T]) Find(pred func(T) bool) (T, bool) {
	for _, rec := range t.LoadAll() {
		if pred(rec) {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns every record matching pred, in file order. Never nil.
func (t *Table[T]) Filter(pred func(T) bool) []T {
	out := []T{}
	for _, rec := range t.LoadAll() {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Upsert runs one read-modify-write cycle. The first record matching match
// is passed to update; when none matches, create builds a record that is
// appended. Every other element, including those that do not decode, is
// written back unchanged. The stored record is returned with whether the
// save succeeded.
func (t *Table[T]) Upsert(match func(T) bool, create func() T, update func(*T)) (T, bool) {
	var zero T
	slots, ok := t.edit()
	if !ok {
		return zero, false
	}

	idx := matchSlot(slots, match)
	if idx >= 0 {
		update(&slots[idx].rec)
		slots[idx].dirty = true
	} else {
		slots = append(slots, slot[T]{rec: create(), ok: true, dirty: true})
		idx = len(slots) - 1
	}

	if !t.saveSlots(slots) {
		return zero, false
	}
	return slots[idx].rec, true
}

// Update applies update to the first record matching match and saves.
// found is false, and nothing is written, when no record matches.
func (t *Table[T]) Update(match func(T) bool, update func(*T)) (rec T, found, ok bool) {
	// An unreadable file holds no matching record, so nothing is written.
	slots, _ := t.load()
	idx := matchSlot(slots, match)
	if idx < 0 {
		return rec, false, true
	}
	update(&slots[idx].rec)
	slots[idx].dirty = true
	if !t.saveSlots(slots) {
		return rec, true, false
	}
	return slots[idx].rec, true, true
}

// Append adds records at the end of the table.
func (t *Table[T]) Append(records ...T) bool {
	slots, ok := t.edit()
	if !ok {
		return false
	}
	for _, rec := range records {
		slots = append(slots, slot[T]{rec: rec, ok: true, dirty: true})
	}
	return t.saveSlots(slots)
}

// Remove deletes every record matching pred and saves the table when
// anything was removed. Elements that do not decode are kept. It returns the
// removed records and whether the table is consistent on disk (true when
// nothing needed saving).
func (t *Table[T]) Remove(pred func(T) bool) ([]T, bool) {
	slots, _ := t.load()
	kept := make([]slot[T], 0, len(slots))
	removed := []T{}
	for _, sl := range slots {
		if sl.ok && pred(sl.rec) {
			removed = append(removed, sl.rec)
			continue
		}
		kept = append(kept, sl)
	}
	if len(removed) == 0 {
		return removed, true
	}
	if !t.saveSlots(kept) {
		return nil, false
	}
	return removed, true
}

func matchSlot[T any](slots []slot[T], match func(T) bool) int {
	for i := range slots {
		if slots[i].ok && match(slots[i].rec) {
			return i
		}
	}
	return -1
}

// writeInPlace truncates and rewrites path.
func writeInPlace(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// writeAtomic writes data using the temp-file, fsync, rename pattern.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".table-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
