package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/learner"
)

// SaveRecordRepo keeps the Save Record in memory and writes the whole blob
// back to the database on every mutation.
type SaveRecordRepo struct {
	db  *sql.DB
	log *zap.Logger

	mu  sync.RWMutex
	rec *Record
}

func newSaveRecordRepo(db *sql.DB, log *zap.Logger) *SaveRecordRepo {
	return &SaveRecordRepo{db: db, log: log, rec: NewRecord()}
}

// Load reads the Save Record from the database. A blob that cannot be
// decoded is copied to the quarantine table and the repo starts empty.
func (r *SaveRecordRepo) Load(ctx context.Context) error {
	var data string
	err := r.db.QueryRowContext(ctx,
		"SELECT data FROM save_records WHERE namespace = ?", Namespace).Scan(&data)

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case errors.Is(err, sql.ErrNoRows):
		r.rec = NewRecord()
		return nil
	case err != nil:
		return fmt.Errorf("read save record: %w", err)
	}

	rec, decodeErr := DecodeRecord([]byte(data))
	if decodeErr != nil {
		r.log.Error("save record unreadable, starting empty", zap.Error(decodeErr))
		if qerr := r.quarantine(ctx, data, decodeErr.Error()); qerr != nil {
			return fmt.Errorf("quarantine save record: %w", qerr)
		}
		rec = NewRecord()
	}

	r.rec = rec
	return nil
}

// Get returns a copy of the entry stored under name.
func (r *SaveRecordRepo) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rec.Users[learner.NameKey(name)]
	if !ok {
		return Entry{}, false
	}
	return e.Clone(), true
}

// Names lists stored learner names in sorted order.
func (r *SaveRecordRepo) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rec.Names()
}

// Put stores entry under name and flushes the record.
func (r *SaveRecordRepo) Put(ctx context.Context, name string, entry Entry) error {
	key := learner.NameKey(name)
	if key == "" {
		return fmt.Errorf("%w: empty name", learner.ErrInvalidProfile)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, had := r.rec.Users[key]
	r.rec.Users[key] = entry.Clone()
	if err := r.flushLocked(ctx); err != nil {
		if had {
			r.rec.Users[key] = prev
		} else {
			delete(r.rec.Users, key)
		}
		return err
	}
	return nil
}

// PutProfile replaces the profile of an entry, keeping its course. A missing
// entry is created with no course.
func (r *SaveRecordRepo) PutProfile(ctx context.Context, p learner.Profile) error {
	entry, _ := r.Get(p.Key())
	entry.Profile = p
	return r.Put(ctx, p.Key(), entry)
}

// PutCourse replaces the course of an existing entry, keeping its profile.
func (r *SaveRecordRepo) PutCourse(ctx context.Context, name string, c *course.Course) error {
	entry, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("put course for %q: %w", name, ErrNotFound)
	}
	entry.Course = c
	return r.Put(ctx, name, entry)
}

// Snapshot returns a deep copy of the whole record.
func (r *SaveRecordRepo) Snapshot() *Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &Record{Version: r.rec.Version, Users: make(map[string]Entry, len(r.rec.Users))}
	for k, e := range r.rec.Users {
		out.Users[k] = e.Clone()
	}
	return out
}

// Export writes the record as indented JSON.
func (r *SaveRecordRepo) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Snapshot()); err != nil {
		return fmt.Errorf("export save record: %w", err)
	}
	return nil
}

// Import replaces the stored record with the JSON read from rd. Every
// profile and course must validate before anything is written.
func (r *SaveRecordRepo) Import(ctx context.Context, rd io.Reader) (int, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return 0, fmt.Errorf("read import: %w", err)
	}
	rec, err := DecodeRecord(data)
	if err != nil {
		return 0, err
	}
	for name, e := range rec.Users {
		if err := e.Profile.Validate(); err != nil {
			return 0, fmt.Errorf("import %q: %w", name, err)
		}
		if e.Profile.Key() != name {
			return 0, fmt.Errorf("import %q: profile name %q does not match key", name, e.Profile.Name)
		}
		if e.Course != nil {
			if err := e.Course.CheckInvariants(); err != nil {
				return 0, fmt.Errorf("import %q course: %w", name, err)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.rec
	r.rec = rec
	if err := r.flushLocked(ctx); err != nil {
		r.rec = prev
		return 0, err
	}
	return len(rec.Users), nil
}

func (r *SaveRecordRepo) flushLocked(ctx context.Context) error {
	data, err := r.rec.Encode()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO save_records (namespace, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			data=excluded.data,
			updated_at=excluded.updated_at`,
		Namespace, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write save record: %w", err)
	}
	return nil
}

func (r *SaveRecordRepo) quarantine(ctx context.Context, data, reason string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO save_record_quarantine (namespace, data, reason) VALUES (?, ?, ?)",
		Namespace, data, reason)
	return err
}
