package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/mod/semver"

	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/learner"
)

const (
	// Namespace is the key of the single row holding the Save Record.
	Namespace = "learneye_app_data"

	// RecordVersion is the format written by this build.
	RecordVersion = "v1.1.0"

	// legacyVersion is assumed for blobs written without a version field.
	legacyVersion = "v1.0.0"
)

// Entry is one learner's persisted state.
type Entry struct {
	Profile learner.Profile `json:"profile"`
	Course  *course.Course  `json:"course"`
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := Entry{Profile: e.Profile}
	if e.Course != nil {
		out.Course = e.Course.Clone()
	}
	return out
}

// Record is the whole Save Record: learner name to entry.
type Record struct {
	Version string           `json:"version"`
	Users   map[string]Entry `json:"users"`
}

// NewRecord returns an empty record at the current version.
func NewRecord() *Record {
	return &Record{Version: RecordVersion, Users: map[string]Entry{}}
}

// Names returns the learner names in sorted order.
func (r *Record) Names() []string {
	names := make([]string, 0, len(r.Users))
	for n := range r.Users {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DecodeRecord parses a stored blob and brings it up to RecordVersion.
//
// Two layouts are accepted: the versioned envelope {"version","users"} and
// the legacy bare map of name to entry, which is treated as v1.0.0.
func DecodeRecord(data []byte) (*Record, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode save record: %w", err)
	}

	rec := &Record{}
	rawVersion, hasVersion := top["version"]
	versioned := hasVersion && json.Unmarshal(rawVersion, &rec.Version) == nil
	if versioned {
		if rawUsers, ok := top["users"]; ok {
			if err := json.Unmarshal(rawUsers, &rec.Users); err != nil {
				return nil, fmt.Errorf("decode save record users: %w", err)
			}
		}
	} else {
		rec.Version = legacyVersion
		if err := json.Unmarshal(data, &rec.Users); err != nil {
			return nil, fmt.Errorf("decode legacy save record: %w", err)
		}
	}
	if rec.Users == nil {
		rec.Users = map[string]Entry{}
	}

	if err := migrateRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// migrateRecord upgrades rec in place. Records from a newer major version
// are rejected so they are never overwritten by an older build.
func migrateRecord(rec *Record) error {
	if !semver.IsValid(rec.Version) {
		return fmt.Errorf("save record version %q is not valid semver", rec.Version)
	}
	if semver.Major(rec.Version) != semver.Major(RecordVersion) {
		return fmt.Errorf("save record version %s is incompatible with %s", rec.Version, RecordVersion)
	}

	if semver.Compare(rec.Version, "v1.1.0") < 0 {
		// v1.0.0 stored untrimmed keys and could carry a stale level.
		users := make(map[string]Entry, len(rec.Users))
		for name, e := range rec.Users {
			key := learner.NameKey(name)
			if key == "" {
				continue
			}
			e.Profile.Name = learner.NameKey(e.Profile.Name)
			if e.Profile.Name == "" {
				e.Profile.Name = key
			}
			e.Profile.Level = learner.LevelFor(e.Profile.XP)
			users[key] = e
		}
		rec.Users = users
	}

	if semver.Compare(rec.Version, RecordVersion) < 0 {
		rec.Version = RecordVersion
	}
	return nil
}

// Encode marshals the record for storage.
func (r *Record) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode save record: %w", err)
	}
	return data, nil
}
