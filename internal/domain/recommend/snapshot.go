package recommend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SnapshotStatus tags the outcome of reading a stored subscale snapshot.
type SnapshotStatus int

const (
	SnapshotOK SnapshotStatus = iota
	SnapshotMissing
	SnapshotMalformed
)

func (s SnapshotStatus) String() string {
	switch s {
	case SnapshotOK:
		return "ok"
	case SnapshotMissing:
		return "missing"
	case SnapshotMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("SnapshotStatus(%d)", int(s))
	}
}

// SubscaleEntry is one subscale score read back from history.
type SubscaleEntry struct {
	ID    string
	Score float64
}

// Snapshot is the decoded subscale list of a history record.
// Entries is only meaningful when Status is SnapshotOK; Err explains
// SnapshotMalformed.
type Snapshot struct {
	Status  SnapshotStatus
	Entries []SubscaleEntry
	Err     error
}

// Find returns the first entry with the given id.
func (s Snapshot) Find(id string) (SubscaleEntry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return SubscaleEntry{}, false
}

var errNotArray = errors.New("subscales are not a JSON array")

// storedEntry accepts both the current and the legacy key names.
type storedEntry struct {
	ID         string   `json:"id"`
	SubscaleID string   `json:"subscaleId"`
	Score      *float64 `json:"score"`
	Value      *float64 `json:"value"`
}

// ParseSnapshot decodes a stored snapshot. It accepts a JSON array of
// objects, or a JSON string wrapping such an array. Nothing, null and
// the empty string are SnapshotMissing; anything else is SnapshotMalformed.
//
// An entry's id is "id", else "subscaleId". Its score is a non-zero
// "score", else "value", else zero. Entries with no id, or with neither
// score nor value, are dropped.
func ParseSnapshot(raw json.RawMessage) Snapshot {
	return parseSnapshot(raw, true)
}

func parseSnapshot(raw []byte, allowWrapped bool) Snapshot {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Snapshot{Status: SnapshotMissing}
	}

	switch raw[0] {
	case '[':
		var stored []*storedEntry
		if err := json.Unmarshal(raw, &stored); err != nil {
			return malformed(err)
		}
		return Snapshot{Status: SnapshotOK, Entries: entries(stored)}
	case '"':
		if !allowWrapped {
			return malformed(errNotArray)
		}
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return malformed(err)
		}
		if strings.TrimSpace(inner) == "" {
			return Snapshot{Status: SnapshotMissing}
		}
		return parseSnapshot([]byte(inner), false)
	default:
		return malformed(errNotArray)
	}
}

func entries(stored []*storedEntry) []SubscaleEntry {
	out := make([]SubscaleEntry, 0, len(stored))
	for _, s := range stored {
		if s == nil {
			continue
		}
		id := s.ID
		if id == "" {
			id = s.SubscaleID
		}
		if id == "" {
			continue
		}

		var score float64
		switch {
		case s.Score != nil && *s.Score != 0:
			score = *s.Score
		case s.Value != nil:
			score = *s.Value
		case s.Score != nil:
			score = 0
		default:
			continue
		}
		out = append(out, SubscaleEntry{ID: id, Score: score})
	}
	return out
}

func malformed(err error) Snapshot {
	return Snapshot{Status: SnapshotMalformed, Err: fmt.Errorf("decoding subscales: %w", err)}
}
