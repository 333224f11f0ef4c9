package history_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testology/psyengine/internal/adapters/outbound/history"
	"github.com/testology/psyengine/internal/domain"
)

var t0 = time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

func sample(id, user, test string, score *float64, subs string, at time.Time) domain.HistoryRecord {
	rec := domain.HistoryRecord{
		ID:        id,
		UserID:    user,
		TestID:    test,
		TestSlug:  test,
		Score:     score,
		LevelID:   "mild",
		CreatedAt: at,
	}
	if subs != "" {
		rec.Subscales = json.RawMessage(subs)
	}
	return rec
}

// storeContract runs the same expectations against every driver.
func storeContract(t *testing.T, open func(t *testing.T) history.Store) {
	ctx := context.Background()

	t.Run("append and list", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Append(ctx, sample("r1", "u1", "GAD7", domain.Float(7), `[{"id":"anxiety","label":"Anxiety","score":7}]`, t0)))
		require.NoError(t, s.Append(ctx, sample("r2", "u2", "PHQ9", domain.Float(3), "", t0)))
		require.NoError(t, s.Append(ctx, sample("r3", "u1", "MBTI", nil, `"[{\"id\":\"EI\",\"score\":4}]"`, t0.Add(time.Hour))))

		got, err := s.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "r1", got[0].ID)
		assert.Equal(t, 7.0, *got[0].Score)
		assert.JSONEq(t, `[{"id":"anxiety","label":"Anxiety","score":7}]`, string(got[0].Subscales))
		assert.True(t, t0.Equal(got[0].CreatedAt))

		assert.Nil(t, got[1].Score)
		assert.JSONEq(t, `"[{\"id\":\"EI\",\"score\":4}]"`, string(got[1].Subscales))
	})

	t.Run("empty", func(t *testing.T) {
		got, err := open(t).List(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("get", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Append(ctx, sample("r1", "u1", "GAD7", domain.Float(7), "", t0)))

		rec, err := s.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "GAD7", rec.TestID)
		assert.Empty(t, rec.Subscales)

		_, err = s.Get(ctx, "missing")
		assert.ErrorIs(t, err, history.ErrNotFound)
	})
}

func TestFileHistory(t *testing.T) {
	storeContract(t, func(t *testing.T) history.Store {
		return history.New(filepath.Join(t.TempDir(), "deep", "nested", "history.json"))
	})
}

func TestSQLiteStore(t *testing.T) {
	storeContract(t, func(t *testing.T) history.Store {
		s, err := history.NewSQLite(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := history.NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), sample("r1", "u1", "GAD7", domain.Float(7), "", t0)))
	require.NoError(t, s.Close())

	s, err = history.NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := history.Open("file", filepath.Join(dir, "h.json"))
	require.NoError(t, err)
	assert.IsType(t, &history.FileHistory{}, s)

	s, err = history.Open("sqlite", filepath.Join(dir, "h.db"))
	require.NoError(t, err)
	assert.IsType(t, &history.SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = history.Open("postgres", "x")
	assert.ErrorContains(t, err, "unknown history driver")
}

func TestFileHistory_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := history.New(path).List(context.Background(), "u1")
	assert.ErrorContains(t, err, "parsing")
}
