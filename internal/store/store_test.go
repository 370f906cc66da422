package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mph-llm-experiments/fika/internal/model"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	md, err := OpenMarkdown(t.TempDir())
	require.NoError(t, err)

	sq, err := OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	return map[string]Store{
		BackendMarkdown: md,
		BackendSQLite:   sq,
		BackendMemory:   NewMemory(),
	}
}

func TestStore_CreateListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ada := model.NewContact("Ada Lovelace", now)
			ada.Birthday = "1815-12-10"
			ada.Hooks = &model.Hooks{Health: "Knee"}

			created, err := s.Create(ctx, ada)
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, 1, created.IndexID)

			bo, err := s.Create(ctx, model.NewContact("Bo", now))
			require.NoError(t, err)
			assert.Equal(t, 2, bo.IndexID)

			list, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "Ada Lovelace", list[0].Name)
			assert.Equal(t, "1815-12-10", list[0].Birthday)
			assert.True(t, list[0].LastContactedAt.Equal(now))
			require.NotNil(t, list[0].Hooks)
			assert.Equal(t, "Knee", list[0].Hooks.Health)

			edited := list[0]
			edited.Tier = model.TierWeekly
			edited.SchedulingMode = model.ModeTier
			edited.SnoozedUntil = model.At(now.Add(24 * time.Hour))
			require.NoError(t, s.Update(ctx, created.ID, edited))

			list, err = s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, model.TierWeekly, list[0].Tier)
			assert.Equal(t, model.ModeTier, list[0].SchedulingMode)
			assert.True(t, list[0].SnoozedUntil.Equal(now.Add(24*time.Hour)))
			assert.Equal(t, created.IndexID, list[0].IndexID)

			require.NoError(t, s.Delete(ctx, created.ID))
			list, err = s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "Bo", list[0].Name)
		})
	}
}

func TestStore_UnknownIDs(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Update(ctx, "missing", model.Contact{Name: "x"})
			assert.True(t, errors.Is(err, ErrNotFound), "update: %v", err)

			assert.ErrorIs(t, s.Delete(ctx, "missing"), ErrNotFound)
			assert.ErrorIs(t, s.LogInteraction(ctx, model.Interaction{ContactID: "missing", At: model.At(now)}), ErrNotFound)

			_, err = s.Interactions(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_LogInteraction(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c, err := s.Create(ctx, model.NewContact("Cy", now.AddDate(0, 0, -40)))
			require.NoError(t, err)

			first := now.Add(-2 * time.Hour)
			require.NoError(t, s.LogInteraction(ctx, model.Interaction{
				ContactID: c.ID, At: model.At(first), Type: model.InteractionCall,
			}))
			require.NoError(t, s.LogInteraction(ctx, model.Interaction{
				ContactID: c.ID, At: model.At(now), Type: model.InteractionFika, Note: "cardamom buns",
			}))

			got, err := s.Interactions(ctx, c.ID)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, model.InteractionFika, got[0].Type, "newest first")
			assert.Equal(t, "cardamom buns", got[0].Note)
			assert.True(t, got[1].At.Equal(first))

			list, err := s.List(ctx)
			require.NoError(t, err)
			assert.True(t, list[0].LastContactedAt.Equal(now))
			assert.True(t, list[0].LastInteractionAt.Equal(now))
		})
	}
}

func TestMarkdown_UpdateKeepsInteractionLog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := OpenMarkdown(dir)
	require.NoError(t, err)

	c, err := s.Create(ctx, model.NewContact("Di", now))
	require.NoError(t, err)
	require.NoError(t, s.LogInteraction(ctx, model.Interaction{ContactID: c.ID, At: model.At(now), Type: model.InteractionText}))

	// a stale snapshot taken before the log entry was written
	c.Note = "moved to Lund"
	require.NoError(t, s.Update(ctx, c.ID, c))

	got, err := s.Interactions(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	body, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "note: moved to Lund")
}

func TestMarkdown_NoteWithRuleSurvivesUpdate(t *testing.T) {
	ctx := context.Background()
	s, err := OpenMarkdown(t.TempDir())
	require.NoError(t, err)

	draft := model.NewContact("Hal", now)
	draft.SchedulingMode = model.ModeTier
	draft.Tier = model.TierWeekly
	draft.Note = "notes\n---\nmore"
	c, err := s.Create(ctx, draft)
	require.NoError(t, err)

	c.SnoozedUntil = model.At(now.AddDate(0, 0, 1))
	require.NoError(t, s.Update(ctx, c.ID, c))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "notes\n---\nmore", list[0].Note)
	assert.Equal(t, model.TierWeekly, list[0].Tier)
	assert.True(t, list[0].SnoozedUntil.Equal(now.AddDate(0, 0, 1)))
	assert.NotContains(t, list[0].Content, "tier:")
}

func TestOpenMarkdown_MissingDirectory(t *testing.T) {
	_, err := OpenMarkdown(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "does not exist")
}

func TestSQLite_MalformedTimestampsDegrade(t *testing.T) {
	s, err := OpenSQLiteMemory()
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`INSERT INTO contacts (id, index_id, name, tags, last_contacted_at, snoozed_until)
		VALUES ('x', 1, 'Ed', 'not json', 'yesterday-ish', '')`)
	require.NoError(t, err)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].LastContactedAt.Valid())
	assert.False(t, list[0].SnoozedUntil.Valid())
	assert.Equal(t, []string{"contact"}, list[0].Tags)
	assert.Equal(t, model.ModeCadence, list[0].Mode())
}

func TestSQLite_InteractionsWithinOneSecond(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLiteMemory()
	require.NoError(t, err)
	defer s.Close()

	c, err := s.Create(ctx, model.NewContact("Gus", now))
	require.NoError(t, err)

	// logged out of order so rowid cannot decide
	later := now.Add(500 * time.Millisecond)
	require.NoError(t, s.LogInteraction(ctx, model.Interaction{ContactID: c.ID, At: model.At(later), Type: model.InteractionText}))
	require.NoError(t, s.LogInteraction(ctx, model.Interaction{ContactID: c.ID, At: model.At(now), Type: model.InteractionCall}))

	got, err := s.Interactions(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.InteractionText, got[0].Type, "newest first")
	assert.True(t, got[0].At.Equal(later))
	assert.True(t, got[1].At.Equal(now))
}

func TestSQLite_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fika.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = s.Create(context.Background(), model.NewContact("Fa", now))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOpen_Backends(t *testing.T) {
	s, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(Options{Directory: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Markdown{}, s)

	_, err = Open(Options{Backend: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown storage backend")
}
