package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := openTestDB(t)
	v, err := db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Re-applying is a no-op.
	require.NoError(t, db.MigrateUp())
	v, err = db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	id, err := repo.Create("play", "", epoch)
	require.NoError(t, err)
	require.NoError(t, repo.End(id, epoch.Add(90*time.Second)))

	s, err := repo.Get(id)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "play", s.Source)
	assert.Nil(t, s.Notes)
	require.NotNil(t, s.DurationMs)
	assert.Equal(t, int64(90000), *s.DurationMs)
	require.NotNil(t, s.EndedAt)

	missing, err := repo.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	first, err := repo.Create("simulate", "a", epoch)
	require.NoError(t, err)
	second, err := repo.Create("simulate", "b", epoch.Add(time.Minute))
	require.NoError(t, err)

	list, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].SessionID)
	assert.Equal(t, first, list[1].SessionID)

	last, err := repo.GetLast()
	require.NoError(t, err)
	assert.Equal(t, second, last.SessionID)
}

func TestEventsAndCounts(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	events := NewEventRepository(db)

	id, err := sessions.Create("play", "", epoch)
	require.NoError(t, err)

	cmd := "Y1"
	rule := "quick_flick"
	_, err = events.Create(Event{SessionID: id, TsMs: 20, Kind: KindCommit, Command: &cmd})
	require.NoError(t, err)
	_, err = events.Create(Event{SessionID: id, TsMs: 10, Kind: KindGesture, Rule: &rule})
	require.NoError(t, err)
	_, err = events.Create(Event{SessionID: id, TsMs: 30, Kind: KindGesture, Rule: &rule})
	require.NoError(t, err)

	list, err := events.ListBySession(id)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(10), list[0].TsMs)
	assert.Equal(t, KindCommit, list[1].Kind)

	counts, err := events.Counts(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{KindGesture: 2, KindCommit: 1}, counts)

	rules, err := events.RuleCounts("")
	require.NoError(t, err)
	assert.Equal(t, 2, rules["quick_flick"])
}

func TestEventKindIsChecked(t *testing.T) {
	db := openTestDB(t)
	id, err := NewSessionRepository(db).Create("play", "", epoch)
	require.NoError(t, err)

	_, err = NewEventRepository(db).Create(Event{SessionID: id, Kind: "bogus"})
	assert.Error(t, err)
}

func TestRecorderJournalsEngine(t *testing.T) {
	db := openTestDB(t)
	clock := cubetwist.NewManualClock(epoch)

	s := scene.New(scene.WithCamera(cubetwist.OrbitCamera{Distance: cubetwist.DefaultCameraDistance}))
	e := cubetwist.NewEngine(s, s.Handles(), cubetwist.WithClock(clock))

	rec := NewRecorder(db, clock, nil)
	rec.Attach(e)

	// Nothing is written before a session starts.
	require.NoError(t, e.Rotate(cubetwist.X0))
	s.Step(3 * time.Second)

	id, err := rec.Start("test", "")
	require.NoError(t, err)
	assert.Equal(t, StateRecording, rec.State())

	start := cubetwist.Vec2{650, 550}
	e.BeganAt(start, clock.Now())
	clock.Advance(16 * time.Millisecond)
	out := e.MovedAt(start.Add(cubetwist.Vec2{30, 0}), clock.Now())
	require.True(t, out.Started(), "%v", out.Err)

	// A second twist while the first animates is dropped.
	e.Ended()
	e.BeganAt(start, clock.Now())
	clock.Advance(16 * time.Millisecond)
	e.MovedAt(start.Add(cubetwist.Vec2{0, 30}), clock.Now())
	e.Ended()

	s.Step(3 * time.Second)
	require.NoError(t, rec.End())

	assert.Equal(t, map[string]int{KindGesture: 2, KindCommit: 1, KindDrop: 1}, rec.Counts())

	counts, err := NewEventRepository(db).Counts(id)
	require.NoError(t, err)
	assert.Equal(t, rec.Counts(), counts)

	list, err := NewEventRepository(db).ListBySession(id)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, int64(16), list[0].TsMs)
}

func TestRecorderStartTwiceFails(t *testing.T) {
	db := openTestDB(t)
	rec := NewRecorder(db, cubetwist.NewManualClock(epoch), nil)
	_, err := rec.Start("play", "")
	require.NoError(t, err)
	_, err = rec.Start("play", "")
	assert.Error(t, err)

	require.NoError(t, rec.End())
	assert.Error(t, rec.End())
}
