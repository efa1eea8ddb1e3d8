package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapspeak/backend/internal/domain/progress"
	"github.com/tapspeak/backend/internal/store"
)

func date(t *testing.T, s string) progress.Date {
	t.Helper()
	d, err := progress.ParseDate(s)
	require.NoError(t, err)
	return d
}

// forEachStore runs the same suite against the in-memory and the SQLite
// implementations; the two must be interchangeable.
func forEachStore(t *testing.T, fn func(t *testing.T, s store.Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, store.NewMemory())
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})
}

func TestEnrollAndGetProgress(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		today := date(t, "2025-01-01")

		p, err := s.Enroll(ctx, "riona", "g:apple", today)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Stage)
		assert.Equal(t, today, p.Due)
		assert.Equal(t, today, p.EnrolledAt)

		got, err := s.GetProgress(ctx, "riona", "g:apple", today)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})
}

func TestGetProgressUnenrolled(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		_, err := s.GetProgress(ctx, "riona", "g:nope", date(t, "2025-01-01"))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestDeleteProgressIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		today := date(t, "2025-01-01")

		_, err := s.Enroll(ctx, "riona", "g:apple", today)
		require.NoError(t, err)

		require.NoError(t, s.DeleteProgress(ctx, "riona", "g:apple"))
		_, err = s.GetProgress(ctx, "riona", "g:apple", today)
		assert.ErrorIs(t, err, store.ErrNotFound)

		// Deleting again, or deleting something never enrolled, is a no-op.
		assert.NoError(t, s.DeleteProgress(ctx, "riona", "g:apple"))
		assert.NoError(t, s.DeleteProgress(ctx, "riona", "g:never"))
	})
}

func TestWrongTodayLazyExpiry(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		wrongDay := date(t, "2025-06-01")

		p := progress.Progress{
			Stage:          2,
			Due:            date(t, "2025-06-04"),
			EnrolledAt:     date(t, "2025-05-01"),
			WrongToday:     true,
			WrongTodayDate: wrongDay,
		}
		require.NoError(t, s.SetProgress(ctx, "riona", "g:apple", p))

		// Same day: the flag is live.
		got, err := s.GetProgress(ctx, "riona", "g:apple", wrongDay)
		require.NoError(t, err)
		assert.True(t, got.WrongToday)
		assert.True(t, got.IsDue(wrongDay))

		// Next day: the store must never surface a stale flag.
		nextDay := date(t, "2025-06-02")
		got, err = s.GetProgress(ctx, "riona", "g:apple", nextDay)
		require.NoError(t, err)
		assert.False(t, got.WrongToday)
		assert.False(t, got.IsDue(nextDay), "stale flag must not make the word due")

		all, err := s.AllProgress(ctx, "riona", nextDay)
		require.NoError(t, err)
		assert.False(t, all["g:apple"].WrongToday)
	})
}

func TestAllProgressSnapshot(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		today := date(t, "2025-01-01")

		_, err := s.Enroll(ctx, "riona", "g:apple", today)
		require.NoError(t, err)
		_, err = s.Enroll(ctx, "riona", "g:cat", today)
		require.NoError(t, err)
		_, err = s.Enroll(ctx, "soma", "g:dog", today)
		require.NoError(t, err)

		all, err := s.AllProgress(ctx, "riona", today)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Contains(t, all, "g:apple")
		assert.Contains(t, all, "g:cat")

		empty, err := s.AllProgress(ctx, "nobody", today)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestPointRollover(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()

		var granted []bool
		for i := 0; i < 10; i++ {
			res, err := s.RecordCorrectReview(ctx, "riona")
			require.NoError(t, err)
			granted = append(granted, res.PointGranted)
		}

		want := []bool{false, false, false, false, false, false, false, false, false, true}
		assert.Equal(t, want, granted)

		points, err := s.Points(ctx, "riona")
		require.NoError(t, err)
		assert.Equal(t, 1, points, "exactly one point per ten correct answers")

		// The counter rolled back to zero: the next answer grants nothing.
		res, err := s.RecordCorrectReview(ctx, "riona")
		require.NoError(t, err)
		assert.False(t, res.PointGranted)
		assert.Equal(t, 1, res.Points)
	})
}

func TestResetPoints(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()

		for i := 0; i < 13; i++ {
			_, err := s.RecordCorrectReview(ctx, "riona")
			require.NoError(t, err)
		}
		require.NoError(t, s.ResetPoints(ctx, "riona"))

		points, err := s.Points(ctx, "riona")
		require.NoError(t, err)
		assert.Zero(t, points)

		// Counter was reset too: ten more answers are needed for a point.
		for i := 0; i < 9; i++ {
			res, err := s.RecordCorrectReview(ctx, "riona")
			require.NoError(t, err)
			assert.False(t, res.PointGranted)
		}
	})
}

func TestResetLearningKeepsAvatar(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		today := date(t, "2025-01-01")

		avatar := "data:image/png;base64,abc"
		_, err := s.UpdateSettings(ctx, "riona", store.SettingsPatch{AvatarDataURL: &avatar})
		require.NoError(t, err)
		_, err = s.Enroll(ctx, "riona", "g:apple", today)
		require.NoError(t, err)
		_, err = s.RecordCorrectReview(ctx, "riona")
		require.NoError(t, err)

		require.NoError(t, s.ResetLearning(ctx, "riona"))

		all, err := s.AllProgress(ctx, "riona", today)
		require.NoError(t, err)
		assert.Empty(t, all)

		points, err := s.Points(ctx, "riona")
		require.NoError(t, err)
		assert.Zero(t, points)

		settings, err := s.Settings(ctx, "riona")
		require.NoError(t, err)
		assert.Equal(t, avatar, settings.AvatarDataURL, "learning reset must not touch the avatar")
	})
}

func TestSettingsDefaultsAndPatch(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()

		settings, err := s.Settings(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, store.DefaultSettings(), settings)

		rate := 1.2
		pin := "4321"
		updated, err := s.UpdateSettings(ctx, "riona", store.SettingsPatch{TTSRate: &rate, PIN: &pin})
		require.NoError(t, err)
		assert.Equal(t, 1.2, updated.TTSRate)
		assert.Equal(t, "4321", updated.PIN)
		assert.Equal(t, 0.7, updated.SEVolume, "unpatched fields keep their values")
	})
}

func TestExportImportRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		today := date(t, "2025-01-01")

		_, err := s.Enroll(ctx, "riona", "g:apple", today)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			_, err = s.RecordCorrectReview(ctx, "riona")
			require.NoError(t, err)
		}

		backup, err := s.ExportUser(ctx, "riona")
		require.NoError(t, err)
		assert.Equal(t, 3, backup.CorrectSincePoint)
		require.Contains(t, backup.Progress, "g:apple")
		assert.Equal(t, "2025-01-01", backup.Progress["g:apple"].Due)
		assert.Equal(t, "2025-01-01", backup.Progress["g:apple"].EnrolledAt)

		// Restore into a different user of the same store.
		require.NoError(t, s.ImportUser(ctx, "soma", backup))

		got, err := s.GetProgress(ctx, "soma", "g:apple", today)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Stage)
		assert.Equal(t, today, got.Due)
	})
}

func TestImportPreservesStoredAvatar(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()

		avatar := "data:image/png;base64,mine"
		_, err := s.UpdateSettings(ctx, "riona", store.SettingsPatch{AvatarDataURL: &avatar})
		require.NoError(t, err)

		backup := store.UserBackup{
			Points:   5,
			Settings: store.Settings{SEVolume: 0.5, TTSRate: 1.1, PIN: "9999", AvatarDataURL: "data:image/png;base64,theirs"},
			Progress: map[string]store.ProgressRecord{},
		}
		require.NoError(t, s.ImportUser(ctx, "riona", backup))

		settings, err := s.Settings(ctx, "riona")
		require.NoError(t, err)
		assert.Equal(t, avatar, settings.AvatarDataURL, "import keeps the stored avatar")
		assert.Equal(t, "9999", settings.PIN)

		points, err := s.Points(ctx, "riona")
		require.NoError(t, err)
		assert.Equal(t, 5, points)
	})
}

func TestImportRepairsCorruptBackup(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		today := date(t, "2025-06-01")

		backup := store.UserBackup{
			Points:            -4,
			CorrectSincePoint: 37,
			Progress: map[string]store.ProgressRecord{
				"g:apple": {Stage: 99, Due: "not-a-date", EnrolledAt: "2025-01-01"},
			},
		}
		require.NoError(t, s.ImportUser(ctx, "riona", backup))

		points, err := s.Points(ctx, "riona")
		require.NoError(t, err)
		assert.Zero(t, points)

		got, err := s.GetProgress(ctx, "riona", "g:apple", today)
		require.NoError(t, err)
		assert.Equal(t, progress.MaxStage, got.Stage, "stage clamped at the boundary")
		assert.True(t, got.IsDue(today), "unreadable due date degrades to immediately due")
	})
}

func TestListAndEnsureUsers(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()

		require.NoError(t, s.EnsureUser(ctx, "soma"))
		require.NoError(t, s.EnsureUser(ctx, "riona"))
		require.NoError(t, s.EnsureUser(ctx, "riona")) // idempotent

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"riona", "soma"}, users)
	})
}
