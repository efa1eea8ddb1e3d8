package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tapspeak/backend/internal/domain/progress"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    points INTEGER NOT NULL DEFAULT 0,
    correct_since_point INTEGER NOT NULL DEFAULT 0,
    se_volume REAL NOT NULL DEFAULT 0.7,
    tts_rate REAL NOT NULL DEFAULT 1.0,
    voice_uri TEXT NOT NULL DEFAULT '',
    pin TEXT NOT NULL DEFAULT '1234',
    avatar_data_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS progress (
    user_id TEXT NOT NULL,
    word_id TEXT NOT NULL,
    stage INTEGER NOT NULL,
    due TEXT NOT NULL,
    enrolled_at TEXT NOT NULL,
    wrong_today INTEGER NOT NULL DEFAULT 0,
    wrong_today_date TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (user_id, word_id),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

// SQLiteStore is the production Store, one local database file per device.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", dbPath, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureUser(ctx context.Context, q interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, userID string) error {
	_, err := q.ExecContext(ctx, "INSERT OR IGNORE INTO users (id) VALUES (?)", userID)
	return err
}

func (s *SQLiteStore) EnsureUser(ctx context.Context, userID string) error {
	return s.ensureUser(ctx, s.db, userID)
}

// ============================================================================
// Progress
// ============================================================================

func (s *SQLiteStore) GetProgress(ctx context.Context, userID, wordID string, today progress.Date) (progress.Progress, error) {
	var r ProgressRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT stage, due, enrolled_at, wrong_today, wrong_today_date
		FROM progress WHERE user_id = ? AND word_id = ?`, userID, wordID).
		Scan(&r.Stage, &r.Due, &r.EnrolledAt, &r.WrongToday, &r.WrongTodayDate)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.Progress{}, ErrNotFound
	}
	if err != nil {
		return progress.Progress{}, err
	}
	return ProgressFromRecord(r).Normalize(today), nil
}

func (s *SQLiteStore) SetProgress(ctx context.Context, userID, wordID string, p progress.Progress) error {
	if err := s.ensureUser(ctx, s.db, userID); err != nil {
		return err
	}
	p.Stage = progress.ClampStage(p.Stage)
	r := RecordFromProgress(p)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (user_id, word_id, stage, due, enrolled_at, wrong_today, wrong_today_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			stage = excluded.stage,
			due = excluded.due,
			enrolled_at = excluded.enrolled_at,
			wrong_today = excluded.wrong_today,
			wrong_today_date = excluded.wrong_today_date`,
		userID, wordID, r.Stage, r.Due, r.EnrolledAt, r.WrongToday, r.WrongTodayDate)
	return err
}

func (s *SQLiteStore) DeleteProgress(ctx context.Context, userID, wordID string) error {
	// Deleting a missing row is fine: unenroll is idempotent.
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM progress WHERE user_id = ? AND word_id = ?", userID, wordID)
	return err
}

func (s *SQLiteStore) Enroll(ctx context.Context, userID, wordID string, today progress.Date) (progress.Progress, error) {
	p := progress.New(today)
	if err := s.SetProgress(ctx, userID, wordID, p); err != nil {
		return progress.Progress{}, err
	}
	return p, nil
}

func (s *SQLiteStore) AllProgress(ctx context.Context, userID string, today progress.Date) (map[string]progress.Progress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT word_id, stage, due, enrolled_at, wrong_today, wrong_today_date
		FROM progress WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]progress.Progress)
	for rows.Next() {
		var wordID string
		var r ProgressRecord
		if err := rows.Scan(&wordID, &r.Stage, &r.Due, &r.EnrolledAt, &r.WrongToday, &r.WrongTodayDate); err != nil {
			return nil, err
		}
		out[wordID] = ProgressFromRecord(r).Normalize(today)
	}
	return out, rows.Err()
}

// ============================================================================
// Points and the correct-streak counter
// ============================================================================

func (s *SQLiteStore) Points(ctx context.Context, userID string) (int, error) {
	var points int
	err := s.db.QueryRowContext(ctx,
		"SELECT points FROM users WHERE id = ?", userID).Scan(&points)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return points, err
}

func (s *SQLiteStore) RecordCorrectReview(ctx context.Context, userID string) (CorrectReviewResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CorrectReviewResult{}, err
	}
	defer tx.Rollback()

	if err := s.ensureUser(ctx, tx, userID); err != nil {
		return CorrectReviewResult{}, err
	}

	var points, counter int
	if err := tx.QueryRowContext(ctx,
		"SELECT points, correct_since_point FROM users WHERE id = ?", userID).
		Scan(&points, &counter); err != nil {
		return CorrectReviewResult{}, err
	}

	counter++
	result := CorrectReviewResult{}
	if counter >= correctPerPoint {
		counter = 0
		points++
		result.PointGranted = true
	}
	result.Points = points

	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET points = ?, correct_since_point = ? WHERE id = ?",
		points, counter, userID); err != nil {
		return CorrectReviewResult{}, err
	}
	return result, tx.Commit()
}

func (s *SQLiteStore) ResetPoints(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET points = 0, correct_since_point = 0 WHERE id = ?", userID)
	return err
}

func (s *SQLiteStore) ResetLearning(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM progress WHERE user_id = ?", userID); err != nil {
		return err
	}
	// Settings columns, including the avatar, are deliberately untouched.
	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET points = 0, correct_since_point = 0 WHERE id = ?", userID); err != nil {
		return err
	}
	return tx.Commit()
}

// ============================================================================
// Settings
// ============================================================================

func (s *SQLiteStore) Settings(ctx context.Context, userID string) (Settings, error) {
	var out Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT se_volume, tts_rate, voice_uri, pin, avatar_data_url
		FROM users WHERE id = ?`, userID).
		Scan(&out.SEVolume, &out.TTSRate, &out.VoiceURI, &out.PIN, &out.AvatarDataURL)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(), nil
	}
	return out, err
}

func (s *SQLiteStore) UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (Settings, error) {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return Settings{}, err
	}
	current, err := s.Settings(ctx, userID)
	if err != nil {
		return Settings{}, err
	}
	next := patch.apply(current)
	_, err = s.db.ExecContext(ctx, `
		UPDATE users SET se_volume = ?, tts_rate = ?, voice_uri = ?, pin = ?, avatar_data_url = ?
		WHERE id = ?`,
		next.SEVolume, next.TTSRate, next.VoiceURI, next.PIN, next.AvatarDataURL, userID)
	return next, err
}

// ============================================================================
// Backup
// ============================================================================

func (s *SQLiteStore) ExportUser(ctx context.Context, userID string) (UserBackup, error) {
	backup := UserBackup{
		Settings: DefaultSettings(),
		Progress: map[string]ProgressRecord{},
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT points, correct_since_point, se_volume, tts_rate, voice_uri, pin, avatar_data_url
		FROM users WHERE id = ?`, userID).
		Scan(&backup.Points, &backup.CorrectSincePoint,
			&backup.Settings.SEVolume, &backup.Settings.TTSRate,
			&backup.Settings.VoiceURI, &backup.Settings.PIN,
			&backup.Settings.AvatarDataURL)
	if errors.Is(err, sql.ErrNoRows) {
		return backup, nil
	}
	if err != nil {
		return UserBackup{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT word_id, stage, due, enrolled_at, wrong_today, wrong_today_date
		FROM progress WHERE user_id = ?`, userID)
	if err != nil {
		return UserBackup{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var wordID string
		var r ProgressRecord
		if err := rows.Scan(&wordID, &r.Stage, &r.Due, &r.EnrolledAt, &r.WrongToday, &r.WrongTodayDate); err != nil {
			return UserBackup{}, err
		}
		backup.Progress[wordID] = r
	}
	return backup, rows.Err()
}

func (s *SQLiteStore) ImportUser(ctx context.Context, userID string, backup UserBackup) error {
	backup = backup.sanitize()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.ensureUser(ctx, tx, userID); err != nil {
		return err
	}

	// The stored avatar wins over the imported one, matching the original
	// backup-restore behavior.
	var keepAvatar string
	if err := tx.QueryRowContext(ctx,
		"SELECT avatar_data_url FROM users WHERE id = ?", userID).Scan(&keepAvatar); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET points = ?, correct_since_point = ?,
			se_volume = ?, tts_rate = ?, voice_uri = ?, pin = ?, avatar_data_url = ?
		WHERE id = ?`,
		backup.Points, backup.CorrectSincePoint,
		backup.Settings.SEVolume, backup.Settings.TTSRate,
		backup.Settings.VoiceURI, backup.Settings.PIN, keepAvatar,
		userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM progress WHERE user_id = ?", userID); err != nil {
		return err
	}
	for wordID, raw := range backup.Progress {
		r := RecordFromProgress(ProgressFromRecord(raw)) // normalize through the domain type
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO progress (user_id, word_id, stage, due, enrolled_at, wrong_today, wrong_today_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			userID, wordID, r.Stage, r.Due, r.EnrolledAt, r.WrongToday, r.WrongTodayDate); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
