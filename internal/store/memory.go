package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tapspeak/backend/internal/domain/progress"
)

type memoryUser struct {
	points            int
	correctSincePoint int
	settings          Settings
	progress          map[string]progress.Progress
}

// MemoryStore is the in-memory Store used by tests and available as a
// throwaway backend. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*memoryUser
}

func NewMemory() *MemoryStore {
	return &MemoryStore{users: make(map[string]*memoryUser)}
}

// user returns the state for userID, creating the empty default on first
// touch. Callers must hold the write lock.
func (s *MemoryStore) user(userID string) *memoryUser {
	u, ok := s.users[userID]
	if !ok {
		u = &memoryUser{
			settings: DefaultSettings(),
			progress: make(map[string]progress.Progress),
		}
		s.users[userID] = u
	}
	return u
}

func (s *MemoryStore) GetProgress(ctx context.Context, userID, wordID string, today progress.Date) (progress.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return progress.Progress{}, ErrNotFound
	}
	p, ok := u.progress[wordID]
	if !ok {
		return progress.Progress{}, ErrNotFound
	}
	return p.Normalize(today), nil
}

func (s *MemoryStore) SetProgress(ctx context.Context, userID, wordID string, p progress.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Stage = progress.ClampStage(p.Stage)
	s.user(userID).progress[wordID] = p
	return nil
}

func (s *MemoryStore) DeleteProgress(ctx context.Context, userID, wordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[userID]; ok {
		delete(u.progress, wordID)
	}
	return nil
}

func (s *MemoryStore) Enroll(ctx context.Context, userID, wordID string, today progress.Date) (progress.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := progress.New(today)
	s.user(userID).progress[wordID] = p
	return p, nil
}

func (s *MemoryStore) AllProgress(ctx context.Context, userID string, today progress.Date) (map[string]progress.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]progress.Progress)
	if u, ok := s.users[userID]; ok {
		for wordID, p := range u.progress {
			out[wordID] = p.Normalize(today)
		}
	}
	return out, nil
}

func (s *MemoryStore) Points(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[userID]; ok {
		return u.points, nil
	}
	return 0, nil
}

func (s *MemoryStore) RecordCorrectReview(ctx context.Context, userID string) (CorrectReviewResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	u.correctSincePoint++
	if u.correctSincePoint >= correctPerPoint {
		u.correctSincePoint = 0
		u.points++
		return CorrectReviewResult{Points: u.points, PointGranted: true}, nil
	}
	return CorrectReviewResult{Points: u.points}, nil
}

func (s *MemoryStore) ResetPoints(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	u.points = 0
	u.correctSincePoint = 0
	return nil
}

func (s *MemoryStore) ResetLearning(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	u.points = 0
	u.correctSincePoint = 0
	u.progress = make(map[string]progress.Progress)
	// Settings, including the avatar, survive a learning reset.
	return nil
}

func (s *MemoryStore) Settings(ctx context.Context, userID string) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[userID]; ok {
		return u.settings, nil
	}
	return DefaultSettings(), nil
}

func (s *MemoryStore) UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	u.settings = patch.apply(u.settings)
	return u.settings, nil
}

func (s *MemoryStore) ExportUser(ctx context.Context, userID string) (UserBackup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	backup := UserBackup{
		Settings: DefaultSettings(),
		Progress: map[string]ProgressRecord{},
	}
	u, ok := s.users[userID]
	if !ok {
		return backup, nil
	}
	backup.Points = u.points
	backup.CorrectSincePoint = u.correctSincePoint
	backup.Settings = u.settings
	for wordID, p := range u.progress {
		backup.Progress[wordID] = RecordFromProgress(p)
	}
	return backup, nil
}

func (s *MemoryStore) ImportUser(ctx context.Context, userID string, backup UserBackup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup = backup.sanitize()
	u := s.user(userID)
	keepAvatar := u.settings.AvatarDataURL

	u.points = backup.Points
	u.correctSincePoint = backup.CorrectSincePoint
	u.settings = backup.Settings
	u.settings.AvatarDataURL = keepAvatar
	u.progress = make(map[string]progress.Progress, len(backup.Progress))
	for wordID, r := range backup.Progress {
		u.progress[wordID] = ProgressFromRecord(r)
	}
	return nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.users))
	for id := range s.users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) EnsureUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user(userID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
