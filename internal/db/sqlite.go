// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

// package db provides the data access layer for Scriptum.
// This file contains the SQLite implementation of the database store.
package db // import "github.com/scriptum/scriptum/internal/db"

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/scriptum/scriptum/internal/model"
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bun *bun.DB
}

// NewSqliteStore returns the already-initialized SQLite store. The
// actual connection setup happens in InitDB.
func NewSqliteStore(dataSourceName string) (*SqliteStore, error) {
	s, ok := store.(*SqliteStore)
	if !ok {
		return nil, fmt.Errorf("internal error: store is not a *SqliteStore")
	}
	return s, nil
}

// BunDB exposes the underlying Bun handle.
func (s *SqliteStore) BunDB() *bun.DB {
	return s.bun
}

// GetAllProfiles retrieves all profiles from the database.
func (s *SqliteStore) GetAllProfiles() ([]model.Profile, error) {
	return GetAllProfilesBun(s.bun)
}

// AddProfile adds a new typing profile to the database.
func (s *SqliteStore) AddProfile(name string) (int, error) {
	id, err := AddProfileBun(s.bun, name)
	if err == nil {
		_ = s.LogAction("ADD_PROFILE", fmt.Sprintf("profile: %s", name))
	}
	return id, err
}

// RenameProfile changes a profile's display name.
func (s *SqliteStore) RenameProfile(id int, name string) error {
	err := RenameProfileBun(s.bun, id, name)
	if err == nil {
		_ = s.LogAction("RENAME_PROFILE", fmt.Sprintf("id: %d, new name: %s", id, name))
	}
	return err
}

// DeleteProfile removes a profile and its dependent rows by ID.
func (s *SqliteStore) DeleteProfile(id int) error {
	// Get profile details before deleting for logging.
	var name string
	details := fmt.Sprintf("id: %d", id)
	if err := QueryRawInto(context.Background(), s.bun, &name, "SELECT name FROM profiles WHERE id = ?", id); err == nil {
		details = fmt.Sprintf("profile: %s", name)
	}
	err := DeleteProfileBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("DELETE_PROFILE", details)
	}
	return err
}

// SetActiveProfile marks the given profile active and all others inactive.
func (s *SqliteStore) SetActiveProfile(id int) error {
	err := SetActiveProfileBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("SET_ACTIVE_PROFILE", fmt.Sprintf("id: %d", id))
	}
	return err
}

// GetActiveProfile retrieves the currently active profile, if any.
func (s *SqliteStore) GetActiveProfile() (*model.Profile, error) {
	return GetActiveProfileBun(s.bun)
}

// GetAllLessons retrieves all unarchived lessons from the database.
func (s *SqliteStore) GetAllLessons() ([]model.Lesson, error) {
	return GetAllLessonsBun(s.bun)
}

// GetLessonByID retrieves a lesson by its ID.
func (s *SqliteStore) GetLessonByID(id int) (*model.Lesson, error) {
	return GetLessonByIDBun(s.bun, id)
}

// GetLessonByFingerprint retrieves a lesson by its text fingerprint.
func (s *SqliteStore) GetLessonByFingerprint(fingerprint string) (*model.Lesson, error) {
	return GetLessonByFingerprintBun(s.bun, fingerprint)
}

// AddLesson adds a lesson to the database.
func (s *SqliteStore) AddLesson(l model.Lesson) (int, error) {
	id, err := AddLessonBun(s.bun, l)
	if err == nil && !l.Builtin {
		_ = s.LogAction("ADD_LESSON", fmt.Sprintf("lesson: %s", l.Title))
	}
	return id, err
}

// ToggleLessonArchived flips the archived status of a lesson.
func (s *SqliteStore) ToggleLessonArchived(id int) error {
	err := ToggleLessonArchivedBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("TOGGLE_LESSON_ARCHIVED", fmt.Sprintf("id: %d", id))
	}
	return err
}

// DeleteLesson removes a lesson permanently. Sessions keep their rows.
func (s *SqliteStore) DeleteLesson(id int) error {
	err := DeleteLessonBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("DELETE_LESSON", fmt.Sprintf("id: %d", id))
	}
	return err
}

// SeedBuiltinLessons inserts missing built-in lessons and reports how
// many were added.
func (s *SqliteStore) SeedBuiltinLessons(lessons []model.Lesson) (int, error) {
	added, err := SeedBuiltinLessonsBun(s.bun, lessons)
	if err == nil && added > 0 {
		_ = s.LogAction("SEED_LESSONS", fmt.Sprintf("added: %d", added))
	}
	return added, err
}

// SearchLessons performs a fuzzy search over lesson titles and texts.
func (s *SqliteStore) SearchLessons(q string) ([]model.Lesson, error) {
	return SearchLessonsBun(s.bun, q)
}

// AddTrainingSession records a finished practice pass.
func (s *SqliteStore) AddTrainingSession(ts model.TrainingSession) (int, error) {
	id, err := AddTrainingSessionBun(s.bun, ts)
	if err == nil {
		_ = s.LogAction("SESSION_COMPLETED", fmt.Sprintf("lesson: %d, wpm: %.1f", ts.LessonID, ts.WPM))
	}
	return id, err
}

// GetSessionsForProfile retrieves a profile's sessions, newest first.
func (s *SqliteStore) GetSessionsForProfile(profileID int) ([]model.TrainingSession, error) {
	return GetSessionsForProfileBun(s.bun, profileID)
}

// UpsertKeyStats accumulates per-key hit/miss counters for a profile.
func (s *SqliteStore) UpsertKeyStats(profileID int, stats []model.KeyStat) error {
	return UpsertKeyStatsBun(s.bun, "sqlite", profileID, stats)
}

// GetKeyStatsForProfile retrieves a profile's per-key counters.
func (s *SqliteStore) GetKeyStatsForProfile(profileID int) ([]model.KeyStat, error) {
	return GetKeyStatsForProfileBun(s.bun, profileID)
}

// GetAllActivityLogEntries retrieves all activity log entries, most recent first.
func (s *SqliteStore) GetAllActivityLogEntries() ([]model.ActivityLogEntry, error) {
	return GetAllActivityLogEntriesBun(s.bun)
}

// LogAction records an activity trail event.
func (s *SqliteStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

// ExportDataForBackup retrieves all data from the database for a backup.
// It uses a transaction to ensure a consistent snapshot of the data.
func (s *SqliteStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup restores the database from a backup data structure.
// It performs a full wipe-and-replace within a single transaction to ensure atomicity.
func (s *SqliteStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

// IntegrateDataFromBackup restores data from a backup in a non-destructive way,
// skipping entries that already exist.
func (s *SqliteStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, "sqlite", backup)
}
