// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

// package db provides the data access layer for Scriptum.
// This file contains the PostgreSQL implementation of the database store.
// Note: This implementation is considered experimental.
package db // import "github.com/scriptum/scriptum/internal/db"

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/uptrace/bun"

	"github.com/scriptum/scriptum/internal/model"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	bun *bun.DB
}

// NewPostgresStore returns the already-initialized PostgreSQL store.
// The actual connection setup happens in InitDB.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	s, ok := store.(*PostgresStore)
	if !ok {
		return nil, fmt.Errorf("internal error: store is not a *PostgresStore")
	}
	return s, nil
}

// BunDB exposes the underlying Bun handle.
func (s *PostgresStore) BunDB() *bun.DB {
	return s.bun
}

func (s *PostgresStore) GetAllProfiles() ([]model.Profile, error) {
	return GetAllProfilesBun(s.bun)
}

func (s *PostgresStore) AddProfile(name string) (int, error) {
	id, err := AddProfileBun(s.bun, name)
	if err == nil {
		_ = s.LogAction("ADD_PROFILE", fmt.Sprintf("profile: %s", name))
	}
	return id, err
}

func (s *PostgresStore) RenameProfile(id int, name string) error {
	err := RenameProfileBun(s.bun, id, name)
	if err == nil {
		_ = s.LogAction("RENAME_PROFILE", fmt.Sprintf("id: %d, new name: %s", id, name))
	}
	return err
}

func (s *PostgresStore) DeleteProfile(id int) error {
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

func (s *PostgresStore) SetActiveProfile(id int) error {
	err := SetActiveProfileBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("SET_ACTIVE_PROFILE", fmt.Sprintf("id: %d", id))
	}
	return err
}

func (s *PostgresStore) GetActiveProfile() (*model.Profile, error) {
	return GetActiveProfileBun(s.bun)
}

func (s *PostgresStore) GetAllLessons() ([]model.Lesson, error) {
	return GetAllLessonsBun(s.bun)
}

func (s *PostgresStore) GetLessonByID(id int) (*model.Lesson, error) {
	return GetLessonByIDBun(s.bun, id)
}

func (s *PostgresStore) GetLessonByFingerprint(fingerprint string) (*model.Lesson, error) {
	return GetLessonByFingerprintBun(s.bun, fingerprint)
}

func (s *PostgresStore) AddLesson(l model.Lesson) (int, error) {
	id, err := AddLessonBun(s.bun, l)
	if err == nil && !l.Builtin {
		_ = s.LogAction("ADD_LESSON", fmt.Sprintf("lesson: %s", l.Title))
	}
	return id, err
}

func (s *PostgresStore) ToggleLessonArchived(id int) error {
	err := ToggleLessonArchivedBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("TOGGLE_LESSON_ARCHIVED", fmt.Sprintf("id: %d", id))
	}
	return err
}

func (s *PostgresStore) DeleteLesson(id int) error {
	err := DeleteLessonBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("DELETE_LESSON", fmt.Sprintf("id: %d", id))
	}
	return err
}

func (s *PostgresStore) SeedBuiltinLessons(lessons []model.Lesson) (int, error) {
	added, err := SeedBuiltinLessonsBun(s.bun, lessons)
	if err == nil && added > 0 {
		_ = s.LogAction("SEED_LESSONS", fmt.Sprintf("added: %d", added))
	}
	return added, err
}

func (s *PostgresStore) SearchLessons(q string) ([]model.Lesson, error) {
	return SearchLessonsBun(s.bun, q)
}

func (s *PostgresStore) AddTrainingSession(ts model.TrainingSession) (int, error) {
	id, err := AddTrainingSessionBun(s.bun, ts)
	if err == nil {
		_ = s.LogAction("SESSION_COMPLETED", fmt.Sprintf("lesson: %d, wpm: %.1f", ts.LessonID, ts.WPM))
	}
	return id, err
}

func (s *PostgresStore) GetSessionsForProfile(profileID int) ([]model.TrainingSession, error) {
	return GetSessionsForProfileBun(s.bun, profileID)
}

func (s *PostgresStore) UpsertKeyStats(profileID int, stats []model.KeyStat) error {
	return UpsertKeyStatsBun(s.bun, "postgres", profileID, stats)
}

func (s *PostgresStore) GetKeyStatsForProfile(profileID int) ([]model.KeyStat, error) {
	return GetKeyStatsForProfileBun(s.bun, profileID)
}

func (s *PostgresStore) GetAllActivityLogEntries() ([]model.ActivityLogEntry, error) {
	return GetAllActivityLogEntriesBun(s.bun)
}

func (s *PostgresStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

func (s *PostgresStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

func (s *PostgresStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

func (s *PostgresStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, "postgres", backup)
}
