// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

// package db provides the data access layer for Scriptum.
// This file contains the MySQL/MariaDB implementation of the database store.
// Note: This implementation is considered experimental.
package db // import "github.com/scriptum/scriptum/internal/db"

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/uptrace/bun"

	"github.com/scriptum/scriptum/internal/model"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	bun *bun.DB
}

// NewMySQLStore returns the already-initialized MySQL store. The
// actual connection setup happens in InitDB.
func NewMySQLStore(dataSourceName string) (*MySQLStore, error) {
	s, ok := store.(*MySQLStore)
	if !ok {
		return nil, fmt.Errorf("internal error: store is not a *MySQLStore")
	}
	return s, nil
}

// BunDB exposes the underlying Bun handle.
func (s *MySQLStore) BunDB() *bun.DB {
	return s.bun
}

func (s *MySQLStore) GetAllProfiles() ([]model.Profile, error) {
	return GetAllProfilesBun(s.bun)
}

func (s *MySQLStore) AddProfile(name string) (int, error) {
	id, err := AddProfileBun(s.bun, name)
	if err == nil {
		_ = s.LogAction("ADD_PROFILE", fmt.Sprintf("profile: %s", name))
	}
	return id, err
}

func (s *MySQLStore) RenameProfile(id int, name string) error {
	err := RenameProfileBun(s.bun, id, name)
	if err == nil {
		_ = s.LogAction("RENAME_PROFILE", fmt.Sprintf("id: %d, new name: %s", id, name))
	}
	return err
}

func (s *MySQLStore) DeleteProfile(id int) error {
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

func (s *MySQLStore) SetActiveProfile(id int) error {
	err := SetActiveProfileBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("SET_ACTIVE_PROFILE", fmt.Sprintf("id: %d", id))
	}
	return err
}

func (s *MySQLStore) GetActiveProfile() (*model.Profile, error) {
	return GetActiveProfileBun(s.bun)
}

func (s *MySQLStore) GetAllLessons() ([]model.Lesson, error) {
	return GetAllLessonsBun(s.bun)
}

func (s *MySQLStore) GetLessonByID(id int) (*model.Lesson, error) {
	return GetLessonByIDBun(s.bun, id)
}

func (s *MySQLStore) GetLessonByFingerprint(fingerprint string) (*model.Lesson, error) {
	return GetLessonByFingerprintBun(s.bun, fingerprint)
}

func (s *MySQLStore) AddLesson(l model.Lesson) (int, error) {
	id, err := AddLessonBun(s.bun, l)
	if err == nil && !l.Builtin {
		_ = s.LogAction("ADD_LESSON", fmt.Sprintf("lesson: %s", l.Title))
	}
	return id, err
}

func (s *MySQLStore) ToggleLessonArchived(id int) error {
	err := ToggleLessonArchivedBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("TOGGLE_LESSON_ARCHIVED", fmt.Sprintf("id: %d", id))
	}
	return err
}

func (s *MySQLStore) DeleteLesson(id int) error {
	err := DeleteLessonBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("DELETE_LESSON", fmt.Sprintf("id: %d", id))
	}
	return err
}

func (s *MySQLStore) SeedBuiltinLessons(lessons []model.Lesson) (int, error) {
	added, err := SeedBuiltinLessonsBun(s.bun, lessons)
	if err == nil && added > 0 {
		_ = s.LogAction("SEED_LESSONS", fmt.Sprintf("added: %d", added))
	}
	return added, err
}

func (s *MySQLStore) SearchLessons(q string) ([]model.Lesson, error) {
	return SearchLessonsBun(s.bun, q)
}

func (s *MySQLStore) AddTrainingSession(ts model.TrainingSession) (int, error) {
	id, err := AddTrainingSessionBun(s.bun, ts)
	if err == nil {
		_ = s.LogAction("SESSION_COMPLETED", fmt.Sprintf("lesson: %d, wpm: %.1f", ts.LessonID, ts.WPM))
	}
	return id, err
}

func (s *MySQLStore) GetSessionsForProfile(profileID int) ([]model.TrainingSession, error) {
	return GetSessionsForProfileBun(s.bun, profileID)
}

func (s *MySQLStore) UpsertKeyStats(profileID int, stats []model.KeyStat) error {
	return UpsertKeyStatsBun(s.bun, "mysql", profileID, stats)
}

func (s *MySQLStore) GetKeyStatsForProfile(profileID int) ([]model.KeyStat, error) {
	return GetKeyStatsForProfileBun(s.bun, profileID)
}

func (s *MySQLStore) GetAllActivityLogEntries() ([]model.ActivityLogEntry, error) {
	return GetAllActivityLogEntriesBun(s.bun)
}

func (s *MySQLStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

func (s *MySQLStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

func (s *MySQLStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

func (s *MySQLStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, "mysql", backup)
}
