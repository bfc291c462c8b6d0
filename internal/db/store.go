// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package db

import (
	"github.com/uptrace/bun"

	"github.com/scriptum/scriptum/internal/model"
)

// Store defines the interface for all database operations in Scriptum.
// This allows for multiple database backends to be implemented.
type Store interface {
	// BunDB exposes the underlying Bun handle for helpers that work
	// across backends (searchers, maintenance, tests).
	BunDB() *bun.DB

	// Profile methods
	GetAllProfiles() ([]model.Profile, error)
	AddProfile(name string) (int, error)
	RenameProfile(id int, name string) error
	DeleteProfile(id int) error
	SetActiveProfile(id int) error
	GetActiveProfile() (*model.Profile, error)

	// Lesson methods
	GetAllLessons() ([]model.Lesson, error)
	GetLessonByID(id int) (*model.Lesson, error)
	GetLessonByFingerprint(fingerprint string) (*model.Lesson, error)
	AddLesson(l model.Lesson) (int, error)
	ToggleLessonArchived(id int) error
	DeleteLesson(id int) error
	SeedBuiltinLessons(lessons []model.Lesson) (int, error)
	SearchLessons(q string) ([]model.Lesson, error)

	// Training session methods
	AddTrainingSession(s model.TrainingSession) (int, error)
	GetSessionsForProfile(profileID int) ([]model.TrainingSession, error)

	// Key statistics methods
	UpsertKeyStats(profileID int, stats []model.KeyStat) error
	GetKeyStatsForProfile(profileID int) ([]model.KeyStat, error)

	// Activity log methods
	GetAllActivityLogEntries() ([]model.ActivityLogEntry, error)
	LogAction(action string, details string) error

	// Backup methods
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error
	IntegrateDataFromBackup(backup *model.BackupData) error
}
