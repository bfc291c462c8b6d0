// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.
package model

// BackupData is a container for all data to be exported for a backup.
// It holds slices of all the core models in Scriptum.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version"`

	// Data from each table.
	Profiles           []Profile          `json:"profiles"`
	Lessons            []Lesson           `json:"lessons"`
	TrainingSessions   []TrainingSession  `json:"training_sessions"`
	KeyStats           []KeyStat          `json:"key_stats"`
	ActivityLogEntries []ActivityLogEntry `json:"activity_log_entries"`
}
