// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/scriptum/scriptum/internal/layout"
	"github.com/scriptum/scriptum/internal/model"
)

// ProfileModel maps the `profiles` table for Bun queries.
type ProfileModel struct {
	bun.BaseModel `bun:"table:profiles"`
	ID            int       `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name"`
	Layout        string    `bun:"layout"`
	IsActive      bool      `bun:"is_active"`
	CreatedAt     time.Time `bun:"created_at"`
}

// LessonModel maps the `lessons` table. The lesson text lives in the
// `body` column to stay clear of SQL type keywords across engines.
type LessonModel struct {
	bun.BaseModel `bun:"table:lessons"`
	ID            int       `bun:"id,pk,autoincrement"`
	Title         string    `bun:"title"`
	Stage         int       `bun:"stage"`
	Layout        string    `bun:"layout"`
	Body          string    `bun:"body"`
	Fingerprint   string    `bun:"fingerprint"`
	IsBuiltin     bool      `bun:"is_builtin"`
	IsArchived    bool      `bun:"is_archived"`
	CreatedAt     time.Time `bun:"created_at"`
}

// TrainingSessionModel maps the `training_sessions` table. Durations
// are stored as integral milliseconds.
type TrainingSessionModel struct {
	bun.BaseModel `bun:"table:training_sessions"`
	ID            int       `bun:"id,pk,autoincrement"`
	ProfileID     int       `bun:"profile_id"`
	LessonID      int       `bun:"lesson_id"`
	StartedAt     time.Time `bun:"started_at"`
	DurationMs    int64     `bun:"duration_ms"`
	Typed         int       `bun:"typed"`
	Correct       int       `bun:"correct"`
	Errors        int       `bun:"errors"`
	Accuracy      float64   `bun:"accuracy"`
	Wpm           float64   `bun:"wpm"`
	CaseMode      string    `bun:"case_mode"`
	Completed     bool      `bun:"completed"`
}

// KeyStatModel maps the `key_stats` table. The typed character lives
// in `glyph` because `key` is reserved in MySQL.
type KeyStatModel struct {
	bun.BaseModel `bun:"table:key_stats"`
	ProfileID     int    `bun:"profile_id"`
	Glyph         string `bun:"glyph"`
	Hits          int    `bun:"hits"`
	Misses        int    `bun:"misses"`
}

// ActivityLogModel maps the activity_log table.
type ActivityLogModel struct {
	bun.BaseModel `bun:"table:activity_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// --- Mapping helpers (centralized conversions) ---

func profileModelToModel(p ProfileModel) model.Profile {
	return model.Profile{
		ID:        p.ID,
		Name:      p.Name,
		Layout:    p.Layout,
		Active:    p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}

func lessonModelToModel(l LessonModel) model.Lesson {
	return model.Lesson{
		ID:          l.ID,
		Title:       l.Title,
		Stage:       l.Stage,
		Layout:      l.Layout,
		Text:        l.Body,
		Fingerprint: l.Fingerprint,
		Builtin:     l.IsBuiltin,
		Archived:    l.IsArchived,
		CreatedAt:   l.CreatedAt,
	}
}

func sessionModelToModel(s TrainingSessionModel) model.TrainingSession {
	return model.TrainingSession{
		ID:        s.ID,
		ProfileID: s.ProfileID,
		LessonID:  s.LessonID,
		StartedAt: s.StartedAt,
		Duration:  time.Duration(s.DurationMs) * time.Millisecond,
		Typed:     s.Typed,
		Correct:   s.Correct,
		Errors:    s.Errors,
		Accuracy:  s.Accuracy,
		WPM:       s.Wpm,
		CaseMode:  s.CaseMode,
		Completed: s.Completed,
	}
}

func keyStatModelToModel(k KeyStatModel) model.KeyStat {
	return model.KeyStat{ProfileID: k.ProfileID, Key: k.Glyph, Hits: k.Hits, Misses: k.Misses}
}

func activityLogModelToModel(a ActivityLogModel) model.ActivityLogEntry {
	return model.ActivityLogEntry{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details}
}

// --- Profile helpers ---

// GetAllProfilesBun returns all profiles ordered by name.
func GetAllProfilesBun(bdb *bun.DB) ([]model.Profile, error) {
	ctx := context.Background()
	var pm []ProfileModel
	if err := bdb.NewSelect().Model(&pm).OrderExpr("name").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Profile, 0, len(pm))
	for _, p := range pm {
		out = append(out, profileModelToModel(p))
	}
	return out, nil
}

// AddProfileBun inserts a new profile and returns its ID. The first
// profile in an empty table becomes active immediately.
func AddProfileBun(bdb *bun.DB, name string) (int, error) {
	ctx := context.Background()
	var count int
	if err := QueryRawInto(ctx, bdb, &count, "SELECT COUNT(id) FROM profiles"); err != nil {
		return 0, err
	}
	pm := &ProfileModel{Name: name, Layout: layout.Name, IsActive: count == 0}
	if _, err := bdb.NewInsert().Model(pm).Column("name", "layout", "is_active").Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return pm.ID, nil
}

// DeleteProfileBun removes a profile by id along with its sessions and
// key stats. Dependents are deleted explicitly because SQLite does not
// enforce foreign keys unless the pragma is enabled per connection.
func DeleteProfileBun(bdb *bun.DB, id int) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		if _, err := ExecRaw(ctx, tx, "DELETE FROM key_stats WHERE profile_id = ?", id); err != nil {
			return err
		}
		if _, err := ExecRaw(ctx, tx, "DELETE FROM training_sessions WHERE profile_id = ?", id); err != nil {
			return err
		}
		_, err := ExecRaw(ctx, tx, "DELETE FROM profiles WHERE id = ?", id)
		return err
	})
}

// SetActiveProfileBun marks exactly one profile as active inside a
// transaction: everything is deactivated, then the given id is set.
func SetActiveProfileBun(bdb *bun.DB, id int) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		if _, err := ExecRaw(ctx, tx, "UPDATE profiles SET is_active = FALSE"); err != nil {
			return fmt.Errorf("failed to deactivate profiles: %w", err)
		}
		res, err := ExecRaw(ctx, tx, "UPDATE profiles SET is_active = TRUE WHERE id = ?", id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("profile %d not found", id)
		}
		return nil
	})
}

// RenameProfileBun changes a profile's name. The new name must not
// collide with an existing profile.
func RenameProfileBun(bdb *bun.DB, id int, name string) error {
	ctx := context.Background()
	res, err := ExecRaw(ctx, bdb, "UPDATE profiles SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("profile %d not found", id)
	}
	return nil
}

// GetActiveProfileBun returns the active profile, or nil when no
// profile is active.
func GetActiveProfileBun(bdb *bun.DB) (*model.Profile, error) {
	ctx := context.Background()
	var pm ProfileModel
	err := bdb.NewSelect().Model(&pm).Where("is_active = ?", true).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	m := profileModelToModel(pm)
	return &m, nil
}

// --- Lesson helpers ---

// GetAllLessonsBun returns all unarchived lessons ordered by stage and title.
func GetAllLessonsBun(bdb *bun.DB) ([]model.Lesson, error) {
	ctx := context.Background()
	var lm []LessonModel
	err := bdb.NewSelect().Model(&lm).Where("is_archived = ?", false).OrderExpr("stage, title").Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Lesson, 0, len(lm))
	for _, l := range lm {
		out = append(out, lessonModelToModel(l))
	}
	return out, nil
}

// GetLessonByIDBun retrieves a lesson by its numeric ID.
func GetLessonByIDBun(bdb *bun.DB, id int) (*model.Lesson, error) {
	ctx := context.Background()
	var lm LessonModel
	err := bdb.NewSelect().Model(&lm).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	m := lessonModelToModel(lm)
	return &m, nil
}

// GetLessonByFingerprintBun retrieves a lesson by its text fingerprint.
func GetLessonByFingerprintBun(bdb *bun.DB, fingerprint string) (*model.Lesson, error) {
	ctx := context.Background()
	var lm LessonModel
	err := bdb.NewSelect().Model(&lm).Where("fingerprint = ?", fingerprint).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	m := lessonModelToModel(lm)
	return &m, nil
}

// AddLessonBun inserts a lesson and returns its ID. A fingerprint
// collision maps to ErrDuplicate.
func AddLessonBun(bdb *bun.DB, l model.Lesson) (int, error) {
	ctx := context.Background()
	lm := &LessonModel{
		Title:       l.Title,
		Stage:       l.Stage,
		Layout:      l.Layout,
		Body:        l.Text,
		Fingerprint: l.Fingerprint,
		IsBuiltin:   l.Builtin,
		IsArchived:  l.Archived,
	}
	if _, err := bdb.NewInsert().Model(lm).
		Column("title", "stage", "layout", "body", "fingerprint", "is_builtin", "is_archived").
		Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return lm.ID, nil
}

// ToggleLessonArchivedBun flips is_archived for a lesson by id.
func ToggleLessonArchivedBun(bdb *bun.DB, id int) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, bdb, "UPDATE lessons SET is_archived = NOT is_archived WHERE id = ?", id)
	return err
}

// DeleteLessonBun removes a lesson by id. Sessions recorded against it
// are kept on every backend; the schema deliberately carries no foreign
// key on lesson_id so history survives the lesson.
func DeleteLessonBun(bdb *bun.DB, id int) error {
	ctx := context.Background()
	res, err := ExecRaw(ctx, bdb, "DELETE FROM lessons WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("lesson %d not found", id)
	}
	return nil
}

// SeedBuiltinLessonsBun inserts the given lessons, skipping any whose
// fingerprint already exists, and returns how many were added. Used on
// startup so upgrades can deliver new course lessons without
// duplicating old ones.
func SeedBuiltinLessonsBun(bdb *bun.DB, lessons []model.Lesson) (int, error) {
	added := 0
	for _, l := range lessons {
		_, err := AddLessonBun(bdb, l)
		if err == ErrDuplicate {
			continue
		}
		if err != nil {
			return added, fmt.Errorf("failed to seed lesson %q: %w", l.Title, err)
		}
		added++
	}
	return added, nil
}

// SearchLessonsBun performs a portable fuzzy search over lessons using
// simple tokenized LIKE matching across title and body.
func SearchLessonsBun(bdb *bun.DB, q string) ([]model.Lesson, error) {
	ctx := context.Background()
	tokens := TokenizeSearchQuery(q)
	var lm []LessonModel
	qb := bdb.NewSelect().Model(&lm).Where("is_archived = ?", false)
	for _, tok := range tokens {
		like := "%" + tok + "%"
		// Use LOWER(...) for case-insensitive matching across engines
		qb = qb.Where("(LOWER(title) LIKE ? OR LOWER(body) LIKE ?)", like, like)
	}
	if err := qb.OrderExpr("stage, title").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Lesson, 0, len(lm))
	for _, l := range lm {
		out = append(out, lessonModelToModel(l))
	}
	return out, nil
}

// --- Training session helpers ---

// AddTrainingSessionBun inserts a completed or aborted session row.
func AddTrainingSessionBun(bdb *bun.DB, s model.TrainingSession) (int, error) {
	ctx := context.Background()
	sm := &TrainingSessionModel{
		ProfileID:  s.ProfileID,
		LessonID:   s.LessonID,
		StartedAt:  s.StartedAt,
		DurationMs: s.Duration.Milliseconds(),
		Typed:      s.Typed,
		Correct:    s.Correct,
		Errors:     s.Errors,
		Accuracy:   s.Accuracy,
		Wpm:        s.WPM,
		CaseMode:   s.CaseMode,
		Completed:  s.Completed,
	}
	if _, err := bdb.NewInsert().Model(sm).
		Column("profile_id", "lesson_id", "started_at", "duration_ms", "typed", "correct", "errors", "accuracy", "wpm", "case_mode", "completed").
		Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return sm.ID, nil
}

// GetSessionsForProfileBun returns a profile's sessions, newest first.
func GetSessionsForProfileBun(bdb *bun.DB, profileID int) ([]model.TrainingSession, error) {
	ctx := context.Background()
	var sm []TrainingSessionModel
	err := bdb.NewSelect().Model(&sm).Where("profile_id = ?", profileID).OrderExpr("started_at DESC, id DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.TrainingSession, 0, len(sm))
	for _, s := range sm {
		out = append(out, sessionModelToModel(s))
	}
	return out, nil
}

// --- Key statistics helpers ---

// upsertKeyStatSQL returns the accumulate-on-conflict statement for the
// given engine. SQLite and Postgres share the ON CONFLICT form; MySQL
// uses ON DUPLICATE KEY.
func upsertKeyStatSQL(dbType string) string {
	switch dbType {
	case "mysql":
		return "INSERT INTO key_stats (profile_id, glyph, hits, misses) VALUES (?, ?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE hits = hits + VALUES(hits), misses = misses + VALUES(misses)"
	default:
		return "INSERT INTO key_stats (profile_id, glyph, hits, misses) VALUES (?, ?, ?, ?) " +
			"ON CONFLICT (profile_id, glyph) DO UPDATE SET hits = key_stats.hits + excluded.hits, misses = key_stats.misses + excluded.misses"
	}
}

// UpsertKeyStatsBun accumulates per-key hit/miss counters for a
// profile inside one transaction.
func UpsertKeyStatsBun(bdb *bun.DB, dbType string, profileID int, stats []model.KeyStat) error {
	if len(stats) == 0 {
		return nil
	}
	ctx := context.Background()
	query := upsertKeyStatSQL(dbType)
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		for _, st := range stats {
			if st.Key == "" {
				continue
			}
			if _, err := ExecRaw(ctx, tx, query, profileID, st.Key, st.Hits, st.Misses); err != nil {
				return fmt.Errorf("failed to upsert key stat %q: %w", st.Key, err)
			}
		}
		return nil
	})
}

// GetKeyStatsForProfileBun returns a profile's per-key counters,
// weakest keys first.
func GetKeyStatsForProfileBun(bdb *bun.DB, profileID int) ([]model.KeyStat, error) {
	ctx := context.Background()
	var km []KeyStatModel
	err := bdb.NewSelect().Model(&km).Where("profile_id = ?", profileID).OrderExpr("misses DESC, glyph").Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.KeyStat, 0, len(km))
	for _, k := range km {
		out = append(out, keyStatModelToModel(k))
	}
	return out, nil
}

// --- Activity log helpers ---

// GetAllActivityLogEntriesBun retrieves activity log entries ordered by timestamp desc.
func GetAllActivityLogEntriesBun(bdb *bun.DB) ([]model.ActivityLogEntry, error) {
	ctx := context.Background()
	var am []ActivityLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("timestamp DESC, id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.ActivityLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, activityLogModelToModel(a))
	}
	return out, nil
}

// LogActionBun inserts an activity log entry with the current OS user.
func LogActionBun(bdb *bun.DB, action string, details string) error {
	ctx := context.Background()
	curUser, err := user.Current()
	username := "unknown"
	if err == nil {
		if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
			username = parts[1]
		} else {
			username = curUser.Username
		}
	}
	_, err = ExecRaw(ctx, bdb, "INSERT INTO activity_log (username, action, details) VALUES (?, ?, ?)", username, action, details)
	return MapDBError(err)
}

// --- Backup helpers ---

// ExportDataForBackupBun exports all tables' data into a model.BackupData using a Bun transaction.
func ExportDataForBackupBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()
	var backup *model.BackupData
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		backup = &model.BackupData{SchemaVersion: 1}

		var profiles []ProfileModel
		if err := tx.NewSelect().Model(&profiles).Scan(ctx); err != nil {
			return err
		}
		for _, p := range profiles {
			backup.Profiles = append(backup.Profiles, profileModelToModel(p))
		}

		var lessons []LessonModel
		if err := tx.NewSelect().Model(&lessons).Scan(ctx); err != nil {
			return err
		}
		for _, l := range lessons {
			backup.Lessons = append(backup.Lessons, lessonModelToModel(l))
		}

		var sessions []TrainingSessionModel
		if err := tx.NewSelect().Model(&sessions).Scan(ctx); err != nil {
			return err
		}
		for _, s := range sessions {
			backup.TrainingSessions = append(backup.TrainingSessions, sessionModelToModel(s))
		}

		var stats []KeyStatModel
		if err := tx.NewSelect().Model(&stats).Scan(ctx); err != nil {
			return err
		}
		for _, k := range stats {
			backup.KeyStats = append(backup.KeyStats, keyStatModelToModel(k))
		}

		var entries []ActivityLogModel
		if err := tx.NewSelect().Model(&entries).Scan(ctx); err != nil {
			return err
		}
		for _, a := range entries {
			backup.ActivityLogEntries = append(backup.ActivityLogEntries, activityLogModelToModel(a))
		}

		return nil
	})
	return backup, err
}

// ImportDataFromBackupBun performs a full wipe-and-replace using a Bun transaction.
func ImportDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		// Children before parents so foreign keys stay satisfied.
		tables := []string{"key_stats", "training_sessions", "activity_log", "lessons", "profiles"}
		for _, t := range tables {
			if _, err := ExecRaw(ctx, tx, fmt.Sprintf("DELETE FROM %s", t)); err != nil {
				return err
			}
		}

		for _, p := range backup.Profiles {
			if _, err := ExecRaw(ctx, tx, "INSERT INTO profiles (id, name, layout, is_active, created_at) VALUES (?, ?, ?, ?, ?)",
				p.ID, p.Name, p.Layout, p.Active, p.CreatedAt); err != nil {
				return MapDBError(err)
			}
		}
		for _, l := range backup.Lessons {
			if _, err := ExecRaw(ctx, tx, "INSERT INTO lessons (id, title, stage, layout, body, fingerprint, is_builtin, is_archived, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				l.ID, l.Title, l.Stage, l.Layout, l.Text, l.Fingerprint, l.Builtin, l.Archived, l.CreatedAt); err != nil {
				return MapDBError(err)
			}
		}
		for _, s := range backup.TrainingSessions {
			if _, err := ExecRaw(ctx, tx, "INSERT INTO training_sessions (id, profile_id, lesson_id, started_at, duration_ms, typed, correct, errors, accuracy, wpm, case_mode, completed) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				s.ID, s.ProfileID, s.LessonID, s.StartedAt, s.Duration.Milliseconds(), s.Typed, s.Correct, s.Errors, s.Accuracy, s.WPM, s.CaseMode, s.Completed); err != nil {
				return MapDBError(err)
			}
		}
		for _, k := range backup.KeyStats {
			if _, err := ExecRaw(ctx, tx, "INSERT INTO key_stats (profile_id, glyph, hits, misses) VALUES (?, ?, ?, ?)",
				k.ProfileID, k.Key, k.Hits, k.Misses); err != nil {
				return MapDBError(err)
			}
		}
		// Activity log: convert RFC3339 timestamps to time.Time when possible so MySQL accepts them.
		for _, e := range backup.ActivityLogEntries {
			var ts interface{} = e.Timestamp
			if e.Timestamp != "" {
				if parsed, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
					ts = parsed
				} else {
					s := e.Timestamp
					s = strings.Replace(s, "T", " ", 1)
					s = strings.TrimSuffix(s, "Z")
					ts = s
				}
			}
			if _, err := ExecRaw(ctx, tx, "INSERT INTO activity_log (id, timestamp, username, action, details) VALUES (?, ?, ?, ?, ?)",
				e.ID, ts, e.Username, e.Action, e.Details); err != nil {
				return MapDBError(err)
			}
		}
		return nil
	})
}

// insertIgnorePrefix returns the engine's spelling of an insert that
// skips rows violating a unique constraint.
func insertIgnorePrefix(dbType, table, columns, placeholders string) string {
	switch dbType {
	case "mysql":
		return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s)", table, columns, placeholders)
	case "postgres":
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING", table, columns, placeholders)
	default:
		return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)", table, columns, placeholders)
	}
}

// IntegrateDataFromBackupBun performs a non-destructive restore:
// profiles and lessons already present (by unique name/fingerprint)
// are kept, everything else is inserted.
func IntegrateDataFromBackupBun(bdb *bun.DB, dbType string, backup *model.BackupData) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		for _, p := range backup.Profiles {
			q := insertIgnorePrefix(dbType, "profiles", "id, name, layout, is_active, created_at", "?, ?, ?, ?, ?")
			if _, err := ExecRaw(ctx, tx, q, p.ID, p.Name, p.Layout, p.Active, p.CreatedAt); err != nil {
				return err
			}
		}
		for _, l := range backup.Lessons {
			q := insertIgnorePrefix(dbType, "lessons", "id, title, stage, layout, body, fingerprint, is_builtin, is_archived, created_at", "?, ?, ?, ?, ?, ?, ?, ?, ?")
			if _, err := ExecRaw(ctx, tx, q, l.ID, l.Title, l.Stage, l.Layout, l.Text, l.Fingerprint, l.Builtin, l.Archived, l.CreatedAt); err != nil {
				return err
			}
		}
		for _, s := range backup.TrainingSessions {
			q := insertIgnorePrefix(dbType, "training_sessions", "id, profile_id, lesson_id, started_at, duration_ms, typed, correct, errors, accuracy, wpm, case_mode, completed", "?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?")
			if _, err := ExecRaw(ctx, tx, q, s.ID, s.ProfileID, s.LessonID, s.StartedAt, s.Duration.Milliseconds(), s.Typed, s.Correct, s.Errors, s.Accuracy, s.WPM, s.CaseMode, s.Completed); err != nil {
				return err
			}
		}
		for _, k := range backup.KeyStats {
			q := insertIgnorePrefix(dbType, "key_stats", "profile_id, glyph, hits, misses", "?, ?, ?, ?")
			if _, err := ExecRaw(ctx, tx, q, k.ProfileID, k.Key, k.Hits, k.Misses); err != nil {
				return err
			}
		}
		return nil
	})
}
