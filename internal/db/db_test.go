package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/scriptum/scriptum/internal/model"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	dsn := "file:test_" + t.Name() + "?mode=memory&cache=shared"
	if err := InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	return dsn
}

func mustAddProfile(t *testing.T, name string) int {
	t.Helper()
	id, err := AddProfile(name)
	if err != nil {
		t.Fatalf("AddProfile(%q) failed: %v", name, err)
	}
	return id
}

func testLesson(title, text string) model.Lesson {
	return model.Lesson{
		Title:       title,
		Stage:       1,
		Layout:      "de-qwertz",
		Text:        text,
		Fingerprint: "fp-" + title,
	}
}

func TestInitDB_Migrations_Applied(t *testing.T) {
	dsn := newTestDB(t)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sql.DB for inspection: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	rows, err := sqlDB.Query("PRAGMA table_info(schema_migrations)")
	if err != nil {
		t.Fatalf("failed to query schema_migrations table info: %v", err)
	}
	defer func() { _ = rows.Close() }()

	foundAppliedAt := false
	for rows.Next() {
		var cid int
		var name string
		var typ string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("failed scanning pragma row: %v", err)
		}
		if name == "applied_at" {
			foundAppliedAt = true
			break
		}
	}
	if !foundAppliedAt {
		t.Fatalf("expected schema_migrations.applied_at column to exist after migrations")
	}

	// All domain tables must exist after the initial migration.
	for _, table := range []string{"profiles", "lessons", "training_sessions", "key_stats", "activity_log"} {
		var name string
		err := sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestProfile_FirstAddedBecomesActive(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		id := mustAddProfile(t, "anna")

		active, err := GetActiveProfile()
		if err != nil {
			t.Fatalf("GetActiveProfile failed: %v", err)
		}
		if active == nil {
			t.Fatalf("expected first profile to be active, got none")
		}
		if active.ID != id || active.Name != "anna" {
			t.Fatalf("unexpected active profile: %+v", active)
		}

		// The second profile must not steal the active flag.
		mustAddProfile(t, "bruno")
		active, err = GetActiveProfile()
		if err != nil {
			t.Fatalf("GetActiveProfile failed: %v", err)
		}
		if active == nil || active.Name != "anna" {
			t.Fatalf("expected anna to stay active, got %+v", active)
		}
	})
}

func TestProfile_AddDuplicateBehavior(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		mustAddProfile(t, "anna")
		_, err := AddProfile("anna")
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate on duplicate AddProfile, got: %v", err)
		}
	})
}

func TestProfile_Rename(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		id := mustAddProfile(t, "anna")
		mustAddProfile(t, "bruno")

		if err := RenameProfile(id, "annika"); err != nil {
			t.Fatalf("RenameProfile failed: %v", err)
		}
		profiles, err := GetAllProfiles()
		if err != nil {
			t.Fatalf("GetAllProfiles failed: %v", err)
		}
		found := false
		for _, p := range profiles {
			if p.ID == id && p.Name == "annika" {
				found = true
			}
		}
		if !found {
			t.Fatalf("renamed profile not found in %v", profiles)
		}

		// Colliding with an existing name maps to ErrDuplicate.
		if err := RenameProfile(id, "bruno"); !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate on rename collision, got: %v", err)
		}
		// Renaming a missing profile errors.
		if err := RenameProfile(9999, "nobody"); err == nil {
			t.Fatal("expected error renaming missing profile")
		}
	})
}

func TestProfile_SetActiveIsExclusive(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		mustAddProfile(t, "anna")
		id2 := mustAddProfile(t, "bruno")

		if err := SetActiveProfile(id2); err != nil {
			t.Fatalf("SetActiveProfile failed: %v", err)
		}

		profiles, err := GetAllProfiles()
		if err != nil {
			t.Fatalf("GetAllProfiles failed: %v", err)
		}
		activeCount := 0
		for _, p := range profiles {
			if p.Active {
				activeCount++
				if p.ID != id2 {
					t.Fatalf("expected profile %d to be active, got %d", id2, p.ID)
				}
			}
		}
		if activeCount != 1 {
			t.Fatalf("expected exactly one active profile, got %d", activeCount)
		}

		if err := SetActiveProfile(9999); err == nil {
			t.Fatalf("expected error when activating a missing profile")
		}
	})
}

func TestProfile_DeleteRemovesDependents(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		pid := mustAddProfile(t, "anna")
		lid, err := AddLesson(testLesson("grundreihe", "asdf jklö"))
		if err != nil {
			t.Fatalf("AddLesson failed: %v", err)
		}

		_, err = AddTrainingSession(model.TrainingSession{
			ProfileID: pid,
			LessonID:  lid,
			StartedAt: time.Now(),
			Duration:  30 * time.Second,
			Typed:     9,
			Correct:   9,
			Completed: true,
		})
		if err != nil {
			t.Fatalf("AddTrainingSession failed: %v", err)
		}
		if err := UpsertKeyStats(pid, []model.KeyStat{{Key: "a", Hits: 5, Misses: 1}}); err != nil {
			t.Fatalf("UpsertKeyStats failed: %v", err)
		}

		if err := DeleteProfile(pid); err != nil {
			t.Fatalf("DeleteProfile failed: %v", err)
		}

		sessions, err := GetSessionsForProfile(pid)
		if err != nil {
			t.Fatalf("GetSessionsForProfile failed: %v", err)
		}
		if len(sessions) != 0 {
			t.Fatalf("expected sessions to be removed with the profile, got %d", len(sessions))
		}
		stats, err := GetKeyStatsForProfile(pid)
		if err != nil {
			t.Fatalf("GetKeyStatsForProfile failed: %v", err)
		}
		if len(stats) != 0 {
			t.Fatalf("expected key stats to be removed with the profile, got %d", len(stats))
		}
	})
}

func TestLesson_FingerprintDuplicate(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		l := testLesson("grundreihe", "asdf jklö")
		if _, err := AddLesson(l); err != nil {
			t.Fatalf("unexpected error on first AddLesson: %v", err)
		}
		l.Title = "anderer titel"
		if _, err := AddLesson(l); !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate on duplicate fingerprint, got: %v", err)
		}

		got, err := GetLessonByFingerprint(l.Fingerprint)
		if err != nil {
			t.Fatalf("GetLessonByFingerprint failed: %v", err)
		}
		if got == nil || got.Title != "grundreihe" {
			t.Fatalf("expected original lesson back, got %+v", got)
		}

		missing, err := GetLessonByFingerprint("does-not-exist")
		if err != nil {
			t.Fatalf("GetLessonByFingerprint for missing fingerprint failed: %v", err)
		}
		if missing != nil {
			t.Fatalf("expected nil for missing fingerprint, got %+v", missing)
		}
	})
}

func TestSeedBuiltinLessons_Idempotent(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		lessons := []model.Lesson{
			testLesson("eins", "asdf"),
			testLesson("zwei", "jklö"),
		}
		for i := range lessons {
			lessons[i].Builtin = true
		}

		added, err := SeedBuiltinLessons(lessons)
		if err != nil {
			t.Fatalf("SeedBuiltinLessons failed: %v", err)
		}
		if added != 2 {
			t.Fatalf("expected 2 seeded lessons, got %d", added)
		}

		added, err = SeedBuiltinLessons(lessons)
		if err != nil {
			t.Fatalf("second SeedBuiltinLessons failed: %v", err)
		}
		if added != 0 {
			t.Fatalf("expected idempotent reseed to add 0, got %d", added)
		}
	})
}

func TestToggleLessonArchived_HidesFromList(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		id, err := AddLesson(testLesson("grundreihe", "asdf jklö"))
		if err != nil {
			t.Fatalf("AddLesson failed: %v", err)
		}

		if err := ToggleLessonArchived(id); err != nil {
			t.Fatalf("ToggleLessonArchived failed: %v", err)
		}
		lessons, err := GetAllLessons()
		if err != nil {
			t.Fatalf("GetAllLessons failed: %v", err)
		}
		if len(lessons) != 0 {
			t.Fatalf("expected archived lesson to be hidden, got %d lessons", len(lessons))
		}

		// Archived lessons stay addressable by ID for history views.
		got, err := GetLessonByID(id)
		if err != nil {
			t.Fatalf("GetLessonByID failed: %v", err)
		}
		if got == nil || !got.Archived {
			t.Fatalf("expected archived lesson by ID, got %+v", got)
		}

		if err := ToggleLessonArchived(id); err != nil {
			t.Fatalf("second ToggleLessonArchived failed: %v", err)
		}
		lessons, err = GetAllLessons()
		if err != nil {
			t.Fatalf("GetAllLessons failed: %v", err)
		}
		if len(lessons) != 1 {
			t.Fatalf("expected unarchived lesson to reappear, got %d lessons", len(lessons))
		}
	})
}

func TestDeleteLesson_KeepsSessions(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		pid := mustAddProfile(t, "anna")
		lid, err := AddLesson(testLesson("grundreihe", "asdf jklö"))
		if err != nil {
			t.Fatalf("AddLesson failed: %v", err)
		}
		_, err = AddTrainingSession(model.TrainingSession{
			ProfileID: pid,
			LessonID:  lid,
			StartedAt: time.Now(),
			Duration:  30 * time.Second,
			Typed:     9,
			Correct:   9,
			Completed: true,
		})
		if err != nil {
			t.Fatalf("AddTrainingSession failed: %v", err)
		}

		if err := DeleteLesson(lid); err != nil {
			t.Fatalf("DeleteLesson failed: %v", err)
		}

		got, err := GetLessonByID(lid)
		if err != nil {
			t.Fatalf("GetLessonByID failed: %v", err)
		}
		if got != nil {
			t.Fatalf("expected lesson gone, got %+v", got)
		}

		// The practice record survives the lesson.
		sessions, err := GetSessionsForProfile(pid)
		if err != nil {
			t.Fatalf("GetSessionsForProfile failed: %v", err)
		}
		if len(sessions) != 1 {
			t.Fatalf("expected session kept after lesson delete, got %d", len(sessions))
		}

		if err := DeleteLesson(9999); err == nil {
			t.Fatal("expected error deleting a missing lesson")
		}
	})
}

func TestTrainingSessions_NewestFirst(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		pid := mustAddProfile(t, "anna")
		lid, err := AddLesson(testLesson("grundreihe", "asdf jklö"))
		if err != nil {
			t.Fatalf("AddLesson failed: %v", err)
		}

		base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			_, err := AddTrainingSession(model.TrainingSession{
				ProfileID: pid,
				LessonID:  lid,
				StartedAt: base.Add(time.Duration(i) * time.Hour),
				Duration:  45 * time.Second,
				Typed:     10 + i,
				Correct:   10 + i,
				Accuracy:  1,
				WPM:       20,
				CaseMode:  "strict",
				Completed: true,
			})
			if err != nil {
				t.Fatalf("AddTrainingSession %d failed: %v", i, err)
			}
		}

		sessions, err := GetSessionsForProfile(pid)
		if err != nil {
			t.Fatalf("GetSessionsForProfile failed: %v", err)
		}
		if len(sessions) != 3 {
			t.Fatalf("expected 3 sessions, got %d", len(sessions))
		}
		if sessions[0].Typed != 12 || sessions[2].Typed != 10 {
			t.Fatalf("expected newest-first ordering, got typed counts %d, %d, %d",
				sessions[0].Typed, sessions[1].Typed, sessions[2].Typed)
		}
		if sessions[0].Duration != 45*time.Second {
			t.Fatalf("expected duration to round-trip, got %s", sessions[0].Duration)
		}
	})
}

func TestKeyStats_Accumulate(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		pid := mustAddProfile(t, "anna")

		if err := UpsertKeyStats(pid, []model.KeyStat{
			{Key: "a", Hits: 3, Misses: 1},
			{Key: "ö", Hits: 1, Misses: 4},
		}); err != nil {
			t.Fatalf("first UpsertKeyStats failed: %v", err)
		}
		if err := UpsertKeyStats(pid, []model.KeyStat{
			{Key: "a", Hits: 2, Misses: 0},
		}); err != nil {
			t.Fatalf("second UpsertKeyStats failed: %v", err)
		}

		stats, err := GetKeyStatsForProfile(pid)
		if err != nil {
			t.Fatalf("GetKeyStatsForProfile failed: %v", err)
		}
		if len(stats) != 2 {
			t.Fatalf("expected 2 key stats, got %d", len(stats))
		}
		// Weakest key first: ö has the most misses.
		if stats[0].Key != "ö" || stats[0].Misses != 4 {
			t.Fatalf("expected ö with 4 misses first, got %+v", stats[0])
		}
		if stats[1].Key != "a" || stats[1].Hits != 5 || stats[1].Misses != 1 {
			t.Fatalf("expected accumulated a(hits=5, misses=1), got %+v", stats[1])
		}
	})
}

func TestActivityLog_RecordsCompletedSessions(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		pid := mustAddProfile(t, "anna")
		lid, err := AddLesson(testLesson("grundreihe", "asdf jklö"))
		if err != nil {
			t.Fatalf("AddLesson failed: %v", err)
		}
		if _, err := AddTrainingSession(model.TrainingSession{
			ProfileID: pid,
			LessonID:  lid,
			StartedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			Duration:  45 * time.Second,
			Typed:     10,
			Correct:   10,
			Accuracy:  1,
			WPM:       20,
			CaseMode:  "strict",
			Completed: true,
		}); err != nil {
			t.Fatalf("AddTrainingSession failed: %v", err)
		}

		entries, err := GetAllActivityLogEntries()
		if err != nil {
			t.Fatalf("GetAllActivityLogEntries failed: %v", err)
		}
		found := false
		for _, e := range entries {
			if e.Action == "SESSION_COMPLETED" && strings.Contains(e.Details, fmt.Sprintf("lesson: %d", lid)) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected SESSION_COMPLETED entry in activity log, got %+v", entries)
		}
	})
}

func TestActivityLog_RecordsAdminActions(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		mustAddProfile(t, "anna")

		entries, err := GetAllActivityLogEntries()
		if err != nil {
			t.Fatalf("GetAllActivityLogEntries failed: %v", err)
		}
		found := false
		for _, e := range entries {
			if e.Action == "ADD_PROFILE" && strings.Contains(e.Details, "anna") {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected ADD_PROFILE entry in activity log, got %+v", entries)
		}
	})
}

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		pid := mustAddProfile(t, "anna")
		lid, err := AddLesson(testLesson("grundreihe", "asdf jklö"))
		if err != nil {
			t.Fatalf("AddLesson failed: %v", err)
		}
		if _, err := AddTrainingSession(model.TrainingSession{
			ProfileID: pid, LessonID: lid, StartedAt: time.Now().UTC(),
			Duration: time.Minute, Typed: 9, Correct: 8, Errors: 1,
			Accuracy: 0.888, WPM: 12.5, CaseMode: "strict", Completed: true,
		}); err != nil {
			t.Fatalf("AddTrainingSession failed: %v", err)
		}
		if err := UpsertKeyStats(pid, []model.KeyStat{{Key: "a", Hits: 4, Misses: 1}}); err != nil {
			t.Fatalf("UpsertKeyStats failed: %v", err)
		}

		backup, err := ExportDataForBackup()
		if err != nil {
			t.Fatalf("ExportDataForBackup failed: %v", err)
		}
		if len(backup.Profiles) != 1 || len(backup.Lessons) != 1 ||
			len(backup.TrainingSessions) != 1 || len(backup.KeyStats) != 1 {
			t.Fatalf("unexpected backup shape: %d profiles, %d lessons, %d sessions, %d key stats",
				len(backup.Profiles), len(backup.Lessons), len(backup.TrainingSessions), len(backup.KeyStats))
		}
		if len(backup.ActivityLogEntries) == 0 {
			t.Fatalf("expected activity log entries in backup")
		}

		// Pollute the store, then restore the snapshot.
		mustAddProfile(t, "bruno")
		if err := ImportDataFromBackup(backup); err != nil {
			t.Fatalf("ImportDataFromBackup failed: %v", err)
		}

		profiles, err := GetAllProfiles()
		if err != nil {
			t.Fatalf("GetAllProfiles failed: %v", err)
		}
		if len(profiles) != 1 || profiles[0].Name != "anna" {
			t.Fatalf("expected restore to wipe and replace, got %+v", profiles)
		}
		sessions, err := GetSessionsForProfile(profiles[0].ID)
		if err != nil {
			t.Fatalf("GetSessionsForProfile failed: %v", err)
		}
		if len(sessions) != 1 || sessions[0].Duration != time.Minute {
			t.Fatalf("expected restored session, got %+v", sessions)
		}
	})
}

func TestBackup_IntegrateKeepsExisting(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		mustAddProfile(t, "anna")
		if _, err := AddLesson(testLesson("grundreihe", "asdf jklö")); err != nil {
			t.Fatalf("AddLesson failed: %v", err)
		}

		backup, err := ExportDataForBackup()
		if err != nil {
			t.Fatalf("ExportDataForBackup failed: %v", err)
		}

		mustAddProfile(t, "bruno")
		if _, err := AddLesson(testLesson("obere reihe", "qwert zuiopü")); err != nil {
			t.Fatalf("second AddLesson failed: %v", err)
		}

		if err := IntegrateDataFromBackup(backup); err != nil {
			t.Fatalf("IntegrateDataFromBackup failed: %v", err)
		}

		profiles, err := GetAllProfiles()
		if err != nil {
			t.Fatalf("GetAllProfiles failed: %v", err)
		}
		if len(profiles) != 2 {
			t.Fatalf("expected integrate to keep both profiles, got %d", len(profiles))
		}
		lessons, err := GetAllLessons()
		if err != nil {
			t.Fatalf("GetAllLessons failed: %v", err)
		}
		if len(lessons) != 2 {
			t.Fatalf("expected integrate to keep both lessons, got %d", len(lessons))
		}
	})
}

func TestSearchLessons_TokenizedMatch(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		if _, err := AddLesson(testLesson("grundreihe links", "asdf asdf")); err != nil {
			t.Fatalf("AddLesson failed: %v", err)
		}
		if _, err := AddLesson(testLesson("obere reihe", "qwert zuiopü")); err != nil {
			t.Fatalf("AddLesson failed: %v", err)
		}

		got, err := SearchLessons("GRUND links")
		if err != nil {
			t.Fatalf("SearchLessons failed: %v", err)
		}
		if len(got) != 1 || got[0].Title != "grundreihe links" {
			t.Fatalf("expected single tokenized match, got %+v", got)
		}

		// Body text is searched too.
		got, err = SearchLessons("zuiopü")
		if err != nil {
			t.Fatalf("SearchLessons on body failed: %v", err)
		}
		if len(got) != 1 || got[0].Title != "obere reihe" {
			t.Fatalf("expected body match, got %+v", got)
		}
	})
}
