// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// debug_export seeds an in-memory database with a few records and
// prints the backup export as pretty JSON. It exists to eyeball the
// backup payload while changing the schema or the export code, without
// touching a real database file.
package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/lesson"
	"github.com/scriptum/scriptum/internal/model"
)

func main() {
	dsn := "file:debugexport?mode=memory&cache=shared"
	_ = i18n.Init("en")
	if err := db.InitDB("sqlite", dsn); err != nil {
		panic(err)
	}

	profileID, err := db.AddProfile("debug")
	if err != nil {
		panic(err)
	}
	if err := db.SetActiveProfile(profileID); err != nil {
		panic(err)
	}

	text := "asdf jklö asdf jklö"
	lessonID, err := db.AddLesson(model.Lesson{
		Title:       "Home row probe",
		Stage:       1,
		Layout:      "de-qwertz",
		Text:        text,
		Fingerprint: lesson.Fingerprint(text),
	})
	if err != nil {
		panic(err)
	}

	if _, err := db.AddTrainingSession(model.TrainingSession{
		ProfileID: profileID,
		LessonID:  lessonID,
		StartedAt: time.Now(),
		Duration:  45 * time.Second,
		Typed:     19,
		Correct:   18,
		Errors:    1,
		Accuracy:  18.0 / 19.0,
		WPM:       30.4,
		CaseMode:  "strict",
		Completed: true,
	}); err != nil {
		panic(err)
	}

	backup, err := db.ExportDataForBackup()
	if err != nil {
		panic(err)
	}

	fmt.Printf("profiles: %d\n", len(backup.Profiles))
	fmt.Printf("lessons: %d\n", len(backup.Lessons))
	fmt.Printf("sessions: %d\n", len(backup.TrainingSessions))

	out, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(out))
}
