// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

//nolint:errcheck
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/lesson"
)

func TestLessonGenerateCmd(t *testing.T) {
	setupTestCLI(t)

	output := executeCommand(t, nil, "lesson", "generate", "--stage", "2", "--words", "6", "--seed", "99", "--title", "Oberreihe kurz")

	t.Run("prints the created lesson", func(t *testing.T) {
		if !strings.Contains(output, "Lesson 'Oberreihe kurz' created") {
			t.Errorf("Expected creation message, got:\n%s", output)
		}
		if !strings.Contains(output, "ID: ") {
			t.Errorf("Expected the new lesson id, got:\n%s", output)
		}
	})

	t.Run("stores the drill in the database", func(t *testing.T) {
		lessons, err := db.GetAllLessons()
		if err != nil {
			t.Fatalf("failed to load lessons: %v", err)
		}
		if len(lessons) != 1 {
			t.Fatalf("Expected 1 lesson in the database, found %d", len(lessons))
		}
		l := lessons[0]
		if l.Title != "Oberreihe kurz" {
			t.Errorf("Expected title override, got %q", l.Title)
		}
		if l.Stage != 2 {
			t.Errorf("Expected stage 2, got %d", l.Stage)
		}
		if l.Builtin {
			t.Error("Generated drills must not be marked builtin")
		}
		if l.Fingerprint == "" {
			t.Error("Expected a fingerprint on the stored drill")
		}
	})

	t.Run("rejects an identical drill", func(t *testing.T) {
		// Same stage, words and seed produce the same text.
		_, err := executeCommandWithError(t, nil, "lesson", "generate", "--stage", "2", "--words", "6", "--seed", "99")
		if err == nil {
			t.Fatal("Expected duplicate drill to be rejected")
		}
		if !strings.Contains(err.Error(), "identical drill") {
			t.Errorf("Expected duplicate error, got: %v", err)
		}
	})
}

func TestLessonGenerateCmd_RealWords(t *testing.T) {
	setupTestCLI(t)

	executeCommand(t, nil, "lesson", "generate", "--stage", "1", "--words", "8", "--seed", "5", "--real")

	lessons, err := db.GetAllLessons()
	if err != nil || len(lessons) != 1 {
		t.Fatalf("expected one stored lesson, got %d (err %v)", len(lessons), err)
	}
	if !strings.Contains(lessons[0].Title, "Wörter") {
		t.Errorf("Expected word-drill title, got %q", lessons[0].Title)
	}
	// Home-row dictionary words only, e.g. "das" or "fall".
	for _, w := range strings.Fields(lessons[0].Text) {
		if len(w) < 2 {
			t.Errorf("Suspicious word %q in real-word drill", w)
		}
	}
}

func TestLessonListCmd(t *testing.T) {
	setupTestCLI(t)

	t.Run("empty database prints a hint", func(t *testing.T) {
		output := executeCommand(t, nil, "lesson", "list")
		if !strings.Contains(output, "No lessons found.") {
			t.Errorf("Expected empty-list hint, got:\n%s", output)
		}
	})

	// Titles carry digits, which no drill text below the digit-row stage
	// can contain, so searching for them is unambiguous.
	executeCommand(t, nil, "lesson", "generate", "--stage", "1", "--words", "5", "--seed", "7", "--title", "Lektion 42")
	executeCommand(t, nil, "lesson", "generate", "--stage", "3", "--words", "5", "--seed", "8", "--title", "Untere Reihe")

	t.Run("lists lessons in a table", func(t *testing.T) {
		output := executeCommand(t, nil, "lesson", "list")
		for _, want := range []string{"STAGE", "TITLE", "BUILTIN", "Lektion 42", "Untere Reihe"} {
			if !strings.Contains(output, want) {
				t.Errorf("Expected list output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("--search filters by title", func(t *testing.T) {
		output := executeCommand(t, nil, "lesson", "list", "--search", "42")
		if !strings.Contains(output, "Lektion 42") {
			t.Errorf("Expected the matching lesson, got:\n%s", output)
		}
		if strings.Contains(output, "Untere Reihe") {
			t.Errorf("Expected the other lesson to be filtered out, got:\n%s", output)
		}
	})
}

func TestLessonShowCmd(t *testing.T) {
	setupTestCLI(t)

	executeCommand(t, nil, "lesson", "generate", "--stage", "1", "--words", "4", "--seed", "5", "--title", "Zeigen")
	lessons, err := db.GetAllLessons()
	if err != nil || len(lessons) != 1 {
		t.Fatalf("expected one stored lesson, got %d (err %v)", len(lessons), err)
	}

	output := executeCommand(t, nil, "lesson", "show", strconv.Itoa(lessons[0].ID))

	for _, want := range []string{"Title:", "Zeigen", "Origin:", "custom", lessons[0].Text} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected show output to contain %q, got:\n%s", want, output)
		}
	}

	t.Run("unknown id is an error", func(t *testing.T) {
		_, err := executeCommandWithError(t, nil, "lesson", "show", "9999")
		if err == nil {
			t.Fatal("Expected an error for an unknown lesson id")
		}
	})
}

func TestLessonImportExportCmd(t *testing.T) {
	setupTestCLI(t)

	pack := `version: 1
lessons:
  - title: Heimreihe
    text: "asdf jklö asdf"
  - title: Reisewort
    text: "die alte reise"
`
	packPath := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(packPath, []byte(pack), 0644); err != nil {
		t.Fatalf("failed to write pack file: %v", err)
	}

	t.Run("import adds every new lesson", func(t *testing.T) {
		output := executeCommand(t, nil, "lesson", "import", packPath)
		if !strings.Contains(output, "Import complete. Imported 2 lessons, skipped 0 duplicates.") {
			t.Errorf("Expected import summary, got:\n%s", output)
		}
		lessons, err := db.GetAllLessons()
		if err != nil {
			t.Fatalf("failed to load lessons: %v", err)
		}
		if len(lessons) != 2 {
			t.Fatalf("Expected 2 lessons after import, found %d", len(lessons))
		}
	})

	t.Run("re-import skips duplicates", func(t *testing.T) {
		output := executeCommand(t, nil, "lesson", "import", packPath)
		if !strings.Contains(output, "Import complete. Imported 0 lessons, skipped 2 duplicates.") {
			t.Errorf("Expected duplicate summary, got:\n%s", output)
		}
	})

	t.Run("export without a file prints the pack", func(t *testing.T) {
		output := executeCommand(t, nil, "lesson", "export")
		if !strings.Contains(output, "version: 1") {
			t.Errorf("Expected a versioned pack on stdout, got:\n%s", output)
		}
		if !strings.Contains(output, "Heimreihe") {
			t.Errorf("Expected exported lesson titles, got:\n%s", output)
		}
	})

	t.Run("export writes a pack importable elsewhere", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "export.yaml")
		output := executeCommand(t, nil, "lesson", "export", outPath)
		if !strings.Contains(output, fmt.Sprintf("Exported 2 lessons to %s", outPath)) {
			t.Errorf("Expected export summary, got:\n%s", output)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read exported pack: %v", err)
		}
		parsed, err := lesson.ParsePack(data)
		if err != nil {
			t.Fatalf("exported pack does not parse: %v", err)
		}
		if len(parsed) != 2 {
			t.Errorf("Expected 2 lessons in the exported pack, got %d", len(parsed))
		}
	})
}

func TestLessonArchiveAndDeleteCmd(t *testing.T) {
	setupTestCLI(t)

	executeCommand(t, nil, "lesson", "generate", "--stage", "1", "--words", "4", "--seed", "11", "--title", "Wechsel")
	lessons, err := db.GetAllLessons()
	if err != nil || len(lessons) != 1 {
		t.Fatalf("expected one stored lesson, got %d (err %v)", len(lessons), err)
	}
	id := lessons[0].ID
	idArg := strconv.Itoa(id)

	t.Run("archive marks the lesson", func(t *testing.T) {
		output := executeCommand(t, nil, "lesson", "archive", idArg)
		if !strings.Contains(output, "Lesson 'Wechsel' archived") {
			t.Errorf("Expected archive message, got:\n%s", output)
		}
		l, _ := db.GetLessonByID(id)
		if l == nil || !l.Archived {
			t.Error("Expected the lesson to be archived in the database")
		}
	})

	t.Run("archiving again restores", func(t *testing.T) {
		output := executeCommand(t, nil, "lesson", "archive", idArg)
		if !strings.Contains(output, "Lesson 'Wechsel' restored") {
			t.Errorf("Expected restore message, got:\n%s", output)
		}
		l, _ := db.GetLessonByID(id)
		if l == nil || l.Archived {
			t.Error("Expected the lesson to be restored in the database")
		}
	})

	t.Run("delete asks for confirmation", func(t *testing.T) {
		inputReader, inputWriter, _ := os.Pipe()
		go func() {
			defer func() { _ = inputWriter.Close() }()
			fmt.Fprintln(inputWriter, "no")
		}()

		output := executeCommand(t, inputReader, "lesson", "delete", idArg)
		if !strings.Contains(output, "Deletion cancelled.") {
			t.Errorf("Expected cancellation, got:\n%s", output)
		}
		if l, _ := db.GetLessonByID(id); l == nil {
			t.Error("Expected the lesson to survive a cancelled delete")
		}
	})

	t.Run("delete --force removes the lesson", func(t *testing.T) {
		output := executeCommand(t, nil, "lesson", "delete", idArg, "--force")
		if !strings.Contains(output, "Lesson 'Wechsel' deleted") {
			t.Errorf("Expected delete message, got:\n%s", output)
		}
		if l, _ := db.GetLessonByID(id); l != nil {
			t.Error("Expected the lesson to be gone")
		}
	})
}
