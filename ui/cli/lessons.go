// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/lesson"
	"github.com/scriptum/scriptum/internal/model"
)

// lessonCmd is the root command for lesson management operations.
var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Manage lessons (list, show, generate, import, export, archive, delete)",
	Long: `The 'lesson' command group manages the practice library:
  - List lessons with stage and length
  - View a lesson including its full text
  - Generate drill lessons from the stage ladder
  - Import and export YAML lesson packs
  - Archive lessons out of the list, or delete them for good`,
}

// lessonListCmd lists all active lessons.
var lessonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all lessons",
	Long:  `Display all active lessons in table format. Use --search to narrow by title or text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		searchTerm, _ := cmd.Flags().GetString("search")

		var lessons []model.Lesson
		var err error
		if searchTerm != "" {
			lessons, err = db.SearchLessons(searchTerm)
		} else {
			lessons, err = db.GetAllLessons()
		}
		if err != nil {
			return fmt.Errorf("failed to list lessons: %w", err)
		}

		if len(lessons) == 0 {
			fmt.Println("No lessons found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTAGE\tTITLE\tRUNES\tBUILTIN\tCREATED")
		for _, l := range lessons {
			builtin := "no"
			if l.Builtin {
				builtin = "yes"
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\t%s\n",
				l.ID, l.Stage, l.Title, l.RuneCount(), builtin, l.CreatedAt.Format("2006-01-02"))
		}
		w.Flush()

		return nil
	},
}

// lessonShowCmd displays one lesson including its full text.
var lessonShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a lesson including its text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := findLesson(args[0])
		if err != nil {
			return err
		}

		origin := "custom"
		if l.Builtin {
			origin = "builtin"
		}
		archived := "no"
		if l.Archived {
			archived = "yes"
		}

		fmt.Printf("ID:        %d\n", l.ID)
		fmt.Printf("Title:     %s\n", l.Title)
		fmt.Printf("Stage:     %d\n", l.Stage)
		fmt.Printf("Layout:    %s\n", l.Layout)
		fmt.Printf("Origin:    %s\n", origin)
		fmt.Printf("Archived:  %s\n", archived)
		fmt.Printf("Runes:     %d\n", l.RuneCount())
		fmt.Printf("Created:   %s\n", l.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("\n%s\n", l.Text)

		return nil
	},
}

// lessonGenerateCmd creates a drill lesson from the stage ladder.
var lessonGenerateCmd = &cobra.Command{
	Use:   "generate --stage <n>",
	Short: "Generate a drill lesson for a stage",
	Long: `Generates a line of pseudo-words drawn from the key inventory of the
given stage and stores it as a lesson. With --real the drill uses real
German words that fit the stage instead of synthetic ones. Word count
and seed default to the configured drill settings; a seed of 0 picks a
fresh one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, _ := cmd.Flags().GetInt("stage")
		title, _ := cmd.Flags().GetString("title")
		real, _ := cmd.Flags().GetBool("real")

		words := appConfig.Drill.Words
		if cmd.Flags().Changed("words") {
			words, _ = cmd.Flags().GetInt("words")
		}
		seed := appConfig.Drill.Seed
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetInt64("seed")
		}

		var l model.Lesson
		var err error
		if real {
			l, err = lesson.NewWords(stage, words, seed)
		} else {
			l, err = lesson.NewDrill(stage, words, seed)
		}
		if err != nil {
			return err
		}
		if title != "" {
			l.Title = title
		}

		id, err := db.AddLesson(l)
		if err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				return fmt.Errorf("an identical drill already exists; vary --seed or --words")
			}
			return fmt.Errorf("failed to store lesson: %w", err)
		}

		fmt.Println(i18n.T("lessons.generated", l.Title))
		fmt.Printf("ID: %d\n%s\n", id, l.Text)
		return nil
	},
}

// lessonImportCmd imports lessons from a YAML pack file.
var lessonImportCmd = &cobra.Command{
	Use:   "import <pack.yaml>",
	Short: "Import lessons from a YAML pack",
	Long: `Reads a version-1 YAML lesson pack and adds its lessons. Lessons whose
text is already in the library are skipped, so re-importing a pack is
safe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read pack: %w", err)
		}
		lessons, err := lesson.ParsePack(data)
		if err != nil {
			return err
		}

		imported, skipped := 0, 0
		for _, l := range lessons {
			if _, err := db.AddLesson(l); err != nil {
				if errors.Is(err, db.ErrDuplicate) {
					skipped++
					continue
				}
				return fmt.Errorf("failed to import %q: %w", l.Title, err)
			}
			imported++
		}

		fmt.Printf("Import complete. Imported %d lessons, skipped %d duplicates.\n", imported, skipped)
		return nil
	},
}

// lessonExportCmd writes all active lessons as a YAML pack.
var lessonExportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export all lessons as a YAML pack",
	Long: `Writes all active lessons as a version-1 YAML lesson pack. With no
output file the pack goes to stdout, so it can be piped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lessons, err := db.GetAllLessons()
		if err != nil {
			return fmt.Errorf("failed to load lessons: %w", err)
		}
		data, err := lesson.EncodePack(lessons)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Print(string(data))
			return nil
		}
		if err := os.WriteFile(args[0], data, 0644); err != nil {
			return fmt.Errorf("failed to write pack: %w", err)
		}
		fmt.Printf("Exported %d lessons to %s\n", len(lessons), args[0])
		return nil
	},
}

// lessonArchiveCmd toggles a lesson in or out of the archive.
var lessonArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a lesson, or restore an archived one",
	Long: `Toggles the archived flag. Archived lessons disappear from lists and
the TUI but keep their training history; running archive again
restores them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := findLesson(args[0])
		if err != nil {
			return err
		}
		if err := db.ToggleLessonArchived(l.ID); err != nil {
			return fmt.Errorf("failed to toggle archive: %w", err)
		}
		if l.Archived {
			fmt.Println(i18n.T("lessons.restored", l.Title))
		} else {
			fmt.Println(i18n.T("lessons.archived", l.Title))
		}
		return nil
	},
}

// lessonDeleteCmd removes a lesson permanently.
var lessonDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a lesson permanently",
	Long: `Deletes a lesson from the library. Recorded training sessions are
kept; reports show the numeric id where the title used to be.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := findLesson(args[0])
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete lesson: %s (ID: %d)? (yes/no): ", l.Title, l.ID)
			var response string
			fmt.Scanln(&response)
			if strings.ToLower(response) != "yes" {
				fmt.Println("Deletion cancelled.")
				return nil
			}
		}

		if err := db.DeleteLesson(l.ID); err != nil {
			return fmt.Errorf("failed to delete lesson: %w", err)
		}
		fmt.Println(i18n.T("lessons.deleted", l.Title))
		return nil
	},
}

// findLesson resolves a command-line lesson argument to a stored
// lesson. Archived lessons resolve too, so they can be restored.
func findLesson(arg string) (*model.Lesson, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid lesson id: %q", arg)
	}
	l, err := db.GetLessonByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if l == nil {
		return nil, fmt.Errorf("lesson not found: %d", id)
	}
	return l, nil
}

// registerLessonCommands registers all lesson-related subcommands.
// NewRootCmd runs more than once in tests, so wiring is guarded.
func registerLessonCommands() {
	if !lessonCmd.HasSubCommands() {
		lessonCmd.AddCommand(lessonListCmd)
		lessonCmd.AddCommand(lessonShowCmd)
		lessonCmd.AddCommand(lessonGenerateCmd)
		lessonCmd.AddCommand(lessonImportCmd)
		lessonCmd.AddCommand(lessonExportCmd)
		lessonCmd.AddCommand(lessonArchiveCmd)
		lessonCmd.AddCommand(lessonDeleteCmd)
	}

	if lessonListCmd.Flags().Lookup("search") == nil {
		lessonListCmd.Flags().String("search", "", "Filter by words in title or text")
	}
	if lessonGenerateCmd.Flags().Lookup("stage") == nil {
		lessonGenerateCmd.Flags().IntP("stage", "s", 1, "Stage of the drill ladder (required)")
		lessonGenerateCmd.Flags().IntP("words", "w", 0, "Number of pseudo-words (default from config)")
		lessonGenerateCmd.Flags().Int64("seed", 0, "Random seed, 0 for a fresh one (default from config)")
		lessonGenerateCmd.Flags().StringP("title", "t", "", "Title override")
		lessonGenerateCmd.Flags().Bool("real", false, "Draw real German words instead of synthetic ones")
		_ = lessonGenerateCmd.MarkFlagRequired("stage")
	}
	if lessonDeleteCmd.Flags().Lookup("force") == nil {
		lessonDeleteCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	}
}
