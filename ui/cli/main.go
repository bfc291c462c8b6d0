// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Scriptum using the
// Cobra library. It defines the root command, its persistent flags and
// the service setup every subcommand runs through.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/scriptum/scriptum/buildvars"
	"github.com/scriptum/scriptum/internal/config"
	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/lesson"
	"github.com/scriptum/scriptum/internal/logging"
	"github.com/scriptum/scriptum/internal/tui"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var fullRestore bool // flag for the restore command
var verbose bool
var showVersionFlag bool

// appConfig holds the configuration resolved by setupDefaultServices.
// Subcommands that need raw connection values (migrate, maintenance)
// read it instead of re-parsing.
var appConfig config.Config

// setupDefaultServices resolves the configuration and brings up i18n
// and the database. It runs as the root command's PersistentPreRunE,
// so every subcommand can assume both are ready.
func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./scriptum.db",
		"language":      "en",
		"case_mode":     "strict",
		"drill.words":   12,
		"drill.seed":    int64(0),
	}

	var wrotePath string
	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	// A "file not found" error is expected on first run; persist the
	// defaults so subsequent runs have a file to edit.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			// The app runs fine on defaults, so only warn.
			logging.Warnf("could not write default config file: %v", writeErr)
		} else if path, pathErr := config.GetConfigPath(false); pathErr == nil {
			wrotePath = path
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Explicit flags win over every other source.
	if cmd.Flags().Changed("db-type") {
		appConfig.Database.Type, _ = cmd.Flags().GetString("db-type")
	}
	if cmd.Flags().Changed("db-dsn") {
		appConfig.Database.Dsn, _ = cmd.Flags().GetString("db-dsn")
	}
	if cmd.Flags().Changed("lang") {
		appConfig.Language, _ = cmd.Flags().GetString("lang")
	}

	// A user-edited file may carry empty values for critical fields;
	// fall back to the defaults rather than failing downstream.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.CaseMode == "" {
		appConfig.CaseMode = defaults["case_mode"].(string)
	}
	if appConfig.Drill.Words <= 0 {
		appConfig.Drill.Words = defaults["drill.words"].(int)
	}

	// The TUI reads the process-wide viper and saves settings through
	// it; mirror the resolved values so both sides agree.
	viper.Set("database.type", appConfig.Database.Type)
	viper.Set("database.dsn", appConfig.Database.Dsn)
	viper.Set("language", appConfig.Language)
	viper.Set("case_mode", appConfig.CaseMode)
	viper.Set("drill.words", appConfig.Drill.Words)
	viper.Set("drill.seed", appConfig.Drill.Seed)

	if err := i18n.Init(appConfig.Language); err != nil {
		return fmt.Errorf("could not initialize translations: %w", err)
	}
	if wrotePath != "" {
		fmt.Println(i18n.T("cli.config_written", wrotePath))
	}

	// Initialize the database unless tests or an earlier setup already did.
	if !db.IsInitialized() {
		if err := db.InitDB(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
		if err := ensureSeedData(); err != nil {
			logging.Warnf("seed data incomplete: %v", err)
		}
	}

	return nil
}

// ensureSeedData makes a fresh database usable without any manual
// setup: the builtin course is present and at least one profile
// exists. Both steps are idempotent across upgrades.
func ensureSeedData() error {
	builtins, err := lesson.Builtins()
	if err != nil {
		return err
	}
	added, err := db.SeedBuiltinLessons(builtins)
	if err != nil {
		return err
	}
	if added > 0 {
		logging.Debugf("seeded %d builtin lessons", added)
	}

	profiles, err := db.GetAllProfiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		if _, err := db.AddProfile("default"); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI entrypoint. The root main package calls this
// function and handles process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

// getConfigPathFromCli returns the config file path when the user set
// the --config flag, or nil to use the standard search locations.
func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		// Unlikely when Changed() is true, but good practice.
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid unwanted behavior.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates and configures a new root cobra command. Tests
// create fresh instances for isolation.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scriptum",
		Short: "Scriptum is a terminal typing tutor for the German QWERTZ layout.",
		Long: `Scriptum teaches touch typing on the DE-QWERTZ layout.
Lessons climb a stage ladder from the home row up to umlauts, ß and the
digit row. Training sessions, per-key statistics and profiles live in a
local database, so progress survives between runs.

Running without a subcommand launches the interactive TUI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				fmt.Println(compositeVersion())
				os.Exit(0)
			}
			if verbose {
				logging.SetDebug(true)
			}
			return setupDefaultServices(cmd, args)
		},
		Run: func(cmd *cobra.Command, args []string) {
			// The interactive tutor needs a real terminal; in pipes and
			// CI print the help text instead of corrupting the stream.
			if term.IsTerminal(int(os.Stdout.Fd())) {
				tui.Run()
				return
			}
			_ = cmd.Help()
		},
	}

	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug-level logs)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().String("config", "", "config file")
	cmd.PersistentFlags().String("lang", "", `UI language ("en", "de")`)
	cmd.PersistentFlags().String("db-type", "", "Database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "", "Database connection string (DSN)")

	registerLessonCommands()
	registerProfileCommands()
	registerReportCommands()
	registerDataCommands()

	cmd.AddCommand(
		practiceCmd,
		lessonCmd,
		profileCmd,
		historyCmd,
		statsCmd,
		backupCmd,
		restoreCmd,
		migrateCmd,
		maintenanceCmd,
		newVersionCmd(),
	)

	return cmd
}

// practiceCmd launches the TUI, optionally jumping straight into a
// practice pass for a specific lesson.
var practiceCmd = &cobra.Command{
	Use:   "practice [lesson-id]",
	Short: "Start practicing, optionally jumping straight into a lesson",
	Long: `Launches the interactive tutor. With a lesson id the TUI opens
directly on the typing screen for that lesson instead of the menu.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			tui.Run()
			return nil
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid lesson id: %w", err)
		}
		l, err := db.GetLessonByID(id)
		if err != nil {
			return fmt.Errorf("failed to load lesson: %w", err)
		}
		if l == nil {
			return fmt.Errorf("lesson not found: %d", id)
		}
		tui.RunWithLesson(*l)
		return nil
	},
}

// newVersionCmd builds the `version` subcommand so users and CI can run
// `scriptum version` without a TTY.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			fmt.Printf("version: %s\n", v)
			fmt.Printf("commit: %s\n", c)
			if d != "" {
				fmt.Printf("built: %s\n", d)
			}
		},
	}
}

// compositeVersion renders version, commit and build date on one line.
func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out = out + " (" + c + ")"
	}
	if d != "" {
		out = out + " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and
// build date for the running binary. If info is nil, it reads build
// info from the runtime. Separated out to make unit testing simple.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Some build paths leave Main.Version unset; fall back to our
		// module showing up among the dependencies.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/scriptum/scriptum" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort, surface a gitCommit provided via ldflags so
	// support can still identify the build.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
