// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/model"
)

// backupCmd dumps the whole database into one compressed JSON file.
var backupCmd = &cobra.Command{
	Use:   "backup [output-file]",
	Short: "Create a compressed (zstd) JSON backup of the database",
	Long: `Dumps the entire contents of the Scriptum database (profiles, lessons,
sessions, key statistics, activity log) into a single
Zstandard-compressed JSON file.

If an output file is given, '.zst' is appended when missing. Without
one, a default name 'scriptum-backup-YYYY-MM-DD.json.zst' is used.

The file can be restored on any supported database backend, so it also
serves as the migration format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var outputFile string
		if len(args) == 0 {
			outputFile = fmt.Sprintf("scriptum-backup-%s.json.zst", time.Now().Format("2006-01-02"))
		} else {
			outputFile = args[0]
			if !strings.HasSuffix(outputFile, ".zst") {
				outputFile += ".zst"
			}
		}

		data, err := db.ExportDataForBackup()
		if err != nil {
			return fmt.Errorf("failed to export data: %w", err)
		}
		if err := writeCompressedBackup(outputFile, data); err != nil {
			return err
		}

		fmt.Println(i18n.T("cli.backup_done", outputFile))
		return nil
	},
}

// restoreCmd loads a backup file back into the database.
var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file.zst>",
	Short: "Restore the database from a compressed JSON backup",
	Long: `Restores the Scriptum database from a Zstandard-compressed JSON backup.

By default this is a non-destructive "integration" restore: only data
that does not already exist is added. With --full all existing data is
wiped first. --full is destructive and not reversible.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		data, err := readCompressedBackup(inputFile)
		if err != nil {
			return err
		}

		if fullRestore {
			err = db.ImportDataFromBackup(data)
		} else {
			err = db.IntegrateDataFromBackup(data)
		}
		if err != nil {
			return fmt.Errorf("failed to restore backup: %w", err)
		}

		fmt.Println(i18n.T("cli.restore_done", inputFile))
		fmt.Println(i18n.T("cli.restore_summary",
			len(data.Profiles), len(data.Lessons), len(data.TrainingSessions)))
		return nil
	},
}

// migrateCmd moves all data to a different database backend.
var migrateCmd = &cobra.Command{
	Use:   "migrate --type <db-type> --dsn <target-dsn>",
	Short: "Migrate data from the current database to a new one",
	Long: `Exports all data from the currently configured database and performs
a full, destructive restore into the target database given by --type
and --dsn. The target is migrated to the current schema first.

The configuration file is not changed; update database.type and
database.dsn once the migration has been verified.

Example:
  scriptum migrate --type postgres --dsn "host=localhost user=scriptum dbname=scriptum"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetType, _ := cmd.Flags().GetString("type")
		targetDsn, _ := cmd.Flags().GetString("dsn")
		if targetType == "" || targetDsn == "" {
			return fmt.Errorf("both --type and --dsn are required")
		}
		if targetType == appConfig.Database.Type && targetDsn == appConfig.Database.Dsn {
			return fmt.Errorf("target database equals the current one")
		}

		data, err := db.ExportDataForBackup()
		if err != nil {
			return fmt.Errorf("failed to export data: %w", err)
		}

		target, err := db.NewStoreFromDSN(targetType, targetDsn)
		if err != nil {
			return fmt.Errorf("failed to open target database: %w", err)
		}
		if err := target.ImportDataFromBackup(data); err != nil {
			return fmt.Errorf("failed to import into target database: %w", err)
		}

		fmt.Println(i18n.T("cli.migrate_done", targetType))
		return nil
	},
}

// maintenanceCmd runs engine-specific maintenance for the configured
// database.
var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
	Long:  `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.RunDBMaintenance(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return fmt.Errorf("maintenance failed: %w", err)
		}
		fmt.Println(i18n.T("cli.maintenance_done"))
		return nil
	},
}

// writeCompressedBackup streams the JSON encoding of a backup straight
// into a zstd writer, so even large histories never sit in memory twice.
func writeCompressedBackup(filename string, data *model.BackupData) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}

	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ") // pretty-print inside the compressed file

	if err := encoder.Encode(data); err != nil {
		_ = zstdWriter.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	return zstdWriter.Close()
}

// readCompressedBackup reads and decodes a zstd-compressed JSON backup.
func readCompressedBackup(filename string) (*model.BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var backupData model.BackupData
	if err := json.NewDecoder(zstdReader).Decode(&backupData); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &backupData, nil
}

// registerDataCommands wires the flags of the backup and migration
// commands.
func registerDataCommands() {
	if restoreCmd.Flags().Lookup("full") == nil {
		restoreCmd.Flags().BoolVar(&fullRestore, "full", false, "Perform a full, destructive restore (wipes all existing data first)")
	}
	if migrateCmd.Flags().Lookup("type") == nil {
		migrateCmd.Flags().String("type", "", "Target database type (sqlite, postgres, mysql)")
		migrateCmd.Flags().String("dsn", "", "Target database connection string (DSN)")
	}
}
