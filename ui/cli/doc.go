// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli implements the Scriptum command-line interface.
//
// The root command launches the interactive TUI when it runs on a
// terminal; subcommands cover scripted use: lesson and profile
// management, training reports, backups and database migration.
package cli
