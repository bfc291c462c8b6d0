// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ui groups the user-facing surfaces of Scriptum. The cli
// subpackage is the Cobra command tree; the interactive Bubble Tea
// interface lives in internal/tui and is launched through the cli.
package ui
