// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/scriptum/scriptum/internal/i18n"
)

// FilterI18nKeys holds the translation keys for filter status messages.
type FilterI18nKeys struct {
	Filtering    string // e.g., "lessons.filtering"
	FilterActive string // e.g., "lessons.filter_active"
	FilterHint   string // e.g., "lessons.filter_hint"
}

// getFilterStatusLine generates the standard filter status string for footers.
// It takes the filtering state, the filter text, a struct of i18n keys,
// and optional arguments for the format strings (like a column name).
func getFilterStatusLine(isFiltering bool, filterText string, keys FilterI18nKeys, formatArgs ...interface{}) string {
	allArgs := append(formatArgs, filterText)
	if isFiltering {
		return i18n.T(keys.Filtering, allArgs...)
	}
	if filterText != "" {
		return i18n.T(keys.FilterActive, allArgs...)
	}
	return i18n.T(keys.FilterHint)
}

// AlignFooter returns a single-line string where `right` is right-aligned
// within `width` columns and `left` is at the start. If width is too small
// a single space separates the tokens.
func AlignFooter(left, right string, width int) string {
	leftLen := utf8.RuneCountInString(left)
	rightLen := utf8.RuneCountInString(right)
	spaces := width - leftLen - rightLen
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

// formatDuration renders a practice duration compactly: "4m 32s" for
// anything under an hour, "1h 12m" above.
func formatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %02dm", secs/3600, (secs%3600)/60)
	}
}
