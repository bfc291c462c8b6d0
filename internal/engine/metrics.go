// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package engine

import "time"

// The WPM family uses the conventional five-runes-per-word measure, so
// results are comparable with other typing tutors.
const runesPerWord = 5.0

// Accuracy returns the hit ratio of a pass, 0..1. A pass with no
// keystrokes counts as fully accurate.
func Accuracy(correct, typed int) float64 {
	if typed <= 0 {
		return 1
	}
	return float64(correct) / float64(typed)
}

// CPM returns characters per minute over the given duration.
func CPM(typed int, d time.Duration) float64 {
	min := d.Minutes()
	if min <= 0 {
		return 0
	}
	return float64(typed) / min
}

// GrossWPM returns words per minute counting every keystroke, right or
// wrong.
func GrossWPM(typed int, d time.Duration) float64 {
	return CPM(typed, d) / runesPerWord
}

// NetWPM returns words per minute after subtracting one word per error
// per elapsed minute, floored at zero.
func NetWPM(typed, errors int, d time.Duration) float64 {
	min := d.Minutes()
	if min <= 0 {
		return 0
	}
	net := GrossWPM(typed, d) - float64(errors)/min
	if net < 0 {
		return 0
	}
	return net
}
