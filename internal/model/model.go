// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures for Scriptum: practice
// profiles, lessons, recorded training sessions and per-key statistics.
package model // import "github.com/scriptum/scriptum/internal/model"

import (
	"fmt"
	"time"
)

// Profile represents a named local user of the tutor. All sessions and key
// statistics hang off a profile. Exactly one profile is active at a time.
type Profile struct {
	ID        int
	Name      string
	Layout    string // keyboard layout the profile trains on, e.g. "de-qwertz"
	Active    bool
	CreatedAt time.Time
}

// String returns the display representation of a profile.
func (p Profile) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Layout)
}

// Lesson is a practice text. Stage 0 means free text; stages >= 1 are the
// drill ladder positions of the layout the lesson was generated for.
type Lesson struct {
	ID          int
	Title       string
	Stage       int
	Layout      string
	Text        string
	Fingerprint string // content hash used to de-duplicate imports
	Builtin     bool
	Archived    bool
	CreatedAt   time.Time
}

// RuneCount returns the length of the lesson text in runes, which is the
// number of keystrokes a perfect pass needs.
func (l Lesson) RuneCount() int {
	return len([]rune(l.Text))
}

// TrainingSession is one recorded pass over a lesson.
type TrainingSession struct {
	ID        int
	ProfileID int
	LessonID  int
	StartedAt time.Time
	Duration  time.Duration
	Typed     int
	Correct   int
	Errors    int
	Accuracy  float64 // 0..1
	WPM       float64 // net words per minute
	CaseMode  string  // "strict" or "fold"
	Completed bool
}

// KeyStat is the per-profile hit/miss tally for a single key. The key is
// stored as a string so multi-byte runes (ä, ö, ü, ß) survive every backend.
type KeyStat struct {
	ProfileID int
	Key       string
	Hits      int
	Misses    int
}

// MissRate returns the fraction of strokes on this key that were misses.
func (k KeyStat) MissRate() float64 {
	total := k.Hits + k.Misses
	if total == 0 {
		return 0
	}
	return float64(k.Misses) / float64(total)
}

// ActivityLogEntry records a data-changing operation for the activity log.
type ActivityLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}
