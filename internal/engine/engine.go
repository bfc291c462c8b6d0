// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

// Package engine implements the typing pass over a lesson text. Each
// keystroke is compared against the target rune at the current
// position; matches and misses both advance, there is no backspace,
// and a pass completes when the last rune has been struck. The engine
// is driven from a single goroutine and is not safe for concurrent
// use.
package engine

import (
	"errors"
	"fmt"
	"time"
	"unicode"
)

// ErrEmptyTarget is returned by New when the lesson text contains no
// runes to type.
var ErrEmptyTarget = errors.New("engine: empty target text")

// CaseMode controls how typed runes are matched against the target.
type CaseMode int

const (
	// CaseStrict requires an exact rune match, including case.
	CaseStrict CaseMode = iota
	// CaseFold matches case-insensitively, so 'a' satisfies 'A'.
	CaseFold
)

// String returns the configuration spelling of the mode.
func (m CaseMode) String() string {
	switch m {
	case CaseStrict:
		return "strict"
	case CaseFold:
		return "fold"
	default:
		return fmt.Sprintf("CaseMode(%d)", int(m))
	}
}

// ParseCaseMode converts a configuration value into a CaseMode.
func ParseCaseMode(s string) (CaseMode, error) {
	switch s {
	case "strict", "":
		return CaseStrict, nil
	case "fold":
		return CaseFold, nil
	default:
		return CaseStrict, fmt.Errorf("engine: unknown case mode %q", s)
	}
}

// KeyResult classifies the outcome of a single keystroke.
type KeyResult int

const (
	// KeyHit means the typed rune matched the expected rune.
	KeyHit KeyResult = iota
	// KeyMiss means the typed rune did not match; the position still
	// advanced.
	KeyMiss
	// KeyDone is returned for the keystroke that completes the pass.
	KeyDone
	// KeyIgnored means the keystroke was not counted at all, either
	// because the pass is already complete or the rune is a control
	// character the lesson cannot contain.
	KeyIgnored
)

func (r KeyResult) String() string {
	switch r {
	case KeyHit:
		return "hit"
	case KeyMiss:
		return "miss"
	case KeyDone:
		return "done"
	case KeyIgnored:
		return "ignored"
	default:
		return fmt.Sprintf("KeyResult(%d)", int(r))
	}
}

// Summary captures the final counters of a completed pass. It is
// handed to the completion callback exactly once per pass.
type Summary struct {
	Typed    int
	Correct  int
	Errors   int
	Duration time.Duration
}

// Engine tracks one typing pass over a fixed target text.
type Engine struct {
	target     []rune
	mode       CaseMode
	pos        int
	correct    int
	errors     int
	missed     []bool
	started    bool
	completed  bool
	startedAt  time.Time
	finishedAt time.Time
	onComplete func(Summary)
}

// New creates an engine for the given target text. The text is matched
// rune by rune, so umlauts and ß count as single positions.
func New(target string, mode CaseMode) (*Engine, error) {
	runes := []rune(target)
	if len(runes) == 0 {
		return nil, ErrEmptyTarget
	}
	return &Engine{
		target: runes,
		mode:   mode,
		missed: make([]bool, len(runes)),
	}, nil
}

// OnComplete registers the callback fired when a pass completes. It
// fires exactly once per pass; Reset arms it again.
func (e *Engine) OnComplete(fn func(Summary)) {
	e.onComplete = fn
}

// Strike feeds one typed rune into the pass and reports the outcome.
// Both hits and misses advance the position; the stroke that reaches
// the end of the target returns KeyDone and fires the completion
// callback. Strokes after completion and control runes other than
// '\n' and '\t' are ignored.
func (e *Engine) Strike(r rune) KeyResult {
	if e.completed {
		return KeyIgnored
	}
	if unicode.IsControl(r) && r != '\n' && r != '\t' {
		return KeyIgnored
	}

	if !e.started {
		e.started = true
		e.startedAt = defaultClock.Now()
	}

	expected := e.target[e.pos]
	hit := r == expected
	if !hit && e.mode == CaseFold {
		hit = unicode.ToLower(r) == unicode.ToLower(expected)
	}

	if hit {
		e.correct++
	} else {
		e.errors++
		e.missed[e.pos] = true
	}
	e.pos++

	if e.pos == len(e.target) {
		e.completed = true
		e.finishedAt = defaultClock.Now()
		if e.onComplete != nil {
			e.onComplete(e.Summary())
		}
		return KeyDone
	}
	if hit {
		return KeyHit
	}
	return KeyMiss
}

// Reset starts a fresh pass over the same target. All counters and the
// completion state are cleared, so the callback can fire again.
func (e *Engine) Reset() {
	e.pos = 0
	e.correct = 0
	e.errors = 0
	e.missed = make([]bool, len(e.target))
	e.started = false
	e.completed = false
	e.startedAt = time.Time{}
	e.finishedAt = time.Time{}
}

// Summary returns the counters of the pass so far. After completion it
// matches the value passed to the OnComplete callback.
func (e *Engine) Summary() Summary {
	return Summary{
		Typed:    e.pos,
		Correct:  e.correct,
		Errors:   e.errors,
		Duration: e.Elapsed(),
	}
}

// Pos returns the index of the next expected rune. Pos == Len after
// completion.
func (e *Engine) Pos() int { return e.pos }

// Len returns the number of runes in the target text.
func (e *Engine) Len() int { return len(e.target) }

// Correct returns the number of matching keystrokes so far.
func (e *Engine) Correct() int { return e.correct }

// Errors returns the number of mismatched keystrokes so far.
func (e *Engine) Errors() int { return e.errors }

// Completed reports whether the pass has reached the end of the target.
func (e *Engine) Completed() bool { return e.completed }

// Started reports whether a counted keystroke has occurred this pass.
func (e *Engine) Started() bool { return e.started }

// Target returns the full target text.
func (e *Engine) Target() string { return string(e.target) }

// RuneAt returns the target rune at index i.
func (e *Engine) RuneAt(i int) rune { return e.target[i] }

// Missed reports whether the rune at index i was struck incorrectly
// this pass. Positions not yet reached report false.
func (e *Engine) Missed(i int) bool { return e.missed[i] }

// MissPositions returns the indexes struck incorrectly this pass, in
// ascending order.
func (e *Engine) MissPositions() []int {
	var out []int
	for i, m := range e.missed {
		if m {
			out = append(out, i)
		}
	}
	return out
}

// Expected returns the rune the pass is waiting for, or false after
// completion.
func (e *Engine) Expected() (rune, bool) {
	if e.completed {
		return 0, false
	}
	return e.target[e.pos], true
}

// Elapsed returns the time spent typing this pass: zero before the
// first keystroke, frozen at the final keystroke after completion.
func (e *Engine) Elapsed() time.Duration {
	if !e.started {
		return 0
	}
	if e.completed {
		return e.finishedAt.Sub(e.startedAt)
	}
	return defaultClock.Now().Sub(e.startedAt)
}
