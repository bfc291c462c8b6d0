// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

// Package lesson builds practice lessons: random drills over a layout
// stage, custom lessons from free text, and YAML lesson packs. All
// constructors normalize the text and stamp its fingerprint so the
// store can deduplicate.
package lesson

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/scriptum/scriptum/internal/layout"
	"github.com/scriptum/scriptum/internal/model"
)

// NewDrill generates a random drill over the character set of the
// given stage. The same seed always yields the same text; a zero seed
// picks a time-based one.
func NewDrill(stage, words int, seed int64) (model.Lesson, error) {
	if stage < 1 || stage > layout.StageCount {
		return model.Lesson{}, fmt.Errorf("lesson: stage %d out of range 1..%d", stage, layout.StageCount)
	}
	if words < 1 {
		return model.Lesson{}, fmt.Errorf("lesson: drill needs at least one word, got %d", words)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	charset := []rune(strings.ReplaceAll(layout.StageRunes(stage), " ", ""))
	rng := rand.New(rand.NewSource(seed))

	parts := make([]string, words)
	for w := range parts {
		n := 3 + rng.Intn(4)
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteRune(charset[rng.Intn(len(charset))])
		}
		parts[w] = b.String()
	}
	text := strings.Join(parts, " ")

	return model.Lesson{
		Title:       fmt.Sprintf("Drill Stufe %d", stage),
		Stage:       stage,
		Layout:      layout.Name,
		Text:        text,
		Fingerprint: Fingerprint(text),
	}, nil
}

// germanWords is the dictionary for word drills, lowercase only. The
// factory filters it to the stage charset, so early stages see the
// short home-row words and later stages the full list.
var germanWords = []string{
	"das", "als", "da", "ja", "fall", "falls", "lass", "all", "fad",
	"gas", "hals", "glas", "halt", "sag", "lag", "jagd",
	"die", "der", "und", "ist", "sie", "er", "es", "auf", "aus",
	"ein", "eine", "reise", "seide", "leise", "riese", "erde",
	"raus", "haus", "aal", "idee", "rede", "leer", "heise",
	"oder", "wort", "zeit", "weit", "tor", "rot", "tier", "woge",
	"wetter", "sorte", "leute", "treue", "otter", "tage", "orte",
	"april", "papier", "quelle", "lüge", "tür", "grün", "später",
	"äpfel", "früh", "über", "würde", "hätte", "wäre", "küste",
	"mut", "baum", "name", "nebel", "vogel", "blume", "morgen",
	"nummer", "niemand", "brot", "leben", "geben", "nehmen",
	"machen", "wissen", "essen", "trinken", "wasser", "sommer",
	"winter", "abend", "woche", "monat", "minute", "stunde",
	"computer", "mensch", "wichtig", "wenig", "zwischen", "immer",
	"nacht", "licht", "recht", "acht", "auch", "noch", "doch",
	"straße", "groß", "weiß", "fuß", "spaß", "maß", "heißen",
	"schließen", "draußen", "grüße",
}

// NewWords generates a drill of real German words typeable within the
// given stage. The same seed always yields the same text; stages whose
// charset covers no dictionary word fall back to a synthetic drill.
func NewWords(stage, words int, seed int64) (model.Lesson, error) {
	if stage < 1 || stage > layout.StageCount {
		return model.Lesson{}, fmt.Errorf("lesson: stage %d out of range 1..%d", stage, layout.StageCount)
	}
	if words < 1 {
		return model.Lesson{}, fmt.Errorf("lesson: drill needs at least one word, got %d", words)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	allowed := layout.StageRunes(stage)
	var pool []string
	for _, w := range germanWords {
		inStage := true
		for _, r := range w {
			if !strings.ContainsRune(allowed, r) {
				inStage = false
				break
			}
		}
		if inStage {
			pool = append(pool, w)
		}
	}
	if len(pool) == 0 {
		return NewDrill(stage, words, seed)
	}

	rng := rand.New(rand.NewSource(seed))
	parts := make([]string, words)
	for w := range parts {
		parts[w] = pool[rng.Intn(len(pool))]
	}
	text := strings.Join(parts, " ")

	return model.Lesson{
		Title:       fmt.Sprintf("Wörter Stufe %d", stage),
		Stage:       stage,
		Layout:      layout.Name,
		Text:        text,
		Fingerprint: Fingerprint(text),
	}, nil
}

// FromText builds a custom lesson from free text. The stage is derived
// from the highest-stage rune the text uses; text the layout cannot
// produce is rejected.
func FromText(title, text string) (model.Lesson, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Lesson{}, fmt.Errorf("lesson: title must not be empty")
	}
	text = Normalize(text)
	if text == "" {
		return model.Lesson{}, fmt.Errorf("lesson: text must not be empty")
	}
	stage, ok := layout.Coverage(text)
	if !ok {
		return model.Lesson{}, fmt.Errorf("lesson: %q contains runes outside the %s layout", title, layout.Name)
	}
	return model.Lesson{
		Title:       title,
		Stage:       stage,
		Layout:      layout.Name,
		Text:        text,
		Fingerprint: Fingerprint(text),
	}, nil
}
