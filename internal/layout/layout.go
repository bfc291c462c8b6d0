// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

// Package layout models the German DE-QWERTZ keyboard: which physical
// key and finger produce a rune, and the stage progression the lesson
// factory builds drills from. Stage 1 is the home row; each later
// stage adds keys until the full layout is covered.
package layout

import (
	"strings"
	"unicode"
)

// Name is the layout identifier stored with profiles and lessons.
const Name = "de-qwertz"

// Finger identifies the finger that strikes a key in standard touch
// typing.
type Finger int

const (
	LeftPinky Finger = iota
	LeftRing
	LeftMiddle
	LeftIndex
	RightIndex
	RightMiddle
	RightRing
	RightPinky
	Thumb
)

var fingerNames = [...]string{
	LeftPinky:   "left pinky",
	LeftRing:    "left ring",
	LeftMiddle:  "left middle",
	LeftIndex:   "left index",
	RightIndex:  "right index",
	RightMiddle: "right middle",
	RightRing:   "right ring",
	RightPinky:  "right pinky",
	Thumb:       "thumb",
}

func (f Finger) String() string {
	if int(f) < len(fingerNames) {
		return fingerNames[f]
	}
	return "unknown"
}

// Key places a rune on the physical board. Row 0 is the number row,
// row 3 the bottom letter row, row 4 the space bar. Shift reports
// whether the rune needs the shift key on this layout.
type Key struct {
	Row    int
	Col    int
	Finger Finger
	Shift  bool
}

// The physical rows of the DE-QWERTZ layout, unshifted.
var rows = [...]string{
	"^1234567890ß´",
	"qwertzuiopü+",
	"asdfghjklöä#",
	"<yxcvbnm,.-",
}

// shifted maps a shifted rune to the base rune on the same key.
// Letters are handled separately via case mapping.
var shifted = map[rune]rune{
	'°':  '^',
	'!':  '1',
	'"':  '2',
	'§':  '3',
	'$':  '4',
	'%':  '5',
	'&':  '6',
	'/':  '7',
	'(':  '8',
	')':  '9',
	'=':  '0',
	'?':  'ß',
	'`':  '´',
	'*':  '+',
	'\'': '#',
	'>':  '<',
	';':  ',',
	':':  '.',
	'_':  '-',
}

// fingerFor assigns each base rune to its touch-typing finger.
var fingerFor = map[rune]Finger{}

func init() {
	assign := func(runes string, f Finger) {
		for _, r := range runes {
			fingerFor[r] = f
		}
	}
	assign("^1qay<", LeftPinky)
	assign("2wsx", LeftRing)
	assign("3edc", LeftMiddle)
	assign("45rtfgvb", LeftIndex)
	assign("67zuhjnm", RightIndex)
	assign("8ik,", RightMiddle)
	assign("9ol.", RightRing)
	assign("0ß´pü+öä#-", RightPinky)
	assign(" ", Thumb)

	for rowIdx, row := range rows {
		col := 0
		for _, r := range row {
			keyIndex[r] = Key{Row: rowIdx, Col: col, Finger: fingerFor[r]}
			col++
		}
	}
	keyIndex[' '] = Key{Row: 4, Col: 0, Finger: Thumb}
}

var keyIndex = map[rune]Key{}

// KeyFor resolves the physical key for a rune. Uppercase letters and
// shifted symbols resolve to their base key with Shift set. Runes the
// layout cannot produce report false.
func KeyFor(r rune) (Key, bool) {
	if k, ok := keyIndex[r]; ok {
		return k, true
	}
	if base, ok := shifted[r]; ok {
		k := keyIndex[base]
		k.Shift = true
		return k, true
	}
	lower := unicode.ToLower(r)
	if lower != r {
		if k, ok := keyIndex[lower]; ok {
			k.Shift = true
			return k, true
		}
	}
	return Key{}, false
}

// StageCount is the number of stages in the DE-QWERTZ course.
const StageCount = 8

// stageRunes lists the runes introduced at each stage, home row
// outward. Index 0 is unused.
var stageRunes = [StageCount + 1]string{
	1: "asdfjklö ",
	2: "gh",
	3: "eiru",
	4: "tzwo",
	5: "qpüä",
	6: "vmbn",
	7: "cxy,.",
	8: "ß-^1234567890´<+#",
}

// NewRunes returns the runes introduced at the given stage, or an
// empty string for stages outside 1..StageCount.
func NewRunes(stage int) string {
	if stage < 1 || stage > StageCount {
		return ""
	}
	return stageRunes[stage]
}

// StageRunes returns the cumulative character set available through
// the given stage. Out-of-range stages return an empty string.
func StageRunes(stage int) string {
	if stage < 1 || stage > StageCount {
		return ""
	}
	var b strings.Builder
	for s := 1; s <= stage; s++ {
		b.WriteString(stageRunes[s])
	}
	return b.String()
}

// Coverage returns the lowest stage whose character set covers every
// rune of the text, matching case-insensitively. Texts with runes the
// course never introduces report false. Newlines and tabs count as
// covered everywhere.
func Coverage(text string) (int, bool) {
	need := 0
	for _, r := range text {
		if r == '\n' || r == '\t' {
			continue
		}
		s, ok := runeStage(unicode.ToLower(r))
		if !ok {
			return 0, false
		}
		if s > need {
			need = s
		}
	}
	if need == 0 {
		need = 1
	}
	return need, true
}

func runeStage(r rune) (int, bool) {
	for s := 1; s <= StageCount; s++ {
		if strings.ContainsRune(stageRunes[s], r) {
			return s, true
		}
	}
	// Shifted symbols belong to the stage of their base key.
	if base, ok := shifted[r]; ok {
		return runeStage(base)
	}
	return 0, false
}
