// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package lesson

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/scriptum/scriptum/internal/layout"
	"github.com/scriptum/scriptum/internal/model"
)

// packVersion is the only lesson pack format this build understands.
const packVersion = 1

type packFile struct {
	Version int         `yaml:"version"`
	Lessons []packEntry `yaml:"lessons"`
}

type packEntry struct {
	Title string `yaml:"title"`
	Stage int    `yaml:"stage"`
	Text  string `yaml:"text"`
}

// EncodePack renders lessons as a version-1 YAML pack suitable for
// ParsePack. Only title, stage and text travel; ids, fingerprints and
// flags are recomputed on import.
func EncodePack(lessons []model.Lesson) ([]byte, error) {
	if len(lessons) == 0 {
		return nil, fmt.Errorf("lesson: nothing to export")
	}
	pf := packFile{Version: packVersion, Lessons: make([]packEntry, 0, len(lessons))}
	for _, l := range lessons {
		pf.Lessons = append(pf.Lessons, packEntry{Title: l.Title, Stage: l.Stage, Text: l.Text})
	}
	data, err := yaml.Marshal(pf)
	if err != nil {
		return nil, fmt.Errorf("lesson: encoding pack: %w", err)
	}
	return data, nil
}

// ParsePack reads a YAML lesson pack and returns its lessons in file
// order. Entries without an explicit stage get one derived from their
// text. The pack is rejected as a whole if any entry is invalid, so an
// import never half-succeeds.
func ParsePack(data []byte) ([]model.Lesson, error) {
	var pf packFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("lesson: parsing pack: %w", err)
	}
	if pf.Version != packVersion {
		return nil, fmt.Errorf("lesson: unsupported pack version %d (want %d)", pf.Version, packVersion)
	}
	if len(pf.Lessons) == 0 {
		return nil, fmt.Errorf("lesson: pack contains no lessons")
	}

	out := make([]model.Lesson, 0, len(pf.Lessons))
	for i, e := range pf.Lessons {
		l, err := FromText(e.Title, e.Text)
		if err != nil {
			return nil, fmt.Errorf("lesson: pack entry %d: %w", i+1, err)
		}
		if e.Stage != 0 {
			if e.Stage < l.Stage {
				return nil, fmt.Errorf("lesson: pack entry %d (%s): declared stage %d below required stage %d", i+1, e.Title, e.Stage, l.Stage)
			}
			if e.Stage > layout.StageCount {
				return nil, fmt.Errorf("lesson: pack entry %d (%s): stage %d out of range", i+1, e.Title, e.Stage)
			}
			l.Stage = e.Stage
		}
		out = append(out, l)
	}
	return out, nil
}
