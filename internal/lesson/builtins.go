// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package lesson

import (
	_ "embed"
	"fmt"

	"github.com/scriptum/scriptum/internal/model"
)

//go:embed packs/builtin.yaml
var builtinPack []byte

// Builtins returns the embedded course lessons, marked as built in.
// The store seeds these on first start and re-adds any that are
// missing after an upgrade.
func Builtins() ([]model.Lesson, error) {
	lessons, err := ParsePack(builtinPack)
	if err != nil {
		return nil, fmt.Errorf("lesson: builtin pack: %w", err)
	}
	for i := range lessons {
		lessons[i].Builtin = true
	}
	return lessons, nil
}
