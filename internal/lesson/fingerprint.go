// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package lesson

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize brings lesson text into canonical form: CRLF and CR become
// LF, trailing whitespace is stripped per line, and leading/trailing
// blank space is trimmed. Interior newlines survive.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Fingerprint returns the hex SHA-256 of the normalized text. Two
// lessons that differ only in line endings or trailing whitespace
// share a fingerprint, which is what the unique index in the store
// keys on.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}
