// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter cross-checks the Go sources against the YAML locale
// files: every key used in code must exist in every locale, every key
// in the primary locale must be used somewhere, and user-facing string
// literals that bypass i18n.T get flagged.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// Location points at a string literal in the scanned sources.
type Location struct {
	Filepath string
	Line     int
}

func main() {
	fmt.Println("🔍 Running i18n linter...")

	usedKeys, err := findUsedKeys(projectRoot)
	if err != nil {
		fail("scanning sources: %v", err)
	}
	fmt.Printf("✅ Found %d unique translation keys used in source code.\n", len(usedKeys))

	localeFiles, err := filepath.Glob(filepath.Join(localesDir, "*.yaml"))
	if err != nil {
		fail("listing locales: %v", err)
	}
	primaryKeys, err := loadKeysFromLocale(filepath.Join(localesDir, primaryLocale))
	if err != nil {
		fail("loading primary locale %s: %v", primaryLocale, err)
	}
	fmt.Printf("✅ Loaded %d keys from primary locale (%s).\n\n", len(primaryKeys), primaryLocale)

	orphaned := reportOrphanedKeys(primaryKeys, usedKeys)
	missing := reportMissingKeys(localeFiles, primaryKeys)
	reportUntranslated(projectRoot, usedKeys, primaryKeys)

	fmt.Println("\n--- Linter Finished ---")
	switch {
	case missing:
		fmt.Println("❌ Found issues that need to be addressed.")
		os.Exit(1)
	case orphaned:
		fmt.Println("⚠️  Found orphaned keys. Please consider removing them.")
	default:
		fmt.Println("✅ All translation files are consistent!")
	}
}

func fail(format string, args ...interface{}) {
	fmt.Printf("❌ "+format+"\n", args...)
	os.Exit(1)
}

// reportOrphanedKeys lists primary-locale keys no source file refers to.
func reportOrphanedKeys(primaryKeys, usedKeys map[string]struct{}) bool {
	fmt.Println("--- Checking for Orphaned Keys (in primary locale but not used in code) ---")
	var orphans []string
	for key := range primaryKeys {
		if _, ok := usedKeys[key]; !ok {
			orphans = append(orphans, key)
		}
	}
	sort.Strings(orphans)
	for _, key := range orphans {
		fmt.Printf("  - Orphaned: %s\n", key)
	}
	if len(orphans) == 0 {
		fmt.Println("  ✨ None found.")
	}
	fmt.Println()
	return len(orphans) > 0
}

// reportMissingKeys compares every secondary locale against the primary
// key set.
func reportMissingKeys(localeFiles []string, primaryKeys map[string]struct{}) bool {
	fmt.Println("--- Checking for Missing Keys (in primary locale but not in others) ---")
	anyMissing := false
	for _, file := range localeFiles {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		fmt.Printf("Checking %s:\n", file)
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			fmt.Printf("  - ❌ Error loading %s: %v\n", file, err)
			anyMissing = true
			continue
		}

		var missing []string
		for key := range primaryKeys {
			if _, ok := keys[key]; !ok {
				missing = append(missing, key)
			}
		}
		sort.Strings(missing)
		for _, key := range missing {
			fmt.Printf("  - Missing: %s\n", key)
			anyMissing = true
		}
		if len(missing) == 0 {
			fmt.Println("  ✨ All keys present.")
		}
	}
	return anyMissing
}

// reportUntranslated prints suspect literals. These are warnings only;
// the heuristics are too loose to gate the build on.
func reportUntranslated(root string, usedKeys, primaryKeys map[string]struct{}) {
	fmt.Println("\n--- Checking for Potentially Untranslated Strings ---")
	found, err := findUntranslatedStrings(root, usedKeys, primaryKeys)
	if err != nil {
		fail("scanning for untranslated strings: %v", err)
	}
	if len(found) == 0 {
		fmt.Println("  ✨ None found.")
		return
	}
	var literals []string
	for lit := range found {
		literals = append(literals, lit)
	}
	sort.Strings(literals)
	for _, lit := range literals {
		loc := found[lit][0]
		fmt.Printf("  - Potential: \"%s\" (found in %s:%d)\n", lit, loc.Filepath, loc.Line)
	}
}

// walkGoSources calls fn for every non-test .go file under root,
// skipping tools/ and underscore-prefixed trees the toolchain ignores.
func walkGoSources(root string, fn func(path string, content []byte) error) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "tools" || strings.HasPrefix(info.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return fn(path, content)
	})
}

// usedKeyRe matches i18n.T("some.key") calls and bare string literals
// shaped like dotted translation keys (key lists in slices, tables).
var usedKeyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"|\"([a-z]+\.[a-z\._]+)\"`)

// findUsedKeys collects every translation key the sources refer to.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	err := walkGoSources(root, func(path string, content []byte) error {
		for _, m := range usedKeyRe.FindAllStringSubmatch(string(content), -1) {
			switch {
			case m[1] != "":
				keys[m[1]] = struct{}{}
			case m[2] != "":
				keys[m[2]] = struct{}{}
			}
		}
		return nil
	})
	return keys, err
}

var (
	callLiteralRe = regexp.MustCompile(`([a-zA-Z0-9_]+\.)?([a-zA-Z0-9_]+)\("([^"]+)"`)
	dottedKeyRe   = regexp.MustCompile(`^[a-z_]+\.[a-z\._]+$`)
	allCapsRe     = regexp.MustCompile(`^[A-Z_]+$`)
	formatOnlyRe  = regexp.MustCompile(`^[\s%.,:;()#\d\w-]*%[\s\w-]*$`)
)

// passthroughFuncs write already-final output and never need i18n.
var passthroughFuncs = map[string]struct{}{
	"Print": {}, "Println": {}, "Printf": {},
	"Fatal": {}, "Fatalf": {}, "WriteString": {},
}

// skipLiteral filters out literals that are code artifacts rather than
// user-facing prose.
func skipLiteral(lit string, primaryKeys map[string]struct{}) bool {
	if _, ok := primaryKeys[lit]; ok {
		return true
	}
	if dottedKeyRe.MatchString(lit) {
		return true
	}
	if len(lit) < 4 {
		return true
	}
	if strings.HasPrefix(lit, "file:") || strings.HasPrefix(lit, "http") {
		return true
	}
	upper := strings.ToUpper(lit)
	for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "TRUNCATE ", "PRAGMA ", "CREATE ", "ALTER ", "DROP "} {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	// Go reference-time layouts and activity-log action constants.
	if strings.HasPrefix(lit, "2006-") {
		return true
	}
	if allCapsRe.MatchString(lit) {
		return true
	}
	if formatOnlyRe.MatchString(lit) && !strings.Contains(lit, " ") {
		return true
	}
	return false
}

// findUntranslatedStrings flags string literals passed to functions
// that likely reach the user without going through i18n.T.
func findUntranslatedStrings(root string, usedKeys, primaryKeys map[string]struct{}) (map[string][]Location, error) {
	found := make(map[string][]Location)
	err := walkGoSources(root, func(path string, content []byte) error {
		for i, line := range strings.Split(string(content), "\n") {
			for _, m := range callLiteralRe.FindAllStringSubmatch(line, -1) {
				if len(m) < 4 {
					continue
				}
				funcName, lit := m[2], m[3]
				if _, ok := passthroughFuncs[funcName]; ok {
					continue
				}
				if skipLiteral(lit, primaryKeys) {
					continue
				}
				found[lit] = append(found[lit], Location{Filepath: path, Line: i + 1})
			}
		}
		return nil
	})
	return found, err
}

// loadKeysFromLocale reads one locale file and returns its keys as a
// flat dot-separated set.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML walks a decoded YAML tree and records the dotted path of
// every leaf.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			flattenYAML(p, val, keys)
		}
	case []interface{}:
		for i, val := range v {
			flattenYAML(fmt.Sprintf("%s[%d]", prefix, i), val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
