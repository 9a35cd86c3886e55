// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks for missing or orphaned translation keys. It scans the
// Go sources for i18n.T() calls and compares them against the YAML locale
// files so every locale carries every message the CLI can print.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Location stores the file and line number of a found string.
type Location struct {
	Filepath string
	Line     int
}

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

var (
	// i18n.T("some.key")
	callKeyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	// A bare "some.key" literal, e.g. a prompt id handed to a helper. It may
	// name a key but may as well be a config key, so it only counts against
	// orphans.
	mentionRe = regexp.MustCompile(`"([a-z]+\.[a-z._]+)"`)
	// i18n.T("error." + kind) marks every key under the prefix as used.
	dynamicKeyRe = regexp.MustCompile(`i18n\.T\("([a-z_]+\.)"\s*\+`)
)

// usage is what the sources reference.
type usage struct {
	calls    map[string]struct{}
	mentions map[string]struct{}
	prefixes map[string]struct{}
}

func main() {
	os.Exit(run(projectRoot, os.Stdout))
}

// run lints the tree at root and returns the process exit code. Missing keys
// fail the run; orphaned keys and untranslated literals only warn.
func run(root string, out io.Writer) int {
	fmt.Fprintln(out, "Running i18n linter...")

	used, err := findUsedKeys(root)
	if err != nil {
		fmt.Fprintf(out, "Error finding used keys: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Found %d unique translation keys used in source code.\n", len(used.calls))

	dir := filepath.Join(root, localesDir)
	localeFiles, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		fmt.Fprintf(out, "Error finding locale files: %v\n", err)
		return 1
	}

	primaryKeys, err := loadKeysFromLocale(filepath.Join(dir, primaryLocale))
	if err != nil {
		fmt.Fprintf(out, "Error loading primary locale '%s': %v\n", primaryLocale, err)
		return 1
	}
	fmt.Fprintf(out, "Loaded %d keys from primary locale (%s).\n\n", len(primaryKeys), primaryLocale)

	untranslated, err := findUntranslatedStrings(root, primaryKeys)
	if err != nil {
		fmt.Fprintf(out, "Error finding untranslated strings: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, "--- Keys used in code but absent from the primary locale ---")
	missing := difference(used.calls, primaryKeys)
	for _, key := range missing {
		fmt.Fprintf(out, "  - Missing: %s\n", key)
	}
	if len(missing) == 0 {
		fmt.Fprintln(out, "  None found.")
	}
	hasMissingKeys := len(missing) > 0
	fmt.Fprintln(out)

	fmt.Fprintln(out, "--- Orphaned keys (in primary locale but not used in code) ---")
	var orphaned []string
	for _, key := range difference(primaryKeys, used.calls) {
		if _, mentioned := used.mentions[key]; !mentioned && !hasPrefix(key, used.prefixes) {
			orphaned = append(orphaned, key)
		}
	}
	for _, key := range orphaned {
		fmt.Fprintf(out, "  - Orphaned: %s\n", key)
	}
	if len(orphaned) == 0 {
		fmt.Fprintln(out, "  None found.")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "--- Keys missing from secondary locales ---")
	for _, file := range localeFiles {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		fmt.Fprintf(out, "Checking %s:\n", filepath.Base(file))
		secondaryKeys, err := loadKeysFromLocale(file)
		if err != nil {
			fmt.Fprintf(out, "  - Error loading %s: %v\n", file, err)
			hasMissingKeys = true
			continue
		}
		gaps := difference(primaryKeys, secondaryKeys)
		for _, key := range gaps {
			fmt.Fprintf(out, "  - Missing: %s\n", key)
		}
		if len(gaps) == 0 {
			fmt.Fprintln(out, "  All keys present.")
		}
		hasMissingKeys = hasMissingKeys || len(gaps) > 0
	}

	fmt.Fprintln(out, "\n--- Potentially untranslated strings ---")
	if len(untranslated) == 0 {
		fmt.Fprintln(out, "  None found.")
	}
	literals := make([]string, 0, len(untranslated))
	for literal := range untranslated {
		literals = append(literals, literal)
	}
	sort.Strings(literals)
	for _, literal := range literals {
		loc := untranslated[literal][0]
		fmt.Fprintf(out, "  - Potential: %q (found in %s:%d)\n", literal, loc.Filepath, loc.Line)
	}

	fmt.Fprintln(out, "\n--- Linter finished ---")
	switch {
	case hasMissingKeys:
		fmt.Fprintln(out, "Found issues that need to be addressed.")
		return 1
	case len(orphaned) > 0:
		fmt.Fprintln(out, "Found orphaned keys. Please consider removing them.")
	default:
		fmt.Fprintln(out, "All translation files are consistent!")
	}
	return 0
}

// difference returns the sorted keys of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for key := range a {
		if _, ok := b[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func hasPrefix(key string, prefixes map[string]struct{}) bool {
	for p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// walkSources calls fn for every non-test Go file under root, skipping the
// tools directory and directories starting with "_" or ".".
func walkSources(root string, fn func(path string, content []byte) error) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
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

// findUsedKeys collects the translation keys referenced by the sources.
func findUsedKeys(root string) (usage, error) {
	u := usage{
		calls:    make(map[string]struct{}),
		mentions: make(map[string]struct{}),
		prefixes: make(map[string]struct{}),
	}
	err := walkSources(root, func(_ string, content []byte) error {
		text := string(content)
		for _, match := range dynamicKeyRe.FindAllStringSubmatch(text, -1) {
			u.prefixes[match[1]] = struct{}{}
		}
		for _, match := range callKeyRe.FindAllStringSubmatch(text, -1) {
			if _, isPrefix := u.prefixes[match[1]]; !isPrefix {
				u.calls[match[1]] = struct{}{}
			}
		}
		for _, match := range mentionRe.FindAllStringSubmatch(text, -1) {
			u.mentions[match[1]] = struct{}{}
		}
		return nil
	})
	// A prefix literal such as "error." is not a key itself.
	for p := range u.prefixes {
		delete(u.calls, p)
	}
	return u, err
}

// findUntranslatedStrings scans for hardcoded strings that might need translation.
func findUntranslatedStrings(root string, allKeys map[string]struct{}) (map[string][]Location, error) {
	untranslated := make(map[string][]Location)
	// String literals passed to functions that are likely to produce user-facing output.
	re := regexp.MustCompile(`([a-zA-Z0-9_]+\.)?([a-zA-Z0-9_]+)\("([^"]+)"`)
	ignoredFuncs := map[string]struct{}{
		"Print": {}, "Println": {}, "Printf": {}, "Fprint": {}, "Fprintln": {}, "Fprintf": {},
		"Errorf": {}, "Debugf": {}, "Infof": {}, "Warnf": {}, "New": {},
		"Fatal": {}, "Fatalf": {}, "WriteString": {},
		"Bool": {}, "BoolP": {}, "String": {}, "StringP": {}, "Lookup": {}, "GetString": {}, "GetBool": {},
	}
	keyRe := regexp.MustCompile(`^[a-z_]+\.[a-z._]+$`)
	reAllCaps := regexp.MustCompile(`^[A-Z_]+$`)
	reFormatString := regexp.MustCompile(`^[\s%.,:;()#\d\w-]*%[\s\w-]*$`)

	err := walkSources(root, func(path string, content []byte) error {
		for i, line := range strings.Split(string(content), "\n") {
			for _, match := range re.FindAllStringSubmatch(line, -1) {
				funcName, literal := match[2], match[3]
				if _, ignored := ignoredFuncs[funcName]; ignored {
					continue
				}
				if _, exists := allKeys[literal]; exists || keyRe.MatchString(literal) {
					continue
				}
				if len(literal) < 4 || strings.HasPrefix(literal, "file:") || strings.HasPrefix(literal, "http") {
					continue
				}
				if isSQL(literal) || strings.HasPrefix(literal, "2006-") || reAllCaps.MatchString(literal) {
					continue
				}
				if reFormatString.MatchString(literal) && !strings.Contains(literal, " ") {
					continue
				}
				untranslated[literal] = append(untranslated[literal], Location{Filepath: path, Line: i + 1})
			}
		}
		return nil
	})
	return untranslated, err
}

func isSQL(literal string) bool {
	upper := strings.ToUpper(literal)
	for _, keyword := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE ", "CONFLICT ", "ID = "} {
		if strings.HasPrefix(upper, keyword) {
			return true
		}
	}
	return false
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into a flat map with dot-separated keys.
// Flat locale files already use dotted keys and pass through unchanged.
func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]any:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	case []any:
		for i, val := range v {
			flattenYAML(fmt.Sprintf("%s[%d]", prefix, i), val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
