// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var logKeyPattern = regexp.MustCompile(`^#?\s*(logLevel|logPath|logMaxSize|logMaxBackups)\s*=`)

// PersistLogSettings rewrites the log settings of the TOML file at path
// in place, preserving every other line and comment, via
// updateLogSettingsInTOML, so a later Load picks up the new values without
// the file being edited by hand. No CLI command calls it.
func PersistLogSettings(path, logLevel, logPath string, maxSize, maxBackups int) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}

	updated := updateLogSettingsInTOML(string(raw), logLevel, logPath, maxSize, maxBackups)

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}

// updateLogSettingsInTOML rewrites logLevel/logPath/logMaxSize/logMaxBackups
// in content to the given values, uncommenting and updating them in place
// wherever the auto-generated config template already mentions them. Keys
// the template doesn't mention are appended just before the first table
// header, so first-run edits never land inside an unrelated section.
func updateLogSettingsInTOML(content, logLevel, logPath string, maxSize, maxBackups int) string {
	want := map[string]string{
		"logLevel":      fmt.Sprintf("logLevel = %q", logLevel),
		"logPath":       fmt.Sprintf("logPath = %q", logPath),
		"logMaxSize":    fmt.Sprintf("logMaxSize = %d", maxSize),
		"logMaxBackups": fmt.Sprintf("logMaxBackups = %d", maxBackups),
	}
	seen := map[string]bool{}

	var out []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if m := logKeyPattern.FindStringSubmatch(line); m != nil {
			out = append(out, want[m[1]])
			seen[m[1]] = true
			continue
		}
		out = append(out, line)
	}

	missing := missingKeys(want, seen)
	if len(missing) > 0 {
		out = insertBeforeFirstTable(out, missing)
	}

	return strings.Join(out, "\n")
}

func missingKeys(want map[string]string, seen map[string]bool) []string {
	// Fixed order keeps output deterministic across runs.
	order := []string{"logLevel", "logPath", "logMaxSize", "logMaxBackups"}
	var missing []string
	for _, k := range order {
		if !seen[k] {
			missing = append(missing, want[k])
		}
	}
	return missing
}

func insertBeforeFirstTable(lines, insert []string) []string {
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "[") {
			out := make([]string, 0, len(lines)+len(insert))
			out = append(out, lines[:i]...)
			out = append(out, insert...)
			out = append(out, lines[i:]...)
			return out
		}
	}
	return append(lines, insert...)
}
