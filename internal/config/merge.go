package config

import (
	"fmt"
	"strconv"
	"strings"

	// toml is used for syntax validation only; the actual merge uses
	// line-based editing so user comments and formatting survive.
	toml "github.com/pelletier/go-toml"

	"github.com/harborworks/shipshape/internal/messages"
)

// MergeMountEntries returns the config content with the given specs merged
// into [mounts].entries. Existing lines, comments, and formatting outside the
// entries array are preserved. Specs whose (server, remote path) identity is
// already declared are dropped rather than duplicated. The number of records
// actually added is returned alongside the merged content.
func MergeMountEntries(content string, specs []MountSpec) (string, int, error) {
	if strings.TrimSpace(content) != "" {
		if _, err := toml.LoadBytes([]byte(content)); err != nil {
			return "", 0, fmt.Errorf(messages.ConfigMergeParseFailedFmt, err)
		}
	}

	cfg, err := ParseLenient([]byte(content), "config")
	if err != nil {
		return "", 0, err
	}
	existing := make(map[string]struct{}, len(cfg.Mounts.Entries))
	for _, record := range cfg.Mounts.Entries {
		if spec, err := ParseMountRecord(record); err == nil {
			existing[spec.Identity()] = struct{}{}
		}
	}

	var added []string
	for _, spec := range specs {
		if _, dup := existing[spec.Identity()]; dup {
			continue
		}
		existing[spec.Identity()] = struct{}{}
		added = append(added, spec.Record())
	}
	if len(added) == 0 {
		return content, 0, nil
	}

	records := append(append([]string{}, cfg.Mounts.Entries...), added...)
	merged := replaceEntriesArray(content, records)

	if _, err := toml.LoadBytes([]byte(merged)); err != nil {
		return "", 0, fmt.Errorf(messages.ConfigMergedInvalidFmt, err)
	}
	if _, err := ParseLenient([]byte(merged), "merged config"); err != nil {
		return "", 0, fmt.Errorf(messages.ConfigMergedInvalidFmt, err)
	}
	return merged, len(added), nil
}

// replaceEntriesArray rewrites the entries key inside [mounts] with a
// canonical multiline array holding records, inserting the section or key
// when missing.
func replaceEntriesArray(content string, records []string) string {
	lines := []string{}
	if content != "" {
		lines = strings.Split(content, "\n")
	}

	sectionStart, sectionEnd := findSection(lines, "mounts")
	if sectionStart < 0 {
		out := trimTrailingEmptyLines(lines)
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, "[mounts]")
		out = append(out, entriesArrayLines(records)...)
		return strings.Join(out, "\n") + "\n"
	}

	keyStart, keyEnd := findEntriesKey(lines, sectionStart+1, sectionEnd)
	block := entriesArrayLines(records)
	var out []string
	if keyStart < 0 {
		insertAt := lastContentLine(lines, sectionStart, sectionEnd) + 1
		out = append(out, lines[:insertAt]...)
		out = append(out, block...)
		out = append(out, lines[insertAt:]...)
	} else {
		out = append(out, lines[:keyStart]...)
		out = append(out, block...)
		out = append(out, lines[keyEnd+1:]...)
	}
	merged := strings.Join(out, "\n")
	if !strings.HasSuffix(merged, "\n") {
		merged += "\n"
	}
	return merged
}

// entriesArrayLines renders the canonical multiline entries array.
func entriesArrayLines(records []string) []string {
	out := make([]string, 0, len(records)+2)
	out = append(out, "entries = [")
	for _, record := range records {
		out = append(out, "  "+strconv.Quote(record)+",")
	}
	out = append(out, "]")
	return out
}

// findSection returns the line range [start, end) of the named table, where
// end is the index of the next table header or len(lines). start is -1 when
// the section is missing.
func findSection(lines []string, name string) (int, int) {
	start := -1
	for i, line := range lines {
		header, ok := parseTableHeader(line)
		if !ok {
			continue
		}
		if start >= 0 {
			return start, i
		}
		if header == name {
			start = i
		}
	}
	if start >= 0 {
		return start, len(lines)
	}
	return -1, -1
}

// findEntriesKey locates the entries assignment inside the section range and
// returns its first and last line indexes, or (-1, -1) when absent.
func findEntriesKey(lines []string, from int, to int) (int, int) {
	for i := from; i < to; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "#") || !strings.HasPrefix(trimmed, "entries") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "entries"))
		if !strings.HasPrefix(rest, "=") {
			continue
		}
		return i, arrayEndIndex(lines, i, to)
	}
	return -1, -1
}

// arrayEndIndex returns the index of the line closing the array that starts
// at startIdx, tracking bracket depth outside quoted strings.
func arrayEndIndex(lines []string, startIdx int, to int) int {
	depth := 0
	for i := startIdx; i < to; i++ {
		segment := lines[i]
		if i == startIdx {
			if eq := strings.Index(segment, "="); eq >= 0 {
				segment = segment[eq+1:]
			}
		}
		depth += bracketDepthDelta(segment)
		if depth <= 0 {
			return i
		}
	}
	return startIdx
}

// bracketDepthDelta counts the net [ ] depth change in a line, skipping
// brackets inside quoted strings and stopping at unquoted # comments.
func bracketDepthDelta(s string) int {
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			if ch == '\\' {
				i++
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '#':
			return depth
		case '[':
			depth++
		case ']':
			depth--
		}
	}
	return depth
}

// parseTableHeader extracts the name from a [table] header line.
func parseTableHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "[[") {
		return "", false
	}
	if idx := strings.Index(trimmed, "#"); idx >= 0 {
		trimmed = strings.TrimSpace(trimmed[:idx])
	}
	if !strings.HasSuffix(trimmed, "]") {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]"))
	return name, name != ""
}

// lastContentLine returns the index of the last non-blank line in [from, to).
func lastContentLine(lines []string, from int, to int) int {
	last := from
	for i := from; i < to; i++ {
		if strings.TrimSpace(lines[i]) != "" {
			last = i
		}
	}
	return last
}

// trimTrailingEmptyLines removes trailing blank lines.
func trimTrailingEmptyLines(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}
