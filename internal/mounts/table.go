// Package mounts converges live NFS mounts and the persisted mount table
// toward the desired mount list.
package mounts

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/harborworks/shipshape/internal/messages"
)

// DefaultTablePath is where the kernel exposes the live mount table.
const DefaultTablePath = "/proc/self/mounts"

// Entry is one row of the live mount table.
type Entry struct {
	Source     string
	MountPoint string
	FSType     string
	Options    string
}

// Table is a point-in-time snapshot of the live mount table.
type Table struct {
	entries []Entry
}

// LoadTable parses a mount table in /proc/self/mounts format.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.MountLiveTableReadErrFmt, path, err)
	}
	table := &Table{}
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 4 {
			continue
		}
		table.entries = append(table.entries, Entry{
			Source:     unescapeMountField(fields[0]),
			MountPoint: unescapeMountField(fields[1]),
			FSType:     fields[2],
			Options:    fields[3],
		})
	}
	return table, nil
}

// FindRemote returns the local path where server:remotePath is mounted, if anywhere.
func (t *Table) FindRemote(server string, remotePath string) (string, bool) {
	source := server + ":" + remotePath
	for _, entry := range t.entries {
		if entry.Source == source {
			return entry.MountPoint, true
		}
	}
	return "", false
}

// IsMountPoint reports whether path is an active mount point.
func (t *Table) IsMountPoint(path string) bool {
	for _, entry := range t.entries {
		if entry.MountPoint == path {
			return true
		}
	}
	return false
}

// unescapeMountField decodes the octal escapes (\040 etc.) the kernel uses
// for whitespace in mount table fields.
func unescapeMountField(field string) string {
	if !strings.Contains(field, `\`) {
		return field
	}
	var b strings.Builder
	for i := 0; i < len(field); i++ {
		if field[i] == '\\' && i+3 < len(field) {
			if code, err := strconv.ParseUint(field[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(code))
				i += 3
				continue
			}
		}
		b.WriteByte(field[i])
	}
	return b.String()
}
