package mounts

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harborworks/shipshape/internal/config"
	"github.com/harborworks/shipshape/internal/messages"
)

// DefaultFstabPath is the persisted mount table on every supported host.
const DefaultFstabPath = "/etc/fstab"

// bootRetryOptions are always appended to persisted entries so an unreachable
// server at boot degrades to a background retry instead of blocking startup.
const bootRetryOptions = "_netdev,nofail"

// Fstab manages the persisted mount table: lookups, appends, and a one-time
// verbatim backup taken before the first modification of a run.
type Fstab struct {
	Path     string
	backedUp bool
	nowFunc  func() time.Time
}

// NewFstab returns an Fstab over the given path.
func NewFstab(path string) *Fstab {
	return &Fstab{Path: path, nowFunc: time.Now}
}

// HasEntry reports whether the persisted table already carries an entry for
// server:remotePath, matching on the source field only. A missing file means
// no entries.
func (f *Fstab) HasEntry(server string, remotePath string) (bool, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf(messages.MountFstabReadErrFmt, f.Path, err)
	}
	source := server + ":" + remotePath
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) > 0 && unescapeMountField(fields[0]) == source {
			return true, nil
		}
	}
	return false, nil
}

// Append persists the mount as a new fstab line, taking the one-time backup
// first. The original file is never rewritten, only appended to.
func (f *Fstab) Append(spec config.MountSpec) error {
	if err := f.backupOnce(); err != nil {
		return err
	}
	file, err := os.OpenFile(f.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf(messages.MountFstabAppendErrFmt, f.Path, err)
	}
	defer func() { _ = file.Close() }()
	if _, err := file.WriteString(Line(spec) + "\n"); err != nil {
		return fmt.Errorf(messages.MountFstabAppendErrFmt, f.Path, err)
	}
	return nil
}

// Line renders the fstab entry for a mount spec. The boot-retry options are
// always present exactly once regardless of what the spec carries.
func Line(spec config.MountSpec) string {
	options := spec.Options
	if options == "" {
		options = config.DefaultMountOptions
	}
	for _, flag := range strings.Split(bootRetryOptions, ",") {
		if !hasOption(options, flag) {
			options += "," + flag
		}
	}
	source := spec.Server + ":" + spec.RemotePath
	return strings.Join([]string{source, spec.MountPoint, "nfs", options, "0", "0"}, " ")
}

func hasOption(options string, flag string) bool {
	for _, opt := range strings.Split(options, ",") {
		if opt == flag {
			return true
		}
	}
	return false
}

// backupOnce copies the current file verbatim to a timestamped sibling before
// the first append of this run. Later appends in the same run reuse the same
// backup. A missing fstab needs no backup.
func (f *Fstab) backupOnce() error {
	if f.backedUp {
		return nil
	}
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		f.backedUp = true
		return nil
	}
	if err != nil {
		return fmt.Errorf(messages.MountFstabBackupErrFmt, f.Path, err)
	}
	backupPath := f.Path + ".shipshape-" + f.nowFunc().Format("20060102-150405")
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return fmt.Errorf(messages.MountFstabBackupErrFmt, f.Path, err)
	}
	f.backedUp = true
	return nil
}
