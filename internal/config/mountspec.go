package config

import (
	"fmt"
	"strings"

	"github.com/harborworks/shipshape/internal/messages"
)

// MountSpec is a parsed desired NFS mount. Identity for matching against the
// live and persisted mount tables is (Server, RemotePath); the mount point and
// options are not identity-bearing.
type MountSpec struct {
	Server     string
	RemotePath string
	MountPoint string
	Options    string
}

// DefaultMountOptions is used when a record leaves the options field empty.
const DefaultMountOptions = "defaults"

// ParseMountRecord parses a server:remote:local:options composite record.
// The options field may be empty, in which case DefaultMountOptions applies.
func ParseMountRecord(record string) (MountSpec, error) {
	fields := strings.Split(record, ":")
	if len(fields) != 4 {
		return MountSpec{}, fmt.Errorf(messages.ConfigMountRecordFieldsFmt, record)
	}
	spec := MountSpec{
		Server:     strings.TrimSpace(fields[0]),
		RemotePath: strings.TrimSpace(fields[1]),
		MountPoint: strings.TrimSpace(fields[2]),
		Options:    strings.TrimSpace(fields[3]),
	}
	if spec.Server == "" {
		return MountSpec{}, fmt.Errorf(messages.ConfigMountRecordServerFmt, record)
	}
	if !strings.HasPrefix(spec.RemotePath, "/") {
		return MountSpec{}, fmt.Errorf(messages.ConfigMountRecordRemoteFmt, record)
	}
	if !strings.HasPrefix(spec.MountPoint, "/") {
		return MountSpec{}, fmt.Errorf(messages.ConfigMountRecordLocalFmt, record)
	}
	if spec.Options == "" {
		spec.Options = DefaultMountOptions
	}
	return spec, nil
}

// Identity returns the server:remote key that identifies this mount.
func (s MountSpec) Identity() string {
	return s.Server + ":" + s.RemotePath
}

// Record renders the spec back into the 4-field config form.
func (s MountSpec) Record() string {
	return strings.Join([]string{s.Server, s.RemotePath, s.MountPoint, s.Options}, ":")
}
