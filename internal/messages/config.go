package messages

// Config loading and validation messages.
const (
	// ConfigMissingFileFmt reports an unreadable config file.
	ConfigMissingFileFmt = "read config %s: %w"
	// ConfigInvalidConfigFmt reports a TOML parse failure.
	ConfigInvalidConfigFmt = "parse config %s: %w"
	// ConfigUnrecognizedKeysFmt reports unknown keys under strict decoding.
	ConfigUnrecognizedKeysFmt = "config %s has unrecognized keys: %v"

	ConfigNoPackagesOrMounts = "config declares no packages and no mounts"
	ConfigPackageNameFmt     = "package name %q contains invalid characters"
	ConfigMountBaseRelative  = "mounts.base must be an absolute path"

	// ConfigMountRecordFieldsFmt reports a malformed 4-field mount record.
	ConfigMountRecordFieldsFmt = "mount record %q must have 4 colon-separated fields (server:remote:local:options)"
	ConfigMountRecordServerFmt = "mount record %q has an empty server address"
	ConfigMountRecordRemoteFmt = "mount record %q: remote path must be absolute"
	ConfigMountRecordLocalFmt  = "mount record %q: local mount point must be absolute"
	ConfigMountRecordDupFmt    = "duplicate mount record for %s (already declared by %q)"
	ConfigExpandHomeErrFmt     = "expand %s: %w"
	ConfigMergeParseFailedFmt  = "existing config is not valid TOML: %w"
	ConfigMergedInvalidFmt     = "merged config failed validation: %w"
)
