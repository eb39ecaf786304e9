package messages

// Reconciliation messages for package, mount, and discovery components.
const (
	// PkgInstallFailedFmt wraps a failed package install.
	PkgInstallFailedFmt = "install %s: %w"
	PkgUpgradeFailedFmt = "upgrade %s: %w"
	PkgVersionUnknown   = "unknown"
	PkgUpgradeDetailFmt = "%s → %s"
	PkgDisabledDetail   = "disabled in config"
	PkgStepItemFmt      = "%s (%s)"
	PkgStepGitIdentity  = "identity"
	PkgStepNoIdentity   = "no identity configured"

	// MountLiveTableReadErrFmt wraps a failed live mount table read.
	MountLiveTableReadErrFmt   = "read live mount table %s: %w"
	MountFstabReadErrFmt       = "read %s: %w"
	MountFstabBackupErrFmt     = "back up %s: %w"
	MountFstabAppendErrFmt     = "append to %s: %w"
	MountPointCreateErrFmt     = "create mount point %s: %w"
	MountCallFailedFmt         = "mount %s: %w"
	MountSatisfiedElsewhereFmt = "already mounted at %s"
	MountSatisfiedDetail       = "mounted and recorded"
	MountedDetailFmt           = "mounted at %s"

	// NFSUnreachableFmt reports a failed export query against a server.
	NFSUnreachableFmt   = "server %s unreachable: %v"
	NFSShowmountMissing = "showmount not found; install nfs-common"

	// PreflightRequiresRoot reports a missing-privilege preflight failure.
	PreflightRequiresRoot  = "shipshape must run as root (try sudo)"
	PreflightNotAptFmt     = "unsupported OS family %q: shipshape requires an apt-based distribution"
	PreflightOSReleaseFmt  = "read %s: %v"
	PreflightNoConfigFmt   = "desired-state config not found at %s; create it or pass --config"
	PreflightCheckNameFmt  = "preflight %s: %v"
	PreflightCheckRoot     = "privilege"
	PreflightCheckOS       = "os-family"
	PreflightCheckConfig   = "config"
	PreflightFailedSummary = "preflight checks failed; nothing was changed"

	// RunlogOpenErrFmt wraps a failure to open the run record for append.
	RunlogOpenErrFmt    = "open run record %s: %w"
	RunlogWriteErrFmt   = "write run record %s: %w"
	RunlogItemFmt       = "  %s %s"
	RunlogItemDetailFmt = " (%s)"
)
