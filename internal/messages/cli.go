package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "shipshape"
	// RootShort is the short description for the root command.
	RootShort = "Declarative package and NFS mount reconciler"
	RootLong  = "shipshape converges a host's installed packages and NFS mounts toward a declarative TOML config, applying only the minimal actions needed."

	RootFlagConfig  = "Path to the desired-state config file"
	RootFlagVerbose = "Echo every external command before running it"
	RootFlagQuiet   = "Suppress per-item progress output (summary is still printed)"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// ApplyUse is the apply command name.
	ApplyUse   = "apply"
	ApplyShort = "Reconcile packages and mounts against the desired state"

	ApplyFlagPackagesOnly = "Reconcile packages only"
	ApplyFlagMountsOnly   = "Reconcile mounts only"

	ApplyHeaderFmt            = "Reconciling host against %s\n"
	ApplyPackagesHeader       = "Packages:"
	ApplyMountsHeader         = "Mounts:"
	ApplyDiscoveryFailedFmt   = "Warning: export discovery against %s failed: %v (no mounts reconciled this run)"
	ApplyCompletedWithFailure = "reconciliation completed with failures"

	// DiscoverUse is the discover command usage.
	DiscoverUse   = "discover <server>"
	DiscoverShort = "Interactively discover NFS exports and build mount entries"

	DiscoverRequiresTerminal = "discover requires an interactive terminal; declare mounts.entries in the config instead"
	DiscoverQueryingFmt      = "Querying exports on %s...\n"
	DiscoverNoExportsFmt     = "Server %s advertises no exports.\n"
	DiscoverFoundFmt         = "Found %d export(s) on %s.\n"
	DiscoverAcceptPromptFmt  = "Mount %s:%s?"
	DiscoverMountPointPrompt = "Local mount point"
	DiscoverOptionsPrompt    = "Mount options"
	DiscoverNoneAccepted     = "No exports accepted; nothing to do.\n"
	DiscoverSavePrompt       = "Save accepted mounts to the config file?"
	DiscoverSaveDiffHeader   = "Config changes:"
	DiscoverSaveConfirm      = "Write these changes?"
	DiscoverSavedFmt         = "Saved %d mount entr%s to %s\n"
	DiscoverSaveSkipped      = "Config left unchanged.\n"
	DiscoverReconcilePrompt  = "Reconcile the accepted mounts now?"
	DiscoverCancelled        = "Discovery cancelled; no changes made.\n"

	// StatusUse is the status command name.
	StatusUse   = "status"
	StatusShort = "Report package and mount state without changing anything"

	StatusHeaderFmt       = "Desired state: %s\n"
	StatusPackageLineFmt  = "%s %s: %s\n"
	StatusMountLineFmt    = "%s %s:%s: %s\n"
	StatusUpdateSkipped   = "update check skipped (SHIPSHAPE_NO_NETWORK is set)"
	StatusUpdateFailedFmt = "update check failed: %v"
	StatusUpdateRateLimit = "update check rate-limited by GitHub; try again later"
	StatusUpdateDevFmt    = "running dev build; latest release is %s"
	StatusUpdateOutdated  = "update available: %s (current %s)"
	StatusUpToDateFmt     = "shipshape %s is up to date"

	// SummaryInstalledLabel labels the installed category in the run summary.
	SummaryInstalledLabel = "Installed"
	SummaryUpdatedLabel   = "Updated"
	SummaryCurrentLabel   = "Current"
	SummarySkippedLabel   = "Skipped"
	SummaryFailedLabel    = "Failed"
	SummaryHeader         = "Run summary:"
	SummaryCountsFmt      = "%d installed, %d updated, %d current, %d skipped, %d failed\n"
	SummaryItemFmt        = "  %s %s"
	SummaryDetailFmt      = " (%s)"

	// PromptCancelled reports that the user aborted an interactive prompt.
	PromptCancelled       = "cancelled"
	PromptRequireTerminal = "interactive prompts require a terminal"
)
