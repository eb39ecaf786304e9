package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harborworks/shipshape/internal/config"
	"github.com/harborworks/shipshape/internal/execx"
	"github.com/harborworks/shipshape/internal/messages"
	"github.com/harborworks/shipshape/internal/mounts"
	"github.com/harborworks/shipshape/internal/pkgs"
	"github.com/harborworks/shipshape/internal/update"
)

var checkForUpdate = update.Check

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.StatusUse,
		Short: messages.StatusShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			configPath, err := config.ResolveConfigPath(flags.configPath)
			if err != nil {
				return err
			}
			desired, err := config.Load(configPath)
			if err != nil {
				return err
			}
			runner := execx.RealRunner{Cfg: execx.Config{Verbose: flags.verbose, Quiet: flags.quiet, Log: cmd.ErrOrStderr()}}

			_, _ = fmt.Fprintf(out, messages.StatusHeaderFmt, configPath)
			printPackageStatus(out, runner, desired)
			printMountStatus(out, runner, desired)
			printUpdateStatus(cmd, out)
			return nil
		},
	}
}

// printPackageStatus classifies each declared package without reconciling.
func printPackageStatus(out io.Writer, runner execx.Runner, desired *config.DesiredState) {
	if len(desired.Packages) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, messages.ApplyPackagesHeader)
	classifier := pkgs.DpkgClassifier{Runner: runner}
	for _, spec := range desired.Packages {
		if !spec.Enabled {
			_, _ = fmt.Fprintf(out, messages.StatusPackageLineFmt, color.YellowString("-"), spec.Name, messages.PkgDisabledDetail)
			continue
		}
		cls := classifier.Classify(spec.Name)
		marker, text := packageStateLine(cls)
		_, _ = fmt.Fprintf(out, messages.StatusPackageLineFmt, marker, spec.Name, text)
	}
}

func packageStateLine(cls pkgs.Classification) (marker string, text string) {
	switch cls.State {
	case pkgs.CurrentVersion:
		return color.GreenString("✓"), cls.Installed
	case pkgs.UpgradeAvailable:
		return color.CyanString("↑"), fmt.Sprintf(messages.PkgUpgradeDetailFmt, cls.Installed, cls.Candidate)
	default:
		return color.RedString("✗"), cls.State.String()
	}
}

// printMountStatus reports each desired mount's live and recorded state.
func printMountStatus(out io.Writer, runner execx.Runner, desired *config.DesiredState) {
	if len(desired.Mounts) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, messages.ApplyMountsHeader)
	reconciler := mounts.NewReconciler(runner)
	for _, spec := range desired.Mounts {
		state, detail, err := reconciler.Inspect(spec)
		text := state.String()
		marker := color.GreenString("✓")
		switch {
		case err != nil:
			marker = color.RedString("✗")
			text = err.Error()
		case state == mounts.StateAbsent:
			marker = color.RedString("✗")
		case state == mounts.StateRecorded:
			marker = color.YellowString("-")
		case detail != "":
			text = detail
		}
		_, _ = fmt.Fprintf(out, messages.StatusMountLineFmt, marker, spec.Server, spec.RemotePath, text)
	}
}

// printUpdateStatus runs the best-effort release check. Network access is
// skipped entirely when SHIPSHAPE_NO_NETWORK is set.
func printUpdateStatus(cmd *cobra.Command, out io.Writer) {
	if strings.TrimSpace(os.Getenv(update.EnvNoNetwork)) != "" {
		_, _ = fmt.Fprintln(out, messages.StatusUpdateSkipped)
		return
	}
	result, err := checkForUpdate(cmd.Context(), Version)
	switch {
	case err != nil && update.IsRateLimitError(err):
		_, _ = fmt.Fprintln(out, color.YellowString(messages.StatusUpdateRateLimit))
	case err != nil:
		_, _ = fmt.Fprintln(out, color.YellowString(messages.StatusUpdateFailedFmt, err))
	case result.CurrentIsDev:
		_, _ = fmt.Fprintf(out, messages.StatusUpdateDevFmt+"\n", result.Latest)
	case result.Outdated:
		_, _ = fmt.Fprintln(out, color.YellowString(messages.StatusUpdateOutdated, result.Latest, result.Current))
	default:
		_, _ = fmt.Fprintf(out, messages.StatusUpToDateFmt+"\n", result.Current)
	}
}
