package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harborworks/shipshape/internal/config"
	"github.com/harborworks/shipshape/internal/execx"
	"github.com/harborworks/shipshape/internal/ledger"
	"github.com/harborworks/shipshape/internal/messages"
	"github.com/harborworks/shipshape/internal/mounts"
	"github.com/harborworks/shipshape/internal/nfs"
	"github.com/harborworks/shipshape/internal/pkgs"
	"github.com/harborworks/shipshape/internal/preflight"
	"github.com/harborworks/shipshape/internal/runlog"
)

// ErrApplyCompletedWithFailure is returned when any item landed in the failed
// category. The exit code turns non-zero without re-printing per-item errors.
var ErrApplyCompletedWithFailure = errors.New(messages.ApplyCompletedWithFailure)

var preflightRunFunc = preflight.Run

func newApplyCmd(flags *rootFlags) *cobra.Command {
	var packagesOnly bool
	var mountsOnly bool

	cmd := &cobra.Command{
		Use:   messages.ApplyUse,
		Short: messages.ApplyShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			configPath, err := config.ResolveConfigPath(flags.configPath)
			if err != nil {
				return err
			}

			results, passed := preflightRunFunc(configPath)
			for _, result := range results {
				printPreflight(out, result)
			}
			if !passed {
				return errors.New(messages.PreflightFailedSummary)
			}

			desired, err := config.Load(configPath)
			if err != nil {
				return err
			}

			runner := execx.RealRunner{Cfg: execx.Config{
				Verbose: flags.verbose,
				Quiet:   flags.quiet,
				Log:     cmd.ErrOrStderr(),
			}}
			if !flags.quiet {
				_, _ = fmt.Fprintf(out, messages.ApplyHeaderFmt, configPath)
			}

			var led ledger.Ledger
			if !mountsOnly {
				applyPackages(out, flags, runner, desired, &led)
			}
			if !packagesOnly {
				applyMounts(cmd.ErrOrStderr(), out, flags, runner, desired, &led)
			}

			printSummary(out, &led)
			recordRun(cmd.ErrOrStderr(), desired, &led)

			if led.HasFailures() {
				return ErrApplyCompletedWithFailure
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&packagesOnly, "packages-only", false, messages.ApplyFlagPackagesOnly)
	cmd.Flags().BoolVar(&mountsOnly, "mounts-only", false, messages.ApplyFlagMountsOnly)
	return cmd
}

// applyPackages reconciles every declared package through the decision table.
func applyPackages(out io.Writer, flags *rootFlags, runner execx.Runner, desired *config.DesiredState, led *ledger.Ledger) {
	if len(desired.Packages) == 0 {
		return
	}
	if !flags.quiet {
		_, _ = fmt.Fprintln(out, messages.ApplyPackagesHeader)
	}
	engine := &pkgs.Engine{
		Classifier: pkgs.DpkgClassifier{Runner: runner},
		Providers:  pkgs.NewRegistry(pkgs.AptProvider{Runner: runner}),
		Steps:      pkgs.DefaultSteps(runner),
	}
	for _, spec := range desired.Packages {
		result := engine.Reconcile(spec, led)
		if !flags.quiet {
			printResult(out, result)
		}
	}
}

// applyMounts reconciles the declared mount entries. When no entries are
// declared but a server is configured, the server's exports are discovered
// and mounted under the base directory; a discovery failure only warns.
func applyMounts(errOut io.Writer, out io.Writer, flags *rootFlags, runner execx.Runner, desired *config.DesiredState, led *ledger.Ledger) {
	specs := desired.Mounts
	server := strings.TrimSpace(desired.Config.Mounts.Server)
	if len(specs) == 0 && server != "" {
		exports, err := nfs.Discoverer{Runner: runner}.Discover(server)
		if err != nil {
			_, _ = fmt.Fprintln(errOut, color.YellowString(messages.ApplyDiscoveryFailedFmt, server, err))
			return
		}
		taken := make(map[string]bool)
		for _, export := range exports {
			point := nfs.SuggestMountPoint(desired.Config.MountBase(), export.Path, taken)
			taken[point] = true
			specs = append(specs, config.MountSpec{
				Server:     server,
				RemotePath: export.Path,
				MountPoint: point,
				Options:    config.DefaultMountOptions,
			})
		}
	}
	if len(specs) == 0 {
		return
	}
	if !flags.quiet {
		_, _ = fmt.Fprintln(out, messages.ApplyMountsHeader)
	}
	reconciler := mounts.NewReconciler(runner)
	for _, spec := range specs {
		outcome := reconciler.Reconcile(spec, led)
		if !flags.quiet {
			printResult(out, ledger.Result{Item: spec.Identity(), Category: outcome.Category, Detail: outcome.Detail})
		}
	}
}

// recordRun appends the run record; a recording failure warns but never
// changes the run's outcome.
func recordRun(errOut io.Writer, desired *config.DesiredState, led *ledger.Ledger) {
	path, err := desired.RunRecordPath()
	if err == nil {
		err = runlog.NewWriter(path).Record(led)
	}
	if err != nil {
		_, _ = fmt.Fprintln(errOut, color.YellowString("%v", err))
	}
}

func printPreflight(out io.Writer, result preflight.Result) {
	if result.Status == preflight.StatusOK {
		return
	}
	_, _ = fmt.Fprintln(out, color.RedString(messages.PreflightCheckNameFmt, result.CheckName, result.Message))
	if result.Recommendation != "" {
		_, _ = fmt.Fprintln(out, "  "+result.Recommendation)
	}
}
