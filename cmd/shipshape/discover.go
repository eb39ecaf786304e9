package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"github.com/harborworks/shipshape/internal/config"
	"github.com/harborworks/shipshape/internal/execx"
	"github.com/harborworks/shipshape/internal/fsutil"
	"github.com/harborworks/shipshape/internal/ledger"
	"github.com/harborworks/shipshape/internal/messages"
	"github.com/harborworks/shipshape/internal/mounts"
	"github.com/harborworks/shipshape/internal/nfs"
	"github.com/harborworks/shipshape/internal/prompt"
	"github.com/harborworks/shipshape/internal/terminal"
)

var (
	newUIFunc         = func() prompt.UI { return prompt.NewHuhUI() }
	isInteractiveFunc = terminal.IsInteractive
)

func newDiscoverCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.DiscoverUse,
		Short: messages.DiscoverShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractiveFunc() {
				return errors.New(messages.DiscoverRequiresTerminal)
			}
			err := runDiscover(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, args[0])
			if errors.Is(err, prompt.ErrCancelled) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.DiscoverCancelled)
				return nil
			}
			return err
		},
	}
}

func runDiscover(out io.Writer, errOut io.Writer, flags *rootFlags, server string) error {
	runner := execx.RealRunner{Cfg: execx.Config{Verbose: flags.verbose, Quiet: flags.quiet, Log: errOut}}

	_, _ = fmt.Fprintf(out, messages.DiscoverQueryingFmt, server)
	exports, err := nfs.Discoverer{Runner: runner}.Discover(server)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		_, _ = fmt.Fprintf(out, messages.DiscoverNoExportsFmt, server)
		return nil
	}
	_, _ = fmt.Fprintf(out, messages.DiscoverFoundFmt, len(exports), server)

	configPath, err := config.ResolveConfigPath(flags.configPath)
	if err != nil {
		return err
	}
	content, base, err := currentConfigState(configPath)
	if err != nil {
		return err
	}

	ui := newUIFunc()
	flow := &nfs.Flow{UI: ui, Base: base}
	specs, err := flow.Run(server, exports)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		_, _ = fmt.Fprintf(out, messages.DiscoverNoneAccepted)
		return nil
	}

	if err := saveAccepted(out, ui, configPath, content, specs); err != nil {
		return err
	}
	return reconcileAccepted(out, ui, runner, flags, specs)
}

// currentConfigState reads the existing config content and mount base. A
// missing config yields empty content and the default base; a syntactically
// broken one is surfaced as an error before any prompts run.
func currentConfigState(configPath string) (content string, base string, err error) {
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return "", config.DefaultMountBase, nil
	}
	if err != nil {
		return "", "", fmt.Errorf("read config %s: %w", configPath, err)
	}
	cfg, err := config.ParseLenient(data, configPath)
	if err != nil {
		return "", "", err
	}
	base = strings.TrimSpace(cfg.Mounts.Base)
	if base == "" {
		base = config.DefaultMountBase
	}
	return string(data), base, nil
}

// saveAccepted offers to merge the accepted mounts into the config file,
// previewing the change as a unified diff before writing.
func saveAccepted(out io.Writer, ui prompt.UI, configPath string, content string, specs []config.MountSpec) error {
	save := true
	if err := ui.Confirm(messages.DiscoverSavePrompt, &save); err != nil {
		return err
	}
	if !save {
		_, _ = fmt.Fprintf(out, messages.DiscoverSaveSkipped)
		return nil
	}

	merged, added, err := config.MergeMountEntries(content, specs)
	if err != nil {
		return err
	}
	if added == 0 {
		_, _ = fmt.Fprintf(out, messages.DiscoverSaveSkipped)
		return nil
	}

	diff := strings.TrimSpace(udiff.Unified(
		configPath+" (current)",
		configPath+" (proposed)",
		content,
		merged,
	))
	_, _ = fmt.Fprintln(out, messages.DiscoverSaveDiffHeader)
	_, _ = fmt.Fprintln(out, diff)

	write := true
	if err := ui.Confirm(messages.DiscoverSaveConfirm, &write); err != nil {
		return err
	}
	if !write {
		_, _ = fmt.Fprintf(out, messages.DiscoverSaveSkipped)
		return nil
	}
	if err := fsutil.WriteFileAtomic(configPath, []byte(merged), 0o644); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, messages.DiscoverSavedFmt, added, entrySuffix(added), configPath)
	return nil
}

// reconcileAccepted offers to converge the accepted mounts immediately.
func reconcileAccepted(out io.Writer, ui prompt.UI, runner execx.Runner, flags *rootFlags, specs []config.MountSpec) error {
	reconcile := false
	if err := ui.Confirm(messages.DiscoverReconcilePrompt, &reconcile); err != nil {
		return err
	}
	if !reconcile {
		return nil
	}
	var led ledger.Ledger
	reconciler := mounts.NewReconciler(runner)
	for _, spec := range specs {
		outcome := reconciler.Reconcile(spec, &led)
		if !flags.quiet {
			printResult(out, ledger.Result{Item: spec.Identity(), Category: outcome.Category, Detail: outcome.Detail})
		}
	}
	printSummary(out, &led)
	if led.HasFailures() {
		return ErrApplyCompletedWithFailure
	}
	return nil
}

// entrySuffix pluralizes "entry" for the saved-count message.
func entrySuffix(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
