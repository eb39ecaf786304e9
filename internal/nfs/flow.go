package nfs

import (
	"fmt"
	"path"
	"strings"

	"github.com/harborworks/shipshape/internal/config"
	"github.com/harborworks/shipshape/internal/messages"
	"github.com/harborworks/shipshape/internal/prompt"
)

const (
	choiceAccept = "accept"
	choiceEdit   = "edit mount point or options"
	choiceSkip   = "skip"
)

// Flow walks a server's exports interactively, yielding a mount spec for each
// accepted export. Exports are visited strictly in server order.
type Flow struct {
	UI   prompt.UI
	Base string
}

// Run prompts for each export and returns the accepted mount specs. A
// cancelled prompt aborts the whole flow with prompt.ErrCancelled; nothing
// accepted so far is returned.
func (f *Flow) Run(server string, exports []Export) ([]config.MountSpec, error) {
	var specs []config.MountSpec
	taken := make(map[string]bool)
	for _, export := range exports {
		spec, accepted, err := f.visit(server, export, taken)
		if err != nil {
			return nil, err
		}
		if accepted {
			taken[spec.MountPoint] = true
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

func (f *Flow) visit(server string, export Export, taken map[string]bool) (config.MountSpec, bool, error) {
	choice := choiceAccept
	title := fmt.Sprintf(messages.DiscoverAcceptPromptFmt, server, export.Path)
	if err := f.UI.Select(title, []string{choiceAccept, choiceEdit, choiceSkip}, &choice); err != nil {
		return config.MountSpec{}, false, err
	}
	if choice == choiceSkip {
		return config.MountSpec{}, false, nil
	}

	spec := config.MountSpec{
		Server:     server,
		RemotePath: export.Path,
		MountPoint: SuggestMountPoint(f.Base, export.Path, taken),
		Options:    config.DefaultMountOptions,
	}
	if choice == choiceEdit {
		if err := f.edit(&spec); err != nil {
			return config.MountSpec{}, false, err
		}
	}
	return spec, true, nil
}

// edit lets the user adjust the suggested mount point and options in place.
func (f *Flow) edit(spec *config.MountSpec) error {
	suggested := spec.MountPoint
	if err := f.UI.Input(messages.DiscoverMountPointPrompt, &spec.MountPoint); err != nil {
		return err
	}
	spec.MountPoint = strings.TrimSpace(spec.MountPoint)
	switch {
	case spec.MountPoint == "":
		// A cleared field keeps the suggestion.
		spec.MountPoint = suggested
	case !strings.HasPrefix(spec.MountPoint, "/"):
		// A relative answer lands under the configured base.
		spec.MountPoint = path.Join(f.Base, spec.MountPoint)
	}
	if err := f.UI.Input(messages.DiscoverOptionsPrompt, &spec.Options); err != nil {
		return err
	}
	spec.Options = strings.TrimSpace(spec.Options)
	if spec.Options == "" {
		spec.Options = config.DefaultMountOptions
	}
	return nil
}

// SuggestMountPoint derives a local mount point from the export's last path
// segment under base. When that name is already taken by an earlier accepted
// export, successive path segments are prefixed until the name is unique
// ("/export/a/media" vs "/backup/media" yields "a-media").
func SuggestMountPoint(base string, remotePath string, taken map[string]bool) string {
	segments := splitSegments(remotePath)
	if len(segments) == 0 {
		segments = []string{"root"}
	}
	for i := len(segments) - 1; i >= 0; i-- {
		candidate := path.Join(base, strings.Join(segments[i:], "-"))
		if !taken[candidate] {
			return candidate
		}
	}
	// Every prefix collides; fall back to the full joined name and let the
	// user edit it.
	return path.Join(base, strings.Join(segments, "-"))
}

func splitSegments(remotePath string) []string {
	var segments []string
	for _, segment := range strings.Split(remotePath, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
