package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSpec(t *testing.T, record string) MountSpec {
	t.Helper()
	spec, err := ParseMountRecord(record)
	require.NoError(t, err)
	return spec
}

func TestMergeIntoExistingEntries(t *testing.T) {
	content := `# host config
[packages.htop]
enabled = true

[mounts]
base = "/mnt" # keep
entries = [
  "10.0.0.5:/vol/media:/mnt/media:rw",
]
`
	merged, added, err := MergeMountEntries(content, []MountSpec{
		mustSpec(t, "10.0.0.5:/vol/backup:/mnt/backup:ro"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	// Comments and unrelated sections survive the merge.
	assert.Contains(t, merged, "# host config")
	assert.Contains(t, merged, `base = "/mnt" # keep`)
	assert.Contains(t, merged, `"10.0.0.5:/vol/media:/mnt/media:rw",`)
	assert.Contains(t, merged, `"10.0.0.5:/vol/backup:/mnt/backup:ro",`)

	cfg, err := ParseLenient([]byte(merged), "merged")
	require.NoError(t, err)
	assert.Len(t, cfg.Mounts.Entries, 2)
}

func TestMergeSkipsDuplicateIdentity(t *testing.T) {
	content := `[mounts]
entries = [
  "10.0.0.5:/vol/media:/mnt/media:rw",
]
`
	merged, added, err := MergeMountEntries(content, []MountSpec{
		mustSpec(t, "10.0.0.5:/vol/media:/srv/media:ro"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, content, merged)
}

func TestMergeCreatesMountsSection(t *testing.T) {
	content := "[packages.git]\nenabled = true\n"
	merged, added, err := MergeMountEntries(content, []MountSpec{
		mustSpec(t, "nas:/vol/tv:/mnt/tv:rw"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Contains(t, merged, "[mounts]")

	cfg, err := ParseLenient([]byte(merged), "merged")
	require.NoError(t, err)
	require.Len(t, cfg.Mounts.Entries, 1)
	assert.Equal(t, "nas:/vol/tv:/mnt/tv:rw", cfg.Mounts.Entries[0])
}

func TestMergeAddsEntriesKeyToBareSection(t *testing.T) {
	content := "[mounts]\nbase = \"/srv\"\n\n[packages.git]\nenabled = true\n"
	merged, added, err := MergeMountEntries(content, []MountSpec{
		mustSpec(t, "nas:/vol/tv:/srv/tv:rw"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	cfg, err := ParseLenient([]byte(merged), "merged")
	require.NoError(t, err)
	assert.Equal(t, "/srv", cfg.Mounts.Base)
	require.Len(t, cfg.Mounts.Entries, 1)
	// The packages section after [mounts] must be untouched.
	assert.True(t, cfg.Packages["git"].Enabled)
}

func TestMergeEmptyContent(t *testing.T) {
	merged, added, err := MergeMountEntries("", []MountSpec{
		mustSpec(t, "nas:/vol/tv:/mnt/tv:rw"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.True(t, strings.HasPrefix(merged, "[mounts]"))
}

func TestMergeRejectsInvalidToml(t *testing.T) {
	_, _, err := MergeMountEntries("[mounts\nentries=[]\n", []MountSpec{
		mustSpec(t, "nas:/vol/tv:/mnt/tv:rw"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid TOML")
}

func TestMergeSingleLineEntriesArray(t *testing.T) {
	content := "[mounts]\nentries = [\"10.0.0.5:/vol/media:/mnt/media:rw\"]\n"
	merged, added, err := MergeMountEntries(content, []MountSpec{
		mustSpec(t, "10.0.0.5:/vol/backup:/mnt/backup:ro"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	cfg, err := ParseLenient([]byte(merged), "merged")
	require.NoError(t, err)
	assert.Len(t, cfg.Mounts.Entries, 2)
}
