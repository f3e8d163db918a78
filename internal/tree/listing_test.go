package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treels/pkg/types"
)

func listingFrom(t *testing.T, input string) Source {
	t.Helper()
	src, err := NewListingSource(strings.NewReader(input))
	require.NoError(t, err)
	return src
}

func childNames(t *testing.T, src Source, parent types.Entry) []string {
	t.Helper()
	children, err := src.Children(parent)
	require.NoError(t, err)
	return names(children)
}

func TestListingSimplePaths(t *testing.T) {
	src := listingFrom(t, "a/b.txt\na/c.txt\nd.txt\n")

	root, err := src.Root("ignored")
	require.NoError(t, err)
	assert.Equal(t, ".", root.Path)
	assert.Equal(t, types.Dir, root.Kind)

	top, err := src.Children(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d.txt"}, names(top))
	assert.Equal(t, types.Dir, top[0].Kind)
	assert.Equal(t, 1, top[0].Depth)
	assert.False(t, top[0].MetaValid)

	assert.Equal(t, []string{"b.txt", "c.txt"}, childNames(t, src, top[0]))
}

func TestListingTrailingSlashMarksDirectory(t *testing.T) {
	src := listingFrom(t, "empty/\nfile\n")
	root, _ := src.Root("")
	children, err := src.Children(root)
	require.NoError(t, err)

	require.Len(t, children, 2)
	assert.Equal(t, types.Dir, children[0].Kind)
	assert.Equal(t, types.File, children[1].Kind)
}

func TestListingPromotesFileWithChildren(t *testing.T) {
	// "pkg" first appears as a file, later lines show children.
	src := listingFrom(t, "pkg\npkg/mod.go\n")
	root, _ := src.Root("")
	children, err := src.Children(root)
	require.NoError(t, err)

	require.Len(t, children, 1)
	assert.Equal(t, types.Dir, children[0].Kind)
	assert.Equal(t, []string{"mod.go"}, childNames(t, src, children[0]))
}

func TestListingSynthesizesIntermediates(t *testing.T) {
	src := listingFrom(t, "deep/er/file.txt\n")
	root, _ := src.Root("")

	level1, _ := src.Children(root)
	require.Equal(t, []string{"deep"}, names(level1))
	assert.Equal(t, types.Dir, level1[0].Kind)

	level2, _ := src.Children(level1[0])
	require.Equal(t, []string{"er"}, names(level2))
	assert.Equal(t, 2, level2[0].Depth)
}

func TestListingTarVerbose(t *testing.T) {
	input := strings.Join([]string{
		"drwxr-xr-x user/group 0 2024-01-01 10:00 src/",
		"-rw-r--r-- user/group 1024 2024-01-01 10:00 src/main.go",
		"-rw-r--r-- user/group 52 2024-01-01 10:01 README",
	}, "\n")
	src := listingFrom(t, input)
	root, _ := src.Root("")

	top, err := src.Children(root)
	require.NoError(t, err)
	require.Equal(t, []string{"src", "README"}, names(top))
	assert.Equal(t, types.Dir, top[0].Kind)
	assert.True(t, top[1].SizeValid)
	assert.Equal(t, int64(52), top[1].Size)

	inSrc, _ := src.Children(top[0])
	require.Equal(t, []string{"main.go"}, names(inSrc))
	assert.Equal(t, int64(1024), inSrc[0].Size)
}

func TestListingTarSimple(t *testing.T) {
	src := listingFrom(t, "archive/\narchive/data.bin\n")
	root, _ := src.Root("")
	top, _ := src.Children(root)
	require.Equal(t, []string{"archive"}, names(top))
	assert.Equal(t, []string{"data.bin"}, childNames(t, src, top[0]))
}

func TestListingIgnoresBlankLines(t *testing.T) {
	src := listingFrom(t, "\n\na.txt\n\n")
	root, _ := src.Root("")
	top, _ := src.Children(root)
	assert.Equal(t, []string{"a.txt"}, names(top))
}
