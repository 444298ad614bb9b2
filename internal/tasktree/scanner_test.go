package tasktree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDiscoversNumberedFolders(t *testing.T) {
	dir := t.TempDir()
	t1 := filepath.Join(dir, "01_define")
	require.NoError(t, os.Mkdir(t1, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(t1, "01_define.md"), []byte("#"), 0o644))
	t2 := filepath.Join(dir, "02_impl")
	require.NoError(t, os.Mkdir(t2, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(t2, "02_impl.md"), []byte("#"), 0o644))

	tasks, err := ScanTasks(dir)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "2", tasks[1].ID)
}

func TestScanIgnoresNoAnchor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "01_x"), 0o755))

	tasks, err := ScanTasks(dir)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestScanDiscoversMdFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "03_data_model.md"), []byte("#"), 0o644))

	tasks, err := ScanTasks(dir)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "3", tasks[0].ID)
	assert.Equal(t, "data model", tasks[0].Title)
}

func TestScanRecurses(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "01_parent")
	require.NoError(t, os.Mkdir(p, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p, "01_parent.md"), []byte("#"), 0o644))
	c := filepath.Join(p, "01_child")
	require.NoError(t, os.Mkdir(c, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(c, "01_child.md"), []byte("#"), 0o644))

	tasks, err := ScanTasks(dir)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Len(t, tasks[0].Children, 1)
}

func TestParseNumberedEntryFormats(t *testing.T) {
	n, title, ok := parseNumberedEntry("01_hello_world")
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, "hello world", title)

	n, title, ok = parseNumberedEntry("03_data_model.md")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, "data model", title)

	_, _, ok = parseNumberedEntry("not_numbered")
	assert.False(t, ok)

	_, _, ok = parseNumberedEntry("readme.md")
	assert.False(t, ok)
}

func TestScanIgnoresNonNumbered(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("#"), 0o644))

	tasks, err := ScanTasks(dir)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestScanSortsByNumber(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "03_c.md"), []byte("#"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_a.md"), []byte("#"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02_b.md"), []byte("#"), 0o644))

	tasks, err := ScanTasks(dir)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "2", tasks[1].ID)
	assert.Equal(t, "3", tasks[2].ID)
}

func TestScanNonexistentErrors(t *testing.T) {
	_, err := ScanTasks("/tmp/skd_no_exist_xyz")
	assert.Error(t, err)
}
