package apps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

func TestDesktopEntriesScan(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "firefox.desktop"), `[Desktop Entry]
Name=Firefox (Developer Edition)
Exec=/usr/lib/firefox/firefox %u
Type=Application
`, 0o644)
	writeFile(t, filepath.Join(dir, "hidden.desktop"), `[Desktop Entry]
Name=Hidden Tool
NoDisplay=true
Exec=/usr/bin/hidden
`, 0o644)
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a desktop file", 0o644)

	d := &DesktopEntries{Dirs: []string{dir, filepath.Join(dir, "missing")}}
	recs := d.Scan()

	require.Len(t, recs, 1, "hidden entries and foreign files are skipped")
	r := recs[0]
	assert.Equal(t, "firefox", r.Key, "version suffix in parentheses is stripped from the key")
	assert.Equal(t, "Firefox (Developer Edition)", r.Name)
	assert.Equal(t, "/usr/lib/firefox/firefox", r.Target, "field codes are stripped")
	assert.Equal(t, SourceDesktopEntry, r.Source)
}

func TestDesktopEntriesIgnoresActionGroups(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "term.desktop"), `[Desktop Entry]
Name=Terminal
Exec=xterm
[Desktop Action new-window]
Name=New Window
Exec=xterm -new
`, 0o644)

	d := &DesktopEntries{Dirs: []string{dir}}
	recs := d.Scan()

	require.Len(t, recs, 1)
	assert.Equal(t, "terminal", recs[0].Key)
	assert.Equal(t, "xterm", recs[0].Target)
}

func TestPathBinScan(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	writeFile(t, filepath.Join(first, "mytool"), "#!/bin/sh\n", 0o755)
	writeFile(t, filepath.Join(first, "readme"), "data", 0o644)
	// Same name later on the path must lose.
	writeFile(t, filepath.Join(second, "mytool"), "#!/bin/sh\n", 0o755)
	writeFile(t, filepath.Join(second, "othertool"), "#!/bin/sh\n", 0o755)

	p := &PathBin{Path: first + string(os.PathListSeparator) + second}
	recs := p.Scan()

	require.Len(t, recs, 2)
	byKey := map[string]Record{}
	for _, r := range recs {
		byKey[r.Key] = r
	}
	assert.Equal(t, filepath.Join(first, "mytool"), byKey["mytool"].Target)
	assert.Equal(t, filepath.Join(second, "othertool"), byKey["othertool"].Target)
	assert.Equal(t, SourcePath, byKey["mytool"].Source)
}
