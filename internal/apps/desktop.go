package apps

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	parenRe     = regexp.MustCompile(`\s+\(.*?\)`)
	fieldCodeRe = regexp.MustCompile(`\s+%[a-zA-Z]`)
)

// DesktopEntries discovers applications from freedesktop .desktop files.
type DesktopEntries struct {
	Dirs []string
}

// NewDesktopEntries uses the standard XDG application directories.
func NewDesktopEntries() *DesktopEntries {
	home, _ := os.UserHomeDir()
	return &DesktopEntries{Dirs: []string{
		"/usr/share/applications",
		"/usr/local/share/applications",
		filepath.Join(home, ".local/share/applications"),
	}}
}

func (d *DesktopEntries) Name() string { return "desktop-entries" }

func (d *DesktopEntries) Scan() []Record {
	var out []Record
	for _, dir := range d.Dirs {
		filepath.WalkDir(dir, func(path string, e fs.DirEntry, err error) error {
			if err != nil || e.IsDir() || !strings.HasSuffix(path, ".desktop") {
				return nil
			}
			if r, ok := parseDesktopFile(path); ok {
				out = append(out, r)
			}
			return nil
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func parseDesktopFile(path string) (Record, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, false
	}
	defer f.Close()

	var name, exec string
	inEntry := false

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "[Desktop Entry]":
			inEntry = true
		case strings.HasPrefix(line, "["):
			// Only the main group describes the application itself.
			if inEntry {
				inEntry = false
			}
		case !inEntry:
		case strings.HasPrefix(line, "NoDisplay=true"), strings.HasPrefix(line, "Hidden=true"):
			return Record{}, false
		case name == "" && strings.HasPrefix(line, "Name="):
			name = strings.TrimPrefix(line, "Name=")
		case exec == "" && strings.HasPrefix(line, "Exec="):
			exec = fieldCodeRe.ReplaceAllString(strings.TrimPrefix(line, "Exec="), "")
		}
	}
	if name == "" || exec == "" {
		return Record{}, false
	}

	key := strings.ToLower(strings.TrimSpace(parenRe.ReplaceAllString(name, "")))
	return Record{
		Key:    key,
		Name:   name,
		Target: strings.TrimSpace(exec),
		Source: SourceDesktopEntry,
	}, true
}
