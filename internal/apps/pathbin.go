package apps

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PathBin discovers executables on the search path. It backs queries for
// tools that ship no desktop entry.
type PathBin struct {
	// Path overrides $PATH when non-empty, for tests.
	Path string
}

func (p *PathBin) Name() string { return "path" }

func (p *PathBin) Scan() []Record {
	path := p.Path
	if path == "" {
		path = os.Getenv("PATH")
	}

	seen := make(map[string]struct{})
	var out []Record
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil || info.Mode()&0o111 == 0 {
				continue
			}
			key := strings.ToLower(e.Name())
			if _, dup := seen[key]; dup {
				// First directory on the path wins, like the shell.
				continue
			}
			seen[key] = struct{}{}
			out = append(out, Record{
				Key:    key,
				Name:   e.Name(),
				Target: filepath.Join(dir, e.Name()),
				Source: SourcePath,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
