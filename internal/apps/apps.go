// Package apps builds an installed-application inventory from pluggable
// discovery providers and resolves free-text queries against it.
package apps

import (
	"log/slog"
	"strings"
)

// Source names the discovery provider a record came from.
type Source string

const (
	SourceDesktopEntry Source = "desktop-entry"
	SourcePath         Source = "path"
)

// Record is one runnable application. Key is the normalized lookup
// string; Target is the path or command the launcher gets.
type Record struct {
	Key    string
	Name   string
	Target string
	Source Source
}

// Provider is a read-only inventory source. Scan never fails: a provider
// that hits trouble contributes whatever it collected, possibly nothing.
// Records come back in a stable order; registration order of providers is
// the tie-break between otherwise equal matches.
type Provider interface {
	Name() string
	Scan() []Record
}

// Index merges provider scans into one keyed inventory. The merge is
// rebuilt per resolution request; nothing persists across calls.
type Index struct {
	logger    *slog.Logger
	providers []Provider
}

func NewIndex(logger *slog.Logger, providers ...Provider) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{logger: logger, providers: providers}
}

// merged returns all records in discovery order, keyed case-insensitively
// with last-writer-wins on key collisions across providers.
func (ix *Index) merged() []Record {
	var order []string
	byKey := make(map[string]Record)

	for _, p := range ix.providers {
		recs := p.Scan()
		ix.logger.Debug("inventory scanned", "provider", p.Name(), "records", len(recs))
		for _, r := range recs {
			key := strings.ToLower(strings.TrimSpace(r.Key))
			if key == "" {
				continue
			}
			r.Key = key
			if _, seen := byKey[key]; !seen {
				order = append(order, key)
			}
			byKey[key] = r
		}
	}

	out := make([]Record, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}
