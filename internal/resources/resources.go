// Package resources maps a region and language to crisis support
// contacts. Lookups never return an empty list: a region miss falls
// back to the universal directory entries, and a language miss falls
// back to the region's default-language entries.
package resources

import (
	"sort"
	"strings"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
)

// Entry is a single support line or service.
type Entry struct {
	Name         string   `yaml:"name"`
	Phone        string   `yaml:"phone,omitempty"`
	Text         string   `yaml:"text,omitempty"`
	Web          string   `yaml:"web,omitempty"`
	Availability string   `yaml:"availability,omitempty"`
	Languages    []string `yaml:"languages,omitempty"`
	Specialties  []string `yaml:"specialties,omitempty"`
	Priority     int      `yaml:"priority,omitempty"`
}

// SupportsLanguage reports whether the entry serves the given language.
// Entries with no language list are treated as serving any language.
func (e Entry) SupportsLanguage(lang string) bool {
	if len(e.Languages) == 0 {
		return true
	}
	for _, l := range e.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Resolver answers region and language scoped resource lookups.
type Resolver struct {
	regions   map[string][]Entry
	universal []Entry
}

// NewResolver builds a resolver over the built-in directory.
func NewResolver() *Resolver {
	return &Resolver{
		regions:   builtinRegions(),
		universal: builtinUniversal(),
	}
}

// regionAliases folds common alternate codes onto their canonical form.
var regionAliases = map[string]string{
	"UK": "GB",
}

// Resolve returns the support entries for a region and language, most
// relevant first. High and critical severities get up to three entries,
// lower severities up to two. The result is never empty.
func (r *Resolver) Resolve(region, language string, severity detection.Severity) []Entry {
	region = strings.ToUpper(strings.TrimSpace(region))
	if canonical, ok := regionAliases[region]; ok {
		region = canonical
	}
	language = strings.ToLower(strings.TrimSpace(language))

	limit := 2
	if severity >= detection.SeverityHigh {
		limit = 3
	}

	entries, ok := r.regions[region]
	if !ok || len(entries) == 0 {
		return take(r.universal, limit)
	}

	if language != "" {
		matched := make([]Entry, 0, len(entries))
		for _, e := range entries {
			if e.SupportsLanguage(language) {
				matched = append(matched, e)
			}
		}
		if len(matched) > 0 {
			return take(sortByPriority(matched), limit)
		}
	}

	// Language miss inside a known region: the region's own entries are
	// still better than nothing from another country.
	return take(sortByPriority(entries), limit)
}

// Universal returns the region-independent fallback entries.
func (r *Resolver) Universal() []Entry {
	out := make([]Entry, len(r.universal))
	copy(out, r.universal)
	return out
}

// Regions lists the region codes the resolver knows about.
func (r *Resolver) Regions() []string {
	out := make([]string, 0, len(r.regions))
	for code := range r.regions {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func sortByPriority(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

func take(entries []Entry, limit int) []Entry {
	if len(entries) <= limit {
		out := make([]Entry, len(entries))
		copy(out, entries)
		return out
	}
	out := make([]Entry, limit)
	copy(out, entries[:limit])
	return out
}
