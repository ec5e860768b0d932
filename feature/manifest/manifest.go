package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMalformedEntry is returned when a project ID cannot be derived from an
// entry's canonical download URL.
var ErrMalformedEntry = errors.New("malformed manifest entry")

// knownLoaders are the loader dependency keys recognized in the
// dependencies object, in addition to "minecraft".
var knownLoaders = []string{"fabric", "forge", "neoforge", "quilt", "liteloader"}

// Hashes holds the cryptographic digests of a file entry.
type Hashes struct {
	SHA1   string `json:"sha1"`
	SHA512 string `json:"sha512"`
}

// Env describes whether the file is required on each side.
type Env struct {
	Server string `json:"server"`
	Client string `json:"client"`
}

// Entry is a single tracked file in the pack index.
type Entry struct {
	// Path is the file location relative to the pack root, slash separated.
	Path string
	// Hashes are the digests of the file content.
	Hashes Hashes
	// Env is the per-side requirement. Optional in the index format.
	Env *Env
	// Downloads are the source URLs; the first is the canonical one.
	Downloads []string
	// FileSize is the content size in bytes.
	FileSize int64

	// extra preserves unknown index fields for round-trip fidelity.
	extra map[string]json.RawMessage
}

// Manifest is the pack index: pack-level metadata plus the file entries.
type Manifest struct {
	Game          string
	FormatVersion int
	VersionID     string
	Name          string
	Summary       string
	// Dependencies maps "minecraft" and the loader name to versions.
	Dependencies map[string]string
	Files        []*Entry

	extra map[string]json.RawMessage
}

// ProjectID derives the upstream project identifier from the entry's
// canonical download URL. The ID is a fixed positional path segment
// (…/data/<id>/versions/…). ErrMalformedEntry is returned when the URL has
// too few segments.
func (e *Entry) ProjectID() (string, error) {
	if len(e.Downloads) == 0 {
		return "", fmt.Errorf("%w: no download URLs", ErrMalformedEntry)
	}
	segments := strings.Split(e.Downloads[0], "/")
	if len(segments) < 5 || segments[4] == "" {
		return "", fmt.Errorf("%w: cannot derive project id from %q", ErrMalformedEntry, e.Downloads[0])
	}
	return segments[4], nil
}

// GameVersion returns the minecraft version from the dependency set.
func (m *Manifest) GameVersion() (string, bool) {
	v, ok := m.Dependencies["minecraft"]
	return v, ok && v != ""
}

// Loader returns the configured mod loader and its version.
func (m *Manifest) Loader() (name, version string, ok bool) {
	for _, loader := range knownLoaders {
		if v, present := m.Dependencies[loader]; present && v != "" {
			return loader, v, true
		}
	}
	return "", "", false
}

// SetLoader replaces any configured loader with the given one.
func (m *Manifest) SetLoader(name, version string) {
	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}
	for _, loader := range knownLoaders {
		delete(m.Dependencies, loader)
	}
	m.Dependencies[name] = version
}

// AddEntry appends a file entry to the manifest.
func (m *Manifest) AddEntry(e *Entry) {
	m.Files = append(m.Files, e)
}

// RemoveByProject removes all entries whose derived project ID matches.
// It returns the number of entries removed; malformed entries are kept.
func (m *Manifest) RemoveByProject(projectID string) int {
	kept := m.Files[:0]
	removed := 0
	for _, e := range m.Files {
		id, err := e.ProjectID()
		if err == nil && id == projectID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.Files = kept
	return removed
}

// Validate checks manifest invariants: every entry path must be unique.
func (m *Manifest) Validate() error {
	seen := make(map[string]struct{}, len(m.Files))
	for _, e := range m.Files {
		if e.Path == "" {
			continue
		}
		if _, dup := seen[e.Path]; dup {
			return fmt.Errorf("duplicate entry path: %s", e.Path)
		}
		seen[e.Path] = struct{}{}
	}
	return nil
}

// sortedExtraKeys returns the unknown field names in deterministic order.
func sortedExtraKeys(extra map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
