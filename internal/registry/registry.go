package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/unicode/norm"
)

// Validation errors returned by Load. All of them are startup-fatal: the
// worker refuses to serve a registry that fails any of these checks.
var (
	ErrInvalidTag      = errors.New("invalid language tag")
	ErrInvalidEntry    = errors.New("invalid registry entry")
	ErrDuplicateTag    = errors.New("duplicate canonical tag")
	ErrDuplicateAlias  = errors.New("duplicate alias")
	ErrMissingResource = errors.New("resource not found")
)

// Entry describes one registered language: its canonical tag, display name,
// alias tags that resolve directly to it, and the path of the resource it
// serves. All tags are stored normalized.
type Entry struct {
	Tag      string
	Name     string
	Aliases  []string
	Resource string
}

// Registry is the immutable snapshot of all registered languages, in
// registry-file order. It is built once at startup and shared read-only
// across every request handler.
type Registry struct {
	entries []*Entry
}

// Entries returns the registered languages in declaration order.
// Callers must not modify the returned entries.
func (r *Registry) Entries() []*Entry {
	return r.entries
}

// Len returns the number of registered languages.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Tags returns all canonical tags, sorted.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		tags = append(tags, entry.Tag)
	}
	sort.Strings(tags)
	return tags
}

type registryFile struct {
	Languages []entryConfig `toml:"languages"`
}

type entryConfig struct {
	Tag      string   `toml:"tag"`
	Name     string   `toml:"name"`
	Aliases  []string `toml:"aliases"`
	Resource string   `toml:"resource"`
}

// Load parses and validates the registry file at path. Relative resource
// paths are resolved against the registry file's directory, and every
// referenced resource must exist as a regular file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	reg, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return reg, nil
}

// Parse builds a validated Registry from raw TOML. baseDir anchors relative
// resource paths; pass "" to leave them as written.
func Parse(data []byte, baseDir string) (*Registry, error) {
	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if len(file.Languages) == 0 {
		return nil, fmt.Errorf("%w: registry declares no languages", ErrInvalidEntry)
	}

	canonical := make(map[string]struct{}, len(file.Languages))
	aliases := make(map[string]string, len(file.Languages))
	entries := make([]*Entry, 0, len(file.Languages))

	for i, raw := range file.Languages {
		tag, err := NormalizeTag(raw.Tag)
		if err != nil {
			return nil, fmt.Errorf("languages[%d]: canonical tag %q: %w", i, raw.Tag, err)
		}
		if raw.Name == "" {
			return nil, fmt.Errorf("%w: languages[%d] (%s) has no name", ErrInvalidEntry, i, tag)
		}
		if raw.Resource == "" {
			return nil, fmt.Errorf("%w: languages[%d] (%s) has no resource", ErrInvalidEntry, i, tag)
		}
		if _, ok := canonical[tag]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTag, tag)
		}
		if owner, ok := aliases[tag]; ok {
			return nil, fmt.Errorf("%w: %s is already an alias of %s", ErrDuplicateAlias, tag, owner)
		}
		canonical[tag] = struct{}{}

		entry := &Entry{
			Tag: tag,
			// Display names arrive from hand-edited TOML; NFC keeps
			// composed and decomposed spellings comparable downstream.
			Name:     norm.NFC.String(raw.Name),
			Resource: resolveResource(raw.Resource, baseDir),
		}
		for _, rawAlias := range raw.Aliases {
			alias, err := NormalizeTag(rawAlias)
			if err != nil {
				return nil, fmt.Errorf("languages[%d] (%s): alias %q: %w", i, tag, rawAlias, err)
			}
			if _, ok := canonical[alias]; ok {
				return nil, fmt.Errorf("%w: alias %s collides with canonical tag", ErrDuplicateAlias, alias)
			}
			if owner, ok := aliases[alias]; ok {
				return nil, fmt.Errorf("%w: %s claimed by both %s and %s", ErrDuplicateAlias, alias, owner, tag)
			}
			aliases[alias] = tag
			entry.Aliases = append(entry.Aliases, alias)
		}
		entries = append(entries, entry)
	}

	reg := &Registry{entries: entries}
	if err := reg.checkResources(); err != nil {
		return nil, err
	}
	return reg, nil
}

func resolveResource(resource, baseDir string) string {
	if baseDir == "" || filepath.IsAbs(resource) {
		return filepath.Clean(resource)
	}
	return filepath.Join(baseDir, resource)
}

func (r *Registry) checkResources() error {
	for _, entry := range r.entries {
		info, err := os.Stat(entry.Resource)
		if err != nil {
			return fmt.Errorf("%w: %s references %s: %v", ErrMissingResource, entry.Tag, entry.Resource, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: %s references directory %s", ErrMissingResource, entry.Tag, entry.Resource)
		}
	}
	return nil
}
