// Package templates serves the canonical file sets each archetype starts from.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/dotcommander/sitegen/internal/domain/site"
)

//go:embed files
var embedded embed.FS

// featuresDir holds per-feature file sets; every other top-level directory
// is an archetype
const featuresDir = "features"

// ErrUnknownArchetype is matched by every UnknownArchetypeError
var ErrUnknownArchetype = errors.New("unknown archetype")

// UnknownArchetypeError reports an archetype with no registered template
type UnknownArchetypeError struct {
	Archetype site.Archetype
}

func (e *UnknownArchetypeError) Error() string {
	return fmt.Sprintf("no template registered for archetype %q", e.Archetype)
}

func (e *UnknownArchetypeError) Is(target error) bool {
	return target == ErrUnknownArchetype
}

// Registry holds the file sets loaded from a template tree laid out as
// <archetype>/<path> and features/<feature>/<path>
type Registry struct {
	archetypes map[site.Archetype]site.FileSet
	features   map[string]site.FileSet
}

// Default loads the embedded canonical templates
func Default() (*Registry, error) {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		return nil, fmt.Errorf("open embedded templates: %w", err)
	}
	return Load(sub)
}

// Load reads every file set from fsys
func Load(fsys fs.FS) (*Registry, error) {
	r := &Registry{
		archetypes: make(map[site.Archetype]site.FileSet),
		features:   make(map[string]site.FileSet),
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		parts := strings.SplitN(p, "/", 3)
		if len(parts) < 2 {
			return fmt.Errorf("template %s is outside an archetype directory", p)
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read template %s: %w", p, err)
		}

		if parts[0] == featuresDir {
			if len(parts) < 3 {
				return fmt.Errorf("feature template %s is outside a feature directory", p)
			}
			set(r.features, parts[1], parts[2], string(data))
			return nil
		}
		set(r.archetypes, site.Archetype(parts[0]), path.Join(parts[1:]...), string(data))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

func set[K comparable](m map[K]site.FileSet, key K, p, content string) {
	if m[key] == nil {
		m[key] = make(site.FileSet)
	}
	m[key][p] = content
}

// Instantiate returns a fresh copy of the archetype's file set.
// Customizations are accepted but do not change the files yet.
func (r *Registry) Instantiate(archetype site.Archetype, customization site.Customization) (site.FileSet, error) {
	files, ok := r.archetypes[archetype]
	if !ok {
		return nil, &UnknownArchetypeError{Archetype: archetype}
	}
	return files.Clone(), nil
}

// FeatureFiles returns a fresh copy of the files that implement feature
func (r *Registry) FeatureFiles(feature string) (site.FileSet, bool) {
	files, ok := r.features[feature]
	if !ok {
		return nil, false
	}
	return files.Clone(), true
}

// Archetypes lists the registered archetypes in lexical order
func (r *Registry) Archetypes() []site.Archetype {
	out := make([]site.Archetype, 0, len(r.archetypes))
	for a := range r.archetypes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Features lists the features that have files, in lexical order
func (r *Registry) Features() []string {
	out := make([]string, 0, len(r.features))
	for f := range r.features {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
