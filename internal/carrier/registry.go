package carrier

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

// Registry holds the loaded carrier profiles, keyed by carrier ID.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry loads the embedded default profiles.
func NewRegistry() (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile)}
	if err := r.loadFS(embeddedProfiles, "profiles"); err != nil {
		return nil, fmt.Errorf("load embedded profiles: %w", err)
	}
	return r, nil
}

// NewRegistryFromDir loads profiles from a directory of YAML files,
// falling back to the embedded defaults for carriers not present there.
func NewRegistryFromDir(dir string) (*Registry, error) {
	r, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read profile dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read profile %s: %w", entry.Name(), err)
		}
		if err := r.register(data); err != nil {
			return nil, fmt.Errorf("profile %s: %w", entry.Name(), err)
		}
	}
	return r, nil
}

func (r *Registry) loadFS(fsys fs.FS, root string) error {
	return fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		if err := r.register(data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
}

func (r *Registry) register(data []byte) error {
	profile := &Profile{}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return fmt.Errorf("parse profile: %w", err)
	}
	profile.ApplyDefaults()
	if err := profile.Validate(); err != nil {
		return err
	}
	r.profiles[profile.ID] = profile
	return nil
}

// Get returns the profile for a carrier ID (case-insensitive).
func (r *Registry) Get(id string) (*Profile, error) {
	profile, ok := r.profiles[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("unknown carrier %q", id)
	}
	return profile, nil
}

// IDs returns the sorted list of registered carrier IDs.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
