// Package manifest reads and rewrites the package manifest (package.json)
// without disturbing its key order.
package manifest

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Filename is the manifest file name inside the project root.
const Filename = "package.json"

// Manifest is a package manifest on disk.
type Manifest struct {
	Path string
	root *Object
}

// Load reads the manifest at path.
func Load(path string) (*Manifest, error) {
	m := &Manifest{Path: path}
	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadDir reads the manifest in a project root.
func LoadDir(root string) (*Manifest, error) {
	return Load(filepath.Join(root, Filename))
}

func (m *Manifest) reload() error {
	data, err := os.ReadFile(m.Path) // #nosec G304
	if err != nil {
		return errors.Wrapf(err, "read manifest %s", m.Path)
	}
	root, err := Decode(data)
	if err != nil {
		return errors.Wrapf(err, "parse manifest %s", m.Path)
	}
	m.root = root
	return nil
}

// Name returns the package name.
func (m *Manifest) Name() string {
	return m.root.String("name")
}

// Version returns the package version.
func (m *Manifest) Version() string {
	return m.root.String("version")
}

// PublishRegistry returns publishConfig.registry, which takes precedence
// over the registry given on the command line.
func (m *Manifest) PublishRegistry() string {
	return m.root.String("publishConfig.registry")
}

// Registry resolves the effective registry for publishing.
func (m *Manifest) Registry(fallback string) string {
	if r := m.PublishRegistry(); r != "" {
		return r
	}
	return fallback
}

// Update re-reads the manifest from disk, merges patch into it and writes it
// back.
func (m *Manifest) Update(patch *Object) error {
	if err := m.reload(); err != nil {
		return err
	}
	Merge(m.root, patch)

	data, err := m.root.MarshalIndent()
	if err != nil {
		return errors.Wrapf(err, "encode manifest %s", m.Path)
	}
	if err := os.WriteFile(m.Path, data, 0644); err != nil { // #nosec G306
		return errors.Wrapf(err, "write manifest %s", m.Path)
	}
	return nil
}

// SetVersion writes a new version into the manifest.
func (m *Manifest) SetVersion(version string) error {
	patch := NewObject()
	patch.Set("version", version)
	return m.Update(patch)
}
