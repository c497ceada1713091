// Package config loads release profiles.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/grokify/releaseconductor/pkg/model"
)

// LoadProfileFromFile loads a release profile from a YAML file.
func LoadProfileFromFile(path string) (*model.ReleaseProfile, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "failed to read profile file")
	}

	profile, err := LoadProfileFromBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "profile file %s", cleanPath)
	}
	return profile, nil
}

// LoadProfileFromBytes loads a release profile from YAML bytes.
func LoadProfileFromBytes(data []byte) (*model.ReleaseProfile, error) {
	var profile model.ReleaseProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to parse profile")
	}
	return &profile, nil
}

// SaveProfileToFile saves a release profile to a YAML file.
func SaveProfileToFile(profile *model.ReleaseProfile, path string) error {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "failed to marshal profile")
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write profile file")
	}

	return nil
}

// Resolve returns the profile read from file when set, otherwise the
// built-in profile called name.
func Resolve(name, file string) (*model.ReleaseProfile, error) {
	if file != "" {
		return LoadProfileFromFile(file)
	}
	if p := GetProfile(name); p != nil {
		return p, nil
	}
	return nil, errors.Newf("unknown profile %q (available: %v)", name, ListProfiles())
}
