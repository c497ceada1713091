package config

import (
	"github.com/grokify/releaseconductor/pkg/model"
)

// Predefined release profiles.
var (
	// ProfileNode audits package.files with ypkgfiles and dependencies with
	// autod before publishing.
	ProfileNode = model.ReleaseProfile{
		Name:        "node",
		Description: "Check package files and dependencies before publishing",

		Audits: model.AuditConfig{
			Files: model.CommandSpec{
				Command: "npx",
				Args: []string{
					"ypkgfiles",
					"--entry", "app",
					"--entry", "config",
					"--entry", "*.js",
					"--check",
				},
			},
			Dependencies: model.CommandSpec{
				Command: "npx",
				Args:    []string{"autod", "--check"},
			},
		},
	}

	// ProfileMinimal skips every audit.
	ProfileMinimal = model.ReleaseProfile{
		Name:        "minimal",
		Description: "No audits, only the changelog question",
	}
)

// GetProfile returns a copy of a release profile by name, or nil.
func GetProfile(name string) *model.ReleaseProfile {
	var p model.ReleaseProfile
	switch name {
	case "node":
		p = ProfileNode
	case "minimal":
		p = ProfileMinimal
	default:
		return nil
	}
	return &p
}

// ListProfiles returns all available profile names.
func ListProfiles() []string {
	return []string{"node", "minimal"}
}
