package model

// CommandSpec is an external command with its arguments.
type CommandSpec struct {
	Command string   `json:"command" yaml:"command"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// AuditConfig selects the pre-release auditor commands. An empty command
// skips the audit.
type AuditConfig struct {
	Files        CommandSpec `json:"files" yaml:"files"`
	Dependencies CommandSpec `json:"dependencies" yaml:"dependencies"`
}

// ReleaseProfile bundles the per-project release settings.
type ReleaseProfile struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	Audits AuditConfig `json:"audits" yaml:"audits"`

	// Stage lists extra files committed with the release.
	Stage []string `json:"stage,omitempty" yaml:"stage,omitempty"`

	// GitHubRelease creates a GitHub release after pushing.
	GitHubRelease bool `json:"githubRelease" yaml:"githubRelease"`
}
