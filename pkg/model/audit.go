package model

// AuditOutcome is the result of a single pre-release audit.
type AuditOutcome string

const (
	// AuditPassed means the auditor command succeeded.
	AuditPassed AuditOutcome = "passed"

	// AuditConfirmed means the auditor failed but the operator vouched for it.
	AuditConfirmed AuditOutcome = "confirmed"

	// AuditDeclined means the auditor failed and the operator agreed.
	AuditDeclined AuditOutcome = "declined"

	// AuditSkipped means no auditor command is configured.
	AuditSkipped AuditOutcome = "skipped"
)

// Accepted reports whether the outcome allows the release to continue.
func (o AuditOutcome) Accepted() bool {
	return o != AuditDeclined
}

// PreCheck is the combined answer of the pre-release checks.
type PreCheck struct {
	Files        AuditOutcome `json:"files"`
	Dependencies AuditOutcome `json:"dependencies"`

	// Changelog reports whether the operator wants the changelog updated.
	Changelog bool `json:"changelog"`

	// Rejected is set when the operator abandoned the checks altogether.
	Rejected bool `json:"rejected"`
}

// Declined returns the name of the first declined audit, or "".
func (p PreCheck) Declined() string {
	if !p.Files.Accepted() {
		return "files"
	}
	if !p.Dependencies.Accepted() {
		return "dependencies"
	}
	return ""
}
