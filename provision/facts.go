// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package provision

// Facts accumulates what a run has observed and decided. Entries are
// only ever added as phases execute, never reset mid-run, so a later
// phase can gate on what an earlier one established.
type Facts struct {
	// CredentialFileExists records whether the credential file was
	// already present when the run started.
	CredentialFileExists bool

	// RootPassword is the resolved credential. Exactly one
	// authoritative value per run; immutable once set.
	RootPassword string

	// PackageInstalled records whether the server package was present
	// before the installation gate ran.
	PackageInstalled bool

	// DefaultDataDirExists records whether the platform default data
	// directory held data when the relocator looked.
	DefaultDataDirExists bool

	// TargetDataDir is the operator-supplied relocation target, empty
	// when no relocation was requested.
	TargetDataDir string

	// ConfigFileExists records, per rewrite target, whether the file
	// was present when the relocator considered it.
	ConfigFileExists map[string]bool

	// ApparmorEdited records whether the apparmor policy file was
	// actually changed, which is what gates the apparmor restart.
	ApparmorEdited bool

	// UnitEdited records whether the service unit definition changed,
	// which is what gates the daemon-reload.
	UnitEdited bool
}

// NewFacts returns an empty fact set for a fresh run.
func NewFacts() *Facts {
	return &Facts{ConfigFileExists: make(map[string]bool)}
}
