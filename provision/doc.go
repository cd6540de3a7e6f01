// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package provision implements the host-local workflow that turns a
// bare Debian-family machine into a configured MySQL server: it
// resolves a persisted root credential, installs the server package
// with its installer questions pre-seeded, relocates the data
// directory when the operator asks for it, and finishes with light
// post-install housekeeping.
//
// The workflow is strictly sequential and converges: running it a
// second time against an already provisioned host changes nothing.
// All interaction with the host goes through the collaborator
// interfaces declared in this package, so the decision logic is fully
// testable without touching apt, debconf, systemd or the filesystem.
package provision
