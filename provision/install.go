// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package provision

import (
	"github.com/juju/errors"

	"github.com/juju/mysqlsetup/internal/debconf"
)

// InstallOutcome reports which branch the installation gate took.
type InstallOutcome string

const (
	// AlreadyPresent means the server package was installed before
	// this run and installation was skipped entirely.
	AlreadyPresent InstallOutcome = "already-present"
	// NewlyInstalled means this run seeded the installer and
	// installed the package.
	NewlyInstalled InstallOutcome = "newly-installed"
)

// The installer's password questions, relative to the package name.
const (
	rootPasswordQuestion      = "/root_password"
	rootPasswordAgainQuestion = "/root_password_again"
)

func (p *Provisioner) passwordQuestions() []string {
	return []string{
		p.cfg.PackageName + rootPasswordQuestion,
		p.cfg.PackageName + rootPasswordAgainQuestion,
	}
}

// ensureInstalled installs the server package when it is absent,
// seeding the installer's set-password and confirm-password questions
// with the resolved credential first. The questions are then cleared
// in BOTH branches, not just the one that seeded them: an earlier run
// may have died between seed and install, and a stale password left
// in the debconf database outlives it. On the already-present branch
// the clear is a harmless no-op.
func (p *Provisioner) ensureInstalled(facts *Facts) (InstallOutcome, error) {
	installed, err := p.cfg.Packages.IsInstalled(p.cfg.PackageName)
	if err != nil {
		return "", errors.Trace(err)
	}
	facts.PackageInstalled = installed

	outcome := AlreadyPresent
	if installed {
		logger.Infof("%s already installed, skipping installation", p.cfg.PackageName)
	} else {
		for _, question := range p.passwordQuestions() {
			err := p.cfg.Preseed.SetAnswer(
				p.cfg.PackageName, question, debconf.Password, facts.RootPassword)
			if err != nil {
				return "", errors.Annotate(err, "seeding installer answers")
			}
		}
		if err := p.cfg.Packages.Install(p.cfg.PackageName); err != nil {
			return "", errors.Trace(err)
		}
		logger.Infof("installed %s", p.cfg.PackageName)
		outcome = NewlyInstalled
	}

	for _, question := range p.passwordQuestions() {
		if err := p.cfg.Preseed.ClearAnswer(p.cfg.PackageName, question); err != nil {
			return "", errors.Annotate(err, "clearing installer answers")
		}
	}
	return outcome, nil
}
