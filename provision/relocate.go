// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package provision

import (
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/mysqlsetup/internal/systemd"
)

// RelocationOutcome reports whether the data directory was moved.
type RelocationOutcome string

const (
	// RelocationSkipped means no part of the relocation ran.
	RelocationSkipped RelocationOutcome = "skipped"
	// RelocationMoved means the data directory now lives at the
	// target and the default directory is gone.
	RelocationMoved RelocationOutcome = "moved"
)

const dataDirMode = 0770

// validateTargetDir checks that an operator-supplied target data
// directory actually exists as a directory. This runs whenever a
// target is configured, whether or not relocation turns out to be
// needed: a target with no directory behind it means an unmounted or
// mistyped volume, and carrying on would install a database onto the
// wrong disk.
func (p *Provisioner) validateTargetDir() error {
	if p.cfg.TargetDataDir == "" {
		return nil
	}
	info, err := p.cfg.FS.Stat(p.cfg.TargetDataDir)
	if err != nil {
		return errors.Trace(err)
	}
	if !info.Exists || !info.IsDir {
		return errors.Annotatef(ErrMissingTargetDir, "%s", p.cfg.TargetDataDir)
	}
	return nil
}

// relocateIfNeeded moves the server's data directory from the
// platform default to the configured target. The whole block is
// skipped atomically unless a target is configured, it differs from
// the default, and the default currently exists as a directory; there
// is no partial-relocation state. The decision is computed fresh from
// the filesystem, never cached.
//
// The sub-steps run in a fixed order chosen for failure safety: the
// service is stopped before its data is touched, the copy is additive
// and the default directory is only removed after the copy fully
// succeeded, so any failure up to that point leaves the original data
// usable.
func (p *Provisioner) relocateIfNeeded(facts *Facts) (RelocationOutcome, error) {
	if err := p.validateTargetDir(); err != nil {
		return "", errors.Trace(err)
	}

	target, defaultDir := p.cfg.TargetDataDir, p.cfg.DefaultDataDir
	defaultInfo, err := p.cfg.FS.Stat(defaultDir)
	if err != nil {
		return "", errors.Trace(err)
	}
	facts.DefaultDataDirExists = defaultInfo.Exists && defaultInfo.IsDir

	if target == "" || target == defaultDir || !facts.DefaultDataDirExists {
		logger.Debugf("data directory relocation not needed")
		return RelocationSkipped, nil
	}
	logger.Infof("relocating data directory from %s to %s", defaultDir, target)

	// The copy must not race with the server writing to its own data
	// directory.
	if err := p.cfg.Services.Stop(p.cfg.ServiceName); err != nil {
		return "", errors.Annotatef(err, "stopping service %q", p.cfg.ServiceName)
	}

	if err := p.cfg.FS.CopyTree(defaultDir, target); err != nil {
		return "", errors.Annotatef(ErrRelocationCopy, "%s to %s: %v", defaultDir, target, err)
	}

	rewritten := set.NewStrings()
	for _, path := range p.cfg.RewriteTargets {
		info, err := p.cfg.FS.Stat(path)
		if err != nil {
			return "", errors.Trace(err)
		}
		facts.ConfigFileExists[path] = info.Exists
		if !info.Exists {
			continue
		}
		changed, err := p.cfg.FS.ReplaceInFile(path, defaultDir, target)
		if err != nil {
			return "", errors.Annotatef(err, "rewriting %s", path)
		}
		if changed {
			rewritten.Add(path)
			if path == p.cfg.ApparmorPolicyFile {
				facts.ApparmorEdited = true
			}
		}
	}
	if !rewritten.IsEmpty() {
		logger.Infof("rewrote data directory references in %s",
			strings.Join(rewritten.SortedValues(), ", "))
	}

	// Apparmor only honours an edited policy after a restart. The
	// other config rewrites wait for the service start at the end of
	// the workflow.
	if facts.ApparmorEdited {
		if err := p.cfg.Services.Restart(p.cfg.ApparmorServiceName); err != nil {
			return "", errors.Annotatef(err, "restarting %q", p.cfg.ApparmorServiceName)
		}
	}

	if err := p.cfg.FS.RemoveAll(defaultDir); err != nil {
		return "", errors.Annotatef(err, "removing %s", defaultDir)
	}

	if err := p.cfg.FS.ChownRecursive(target, p.cfg.ServiceAccount, p.cfg.ServiceAccount); err != nil {
		return "", errors.Trace(err)
	}
	if err := p.cfg.FS.ChmodRecursive(target, dataDirMode); err != nil {
		return "", errors.Trace(err)
	}

	// Refuse future starts while the target is unavailable, e.g. an
	// unmounted volume.
	unitChanged, err := systemd.EnsureUnitCondition(p.cfg.FS, p.cfg.UnitFile, target)
	if err != nil {
		return "", errors.Trace(err)
	}
	facts.UnitEdited = unitChanged
	if unitChanged {
		if err := p.cfg.Services.DaemonReload(); err != nil {
			return "", errors.Trace(err)
		}
	}

	return RelocationMoved, nil
}
