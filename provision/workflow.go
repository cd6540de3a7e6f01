// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package provision

import (
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/mutex/v2"

	"github.com/juju/mysqlsetup/internal/systemd"
)

var logger = loggo.GetLogger("mysqlsetup.provision")

// Conventional values for provisioning the MySQL server package on a
// Debian-family host.
const (
	DefaultPackageName    = "mysql-server"
	DefaultServiceName    = "mysql"
	DefaultCredentialFile = "/root/.my.cnf"
	DefaultDataDir        = "/var/lib/mysql"
	DefaultUnitFile       = systemd.LibSystemdDir + "/mysql.service"
	DefaultServiceAccount = "mysql"
	DefaultClientPattern  = "^mysql-client$"

	DefaultApparmorServiceName = "apparmor"
	DefaultApparmorPolicyFile  = "/etc/apparmor.d/usr.sbin.mysqld"
)

// DefaultRewriteTargets are the files known to reference the default
// data directory on a stock install.
var DefaultRewriteTargets = []string{
	"/etc/mysql/my.cnf",
	"/etc/mysql/mysql.conf.d/mysqld.cnf",
	"/etc/apparmor.d/usr.sbin.mysqld",
	"/etc/apparmor.d/tunables/alias",
}

// Only one provisioning run may touch the host at a time; the data
// directory and credential file are not safe under concurrent edits.
const hostLockName = "mysqlsetup"

// Config holds the collaborators and host-specific values a
// Provisioner needs.
type Config struct {
	Packages PackageManager
	Preseed  Preseeder
	Services ServiceManager
	FS       FileSystemOps
	Admin    DatabaseAdmin
	Clock    clock.Clock

	// PackageName is the server package to converge on.
	PackageName string
	// ServiceName is the init system service the package ships.
	ServiceName string
	// ApparmorServiceName is restarted when the apparmor policy
	// changes.
	ApparmorServiceName string
	// ApparmorPolicyFile is the policy covering the server binary.
	ApparmorPolicyFile string
	// CredentialFile persists the root credential between runs.
	CredentialFile string
	// DefaultDataDir is the platform default data directory.
	DefaultDataDir string
	// TargetDataDir, when non-empty and different from the default,
	// asks for the data directory to be relocated there.
	TargetDataDir string
	// RewriteTargets are the files whose references to the default
	// data directory get rewritten on relocation.
	RewriteTargets []string
	// UnitFile is the service's unit definition.
	UnitFile string
	// ServiceAccount owns the data directory, as user and group.
	ServiceAccount string
	// ClientPackagePattern finds the auxiliary client tooling to
	// install once the server is up.
	ClientPackagePattern string
}

// Validate returns an error if the config is not usable.
func (cfg Config) Validate() error {
	if cfg.Packages == nil {
		return errors.NotValidf("nil Packages")
	}
	if cfg.Preseed == nil {
		return errors.NotValidf("nil Preseed")
	}
	if cfg.Services == nil {
		return errors.NotValidf("nil Services")
	}
	if cfg.FS == nil {
		return errors.NotValidf("nil FS")
	}
	if cfg.Admin == nil {
		return errors.NotValidf("nil Admin")
	}
	if cfg.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if cfg.PackageName == "" {
		return errors.NotValidf("empty PackageName")
	}
	if cfg.ServiceName == "" {
		return errors.NotValidf("empty ServiceName")
	}
	if cfg.CredentialFile == "" {
		return errors.NotValidf("empty CredentialFile")
	}
	if cfg.DefaultDataDir == "" {
		return errors.NotValidf("empty DefaultDataDir")
	}
	if cfg.UnitFile == "" {
		return errors.NotValidf("empty UnitFile")
	}
	if cfg.ServiceAccount == "" {
		return errors.NotValidf("empty ServiceAccount")
	}
	return nil
}

// Provisioner runs the workflow described in the package
// documentation.
type Provisioner struct {
	cfg Config
}

// NewProvisioner returns a Provisioner for the given config.
func NewProvisioner(cfg Config) (*Provisioner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Provisioner{cfg: cfg}, nil
}

// Run executes the provisioning workflow to convergence, holding a
// host-scoped lock for the duration so concurrent invocations cannot
// interleave.
func (p *Provisioner) Run() error {
	releaser, err := mutex.Acquire(mutex.Spec{
		Name:  hostLockName,
		Clock: p.cfg.Clock,
		Delay: 250 * time.Millisecond,
	})
	if err != nil {
		return errors.Annotate(err, "acquiring host lock")
	}
	defer releaser.Release()
	return errors.Trace(p.run())
}

func (p *Provisioner) run() error {
	facts := NewFacts()
	facts.TargetDataDir = p.cfg.TargetDataDir

	if err := p.cfg.Packages.RefreshIndex(); err != nil {
		return errors.Trace(err)
	}

	secret, generated, err := ResolveCredential(p.cfg.FS, p.cfg.CredentialFile)
	if err != nil {
		return errors.Trace(err)
	}
	facts.CredentialFileExists = !generated
	facts.RootPassword = secret

	// Catch an unmounted or mistyped target before installing
	// anything; the relocator checks again before acting.
	if err := p.validateTargetDir(); err != nil {
		return errors.Trace(err)
	}

	if _, err := p.ensureInstalled(facts); err != nil {
		return errors.Trace(err)
	}

	relocated, err := p.relocateIfNeeded(facts)
	if err != nil {
		return errors.Trace(err)
	}

	if relocated == RelocationMoved {
		err = p.cfg.Services.Restart(p.cfg.ServiceName)
	} else {
		err = p.cfg.Services.Start(p.cfg.ServiceName)
	}
	if err != nil {
		return errors.Annotatef(err, "starting service %q", p.cfg.ServiceName)
	}

	if err := p.installClientTooling(); err != nil {
		return errors.Trace(err)
	}

	return errors.Trace(p.cleanup())
}

// installClientTooling discovers and installs the auxiliary client
// package. A host with no matching package available is logged and
// tolerated; the server itself is already converged.
func (p *Provisioner) installClientTooling() error {
	if p.cfg.ClientPackagePattern == "" {
		return nil
	}
	matches, err := p.cfg.Packages.Search(p.cfg.ClientPackagePattern)
	if err != nil {
		return errors.Trace(err)
	}
	if len(matches) == 0 {
		logger.Warningf("no package matches client tooling pattern %q", p.cfg.ClientPackagePattern)
		return nil
	}
	name := matches[0]
	installed, err := p.cfg.Packages.IsInstalled(name)
	if err != nil {
		return errors.Trace(err)
	}
	if installed {
		logger.Debugf("client tooling %s already installed", name)
		return nil
	}
	return errors.Trace(p.cfg.Packages.Install(name))
}

// cleanup drops the test database a fresh install ships with and
// reports the accounts present on the server.
func (p *Provisioner) cleanup() error {
	if err := p.cfg.Admin.DropTestDatabase(); err != nil {
		return errors.Annotate(err, "dropping test database")
	}
	users, err := p.cfg.Admin.ListUsers()
	if err != nil {
		return errors.Annotate(err, "listing database users")
	}
	accounts := set.NewStrings()
	for _, user := range users {
		accounts.Add(user.Name + "@" + user.Host)
	}
	logger.Infof("database users: %s", strings.Join(accounts.SortedValues(), ", "))
	return nil
}
