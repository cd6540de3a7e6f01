// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Command mysqlsetup converges a Debian-family host to a running,
// credentialled MySQL server, optionally relocating its data
// directory onto a prepared volume.
package main

import (
	"fmt"
	"os"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"
	jujuos "github.com/juju/os/v2"

	"github.com/juju/mysqlsetup/internal/debconf"
	"github.com/juju/mysqlsetup/internal/fsops"
	"github.com/juju/mysqlsetup/internal/mysqladmin"
	"github.com/juju/mysqlsetup/internal/packaging"
	"github.com/juju/mysqlsetup/internal/systemd"
	"github.com/juju/mysqlsetup/provision"
)

var logger = loggo.GetLogger("mysqlsetup")

const loggingConfigEnvKey = "MYSQLSETUP_LOGGING_CONFIG"

// Patched in tests.
var (
	hostOS           = jujuos.HostOS
	systemdIsRunning = systemd.IsRunning
	euid             = os.Geteuid
)

type commandLineArgs struct {
	configFile    string
	targetDataDir string
	loggingConfig string
	showVersion   bool
}

const version = "1.0.0"

func commandLine(args []string) (commandLineArgs, error) {
	flags := gnuflag.NewFlagSet("mysqlsetup", gnuflag.ContinueOnError)
	var a commandLineArgs
	flags.StringVar(&a.configFile, "config", "",
		"path to a YAML file overriding the conventional settings")
	flags.StringVar(&a.targetDataDir, "target-data-dir", "",
		"relocate the server's data directory to this existing directory")
	flags.StringVar(&a.loggingConfig, "logging-config", "",
		"loggo configuration string, e.g. <root>=DEBUG")
	flags.BoolVar(&a.showVersion, "version", false,
		"print the version and exit")
	if err := flags.Parse(true, args); err != nil {
		return commandLineArgs{}, errors.Trace(err)
	}
	if a.loggingConfig == "" {
		a.loggingConfig = os.Getenv(loggingConfigEnvKey)
	}
	if a.loggingConfig == "" {
		a.loggingConfig = "<root>=INFO"
	}
	return a, nil
}

// checkHost refuses to run anywhere the workflow could not converge:
// a non-Debian-family OS, a host not booted with systemd, or an
// unprivileged invocation.
func checkHost() error {
	switch osType := hostOS(); osType {
	case jujuos.Ubuntu, jujuos.GenericLinux:
	default:
		return errors.NotSupportedf("host OS %q", osType)
	}
	if !systemdIsRunning() {
		return errors.NotSupportedf("hosts not managed by systemd")
	}
	if euid() != 0 {
		return errors.Errorf("must run as root")
	}
	return nil
}

func run(args commandLineArgs) error {
	if err := checkHost(); err != nil {
		return errors.Trace(err)
	}
	cfg, err := readSetupConfig(args.configFile)
	if err != nil {
		return errors.Trace(err)
	}
	if args.targetDataDir != "" {
		cfg.TargetDataDir = args.targetDataDir
	}

	p, err := provision.NewProvisioner(provision.Config{
		Packages: packaging.NewAptManager(clock.WallClock),
		Preseed:  debconf.Selections{},
		Services: systemd.NewManager(systemd.NewDBusAPI),
		FS:       fsops.Ops{},
		Admin:    mysqladmin.NewClient(cfg.CredentialFile),
		Clock:    clock.WallClock,

		PackageName:          cfg.Package,
		ServiceName:          cfg.Service,
		ApparmorServiceName:  cfg.ApparmorService,
		ApparmorPolicyFile:   cfg.ApparmorPolicyFile,
		CredentialFile:       cfg.CredentialFile,
		DefaultDataDir:       cfg.DefaultDataDir,
		TargetDataDir:        cfg.TargetDataDir,
		RewriteTargets:       cfg.RewriteFiles,
		UnitFile:             cfg.UnitFile,
		ServiceAccount:       cfg.ServiceAccount,
		ClientPackagePattern: cfg.ClientPattern,
	})
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(p.Run())
}

func main() {
	args, err := commandLine(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if args.showVersion {
		fmt.Println(version)
		return
	}
	if err := loggo.ConfigureLoggers(args.loggingConfig); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(2)
	}
	if err := run(args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
