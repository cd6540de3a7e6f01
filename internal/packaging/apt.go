// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package packaging drives apt on the local host without ever
// blocking on a prompt from the user.
package packaging

import (
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/retry"
	"github.com/juju/utils/v4"
)

var logger = loggo.GetLogger("mysqlsetup.packaging")

// osRunCommand calls cmd.Run, this is used as an overloading point so
// we can test what *would* be run without actually executing another
// program.
func osRunCommand(cmd *exec.Cmd) error {
	return cmd.Run()
}

var runCommand = osRunCommand

// osCommandOutput calls cmd.Output, this is used as an overloading
// point so we can test what *would* be run without actually executing
// another program.
func osCommandOutput(cmd *exec.Cmd) ([]byte, error) {
	return cmd.Output()
}

var commandOutput = osCommandOutput

// This is the default apt-get command used in cloud-init, the various
// settings mean that apt won't actually block waiting for a prompt
// from the user:
//
//	--force-confold is passed to dpkg to never overwrite config files
//	--force-unsafe-io makes dpkg less sync-happy
//	--assume-yes to never prompt for confirmation
var aptGetCommand = []string{
	"apt-get", "--option=Dpkg::Options::=--force-confold",
	"--option=Dpkg::options::=--force-unsafe-io", "--assume-yes", "--quiet",
}

// aptGetEnvOptions are options we need to pass to apt-get to not have
// it prompt the user.
var aptGetEnvOptions = []string{"DEBIAN_FRONTEND=noninteractive"}

// apt-get exits 100 on transient failures such as a held dpkg lock or
// an unreachable mirror, so those invocations are worth retrying.
const aptTransientExitStatus = 100

var (
	aptRetryAttempts = 3
	aptRetryDelay    = 10 * time.Second
)

const installedStatus = "Status: install ok installed"

// AptManager runs apt operations on the local host.
type AptManager struct {
	clock clock.Clock
}

// NewAptManager returns an AptManager that uses the given clock to
// pace retries of transient apt failures.
func NewAptManager(clk clock.Clock) *AptManager {
	return &AptManager{clock: clk}
}

// RefreshIndex updates the apt package index.
func (m *AptManager) RefreshIndex() error {
	return errors.Annotate(m.runAptGet("update"), "refreshing package index")
}

// Install installs the named packages.
func (m *AptManager) Install(packages ...string) error {
	args := append([]string{"install"}, packages...)
	return errors.Annotatef(m.runAptGet(args...), "installing %s", strings.Join(packages, " "))
}

func (m *AptManager) runAptGet(args ...string) error {
	cmdArgs := append(append([]string(nil), aptGetCommand...), args...)
	return retry.Call(retry.CallArgs{
		Func: func() error {
			logger.Infof("running: %s", utils.CommandString(cmdArgs...))
			cmd := exec.Command(cmdArgs[0], cmdArgs[1:]...)
			cmd.Env = append(os.Environ(), aptGetEnvOptions...)
			return runCommand(cmd)
		},
		IsFatalError: func(err error) bool {
			return exitStatus(err) != aptTransientExitStatus
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Warningf("apt-get attempt %d failed: %v", attempt, err)
		},
		Attempts: aptRetryAttempts,
		Delay:    aptRetryDelay,
		Clock:    m.clock,
	})
}

// IsInstalled reports whether the named package is installed
// according to the dpkg database.
func (m *AptManager) IsInstalled(name string) (bool, error) {
	cmd := exec.Command("dpkg-query", "-s", name)
	out, err := commandOutput(cmd)
	if exitStatus(err) == 1 {
		// dpkg-query exits 1 for packages it has never heard of.
		return false, nil
	} else if err != nil {
		return false, errors.Annotatef(err, "querying package %q", name)
	}
	return strings.Contains(string(out), installedStatus), nil
}

// Search returns the names of available packages whose name matches
// pattern, an anchored apt-cache regular expression.
func (m *AptManager) Search(pattern string) ([]string, error) {
	cmd := exec.Command("apt-cache", "search", "--names-only", pattern)
	out, err := commandOutput(cmd)
	if err != nil {
		return nil, errors.Annotatef(err, "searching for %q", pattern)
	}
	names := set.NewStrings()
	for _, line := range strings.Split(string(out), "\n") {
		// Each line is "name - short description".
		if fields := strings.Fields(line); len(fields) > 0 {
			names.Add(fields[0])
		}
	}
	return names.SortedValues(), nil
}

func exitStatus(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
