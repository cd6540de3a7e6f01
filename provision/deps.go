// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package provision

import (
	"os"

	"github.com/juju/mysqlsetup/internal/debconf"
	"github.com/juju/mysqlsetup/internal/fsops"
	"github.com/juju/mysqlsetup/internal/mysqladmin"
)

// PackageManager is the package-manager collaborator. The real
// implementation drives apt; see internal/packaging.
type PackageManager interface {
	RefreshIndex() error
	IsInstalled(name string) (bool, error)
	Install(packages ...string) error
	Search(pattern string) ([]string, error)
}

// Preseeder answers an interactive installer's questions ahead of
// invocation; see internal/debconf.
type Preseeder interface {
	SetAnswer(owner, question string, vtype debconf.ValueType, value string) error
	ClearAnswer(owner, question string) error
}

// ServiceManager controls init system services; see internal/systemd.
type ServiceManager interface {
	Start(name string) error
	Stop(name string) error
	Restart(name string) error
	DaemonReload() error
}

// FileSystemOps is the filesystem collaborator; see internal/fsops.
type FileSystemOps interface {
	Stat(path string) (fsops.Info, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, mode os.FileMode) error
	CopyTree(src, dst string) error
	RemoveAll(path string) error
	ChownRecursive(path, owner, group string) error
	ChmodRecursive(path string, mode os.FileMode) error
	ReplaceInFile(path, old, new string) (bool, error)
	EnsureLine(path, line, match, anchor string) (bool, error)
}

// DatabaseAdmin performs post-install housekeeping against the
// running server; see internal/mysqladmin.
type DatabaseAdmin interface {
	DropTestDatabase() error
	ListUsers() ([]mysqladmin.User, error)
}
