// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package fsops provides the filesystem primitives used when
// provisioning a database host: existence checks, archival tree
// copies, recursive ownership and mode changes, and line-oriented
// edits of configuration files.
package fsops

import (
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("mysqlsetup.fsops")

// Info describes what, if anything, exists at a path.
type Info struct {
	Exists bool
	IsDir  bool
}

// Ops performs filesystem operations on the local host.
type Ops struct{}

// Stat reports whether path exists and whether it is a directory.
// A missing path is not an error.
func (Ops) Stat(path string) (Info, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Info{}, nil
	} else if err != nil {
		return Info{}, errors.Trace(err)
	}
	return Info{Exists: true, IsDir: fi.IsDir()}, nil
}

// ReadFile returns the contents of the file at path.
func (Ops) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return data, nil
}

// WriteFile writes data to path with the given mode, creating the
// file if necessary and truncating it otherwise.
func (Ops) WriteFile(path string, data []byte, mode os.FileMode) error {
	if err := os.WriteFile(path, data, mode); err != nil {
		return errors.Trace(err)
	}
	// Make the actual permissions match the requested permissions
	// even in the presence of umask.
	return errors.Trace(os.Chmod(path, mode))
}

// RemoveAll removes path and everything below it.
func (Ops) RemoveAll(path string) error {
	logger.Debugf("removing %s", path)
	return errors.Trace(os.RemoveAll(path))
}

// ChownRecursive changes the ownership of path and everything below
// it to the named user and group. Symbolic links themselves are
// re-owned; their targets are left alone.
func (Ops) ChownRecursive(path, owner, group string) error {
	usr, err := user.Lookup(owner)
	if err != nil {
		return errors.Annotatef(err, "looking up user %q", owner)
	}
	grp, err := user.LookupGroup(group)
	if err != nil {
		return errors.Annotatef(err, "looking up group %q", group)
	}
	uid, err := strconv.Atoi(usr.Uid)
	if err != nil {
		return errors.Trace(err)
	}
	gid, err := strconv.Atoi(grp.Gid)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(filepath.Walk(path, func(p string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return os.Lchown(p, uid, gid)
	}))
}

// ChmodRecursive changes the mode of path and everything below it.
// Symbolic links are skipped since chmod would follow them.
func (Ops) ChmodRecursive(path string, mode os.FileMode) error {
	return errors.Trace(filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		return os.Chmod(p, mode)
	}))
}
