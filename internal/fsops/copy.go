// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package fsops

import (
	"io"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

// CopyTree recursively copies the contents of the directory src into
// the directory dst, which must already exist. File modes, ownership
// and timestamps are preserved. Symbolic links are copied as links
// and not followed. The source is never modified.
//
// If the copy fails part way through, dst may be left partially
// written; src is still intact and the copy can be retried after dst
// is cleaned up.
func (Ops) CopyTree(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return errors.Trace(err)
	}
	if !srcInfo.IsDir() {
		return errors.Errorf("source %q is not a directory", src)
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return errors.Trace(err)
	}
	if !dstInfo.IsDir() {
		return errors.Errorf("destination %q is not a directory", dst)
	}
	logger.Debugf("copying contents of %s to %s", src, dst)

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Trace(err)
	}
	for _, entry := range entries {
		if err := copyNode(
			filepath.Join(src, entry.Name()),
			filepath.Join(dst, entry.Name()),
		); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func copyNode(src, dst string) error {
	fi, err := os.Lstat(src)
	if err != nil {
		return errors.Trace(err)
	}
	switch mode := fi.Mode(); mode & os.ModeType {
	case os.ModeSymlink:
		target, err := os.Readlink(src)
		if err != nil {
			return errors.Trace(err)
		}
		if err := os.Symlink(target, dst); err != nil {
			return errors.Trace(err)
		}
	case os.ModeDir:
		if err := copyDir(src, dst, mode); err != nil {
			return errors.Trace(err)
		}
	case 0:
		if err := copyFile(src, dst, mode); err != nil {
			return errors.Trace(err)
		}
	default:
		return errors.Errorf("cannot copy %q: unsupported file type %v", src, mode)
	}
	return errors.Trace(preserveAttrs(src, dst, fi))
}

func copyFile(src, dst string, mode os.FileMode) error {
	srcf, err := os.Open(src)
	if err != nil {
		return errors.Trace(err)
	}
	defer srcf.Close()
	dstf, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode.Perm())
	if err != nil {
		return errors.Trace(err)
	}
	defer dstf.Close()
	// Make the actual permissions match the source permissions
	// even in the presence of umask.
	if err := os.Chmod(dst, mode.Perm()); err != nil {
		return errors.Trace(err)
	}
	if _, err := io.Copy(dstf, srcf); err != nil {
		return errors.Annotatef(err, "copying %q to %q", src, dst)
	}
	return errors.Trace(dstf.Sync())
}

func copyDir(src, dst string, mode os.FileMode) error {
	openMode := mode
	if openMode&0500 != 0500 {
		// The source directory is not readable or traversable by its
		// owner, so open the new directory up while we fill it in.
		openMode |= 0500
	}
	if err := os.Mkdir(dst, openMode.Perm()); err != nil {
		return errors.Trace(err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Trace(err)
	}
	for _, entry := range entries {
		if err := copyNode(
			filepath.Join(src, entry.Name()),
			filepath.Join(dst, entry.Name()),
		); err != nil {
			return errors.Trace(err)
		}
	}
	if openMode != mode {
		return errors.Trace(os.Chmod(dst, mode.Perm()))
	}
	return nil
}
