// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

//go:build linux

package fsops

import (
	"os"
	"syscall"
	"time"

	"github.com/juju/errors"
)

// preserveAttrs makes the ownership and timestamps of dst match
// those of src. Modes are already handled by the copy itself.
// Timestamps cannot be set on a symlink without followed semantics,
// so links only get their ownership preserved.
func preserveAttrs(src, dst string, fi os.FileInfo) error {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return errors.Errorf("no stat info for %q", src)
	}
	if err := os.Lchown(dst, int(st.Uid), int(st.Gid)); err != nil {
		return errors.Annotatef(err, "preserving ownership of %q", dst)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil
	}
	atime := time.Unix(st.Atim.Sec, st.Atim.Nsec)
	mtime := time.Unix(st.Mtim.Sec, st.Mtim.Nsec)
	if err := os.Chtimes(dst, atime, mtime); err != nil {
		return errors.Annotatef(err, "preserving timestamps of %q", dst)
	}
	return nil
}
