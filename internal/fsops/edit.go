// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package fsops

import (
	"bytes"
	"os"
	"regexp"
	"strings"

	"github.com/juju/errors"
)

// ReplaceInFile rewrites every occurrence of old with new in the
// file at path, reporting whether the file changed. The file's mode
// is left as it was.
func (Ops) ReplaceInFile(path, old, new string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, errors.Trace(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Trace(err)
	}
	replaced := bytes.ReplaceAll(data, []byte(old), []byte(new))
	if bytes.Equal(replaced, data) {
		return false, nil
	}
	if err := os.WriteFile(path, replaced, fi.Mode().Perm()); err != nil {
		return false, errors.Trace(err)
	}
	logger.Debugf("rewrote %q in %s", old, path)
	return true, nil
}

// EnsureLine guarantees that the file at path contains exactly line
// in place of any line matching the match pattern. When no line
// matches, line is inserted immediately before the first line
// matching the anchor pattern. The returned flag reports whether the
// file changed; ensuring a line that is already present is a no-op.
func (Ops) EnsureLine(path, line, match, anchor string) (bool, error) {
	matchRE, err := regexp.Compile(match)
	if err != nil {
		return false, errors.Annotatef(err, "compiling match pattern %q", match)
	}
	anchorRE, err := regexp.Compile(anchor)
	if err != nil {
		return false, errors.Annotatef(err, "compiling anchor pattern %q", anchor)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false, errors.Trace(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Trace(err)
	}

	lines := strings.Split(string(data), "\n")
	for i, existing := range lines {
		if !matchRE.MatchString(existing) {
			continue
		}
		if existing == line {
			return false, nil
		}
		lines[i] = line
		return true, errors.Trace(writeLines(path, lines, fi.Mode()))
	}
	for i, existing := range lines {
		if !anchorRE.MatchString(existing) {
			continue
		}
		lines = append(lines[:i], append([]string{line}, lines[i:]...)...)
		return true, errors.Trace(writeLines(path, lines, fi.Mode()))
	}
	return false, errors.NotFoundf("anchor %q in %s", anchor, path)
}

func writeLines(path string, lines []string, mode os.FileMode) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), mode.Perm())
}
