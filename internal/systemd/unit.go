// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package systemd

import (
	"github.com/juju/errors"
)

const (
	conditionDirective = "ConditionPathExists="
	conditionMatch     = "^ConditionPathExists="
	execStartAnchor    = "^ExecStart"
)

// UnitFileOps is the slice of filesystem behaviour needed to edit a
// unit file in place.
type UnitFileOps interface {
	EnsureLine(path, line, match, anchor string) (bool, error)
}

// EnsureUnitCondition pins a ConditionPathExists directive for dir
// into the unit file at path, immediately before the ExecStart
// directive, replacing any stale ConditionPathExists line already
// present. With the directive in place systemd refuses to start the
// service while dir is unavailable, for example because a mount is
// missing. The returned flag reports whether the file changed; a
// changed unit file needs a daemon-reload before the next start.
func EnsureUnitCondition(ops UnitFileOps, path, dir string) (bool, error) {
	changed, err := ops.EnsureLine(path, conditionDirective+dir, conditionMatch, execStartAnchor)
	if err != nil {
		return false, errors.Annotatef(err, "editing unit file %s", path)
	}
	if changed {
		logger.Infof("pinned %s%s in %s", conditionDirective, dir, path)
	}
	return changed, nil
}
