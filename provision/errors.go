// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package provision

import (
	"github.com/juju/errors"
)

const (
	// ErrCredentialRecovery reports a credential file that exists but
	// holds no usable password. Nothing has been mutated when this is
	// returned; the run aborts rather than guess at a credential.
	ErrCredentialRecovery = errors.ConstError("credential file holds no password")

	// ErrMissingTargetDir reports an operator-supplied data directory
	// with no corresponding directory on disk, typically an unmounted
	// volume. The run aborts before any destructive step.
	ErrMissingTargetDir = errors.ConstError("target data directory does not exist")

	// ErrRelocationCopy reports an I/O failure while copying the data
	// directory. The source directory is deliberately left intact so
	// the copy can be retried.
	ErrRelocationCopy = errors.ConstError("copying data directory failed")
)
