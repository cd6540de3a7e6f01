// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package debconf seeds answers to an interactive installer's
// questions ahead of invocation, so package installation never
// prompts.
package debconf

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("mysqlsetup.debconf")

// ValueType distinguishes password-masked answers from plain text
// ones in the debconf database.
type ValueType string

const (
	// Password marks an answer that debconf must never echo back.
	Password ValueType = "password"
	// Text is an ordinary visible answer.
	Text ValueType = "string"
)

// osRunCommand calls cmd.Run, this is used as an overloading point so
// we can test what *would* be run without actually executing another
// program.
func osRunCommand(cmd *exec.Cmd) error {
	return cmd.Run()
}

var runCommand = osRunCommand

// Selections manipulates the debconf answer database via
// debconf-set-selections.
type Selections struct{}

// SetAnswer records value as the answer to question, owned by the
// named package. The answer value is deliberately kept out of the
// command line so it never shows up in the process table.
func (Selections) SetAnswer(owner, question string, vtype ValueType, value string) error {
	entry := fmt.Sprintf("%s %s %s %s\n", owner, question, vtype, value)
	cmd := exec.Command("debconf-set-selections")
	cmd.Stdin = strings.NewReader(entry)
	logger.Debugf("seeding answer for %s", question)
	if err := runCommand(cmd); err != nil {
		return errors.Annotatef(err, "seeding answer for %q", question)
	}
	return nil
}

// ClearAnswer overwrites any previously seeded answer to question
// with an empty plain text value.
func (s Selections) ClearAnswer(owner, question string) error {
	return errors.Trace(s.SetAnswer(owner, question, Text, ""))
}
