// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package mysqladmin

import (
	"os/exec"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

type clientSuite struct {
	testing.IsolationSuite

	commands [][]string
}

var _ = gc.Suite(&clientSuite{})

func (s *clientSuite) patchOutput(out []byte, err error) {
	s.commands = nil
	s.PatchValue(&commandOutput, func(cmd *exec.Cmd) ([]byte, error) {
		s.commands = append(s.commands, cmd.Args)
		return out, err
	})
}

func (s *clientSuite) TestDropTestDatabase(c *gc.C) {
	s.patchOutput(nil, nil)
	client := NewClient("/root/.my.cnf")

	err := client.DropTestDatabase()
	c.Assert(err, jc.ErrorIsNil)

	c.Assert(s.commands, gc.HasLen, 1)
	c.Check(s.commands[0], jc.DeepEquals, []string{
		"mysql", "--defaults-file=/root/.my.cnf",
		"--batch", "--skip-column-names",
		"--execute", "DROP DATABASE IF EXISTS test",
	})
}

func (s *clientSuite) TestListUsers(c *gc.C) {
	s.patchOutput([]byte("root\tlocalhost\ndebian-sys-maint\tlocalhost\nmysql.sys\tlocalhost\n"), nil)
	client := NewClient("/root/.my.cnf")

	users, err := client.ListUsers()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(users, jc.DeepEquals, []User{
		{Name: "root", Host: "localhost"},
		{Name: "debian-sys-maint", Host: "localhost"},
		{Name: "mysql.sys", Host: "localhost"},
	})
}

func (s *clientSuite) TestListUsersEmpty(c *gc.C) {
	s.patchOutput(nil, nil)
	client := NewClient("/root/.my.cnf")

	users, err := client.ListUsers()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(users, gc.HasLen, 0)
}

func (s *clientSuite) TestStatementError(c *gc.C) {
	s.patchOutput(nil, errors.New("access denied"))
	client := NewClient("/root/.my.cnf")

	err := client.DropTestDatabase()
	c.Assert(err, gc.ErrorMatches, "mysql statement 'DROP DATABASE IF EXISTS test' failed: access denied")
}
