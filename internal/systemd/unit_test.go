// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package systemd

import (
	"os"
	"path/filepath"

	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/mysqlsetup/internal/fsops"
)

type unitSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&unitSuite{})

const mysqlUnit = `[Unit]
Description=MySQL Community Server
After=network.target

[Service]
User=mysql
Group=mysql
ExecStart=/usr/sbin/mysqld
Restart=on-failure

[Install]
WantedBy=multi-user.target
`

func (s *unitSuite) writeUnit(c *gc.C) string {
	path := filepath.Join(c.MkDir(), "mysql.service")
	err := os.WriteFile(path, []byte(mysqlUnit), 0644)
	c.Assert(err, jc.ErrorIsNil)
	return path
}

func (s *unitSuite) TestEnsureUnitConditionInserts(c *gc.C) {
	path := s.writeUnit(c)

	changed, err := EnsureUnitCondition(fsops.Ops{}, path, "/data/mysql")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(changed, jc.IsTrue)

	data, err := os.ReadFile(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), jc.Contains,
		"Group=mysql\nConditionPathExists=/data/mysql\nExecStart=/usr/sbin/mysqld\n")
}

func (s *unitSuite) TestEnsureUnitConditionIdempotent(c *gc.C) {
	path := s.writeUnit(c)

	_, err := EnsureUnitCondition(fsops.Ops{}, path, "/data/mysql")
	c.Assert(err, jc.ErrorIsNil)

	changed, err := EnsureUnitCondition(fsops.Ops{}, path, "/data/mysql")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(changed, jc.IsFalse)
}

func (s *unitSuite) TestEnsureUnitConditionReplacesStaleTarget(c *gc.C) {
	path := s.writeUnit(c)

	_, err := EnsureUnitCondition(fsops.Ops{}, path, "/data/mysql")
	c.Assert(err, jc.ErrorIsNil)

	changed, err := EnsureUnitCondition(fsops.Ops{}, path, "/srv/mysql")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(changed, jc.IsTrue)

	data, err := os.ReadFile(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), gc.Not(jc.Contains), "/data/mysql")
	c.Check(string(data), jc.Contains, "ConditionPathExists=/srv/mysql\nExecStart=")
}
