// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package provision

import (
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/mysqlsetup/internal/debconf"
)

type installSuite struct {
	testing.IsolationSuite

	stub     *testing.Stub
	packages *stubPackages
	preseed  *stubPreseed
}

var _ = gc.Suite(&installSuite{})

func (s *installSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.stub = &testing.Stub{}
	s.packages = &stubPackages{Stub: s.stub, installed: make(map[string]bool)}
	s.preseed = &stubPreseed{Stub: s.stub}
}

func (s *installSuite) provisioner(c *gc.C) *Provisioner {
	p, err := NewProvisioner(Config{
		Packages:       s.packages,
		Preseed:        s.preseed,
		Services:       &stubServices{Stub: s.stub},
		FS:             &stubFS{Stub: s.stub},
		Admin:          &stubAdmin{Stub: s.stub},
		Clock:          clock.WallClock,
		PackageName:    "mysql-server",
		ServiceName:    "mysql",
		CredentialFile: "/root/.my.cnf",
		DefaultDataDir: "/var/lib/mysql",
		UnitFile:       "/lib/systemd/system/mysql.service",
		ServiceAccount: "mysql",
	})
	c.Assert(err, jc.ErrorIsNil)
	return p
}

func (s *installSuite) TestAlreadyPresentSkipsInstall(c *gc.C) {
	s.packages.installed["mysql-server"] = true
	facts := NewFacts()
	facts.RootPassword = "sekrit"

	outcome, err := s.provisioner(c).ensureInstalled(facts)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcome, gc.Equals, AlreadyPresent)
	c.Check(facts.PackageInstalled, jc.IsTrue)

	// No seeding, no install; the clear still happens exactly once
	// per question.
	s.stub.CheckCalls(c, []testing.StubCall{
		{FuncName: "IsInstalled", Args: []interface{}{"mysql-server"}},
		{FuncName: "ClearAnswer", Args: []interface{}{"mysql-server", "mysql-server/root_password"}},
		{FuncName: "ClearAnswer", Args: []interface{}{"mysql-server", "mysql-server/root_password_again"}},
	})
}

func (s *installSuite) TestAbsentSeedsInstallsAndClears(c *gc.C) {
	facts := NewFacts()
	facts.RootPassword = "sekrit"

	outcome, err := s.provisioner(c).ensureInstalled(facts)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcome, gc.Equals, NewlyInstalled)
	c.Check(facts.PackageInstalled, jc.IsFalse)

	s.stub.CheckCalls(c, []testing.StubCall{
		{FuncName: "IsInstalled", Args: []interface{}{"mysql-server"}},
		{FuncName: "SetAnswer", Args: []interface{}{
			"mysql-server", "mysql-server/root_password", debconf.Password, "sekrit"}},
		{FuncName: "SetAnswer", Args: []interface{}{
			"mysql-server", "mysql-server/root_password_again", debconf.Password, "sekrit"}},
		{FuncName: "Install", Args: []interface{}{[]string{"mysql-server"}}},
		{FuncName: "ClearAnswer", Args: []interface{}{"mysql-server", "mysql-server/root_password"}},
		{FuncName: "ClearAnswer", Args: []interface{}{"mysql-server", "mysql-server/root_password_again"}},
	})
}

func (s *installSuite) TestInstallFailureIsFatal(c *gc.C) {
	// IsInstalled, SetAnswer, SetAnswer succeed; Install fails.
	s.stub.SetErrors(nil, nil, nil, errors.New("apt broke"))
	facts := NewFacts()
	facts.RootPassword = "sekrit"

	_, err := s.provisioner(c).ensureInstalled(facts)
	c.Assert(err, gc.ErrorMatches, "apt broke")
}

func (s *installSuite) TestSeedFailureIsFatal(c *gc.C) {
	s.stub.SetErrors(nil, errors.New("debconf broke"))
	facts := NewFacts()
	facts.RootPassword = "sekrit"

	_, err := s.provisioner(c).ensureInstalled(facts)
	c.Assert(err, gc.ErrorMatches, "seeding installer answers: debconf broke")
}
