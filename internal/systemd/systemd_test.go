// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package systemd

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

type managerSuite struct {
	testing.IsolationSuite

	stub *testing.Stub
	conn *StubDbusAPI
}

var _ = gc.Suite(&managerSuite{})

func (s *managerSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.stub = &testing.Stub{}
	s.conn = &StubDbusAPI{Stub: s.stub}
	s.PatchValue(&newChan, func() chan string {
		ch := make(chan string, 1)
		ch <- "done"
		return ch
	})
}

func (s *managerSuite) manager() *Manager {
	return NewManager(func() (DBusAPI, error) {
		return s.conn, nil
	})
}

func (s *managerSuite) TestStart(c *gc.C) {
	err := s.manager().Start("mysql")
	c.Assert(err, jc.ErrorIsNil)

	c.Assert(s.stub.Calls(), gc.HasLen, 2)
	c.Check(s.stub.Calls()[0].FuncName, gc.Equals, "StartUnit")
	c.Check(s.stub.Calls()[0].Args[0], gc.Equals, "mysql.service")
	c.Check(s.stub.Calls()[0].Args[1], gc.Equals, "fail")
	c.Check(s.stub.Calls()[1].FuncName, gc.Equals, "Close")
}

func (s *managerSuite) TestStop(c *gc.C) {
	err := s.manager().Stop("mysql")
	c.Assert(err, jc.ErrorIsNil)

	c.Check(s.stub.Calls()[0].FuncName, gc.Equals, "StopUnit")
	c.Check(s.stub.Calls()[0].Args[0], gc.Equals, "mysql.service")
}

func (s *managerSuite) TestRestart(c *gc.C) {
	err := s.manager().Restart("apparmor")
	c.Assert(err, jc.ErrorIsNil)

	c.Check(s.stub.Calls()[0].FuncName, gc.Equals, "RestartUnit")
	c.Check(s.stub.Calls()[0].Args[0], gc.Equals, "apparmor.service")
}

func (s *managerSuite) TestJobFailedStatus(c *gc.C) {
	s.PatchValue(&newChan, func() chan string {
		ch := make(chan string, 1)
		ch <- "failed"
		return ch
	})

	err := s.manager().Start("mysql")
	c.Assert(err, gc.ErrorMatches, `failed to start service "mysql" \(API status "failed"\)`)
}

func (s *managerSuite) TestJobDbusError(c *gc.C) {
	s.stub.SetErrors(errors.New("dbus broke"))

	err := s.manager().Stop("mysql")
	c.Assert(err, gc.ErrorMatches, `dbus stop request failed for service "mysql": dbus broke`)
}

func (s *managerSuite) TestDaemonReload(c *gc.C) {
	err := s.manager().DaemonReload()
	c.Assert(err, jc.ErrorIsNil)

	c.Check(s.stub.Calls()[0].FuncName, gc.Equals, "Reload")
	c.Check(s.stub.Calls()[1].FuncName, gc.Equals, "Close")
}

func (s *managerSuite) TestRunningActive(c *gc.C) {
	s.conn.AddUnit("mysql.service", "loaded", "active")

	running, err := s.manager().Running("mysql")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(running, jc.IsTrue)
}

func (s *managerSuite) TestRunningInactive(c *gc.C) {
	s.conn.AddUnit("mysql.service", "loaded", "inactive")

	running, err := s.manager().Running("mysql")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(running, jc.IsFalse)
}

func (s *managerSuite) TestRunningUnknownUnit(c *gc.C) {
	running, err := s.manager().Running("mysql")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(running, jc.IsFalse)
}

func (s *managerSuite) TestConnectionError(c *gc.C) {
	mgr := NewManager(func() (DBusAPI, error) {
		return nil, errors.New("no dbus")
	})

	err := mgr.Start("mysql")
	c.Assert(err, gc.ErrorMatches, "no dbus")
}
