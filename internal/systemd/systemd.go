// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package systemd controls services on a systemd host over the dbus
// API and keeps unit definitions in step with the data they depend
// on.
package systemd

import (
	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

const (
	// LibSystemdDir holds the unit files shipped by packages.
	LibSystemdDir = "/lib/systemd/system"

	unitSuffix = ".service"
)

var logger = loggo.GetLogger("mysqlsetup.systemd")

// DBusAPI exposes the parts of the systemd dbus client this package
// uses.
type DBusAPI interface {
	Close()
	ListUnits() ([]dbus.UnitStatus, error)
	StartUnit(name string, mode string, ch chan<- string) (int, error)
	StopUnit(name string, mode string, ch chan<- string) (int, error)
	RestartUnit(name string, mode string, ch chan<- string) (int, error)
	Reload() error
}

// Type alias for a DBusAPI factory method.
type DBusAPIFactory = func() (DBusAPI, error)

var NewDBusAPI = func() (DBusAPI, error) {
	return dbus.New()
}

var newChan = func() chan string {
	return make(chan string)
}

// Manager starts, stops and restarts services on the local host.
type Manager struct {
	newDBus DBusAPIFactory
}

// NewManager returns a Manager that connects to systemd with the
// given factory; pass NewDBusAPI outside of tests.
func NewManager(newDBus DBusAPIFactory) *Manager {
	return &Manager{newDBus: newDBus}
}

// Start starts the named service.
func (m *Manager) Start(name string) error {
	return errors.Trace(m.job("start", name))
}

// Stop stops the named service.
func (m *Manager) Stop(name string) error {
	return errors.Trace(m.job("stop", name))
}

// Restart restarts the named service, starting it if it was not
// running.
func (m *Manager) Restart(name string) error {
	return errors.Trace(m.job("restart", name))
}

func (m *Manager) job(op, name string) error {
	conn, err := m.newConn()
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close()

	statusCh := newChan()
	unitName := name + unitSuffix
	switch op {
	case "start":
		_, err = conn.StartUnit(unitName, "fail", statusCh)
	case "stop":
		_, err = conn.StopUnit(unitName, "fail", statusCh)
	case "restart":
		_, err = conn.RestartUnit(unitName, "fail", statusCh)
	default:
		return errors.Errorf("unknown operation %q", op)
	}
	if err != nil {
		return errors.Annotatef(err, "dbus %s request failed for service %q", op, name)
	}

	if err := wait(op, name, statusCh); err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("service %q successfully %sed", name, op)
	return nil
}

// DaemonReload makes systemd re-read unit definitions from disk, so
// an edited unit takes effect the next time its service starts.
func (m *Manager) DaemonReload() error {
	conn, err := m.newConn()
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close()

	if err := conn.Reload(); err != nil {
		return errors.Annotate(err, "dbus daemon-reload request failed")
	}
	return nil
}

// Running reports whether the named service is loaded and active.
func (m *Manager) Running(name string) (bool, error) {
	conn, err := m.newConn()
	if err != nil {
		return false, errors.Trace(err)
	}
	defer conn.Close()

	units, err := conn.ListUnits()
	if err != nil {
		return false, errors.Annotate(err, "failed to query services from dbus")
	}
	unitName := name + unitSuffix
	for _, unit := range units {
		if unit.Name == unitName {
			running := unit.LoadState == "loaded" && unit.ActiveState == "active"
			return running, nil
		}
	}
	return false, nil
}

func (m *Manager) newConn() (DBusAPI, error) {
	conn, err := m.newDBus()
	if err != nil {
		logger.Errorf("failed to connect to dbus: %v", err)
	}
	return conn, err
}

func wait(op, name string, statusCh chan string) error {
	status := <-statusCh
	if status != "done" {
		return errors.Errorf("failed to %s service %q (API status %q)", op, name, status)
	}
	return nil
}
