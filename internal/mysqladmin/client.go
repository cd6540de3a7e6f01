// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package mysqladmin performs post-install housekeeping against a
// running MySQL server through the command line client.
package mysqladmin

import (
	"os/exec"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4"
)

var logger = loggo.GetLogger("mysqlsetup.mysqladmin")

// osCommandOutput calls cmd.Output, this is used as an overloading
// point so we can test what *would* be run without actually executing
// another program.
func osCommandOutput(cmd *exec.Cmd) ([]byte, error) {
	return cmd.Output()
}

var commandOutput = osCommandOutput

// User identifies a database account.
type User struct {
	Name string
	Host string
}

// Client runs administrative statements through the mysql command
// line client, authenticating with a my.cnf-style defaults file so
// no password appears on the command line.
type Client struct {
	defaultsFile string
}

// NewClient returns a Client that authenticates with the credentials
// stored in defaultsFile.
func NewClient(defaultsFile string) *Client {
	return &Client{defaultsFile: defaultsFile}
}

func (c *Client) run(stmt string) ([]byte, error) {
	cmd := exec.Command("mysql",
		"--defaults-file="+c.defaultsFile,
		"--batch", "--skip-column-names",
		"--execute", stmt,
	)
	out, err := commandOutput(cmd)
	if err != nil {
		return nil, errors.Annotatef(err, "mysql statement %s failed", utils.ShQuote(stmt))
	}
	return out, nil
}

// DropTestDatabase removes the anonymous test database a fresh
// install ships with.
func (c *Client) DropTestDatabase() error {
	logger.Debugf("dropping test database")
	_, err := c.run("DROP DATABASE IF EXISTS test")
	return errors.Trace(err)
}

// ListUsers returns the accounts known to the server.
func (c *Client) ListUsers() ([]User, error) {
	out, err := c.run("SELECT User, Host FROM mysql.user")
	if err != nil {
		return nil, errors.Trace(err)
	}
	var users []User
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		user := User{Name: fields[0]}
		if len(fields) > 1 {
			user.Host = fields[1]
		}
		users = append(users, user)
	}
	return users, nil
}
