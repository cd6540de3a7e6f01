// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package provision

import (
	"crypto/rand"
	"strings"

	"github.com/juju/errors"
)

// The credential file is a my.cnf-style defaults file, so the mysql
// client can consume it directly for passwordless administration.
const (
	credentialFileHeader = "[client]"
	passwordKey          = "password = "
	credentialFileMode   = 0600
)

const (
	passwordLength   = 24
	passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ResolveCredential returns the root credential for this run. When
// the file at path does not exist a fresh credential is generated and
// persisted there, so the next run recovers the same value. When the
// file exists its stored password is recovered and nothing is
// written. An existing file with no password line is fatal: the run
// cannot proceed without a usable credential and must not invent one
// that disagrees with whatever the server already has.
//
// The second return value reports whether the credential was
// generated on this run.
func ResolveCredential(fs FileSystemOps, path string) (string, bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return "", false, errors.Trace(err)
	}
	if !info.Exists {
		secret, err := generatePassword()
		if err != nil {
			return "", false, errors.Trace(err)
		}
		content := credentialFileHeader + "\n" + passwordKey + secret + "\n"
		if err := fs.WriteFile(path, []byte(content), credentialFileMode); err != nil {
			return "", false, errors.Annotate(err, "persisting generated credential")
		}
		logger.Infof("generated root credential and persisted it to %s", path)
		return secret, true, nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return "", false, errors.Annotate(err, "reading credential file")
	}
	secret := extractPassword(string(data))
	if secret == "" {
		return "", false, errors.Annotatef(ErrCredentialRecovery, "%s", path)
	}
	logger.Debugf("recovered root credential from %s", path)
	return secret, false, nil
}

// extractPassword returns the value of the first password line in a
// credential file, or empty when there is none.
func extractPassword(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, passwordKey) {
			return strings.TrimSpace(strings.TrimPrefix(line, passwordKey))
		}
	}
	return ""
}

func generatePassword() (string, error) {
	buf := make([]byte, passwordLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Annotate(err, "reading random bytes")
	}
	for i, b := range buf {
		buf[i] = passwordAlphabet[int(b)%len(passwordAlphabet)]
	}
	return string(buf), nil
}
