// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"os"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/juju/mysqlsetup/provision"
)

// setupConfig is the YAML schema of the optional --config file. Every
// field is optional; unset fields keep their conventional values.
type setupConfig struct {
	Package        string   `yaml:"package"`
	Service        string   `yaml:"service"`
	CredentialFile string   `yaml:"credential-file"`
	DefaultDataDir string   `yaml:"default-data-dir"`
	TargetDataDir  string   `yaml:"target-data-dir"`
	RewriteFiles   []string `yaml:"rewrite-files"`
	UnitFile       string   `yaml:"unit-file"`
	ServiceAccount string   `yaml:"service-account"`
	ClientPattern  string   `yaml:"client-pattern"`

	ApparmorService    string `yaml:"apparmor-service"`
	ApparmorPolicyFile string `yaml:"apparmor-policy-file"`
}

func defaultSetupConfig() setupConfig {
	return setupConfig{
		Package:            provision.DefaultPackageName,
		Service:            provision.DefaultServiceName,
		CredentialFile:     provision.DefaultCredentialFile,
		DefaultDataDir:     provision.DefaultDataDir,
		RewriteFiles:       provision.DefaultRewriteTargets,
		UnitFile:           provision.DefaultUnitFile,
		ServiceAccount:     provision.DefaultServiceAccount,
		ClientPattern:      provision.DefaultClientPattern,
		ApparmorService:    provision.DefaultApparmorServiceName,
		ApparmorPolicyFile: provision.DefaultApparmorPolicyFile,
	}
}

// readSetupConfig overlays the YAML file at path onto the
// conventional defaults. An empty path means defaults only.
func readSetupConfig(path string) (setupConfig, error) {
	cfg := defaultSetupConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return setupConfig{}, errors.Annotate(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return setupConfig{}, errors.Annotatef(err, "parsing %s", path)
	}
	return cfg, nil
}
