// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/devshare/genesis"
)

// configFile is the optional YAML config. Flags holds flag values keyed by flag name;
// Genesis holds an inline custom genesis.
//
//	flags:
//	  api-addr: 0.0.0.0:8669
//	  enable-metrics: true
//	genesis:
//	  launchTime: 1526400000
//	  params:
//	    admin: "0x..."
type configFile struct {
	Flags   map[string]any         `yaml:"flags"`
	Genesis *genesis.CustomGenesis `yaml:"genesis"`
}

func loadConfigFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config file")
	}
	return &cfg, nil
}

// applyConfig sets every flag found in the config file that was not given on
// the command line.
func applyConfig(ctx *cli.Context, flags []cli.Flag, cfg *configFile) error {
	known := make(map[string]bool)
	for _, f := range flags {
		known[f.GetName()] = true
	}

	for name, value := range cfg.Flags {
		if !known[name] {
			return errors.Errorf("config file: unknown flag %q", name)
		}
		if ctx.IsSet(name) {
			continue
		}
		if err := ctx.Set(name, fmt.Sprint(value)); err != nil {
			return errors.Wrapf(err, "config file: flag %q", name)
		}
	}
	return nil
}
