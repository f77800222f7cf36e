// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package doc

import (
	"embed"

	"gopkg.in/yaml.v3"
)

//go:embed devshare.yaml
var FS embed.FS

var (
	version string
	paths   []string
)

// Version returns the API version declared by the embedded OpenAPI document.
func Version() string {
	return version
}

// Paths returns the paths documented by the embedded OpenAPI document.
func Paths() []string {
	return append([]string(nil), paths...)
}

type openAPIInfo struct {
	Info struct {
		Version string
	}
	Paths map[string]yaml.Node
}

func init() {
	content, err := FS.ReadFile("devshare.yaml")
	if err != nil {
		panic(err)
	}

	var oai openAPIInfo
	if err := yaml.Unmarshal(content, &oai); err != nil {
		panic(err)
	}
	version = oai.Info.Version
	for path := range oai.Paths {
		paths = append(paths, path)
	}
}
