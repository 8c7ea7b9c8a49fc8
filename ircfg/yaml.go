// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircfg

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAMLFile reads a flat "key: value" YAML document into a MapSource.
// Not required by the core's mapping interface, but a convenient
// file-backed Source for example programs and tests.
func LoadYAMLFile(path string) (MapSource, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadYAML(b)
}

// LoadYAML parses a flat "key: value" YAML document into a MapSource.
func LoadYAML(b []byte) (MapSource, error) {
	raw := make(map[string]string)
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return MapSource(raw), nil
}
