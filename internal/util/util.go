// Copyright 2023 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package util holds small path and encoding helpers shared by cfg and the
// command-line tooling.
package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GCSFUSE_PARENT_PROCESS_DIR names the env var a parent process sets to
// tell a child where relative config paths (log file, mount prefix file)
// should be resolved against, instead of the child's own working directory.
const GCSFUSE_PARENT_PROCESS_DIR = "CRUISE_PARENT_PROCESS_DIR"

// GetResolvedPath expands a leading "~" to the user's home directory and
// makes a relative path absolute, resolved against
// GCSFUSE_PARENT_PROCESS_DIR when set, or the working directory otherwise.
// An empty path resolves to "".
func GetResolvedPath(filePath string) (string, error) {
	if filePath == "" {
		return "", nil
	}
	if strings.HasPrefix(filePath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, filePath[2:]), nil
	}
	if filepath.IsAbs(filePath) {
		return filePath, nil
	}

	base := os.Getenv(GCSFUSE_PARENT_PROCESS_DIR)
	if base == "" {
		var err error
		base, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(base, filePath), nil
}

// Stringify marshals v as JSON for log messages. If v cannot be marshalled
// it returns "" together with the marshalling error.
func Stringify(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// YAMLStringify marshals v as YAML, used by cruisedemo's --print-config to
// render the resolved Config before mounting anything.
func YAMLStringify(v any) (string, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// BytesToHigherMiBs rounds up to the next whole mebibyte, used to log arena
// capacity in human-readable form alongside the exact byte count.
func BytesToHigherMiBs(bytes uint64) uint64 {
	const mib = 1 << 20
	mibs := bytes / mib
	if bytes%mib != 0 {
		mibs++
	}
	return mibs
}

// IsUnsupportedObjectName reports whether name contains a construct the
// store's flat namespace cannot route: a bare "/" or any run of repeated
// separators.
func IsUnsupportedObjectName(name string) bool {
	return name == "/" || strings.Contains(name, "//")
}
