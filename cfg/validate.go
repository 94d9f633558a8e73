// Copyright 2024 Google Inc. All Rights Reserved.
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

package cfg

import "fmt"

func isValidLogRotateConfig(config *LogRotateLoggingConfig) error {
	if config.MaxFileSizeMb <= 0 {
		return fmt.Errorf("max-file-size-mb should be at least 1")
	}
	if config.BackupFileCount < 0 {
		return fmt.Errorf("backup-file-count should be 0 (to retain all backup files) or a positive value")
	}
	return nil
}

func isValidStoreConfig(c *StoreConfig) error {
	if c.MaxFiles <= 0 {
		return fmt.Errorf("max-files must be positive")
	}
	if c.MaxFileDescs <= 0 {
		return fmt.Errorf("max-file-descs must be positive")
	}
	if c.MaxChunks <= 0 {
		return fmt.Errorf("max-chunks must be positive")
	}
	if c.ChunkBits <= 0 || c.ChunkBits >= 31 {
		return fmt.Errorf("chunk-bits must be in (0, 31)")
	}
	if c.MaxFilenameLen <= 0 {
		return fmt.Errorf("max-filename-len must be positive")
	}
	if c.MaxChunksPerFile <= 0 {
		return fmt.Errorf("max-chunks-per-file must be positive")
	}
	if c.MountPrefix == "" {
		return fmt.Errorf("mount-prefix must not be empty")
	}
	if c.FDBiasOverride < 0 {
		return fmt.Errorf("fd-bias-override must not be negative")
	}
	return nil
}

// ValidateConfig returns a non-nil error if the config is invalid.
func ValidateConfig(config *Config) error {
	if err := isValidStoreConfig(&config.Store); err != nil {
		return fmt.Errorf("error parsing store config: %w", err)
	}
	if err := isValidLogRotateConfig(&config.Logging.LogRotate); err != nil {
		return fmt.Errorf("error parsing log-rotate config: %w", err)
	}
	return nil
}
