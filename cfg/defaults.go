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

// GetDefaultLoggingConfig returns the default configuration used before any
// flags or config file have been parsed.
func GetDefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Severity: InfoLogSeverity,
		Format:   "text",
		LogRotate: LogRotateLoggingConfig{
			BackupFileCount: 10,
			Compress:        true,
			MaxFileSizeMb:   512,
		},
	}
}

// GetDefaultStoreConfig returns the arena-sizing defaults spec §8's
// end-to-end scenarios assume.
func GetDefaultStoreConfig() StoreConfig {
	return StoreConfig{
		MaxFiles:         DefaultMaxFiles,
		MaxFileDescs:     DefaultMaxFileDescs,
		MaxChunks:        DefaultMaxChunks,
		ChunkBits:        DefaultChunkBits,
		MaxFilenameLen:   DefaultMaxFilenameLen,
		MaxChunksPerFile: DefaultMaxChunksPerFile,
		MountPrefix:      DefaultMountPrefix,
	}
}

// GetDefaultConfig returns a fully-populated Config before any flags or
// config file have been parsed.
func GetDefaultConfig() Config {
	return Config{
		Store:   GetDefaultStoreConfig(),
		Logging: GetDefaultLoggingConfig(),
	}
}
