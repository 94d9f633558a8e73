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

// Package cfg is the flag/file-loadable configuration surface for a
// cruise store: arena sizing, the mount prefix and rank, and logging.
// internal/store has no dependency on this package or on viper/cobra/pflag;
// callers convert a *Config to store.Config at the boundary (cmd/cruisedemo
// does this).
package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig mirrors store.Config field-for-field; see that type for what
// each field means.
type StoreConfig struct {
	MaxFiles         int          `yaml:"max-files" mapstructure:"max-files"`
	MaxFileDescs     int          `yaml:"max-file-descs" mapstructure:"max-file-descs"`
	MaxChunks        int          `yaml:"max-chunks" mapstructure:"max-chunks"`
	ChunkBits        int          `yaml:"chunk-bits" mapstructure:"chunk-bits"`
	MaxFilenameLen   int          `yaml:"max-filename-len" mapstructure:"max-filename-len"`
	MaxChunksPerFile int          `yaml:"max-chunks-per-file" mapstructure:"max-chunks-per-file"`
	MountPrefix      ResolvedPath `yaml:"mount-prefix" mapstructure:"mount-prefix"`
	Rank             int          `yaml:"rank"`
	FDBiasOverride   int          `yaml:"fd-bias-override" mapstructure:"fd-bias-override"`
}

type LoggingConfig struct {
	Severity  LogSeverity            `yaml:"severity"`
	Format    string                 `yaml:"format"`
	FilePath  ResolvedPath           `yaml:"file-path" mapstructure:"file-path"`
	LogRotate LogRotateLoggingConfig `yaml:"log-rotate" mapstructure:"log-rotate"`
}

type LogRotateLoggingConfig struct {
	MaxFileSizeMb   int  `yaml:"max-file-size-mb" mapstructure:"max-file-size-mb"`
	BackupFileCount int  `yaml:"backup-file-count" mapstructure:"backup-file-count"`
	Compress        bool `yaml:"compress"`
}

// BindFlags declares cruisedemo's flags and binds each to its Config path,
// the way gcsfuse's generated BindFlags wires cobra/pflag to viper.
func BindFlags(flagSet *pflag.FlagSet) error {
	var err error

	flagSet.IntP("max-files", "", DefaultMaxFiles, "Maximum number of files the store can hold (file-table capacity).")
	if err = viper.BindPFlag("store.max-files", flagSet.Lookup("max-files")); err != nil {
		return err
	}

	flagSet.IntP("max-file-descs", "", DefaultMaxFileDescs, "Maximum number of live descriptors.")
	if err = viper.BindPFlag("store.max-file-descs", flagSet.Lookup("max-file-descs")); err != nil {
		return err
	}

	flagSet.IntP("max-chunks", "", DefaultMaxChunks, "Total number of chunks in the arena.")
	if err = viper.BindPFlag("store.max-chunks", flagSet.Lookup("max-chunks")); err != nil {
		return err
	}

	flagSet.IntP("chunk-bits", "", DefaultChunkBits, "log2 of the chunk size in bytes.")
	if err = viper.BindPFlag("store.chunk-bits", flagSet.Lookup("chunk-bits")); err != nil {
		return err
	}

	flagSet.IntP("max-filename-len", "", DefaultMaxFilenameLen, "Maximum path length, including the NUL terminator.")
	if err = viper.BindPFlag("store.max-filename-len", flagSet.Lookup("max-filename-len")); err != nil {
		return err
	}

	flagSet.IntP("max-chunks-per-file", "", DefaultMaxChunksPerFile, "Maximum chunks any single file may hold.")
	if err = viper.BindPFlag("store.max-chunks-per-file", flagSet.Lookup("max-chunks-per-file")); err != nil {
		return err
	}

	flagSet.StringP("mount-prefix", "", DefaultMountPrefix, "Path prefix routed into the store.")
	if err = viper.BindPFlag("store.mount-prefix", flagSet.Lookup("mount-prefix")); err != nil {
		return err
	}

	flagSet.IntP("rank", "", 0, "Rank of this process, used to derive the shared-memory key.")
	if err = viper.BindPFlag("store.rank", flagSet.Lookup("rank")); err != nil {
		return err
	}

	flagSet.IntP("fd-bias-override", "", 0, "Override the FD_BIAS derived from RLIMIT_NOFILE; 0 means derive it.")
	if err = viper.BindPFlag("store.fd-bias-override", flagSet.Lookup("fd-bias-override")); err != nil {
		return err
	}

	flagSet.StringP("log-severity", "", string(InfoLogSeverity), "TRACE, DEBUG, INFO, WARNING, ERROR, or OFF.")
	if err = viper.BindPFlag("logging.severity", flagSet.Lookup("log-severity")); err != nil {
		return err
	}

	flagSet.StringP("log-format", "", "text", "text or json.")
	if err = viper.BindPFlag("logging.format", flagSet.Lookup("log-format")); err != nil {
		return err
	}

	flagSet.StringP("log-file", "", "", "Path to a log file; empty logs to stderr.")
	if err = viper.BindPFlag("logging.file-path", flagSet.Lookup("log-file")); err != nil {
		return err
	}

	return nil
}
