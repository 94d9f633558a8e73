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

// Package cmd wires cruisedemo's cobra command tree to cfg, the way
// gcsfuse's cmd/root.go wires its own flags to viper. This is not a control
// surface for the store itself (a Store's API is Go function calls: Mount,
// Open, Read, ...); it is a small harness for manually exercising one.
package cmd

import (
	"fmt"
	"os"

	"github.com/hpc/cruise/cfg"
	"github.com/hpc/cruise/internal/logger"
	"github.com/hpc/cruise/internal/store"
	"github.com/hpc/cruise/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	printConfig   bool
	bindErr       error
	configFileErr error
	unmarshalErr  error
	runConfig     = cfg.GetDefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "cruisedemo",
	Short: "Exercise an in-memory scratch file store from the command line.",
	Long: `cruisedemo mounts a cruise store and runs a short scripted sequence of
file operations against it, logging each step. It is a demonstration and
benchmarking harness, not the store's runtime interposition layer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		if configFileErr != nil {
			return configFileErr
		}
		if unmarshalErr != nil {
			return unmarshalErr
		}
		if err := cfg.ValidateConfig(&runConfig); err != nil {
			return err
		}
		if printConfig {
			return printResolvedConfig(runConfig)
		}
		return runDemo(runConfig)
	},
}

// printResolvedConfig renders runConfig in the same format configured for
// logging (logging.format: "json" or "text"/anything else means YAML), so
// --print-config shows exactly the shape an operator chose for their logs.
func printResolvedConfig(c cfg.Config) error {
	var (
		out string
		err error
	)
	if c.Logging.Format == "json" {
		out, err = util.Stringify(c)
	} else {
		out, err = util.YAMLStringify(c)
	}
	if err != nil {
		return fmt.Errorf("print-config: %w", err)
	}
	fmt.Println(out)
	return nil
}

// runDemo mounts a store from runConfig and drives scenario 1 of spec §8
// (create/write/read) end to end, logging each step.
func runDemo(c cfg.Config) error {
	log := logger.New(logger.Options{
		Format:   c.Logging.Format,
		Severity: string(c.Logging.Severity),
		FilePath: string(c.Logging.FilePath),
	})
	log.Infof("arena capacity: %d bytes (%d MiB)", c.Store.ArenaCapacityBytes(), util.BytesToHigherMiBs(uint64(c.Store.ArenaCapacityBytes())))

	s := store.New(store.Config{
		MaxFiles:         c.Store.MaxFiles,
		MaxFileDescs:     c.Store.MaxFileDescs,
		MaxChunks:        c.Store.MaxChunks,
		ChunkBits:        c.Store.ChunkBits,
		MaxFilenameLen:   c.Store.MaxFilenameLen,
		MaxChunksPerFile: c.Store.MaxChunksPerFile,
		MountPrefix:      string(c.Store.MountPrefix),
		Rank:             c.Store.Rank,
		FDBiasOverride:   c.Store.FDBiasOverride,
	}, log)

	if err := s.Mount(string(c.Store.MountPrefix), c.Store.Rank); err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	path := string(c.Store.MountPrefix) + "/cruisedemo.dat"
	fd, err := s.Open(path, store.OCreat|store.ORDWR)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer s.Close(fd)

	payload := []byte("cruisedemo scratch payload\n")
	if _, err := s.Write(fd, payload); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if _, err := s.Lseek(fd, 0, store.SeekSet); err != nil {
		return fmt.Errorf("lseek: %w", err)
	}

	buf := make([]byte, len(payload))
	n, err := s.Read(fd, buf)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	log.Infof("round-trip through %s: %d bytes: %q", path, n, string(buf[:n]))
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to the config file")
	rootCmd.PersistentFlags().BoolVar(&printConfig, "print-config", false, "Print the resolved configuration and exit, without mounting anything.")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())
}

func initConfig() {
	if cfgFile == "" {
		unmarshalErr = viper.Unmarshal(&runConfig, viper.DecodeHook(cfg.DecodeHook()))
		return
	}
	resolved, err := util.GetResolvedPath(cfgFile)
	if err != nil {
		configFileErr = fmt.Errorf("error while resolving config file path: %w", err)
		return
	}
	viper.SetConfigFile(resolved)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		configFileErr = fmt.Errorf("error while reading config file: %w", err)
		return
	}
	unmarshalErr = viper.Unmarshal(&runConfig, viper.DecodeHook(cfg.DecodeHook()))
}
