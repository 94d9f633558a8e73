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

import (
	"os"
	"path"
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestParsingSuccess(t *testing.T) {
	type TestConfig struct {
		LogSeverityParam LogSeverity
		PathParam        ResolvedPath
	}
	declareFlags := func() *flag.FlagSet {
		fs := flag.NewFlagSet("test", flag.ExitOnError)
		fs.String("logSeverityParam", "INFO", "")
		fs.String("pathParam", "", "")
		return fs
	}
	bindFlags := func(fs *flag.FlagSet) *viper.Viper {
		v := viper.New()
		v.BindPFlag("LogSeverityParam", fs.Lookup("logSeverityParam"))
		v.BindPFlag("PathParam", fs.Lookup("pathParam"))
		return v
	}
	tests := []struct {
		name    string
		args    []string
		setupFn func()
		testFn  func(*testing.T, TestConfig)
	}{
		{
			name: "LogSeverity",
			args: []string{"--logSeverityParam=WARNING"},
			testFn: func(t *testing.T, c TestConfig) {
				assert.Equal(t, LogSeverity("WARNING"), c.LogSeverityParam)
			},
		},
		{
			name: "ResolvedPath",
			args: []string{"--pathParam=~/test.txt"},
			testFn: func(t *testing.T, c TestConfig) {
				h, err := os.UserHomeDir()
				if assert.NoError(t, err) {
					assert.Equal(t, path.Join(h, "test.txt"), string(c.PathParam))
				}
			},
		},
	}

	for _, k := range tests {
		t.Run(k.name, func(t *testing.T) {
			if k.setupFn != nil {
				k.setupFn()
			}
			c := TestConfig{}
			fs := declareFlags()
			v := bindFlags(fs)
			args := append([]string{"test"}, k.args...)
			require := assert.New(t)
			require.NoError(fs.Parse(args))
			require.NoError(v.Unmarshal(&c, viper.DecodeHook(DecodeHook())))
			k.testFn(t, c)
		})
	}
}

func TestParsingError(t *testing.T) {
	type TestConfig struct {
		LogSeverityParam LogSeverity
	}
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	fs.String("logSeverityParam", "INFO", "")
	v := viper.New()
	v.BindPFlag("LogSeverityParam", fs.Lookup("logSeverityParam"))

	require := assert.New(t)
	require.NoError(fs.Parse([]string{"test", "--logSeverityParam=abc"}))

	c := TestConfig{}
	err := v.Unmarshal(&c, viper.DecodeHook(DecodeHook()))
	assert.Error(t, err)
}
