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

import "os"

// These two env vars belong to the surrounding job-metadata bookkeeping
// block, not to the store itself. The store never reads them; cfg exposes
// them only so a bookkeeping collector built on top of this repo has
// somewhere to read its own on/off switches from, the way the original
// scrmfs reads SCRMFS_DISABLE/SCRMFS_DISABLE_TIMING.
const (
	DisableEnvVar       = "CRUISE_DISABLE"
	DisableTimingEnvVar = "CRUISE_DISABLE_TIMING"
)

// BookkeepingDisabled reports whether CRUISE_DISABLE is set to a non-empty
// value.
func BookkeepingDisabled() bool {
	v, ok := os.LookupEnv(DisableEnvVar)
	return ok && v != ""
}

// BookkeepingTimingDisabled reports whether CRUISE_DISABLE_TIMING is set to
// a non-empty value.
func BookkeepingTimingDisabled() bool {
	v, ok := os.LookupEnv(DisableTimingEnvVar)
	return ok && v != ""
}
