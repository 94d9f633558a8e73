// Copyright 2024 Google LLC
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

// ChunkSizeBytes returns the configured chunk size in bytes (1 << ChunkBits).
func (c StoreConfig) ChunkSizeBytes() int64 {
	return int64(1) << uint(c.ChunkBits)
}

// ArenaCapacityBytes returns the total chunk-data capacity of the arena this
// config would size, ignoring the fixed-size fid/name/meta/free-stack
// partitions (spec §4.2).
func (c StoreConfig) ArenaCapacityBytes() int64 {
	return c.ChunkSizeBytes() * int64(c.MaxChunks)
}
