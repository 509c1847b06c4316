/*
 * Copyright 2022 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opts

import (
    `os`
    `strconv`
)

const (
    _DefaultMaxSpillRounds = 1024   // cutoff at 1k rounds of spill-and-retry
    _DefaultMaxSpillSlots  = 65536  // cutoff at 64k spill slots per function
)

var (
    MaxSpillRounds = parseOrDefault("RALLOC_MAX_SPILL_ROUNDS", _DefaultMaxSpillRounds, 1)
    MaxSpillSlots  = parseOrDefault("RALLOC_MAX_SPILL_SLOTS", _DefaultMaxSpillSlots, 1)
    Parallelism    = parseOrDefault("RALLOC_PARALLELISM", 0, 0)
    Debug          = os.Getenv("RALLOC_DEBUG") != ""
)

func parseOrDefault(key string, def int, min int) int {
    if env := os.Getenv(key); env == "" {
        return def
    } else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
        panic("ralloc: invalid value for " + key)
    } else if ret := int(val); ret < min {
        panic("ralloc: value too small for " + key)
    } else {
        return ret
    }
}
