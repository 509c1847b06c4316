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

package regalloc

import (
    `sync/atomic`
)

type _Stats struct {
    functions atomic.Int64
    rounds    atomic.Int64
    spilled   atomic.Int64
}

var stats _Stats

func (self *_Stats) record(rounds int, spilled int) {
    self.functions.Add(1)
    self.rounds.Add(int64(rounds))
    self.spilled.Add(int64(spilled))
}

// Stats returns the number of functions allocated, the total number of
// allocation rounds, and the total number of spilled registers.
func Stats() (functions int64, rounds int64, spilled int64) {
    return stats.functions.Load(), stats.rounds.Load(), stats.spilled.Load()
}
