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

type Options struct {
    MaxSpillRounds int
    MaxSpillSlots  int
    Parallelism    int
}

// CanRetry reports whether another spill round is allowed after n rounds.
// A zero limit means unlimited.
func (self *Options) CanRetry(n int) bool {
    return self.MaxSpillRounds > n || self.MaxSpillRounds == 0
}

// CanSpill reports whether a function may use n spill slots.
// A zero limit means unlimited.
func (self *Options) CanSpill(n int) bool {
    return self.MaxSpillSlots >= n || self.MaxSpillSlots == 0
}

func GetDefaultOptions() Options {
    return Options {
        MaxSpillRounds : MaxSpillRounds,
        MaxSpillSlots  : MaxSpillSlots,
        Parallelism    : Parallelism,
    }
}
