/*
 * Copyright 2022 CloudWeGo Authors
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


package debug

import (
	"github.com/cloudwego/ralloc/internal/regalloc"
)

// A Stats records statistics about the register allocator.
type Stats struct {
	Functions int
	Rounds    int
	Spilled   int
}

// GetStats returns statistics of the register allocator since the process
// started.
func GetStats() Stats {
	fn, nr, ns := regalloc.Stats()
	return Stats{
		Functions: int(fn),
		Rounds:    int(nr),
		Spilled:   int(ns),
	}
}
