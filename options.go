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

package ralloc

import (
	"fmt"

	"github.com/cloudwego/ralloc/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithMaxSpillRounds sets the maximum number of spill-and-retry rounds of
// a single function before giving up with an ExhaustedError.
//
// Set this option to "0" disables this limit.
//
// The default value of this option is "1024".
func WithMaxSpillRounds(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("ralloc: invalid spill rounds: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxSpillRounds = n }
	}
}

// WithMaxSpillSlots sets the maximum number of spill slots a single
// function may use.
//
// Set this option to "0" disables this limit.
//
// The default value of this option is "65536".
func WithMaxSpillSlots(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("ralloc: invalid spill slots: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxSpillSlots = n }
	}
}

// WithParallelism sets the number of functions AllocateProgram works on
// concurrently. The default value "0" means one worker per function.
func WithParallelism(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("ralloc: invalid parallelism: %d", n))
	} else {
		return func(o *opts.Options) { o.Parallelism = n }
	}
}

// SetMaxSpillRounds sets the default maximum spill rounds from now on.
//
// This value can also be configured with the `RALLOC_MAX_SPILL_ROUNDS`
// environment variable.
//
// Returns the old opts.MaxSpillRounds value.
func SetMaxSpillRounds(n int) int {
	n, opts.MaxSpillRounds = opts.MaxSpillRounds, n
	return n
}

// SetMaxSpillSlots sets the default maximum spill slots from now on.
//
// This value can also be configured with the `RALLOC_MAX_SPILL_SLOTS`
// environment variable.
//
// Returns the old opts.MaxSpillSlots value.
func SetMaxSpillSlots(n int) int {
	n, opts.MaxSpillSlots = opts.MaxSpillSlots, n
	return n
}
