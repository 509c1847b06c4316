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

package target

import (
    `fmt`

    `github.com/cloudwego/ralloc/internal/ir`
)

// Register is a physical register of a machine.
type Register interface {
    fmt.Stringer
}

// Machine describes the register file the allocator targets. Registers
// returns the allocatable registers in preference order, and Clobbers
// returns the registers an instruction implicitly reads or writes, which no
// register live across that instruction may occupy. When Pinned reports
// true, the operands and the result of the instruction may not occupy them
// either.
type Machine interface {
    Registers() []Register
    Pinned(ins ir.Instr) bool
    Clobbers(ins ir.Instr) []Register
}

func opcode(ins ir.Instr) string {
    switch v := ins.(type) {
        case *ir.Value  : return v.Op
        case *ir.Effect : return v.Op
        default         : return ""
    }
}
