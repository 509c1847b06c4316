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

// GenericRegister is the i-th register of a Generic machine.
type GenericRegister int

func (self GenericRegister) String() string {
    return fmt.Sprintf("r%d", int(self))
}

// Generic is a machine with n interchangeable registers named r0 to r(n-1).
type Generic struct {
    regs     []Register
    pinned   map[string]bool
    clobbers map[string][]Register
}

func NewGeneric(n int) *Generic {
    ret := &Generic {
        regs     : make([]Register, n),
        pinned   : make(map[string]bool),
        clobbers : make(map[string][]Register),
    }
    for i := range ret.regs {
        ret.regs[i] = GenericRegister(i)
    }
    return ret
}

// Clobber declares that operation op clobbers the given registers, and
// that its operands may not occupy them.
func (self *Generic) Clobber(op string, regs ...int) *Generic {
    self.pinned[op] = true
    return self.clobber(op, regs)
}

// ClobberLive declares that operation op clobbers the given registers, which
// only matters to the values live across it.
func (self *Generic) ClobberLive(op string, regs ...int) *Generic {
    self.pinned[op] = false
    return self.clobber(op, regs)
}

func (self *Generic) clobber(op string, regs []int) *Generic {
    for _, r := range regs {
        self.clobbers[op] = append(self.clobbers[op], GenericRegister(r))
    }
    return self
}

func (self *Generic) Registers() []Register {
    return self.regs
}

func (self *Generic) Pinned(ins ir.Instr) bool {
    return self.pinned[opcode(ins)]
}

func (self *Generic) Clobbers(ins ir.Instr) []Register {
    return self.clobbers[opcode(ins)]
}
