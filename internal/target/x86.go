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
    `github.com/chenzhuoyu/iasm/x86_64`
    `github.com/cloudwego/ralloc/internal/ir`
)

// X86 is the 32-bit x86 register file. EAX is reserved as the accumulator
// and is never allocated.
type X86 struct {
    regs     []Register
    pinned   map[string]bool
    clobbers map[string][]Register
}

var _X86Allocatable = []Register {
    x86_64.EBX,
    x86_64.ECX,
    x86_64.EDX,
}

// operands of a call travel on the stack, only the caller-saved registers
// are lost across it
var _X86Pinned = map[string]bool {
    "mul" : true,
    "div" : true,
}

var _X86Clobbers = map[string][]Register {
    "mul"  : { x86_64.EAX, x86_64.EDX },
    "div"  : { x86_64.EAX, x86_64.EDX },
    "call" : { x86_64.EAX, x86_64.ECX, x86_64.EDX },
}

// NewX86 returns the x86 machine with EBX, ECX and EDX allocatable.
func NewX86() *X86 {
    return &X86 {
        regs     : _X86Allocatable,
        pinned   : _X86Pinned,
        clobbers : _X86Clobbers,
    }
}

func (self *X86) Registers() []Register {
    return self.regs
}

func (self *X86) Pinned(ins ir.Instr) bool {
    return self.pinned[opcode(ins)]
}

func (self *X86) Clobbers(ins ir.Instr) []Register {
    return self.clobbers[opcode(ins)]
}
