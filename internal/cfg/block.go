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

package cfg

import (
    `fmt`
    `strings`

    `github.com/cloudwego/ralloc/internal/ir`
)

// BasicBlock is owned by its CFG. Pred and Succ hold block ids in the
// owning CFG, they are kept sorted and free of duplicates.
type BasicBlock struct {
    Id     int
    Labels []string
    Phi    []*ir.Phi
    Ins    []ir.Instr
    Pred   []int
    Succ   []int
}

// Name returns the primary label of the block, or a synthetic name if the
// block is not labeled.
func (self *BasicBlock) Name() string {
    if len(self.Labels) != 0 {
        return self.Labels[0]
    } else {
        return fmt.Sprintf("bb_%d", self.Id)
    }
}

// Last returns the last instruction of the block.
func (self *BasicBlock) Last() ir.Instr {
    return self.Ins[len(self.Ins) - 1]
}

// Term returns the terminator of the block, or nil if the block falls through.
func (self *BasicBlock) Term() ir.Terminator {
    if len(self.Ins) == 0 {
        return nil
    } else if tr, ok := self.Last().(ir.Terminator); ok {
        return tr
    } else {
        return nil
    }
}

func (self *BasicBlock) String() string {
    buf := make([]string, 0, len(self.Phi) + len(self.Ins) + 1)
    buf = append(buf, fmt.Sprintf("bb_%d [%s] pred=%v succ=%v", self.Id, strings.Join(self.Labels, ", "), self.Pred, self.Succ))

    /* dump Phi nodes */
    for _, v := range self.Phi {
        buf = append(buf, "    " + v.String())
    }

    /* dump instructions */
    for _, v := range self.Ins {
        buf = append(buf, "    " + v.String())
    }

    /* join them together */
    return strings.Join(buf, "\n")
}

func insertSortedInt(buf []int, v int) ([]int, bool) {
    i := 0
    for i < len(buf) && buf[i] < v { i++ }

    /* already exists */
    if i < len(buf) && buf[i] == v {
        return buf, false
    }

    /* insert into the slot */
    buf = append(buf, 0)
    copy(buf[i + 1:], buf[i:])
    buf[i] = v
    return buf, true
}
