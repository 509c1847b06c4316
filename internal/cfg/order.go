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
    `github.com/oleiade/lane`
)

type _Visit struct {
    id   int
    next int
}

// PostOrder returns the blocks reachable from the entry in depth-first post
// order of the successor edges.
func (self *CFG) PostOrder() []*BasicBlock {
    s := lane.NewStack()
    v := NewBlockSet(len(self.Blocks))
    ret := make([]*BasicBlock, 0, len(self.Blocks))

    /* start from the entry block */
    v.Add(0)
    s.Push(&_Visit { id: 0 })

    /* scan until the stack is empty */
    for !s.Empty() {
        tail := true
        this := s.Head().(*_Visit)
        succ := self.Blocks[this.id].Succ

        /* visit the next unvisited successor */
        for this.next < len(succ) {
            p := succ[this.next]
            this.next++

            /* not visited yet */
            if !v.Has(p) {
                tail = false
                v.Add(p)
                s.Push(&_Visit { id: p })
                break
            }
        }

        /* all the successors are visited, pop the current node */
        if tail {
            s.Pop()
            ret = append(ret, self.Blocks[this.id])
        }
    }
    return ret
}

// ReversePostOrder returns the blocks reachable from the entry in reverse
// post order, every block appears after all of its non-back-edge predecessors.
func (self *CFG) ReversePostOrder() []*BasicBlock {
    ret := self.PostOrder()
    blockreverse(ret)
    return ret
}

// Reachable returns the set of blocks reachable from the entry.
func (self *CFG) Reachable() BlockSet {
    ret := NewBlockSet(len(self.Blocks))
    for _, bb := range self.PostOrder() {
        ret.Add(bb.Id)
    }
    return ret
}

func blockreverse(bb []*BasicBlock) {
    for i, j := 0, len(bb) - 1; i < j; i, j = i + 1, j - 1 {
        bb[i], bb[j] = bb[j], bb[i]
    }
}
