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

// CFG owns the basic blocks of a single function, in program order. The
// first block is the entry, and Blocks[i].Id == i always holds.
type CFG struct {
    Name   string
    Args   []ir.Arg
    Type   ir.Type
    Blocks []*BasicBlock
    labels map[string]int
}

func newCFG(fn *ir.Function) *CFG {
    return &CFG {
        Name   : fn.Name,
        Args   : append([]ir.Arg(nil), fn.Args...),
        Type   : fn.Type,
        labels : make(map[string]int),
    }
}

// Entry returns the entry block.
func (self *CFG) Entry() *BasicBlock {
    return self.Blocks[0]
}

// Lookup finds the block that defines label.
func (self *CFG) Lookup(label string) (*BasicBlock, bool) {
    if id, ok := self.labels[label]; ok {
        return self.Blocks[id], true
    } else {
        return nil, false
    }
}

// EnsureLabel returns the primary label of the block, creating one first
// if the block is unlabeled.
func (self *CFG) EnsureLabel(id int) string {
    var name string
    var bb = self.Blocks[id]

    /* already labeled */
    if len(bb.Labels) != 0 {
        return bb.Labels[0]
    }

    /* find a free name */
    for i := 0;; i++ {
        if name = labelname(bb.Id, i); !self.hasLabel(name) {
            break
        }
    }

    /* attach to the block */
    bb.Labels = []string { name }
    self.labels[name] = id
    return name
}

func (self *CFG) hasLabel(name string) bool {
    _, ok := self.labels[name]
    return ok
}

func labelname(id int, i int) string {
    if i == 0 {
        return fmt.Sprintf("bb_%d", id)
    } else {
        return fmt.Sprintf("bb_%d_%d", id, i)
    }
}

func (self *CFG) register(bb *BasicBlock) {
    bb.Id = len(self.Blocks)
    self.Blocks = append(self.Blocks, bb)

    /* add all the labels */
    for _, lb := range bb.Labels {
        self.labels[lb] = bb.Id
    }
}

// AddEdge records an edge on both ends.
func (self *CFG) AddEdge(from int, to int) {
    self.Blocks[from].Succ, _ = insertSortedInt(self.Blocks[from].Succ, to)
    self.Blocks[to].Pred, _ = insertSortedInt(self.Blocks[to].Pred, from)
}

// Instrs returns the number of instructions (excluding Phi nodes) in the CFG.
func (self *CFG) Instrs() int {
    n := 0
    for _, bb := range self.Blocks { n += len(bb.Ins) }
    return n
}

// Remove drops every block that keep rejects, and renumbers the remaining
// blocks. Edges to the removed blocks are dropped as well.
func (self *CFG) Remove(keep func(bb *BasicBlock) bool) {
    nb := len(self.Blocks)
    ids := make([]int, nb)
    ret := make([]*BasicBlock, 0, nb)

    /* assign new IDs */
    for i, bb := range self.Blocks {
        if i == 0 || keep(bb) {
            ids[i] = len(ret)
            ret = append(ret, bb)
        } else {
            ids[i] = -1
        }
    }

    /* nothing removed */
    if len(ret) == nb {
        return
    }

    /* remap all the edges */
    for _, bb := range ret {
        bb.Id = ids[bb.Id]
        bb.Pred = remapids(bb.Pred, ids)
        bb.Succ = remapids(bb.Succ, ids)
    }

    /* rebuild the label map */
    self.Blocks = ret
    self.labels = make(map[string]int, len(self.labels))

    /* add all the labels */
    for _, bb := range ret {
        for _, lb := range bb.Labels {
            self.labels[lb] = bb.Id
        }
    }

    /* drop the incoming values of the removed predecessors */
    for _, bb := range ret {
        for _, phi := range bb.Phi {
            args := phi.Args[:0]
            for _, a := range phi.Args {
                if _, ok := self.labels[a.Label]; ok {
                    args = append(args, a)
                }
            }
            phi.Args = args
        }
    }
}

func remapids(buf []int, ids []int) []int {
    ret := buf[:0]
    for _, v := range buf {
        if ids[v] >= 0 {
            ret = append(ret, ids[v])
        }
    }
    return ret
}

// RemoveUnreachable drops the blocks that cannot be reached from the entry.
func (self *CFG) RemoveUnreachable() int {
    nb := len(self.Blocks)
    seen := self.Reachable()
    self.Remove(func(bb *BasicBlock) bool { return seen.Has(bb.Id) })
    return nb - len(self.Blocks)
}

// Verify checks the structural invariants of the CFG: no empty blocks, ids
// matching positions, and consistent edges.
func (self *CFG) Verify() error {
    for i, bb := range self.Blocks {
        if bb.Id != i {
            return fmt.Errorf("cfg: bb_%d at position %d", bb.Id, i)
        } else if len(bb.Ins) == 0 {
            return fmt.Errorf("cfg: empty block bb_%d", bb.Id)
        }

        /* a -> b implies b <- a */
        for _, s := range bb.Succ {
            if !containsInt(self.Blocks[s].Pred, i) {
                return fmt.Errorf("cfg: edge bb_%d -> bb_%d missing from predecessors", i, s)
            }
        }

        /* b <- a implies a -> b */
        for _, p := range bb.Pred {
            if !containsInt(self.Blocks[p].Succ, i) {
                return fmt.Errorf("cfg: edge bb_%d -> bb_%d missing from successors", p, i)
            }
        }
    }
    return nil
}

func containsInt(buf []int, v int) bool {
    for _, x := range buf {
        if x == v {
            return true
        }
    }
    return false
}

// Function flattens the CFG back into a linear instruction stream.
func (self *CFG) Function() *ir.Function {
    ret := &ir.Function {
        Name : self.Name,
        Args : self.Args,
        Type : self.Type,
    }

    /* dump every block in program order */
    for _, bb := range self.Blocks {
        for _, lb := range bb.Labels {
            ret.Instrs = append(ret.Instrs, &ir.Label { Name: lb })
        }
        for _, v := range bb.Phi {
            ret.Instrs = append(ret.Instrs, v)
        }
        ret.Instrs = append(ret.Instrs, bb.Ins...)
    }
    return ret
}

func (self *CFG) String() string {
    buf := make([]string, 0, len(self.Blocks))
    for _, bb := range self.Blocks {
        buf = append(buf, bb.String())
    }
    return fmt.Sprintf(
        "CFG %s {\n%s\n}",
        self.Name,
        strings.Join(buf, "\n"),
    )
}
