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
    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/cloudwego/ralloc/internal/utils`
)

type _GraphBuilder struct {
    fn   *ir.Function
    cfg  *CFG
    cur  *BasicBlock
    pend []string
    seen map[string]bool
}

func newGraphBuilder(fn *ir.Function) *_GraphBuilder {
    return &_GraphBuilder {
        fn   : fn,
        cfg  : newCFG(fn),
        cur  : new(BasicBlock),
        seen : make(map[string]bool),
    }
}

// Build splits the instruction stream of fn into basic blocks and wires the
// edges between them.
func Build(fn *ir.Function) (*CFG, error) {
    return newGraphBuilder(fn).build()
}

func (self *_GraphBuilder) build() (*CFG, error) {
    if self.needsEntry() {
        self.cur.Ins = append(self.cur.Ins, nop())
        self.close()
    }

    /* split into basic blocks */
    for i, ins := range self.fn.Instrs {
        if phi, ok := ins.(*ir.Phi); ok {
            if len(self.cur.Ins) != 0 {
                return nil, utils.EMalformed(self.fn.Name, i, "phi after an ordinary instruction")
            } else {
                self.cur.Phi = append(self.cur.Phi, phi)
                continue
            }
        }

        /* labels open a new block */
        if lb, ok := ins.(*ir.Label); !ok {
            self.cur.Ins = append(self.cur.Ins, ins)
        } else if self.seen[lb.Name] {
            return nil, utils.EDuplicateLabel(self.fn.Name, i, lb.Name)
        } else {
            self.close()
            self.seen[lb.Name] = true
            self.pend = append(self.pend, lb.Name)
            continue
        }

        /* terminators end the current block */
        if ir.IsTerminator(ins) {
            self.close()
        }
    }

    /* close the last block, labels at the very end need a landing block */
    if self.close(); len(self.pend) != 0 || len(self.cfg.Blocks) == 0 {
        self.cur.Ins = append(self.cur.Ins, nop())
        self.close()
    }

    /* wire all the edges */
    if err := self.connect(); err != nil {
        return nil, err
    } else {
        return self.cfg, nil
    }
}

// needsEntry checks whether the first block would be a jump target, the
// entry block must not have any predecessors.
func (self *_GraphBuilder) needsEntry() bool {
    var ok bool
    var lb *ir.Label
    var tr ir.Terminator

    /* find the labels at the head of the function */
    head := make(map[string]bool)
    for _, ins := range self.fn.Instrs {
        if lb, ok = ins.(*ir.Label); !ok {
            break
        } else {
            head[lb.Name] = true
        }
    }

    /* check every jump target */
    for _, ins := range self.fn.Instrs {
        if tr, ok = ins.(ir.Terminator); ok {
            for _, to := range tr.Targets() {
                if head[to] {
                    return true
                }
            }
        }
    }
    return false
}

func (self *_GraphBuilder) close() {
    bb := self.cur
    self.cur = new(BasicBlock)

    /* discard empty blocks, but keep their labels for the next block */
    if len(bb.Ins) == 0 {
        if len(bb.Phi) == 0 {
            return
        } else {
            bb.Ins = append(bb.Ins, nop())
        }
    }

    /* attach the pending labels */
    bb.Labels = self.pend
    self.pend = nil
    self.cfg.register(bb)
}

func (self *_GraphBuilder) connect() error {
    for i, bb := range self.cfg.Blocks {
        if err := self.connectBlock(bb, i); err != nil {
            return err
        }
    }
    return nil
}

func (self *_GraphBuilder) connectBlock(bb *BasicBlock, i int) error {
    tr := bb.Term()
    nb := len(self.cfg.Blocks)

    /* incoming labels of the Phi nodes must exist */
    for _, phi := range bb.Phi {
        for _, a := range phi.Args {
            if _, ok := self.cfg.Lookup(a.Label); !ok {
                return utils.EUndefinedIncoming(self.fn.Name, bb.Id, a.Label)
            }
        }
    }

    /* falls through to the next block, if any */
    if tr == nil {
        if i + 1 < nb {
            self.cfg.AddEdge(i, i + 1)
        }
        return nil
    }

    /* jump to every target, returns have no successor */
    for _, lb := range tr.Targets() {
        if to, ok := self.cfg.labels[lb]; !ok {
            return utils.EUndefinedLabel(self.fn.Name, bb.Id, lb)
        } else {
            self.cfg.AddEdge(i, to)
        }
    }
    return nil
}

func nop() ir.Instr {
    return &ir.Effect { Op: "nop" }
}
