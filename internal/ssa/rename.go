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

package ssa

import (
    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/cloudwego/ralloc/internal/utils`
    `github.com/oleiade/lane`
)

type _Frame struct {
    bb   *cfg.BasicBlock
    defs []ir.Var
    exit bool
}

type _Renamer struct {
    g     *cfg.CFG
    used  map[ir.Var]bool
    count map[ir.Var]int
    stack map[ir.Var][]ir.Var
}

func newRenamer(g *cfg.CFG) *_Renamer {
    ret := &_Renamer {
        g     : g,
        used  : make(map[ir.Var]bool),
        count : make(map[ir.Var]int),
        stack : make(map[ir.Var][]ir.Var),
    }

    /* reserve all the original names */
    for _, a := range g.Args {
        ret.used[a.Name] = true
    }
    for _, bb := range g.Blocks {
        for _, ins := range bb.Ins {
            _, wr := ir.Registers(ins)
            for _, r := range wr { ret.used[r] = true }
        }
    }

    /* arguments keep their names */
    for _, a := range g.Args {
        ret.stack[a.Name] = []ir.Var { a.Name }
    }
    return ret
}

func (self *_Renamer) topr(r ir.Var) (ir.Var, bool) {
    if n := len(self.stack[r]); n == 0 {
        return "", false
    } else {
        return self.stack[r][n - 1], true
    }
}

func (self *_Renamer) popr(r ir.Var) {
    if n := len(self.stack[r]); n != 0 {
        self.stack[r] = self.stack[r][:n - 1]
    }
}

func (self *_Renamer) pushr(r ir.Var) ir.Var {
    var v ir.Var
    var i = self.count[r]

    /* skip the versions that collide with an existing name */
    for v = r.Derive(i); self.used[v]; v = r.Derive(i) {
        i++
    }

    /* push onto the stack */
    self.used[v] = true
    self.count[r] = i + 1
    self.stack[r] = append(self.stack[r], v)
    return v
}

func (self *_Renamer) renameuses(bb *cfg.BasicBlock, idx int, ins ir.Instr) error {
    if u, ok := ins.(ir.Usages); ok {
        for _, a := range u.Usages() {
            if v, ok := self.topr(*a); ok {
                *a = v
            } else {
                return utils.EUndefinedVar(self.g.Name, bb.Id, idx, string(*a))
            }
        }
    }
    return nil
}

func (self *_Renamer) renamedefs(ins ir.Instr, buf *[]ir.Var) {
    if s, ok := ins.(ir.Definitions); ok {
        for _, def := range s.Definitions() {
            *buf = append(*buf, *def)
            *def = self.pushr(*def)
        }
    }
}

func (self *_Renamer) renameblock(fr *_Frame) error {
    bb := fr.bb

    /* rename Phi nodes */
    for _, phi := range bb.Phi {
        self.renamedefs(phi, &fr.defs)
    }

    /* rename body */
    for i, ins := range bb.Ins {
        if err := self.renameuses(bb, i, ins); err != nil {
            return err
        } else {
            self.renamedefs(ins, &fr.defs)
        }
    }

    /* fill the incoming values of the successor Phi nodes, the argument still
     * holds the original name at this point */
    for _, s := range bb.Succ {
        for _, phi := range self.g.Blocks[s].Phi {
            lb := self.g.EnsureLabel(bb.Id)
            if i := phi.Incoming(lb); i >= 0 {
                if v, ok := self.topr(phi.Args[i].Value); ok {
                    phi.Args[i].Value = v
                } else {
                    phi.Args[i] = ir.PhiArg { Label: lb, Value: ir.UndefinedName, Undefined: true }
                }
            }
        }
    }
    return nil
}

// rename walks the dominator tree with an explicit stack. Entering a block
// pushes the versions it defines, and leaving it pops them, so the top of
// every variable stack is always the reaching definition.
func rename(g *cfg.CFG, dt *cfg.Dominators) error {
    s := lane.NewStack()
    rr := newRenamer(g)

    /* start from the entry */
    s.Push(&_Frame { bb: g.Entry() })

    /* walk the tree */
    for !s.Empty() {
        fr := s.Pop().(*_Frame)

        /* leaving the block, restore the parent's view */
        if fr.exit {
            for _, v := range fr.defs {
                rr.popr(v)
            }
            continue
        }

        /* entering the block */
        if err := rr.renameblock(fr); err != nil {
            return err
        }

        /* children are visited before the exit marker pops */
        fr.exit = true
        s.Push(fr)

        /* visit children in ascending order */
        ch := dt.Children[fr.bb.Id]
        for i := len(ch) - 1; i >= 0; i-- {
            s.Push(&_Frame { bb: g.Blocks[ch[i]] })
        }
    }
    return nil
}
