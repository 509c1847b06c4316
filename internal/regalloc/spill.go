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

package regalloc

import (
    `fmt`

    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
)

type _Spiller struct {
    g     *cfg.CFG
    used  _RegSet
    temps _RegSet
    slots map[ir.Var]int
    count int
}

func newSpiller(g *cfg.CFG) *_Spiller {
    ret := &_Spiller {
        g     : g,
        used  : make(_RegSet),
        temps : make(_RegSet),
        slots : make(map[ir.Var]int),
    }

    /* reserve every name in the function */
    for _, a := range g.Args {
        ret.used.add(a.Name)
    }
    for _, bb := range g.Blocks {
        for _, ins := range bb.Ins {
            rd, wr := ir.Registers(ins)
            for _, r := range rd { ret.used.add(r) }
            for _, r := range wr { ret.used.add(r) }
        }
    }
    return ret
}

// temp creates a fresh short-lived register, which is never spilled.
func (self *_Spiller) temp() ir.Var {
    for {
        r := ir.Var(fmt.Sprintf("r.s%d", self.count))
        self.count++

        /* this name is free */
        if !self.used.has(r) {
            self.used.add(r)
            self.temps.add(r)
            return r
        }
    }
}

// slot returns the spill slot of r, allocating one if needed.
func (self *_Spiller) slot(r ir.Var) int {
    if i, ok := self.slots[r]; ok {
        return i
    }

    /* allocate a new slot */
    i := len(self.slots)
    self.slots[r] = i
    return i
}

// rewrite retires the spilled registers: every instruction reading one of
// them is preceded by a load into a fresh temporary, and every instruction
// writing one of them is followed by a store from a fresh temporary.
func (self *_Spiller) rewrite(spilled []ir.Var) {
    rs := regset(spilled...)
    for _, r := range spilled {
        self.slot(r)
    }

    /* rewrite every block */
    for _, bb := range self.g.Blocks {
        ins := bb.Ins
        bb.Ins = make([]ir.Instr, 0, len(ins))

        /* arguments arrive in registers, store them at entry */
        if bb.Id == 0 {
            for _, a := range self.g.Args {
                if rs.has(a.Name) {
                    bb.Ins = append(bb.Ins, &ir.SpillStore { Src: a.Name, Slot: self.slots[a.Name] })
                    self.temps.add(a.Name)
                }
            }
        }

        /* rewrite every instruction */
        for _, v := range ins {
            var tmp map[ir.Var]ir.Var
            var post []ir.Instr

            /* check the operands */
            rd, wr := ir.Registers(v)
            for _, r := range append(rd, wr...) {
                if rs.has(r) && tmp[r] == "" {
                    if tmp == nil {
                        tmp = make(map[ir.Var]ir.Var)
                    }
                    tmp[r] = self.temp()
                }
            }

            /* not affected */
            if tmp == nil {
                bb.Ins = append(bb.Ins, v)
                continue
            }

            /* load the spilled operands */
            for _, r := range uniq(rd) {
                if t, ok := tmp[r]; ok {
                    bb.Ins = append(bb.Ins, &ir.SpillLoad { Dest: t, Slot: self.slots[r] })
                }
            }

            /* store the spilled results */
            for _, r := range uniq(wr) {
                if t, ok := tmp[r]; ok {
                    post = append(post, &ir.SpillStore { Src: t, Slot: self.slots[r] })
                }
            }

            /* never modify the original instruction */
            p := ir.Clone(v)
            ir.Rename(p, func(r ir.Var) ir.Var {
                if t, ok := tmp[r]; ok {
                    return t
                } else {
                    return r
                }
            })

            /* add to the new block */
            bb.Ins = append(bb.Ins, p)
            bb.Ins = append(bb.Ins, post...)
        }
    }
}

func uniq(rr []ir.Var) []ir.Var {
    ret := rr[:0:0]
    for _, r := range rr {
        found := false
        for _, x := range ret {
            if x == r {
                found = true
                break
            }
        }
        if !found {
            ret = append(ret, r)
        }
    }
    return ret
}
