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
    `context`
    `log/slog`

    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/cloudwego/ralloc/internal/opts`
    `github.com/cloudwego/ralloc/internal/target`
    `github.com/cloudwego/ralloc/internal/utils`
    `github.com/davecgh/go-spew/spew`
    `golang.org/x/exp/maps`
    `golang.org/x/exp/slices`
)

// Result is a successful register assignment.
type Result struct {
    Colors  map[ir.Var]target.Register
    Slots   map[ir.Var]int
    Rounds  int
    Spilled []ir.Var
    graph   *Graph
}

// NumSlots returns the number of spill slots used.
func (self *Result) NumSlots() int {
    return len(self.Slots)
}

// Apply rewrites every virtual register in g with the name of its physical
// register.
func (self *Result) Apply(g *cfg.CFG) {
    fn := func(r ir.Var) ir.Var {
        if p, ok := self.Colors[r]; ok {
            return ir.Var(p.String())
        } else {
            return r
        }
    }

    /* rename every instruction */
    for _, bb := range g.Blocks {
        for _, ins := range bb.Ins {
            ir.Rename(ins, fn)
        }
    }

    /* and the arguments */
    for i, a := range g.Args {
        g.Args[i].Name = fn(a.Name)
    }
}

type _Allocator struct {
    g  *cfg.CFG
    m  target.Machine
    op opts.Options
    sp *_Spiller
}

var dumper = spew.ConfigState {
    Indent   : "    ",
    SortKeys : true,
}

func dumpRanges(lr map[ir.Var]LiveRange) string {
    return dumper.Sdump(lr)
}

// round runs liveness and coloring once. It returns either the coloring, or
// the registers that must be spilled before retrying.
func (self *_Allocator) round(n int) (*_Coloring, []ir.Var, error) {
    lv, err := ComputeLiveness(self.g)
    if err != nil {
        return nil, nil, err
    }

    /* Phase 1: Calculate live ranges */
    pp := NumberPoints(self.g)
    lr := ComputeLiveRanges(self.g, lv, pp)

    /* dump the live ranges in debug mode */
    if utils.Logger.Enabled(context.Background(), slog.LevelDebug) {
        utils.Logger.Debug("regalloc: live ranges", "func", self.g.Name, "round", n, "ranges", dumpRanges(lr))
    }

    /* Phase 2: Build the interference graph */
    ig := BuildGraph(self.g, self.m, lr, pp, self.sp.temps)
    cc := newColoring(ig)

    /* Phase 3: Simplify */
    stk := cc.simplify()
    rem := cc.remaining()

    /* Phase 4: Spill if simplification stalls */
    if len(rem) != 0 {
        if vv := cc.victims(rem); len(vv) != 0 {
            return nil, vv, nil
        } else {
            return nil, nil, utils.EExhausted(self.g.Name, "registers", ig.k)
        }
    }

    /* Phase 5: Select colors */
    if p := cc.selectColors(stk); p != nil {
        return nil, nil, utils.EInvariant(self.g.Name, n, p.reg.String(), "no color left for a simplified node")
    } else {
        return cc, nil, nil
    }
}

func (self *_Allocator) result(cc *_Coloring, rounds int, spilled []ir.Var) *Result {
    regs := self.m.Registers()
    ret := &Result {
        Colors  : make(map[ir.Var]target.Register),
        Slots   : self.sp.slots,
        Rounds  : rounds,
        Spilled : spilled,
        graph   : cc.ig,
    }

    /* map the colors back to physical registers */
    for _, p := range cc.ig.nodes[cc.ig.k:] {
        ret.Colors[p.reg] = regs[cc.colors[p.id]]
    }
    return ret
}

// Allocate assigns a physical register of m to every virtual register of g,
// spilling registers to memory when the machine runs out of them. The spill
// code is inserted into g, so g must not be shared.
func Allocate(g *cfg.CFG, m target.Machine, op opts.Options) (*Result, error) {
    var spilled []ir.Var
    var ra = &_Allocator { g: g, m: m, op: op, sp: newSpiller(g) }

    /* loop until no more retries */
    for n := 1;; n++ {
        cc, vv, err := ra.round(n)
        if err != nil {
            return nil, err
        }

        /* allocation succeeded */
        if cc != nil {
            slices.Sort(spilled)
            stats.record(n, len(spilled))
            utils.Logger.Debug("regalloc: done", "func", g.Name, "rounds", n, "spilled", len(spilled), "slots", len(ra.sp.slots))
            return ra.result(cc, n, spilled), nil
        }

        /* check the limits */
        if !op.CanRetry(n) {
            return nil, utils.EExhausted(g.Name, "spill rounds", op.MaxSpillRounds)
        } else if !op.CanSpill(len(ra.sp.slots) + len(vv)) {
            return nil, utils.EExhausted(g.Name, "spill slots", op.MaxSpillSlots)
        }

        /* retire the spilled registers and retry */
        ra.sp.rewrite(vv)
        spilled = append(spilled, vv...)
        utils.Logger.Info("regalloc: spilling", "func", g.Name, "round", n, "regs", vv)
    }
}

// Graph returns the interference graph of the final round.
func (self *Result) Graph() *Graph {
    return self.graph
}

// Verify checks the assignment against the interference graph of the final
// round: no two conflicting registers share a physical register, and no
// register sits in a physical register it is forced to conflict with.
func (self *Result) Verify() error {
    ig := self.graph
    vars := maps.Keys(ig.vids)
    slices.Sort(vars)

    /* check every pair */
    for i, a := range vars {
        for _, p := range ig.Forbidden(a) {
            if self.Colors[a] == p {
                return utils.EInvariant(ig.name, self.Rounds, a.String(), "assigned to a clobbered register " + p.String())
            }
        }
        for _, b := range vars[i + 1:] {
            if ig.Conflict(a, b) && self.Colors[a] == self.Colors[b] {
                return utils.EInvariant(ig.name, self.Rounds, a.String(), "shares " + self.Colors[a].String() + " with " + b.String())
            }
        }
    }
    return nil
}
