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
    `github.com/oleiade/lane`
    `golang.org/x/exp/maps`
    `golang.org/x/exp/slices`
)

type _DefSites struct {
    defs  map[ir.Var]cfg.BlockSet
    types map[ir.Var]ir.Type
}

func typeof(ins ir.Instr) ir.Type {
    switch v := ins.(type) {
        case *ir.Const : return v.Type
        case *ir.Value : return v.Type
        default        : return ""
    }
}

func (self *_DefSites) add(v ir.Var, t ir.Type, id int) {
    s := self.defs[v]
    s.Add(id)
    self.defs[v] = s

    /* first known type wins */
    if _, ok := self.types[v]; !ok || self.types[v] == "" {
        self.types[v] = t
    }
}

func findDefSites(g *cfg.CFG) *_DefSites {
    ret := &_DefSites {
        defs  : make(map[ir.Var]cfg.BlockSet),
        types : make(map[ir.Var]ir.Type),
    }

    /* function arguments are defined at entry */
    for _, a := range g.Args {
        ret.add(a.Name, a.Type, 0)
    }

    /* scan every instruction */
    for _, bb := range g.Blocks {
        for _, ins := range bb.Ins {
            if d, ok := ins.(ir.Definitions); ok {
                for _, v := range d.Definitions() {
                    ret.add(*v, typeof(ins), bb.Id)
                }
            }
        }
    }
    return ret
}

// insertPhiNodes places Phi nodes on the iterated dominance frontier of the
// definition sites of every variable. Each Phi node has one argument per
// predecessor, holding the original variable name until renaming.
func insertPhiNodes(g *cfg.CFG, dt *cfg.Dominators) int {
    nphi := 0
    ds := findDefSites(g)
    vars := maps.Keys(ds.defs)

    /* process variables in a stable order */
    slices.Sort(vars)

    /* insert Phi node for every variable */
    for _, v := range vars {
        q := lane.NewQueue()
        done := cfg.NewBlockSet(len(g.Blocks))
        orig := ds.defs[v]

        /* start from the definition sites */
        for _, id := range orig.Ids() {
            q.Enqueue(id)
        }

        /* iterate until the worklist drains */
        for !q.Empty() {
            n := q.Dequeue().(int)
            for _, y := range dt.Frontier[n].Ids() {
                if done.Has(y) {
                    continue
                }

                /* mark as processed */
                bb := g.Blocks[y]
                phi := &ir.Phi { Dest: v, Type: ds.types[v] }
                done.Add(y)

                /* build the Phi node args */
                for _, p := range bb.Pred {
                    phi.Args = append(phi.Args, ir.PhiArg {
                        Label : g.EnsureLabel(p),
                        Value : v,
                    })
                }

                /* a Phi node is a new definition site */
                nphi++
                bb.Phi = append(bb.Phi, phi)

                /* a node may contain both an ordinary definition and a
                 * Phi node for the same variable */
                if !orig.Has(y) {
                    q.Enqueue(y)
                }
            }
        }
    }
    return nphi
}
