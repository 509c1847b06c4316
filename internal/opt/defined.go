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

package opt

import (
    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/cloudwego/ralloc/internal/utils`
    `golang.org/x/exp/maps`
    `golang.org/x/exp/slices`
)

type VarSet map[ir.Var]struct{}

func (self VarSet) Has(v ir.Var) bool {
    _, ok := self[v]
    return ok
}

// Sorted returns the members of the set in ascending order.
func (self VarSet) Sorted() []ir.Var {
    ret := maps.Keys(self)
    slices.Sort(ret)
    return ret
}

type _DefinedVariables struct {
    args []ir.Arg
}

func (self _DefinedVariables) Direction() cfg.Direction {
    return cfg.Forward
}

func (self _DefinedVariables) Boundary(_ *cfg.BasicBlock) VarSet {
    ret := make(VarSet, len(self.args))
    for _, a := range self.args { ret[a.Name] = struct{}{} }
    return ret
}

func (self _DefinedVariables) Meet(_ *cfg.BasicBlock, vals []VarSet) VarSet {
    ret := make(VarSet)
    for _, v := range vals { maps.Copy(ret, v) }
    return ret
}

func (self _DefinedVariables) Transfer(bb *cfg.BasicBlock, in VarSet) VarSet {
    ret := maps.Clone(in)
    for _, phi := range bb.Phi {
        ret[phi.Dest] = struct{}{}
    }
    for _, ins := range bb.Ins {
        _, wr := ir.Registers(ins)
        for _, r := range wr { ret[r] = struct{}{} }
    }
    return ret
}

func (self _DefinedVariables) Equal(a VarSet, b VarSet) bool {
    return maps.Equal(a, b)
}

// DefinedVariables computes the variables defined on at least one path from
// the entry to the start (In) and end (Out) of every block.
func DefinedVariables(g *cfg.CFG) *cfg.Result[VarSet] {
    return cfg.Solve[VarSet](g, g.ReversePostOrder(), _DefinedVariables { args: g.Args })
}

// CheckDefined reports the first use of a variable that no path from the
// entry defines.
func CheckDefined(g *cfg.CFG) error {
    res := DefinedVariables(g)
    for _, bb := range g.ReversePostOrder() {
        defs := maps.Clone(res.In[bb.Id])

        /* Phi nodes are evaluated on the edges */
        for _, phi := range bb.Phi {
            defs[phi.Dest] = struct{}{}
        }

        /* check every instruction in order */
        for i, ins := range bb.Ins {
            rd, wr := ir.Registers(ins)
            for _, r := range rd {
                if !defs.Has(r) {
                    return utils.EUndefinedVar(g.Name, bb.Id, i, string(r))
                }
            }
            for _, r := range wr {
                defs[r] = struct{}{}
            }
        }
    }
    return nil
}
