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
    `fmt`

    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
    `golang.org/x/exp/maps`
    `golang.org/x/exp/slices`
)

// Def is a definition site. Function arguments have Block == -1 and Index
// set to the argument position, Phi nodes have Phi set.
type Def struct {
    Block int
    Index int
    Phi   bool
}

func (self Def) String() string {
    if self.Block < 0 {
        return fmt.Sprintf("arg %d", self.Index)
    } else if self.Phi {
        return fmt.Sprintf("bb_%d:phi %d", self.Block, self.Index)
    } else {
        return fmt.Sprintf("bb_%d:%d", self.Block, self.Index)
    }
}

func defless(a Def, b Def) bool {
    if a.Block != b.Block {
        return a.Block < b.Block
    } else if a.Phi != b.Phi {
        return a.Phi
    } else {
        return a.Index < b.Index
    }
}

type DefMap map[ir.Var]map[Def]struct{}

// Sites returns the definitions of v in a stable order.
func (self DefMap) Sites(v ir.Var) []Def {
    ret := maps.Keys(self[v])
    slices.SortFunc(ret, defless)
    return ret
}

func (self DefMap) clone() DefMap {
    ret := make(DefMap, len(self))
    for k, v := range self { ret[k] = maps.Clone(v) }
    return ret
}

func (self DefMap) kill(v ir.Var, d Def) {
    self[v] = map[Def]struct{} { d: {} }
}

type _ReachingDefinitions struct {
    args []ir.Arg
}

func (self _ReachingDefinitions) Direction() cfg.Direction {
    return cfg.Forward
}

func (self _ReachingDefinitions) Boundary(_ *cfg.BasicBlock) DefMap {
    ret := make(DefMap, len(self.args))
    for i, a := range self.args { ret.kill(a.Name, Def { Block: -1, Index: i }) }
    return ret
}

func (self _ReachingDefinitions) Meet(_ *cfg.BasicBlock, vals []DefMap) DefMap {
    ret := make(DefMap)
    for _, v := range vals {
        for k, s := range v {
            if ret[k] == nil {
                ret[k] = maps.Clone(s)
            } else {
                maps.Copy(ret[k], s)
            }
        }
    }
    return ret
}

func (self _ReachingDefinitions) Transfer(bb *cfg.BasicBlock, in DefMap) DefMap {
    ret := in.clone()
    replayBlock(bb, ret, len(bb.Ins))
    return ret
}

func (self _ReachingDefinitions) Equal(a DefMap, b DefMap) bool {
    return maps.EqualFunc(a, b, func(x map[Def]struct{}, y map[Def]struct{}) bool {
        return maps.Equal(x, y)
    })
}

// replayBlock applies the definitions of the Phi nodes and of the first n
// instructions of bb to m.
func replayBlock(bb *cfg.BasicBlock, m DefMap, n int) {
    for i, phi := range bb.Phi {
        m.kill(phi.Dest, Def { Block: bb.Id, Index: i, Phi: true })
    }
    for i, ins := range bb.Ins[:n] {
        _, wr := ir.Registers(ins)
        for _, r := range wr { m.kill(r, Def { Block: bb.Id, Index: i }) }
    }
}

type ReachingDefinitions struct {
    g   *cfg.CFG
    res *cfg.Result[DefMap]
}

// ComputeReachingDefinitions computes, for every block, the definitions of
// every variable that may reach the block.
func ComputeReachingDefinitions(g *cfg.CFG) *ReachingDefinitions {
    return &ReachingDefinitions {
        g   : g,
        res : cfg.Solve[DefMap](g, g.ReversePostOrder(), _ReachingDefinitions { args: g.Args }),
    }
}

// In returns the definitions reaching the start of block id.
func (self *ReachingDefinitions) In(id int) DefMap {
    return self.res.In[id]
}

// Out returns the definitions reaching the end of block id.
func (self *ReachingDefinitions) Out(id int) DefMap {
    return self.res.Out[id]
}

// At returns the definitions of v that reach the idx-th instruction of
// block id, right before it executes.
func (self *ReachingDefinitions) At(id int, idx int, v ir.Var) []Def {
    m := self.res.In[id].clone()
    replayBlock(self.g.Blocks[id], m, idx)
    return m.Sites(v)
}
