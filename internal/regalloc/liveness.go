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
    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/cloudwego/ralloc/internal/utils`
)

// Liveness holds the per-block liveness sets, indexed by block id.
type Liveness struct {
    Gen     []_RegSet
    Kill    []_RegSet
    LiveIn  []_RegSet
    LiveOut []_RegSet
}

type _LivenessProblem struct {
    lv *Liveness
}

func (self _LivenessProblem) Direction() cfg.Direction {
    return cfg.Backward
}

func (self _LivenessProblem) Boundary(_ *cfg.BasicBlock) _RegSet {
    return _RegSet{}
}

// Meet computes live-out{p} = ∪(live-in{succ(p)}).
func (self _LivenessProblem) Meet(_ *cfg.BasicBlock, vals []_RegSet) _RegSet {
    ret := make(_RegSet)
    for _, v := range vals { ret.union(v) }
    return ret
}

// Transfer computes live-in{p} = gen{p} ∪ (live-out{p} - kill{p}).
func (self _LivenessProblem) Transfer(bb *cfg.BasicBlock, out _RegSet) _RegSet {
    ret := out.clone()
    ret.subtract(self.lv.Kill[bb.Id])
    ret.union(self.lv.Gen[bb.Id])
    return ret
}

func (self _LivenessProblem) Equal(a _RegSet, b _RegSet) bool {
    return a.equal(b)
}

func localsets(bb *cfg.BasicBlock) (gen _RegSet, kill _RegSet) {
    gen = make(_RegSet)
    kill = make(_RegSet)

    /* reads before writes generate, writes before reads kill */
    for _, ins := range bb.Ins {
        rd, wr := ir.Registers(ins)
        for _, r := range rd {
            if !kill.has(r) {
                gen.add(r)
            }
        }
        for _, r := range wr {
            if !gen.has(r) {
                kill.add(r)
            }
        }
    }
    return
}

// ComputeLiveness solves the liveness of every register of g. The CFG must
// not contain any Phi nodes.
func ComputeLiveness(g *cfg.CFG) (*Liveness, error) {
    nb := len(g.Blocks)
    ret := &Liveness {
        Gen     : make([]_RegSet, nb),
        Kill    : make([]_RegSet, nb),
        LiveIn  : make([]_RegSet, nb),
        LiveOut : make([]_RegSet, nb),
    }

    /* compute the local sets */
    for _, bb := range g.Blocks {
        if len(bb.Phi) != 0 {
            return nil, utils.ConstructionError {
                Func   : g.Name,
                Block  : bb.Id,
                Index  : -1,
                Reason : "Phi nodes must be eliminated before register allocation",
            }
        }
        ret.Gen[bb.Id], ret.Kill[bb.Id] = localsets(bb)
    }

    /* global fixpoint, backwards */
    res := cfg.Solve[_RegSet](g, g.Blocks, _LivenessProblem { ret })
    copy(ret.LiveOut, res.In)
    copy(ret.LiveIn, res.Out)
    return ret, nil
}
