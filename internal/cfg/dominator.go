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

// Dominators holds the dominance relation of a CFG, indexed by block id.
// It is stale after any mutation of the CFG.
type Dominators struct {
    Sets      []BlockSet
    Dominates []BlockSet
    Frontier  []BlockSet
    Idom      []int
    Children  [][]int
}

type _DominatorProblem struct{}

func (_DominatorProblem) Direction() Direction {
    return Forward
}

func (_DominatorProblem) Boundary(_ *BasicBlock) BlockSet {
    return BlockSet{}
}

func (_DominatorProblem) Meet(_ *BasicBlock, vals []BlockSet) BlockSet {
    if len(vals) == 0 {
        return BlockSet{}
    }

    /* intersect all the known predecessors */
    ret := vals[0].Clone()
    for _, v := range vals[1:] { ret.Intersect(v) }
    return ret
}

func (_DominatorProblem) Transfer(bb *BasicBlock, in BlockSet) BlockSet {
    ret := in.Clone()
    ret.Add(bb.Id)
    return ret
}

func (_DominatorProblem) Equal(a BlockSet, b BlockSet) bool {
    return a.Equal(b)
}

// ComputeDominators computes the iterative all-pairs dominator sets and the
// relations derived from them. Blocks unreachable from the entry are only
// dominated by themselves.
func ComputeDominators(g *CFG) *Dominators {
    nb := len(g.Blocks)
    rpo := g.ReversePostOrder()
    res := Solve[BlockSet](g, rpo, _DominatorProblem{})

    /* allocate the result */
    ret := &Dominators {
        Sets      : make([]BlockSet, nb),
        Dominates : make([]BlockSet, nb),
        Frontier  : make([]BlockSet, nb),
        Idom      : make([]int, nb),
        Children  : make([][]int, nb),
    }

    /* copy the dominator sets */
    for i := 0; i < nb; i++ {
        if ret.Idom[i] = -1; res.Known.Has(i) {
            ret.Sets[i] = res.Out[i]
        } else {
            ret.Sets[i] = NewBlockSet(nb)
            ret.Sets[i].Add(i)
        }
    }

    /* invert the relation */
    for i := 0; i < nb; i++ {
        ret.Dominates[i] = NewBlockSet(nb)
        ret.Frontier[i] = NewBlockSet(nb)
    }

    /* b dominated by d means d dominates b */
    for b, ds := range ret.Sets {
        for _, d := range ds.Ids() {
            ret.Dominates[d].Add(b)
        }
    }

    /* the immediate dominator is the closest strict dominator */
    for b := 0; b < nb; b++ {
        idom, size := -1, -1
        for _, d := range ret.Sets[b].Ids() {
            if n := ret.Sets[d].Len(); d != b && n > size {
                idom, size = d, n
            }
        }
        if ret.Idom[b] = idom; idom >= 0 {
            ret.Children[idom] = append(ret.Children[idom], b)
        }
    }

    /* frontier: d dominates a predecessor of s, but not strictly s */
    for _, bb := range rpo {
        for _, s := range bb.Succ {
            for _, d := range ret.Sets[bb.Id].Ids() {
                if !ret.Strict(d, s) {
                    ret.Frontier[d].Add(s)
                }
            }
        }
    }

    /* all done */
    return ret
}

// Dominate reports whether a dominates b.
func (self *Dominators) Dominate(a int, b int) bool {
    return self.Sets[b].Has(a)
}

// Strict reports whether a strictly dominates b.
func (self *Dominators) Strict(a int, b int) bool {
    return a != b && self.Sets[b].Has(a)
}
