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
    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/oleiade/lane`
)

type _Coloring struct {
    ig     *Graph
    active []bool
    colors []int
}

func newColoring(ig *Graph) *_Coloring {
    ret := &_Coloring {
        ig     : ig,
        active : make([]bool, len(ig.nodes)),
        colors : make([]int, len(ig.nodes)),
    }

    /* physical nodes are pre-colored with themselves */
    for i := range ret.colors {
        ret.active[i] = true
        ret.colors[i] = -1
        if ig.physical(int64(i)) {
            ret.colors[i] = i
        }
    }
    return ret
}

// degree counts the neighbors that are still active.
func (self *_Coloring) degree(id int64) int {
    n := 0
    for _, v := range self.ig.neighbors(id) {
        if self.active[v] {
            n++
        }
    }
    return n
}

// simplify removes virtual nodes with fewer than k active neighbors until
// none is left, and returns the removal order.
func (self *_Coloring) simplify() *lane.Stack {
    k := self.ig.k
    s := lane.NewStack()

    /* remove one node each time, since it lowers the degree of others */
    for next := true; next; {
        next = false
        for _, p := range self.ig.nodes[k:] {
            if self.active[p.id] && self.degree(p.id) < k {
                next = true
                self.active[p.id] = false
                s.Push(p)
            }
        }
    }
    return s
}

// remaining returns the virtual nodes that could not be simplified.
func (self *_Coloring) remaining() []*_Node {
    var ret []*_Node
    for _, p := range self.ig.nodes[self.ig.k:] {
        if self.active[p.id] {
            ret = append(ret, p)
        }
    }
    return ret
}

// selectColors pops the simplified nodes and assigns each one the first
// color unused by its colored neighbors. It returns the node that could not
// be colored, if any.
func (self *_Coloring) selectColors(s *lane.Stack) *_Node {
    for !s.Empty() {
        p := s.Pop().(*_Node)
        used := make([]bool, self.ig.k)

        /* mark the colors of all the neighbors */
        for _, v := range self.ig.neighbors(p.id) {
            if c := self.colors[v]; c >= 0 {
                used[c] = true
            }
        }

        /* pick the first free color */
        for c, ok := range used {
            if !ok {
                self.colors[p.id] = c
                break
            }
        }

        /* simplification guaranteed a free color */
        if self.colors[p.id] < 0 {
            return p
        }

        /* the node is active again */
        self.active[p.id] = true
    }
    return nil
}

// victims selects the registers to spill among the remaining nodes: the
// ones with the highest degree, then pruned so that no two of them
// conflict. Spill temporaries are never selected.
func (self *_Coloring) victims(rem []*_Node) []ir.Var {
    var ret []ir.Var
    var max = -1
    var cand []*_Node

    /* find the candidates with the highest degree */
    for _, p := range rem {
        if !p.temp {
            if d := self.degree(p.id); d > max {
                max, cand = d, []*_Node { p }
            } else if d == max {
                cand = append(cand, p)
            }
        }
    }

    /* prune the mutually conflicting candidates */
    var sel []*_Node
    for _, p := range cand {
        ok := true
        for _, q := range sel {
            if self.ig.g.HasEdgeBetween(p.id, q.id) {
                ok = false
                break
            }
        }
        if ok {
            sel = append(sel, p)
            ret = append(ret, p.reg)
        }
    }
    return ret
}
