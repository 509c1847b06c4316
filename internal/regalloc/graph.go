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
    `strings`

    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/cloudwego/ralloc/internal/target`
    `golang.org/x/exp/maps`
    `golang.org/x/exp/slices`
    `gonum.org/v1/gonum/graph/simple`
)

// _Node is a node of the interference graph. Physical nodes come first and
// their ids equal their colors.
type _Node struct {
    id   int64
    reg  ir.Var
    phys target.Register
    temp bool
}

func (self *_Node) String() string {
    if self.phys != nil {
        return "%" + self.phys.String()
    } else {
        return self.reg.String()
    }
}

// Graph is the interference graph of a function.
type Graph struct {
    name  string
    g     *simple.UndirectedGraph
    k     int
    nodes []*_Node
    vids  map[ir.Var]int64
}

func newGraph(regs []target.Register) *Graph {
    ret := &Graph {
        g    : simple.NewUndirectedGraph(),
        k    : len(regs),
        vids : make(map[ir.Var]int64),
    }

    /* physical nodes never conflict with each other */
    for _, r := range regs {
        ret.addNode(&_Node { phys: r })
    }
    return ret
}

func (self *Graph) addNode(p *_Node) int64 {
    p.id = int64(len(self.nodes))
    self.nodes = append(self.nodes, p)
    self.g.AddNode(simple.Node(p.id))
    return p.id
}

func (self *Graph) addEdge(a int64, b int64) {
    if a != b {
        self.g.SetEdge(self.g.NewEdge(simple.Node(a), simple.Node(b)))
    }
}

func (self *Graph) physical(id int64) bool {
    return id < int64(self.k)
}

// Conflict reports whether register a and register b are adjacent.
func (self *Graph) Conflict(a ir.Var, b ir.Var) bool {
    x, ok1 := self.vids[a]
    y, ok2 := self.vids[b]
    return ok1 && ok2 && self.g.HasEdgeBetween(x, y)
}

// Forbidden returns the physical registers that r must not be assigned to.
func (self *Graph) Forbidden(r ir.Var) []target.Register {
    var ret []target.Register
    for _, id := range self.neighbors(self.vids[r]) {
        if self.physical(id) {
            ret = append(ret, self.nodes[id].phys)
        }
    }
    return ret
}

// Degree returns the number of registers conflicting with r.
func (self *Graph) Degree(r ir.Var) int {
    return self.g.From(self.vids[r]).Len()
}

func (self *Graph) neighbors(id int64) []int64 {
    it := self.g.From(id)
    ret := make([]int64, 0, it.Len())

    /* collect all the adjacent nodes */
    for it.Next() {
        ret = append(ret, it.Node().ID())
    }

    /* keep the order stable */
    slices.Sort(ret)
    return ret
}

func (self *Graph) String() string {
    buf := make([]string, 0, len(self.nodes))
    for _, p := range self.nodes[self.k:] {
        var adj []string
        for _, id := range self.neighbors(p.id) {
            adj = append(adj, self.nodes[id].String())
        }
        buf = append(buf, fmt.Sprintf("%s -- {%s}", p, strings.Join(adj, ", ")))
    }
    return strings.Join(buf, "\n")
}

// BuildGraph constructs the interference graph from the live ranges of g.
// Every register read, written, or live across an instruction that clobbers
// some physical registers conflicts with those registers.
func BuildGraph(g *cfg.CFG, m target.Machine, lr map[ir.Var]LiveRange, pp *Points, temps _RegSet) *Graph {
    regs := m.Registers()
    ret := newGraph(regs)
    vars := maps.Keys(lr)
    ret.name = g.Name

    /* virtual nodes in a stable order */
    slices.Sort(vars)
    for _, v := range vars {
        ret.vids[v] = ret.addNode(&_Node { reg: v, temp: temps.has(v) })
    }

    /* overlapping live ranges interfere */
    for i, a := range vars {
        for _, b := range vars[i + 1:] {
            if lr[a].Overlaps(lr[b]) {
                ret.addEdge(ret.vids[a], ret.vids[b])
            }
        }
    }

    /* map physical registers to their nodes */
    phys := make(map[target.Register]int64, len(regs))
    for i, r := range regs {
        phys[r] = int64(i)
    }

    /* architecture-forced conflicts */
    for _, bb := range g.Blocks {
        for i, ins := range bb.Ins {
            var ids []int64
            var clobbers = m.Clobbers(ins)

            /* only allocatable registers matter */
            for _, r := range clobbers {
                if id, ok := phys[r]; ok {
                    ids = append(ids, id)
                }
            }

            /* nothing clobbered */
            if len(ids) == 0 {
                continue
            }

            /* the operands of the instruction, if pinned */
            p := pp.Of(bb.Id, i)
            busy := regset()

            /* a pinned instruction cannot keep any of its operands in them */
            if m.Pinned(ins) {
                rd, wr := ir.Registers(ins)
                busy = regset(append(rd, wr...)...)
            }

            /* and everything live across it */
            for _, v := range vars {
                if lr[v].Across(p) {
                    busy.add(v)
                }
            }

            /* add the conflicts */
            for r := range busy {
                for _, id := range ids {
                    ret.addEdge(ret.vids[r], id)
                }
            }
        }
    }
    return ret
}
