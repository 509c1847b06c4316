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

import (
    `testing`

    `github.com/cloudwego/ralloc/internal/testutil`
    `github.com/stretchr/testify/require`
    `gonum.org/v1/gonum/graph/flow`
    `gonum.org/v1/gonum/graph/simple`
)

const loop = `
    {"op": "const", "dest": "i", "value": 0},
    {"label": "head"},
    {"op": "lt", "dest": "c", "args": ["i", "i"]},
    {"op": "br", "args": ["c"], "labels": ["body", "exit"]},
    {"label": "body"},
    {"op": "add", "dest": "i", "args": ["i", "i"]},
    {"op": "jmp", "labels": ["head"]},
    {"label": "exit"},
    {"op": "ret", "args": ["i"]}
`

// preorder returns the block ids in a pre-order walk of the dominator tree.
func preorder(d *Dominators) []int {
    var ret []int
    var stk []int

    /* start from the entry */
    if len(d.Idom) != 0 {
        stk = append(stk, 0)
    }

    /* pop one, push the children in reverse */
    for len(stk) != 0 {
        n := len(stk) - 1
        p := stk[n]
        stk = stk[:n]
        ret = append(ret, p)

        /* visit children in ascending order */
        for i := len(d.Children[p]) - 1; i >= 0; i-- {
            stk = append(stk, d.Children[p][i])
        }
    }
    return ret
}

func TestDominators_Diamond(t *testing.T) {
    g := mustBuild(t, diamond)
    d := ComputeDominators(g)
    require.Equal(t, []int { 0 }, d.Sets[0].Ids())
    require.Equal(t, []int { 0, 1 }, d.Sets[1].Ids())
    require.Equal(t, []int { 0, 2 }, d.Sets[2].Ids())
    require.Equal(t, []int { 0, 3 }, d.Sets[3].Ids())
    require.Equal(t, []int { 0, 1, 2, 3 }, d.Dominates[0].Ids())

    /* frontiers */
    require.Empty(t, d.Frontier[0].Ids())
    require.Equal(t, []int { 3 }, d.Frontier[1].Ids())
    require.Equal(t, []int { 3 }, d.Frontier[2].Ids())
    require.Empty(t, d.Frontier[3].Ids())

    /* dominator tree */
    require.Equal(t, []int { -1, 0, 0, 0 }, d.Idom)
    require.Equal(t, []int { 1, 2, 3 }, d.Children[0])
    require.Equal(t, []int { 0, 1, 2, 3 }, preorder(d))
}

func TestDominators_Loop(t *testing.T) {
    g := mustBuild(t, loop)
    d := ComputeDominators(g)
    require.Len(t, g.Blocks, 4)
    require.Equal(t, []int { 0, 1, 2 }, d.Sets[2].Ids())
    require.Equal(t, []int { 0, 1, 3 }, d.Sets[3].Ids())

    /* the loop header is in its own frontier */
    require.Equal(t, []int { 1 }, d.Frontier[1].Ids())
    require.Equal(t, []int { 1 }, d.Frontier[2].Ids())
    require.True(t, d.Dominate(1, 1))
    require.False(t, d.Strict(1, 1))
    require.True(t, d.Strict(1, 2))
}

func TestDominators_Unreachable(t *testing.T) {
    g := mustBuild(t, `
        {"op": "ret"},
        {"label": "dead"},
        {"op": "jmp", "labels": ["live"]},
        {"label": "live"},
        {"op": "ret"}
    `)
    d := ComputeDominators(g)
    require.Equal(t, []int { 1 }, d.Sets[1].Ids())
    require.Equal(t, []int { 2 }, d.Sets[2].Ids())
    require.Equal(t, -1, d.Idom[1])
    require.Equal(t, []int { 0 }, preorder(d))
}

func oracle(g *CFG) flow.DominatorTree {
    dg := simple.NewDirectedGraph()
    for _, bb := range g.Blocks {
        dg.AddNode(simple.Node(bb.Id))
    }
    for _, bb := range g.Blocks {
        for _, s := range bb.Succ {
            if s != bb.Id {
                dg.SetEdge(dg.NewEdge(simple.Node(bb.Id), simple.Node(s)))
            }
        }
    }
    return flow.Dominators(simple.Node(0), dg)
}

func TestDominators_RandomPrograms(t *testing.T) {
    for seed := int64(0); seed < 100; seed++ {
        g, err := Build(testutil.NewGenerator(seed, testutil.DefaultConfig).Function("f"))
        require.NoError(t, err)
        d := ComputeDominators(g)
        rs := g.Reachable()
        dt := oracle(g)

        /* reflexivity and transitivity */
        for z := range g.Blocks {
            require.True(t, d.Dominate(z, z))
            for _, y := range d.Sets[z].Ids() {
                for _, x := range d.Sets[y].Ids() {
                    require.True(t, d.Dominate(x, z), "seed %d: bb_%d dom bb_%d dom bb_%d", seed, x, y, z)
                }
            }
        }

        /* immediate dominators agree with Lengauer-Tarjan */
        for b := 1; b < len(g.Blocks); b++ {
            if !rs.Has(b) {
                require.Equal(t, -1, d.Idom[b])
            } else {
                require.Equal(t, dt.DominatorOf(int64(b)).ID(), int64(d.Idom[b]), "seed %d, bb_%d", seed, b)
            }
        }

        /* frontier definition */
        for _, b1 := range rs.Ids() {
            for _, s := range rs.Ids() {
                exp := false
                for _, p := range g.Blocks[s].Pred {
                    if rs.Has(p) && d.Dominate(b1, p) && !d.Strict(b1, s) {
                        exp = true
                    }
                }
                require.Equal(t, exp, d.Frontier[b1].Has(s), "seed %d: DF(bb_%d) has bb_%d", seed, b1, s)
            }
        }
    }
}
