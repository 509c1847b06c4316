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
    `fmt`
    `testing`

    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/cloudwego/ralloc/internal/testutil`
    `github.com/cloudwego/ralloc/internal/utils`
    `github.com/stretchr/testify/require`
)

func parse(t *testing.T, instrs string) *ir.Function {
    p, err := ir.ParseProgram([]byte(fmt.Sprintf(`{"functions": [{"name": "f", "instrs": [%s]}]}`, instrs)))
    require.NoError(t, err)
    return p.Functions[0]
}

func mustBuild(t *testing.T, instrs string) *CFG {
    g, err := Build(parse(t, instrs))
    require.NoError(t, err)
    require.NoError(t, g.Verify())
    return g
}

const diamond = `
    {"op": "const", "dest": "c", "value": true},
    {"op": "br", "args": ["c"], "labels": ["left", "right"]},
    {"label": "left"},
    {"op": "const", "dest": "x", "value": 1},
    {"op": "jmp", "labels": ["join"]},
    {"label": "right"},
    {"op": "const", "dest": "x", "value": 2},
    {"label": "join"},
    {"op": "print", "args": ["x"]},
    {"op": "ret"}
`

func TestBuilder_StraightLine(t *testing.T) {
    g := mustBuild(t, `
        {"op": "const", "dest": "a", "value": 4},
        {"op": "const", "dest": "b", "value": 2},
        {"op": "add", "dest": "c", "args": ["a", "b"]},
        {"op": "ret"}
    `)
    require.Len(t, g.Blocks, 1)
    require.Len(t, g.Entry().Ins, 4)
    require.Empty(t, g.Entry().Succ)
    require.Empty(t, g.Entry().Pred)
}

func TestBuilder_Diamond(t *testing.T) {
    g := mustBuild(t, diamond)
    require.Len(t, g.Blocks, 4)
    require.Equal(t, []int { 1, 2 }, g.Blocks[0].Succ)
    require.Equal(t, []int { 3 }, g.Blocks[1].Succ)
    require.Equal(t, []int { 3 }, g.Blocks[2].Succ)
    require.Equal(t, []int { 1, 2 }, g.Blocks[3].Pred)
    require.Empty(t, g.Blocks[3].Succ)

    /* label lookup */
    bb, ok := g.Lookup("join")
    require.True(t, ok)
    require.Equal(t, 3, bb.Id)
    _, ok = g.Lookup("nowhere")
    require.False(t, ok)
}

func TestBuilder_UndefinedLabel(t *testing.T) {
    var ce utils.ConstructionError
    _, err := Build(parse(t, `{"op": "jmp", "labels": ["nowhere"]}`))
    require.ErrorAs(t, err, &ce)
    require.Equal(t, "nowhere", ce.Label)
    require.Equal(t, 0, ce.Block)
}

func TestBuilder_DuplicateLabel(t *testing.T) {
    var ce utils.ConstructionError
    _, err := Build(parse(t, `{"label": "a"}, {"op": "nop"}, {"label": "a"}, {"op": "ret"}`))
    require.ErrorAs(t, err, &ce)
    require.Equal(t, "a", ce.Label)
    require.Equal(t, 2, ce.Index)
}

func TestBuilder_LabelAliases(t *testing.T) {
    g := mustBuild(t, `
        {"op": "nop"},
        {"label": "a"},
        {"label": "b"},
        {"op": "print", "args": []},
        {"op": "jmp", "labels": ["a"]},
        {"label": "c"}
    `)
    require.Len(t, g.Blocks, 3)
    require.Equal(t, []string { "a", "b" }, g.Blocks[1].Labels)
    require.Equal(t, []int { 1 }, g.Blocks[1].Succ)
    require.Equal(t, []int { 0, 1 }, g.Blocks[1].Pred)

    /* the trailing label gets a landing block */
    require.Equal(t, []string { "c" }, g.Blocks[2].Labels)
    require.Equal(t, "nop", g.Blocks[2].Ins[0].String())
    require.Empty(t, g.Blocks[2].Pred)
}

func TestBuilder_SyntheticEntry(t *testing.T) {
    g := mustBuild(t, `
        {"label": "loop"},
        {"op": "const", "dest": "c", "value": false},
        {"op": "br", "args": ["c"], "labels": ["loop", "loop"]},
        {"op": "ret"}
    `)
    require.Len(t, g.Blocks, 3)
    require.Empty(t, g.Entry().Pred)
    require.Equal(t, []int { 1 }, g.Entry().Succ)
    require.Equal(t, []int { 1 }, g.Blocks[1].Succ)
    require.Equal(t, []int { 0, 1 }, g.Blocks[1].Pred)
}

func TestBuilder_EmptyFunction(t *testing.T) {
    g := mustBuild(t, ``)
    require.Len(t, g.Blocks, 1)
    require.Len(t, g.Entry().Ins, 1)
}

func TestBuilder_PhiOnlyBlock(t *testing.T) {
    g := mustBuild(t, `
        {"label": "entry"},
        {"op": "const", "dest": "a", "value": 1},
        {"label": "x"},
        {"op": "phi", "dest": "b", "args": ["a"], "labels": ["entry"]},
        {"label": "y"},
        {"op": "ret", "args": ["b"]}
    `)
    require.Len(t, g.Blocks, 3)
    require.Len(t, g.Blocks[1].Phi, 1)
    require.Len(t, g.Blocks[1].Ins, 1)

    /* flattens back into the same stream, plus the nop */
    fn := g.Function()
    require.Len(t, fn.Instrs, 7)
    require.IsType(t, &ir.Phi{}, fn.Instrs[3])
}

func TestBuilder_PhiAfterInstruction(t *testing.T) {
    var ce utils.ConstructionError
    _, err := Build(parse(t, `
        {"label": "x"},
        {"op": "const", "dest": "a", "value": 1},
        {"op": "phi", "dest": "b", "args": ["a"], "labels": ["x"]},
        {"op": "ret", "args": ["b"]}
    `))
    require.ErrorAs(t, err, &ce)
    require.Equal(t, 2, ce.Index)
    require.Equal(t, "f", ce.Func)
}

func TestBuilder_PhiUndefinedLabel(t *testing.T) {
    var ce utils.ConstructionError
    _, err := Build(parse(t, `
        {"op": "const", "dest": "a", "value": 1},
        {"label": "y"},
        {"op": "phi", "dest": "b", "args": ["a"], "labels": ["x"]},
        {"op": "ret", "args": ["b"]}
    `))
    require.ErrorAs(t, err, &ce)
    require.Equal(t, "x", ce.Label)
    require.Equal(t, 1, ce.Block)
}

func TestBuilder_RemoveUnreachable(t *testing.T) {
    g := mustBuild(t, `
        {"op": "jmp", "labels": ["b"]},
        {"label": "a"},
        {"op": "print", "args": []},
        {"op": "jmp", "labels": ["c"]},
        {"label": "b"},
        {"op": "print", "args": []},
        {"label": "c"},
        {"op": "ret"}
    `)
    require.Len(t, g.Blocks, 4)
    require.Equal(t, 1, g.RemoveUnreachable())
    require.NoError(t, g.Verify())
    require.Len(t, g.Blocks, 3)
    require.Equal(t, []int { 1 }, g.Blocks[0].Succ)
    require.Equal(t, []int { 1 }, g.Blocks[2].Pred)

    /* labels follow the renumbering */
    bb, ok := g.Lookup("c")
    require.True(t, ok)
    require.Equal(t, 2, bb.Id)
    _, ok = g.Lookup("a")
    require.False(t, ok)
}

func TestBuilder_RemoveUnreachablePhi(t *testing.T) {
    g := mustBuild(t, `
        {"op": "jmp", "labels": ["b"]},
        {"label": "a"},
        {"op": "const", "dest": "x", "value": 1},
        {"op": "jmp", "labels": ["c"]},
        {"label": "b"},
        {"op": "const", "dest": "y", "value": 2},
        {"label": "c"},
        {"op": "phi", "dest": "z", "args": ["x", "y"], "labels": ["a", "b"]},
        {"op": "print", "args": ["z"]},
        {"op": "ret"}
    `)
    require.Equal(t, 1, g.RemoveUnreachable())
    bb, ok := g.Lookup("c")
    require.True(t, ok)
    require.Len(t, bb.Phi, 1)
    require.Equal(t, []ir.PhiArg {{ Label: "b", Value: "y" }}, bb.Phi[0].Args)

    /* the flattened function builds again */
    _, err := Build(g.Function())
    require.NoError(t, err)
}

func TestBuilder_EnsureLabel(t *testing.T) {
    g := mustBuild(t, `
        {"op": "nop"},
        {"label": "bb_0"},
        {"op": "ret"}
    `)
    require.Equal(t, "bb_0", g.EnsureLabel(1))
    require.Equal(t, "bb_0_1", g.EnsureLabel(0))
    require.Equal(t, "bb_0_1", g.EnsureLabel(0))
}

func TestBuilder_RandomPrograms(t *testing.T) {
    for seed := int64(0); seed < 100; seed++ {
        fn := testutil.NewGenerator(seed, testutil.DefaultConfig).Function("f")
        g, err := Build(fn)
        require.NoError(t, err)
        require.NoError(t, g.Verify())

        /* a <-> b consistency is checked by Verify, check for non-empty blocks explicitly */
        for _, bb := range g.Blocks {
            require.NotEmpty(t, bb.Ins)
        }

        /* rebuilding the flattened form gives the same shape */
        h, err := Build(g.Function())
        require.NoError(t, err)
        require.Equal(t, len(g.Blocks), len(h.Blocks))
        for i := range g.Blocks {
            require.Equal(t, g.Blocks[i].Succ, h.Blocks[i].Succ)
        }
    }
}

func TestCFG_Dot(t *testing.T) {
    g := mustBuild(t, diamond)
    dot := g.Dot()
    require.Contains(t, dot, "bb_0 -> bb_1")
    require.Contains(t, dot, "bb_2 -> bb_3")
    require.Contains(t, dot, "<b>join</b>")
}
