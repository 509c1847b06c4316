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
    `fmt`
    `testing`

    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/cloudwego/ralloc/internal/testutil`
    `github.com/cloudwego/ralloc/internal/utils`
    `github.com/stretchr/testify/require`
)

func parse(t *testing.T, args string, instrs string) *ir.Function {
    p, err := ir.ParseProgram([]byte(fmt.Sprintf(`{"functions": [{"name": "f", "args": [%s], "instrs": [%s]}]}`, args, instrs)))
    require.NoError(t, err)
    return p.Functions[0]
}

func TestSSA_Diamond(t *testing.T) {
    g, err := FromFunction(parse(t, ``, `
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
    `))
    require.NoError(t, err)
    require.NoError(t, Verify(g))
    require.Empty(t, g.Blocks[1].Phi)
    require.Empty(t, g.Blocks[2].Phi)
    require.Len(t, g.Blocks[3].Phi, 1)

    /* one incoming value per predecessor */
    phi := g.Blocks[3].Phi[0]
    require.Equal(t, ir.Var("x.2"), phi.Dest)
    require.Equal(t, ir.Int, phi.Type)
    require.Equal(t, []ir.PhiArg {
        { Label: "left", Value: "x.0" },
        { Label: "right", Value: "x.1" },
    }, phi.Args)
    require.Equal(t, "print x.2", g.Blocks[3].Ins[0].String())
    require.Equal(t, "br c.0 .left .right", g.Blocks[0].Ins[1].String())
}

func TestSSA_Loop(t *testing.T) {
    g, err := FromFunction(parse(t, ``, `
        {"op": "const", "dest": "i", "value": 0},
        {"label": "head"},
        {"op": "lt", "dest": "c", "args": ["i", "i"]},
        {"op": "br", "args": ["c"], "labels": ["body", "exit"]},
        {"label": "body"},
        {"op": "add", "dest": "i", "args": ["i", "i"]},
        {"op": "jmp", "labels": ["head"]},
        {"label": "exit"},
        {"op": "ret", "args": ["i"]}
    `))
    require.NoError(t, err)
    require.NoError(t, Verify(g))

    /* the header merges both variables */
    head := g.Blocks[1]
    require.Len(t, head.Phi, 2)
    require.Equal(t, ir.Var("c.0"), head.Phi[0].Dest)
    require.Equal(t, []ir.PhiArg {
        { Label: "bb_0", Value: ir.UndefinedName, Undefined: true },
        { Label: "body", Value: "c.1" },
    }, head.Phi[0].Args)
    require.Equal(t, ir.Var("i.1"), head.Phi[1].Dest)
    require.Equal(t, []ir.PhiArg {
        { Label: "bb_0", Value: "i.0" },
        { Label: "body", Value: "i.2" },
    }, head.Phi[1].Args)

    /* uses see the dominating versions */
    require.Equal(t, "i.2 = add i.1 i.1", g.Blocks[2].Ins[0].String())
    require.Equal(t, "ret i.1", g.Blocks[3].Ins[0].String())

    /* serializes back with the synthesized label */
    fn := g.Function()
    require.Equal(t, &ir.Label { Name: "bb_0" }, fn.Instrs[0])
}

func TestSSA_Arguments(t *testing.T) {
    g, err := FromFunction(parse(t, `{"name": "n", "type": "int"}`, `
        {"op": "add", "dest": "n", "type": "int", "args": ["n", "n"]},
        {"op": "ret", "args": ["n"]}
    `))
    require.NoError(t, err)
    require.NoError(t, Verify(g))
    require.Equal(t, "n.0: int = add n n", g.Blocks[0].Ins[0].String())
    require.Equal(t, "ret n.0", g.Blocks[0].Ins[1].String())
}

func TestSSA_UndefinedUse(t *testing.T) {
    var re utils.RenameError
    _, err := FromFunction(parse(t, ``, `
        {"op": "const", "dest": "a", "value": 1},
        {"op": "print", "args": ["a", "y"]}
    `))
    require.ErrorAs(t, err, &re)
    require.Equal(t, "y", re.Var)
    require.Equal(t, 0, re.Block)
    require.Equal(t, 1, re.Index)
}

func TestSSA_NameCollision(t *testing.T) {
    g, err := FromFunction(parse(t, ``, `
        {"op": "const", "dest": "x.0", "value": 1},
        {"op": "const", "dest": "x", "value": 2},
        {"op": "add", "dest": "y", "args": ["x", "x.0"]},
        {"op": "ret", "args": ["y"]}
    `))
    require.NoError(t, err)
    require.NoError(t, Verify(g))
    require.Equal(t, "y.0 = add x.1 x.0.0", g.Blocks[0].Ins[2].String())
}

func TestSSA_AlreadyConverted(t *testing.T) {
    var ce utils.ConstructionError
    g, err := FromFunction(parse(t, ``, `
        {"op": "const", "dest": "x", "value": 1},
        {"label": "a"},
        {"op": "ret", "args": ["x"]}
    `))
    require.NoError(t, err)
    g.Blocks[1].Phi = append(g.Blocks[1].Phi, &ir.Phi { Dest: "y" })
    _, err = Build(g)
    require.ErrorAs(t, err, &ce)
}

func TestSSA_RemovesUnreachable(t *testing.T) {
    g, err := cfg.Build(parse(t, ``, `
        {"op": "ret"},
        {"label": "dead"},
        {"op": "print", "args": ["nothing"]}
    `))
    require.NoError(t, err)
    _, err = Build(g)
    require.NoError(t, err)
    require.Len(t, g.Blocks, 1)
}

func TestSSA_RandomPrograms(t *testing.T) {
    for seed := int64(0); seed < 100; seed++ {
        fn := testutil.NewGenerator(seed, testutil.DefaultConfig).Function("f")
        g, err := FromFunction(fn)
        require.NoError(t, err, "seed %d", seed)
        require.NoError(t, Verify(g), "seed %d", seed)

        /* every Phi node has one argument per predecessor */
        for _, bb := range g.Blocks {
            for _, phi := range bb.Phi {
                require.Len(t, phi.Args, len(bb.Pred))
            }
        }

        /* all variables are defined at entry, so no argument is undefined */
        for _, bb := range g.Blocks {
            for _, phi := range bb.Phi {
                for _, a := range phi.Args {
                    require.False(t, a.Undefined, "seed %d: %s", seed, phi)
                }
            }
        }
    }
}
