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

package ralloc

import (
	"fmt"
	"testing"

	"github.com/cloudwego/ralloc/internal/ir"
	"github.com/cloudwego/ralloc/internal/testutil"
	"github.com/stretchr/testify/require"
)

const example = `{"functions": [{"name": "main", "instrs": [
    {"op": "const", "dest": "a", "value": 4},
    {"op": "const", "dest": "b", "value": 2},
    {"op": "add", "dest": "c", "args": ["a", "b"]},
    {"op": "ret"}
]}]}`

func TestPipeline_Example(t *testing.T) {
	p, err := ParseProgram([]byte(example))
	require.NoError(t, err)
	g, err := BuildCFG(p.Functions[0])
	require.NoError(t, err)
	require.Len(t, g.Blocks, 1)
	require.Empty(t, g.Blocks[0].Succ)
	res, err := Allocate(g, NewGeneric(2))
	require.NoError(t, err)
	require.Empty(t, res.Spilled)
	require.Zero(t, res.NumSlots())
	require.NoError(t, res.Verify())
}

func TestPipeline_SSA(t *testing.T) {
	p, err := ParseProgram([]byte(`{"functions": [{"name": "f", "args": [{"name": "n", "type": "int"}], "instrs": [
        {"op": "const", "dest": "c", "value": true},
        {"op": "br", "args": ["c"], "labels": ["left", "right"]},
        {"label": "left"},
        {"op": "add", "dest": "x", "args": ["n", "n"]},
        {"op": "jmp", "labels": ["join"]},
        {"label": "right"},
        {"op": "mul", "dest": "x", "args": ["n", "n"]},
        {"label": "join"},
        {"op": "ret", "args": ["x"]}
    ]}]}`))
	require.NoError(t, err)
	g, err := BuildCFG(p.Functions[0])
	require.NoError(t, err)
	require.NoError(t, ToSSA(g))
	require.Len(t, g.Blocks[3].Phi, 1)
	require.Equal(t, "x.2 = φ(.left: x.0, .right: x.1)", g.Blocks[3].Phi[0].String())
	Optimize(g)
	require.NoError(t, g.Verify())
	_, err = Allocate(g, NewX86())
	var ce ConstructionError
	require.ErrorAs(t, err, &ce)
}

func TestAllocate_Options(t *testing.T) {
	p, err := ParseProgram([]byte(example))
	require.NoError(t, err)
	g, err := BuildCFG(p.Functions[0])
	require.NoError(t, err)
	_, err = Allocate(g, NewGeneric(1), WithMaxSpillRounds(1))
	var ee ExhaustedError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, "spill rounds", ee.Resource)
	require.Equal(t, "main", ee.Func)
	require.Panics(t, func() { WithMaxSpillSlots(-1) })
	require.Panics(t, func() { WithParallelism(-1) })
}

func TestSetMaxSpillRounds(t *testing.T) {
	old := SetMaxSpillRounds(1)
	defer SetMaxSpillRounds(old)
	p, err := ParseProgram([]byte(example))
	require.NoError(t, err)
	g, err := BuildCFG(p.Functions[0])
	require.NoError(t, err)
	_, err = Allocate(g, NewGeneric(1))
	var ee ExhaustedError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, 1, ee.Limit)
}

func TestAllocateProgram(t *testing.T) {
	p := &Program { Functions: testutil.NewGenerator(42, testutil.DefaultConfig).Functions(16) }
	src, err := p.Marshal()
	require.NoError(t, err)
	for _, n := range []int { 0, 1, 4 } {
		out, res, err := AllocateProgram(p, NewX86(), WithParallelism(n))
		require.NoError(t, err)
		require.Len(t, out.Functions, len(p.Functions))
		require.Len(t, res, len(p.Functions))
		for i, fn := range out.Functions {
			require.Equal(t, fmt.Sprintf("f%d", i), fn.Name)
			require.NoError(t, res[i].Verify())
			for _, ins := range fn.Instrs {
				rd, wr := ir.Registers(ins)
				for _, r := range append(rd, wr...) {
					require.Contains(t, []ir.Var { "ebx", "ecx", "edx" }, r)
				}
			}
		}

		/* the input is never modified */
		buf, err := p.Marshal()
		require.NoError(t, err)
		require.JSONEq(t, string(src), string(buf))
	}
}

func TestAllocateProgram_Error(t *testing.T) {
	p, err := ParseProgram([]byte(`{"functions": [
        {"name": "ok", "instrs": [{"op": "ret"}]},
        {"name": "bad", "instrs": [{"op": "jmp", "labels": ["nowhere"]}]}
    ]}`))
	require.NoError(t, err)
	_, _, err = AllocateProgram(p, NewGeneric(2))
	var ce ConstructionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "bad", ce.Func)
}
