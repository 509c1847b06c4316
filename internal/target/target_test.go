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

package target

import (
    `testing`

    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/stretchr/testify/require`
)

func names(rr []Register) (ret []string) {
    for _, r := range rr { ret = append(ret, r.String()) }
    return
}

func TestX86(t *testing.T) {
    m := NewX86()
    require.Equal(t, []string { "ebx", "ecx", "edx" }, names(m.Registers()))
    require.Equal(t, []string { "eax", "edx" }, names(m.Clobbers(&ir.Value { Op: "mul" })))
    require.Equal(t, []string { "eax", "ecx", "edx" }, names(m.Clobbers(&ir.Effect { Op: "call" })))
    require.Empty(t, m.Clobbers(&ir.Value { Op: "add" }))
    require.Empty(t, m.Clobbers(&ir.Return{}))
    require.True(t, m.Pinned(&ir.Value { Op: "div" }))
    require.False(t, m.Pinned(&ir.Value { Op: "call" }))
    require.False(t, m.Pinned(&ir.Effect { Op: "call" }))
}

func TestGeneric(t *testing.T) {
    m := NewGeneric(3).Clobber("mul", 0)
    require.Equal(t, []string { "r0", "r1", "r2" }, names(m.Registers()))
    require.Equal(t, []string { "r0" }, names(m.Clobbers(&ir.Value { Op: "mul" })))
    require.Empty(t, m.Clobbers(&ir.Value { Op: "div" }))
    require.True(t, m.Pinned(&ir.Value { Op: "mul" }))
}

func TestGeneric_ClobberLive(t *testing.T) {
    m := NewGeneric(2).ClobberLive("call", 0, 1).Clobber("div", 1)
    require.Equal(t, []string { "r0", "r1" }, names(m.Clobbers(&ir.Effect { Op: "call" })))
    require.False(t, m.Pinned(&ir.Effect { Op: "call" }))
    require.True(t, m.Pinned(&ir.Value { Op: "div" }))
    require.False(t, m.Pinned(&ir.Value { Op: "add" }))
}
