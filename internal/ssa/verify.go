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

    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
)

// Verify checks that every variable is assigned exactly once, counting
// function arguments and Phi nodes, and that every use names a definition.
func Verify(g *cfg.CFG) error {
    defs := make(map[ir.Var]int)
    uses := make(map[ir.Var]int)

    /* arguments are definitions */
    for _, a := range g.Args {
        defs[a.Name]++
    }

    /* count all the definitions and usages */
    for _, bb := range g.Blocks {
        for _, phi := range bb.Phi {
            defs[phi.Dest]++
            for _, v := range phi.Usages() { uses[*v]++ }
        }
        for _, ins := range bb.Ins {
            rd, wr := ir.Registers(ins)
            for _, v := range rd { uses[v]++ }
            for _, v := range wr { defs[v]++ }
        }
    }

    /* single assignment */
    for v, n := range defs {
        if n != 1 {
            return fmt.Errorf("ssa: %s in func %s is assigned %d times", v, g.Name, n)
        }
    }

    /* every use must be defined */
    for v := range uses {
        if defs[v] == 0 {
            return fmt.Errorf("ssa: %s in func %s is used but never defined", v, g.Name)
        }
    }
    return nil
}
