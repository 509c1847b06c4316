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

package opt

import (
    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
)

// UBE removes blocks that cannot be reached from the entry.
type UBE struct{}

func (UBE) Apply(g *cfg.CFG) {
    g.RemoveUnreachable()
}

// DCE removes the definitions whose values are never used anywhere in the
// function, until no more can be removed. Instructions with side effects
// are always kept.
type DCE struct{}

func removable(ins ir.Instr) bool {
    switch v := ins.(type) {
        case *ir.Const : return true
        case *ir.Value : return v.Pure()
        default        : return false
    }
}

func (DCE) Apply(g *cfg.CFG) {
    for {
        done := true
        used := make(map[ir.Var]bool)

        /* Phase 1: Find all register usages */
        for _, bb := range g.Blocks {
            for _, v := range bb.Phi {
                for _, r := range v.Usages() {
                    used[*r] = true
                }
            }
            for _, v := range bb.Ins {
                if u, ok := v.(ir.Usages); ok {
                    for _, r := range u.Usages() {
                        used[*r] = true
                    }
                }
            }
        }

        /* Phase 2: Remove all unused declarations */
        for _, bb := range g.Blocks {
            phi, ins := bb.Phi, bb.Ins
            bb.Phi, bb.Ins = bb.Phi[:0], bb.Ins[:0]

            /* Phi nodes never have side effects */
            for _, v := range phi {
                if used[v.Dest] {
                    bb.Phi = append(bb.Phi, v)
                } else {
                    done = false
                }
            }

            /* remove instructions that don't have any effects */
            for _, v := range ins {
                if _, wr := ir.Registers(v); !removable(v) || used[wr[0]] {
                    bb.Ins = append(bb.Ins, v)
                } else {
                    done = false
                }
            }

            /* blocks must never be empty */
            if len(bb.Ins) == 0 {
                bb.Ins = append(bb.Ins, &ir.Effect { Op: "nop" })
            }
        }

        /* no more modifications */
        if done {
            break
        }
    }
}
