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
    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
    `github.com/cloudwego/ralloc/internal/utils`
)

// Build converts g into SSA form in place. Blocks unreachable from the entry
// are removed first, and the returned Dominators describe the final CFG.
func Build(g *cfg.CFG) (*cfg.Dominators, error) {
    for _, bb := range g.Blocks {
        if len(bb.Phi) != 0 {
            return nil, utils.ConstructionError {
                Func   : g.Name,
                Block  : bb.Id,
                Index  : -1,
                Reason : "function is already in SSA form",
            }
        }
    }

    /* dominance is only meaningful for reachable blocks */
    nb := g.RemoveUnreachable()
    dt := cfg.ComputeDominators(g)

    /* place the Phi nodes and rename */
    nphi := insertPhiNodes(g, dt)
    err := rename(g, dt)

    /* check for errors */
    if err != nil {
        return nil, err
    }

    /* all done */
    utils.Logger.Debug("ssa: converted", "func", g.Name, "blocks", len(g.Blocks), "removed", nb, "phis", nphi)
    return dt, nil
}

// FromFunction builds the CFG of fn and converts it into SSA form.
func FromFunction(fn *ir.Function) (*cfg.CFG, error) {
    if g, err := cfg.Build(fn); err != nil {
        return nil, err
    } else if _, err = Build(g); err != nil {
        return nil, err
    } else {
        return g, nil
    }
}
