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
    `github.com/cloudwego/ralloc/internal/utils`
)

type Pass interface {
    Apply(*cfg.CFG)
}

type _PassDescriptor struct {
    pass Pass
    desc string
}

var _passes = [...]_PassDescriptor {
    { desc: "Unreachable Block Elimination" , pass: new(UBE) },
    { desc: "Local Value Numbering"         , pass: new(LVN) },
    { desc: "Dead Code Elimination"         , pass: new(DCE) },
}

// Optimize runs every pass over g in order.
func Optimize(g *cfg.CFG) {
    for _, p := range _passes {
        n := g.Instrs()
        p.pass.Apply(g)
        utils.Logger.Debug("opt: pass finished", "func", g.Name, "pass", p.desc, "before", n, "after", g.Instrs())
    }
}
