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
    `html`
    `strings`
)

func dumpbb(bb *BasicBlock) string {
    var buf []string
    var title = bb.Name()

    /* block header */
    buf = append(buf, `<table border="1" cellborder="0" cellspacing="0" align="left">`)
    buf = append(buf, fmt.Sprintf(`<tr><td align="center"><b>%s</b></td></tr>`, html.EscapeString(title)))

    /* Phi nodes */
    for _, v := range bb.Phi {
        buf = append(buf, fmt.Sprintf(`<tr><td align="left">%s</td></tr>`, html.EscapeString(v.String())))
    }

    /* instructions */
    for _, v := range bb.Ins {
        buf = append(buf, fmt.Sprintf(`<tr><td align="left">%s</td></tr>`, html.EscapeString(v.String())))
    }

    /* table end */
    buf = append(buf, "</table>")
    return strings.Join(buf, "")
}

// Dot renders the CFG in Graphviz format.
func (self *CFG) Dot() string {
    buf := []string {
        "digraph CFG {",
        `    graph [ fontname = "Fira Code" ]`,
        `    node [ fontname = "Fira Code" fontsize="16" shape = "plaintext" ]`,
        `    edge [ fontname = "Fira Code" ]`,
        `    START [ shape = "circle" ]`,
        `    START -> bb_0`,
    }

    /* nodes first */
    for _, bb := range self.Blocks {
        buf = append(buf, fmt.Sprintf(`    bb_%d [ label = < %s > ]`, bb.Id, dumpbb(bb)))
    }

    /* then the edges */
    for _, bb := range self.Blocks {
        for _, s := range bb.Succ {
            buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d`, bb.Id, s))
        }
    }

    /* all done */
    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}
