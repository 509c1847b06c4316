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

package regalloc

import (
    `fmt`
    `strings`

    `github.com/cloudwego/ralloc/internal/ir`
    `golang.org/x/exp/maps`
    `golang.org/x/exp/slices`
)

type _RegSet map[ir.Var]struct{}

func regset(rr ...ir.Var) (rs _RegSet) {
    rs = make(_RegSet, len(rr))
    for _, r := range rr { rs.add(r) }
    return
}

func (self _RegSet) add(r ir.Var) {
    self[r] = struct{}{}
}

func (self _RegSet) has(r ir.Var) bool {
    _, ok := self[r]
    return ok
}

func (self _RegSet) union(rs _RegSet) {
    for r := range rs {
        self.add(r)
    }
}

func (self _RegSet) subtract(rs _RegSet) {
    for r := range rs {
        delete(self, r)
    }
}

func (self _RegSet) clone() (rs _RegSet) {
    rs = make(_RegSet, len(self))
    for r := range self { rs.add(r) }
    return
}

func (self _RegSet) equal(rs _RegSet) bool {
    return maps.Equal(self, rs)
}

func (self _RegSet) toslice() []ir.Var {
    rr := maps.Keys(self)
    slices.Sort(rr)
    return rr
}

func (self _RegSet) String() string {
    nb := len(self)
    rs := make([]string, 0, nb)

    /* convert every register */
    for _, r := range self.toslice() {
        rs = append(rs, r.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "{%s}",
        strings.Join(rs, ", "),
    )
}
