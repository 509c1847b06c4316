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
    `math/bits`
    `strings`
)

// BlockSet is a set of block ids backed by a bitmap.
type BlockSet struct {
    data []uint64
}

func NewBlockSet(nb int) BlockSet {
    return BlockSet { data: make([]uint64, (nb + 63) / 64) }
}

func (self *BlockSet) grow(i int) {
    if x := i >> 6; x >= len(self.data) {
        self.data = append(self.data, make([]uint64, x - len(self.data) + 1)...)
    }
}

func (self *BlockSet) Add(i int) {
    self.grow(i)
    self.data[i >> 6] |= 1 << (i & 63)
}

func (self *BlockSet) Remove(i int) {
    if x := i >> 6; x < len(self.data) {
        self.data[x] &^= 1 << (i & 63)
    }
}

func (self BlockSet) Has(i int) bool {
    x, y := i >> 6, i & 63
    return x < len(self.data) && self.data[x] & (1 << y) != 0
}

func (self BlockSet) Len() int {
    n := 0
    for _, v := range self.data { n += bits.OnesCount64(v) }
    return n
}

func (self BlockSet) Clone() BlockSet {
    return BlockSet { data: append([]uint64(nil), self.data...) }
}

func (self *BlockSet) Union(other BlockSet) {
    if len(other.data) > len(self.data) {
        self.grow(len(other.data) * 64 - 1)
    }
    for i, v := range other.data {
        self.data[i] |= v
    }
}

func (self *BlockSet) Intersect(other BlockSet) {
    for i := range self.data {
        if i < len(other.data) {
            self.data[i] &= other.data[i]
        } else {
            self.data[i] = 0
        }
    }
}

func (self BlockSet) Equal(other BlockSet) bool {
    p, q := self.data, other.data
    if len(p) < len(q) { p, q = q, p }

    /* compare the common part */
    for i := range q {
        if p[i] != q[i] {
            return false
        }
    }

    /* the remaining words must be empty */
    for _, v := range p[len(q):] {
        if v != 0 {
            return false
        }
    }
    return true
}

// Ids returns the members in ascending order.
func (self BlockSet) Ids() []int {
    ret := make([]int, 0, self.Len())
    for x, v := range self.data {
        for v != 0 {
            y := bits.TrailingZeros64(v)
            ret = append(ret, x << 6 | y)
            v &= v - 1
        }
    }
    return ret
}

func (self BlockSet) String() string {
    ids := self.Ids()
    buf := make([]string, 0, len(ids))
    for _, i := range ids {
        buf = append(buf, fmt.Sprintf("bb_%d", i))
    }
    return fmt.Sprintf(
        "{%s}",
        strings.Join(buf, ", "),
    )
}
