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

    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
    `golang.org/x/exp/slices`
)

// Interval is a closed range of program points. Program points are the
// indices of the instructions of a function, numbered in block order.
type Interval struct {
    Start int
    End   int
}

func (self Interval) String() string {
    return fmt.Sprintf("[%d, %d]", self.Start, self.End)
}

// LiveRange is the union of the intervals where a register is live, sorted
// and with touching intervals merged.
type LiveRange []Interval

func (self LiveRange) String() string {
    buf := make([]string, 0, len(self))
    for _, v := range self {
        buf = append(buf, v.String())
    }
    return strings.Join(buf, " ∪ ")
}

// Contains reports whether p lies within some interval.
func (self LiveRange) Contains(p int) bool {
    for _, v := range self {
        if v.Start <= p && p <= v.End {
            return true
        }
    }
    return false
}

// Across reports whether the register stays live across p, i.e. it is live
// strictly before and strictly after p.
func (self LiveRange) Across(p int) bool {
    for _, v := range self {
        if v.Start < p && p < v.End {
            return true
        }
    }
    return false
}

// Overlaps reports whether two live ranges interfere. A register whose range
// ends at p does not interfere with one that starts at p, so an instruction
// may reuse the register of its last read operand for its destination.
func (self LiveRange) Overlaps(other LiveRange) bool {
    i, j := 0, 0
    for i < len(self) && j < len(other) {
        a, b := self[i], other[j]
        if a.Start < b.End && b.Start < a.End {
            return true
        } else if a.End < b.End {
            i++
        } else {
            j++
        }
    }
    return false
}

func (self LiveRange) normalize() LiveRange {
    if len(self) == 0 {
        return self
    }

    /* sort by start point */
    slices.SortFunc(self, func(a Interval, b Interval) bool {
        return a.Start < b.Start || (a.Start == b.Start && a.End < b.End)
    })

    /* merge the touching intervals */
    ret := self[:1]
    for _, v := range self[1:] {
        if p := &ret[len(ret) - 1]; v.Start > p.End {
            ret = append(ret, v)
        } else if v.End > p.End {
            p.End = v.End
        }
    }
    return ret
}

// Points maps every instruction of g to its program point.
type Points struct {
    start []int
    total int
}

func NumberPoints(g *cfg.CFG) *Points {
    ret := &Points { start: make([]int, len(g.Blocks)) }
    for i, bb := range g.Blocks {
        ret.start[i] = ret.total
        ret.total += len(bb.Ins)
    }
    return ret
}

// Of returns the program point of the idx-th instruction of block id.
func (self *Points) Of(id int, idx int) int {
    return self.start[id] + idx
}

// Len returns the number of program points.
func (self *Points) Len() int {
    return self.total
}

type _RangeBuilder struct {
    acc     map[ir.Var]int
    defs    map[ir.Var]int
    ranges  map[ir.Var]LiveRange
}

func (self *_RangeBuilder) commit(r ir.Var, start int, end int) {
    self.ranges[r] = append(self.ranges[r], Interval { Start: start, End: end })
}

func (self *_RangeBuilder) read(r ir.Var, p int) {
    if s, ok := self.acc[r]; ok {
        self.commit(r, s, p)
    } else {
        self.commit(r, p - 1, p)
    }

    /* the definition is used */
    self.acc[r] = p
    delete(self.defs, r)
}

func (self *_RangeBuilder) write(r ir.Var, p int) {
    if d, ok := self.defs[r]; ok {
        self.commit(r, d, d + 1)
    }

    /* a write kills the value before it */
    self.acc[r] = p
    self.defs[r] = p
}

func (self *_RangeBuilder) finish(out _RegSet, last int) {
    for r, s := range self.acc {
        if out.has(r) {
            self.commit(r, s, last + 1)
        } else if d, ok := self.defs[r]; ok {
            self.commit(r, d, d + 1)
        }
    }
}

// ComputeLiveRanges computes the live range of every register mentioned in
// g. A register live into a block is anchored right before its first
// instruction, and a definition that is never read keeps the register busy
// until the next program point.
func ComputeLiveRanges(g *cfg.CFG, lv *Liveness, pp *Points) map[ir.Var]LiveRange {
    rb := &_RangeBuilder {
        ranges: make(map[ir.Var]LiveRange),
    }

    /* walk blocks in program order */
    for _, bb := range g.Blocks {
        first := pp.Of(bb.Id, 0)
        rb.acc = make(map[ir.Var]int)
        rb.defs = make(map[ir.Var]int)

        /* seed with the live-in registers */
        for r := range lv.LiveIn[bb.Id] {
            rb.acc[r] = first - 1
        }

        /* reads happen before the writes of the same instruction */
        for i, ins := range bb.Ins {
            p := first + i
            rd, wr := ir.Registers(ins)
            for _, r := range rd { rb.read(r, p) }
            for _, r := range wr { rb.write(r, p) }
        }

        /* commit the live-out registers */
        rb.finish(lv.LiveOut[bb.Id], first + len(bb.Ins) - 1)
    }

    /* merge the intervals */
    for r, v := range rb.ranges {
        rb.ranges[r] = v.normalize()
    }
    return rb.ranges
}
