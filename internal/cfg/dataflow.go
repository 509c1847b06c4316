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
    `github.com/oleiade/lane`
)

type Direction int

const (
    Forward Direction = iota
    Backward
)

// Problem describes a monotone dataflow problem over values of type T.
//
// Boundary is the initial value of the entry block (Forward) or of the
// blocks without successors (Backward). Meet receives only the values of the
// neighbors that have already been evaluated, which may be none. Transfer
// computes the output of a block from its input.
type Problem[T any] interface {
    Direction() Direction
    Boundary(bb *BasicBlock) T
    Meet(bb *BasicBlock, vals []T) T
    Transfer(bb *BasicBlock, in T) T
    Equal(a T, b T) bool
}

// Result holds the fixpoint, indexed by block id. For Backward problems In
// is the value at the block end and Out the value at the block start, so Out
// of a block always feeds In of its neighbors.
type Result[T any] struct {
    In     []T
    Out    []T
    Known  BlockSet
    Visits int
}

// Solve iterates p with a worklist until no output changes. Only the blocks
// listed are evaluated, and neighbors outside of that list are ignored.
func Solve[T any](g *CFG, blocks []*BasicBlock, p Problem[T]) *Result[T] {
    nb := len(g.Blocks)
    dir := p.Direction()
    set := NewBlockSet(nb)
    ret := &Result[T] {
        In    : make([]T, nb),
        Out   : make([]T, nb),
        Known : NewBlockSet(nb),
    }

    /* seed the worklist with all the blocks */
    q := lane.NewQueue()
    queued := NewBlockSet(nb)

    /* add every block to both the solved set and the worklist */
    for _, bb := range blocks {
        set.Add(bb.Id)
        queued.Add(bb.Id)
        q.Enqueue(bb)
    }

    /* iterate until the worklist drains */
    for !q.Empty() {
        bb := q.Dequeue().(*BasicBlock)
        queued.Remove(bb.Id)
        ret.Visits++

        /* select the edges by direction */
        src, dst := bb.Pred, bb.Succ
        if dir == Backward {
            src, dst = bb.Succ, bb.Pred
        }

        /* collect the known values of the neighbors */
        vals := make([]T, 0, len(src) + 1)
        if isboundary(bb, dir) {
            vals = append(vals, p.Boundary(bb))
        }

        /* unknown neighbors are skipped */
        for _, id := range src {
            if ret.Known.Has(id) {
                vals = append(vals, ret.Out[id])
            }
        }

        /* evaluate the block */
        ret.In[bb.Id] = p.Meet(bb, vals)
        out := p.Transfer(bb, ret.In[bb.Id])

        /* check for changes */
        if ret.Known.Has(bb.Id) && p.Equal(out, ret.Out[bb.Id]) {
            continue
        }

        /* propagate to the neighbors */
        ret.Out[bb.Id] = out
        ret.Known.Add(bb.Id)

        /* re-enqueue the affected blocks */
        for _, id := range dst {
            if set.Has(id) && !queued.Has(id) {
                queued.Add(id)
                q.Enqueue(g.Blocks[id])
            }
        }
    }

    /* all done */
    return ret
}

func isboundary(bb *BasicBlock, dir Direction) bool {
    if dir == Forward {
        return bb.Id == 0
    } else {
        return len(bb.Succ) == 0
    }
}
