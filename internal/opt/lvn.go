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
    `fmt`
    `strings`

    `github.com/cloudwego/ralloc/internal/cfg`
    `github.com/cloudwego/ralloc/internal/ir`
)

// LVN performs local value numbering on every block. Redundant computations
// become copies of the variable already holding the value, operations over
// constants are folded, and operands are replaced by the canonical home of
// their values.
type LVN struct{}

type _Row struct {
    key   string
    home  ir.Var
    typ   ir.Type
    cval  int64
    konst bool
}

type _ValueTable struct {
    rows []*_Row
    keys map[string]int
    env  map[ir.Var]int
}

func newValueTable() *_ValueTable {
    return &_ValueTable {
        keys: make(map[string]int),
        env : make(map[ir.Var]int),
    }
}

func (self *_ValueTable) add(row *_Row) int {
    id := len(self.rows)
    self.rows = append(self.rows, row)

    /* only keyed rows can be reused */
    if row.key != "" {
        self.keys[row.key] = id
    }
    return id
}

// lookup returns the row of v, variables coming from other blocks get a row
// of their own.
func (self *_ValueTable) lookup(v ir.Var) int {
    if id, ok := self.env[v]; ok {
        return id
    }

    /* defined outside of this block */
    id := self.add(&_Row { home: v })
    self.env[v] = id
    return id
}

// kill is called right before v is redefined. Rows whose home is v move to
// another variable still holding the same value, or are forgotten.
func (self *_ValueTable) kill(v ir.Var) {
    id, ok := self.env[v]
    if !ok {
        return
    }

    /* v no longer holds the value */
    row := self.rows[id]
    delete(self.env, v)

    /* the home is still valid */
    if row.home != v {
        return
    }

    /* find a new home, in a stable order */
    var alt ir.Var
    for w, i := range self.env {
        if i == id && (alt == "" || w < alt) {
            alt = w
        }
    }

    /* no other variable holds this value */
    if alt != "" {
        row.home = alt
    } else if row.key != "" && self.keys[row.key] == id {
        delete(self.keys, row.key)
    }
}

func (self *_ValueTable) bind(v ir.Var, id int) {
    if cur, ok := self.env[v]; ok && cur == id {
        return
    }
    self.kill(v)
    self.env[v] = id
}

var _commutative = map[string]bool {
    "add" : true,
    "mul" : true,
    "and" : true,
    "or"  : true,
    "eq"  : true,
}

func valuekey(op string, t ir.Type, args []int) string {
    buf := make([]string, 0, len(args))
    for _, a := range args {
        buf = append(buf, fmt.Sprintf("#%d", a))
    }
    return fmt.Sprintf("(%s:%s %s)", op, t, strings.Join(buf, " "))
}

func constkey(t ir.Type, v int64) string {
    return fmt.Sprintf("$%s:%d", t, v)
}

func fold(op string, x int64, y int64) (int64, ir.Type, bool) {
    switch op {
        case "add" : return x + y, ir.Int, true
        case "sub" : return x - y, ir.Int, true
        case "mul" : return x * y, ir.Int, true
        case "div" : if y == 0 { return 0, "", false } else { return x / y, ir.Int, true }
        case "lt"  : return b2i(x < y), ir.Bool, true
        case "eq"  : return b2i(x == y), ir.Bool, true
        case "and" : return b2i(x != 0 && y != 0), ir.Bool, true
        case "or"  : return b2i(x != 0 || y != 0), ir.Bool, true
        default    : return 0, "", false
    }
}

func b2i(v bool) int64 {
    if v {
        return 1
    } else {
        return 0
    }
}

func (LVN) Apply(g *cfg.CFG) {
    for _, bb := range g.Blocks {
        numberBlock(bb)
    }
}

func numberBlock(bb *cfg.BasicBlock) {
    vt := newValueTable()

    /* Phi nodes define opaque values */
    for _, phi := range bb.Phi {
        vt.bind(phi.Dest, vt.add(&_Row { home: phi.Dest, typ: phi.Type }))
    }

    /* number every instruction */
    for i, ins := range bb.Ins {
        bb.Ins[i] = numberInstr(vt, ins)
    }
}

func (self *_ValueTable) constant(dest ir.Var, t ir.Type, v int64) *ir.Const {
    key := constkey(t, v)
    if id, ok := self.keys[key]; ok {
        self.bind(dest, id)
    } else {
        self.bind(dest, self.add(&_Row { key: key, home: dest, typ: t, cval: v, konst: true }))
    }
    return &ir.Const { Dest: dest, Type: t, Value: v }
}

func numberInstr(vt *_ValueTable, ins ir.Instr) ir.Instr {
    switch v := ins.(type) {
        case *ir.Const: {
            return vt.constant(v.Dest, v.Type, v.Value)
        }

        /* computations */
        case *ir.Value: {
            args := make([]int, len(v.Args))
            for i, a := range v.Args {
                args[i] = vt.lookup(a)
            }
            return numberValue(vt, v, args)
        }

        /* everything else only has its operands canonicalized */
        default: {
            if u, ok := ins.(ir.Usages); ok {
                for _, r := range u.Usages() {
                    *r = vt.rows[vt.lookup(*r)].home
                }
            }

            /* definitions are opaque */
            if d, ok := ins.(ir.Definitions); ok {
                for _, r := range d.Definitions() {
                    vt.bind(*r, vt.add(&_Row { home: *r }))
                }
            }
            return ins
        }
    }
}

func numberValue(vt *_ValueTable, v *ir.Value, args []int) ir.Instr {
    for i, a := range args {
        v.Args[i] = vt.rows[a].home
    }

    /* calls are never reused */
    if !v.Pure() {
        vt.bind(v.Dest, vt.add(&_Row { home: v.Dest, typ: v.Type }))
        return v
    }

    /* copies share the value of their source */
    if v.Op == "id" && len(args) == 1 {
        if row := vt.rows[args[0]]; row.konst {
            return vt.constant(v.Dest, row.typ, row.cval)
        } else {
            vt.bind(v.Dest, args[0])
            return v
        }
    }

    /* fold operations over constants */
    if len(args) == 2 && vt.rows[args[0]].konst && vt.rows[args[1]].konst {
        if r, t, ok := fold(v.Op, vt.rows[args[0]].cval, vt.rows[args[1]].cval); ok {
            if v.Type != "" {
                t = v.Type
            }
            return vt.constant(v.Dest, t, r)
        }
    }

    /* commutative operations, sort the operands */
    if len(args) == 2 && _commutative[v.Op] && args[0] > args[1] {
        args[0], args[1] = args[1], args[0]
    }

    /* reuse the value if it was computed before */
    key := valuekey(v.Op, v.Type, args)
    if id, ok := vt.keys[key]; ok {
        row := vt.rows[id]
        if row.home == v.Dest {
            return v
        } else if vt.bind(v.Dest, id); row.konst {
            return &ir.Const { Dest: v.Dest, Type: row.typ, Value: row.cval }
        } else {
            return &ir.Value { Op: "id", Dest: v.Dest, Type: v.Type, Args: []ir.Var { row.home } }
        }
    }

    /* a brand new value */
    vt.bind(v.Dest, vt.add(&_Row { key: key, home: v.Dest, typ: v.Type }))
    return v
}
