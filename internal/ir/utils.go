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

package ir

// Registers returns the registers read and written by an instruction, in
// operand order. A register both read and written appears in both lists.
func Registers(ins Instr) (read []Var, written []Var) {
    if u, ok := ins.(Usages); ok {
        for _, r := range u.Usages() {
            read = append(read, *r)
        }
    }
    if d, ok := ins.(Definitions); ok {
        for _, r := range d.Definitions() {
            written = append(written, *r)
        }
    }
    return
}

// IsTerminator reports whether ins ends a basic block.
func IsTerminator(ins Instr) bool {
    _, ok := ins.(Terminator)
    return ok
}

// Clone returns a deep copy of ins, so that rewriting its operands does not
// affect the original.
func Clone(ins Instr) Instr {
    switch v := ins.(type) {
        case *Label      : p := *v; return &p
        case *Const      : p := *v; return &p
        case *Jump       : p := *v; return &p
        case *Branch     : p := *v; return &p
        case *SpillLoad  : p := *v; return &p
        case *SpillStore : p := *v; return &p
        case *Value      : p := *v; p.Args = clonevars(v.Args); p.Funcs = clonestrs(v.Funcs); return &p
        case *Effect     : p := *v; p.Args = clonevars(v.Args); p.Funcs = clonestrs(v.Funcs); return &p
        case *Return     : p := *v; p.Args = clonevars(v.Args); return &p
        case *Phi        : p := *v; p.Args = append([]PhiArg(nil), v.Args...); return &p
        default          : panic("ir: unknown instruction kind")
    }
}

// Clone returns a deep copy of the function.
func (self *Function) Clone() *Function {
    ret := &Function {
        Name   : self.Name,
        Args   : append([]Arg(nil), self.Args...),
        Type   : self.Type,
        Instrs : make([]Instr, 0, len(self.Instrs)),
    }
    for _, v := range self.Instrs {
        ret.Instrs = append(ret.Instrs, Clone(v))
    }
    return ret
}

// Replace renames every occurrence of from in ins, reading and writing
// positions alike.
func Replace(ins Instr, from Var, to Var) {
    Rename(ins, func(r Var) Var {
        if r == from {
            return to
        } else {
            return r
        }
    })
}

// Rename applies fn to every register named by ins.
func Rename(ins Instr, fn func(Var) Var) {
    if u, ok := ins.(Usages); ok {
        for _, r := range u.Usages() {
            *r = fn(*r)
        }
    }
    if d, ok := ins.(Definitions); ok {
        for _, r := range d.Definitions() {
            *r = fn(*r)
        }
    }
}

func clonevars(v []Var) []Var {
    if v == nil {
        return nil
    } else {
        return append(make([]Var, 0, len(v)), v...)
    }
}

func clonestrs(v []string) []string {
    if v == nil {
        return nil
    } else {
        return append(make([]string, 0, len(v)), v...)
    }
}
