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

import (
    `fmt`
    `strings`
)

// Var names a variable in the medium-level IR, or a virtual register once
// the code has been lowered for the backend.
type Var string

func (self Var) String() string {
    return string(self)
}

// Derive returns the i-th SSA version of the variable.
func (self Var) Derive(i int) Var {
    return Var(fmt.Sprintf("%s.%d", self, i))
}

type Type string

const (
    Int  Type = "int"
    Bool Type = "bool"
)

type Instr interface {
    fmt.Stringer
    irnode()
}

func (*Label)      irnode() {}
func (*Const)      irnode() {}
func (*Value)      irnode() {}
func (*Effect)     irnode() {}
func (*Jump)       irnode() {}
func (*Branch)     irnode() {}
func (*Return)     irnode() {}
func (*Phi)        irnode() {}
func (*SpillLoad)  irnode() {}
func (*SpillStore) irnode() {}

type Usages interface {
    Instr
    Usages() []*Var
}

type Definitions interface {
    Instr
    Definitions() []*Var
}

type Terminator interface {
    Instr
    Targets() []string
    irterminator()
}

func (*Jump)   irterminator() {}
func (*Branch) irterminator() {}
func (*Return) irterminator() {}

// Label marks the start of a new basic block in a linear instruction stream.
// It never appears inside a basic block.
type Label struct {
    Name string
}

func (self *Label) String() string {
    return "." + self.Name + ":"
}

type Const struct {
    Dest  Var
    Type  Type
    Value int64
}

func (self *Const) String() string {
    if self.Type != Bool {
        return fmt.Sprintf("%s = const %d", destr(self.Dest, self.Type), self.Value)
    } else {
        return fmt.Sprintf("%s = const %t", destr(self.Dest, self.Type), self.Value != 0)
    }
}

func (self *Const) Definitions() []*Var {
    return []*Var { &self.Dest }
}

// Value is an operation that produces a result.
type Value struct {
    Op    string
    Dest  Var
    Type  Type
    Args  []Var
    Funcs []string
}

func (self *Value) String() string {
    return fmt.Sprintf("%s = %s", destr(self.Dest, self.Type), opstr(self.Op, self.Funcs, self.Args))
}

// Pure reports whether the operation can be removed or reused when its
// result is not needed.
func (self *Value) Pure() bool {
    return self.Op != "call"
}

func (self *Value) Usages() []*Var {
    return varsliceref(self.Args)
}

func (self *Value) Definitions() []*Var {
    return []*Var { &self.Dest }
}

// Effect is an operation executed for its side effects only.
type Effect struct {
    Op    string
    Args  []Var
    Funcs []string
}

func (self *Effect) String() string {
    return opstr(self.Op, self.Funcs, self.Args)
}

func (self *Effect) Usages() []*Var {
    return varsliceref(self.Args)
}

type Jump struct {
    Target string
}

func (self *Jump) String() string {
    return "jmp ." + self.Target
}

func (self *Jump) Targets() []string {
    return []string { self.Target }
}

type Branch struct {
    Cond  Var
    True  string
    False string
}

func (self *Branch) String() string {
    return fmt.Sprintf("br %s .%s .%s", self.Cond, self.True, self.False)
}

func (self *Branch) Targets() []string {
    return []string { self.True, self.False }
}

func (self *Branch) Usages() []*Var {
    return []*Var { &self.Cond }
}

type Return struct {
    Args []Var
}

func (self *Return) String() string {
    return opstr("ret", nil, self.Args)
}

func (self *Return) Targets() []string {
    return nil
}

func (self *Return) Usages() []*Var {
    return varsliceref(self.Args)
}

// PhiArg is the value flowing into a Phi node from the predecessor labeled
// Label. Undefined is set when no definition reaches along that edge.
type PhiArg struct {
    Label     string
    Value     Var
    Undefined bool
}

const (
    UndefinedName = "__undefined"
)

type Phi struct {
    Dest Var
    Type Type
    Args []PhiArg
}

func (self *Phi) String() string {
    nb := len(self.Args)
    buf := make([]string, 0, nb)

    /* dump every incoming value */
    for _, v := range self.Args {
        if v.Undefined {
            buf = append(buf, fmt.Sprintf(".%s: %s", v.Label, UndefinedName))
        } else {
            buf = append(buf, fmt.Sprintf(".%s: %s", v.Label, v.Value))
        }
    }

    /* join them together */
    return fmt.Sprintf(
        "%s = φ(%s)",
        destr(self.Dest, self.Type),
        strings.Join(buf, ", "),
    )
}

func (self *Phi) Usages() []*Var {
    ret := make([]*Var, 0, len(self.Args))
    for i := range self.Args {
        if !self.Args[i].Undefined {
            ret = append(ret, &self.Args[i].Value)
        }
    }
    return ret
}

func (self *Phi) Definitions() []*Var {
    return []*Var { &self.Dest }
}

// Incoming returns the index of the argument coming from label, or -1.
func (self *Phi) Incoming(label string) int {
    for i, v := range self.Args {
        if v.Label == label {
            return i
        }
    }
    return -1
}

// SpillLoad reloads a spilled value from its spill slot.
type SpillLoad struct {
    Dest Var
    Slot int
}

func (self *SpillLoad) String() string {
    return fmt.Sprintf("%s = reload slot[%d]", self.Dest, self.Slot)
}

func (self *SpillLoad) Definitions() []*Var {
    return []*Var { &self.Dest }
}

// SpillStore writes a value into its spill slot.
type SpillStore struct {
    Src  Var
    Slot int
}

func (self *SpillStore) String() string {
    return fmt.Sprintf("spill %s -> slot[%d]", self.Src, self.Slot)
}

func (self *SpillStore) Usages() []*Var {
    return []*Var { &self.Src }
}

func destr(dest Var, t Type) string {
    if t == "" {
        return string(dest)
    } else {
        return fmt.Sprintf("%s: %s", dest, t)
    }
}

func opstr(op string, funcs []string, args []Var) string {
    buf := []string { op }
    for _, fn := range funcs { buf = append(buf, "@" + fn) }
    for _, v := range args { buf = append(buf, string(v)) }
    return strings.Join(buf, " ")
}

func varsliceref(v []Var) (r []*Var) {
    r = make([]*Var, len(v))
    for i := range v { r[i] = &v[i] }
    return
}
