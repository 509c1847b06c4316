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

package testutil

import (
    `fmt`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/cloudwego/ralloc/internal/ir`
)

var binaryOps = []string {
    "add",
    "sub",
    "mul",
    "div",
    "and",
    "or",
    "lt",
    "eq",
}

// Config controls the shape of the generated functions.
// Args bounds the operands of calls and prints.
type Config struct {
    Vars   int
    Args   int
    Blocks int
    Instrs int
}

// DefaultConfig is small enough to keep the allocator tests fast.
var DefaultConfig = Config {
    Vars   : 6,
    Args   : 3,
    Blocks : 8,
    Instrs : 6,
}

// Generator produces deterministic random functions. Every variable is
// defined at the entry, so every use has a reaching definition on all paths.
type Generator struct {
    f   *gofakeit.Faker
    cfg Config
}

func NewGenerator(seed int64, cfg Config) *Generator {
    return &Generator {
        f   : gofakeit.New(seed),
        cfg : cfg,
    }
}

func (self *Generator) varname(i int) ir.Var {
    return ir.Var(fmt.Sprintf("v%d", i))
}

func (self *Generator) anyvar() ir.Var {
    return self.varname(self.f.IntRange(0, self.cfg.Vars - 1))
}

func (self *Generator) label(i int) string {
    return fmt.Sprintf("L%d", i)
}

func (self *Generator) anylabel() string {
    return self.label(self.f.IntRange(0, self.cfg.Blocks - 1))
}

// Function generates a function named name.
func (self *Generator) Function(name string) *ir.Function {
    fn := &ir.Function { Name: name }

    /* define every variable upfront */
    for i := 0; i < self.cfg.Vars; i++ {
        fn.Instrs = append(fn.Instrs, &ir.Const {
            Dest  : self.varname(i),
            Type  : ir.Int,
            Value : int64(self.f.IntRange(1, 100)),
        })
    }

    /* generate the blocks */
    for i := 0; i < self.cfg.Blocks; i++ {
        fn.Instrs = append(fn.Instrs, &ir.Label { Name: self.label(i) })
        fn.Instrs = append(fn.Instrs, self.body()...)

        /* the last block always returns */
        if i == self.cfg.Blocks - 1 {
            fn.Instrs = append(fn.Instrs, &ir.Return { Args: []ir.Var { self.anyvar() } })
        } else {
            fn.Instrs = append(fn.Instrs, self.terminator()...)
        }
    }

    /* all done */
    return fn
}

func (self *Generator) body() []ir.Instr {
    n := self.f.IntRange(0, self.cfg.Instrs)
    ret := make([]ir.Instr, 0, n)

    /* random arithmetics and calls over the live variables */
    for i := 0; i < n; i++ {
        switch self.f.IntRange(0, 7) {
            case 0: {
                ret = append(ret, &ir.Effect {
                    Op   : "print",
                    Args : self.operands(),
                })
            }
            case 1: {
                ret = append(ret, &ir.Effect {
                    Op    : "call",
                    Args  : self.operands(),
                    Funcs : []string { "g" },
                })
            }
            case 2: {
                ret = append(ret, &ir.Value {
                    Op    : "call",
                    Dest  : self.anyvar(),
                    Type  : ir.Int,
                    Args  : self.operands(),
                    Funcs : []string { "g" },
                })
            }
            default: {
                ret = append(ret, &ir.Value {
                    Op   : self.f.RandomString(binaryOps),
                    Dest : self.anyvar(),
                    Type : ir.Int,
                    Args : []ir.Var { self.anyvar(), self.anyvar() },
                })
            }
        }
    }
    return ret
}

func (self *Generator) operands() []ir.Var {
    n := self.f.IntRange(0, self.cfg.Args)
    ret := make([]ir.Var, 0, n)
    for i := 0; i < n; i++ {
        ret = append(ret, self.anyvar())
    }
    return ret
}

func (self *Generator) terminator() []ir.Instr {
    switch self.f.IntRange(0, 3) {
        case 0  : return nil
        case 1  : return []ir.Instr { &ir.Jump { Target: self.anylabel() } }
        case 2  : return []ir.Instr { &ir.Return { Args: []ir.Var { self.anyvar() } } }
        default : return []ir.Instr { &ir.Branch { Cond: self.anyvar(), True: self.anylabel(), False: self.anylabel() } }
    }
}

// Functions generates n functions named f0, f1 and so on.
func (self *Generator) Functions(n int) []*ir.Function {
    ret := make([]*ir.Function, 0, n)
    for i := 0; i < n; i++ {
        ret = append(ret, self.Function(fmt.Sprintf("f%d", i)))
    }
    return ret
}
