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

// Package ralloc builds control flow graphs from the peer tool program
// format, converts them to SSA, runs the local optimizations, and assigns
// physical registers with graph coloring.
package ralloc

import (
	"github.com/cloudwego/ralloc/internal/cfg"
	"github.com/cloudwego/ralloc/internal/ir"
	"github.com/cloudwego/ralloc/internal/opt"
	"github.com/cloudwego/ralloc/internal/opts"
	"github.com/cloudwego/ralloc/internal/regalloc"
	"github.com/cloudwego/ralloc/internal/ssa"
	"github.com/cloudwego/ralloc/internal/target"
	"golang.org/x/sync/errgroup"
)

type (
	Program  = ir.Program
	Function = ir.Function
	CFG      = cfg.CFG
	Result   = regalloc.Result
	Machine  = target.Machine
	Register = target.Register
)

// NewX86 returns the 32-bit x86 machine, with EBX, ECX and EDX allocatable.
func NewX86() Machine {
	return target.NewX86()
}

// NewGeneric returns a machine with n interchangeable registers.
func NewGeneric(n int) *target.Generic {
	return target.NewGeneric(n)
}

// ParseProgram decodes a program in the peer tool JSON format.
func ParseProgram(src []byte) (*Program, error) {
	return ir.ParseProgram(src)
}

// BuildCFG splits fn into basic blocks and wires their edges.
func BuildCFG(fn *Function) (*CFG, error) {
	return cfg.Build(fn)
}

// ToSSA converts g into SSA form in place.
func ToSSA(g *CFG) error {
	_, err := ssa.Build(g)
	return err
}

// Optimize runs dead code elimination and local value numbering over g.
func Optimize(g *CFG) {
	opt.Optimize(g)
}

func makeOptions(options []Option) opts.Options {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	return o
}

// Allocate assigns physical registers of m to g, inserting spill code into g
// when needed. g must not contain any Phi nodes.
func Allocate(g *CFG, m Machine, options ...Option) (*Result, error) {
	return regalloc.Allocate(g, m, makeOptions(options))
}

// AllocateProgram allocates every function of p independently, leaving p
// untouched. It returns a new program with every virtual register replaced by its physical one,
// together with the per-function results.
func AllocateProgram(p *Program, m Machine, options ...Option) (*Program, []*Result, error) {
	var wg errgroup.Group
	var op = makeOptions(options)

	/* limit the number of workers if needed */
	if op.Parallelism > 0 {
		wg.SetLimit(op.Parallelism)
	}

	/* functions do not share anything */
	ret := &Program { Functions: make([]*Function, len(p.Functions)) }
	res := make([]*Result, len(p.Functions))

	/* allocate every function */
	for i, fn := range p.Functions {
		i, fn := i, fn
		wg.Go(func() error {
			g, err := cfg.Build(fn.Clone())
			if err != nil {
				return err
			}

			/* run the allocator */
			rs, err := regalloc.Allocate(g, m, op)
			if err != nil {
				return err
			}

			/* rewrite with physical registers */
			rs.Apply(g)
			res[i] = rs
			ret.Functions[i] = g.Function()
			return nil
		})
	}

	/* wait for all the workers */
	if err := wg.Wait(); err != nil {
		return nil, nil, err
	} else {
		return ret, res, nil
	}
}
