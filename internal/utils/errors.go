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

package utils

import (
    `fmt`
    `strings`
)

// ConstructionError occurs when a function cannot be turned into a CFG,
// either because an instruction is malformed or a jump refers to an
// undefined label.
type ConstructionError struct {
    Func   string
    Block  int
    Index  int
    Label  string
    Reason string
}

func (self ConstructionError) Error() string {
    var buf []string
    buf = append(buf, fmt.Sprintf("func %s", self.Func))

    /* attach the location if any */
    if self.Block >= 0 {
        buf = append(buf, fmt.Sprintf("bb_%d", self.Block))
    }
    if self.Index >= 0 {
        buf = append(buf, fmt.Sprintf("instr %d", self.Index))
    }
    if self.Label != "" {
        buf = append(buf, fmt.Sprintf("label %q", self.Label))
    }

    /* join them together */
    return fmt.Sprintf("ConstructionError(%s): %s", strings.Join(buf, ", "), self.Reason)
}

// RenameError occurs when a variable is used without any reaching definition
// along the dominator tree path being renamed.
type RenameError struct {
    Func  string
    Block int
    Index int
    Var   string
}

func (self RenameError) Error() string {
    return fmt.Sprintf(
        "RenameError(func %s, bb_%d, instr %d): use of undefined variable %q",
        self.Func,
        self.Block,
        self.Index,
        self.Var,
    )
}

// InvariantError occurs when the allocator detects that its own bookkeeping
// diverged from the interference graph. It always indicates a bug.
type InvariantError struct {
    Func   string
    Reg    string
    Round  int
    Reason string
}

func (self InvariantError) Error() string {
    return fmt.Sprintf("InvariantError(func %s, round %d, reg %s): %s", self.Func, self.Round, self.Reg, self.Reason)
}

// ExhaustedError occurs when allocation runs out of a bounded resource
// (spill slots, spill rounds, or allocatable registers).
type ExhaustedError struct {
    Func     string
    Resource string
    Limit    int
}

func (self ExhaustedError) Error() string {
    return fmt.Sprintf("ExhaustedError(func %s): %s exhausted (limit %d)", self.Func, self.Resource, self.Limit)
}

func EMalformed(fn string, idx int, reason string) ConstructionError {
    return ConstructionError {
        Func   : fn,
        Block  : -1,
        Index  : idx,
        Reason : reason,
    }
}

func EMalformedf(fn string, idx int, format string, args ...interface{}) ConstructionError {
    return EMalformed(fn, idx, fmt.Sprintf(format, args...))
}

func EUndefinedLabel(fn string, block int, label string) ConstructionError {
    return ConstructionError {
        Func   : fn,
        Block  : block,
        Index  : -1,
        Label  : label,
        Reason : "jump to undefined label",
    }
}

func EUndefinedIncoming(fn string, block int, label string) ConstructionError {
    return ConstructionError {
        Func   : fn,
        Block  : block,
        Index  : -1,
        Label  : label,
        Reason : "phi refers to undefined label",
    }
}

func EDuplicateLabel(fn string, idx int, label string) ConstructionError {
    return ConstructionError {
        Func   : fn,
        Block  : -1,
        Index  : idx,
        Label  : label,
        Reason : "duplicated label definition",
    }
}

func EUndefinedVar(fn string, block int, idx int, name string) RenameError {
    return RenameError {
        Func  : fn,
        Block : block,
        Index : idx,
        Var   : name,
    }
}

func EInvariant(fn string, round int, reg string, reason string) InvariantError {
    return InvariantError {
        Func   : fn,
        Reg    : reg,
        Round  : round,
        Reason : reason,
    }
}

func EExhausted(fn string, resource string, limit int) ExhaustedError {
    return ExhaustedError {
        Func     : fn,
        Resource : resource,
        Limit    : limit,
    }
}
