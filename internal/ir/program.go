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
    `bytes`
    `encoding/json`
    `strconv`

    `github.com/cloudwego/ralloc/internal/utils`
)

// Program is the interchange record shared with the peer tools:
// {"functions": [{"name", "args", "instrs": [...]}]}.
type Program struct {
    Functions []*Function `json:"functions"`
}

type Arg struct {
    Name Var  `json:"name"`
    Type Type `json:"type,omitempty"`
}

type Function struct {
    Name   string
    Args   []Arg
    Type   Type
    Instrs []Instr
}

type _RawFunction struct {
    Name   string      `json:"name"`
    Args   []Arg       `json:"args,omitempty"`
    Type   Type        `json:"type,omitempty"`
    Instrs []_RawInstr `json:"instrs"`
}

type _RawInstr struct {
    Label  string          `json:"label,omitempty"`
    Op     string          `json:"op,omitempty"`
    Dest   Var             `json:"dest,omitempty"`
    Type   Type            `json:"type,omitempty"`
    Args   []Var           `json:"args,omitempty"`
    Funcs  []string        `json:"funcs,omitempty"`
    Labels []string        `json:"labels,omitempty"`
    Value  json.RawMessage `json:"value,omitempty"`
}

// ParseProgram decodes a program from its JSON form.
func ParseProgram(src []byte) (*Program, error) {
    ret := new(Program)
    if err := json.Unmarshal(src, ret); err != nil {
        return nil, err
    } else {
        return ret, nil
    }
}

// Marshal encodes the program back into its JSON form.
func (self *Program) Marshal() ([]byte, error) {
    return json.Marshal(self)
}

func (self *Function) UnmarshalJSON(src []byte) error {
    var err error
    var raw _RawFunction

    /* decode the raw record */
    if err = json.Unmarshal(src, &raw); err != nil {
        return err
    }

    /* copy the function header */
    self.Name = raw.Name
    self.Args = raw.Args
    self.Type = raw.Type
    self.Instrs = make([]Instr, 0, len(raw.Instrs))

    /* convert every instruction */
    for i := range raw.Instrs {
        ins, err := decodeInstr(raw.Name, i, &raw.Instrs[i])
        if err != nil {
            return err
        }
        self.Instrs = append(self.Instrs, ins)
    }
    return nil
}

func (self *Function) MarshalJSON() ([]byte, error) {
    raw := _RawFunction {
        Name   : self.Name,
        Args   : self.Args,
        Type   : self.Type,
        Instrs : make([]_RawInstr, 0, len(self.Instrs)),
    }

    /* convert every instruction */
    for _, ins := range self.Instrs {
        raw.Instrs = append(raw.Instrs, encodeInstr(ins))
    }

    /* encode the raw record */
    return json.Marshal(&raw)
}

func decodeInstr(fn string, idx int, p *_RawInstr) (Instr, error) {
    if p.Label != "" {
        if p.Op != "" {
            return nil, utils.EMalformed(fn, idx, "label with an operation")
        } else {
            return &Label { Name: p.Label }, nil
        }
    }

    /* check for OpCode */
    switch p.Op {
        case ""       : return nil, utils.EMalformed(fn, idx, "missing op")
        case "const"  : return decodeConst(fn, idx, p)
        case "jmp"    : return decodeJump(fn, idx, p)
        case "br"     : return decodeBranch(fn, idx, p)
        case "ret"    : return decodeReturn(fn, idx, p)
        case "phi"    : return decodePhi(fn, idx, p)
        case "reload" : return decodeReload(fn, idx, p)
        case "spill"  : return decodeSpill(fn, idx, p)
    }

    /* ordinary operations carry neither literals nor labels */
    if len(p.Value) != 0 {
        return nil, utils.EMalformed(fn, idx, "value on a non-constant operation")
    } else if len(p.Labels) != 0 {
        return nil, utils.EMalformed(fn, idx, "labels on a non-branching operation")
    } else if p.Dest == "" && p.Type != "" {
        return nil, utils.EMalformed(fn, idx, "typed operation without a destination")
    }

    /* with or without a result */
    if p.Dest == "" {
        return &Effect { Op: p.Op, Args: p.Args, Funcs: p.Funcs }, nil
    } else {
        return &Value { Op: p.Op, Dest: p.Dest, Type: p.Type, Args: p.Args, Funcs: p.Funcs }, nil
    }
}

func decodeConst(fn string, idx int, p *_RawInstr) (Instr, error) {
    if p.Dest == "" {
        return nil, utils.EMalformed(fn, idx, "const without dest")
    }

    /* must have a literal payload */
    if len(p.Value) == 0 {
        return nil, utils.EMalformed(fn, idx, "const without value")
    }

    /* boolean literals */
    switch v := string(bytes.TrimSpace(p.Value)); v {
        case "true"  : return &Const { Dest: p.Dest, Type: Bool, Value: 1 }, nil
        case "false" : return &Const { Dest: p.Dest, Type: Bool, Value: 0 }, nil
    }

    /* integer literals */
    if iv, err := strconv.ParseInt(string(p.Value), 10, 64); err != nil {
        return nil, utils.EMalformedf(fn, idx, "invalid const value %s", p.Value)
    } else if p.Type == "" {
        return &Const { Dest: p.Dest, Type: Int, Value: iv }, nil
    } else {
        return &Const { Dest: p.Dest, Type: p.Type, Value: iv }, nil
    }
}

func decodeJump(fn string, idx int, p *_RawInstr) (Instr, error) {
    if len(p.Labels) != 1 {
        return nil, utils.EMalformedf(fn, idx, "jmp requires exactly 1 label, got %d", len(p.Labels))
    } else {
        return &Jump { Target: p.Labels[0] }, nil
    }
}

func decodeBranch(fn string, idx int, p *_RawInstr) (Instr, error) {
    if len(p.Args) != 1 {
        return nil, utils.EMalformedf(fn, idx, "br requires exactly 1 argument, got %d", len(p.Args))
    } else if len(p.Labels) != 2 {
        return nil, utils.EMalformedf(fn, idx, "br requires exactly 2 labels, got %d", len(p.Labels))
    } else {
        return &Branch { Cond: p.Args[0], True: p.Labels[0], False: p.Labels[1] }, nil
    }
}

func decodeReturn(fn string, idx int, p *_RawInstr) (Instr, error) {
    if len(p.Args) > 1 {
        return nil, utils.EMalformedf(fn, idx, "ret takes at most 1 argument, got %d", len(p.Args))
    } else {
        return &Return { Args: p.Args }, nil
    }
}

func decodePhi(fn string, idx int, p *_RawInstr) (Instr, error) {
    if p.Dest == "" {
        return nil, utils.EMalformed(fn, idx, "phi without dest")
    } else if len(p.Args) != len(p.Labels) {
        return nil, utils.EMalformedf(fn, idx, "phi has %d arguments but %d labels", len(p.Args), len(p.Labels))
    }

    /* build the incoming values */
    ret := &Phi { Dest: p.Dest, Type: p.Type }
    for i, v := range p.Args {
        ret.Args = append(ret.Args, PhiArg {
            Label     : p.Labels[i],
            Value     : v,
            Undefined : v == UndefinedName,
        })
    }
    return ret, nil
}

func decodeSlot(fn string, idx int, p *_RawInstr) (int, error) {
    if len(p.Value) == 0 {
        return 0, utils.EMalformedf(fn, idx, "%s without spill slot", p.Op)
    } else if v, err := strconv.Atoi(string(p.Value)); err != nil || v < 0 {
        return 0, utils.EMalformedf(fn, idx, "invalid spill slot %s", p.Value)
    } else {
        return v, nil
    }
}

func decodeReload(fn string, idx int, p *_RawInstr) (Instr, error) {
    if p.Dest == "" {
        return nil, utils.EMalformed(fn, idx, "reload without dest")
    } else if slot, err := decodeSlot(fn, idx, p); err != nil {
        return nil, err
    } else {
        return &SpillLoad { Dest: p.Dest, Slot: slot }, nil
    }
}

func decodeSpill(fn string, idx int, p *_RawInstr) (Instr, error) {
    if len(p.Args) != 1 {
        return nil, utils.EMalformedf(fn, idx, "spill requires exactly 1 argument, got %d", len(p.Args))
    } else if slot, err := decodeSlot(fn, idx, p); err != nil {
        return nil, err
    } else {
        return &SpillStore { Src: p.Args[0], Slot: slot }, nil
    }
}

func encodeInstr(ins Instr) _RawInstr {
    switch v := ins.(type) {
        case *Label      : return _RawInstr { Label: v.Name }
        case *Value      : return _RawInstr { Op: v.Op, Dest: v.Dest, Type: v.Type, Args: v.Args, Funcs: v.Funcs }
        case *Effect     : return _RawInstr { Op: v.Op, Args: v.Args, Funcs: v.Funcs }
        case *Jump       : return _RawInstr { Op: "jmp", Labels: []string { v.Target } }
        case *Branch     : return _RawInstr { Op: "br", Args: []Var { v.Cond }, Labels: []string { v.True, v.False } }
        case *Return     : return _RawInstr { Op: "ret", Args: v.Args }
        case *SpillLoad  : return _RawInstr { Op: "reload", Dest: v.Dest, Value: rawint(int64(v.Slot)) }
        case *SpillStore : return _RawInstr { Op: "spill", Args: []Var { v.Src }, Value: rawint(int64(v.Slot)) }
        case *Const      : return encodeConst(v)
        case *Phi        : return encodePhi(v)
        default          : panic("ir: unknown instruction kind")
    }
}

func encodeConst(v *Const) _RawInstr {
    ret := _RawInstr {
        Op   : "const",
        Dest : v.Dest,
        Type : v.Type,
    }

    /* boolean literals are encoded as JSON booleans */
    if v.Type != Bool {
        ret.Value = rawint(v.Value)
    } else if v.Value != 0 {
        ret.Value = json.RawMessage("true")
    } else {
        ret.Value = json.RawMessage("false")
    }
    return ret
}

func encodePhi(v *Phi) _RawInstr {
    ret := _RawInstr {
        Op   : "phi",
        Dest : v.Dest,
        Type : v.Type,
    }

    /* dump every incoming value */
    for _, a := range v.Args {
        ret.Labels = append(ret.Labels, a.Label)
        if a.Undefined {
            ret.Args = append(ret.Args, UndefinedName)
        } else {
            ret.Args = append(ret.Args, a.Value)
        }
    }
    return ret
}

func rawint(v int64) json.RawMessage {
    return json.RawMessage(strconv.FormatInt(v, 10))
}
