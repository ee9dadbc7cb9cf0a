// This file is part of subleq - https://github.com/jserv/subleq
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

// Opcode identifies an extended instruction. OpSubleq is the raw machine
// instruction; every other opcode stands for a fixed multi-instruction
// sequence recognized by the peephole pass.
type Opcode uint8

// Extended instruction set.
const (
	OpSubleq Opcode = iota
	OpJmp
	OpAdd
	OpSub
	OpMov
	OpZero
	OpPut
	OpGet
	OpHalt
	OpIAdd
	OpISub
	OpIJmp
	OpILoad
	OpIStore
	OpInc
	OpDec
	OpInv
	OpNeg
	OpLShift
	OpDouble
	OpLdInc

	opCount
)

var opNames = [opCount]string{
	OpSubleq: "SUBLEQ",
	OpJmp:    "JMP",
	OpAdd:    "ADD",
	OpSub:    "SUB",
	OpMov:    "MOV",
	OpZero:   "ZERO",
	OpPut:    "PUT",
	OpGet:    "GET",
	OpHalt:   "HALT",
	OpIAdd:   "IADD",
	OpISub:   "ISUB",
	OpIJmp:   "IJMP",
	OpILoad:  "ILOAD",
	OpIStore: "ISTORE",
	OpInc:    "INC",
	OpDec:    "DEC",
	OpInv:    "INV",
	OpNeg:    "NEG",
	OpLShift: "LSHIFT",
	OpDouble: "DOUBLE",
	OpLdInc:  "LDINC",
}

// opAdvance is the fixed PC increment per opcode: the number of raw SUBLEQ
// cells the fused sequence spans, so that execution resumes exactly where
// the unfused sequence would have continued. Opcodes that set the PC
// directly (JMP, IJMP, HALT, a taken SUBLEQ branch) ignore it, and LSHIFT
// advances 9 cells per fused shift stage.
var opAdvance = [opCount]int{
	OpSubleq: 3,
	OpJmp:    0,
	OpAdd:    9,
	OpSub:    3,
	OpMov:    12,
	OpZero:   3,
	OpPut:    3,
	OpGet:    3,
	OpHalt:   0,
	OpIAdd:   21,
	OpISub:   15,
	OpIJmp:   0,
	OpILoad:  24,
	OpIStore: 36,
	OpInc:    3,
	OpDec:    3,
	OpInv:    21,
	OpNeg:    6,
	OpLShift: 9,
	OpDouble: 9,
	OpLdInc:  27,
}

func (op Opcode) String() string {
	if op < opCount {
		return opNames[op]
	}
	return "???"
}

// Insn is one decoded extended instruction. The meaning of Src, Dst and Aux
// depends on the opcode: memory address, shift count (LSHIFT Src), jump
// target (JMP Dst, SUBLEQ Aux), or unused.
type Insn struct {
	Op  Opcode
	Src Cell
	Dst Cell
	Aux Cell
}
