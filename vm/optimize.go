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

// scanDepth is the maximum pattern window, in cells, scanned from any base
// address: 64 raw instructions.
const scanDepth = 3 * 64

// Jump-target offsets fixed by the shape of the indirect idioms: both
// sequences begin by clearing one of their own operand cells, and the
// first instruction's capture must point at it.
const (
	iloadJumpOffset = 15
	ijmpJumpOffset  = 14
	ldincIncOffset  = 24 // the ILOAD pattern size
)

// prime fills the instruction array with the default classification: every
// address executes raw SUBLEQ on the three cells starting there. The
// operands recorded here are a snapshot of the loaded image for the
// classification record and the dump; the SUBLEQ handler in Run reads the
// current memory cells at dispatch time, since code may rewrite its own
// operand cells.
func (i *Instance) prime() {
	for a := 0; a < MemSize; a++ {
		i.insn[a] = Insn{
			Op:  OpSubleq,
			Src: i.Mem[a],
			Dst: i.Mem[(a+1)&addrMask],
			Aux: i.Mem[(a+2)&addrMask],
		}
	}
}

// optimizer holds the transient state of the one-time peephole pass: the
// capture slots and the snapshot tables recording which cells of the
// initial image hold the constants 0, 1 and 0xFFFF. The tables are not
// kept in sync with runtime writes; the idioms they discriminate are
// built around constant cells the guest never overwrites.
type optimizer struct {
	m        matcher
	isZero   []bool
	isOne    []bool
	isNegOne []bool
}

// classify runs the peephole pass: it primes the default classification,
// snapshots the constant tables, then tries the patterns at every loaded
// address in priority order. The first match claims the address; the scan
// always continues at the next address, so classified sequences may
// overlap. Execution never mutates memory here, this is a pure
// classification pass.
func (i *Instance) classify() {
	i.prime()

	opt := &optimizer{
		isZero:   make([]bool, MemSize),
		isOne:    make([]bool, MemSize),
		isNegOne: make([]bool, MemSize),
	}
	for a := 0; a < i.loadSize; a++ {
		opt.isZero[a] = i.Mem[a] == 0
		opt.isOne[a] = i.Mem[a] == 1
		opt.isNegOne[a] = i.Mem[a] == ioCell
	}

	for pc := 0; pc < i.loadSize; pc++ {
		i.matches[i.classifyAt(opt, pc)]++
	}
}

// classifyAt tries the patterns at address pc and installs the first
// match. It returns the opcode charged to the substitution counters.
func (i *Instance) classifyAt(opt *optimizer, pc int) Opcode {
	mem := i.Mem
	m := &opt.m
	depth := scanDepth
	if pc+depth > i.loadSize {
		depth = i.loadSize - pc
	}

	// ISTORE: m[m[D]] = m[S]
	if m.match(mem, pc, depth, "0Z> 11> 22> Z3> Z4> ZZ> 56> 77> Z7> 6Z> ZZ> 66>") {
		i.insn[pc] = Insn{Op: OpIStore, Dst: m.slot(0), Src: m.slot(5)}
		return OpIStore
	}

	// ILOAD: m[D] = m[m[S]], optionally fused with the pointer increment
	// that follows it into LDINC. The first capture must be the address of
	// the idiom's own patched operand cell.
	var iloadSrcPtr Cell
	if m.match(mem, pc, depth, "00> !Z> Z0> ZZ> 11> ?Z> Z1> ZZ>", &iloadSrcPtr) &&
		int(m.slot(0)) == pc+iloadJumpOffset {
		iloadDst := m.slot(1) // saved before the next match bumps the version

		var incSrc, incDst Cell
		if depth >= opAdvance[OpLdInc] &&
			m.match(mem, pc+ldincIncOffset, depth-ldincIncOffset, "!!>", &incSrc, &incDst) &&
			incSrc != incDst && opt.isNegOne[incSrc] && incDst == iloadSrcPtr {
			i.insn[pc] = Insn{Op: OpLdInc, Dst: iloadDst, Src: iloadSrcPtr}
			return OpLdInc
		}

		i.insn[pc] = Insn{Op: OpILoad, Dst: iloadDst, Src: iloadSrcPtr}
		return OpILoad
	}

	// LSHIFT: a run of two or more DOUBLE stages on the same cell.
	var shiftDst Cell
	shiftCount := 0
	for pos := 0; depth-pos >= 9; pos += 9 {
		var q0, q1 Cell
		if !m.match(mem, pc+pos, depth-pos, "!Z> Z!> ZZ>", &q0, &q1) || q0 != q1 {
			break
		}
		if shiftCount == 0 {
			shiftDst = q0
		} else if shiftDst != q0 {
			break
		}
		shiftCount++
	}
	if shiftCount >= 2 {
		i.insn[pc] = Insn{Op: OpLShift, Dst: shiftDst, Src: Cell(shiftCount)}
		return OpLShift
	}

	// IADD: m[m[D]] += m[S]
	if m.match(mem, pc, depth, "01> 23> 44> 14> 3Z> 11> 33>") {
		i.insn[pc] = Insn{Op: OpIAdd, Dst: m.slot(0), Src: m.slot(2)}
		return OpIAdd
	}

	// INV: bitwise NOT, recognizable by its final increment from a cell
	// holding the constant 1.
	var invTemp Cell
	if m.match(mem, pc, depth, "00> 10> 11> 2Z> Z1> ZZ> !1>", &invTemp) &&
		opt.isOne[invTemp] {
		i.insn[pc] = Insn{Op: OpInv, Dst: m.slot(1)}
		return OpInv
	}

	// ISUB: m[m[D]] -= m[S]
	if m.match(mem, pc, depth, "01> 33> 14> 5Z> 11>") {
		i.insn[pc] = Insn{Op: OpISub, Dst: m.slot(0), Src: m.slot(5)}
		return OpISub
	}

	// IJMP: PC = m[D]
	var ijmpPtr Cell
	if m.match(mem, pc, depth, "00> !Z> Z0> ZZ> ZZ>", &ijmpPtr) &&
		int(m.slot(0)) == pc+ijmpJumpOffset {
		i.insn[pc] = Insn{Op: OpIJmp, Dst: ijmpPtr}
		return OpIJmp
	}

	// MOV: m[D] = m[S]
	var movSrc Cell
	if m.match(mem, pc, depth, "00> !Z> Z0> ZZ>", &movSrc) && m.slot(0) != movSrc {
		i.insn[pc] = Insn{Op: OpMov, Dst: m.slot(0), Src: movSrc}
		return OpMov
	}

	// DOUBLE when the operands coincide, ADD otherwise.
	var arithSrc, arithDst Cell
	if m.match(mem, pc, depth, "!Z> Z!> ZZ>", &arithSrc, &arithDst) {
		if arithSrc == arithDst {
			i.insn[pc] = Insn{Op: OpDouble, Dst: arithDst, Src: arithSrc}
			return OpDouble
		}
		i.insn[pc] = Insn{Op: OpAdd, Dst: arithDst, Src: arithSrc}
		return OpAdd
	}

	// NEG: m[D] = 0 - m[S] (clear D, then subtract S from it)
	if m.match(mem, pc, depth, "00> 10>") {
		i.insn[pc] = Insn{Op: OpNeg, Dst: m.slot(0), Src: m.slot(1)}
		return OpNeg
	}

	// ZERO: m[D] = 0
	if m.match(mem, pc, depth, "00>") {
		i.insn[pc] = Insn{Op: OpZero, Dst: m.slot(0)}
		return OpZero
	}

	// HALT: branch-always to the I/O sentinel
	var haltAux Cell
	if m.match(mem, pc, depth, "ZZ!", &haltAux) && haltAux == ioCell {
		i.insn[pc] = Insn{Op: OpHalt}
		return OpHalt
	}

	// JMP: branch-always. A jump to itself can never leave the address
	// again, so it degrades to HALT.
	var jmpTarget Cell
	if m.match(mem, pc, depth, "00!", &jmpTarget) {
		if jmpTarget == Cell(pc) {
			i.insn[pc] = Insn{Op: OpHalt}
			return OpHalt
		}
		// slot 0 is the cell the jump idiom clears on the way out
		i.insn[pc] = Insn{Op: OpJmp, Dst: jmpTarget, Src: m.slot(0)}
		return OpJmp
	}

	// GET: read one byte into m[D]
	var getDst Cell
	if m.match(mem, pc, depth, "N!>", &getDst) {
		i.insn[pc] = Insn{Op: OpGet, Dst: getDst}
		return OpGet
	}

	// PUT: write the byte at m[S]
	var putSrc Cell
	if m.match(mem, pc, depth, "!N>", &putSrc) {
		i.insn[pc] = Insn{Op: OpPut, Src: putSrc}
		return OpPut
	}

	// A single fall-through SUBLEQ is INC or DEC when the subtrahend cell
	// holds a known constant, SUB otherwise.
	var subSrc, subDst Cell
	if m.match(mem, pc, depth, "!!>", &subSrc, &subDst) && subSrc != subDst {
		switch {
		case opt.isNegOne[subSrc]:
			i.insn[pc] = Insn{Op: OpInc, Dst: subDst}
			return OpInc
		case opt.isOne[subSrc]:
			i.insn[pc] = Insn{Op: OpDec, Dst: subDst}
			return OpDec
		default:
			i.insn[pc] = Insn{Op: OpSub, Dst: subDst, Src: subSrc}
			return OpSub
		}
	}

	return OpSubleq
}
