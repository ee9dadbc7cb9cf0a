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

import "time"

// load reads the cell at address a, counting the access for the profiler.
func (i *Instance) load(a Cell) Cell {
	if i.prof != nil {
		i.prof.memAccesses++
	}
	return i.Mem[a]
}

// store writes the cell at address a, counting the access for the profiler.
func (i *Instance) store(a, v Cell) {
	if i.prof != nil {
		i.prof.memAccesses++
	}
	i.Mem[a] = v
}

// Run starts execution of the VM at the current PC and runs until the
// machine halts or an I/O condition stops it.
//
// Run returns nil when the PC leaves the valid program range (the guest's
// halt convention) or a HALT instruction executes, io.EOF when the guest
// reads past the end of its input, and a wrapped error on any other I/O
// failure. On a non-nil return the PC is left on the instruction that
// triggered the condition.
//
// The loop dispatches one extended instruction per iteration and each
// handler chains back by falling out of the switch, so stack use is
// bounded no matter how many instructions execute.
func (i *Instance) Run() (err error) {
	i.start = time.Now()
	defer func() { i.end = time.Now() }()

	for {
		pc := i.PC
		if pc >= haltAddr {
			return nil
		}
		n := &i.insn[pc]
		i.execCount[n.Op]++
		i.insCount++
		if i.prof != nil {
			i.prof.heat[pc]++
		}

		switch n.Op {
		case OpSubleq:
			// Operands are decoded from memory at dispatch time, not from
			// the classification record: unmatched code is free to rewrite
			// its own operand cells, and an unclassified address must
			// behave exactly like raw SUBLEQ on the current memory
			// contents. I/O conditions are checked on the raw operand
			// values before any address masking.
			a := i.Mem[pc]
			b := i.Mem[(pc+1)&addrMask]
			c := i.Mem[(pc+2)&addrMask]
			switch {
			case a == ioCell: // input
				ch, e := i.readByte()
				if e != nil {
					return e
				}
				i.store(b, Cell(ch))
				i.PC = (pc + opAdvance[OpSubleq]) & addrMask
			case b == ioCell: // output
				if e := i.writeByte(byte(i.load(a))); e != nil {
					return e
				}
				i.PC = (pc + opAdvance[OpSubleq]) & addrMask
			default:
				r := i.load(b) - i.load(a)
				i.store(b, r)
				if r == 0 || r&(1<<15) != 0 {
					i.PC = int(c)
				} else {
					i.PC = (pc + opAdvance[OpSubleq]) & addrMask
				}
			}

		case OpJmp:
			// the idiom clears its branch cell on the way out
			i.store(n.Src, 0)
			i.PC = int(n.Dst)

		case OpIJmp:
			i.PC = int(i.load(n.Dst))

		case OpMov:
			i.store(n.Dst, i.load(n.Src))
			i.PC = (pc + opAdvance[OpMov]) & addrMask

		case OpAdd:
			i.store(n.Dst, i.load(n.Dst)+i.load(n.Src))
			i.PC = (pc + opAdvance[OpAdd]) & addrMask

		case OpSub:
			i.store(n.Dst, i.load(n.Dst)-i.load(n.Src))
			i.PC = (pc + opAdvance[OpSub]) & addrMask

		case OpZero:
			i.store(n.Dst, 0)
			i.PC = (pc + opAdvance[OpZero]) & addrMask

		case OpNeg:
			i.store(n.Dst, 0-i.load(n.Src))
			i.PC = (pc + opAdvance[OpNeg]) & addrMask

		case OpInc:
			i.store(n.Dst, i.load(n.Dst)+1)
			i.PC = (pc + opAdvance[OpInc]) & addrMask

		case OpDec:
			i.store(n.Dst, i.load(n.Dst)-1)
			i.PC = (pc + opAdvance[OpDec]) & addrMask

		case OpInv:
			i.store(n.Dst, ^i.load(n.Dst))
			i.PC = (pc + opAdvance[OpInv]) & addrMask

		case OpDouble:
			i.store(n.Dst, i.load(n.Dst)<<1)
			i.PC = (pc + opAdvance[OpDouble]) & addrMask

		case OpLShift:
			// Src is the fused run length, not an address. Each stage
			// spans 9 cells, so the advance is proportional.
			i.store(n.Dst, i.load(n.Dst)<<n.Src)
			i.PC = (pc + opAdvance[OpLShift]*int(n.Src)) & addrMask

		case OpIAdd:
			p := i.load(n.Dst)
			v := i.load(n.Src)
			i.store(p, i.load(p)+v)
			i.PC = (pc + opAdvance[OpIAdd]) & addrMask

		case OpISub:
			p := i.load(n.Dst)
			v := i.load(n.Src)
			i.store(p, i.load(p)-v)
			i.PC = (pc + opAdvance[OpISub]) & addrMask

		case OpILoad:
			if e := i.iload(n.Src, n.Dst); e != nil {
				return e
			}
			i.PC = (pc + opAdvance[OpILoad]) & addrMask

		case OpLdInc:
			p := i.Mem[n.Src]
			if e := i.iload(n.Src, n.Dst); e != nil {
				return e
			}
			i.store(n.Src, p+1)
			i.PC = (pc + opAdvance[OpLdInc]) & addrMask

		case OpIStore:
			v := i.load(n.Src)
			p := i.load(n.Dst)
			i.store(p, v)
			i.PC = (pc + opAdvance[OpIStore]) & addrMask

		case OpPut:
			if e := i.writeByte(byte(i.load(n.Src))); e != nil {
				return e
			}
			i.PC = (pc + opAdvance[OpPut]) & addrMask

		case OpGet:
			ch, e := i.readByte()
			if e != nil {
				return e
			}
			i.store(n.Dst, Cell(ch))
			i.PC = (pc + opAdvance[OpGet]) & addrMask

		case OpHalt:
			i.PC = haltAddr
			return nil
		}
	}
}

// iload implements the indirect load shared by ILOAD and LDINC:
// m[dst] = m[m[src]]. When the pointer holds the I/O sentinel the idiom's
// subtraction path turns the read byte into its two's-complement negation,
// and the fused opcode must reproduce exactly that.
func (i *Instance) iload(src, dst Cell) error {
	p := i.load(src)
	if p == ioCell {
		ch, err := i.readByte()
		if err != nil {
			return err
		}
		i.store(dst, 0-Cell(ch))
		return nil
	}
	i.store(dst, i.load(p))
	return nil
}
