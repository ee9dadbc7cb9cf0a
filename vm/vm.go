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

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

// Cell is the raw type stored in a memory location. All arithmetic wraps
// modulo 2^16; the SUBLEQ branch predicate reads the top bit as the sign.
type Cell uint16

const (
	// MemSize is the number of addressable cells.
	MemSize = 1 << 16

	addrMask = MemSize - 1

	// ioCell is the operand value that addresses the I/O port instead of
	// memory in a raw SUBLEQ instruction.
	ioCell = Cell(MemSize - 1)

	// haltAddr is the first address outside the valid program range. The
	// eForth image relies on jumps at or above half the memory size
	// terminating the machine.
	haltAddr = MemSize / 2
)

// Instance represents a SUBLEQ VM instance.
type Instance struct {
	PC  int    // Program counter
	Mem []Cell // Cell memory, always MemSize cells

	insn     []Insn // per-address extended instruction, always MemSize records
	loadSize int
	optimize bool

	in        io.ByteReader
	out       io.Writer
	flushEach bool

	matches   [opCount]int
	execCount [opCount]int64
	insCount  int64

	prof       *profile
	start, end time.Time
}

// Option interface
type Option func(*Instance) error

// Input sets the guest input stream. Readers that do not implement
// io.ByteReader are wrapped so that each guest read issues a single
// one-byte Read, which on an interactive terminal blocks until a byte is
// available. A nil input yields EOF on the first read.
func Input(r io.Reader) Option {
	return func(i *Instance) error {
		i.in = newByteReader(r)
		return nil
	}
}

// Output sets the guest output stream. A nil output discards bytes.
func Output(w io.Writer) Option {
	return func(i *Instance) error {
		i.out = w
		return nil
	}
}

// Flush enables flushing the output stream after every byte written by the
// guest. Enable it when the output is an interactive terminal; it has no
// effect if the output writer has no Flush method.
func Flush(on bool) Option {
	return func(i *Instance) error {
		i.flushEach = on
		return nil
	}
}

// Optimize enables or disables the peephole pass. It is enabled by
// default; with it disabled every address executes as raw SUBLEQ.
func Optimize(on bool) Option {
	return func(i *Instance) error {
		i.optimize = on
		return nil
	}
}

// Profile enables the execution profiler: a per-address heat map and a
// memory access counter, reported by WriteProfile and WriteProfileReport.
func Profile(on bool) Option {
	return func(i *Instance) error {
		if on && i.prof == nil {
			i.prof = &profile{heat: make([]int64, MemSize)}
		} else if !on {
			i.prof = nil
		}
		return nil
	}
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new SUBLEQ VM instance with the given memory image loaded
// at address 0. The image must fit in memory. Once the options are applied,
// the peephole pass classifies the loaded region; the classification is
// final, execution never re-runs it.
func New(img Image, opts ...Option) (*Instance, error) {
	if len(img) > MemSize {
		return nil, errors.Errorf("image too large: %d cells", len(img))
	}
	i := &Instance{
		Mem:      make([]Cell, MemSize),
		insn:     make([]Insn, MemSize),
		loadSize: len(img),
		optimize: true,
	}
	copy(i.Mem, img)
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	if i.optimize {
		i.classify()
	} else {
		i.prime()
	}
	return i, nil
}

// InsnAt returns the extended instruction classified at address pc.
func (i *Instance) InsnAt(pc int) Insn {
	return i.insn[pc&addrMask]
}

// LoadSize returns the number of cells read from the image file.
func (i *Instance) LoadSize() int {
	return i.loadSize
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}
