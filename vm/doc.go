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

// Package vm implements a 16-bit SUBLEQ virtual machine.
//
// SUBLEQ is a one-instruction-set computer: every instruction subtracts the
// cell at address a from the cell at address b, stores the result at b, and
// branches to c when the result is less than or equal to zero. An operand
// equal to 0xFFFF addresses the I/O port instead of memory. Images produced
// by the eForth cross compiler run interactively on this machine.
//
// Interpreting raw SUBLEQ is far too slow for interactive use: a single
// Forth primitive expands into dozens of three-word instructions. The VM
// therefore runs a one-time peephole pass over the loaded image that
// recognizes the instruction sequences the cross compiler emits and fuses
// each of them into a single extended opcode with a fixed program-counter
// advance. Addresses not covered by any pattern execute as plain SUBLEQ, so
// running with the optimizer disabled is always a valid reference for the
// optimized run.
//
// The dispatch loop is a flat switch that never grows the stack, whatever
// the instruction count. Guest I/O is two byte streams configured with the
// Input and Output options.
package vm
