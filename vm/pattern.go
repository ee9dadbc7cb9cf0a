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

// The peephole pass describes each fusable SUBLEQ sequence with a compact
// pattern string evaluated over a memory window starting at a base address.
// Every non-whitespace symbol consumes one memory word:
//
//	'0'-'9'  capture slot: first occurrence binds the word, later
//	         occurrences must match the bound value
//	'Z'      word must be 0
//	'N'      word must be 0xFFFF (the I/O port address)
//	'>'      word must equal base+offset+1, the fall-through jump target
//	'%'      word must equal the next Cell argument
//	'!'      word is stored through the next *Cell argument, never fails
//	'?'      wildcard
//	'P'      word must be non-zero with the top bit clear
//	'M'      word must be a memory address or the I/O port
//	'R'      word must match the slot named by the next int argument
//
// Whitespace only groups symbols into instruction triples for readability.

// matcher holds the capture slots shared by all match attempts. Slots are
// invalidated in O(1) by bumping the version counter: a slot is bound in
// the current attempt iff its recorded version matches.
type matcher struct {
	vars    [10]Cell
	bound   [10]uint32
	version uint32
}

// match evaluates pattern over mem starting at pc, scanning at most maxLen
// words. Arguments are consumed in pattern order by the '%', '!' and 'R'
// symbols. On success the capture slots remain valid until the next call.
func (m *matcher) match(mem []Cell, pc, maxLen int, pattern string, args ...interface{}) bool {
	version := m.version + 1
	m.version = version
	if maxLen <= 0 {
		return false
	}
	offset := 0
	for k := 0; k < len(pattern); k++ {
		sym := pattern[k]
		if sym == ' ' || sym == '\t' {
			continue
		}
		if offset >= maxLen {
			return false
		}
		val := mem[(pc+offset)&addrMask]
		switch {
		case sym >= '0' && sym <= '9':
			idx := sym - '0'
			if m.bound[idx] == version {
				if m.vars[idx] != val {
					return false
				}
			} else {
				m.bound[idx] = version
				m.vars[idx] = val
			}
		case sym == 'Z':
			if val != 0 {
				return false
			}
		case sym == 'N':
			if val != ioCell {
				return false
			}
		case sym == '>':
			if val != Cell(pc+offset+1) {
				return false
			}
		case sym == '%':
			want := args[0].(Cell)
			args = args[1:]
			if val != want {
				return false
			}
		case sym == '!':
			if p := args[0].(*Cell); p != nil {
				*p = val
			}
			args = args[1:]
		case sym == '?':
			// wildcard
		case sym == 'P':
			if val == 0 || val&(1<<15) != 0 {
				return false
			}
		case sym == 'M':
			if int(val) >= MemSize && val != ioCell {
				return false
			}
		case sym == 'R':
			idx := args[0].(int)
			args = args[1:]
			if idx < 0 || idx > 9 || m.bound[idx] != version || m.vars[idx] != val {
				return false
			}
		default:
			return false
		}
		offset++
	}
	return true
}

// slot returns the value captured in the numbered slot by the last match.
// Unbound slots read as 0xFFFF.
func (m *matcher) slot(idx int) Cell {
	if idx < 0 || idx > 9 || m.bound[idx] != m.version {
		return ioCell
	}
	return m.vars[idx]
}
