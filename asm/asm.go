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

// Package asm implements a minimal assembler for SUBLEQ images. There are
// no mnemonics: every token assembles to exactly one cell, and code is
// written as bare operand triples. Labels make the self-referential idiom
// sequences of the cross compiler writable by hand, which is what the
// package tests are built from.
//
// Syntax:
//
//	123 -7      a signed decimal integer, one cell
//	:name       defines label name at the current address
//	name        a label reference, resolved to its address
//	?           the address of the next cell, i.e. the fall-through
//	            branch target of a linear SUBLEQ instruction
//	\ ...       comment to end of line
//	( ... )     inline comment
package asm

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jserv/subleq/vm"
)

type labelUse struct {
	addr int
	line int
}

type parser struct {
	name   string
	img    vm.Image
	labels map[string]int
	uses   map[string][]labelUse
}

func (p *parser) errorf(line int, format string, args ...interface{}) error {
	return errors.Errorf("%s:%d: "+format, append([]interface{}{p.name, line}, args...)...)
}

func (p *parser) token(tok string, line int) error {
	switch {
	case tok == "?":
		p.img = append(p.img, vm.Cell(len(p.img)+1))
	case strings.HasPrefix(tok, ":"):
		name := tok[1:]
		if name == "" {
			return p.errorf(line, "empty label definition")
		}
		if _, ok := p.labels[name]; ok {
			return p.errorf(line, "duplicate label %s", name)
		}
		p.labels[name] = len(p.img)
	default:
		if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
			if v < -32768 || v > 32767 {
				return p.errorf(line, "value %d exceeds 16-bit signed limit", v)
			}
			p.img = append(p.img, vm.Cell(uint16(int16(v))))
			break
		}
		p.uses[tok] = append(p.uses[tok], labelUse{addr: len(p.img), line: line})
		p.img = append(p.img, 0)
	}
	return nil
}

// Assemble compiles assembly read from the supplied io.Reader and returns
// the resulting image and error if any.
//
// The name parameter is used only in error messages to name the source of
// the error. If the io.Reader is a file, name should be the file name.
func Assemble(name string, r io.Reader) (vm.Image, error) {
	p := &parser{
		name:   name,
		labels: make(map[string]int),
		uses:   make(map[string][]labelUse),
	}

	s := bufio.NewScanner(r)
	line := 0
	comment := false
	for s.Scan() {
		line++
		for _, tok := range strings.Fields(s.Text()) {
			if comment {
				if tok == ")" {
					comment = false
				}
				continue
			}
			if tok == "(" {
				comment = true
				continue
			}
			if strings.HasPrefix(tok, `\`) {
				break
			}
			if err := p.token(tok, line); err != nil {
				return nil, err
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	if comment {
		return nil, p.errorf(line, "unterminated comment")
	}

	for name, uses := range p.uses {
		addr, ok := p.labels[name]
		if !ok {
			return nil, p.errorf(uses[0].line, "undefined label %s", name)
		}
		for _, u := range uses {
			p.img[u.addr] = vm.Cell(addr)
		}
	}
	return p.img, nil
}
