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
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Image is the initial contents of memory as produced by the cross
// compiler: a flat sequence of cells loaded from address 0 upward.
type Image []Cell

// Load loads an image from the text file fileName.
func Load(fileName string) (Image, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer f.Close()
	img, err := ReadImage(f)
	return img, errors.Wrap(err, fileName)
}

func isImageSep(b byte) bool {
	switch b {
	case ',', ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ReadImage reads an image in the cross compiler's text format: signed
// decimal integers in -32768..32767 separated by commas and/or whitespace,
// terminated by end of input. Negative values are stored in two's
// complement. Any other byte, an out-of-range value or an image larger
// than memory is an error.
func ReadImage(r io.Reader) (Image, error) {
	var (
		img Image
		tok []byte
		pos int
	)
	br := bufio.NewReader(r)
	flush := func() error {
		if len(tok) == 0 {
			return nil
		}
		v, err := strconv.ParseInt(string(tok), 10, 64)
		if err != nil {
			return errors.Errorf("invalid integer %q at position %d", tok, pos)
		}
		if v < -32768 || v > 32767 {
			return errors.Errorf("value %d at position %d exceeds 16-bit signed limit", v, pos)
		}
		if len(img) >= MemSize {
			return errors.Errorf("image exceeds %d cells", MemSize)
		}
		img = append(img, Cell(uint16(int16(v))))
		tok = tok[:0]
		pos++
		return nil
	}
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			if e := flush(); e != nil {
				return nil, e
			}
			return img, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "read failed")
		}
		switch {
		case isImageSep(b):
			if e := flush(); e != nil {
				return nil, e
			}
		case b == '-' && len(tok) == 0, b >= '0' && b <= '9':
			tok = append(tok, b)
		default:
			return nil, errors.Errorf("invalid byte %q at position %d (expected digit, comma or whitespace)", b, pos)
		}
	}
}
