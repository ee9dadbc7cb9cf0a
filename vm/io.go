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

	"github.com/pkg/errors"
)

type flusher interface {
	Flush() error
}

// byteReaderWrapper turns a plain io.Reader into an io.ByteReader issuing
// one-byte reads. On an interactive terminal each guest read maps to a
// single blocking read(2); the runtime retries interrupted system calls.
type byteReaderWrapper struct {
	io.Reader
}

func (r *byteReaderWrapper) ReadByte() (byte, error) {
	var b [1]byte
	for {
		n, err := r.Reader.Read(b[:])
		if n > 0 {
			return b[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// newByteReader returns r if it already implements io.ByteReader, or wraps
// it up into a byteReaderWrapper.
func newByteReader(r io.Reader) io.ByteReader {
	switch br := r.(type) {
	case nil:
		return nil
	case io.ByteReader:
		return br
	default:
		return &byteReaderWrapper{r}
	}
}

// readByte reads one byte from the guest input stream. End of input is
// reported as a bare io.EOF: closing the input is how the host asks the
// guest to stop, and callers treat it as a normal termination.
func (i *Instance) readByte() (byte, error) {
	if i.in == nil {
		return 0, io.EOF
	}
	b, err := i.in.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, errors.Wrap(err, "input failed")
	}
	return b, nil
}

// writeByte writes one byte to the guest output stream, flushing it when
// the instance is configured for interactive output.
func (i *Instance) writeByte(b byte) error {
	if i.out == nil {
		return nil
	}
	if _, err := i.out.Write([]byte{b}); err != nil {
		return errors.Wrap(err, "output failed")
	}
	if i.flushEach {
		if f, ok := i.out.(flusher); ok {
			if err := f.Flush(); err != nil {
				return errors.Wrap(err, "output flush failed")
			}
		}
	}
	return nil
}
