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

package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jserv/subleq/vm"
)

// dumpInsn writes the extended instruction classified at every loaded
// address to w, one line per address.
func dumpInsn(i *vm.Instance, size int, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for pc := 0; pc < size; pc++ {
		n := i.InsnAt(pc)
		if _, err := fmt.Fprintf(bw, "%5d\t%-6s %5d %5d %5d\n",
			pc, n.Op, n.Src, n.Dst, n.Aux); err != nil {
			return err
		}
	}
	return bw.Flush()
}
