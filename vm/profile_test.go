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

package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jserv/subleq/vm"
)

// a loop hot enough to show up in the profiler: count a cell down from
// 300 to zero, then halt.
const loopSrc = `
:Z 0 Z main
:one 1
:n 300
:main
:loop one n done
Z Z loop
:done 0 0 -1
`

func TestWriteStats(t *testing.T) {
	img := mustAssemble(t, loopSrc)
	i, _, err := runImage(t, img, "", true)
	if err != nil {
		t.Fatal(err)
	}

	var b bytes.Buffer
	if err = i.WriteStats(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"SUBLEQ", "JMP", "Totals", "Execution time"} {
		if !strings.Contains(out, want) {
			t.Errorf("statistics output misses %q:\n%s", want, out)
		}
	}
}

func TestWriteProfile(t *testing.T) {
	img := mustAssemble(t, loopSrc)
	var out bytes.Buffer
	i, err := vm.New(img, vm.Output(&out), vm.Profile(true))
	if err != nil {
		t.Fatal(err)
	}
	if err = i.Run(); err != nil {
		t.Fatal(err)
	}

	var b bytes.Buffer
	if err = i.WriteProfile(&b); err != nil {
		t.Fatal(err)
	}
	s := b.String()
	for _, want := range []string{"Total instructions executed", "Memory accesses", "Hot Spots"} {
		if !strings.Contains(s, want) {
			t.Errorf("profiler output misses %q:\n%s", want, s)
		}
	}

	b.Reset()
	if err = i.WriteProfileReport(&b); err != nil {
		t.Fatal(err)
	}
	s = b.String()
	for _, want := range []string{"Instruction Mix", "JMP", "Hot Spots"} {
		if !strings.Contains(s, want) {
			t.Errorf("profiler report misses %q:\n%s", want, s)
		}
	}
}

func TestProfileDisabledWritesNothing(t *testing.T) {
	i, _, err := runImage(t, vm.Image{0, 0, 0xFFFF}, "", true)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err = i.WriteProfile(&b); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 {
		t.Errorf("profiler wrote %q although disabled", b.String())
	}
}
