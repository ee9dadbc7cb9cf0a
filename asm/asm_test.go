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

package asm_test

import (
	"strings"
	"testing"

	"github.com/jserv/subleq/asm"
	"github.com/jserv/subleq/vm"
)

func assemble(t *testing.T, code string) vm.Image {
	t.Helper()
	img, err := asm.Assemble("test", strings.NewReader(code))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []vm.Cell
	}{
		{"integers", "1 -2 32767 -32768", []vm.Cell{1, 0xFFFE, 32767, 0x8000}},
		{"label-back", ":l 5 l", []vm.Cell{5, 0}},
		{"label-forward", "end 7 :end 9", []vm.Cell{2, 7, 9}},
		{"next-address", "? ? ?", []vm.Cell{1, 2, 3}},
		{"line-comment", "1 \\ 2 3\n4", []vm.Cell{1, 4}},
		{"inline-comment", "1 ( skip these ) 2", []vm.Cell{1, 2}},
		{"triple", ":Z 0 Z halt :halt 0 0 -1", []vm.Cell{0, 0, 3, 0, 0, 0xFFFF}},
	}
	for _, test := range tests {
		img := assemble(t, test.code)
		if len(img) != len(test.want) {
			t.Errorf("%s: got %d cells, expected %d", test.name, len(img), len(test.want))
			continue
		}
		for k := range test.want {
			if img[k] != test.want[k] {
				t.Errorf("%s: cell %d = %d, expected %d", test.name, k, img[k], test.want[k])
			}
		}
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"undefined", "1 2 nowhere"},
		{"duplicate", ":l 1 :l 2"},
		{"empty-label", ": 1"},
		{"range", "40000"},
		{"unterminated-comment", "1 ( 2"},
	}
	for _, test := range tests {
		if _, err := asm.Assemble(test.name, strings.NewReader(test.code)); err == nil {
			t.Errorf("%s: expected an error", test.name)
		} else if !strings.HasPrefix(err.Error(), test.name+":") {
			t.Errorf("%s: error %q does not name the source", test.name, err)
		}
	}
}
