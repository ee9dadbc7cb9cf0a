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

import "testing"

func TestMatchCapture(t *testing.T) {
	m := &matcher{}
	mem := []Cell{7, 7, 3, 7, 9, 5}

	if !m.match(mem, 0, len(mem), "00>0") {
		t.Fatal("expected match")
	}
	if got := m.slot(0); got != 7 {
		t.Errorf("slot 0 = %d, expected 7", got)
	}

	// second occurrence must equal the bound value
	if m.match(mem, 0, len(mem), "0?00") {
		t.Error("matched although slot 0 mismatches at offset 2")
	}

	// unbound slots read as 0xFFFF
	if got := m.slot(5); got != 0xFFFF {
		t.Errorf("unbound slot = %d, expected 0xFFFF", got)
	}
}

func TestMatchVersionInvalidation(t *testing.T) {
	m := &matcher{}
	mem := []Cell{3, 4}

	if !m.match(mem, 0, len(mem), "0") {
		t.Fatal("expected match")
	}
	if got := m.slot(0); got != 3 {
		t.Fatalf("slot 0 = %d, expected 3", got)
	}
	// a new attempt invalidates all previous bindings
	if !m.match(mem, 1, 1, "1") {
		t.Fatal("expected match")
	}
	if got := m.slot(0); got != 0xFFFF {
		t.Errorf("stale slot 0 = %d, expected 0xFFFF", got)
	}
	if got := m.slot(1); got != 4 {
		t.Errorf("slot 1 = %d, expected 4", got)
	}
}

func TestMatchSymbols(t *testing.T) {
	var cap1, cap2 Cell
	tests := []struct {
		name    string
		mem     []Cell
		pc      int
		pattern string
		args    []interface{}
		want    bool
	}{
		{"zero", []Cell{0, 1}, 0, "Z", nil, true},
		{"zero-fail", []Cell{2}, 0, "Z", nil, false},
		{"negone", []Cell{0xFFFF}, 0, "N", nil, true},
		{"negone-fail", []Cell{0xFFFE}, 0, "N", nil, false},
		{"next", []Cell{0, 2, 0}, 0, "?>", nil, true},
		{"next-fail", []Cell{0, 3, 0}, 0, "?>", nil, false},
		{"next-base-relative", []Cell{9, 9, 3, 9}, 1, "?>", nil, true},
		{"const", []Cell{100}, 0, "%", []interface{}{Cell(100)}, true},
		{"const-fail", []Cell{99}, 0, "%", []interface{}{Cell(100)}, false},
		{"wildcard", []Cell{0xABCD, 0, 1}, 0, "???", nil, true},
		{"positive", []Cell{1}, 0, "P", nil, true},
		{"positive-zero", []Cell{0}, 0, "P", nil, false},
		{"positive-msb", []Cell{0x8000}, 0, "P", nil, false},
		{"addr", []Cell{1234}, 0, "M", nil, true},
		{"addr-io", []Cell{0xFFFF}, 0, "M", nil, true},
		{"ref", []Cell{42, 42}, 0, "0R", []interface{}{0}, true},
		{"ref-fail", []Cell{42, 43}, 0, "0R", []interface{}{0}, false},
		{"ref-unbound", []Cell{42}, 0, "R", []interface{}{3}, false},
		{"whitespace", []Cell{5, 0, 3}, 0, " 0 Z > ", nil, true},
		{"window", []Cell{0, 0, 0}, 0, "ZZZZ", nil, false},
		{"capture", []Cell{11, 22}, 0, "!!", []interface{}{&cap1, &cap2}, true},
	}
	for _, test := range tests {
		m := &matcher{}
		maxLen := len(test.mem) - test.pc
		if got := m.match(test.mem, test.pc, maxLen, test.pattern, test.args...); got != test.want {
			t.Errorf("%s: match = %v, expected %v", test.name, got, test.want)
		}
	}
	if cap1 != 11 || cap2 != 22 {
		t.Errorf("captured (%d, %d), expected (11, 22)", cap1, cap2)
	}
}

func TestMatchWindowBound(t *testing.T) {
	m := &matcher{}
	mem := make([]Cell, 8)
	if m.match(mem, 0, 0, "Z") {
		t.Error("matched with an empty window")
	}
	if !m.match(mem, 0, 3, "ZZZ") {
		t.Error("expected match within window")
	}
	if m.match(mem, 0, 3, "ZZZZ") {
		t.Error("matched past the window")
	}
}
