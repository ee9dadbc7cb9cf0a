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
	"fmt"
	"io"
	"sort"
)

const (
	maxHotSpots  = 64
	hotSpotFloor = 100 // minimum exec count for an address to be tracked
)

// profile is the opt-in execution profiler: a per-address execution heat
// map and a counter bumped on every cell read or write inside the
// dispatch handlers.
type profile struct {
	heat        []int64
	memAccesses int64
}

type hotSpot struct {
	pc    int
	count int64
	op    Opcode
}

// hotSpots returns up to maxHotSpots addresses whose execution count
// exceeds hotSpotFloor, sorted by descending count.
func (i *Instance) hotSpots() []hotSpot {
	if i.prof == nil {
		return nil
	}
	var spots []hotSpot
	for pc, c := range i.prof.heat {
		if c > hotSpotFloor {
			spots = append(spots, hotSpot{pc: pc, count: c, op: i.insn[pc].Op})
		}
	}
	sort.Slice(spots, func(a, b int) bool { return spots[a].count > spots[b].count })
	if len(spots) > maxHotSpots {
		spots = spots[:maxHotSpots]
	}
	return spots
}

func (i *Instance) elapsed() float64 {
	return i.end.Sub(i.start).Seconds()
}

func (i *Instance) totals() (ops, substitutions int64) {
	for op := Opcode(0); op < opCount; op++ {
		ops += i.execCount[op]
		if op != OpSubleq {
			substitutions += int64(i.matches[op])
		}
	}
	return ops, substitutions
}

type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.err = err
	}
	return n, err
}

// WriteStats writes the end-of-run statistics table to w: per-opcode
// substitution counts, dynamic execution counts and their share of the
// total, followed by totals and the elapsed wall-clock time.
func (i *Instance) WriteStats(w io.Writer) error {
	ew := &errWriter{w: w}
	totalOps, totalSubs := i.totals()
	pct := func(c int64) float64 {
		if totalOps == 0 {
			return 0
		}
		return 100 * float64(c) / float64(totalOps)
	}

	const div = "+--------+---------------+--------------+----------+\n"
	io.WriteString(ew, div)
	io.WriteString(ew, "| Instr. | Substitutions | Instr. count | Instr. % |\n")
	io.WriteString(ew, div)
	fmt.Fprintf(ew, "| SUBLEQ | %13d | %12d | %7.1f%% |\n",
		i.matches[OpSubleq], i.execCount[OpSubleq], pct(i.execCount[OpSubleq]))
	for op := OpSubleq + 1; op < opCount; op++ {
		if i.matches[op] == 0 && i.execCount[op] == 0 {
			continue
		}
		fmt.Fprintf(ew, "| %-6s | %13d | %12d | %7.1f%% |\n",
			op, i.matches[op], i.execCount[op], pct(i.execCount[op]))
	}
	io.WriteString(ew, div)
	fmt.Fprintf(ew, "| Totals | %13d | %12d |          |\n", totalSubs, totalOps)
	io.WriteString(ew, div)
	fmt.Fprintf(ew, "|         Execution time %.3f seconds             |\n", i.elapsed())
	io.WriteString(ew, div)
	return ew.err
}

// WriteProfile writes the interactive profiler summary to w: instruction
// and memory access totals, throughput, and the ten hottest addresses.
func (i *Instance) WriteProfile(w io.Writer) error {
	if i.prof == nil {
		return nil
	}
	ew := &errWriter{w: w}
	elapsed := i.elapsed()

	io.WriteString(ew, "\n=== Lightweight Profiler Report ===\n")
	fmt.Fprintf(ew, "Total instructions executed: %d\n", i.insCount)
	fmt.Fprintf(ew, "Memory accesses: %d\n", i.prof.memAccesses)
	ips := 0.0
	if elapsed > 0 {
		ips = float64(i.insCount) / elapsed
	}
	fmt.Fprintf(ew, "Instructions per second: %.0f\n", ips)
	if i.insCount > 0 {
		fmt.Fprintf(ew, "Memory accesses per instruction: %.2f\n",
			float64(i.prof.memAccesses)/float64(i.insCount))
	}

	spots := i.hotSpots()
	if len(spots) > 0 {
		top := len(spots)
		if top > 10 {
			top = 10
		}
		fmt.Fprintf(ew, "\nTop %d Hot Spots:\n", top)
		io.WriteString(ew, "    PC   | Exec Count |   %   | Opcode\n")
		io.WriteString(ew, "---------|------------|-------|-------\n")
		for _, s := range spots[:top] {
			fmt.Fprintf(ew, " %6d  | %10d | %5.1f | %-6s\n",
				s.pc, s.count, i.heatPct(s.count), s.op)
		}
	}
	return ew.err
}

// WriteProfileReport writes the full plain-text profiler report to w: the
// complete instruction mix and every tracked hot spot. The CLI saves it as
// profiler_report.txt.
func (i *Instance) WriteProfileReport(w io.Writer) error {
	if i.prof == nil {
		return nil
	}
	ew := &errWriter{w: w}
	elapsed := i.elapsed()
	totalOps, _ := i.totals()

	io.WriteString(ew, "SUBLEQ VM Lightweight Profiler Report\n")
	io.WriteString(ew, "=====================================\n")
	fmt.Fprintf(ew, "Execution time: %.3f seconds\n", elapsed)
	fmt.Fprintf(ew, "Total instructions: %d\n", i.insCount)
	fmt.Fprintf(ew, "Memory accesses: %d\n", i.prof.memAccesses)
	ips := 0.0
	if elapsed > 0 {
		ips = float64(i.insCount) / elapsed
	}
	fmt.Fprintf(ew, "Instructions per second: %.0f\n", ips)

	io.WriteString(ew, "\nInstruction Mix:\n")
	for op := Opcode(0); op < opCount; op++ {
		if i.execCount[op] == 0 {
			continue
		}
		share := 0.0
		if totalOps > 0 {
			share = 100 * float64(i.execCount[op]) / float64(totalOps)
		}
		fmt.Fprintf(ew, "  %-8s: %12d (%6.2f%%)\n", op, i.execCount[op], share)
	}

	if spots := i.hotSpots(); len(spots) > 0 {
		io.WriteString(ew, "\nHot Spots (PC addresses with highest execution counts):\n")
		for _, s := range spots {
			fmt.Fprintf(ew, "  PC %6d: %10d executions (%5.1f%%) [%s]\n",
				s.pc, s.count, i.heatPct(s.count), s.op)
		}
	}
	return ew.err
}

func (i *Instance) heatPct(count int64) float64 {
	if i.insCount == 0 {
		return 0
	}
	return 100 * float64(count) / float64(i.insCount)
}
