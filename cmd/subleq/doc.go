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

// Command subleq runs a 16-bit SUBLEQ memory image, typically a
// self-hosting eForth system, on the optimizing virtual machine of
// package vm.
//
// Usage:
//
//	subleq [flags] image.dec
//
// The image is a text file of signed decimal integers separated by commas
// and/or whitespace. Execution starts at address 0 with the terminal
// connected to the guest's byte-oriented I/O port. When standard input is
// an interactive terminal it is switched to raw mode for the duration of
// the run (disable with -noraw).
//
// Flags:
//
//	-O      disable the peephole optimizer; every address executes as
//	        raw SUBLEQ
//	-s      print the substitution and execution statistics table to
//	        standard error on termination
//	-p      enable the profiler; prints a summary to standard error and
//	        saves the full report to profiler_report.txt
//	-d      dump the instruction classification to standard output
//	        instead of running
//	-noraw  keep the terminal in canonical mode
//
// The exit status is 0 on a clean halt (including the guest reading end
// of input) and 1 on any error.
package main
