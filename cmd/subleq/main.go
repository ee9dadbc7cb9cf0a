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
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/jserv/subleq/vm"
)

const profileReportFile = "profiler_report.txt"

var (
	noOpt    = flag.Bool("O", false, "disable the peephole optimizer")
	stats    = flag.Bool("s", false, "print end-of-run statistics")
	profiler = flag.Bool("p", false, "enable the execution profiler")
	dump     = flag.Bool("d", false, "dump the instruction classification and exit")
	noRawIO  = flag.Bool("noraw", false, "disable raw terminal input")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <subleq.dec>\n", os.Args[0])
	flag.PrintDefaults()
}

func atExit(i *vm.Instance, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "\n%v\n", err)
	if i != nil {
		fmt.Fprintf(os.Stderr, "PC: %v (%v)\n", i.PC, i.InsnAt(i.PC).Op)
	}
	os.Exit(1)
}

func saveProfileReport(i *vm.Instance) error {
	f, err := os.Create(profileReportFile)
	if err != nil {
		return err
	}
	if err = i.WriteProfileReport(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	var err error
	var i *vm.Instance

	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	for _, extra := range args[1:] {
		fmt.Fprintf(os.Stderr, "Warning: Ignoring extra argument '%s'\n", extra)
	}

	stdout := bufio.NewWriter(os.Stdout)

	// flush output, catch and log errors
	defer func() {
		stdout.Flush()
		atExit(i, err)
	}()

	img, err := vm.Load(args[0])
	if err != nil {
		return
	}

	inTTY := term.IsTerminal(int(os.Stdin.Fd()))
	outTTY := term.IsTerminal(int(os.Stdout.Fd()))

	if inTTY && !*noRawIO {
		tearDown, e := setRawIO()
		if e == nil {
			defer tearDown()
		}
	}

	var input io.Reader = os.Stdin
	if !inTTY {
		// files and pipes can be read ahead freely
		input = bufio.NewReader(os.Stdin)
	}

	opts := []vm.Option{
		vm.Input(input),
		vm.Output(stdout),
		vm.Flush(outTTY),
		vm.Optimize(!*noOpt),
		vm.Profile(*profiler),
	}
	if *noOpt {
		fmt.Fprintln(os.Stderr, "Optimizations disabled. Running as basic interpreter.")
	}

	i, err = vm.New(img, opts...)
	if err != nil {
		return
	}

	if *dump {
		err = dumpInsn(i, i.LoadSize(), os.Stdout)
		return
	}

	if err = i.Run(); err == io.EOF {
		// the host closed the guest's input: a normal termination
		err = nil
	}

	stdout.Flush()
	if *stats {
		if err == nil {
			err = i.WriteStats(os.Stderr)
		}
	}
	if *profiler && err == nil {
		if err = i.WriteProfile(os.Stderr); err == nil {
			if err = saveProfileReport(i); err == nil {
				fmt.Fprintf(os.Stderr, "\nDetailed profiler report saved to: %s\n", profileReportFile)
			}
		}
	}
}
