// This file is part of RomSquash.
//
// RomSquash is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RomSquash is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RomSquash.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/manicmole/romsquash/asmfile"
	"github.com/manicmole/romsquash/logger"
	"github.com/manicmole/romsquash/modalflag"
	"github.com/manicmole/romsquash/performance"
	"github.com/manicmole/romsquash/regression"
	"github.com/manicmole/romsquash/rewrite"
	"github.com/manicmole/romsquash/romimage"
	"github.com/manicmole/romsquash/statsview"
	"github.com/manicmole/romsquash/version"

	"github.com/bradleyjkemp/memviz"
	"golang.org/x/term"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when an alternative handler is
	// more appropriate. for example, the regression runner finishes the test
	// in hand before quitting.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args interface{}
}

// communication between the main() function and the launch() function. the
// main thread does nothing except listen for interrupt signals and quit
// requests while the program proper runs in a goroutine.
type mainSync struct {
	state chan stateRequest
}

func main() {
	sync := &mainSync{
		state: make(chan stateRequest),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// #ctrlc default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	// launch program as a go routine. further communication is through
	// the mainSync instance
	go launch(sync)

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

			// an interrupted run has not done its job. exit with an error
			// state so that a calling build system notices
			exitVal = 10

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true

				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Reset(os.Interrupt)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	fmt.Print("\r")
	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// indicate when the program should quit.
func launch(sync *mainSync) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "STRINGS", "REGRESS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		// 10
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)

	case "STRINGS":
		err = dumpStrings(md)

	case "REGRESS":
		err = regress(md, sync)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	dryRun := md.AddBool("dryrun", false, "rewrite in memory but do not touch the assembly file")
	comment := md.AddString("comment", "@", "comment leader used for annotations in the rewritten assembly")
	hash := md.AddString("hash", "", "abort if the ROM image does not match this SHA1 hash")
	profile := md.AddBool("profile", false, "run with profiling")
	stats := md.AddBool("stats", false, "run stats server")
	graph := md.AddString("memviz", "", "write graph of rewrite results to file (graphviz DOT format)")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// set debugging log echo. color only when stdout is a terminal
	if *log {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			logger.SetEcho(logger.NewColorizer(os.Stdout))
		} else {
			logger.SetEcho(os.Stdout)
		}
	} else {
		logger.SetEcho(nil)
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(md.Output)
		} else {
			fmt.Fprintln(md.Output, "! stats server not available. rebuild with the statsview build tag")
		}
	}

	switch len(md.RemainingArgs()) {
	case 3:
		base, err := romimage.ParseAddress(md.GetArg(0))
		if err != nil {
			return err
		}

		ld := romimage.NewLoader(md.GetArg(1))
		ld.Hash = *hash

		if err := ld.Load(); err != nil {
			return err
		}

		asm, err := asmfile.Load(md.GetArg(2))
		if err != nil {
			return err
		}

		table := romimage.NewStringTable(ld.Data, base)

		rwr := rewrite.NewRewriter(table)
		rwr.CommentLeader = *comment

		var res *rewrite.Result

		squash := func() error {
			var err error
			res, err = rwr.Rewrite(asm.Lines)
			return err
		}

		if *profile {
			err = performance.ProfileCPU("squash.cpu.profile", squash)
			if err == nil {
				err = performance.ProfileMem("squash.mem.profile")
			}
		} else {
			err = squash()
		}

		if err != nil {
			return err
		}

		if *graph != "" {
			b := &bytes.Buffer{}
			memviz.Map(b, res)
			if err := os.WriteFile(*graph, b.Bytes(), 0644); err != nil {
				return err
			}
		}

		if *dryRun {
			fmt.Fprintln(md.Output, "! dry run: assembly file not changed")
		} else if err := asm.Commit(res.Buffer); err != nil {
			return err
		}

		fmt.Fprintf(md.Output, "%d strings squashed (%d literals, %d function names), %d left in place, %d references patched\n",
			res.LiteralsSquashed+res.FunctionsSquashed, res.LiteralsSquashed, res.FunctionsSquashed,
			res.Unmatched, res.ReferencesPatched)

		if res.PuntedSections > 0 {
			fmt.Fprintf(md.Output, "! %d rodata sections left alone because of section anchors\n", res.PuntedSections)
		}

	default:
		return fmt.Errorf("base address, ROM image and assembly file required for %s mode", md)
	}

	return nil
}

func dumpStrings(md *modalflag.Modes) error {
	md.NewMode()

	hash := md.AddString("hash", "", "abort if the ROM image does not match this SHA1 hash")
	all := md.AddBool("all", false, "include strings with unprintable characters")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 2:
		base, err := romimage.ParseAddress(md.GetArg(0))
		if err != nil {
			return err
		}

		ld := romimage.NewLoader(md.GetArg(1))
		ld.Hash = *hash

		if err := ld.Load(); err != nil {
			return err
		}

		table := romimage.NewStringTable(ld.Data, base)
		table.List(md.Output, *all)

	default:
		return fmt.Errorf("base address and ROM image required for %s mode", md)
	}

	return nil
}

type yesReader struct{}

func (*yesReader) Read(p []byte) (n int, err error) {
	p[0] = 'y'
	return 1, nil
}

func regress(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()
	md.AddSubModes("RUN", "LIST", "DELETE", "ADD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "RUN":
		md.NewMode()

		verbose := md.AddBool("verbose", false, "output more detail (eg. error messages)")
		failOnError := md.AddBool("fail", false, "stop when a test fails because of an error")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		// turn off default sigint handling
		sync.state <- stateRequest{req: reqNoIntSig}

		err = regression.RegressRunTests(md.Output, *verbose, *failOnError, md.RemainingArgs())
		if err != nil {
			return err
		}

	case "LIST":
		md.NewMode()

		// no additional arguments

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			err := regression.RegressList(md.Output)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("no additional arguments required for %s mode", md)
		}

	case "DELETE":
		md.NewMode()

		answerYes := md.AddBool("yes", false, "answer yes to confirmation")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return fmt.Errorf("database key required for %s mode", md)
		case 1:

			// use stdin for confirmation unless "yes" flag has been sent
			var confirmation io.Reader
			if *answerYes {
				confirmation = &yesReader{}
			} else {
				confirmation = os.Stdin
			}

			err := regression.RegressDelete(md.Output, confirmation, md.GetArg(0))
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("only one entry can be deleted at at time")
		}

	case "ADD":
		return regressAdd(md)
	}

	return nil
}

func regressAdd(md *modalflag.Modes) error {
	md.NewMode()

	notes := md.AddString("notes", "", "additional annotation for the database")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	md.AdditionalHelp(
		`A regression test is added by naming the same three arguments used when squashing:
the ROM base address, the ROM image and the assembly file. The rewrite runs in
memory only and a digest of the result is recorded in the database. Running the
test repeats the rewrite and compares digests. The assembly file on disk is
never changed by a regression test.

The -log flag instructs the program to echo the log to the console. Note that
asking for log output will suppress regression progress meters.`)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// set debugging log echo
	if *log {
		logger.SetEcho(os.Stdout)
		md.Output = &nopWriter{}
	} else {
		logger.SetEcho(nil)
	}

	switch len(md.RemainingArgs()) {
	case 3:
		reg := &regression.SquashRegression{
			Base:  md.GetArg(0),
			ROM:   md.GetArg(1),
			ASM:   md.GetArg(2),
			Notes: *notes,
		}

		err := regression.RegressAdd(md.Output, reg)
		if err != nil {
			// using carriage return (without newline) at beginning of error
			// message because we want to overwrite the last output from
			// RegressAdd()
			return fmt.Errorf("\rerror adding regression test: %v", err)
		}
	default:
		return fmt.Errorf("base address, ROM image and assembly file required for %s mode", md)
	}

	return nil
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("v", false, "display revision information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		ver, rev, _ := version.Version()
		fmt.Fprintf(md.Output, "%s %s\n", version.ApplicationName, ver)
		if *revision {
			fmt.Fprintln(md.Output, rev)
		}
	default:
		return fmt.Errorf("no additional arguments required for %s mode", md)
	}

	return nil
}

// nopWriter is an empty writer.
type nopWriter struct{}

func (*nopWriter) Write(p []byte) (n int, err error) {
	return 0, nil
}
