// Copyright 2021 mamezou-tech. All rights reserved.

package sampleclient

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/awcullen/opcua/ua"
	"github.com/google/shlex"
	"github.com/mamezou-tech/opcua-sample/nodeids"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

const replHelp = `
The following commands can be used:

help                      Show this text
exit                      Exit the program
read                      Read the value of SampleVariable
write    [value]          Write the value of SampleVariable
inc      [delta]          Call IncreaseVariable
incarray [a b c d e] [delta]
                          Call IncInt32ArrayValues
browse                    List the nodes of the Objects folder

Example:

> incarray 1 2 3 4 5 10
[11 12 13 14 15]
`

// Accessor is everything the REPL can do with the sample server. *Client is an Accessor.
type Accessor interface {
	SampleAccessor
	IncInt32ArrayValues(ctx context.Context, values []int32, delta int32) ([]int32, error)
	BrowseObjects(ctx context.Context) ([]ua.ReferenceDescription, error)
}

// Repl executes commands against the sample server.
type Repl struct {
	acc Accessor
	out io.Writer
}

// NewRepl returns a Repl that prints results to out.
func NewRepl(acc Accessor, out io.Writer) *Repl {
	return &Repl{acc: acc, out: out}
}

// Run reads commands from the terminal until 'exit' or end of input.
func (r *Repl) Run(ctx context.Context) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("interactive mode requires a terminal")
	}
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stderr}, "> ")
	r.out = t

	fmt.Fprint(r.out, replHelp)
	for {
		l, err := readLine(fd, t)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "Error reading line")
		}
		if !r.Exec(ctx, l) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
	}
}

func readLine(fd int, t *term.Terminal) (string, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return "", errors.Wrap(err, "Error setting terminal to raw mode")
	}
	defer term.Restore(fd, state)
	return t.ReadLine()
}

// Exec executes one command line. It returns false if the line asks to exit.
func (r *Repl) Exec(ctx context.Context, line string) bool {
	args, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintf(r.out, "Failed to split command: %v\n", err)
		return true
	}
	if len(args) < 1 {
		return true
	}

	switch args[0] {
	case "exit", "quit":
		return false
	case "help":
		fmt.Fprint(r.out, replHelp)
	case "read":
		r.read(ctx)
	case "write":
		r.write(ctx, args[1:])
	case "inc":
		r.inc(ctx, args[1:])
	case "incarray":
		r.incArray(ctx, args[1:])
	case "browse":
		r.browse(ctx)
	default:
		fmt.Fprintf(r.out, "Unknown command '%s'. Type 'help' to see available commands.\n", args[0])
	}
	return true
}

func (r *Repl) read(ctx context.Context) {
	v, err := r.acc.ReadSampleVariable(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "Failed to read SampleVariable: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "the value of SampleVariable: %d\n", v)
}

func (r *Repl) write(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "'write' requires a value.")
		return
	}
	v, err := parseInt32(args[0])
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	if err := r.acc.WriteSampleVariable(ctx, v); err != nil {
		fmt.Fprintf(r.out, "Failed to write sample variable value, returned %x\n", uint32(StatusCode(err)))
		return
	}
	fmt.Fprintln(r.out, "OK")
}

func (r *Repl) inc(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "'inc' requires a delta.")
		return
	}
	delta, err := parseInt32(args[0])
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	n, err := r.acc.IncreaseVariable(ctx, delta)
	if err != nil {
		fmt.Fprintf(r.out, "Method call was unsuccessful, and %x returned values available.\n", uint32(StatusCode(err)))
		return
	}
	fmt.Fprintf(r.out, "Method call was successful, and %d returned values available.\n", n)
}

func (r *Repl) incArray(ctx context.Context, args []string) {
	if len(args) != nodeids.ArrayLength+1 {
		fmt.Fprintf(r.out, "'incarray' requires %d values and a delta.\n", nodeids.ArrayLength)
		return
	}
	values := make([]int32, nodeids.ArrayLength)
	for i := range values {
		v, err := parseInt32(args[i])
		if err != nil {
			fmt.Fprintln(r.out, err)
			return
		}
		values[i] = v
	}
	delta, err := parseInt32(args[nodeids.ArrayLength])
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	out, err := r.acc.IncInt32ArrayValues(ctx, values, delta)
	if err != nil {
		fmt.Fprintf(r.out, "Method call was unsuccessful, and %x returned values available.\n", uint32(StatusCode(err)))
		return
	}
	fmt.Fprintln(r.out, out)
}

func (r *Repl) browse(ctx context.Context) {
	refs, err := r.acc.BrowseObjects(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "Failed to browse: %v\n", err)
		return
	}
	for _, ref := range refs {
		fmt.Fprintf(r.out, " + %s, browseName: %s, nodeClass: %s, nodeId: %s\n", ref.DisplayName.Text, ref.BrowseName, ref.NodeClass, ref.NodeID)
	}
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.Errorf("Invalid value '%s'. Values must be Int32.", s)
	}
	return int32(v), nil
}
