// Copyright 2021 mamezou-tech. All rights reserved.

package sampleclient

import (
	"context"
	"fmt"
	"io"

	"github.com/gammazero/deque"
)

// SampleAccessor reads, writes and increases 'SampleVariable'. *Client is a SampleAccessor.
type SampleAccessor interface {
	ReadSampleVariable(ctx context.Context) (int32, error)
	WriteSampleVariable(ctx context.Context, value int32) error
	IncreaseVariable(ctx context.Context, delta int32) (int, error)
}

// Demo reads 'SampleVariable', writes WriteValue, calls 'IncreaseVariable'
// with Delta and reads the variable after each change. Failures are printed
// and the demo continues.
type Demo struct {
	Out        io.Writer
	WriteValue int32
	Delta      int32
	// Pause, if set, is called between steps.
	Pause func() error
	// KeyPress, if set, is called after the final prompt.
	KeyPress func() error
}

// NewDemo returns the demo printing to out with the default write value and delta.
func NewDemo(out io.Writer) *Demo {
	return &Demo{Out: out, WriteValue: DefaultWriteValue, Delta: DefaultDelta}
}

// Run runs the demo with the given accessor.
func (d *Demo) Run(ctx context.Context, acc SampleAccessor) error {
	var steps deque.Deque[func()]
	steps.PushBack(func() {
		fmt.Fprintln(d.Out, "readSampleVariable()")
		d.read(ctx, acc)
	})
	steps.PushBack(func() {
		fmt.Fprintln(d.Out, "=== writeSampleVariable() ===")
		if err := acc.WriteSampleVariable(ctx, d.WriteValue); err != nil {
			fmt.Fprintf(d.Out, "Failed to write sample variable value, returned %x\n", uint32(StatusCode(err)))
		}
		d.read(ctx, acc)
	})
	steps.PushBack(func() {
		fmt.Fprintln(d.Out, "=== invokeMethod() ===")
		n, err := acc.IncreaseVariable(ctx, d.Delta)
		if err != nil {
			fmt.Fprintf(d.Out, "Method call was unsuccessful, and %x returned values available.\n", uint32(StatusCode(err)))
		} else {
			fmt.Fprintf(d.Out, "Method call was successful, and %d returned values available.\n", n)
		}
		d.read(ctx, acc)
	})

	for steps.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := steps.PopFront()
		step()
		if d.Pause != nil && steps.Len() > 0 {
			if err := d.Pause(); err != nil {
				return err
			}
		}
	}

	fmt.Fprint(d.Out, "Press any key to continue ...")
	if d.KeyPress != nil {
		if err := d.KeyPress(); err != nil {
			return err
		}
	}
	fmt.Fprintln(d.Out)
	return nil
}

func (d *Demo) read(ctx context.Context, acc SampleAccessor) {
	v, err := acc.ReadSampleVariable(ctx)
	if err != nil {
		fmt.Fprintln(d.Out, "Failed to read SampleVariable")
		return
	}
	fmt.Fprintf(d.Out, "the value of SampleVariable: %d\n", v)
}
