package frame

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// Define1 registers a derived column computed per event from one input
// column and returns the derived frame handle.
//
// fn must be a pure function of its input: the frame evaluates it across row
// partitions concurrently, with no cross-event ordering.
func Define1[I, O any](f *EventFrame, output string, fn func(I) O, input string) (*EventFrame, error) {
	in, err := inputColumn[I](f, input)
	if err != nil {
		return nil, err
	}
	return materialize(f, output, func(i int) O {
		return fn(in[i])
	})
}

// Define2 registers a derived column computed per event from two input
// columns, bound in order.
func Define2[I1, I2, O any](f *EventFrame, output string, fn func(I1, I2) O, input1, input2 string) (*EventFrame, error) {
	in1, err := inputColumn[I1](f, input1)
	if err != nil {
		return nil, err
	}
	in2, err := inputColumn[I2](f, input2)
	if err != nil {
		return nil, err
	}
	return materialize(f, output, func(i int) O {
		return fn(in1[i], in2[i])
	})
}

// Define3 registers a derived column computed per event from three input
// columns, bound in order.
func Define3[I1, I2, I3, O any](f *EventFrame, output string, fn func(I1, I2, I3) O, input1, input2, input3 string) (*EventFrame, error) {
	in1, err := inputColumn[I1](f, input1)
	if err != nil {
		return nil, err
	}
	in2, err := inputColumn[I2](f, input2)
	if err != nil {
		return nil, err
	}
	in3, err := inputColumn[I3](f, input3)
	if err != nil {
		return nil, err
	}
	return materialize(f, output, func(i int) O {
		return fn(in1[i], in2[i], in3[i])
	})
}

// Define4 registers a derived column computed per event from four input
// columns, bound in order.
func Define4[I1, I2, I3, I4, O any](f *EventFrame, output string, fn func(I1, I2, I3, I4) O, input1, input2, input3, input4 string) (*EventFrame, error) {
	in1, err := inputColumn[I1](f, input1)
	if err != nil {
		return nil, err
	}
	in2, err := inputColumn[I2](f, input2)
	if err != nil {
		return nil, err
	}
	in3, err := inputColumn[I3](f, input3)
	if err != nil {
		return nil, err
	}
	in4, err := inputColumn[I4](f, input4)
	if err != nil {
		return nil, err
	}
	return materialize(f, output, func(i int) O {
		return fn(in1[i], in2[i], in3[i], in4[i])
	})
}

// inputColumn resolves a typed input column, with registration-time errors
// for missing names and element-type mismatches.
func inputColumn[T any](f *EventFrame, name string) ([]T, error) {
	return ColumnValues[T](f, name)
}

// materialize evaluates compute for every event and attaches the result as a
// new column. Rows are split into contiguous partitions, one goroutine each.
func materialize[O any](f *EventFrame, output string, compute func(i int) O) (*EventFrame, error) {
	if _, ok := f.columns[output]; ok {
		return nil, &ErrColumnExists{Name: output}
	}

	start := time.Now()
	values := make([]O, f.n)

	workers := f.cfg.parallelism
	if workers > f.n {
		workers = f.n
	}

	if workers <= 1 {
		for i := 0; i < f.n; i++ {
			values[i] = compute(i)
		}
	} else {
		var g errgroup.Group
		chunk := (f.n + workers - 1) / workers
		for lo := 0; lo < f.n; lo += chunk {
			hi := lo + chunk
			if hi > f.n {
				hi = f.n
			}
			g.Go(func() error {
				for i := lo; i < hi; i++ {
					values[i] = compute(i)
				}
				return nil
			})
		}
		// Compute functions are pure and never fail; Wait only joins.
		_ = g.Wait()
	}

	out := f.derive()
	out.columns[output] = NewColumn(values)

	f.cfg.metrics.OnDefine(output, f.n, time.Since(start), nil)
	f.cfg.logger.Infof("frame: defined column %q (%d rows)", output, f.n)

	return out, nil
}
