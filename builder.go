// Package hepdf provides the event-frame facade.
//
// This file implements the fluent frame builder. The builder is immutable;
// each method returns a new builder with the updated configuration.
package hepdf

import (
	"github.com/hupe1980/hepdf/codec"
	"github.com/hupe1980/hepdf/frame"
	"github.com/hupe1980/hepdf/lorentz"
)

// NewFrame creates a new frame builder for the given number of events.
//
// Example:
//
//	df, err := hepdf.NewFrame(1000).
//	    Compression(frame.CompressionZSTD).
//	    VecF32("Tau_pt", tauPt).
//	    VecI32("dileptonpair", pairs).
//	    Build()
func NewFrame(numEvents int) FrameBuilder {
	return FrameBuilder{
		numEvents: numEvents,
		codec:     codec.Default,
	}
}

// FrameBuilder is an immutable fluent builder for event frames.
// Each method returns a new builder with the updated configuration.
type FrameBuilder struct {
	numEvents   int
	columns     []columnSpec
	codec       codec.Codec
	logger      *Logger
	metrics     frame.MetricsObserver
	parallelism int
	compression *frame.Compression
}

type columnSpec struct {
	name string
	add  func(*frame.EventFrame) (*frame.EventFrame, error)
}

// Logger sets the structured logger for operation tracing.
func (b FrameBuilder) Logger(l *Logger) FrameBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics observer for monitoring.
func (b FrameBuilder) Metrics(m frame.MetricsObserver) FrameBuilder {
	b.metrics = m
	return b
}

// Codec sets the codec used for snapshot schema serialization.
func (b FrameBuilder) Codec(c codec.Codec) FrameBuilder {
	b.codec = c
	return b
}

// Parallelism sets the number of goroutines used to materialize derived
// columns. Default: GOMAXPROCS.
func (b FrameBuilder) Parallelism(n int) FrameBuilder {
	b.parallelism = n
	return b
}

// Compression sets the block compression used by snapshots.
// Default: LZ4.
func (b FrameBuilder) Compression(ct frame.Compression) FrameBuilder {
	b.compression = &ct
	return b
}

// F32 adds a flat float32 column, one value per event.
func (b FrameBuilder) F32(name string, values []float32) FrameBuilder {
	return b.column(name, values)
}

// F64 adds a flat float64 column, one value per event.
func (b FrameBuilder) F64(name string, values []float64) FrameBuilder {
	return b.column(name, values)
}

// I32 adds a flat int32 column, one value per event.
func (b FrameBuilder) I32(name string, values []int32) FrameBuilder {
	return b.column(name, values)
}

// U8 adds a flat uint8 column, one value per event.
func (b FrameBuilder) U8(name string, values []uint8) FrameBuilder {
	return b.column(name, values)
}

// P4 adds a four-vector column, one value per event.
func (b FrameBuilder) P4(name string, values []lorentz.Vec4) FrameBuilder {
	return b.column(name, values)
}

// VecF32 adds a jagged float32 column, one variable-length slice per event.
func (b FrameBuilder) VecF32(name string, values [][]float32) FrameBuilder {
	return b.column(name, values)
}

// VecI32 adds a jagged int32 column, one variable-length slice per event.
func (b FrameBuilder) VecI32(name string, values [][]int32) FrameBuilder {
	return b.column(name, values)
}

// VecU8 adds a jagged uint8 column, one variable-length slice per event.
func (b FrameBuilder) VecU8(name string, values [][]uint8) FrameBuilder {
	return b.column(name, values)
}

func (b FrameBuilder) column(name string, values any) FrameBuilder {
	spec := columnSpec{name: name}
	switch v := values.(type) {
	case []float32:
		spec.add = func(f *frame.EventFrame) (*frame.EventFrame, error) { return frame.AddColumn(f, name, v) }
	case []float64:
		spec.add = func(f *frame.EventFrame) (*frame.EventFrame, error) { return frame.AddColumn(f, name, v) }
	case []int32:
		spec.add = func(f *frame.EventFrame) (*frame.EventFrame, error) { return frame.AddColumn(f, name, v) }
	case []uint8:
		spec.add = func(f *frame.EventFrame) (*frame.EventFrame, error) { return frame.AddColumn(f, name, v) }
	case []lorentz.Vec4:
		spec.add = func(f *frame.EventFrame) (*frame.EventFrame, error) { return frame.AddColumn(f, name, v) }
	case [][]float32:
		spec.add = func(f *frame.EventFrame) (*frame.EventFrame, error) { return frame.AddColumn(f, name, v) }
	case [][]int32:
		spec.add = func(f *frame.EventFrame) (*frame.EventFrame, error) { return frame.AddColumn(f, name, v) }
	case [][]uint8:
		spec.add = func(f *frame.EventFrame) (*frame.EventFrame, error) { return frame.AddColumn(f, name, v) }
	}

	// Copy-on-write so derived builders never share the slice.
	cols := make([]columnSpec, len(b.columns), len(b.columns)+1)
	copy(cols, b.columns)
	b.columns = append(cols, spec)
	return b
}

// Build creates the event frame and loads all declared columns.
func (b FrameBuilder) Build() (*frame.EventFrame, error) {
	var opts []frame.Option
	if b.logger != nil {
		opts = append(opts, frame.WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, frame.WithMetricsObserver(b.metrics))
	}
	if b.parallelism > 0 {
		opts = append(opts, frame.WithParallelism(b.parallelism))
	}
	if b.compression != nil {
		opts = append(opts, frame.WithCompression(*b.compression))
	}

	f := frame.New(b.numEvents, opts...)

	var err error
	for _, spec := range b.columns {
		f, err = spec.add(f)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}
