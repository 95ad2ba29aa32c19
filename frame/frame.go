// Package frame provides an in-memory columnar event table for collider
// analysis pipelines.
//
// An EventFrame holds one typed column per named quantity, with one entry per
// event. Derived columns are registered through the typed Define functions
// and materialized eagerly, in parallel over row partitions. Event selections
// are tracked as roaring bitmaps and never mutate column data.
//
// Frames behave as immutable handles: Define and Filter return a new frame
// sharing the already-materialized columns with their parent.
package frame

import (
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
)

// Logger is a simple interface for logging.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger is a default logger that does nothing.
type noopLogger struct{}

func (l *noopLogger) Infof(format string, args ...interface{})  {}
func (l *noopLogger) Errorf(format string, args ...interface{}) {}

// config carries the cross-cutting collaborators shared by a frame and all
// handles derived from it.
type config struct {
	logger      Logger
	metrics     MetricsObserver
	parallelism int
	compression Compression
}

// Option defines a configuration option for an EventFrame.
type Option func(*config)

// WithLogger sets the logger for the frame.
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetricsObserver sets the metrics observer for the frame.
func WithMetricsObserver(observer MetricsObserver) Option {
	return func(c *config) {
		if observer != nil {
			c.metrics = observer
		}
	}
}

// WithParallelism sets the number of row partitions evaluated concurrently
// by Define. Defaults to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithCompression sets the block compression used when the frame is
// snapshotted. Defaults to LZ4.
func WithCompression(ct Compression) Option {
	return func(c *config) {
		c.compression = ct
	}
}

// EventFrame is a columnar table of events.
type EventFrame struct {
	n       int
	columns map[string]Column

	// mask is the set of events passing all applied filters.
	// nil means every event is selected.
	mask    *roaring.Bitmap
	filters []string

	cfg *config
}

// New creates an empty frame covering numEvents events.
func New(numEvents int, opts ...Option) *EventFrame {
	cfg := &config{
		logger:      &noopLogger{},
		metrics:     &NoopMetricsObserver{},
		parallelism: runtime.GOMAXPROCS(0),
		compression: CompressionLZ4,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &EventFrame{
		n:       numEvents,
		columns: make(map[string]Column),
		cfg:     cfg,
	}
}

// NumEntries returns the total number of events in the frame, before any
// filtering.
func (f *EventFrame) NumEntries() int { return f.n }

// Count returns the number of events passing all applied filters.
func (f *EventFrame) Count() uint64 {
	if f.mask == nil {
		return uint64(f.n)
	}
	return f.mask.GetCardinality()
}

// ColumnNames returns the names of all materialized columns.
func (f *EventFrame) ColumnNames() []string {
	names := make([]string, 0, len(f.columns))
	for name := range f.columns {
		names = append(names, name)
	}
	return names
}

// HasColumn reports whether a column with the given name exists.
func (f *EventFrame) HasColumn(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Column returns the column with the given name.
func (f *EventFrame) Column(name string) (Column, error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, &ErrColumnNotFound{Name: name}
	}
	return col, nil
}

// Filters returns the names of all selections applied to this handle, in
// application order.
func (f *EventFrame) Filters() []string {
	out := make([]string, len(f.filters))
	copy(out, f.filters)
	return out
}

// Mask returns a copy of the current selection bitmap, or a full bitmap when
// no filter has been applied.
func (f *EventFrame) Mask() *roaring.Bitmap {
	if f.mask == nil {
		full := roaring.New()
		full.AddRange(0, uint64(f.n))
		return full
	}
	return f.mask.Clone()
}

// derive returns a child handle sharing all columns with f.
// Columns are immutable, so a shallow map copy is sufficient.
func (f *EventFrame) derive() *EventFrame {
	columns := make(map[string]Column, len(f.columns)+1)
	for name, col := range f.columns {
		columns[name] = col
	}
	return &EventFrame{
		n:       f.n,
		columns: columns,
		mask:    f.mask,
		filters: f.filters,
		cfg:     f.cfg,
	}
}

// AddColumn registers an input column of raw values and returns the derived
// handle. The slice must have one entry per event.
func AddColumn[T any](f *EventFrame, name string, values []T) (*EventFrame, error) {
	if _, ok := f.columns[name]; ok {
		return nil, &ErrColumnExists{Name: name}
	}
	if len(values) != f.n {
		return nil, &ErrLengthMismatch{Name: name, Expected: f.n, Actual: len(values)}
	}

	col := NewColumn(values)
	if col.Kind() == KindInvalid {
		return nil, &ErrColumnType{Name: name, Expected: "supported element type", Actual: typeName[T]()}
	}

	out := f.derive()
	out.columns[name] = col
	return out, nil
}

// ColumnValues returns the typed backing slice of a column.
// Treat the returned slice as read-only.
func ColumnValues[T any](f *EventFrame, name string) ([]T, error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, &ErrColumnNotFound{Name: name}
	}
	typed, ok := col.(*ColumnOf[T])
	if !ok {
		return nil, &ErrColumnType{Name: name, Expected: typeName[T](), Actual: col.Kind().String()}
	}
	return typed.values, nil
}
