package frame

import (
	"fmt"

	"github.com/hupe1980/hepdf/lorentz"
)

// Column is an immutable, typed array with one entry per event.
type Column interface {
	// Len returns the number of events the column covers.
	Len() int

	// Kind returns the element kind for schema purposes.
	Kind() Kind
}

// Kind identifies the element type of a column.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindF32          // float32 scalar
	KindF64          // float64 scalar
	KindI32          // int32 scalar
	KindU8           // uint8 scalar
	KindP4           // lorentz.Vec4 scalar
	KindVecF32       // per-object float32 array
	KindVecI32       // per-object int32 array
	KindVecU8        // per-object uint8 array
)

func (k Kind) String() string {
	switch k {
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindI32:
		return "i32"
	case KindU8:
		return "u8"
	case KindP4:
		return "p4"
	case KindVecF32:
		return "vec<f32>"
	case KindVecI32:
		return "vec<i32>"
	case KindVecU8:
		return "vec<u8>"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// kindByName is the inverse of Kind.String, used when decoding snapshots.
func kindByName(name string) (Kind, bool) {
	switch name {
	case "f32":
		return KindF32, true
	case "f64":
		return KindF64, true
	case "i32":
		return KindI32, true
	case "u8":
		return KindU8, true
	case "p4":
		return KindP4, true
	case "vec<f32>":
		return KindVecF32, true
	case "vec<i32>":
		return KindVecI32, true
	case "vec<u8>":
		return KindVecU8, true
	default:
		return KindInvalid, false
	}
}

// ColumnOf is the concrete column storage for element type T.
type ColumnOf[T any] struct {
	values []T
}

// NewColumn wraps values as a column. The slice is retained as-is and must
// not be mutated afterwards.
func NewColumn[T any](values []T) *ColumnOf[T] {
	return &ColumnOf[T]{values: values}
}

// Len returns the number of events.
func (c *ColumnOf[T]) Len() int { return len(c.values) }

// Values returns the backing slice. Treat it as read-only.
func (c *ColumnOf[T]) Values() []T { return c.values }

// Kind returns the element kind of the column.
func (c *ColumnOf[T]) Kind() Kind {
	switch any(c.values).(type) {
	case []float32:
		return KindF32
	case []float64:
		return KindF64
	case []int32:
		return KindI32
	case []uint8:
		return KindU8
	case []lorentz.Vec4:
		return KindP4
	case [][]float32:
		return KindVecF32
	case [][]int32:
		return KindVecI32
	case [][]uint8:
		return KindVecU8
	default:
		return KindInvalid
	}
}

// typeName renders the element type of a column for error messages.
func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// At returns v[index], or def when index is out of range.
// Negative indices (the conventional "no associated object" marker) also
// yield def, so chained lookups degrade to the sentinel instead of faulting.
func At[T any](v []T, index int, def T) T {
	if index < 0 || index >= len(v) {
		return def
	}
	return v[index]
}
