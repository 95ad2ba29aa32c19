package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter1(t *testing.T) {
	f := New(4)
	f, err := AddColumn(f, "pt", []float32{10, 25, 5, 40})
	require.NoError(t, err)

	f, err = Filter1(f, "pt_cut", func(pt float32) bool { return pt > 20 }, "pt")
	require.NoError(t, err)

	assert.Equal(t, uint64(2), f.Count())
	assert.Equal(t, 4, f.NumEntries())
	assert.Equal(t, []string{"pt_cut"}, f.Filters())

	mask := f.Mask()
	assert.True(t, mask.Contains(1))
	assert.True(t, mask.Contains(3))
	assert.False(t, mask.Contains(0))
}

func TestFilter_Chained(t *testing.T) {
	f := New(4)
	f, err := AddColumn(f, "pt", []float32{10, 25, 30, 40})
	require.NoError(t, err)
	f, err = AddColumn(f, "eta", []float32{0.5, 3.0, 1.0, 1.5})
	require.NoError(t, err)

	f, err = Filter1(f, "pt_cut", func(pt float32) bool { return pt > 20 }, "pt")
	require.NoError(t, err)
	f, err = Filter1(f, "eta_cut", func(eta float32) bool { return eta < 2.3 }, "eta")
	require.NoError(t, err)

	// Events 2 and 3 pass both cuts; event 1 fails eta.
	assert.Equal(t, uint64(2), f.Count())
	assert.Equal(t, []string{"pt_cut", "eta_cut"}, f.Filters())
}

func TestFilter2(t *testing.T) {
	f := New(3)
	f, err := AddColumn(f, "q1", []int32{1, -1, 1})
	require.NoError(t, err)
	f, err = AddColumn(f, "q2", []int32{-1, -1, 1})
	require.NoError(t, err)

	f, err = Filter2(f, "opposite_sign", func(q1, q2 int32) bool { return q1*q2 < 0 }, "q1", "q2")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), f.Count())
	assert.True(t, f.Mask().Contains(0))
}

func TestFilter_ParentUnchanged(t *testing.T) {
	parent := New(2)
	parent, err := AddColumn(parent, "pt", []float32{10, 30})
	require.NoError(t, err)

	child, err := Filter1(parent, "cut", func(pt float32) bool { return pt > 20 }, "pt")
	require.NoError(t, err)

	assert.Equal(t, uint64(2), parent.Count())
	assert.Empty(t, parent.Filters())
	assert.Equal(t, uint64(1), child.Count())
}

func TestFilter_MissingInput(t *testing.T) {
	f := New(1)

	_, err := Filter1(f, "cut", func(pt float32) bool { return true }, "missing")
	var notFound *ErrColumnNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestDefine_AfterFilter_CoversAllEvents(t *testing.T) {
	f := New(3)
	f, err := AddColumn(f, "pt", []float32{10, 20, 30})
	require.NoError(t, err)

	f, err = Filter1(f, "cut", func(pt float32) bool { return pt > 15 }, "pt")
	require.NoError(t, err)

	// Derived columns still cover every event; the mask only tracks selection.
	f, err = Define1(f, "pt2", func(pt float32) float32 { return pt * 2 }, "pt")
	require.NoError(t, err)

	values, err := ColumnValues[float32](f, "pt2")
	require.NoError(t, err)
	assert.Equal(t, []float32{20, 40, 60}, values)
	assert.Equal(t, uint64(2), f.Count())
}
