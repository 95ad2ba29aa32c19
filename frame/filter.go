package frame

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// Filter1 applies a named event selection based on one input column and
// returns the derived frame handle. Column data is untouched; the selection
// is tracked as a bitmap intersected with any previously applied filters.
func Filter1[I any](f *EventFrame, name string, pred func(I) bool, input string) (*EventFrame, error) {
	in, err := inputColumn[I](f, input)
	if err != nil {
		return nil, err
	}
	return applyFilter(f, name, func(i int) bool {
		return pred(in[i])
	})
}

// Filter2 applies a named event selection based on two input columns, bound
// in order.
func Filter2[I1, I2 any](f *EventFrame, name string, pred func(I1, I2) bool, input1, input2 string) (*EventFrame, error) {
	in1, err := inputColumn[I1](f, input1)
	if err != nil {
		return nil, err
	}
	in2, err := inputColumn[I2](f, input2)
	if err != nil {
		return nil, err
	}
	return applyFilter(f, name, func(i int) bool {
		return pred(in1[i], in2[i])
	})
}

func applyFilter(f *EventFrame, name string, pass func(i int) bool) (*EventFrame, error) {
	start := time.Now()

	mask := roaring.New()
	if f.mask == nil {
		for i := 0; i < f.n; i++ {
			if pass(i) {
				mask.Add(uint32(i))
			}
		}
	} else {
		// Only re-evaluate events still selected by the parent chain.
		it := f.mask.Iterator()
		for it.HasNext() {
			i := it.Next()
			if pass(int(i)) {
				mask.Add(i)
			}
		}
	}

	out := f.derive()
	out.mask = mask
	out.filters = append(append([]string(nil), f.filters...), name)

	f.cfg.metrics.OnFilter(name, mask.GetCardinality(), uint64(f.n), time.Since(start))
	f.cfg.logger.Infof("frame: filter %q selects %d/%d events", name, mask.GetCardinality(), f.n)

	return out, nil
}
