package frame

import "time"

// MetricsObserver defines the interface for observing frame events.
type MetricsObserver interface {
	// OnDefine is called after a derived column has been materialized.
	OnDefine(column string, rows int, duration time.Duration, err error)

	// OnFilter is called after a selection has been evaluated.
	OnFilter(name string, passed, total uint64, duration time.Duration)

	// OnSnapshotSave is called when a snapshot write completes.
	OnSnapshotSave(duration time.Duration, bytes int64, err error)

	// OnSnapshotLoad is called when a snapshot read completes.
	OnSnapshotLoad(duration time.Duration, bytes int64, err error)
}

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver struct{}

func (o *NoopMetricsObserver) OnDefine(column string, rows int, duration time.Duration, err error) {}
func (o *NoopMetricsObserver) OnFilter(name string, passed, total uint64, duration time.Duration)  {}
func (o *NoopMetricsObserver) OnSnapshotSave(duration time.Duration, bytes int64, err error)       {}
func (o *NoopMetricsObserver) OnSnapshotLoad(duration time.Duration, bytes int64, err error)       {}
