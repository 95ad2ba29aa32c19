// Package hepdf provides a columnar event-frame engine for high energy
// physics analysis, with derived kinematic quantities in the style of
// NanoAOD ntuple processing.
//
// # Quick Start
//
// Build a frame from flat and jagged columns, derive quantities, and
// filter:
//
//	df, _ := hepdf.NewFrame(numEvents).
//	    P4("p4_1", p41).
//	    P4("p4_2", p42).
//	    VecI32("dileptonpair", pairs).
//	    Build()
//
//	df, _ = quantities.Pt(df, "pt_1", "p4_1")
//	df, _ = quantities.MVis(df, "m_vis", "p4_1", "p4_2")
//
// Derived columns never fault on malformed input. Out-of-range indices
// and invalid physics objects yield typed default values from the
// defaults package, so selection cuts stay expressible as column
// comparisons.
//
// # Snapshots
//
// Frames round-trip through compressed snapshots on any BlobStore:
//
//	store, _ := blobstore.NewLocalStore("./data")
//	_ = hepdf.Save(ctx, store, "ntuple.hfs", df)
//	df, _ = hepdf.Open(ctx, store, "ntuple.hfs")
//
// Remote stores (S3, MinIO) support ranged reads; wrap them in a
// blobstore.CachingStore for repeated access.
package hepdf
