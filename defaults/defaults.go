// Package defaults holds the sentinel values written to derived columns when
// an input is flagged invalid or an object lookup runs out of range.
//
// Event processing never fails on a missing object: accessors substitute the
// sentinel matching the column's element type instead. Downstream analysis
// code filters on these values, so they must stay stable across releases.
package defaults

import "github.com/hupe1980/hepdf/lorentz"

// Float is the sentinel for float32/float64 columns.
const Float float32 = -10.0

// Int is the sentinel for int32 columns (charge, decay mode, ...).
const Int int32 = -10

// PDGID is the sentinel for Particle Data Group identifier columns.
// Real PDG ids are small nonzero integers; -999 is outside the assigned range.
const PDGID int32 = -999

// UChar is the sentinel for unsigned-byte code columns (e.g. gen-match flags,
// which use 0-5 for real matches).
const UChar uint8 = 255

// InvalidP4 is the four-vector written for objects that do not exist in an
// event. Its negative pt marks it invalid (lorentz.Vec4.IsValid == false).
func InvalidP4() lorentz.Vec4 {
	f := float64(Float)
	return lorentz.PtEtaPhiM(f, f, f, f)
}

