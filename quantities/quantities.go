// Package quantities registers the basic derived quantities that are needed
// for every event.
//
// Each function binds one or more existing columns of an event frame, computes
// a single value per event and registers it as a new column, returning the
// derived frame handle. All compute functions are pure; invalid inputs and
// out-of-range object lookups yield the typed sentinels from package defaults
// instead of failing.
package quantities

import (
	"github.com/hupe1980/hepdf/defaults"
	"github.com/hupe1980/hepdf/frame"
	"github.com/hupe1980/hepdf/lorentz"
)

// Pt registers the transverse momentum of a lorentz vector column.
//
// The raw pt is written out even for vectors flagged invalid (negative pt),
// so the flag itself stays visible downstream.
func Pt(df *frame.EventFrame, outputname, inputvector string) (*frame.EventFrame, error) {
	return frame.Define1(df, outputname, func(p4 lorentz.Vec4) float32 {
		return float32(p4.Pt)
	}, inputvector)
}

// Eta registers the pseudorapidity of a lorentz vector column.
//
// Like Pt, no validity check is applied.
func Eta(df *frame.EventFrame, outputname, inputvector string) (*frame.EventFrame, error) {
	return frame.Define1(df, outputname, func(p4 lorentz.Vec4) float32 {
		return float32(p4.Eta)
	}, inputvector)
}

// Phi registers the azimuthal angle of a lorentz vector column.
func Phi(df *frame.EventFrame, outputname, inputvector string) (*frame.EventFrame, error) {
	return frame.Define1(df, outputname, func(p4 lorentz.Vec4) float32 {
		if !p4.IsValid() {
			return defaults.Float
		}
		return float32(p4.Phi)
	}, inputvector)
}

// Mass registers the invariant mass of a lorentz vector column.
func Mass(df *frame.EventFrame, outputname, inputvector string) (*frame.EventFrame, error) {
	return frame.Define1(df, outputname, func(p4 lorentz.Vec4) float32 {
		if !p4.IsValid() {
			return defaults.Float
		}
		return float32(p4.M)
	}, inputvector)
}

// MVis registers the visible mass of the dilepton system, the invariant mass
// of the summed four-vectors of the two legs.
func MVis(df *frame.EventFrame, outputname, particle1, particle2 string) (*frame.EventFrame, error) {
	return frame.Define2(df, outputname, func(p1, p2 lorentz.Vec4) float32 {
		if !p1.IsValid() || !p2.IsValid() {
			return defaults.Float
		}
		return float32(p1.Add(p2).M)
	}, particle1, particle2)
}

// pzetaAlpha is the fixed weight of the visible component in the zeta
// discriminant (D. Jang, FERMILAB-THESIS-2006-11).
const pzetaAlpha = 0.85

// PZetaMissVis registers the zeta-projection discriminant
//
//	D_zeta = p_zeta^miss - 0.85 * p_zeta^vis
//
// where both projections are taken onto the transverse bisector of the two
// lepton directions.
func PZetaMissVis(df *frame.EventFrame, outputname, particle1, particle2, met string) (*frame.EventFrame, error) {
	return frame.Define3(df, outputname, func(p1, p2, metP4 lorentz.Vec4) float64 {
		metVec := metP4.Vect().Transverse()

		// Bisector of the two lepton directions in the transverse plane.
		p1Norm := p1.Vect().Unit().Transverse().Unit()
		p2Norm := p2.Vect().Unit().Transverse().Unit()
		zeta := p1Norm.Add(p2Norm).Unit()

		visible := p1.Vect().Add(p2.Vect()).Transverse()

		return metVec.Dot(zeta) - pzetaAlpha*visible.Dot(zeta)
	}, particle1, particle2, met)
}

// MTDileptonMET registers the transverse mass of the dilepton system with
// respect to the missing transverse momentum.
func MTDileptonMET(df *frame.EventFrame, outputname, particle1, particle2, met string) (*frame.EventFrame, error) {
	return frame.Define3(df, outputname, func(p1, p2, metP4 lorentz.Vec4) float32 {
		return float32(lorentz.MT(p1.Add(p2), metP4))
	}, particle1, particle2, met)
}

// MT registers the transverse mass of a single particle with respect to the
// missing transverse momentum.
func MT(df *frame.EventFrame, outputname, particle, met string) (*frame.EventFrame, error) {
	return frame.Define2(df, outputname, func(p, metP4 lorentz.Vec4) float32 {
		return float32(lorentz.MT(p, metP4))
	}, particle, met)
}

// Dxy registers the transverse impact parameter of the pair leg at the given
// position. The leg is identified via the index stored in the pair column.
func Dxy(df *frame.EventFrame, outputname string, position int, pairname, dxycolumn string) (*frame.EventFrame, error) {
	return frame.Define2(df, outputname, func(pair []int32, dxy []float32) float32 {
		index := int(frame.At(pair, position, -1))
		return frame.At(dxy, index, defaults.Float)
	}, pairname, dxycolumn)
}

// Dz registers the longitudinal impact parameter of the pair leg at the given
// position.
func Dz(df *frame.EventFrame, outputname string, position int, pairname, dzcolumn string) (*frame.EventFrame, error) {
	return frame.Define2(df, outputname, func(pair []int32, dz []float32) float32 {
		index := int(frame.At(pair, position, -1))
		return frame.At(dz, index, defaults.Float)
	}, pairname, dzcolumn)
}

// Charge registers the electric charge of the pair leg at the given position.
func Charge(df *frame.EventFrame, outputname string, position int, pairname, chargecolumn string) (*frame.EventFrame, error) {
	return frame.Define2(df, outputname, func(pair, charge []int32) int32 {
		index := int(frame.At(pair, position, -1))
		return frame.At(charge, index, defaults.Int)
	}, pairname, chargecolumn)
}

// Isolation registers the relative isolation of the pair leg at the given
// position.
func Isolation(df *frame.EventFrame, outputname string, position int, pairname, isolationcolumn string) (*frame.EventFrame, error) {
	return frame.Define2(df, outputname, func(pair []int32, isolation []float32) float32 {
		index := int(frame.At(pair, position, -1))
		return frame.At(isolation, index, defaults.Float)
	}, pairname, isolationcolumn)
}

// PDGID registers the Particle Data Group identifier of the generator
// particle matched to the pair leg at the given position.
func PDGID(df *frame.EventFrame, outputname string, position int, pairname, pdgidcolumn string) (*frame.EventFrame, error) {
	return frame.Define2(df, outputname, func(pair, pdgid []int32) int32 {
		index := int(frame.At(pair, position, -1))
		return frame.At(pdgid, index, defaults.PDGID)
	}, pairname, pdgidcolumn)
}
