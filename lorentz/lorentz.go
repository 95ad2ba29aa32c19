// Package lorentz provides four-vector math in the (pt, eta, phi, mass)
// parameterization used by collider event records.
//
// By convention a four-vector with negative pt marks an invalid object
// (e.g. a lepton leg that failed selection). Callers that must honor the
// convention check IsValid before computing derived quantities.
package lorentz

import "math"

// Vec3 is a cartesian 3-momentum.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Dot returns the scalar product v . w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Mag returns the euclidean magnitude of v.
func (v Vec3) Mag() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v scaled to unit length.
// The zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	m := v.Mag()
	if m == 0 {
		return v
	}
	return Vec3{X: v.X / m, Y: v.Y / m, Z: v.Z / m}
}

// Transverse returns v with its longitudinal (z) component zeroed.
func (v Vec3) Transverse() Vec3 {
	return Vec3{X: v.X, Y: v.Y}
}

// Vec4 is a four-momentum in (pt, eta, phi, mass) parameterization.
type Vec4 struct {
	Pt, Eta, Phi, M float64
}

// PtEtaPhiM constructs a four-vector from its cylindrical components.
func PtEtaPhiM(pt, eta, phi, m float64) Vec4 {
	return Vec4{Pt: pt, Eta: eta, Phi: phi, M: m}
}

// PxPyPzE constructs a four-vector from cartesian components.
func PxPyPzE(px, py, pz, e float64) Vec4 {
	pt := math.Hypot(px, py)

	var phi float64
	if px != 0 || py != 0 {
		phi = math.Atan2(py, px)
	}

	var eta float64
	switch {
	case pt != 0:
		eta = math.Asinh(pz / pt)
	case pz > 0:
		eta = math.Inf(1)
	case pz < 0:
		eta = math.Inf(-1)
	}

	// Guard against negative m^2 from floating point cancellation.
	m2 := e*e - (px*px + py*py + pz*pz)
	var m float64
	if m2 > 0 {
		m = math.Sqrt(m2)
	}

	return Vec4{Pt: pt, Eta: eta, Phi: phi, M: m}
}

// IsValid reports whether the vector is a real object.
// Negative pt marks invalid four-vectors.
func (p Vec4) IsValid() bool {
	return p.Pt >= 0
}

// Px returns the x momentum component.
func (p Vec4) Px() float64 { return p.Pt * math.Cos(p.Phi) }

// Py returns the y momentum component.
func (p Vec4) Py() float64 { return p.Pt * math.Sin(p.Phi) }

// Pz returns the longitudinal momentum component.
func (p Vec4) Pz() float64 { return p.Pt * math.Sinh(p.Eta) }

// P returns the magnitude of the 3-momentum.
func (p Vec4) P() float64 { return p.Pt * math.Cosh(p.Eta) }

// E returns the energy.
func (p Vec4) E() float64 {
	pp := p.P()
	return math.Sqrt(pp*pp + p.M*p.M)
}

// Vect returns the cartesian 3-momentum.
func (p Vec4) Vect() Vec3 {
	return Vec3{X: p.Px(), Y: p.Py(), Z: p.Pz()}
}

// Add returns the four-vector sum p + q.
func (p Vec4) Add(q Vec4) Vec4 {
	return PxPyPzE(
		p.Px()+q.Px(),
		p.Py()+q.Py(),
		p.Pz()+q.Pz(),
		p.E()+q.E(),
	)
}

// DeltaPhi returns the azimuthal separation a - b wrapped into (-pi, pi].
func DeltaPhi(a, b float64) float64 {
	d := a - b
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// MT returns the transverse mass of the (a, b) system,
//
//	mT = sqrt(2 * ptA * ptB * (1 - cos(deltaPhi(a, b))))
//
// the standard collider definition, insensitive to longitudinal momentum.
// It is symmetric in its arguments.
func MT(a, b Vec4) float64 {
	return math.Sqrt(2 * a.Pt * b.Pt * (1 - math.Cos(DeltaPhi(a.Phi, b.Phi))))
}
