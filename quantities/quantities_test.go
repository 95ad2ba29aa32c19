package quantities

import (
	"math"
	"testing"

	"github.com/hupe1980/hepdf/defaults"
	"github.com/hupe1980/hepdf/frame"
	"github.com/hupe1980/hepdf/lorentz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newP4Frame(t *testing.T, name string, p4s []lorentz.Vec4) *frame.EventFrame {
	t.Helper()
	f, err := frame.AddColumn(frame.New(len(p4s)), name, p4s)
	require.NoError(t, err)
	return f
}

func columnF32(t *testing.T, f *frame.EventFrame, name string) []float32 {
	t.Helper()
	values, err := frame.ColumnValues[float32](f, name)
	require.NoError(t, err)
	return values
}

func TestPtEta_NoValidityCheck(t *testing.T) {
	// pt and eta write the raw value even for invalid vectors, so the
	// invalidity flag (negative pt) stays visible downstream.
	f := newP4Frame(t, "p4_1", []lorentz.Vec4{
		lorentz.PtEtaPhiM(40, 1.5, 0.5, 1.777),
		defaults.InvalidP4(),
	})

	f, err := Pt(f, "pt_1", "p4_1")
	require.NoError(t, err)
	f, err = Eta(f, "eta_1", "p4_1")
	require.NoError(t, err)

	assert.Equal(t, []float32{40, -10}, columnF32(t, f, "pt_1"))
	assert.Equal(t, []float32{1.5, -10}, columnF32(t, f, "eta_1"))
}

func TestPhiMass_SentinelOnInvalid(t *testing.T) {
	f := newP4Frame(t, "p4_1", []lorentz.Vec4{
		lorentz.PtEtaPhiM(40, 1.5, 0.5, 1.777),
		lorentz.PtEtaPhiM(-5, 2.0, 1.0, 3.0),
	})

	f, err := Phi(f, "phi_1", "p4_1")
	require.NoError(t, err)
	f, err = Mass(f, "m_1", "p4_1")
	require.NoError(t, err)

	phi := columnF32(t, f, "phi_1")
	mass := columnF32(t, f, "m_1")

	assert.InDelta(t, 0.5, phi[0], 1e-6)
	assert.InDelta(t, 1.777, mass[0], 1e-6)
	assert.Equal(t, defaults.Float, phi[1])
	assert.Equal(t, defaults.Float, mass[1])
}

func TestMVis(t *testing.T) {
	// Two massless back-to-back legs: m_vis = sqrt(4 * pt1 * pt2).
	f := frame.New(2)
	f, err := frame.AddColumn(f, "p4_1", []lorentz.Vec4{
		lorentz.PtEtaPhiM(40, 0, 0, 0),
		defaults.InvalidP4(),
	})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "p4_2", []lorentz.Vec4{
		lorentz.PtEtaPhiM(30, 0, math.Pi, 0),
		lorentz.PtEtaPhiM(30, 0, math.Pi, 0),
	})
	require.NoError(t, err)

	f, err = MVis(f, "m_vis", "p4_1", "p4_2")
	require.NoError(t, err)

	mvis := columnF32(t, f, "m_vis")
	assert.InDelta(t, math.Sqrt(4*40*30), mvis[0], 1e-3)
	assert.Equal(t, defaults.Float, mvis[1])
}

func TestPZetaMissVis(t *testing.T) {
	// Legs along x and y: the bisector is (1,1)/sqrt(2).
	// D_zeta = met.zeta - 0.85 * (vis.zeta)
	//        = 20/sqrt(2) - 0.85 * 70/sqrt(2)
	f := frame.New(1)
	f, err := frame.AddColumn(f, "p4_1", []lorentz.Vec4{lorentz.PtEtaPhiM(40, 0, 0, 0.105)})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "p4_2", []lorentz.Vec4{lorentz.PtEtaPhiM(30, 0, math.Pi/2, 0.105)})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "met_p4", []lorentz.Vec4{lorentz.PtEtaPhiM(20, 0, 0, 0)})
	require.NoError(t, err)

	f, err = PZetaMissVis(f, "pzetamissvis", "p4_1", "p4_2", "met_p4")
	require.NoError(t, err)

	values, err := frame.ColumnValues[float64](f, "pzetamissvis")
	require.NoError(t, err)

	want := (20 - 0.85*70) / math.Sqrt2
	assert.InDelta(t, want, values[0], 1e-9)
}

func TestPZetaMissVis_BackToBackLegs(t *testing.T) {
	// Back-to-back legs have no bisector (the unit directions cancel); the
	// projection collapses to zero but stays finite.
	f := frame.New(1)
	f, err := frame.AddColumn(f, "p4_1", []lorentz.Vec4{lorentz.PtEtaPhiM(40, 0, 0, 0)})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "p4_2", []lorentz.Vec4{lorentz.PtEtaPhiM(30, 0, math.Pi, 0)})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "met_p4", []lorentz.Vec4{lorentz.PtEtaPhiM(20, 0, 0, 0)})
	require.NoError(t, err)

	f, err = PZetaMissVis(f, "pzetamissvis", "p4_1", "p4_2", "met_p4")
	require.NoError(t, err)

	values, err := frame.ColumnValues[float64](f, "pzetamissvis")
	require.NoError(t, err)

	assert.False(t, math.IsNaN(values[0]))
	assert.InDelta(t, 0, values[0], 1e-9)
}

func TestMT(t *testing.T) {
	f := frame.New(2)
	f, err := frame.AddColumn(f, "p4_1", []lorentz.Vec4{
		lorentz.PtEtaPhiM(50, 0.3, 0, 0.105),
		lorentz.PtEtaPhiM(50, 0.3, 1.2, 0.105),
	})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "met_p4", []lorentz.Vec4{
		lorentz.PtEtaPhiM(20, 0, math.Pi, 0),
		lorentz.PtEtaPhiM(20, 0, 1.2, 0),
	})
	require.NoError(t, err)

	f, err = MT(f, "mt_1", "p4_1", "met_p4")
	require.NoError(t, err)

	mt := columnF32(t, f, "mt_1")

	// Back-to-back: mt = sqrt(2 * pt * met * (1 - cos(pi))) = sqrt(4 * pt * met).
	assert.InDelta(t, math.Sqrt(4*50*20), mt[0], 1e-3)
	// Aligned: delta phi = 0, mt = 0.
	assert.InDelta(t, 0, mt[1], 1e-3)
}

func TestMTDileptonMET(t *testing.T) {
	f := frame.New(1)
	f, err := frame.AddColumn(f, "p4_1", []lorentz.Vec4{lorentz.PtEtaPhiM(40, 0, 0, 0)})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "p4_2", []lorentz.Vec4{lorentz.PtEtaPhiM(30, 0, 0, 0)})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "met_p4", []lorentz.Vec4{lorentz.PtEtaPhiM(20, 0, math.Pi, 0)})
	require.NoError(t, err)

	f, err = MTDileptonMET(f, "mt_tot", "p4_1", "p4_2", "met_p4")
	require.NoError(t, err)

	mt := columnF32(t, f, "mt_tot")

	// The aligned legs add to a pt=70 system back-to-back with the MET.
	assert.InDelta(t, math.Sqrt(4*70*20), mt[0], 1e-3)
}

func newLookupFrame(t *testing.T) *frame.EventFrame {
	t.Helper()

	// One event: pair indices [2, 5] over per-object arrays of length 3, so
	// position 0 resolves and position 1 is out of range.
	f := frame.New(1)
	f, err := frame.AddColumn(f, "dileptonpair", [][]int32{{2, 5}})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "Tau_dxy", [][]float32{{1, 2, 3}})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "Tau_dz", [][]float32{{0.1, 0.2, 0.3}})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "Tau_charge", [][]int32{{-1, 1, -1}})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "Tau_iso", [][]float32{{0.9, 0.8, 0.7}})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "GenPart_pdgId", [][]int32{{11, 13, 15}})
	require.NoError(t, err)
	return f
}

func TestDxy(t *testing.T) {
	f := newLookupFrame(t)

	f, err := Dxy(f, "dxy_1", 0, "dileptonpair", "Tau_dxy")
	require.NoError(t, err)
	f, err = Dxy(f, "dxy_2", 1, "dileptonpair", "Tau_dxy")
	require.NoError(t, err)

	assert.Equal(t, []float32{3}, columnF32(t, f, "dxy_1"))
	assert.Equal(t, []float32{defaults.Float}, columnF32(t, f, "dxy_2"))
}

func TestDz(t *testing.T) {
	f := newLookupFrame(t)

	f, err := Dz(f, "dz_1", 0, "dileptonpair", "Tau_dz")
	require.NoError(t, err)

	dz := columnF32(t, f, "dz_1")
	assert.InDelta(t, 0.3, dz[0], 1e-6)
}

func TestCharge(t *testing.T) {
	f := newLookupFrame(t)

	f, err := Charge(f, "q_1", 0, "dileptonpair", "Tau_charge")
	require.NoError(t, err)
	f, err = Charge(f, "q_2", 1, "dileptonpair", "Tau_charge")
	require.NoError(t, err)

	q1, err := frame.ColumnValues[int32](f, "q_1")
	require.NoError(t, err)
	q2, err := frame.ColumnValues[int32](f, "q_2")
	require.NoError(t, err)

	assert.Equal(t, []int32{-1}, q1)
	assert.Equal(t, []int32{defaults.Int}, q2)
}

func TestIsolation(t *testing.T) {
	f := newLookupFrame(t)

	f, err := Isolation(f, "iso_1", 0, "dileptonpair", "Tau_iso")
	require.NoError(t, err)

	iso := columnF32(t, f, "iso_1")
	assert.InDelta(t, 0.7, iso[0], 1e-6)
}

func TestPDGID(t *testing.T) {
	f := newLookupFrame(t)

	f, err := PDGID(f, "pdgid_1", 0, "dileptonpair", "GenPart_pdgId")
	require.NoError(t, err)
	f, err = PDGID(f, "pdgid_2", 1, "dileptonpair", "GenPart_pdgId")
	require.NoError(t, err)

	id1, err := frame.ColumnValues[int32](f, "pdgid_1")
	require.NoError(t, err)
	id2, err := frame.ColumnValues[int32](f, "pdgid_2")
	require.NoError(t, err)

	assert.Equal(t, []int32{15}, id1)
	assert.Equal(t, []int32{defaults.PDGID}, id2)
}

func TestLookup_NegativePairIndex(t *testing.T) {
	// A pair slot of -1 marks "no object"; every lookup degrades to the
	// sentinel instead of faulting.
	f := frame.New(1)
	f, err := frame.AddColumn(f, "dileptonpair", [][]int32{{-1}})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "Tau_dxy", [][]float32{{1, 2, 3}})
	require.NoError(t, err)

	f, err = Dxy(f, "dxy_1", 0, "dileptonpair", "Tau_dxy")
	require.NoError(t, err)

	assert.Equal(t, []float32{defaults.Float}, columnF32(t, f, "dxy_1"))
}

func TestLookup_PositionBeyondPair(t *testing.T) {
	f := frame.New(1)
	f, err := frame.AddColumn(f, "dileptonpair", [][]int32{{0}})
	require.NoError(t, err)
	f, err = frame.AddColumn(f, "Tau_dxy", [][]float32{{1}})
	require.NoError(t, err)

	f, err = Dxy(f, "dxy_3", 2, "dileptonpair", "Tau_dxy")
	require.NoError(t, err)

	assert.Equal(t, []float32{defaults.Float}, columnF32(t, f, "dxy_3"))
}
