// Package tau registers tau-specific derived quantities.
package tau

import (
	"github.com/hupe1980/hepdf/defaults"
	"github.com/hupe1980/hepdf/frame"
)

// DecayMode registers the decay mode of the tau at the given pair position.
func DecayMode(df *frame.EventFrame, outputname string, position int, pairname, decaymodecolumn string) (*frame.EventFrame, error) {
	return frame.Define2(df, outputname, func(pair, decaymode []int32) int32 {
		index := int(frame.At(pair, position, -1))
		return frame.At(decaymode, index, defaults.Int)
	}, pairname, decaymodecolumn)
}

// GenMatch registers the generator match code of the tau at the given pair
// position. Codes are:
//
//	1 = prompt electron
//	2 = prompt muon
//	3 = tau->e decay
//	4 = tau->mu decay
//	5 = hadronic tau decay
//	0 = unknown or unmatched
func GenMatch(df *frame.EventFrame, outputname string, position int, pairname, genmatchcolumn string) (*frame.EventFrame, error) {
	return frame.Define2(df, outputname, func(pair []int32, genmatch []uint8) uint8 {
		index := int(frame.At(pair, position, -1))
		return frame.At(genmatch, index, defaults.UChar)
	}, pairname, genmatchcolumn)
}

// MatchingJetPt registers the pt of the reco jet associated with the tau at
// the given pair position.
func MatchingJetPt(df *frame.EventFrame, outputname string, position int, pairname, taujetIndex, jetptColumn string) (*frame.EventFrame, error) {
	return frame.Define3(df, outputname, func(pair, taujets []int32, jetpt []float32) float32 {
		tauindex := int(frame.At(pair, position, -1))
		jetindex := int(frame.At(taujets, tauindex, -1))
		return frame.At(jetpt, jetindex, defaults.Float)
	}, pairname, taujetIndex, jetptColumn)
}

// MatchingGenJetPt registers the pt of the gen jet associated with the reco
// jet, which is associated with the tau at the given pair position:
//
//	Tau --> recoJet --> GenJet
//
// The chain degrades to the float sentinel as soon as any association is
// missing.
func MatchingGenJetPt(df *frame.EventFrame, outputname string, position int, pairname, taujetIndex, genjetIndex, genjetptColumn string) (*frame.EventFrame, error) {
	return frame.Define4(df, outputname, func(pair, taujets, genjets []int32, genjetpt []float32) float32 {
		tauindex := int(frame.At(pair, position, -1))
		jetindex := int(frame.At(taujets, tauindex, -1))
		genjetindex := int(frame.At(genjets, jetindex, -1))
		return frame.At(genjetpt, genjetindex, defaults.Float)
	}, pairname, taujetIndex, genjetIndex, genjetptColumn)
}
