package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/hupe1980/hepdf"
	"github.com/hupe1980/hepdf/blobstore"
	"github.com/hupe1980/hepdf/frame"
	"github.com/hupe1980/hepdf/lorentz"
	"github.com/hupe1980/hepdf/quantities"
	"github.com/hupe1980/hepdf/quantities/tau"
)

func main() {
	rng := rand.New(rand.NewSource(4711))
	numEvents := 10000

	// Synthetic NanoAOD-style inputs: per-event tau pairs and MET.
	pairs := make([][]int32, numEvents)
	tauJetIdx := make([][]int32, numEvents)
	jetGenJetIdx := make([][]int32, numEvents)
	jetPt := make([][]float32, numEvents)
	genJetPt := make([][]float32, numEvents)
	p41 := make([]lorentz.Vec4, numEvents)
	p42 := make([]lorentz.Vec4, numEvents)
	metP4 := make([]lorentz.Vec4, numEvents)

	for i := 0; i < numEvents; i++ {
		pairs[i] = []int32{0, 1}
		tauJetIdx[i] = []int32{int32(rng.Intn(3)) - 1, 0}
		jetGenJetIdx[i] = []int32{0, -1}
		jetPt[i] = []float32{40 + rng.Float32()*60, 25 + rng.Float32()*30}
		genJetPt[i] = []float32{35 + rng.Float32()*50}

		p41[i] = lorentz.PtEtaPhiM(20+rng.Float64()*80, rng.Float64()*4-2, rng.Float64()*2*math.Pi-math.Pi, 1.777)
		p42[i] = lorentz.PtEtaPhiM(20+rng.Float64()*60, rng.Float64()*4-2, rng.Float64()*2*math.Pi-math.Pi, 1.777)
		metP4[i] = lorentz.PtEtaPhiM(rng.Float64()*120, 0, rng.Float64()*2*math.Pi-math.Pi, 0)
	}

	df, err := hepdf.NewFrame(numEvents).
		Compression(frame.CompressionZSTD).
		VecI32("dileptonpair", pairs).
		VecI32("Tau_jetIdx", tauJetIdx).
		VecI32("Jet_genJetIdx", jetGenJetIdx).
		VecF32("Jet_pt", jetPt).
		VecF32("GenJet_pt", genJetPt).
		P4("p4_1", p41).
		P4("p4_2", p42).
		P4("met_p4", metP4).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	// Kinematics of the leading leg.
	df, err = quantities.Pt(df, "pt_1", "p4_1")
	if err != nil {
		log.Fatal(err)
	}
	df, _ = quantities.Eta(df, "eta_1", "p4_1")
	df, _ = quantities.Phi(df, "phi_1", "p4_1")
	df, _ = quantities.Mass(df, "m_1", "p4_1")

	// Dilepton system quantities.
	df, _ = quantities.MVis(df, "m_vis", "p4_1", "p4_2")
	df, _ = quantities.PZetaMissVis(df, "pzetamissvis", "p4_1", "p4_2", "met_p4")
	df, _ = quantities.MTDileptonMET(df, "mt_tot", "p4_1", "p4_2", "met_p4")
	df, _ = quantities.MT(df, "mt_1", "p4_1", "met_p4")

	// Jet matching through the tau -> jet -> genjet chain.
	df, _ = tau.MatchingJetPt(df, "jpt_1", 0, "dileptonpair", "Tau_jetIdx", "Jet_pt")
	df, err = tau.MatchingGenJetPt(df, "gjpt_1", 0, "dileptonpair", "Tau_jetIdx", "Jet_genJetIdx", "GenJet_pt")
	if err != nil {
		log.Fatal(err)
	}

	// A simple analysis selection.
	df, err = frame.Filter1(df, "pt_cut", func(pt float32) bool { return pt > 30 }, "pt_1")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Derived columns ---")
	fmt.Println("Columns:", len(df.ColumnNames()))
	fmt.Printf("Selected: %d / %d events\n\n", df.Count(), df.NumEntries())

	mvis, _ := frame.ColumnValues[float32](df, "m_vis")
	fmt.Printf("m_vis[0..4] = %v\n", mvis[:5])

	// Snapshot round-trip through a local store.
	ctx := context.Background()
	store, err := blobstore.NewLocalStore("./data")
	if err != nil {
		log.Fatal(err)
	}

	if err := hepdf.Save(ctx, store, "ntuple.hfs", df); err != nil {
		log.Fatal(err)
	}

	loaded, err := hepdf.Open(ctx, store, "ntuple.hfs")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("\n--- Snapshot ---")
	fmt.Printf("Reloaded %d events, %d columns, %d selected\n",
		loaded.NumEntries(), len(loaded.ColumnNames()), loaded.Count())
}
