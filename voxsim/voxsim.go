// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package voxsim simulates synthetic single-voxel BOLD time series for one
or many subjects, and assembles them into a long-format etable.Table for
mixed-effects model fitting.

Each subject's series is a deterministic function of the population fixed
effects, that subject's random-effect draws, the EV regressors, and one
independent Gaussian noise draw per volume.  All randomness flows through
an explicitly passed generator: all random-effect draws for all subjects
are produced by a single DrawRandEffs call before any noise is drawn, so
reproducibility depends only on the seed, not on incidental call order.
*/
package voxsim

import (
	"fmt"
	"strconv"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// LogPrec is precision for saving float values in tables
const LogPrec = 4

// SimParams parameterizes a multi-subject voxel simulation.
// Coefficient order is always intercept first, then one per EV.
type SimParams struct {
	NSubj   int       `min:"1" def:"10" desc:"number of subjects"`
	Coefs   []float64 `desc:"population fixed-effect coefficients: intercept, then one per EV"`
	ReSDs   []float64 `desc:"random-effect standard deviations, same order as Coefs -- all zero = homogeneous population"`
	NoiseSD float64   `min:"0" def:"0.5" desc:"standard deviation of the per-volume Gaussian noise"`
	Seed    uint64    `def:"42" desc:"random seed -- reruns with the same seed are bit-identical"`
}

func (sp *SimParams) Defaults() {
	sp.NSubj = 10
	sp.Coefs = []float64{3, 2, 5, 4}
	sp.ReSDs = []float64{1.5, 1, 0.5, 0.8}
	sp.NoiseSD = 0.5
	sp.Seed = 42
}

// Population holds the results of a multi-subject simulation.
type Population struct {
	SubjIDs  []string    `desc:"subject identifiers, in stacking order"`
	RandEffs [][]float64 `desc:"per-subject random-effect draws, one row per subject, intercept first"`
	Series   [][]float64 `desc:"per-subject simulated BOLD series"`
}

// DrawRandEffs draws the random effects for all n subjects in one call,
// in subject-major order, from the given source.  draws[i][j] is subject
// i's deviation for coefficient j (intercept first), sampled from a
// zero-mean normal with the coefficient-specific SD.
func DrawRandEffs(src rand.Source, sds []float64, n int) [][]float64 {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	draws := make([][]float64, n)
	for i := range draws {
		draws[i] = make([]float64, len(sds))
		for j, sd := range sds {
			draws[i][j] = sd * norm.Rand()
		}
	}
	return draws
}

// SubjectSeries simulates one subject's BOLD series:
// intercept + sum over EVs of ev * (fixed + random coefficient), plus
// independent Gaussian noise per volume.  re == nil simulates a subject
// drawn from a homogeneous population (no random effects), which is also
// the single-subject case.
func SubjectSeries(evs [][]float64, coefs []float64, re []float64, noiseSD float64, src rand.Source) []float64 {
	nvol := len(evs[0])
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	y := make([]float64, nvol)
	for t := range y {
		v := coefs[0]
		if re != nil {
			v += re[0]
		}
		for c, ev := range evs {
			b := coefs[c+1]
			if re != nil {
				b += re[c+1]
			}
			v += ev[t] * b
		}
		y[t] = v + noiseSD*norm.Rand()
	}
	return y
}

// Simulate runs the full multi-subject simulation: one generator seeded
// from Seed, all random-effect draws first, then each subject's noise
// draws in subject order.
func (sp *SimParams) Simulate(evs [][]float64) *Population {
	src := rand.NewSource(sp.Seed)
	pop := &Population{
		SubjIDs: make([]string, sp.NSubj),
		Series:  make([][]float64, sp.NSubj),
	}
	pop.RandEffs = DrawRandEffs(src, sp.ReSDs, sp.NSubj)
	for i := 0; i < sp.NSubj; i++ {
		pop.SubjIDs[i] = fmt.Sprintf("S%02d", i+1)
		pop.Series[i] = SubjectSeries(evs, sp.Coefs, pop.RandEffs[i], sp.NoiseSD, src)
	}
	return pop
}

// EVNames returns the standard column names for the given number of EVs.
func EVNames(nevs int) []string {
	nms := make([]string, nevs)
	for c := range nms {
		nms[c] = fmt.Sprintf("EV%d", c+1)
	}
	return nms
}

// PopulationTable assembles the per-subject series into one long-format
// table: one row per (subject, volume), grouped contiguously by subject
// in stacking order, with intra-subject rows in volume order.  Subject is
// a string (categorical) column, and the EV regressors are replicated for
// each subject.
func PopulationTable(pop *Population, evs [][]float64) *etable.Table {
	nvol := len(evs[0])
	nsubj := len(pop.Series)

	dt := &etable.Table{}
	dt.SetMetaData("name", "VoxelLong")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{"Subject", etensor.STRING, nil, nil},
		{"Volume", etensor.INT64, nil, nil},
		{"BOLD", etensor.FLOAT64, nil, nil},
	}
	for _, nm := range EVNames(len(evs)) {
		sch = append(sch, etable.Column{nm, etensor.FLOAT64, nil, nil})
	}
	dt.SetFromSchema(sch, nsubj*nvol)

	row := 0
	for i := 0; i < nsubj; i++ {
		for t := 0; t < nvol; t++ {
			dt.SetCellString("Subject", row, pop.SubjIDs[i])
			dt.SetCellFloat("Volume", row, float64(t))
			dt.SetCellFloat("BOLD", row, pop.Series[i][t])
			for c := range evs {
				dt.SetCellFloat(fmt.Sprintf("EV%d", c+1), row, evs[c][t])
			}
			row++
		}
	}
	return dt
}
