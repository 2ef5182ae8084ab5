// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package design builds block experimental designs for voxel-level fMRI
simulation: per-condition {0,1} stimulus vectors, and the convolved
explanatory variables (EVs) that form the fixed-effects design matrix.

Conditions are presented in blocks within a repeating cycle, with any
remaining volumes at the end of each cycle serving as the rest baseline.
The rest condition is never modeled: all conditions plus rest sum to a
constant over each cycle, so including it would make the design matrix
rank deficient.
*/
package design

import (
	"fmt"

	"github.com/emer/mixedfx/hrf"
)

// BlockParams parameterizes a block design with NumConds conditions
// presented within a repeating cycle of CycleLen volumes.
type BlockParams struct {
	BlockLen int   `min:"1" def:"15" desc:"number of volumes each condition block stays on"`
	NumConds int   `min:"1" def:"3" desc:"number of experimental conditions (excluding rest)"`
	CycleLen int   `min:"1" def:"60" desc:"volumes per cycle -- must hold all condition blocks, remainder is rest"`
	Repeats  int   `min:"1" def:"3" desc:"number of cycle repetitions"`
	Offsets  []int `desc:"per-condition block onset within each cycle, in volumes -- nil = consecutive blocks starting at 0"`
}

func (bp *BlockParams) Defaults() {
	bp.BlockLen = 15
	bp.NumConds = 3
	bp.CycleLen = 60
	bp.Repeats = 3
	bp.Offsets = nil
}

// Update computes default consecutive offsets if none are set.
func (bp *BlockParams) Update() {
	if bp.Offsets == nil {
		bp.Offsets = make([]int, bp.NumConds)
		for c := range bp.Offsets {
			bp.Offsets[c] = c * bp.BlockLen
		}
	}
}

// NVols returns the total number of volumes T = CycleLen * Repeats.
func (bp *BlockParams) NVols() int {
	return bp.CycleLen * bp.Repeats
}

// Onsets returns the block onset volumes for the given condition,
// one per repeat.
func (bp *BlockParams) Onsets(cond int) []int {
	ons := make([]int, bp.Repeats)
	for r := range ons {
		ons[r] = r*bp.CycleLen + bp.Offsets[cond]
	}
	return ons
}

// Durs returns the block durations for the given condition, one per repeat.
func (bp *BlockParams) Durs() []int {
	durs := make([]int, bp.Repeats)
	for r := range durs {
		durs[r] = bp.BlockLen
	}
	return durs
}

// Stimulus returns the {0,1} stimulus vector for the given condition,
// of length NVols.
func (bp *BlockParams) Stimulus(cond int) []float64 {
	bp.Update()
	return hrf.Boxcar(bp.NVols(), bp.Onsets(cond), bp.Durs())
}

// Stims returns the stimulus vectors for all conditions.
func (bp *BlockParams) Stims() [][]float64 {
	bp.Update()
	stims := make([][]float64, bp.NumConds)
	for c := range stims {
		stims[c] = bp.Stimulus(c)
	}
	return stims
}

// Build convolves each condition's stimulus vector with the given HRF
// kernel, returning one EV per condition, each of length NVols.
// Block timing must fit within the cycle -- an error is returned if a
// condition block would extend past the end of its cycle.
func (bp *BlockParams) Build(kernel []float64) ([][]float64, error) {
	bp.Update()
	for c := 0; c < bp.NumConds; c++ {
		if bp.Offsets[c]+bp.BlockLen > bp.CycleLen {
			return nil, fmt.Errorf("design: condition %d block [%d,%d) exceeds cycle length %d", c, bp.Offsets[c], bp.Offsets[c]+bp.BlockLen, bp.CycleLen)
		}
	}
	evs := make([][]float64, bp.NumConds)
	for c := range evs {
		evs[c] = hrf.Regressor(bp.NVols(), bp.Onsets(c), bp.Durs(), kernel)
	}
	return evs, nil
}
