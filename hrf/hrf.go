// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package hrf provides the canonical double-gamma hemodynamic response
function (HRF) kernel, and convolution of boxcar stimulus vectors with
that kernel to produce expected BOLD regressors (explanatory variables).

The kernel is the difference of two gamma densities: a positive response
peaking around 6 sec after stimulus onset, minus a scaled-down undershoot
peaking around 16 sec, sampled at the volume acquisition interval (TR)
and normalized so the peak value is 1.
*/
package hrf

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Params parameterizes the double-gamma HRF kernel.
// All times are in seconds.
type Params struct {
	TR          float64 `min:"0" def:"1" desc:"volume acquisition interval (repetition time) -- the kernel is sampled once per TR"`
	PeakDelay   float64 `min:"0" def:"6" desc:"delay of the positive response peak from stimulus onset"`
	UshootDelay float64 `min:"0" def:"16" desc:"delay of the post-stimulus undershoot peak"`
	PeakDisp    float64 `min:"0" def:"1" desc:"dispersion of the positive response gamma"`
	UshootDisp  float64 `min:"0" def:"1" desc:"dispersion of the undershoot gamma"`
	Ratio       float64 `min:"0" def:"6" desc:"ratio of response magnitude to undershoot magnitude"`
	Dur         float64 `min:"0" def:"32" desc:"total kernel duration -- response is effectively zero past this point"`
}

func (hp *Params) Defaults() {
	hp.TR = 1
	hp.PeakDelay = 6
	hp.UshootDelay = 16
	hp.PeakDisp = 1
	hp.UshootDisp = 1
	hp.Ratio = 6
	hp.Dur = 32
}

func (hp *Params) Update() {
}

// Kernel returns the HRF kernel sampled at TR intervals over Dur seconds,
// normalized to a peak value of 1.
func (hp *Params) Kernel() []float64 {
	n := int(hp.Dur/hp.TR) + 1
	peak := distuv.Gamma{Alpha: hp.PeakDelay / hp.PeakDisp, Beta: 1 / hp.PeakDisp}
	ushoot := distuv.Gamma{Alpha: hp.UshootDelay / hp.UshootDisp, Beta: 1 / hp.UshootDisp}
	k := make([]float64, n)
	mx := 0.0
	for i := range k {
		t := float64(i) * hp.TR
		k[i] = peak.Prob(t) - ushoot.Prob(t)/hp.Ratio
		if k[i] > mx {
			mx = k[i]
		}
	}
	if mx > 0 {
		for i := range k {
			k[i] /= mx
		}
	}
	return k
}

// Convolve convolves the stimulus vector with the kernel,
// truncating the result to the length of the stimulus vector.
func Convolve(stim, kernel []float64) []float64 {
	out := make([]float64, len(stim))
	for t := range out {
		ke := len(kernel) - 1
		if t < ke {
			ke = t
		}
		sum := 0.0
		for j := 0; j <= ke; j++ {
			sum += kernel[j] * stim[t-j]
		}
		out[t] = sum
	}
	return out
}

// Boxcar returns a {0,1} stimulus vector of length nvol with 1s over
// each [onset, onset+dur) window, in volumes.  Onsets and durations must
// stay within [0, nvol) -- consistent experiment timing is the caller's
// responsibility and is not checked here.
func Boxcar(nvol int, onsets, durs []int) []float64 {
	stim := make([]float64, nvol)
	for i, on := range onsets {
		for t := on; t < on+durs[i]; t++ {
			stim[t] = 1
		}
	}
	return stim
}

// Regressor builds the boxcar for the given onsets and durations and
// convolves it with the kernel, producing one expected BOLD regressor
// of length nvol.
func Regressor(nvol int, onsets, durs []int, kernel []float64) []float64 {
	return Convolve(Boxcar(nvol, onsets, durs), kernel)
}
