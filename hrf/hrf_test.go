// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hrf

import (
	"math"
	"testing"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-8

func TestKernelShape(t *testing.T) {
	hp := Params{}
	hp.Defaults()
	k := hp.Kernel()

	if len(k) != 33 {
		t.Errorf("kernel length: got %v, want 33", len(k))
	}
	if math.Abs(k[0]) > difTol {
		t.Errorf("kernel at t=0 should be ~0, got %v", k[0])
	}
	mx := 0.0
	mxi := 0
	for i, v := range k {
		if v > mx {
			mx = v
			mxi = i
		}
	}
	if math.Abs(mx-1) > difTol {
		t.Errorf("kernel peak should be normalized to 1, got %v", mx)
	}
	if mxi != 5 && mxi != 6 {
		t.Errorf("kernel peak should be near 5-6 sec (PeakDelay=6, mode=5), got index %v", mxi)
	}
	// undershoot: kernel goes negative after the peak returns to baseline
	neg := false
	for _, v := range k[10:] {
		if v < 0 {
			neg = true
			break
		}
	}
	if !neg {
		t.Errorf("kernel should have a negative undershoot phase")
	}
}

func TestBoxcar(t *testing.T) {
	stim := Boxcar(20, []int{2, 10}, []int{3, 5})
	ones := 0
	for _, v := range stim {
		if v != 0 && v != 1 {
			t.Errorf("boxcar values must be 0 or 1, got %v", v)
		}
		if v == 1 {
			ones++
		}
	}
	if ones != 8 {
		t.Errorf("boxcar ones: got %v, want 8", ones)
	}
	if stim[2] != 1 || stim[4] != 1 || stim[5] != 0 {
		t.Errorf("boxcar window [2,5) wrong: %v", stim[:6])
	}
}

func TestConvolveIdentity(t *testing.T) {
	stim := []float64{0, 1, 0, 0, 0, 0}
	kern := []float64{1}
	out := Convolve(stim, kern)
	for i := range stim {
		if out[i] != stim[i] {
			t.Errorf("unit kernel convolution should be identity at %v: got %v want %v", i, out[i], stim[i])
		}
	}
}

func TestConvolveImpulse(t *testing.T) {
	// an impulse at onset k reproduces the kernel shifted by k
	hp := Params{}
	hp.Defaults()
	kern := hp.Kernel()
	nvol := 50
	stim := Boxcar(nvol, []int{4}, []int{1})
	out := Convolve(stim, kern)
	for j := 0; j < len(kern) && 4+j < nvol; j++ {
		if math.Abs(out[4+j]-kern[j]) > difTol {
			t.Errorf("impulse response at %v: got %v, want %v", 4+j, out[4+j], kern[j])
		}
	}
	for j := 0; j < 4; j++ {
		if out[j] != 0 {
			t.Errorf("response before onset at %v should be 0, got %v", j, out[j])
		}
	}
}
