// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package design

import (
	"testing"

	"github.com/emer/mixedfx/hrf"
)

func TestStimulusCounts(t *testing.T) {
	bp := BlockParams{}
	bp.Defaults()

	if bp.NVols() != 180 {
		t.Fatalf("NVols: got %v, want 180", bp.NVols())
	}
	want := bp.BlockLen * bp.Repeats
	for c := 0; c < bp.NumConds; c++ {
		stim := bp.Stimulus(c)
		ones := 0
		for _, v := range stim {
			if v == 1 {
				ones++
			}
		}
		if ones != want {
			t.Errorf("condition %v: got %v active volumes, want %v", c, ones, want)
		}
	}
}

func TestStimulusDisjoint(t *testing.T) {
	bp := BlockParams{}
	bp.Defaults()
	stims := bp.Stims()
	for v := 0; v < bp.NVols(); v++ {
		act := 0
		for c := range stims {
			if stims[c][v] == 1 {
				act++
			}
		}
		if act > 1 {
			t.Errorf("volume %v has %v conditions active simultaneously", v, act)
		}
	}
}

func TestBuild(t *testing.T) {
	bp := BlockParams{}
	bp.Defaults()
	hp := hrf.Params{}
	hp.Defaults()

	evs, err := bp.Build(hp.Kernel())
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != bp.NumConds {
		t.Fatalf("got %v EVs, want %v", len(evs), bp.NumConds)
	}
	for c, ev := range evs {
		if len(ev) != bp.NVols() {
			t.Errorf("EV %v length: got %v, want %v", c, len(ev), bp.NVols())
		}
		// convolution of a non-negative boxcar with the HRF rises above zero
		mx := 0.0
		for _, v := range ev {
			if v > mx {
				mx = v
			}
		}
		if mx <= 0 {
			t.Errorf("EV %v has no positive response", c)
		}
	}
	// response before the first onset must be zero
	if evs[1][0] != 0 {
		t.Errorf("EV 1 should be 0 before its onset, got %v", evs[1][0])
	}
}

func TestBuildBadTiming(t *testing.T) {
	bp := BlockParams{}
	bp.Defaults()
	bp.Offsets = []int{0, 15, 50} // 50+15 > 60
	hp := hrf.Params{}
	hp.Defaults()
	if _, err := bp.Build(hp.Kernel()); err == nil {
		t.Errorf("expected timing error for block exceeding cycle")
	}
}
