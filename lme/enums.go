// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lme

import (
	"github.com/goki/ki/kit"
)

// FitMethod is the likelihood used for estimating the variance parameters.
type FitMethod int32

const (
	// ML is full maximum likelihood -- required when comparing models
	// that differ in their fixed effects.
	ML FitMethod = iota

	// REML is restricted maximum likelihood, which corrects the variance
	// estimates for the degrees of freedom used by the fixed effects.
	REML

	FitMethodN
)

var KiT_FitMethod = kit.Enums.AddEnum(FitMethodN, false, nil)

func (ev FitMethod) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *FitMethod) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

func (ev FitMethod) String() string {
	switch ev {
	case ML:
		return "ML"
	case REML:
		return "REML"
	}
	return "FitMethodN"
}

// CorStruct is the within-group residual correlation structure.
type CorStruct int32

const (
	// CorIID is independent, identically distributed residuals.
	CorIID CorStruct = iota

	// CorAR1 is a first-order autoregressive correlation within each
	// group: corr(e_j, e_k) = rho^|j-k| in volume order.
	CorAR1

	CorStructN
)

var KiT_CorStruct = kit.Enums.AddEnum(CorStructN, false, nil)

func (ev CorStruct) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *CorStruct) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

func (ev CorStruct) String() string {
	switch ev {
	case CorIID:
		return "IID"
	case CorAR1:
		return "AR1"
	}
	return "CorStructN"
}
