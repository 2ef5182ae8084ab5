// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lme

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// LikRatio is the result of a likelihood-ratio comparison between a
// smaller (r0) and larger (r1) model.
type LikRatio struct {
	Chi2    float64 `desc:"likelihood-ratio statistic 2*(ll1 - ll0), floored at 0"`
	DF      int     `desc:"difference in parameter counts"`
	P       float64 `desc:"chi-squared p-value"`
	LogLik0 float64
	LogLik1 float64
	AIC0    float64
	AIC1    float64
	BIC0    float64
	BIC1    float64
}

// LikRatioTest compares two fitted models via a likelihood-ratio test,
// with r1 the larger (more parameters) model.  Both must be fit with the
// same likelihood; models differing in fixed effects must use ML.
func LikRatioTest(r0, r1 *Results) (*LikRatio, error) {
	if r0.Meth != r1.Meth {
		return nil, fmt.Errorf("lme: cannot compare %v fit to %v fit", r0.Meth, r1.Meth)
	}
	if r0.Meth == REML && r0.NFixed != r1.NFixed {
		return nil, fmt.Errorf("lme: REML fits with different fixed effects are not comparable -- use ML")
	}
	df := r1.NParams() - r0.NParams()
	if df <= 0 {
		return nil, fmt.Errorf("lme: model 1 must have more parameters than model 0 (got %d vs %d)", r1.NParams(), r0.NParams())
	}
	chi2 := 2 * (r1.LogLik - r0.LogLik)
	if chi2 < 0 {
		chi2 = 0
	}
	cs := distuv.ChiSquared{K: float64(df)}
	lr := &LikRatio{
		Chi2:    chi2,
		DF:      df,
		P:       1 - cs.CDF(chi2),
		LogLik0: r0.LogLik,
		LogLik1: r1.LogLik,
		AIC0:    r0.AIC(),
		AIC1:    r1.AIC(),
		BIC0:    r0.BIC(),
		BIC1:    r1.BIC(),
	}
	return lr, nil
}

// Summary returns a human-readable comparison table.
func (lr *LikRatio) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %-8s %12s %12s %12s\n", "", "LogLik", "AIC", "BIC")
	fmt.Fprintf(&sb, "  %-8s %12.4f %12.4f %12.4f\n", "Model 0", lr.LogLik0, lr.AIC0, lr.BIC0)
	fmt.Fprintf(&sb, "  %-8s %12.4f %12.4f %12.4f\n", "Model 1", lr.LogLik1, lr.AIC1, lr.BIC1)
	fmt.Fprintf(&sb, "  LR Chi2(%d) = %.4f  p = %.4g\n", lr.DF, lr.Chi2, lr.P)
	return sb.String()
}
