// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lme

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Results holds the fitted model: fixed-effect estimates and their
// covariance, random-effect SDs, residual parameters, and the
// log-likelihood used for model comparison.
type Results struct {
	CoefNames  []string      `desc:"fixed-effect names, intercept first"`
	Coefs      []float64     `desc:"fixed-effect estimates"`
	StdErrs    []float64     `desc:"standard errors of the fixed effects"`
	Vcov       *mat.SymDense `desc:"covariance matrix of the fixed-effect estimates"`
	RandNames  []string      `desc:"random-effect names"`
	RandSD     []float64     `desc:"estimated random-effect standard deviations"`
	Sigma      float64       `desc:"estimated residual standard deviation"`
	Rho        float64       `desc:"estimated AR(1) correlation -- 0 for iid residuals"`
	Meth       FitMethod     `desc:"likelihood used"`
	Cor        CorStruct     `desc:"residual correlation structure"`
	Groups     string        `desc:"grouping column name"`
	LogLik     float64       `desc:"maximized log-likelihood"`
	NObs       int           `desc:"number of observations"`
	NGroups    int           `desc:"number of groups"`
	NFixed     int           `desc:"number of fixed effects"`
	NVarParams int           `desc:"number of variance parameters"`
	Converged  bool          `desc:"optimizer reported function convergence"`
}

// NParams returns the total parameter count used for AIC / BIC.
func (rs *Results) NParams() int {
	return rs.NFixed + rs.NVarParams
}

// AIC returns the Akaike information criterion.
func (rs *Results) AIC() float64 {
	return -2*rs.LogLik + 2*float64(rs.NParams())
}

// BIC returns the Bayesian information criterion.
func (rs *Results) BIC() float64 {
	return -2*rs.LogLik + float64(rs.NParams())*math.Log(float64(rs.NObs))
}

// DenDF returns the denominator degrees of freedom used for t tests on
// the fixed effects: NObs - NGroups - NFixed + 1 (containment-style,
// for within-group regressors).
func (rs *Results) DenDF() float64 {
	return float64(rs.NObs - rs.NGroups - rs.NFixed + 1)
}

// ContrastTest is the result of a linear contrast test on the fixed
// effects.
type ContrastTest struct {
	Est float64 `desc:"estimated value of the contrast c'beta"`
	SE  float64 `desc:"standard error sqrt(c' Cov c)"`
	T   float64 `desc:"t statistic"`
	DF  float64 `desc:"denominator degrees of freedom"`
	P   float64 `desc:"p-value"`
}

// Contrast tests the linear combination c of the fixed effects:
// t = c'beta / sqrt(c' Cov(beta) c), with sides = 1 for the one-sided
// alternative c'beta > 0, or 2 for the two-sided alternative.
func (rs *Results) Contrast(c []float64, sides int) (*ContrastTest, error) {
	if len(c) != rs.NFixed {
		return nil, fmt.Errorf("lme: contrast length %d != number of fixed effects %d", len(c), rs.NFixed)
	}
	if sides != 1 && sides != 2 {
		return nil, fmt.Errorf("lme: sides must be 1 or 2, got %d", sides)
	}
	cv := mat.NewVecDense(len(c), c)
	est := 0.0
	for j, cj := range c {
		est += cj * rs.Coefs[j]
	}
	var tmp mat.VecDense
	tmp.MulVec(rs.Vcov, cv)
	se := math.Sqrt(mat.Dot(cv, &tmp))
	tval := est / se
	df := rs.DenDF()
	td := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	var p float64
	if sides == 1 {
		p = 1 - td.CDF(tval)
	} else {
		p = 2 * td.CDF(-math.Abs(tval))
	}
	return &ContrastTest{Est: est, SE: se, T: tval, DF: df, P: p}, nil
}

// CoefTest returns the t statistic and two-sided p-value for the j-th
// fixed effect against zero.
func (rs *Results) CoefTest(j int) (tval, p float64) {
	tval = rs.Coefs[j] / rs.StdErrs[j]
	td := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: rs.DenDF()}
	p = 2 * td.CDF(-math.Abs(tval))
	return
}

// Summary returns a human-readable summary of the fitted model.
func (rs *Results) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Linear mixed-effects model fit by %v (%v residuals)\n", rs.Meth, rs.Cor)
	fmt.Fprintf(&sb, "  LogLik: %.4f  AIC: %.4f  BIC: %.4f\n", rs.LogLik, rs.AIC(), rs.BIC())
	if rs.Groups != "" {
		fmt.Fprintf(&sb, "  Groups: %s (%d)  Obs: %d\n", rs.Groups, rs.NGroups, rs.NObs)
	} else {
		fmt.Fprintf(&sb, "  Obs: %d\n", rs.NObs)
	}
	if len(rs.RandSD) > 0 {
		sb.WriteString("Random effects (SD):\n")
		for k, nm := range rs.RandNames {
			fmt.Fprintf(&sb, "  %-12s %.4f\n", nm, rs.RandSD[k])
		}
	}
	fmt.Fprintf(&sb, "Residual SD: %.4f", rs.Sigma)
	if rs.Cor == CorAR1 {
		fmt.Fprintf(&sb, "  AR(1) Rho: %.4f", rs.Rho)
	}
	sb.WriteString("\nFixed effects:\n")
	fmt.Fprintf(&sb, "  %-12s %10s %10s %8s %10s\n", "", "Value", "Std.Error", "t", "p")
	for j, nm := range rs.CoefNames {
		tval, p := rs.CoefTest(j)
		fmt.Fprintf(&sb, "  %-12s %10.4f %10.4f %8.3f %10.2g\n", nm, rs.Coefs[j], rs.StdErrs[j], tval, p)
	}
	return sb.String()
}
