// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lme

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

const ln2pi = 1.8378770664093453

// nTheta returns the number of variance parameters: one log-SD per
// random effect, the log residual SD, and the AR(1) parameter if used.
func (md *Model) nTheta() int {
	n := len(md.Random) + 1
	if md.Cor == CorAR1 {
		n++
	}
	return n
}

// profile computes the profiled log-likelihood at the given variance
// parameters theta = (log RE SDs..., log sigma, atanh rho), along with
// the GLS fixed-effect estimates and X'V^-1 X.
func (md *Model) profile(gds []*groupData, theta []float64) (ll float64, beta *mat.VecDense, xtvx *mat.SymDense, err error) {
	q := len(md.Random)
	g := make([]float64, q)
	for k := 0; k < q; k++ {
		g[k] = math.Exp(2 * theta[k]) // RE variances
	}
	sig2 := math.Exp(2 * theta[q])
	rho := 0.0
	if md.Cor == CorAR1 {
		rho = math.Tanh(theta[q+1])
	}

	p := 1 + len(md.Fixed)
	nobs := 0
	logdet := 0.0
	xtvxAcc := mat.NewDense(p, p, nil)
	xtvyAcc := mat.NewVecDense(p, nil)
	chols := make([]*mat.Cholesky, len(gds))

	for gi, gd := range gds {
		t := gd.y.Len()
		nobs += t
		v := mat.NewSymDense(t, nil)
		for j := 0; j < t; j++ {
			for k := j; k < t; k++ {
				r := 0.0
				if j == k {
					r = 1
				} else if rho != 0 {
					r = math.Pow(rho, float64(k-j))
				}
				val := sig2 * r
				for m := 0; m < q; m++ {
					val += g[m] * gd.z.At(j, m) * gd.z.At(k, m)
				}
				v.SetSym(j, k, val)
			}
		}
		chol := &mat.Cholesky{}
		if !chol.Factorize(v) {
			return 0, nil, nil, fmt.Errorf("lme: V not positive definite for group %q", gd.name)
		}
		chols[gi] = chol
		logdet += chol.LogDet()

		vinvX := mat.NewDense(t, p, nil)
		if err := chol.SolveTo(vinvX, gd.x); err != nil {
			return 0, nil, nil, err
		}
		var xtvxi mat.Dense
		xtvxi.Mul(gd.x.T(), vinvX)
		xtvxAcc.Add(xtvxAcc, &xtvxi)

		vinvY := mat.NewVecDense(t, nil)
		if err := chol.SolveVecTo(vinvY, gd.y); err != nil {
			return 0, nil, nil, err
		}
		var xtvyi mat.VecDense
		xtvyi.MulVec(gd.x.T(), vinvY)
		xtvyAcc.AddVec(xtvyAcc, &xtvyi)
	}

	xtvx = mat.NewSymDense(p, nil)
	for j := 0; j < p; j++ {
		for k := j; k < p; k++ {
			xtvx.SetSym(j, k, 0.5*(xtvxAcc.At(j, k)+xtvxAcc.At(k, j)))
		}
	}

	beta = mat.NewVecDense(p, nil)
	if err := beta.SolveVec(xtvx, xtvyAcc); err != nil {
		return 0, nil, nil, fmt.Errorf("lme: X'V^-1 X is singular (rank-deficient design): %v", err)
	}

	quad := 0.0
	for gi, gd := range gds {
		t := gd.y.Len()
		fit := mat.NewVecDense(t, nil)
		fit.MulVec(gd.x, beta)
		ri := mat.NewVecDense(t, nil)
		ri.SubVec(gd.y, fit)
		sol := mat.NewVecDense(t, nil)
		if err := chols[gi].SolveVecTo(sol, ri); err != nil {
			return 0, nil, nil, err
		}
		quad += mat.Dot(ri, sol)
	}

	switch md.Meth {
	case REML:
		var cholX mat.Cholesky
		if !cholX.Factorize(xtvx) {
			return 0, nil, nil, fmt.Errorf("lme: X'V^-1 X not positive definite")
		}
		ll = -0.5 * (float64(nobs-p)*ln2pi + logdet + cholX.LogDet() + quad)
	default:
		ll = -0.5 * (float64(nobs)*ln2pi + logdet + quad)
	}
	return ll, beta, xtvx, nil
}

// startTheta computes starting variance parameters from an OLS fit:
// all log-SDs start at the OLS residual SD, and rho starts at 0.
func (md *Model) startTheta(gds []*groupData) []float64 {
	p := 1 + len(md.Fixed)
	xtx := mat.NewDense(p, p, nil)
	xty := mat.NewVecDense(p, nil)
	nobs := 0
	for _, gd := range gds {
		nobs += gd.y.Len()
		var xtxi mat.Dense
		xtxi.Mul(gd.x.T(), gd.x)
		xtx.Add(xtx, &xtxi)
		var xtyi mat.VecDense
		xtyi.MulVec(gd.x.T(), gd.y)
		xty.AddVec(xty, &xtyi)
	}
	s2 := 1.0
	var b0 mat.VecDense
	if err := b0.SolveVec(xtx, xty); err == nil {
		rss := 0.0
		for _, gd := range gds {
			t := gd.y.Len()
			fit := mat.NewVecDense(t, nil)
			fit.MulVec(gd.x, &b0)
			ri := mat.NewVecDense(t, nil)
			ri.SubVec(gd.y, fit)
			rss += mat.Dot(ri, ri)
		}
		s2 = rss / float64(nobs-p)
		if s2 < 1e-12 {
			s2 = 1e-12
		}
	}
	s0 := 0.5 * math.Log(s2)
	th := make([]float64, md.nTheta())
	for k := 0; k <= len(md.Random); k++ {
		th[k] = s0
	}
	return th
}

// Fit estimates the model, maximizing the profiled (restricted)
// log-likelihood over the variance parameters by Nelder-Mead, and
// returns the fitted results.
func (md *Model) Fit() (*Results, error) {
	gds, err := md.buildData()
	if err != nil {
		return nil, err
	}
	start := md.startTheta(gds)

	prob := optimize.Problem{
		Func: func(th []float64) float64 {
			ll, _, _, err := md.profile(gds, th)
			if err != nil {
				return math.Inf(1)
			}
			return -ll
		},
	}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   md.TolFunc,
			Iterations: 100,
		},
		MajorIterations: md.MaxIter,
	}
	optRes, err := optimize.Minimize(prob, start, settings, &optimize.NelderMead{})
	if optRes == nil {
		return nil, fmt.Errorf("lme: optimization failed: %v", err)
	}
	theta := optRes.X
	if math.IsInf(optRes.F, 0) || math.IsNaN(optRes.F) {
		return nil, fmt.Errorf("lme: no finite likelihood found")
	}

	ll, beta, xtvx, err := md.profile(gds, theta)
	if err != nil {
		return nil, err
	}

	p := 1 + len(md.Fixed)
	q := len(md.Random)

	var cholX mat.Cholesky
	if !cholX.Factorize(xtvx) {
		return nil, fmt.Errorf("lme: X'V^-1 X not positive definite at optimum")
	}
	vcov := mat.NewSymDense(p, nil)
	if err := cholX.InverseTo(vcov); err != nil {
		return nil, err
	}

	nobs := 0
	for _, gd := range gds {
		nobs += gd.y.Len()
	}

	rs := &Results{
		CoefNames:  md.CoefNames(),
		Coefs:      make([]float64, p),
		StdErrs:    make([]float64, p),
		Vcov:       vcov,
		RandNames:  append([]string{}, md.Random...),
		RandSD:     make([]float64, q),
		Meth:       md.Meth,
		Cor:        md.Cor,
		Groups:     md.Group,
		LogLik:     ll,
		NObs:       nobs,
		NGroups:    len(gds),
		NFixed:     p,
		NVarParams: md.nTheta(),
		Converged:  optRes.Status == optimize.FunctionConvergence,
	}
	for j := 0; j < p; j++ {
		rs.Coefs[j] = beta.AtVec(j)
		rs.StdErrs[j] = math.Sqrt(vcov.At(j, j))
	}
	for k := 0; k < q; k++ {
		rs.RandSD[k] = math.Exp(theta[k])
	}
	rs.Sigma = math.Exp(theta[q])
	if md.Cor == CorAR1 {
		rs.Rho = math.Tanh(theta[q+1])
	}
	return rs, nil
}
