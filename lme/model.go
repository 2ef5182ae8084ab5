// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lme fits linear mixed-effects models to long-format tables by
maximum likelihood or REML.

The model for the rows of group (subject) i is:

	y_i = X_i beta + Z_i b_i + e_i

where X_i is the fixed-effects design (intercept plus the listed
regressor columns), b_i ~ N(0, G) are the group's random effects with
diagonal G (independent random effects), and e_i ~ N(0, sigma^2 R_i)
with R_i either the identity or an AR(1) correlation matrix in row order.

Fitting profiles the fixed effects out of the marginal likelihood: for
each candidate set of variance parameters the GLS estimate of beta is
computed in closed form, and the profiled (restricted) log-likelihood is
maximized over the variance parameters by Nelder-Mead.  Rank-deficient
designs (e.g. modeling the baseline condition alongside all others)
surface as factorization errors from the linear algebra, not as a
validation pass here.
*/
package lme

import (
	"fmt"

	"github.com/emer/etable/v2/etable"
	"gonum.org/v1/gonum/mat"
)

// Intercept is the column name standing for the model intercept in the
// Random list (the intercept is always included in the fixed effects).
const Intercept = "(Intercept)"

// Model specifies a linear mixed-effects model over a long-format table.
type Model struct {
	Table   *etable.Table `desc:"long-format data: one row per (group, observation)"`
	Outcome string        `desc:"name of the outcome (dependent variable) column"`
	Fixed   []string      `desc:"fixed-effect regressor columns -- the intercept is always prepended"`
	Random  []string      `desc:"columns with by-group random effects: Intercept and/or names from Fixed -- empty = no random effects"`
	Group   string        `desc:"categorical grouping column for the random effects -- empty = single group (plain regression)"`
	Meth    FitMethod     `desc:"ML or REML"`
	Cor     CorStruct     `desc:"within-group residual correlation structure"`
	MaxIter int           `def:"2000" desc:"maximum optimizer iterations"`
	TolFunc float64       `def:"1e-10" desc:"absolute function convergence tolerance"`
}

// New returns a Model for the given table and column specification,
// with default ML fitting and iid residuals.
func New(dt *etable.Table, outcome string, fixed, random []string, group string) *Model {
	md := &Model{
		Table:   dt,
		Outcome: outcome,
		Fixed:   fixed,
		Random:  random,
		Group:   group,
	}
	md.Defaults()
	return md
}

func (md *Model) Defaults() {
	md.MaxIter = 2000
	md.TolFunc = 1e-10
}

// groupData holds one group's outcome vector and design matrices.
type groupData struct {
	name string
	y    *mat.VecDense
	x    *mat.Dense
	z    *mat.Dense // nil if no random effects
}

// CoefNames returns the fixed-effect coefficient names, intercept first.
func (md *Model) CoefNames() []string {
	return append([]string{Intercept}, md.Fixed...)
}

// buildData extracts per-group outcome vectors and design matrices from
// the table, preserving first-appearance group order and within-group
// row order.
func (md *Model) buildData() ([]*groupData, error) {
	dt := md.Table
	cols := append([]string{md.Outcome}, md.Fixed...)
	for _, nm := range cols {
		if dt.ColIdx(nm) < 0 {
			return nil, fmt.Errorf("lme: column %q not in table", nm)
		}
	}
	for _, nm := range md.Random {
		if nm == Intercept {
			continue
		}
		found := false
		for _, f := range md.Fixed {
			if f == nm {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("lme: random column %q is not Intercept or a fixed column", nm)
		}
	}
	if md.Group != "" && dt.ColIdx(md.Group) < 0 {
		return nil, fmt.Errorf("lme: grouping column %q not in table", md.Group)
	}

	var order []string
	rowIdxs := map[string][]int{}
	for row := 0; row < dt.Rows; row++ {
		g := ""
		if md.Group != "" {
			g = dt.CellString(md.Group, row)
		}
		if _, ok := rowIdxs[g]; !ok {
			order = append(order, g)
		}
		rowIdxs[g] = append(rowIdxs[g], row)
	}

	p := 1 + len(md.Fixed)
	q := len(md.Random)
	gds := make([]*groupData, len(order))
	for gi, g := range order {
		rows := rowIdxs[g]
		t := len(rows)
		gd := &groupData{
			name: g,
			y:    mat.NewVecDense(t, nil),
			x:    mat.NewDense(t, p, nil),
		}
		if q > 0 {
			gd.z = mat.NewDense(t, q, nil)
		}
		for ri, row := range rows {
			gd.y.SetVec(ri, dt.CellFloat(md.Outcome, row))
			gd.x.Set(ri, 0, 1)
			for j, nm := range md.Fixed {
				gd.x.Set(ri, j+1, dt.CellFloat(nm, row))
			}
			for k, nm := range md.Random {
				if nm == Intercept {
					gd.z.Set(ri, k, 1)
				} else {
					gd.z.Set(ri, k, dt.CellFloat(nm, row))
				}
			}
		}
		gds[gi] = gd
	}
	return gds, nil
}
