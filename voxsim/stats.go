// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package voxsim

import (
	"github.com/emer/etable/v2/agg"
	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/split"
)

// SubjectMeans aggregates the long-format table by subject, returning a
// table with each subject's mean and standard deviation of the outcome
// column.  Heterogeneous populations show up directly as between-subject
// spread in the means.
func SubjectMeans(dt *etable.Table, outcome string) *etable.Table {
	ix := etable.NewIdxView(dt)
	spl := split.GroupBy(ix, []string{"Subject"})
	split.Agg(spl, outcome, agg.AggMean)
	split.Agg(spl, outcome, agg.AggStd)
	return spl.AggsToTable(etable.AddAggName)
}

// GrandMean returns the mean of the outcome column over all rows.
func GrandMean(dt *etable.Table, outcome string) float64 {
	ix := etable.NewIdxView(dt)
	return agg.Mean(ix, outcome)[0]
}
