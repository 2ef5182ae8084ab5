// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package mixedfx is the overall repository for voxel-level fMRI simulation
and linear mixed-effects model fitting code implemented in the Go language
(golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-repositories:

* hrf: the canonical double-gamma hemodynamic response kernel, and
convolution of boxcar stimulus vectors with that kernel to produce
expected BOLD regressors.

* design: block experimental designs -- per-condition stimulus vectors
and the convolved explanatory variables (EVs) that form the fixed-effects
design matrix.  The baseline / rest condition is never modeled.

* voxsim: simulation of synthetic single-voxel BOLD time series for one
or many subjects, combining population fixed effects, per-subject
random-effect draws, and per-volume Gaussian noise, and assembly of the
resulting series into a long-format etable.Table for model fitting.

* lme: maximum-likelihood and REML estimation of linear mixed-effects
models on long-format tables, with likelihood-ratio model comparison,
AR(1) within-subject residual correlation, and linear contrast tests on
the fixed effects.

* examples: these compile into runnable programs.  examples/voxel runs
the full simulate-then-fit pipeline and prints parameter recovery results.
*/
package mixedfx
