// SPDX-License-Identifier: MIT

package gibbs

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

// Axis names shared by several outputs.
const (
	AxisIteration = "iteration"
	AxisLag       = "lag"
	AxisType      = "type"
	AxisCondition = "condition"
	AxisFitType   = "stype"
)

// Output is a labelled numeric array: the only contract between the engine
// and whatever reports or serializes results downstream.
//   - Axes has one name per dimension of Value.
//   - Domains optionally labels the positions along an axis.
type Output struct {
	Value      *ndarray.Array
	Axes       []string
	Domains    map[string][]string
	ValueLabel string
}

// axisNames returns names for a rank-n value: the declared ones when they
// match the rank, otherwise "axis0".."axis<n-1>".
func axisNames(declared []string, rank int) []string {
	if len(declared) == rank {
		out := make([]string, rank)
		copy(out, declared)

		return out
	}
	out := make([]string, rank)
	for d := range out {
		out[d] = fmt.Sprintf("axis%d", d)
	}

	return out
}

// iterationLabels formats iteration indices as an axis domain.
func iterationLabels(its []int) []string {
	out := make([]string, len(its))
	for i, it := range its {
		out[i] = strconv.Itoa(it)
	}

	return out
}

// copyDomains clones a domain map so outputs never alias variable state.
func copyDomains(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src)+1)
	for k, v := range src {
		labels := make([]string, len(v))
		copy(labels, v)
		out[k] = labels
	}

	return out
}

// stackedOutput stacks snapshots along a new leading axis named lead.
func stackedOutput(snaps []*ndarray.Array, lead string, leadLabels []string, axes []string, domains map[string][]string, label string) (Output, error) {
	val, err := ndarray.Stack(snaps...)
	if err != nil {
		return Output{}, err
	}
	inner := axisNames(axes, snaps[0].NDim())
	dom := copyDomains(domains)
	dom[lead] = leadLabels

	return Output{
		Value:      val,
		Axes:       append([]string{lead}, inner...),
		Domains:    dom,
		ValueLabel: label,
	}, nil
}
