// SPDX-License-Identifier: MIT
// Package gibbs - Trajectory: paced snapshots of a quantity across iterations.
//
// Purpose:
//   - Record a time series of an externally owned quantity without aliasing it:
//     the trajectory calls a SnapshotFunc and stores an independent copy.
//   - Bound memory: capacity is computed once from (pace, start, maxIterations).
//
// Contract:
//   - Record(it) stores a snapshot iff pace > 0, it >= start, it % pace == 0
//     and capacity remains; otherwise it is a no-op, so it may be called
//     unconditionally every iteration.
//   - Recorded iteration indices are strictly increasing.
//   - maxIterations <= 0 means "unbounded" (the buffer grows on demand).

package gibbs

import (
	"fmt"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

// InitialIteration labels the pre-loop snapshot taken at construction.
const InitialIteration = -1

// SnapshotFunc returns the current value of a tracked quantity.
// Trajectory clones whatever it returns, so the function may hand out live state.
type SnapshotFunc func() *ndarray.Array

// trajectoryOptions is the internal configuration of a Trajectory.
type trajectoryOptions struct {
	pace          int
	start         int
	maxIterations int
	initial       bool
	axes          []string
	domains       map[string][]string
	label         string
}

// TrajectoryOption configures NewTrajectory.
type TrajectoryOption func(*trajectoryOptions)

// WithPace records every n-th iteration; n <= 0 disables recording.
func WithPace(n int) TrajectoryOption {
	return func(o *trajectoryOptions) { o.pace = n }
}

// WithStart sets the first iteration eligible for recording.
func WithStart(it int) TrajectoryOption {
	return func(o *trajectoryOptions) { o.start = it }
}

// WithMaxIterations sizes the buffer for a loop of n iterations.
func WithMaxIterations(n int) TrajectoryOption {
	return func(o *trajectoryOptions) { o.maxIterations = n }
}

// WithInitialSnapshot takes one snapshot at construction, labelled InitialIteration.
func WithInitialSnapshot() TrajectoryOption {
	return func(o *trajectoryOptions) { o.initial = true }
}

// WithTrajectoryAxes names the axes of the tracked quantity.
func WithTrajectoryAxes(names ...string) TrajectoryOption {
	return func(o *trajectoryOptions) { o.axes = append([]string(nil), names...) }
}

// WithTrajectoryDomain labels positions along one axis of the tracked quantity.
func WithTrajectoryDomain(axis string, labels ...string) TrajectoryOption {
	return func(o *trajectoryOptions) {
		if o.domains == nil {
			o.domains = make(map[string][]string)
		}
		o.domains[axis] = append([]string(nil), labels...)
	}
}

// WithTrajectoryLabel sets the value label of the exported Output.
func WithTrajectoryLabel(label string) TrajectoryOption {
	return func(o *trajectoryOptions) { o.label = label }
}

// Trajectory is a bounded, paced history of snapshots.
type Trajectory struct {
	snapshot   SnapshotFunc
	opts       trajectoryOptions
	capacity   int // -1 when unbounded
	values     []*ndarray.Array
	iterations []int
}

// NewTrajectory builds a trajectory over snapshot.
//
// Capacity (when maxIterations > 0) is the number of i in [start, maxIterations)
// with i % pace == 0, plus one for the initial snapshot.
//
// Errors:
//   - ErrMalformedValue if snapshot is nil, or if the initial snapshot is nil.
func NewTrajectory(snapshot SnapshotFunc, opts ...TrajectoryOption) (*Trajectory, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("trajectory: nil snapshot func: %w", ErrMalformedValue)
	}
	o := trajectoryOptions{pace: 1}
	for _, fn := range opts {
		fn(&o)
	}
	if o.start < 0 {
		o.start = 0
	}

	t := &Trajectory{snapshot: snapshot, opts: o, capacity: -1}
	if o.maxIterations > 0 {
		t.capacity = paceCount(o.pace, o.start, o.maxIterations)
		if o.initial {
			t.capacity++
		}
		t.values = make([]*ndarray.Array, 0, t.capacity)
		t.iterations = make([]int, 0, t.capacity)
	}

	if o.initial {
		if !t.store(InitialIteration) {
			return nil, fmt.Errorf("trajectory: initial snapshot: %w", ErrMalformedValue)
		}
	}

	return t, nil
}

// paceCount returns |{i ∈ [start, n) : i % pace == 0}| (0 when pace <= 0).
func paceCount(pace, start, n int) int {
	if pace <= 0 || start >= n {
		return 0
	}
	first := start
	if r := start % pace; r != 0 {
		first += pace - r
	}
	if first >= n {
		return 0
	}

	return (n-1-first)/pace + 1
}

// store snapshots the quantity and appends it; false when the snapshot is nil.
func (t *Trajectory) store(it int) bool {
	v := t.snapshot()
	if v == nil {
		return false
	}
	t.values = append(t.values, v.Clone())
	t.iterations = append(t.iterations, it)

	return true
}

// Record stores a snapshot at iteration it when the pace predicate holds and
// capacity remains. It reports whether a snapshot was stored.
func (t *Trajectory) Record(it int) bool {
	o := t.opts
	if o.pace <= 0 || it < o.start || it%o.pace != 0 {
		return false
	}
	if t.capacity >= 0 && len(t.values) >= t.capacity {
		return false
	}
	if n := len(t.iterations); n > 0 && t.iterations[n-1] >= it {
		return false
	}

	return t.store(it)
}

// Len returns the number of stored snapshots (initial one included).
func (t *Trajectory) Len() int { return len(t.values) }

// Capacity returns the pre-sized capacity, or -1 when unbounded.
func (t *Trajectory) Capacity() int { return t.capacity }

// Iterations returns a copy of the recorded iteration indices.
func (t *Trajectory) Iterations() []int {
	return append([]int(nil), t.iterations...)
}

// Values returns the stored snapshots (shared, do not mutate).
func (t *Trajectory) Values() []*ndarray.Array { return t.values }

// Output stacks the snapshots along a leading "iteration" axis.
// ok is false when nothing was recorded.
func (t *Trajectory) Output() (out Output, ok bool, err error) {
	if len(t.values) == 0 {
		return Output{}, false, nil
	}
	out, err = stackedOutput(t.values, AxisIteration, iterationLabels(t.iterations), t.opts.axes, t.opts.domains, t.opts.label)
	if err != nil {
		return Output{}, false, fmt.Errorf("trajectory: %w", err)
	}

	return out, true, nil
}
