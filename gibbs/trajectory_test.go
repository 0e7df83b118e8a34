// SPDX-License-Identifier: MIT

package gibbs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvgibbs/gibbs"
	"github.com/katalvlaran/lvgibbs/ndarray"
)

// TestTrajectory_CounterPaceTwo records a counter every second iteration over 0..5.
func TestTrajectory_CounterPaceTwo(t *testing.T) {
	counter := ndarray.Scalar(0)
	tr, err := gibbs.NewTrajectory(func() *ndarray.Array { return counter },
		gibbs.WithPace(2), gibbs.WithStart(0), gibbs.WithMaxIterations(6))
	require.NoError(t, err)

	for it := 0; it < 6; it++ {
		counter.Data()[0] = float64(it)
		tr.Record(it)
	}

	assert.Equal(t, []int{0, 2, 4}, tr.Iterations())
	require.Equal(t, 3, tr.Len())
	for i, want := range []float64{0, 2, 4} {
		assert.Equal(t, want, tr.Values()[i].Item())
	}
}

// TestTrajectory_PaceCount checks |{i in [S, N) : i % P == 0}| for several settings.
func TestTrajectory_PaceCount(t *testing.T) {
	cases := []struct {
		name              string
		pace, start, iter int
		want              []int
	}{
		{"every", 1, 0, 4, []int{0, 1, 2, 3}},
		{"pace3", 3, 0, 10, []int{0, 3, 6, 9}},
		{"late start", 2, 3, 10, []int{4, 6, 8}},
		{"start beyond", 2, 12, 10, nil},
		{"never", 0, 0, 10, nil},
		{"negative", -2, 0, 10, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := ndarray.Scalar(1)
			tr, err := gibbs.NewTrajectory(func() *ndarray.Array { return q },
				gibbs.WithPace(tc.pace), gibbs.WithStart(tc.start), gibbs.WithMaxIterations(tc.iter))
			require.NoError(t, err)
			for it := 0; it < tc.iter; it++ {
				tr.Record(it)
			}
			assert.Equal(t, len(tc.want), tr.Len())
			if tc.want != nil {
				assert.Equal(t, tc.want, tr.Iterations())
			}
			if tc.pace > 0 {
				assert.Equal(t, len(tc.want), tr.Capacity())
			}
		})
	}
}

// TestTrajectory_SnapshotsAreCopies mutates the source after recording.
func TestTrajectory_SnapshotsAreCopies(t *testing.T) {
	q := ndarray.Scalar(1)
	tr, err := gibbs.NewTrajectory(func() *ndarray.Array { return q }, gibbs.WithInitialSnapshot())
	require.NoError(t, err)

	q.Data()[0] = 5
	require.True(t, tr.Record(0))
	q.Data()[0] = 9

	assert.Equal(t, []int{gibbs.InitialIteration, 0}, tr.Iterations())
	assert.Equal(t, 1.0, tr.Values()[0].Item())
	assert.Equal(t, 5.0, tr.Values()[1].Item())
}

// TestTrajectory_CapacityStops verifies recording stops once the buffer is full.
func TestTrajectory_CapacityStops(t *testing.T) {
	q := ndarray.Scalar(0)
	tr, err := gibbs.NewTrajectory(func() *ndarray.Array { return q },
		gibbs.WithMaxIterations(3), gibbs.WithInitialSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 4, tr.Capacity())

	for it := 0; it < 10; it++ {
		tr.Record(it)
	}
	assert.Equal(t, []int{-1, 0, 1, 2}, tr.Iterations())
	assert.False(t, tr.Record(2), "iterations must strictly increase")
}

func TestTrajectory_Output(t *testing.T) {
	q := mustVector(t, 1, 2)
	tr, err := gibbs.NewTrajectory(func() *ndarray.Array { return q },
		gibbs.WithTrajectoryAxes("condition"),
		gibbs.WithTrajectoryDomain("condition", "a", "b"),
		gibbs.WithTrajectoryLabel("counts"))
	require.NoError(t, err)

	_, ok, err := tr.Output()
	require.NoError(t, err)
	assert.False(t, ok)

	tr.Record(0)
	tr.Record(1)
	out, ok, err := tr.Output()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{2, 2}, out.Value.Shape())
	assert.Equal(t, []string{gibbs.AxisIteration, "condition"}, out.Axes)
	assert.Equal(t, []string{"0", "1"}, out.Domains[gibbs.AxisIteration])
	assert.Equal(t, []string{"a", "b"}, out.Domains["condition"])
	assert.Equal(t, "counts", out.ValueLabel)
}

func TestTrajectory_NilSnapshot(t *testing.T) {
	_, err := gibbs.NewTrajectory(nil)
	assert.ErrorIs(t, err, gibbs.ErrMalformedValue)

	_, err = gibbs.NewTrajectory(func() *ndarray.Array { return nil }, gibbs.WithInitialSnapshot())
	assert.ErrorIs(t, err, gibbs.ErrMalformedValue)
}
