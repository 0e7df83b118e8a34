// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvgibbs/config"
	"github.com/katalvlaran/lvgibbs/models/linreg"
)

var quickRun = []string{
	"iterations=400", "sweeps=100", "seed=11",
	"model.samples=60", "model.regressors=2", "model.columns=1",
	"accuracy.policy=ignore",
}

func TestRun_WritesReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.yaml")
	o := &runOptions{overrides: quickRun, chains: 2, out: out, logger: zaptest.NewLogger(t)}
	require.NoError(t, o.complete())
	require.NoError(t, o.run(context.Background(), nil))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var rep report
	require.NoError(t, yaml.Unmarshal(raw, &rep))

	assert.Equal(t, 2, rep.Config.Chains)
	require.Len(t, rep.Chains, 2)
	assert.NotEqual(t, rep.Chains[0].RunID, rep.Chains[1].RunID)
	for i, c := range rep.Chains {
		assert.Equal(t, i, c.Chain)
		assert.Equal(t, 399, c.FinalIteration)
		require.Contains(t, c.Variables, linreg.BetaName)
		beta := c.Variables[linreg.BetaName]
		assert.Equal(t, []int{2, 1}, beta.Estimate.Shape)
		assert.Equal(t, 300, beta.Observations)
		require.NotNil(t, beta.Inaccurate)
		assert.NotNil(t, c.BIC)
		assert.Len(t, c.MeanRSS, 1)
	}
	assert.Equal(t, []int{2, 1}, rep.Truth[linreg.BetaName].Shape)
	require.Contains(t, rep.RHat, linreg.BetaName)
	require.NotNil(t, rep.MaxRHat)
	assert.Less(t, *rep.MaxRHat, 1.2)
}

func TestRun_SameSeedSameReport(t *testing.T) {
	run := func() []byte {
		var buf bytes.Buffer
		o := &runOptions{overrides: quickRun, logger: zaptest.NewLogger(t)}
		require.NoError(t, o.complete())
		require.NoError(t, o.run(context.Background(), &buf))

		var rep report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rep))
		est, err := yaml.Marshal(rep.Chains[0].Variables)
		require.NoError(t, err)

		return est
	}
	assert.Equal(t, run(), run())
}

func TestRun_InvalidSettings(t *testing.T) {
	o := &runOptions{overrides: []string{"iterations=0"}, logger: zaptest.NewLogger(t)}
	assert.ErrorIs(t, o.complete(), config.ErrInvalidConfig)

	o = &runOptions{overrides: []string{"nope=1"}, logger: zaptest.NewLogger(t)}
	assert.ErrorIs(t, o.complete(), config.ErrUnknownKey)

	o = &runOptions{configPath: filepath.Join(t.TempDir(), "absent.yaml"), logger: zaptest.NewLogger(t)}
	assert.ErrorIs(t, o.complete(), os.ErrNotExist)
}

func TestRootCommand(t *testing.T) {
	var buf bytes.Buffer
	root := newRootCommand()
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "lvgibbs dev\n", buf.String())

	root = newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--set", "chains=0"})
	assert.ErrorIs(t, root.Execute(), config.ErrInvalidConfig)
}
