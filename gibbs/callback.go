// SPDX-License-Identifier: MIT

package gibbs

import (
	"go.uber.org/zap"
)

// Callback observes the sampler once per completed iteration.
// A returned error aborts the run.
type Callback interface {
	Call(it int, vars []*Variable, s *Sampler) error
}

// CallbackFunc adapts a function to Callback.
type CallbackFunc func(it int, vars []*Variable, s *Sampler) error

// Call calls f.
func (f CallbackFunc) Call(it int, vars []*Variable, s *Sampler) error { return f(it, vars, s) }

// NoopCallback does nothing. It is the default.
type NoopCallback struct{}

// Call implements Callback.
func (NoopCallback) Call(int, []*Variable, *Sampler) error { return nil }

// PeriodicLogger logs every variable's current value every Every iterations.
type PeriodicLogger struct {
	Logger *zap.Logger
	Every  int
}

// Call implements Callback.
func (p PeriodicLogger) Call(it int, vars []*Variable, s *Sampler) error {
	if p.Logger == nil || p.Every <= 0 || it%p.Every != 0 {
		return nil
	}
	fields := make([]zap.Field, 0, len(vars)+2)
	fields = append(fields, zap.String("run_id", s.RunID()), zap.Int("iteration", it))
	for _, v := range vars {
		if val := v.Value(); val != nil {
			fields = append(fields, zap.Float64s(v.Name(), val.Data()))
		}
	}
	p.Logger.Info("iteration", fields...)

	return nil
}
