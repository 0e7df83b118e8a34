// SPDX-License-Identifier: MIT

package gibbs

import (
	"fmt"
	"strings"
	"time"
)

// ShortProfile renders the timing breakdown, one line per variable.
//
//	run 6f1c...: 1000 iterations (final 999), sampling 1.2s, analysis 1.25s
//	  beta        0.9s  75.0%
//	  noise_var   0.3s  25.0%
func (s *Sampler) ShortProfile() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run %s: %d iterations (final %d), sampling %s, analysis %s\n",
		s.runID, s.iterations, s.finalIteration, s.samplingTime, s.analysisDuration)

	width := 0
	for _, v := range s.vars.ordered {
		if len(v.name) > width {
			width = len(v.name)
		}
	}
	for i, v := range s.vars.ordered {
		fmt.Fprintf(&sb, "  %-*s %12s %6.1f%%\n", width, v.name, s.varTime[i], s.share(s.varTime[i]))
	}

	return sb.String()
}

// TinyProfile renders a single line: total time and each variable's share.
func (s *Sampler) TinyProfile() string {
	parts := make([]string, 0, len(s.vars.ordered))
	for i, v := range s.vars.ordered {
		parts = append(parts, fmt.Sprintf("%s=%.1f%%", v.name, s.share(s.varTime[i])))
	}

	return fmt.Sprintf("%s [%s]", s.analysisDuration.Round(time.Millisecond), strings.Join(parts, " "))
}

// share returns d as a percentage of the summed per-variable time.
func (s *Sampler) share(d time.Duration) float64 {
	var total time.Duration
	for _, t := range s.varTime {
		total += t
	}
	if total == 0 {
		return 0
	}

	return 100 * float64(d) / float64(total)
}
