package main

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/reflexarc/internal/reflex"
)

// ln(9): the logistic rises from 10% to 90% over 2*ln(9)/k.
const ln9 = 2.1972245773362196

// recruitmentCurve samples the logistic through (threshold, 0.1) and
// (saturation, 0.9) over normalized currents in [0, 1].
func recruitmentCurve(r reflex.Recruitment, n int) []float64 {
	t, s := *r.Threshold10, *r.Saturation90
	mid := (t + s) / 2
	k := 2 * ln9 / (s - t)

	out := make([]float64, n)
	for i := range out {
		x := float64(i) / float64(n-1)
		out[i] = 1 / (1 + math.Exp(-k*(x-mid)))
	}
	return out
}

func runRecruitment(cmd *cobra.Command, args []string) error {
	if samples < 2 {
		return fmt.Errorf("samples must be at least 2, got %d", samples)
	}

	c, _, err := build()
	if err != nil {
		return err
	}

	var series [][]float64
	var legends []string
	for _, n := range []string{reflex.Ia, reflex.MN} {
		r, ok := c.EES[n]
		if !ok {
			continue
		}
		series = append(series, recruitmentCurve(r, samples))
		legends = append(legends, fmt.Sprintf("%s %g-%g", n, *r.Threshold10, *r.Saturation90))
	}
	if len(series) == 0 {
		return fmt.Errorf("no EES recruitment profile to plot")
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(samples),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("recruited fraction vs normalized current (%v)", legends)),
	)
	fmt.Println(graph)
	return nil
}
