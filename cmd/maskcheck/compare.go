package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// maskDiff summarizes the absolute difference between two masks.
type maskDiff struct {
	Compared   int
	Mismatched int
	Mean       float64
	StdDev     float64
	Max        float64
}

func (d maskDiff) String() string {
	return fmt.Sprintf("%d of %d differ, mean %.3f, stddev %.3f, max %.0f",
		d.Mismatched, d.Compared, d.Mean, d.StdDev, d.Max)
}

// compareMasks compares a and b over the w x h grid, skipping margin pixels
// on every side.
func compareMasks(a, b []uint8, w, h, margin int) maskDiff {
	rows, cols := h-2*margin, w-2*margin
	if rows <= 0 || cols <= 0 || len(a) < w*h || len(b) < w*h {
		return maskDiff{}
	}

	da := mat.NewDense(rows, cols, nil)
	db := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := (y+margin)*w + x + margin
			da.Set(y, x, float64(a[i]))
			db.Set(y, x, float64(b[i]))
		}
	}

	var diff mat.Dense
	diff.Sub(da, db)
	diff.Apply(func(_, _ int, v float64) float64 { return math.Abs(v) }, &diff)

	values := diff.RawMatrix().Data
	d := maskDiff{Compared: len(values)}
	for _, v := range values {
		if v != 0 {
			d.Mismatched++
		}
	}
	d.Mean, d.StdDev = stat.MeanStdDev(values, nil)
	d.Max = floats.Max(values)
	return d
}
