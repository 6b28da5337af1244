package main

import (
	"math"
	"testing"
)

func TestCompareMasksIdentical(t *testing.T) {
	a := []uint8{0, 255, 255, 0, 10, 20}
	d := compareMasks(a, a, 3, 2, 0)
	if d.Compared != 6 || d.Mismatched != 0 || d.Max != 0 || d.Mean != 0 {
		t.Errorf("identical masks = %+v", d)
	}
}

func TestCompareMasksCountsDifferences(t *testing.T) {
	a := []uint8{0, 0, 0, 0}
	b := []uint8{0, 10, 0, 30}
	d := compareMasks(a, b, 2, 2, 0)
	if d.Mismatched != 2 {
		t.Errorf("Mismatched = %d, want 2", d.Mismatched)
	}
	if d.Max != 30 {
		t.Errorf("Max = %v, want 30", d.Max)
	}
	if math.Abs(d.Mean-10) > 1e-9 {
		t.Errorf("Mean = %v, want 10", d.Mean)
	}
}

func TestCompareMasksSkipsMargin(t *testing.T) {
	w, h := 5, 5
	a := make([]uint8, w*h)
	b := make([]uint8, w*h)
	for i := range b {
		b[i] = 255
	}
	b[2*w+2] = 0
	d := compareMasks(a, b, w, h, 2)
	if d.Compared != 1 || d.Mismatched != 0 {
		t.Errorf("margin 2 = %+v, want only the center compared", d)
	}
	if got := compareMasks(a, b, w, h, 3); got.Compared != 0 {
		t.Errorf("oversized margin = %+v", got)
	}
}
