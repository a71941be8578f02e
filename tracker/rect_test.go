package tracker

import (
	"image"
	"math"
	"testing"
)

// almostEqual checks if two float32 values are approximately equal
func almostEqual(a, b, tolerance float32) bool {
	return float32(math.Abs(float64(a)-float64(b))) <= tolerance
}

func TestRectConversions(t *testing.T) {

	r := NewRect(10, 20, 30, 40)

	if r.X() != 10 || r.Y() != 20 || r.Width() != 30 || r.Height() != 40 {
		t.Errorf("Unexpected Tlwh values: %v", r.Tlwh)
	}

	tlbr := r.GetTlbr()
	expected := Tlbr{10, 20, 40, 60}

	for i := range expected {
		if tlbr[i] != expected[i] {
			t.Errorf("Expected tlbr[%d] = %f, but got %f", i, expected[i], tlbr[i])
		}
	}

	r2 := RectFromTlbr(10, 20, 40, 60)

	if r2 != r {
		t.Errorf("Expected RectFromTlbr to equal %v, but got %v", r, r2)
	}

	img := r.ToImage()

	if img != image.Rect(10, 20, 40, 60) {
		t.Errorf("Unexpected image rectangle: %v", img)
	}

	r3 := RectFromImage(image.Rect(1, 2, 4, 8))

	if r3 != NewRect(1, 2, 3, 6) {
		t.Errorf("Unexpected rect from image rectangle: %v", r3.Tlwh)
	}
}

func TestRectArea(t *testing.T) {

	r := NewRect(0, 0, 5, 4)

	if r.Area() != 20 {
		t.Errorf("Expected area 20, but got %f", r.Area())
	}

	empty := NewRect(0, 0, 0, 10)

	if empty.Area() != 0 {
		t.Errorf("Expected area 0 for degenerate rect, but got %f", empty.Area())
	}
}

func TestCalcIoU(t *testing.T) {

	const tolerance = 1e-6

	testCases := []struct {
		name     string
		a, b     Rect
		expected float32
	}{
		{
			name:     "identical",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 0, 10, 10),
			expected: 1,
		},
		{
			name:     "disjoint",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(20, 20, 10, 10),
			expected: 0,
		},
		{
			name:     "touching edges",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: 0,
		},
		{
			name: "half overlap",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(0, 0, 10, 5),
			// intersection 50, union 100
			expected: 0.5,
		},
		{
			name: "quarter shift",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(5, 0, 10, 10),
			// intersection 50, union 150
			expected: 1.0 / 3.0,
		},
		{
			name:     "degenerate box",
			a:        NewRect(0, 0, 0, 0),
			b:        NewRect(0, 0, 10, 10),
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.CalcIoU(tc.b)

			if !almostEqual(got, tc.expected, tolerance) {
				t.Errorf("Expected IoU %f, but got %f", tc.expected, got)
			}

			// IoU is symmetric
			rev := tc.b.CalcIoU(tc.a)

			if !almostEqual(rev, tc.expected, tolerance) {
				t.Errorf("Expected reverse IoU %f, but got %f", tc.expected, rev)
			}
		})
	}
}
