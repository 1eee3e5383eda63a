package editor

import (
	"math"
	"testing"
)

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMatrixTransformPoint(t *testing.T) {
	tests := []struct {
		name   string
		m      Matrix2D
		x, y   float64
		wx, wy float64
	}{
		{"identity", Identity(), 5, 7, 5, 7},
		{"translate", Translate(10, -2), 5, 7, 15, 5},
		{"scale", Scale(2, 3), 5, 7, 10, 21},
		{"scale then translate", Translate(1, 1).Multiply(Scale(2, 2)), 3, 4, 7, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gx, gy := tt.m.TransformPoint(tt.x, tt.y)
			if !closeTo(gx, tt.wx) || !closeTo(gy, tt.wy) {
				t.Errorf("TransformPoint(%v, %v) = (%v, %v), want (%v, %v)",
					tt.x, tt.y, gx, gy, tt.wx, tt.wy)
			}
		})
	}
}

func TestMatrixMultiplyAppliesRightOperandFirst(t *testing.T) {
	scaleThenMove := Translate(10, 0).Multiply(Scale(2, 2))
	moveThenScale := Scale(2, 2).Multiply(Translate(10, 0))

	x1, y1 := scaleThenMove.TransformPoint(3, 4)
	if !closeTo(x1, 16) || !closeTo(y1, 8) {
		t.Errorf("scale-then-move(3,4) = (%v, %v), want (16, 8)", x1, y1)
	}
	x2, y2 := moveThenScale.TransformPoint(3, 4)
	if !closeTo(x2, 26) || !closeTo(y2, 8) {
		t.Errorf("move-then-scale(3,4) = (%v, %v), want (26, 8)", x2, y2)
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translate(12, -7).Multiply(Scale(2, 4))
	inv := m.Invert()

	if !m.Multiply(inv).IsIdentity() {
		t.Error("multiplying by the inverse is not identity")
	}

	x, y := m.TransformPoint(3, 5)
	bx, by := inv.TransformPoint(x, y)
	if !closeTo(bx, 3) || !closeTo(by, 5) {
		t.Errorf("round trip moved (3, 5) to (%v, %v)", bx, by)
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	if !Scale(0, 1).Invert().IsIdentity() {
		t.Error("inverting a singular matrix must fall back to identity")
	}
}

func TestMatrixTransformRect(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix2D
		in   Rect
		want Rect
	}{
		{"translate", Translate(5, 10), Rect{X: 0, Y: 0, Width: 10, Height: 20}, Rect{X: 5, Y: 10, Width: 10, Height: 20}},
		{"scale", Scale(2, 2), Rect{X: 1, Y: 1, Width: 10, Height: 20}, Rect{X: 2, Y: 2, Width: 20, Height: 40}},
		{"mirror keeps bbox positive", Scale(-1, 1), Rect{X: 0, Y: 0, Width: 10, Height: 20}, Rect{X: -10, Y: 0, Width: 10, Height: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformRect(tt.in)
			if !closeTo(got.X, tt.want.X) || !closeTo(got.Y, tt.want.Y) ||
				!closeTo(got.Width, tt.want.Width) || !closeTo(got.Height, tt.want.Height) {
				t.Errorf("TransformRect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMatrixIsIdentity(t *testing.T) {
	if !Identity().IsIdentity() {
		t.Error("Identity() is not identity")
	}
	if Translate(0.1, 0).IsIdentity() {
		t.Error("a translation passed as identity")
	}
	if !(Matrix2D{1, 0, 0, 1, 1e-12, 0}).IsIdentity() {
		t.Error("identity within epsilon rejected")
	}
}
