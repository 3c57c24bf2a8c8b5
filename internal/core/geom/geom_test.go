package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestForwardAxes(t *testing.T) {
	tests := []struct {
		name  string
		yaw   float64
		pitch float64
		want  mgl64.Vec3
	}{
		{"default looks down -Z", 0, 0, mgl64.Vec3{0, 0, -1}},
		{"quarter turn left looks down -X", math.Pi / 2, 0, mgl64.Vec3{-1, 0, 0}},
		{"looking straight up", 0, math.Pi / 2, mgl64.Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Forward(tt.yaw, tt.pitch)
			if !got.ApproxEqualThreshold(tt.want, 1e-9) {
				t.Errorf("Forward(%v, %v) = %v, want %v", tt.yaw, tt.pitch, got, tt.want)
			}
		})
	}
}

func TestRightIsPerpendicular(t *testing.T) {
	for _, yaw := range []float64{0, 0.3, 1.7, -2.5} {
		if d := PlanarForward(yaw).Dot(PlanarRight(yaw)); math.Abs(d) > 1e-12 {
			t.Errorf("yaw %v: forward·right = %v, want 0", yaw, d)
		}
	}
}

func TestYawTowardRoundTrip(t *testing.T) {
	from := mgl64.Vec3{3, 1.7, -2}
	to := mgl64.Vec3{-7, 0, 11}

	yaw := YawToward(from, to)
	dir := PlanarForward(yaw)
	want := SafeNormalize(Planar(to.Sub(from)), FallbackDir)

	if !dir.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("PlanarForward(YawToward) = %v, want %v", dir, want)
	}
}

func TestSafeNormalizeFallback(t *testing.T) {
	got := SafeNormalize(mgl64.Vec3{}, FallbackDir)
	if got != FallbackDir {
		t.Errorf("SafeNormalize(zero) = %v, want fallback %v", got, FallbackDir)
	}
}

func TestPlanarDistanceIgnoresHeight(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{3, 50, 4}
	if d := PlanarDistance(a, b); d != 5 {
		t.Errorf("PlanarDistance = %v, want 5", d)
	}
	if d := Distance(ToPoint(a), ToPoint(b)); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}
