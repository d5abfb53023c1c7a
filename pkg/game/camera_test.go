package game

import (
	"math"
	"testing"

	"github.com/decker502/traygrid/pkg/config"
	"github.com/go-gl/mathgl/mgl64"
)

// TestNewTopDownCameraFitsGrid 默认 7x8 网格（边长 2）在 800x600 屏幕上居中显示
func TestNewTopDownCameraFitsGrid(t *testing.T) {
	cam := NewTopDownCamera(config.DefaultGridLayout(), 800, 600, 40)

	// 世界范围 X [-1, 13]，Z [-1, 15]；高度方向受限：520 / 16
	if math.Abs(cam.Scale-32.5) > 1e-9 {
		t.Errorf("Scale = %v, want 32.5", cam.Scale)
	}
	if cam.CenterX != 6 || cam.CenterZ != 7 {
		t.Errorf("center = (%v, %v), want (6, 7)", cam.CenterX, cam.CenterZ)
	}

	tests := []struct {
		name         string
		x, z         float64
		wantX, wantY float64
	}{
		{"网格中心对准屏幕中心", 6, 7, 400, 300},
		{"左上角", -1, -1, 172.5, 40},
		{"右下角", 13, 15, 627.5, 560},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy := cam.WorldToScreen(tt.x, tt.z)
			if math.Abs(sx-tt.wantX) > 1e-9 || math.Abs(sy-tt.wantY) > 1e-9 {
				t.Errorf("WorldToScreen(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.z, sx, sy, tt.wantX, tt.wantY)
			}
			x, z := cam.ScreenToWorld(sx, sy)
			if math.Abs(x-tt.x) > 1e-9 || math.Abs(z-tt.z) > 1e-9 {
				t.Errorf("ScreenToWorld round trip = (%v, %v), want (%v, %v)", x, z, tt.x, tt.z)
			}
		})
	}
}

// TestScreenToRayHitsPlacementPlane 拾取射线与放置平面的交点
func TestScreenToRayHitsPlacementPlane(t *testing.T) {
	layout := config.DefaultGridLayout()
	cam := NewTopDownCamera(layout, 800, 600, 40)

	ray := cam.ScreenToRay(400, 300)
	hit, ok := ray.IntersectHorizontalPlane(layout.FixedY)
	if !ok {
		t.Fatal("downward ray should hit the placement plane")
	}
	if !hit.ApproxEqualThreshold(mgl64.Vec3{6, layout.FixedY, 7}, 1e-9) {
		t.Errorf("hit = %v, want (6, %v, 7)", hit, layout.FixedY)
	}
}
