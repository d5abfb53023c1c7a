package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray 世界空间中的射线
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At 返回射线上参数 t 处的点
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectHorizontalPlane 求射线与水平面 y=height 的交点
// 射线与平面平行或交点在射线起点之后时返回 false
func (r Ray) IntersectHorizontalPlane(height float64) (mgl64.Vec3, bool) {
	dy := r.Direction.Y()
	if math.Abs(dy) < 1e-9 {
		return mgl64.Vec3{}, false
	}

	t := (height - r.Origin.Y()) / dy
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return r.At(t), true
}
