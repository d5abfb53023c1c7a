package utils

import "github.com/go-gl/mathgl/mgl64"

// AABB 轴对齐边界框
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB 由中心点和半尺寸构造边界框
func NewAABB(center, halfExtents mgl64.Vec3) AABB {
	return AABB{
		Min: center.Sub(halfExtents),
		Max: center.Add(halfExtents),
	}
}

// ContainsXZ 检查点在水平面上的投影是否落在边界框内（含边界），忽略高度
func (a AABB) ContainsXZ(x, z float64) bool {
	return x >= a.Min.X() && x <= a.Max.X() && z >= a.Min.Z() && z <= a.Max.Z()
}

// Overlaps 检查两个边界框是否重叠
// 三个轴上都有交集才算重叠，边界接触也算重叠
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}
