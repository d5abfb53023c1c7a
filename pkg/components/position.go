package components

import "github.com/go-gl/mathgl/mgl64"

// PositionComponent 实体的世界坐标
// X/Z 为水平面坐标，Y 为高度
// 对托盘而言，位置是其占地区域的中心
type PositionComponent struct {
	X, Y, Z float64
}

// Vec 以 mgl64.Vec3 形式返回位置
func (p *PositionComponent) Vec() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// Set 用 mgl64.Vec3 设置位置
func (p *PositionComponent) Set(v mgl64.Vec3) {
	p.X, p.Y, p.Z = v.X(), v.Y(), v.Z()
}
