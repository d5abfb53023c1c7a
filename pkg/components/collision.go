package components

import "github.com/go-gl/mathgl/mgl64"

// BoxColliderComponent 定义实体的轴对齐碰撞盒
// 碰撞盒中心与 PositionComponent 对齐
type BoxColliderComponent struct {
	// HalfExtents 碰撞盒在三个轴上的半尺寸
	HalfExtents mgl64.Vec3
}
