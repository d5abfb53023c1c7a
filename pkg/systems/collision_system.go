package systems

import (
	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// OverlapQuery 空间重叠查询接口
//
// 返回碰撞盒与给定盒子相交的所有实体（exclude 除外）。
// 托盘拖拽系统只依赖这个接口，测试中可以替换为任意实现。
type OverlapQuery interface {
	OverlapBox(center, halfExtents mgl64.Vec3, exclude ecs.EntityID) []ecs.EntityID
}

// CollisionSystem 基于 ECS 的碰撞查询
// 遍历所有拥有 PositionComponent 和 BoxColliderComponent 的实体，
// 使用 AABB（轴对齐边界框）判断相交
type CollisionSystem struct {
	entityManager *ecs.EntityManager
}

// NewCollisionSystem 创建碰撞系统
func NewCollisionSystem(em *ecs.EntityManager) *CollisionSystem {
	return &CollisionSystem{entityManager: em}
}

// Bounds 返回实体当前的碰撞盒
func (s *CollisionSystem) Bounds(id ecs.EntityID) (utils.AABB, bool) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return utils.AABB{}, false
	}
	collider, ok := ecs.GetComponent[*components.BoxColliderComponent](s.entityManager, id)
	if !ok {
		return utils.AABB{}, false
	}
	return utils.NewAABB(pos.Vec(), collider.HalfExtents), true
}

// OverlapBox 查询与给定盒子相交的实体
//
// 参数:
//   - center: 查询盒中心（世界坐标）
//   - halfExtents: 查询盒半尺寸
//   - exclude: 排除的实体（通常是发起查询的托盘本身），0 表示不排除
//
// 返回:
//   - []ecs.EntityID: 相交实体列表（按ID升序）
func (s *CollisionSystem) OverlapBox(center, halfExtents mgl64.Vec3, exclude ecs.EntityID) []ecs.EntityID {
	probe := utils.NewAABB(center, halfExtents)

	entities := ecs.GetEntitiesWith2[
		*components.PositionComponent,
		*components.BoxColliderComponent,
	](s.entityManager)

	hits := make([]ecs.EntityID, 0)
	for _, id := range entities {
		if id == exclude {
			continue
		}
		bounds, ok := s.Bounds(id)
		if !ok {
			continue
		}
		if probe.Overlaps(bounds) {
			hits = append(hits, id)
		}
	}
	return hits
}

// PickPlaceable 返回水平面上包含点 (x, z) 的可放置实体
// 多个实体重叠时返回ID最大的（最后创建、最上层绘制的）
func (s *CollisionSystem) PickPlaceable(x, z float64) (ecs.EntityID, bool) {
	entities := ecs.GetEntitiesWith3[
		*components.PlaceableComponent,
		*components.PositionComponent,
		*components.BoxColliderComponent,
	](s.entityManager)

	var picked ecs.EntityID
	found := false
	for _, id := range entities {
		bounds, ok := s.Bounds(id)
		if !ok {
			continue
		}
		if bounds.ContainsXZ(x, z) {
			picked = id
			found = true
		}
	}
	return picked, found
}
