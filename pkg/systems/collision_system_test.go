package systems

import (
	"testing"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
)

func addBox(em *ecs.EntityManager, center, half mgl64.Vec3, placeable bool) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: center.X(), Y: center.Y(), Z: center.Z()})
	em.AddComponent(id, &components.BoxColliderComponent{HalfExtents: half})
	if placeable {
		em.AddComponent(id, &components.PlaceableComponent{})
	}
	return id
}

// TestOverlapBox 测试盒子重叠查询
func TestOverlapBox(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewCollisionSystem(em)
	unit := mgl64.Vec3{1, 0.25, 1}

	a := addBox(em, mgl64.Vec3{0, 1, 0}, unit, true)
	b := addBox(em, mgl64.Vec3{4, 1, 0}, unit, true)
	high := addBox(em, mgl64.Vec3{0, 5, 0}, unit, false)

	// 没有碰撞盒的实体不参与查询
	noCollider := em.CreateEntity()
	em.AddComponent(noCollider, &components.PositionComponent{X: 0, Y: 1, Z: 0})

	tests := []struct {
		name    string
		center  mgl64.Vec3
		half    mgl64.Vec3
		exclude ecs.EntityID
		want    []ecs.EntityID
	}{
		{"命中 a", mgl64.Vec3{0.5, 1, 0.5}, mgl64.Vec3{0.9, 0.5, 0.9}, 0, []ecs.EntityID{a}},
		{"排除自身", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0.9, 0.5, 0.9}, a, []ecs.EntityID{}},
		{"边界接触算相交", mgl64.Vec3{2, 1, 0}, mgl64.Vec3{1, 0.5, 1}, 0, []ecs.EntityID{a, b}},
		{"扣除边距后不相交", mgl64.Vec3{2, 1, 0}, mgl64.Vec3{0.9, 0.5, 0.9}, 0, []ecs.EntityID{}},
		{"高度不同不相交", mgl64.Vec3{4, 5, 0}, mgl64.Vec3{0.9, 0.5, 0.9}, 0, []ecs.EntityID{}},
		{"大盒子全部命中", mgl64.Vec3{2, 3, 0}, mgl64.Vec3{10, 10, 10}, 0, []ecs.EntityID{a, b, high}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := system.OverlapBox(tt.center, tt.half, tt.exclude)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("OverlapBox mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestBounds 测试碰撞盒计算
func TestBounds(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewCollisionSystem(em)

	id := addBox(em, mgl64.Vec3{3, 1, 4}, mgl64.Vec3{2, 0.25, 1}, true)
	bounds, ok := system.Bounds(id)
	if !ok {
		t.Fatal("expected bounds for entity with collider")
	}
	if !vecApprox(bounds.Min, mgl64.Vec3{1, 0.75, 3}) || !vecApprox(bounds.Max, mgl64.Vec3{5, 1.25, 5}) {
		t.Errorf("bounds = %v..%v", bounds.Min, bounds.Max)
	}

	if _, ok := system.Bounds(em.CreateEntity()); ok {
		t.Error("entity without components should have no bounds")
	}
}

// TestPickPlaceable 测试指针拾取
func TestPickPlaceable(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewCollisionSystem(em)

	lower := addBox(em, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0.25, 1}, true)
	upper := addBox(em, mgl64.Vec3{1.5, 1, 0}, mgl64.Vec3{1, 0.25, 1}, true)
	addBox(em, mgl64.Vec3{10, 1, 10}, mgl64.Vec3{1, 0.25, 1}, false)

	tests := []struct {
		name   string
		x, z   float64
		want   ecs.EntityID
		wantOK bool
	}{
		{"只命中下层", -0.5, 0, lower, true},
		{"重叠时取ID最大", 0.8, 0.2, upper, true},
		{"空白处", 5, 5, 0, false},
		{"不可放置实体不参与拾取", 10, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := system.PickPlaceable(tt.x, tt.z)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("PickPlaceable(%v, %v) = (%d, %v), want (%d, %v)", tt.x, tt.z, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
