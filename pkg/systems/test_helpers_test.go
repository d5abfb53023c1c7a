package systems

import (
	"testing"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/config"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/entities"
	"github.com/decker502/traygrid/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// testScene 测试用的最小场景：网格 + 碰撞 + 拖拽系统
type testScene struct {
	em         *ecs.EntityManager
	layout     config.GridLayout
	grid       *OccupancyGridSystem
	collisions *CollisionSystem
	drag       *TrayDragSystem
}

// newTestScene 使用默认布局（7x8，边长 2，原点 (0,0)，高度 1）创建场景
func newTestScene(t *testing.T) *testScene {
	t.Helper()
	return newTestSceneWithLayout(t, config.DefaultGridLayout())
}

func newTestSceneWithLayout(t *testing.T, layout config.GridLayout) *testScene {
	t.Helper()

	em := ecs.NewEntityManager()
	gridEntity, err := entities.NewOccupancyGridEntity(em)
	if err != nil {
		t.Fatalf("failed to create grid entity: %v", err)
	}

	grid := NewOccupancyGridSystem(em, layout, gridEntity)
	collisions := NewCollisionSystem(em)
	return &testScene{
		em:         em,
		layout:     layout,
		grid:       grid,
		collisions: collisions,
		drag:       NewTrayDragSystem(em, grid, collisions),
	}
}

// spawnTray 创建未放置的托盘，位置在网格外
func (s *testScene) spawnTray(t *testing.T, name string, width, depth int) ecs.EntityID {
	t.Helper()
	id, err := entities.NewTrayEntity(s.em, s.layout, config.TrayConfig{Name: name, Width: width, Depth: depth},
		mgl64.Vec3{-100, s.layout.FixedY, -100})
	if err != nil {
		t.Fatalf("failed to create tray %s: %v", name, err)
	}
	return id
}

// placeTray 创建托盘并放置到 base，放置失败时终止测试
func (s *testScene) placeTray(t *testing.T, name string, width, depth int, base components.GridCell) ecs.EntityID {
	t.Helper()
	id := s.spawnTray(t, name, width, depth)
	result, err := s.drag.PlaceTray(id, base)
	if err != nil {
		t.Fatalf("PlaceTray(%s) error: %v", name, err)
	}
	if !result.Accepted {
		t.Fatalf("PlaceTray(%s) at %v rejected: %s", name, base, result.Reason)
	}
	return id
}

// dragTo 完整执行一次拖拽：开始、移动到 world、结束
func (s *testScene) dragTo(t *testing.T, id ecs.EntityID, world mgl64.Vec3) PlacementResult {
	t.Helper()
	if err := s.drag.BeginDrag(id); err != nil {
		t.Fatalf("BeginDrag(%d) error: %v", id, err)
	}
	if err := s.drag.UpdateDrag(id, world); err != nil {
		t.Fatalf("UpdateDrag(%d) error: %v", id, err)
	}
	result, err := s.drag.EndDrag(id)
	if err != nil {
		t.Fatalf("EndDrag(%d) error: %v", id, err)
	}
	return result
}

func (s *testScene) tray(t *testing.T, id ecs.EntityID) *components.TrayComponent {
	t.Helper()
	tray, ok := ecs.GetComponent[*components.TrayComponent](s.em, id)
	if !ok {
		t.Fatalf("entity %d has no TrayComponent", id)
	}
	return tray
}

func (s *testScene) position(t *testing.T, id ecs.EntityID) mgl64.Vec3 {
	t.Helper()
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
	if !ok {
		t.Fatalf("entity %d has no PositionComponent", id)
	}
	return pos.Vec()
}

// cellWorld 返回单格托盘放在 cell 时的世界坐标
func (s *testScene) cellWorld(cell components.GridCell) mgl64.Vec3 {
	return utils.CellToWorld(s.layout, cell, 1, 1)
}

// checkInvariant 校验占用表恰好等于所有托盘占用格子的并集，且没有格子被重复占用
func (s *testScene) checkInvariant(t *testing.T) {
	t.Helper()

	union := make(map[components.GridCell]ecs.EntityID)
	for _, id := range ecs.GetEntitiesWith1[*components.TrayComponent](s.em) {
		tray := s.tray(t, id)
		for _, cell := range tray.Cells {
			if other, dup := union[cell]; dup {
				t.Fatalf("cell %v claimed by both tray %d and tray %d", cell, other, id)
			}
			if !utils.InBounds(s.layout, cell) {
				t.Fatalf("tray %d claims out-of-bounds cell %v", id, cell)
			}
			union[cell] = id
		}
	}

	if s.grid.Count() != len(union) {
		t.Fatalf("occupancy set has %d cells, trays claim %d", s.grid.Count(), len(union))
	}
	for cell, id := range union {
		owner, ok := s.grid.OccupantOf(cell)
		if !ok || owner != id {
			t.Fatalf("cell %v: occupancy says (%d, %v), tray %d claims it", cell, owner, ok, id)
		}
	}
}

func vecApprox(a, b mgl64.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-9)
}
