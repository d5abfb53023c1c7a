package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/config"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrNotATray 实体缺少托盘所需的组件
	ErrNotATray = errors.New("entity is not a tray")
	// ErrDragInProgress 已有托盘处于拖拽中（同一时刻只允许一个拖拽）
	ErrDragInProgress = errors.New("a tray is already being dragged")
	// ErrNotDragging 托盘不在拖拽中
	ErrNotDragging = errors.New("tray is not being dragged")
)

// RejectReason 放置被拒绝的原因
// 仅用于日志和测试，对调用方而言所有拒绝都是同一个结果：托盘弹回原位
type RejectReason int

const (
	// RejectNone 未拒绝
	RejectNone RejectReason = iota
	// RejectOutOfBounds 占地超出网格
	RejectOutOfBounds
	// RejectOccupied 目标格子已被占用
	RejectOccupied
	// RejectOverlap 与其他托盘的碰撞盒重叠
	RejectOverlap
)

// String 返回原因名称
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectOutOfBounds:
		return "out of bounds"
	case RejectOccupied:
		return "occupied"
	case RejectOverlap:
		return "overlap"
	default:
		return "unknown"
	}
}

// PlacementResult 一次放置尝试的结果
type PlacementResult struct {
	// Accepted 是否放置成功
	Accepted bool
	// Reason 拒绝原因（成功时为 RejectNone）
	Reason RejectReason
	// Target 吸附得到的基准格子
	Target components.GridCell
	// Blocker 占用目标格子或与之重叠的托盘（越界或成功时为 0）
	Blocker ecs.EntityID
	// Position 处理后托盘所在位置（成功为吸附位置，失败为拖拽前位置）
	Position mgl64.Vec3
	// Cells 处理后托盘占用的格子
	Cells []components.GridCell
}

// TrayDragSystem 处理托盘的拖拽放置
//
// 状态机：Idle --BeginDrag--> Dragging --EndDrag/CancelDrag--> Idle
//
//   - BeginDrag: 记录回滚位置，释放托盘占用的格子
//   - UpdateDrag: 跟随指针移动（限制在网格内，不吸附，不改变占用）
//   - EndDrag: 吸附到最近的格子并校验（越界、占用、重叠），
//     失败时恢复拖拽前的格子和位置
//
// 系统不依赖帧循环，测试中可直接同步调用。
type TrayDragSystem struct {
	entityManager *ecs.EntityManager
	grid          *OccupancyGridSystem
	collisions    OverlapQuery

	// activeTray 当前拖拽中的托盘（0 表示没有）
	activeTray ecs.EntityID
}

// NewTrayDragSystem 创建托盘拖拽系统
// 参数:
//   - em: EntityManager 实例
//   - grid: 共享的网格占用系统
//   - collisions: 重叠查询（通常是 CollisionSystem）
func NewTrayDragSystem(em *ecs.EntityManager, grid *OccupancyGridSystem, collisions OverlapQuery) *TrayDragSystem {
	return &TrayDragSystem{
		entityManager: em,
		grid:          grid,
		collisions:    collisions,
	}
}

// ActiveTray 返回当前拖拽中的托盘
func (s *TrayDragSystem) ActiveTray() (ecs.EntityID, bool) {
	return s.activeTray, s.activeTray != 0
}

// tray 获取托盘组件和位置组件
func (s *TrayDragSystem) tray(id ecs.EntityID) (*components.TrayComponent, *components.PositionComponent, error) {
	tray, ok := ecs.GetComponent[*components.TrayComponent](s.entityManager, id)
	if !ok {
		return nil, nil, fmt.Errorf("entity %d: %w", id, ErrNotATray)
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return nil, nil, fmt.Errorf("entity %d has no PositionComponent: %w", id, ErrNotATray)
	}
	return tray, pos, nil
}

// BeginDrag 开始拖拽托盘
//
// 记录当前位置用于回滚，从共享占用表中释放托盘占用的格子。
// 释放后其他托盘在本次拖拽结束前可以看到这些格子为空。
//
// 返回:
//   - error: 托盘不存在，或已有托盘在拖拽中（ErrDragInProgress）
func (s *TrayDragSystem) BeginDrag(id ecs.EntityID) error {
	tray, pos, err := s.tray(id)
	if err != nil {
		return err
	}

	if s.activeTray != 0 || tray.IsDragging() {
		return fmt.Errorf("cannot drag tray %d while tray %d is dragging: %w", id, s.activeTray, ErrDragInProgress)
	}

	tray.DragStartPosition = pos.Vec()
	tray.DragStartCells = tray.Cells

	if err := s.grid.ReleaseCells(tray.Cells); err != nil {
		return fmt.Errorf("failed to release cells of tray %d: %w", id, err)
	}
	tray.Cells = nil

	tray.State = components.TrayDragging
	s.activeTray = id

	log.Printf("[TrayDragSystem] 开始拖拽托盘 %s (ID: %d)，释放格子 %v", tray.Name, id, tray.DragStartCells)
	return nil
}

// UpdateDrag 更新拖拽中的托盘位置
//
// 参数:
//   - pointerWorld: 指针射线与参考平面的交点（世界坐标）
//
// 位置投影到固定放置高度，并限制在网格内（保证整个占地区域不越界）。
// 不吸附，不修改占用表。
func (s *TrayDragSystem) UpdateDrag(id ecs.EntityID, pointerWorld mgl64.Vec3) error {
	tray, pos, err := s.tray(id)
	if err != nil {
		return err
	}
	if !tray.IsDragging() {
		return fmt.Errorf("tray %d: %w", id, ErrNotDragging)
	}

	layout := s.grid.Layout()
	candidate := mgl64.Vec3{pointerWorld.X(), layout.FixedY, pointerWorld.Z()}
	pos.Set(utils.ClampToGrid(layout, tray.Width, tray.Depth, candidate))
	return nil
}

// EndDrag 结束拖拽，尝试吸附放置
//
// 放置被拒绝不是错误：结果中 Accepted 为 false，托盘已恢复到拖拽前的位置和格子。
//
// 返回:
//   - PlacementResult: 放置结果
//   - error: 仅当托盘不存在或不在拖拽中时返回
func (s *TrayDragSystem) EndDrag(id ecs.EntityID) (PlacementResult, error) {
	tray, pos, err := s.tray(id)
	if err != nil {
		return PlacementResult{}, err
	}
	if !tray.IsDragging() {
		return PlacementResult{}, fmt.Errorf("tray %d: %w", id, ErrNotDragging)
	}

	snapped, base := utils.SnapToGrid(s.grid.Layout(), tray.Width, tray.Depth, pos.Vec())
	result := s.tryPlace(id, tray, pos, snapped, base)
	s.finishDrag(id, tray)
	return result, nil
}

// Preview 计算拖拽中托盘在当前位置松手时的放置结果，不修改任何状态
// 用于绘制吸附预览
func (s *TrayDragSystem) Preview(id ecs.EntityID) (PlacementResult, error) {
	tray, pos, err := s.tray(id)
	if err != nil {
		return PlacementResult{}, err
	}
	if !tray.IsDragging() {
		return PlacementResult{}, fmt.Errorf("tray %d: %w", id, ErrNotDragging)
	}

	snapped, base := utils.SnapToGrid(s.grid.Layout(), tray.Width, tray.Depth, pos.Vec())
	cells := utils.FootprintCells(base, tray.Width, tray.Depth)
	reason, blocker := s.validate(id, tray, snapped, cells)
	return PlacementResult{
		Accepted: reason == RejectNone,
		Reason:   reason,
		Target:   base,
		Blocker:  blocker,
		Position: snapped,
		Cells:    cells,
	}, nil
}

// CancelDrag 取消拖拽，恢复拖拽前的位置和格子
func (s *TrayDragSystem) CancelDrag(id ecs.EntityID) error {
	tray, pos, err := s.tray(id)
	if err != nil {
		return err
	}
	if !tray.IsDragging() {
		return fmt.Errorf("tray %d: %w", id, ErrNotDragging)
	}

	s.rollback(id, tray, pos)
	s.finishDrag(id, tray)
	log.Printf("[TrayDragSystem] 取消拖拽托盘 %s (ID: %d)", tray.Name, id)
	return nil
}

// PlaceTray 将空闲托盘直接放置到指定基准格子
//
// 校验规则与 EndDrag 相同；失败时托盘保持原来的位置和格子。
// 用于初始化场景（托盘创建后没有占用任何格子）。
func (s *TrayDragSystem) PlaceTray(id ecs.EntityID, base components.GridCell) (PlacementResult, error) {
	tray, pos, err := s.tray(id)
	if err != nil {
		return PlacementResult{}, err
	}
	// 拖拽中的托盘松手时要恢复原来的格子，期间不能被其他托盘占走
	if s.activeTray != 0 || tray.IsDragging() {
		return PlacementResult{}, fmt.Errorf("cannot place tray %d: %w", id, ErrDragInProgress)
	}

	tray.DragStartPosition = pos.Vec()
	tray.DragStartCells = tray.Cells
	if err := s.grid.ReleaseCells(tray.Cells); err != nil {
		return PlacementResult{}, fmt.Errorf("failed to release cells of tray %d: %w", id, err)
	}
	tray.Cells = nil

	target := utils.CellToWorld(s.grid.Layout(), base, tray.Width, tray.Depth)
	result := s.tryPlace(id, tray, pos, target, base)
	tray.DragStartCells = nil
	return result, nil
}

// RemoveTray 释放托盘占用的格子并销毁实体
func (s *TrayDragSystem) RemoveTray(id ecs.EntityID) error {
	tray, _, err := s.tray(id)
	if err != nil {
		return err
	}

	if s.activeTray == id {
		s.activeTray = 0
	}
	if tray.IsPlaced() {
		if err := s.grid.ReleaseCells(tray.Cells); err != nil {
			return fmt.Errorf("failed to release cells of tray %d: %w", id, err)
		}
	}
	tray.Cells = nil
	tray.DragStartCells = nil
	tray.State = components.TrayIdle

	s.entityManager.DestroyEntity(id)
	log.Printf("[TrayDragSystem] 移除托盘 %s (ID: %d)", tray.Name, id)
	return nil
}

// tryPlace 校验并提交放置，失败时回滚
func (s *TrayDragSystem) tryPlace(id ecs.EntityID, tray *components.TrayComponent, pos *components.PositionComponent,
	snapped mgl64.Vec3, base components.GridCell) PlacementResult {
	cells := utils.FootprintCells(base, tray.Width, tray.Depth)
	reason, blocker := s.validate(id, tray, snapped, cells)

	if reason != RejectNone {
		s.rollback(id, tray, pos)
		log.Printf("[TrayDragSystem] 托盘 %s (ID: %d) 放置到 %v 失败: %s，恢复到 %v",
			tray.Name, id, base, reason, tray.Cells)
		return PlacementResult{
			Reason:   reason,
			Target:   base,
			Blocker:  blocker,
			Position: pos.Vec(),
			Cells:    tray.Cells,
		}
	}

	if err := s.grid.OccupyCells(cells, id); err != nil {
		// 校验已通过，这里失败说明占用表与托盘状态不一致
		log.Printf("[TrayDragSystem] 警告：提交放置失败: %v", err)
		s.rollback(id, tray, pos)
		return PlacementResult{
			Reason:   RejectOccupied,
			Target:   base,
			Position: pos.Vec(),
			Cells:    tray.Cells,
		}
	}

	pos.Set(snapped)
	tray.Cells = cells
	log.Printf("[TrayDragSystem] 托盘 %s (ID: %d) 放置到 %v，占用格子 %v", tray.Name, id, base, cells)

	return PlacementResult{
		Accepted: true,
		Target:   base,
		Position: snapped,
		Cells:    cells,
	}
}

// validate 依次执行越界、占用、重叠检查
func (s *TrayDragSystem) validate(id ecs.EntityID, tray *components.TrayComponent,
	snapped mgl64.Vec3, cells []components.GridCell) (RejectReason, ecs.EntityID) {
	layout := s.grid.Layout()

	for _, cell := range cells {
		if !utils.InBounds(layout, cell) {
			return RejectOutOfBounds, 0
		}
		if owner, occupied := s.grid.OccupantOf(cell); occupied {
			return RejectOccupied, owner
		}
	}

	if blocker, ok := s.overlappingTray(id, tray, layout, snapped); ok {
		return RejectOverlap, blocker
	}

	return RejectNone, 0
}

// overlappingTray 查询与放置位置重叠的其他托盘
// 检测盒半尺寸扣除 OverlapMargin，相邻托盘边贴边不算重叠
func (s *TrayDragSystem) overlappingTray(id ecs.EntityID, tray *components.TrayComponent,
	layout config.GridLayout, center mgl64.Vec3) (ecs.EntityID, bool) {
	if s.collisions == nil {
		return 0, false
	}

	halfExtents := mgl64.Vec3{
		float64(tray.Width)*layout.CellSize*0.5 - config.OverlapMargin,
		config.OverlapHalfHeight,
		float64(tray.Depth)*layout.CellSize*0.5 - config.OverlapMargin,
	}

	for _, hit := range s.collisions.OverlapBox(center, halfExtents, id) {
		if hit == id {
			continue
		}
		if ecs.HasComponent[*components.PlaceableComponent](s.entityManager, hit) {
			return hit, true
		}
	}
	return 0, false
}

// rollback 恢复拖拽前的格子和位置
func (s *TrayDragSystem) rollback(id ecs.EntityID, tray *components.TrayComponent, pos *components.PositionComponent) {
	if err := s.grid.OccupyCells(tray.DragStartCells, id); err != nil {
		// OccupyCells 失败时不会留下部分占用，托盘也就不再占用任何格子
		log.Printf("[TrayDragSystem] 警告：恢复托盘 %d 的格子失败: %v", id, err)
		tray.Cells = nil
	} else {
		tray.Cells = tray.DragStartCells
	}
	pos.Set(tray.DragStartPosition)
}

// finishDrag 回到空闲状态
func (s *TrayDragSystem) finishDrag(id ecs.EntityID, tray *components.TrayComponent) {
	tray.State = components.TrayIdle
	tray.DragStartCells = nil
	if s.activeTray == id {
		s.activeTray = 0
	}
}
