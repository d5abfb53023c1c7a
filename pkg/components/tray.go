package components

import "github.com/go-gl/mathgl/mgl64"

// TrayState 托盘拖拽状态
type TrayState int

const (
	// TrayIdle 空闲（已放置或尚未放置）
	TrayIdle TrayState = iota
	// TrayDragging 拖拽中
	TrayDragging
)

// String 返回状态名称
func (s TrayState) String() string {
	switch s {
	case TrayIdle:
		return "idle"
	case TrayDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// TrayComponent 标识实体为托盘
//
// 托盘占地 Width x Depth 个格子，Cells 是当前占用的格子
// （尚未放置或拖拽中时为空）。拖拽开始时记录位置和格子，
// 放置失败时据此回滚。
//
// 此组件与 PositionComponent、BoxColliderComponent、PlaceableComponent 配合使用
type TrayComponent struct {
	// Name 托盘名称（日志用）
	Name string

	// Width 占地宽度（X 方向格子数，>= 1）
	Width int
	// Depth 占地深度（Z 方向格子数，>= 1）
	Depth int

	// Cells 当前占用的格子
	Cells []GridCell

	// State 拖拽状态
	State TrayState

	// DragStartPosition 拖拽开始时的位置（回滚用）
	DragStartPosition mgl64.Vec3
	// DragStartCells 拖拽开始时占用的格子（回滚用）
	DragStartCells []GridCell
}

// IsDragging 是否处于拖拽中
func (t *TrayComponent) IsDragging() bool {
	return t.State == TrayDragging
}

// IsPlaced 是否已在网格上占用格子
func (t *TrayComponent) IsPlaced() bool {
	return len(t.Cells) > 0
}
