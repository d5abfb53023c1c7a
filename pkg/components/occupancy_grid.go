package components

import "github.com/decker502/traygrid/pkg/ecs"

// OccupancyGridComponent 标识网格占用管理器实体
// 用于跟踪哪些格子已被托盘占用
//
// Cells 存储被占用的格子及占用它的托盘实体ID，未出现的格子为空
// 场景中只有一个网格实体，所有托盘共享同一份占用表
type OccupancyGridComponent struct {
	Cells map[GridCell]ecs.EntityID
}

// NewOccupancyGridComponent 创建空的占用表
func NewOccupancyGridComponent() *OccupancyGridComponent {
	return &OccupancyGridComponent{
		Cells: make(map[GridCell]ecs.EntityID),
	}
}
